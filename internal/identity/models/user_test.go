package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeProfile(t *testing.T) {
	age := 40
	existing := Profile{FirstName: "Asha", LastName: "Rao", Phone: "900", PhotoKey: "profile-photos/voter/old.jpg"}

	t.Run("empty incoming fields keep stored values", func(t *testing.T) {
		got := MergeProfile(existing, Profile{LastName: "Rao-Iyer", Age: &age}, PhotoReplace)
		assert.Equal(t, "Asha", got.FirstName)
		assert.Equal(t, "Rao-Iyer", got.LastName)
		assert.Equal(t, "900", got.Phone)
		assert.Equal(t, &age, got.Age)
		assert.Equal(t, existing.PhotoKey, got.PhotoKey)
	})

	t.Run("replace policy overwrites photo", func(t *testing.T) {
		got := MergeProfile(existing, Profile{PhotoKey: "profile-photos/agent/new.jpg"}, PhotoReplace)
		assert.Equal(t, "profile-photos/agent/new.jpg", got.PhotoKey)
	})

	t.Run("keep policy preserves existing photo", func(t *testing.T) {
		got := MergeProfile(existing, Profile{PhotoKey: "profile-photos/candidate/new.jpg"}, PhotoKeepExisting)
		assert.Equal(t, existing.PhotoKey, got.PhotoKey)
	})

	t.Run("keep policy fills a missing photo", func(t *testing.T) {
		got := MergeProfile(Profile{}, Profile{PhotoKey: "profile-photos/candidate/new.jpg"}, PhotoKeepExisting)
		assert.Equal(t, "profile-photos/candidate/new.jpg", got.PhotoKey)
	})
}

func TestPhotoFolder(t *testing.T) {
	assert.Equal(t, "agent", RoleAgent.PhotoFolder())
	assert.Equal(t, "master-admin", RoleMasterAdmin.PhotoFolder())
	assert.Equal(t, "others", RoleName("GUEST").PhotoFolder())
}
