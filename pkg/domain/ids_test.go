package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "electoral/pkg/domain-errors"
)

func TestParseID_Invariants(t *testing.T) {
	t.Run("rejects empty string", func(t *testing.T) {
		_, err := ParseElectionID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects non numeric", func(t *testing.T) {
		_, err := ParseUserID("abc")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects zero and negatives", func(t *testing.T) {
		for _, in := range []string{"0", "-4"} {
			_, err := ParseCandidateID(in)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput), in)
		}
	})

	t.Run("trims whitespace", func(t *testing.T) {
		id, err := ParseWardID(" 9 ")
		require.NoError(t, err)
		assert.Equal(t, WardID(9), id)
	})
}

func TestParseOptionalWardID(t *testing.T) {
	w, err := ParseOptionalWardID("")
	require.NoError(t, err)
	assert.Nil(t, w)

	w, err = ParseOptionalWardID("12")
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, WardID(12), *w)

	_, err = ParseOptionalWardID("twelve")
	assert.Error(t, err)
}
