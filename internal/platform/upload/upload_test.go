package upload

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"electoral/internal/platform/objectstore"
	dErrors "electoral/pkg/domain-errors"
	"electoral/pkg/testutil"
)

func parsed(t *testing.T, req *http.Request) *http.Request {
	t.Helper()
	require.NoError(t, ParseForm(httptest.NewRecorder(), req))
	return req
}

func TestSave(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemory()
	u := New(store)

	t.Run("image is stored under the folder", func(t *testing.T) {
		req := parsed(t, testutil.NewMultipartRequest(t, http.MethodPost, "/", nil, map[string][]byte{"photo": testutil.PNG}))
		key, err := u.Save(ctx, req, "photo", ProfilePhotoFolder("agent"))
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(key, "profile-photos/agent/"), key)
		assert.True(t, strings.HasSuffix(key, ".png"), key)
		assert.True(t, store.Has(key))
	})

	t.Run("missing field is not an error", func(t *testing.T) {
		req := parsed(t, testutil.NewMultipartRequest(t, http.MethodPost, "/", map[string]string{"a": "b"}, nil))
		key, err := u.Save(ctx, req, "photo", PartySymbolFolder)
		require.NoError(t, err)
		assert.Empty(t, key)
	})

	t.Run("non-image is rejected", func(t *testing.T) {
		req := parsed(t, testutil.NewMultipartRequest(t, http.MethodPost, "/", nil, map[string][]byte{"photo": []byte("plain text")}))
		_, err := u.Save(ctx, req, "photo", PartySymbolFolder)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("oversized file is rejected", func(t *testing.T) {
		big := append(bytes.Clone(testutil.PNG), make([]byte, MaxFileSize)...)
		req := parsed(t, testutil.NewMultipartRequest(t, http.MethodPost, "/", nil, map[string][]byte{"photo": big}))
		_, err := u.Save(ctx, req, "photo", PartySymbolFolder)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
