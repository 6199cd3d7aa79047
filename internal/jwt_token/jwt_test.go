package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "electoral/pkg/domain"
	dErrors "electoral/pkg/domain-errors"
)

var jwtService = NewJWTService(
	"test-signing-key",
	"test-issuer",
	"test-audience",
)
var userID = id.UserID(42)
var roles = []string{"VOTER", "AGENT"}
var expiresIn = time.Hour

func Test_GenerateAccessToken(t *testing.T) {
	now := time.Now()
	issued, err := jwtService.GenerateAccessToken(userID, roles, now, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.NotEmpty(t, issued.JTI)

	claims, err := jwtService.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, roles, claims.Roles)
	assert.Equal(t, issued.JTI, claims.ID)
	assert.WithinDuration(t, now.Add(expiresIn), claims.ExpiresAt.Time, time.Second)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := jwtService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	issued, err := jwtService.GenerateAccessToken(userID, roles, time.Now().Add(-2*time.Hour), expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(issued.Token)
	require.Error(t, err)
	assert.Equal(t, "token has expired", dErrors.MessageOf(err))
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewJWTService("other-key", "test-issuer", "test-audience")
	issued, err := other.GenerateAccessToken(userID, roles, time.Now(), expiresIn)
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(issued.Token)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_AdapterCarriesRolesAndJTI(t *testing.T) {
	issued, err := jwtService.GenerateAccessToken(userID, roles, time.Now(), expiresIn)
	require.NoError(t, err)

	claims, err := NewJWTServiceAdapter(jwtService).ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "42", claims.UserID)
	assert.Equal(t, roles, claims.Roles)
	assert.Equal(t, issued.JTI, claims.JTI)
	assert.False(t, claims.ExpiresAt.IsZero())
}
