package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123"

func newManager(t *testing.T) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(testSecret, "oas-broadcaster", "oas-editors", time.Hour)
	require.NoError(t, err)
	return m
}

func TestNewJWTManagerRejectsShortSecret(t *testing.T) {
	_, err := NewJWTManager("short", "iss", "aud", time.Hour)
	assert.Error(t, err)
}

func TestIssueAndValidate(t *testing.T) {
	m := newManager(t)

	token, err := m.IssueToken("user-1", "editor@example.org", RoleEditor, "oas")
	require.NoError(t, err)

	claims, err := m.ValidateToken(context.Background(), "Bearer "+token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, "editor@example.org", claims.Email)
	assert.Equal(t, RoleEditor, claims.Role)
	assert.Equal(t, "oas", claims.Journal)
}

func TestIssueTokenUnknownRole(t *testing.T) {
	_, err := newManager(t).IssueToken("u", "e", "admin", "")
	assert.Error(t, err)
}

func TestValidateTokenRejects(t *testing.T) {
	m := newManager(t)
	token, err := m.IssueToken("u", "e", RoleStaff, "")
	require.NoError(t, err)

	other, err := NewJWTManager("another-secret-value", "oas-broadcaster", "oas-editors", time.Hour)
	require.NoError(t, err)
	_, err = other.ValidateToken(context.Background(), token)
	assert.Error(t, err, "signature from another key")

	wrongAudience, err := NewJWTManager(testSecret, "oas-broadcaster", "someone-else", time.Hour)
	require.NoError(t, err)
	_, err = wrongAudience.ValidateToken(context.Background(), token)
	assert.Error(t, err, "audience")

	_, err = m.ValidateToken(context.Background(), "")
	assert.Error(t, err, "empty")

	_, err = m.ValidateToken(context.Background(), "not.a.token")
	assert.Error(t, err, "garbage")
}

func TestValidateTokenExpired(t *testing.T) {
	m := newManager(t)
	m.nowFunc = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, err := m.IssueToken("u", "e", RoleEditor, "")
	require.NoError(t, err)

	m.nowFunc = time.Now
	_, err = m.ValidateToken(context.Background(), token)
	assert.Error(t, err)
}

func TestHasRole(t *testing.T) {
	staff := &Claims{Role: RoleStaff}
	editor := &Claims{Role: RoleEditor}

	assert.True(t, staff.HasRole(RoleStaff))
	assert.True(t, staff.HasRole(RoleEditor))
	assert.True(t, editor.HasRole(RoleEditor))
	assert.False(t, editor.HasRole(RoleStaff))
}

func TestClaimsContext(t *testing.T) {
	_, ok := ClaimsFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithClaims(context.Background(), &Claims{Role: RoleEditor})
	claims, ok := ClaimsFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, RoleEditor, claims.Role)
}
