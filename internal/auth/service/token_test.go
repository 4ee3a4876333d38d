package service

import (
	"testing"
	"time"

	"github.com/courseforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() models.User {
	return models.User{
		ID:         "user-1",
		Name:       "Ana",
		Email:      "ana@example.com",
		Avatar:     "https://example.com/ana.png",
		IsApproved: true,
	}
}

func TestTokenService_GenerateAndValidate(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	token, err := ts.GenerateToken(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := ts.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.True(t, user.IsApproved)
}

func TestTokenService_ValidateToken_Errors(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "garbage token",
			token: func(t *testing.T) string {
				return "not.a.token"
			},
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				other := NewTokenService("other-secret", time.Hour)
				token, err := other.GenerateToken(testUser())
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "expired token",
			token: func(t *testing.T) string {
				expired := NewTokenService("test-secret", -time.Hour)
				token, err := expired.GenerateToken(testUser())
				require.NoError(t, err)
				return token
			},
		},
		{
			name: "missing subject",
			token: func(t *testing.T) string {
				token, err := ts.GenerateToken(models.User{IsApproved: true})
				require.NoError(t, err)
				return token
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := ts.ValidateToken(tt.token(t))
			assert.Nil(t, user)
			assert.Error(t, err)
		})
	}
}

func TestTokenService_UnapprovedFlagSurvives(t *testing.T) {
	ts := NewTokenService("test-secret", time.Hour)

	pending := testUser()
	pending.IsApproved = false

	token, err := ts.GenerateToken(pending)
	require.NoError(t, err)

	user, err := ts.ValidateToken(token)
	require.NoError(t, err)
	assert.False(t, user.IsApproved)
}
