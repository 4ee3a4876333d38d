package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courseforge/backend/internal/auth/service"
	"github.com/courseforge/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func issueToken(t *testing.T, tokens *service.TokenService, approved bool) string {
	t.Helper()
	token, err := tokens.GenerateToken(models.User{
		ID:         "user-1",
		Name:       "Ana",
		IsApproved: approved,
	})
	require.NoError(t, err)
	return token
}

func TestAuthMiddleware(t *testing.T) {
	tokens := service.NewTokenService("test-secret", time.Hour)

	var gotUser models.User
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = GetUser(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := AuthMiddleware(tokens)(next)

	tests := []struct {
		name           string
		setupRequest   func(r *http.Request)
		expectedStatus int
	}{
		{
			name: "valid bearer token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, true))
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "valid cookie token",
			setupRequest: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "access_token", Value: issueToken(t, tokens, true)})
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing token",
			setupRequest:   func(r *http.Request) {},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "invalid token",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer not.a.token")
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name: "unapproved account",
			setupRequest: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+issueToken(t, tokens, false))
			},
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotUser, gotOK = models.User{}, false

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setupRequest(req)
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedStatus == http.StatusOK {
				assert.True(t, gotOK)
				assert.Equal(t, "user-1", gotUser.ID)
			} else {
				assert.False(t, gotOK)
			}
		})
	}
}
