// Package service validates the identity tokens issued by the external
// identity provider. The backend never creates accounts itself; it only
// reads the identity claims out of a trusted, shared-secret JWT.
package service

import (
	"fmt"
	"time"

	"github.com/courseforge/backend/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// TokenService validates identity-provider tokens and, for tests and local
// development, can mint them with the same shared secret.
type TokenService struct {
	secret string
	expiry time.Duration
}

// NewTokenService creates a new token service
func NewTokenService(secret string, expiry time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		expiry: expiry,
	}
}

// GenerateToken creates an identity token carrying the user's claims.
// Mirrors what the identity provider issues, used in tests and local setups.
func (ts *TokenService) GenerateToken(user models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":      user.ID,
		"name":     user.Name,
		"email":    user.Email,
		"avatar":   user.Avatar,
		"approved": user.IsApproved,
		"exp":      time.Now().Add(ts.expiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(ts.secret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return tokenString, nil
}

// ValidateToken validates an identity token and returns the user it
// identifies
func (ts *TokenService) ValidateToken(tokenString string) (*models.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Validate the signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(ts.secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	user := &models.User{ID: sub}
	user.Name, _ = claims["name"].(string)
	user.Email, _ = claims["email"].(string)
	user.Avatar, _ = claims["avatar"].(string)
	user.IsApproved, _ = claims["approved"].(bool)

	return user, nil
}
