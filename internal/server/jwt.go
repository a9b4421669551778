package server

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
	"github.com/ronaldsalkes/cvmaster/internal/server/middleware"
)

// Claims are the identity-provider token claims we consume. The provider
// issues the token; this server only verifies it and reads the display name.
type Claims struct {
	Name string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

// TokenVerifier validates HS256 tokens signed with the shared secret.
type TokenVerifier struct {
	secret []byte
}

// NewTokenVerifier creates a verifier for the given shared secret.
func NewTokenVerifier(secret string) (*TokenVerifier, error) {
	if secret == "" {
		return nil, fmt.Errorf("JWT secret is empty")
	}
	return &TokenVerifier{secret: []byte(secret)}, nil
}

// ValidateToken checks the signature and expiry and returns the identity.
func (v *TokenVerifier) ValidateToken(tokenString string) (middleware.Identity, error) {
	if tokenString == "" {
		return middleware.Identity{}, fmt.Errorf("token string is empty")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil {
		return middleware.Identity{}, fmt.Errorf("invalid token: %w", err)
	}
	if !token.Valid {
		return middleware.Identity{}, fmt.Errorf("invalid token")
	}

	return middleware.Identity{Subject: claims.Subject, Name: claims.Name}, nil
}
