// Package auth is the authorization collaborator: it turns a bearer token
// into the acting organizer, or nothing.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jmkivinen/trialreg/internal/domain"
)

// JWTManager handles JWT access token generation and validation.
type JWTManager struct {
	secret []byte
	issuer string
}

// NewJWTManager creates a new JWT manager.
// secret must be at least 32 characters for HS256 security.
func NewJWTManager(secret string, issuer string) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		issuer: issuer,
	}
}

// accessClaims extends standard JWT claims with the organizer's display
// name, email and admin flag.
type accessClaims struct {
	jwt.RegisteredClaims
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Admin bool   `json:"admin,omitempty"`
}

// GenerateAccessToken creates a signed HS256 JWT for the given user with
// the user id as subject. Used by tests and the token-issuing tooling.
func (m *JWTManager) GenerateAccessToken(user domain.User, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := accessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Name:  user.Name,
		Email: user.Email,
		Admin: user.Admin,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// ValidateAccessToken parses and validates a JWT access token and returns
// the acting user.
func (m *JWTManager) ValidateAccessToken(tokenString string) (domain.User, error) {
	if tokenString == "" {
		return domain.User{}, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &accessClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})

	if err != nil {
		return domain.User{}, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*accessClaims)
	if !ok || !token.Valid {
		return domain.User{}, fmt.Errorf("invalid token claims")
	}

	if claims.Issuer != m.issuer {
		return domain.User{}, fmt.Errorf("invalid issuer: expected %s, got %s", m.issuer, claims.Issuer)
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return domain.User{}, fmt.Errorf("invalid subject UUID: %w", err)
	}

	return domain.User{
		ID:    userID,
		Name:  claims.Name,
		Email: claims.Email,
		Admin: claims.Admin,
	}, nil
}
