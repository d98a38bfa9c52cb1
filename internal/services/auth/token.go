// Package auth provides password hashing and JWT token handling.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Common errors
var (
	ErrMissingSecret = errors.New("JWT secret is not configured")
	ErrInvalidToken  = errors.New("invalid or expired token")
)

// Claims carries the customer identity inside a JWT.
type Claims struct {
	CustomerID int64  `json:"customer_id"`
	Email      string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies customer access tokens.
type TokenService struct {
	secret []byte
	expiry time.Duration
}

// NewTokenService creates a token service. expiryMinutes of 0 or less
// falls back to one hour.
func NewTokenService(secret string, expiryMinutes int) (*TokenService, error) {
	if secret == "" {
		return nil, ErrMissingSecret
	}

	expiry := time.Duration(expiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = time.Hour
	}

	return &TokenService{
		secret: []byte(secret),
		expiry: expiry,
	}, nil
}

// Issue creates a signed token for the customer.
func (s *TokenService) Issue(customerID int64, email string) (string, error) {
	now := time.Now().UTC()

	claims := &Claims{
		CustomerID: customerID,
		Email:      email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "loan-management-platform",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// Verify parses a token and returns its claims.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
