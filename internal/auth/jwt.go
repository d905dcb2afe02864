package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/swiftdrop/courier-api/internal/domain"
)

// Purpose scopes a token to a single use. Session tokens and password-reset
// tokens share the signing secret but are never interchangeable.
type Purpose string

const (
	PurposeSession       Purpose = "session"
	PurposePasswordReset Purpose = "password_reset"
)

var ErrWrongPurpose = fmt.Errorf("token purpose mismatch")

type Claims struct {
	UserID  uuid.UUID
	Role    domain.Role
	Purpose Purpose
}

type tokenClaims struct {
	jwt.RegisteredClaims
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose"`
}

func GenerateToken(userID uuid.UUID, role domain.Role, purpose Purpose, secret string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Role:    string(role),
		Purpose: string(purpose),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("GenerateToken: %w", err)
	}
	return signed, nil
}

func ValidateToken(tokenString string, secret string, purpose Purpose) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &tokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: %w", err)
	}

	tc, ok := token.Claims.(*tokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("ValidateToken: invalid token claims")
	}

	if Purpose(tc.Purpose) != purpose {
		return nil, fmt.Errorf("ValidateToken: %w", ErrWrongPurpose)
	}

	userID, err := uuid.Parse(tc.Subject)
	if err != nil {
		return nil, fmt.Errorf("ValidateToken: invalid subject in token: %w", err)
	}

	return &Claims{
		UserID:  userID,
		Role:    domain.Role(tc.Role),
		Purpose: Purpose(tc.Purpose),
	}, nil
}
