package types

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims represents the claims of an identity-provider access token.
// The subject claim carries the user's UUID.
type TokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`

	// UserID is parsed from the subject claim after validation.
	UserID uuid.UUID `json:"-"`
}
