// Package service defines domain-level seams implemented by the infra layer.
package service

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims carried by access tokens. Tokens are
// issued by the external identity service; this process only validates them.
type Claims struct {
	UserID uuid.UUID
	Roles  []string
	jwt.RegisteredClaims
}

// TokenService validates access tokens issued by the external identity
// service. IssueToken exists for development tooling and tests; production
// tokens never originate here.
type TokenService interface {
	// ValidateToken checks the validity of a token string and returns its claims.
	ValidateToken(tokenString string) (*Claims, error)

	// IssueToken creates a signed access token for the given user and roles.
	IssueToken(userID uuid.UUID, roles []string) (string, error)
}
