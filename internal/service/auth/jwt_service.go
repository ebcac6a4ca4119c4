package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/zahid-akhtar7979/wildlife-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for the principal and
	// returns it with its expiry time.
	GenerateToken(ctx context.Context, principal *domain.Principal) (string, time.Time, error)

	// ValidateToken checks signature, expiry and issuer and returns the claims.
	// Any failure returns an error wrapping ErrInvalidToken and nil claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the decoded content of a valid access token.
type Claims struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	Roles     []string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}

// Role returns the highest role carried by the token. Tokens without a
// recognised role are treated as contributors.
func (c *Claims) Role() domain.Role {
	for _, r := range c.Roles {
		if role, err := domain.ParseRoleStrict(r); err == nil && role == domain.RoleAdmin {
			return domain.RoleAdmin
		}
	}
	return domain.RoleContributor
}

// Principal builds a principal from the token alone. Approval and enabled
// flags are not carried in the token; callers that need them load the user.
func (c *Claims) Principal() *domain.Principal {
	return &domain.Principal{
		ID:       c.UserID,
		Email:    c.Email,
		Name:     c.Name,
		Role:     c.Role(),
		Approved: true,
		Enabled:  true,
	}
}
