package domain

import "github.com/google/uuid"

// Principal is the authenticated actor behind a request. A nil *Principal
// means the caller is anonymous.
type Principal struct {
	ID       uuid.UUID
	Email    string
	Name     string
	Role     Role
	Approved bool
	Enabled  bool
}

// IsAdmin is nil-safe.
func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}

// Owns reports whether p is the owner identified by ownerID.
func (p *Principal) Owns(ownerID uuid.UUID) bool {
	return p != nil && ownerID != uuid.Nil && p.ID == ownerID
}
