package domain

import (
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field limits for user accounts.
const (
	MaxEmailLength      = 255
	MinNameLength       = 2
	MaxNameLength       = 100
	MinPasswordLength   = 6
	MaxPasswordLength   = 72 // bcrypt ignores anything past 72 bytes
	MaxBioLength        = 1000
	MaxAvatarURLLength  = 500
)

const rolePrefix = "ROLE_"

// Role is the authorization level of an account.
type Role string

// Supported roles.
const (
	RoleAdmin       Role = "ADMIN"
	RoleContributor Role = "CONTRIBUTOR"
)

// ParseRole converts s to a Role. Matching is case-insensitive and tolerates
// a "ROLE_" prefix. Anything unrecognised falls back to CONTRIBUTOR.
func ParseRole(s string) Role {
	r, err := ParseRoleStrict(s)
	if err != nil {
		return RoleContributor
	}
	return r
}

// ParseRoleStrict is ParseRole without the fallback.
func ParseRoleStrict(s string) (Role, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, rolePrefix)
	switch Role(v) {
	case RoleAdmin:
		return RoleAdmin, nil
	case RoleContributor:
		return RoleContributor, nil
	}
	return "", ErrInvalidRole
}

// Authority returns the role in its token form, e.g. "ROLE_ADMIN".
func (r Role) Authority() string {
	return rolePrefix + string(r)
}

// User is a registered account on the platform.
type User struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name"`
	Role              Role      `json:"role"`
	Approved          bool      `json:"approved"`
	Enabled           bool      `json:"enabled"`
	Bio               string    `json:"bio,omitempty"`
	ProfilePictureURL string    `json:"profilePictureUrl,omitempty"`
	Password          string    `json:"-"` // plaintext, only set before hashing
	HashedPassword    string    `json:"-"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// NewUser creates a pending contributor account. The caller hashes Password
// before the user is stored.
func NewUser(email, name, password string, now time.Time) (*User, error) {
	user := &User{
		ID:        uuid.New(),
		Email:     NormalizeEmail(email),
		Name:      strings.TrimSpace(name),
		Role:      RoleContributor,
		Approved:  false,
		Enabled:   true,
		Password:  password,
		CreatedAt: now.UTC(),
		UpdatedAt: now.UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks every field and reports all violations at once.
func (u *User) Validate() error {
	verr := &ValidationError{}

	if u.ID == uuid.Nil {
		verr.Add("id", "cannot be empty")
	}

	switch {
	case u.Email == "":
		verr.Add("email", "is required")
	case len(u.Email) > MaxEmailLength:
		verr.Add("email", "must be at most 255 characters")
	case !validEmail(u.Email):
		verr.Add("email", "must be a valid email address")
	}

	if n := utf8.RuneCountInString(u.Name); n < MinNameLength || n > MaxNameLength {
		verr.Add("name", "must be between 2 and 100 characters")
	}

	if u.Role != RoleAdmin && u.Role != RoleContributor {
		verr.Add("role", "must be ADMIN or CONTRIBUTOR")
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength || len(u.Password) > MaxPasswordLength {
			verr.Add("password", "must be between 6 and 72 characters")
		}
	} else if u.HashedPassword == "" {
		verr.Add("password", "is required")
	}

	if utf8.RuneCountInString(u.Bio) > MaxBioLength {
		verr.Add("bio", "must be at most 1000 characters")
	}
	if len(u.ProfilePictureURL) > MaxAvatarURLLength {
		verr.Add("profilePictureUrl", "must be at most 500 characters")
	}

	return verr.Err()
}

// IsAdmin reports whether the account has the ADMIN role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Principal projects the account onto the identity used by access checks.
func (u *User) Principal() *Principal {
	return &Principal{
		ID:       u.ID,
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
		Approved: u.Approved,
		Enabled:  u.Enabled,
	}
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return false
	}
	at := strings.LastIndex(email, "@")
	return at > 0 && strings.Contains(email[at+1:], ".")
}
