package domain

import (
	"fmt"
	"time"
	"unicode/utf8"
)

// Role is a flat capability tag. Roles carry no hierarchy; each maps to an
// explicit allow-list of actions resolved by the access package.
type Role string

const (
	RoleSuperAdmin Role = "super-admin"
	RoleAdmin      Role = "admin"
	RoleUser       Role = "user"
)

// IsValid checks if the role is one of the known values.
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleUser:
		return true
	default:
		return false
	}
}

// User represents a staff member belonging to one organizational branch.
type User struct {
	ID           string
	Username     string
	PasswordHash string
	GivenName    string
	Surname      string
	Rank         string
	Position     string
	Role         Role
	BranchID     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName renders the rank-qualified short name used in notifications,
// e.g. "Captain D.Bat". The surname initial is the first rune, not the first
// byte; surnames are usually Cyrillic.
func (u *User) DisplayName() string {
	if u.Surname != "" {
		initial, _ := utf8.DecodeRuneInString(u.Surname)
		return fmt.Sprintf("%s %c.%s", u.Rank, initial, u.GivenName)
	}
	return fmt.Sprintf("%s %s", u.Rank, u.GivenName)
}
