package domain

import "fmt"

// Role represents the role of the acting user
type Role string

const (
	RoleCustomer Role = "customer"
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// IsStaff returns true for roles allowed to progress bookings
func (r Role) IsStaff() bool {
	return r == RoleEmployee || r == RoleAdmin
}

// ParseRole validates and converts a string into a Role
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleCustomer, RoleEmployee, RoleAdmin:
		return Role(s), nil
	default:
		return "", fmt.Errorf("%w: unknown role %q", ErrUnauthorized, s)
	}
}

// Actor is the authenticated caller of a transition
type Actor struct {
	ID   int64
	Role Role
}
