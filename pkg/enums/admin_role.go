package enums

import "fmt"

// AdminRole enumerates the administrator roles.
type AdminRole string

const (
	AdminRoleOwner   AdminRole = "owner"
	AdminRoleSupport AdminRole = "support"
)

// IsValid reports whether the role is a known admin role.
func (r AdminRole) IsValid() bool {
	switch r {
	case AdminRoleOwner, AdminRoleSupport:
		return true
	}
	return false
}

// ParseAdminRole converts a raw string into an AdminRole.
func ParseAdminRole(raw string) (AdminRole, error) {
	role := AdminRole(raw)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid admin role %q", raw)
	}
	return role, nil
}
