package auth

// Roles form a fixed set; permissions are always derived from the role by
// PermissionsForRole and never stored, so they cannot drift.
const (
	RoleAdmin   = "Admin"
	RoleManager = "Manager"
	RoleViewer  = "Viewer"
)

type Permission string

const (
	PermAll    Permission = "All"
	PermRead   Permission = "Read"
	PermCreate Permission = "Create"
	PermUpdate Permission = "Update"
	PermDelete Permission = "Delete"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// PermissionsForRole is the single source of truth for capabilities.
func PermissionsForRole(role string) []Permission {
	switch role {
	case RoleAdmin:
		return []Permission{PermAll}
	case RoleManager:
		return []Permission{PermRead, PermCreate, PermUpdate}
	case RoleViewer:
		return []Permission{PermRead}
	}
	return nil
}

// HasPermission reports whether the role grants p. PermAll grants everything.
func HasPermission(role string, p Permission) bool {
	for _, granted := range PermissionsForRole(role) {
		if granted == PermAll || granted == p {
			return true
		}
	}
	return false
}
