package models

// User roles
const (
	RoleAdmin = "admin" // Admin access: seed presets, list users
	RoleUser  = "user"  // Regular user
)

// ValidRole reports whether role names a known role.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
