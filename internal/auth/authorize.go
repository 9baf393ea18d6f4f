package auth

import (
	"userhub/internal/user"
)

// Authorize is the single role gate: admin satisfies any requirement, a
// plain user satisfies only user-level requirements.
func Authorize(role, required user.Role) bool {
	if role == user.RoleAdmin {
		return true
	}
	return role == required
}
