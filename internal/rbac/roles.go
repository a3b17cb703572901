package rbac

// Role names. Keep these stable; they are stored in usuarios.rol and carried in tokens.
const (
	RoleAgent      = "agente"
	RoleSupervisor = "supervisor"
	RoleAdmin      = "admin"
)

// Roles lists every valid role, lowest privilege first.
var Roles = []string{RoleAgent, RoleSupervisor, RoleAdmin}

func IsAdmin(role string) bool { return role == RoleAdmin }

func IsValidRole(role string) bool {
	for _, r := range Roles {
		if r == role {
			return true
		}
	}
	return false
}
