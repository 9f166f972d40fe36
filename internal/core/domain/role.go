package domain

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	default:
		return false
	}
}

// RoleAllowed reports whether role is one of required.
func RoleAllowed(role Role, required ...Role) bool {
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
