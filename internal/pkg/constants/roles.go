package constants

const (
	RoleAdmin  = "admin"
	RoleIssuer = "issuer"
)

// ValidRoles is the set of grantable registry roles.
var ValidRoles = []string{RoleAdmin, RoleIssuer}

// IsValidRole returns true if role is one of the grantable registry roles.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
