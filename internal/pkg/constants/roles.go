package constants

const (
	Superadmin = "superadmin"
	Admin      = "admin"
	Seller     = "seller"
	Buyer      = "buyer"
)

// ValidRoles is the set of allowed DB enum values for user role.
var ValidRoles = []string{Buyer, Seller, Admin, Superadmin}

// IsValidRole returns true if role is one of the allowed enum values.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}
