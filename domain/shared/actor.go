package shared

// Role of the authenticated caller. Token issuance and verification live in
// the user service; this process only consumes the resolved identity.
type Role string

const (
	RoleEmployee   Role = "EMPLOYEE"
	RoleCafeOwner  Role = "CAFE_OWNER"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// ParseRole maps a wire value onto a known role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleEmployee, RoleCafeOwner, RoleSuperAdmin:
		return Role(s), true
	}
	return "", false
}

// Actor is the resolved identity of the caller for ownership and role checks.
type Actor struct {
	UserID string
	Role   Role
}

func (a Actor) IsEmployee() bool  { return a.Role == RoleEmployee }
func (a Actor) IsCafeOwner() bool { return a.Role == RoleCafeOwner }
