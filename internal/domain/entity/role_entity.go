package entity

// Role is the authorization role carried by an account and its tokens.
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleMember || r == RoleAdmin
}

func (r Role) IsAdmin() bool { return r == RoleAdmin }
