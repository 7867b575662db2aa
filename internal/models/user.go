package models

// user roles
const (
	RoleMember = "member"
	RoleStaff  = "staff"
)

// User is authenticated storefront user
type User struct {
	ID    uint64
	Login string
	Role  string
}

// TokenPayload is verified auth token content
type TokenPayload struct {
	UserID uint64
	Role   string
}
