package domain

import "time"

type Role string

const (
	RoleOwner    Role = "owner"
	RoleCustomer Role = "customer"
)

func (r Role) Valid() bool {
	return r == RoleOwner || r == RoleCustomer
}

// Identity is who a request acts as after authentication.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

type Session struct {
	Identity
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
