package domain

import "time"

// Role is the authorization role carried in a user's credential.
type Role string

const (
	RoleUser      Role = "user"
	RoleAdmin     Role = "admin"
	RoleCommunity Role = "community"
)

// IsValid checks if the Role is one of the defined constants.
func (r Role) IsValid() bool {
	return r == RoleUser || r == RoleAdmin || r == RoleCommunity
}

// User is a registered account. Password holds the bcrypt hash, owned by
// the repository layer.
type User struct {
	ID        string
	Name      string
	Email     string
	Password  string
	Phone     string
	Role      Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Actor is the verified {userId, role} pair extracted from a request
// credential. Core operations take it explicitly; a nil *Actor means the
// request was unauthenticated.
type Actor struct {
	ID   string
	Role Role
}

// IsAdmin reports whether the actor carries the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}
