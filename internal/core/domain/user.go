package domain

// Role is the authorization level carried by a User.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User models the authenticated actor. It is issued by login and never mutated.
type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// Credential is a seed account used only to validate login attempts.
type Credential struct {
	ID           int64
	Email        string
	PasswordHash []byte `json:"-"`
	Name         string
	Role         Role
}

// User strips the secret and returns the public identity of the account.
func (c Credential) User() User {
	return User{ID: c.ID, Email: c.Email, Name: c.Name, Role: c.Role}
}

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// SessionEvent is published on every Anonymous <-> Authenticated transition.
type SessionEvent struct {
	Authenticated bool
	User          *User // nil when Authenticated is false
}
