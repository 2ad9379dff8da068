package models

import "github.com/octabyte/medtrack-gommon/enums"

// Identity is the verified caller. It lives only in memory and is rebuilt on
// every protected navigation.
type Identity struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Email string     `json:"email"`
	Role  enums.Role `json:"role"`
}

// FirstName is what the admin header greets the user with.
func (i Identity) FirstName() string {
	for idx, r := range i.Name {
		if r == ' ' {
			return i.Name[:idx]
		}
	}
	return i.Name
}

// Credentials is the body of every login endpoint.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse is the credential exchange result. The identity arrives under
// user_info or admin_info depending on the endpoint.
type LoginResponse struct {
	Token    string   `json:"token"`
	Identity Identity `json:"-"`
}
