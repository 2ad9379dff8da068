package models

import (
	"time"

	"github.com/octabyte/medtrack-gommon/enums"
)

// User is a directory entry returned by the /users endpoints.
type User struct {
	ID              string     `json:"_id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	Role            enums.Role `json:"role"`
	PhoneNumber     string     `json:"phoneNumber,omitempty"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at,omitempty"`
}

// UserRef is the populated {_id, name, email} shape embedded in other resources.
type UserRef struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}
