package models

import "github.com/octabyte/medtrack-gommon/enums"

type Registration struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type OTPVerification struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type PasswordReset struct {
	Email                string `json:"email" validate:"required,email"`
	Token                string `json:"token" validate:"required"`
	Password             string `json:"password" validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
}

type StaffRegistration struct {
	Email       string     `json:"email" validate:"required,email"`
	Name        string     `json:"name" validate:"required"`
	Password    string     `json:"password" validate:"required"`
	PhoneNumber string     `json:"phoneNumber"`
	Role        enums.Role `json:"role" validate:"required,oneof=staff admin"`
}

type StaffUpdate struct {
	Name        string `json:"name" validate:"required"`
	PhoneNumber string `json:"phoneNumber"`
}

// ProfileUpdate carries only the fields that changed; empty fields are omitted.
type ProfileUpdate struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty" validate:"omitempty,email"`
	Password string `json:"password,omitempty"`
}

func (p ProfileUpdate) Empty() bool {
	return p.Name == "" && p.Email == "" && p.Password == ""
}
