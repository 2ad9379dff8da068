package models

import (
	"time"

	"github.com/octabyte/medtrack-gommon/enums"
)

type Appointment struct {
	ID             string                  `json:"_id"`
	Patient        UserRef                 `json:"patientId"`
	Staff          *UserRef                `json:"staffId"`
	Date           time.Time               `json:"date"`
	Status         enums.AppointmentStatus `json:"status"`
	ChiefComplaint string                  `json:"chiefComplaint"`
	Notes          string                  `json:"notes"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

type CreateAppointment struct {
	Date           string `json:"date" validate:"required,datetime=2006-01-02"`
	ChiefComplaint string `json:"chiefComplaint" validate:"required"`
	Notes          string `json:"notes"`
}

type UpdateAppointmentStatus struct {
	Status enums.AppointmentStatus `json:"status" validate:"required"`
}

// PatientDashboard is the body of /appointments/my-dashboard.
type PatientDashboard struct {
	Upcoming *Appointment                    `json:"upcoming"`
	Stats    map[enums.AppointmentStatus]int `json:"stats"`
	Recent   []Appointment                   `json:"recent"`
}
