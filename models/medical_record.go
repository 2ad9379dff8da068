package models

import "time"

type VitalSigns struct {
	BloodPressure    *string  `json:"bloodPressure,omitempty"`
	HeartRate        *float64 `json:"heartRate,omitempty"`
	Temperature      *float64 `json:"temperature,omitempty"`
	RespiratoryRate  *float64 `json:"respiratoryRate,omitempty"`
	OxygenSaturation *float64 `json:"oxygenSaturation,omitempty"`
	Weight           *float64 `json:"weight,omitempty"`
	Height           *float64 `json:"height,omitempty"`
	BMI              *float64 `json:"bmi,omitempty"`
}

// Empty reports whether no vital sign was captured.
func (v *VitalSigns) Empty() bool {
	if v == nil {
		return true
	}
	return v.BloodPressure == nil && v.HeartRate == nil && v.Temperature == nil &&
		v.RespiratoryRate == nil && v.OxygenSaturation == nil && v.Weight == nil &&
		v.Height == nil && v.BMI == nil
}

type AppointmentRef struct {
	ID     string    `json:"_id"`
	Date   time.Time `json:"date"`
	Status string    `json:"status"`
}

type MedicalRecord struct {
	ID             string          `json:"_id"`
	Patient        UserRef         `json:"patientId"`
	Appointment    *AppointmentRef `json:"appointmentId"`
	CreatedBy      UserRef         `json:"staffCreatedId"`
	VisitDate      string          `json:"visitDate"`
	ChiefComplaint string          `json:"chiefComplaint"`
	Notes          *string         `json:"notes"`
	Diagnosis      *string         `json:"diagnosis"`
	VitalSigns     *VitalSigns     `json:"vitalSigns"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

type CreateMedicalRecord struct {
	PatientID      string      `json:"patientId" validate:"required"`
	AppointmentID  string      `json:"appointmentId,omitempty"`
	VisitDate      string      `json:"visitDate" validate:"required,datetime=2006-01-02"`
	ChiefComplaint string      `json:"chiefComplaint" validate:"required"`
	Notes          string      `json:"notes,omitempty"`
	Diagnosis      string      `json:"diagnosis"`
	VitalSigns     *VitalSigns `json:"vitalSigns,omitempty"`
}

type UpdateMedicalRecord struct {
	VisitDate      string `json:"visitDate" validate:"required,datetime=2006-01-02"`
	ChiefComplaint string `json:"chiefComplaint" validate:"required"`
	Diagnosis      string `json:"diagnosis"`
	Notes          string `json:"notes"`
}
