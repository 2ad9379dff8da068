package enums

const (
	AppointmentResource   = "appointment"
	MedicalRecordResource = "medical_record"
	UserResource          = "user"
	StaffResource         = "staff"
	AnalyticsResource     = "analytics"
)
