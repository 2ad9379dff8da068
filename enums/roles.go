package enums

type Role string

const (
	RoleAdmin   Role = "admin"
	RolePatient Role = "patient"
	RoleStaff   Role = "staff"
)

// Roles lists every role the backend can assign.
var Roles = []Role{RolePatient, RoleStaff, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RolePatient, RoleStaff:
		return true
	}
	return false
}

func (r Role) String() string {
	return string(r)
}
