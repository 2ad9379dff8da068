// Package rbac is the single capability table: which navigation, actions,
// appointment status transitions and list endpoints each role gets.
// Everything here is pure data.
package rbac

import (
	"slices"
	"strings"

	"github.com/octabyte/medtrack-gommon/enums"
)

type Action string

const (
	ActionViewDashboard           Action = "dashboard:view"
	ActionCreateAppointment       Action = "appointment:create"
	ActionUpdateAppointmentStatus Action = "appointment:update-status"
	ActionViewAllAppointments     Action = "appointment:view-all"
	ActionViewOwnAppointments     Action = "appointment:view-own"
	ActionViewPatients            Action = "patient:view"
	ActionViewStaff               Action = "staff:view"
	ActionManageStaff             Action = "staff:manage"
	ActionViewOwnRecords          Action = "medical-record:view-own"
	ActionManageMedicalRecords    Action = "medical-record:manage"
	ActionViewAnalytics           Action = "analytics:view"
	ActionEditProfile             Action = "profile:edit"
)

type NavItem struct {
	Title string
	URL   string
	Items []NavItem
}

// Endpoints are the list endpoints a role reads from.
type Endpoints struct {
	Verify         string
	Appointments   string
	MedicalRecords string
}

type Capabilities struct {
	Role              enums.Role
	Area              string
	Home              string
	Navigation        []NavItem
	Actions           []Action
	StatusTransitions []enums.AppointmentStatus
	Endpoints         Endpoints
}

const (
	UserArea  = "/user"
	AdminArea = "/admin"
	LoginPath = "/auth/login"
)

func (c Capabilities) Can(action Action) bool {
	return slices.Contains(c.Actions, action)
}

// CanTransition reports whether the role may move an appointment to status.
func (c Capabilities) CanTransition(status enums.AppointmentStatus) bool {
	return slices.Contains(c.StatusTransitions, status)
}

// Allows reports whether path lies inside the role's area.
func (c Capabilities) Allows(path string) bool {
	if c.Area == "" {
		return false
	}
	return path == c.Area || strings.HasPrefix(path, c.Area+"/")
}

func patientCapabilities() Capabilities {
	return Capabilities{
		Role: enums.RolePatient,
		Area: UserArea,
		Home: UserArea + "/dashboard",
		Navigation: []NavItem{
			{Title: "Dashboard", URL: "/user/dashboard"},
			{Title: "Appointments", URL: "/user/appointments", Items: []NavItem{
				{Title: "All Appointments", URL: "/user/appointments/all-appointments"},
				{Title: "Today's Schedule", URL: "/user/appointments/today"},
			}},
			{Title: "Settings", URL: "/user/settings"},
		},
		Actions: []Action{
			ActionViewDashboard,
			ActionCreateAppointment,
			ActionUpdateAppointmentStatus,
			ActionViewOwnAppointments,
			ActionViewOwnRecords,
			ActionEditProfile,
		},
		StatusTransitions: []enums.AppointmentStatus{enums.AppointmentStatusCancelled},
		Endpoints: Endpoints{
			Verify:         "/api/verify-user",
			Appointments:   "/appointments/my-appointments",
			MedicalRecords: "/medical-records/my-records",
		},
	}
}

func staffCapabilities(role enums.Role) Capabilities {
	users := NavItem{Title: "Users", URL: "/admin/patients", Items: []NavItem{
		{Title: "Patients", URL: "/admin/patients"},
	}}
	actions := []Action{
		ActionViewDashboard,
		ActionUpdateAppointmentStatus,
		ActionViewAllAppointments,
		ActionViewPatients,
		ActionManageMedicalRecords,
		ActionViewAnalytics,
		ActionEditProfile,
	}
	if role == enums.RoleAdmin {
		users.Items = append(users.Items, NavItem{Title: "Staffs", URL: "/admin/staff"})
		actions = append(actions, ActionViewStaff, ActionManageStaff)
	}

	var transitions []enums.AppointmentStatus
	for _, status := range enums.AppointmentStatuses {
		if status != enums.AppointmentStatusCancelled {
			transitions = append(transitions, status)
		}
	}

	return Capabilities{
		Role: role,
		Area: AdminArea,
		Home: AdminArea + "/dashboard",
		Navigation: []NavItem{
			{Title: "Dashboard", URL: "/admin/dashboard"},
			{Title: "Appointments", URL: "/admin/appointments", Items: []NavItem{
				{Title: "All Appointments", URL: "/admin/appointments/all-appointments"},
				{Title: "Today's Schedule", URL: "/admin/appointments/today"},
			}},
			users,
			{Title: "Medical Records", URL: "/admin/medical-records"},
			{Title: "Analytics", URL: "/admin/analytics"},
			{Title: "Settings", URL: "/admin/settings"},
		},
		Actions:           actions,
		StatusTransitions: transitions,
		Endpoints: Endpoints{
			Verify:         "/api/verify-admin",
			Appointments:   "/appointments",
			MedicalRecords: "/medical-records",
		},
	}
}

// For returns the capabilities of role, built fresh on every call so a
// caller can never observe another role's or an earlier call's values.
// Unknown roles get nothing.
func For(role enums.Role) (Capabilities, bool) {
	switch role {
	case enums.RolePatient:
		return patientCapabilities(), true
	case enums.RoleStaff, enums.RoleAdmin:
		return staffCapabilities(role), true
	default:
		return Capabilities{}, false
	}
}

// LandingRoute is where a freshly logged in role is sent.
func LandingRoute(role enums.Role) string {
	if caps, ok := For(role); ok {
		return caps.Home
	}
	return LoginPath
}
