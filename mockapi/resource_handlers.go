package mockapi

import (
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
)

func (s *Server) listAppointments(c echo.Context) error {
	return paged(c, s.store.listAppointments(filterFrom(c)), s.opts.PageSize)
}

func (s *Server) myAppointments(c echo.Context) error {
	f := filterFrom(c)
	f.patientID = caller(c).ID
	return paged(c, s.store.listAppointments(f), s.opts.PageSize)
}

func (s *Server) userAppointments(c echo.Context) error {
	f := filterFrom(c)
	f.patientID = c.Param("id")
	return paged(c, s.store.listAppointments(f), s.opts.PageSize)
}

func (s *Server) dashboard(c echo.Context) error {
	mine := s.store.listAppointments(filter{patientID: caller(c).ID})
	today := s.opts.Now().UTC().Format(dateLayout)

	dashboard := models.PatientDashboard{Stats: make(map[enums.AppointmentStatus]int), Recent: []models.Appointment{}}
	for i := len(mine) - 1; i >= 0; i-- {
		a := mine[i]
		open := a.Status == enums.AppointmentStatusPending || a.Status == enums.AppointmentStatusScheduled
		if dashboard.Upcoming == nil && open && a.Date.UTC().Format(dateLayout) >= today {
			upcoming := a
			dashboard.Upcoming = &upcoming
		}
	}
	for i, a := range mine {
		dashboard.Stats[a.Status]++
		if i < 5 {
			dashboard.Recent = append(dashboard.Recent, a)
		}
	}
	return c.JSON(http.StatusOK, dashboard)
}

func (s *Server) createAppointment(c echo.Context) error {
	var req models.CreateAppointment
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	date, err := time.Parse(dateLayout, req.Date)
	if err != nil || req.ChiefComplaint == "" {
		return message(c, http.StatusUnprocessableEntity, "A valid date and chief complaint are required.")
	}

	patient, ok := s.store.user(caller(c).ID)
	if !ok {
		return message(c, http.StatusUnauthorized, "Unauthenticated.")
	}
	appt := s.store.addAppointment(patient, date, req.ChiefComplaint, req.Notes)
	return c.JSON(http.StatusCreated, echo.Map{"data": appt})
}

// updateAppointmentStatus lets a patient cancel their own appointment and
// lets staff set any other status.
func (s *Server) updateAppointmentStatus(c echo.Context) error {
	var req models.UpdateAppointmentStatus
	if err := c.Bind(&req); err != nil || !req.Status.Valid() {
		return message(c, http.StatusUnprocessableEntity, "Invalid status.")
	}

	appt, ok := s.store.appointment(c.Param("id"))
	if !ok {
		return message(c, http.StatusNotFound, "Appointment not found.")
	}

	who := caller(c)
	var actor *models.User
	if who.Role == enums.RolePatient {
		if appt.Patient.ID != who.ID || req.Status != enums.AppointmentStatusCancelled {
			return message(c, http.StatusForbidden, "This action is unauthorized.")
		}
	} else {
		if req.Status == enums.AppointmentStatusCancelled {
			return message(c, http.StatusForbidden, "Only the patient can cancel an appointment.")
		}
		if user, ok := s.store.user(who.ID); ok {
			actor = &user
		}
	}

	updated, err := s.store.setAppointmentStatus(appt.ID, req.Status, actor)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": updated})
}

func (s *Server) listRecords(c echo.Context) error {
	return paged(c, s.store.listRecords(filterFrom(c)), s.opts.PageSize)
}

func (s *Server) myRecords(c echo.Context) error {
	f := filterFrom(c)
	f.patientID = caller(c).ID
	return paged(c, s.store.listRecords(f), s.opts.PageSize)
}

func (s *Server) userRecords(c echo.Context) error {
	f := filterFrom(c)
	f.patientID = c.Param("id")
	return paged(c, s.store.listRecords(f), s.opts.PageSize)
}

func (s *Server) createRecord(c echo.Context) error {
	var req models.CreateMedicalRecord
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	if _, err := time.Parse(dateLayout, req.VisitDate); err != nil || req.ChiefComplaint == "" {
		return message(c, http.StatusUnprocessableEntity, "A valid visit date and chief complaint are required.")
	}

	patient, ok := s.store.user(req.PatientID)
	if !ok || patient.Role != enums.RolePatient {
		return message(c, http.StatusNotFound, "Patient not found.")
	}
	staff, _ := s.store.user(caller(c).ID)

	var appt *models.Appointment
	if req.AppointmentID != "" {
		found, ok := s.store.appointment(req.AppointmentID)
		if !ok {
			return message(c, http.StatusNotFound, "Appointment not found.")
		}
		appt = &found
	}

	record := s.store.addRecord(patient, staff, appt, req)
	return c.JSON(http.StatusCreated, echo.Map{"data": record})
}

func (s *Server) updateRecord(c echo.Context) error {
	var req models.UpdateMedicalRecord
	if err := c.Bind(&req); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request body.")
	}
	record, err := s.store.updateRecord(c.Param("id"), req)
	if errors.Is(err, errNotFound) {
		return message(c, http.StatusNotFound, "Medical record not found.")
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"data": record})
}

func (s *Server) deleteRecord(c echo.Context) error {
	if err := s.store.deleteRecord(c.Param("id")); err != nil {
		return message(c, http.StatusNotFound, "Medical record not found.")
	}
	return message(c, http.StatusOK, "Medical record deleted.")
}

func (s *Server) listUsers(c echo.Context) error {
	role := enums.Role(c.QueryParam("role"))
	if !role.Valid() {
		return message(c, http.StatusUnprocessableEntity, "Unknown role.")
	}
	return paged(c, s.store.usersByRole(role, c.QueryParam("search")), s.opts.PageSize)
}

func (s *Server) getUser(c echo.Context) error {
	user, ok := s.store.user(c.Param("id"))
	if !ok {
		return message(c, http.StatusNotFound, "User not found.")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

func (s *Server) myProfile(c echo.Context) error {
	user, ok := s.store.user(caller(c).ID)
	if !ok {
		return message(c, http.StatusNotFound, "User not found.")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

func (s *Server) updateProfile(c echo.Context) error {
	var req models.ProfileUpdate
	if err := c.Bind(&req); err != nil || req.Empty() {
		return message(c, http.StatusUnprocessableEntity, "Nothing to update.")
	}
	if req.Email != "" {
		if other, ok := s.store.userByEmail(req.Email); ok && other.ID != caller(c).ID {
			return message(c, http.StatusUnprocessableEntity, errEmailTaken.Error())
		}
	}

	user, err := s.store.updateProfile(caller(c).ID, req)
	if err != nil {
		return message(c, http.StatusNotFound, "User not found.")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

func (s *Server) updateStaff(c echo.Context) error {
	var req models.StaffUpdate
	if err := c.Bind(&req); err != nil || req.Name == "" {
		return message(c, http.StatusUnprocessableEntity, "Name is required.")
	}

	user, err := s.store.updateUser(c.Param("id"), func(u *models.User, _ *account) error {
		if u.Role == enums.RolePatient {
			return errNotFound
		}
		u.Name = req.Name
		u.PhoneNumber = req.PhoneNumber
		return nil
	})
	if err != nil {
		return message(c, http.StatusNotFound, "Staff member not found.")
	}
	return c.JSON(http.StatusOK, echo.Map{"data": user})
}

func (s *Server) deleteStaff(c echo.Context) error {
	user, ok := s.store.user(c.Param("id"))
	if !ok || user.Role == enums.RolePatient {
		return message(c, http.StatusNotFound, "Staff member not found.")
	}
	if user.ID == caller(c).ID {
		return message(c, http.StatusUnprocessableEntity, "You cannot delete your own account.")
	}
	if err := s.store.deleteUser(user.ID); err != nil {
		return message(c, http.StatusNotFound, "Staff member not found.")
	}
	return message(c, http.StatusOK, "Staff member deleted.")
}

func (s *Server) analytics(c echo.Context) error {
	appts := s.store.listAppointments(filter{})
	records := s.store.listRecords(filter{})

	var out models.Analytics
	total := len(appts)
	out.Appointments.StatusBreakdown.Total = total

	byStatus := make(map[enums.AppointmentStatus]int)
	days := make(map[string]int)
	for _, a := range appts {
		byStatus[a.Status]++
		days[a.Date.UTC().Format(dateLayout)]++
	}
	out.Appointments.StatusBreakdown.Breakdown = []models.StatusCount{}
	for _, status := range enums.AppointmentStatuses {
		count := byStatus[status]
		if count == 0 {
			continue
		}
		out.Appointments.StatusBreakdown.Breakdown = append(out.Appointments.StatusBreakdown.Breakdown,
			models.StatusCount{Status: string(status), Count: count, Percentage: percent(count, total)})
	}
	if len(days) > 0 {
		out.Appointments.AveragePerDay.Average = float64(total) / float64(len(days))
	}

	today := s.opts.Now().UTC()
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(dateLayout)
		out.Appointments.Last7Days = append(out.Appointments.Last7Days, models.PeriodCount{Period: day, Count: days[day]})
	}

	diagnoses := make(map[string]int)
	for _, r := range records {
		if r.Diagnosis != nil && *r.Diagnosis != "" {
			diagnoses[*r.Diagnosis]++
		}
	}
	out.Diagnoses.Distribution = []models.DiagnosisCount{}
	for diagnosis, count := range diagnoses {
		out.Diagnoses.Distribution = append(out.Diagnoses.Distribution,
			models.DiagnosisCount{Diagnosis: diagnosis, Count: count, Percentage: percent(count, len(records))})
	}
	sort.Slice(out.Diagnoses.Distribution, func(i, j int) bool {
		a, b := out.Diagnoses.Distribution[i], out.Diagnoses.Distribution[j]
		return a.Count > b.Count || (a.Count == b.Count && a.Diagnosis < b.Diagnosis)
	})

	return c.JSON(http.StatusOK, out)
}

func percent(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return float64(part) * 100 / float64(whole)
}
