package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/models"
)

type AppointmentService struct {
	t *transport
}

// List returns every appointment; staff and admin only.
func (s *AppointmentService) List(ctx context.Context, params ListParams) (models.Page[models.Appointment], error) {
	return s.list(ctx, "/appointments", nil, params)
}

// Mine returns the caller's own appointments.
func (s *AppointmentService) Mine(ctx context.Context, params ListParams) (models.Page[models.Appointment], error) {
	return s.list(ctx, "/appointments/my-appointments", nil, params)
}

// ForUser returns the appointments of one patient.
func (s *AppointmentService) ForUser(ctx context.Context, userID string, params ListParams) (models.Page[models.Appointment], error) {
	return s.list(ctx, "/appointments/user-appointments/{id}", map[string]string{"id": userID}, params)
}

// ListFrom lists from an endpoint picked by the caller, typically the one
// the capability table names for the current role.
func (s *AppointmentService) ListFrom(ctx context.Context, endpoint string, params ListParams) (models.Page[models.Appointment], error) {
	return s.list(ctx, endpoint, nil, params)
}

// Today lists today's schedule from endpoint: both date bounds set to the
// current UTC date.
func (s *AppointmentService) Today(ctx context.Context, endpoint string, page int, now func() time.Time) (models.Page[models.Appointment], error) {
	if now == nil {
		now = time.Now
	}
	today := now().UTC()
	return s.list(ctx, endpoint, nil, ListParams{Page: page, StartDate: today, EndDate: today})
}

func (s *AppointmentService) list(ctx context.Context, path string, pathParams map[string]string, params ListParams) (models.Page[models.Appointment], error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: path, query: params.Query(), pathParams: pathParams})
	if err != nil {
		return models.Page[models.Appointment]{}, err
	}
	return decodePage[models.Appointment](body, params.page())
}

func (s *AppointmentService) Dashboard(ctx context.Context) (models.PatientDashboard, error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: "/appointments/my-dashboard"})
	if err != nil {
		return models.PatientDashboard{}, err
	}
	return decodeOne[models.PatientDashboard](body)
}

func (s *AppointmentService) Create(ctx context.Context, req models.CreateAppointment) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.private(ctx, call{method: http.MethodPost, path: "/appointments", body: req})
	return err
}

// UpdateStatus sends the new status. Whether the caller may pick that status
// is decided by the capability table before calling.
func (s *AppointmentService) UpdateStatus(ctx context.Context, id string, req models.UpdateAppointmentStatus) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	if !req.Status.Valid() {
		return apierror.Invalid(fmt.Errorf("unknown appointment status %q", req.Status))
	}
	_, err := s.t.private(ctx, call{
		method:     http.MethodPatch,
		path:       "/appointments/{id}",
		body:       req,
		pathParams: map[string]string{"id": id},
	})
	return err
}
