package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/models"
)

type UserService struct {
	t *transport
}

// ListByRole pages through the directory of one role.
func (s *UserService) ListByRole(ctx context.Context, role enums.Role, params ListParams) (models.Page[models.User], error) {
	if !role.Valid() {
		return models.Page[models.User]{}, apierror.Invalid(fmt.Errorf("unknown role %q", role))
	}

	query := params.Query()
	query["role"] = role.String()

	body, err := s.t.private(ctx, call{method: http.MethodGet, path: "/users/all", query: query})
	if err != nil {
		return models.Page[models.User]{}, err
	}
	return decodePage[models.User](body, params.page())
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: "/users/{id}", pathParams: map[string]string{"id": id}})
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](body)
}

func (s *UserService) MyProfile(ctx context.Context) (models.User, error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: "/users/my-profile"})
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](body)
}

// ProfileChanges keeps only the fields of next that differ from current.
// A password is always a change.
func ProfileChanges(current models.User, next models.ProfileUpdate) models.ProfileUpdate {
	changes := models.ProfileUpdate{Password: next.Password}
	if next.Name != "" && next.Name != current.Name {
		changes.Name = next.Name
	}
	if next.Email != "" && next.Email != current.Email {
		changes.Email = next.Email
	}
	return changes
}

// UpdateProfile patches the caller's profile. An update with no changes is
// rejected locally.
func (s *UserService) UpdateProfile(ctx context.Context, req models.ProfileUpdate) (models.User, error) {
	if req.Empty() {
		return models.User{}, apierror.Invalid(fmt.Errorf("no changes to save"))
	}
	if err := s.t.check(req); err != nil {
		return models.User{}, err
	}
	body, err := s.t.private(ctx, call{method: http.MethodPatch, path: "/users", body: req})
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](body)
}

// RegisterStaff creates a staff account; the role defaults to staff.
func (s *UserService) RegisterStaff(ctx context.Context, req models.StaffRegistration) error {
	if req.Role == "" {
		req.Role = enums.RoleStaff
	}
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.private(ctx, call{method: http.MethodPost, path: "/api/register-staff", body: req})
	return err
}

func (s *UserService) UpdateStaff(ctx context.Context, id string, req models.StaffUpdate) (models.User, error) {
	if err := s.t.check(req); err != nil {
		return models.User{}, err
	}
	body, err := s.t.private(ctx, call{
		method:     http.MethodPut,
		path:       "/users/staff/{id}",
		body:       req,
		pathParams: map[string]string{"id": id},
	})
	if err != nil {
		return models.User{}, err
	}
	return decodeOne[models.User](body)
}

func (s *UserService) DeleteStaff(ctx context.Context, id string) error {
	_, err := s.t.private(ctx, call{
		method:     http.MethodDelete,
		path:       "/users/staff/{id}",
		pathParams: map[string]string{"id": id},
	})
	return err
}
