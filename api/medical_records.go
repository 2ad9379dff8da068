package api

import (
	"context"
	"net/http"

	"github.com/octabyte/medtrack-gommon/models"
)

type MedicalRecordService struct {
	t *transport
}

func (s *MedicalRecordService) List(ctx context.Context, params ListParams) (models.Page[models.MedicalRecord], error) {
	return s.list(ctx, "/medical-records", nil, params)
}

func (s *MedicalRecordService) Mine(ctx context.Context, params ListParams) (models.Page[models.MedicalRecord], error) {
	return s.list(ctx, "/medical-records/my-records", nil, params)
}

func (s *MedicalRecordService) ForUser(ctx context.Context, userID string, params ListParams) (models.Page[models.MedicalRecord], error) {
	return s.list(ctx, "/medical-records/user-records/{id}", map[string]string{"id": userID}, params)
}

func (s *MedicalRecordService) ListFrom(ctx context.Context, endpoint string, params ListParams) (models.Page[models.MedicalRecord], error) {
	return s.list(ctx, endpoint, nil, params)
}

func (s *MedicalRecordService) list(ctx context.Context, path string, pathParams map[string]string, params ListParams) (models.Page[models.MedicalRecord], error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: path, query: params.Query(), pathParams: pathParams})
	if err != nil {
		return models.Page[models.MedicalRecord]{}, err
	}
	return decodePage[models.MedicalRecord](body, params.page())
}

// Create stores a record. Vital signs with no value captured are dropped.
func (s *MedicalRecordService) Create(ctx context.Context, req models.CreateMedicalRecord) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	if req.VitalSigns.Empty() {
		req.VitalSigns = nil
	}
	_, err := s.t.private(ctx, call{method: http.MethodPost, path: "/medical-records", body: req})
	return err
}

func (s *MedicalRecordService) Update(ctx context.Context, id string, req models.UpdateMedicalRecord) error {
	if err := s.t.check(req); err != nil {
		return err
	}
	_, err := s.t.private(ctx, call{
		method:     http.MethodPut,
		path:       "/medical-records/{id}",
		body:       req,
		pathParams: map[string]string{"id": id},
	})
	return err
}

func (s *MedicalRecordService) Delete(ctx context.Context, id string) error {
	_, err := s.t.private(ctx, call{
		method:     http.MethodDelete,
		path:       "/medical-records/{id}",
		pathParams: map[string]string{"id": id},
	})
	return err
}
