package api

import (
	"context"
	"net/http"

	"github.com/octabyte/medtrack-gommon/models"
)

type AnalyticsService struct {
	t *transport
}

func (s *AnalyticsService) Get(ctx context.Context) (models.Analytics, error) {
	body, err := s.t.private(ctx, call{method: http.MethodGet, path: "/analytics"})
	if err != nil {
		return models.Analytics{}, err
	}
	return decodeOne[models.Analytics](body)
}
