// Package api is the typed surface of the clinic REST API. Credential
// exchange and account flows go through the plain client; everything else
// goes through the authenticated one.
package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/httpclient"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
)

// DefaultPageSize is the backend's page size; it is only used to guess
// whether more pages exist when a list arrives without a nextPage flag.
const DefaultPageSize = 10

type Client struct {
	Auth           *AuthService
	Appointments   *AppointmentService
	MedicalRecords *MedicalRecordService
	Users          *UserService
	Analytics      *AnalyticsService
}

func New(plain, authenticated *resty.Client, log *zap.Logger) *Client {
	t := &transport{
		plain:         plain,
		authenticated: authenticated,
		validate:      validator.New(),
		log:           logger.OrGlobal(log).Named("api"),
	}
	return &Client{
		Auth:           &AuthService{t: t},
		Appointments:   &AppointmentService{t: t},
		MedicalRecords: &MedicalRecordService{t: t},
		Users:          &UserService{t: t},
		Analytics:      &AnalyticsService{t: t},
	}
}

type transport struct {
	plain         *resty.Client
	authenticated *resty.Client
	validate      *validator.Validate
	log           *zap.Logger
}

type call struct {
	method     string
	path       string
	body       interface{}
	query      map[string]string
	pathParams map[string]string
}

func (t *transport) check(req interface{}) error {
	if err := t.validate.Struct(req); err != nil {
		return apierror.Invalid(err)
	}
	return nil
}

func (t *transport) send(ctx context.Context, client *resty.Client, c call) (reply, error) {
	for name, value := range c.pathParams {
		if strings.TrimSpace(value) == "" {
			return reply{}, apierror.Invalid(fmt.Errorf("missing %s", name))
		}
	}

	req := client.R().SetContext(ctx)
	if c.body != nil {
		req.SetBody(c.body)
	}
	if len(c.query) > 0 {
		req.SetQueryParams(c.query)
	}
	if len(c.pathParams) > 0 {
		req.SetPathParams(c.pathParams)
	}

	resp, err := req.Execute(c.method, c.path)
	if err != nil {
		return reply{}, httpclient.Classify(err)
	}
	return reply{data: resp.Body(), status: resp.StatusCode()}, nil
}

func (t *transport) public(ctx context.Context, c call) (reply, error) {
	return t.send(ctx, t.plain, c)
}

func (t *transport) private(ctx context.Context, c call) (reply, error) {
	return t.send(ctx, t.authenticated, c)
}
