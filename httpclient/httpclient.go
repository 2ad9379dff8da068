// Package httpclient builds the two request pipelines every API call goes
// through: a plain one for credential exchange and account flows, and an
// authenticated one that attaches the stored bearer token.
package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http/cookiejar"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/octabyte/medtrack-gommon/apierror"
	"github.com/octabyte/medtrack-gommon/otel"
	otellogger "github.com/octabyte/medtrack-gommon/otel/logger"
	"github.com/octabyte/medtrack-gommon/utils"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"
)

const DefaultTimeout = 30 * time.Second

// ErrTokenRead is returned when the token store could not be read before a
// request. The request is not sent.
var ErrTokenRead = errors.New("httpclient: read token")

type Config struct {
	BaseURL     string `validate:"required,url"`
	Timeout     time.Duration
	ServiceName string
	Logger      *zap.Logger
}

// TokenSource is the read side of the token store.
type TokenSource interface {
	Get(ctx context.Context) (string, bool, error)
}

// NewPlain returns a client that never sends credentials.
func NewPlain(cfg Config) (*resty.Client, error) {
	return build(cfg, "plain")
}

// NewAuthenticated returns a client that reads tokens before every request
// and sends "Authorization: Bearer <token>" when one is stored. A missing
// token is not an error; the request goes out anonymous.
func NewAuthenticated(cfg Config, tokens TokenSource) (*resty.Client, error) {
	if tokens == nil {
		return nil, errors.New("httpclient: nil token source")
	}

	client, err := build(cfg, "authenticated")
	if err != nil {
		return nil, err
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		token, ok, err := tokens.Get(req.Context())
		if err != nil {
			return fmt.Errorf("%w: %w", ErrTokenRead, err)
		}
		if ok {
			req.SetHeader("Authorization", utils.BearerHeader(token))
		}
		return nil
	})

	return client, nil
}

func build(cfg Config, name string) (*resty.Client, error) {
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("httpclient: invalid config: %w", err)
	}

	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("httpclient: cookie jar: %w", err)
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "medtrack"
	}
	log := logger.OrGlobal(cfg.Logger).Named("httpclient").With(zap.String("client", name))

	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetCookieJar(jar).
		SetJSONMarshaler(json.Marshal).
		SetJSONUnmarshaler(json.Unmarshal).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")

	otel.InstrumentResty(client, serviceName, name)

	client.OnAfterResponse(func(_ *resty.Client, resp *resty.Response) error {
		ctx := resp.Request.Context()
		otellogger.For(ctx, log).Debug("response",
			zap.String("method", resp.Request.Method),
			zap.String("path", resp.Request.URL),
			zap.Int("status", resp.StatusCode()),
			zap.Duration("elapsed", resp.Time()),
		)

		if resp.IsError() {
			return apierror.FromResponse(resp.StatusCode(), resp.Body())
		}
		return nil
	})

	client.OnError(func(req *resty.Request, err error) {
		if apierror.KindOf(err) != "" {
			return
		}
		otellogger.For(req.Context(), log).Warn("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL),
			zap.Error(err),
		)
	})

	return client, nil
}

// Classify turns any error returned by a request made through these clients
// into an *apierror.Error. Errors already classified pass through; anything
// else means no usable response was received.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *apierror.Error
	if errors.As(err, &apiErr) {
		return apiErr
	}
	if errors.Is(err, ErrTokenRead) {
		return err
	}
	return apierror.Network(err)
}
