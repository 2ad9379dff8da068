package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/octabyte/medtrack-gommon/api"
	"github.com/octabyte/medtrack-gommon/config"
	"github.com/octabyte/medtrack-gommon/events"
	"github.com/octabyte/medtrack-gommon/httpclient"
	"github.com/octabyte/medtrack-gommon/queue"
	"github.com/octabyte/medtrack-gommon/rbac"
	"github.com/octabyte/medtrack-gommon/session"
	"github.com/octabyte/medtrack-gommon/tokenstore"
	"go.uber.org/zap"
)

var (
	errUsage       = errors.New("usage")
	errNotLoggedIn = errors.New("not logged in, run: medtrack login")
	errSignedOut   = errors.New("your session has ended, please log in again")
)

type app struct {
	cfg     *config.Config
	client  *api.Client
	session *session.Session
	out     io.Writer
	log     *zap.Logger
	now     func() time.Time
}

func newApp(ctx context.Context, cfg *config.Config, out io.Writer, log *zap.Logger) (*app, func(), error) {
	var closers []func() error
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				log.Warn("close failed", zap.Error(err))
			}
		}
	}

	storage, closeStorage, err := tokenstore.Open(ctx, cfg.TokenStore())
	if err != nil {
		return nil, closeAll, fmt.Errorf("open token store: %w", err)
	}
	closers = append(closers, closeStorage)

	httpCfg := cfg.HTTPClient(log)
	plain, err := httpclient.NewPlain(httpCfg)
	if err != nil {
		return nil, closeAll, err
	}
	authenticated, err := httpclient.NewAuthenticated(httpCfg, tokenstore.NewTokenStore(storage))
	if err != nil {
		return nil, closeAll, err
	}
	client := api.New(plain, authenticated, log)

	var sink events.Sink = events.Discard{}
	if qcfg, ok := cfg.Queue(); ok {
		conn, err := queue.NewConnection(qcfg)
		if err != nil {
			log.Warn("session events disabled", zap.Error(err))
		} else {
			closers = append(closers, conn.Close)
			sink = queue.NewEventSink(queue.NewPublisher(conn.Ch, queue.PublishConfig{
				Exchange: qcfg.Exchange.Name,
				AppID:    serviceName,
			}))
		}
	}

	return &app{
		cfg:     cfg,
		client:  client,
		session: session.New(client, storage, session.Options{Logger: log, Events: sink}),
		out:     out,
		log:     log,
		now:     time.Now,
	}, closeAll, nil
}

// enter verifies the session at the caller's home page and returns the
// capabilities of the verified role.
func (a *app) enter(ctx context.Context) (rbac.Capabilities, error) {
	if _, ok, err := a.session.Tokens.Get(ctx); err != nil {
		return rbac.Capabilities{}, err
	} else if !ok {
		return rbac.Capabilities{}, errNotLoggedIn
	}

	profile, err := a.client.Users.MyProfile(ctx)
	if err != nil {
		a.log.Debug("profile lookup failed", zap.Error(err))
		return a.navigate(ctx, rbac.UserArea)
	}
	return a.navigate(ctx, rbac.LandingRoute(profile.Role))
}

func (a *app) navigate(ctx context.Context, path string) (rbac.Capabilities, error) {
	out := a.session.Navigate(ctx, path)
	if out.Redirect != "" {
		if out.Reason == session.ReasonNoToken {
			return rbac.Capabilities{}, errNotLoggedIn
		}
		return rbac.Capabilities{}, errSignedOut
	}
	if !out.Protected {
		return rbac.Capabilities{}, nil
	}
	caps, ok := a.session.Reader().Capabilities()
	if !ok {
		return rbac.Capabilities{}, errSignedOut
	}
	return caps, nil
}

func (a *app) printf(format string, args ...interface{}) {
	fmt.Fprintf(a.out, format, args...)
}
