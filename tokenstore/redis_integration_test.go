//go:build integration

package tokenstore

import (
	"context"
	"testing"
	"time"

	redisdb "github.com/octabyte/medtrack-gommon/db/redis"
	"github.com/stretchr/testify/suite"
	tContainer "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RedisIntegrationTestSuite struct {
	suite.Suite
	ctx       context.Context
	container tContainer.Container
	addr      string
}

func (s *RedisIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := tContainer.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	}
	container, err := tContainer.GenericContainer(s.ctx, tContainer.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	s.Require().NoError(err)
	s.container = container

	host, err := container.Host(s.ctx)
	s.Require().NoError(err)
	port, err := container.MappedPort(s.ctx, "6379")
	s.Require().NoError(err)

	s.addr = host + ":" + port.Port()
}

func (s *RedisIntegrationTestSuite) TearDownSuite() {
	s.Require().NoError(s.container.Terminate(s.ctx))
}

func (s *RedisIntegrationTestSuite) TestTokenSharedBetweenTerminals() {
	opts := Options{Driver: "redis", Profile: "front-desk", Redis: redisdb.Config{Addr: s.addr}}

	first, closeFirst, err := Open(s.ctx, opts)
	s.Require().NoError(err)
	defer closeFirst()
	second, closeSecond, err := Open(s.ctx, opts)
	s.Require().NoError(err)
	defer closeSecond()

	s.Require().NoError(NewTokenStore(first).Set(s.ctx, "abc"))

	token, ok, err := NewTokenStore(second).Get(s.ctx)
	s.Require().NoError(err)
	s.True(ok)
	s.Equal("abc", token)

	s.Require().NoError(NewTokenStore(second).Clear(s.ctx))
	_, ok, err = NewTokenStore(first).Get(s.ctx)
	s.Require().NoError(err)
	s.False(ok)
}

func TestRedisIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(RedisIntegrationTestSuite))
}
