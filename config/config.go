// Package config loads the client and development backend settings from the
// environment, reading a .env file first when one exists.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	redisdb "github.com/octabyte/medtrack-gommon/db/redis"
	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/httpclient"
	"github.com/octabyte/medtrack-gommon/otel"
	"github.com/octabyte/medtrack-gommon/queue"
	"github.com/octabyte/medtrack-gommon/tokenstore"
	"github.com/octabyte/medtrack-gommon/utils/logger"
	"go.uber.org/zap"
)

// Config aggregates runtime configuration.
type Config struct {
	App     AppConfig
	API     APIConfig
	Storage StorageConfig
	// Redis is only checked when Storage.Driver is redis.
	Redis   redisdb.Config `validate:"-"`
	Events  EventsConfig
	Logger  LoggerConfig
	Tracing TracingConfig
	// MockAPI is only read by the development backend; see ValidateMockAPI.
	MockAPI MockAPIConfig `validate:"-"`
}

type AppConfig struct {
	Name string `validate:"required"`
	Env  string `validate:"required"`
	// Timezone appointment dates are shown in. "Local" follows the machine.
	Timezone string
}

type APIConfig struct {
	BaseURL          string `validate:"required,url"`
	TimeoutSeconds   int    `validate:"gte=1"`
	SearchDebounceMS int    `validate:"gte=0"`
}

type StorageConfig struct {
	Driver  enums.StorageDriver `validate:"oneof=file redis memory"`
	Dir     string              `validate:"required_if=Driver file"`
	Profile string              `validate:"required"`
}

// EventsConfig enables session event publishing when AMQPURI is set.
type EventsConfig struct {
	AMQPURI  string `validate:"omitempty,url"`
	Exchange string `validate:"required"`
}

type LoggerConfig struct {
	Level string
}

type TracingConfig struct {
	Enabled    bool
	SampleRate float64 `validate:"gte=0,lte=1"`
}

type MockAPIConfig struct {
	Addr     string `validate:"required"`
	PageSize int    `validate:"gte=1"`
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	sampleRate, err := strconv.ParseFloat(getEnv("OTEL_SAMPLE_RATE", "1"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OTEL_SAMPLE_RATE: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:     getEnv("APP_NAME", "medtrack"),
			Env:      getEnv("APP_ENV", "development"),
			Timezone: getEnv("MEDTRACK_TIMEZONE", "Local"),
		},
		API: APIConfig{
			BaseURL:          getEnv("MEDTRACK_API_URL", "http://localhost:8080"),
			TimeoutSeconds:   getEnvAsInt("HTTP_TIMEOUT_SECONDS", int(httpclient.DefaultTimeout/time.Second)),
			SearchDebounceMS: getEnvAsInt("SEARCH_DEBOUNCE_MS", 500),
		},
		Storage: StorageConfig{
			Driver:  enums.StorageDriver(getEnv("MEDTRACK_STORAGE", string(enums.StorageDriverFile))),
			Dir:     getEnv("MEDTRACK_STORAGE_DIR", defaultStorageDir()),
			Profile: getEnv("MEDTRACK_PROFILE", "default"),
		},
		Redis: redisdb.Config{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Events: EventsConfig{
			AMQPURI:  os.Getenv("AMQP_URI"),
			Exchange: getEnv("MEDTRACK_EVENTS_EXCHANGE", "medtrack.sessions"),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Tracing: TracingConfig{
			Enabled:    getEnvAsBool("OTEL_ENABLED", false),
			SampleRate: sampleRate,
		},
		MockAPI: MockAPIConfig{
			Addr:     getEnv("MOCKAPI_ADDR", ":8080"),
			PageSize: getEnvAsInt("MOCKAPI_PAGE_SIZE", 10),
		},
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Storage.Driver == enums.StorageDriverRedis {
		if err := v.Struct(c.Redis); err != nil {
			return fmt.Errorf("invalid redis config: %w", err)
		}
	}
	return nil
}

// ValidateMockAPI checks the settings only the development backend uses.
func (c *Config) ValidateMockAPI() error {
	if err := validator.New().Struct(c.MockAPI); err != nil {
		return fmt.Errorf("invalid mock api config: %w", err)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.TimeoutSeconds) * time.Second
}

func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.API.SearchDebounceMS) * time.Millisecond
}

func (c *Config) HTTPClient(log *zap.Logger) httpclient.Config {
	return httpclient.Config{
		BaseURL:     c.API.BaseURL,
		Timeout:     c.Timeout(),
		ServiceName: c.App.Name,
		Logger:      log,
	}
}

func (c *Config) TokenStore() tokenstore.Options {
	return tokenstore.Options{
		Driver:  c.Storage.Driver,
		Dir:     c.Storage.Dir,
		Profile: c.Storage.Profile,
		Redis:   c.Redis,
	}
}

// LoggerConfig builds the logger settings for service, writing to outputs.
func (c *Config) LoggerConfig(service string, outputs ...string) *logger.Config {
	return &logger.Config{
		Level:       c.Logger.Level,
		Env:         c.App.Env,
		ServiceName: service,
		OutputPaths: outputs,
	}
}

func (c *Config) TracingConfig(service string) otel.TracingConfig {
	return otel.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: service,
		Environment: c.App.Env,
		SampleRate:  c.Tracing.SampleRate,
	}
}

// Queue returns the broker settings, or false when events stay local.
func (c *Config) Queue() (queue.ConnectionConfig, bool) {
	if c.Events.AMQPURI == "" {
		return queue.ConnectionConfig{}, false
	}
	return queue.ConnectionConfig{
		URI:      c.Events.AMQPURI,
		Exchange: queue.ExchangeConfig{Name: c.Events.Exchange, Durable: true},
	}, true
}

func defaultStorageDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "medtrack")
	}
	return ".medtrack"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
