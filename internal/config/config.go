package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	App struct {
		Name string `envconfig:"APP_NAME" default:"Envelope"`
		Port int    `envconfig:"PORT" default:"8080"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"envelope"`
	}

	Store struct {
		Backend string `envconfig:"STORE_BACKEND" default:"postgres"`
	}

	Server struct {
		Timeout         time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"15s"`
		CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	}

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET"`
	}

	Events struct {
		BufferSize   int    `envconfig:"EVENTS_BUFFER_SIZE" default:"256"`
		RedisURL     string `envconfig:"EVENTS_REDIS_URL"`
		RedisChannel string `envconfig:"EVENTS_REDIS_CHANNEL" default:"envelope.events"`
		AMQPURL      string `envconfig:"EVENTS_AMQP_URL"`
		AMQPExchange string `envconfig:"EVENTS_AMQP_EXCHANGE" default:"envelope.events"`
	}

	Log struct {
		Level  string `envconfig:"LOG_LEVEL" default:"info"`
		Format string `envconfig:"LOG_FORMAT" default:"text"`
	}

	// TUI talks to the store directly as this user.
	TUI struct {
		UserID string `envconfig:"TUI_USER_ID"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case BackendPostgres, BackendMemory:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", BackendPostgres, BackendMemory, c.Store.Backend)
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", c.Log.Format)
	}

	if _, err := c.LogLevel(); err != nil {
		return err
	}

	if c.Events.BufferSize <= 0 {
		return fmt.Errorf("EVENTS_BUFFER_SIZE must be positive, got %d", c.Events.BufferSize)
	}

	return nil
}

func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.ToUpper(c.Log.Level))); err != nil {
		return 0, fmt.Errorf("invalid LOG_LEVEL %q: %w", c.Log.Level, err)
	}

	return level, nil
}

// Logger builds the process logger from the Log settings.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level, err := c.LogLevel()
	if err != nil {
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	if c.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}

	return slog.New(slog.NewTextHandler(w, opts))
}

// TUIUser parses TUI_USER_ID.
func (c *Config) TUIUser() (uuid.UUID, error) {
	if c.TUI.UserID == "" {
		return uuid.Nil, fmt.Errorf("TUI_USER_ID is required")
	}

	id, err := uuid.Parse(c.TUI.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid TUI_USER_ID: %w", err)
	}

	return id, nil
}
