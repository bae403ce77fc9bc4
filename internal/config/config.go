package config

import (
	"context"
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
)

// App holds core runtime configuration shared across services.
type App struct {
	Name                    string        `env:"APP_NAME" envDefault:"prepdesk"`
	Env                     string        `env:"APP_ENV" envDefault:"development"`
	HTTPAddr                string        `env:"HTTP_ADDR" envDefault:"0.0.0.0:8080"`
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_SECONDS" envDefault:"20s"`

	Storage  Storage
	Security Security
	Quiz     Quiz
}

// Storage locates the JSON collection files.
type Storage struct {
	DataDir string `env:"DATA_DIR" envDefault:"data"`
}

// Security stores secrets for signing and the admin gate.
type Security struct {
	JWTSecret     string        `env:"JWT_SECRET,notEmpty"`
	AdminPassword string        `env:"ADMIN_PASSWORD,notEmpty"`
	TokenTTL      time.Duration `env:"TOKEN_TTL" envDefault:"12h"`
}

// Quiz tunes session lifetime handling.
type Quiz struct {
	// SessionGrace extends the advisory quiz duration before an
	// unsubmitted session is evicted.
	SessionGrace  time.Duration `env:"SESSION_GRACE" envDefault:"5m"`
	SweepInterval time.Duration `env:"SESSION_SWEEP_INTERVAL" envDefault:"1m"`
}

// Load parses environment variables into App config.
func Load(ctx context.Context) (*App, error) {
	cfg := &App{}
	if err := env.ParseWithOptions(cfg, env.Options{RequiredIfNoDef: true}); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
