// Package config loads the process configuration from the environment.
// Everything is resolved once at startup and passed down explicitly.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Store backends
const (
	BackendGitHub = "github"
	BackendSQLite = "sqlite"
)

// Errors
var (
	ErrMissingToken = errors.New("GITHUB_TOKEN is required for the github store backend")
)

type (
	// Config contains all configuration variables of the application.
	Config struct {
		Port            int           `env:"PORT" envDefault:"5000"`
		ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
		Participants    []string      `env:"PARTICIPANTS" envDefault:"Iosu,Lide,Asier,Itziar" envSeparator:","`

		Log   LogConfig
		Store StoreConfig
		Paths PathsConfig
	}

	LogConfig struct {
		Level  string `env:"LOG_LEVEL" envDefault:"info"`
		Format string `env:"LOG_FORMAT" envDefault:"text"` // text (colored) or json
	}

	StoreConfig struct {
		Backend    string        `env:"STORE_BACKEND" envDefault:"github"`
		Timeout    time.Duration `env:"STORE_TIMEOUT" envDefault:"30s"`
		Token      string        `env:"GITHUB_TOKEN"`
		Repository string        `env:"GITHUB_REPO" envDefault:"iosugomez/kotxea-backend"`
		Branch     string        `env:"GITHUB_BRANCH" envDefault:"main"`
		APIURL     string        `env:"GITHUB_API_URL"`
		DBPath     string        `env:"DB_PATH" envDefault:"./data/kotxea.db"`
	}

	PathsConfig struct {
		Data  string `env:"DATA_PATH" envDefault:"datos/datos.json"`
		Rides string `env:"CSV_VIAJES_PATH" envDefault:"datos/viajes.csv"`
		Money string `env:"CSV_DINERO_PATH" envDefault:"datos/dinero.csv"`
	}
)

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	cfg.Participants = trimAll(cfg.Participants)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the values that cannot be expressed as struct tags.
func (c *Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if len(c.Participants) == 0 {
		return errors.New("PARTICIPANTS must list at least one name")
	}

	switch c.Store.Backend {
	case BackendGitHub:
		if c.Store.Token == "" {
			return ErrMissingToken
		}
		if owner, repo, ok := strings.Cut(c.Store.Repository, "/"); !ok || owner == "" || repo == "" {
			return fmt.Errorf("GITHUB_REPO must be owner/name, got %q", c.Store.Repository)
		}
	case BackendSQLite:
		if c.Store.DBPath == "" {
			return errors.New("DB_PATH is required for the sqlite store backend")
		}
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend)
	}

	if c.Paths.Data == "" || c.Paths.Rides == "" || c.Paths.Money == "" {
		return errors.New("file paths must not be empty")
	}
	return nil
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
