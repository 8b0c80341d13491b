package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable name (REST_PORT, ...).
const EnvPrefix = "REST"

// Config holds all application configuration
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	App    AppConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// StoreConfig locates the persisted route table
type StoreConfig struct {
	DataLocation string
}

// AuthConfig holds the shared secret protecting the write endpoints
type AuthConfig struct {
	Token string
}

// AppConfig holds application-specific settings
type AppConfig struct {
	Banner        string
	LogLevel      string
	LogFormat     string
	EnableMetrics bool
}

// Addr returns the listen address for the HTTP server.
func (c *ServerConfig) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// Load reads configuration from the environment, after merging in a .env
// file from the working directory when one exists. Variables already set in
// the environment win over the .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}
	return FromViper(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("banner", "SK Pivot API")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("enable_metrics", true)
	v.SetDefault("read_timeout", "10s")
	v.SetDefault("write_timeout", "10s")
	v.SetDefault("idle_timeout", "120s")
	v.SetDefault("shutdown_timeout", "30s")
	return v
}

// FromViper builds and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			DataLocation: v.GetString("data_location"),
		},
		Auth: AuthConfig{
			Token: v.GetString("auth_token"),
		},
		App: AppConfig{
			Banner:        v.GetString("banner"),
			LogLevel:      v.GetString("log_level"),
			LogFormat:     v.GetString("log_format"),
			EnableMetrics: v.GetBool("enable_metrics"),
		},
	}

	if cfg.Store.DataLocation == "" {
		return nil, fmt.Errorf("%s_DATA_LOCATION is required", EnvPrefix)
	}
	if cfg.Auth.Token == "" {
		return nil, fmt.Errorf("%s_AUTH_TOKEN is required", EnvPrefix)
	}

	port, err := parsePort(v.GetString("port"))
	if err != nil {
		return nil, err
	}
	cfg.Server.Port = port

	durations := []struct {
		key    string
		target *time.Duration
	}{
		{"read_timeout", &cfg.Server.ReadTimeout},
		{"write_timeout", &cfg.Server.WriteTimeout},
		{"idle_timeout", &cfg.Server.IdleTimeout},
		{"shutdown_timeout", &cfg.Server.ShutdownTimeout},
	}
	for _, d := range durations {
		parsed, err := time.ParseDuration(v.GetString(d.key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s_%s: %w", EnvPrefix, strings.ToUpper(d.key), err)
		}
		*d.target = parsed
	}

	return cfg, nil
}

func parsePort(raw string) (int, error) {
	if raw == "" {
		return 0, fmt.Errorf("%s_PORT is required", EnvPrefix)
	}
	port, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, fmt.Errorf("invalid %s_PORT %q: %w", EnvPrefix, raw, err)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("invalid %s_PORT %d: must be between 1 and 65535", EnvPrefix, port)
	}
	return port, nil
}
