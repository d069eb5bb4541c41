// Package config loads the storefront configuration from the environment.
package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the typed application configuration.
type Config struct {
	Port           string
	DatabaseURL    string
	BaseURL        string
	JWTSecret      string
	SessionSecret  string
	ActivationTTL  time.Duration
	ForbiddenWords []string

	Log   LogConfig
	Cache CacheConfig
	Mail  MailConfig

	CloudinaryURL string
}

type LogConfig struct {
	Mode string // development | production
	File string
}

type CacheConfig struct {
	SweepSpec string
}

type MailConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

// Enabled reports whether an SMTP host is configured.
func (m MailConfig) Enabled() bool { return m.Host != "" }

// Load reads an optional .env file and then the process environment.
// A missing .env file is not an error.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:           v.GetString("APP_PORT"),
		DatabaseURL:    v.GetString("DATABASE_URL"),
		BaseURL:        strings.TrimRight(v.GetString("BASE_URL"), "/"),
		JWTSecret:      v.GetString("JWT_SECRET"),
		SessionSecret:  v.GetString("SESSION_SECRET"),
		ActivationTTL:  v.GetDuration("ACTIVATION_TTL"),
		ForbiddenWords: splitList(v.GetString("FORBIDDEN_WORDS")),
		Log: LogConfig{
			Mode: v.GetString("LOG_MODE"),
			File: v.GetString("LOG_FILE"),
		},
		Cache: CacheConfig{
			SweepSpec: v.GetString("CACHE_SWEEP_SPEC"),
		},
		Mail: MailConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			User:     v.GetString("SMTP_USER"),
			Password: v.GetString("SMTP_PASSWORD"),
			From:     v.GetString("MAIL_FROM"),
		},
		CloudinaryURL: v.GetString("CLOUDINARY_URL"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", "8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("BASE_URL", "http://localhost:8080")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("SESSION_SECRET", "")
	v.SetDefault("ACTIVATION_TTL", "72h")
	v.SetDefault("FORBIDDEN_WORDS", "")
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("CACHE_SWEEP_SPEC", "@every 1m")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("MAIL_FROM", "noreply@localhost")
	v.SetDefault("CLOUDINARY_URL", "")
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.SessionSecret == "" {
		missing = append(missing, "SESSION_SECRET")
	}
	if len(missing) > 0 {
		return errors.New("missing required configuration: " + strings.Join(missing, ", "))
	}
	if c.ActivationTTL <= 0 {
		return errors.New("ACTIVATION_TTL must be positive")
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
