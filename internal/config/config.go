// Package config builds the immutable application configuration from the
// environment. A local .env file is loaded first when present.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverMemory   = "memory"
)

type Config struct {
	Env      string
	Server   ServerConfig
	Token    TokenConfig
	Session  SessionConfig
	Redis    RedisConfig
	Database DatabaseConfig
	Mail     MailConfig
	Google   GoogleConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type TokenConfig struct {
	ActivationSecret string
	AccessSecret     string
	RefreshSecret    string
	ActivationTTL    time.Duration
	AccessTTL        time.Duration
	RefreshTTL       time.Duration
}

type SessionConfig struct {
	Driver string
	TTL    time.Duration
}

type RedisConfig struct {
	URL string
}

type DatabaseConfig struct {
	Driver   string
	Mongo    MongoConfig
	Postgres PostgresConfig
}

type MongoConfig struct {
	URI      string
	Database string
}

type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DB       string
}

func (p PostgresConfig) ConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", p.User, p.Password, p.Host, p.Port, p.DB)
}

type MailConfig struct {
	ResendAPIKey string
	From         string
}

type GoogleConfig struct {
	ClientID string
}

type LogConfig struct {
	Level string
}

// Production reports whether cookies must be marked Secure.
func (c *Config) Production() bool {
	return c.Env == EnvProduction
}

// Load reads .env (if any) and the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function; Load passes os.Getenv.
func FromEnv(getenv func(string) string) (*Config, error) {
	env := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	var errs []error
	intEnv := func(key string, def int) int {
		raw := env(key, strconv.Itoa(def))
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s: %q", key, raw))
			return def
		}
		return n
	}

	cfg := &Config{
		Env: strings.ToLower(env("APP_ENV", EnvDevelopment)),
		Server: ServerConfig{
			Host:           env("SERVER_HOST", "0.0.0.0"),
			Port:           intEnv("SERVER_PORT", 8000),
			AllowedOrigins: splitList(env("CORS_ORIGINS", "http://localhost:3000")),
		},
		Token: TokenConfig{
			ActivationSecret: getenv("ACTIVATION_SECRET"),
			AccessSecret:     getenv("ACCESS_TOKEN"),
			RefreshSecret:    getenv("REFRESH_TOKEN"),
			ActivationTTL:    time.Duration(intEnv("ACTIVATION_TOKEN_EXPIRE", 5)) * time.Minute,
			AccessTTL:        time.Duration(intEnv("ACCESS_TOKEN_EXPIRE", 5)) * time.Minute,
			RefreshTTL:       time.Duration(intEnv("REFRESH_TOKEN_EXPIRE", 3)) * 24 * time.Hour,
		},
		Session: SessionConfig{
			Driver: env("SESSION_DRIVER", DriverRedis),
			TTL:    time.Duration(intEnv("SESSION_TTL", 604800)) * time.Second,
		},
		Redis: RedisConfig{
			URL: env("REDIS_URL", "redis://localhost:6379/0"),
		},
		Database: DatabaseConfig{
			Driver: env("DB_DRIVER", DriverMongo),
			Mongo: MongoConfig{
				URI:      env("MONGO_URI", "mongodb://localhost:27017"),
				Database: env("MONGO_DATABASE", "elearning"),
			},
			Postgres: PostgresConfig{
				Host:     getenv("POSTGRES_HOST"),
				Port:     env("POSTGRES_PORT", "5432"),
				User:     getenv("POSTGRES_USER"),
				Password: getenv("POSTGRES_PASSWORD"),
				DB:       getenv("POSTGRES_DB"),
			},
		},
		Mail: MailConfig{
			ResendAPIKey: getenv("RESEND_API_KEY"),
			From:         env("MAIL_FROM", "noreply@example.com"),
		},
		Google: GoogleConfig{
			ClientID: getenv("GOOGLE_CLIENT_ID"),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
		},
	}

	errs = append(errs, cfg.validate()...)
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) validate() []error {
	var errs []error

	secrets := map[string]string{
		"ACTIVATION_SECRET": c.Token.ActivationSecret,
		"ACCESS_TOKEN":      c.Token.AccessSecret,
		"REFRESH_TOKEN":     c.Token.RefreshSecret,
	}
	for _, key := range []string{"ACTIVATION_SECRET", "ACCESS_TOKEN", "REFRESH_TOKEN"} {
		if secrets[key] == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
	}
	t := c.Token
	if t.ActivationSecret != "" && (t.ActivationSecret == t.AccessSecret || t.ActivationSecret == t.RefreshSecret) ||
		t.AccessSecret != "" && t.AccessSecret == t.RefreshSecret {
		errs = append(errs, errors.New("ACTIVATION_SECRET, ACCESS_TOKEN and REFRESH_TOKEN must all differ"))
	}

	switch c.Database.Driver {
	case DriverMongo, DriverPostgres:
	default:
		errs = append(errs, fmt.Errorf("invalid DB_DRIVER: %q", c.Database.Driver))
	}
	switch c.Session.Driver {
	case DriverRedis, DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("invalid SESSION_DRIVER: %q", c.Session.Driver))
	}
	switch c.Env {
	case EnvProduction, EnvDevelopment, "test":
	default:
		errs = append(errs, fmt.Errorf("invalid APP_ENV: %q", c.Env))
	}
	return errs
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
