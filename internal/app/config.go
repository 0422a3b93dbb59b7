package app

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/yungbote/yamdb-backend/internal/data/db"
	"github.com/yungbote/yamdb-backend/internal/platform/logger"
)

const defaultJWTSecret = "defaultsecret"

type Config struct {
	LogMode  string `env:"LOG_MODE" envDefault:"development"`
	HTTPAddr string `env:"HTTP_ADDR" envDefault:":8080"`

	DBDriver        string        `env:"DB_DRIVER" envDefault:"postgres"`
	DatabaseDSN     string        `env:"DATABASE_DSN"`
	DBSlowThreshold time.Duration `env:"DB_SLOW_THRESHOLD" envDefault:"500ms"`
	DBMaxOpenConns  int           `env:"DB_MAX_OPEN_CONNS" envDefault:"20"`
	DBMaxIdleConns  int           `env:"DB_MAX_IDLE_CONNS" envDefault:"5"`

	Postgres PostgresConfig `envPrefix:"POSTGRES_"`

	JWTSecretKey        string        `env:"JWT_SECRET_KEY" envDefault:"defaultsecret"`
	AccessTokenTTL      time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"`
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"1h"`

	MailBackend string         `env:"MAIL_BACKEND" envDefault:"log"`
	MailFrom    string         `env:"MAIL_FROM" envDefault:"noreply@yamdb.local"`
	SendGrid    SendGridConfig `envPrefix:"SENDGRID_"`
	ResendKey   string         `env:"RESEND_API_KEY"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	SignupResendLimit  int           `env:"SIGNUP_RESEND_LIMIT" envDefault:"5"`
	SignupResendWindow time.Duration `env:"SIGNUP_RESEND_WINDOW" envDefault:"1h"`
	AuthRatePerMinute  int           `env:"AUTH_RATE_LIMIT_PER_MINUTE" envDefault:"30"`
	AuthRateBurst      int           `env:"AUTH_RATE_LIMIT_BURST" envDefault:"10"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`

	OTelEnabled     bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTelEndpoint    string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool    `env:"OTEL_EXPORTER_OTLP_INSECURE" envDefault:"false"`
	OTelSampleRatio float64 `env:"OTEL_SAMPLE_RATIO" envDefault:"1"`
	ServiceName     string  `env:"OTEL_SERVICE_NAME" envDefault:"yamdb-backend"`
	Environment     string  `env:"APP_ENV" envDefault:"local"`
}

type PostgresConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     int    `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"postgres"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"yamdb"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

type SendGridConfig struct {
	APIKey     string        `env:"API_KEY"`
	BaseURL    string        `env:"BASE_URL"`
	FromName   string        `env:"FROM_NAME" envDefault:"YaMDb"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"4"`
}

// LoadConfig parses the environment. A .env file, if any, is loaded by the CLI
// before this runs.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))
	cfg.MailBackend = strings.ToLower(strings.TrimSpace(cfg.MailBackend))
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.DBDriver {
	case db.DriverPostgres, db.DriverSQLite:
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q, got %q", db.DriverPostgres, db.DriverSQLite, c.DBDriver)
	}
	switch c.MailBackend {
	case "log":
	case "sendgrid":
		if strings.TrimSpace(c.SendGrid.APIKey) == "" {
			return fmt.Errorf("MAIL_BACKEND=sendgrid requires SENDGRID_API_KEY")
		}
	case "resend":
		if strings.TrimSpace(c.ResendKey) == "" {
			return fmt.Errorf("MAIL_BACKEND=resend requires RESEND_API_KEY")
		}
	default:
		return fmt.Errorf("MAIL_BACKEND must be log, sendgrid or resend, got %q", c.MailBackend)
	}
	if c.AccessTokenTTL <= 0 || c.ConfirmationCodeTTL <= 0 {
		return fmt.Errorf("token and code TTLs must be positive")
	}
	return nil
}

// DSN returns DATABASE_DSN, or a postgres URL assembled from POSTGRES_*.
func (c Config) DSN() string {
	if dsn := strings.TrimSpace(c.DatabaseDSN); dsn != "" {
		return dsn
	}
	if c.DBDriver == db.DriverSQLite {
		return ""
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Postgres.User, c.Postgres.Password),
		Host:     fmt.Sprintf("%s:%d", c.Postgres.Host, c.Postgres.Port),
		Path:     "/" + c.Postgres.Name,
		RawQuery: "sslmode=" + url.QueryEscape(c.Postgres.SSLMode),
	}
	return u.String()
}

func (c Config) DBConfig() db.Config {
	return db.Config{
		Driver:        c.DBDriver,
		DSN:           c.DSN(),
		SlowThreshold: c.DBSlowThreshold,
		MaxOpenConns:  c.DBMaxOpenConns,
		MaxIdleConns:  c.DBMaxIdleConns,
	}
}

// warnInsecure flags settings that are fine locally but not in production.
func (c Config) warnInsecure(log *logger.Logger) {
	if c.JWTSecretKey == defaultJWTSecret {
		log.Warn("JWT_SECRET_KEY is the built-in default; set it outside local development")
	}
	if c.MailBackend == "log" && c.LogMode == "production" {
		log.Warn("MAIL_BACKEND=log in production; confirmation codes are only written to the log")
	}
}
