package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	DB      DBConfig      `envPrefix:"DB_"`
	Storage StorageConfig `envPrefix:"STORAGE_"`
	MinIO   MinIOConfig   `envPrefix:"MINIO_"`
	S3      S3Config      `envPrefix:"S3_"`
	JWT     JWTConfig     `envPrefix:"JWT_"`
	Server  ServerConfig  `envPrefix:"SERVER_"`
	Audit   AuditConfig   `envPrefix:"AUDIT_"`
	Upload  UploadConfig  `envPrefix:"UPLOAD_"`
}

type DBConfig struct {
	Driver   string `env:"DRIVER" envDefault:"postgres"`
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"photoapp"`
	Password string `env:"PASSWORD" envDefault:"photoapp_secret"`
	Name     string `env:"NAME" envDefault:"photoapp"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
	// Path is the sqlite database file used when Driver is "sqlite".
	Path string `env:"PATH" envDefault:"photoapp.db"`
}

type StorageConfig struct {
	Backend string `env:"BACKEND" envDefault:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"localhost:9000"`
	AccessKey string `env:"ACCESS_KEY" envDefault:"photoapp"`
	SecretKey string `env:"SECRET_KEY" envDefault:"photoapp_secret"`
	Bucket    string `env:"BUCKET" envDefault:"photoapp"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"false"`
}

// S3Config targets AWS S3. An empty AccessKey selects IAM instance credentials.
type S3Config struct {
	Endpoint  string `env:"ENDPOINT" envDefault:"s3.amazonaws.com"`
	Region    string `env:"REGION" envDefault:"us-east-2"`
	AccessKey string `env:"ACCESS_KEY"`
	SecretKey string `env:"SECRET_KEY"`
	Bucket    string `env:"BUCKET" envDefault:"photoapp"`
	UseSSL    bool   `env:"USE_SSL" envDefault:"true"`
}

type JWTConfig struct {
	Secret          string `env:"SECRET" envDefault:"change-me-in-production"`
	ExpirationHours int    `env:"EXPIRATION_HOURS" envDefault:"24"`
}

type ServerConfig struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	BodyLimitMB    int      `env:"BODY_LIMIT_MB" envDefault:"50"`
	AllowReset     bool     `env:"ALLOW_RESET" envDefault:"false"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3001,http://127.0.0.1:3001"`
}

type AuditConfig struct {
	// ExportInterval of zero disables the blob-store export.
	ExportInterval time.Duration `env:"EXPORT_INTERVAL" envDefault:"1h"`
}

type UploadConfig struct {
	ReconcileInterval time.Duration `env:"RECONCILE_INTERVAL" envDefault:"5m"`
	PendingMaxAge     time.Duration `env:"PENDING_MAX_AGE" envDefault:"15m"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.DB.Driver = strings.ToLower(strings.TrimSpace(c.DB.Driver))
	switch c.DB.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}

	c.Storage.Backend = strings.ToLower(strings.TrimSpace(c.Storage.Backend))
	switch c.Storage.Backend {
	case "minio", "s3":
	default:
		return fmt.Errorf("unsupported STORAGE_BACKEND %q", c.Storage.Backend)
	}

	if c.Server.BodyLimitMB <= 0 {
		return fmt.Errorf("SERVER_BODY_LIMIT_MB must be positive")
	}
	if c.JWT.ExpirationHours <= 0 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be positive")
	}
	return nil
}
