package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Newsletter NewsletterConfig `yaml:"newsletter"`
	Redis      RedisConfig      `yaml:"redis"`
	Archive    ArchiveConfig    `yaml:"archive"`
	Frontend   FrontendConfig   `yaml:"frontend"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds HTTP listener settings
type ServerConfig struct {
	Port                   int      `yaml:"port"`
	Host                   string   `yaml:"host"`
	ShutdownTimeoutSeconds int      `yaml:"shutdown_timeout_seconds"`
	CORSOrigins            []string `yaml:"cors_origins"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// Addr returns host:port for the listener.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.GetHost(), c.Port)
}

// ShutdownTimeout returns the graceful shutdown budget.
func (c ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSeconds) * time.Second
}

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig holds subscriber store settings
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "postgres" or "memory"
	URL                    string `yaml:"url"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	AcquireTimeoutSeconds  int    `yaml:"acquire_timeout_seconds"`
	AutoMigrate            bool   `yaml:"auto_migrate"`
}

// AcquireTimeout returns how long a request may wait for a connection.
func (c DatabaseConfig) AcquireTimeout() time.Duration {
	return time.Duration(c.AcquireTimeoutSeconds) * time.Second
}

// ConnMaxLifetime returns the pooled connection lifetime.
func (c DatabaseConfig) ConnMaxLifetime() time.Duration {
	return time.Duration(c.ConnMaxLifetimeMinutes) * time.Minute
}

// NewsletterConfig holds the admin secret. Prefer the ADMIN_TOKEN env var
// over committing it to the YAML file.
type NewsletterConfig struct {
	AdminToken string `yaml:"admin_token"`
}

// RedisConfig holds the optional Redis connection used for migration locks.
type RedisConfig struct {
	URL string `yaml:"url"`
}

// Archive backends.
const (
	ArchiveLocal = "local"
	ArchiveS3    = "s3"
)

// ArchiveConfig holds where subscriber exports are written
type ArchiveConfig struct {
	Type       string `yaml:"type"` // "local" or "s3"
	LocalPath  string `yaml:"local_path"`
	S3Bucket   string `yaml:"s3_bucket"`
	S3Prefix   string `yaml:"s3_prefix"`
	AWSRegion  string `yaml:"aws_region"`
	AWSProfile string `yaml:"aws_profile"` // Empty string uses default credential chain (IAM role on ECS)
}

// GetAWSProfile returns the AWS profile, with environment variable override
func (c ArchiveConfig) GetAWSProfile() string {
	if envProfile := os.Getenv("AWS_PROFILE_OVERRIDE"); envProfile != "" {
		if envProfile == "none" || envProfile == "iam" {
			return ""
		}
		return envProfile
	}
	// On ECS/Lambda, don't use a profile - use IAM role
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return ""
	}
	return c.AWSProfile
}

// FrontendConfig holds the landing page settings. An empty TemplateDir
// serves the built-in templates.
type FrontendConfig struct {
	TemplateDir string `yaml:"template_dir"`
	StaticDir   string `yaml:"static_dir"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level            string `yaml:"level"`
	DisableRedaction bool   `yaml:"disable_redaction"`
}

// Load reads and parses the configuration file. A missing file is not an
// error: defaults apply and the environment supplies the rest.
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.ShutdownTimeoutSeconds == 0 {
		cfg.Server.ShutdownTimeoutSeconds = 10
	}
	if len(cfg.Server.CORSOrigins) == 0 {
		cfg.Server.CORSOrigins = []string{"*"}
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 10
	}
	if cfg.Database.ConnMaxLifetimeMinutes == 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 5
	}
	if cfg.Database.AcquireTimeoutSeconds == 0 {
		cfg.Database.AcquireTimeoutSeconds = 5
	}
	if cfg.Archive.Type == "" {
		cfg.Archive.Type = ArchiveLocal
	}
	if cfg.Archive.LocalPath == "" {
		cfg.Archive.LocalPath = "./data/exports"
	}
	if cfg.Archive.S3Prefix == "" {
		cfg.Archive.S3Prefix = "newsletter/exports"
	}
	if cfg.Archive.AWSRegion == "" {
		cfg.Archive.AWSRegion = "us-west-2"
	}
	if cfg.Frontend.StaticDir == "" {
		cfg.Frontend.StaticDir = "./static"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		cfg.Database.Driver = v
	}
	if v := os.Getenv("ADMIN_TOKEN"); v != "" {
		cfg.Newsletter.AdminToken = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	// Setting a bucket switches exports to S3.
	if v := os.Getenv("ARCHIVE_S3_BUCKET"); v != "" {
		cfg.Archive.S3Bucket = v
		cfg.Archive.Type = ArchiveS3
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Archive.AWSRegion = v
	}

	return cfg, nil
}

// Validate reports every setting the server cannot start without.
func (cfg *Config) Validate() error {
	var errs []error
	if cfg.Newsletter.AdminToken == "" {
		errs = append(errs, errors.New("ADMIN_TOKEN is required"))
	}
	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.URL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("database.driver %q is not supported", cfg.Database.Driver))
	}
	switch cfg.Archive.Type {
	case ArchiveLocal:
	case ArchiveS3:
		if cfg.Archive.S3Bucket == "" {
			errs = append(errs, errors.New("archive.s3_bucket is required for the s3 archive"))
		}
	default:
		errs = append(errs, fmt.Errorf("archive.type %q is not supported", cfg.Archive.Type))
	}
	return errors.Join(errs...)
}
