package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"
  shutdown_timeout_seconds: 3
  cors_origins: ["https://example.com"]

database:
  driver: postgres
  url: "postgres://localhost/newsletter?sslmode=disable"
  max_open_conns: 4
  acquire_timeout_seconds: 2
  auto_migrate: true

newsletter:
  admin_token: "from-yaml"

archive:
  type: s3
  s3_bucket: "exports"

frontend:
  template_dir: "./templates"

log:
  level: debug
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout())
	assert.Equal(t, []string{"https://example.com"}, cfg.Server.CORSOrigins)

	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/newsletter?sslmode=disable", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Database.MaxOpenConns)
	assert.Equal(t, 10, cfg.Database.MaxIdleConns)
	assert.Equal(t, 2*time.Second, cfg.Database.AcquireTimeout())
	assert.True(t, cfg.Database.AutoMigrate)

	assert.Equal(t, "from-yaml", cfg.Newsletter.AdminToken)
	assert.Equal(t, ArchiveS3, cfg.Archive.Type)
	assert.Equal(t, "exports", cfg.Archive.S3Bucket)
	assert.Equal(t, "newsletter/exports", cfg.Archive.S3Prefix)
	assert.Equal(t, "./templates", cfg.Frontend.TemplateDir)
	assert.Equal(t, "debug", cfg.Log.Level)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.AcquireTimeout())
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime())
	assert.Equal(t, ArchiveLocal, cfg.Archive.Type)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DATABASE_URL", "postgres://env/db")
	t.Setenv("ADMIN_TOKEN", "env-secret")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ARCHIVE_S3_BUCKET", "env-bucket")

	cfg, err := LoadFromEnv("")
	require.NoError(t, err)

	assert.Equal(t, 7000, cfg.Server.Port)
	assert.Equal(t, "postgres://env/db", cfg.Database.URL)
	assert.Equal(t, "env-secret", cfg.Newsletter.AdminToken)
	assert.Equal(t, "redis://localhost:6379/0", cfg.Redis.URL)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, ArchiveS3, cfg.Archive.Type)
	assert.Equal(t, "env-bucket", cfg.Archive.S3Bucket)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_BadPort(t *testing.T) {
	t.Setenv("PORT", "eighty")

	_, err := LoadFromEnv("")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("missing secrets", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "ADMIN_TOKEN is required")
		assert.Contains(t, err.Error(), "DATABASE_URL is required")
	})

	t.Run("memory driver needs no url", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Database.Driver = DriverMemory
		cfg.Newsletter.AdminToken = "x"

		assert.NoError(t, cfg.Validate())
	})

	t.Run("unknown driver and archive", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Newsletter.AdminToken = "x"
		cfg.Database.Driver = "sqlite"
		cfg.Archive.Type = "ftp"

		err = cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"sqlite"`)
		assert.Contains(t, err.Error(), `"ftp"`)
	})

	t.Run("s3 without bucket", func(t *testing.T) {
		cfg, err := Load("")
		require.NoError(t, err)
		cfg.Newsletter.AdminToken = "x"
		cfg.Database.Driver = DriverMemory
		cfg.Archive.Type = ArchiveS3

		assert.Error(t, cfg.Validate())
	})
}

func TestArchiveConfig_GetAWSProfile(t *testing.T) {
	c := ArchiveConfig{AWSProfile: "dev"}
	t.Setenv("ECS_CONTAINER_METADATA_URI", "")
	t.Setenv("AWS_EXECUTION_ENV", "")

	t.Setenv("AWS_PROFILE_OVERRIDE", "")
	assert.Equal(t, "dev", c.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "iam")
	assert.Equal(t, "", c.GetAWSProfile())

	t.Setenv("AWS_PROFILE_OVERRIDE", "prod")
	assert.Equal(t, "prod", c.GetAWSProfile())
}
