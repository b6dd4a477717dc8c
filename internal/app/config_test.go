package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"CONFIG_FILE", "PORT", "DB_DRIVER", "SQLITE_PATH", "SESSION_SECRET", "SESSION_TTL_SECONDS",
		"REDIS_ADDR", "OBJECT_STORAGE_MODE", "STORAGE_EMULATOR_HOST", "UPLOAD_DIR",
		"CORS_ALLOWED_ORIGINS", "MAX_UPLOAD_BYTES", "METRICS_ENABLED",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Address())
	assert.Equal(t, "postgres", cfg.DB.Driver)
	assert.Equal(t, objectstore.ModeLocal, cfg.Storage.Mode)
	assert.Equal(t, defaultMaxUploadBytes, cfg.MaxUploadBytes)
	assert.Len(t, cfg.SessionSecret, 64, "an ephemeral secret is generated")
	assert.Equal(t, 24*3600, cfg.SessionTTLSeconds)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadConfigFileThenEnv(t *testing.T) {
	clearConfigEnv(t)

	path := filepath.Join(t.TempDir(), "processhub.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
session_secret: from-file
allowed_origins: ["https://hub.example.com"]
db:
  driver: sqlite
  sqlite_path: /tmp/hub.db
redis:
  channel: hub.events
`), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "9100")

	cfg, err := LoadConfig(logger.Nop())
	require.NoError(t, err)
	assert.Equal(t, ":9100", cfg.Address(), "env overrides the file")
	assert.Equal(t, "from-file", cfg.SessionSecret)
	assert.Equal(t, "sqlite", cfg.DB.Driver)
	assert.Equal(t, "/tmp/hub.db", cfg.DB.SQLitePath)
	assert.Equal(t, []string{"https://hub.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, "hub.events", cfg.Redis.Channel)
}

func TestLoadConfigRejectsBadFile(t *testing.T) {
	clearConfigEnv(t)
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: [unterminated"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}

func TestLoadConfigRejectsUnknownStorageMode(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("OBJECT_STORAGE_MODE", "s3")

	_, err := LoadConfig(logger.Nop())
	require.Error(t, err)
}
