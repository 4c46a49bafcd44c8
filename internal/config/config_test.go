package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fathima-sithara/social-service/internal/media"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, 48*time.Hour, cfg.StoryMaxAge)
	assert.Equal(t, "0 * * * *", cfg.Sweeper.Schedule)
	assert.True(t, cfg.Sweeper.RunOnStart)
	assert.Equal(t, 15*time.Second, cfg.ShutdownTimeout)

	mc := cfg.MediaConfig()
	assert.Equal(t, 4*media.MiB, mc.StoryCeiling)
	assert.Equal(t, 10*media.MiB, mc.ImageCeiling)
	assert.Equal(t, 100*media.MiB, mc.VideoCeiling)
	assert.Equal(t, "cloudinary.com", mc.Domain)
	assert.ElementsMatch(t, media.DefaultAllowedTypes, mc.AllowedTypes)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
  port: 9090
media:
  image_max_bytes: 2097152
sweeper:
  max_age_hours: 24
breaker:
  max_failures: 3
  timeout_seconds: 10
`), 0o600))
	t.Setenv("APP_CLOUDINARY_API_KEY", "key-from-env")
	t.Setenv("APP_APP_PORT", "7070")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 7070, cfg.App.Port)
	assert.Equal(t, "key-from-env", cfg.Cloudinary.APIKey)
	assert.Equal(t, 2*media.MiB, cfg.MediaConfig().ImageCeiling)
	assert.Equal(t, 24*time.Hour, cfg.StoryMaxAge)

	bc := cfg.BreakerConfig()
	assert.Equal(t, uint32(3), bc.MaxFailures)
	assert.Equal(t, 10*time.Second, bc.Timeout)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("app: [unclosed"), 0o600))
	_, err := Load(path)
	assert.Error(t, err)
}
