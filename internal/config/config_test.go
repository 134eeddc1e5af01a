package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
world:
  region: nether
  canonical_offsets: true
  seed: 42
storage:
  driver: badger
  path: /var/lib/nbtview
cache:
  redis_addr: localhost:6379
  ttl_seconds: 60
eventbus:
  url: nats://localhost:4222
server:
  rest_port: 9000
telemetry:
  enabled: true
`

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "nether", cfg.World.Region)
	assert.True(t, cfg.World.CanonicalOffsets)
	assert.Equal(t, int64(42), cfg.World.Seed)
	assert.Equal(t, "badger", cfg.Storage.Driver)
	assert.Equal(t, time.Minute, cfg.Cache.TTL())
	assert.Equal(t, 9000, cfg.Server.GetRESTPort())
	assert.True(t, cfg.Telemetry.Enabled)

	// Не заданные в файле поля остаются по умолчанию
	assert.Equal(t, "NBTVIEW", cfg.EventBus.Stream)
	assert.Equal(t, 24*time.Hour, cfg.EventBus.RetentionDuration())
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("NBTVIEW_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "memory", cfg.Storage.Driver)
}

func TestLoad_EnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "env.yml")
	require.NoError(t, os.WriteFile(path, []byte("world:\n  region: env\n"), 0o644))
	t.Setenv("NBTVIEW_CONFIG", path)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "env", cfg.World.Region)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.yml")
	require.NoError(t, os.WriteFile(path, []byte("world: [unclosed"), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestPortFallback(t *testing.T) {
	tests := []struct {
		name   string
		config int
		env    string
		want   int
	}{
		{"config wins", 7000, "7100", 7000},
		{"env fallback", 0, "7100", 7100},
		{"bad env", 0, "abc", 8088},
		{"default", 0, "", 8088},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("NBTVIEW_REST_PORT", tt.env)
			s := ServerConfig{RESTPort: tt.config}
			assert.Equal(t, tt.want, s.GetRESTPort())
		})
	}

	t.Setenv("NBTVIEW_METRICS_PORT", "")
	assert.Equal(t, 2112, (&ServerConfig{}).GetMetricsPort())
}
