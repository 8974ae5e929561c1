package providers

import (
	"checkinboard/internal/structures"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigYaml = `
webServer:
  host: 127.0.0.1
  port: 8090
api:
  baseUrl: http://localhost:3000
  timeout: 5s
storage:
  filePath: /tmp/checkinboard.dat
  compress: true
logger:
  level: info
  mode: 0644
  dir: /tmp
cache:
  enabled: true
  size: 4
  ttl: 15s
pinned:
  cacheSize: 8
  refreshInterval: 5m
metrics:
  enabled: false
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewConfigProvider_ReadsYaml(t *testing.T) {
	path := writeConfig(t, testConfigYaml)

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path, DebugMode: true})
	require.NoError(t, err)

	assert.Equal(t, "CheckinBoard", conf.AppName)
	assert.True(t, conf.Debug)
	assert.Equal(t, 8090, conf.WebServer.Port)
	assert.Equal(t, "http://localhost:3000", conf.Api.BaseURL)
	assert.Equal(t, 5*time.Second, conf.Api.Timeout)
	assert.True(t, conf.Storage.Compress)
	assert.Equal(t, 15*time.Second, conf.Cache.TTL)
	assert.Equal(t, 5*time.Minute, conf.Pinned.RefreshInterval)
}

func TestNewConfigProvider_EnvOverride(t *testing.T) {
	path := writeConfig(t, testConfigYaml)
	t.Setenv("CHECKIN_API_BASE_URL", "http://api.example.com")

	conf, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	require.NoError(t, err)
	assert.Equal(t, "http://api.example.com", conf.Api.BaseURL)
}

func TestNewConfigProvider_MissingFile(t *testing.T) {
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: "/nonexistent/config.yaml"})
	assert.Error(t, err)
}

func TestNewConfigProvider_InvalidConfig(t *testing.T) {
	path := writeConfig(t, "webServer:\n  host: 127.0.0.1\n")
	_, err := NewConfigProvider(&structures.CliFlags{ConfigPath: path})
	assert.Error(t, err)
}
