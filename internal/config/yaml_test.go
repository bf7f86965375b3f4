// SPDX-License-Identifier: MIT
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audioctl/internal/audio"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	tmp := t.TempDir()
	path := filepath.Join(tmp, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadConfig_EmptyPath(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, NewConfig(), cfg)
	assert.Equal(t, audio.FlowRender, cfg.DataFlow())
	assert.Equal(t, audio.StateActive, cfg.DeviceMask())
	assert.Empty(t, cfg.SessionStates())
}

func TestLoadConfig_FileNotFound(t *testing.T) {
	t.Parallel()
	cfg, err := LoadConfig("nonexistent.yaml")
	assert.ErrorContains(t, err, "failed to read config file")
	assert.Nil(t, cfg)
}

func TestLoadConfig_UnmarshalError(t *testing.T) {
	t.Parallel()
	path := writeTempConfig(t, ":\n:bad")
	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "failed to parse config file")
}

func TestLoadConfig_File(t *testing.T) {
	path := writeTempConfig(t, `
log_level: debug
log_format: json
directory:
  flow: all
  device_states: active|unplugged
  session_states: [active, inactive]
publish:
  transport: websocket
  address: 127.0.0.1:8088
  path: /ws
  interval: 250ms
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, audio.FlowAll, cfg.DataFlow())
	assert.Equal(t, audio.StateActive|audio.StateUnplugged, cfg.DeviceMask())
	assert.Equal(t, []audio.SessionState{audio.SessionActive, audio.SessionInactive}, cfg.SessionStates())
	assert.Equal(t, "websocket", cfg.Publish.Transport)
	assert.Equal(t, "/ws", cfg.Publish.Path)
	assert.Equal(t, 250*time.Millisecond, cfg.Publish.Interval)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeTempConfig(t, "log_level: warn\npublish:\n  transport: udp\n")
	t.Setenv("AUDIOCTL_LOG_LEVEL", "error")
	t.Setenv("AUDIOCTL_DIRECTORY_FLOW", "capture")
	t.Setenv("AUDIOCTL_DIRECTORY_SESSION_STATES", "active,expired")
	t.Setenv("AUDIOCTL_PUBLISH_ADDRESS", "10.0.0.2:9999")
	t.Setenv("AUDIOCTL_PUBLISH_INTERVAL", "2s")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "error", cfg.LogLevel)
	assert.Equal(t, audio.FlowCapture, cfg.DataFlow())
	assert.Equal(t, []audio.SessionState{audio.SessionActive, audio.SessionExpired}, cfg.SessionStates())
	assert.Equal(t, "udp", cfg.Publish.Transport)
	assert.Equal(t, "10.0.0.2:9999", cfg.Publish.Address)
	assert.Equal(t, 2*time.Second, cfg.Publish.Interval)
}

func TestLoadConfig_EnvParseError(t *testing.T) {
	t.Setenv("AUDIOCTL_PUBLISH_INTERVAL", "soon")
	_, err := LoadConfig(writeTempConfig(t, "log_level: info\n"))
	assert.ErrorContains(t, err, "failed to parse environment")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"bad level", func(c *Config) { c.LogLevel = "loud" }, "log_level"},
		{"bad format", func(c *Config) { c.LogFormat = "xml" }, "log_format"},
		{"bad flow", func(c *Config) { c.Directory.Flow = "sideways" }, "directory.flow"},
		{"bad device state", func(c *Config) { c.Directory.DeviceStates = "broken" }, "directory.device_states"},
		{"bad session state", func(c *Config) { c.Directory.SessionStates = []string{"paused"} }, "directory.session_states"},
		{"bad transport", func(c *Config) { c.Publish.Transport = "carrier-pigeon" }, "publish.transport"},
		{"missing address", func(c *Config) { c.Publish.Transport = "udp"; c.Publish.Address = "" }, "publish.address"},
		{"bad path", func(c *Config) { c.Publish.Transport = "websocket"; c.Publish.Path = "ws" }, "publish.path"},
		{"short interval", func(c *Config) { c.Publish.Interval = time.Millisecond }, "publish.interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
