// SPDX-License-Identifier: MIT
package config

import (
	"time"

	"audioctl/internal/audio"
)

// Defaults applied before the config file and the environment.
const (
	DefaultLogLevel     = "info"
	DefaultLogFormat    = "text"
	DefaultFlow         = "render"
	DefaultDeviceStates = "active"
	DefaultTransport    = "log"
	DefaultAddress      = "127.0.0.1:9090"
	DefaultPath         = "/snapshot"
	DefaultInterval     = time.Second
	MinPublishInterval  = 50 * time.Millisecond
	EnvPrefix           = "AUDIOCTL_"
	DefaultConfigFile   = "config.yaml"
)

// Config represents the application configuration, loaded from YAML and the
// environment.
type Config struct {
	LogLevel  string          `yaml:"log_level" env:"LOG_LEVEL"`   // debug, info, warn, error.
	LogFormat string          `yaml:"log_format" env:"LOG_FORMAT"` // text, json or logfmt.
	Directory DirectoryConfig `yaml:"directory" envPrefix:"DIRECTORY_"`
	Publish   PublishConfig   `yaml:"publish" envPrefix:"PUBLISH_"`
}

// DirectoryConfig selects which endpoints and sessions listing commands show
// when no flag overrides them.
type DirectoryConfig struct {
	Flow          string   `yaml:"flow" env:"FLOW"`                                      // render, capture or all.
	DeviceStates  string   `yaml:"device_states" env:"DEVICE_STATES"`                    // e.g. "active|unplugged".
	SessionStates []string `yaml:"session_states" env:"SESSION_STATES" envSeparator:","` // empty keeps every state.
}

// PublishConfig holds the snapshot publisher settings.
type PublishConfig struct {
	Transport string        `yaml:"transport" env:"TRANSPORT"` // log, websocket or udp.
	Address   string        `yaml:"address" env:"ADDRESS"`     // listen address (websocket) or target (udp).
	Path      string        `yaml:"path" env:"PATH"`           // websocket upgrade path.
	Interval  time.Duration `yaml:"interval" env:"INTERVAL"`
}

// NewConfig returns a Config holding the built-in defaults.
func NewConfig() *Config {
	return &Config{
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
		Directory: DirectoryConfig{
			Flow:         DefaultFlow,
			DeviceStates: DefaultDeviceStates,
		},
		Publish: PublishConfig{
			Transport: DefaultTransport,
			Address:   DefaultAddress,
			Path:      DefaultPath,
			Interval:  DefaultInterval,
		},
	}
}

// DataFlow returns the configured flow. Call after Validate.
func (c *Config) DataFlow() audio.DataFlow {
	flow, _ := audio.ParseDataFlow(c.Directory.Flow)
	return flow
}

// DeviceMask returns the configured device state mask. Call after Validate.
func (c *Config) DeviceMask() audio.DeviceState {
	mask, err := audio.ParseDeviceState(c.Directory.DeviceStates)
	if err != nil {
		return audio.StateActive
	}
	return mask
}

// SessionStates returns the configured session state filter. Call after
// Validate.
func (c *Config) SessionStates() []audio.SessionState {
	states := make([]audio.SessionState, 0, len(c.Directory.SessionStates))
	for _, name := range c.Directory.SessionStates {
		if state, err := audio.ParseSessionState(name); err == nil {
			states = append(states, state)
		}
	}
	return states
}
