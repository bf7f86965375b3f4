// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"audioctl/internal/audio"
	applog "audioctl/internal/log"
)

// LoadConfig loads configuration from the YAML file at path. If path is
// empty, it looks for config.yaml in the working directory and falls back to
// built-in defaults when there is none. Environment variables prefixed with
// AUDIOCTL_ override file values, and the result is validated.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path = ResolvePath(path); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// ResolvePath returns path, or DefaultConfigFile when path is empty and that
// file exists, or "" when there is no file to load.
func ResolvePath(path string) string {
	if path != "" {
		return path
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

// applyEnvOverrides replaces fields whose AUDIOCTL_* variable is set. Unset
// variables leave the current value alone.
func (c *Config) applyEnvOverrides() error {
	if err := env.ParseWithOptions(c, env.Options{Prefix: EnvPrefix}); err != nil {
		return fmt.Errorf("failed to parse environment: %w", err)
	}
	return nil
}

// Validate checks every field and reports all problems at once.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := applog.ParseLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("log_level %q is not one of debug, info, warn, error", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json", "logfmt":
	default:
		errs = append(errs, fmt.Errorf("log_format %q is not one of text, json, logfmt", c.LogFormat))
	}

	if _, err := audio.ParseDataFlow(c.Directory.Flow); err != nil {
		errs = append(errs, fmt.Errorf("directory.flow: %w", err))
	}
	if _, err := audio.ParseDeviceState(c.Directory.DeviceStates); err != nil {
		errs = append(errs, fmt.Errorf("directory.device_states: %w", err))
	}
	for _, name := range c.Directory.SessionStates {
		if _, err := audio.ParseSessionState(name); err != nil {
			errs = append(errs, fmt.Errorf("directory.session_states: %w", err))
		}
	}

	switch c.Publish.Transport {
	case "log":
	case "websocket", "udp":
		if c.Publish.Address == "" {
			errs = append(errs, fmt.Errorf("publish.address must be set for the %s transport", c.Publish.Transport))
		}
	default:
		errs = append(errs, fmt.Errorf("publish.transport %q is not one of log, websocket, udp", c.Publish.Transport))
	}
	if c.Publish.Transport == "websocket" && !strings.HasPrefix(c.Publish.Path, "/") {
		errs = append(errs, fmt.Errorf("publish.path %q must start with /", c.Publish.Path))
	}
	if c.Publish.Interval < MinPublishInterval {
		errs = append(errs, fmt.Errorf("publish.interval %s is below the minimum of %s", c.Publish.Interval, MinPublishInterval))
	}

	return errors.Join(errs...)
}
