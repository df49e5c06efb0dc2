// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package config loads bridge settings from defaults, an optional YAML
// file, a .env file and the environment, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/log"
	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

// DefaultCallsPerMinute is the default tool-call budget.
const DefaultCallsPerMinute = 600

// DotEnvFile is read from the working directory during Load.
var DotEnvFile = ".env"

// Config is the complete bridge configuration.
type Config struct {
	// Host is where the Grasshopper plugin listens
	Host string `yaml:"host"`

	// Port is the plugin's TCP port
	Port int `yaml:"port"`

	// Timeout bounds one command round trip
	Timeout time.Duration `yaml:"timeout"`

	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	Tracing   TracingConfig   `yaml:"tracing"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is trace, debug, info, warn or error
	Level string `yaml:"level"`

	// Format is json or text
	Format string `yaml:"format"`

	// AddSource adds file and line to each record
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	// Addr is the listen address for /metrics; empty disables the endpoint
	Addr string `yaml:"addr"`
}

// TracingConfig configures OpenTelemetry tracing.
type TracingConfig struct {
	// Enabled exports spans to stderr
	Enabled bool `yaml:"enabled"`
}

// RateLimitConfig caps MCP tool calls.
type RateLimitConfig struct {
	// CallsPerMinute is the sustained rate; 0 disables limiting
	CallsPerMinute int `yaml:"calls_per_minute"`
}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	return &Config{
		Host:    bridge.DefaultHost,
		Port:    bridge.DefaultPort,
		Timeout: bridge.DefaultTimeout,
		Log: LogConfig{
			Level:  "info",
			Format: string(log.FormatJSON),
		},
		RateLimit: RateLimitConfig{
			CallsPerMinute: DefaultCallsPerMinute,
		},
	}
}

// Load builds the configuration. An explicit configPath must exist; when it
// is empty the default path is tried and silently skipped if absent.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	path, required := configPath, true
	if path == "" {
		required = false
		if p, err := ConfigPath(); err == nil {
			path = p
		}
	}
	if path != "" {
		if err := cfg.loadFromFile(path); err != nil {
			if required || !errors.Is(err, fs.ErrNotExist) {
				return nil, &bridgeerrors.ConfigError{
					Key:    "config_file",
					Reason: fmt.Sprintf("failed to load from %s", path),
					Cause:  err,
				}
			}
		}
	}

	if err := loadDotEnv(DotEnvFile); err != nil {
		return nil, &bridgeerrors.ConfigError{
			Key:    "dotenv",
			Reason: fmt.Sprintf("failed to load %s", DotEnvFile),
			Cause:  err,
		}
	}

	if err := cfg.loadFromEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// loadFromFile overlays a YAML file onto c. Keys absent from the file keep
// their current values.
func (c *Config) loadFromFile(path string) error {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	return nil
}

// loadDotEnv exports variables from file without overriding ones already
// set. A missing file is not an error.
func loadDotEnv(file string) error {
	if file == "" {
		return nil
	}
	err := godotenv.Load(file)
	if err != nil && errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// loadFromEnv applies GRASSHOPPER_* and logging variables.
func (c *Config) loadFromEnv() error {
	if val := os.Getenv(EnvHost); val != "" {
		c.Host = val
	}

	if val := os.Getenv(EnvPort); val != "" {
		port, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return envError(EnvPort, val, err)
		}
		c.Port = port
	}

	if val := os.Getenv(EnvTimeout); val != "" {
		timeout, err := parseTimeout(val)
		if err != nil {
			return envError(EnvTimeout, val, err)
		}
		c.Timeout = timeout
	}

	if val, ok := os.LookupEnv(EnvMetricsAddr); ok {
		c.Metrics.Addr = val
	}

	if val := os.Getenv(EnvTracing); val != "" {
		enabled, err := strconv.ParseBool(val)
		if err != nil {
			return envError(EnvTracing, val, err)
		}
		c.Tracing.Enabled = enabled
	}

	if val := os.Getenv(EnvRateLimit); val != "" {
		rate, err := strconv.Atoi(strings.TrimSpace(val))
		if err != nil {
			return envError(EnvRateLimit, val, err)
		}
		c.RateLimit.CallsPerMinute = rate
	}

	c.loadLogFromEnv()
	return nil
}

// loadLogFromEnv overrides the file's log settings only for variables that
// are actually set.
func (c *Config) loadLogFromEnv() {
	env := log.FromEnv()
	for _, key := range []string{EnvDebug, EnvLogLevel, "LOG_LEVEL"} {
		if os.Getenv(key) != "" {
			c.Log.Level = env.Level
			break
		}
	}
	if os.Getenv("LOG_FORMAT") != "" {
		c.Log.Format = string(env.Format)
	}
	if env.AddSource {
		c.Log.AddSource = true
	}
}

// parseTimeout accepts a Go duration ("30s") or a number of seconds ("2.5").
func parseTimeout(val string) (time.Duration, error) {
	val = strings.TrimSpace(val)
	if d, err := time.ParseDuration(val); err == nil {
		return d, nil
	}
	secs, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0, fmt.Errorf("not a duration or number of seconds")
	}
	return time.Duration(secs * float64(time.Second)), nil
}

func envError(key, val string, cause error) error {
	return &bridgeerrors.ConfigError{
		Key:    key,
		Reason: fmt.Sprintf("invalid value %q", val),
		Cause:  cause,
	}
}

// Address returns host:port of the Grasshopper plugin.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// BridgeOptions returns transport client options for this configuration.
func (c *Config) BridgeOptions(logger *slog.Logger) bridge.Options {
	return bridge.Options{
		Host:    c.Host,
		Port:    c.Port,
		Timeout: c.Timeout,
		Logger:  logger,
	}
}

// Logging returns the logger configuration. Output defaults to stderr.
func (c *Config) Logging() *log.Config {
	cfg := log.DefaultConfig()
	if c.Log.Level != "" {
		cfg.Level = strings.ToLower(c.Log.Level)
	}
	if c.Log.Format != "" {
		cfg.Format = log.Format(strings.ToLower(c.Log.Format))
	}
	cfg.AddSource = c.Log.AddSource
	return cfg
}
