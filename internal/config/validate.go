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

package config

import (
	"fmt"
	"strings"

	"github.com/tombee/grasshopper-mcp/internal/log"
	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return &bridgeerrors.ConfigError{Key: "host", Reason: "host must not be empty"}
	}

	if c.Port < 1 || c.Port > 65535 {
		return &bridgeerrors.ConfigError{
			Key:    "port",
			Reason: fmt.Sprintf("port must be between 1 and 65535, got %d", c.Port),
		}
	}

	if c.Timeout <= 0 {
		return &bridgeerrors.ConfigError{
			Key:    "timeout",
			Reason: fmt.Sprintf("timeout must be positive, got %s", c.Timeout),
		}
	}

	if _, err := log.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		return &bridgeerrors.ConfigError{Key: "log.level", Reason: err.Error()}
	}

	switch log.Format(strings.ToLower(c.Log.Format)) {
	case log.FormatJSON, log.FormatText:
	default:
		return &bridgeerrors.ConfigError{
			Key:    "log.format",
			Reason: fmt.Sprintf("invalid log format: %s (must be json or text)", c.Log.Format),
		}
	}

	if c.RateLimit.CallsPerMinute < 0 {
		return &bridgeerrors.ConfigError{
			Key:    "rate_limit.calls_per_minute",
			Reason: fmt.Sprintf("rate limit must not be negative, got %d", c.RateLimit.CallsPerMinute),
		}
	}

	return nil
}
