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

package shared

import (
	"log/slog"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/config"
	"github.com/tombee/grasshopper-mcp/internal/log"
)

// LoadConfig loads configuration from --config, the environment and .env.
func LoadConfig() (*config.Config, error) {
	cfg, err := config.Load(GetConfigPath())
	if err != nil {
		return nil, NewConfigError(err)
	}
	return cfg, nil
}

// CommandLogger returns the logger for one-shot commands. They log at warn
// unless --verbose or --quiet is given, so bridge chatter stays out of the
// way of command output.
func CommandLogger(cfg *config.Config) *slog.Logger {
	lc := cfg.Logging()
	switch {
	case GetVerbose():
		lc.Level = "debug"
	case GetQuiet():
		lc.Level = "error"
	default:
		lc.Level = "warn"
	}
	return log.New(lc)
}

// NewClient builds a bridge client for cfg.
func NewClient(cfg *config.Config, logger *slog.Logger) *bridge.Client {
	return bridge.NewClient(cfg.BridgeOptions(logger))
}
