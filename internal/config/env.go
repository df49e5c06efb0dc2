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
	"strconv"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
)

// Environment variables read by Load.
const (
	EnvHost        = "GRASSHOPPER_HOST"
	EnvPort        = "GRASSHOPPER_PORT"
	EnvTimeout     = "GRASSHOPPER_TIMEOUT"
	EnvMetricsAddr = "GRASSHOPPER_METRICS_ADDR"
	EnvTracing     = "GRASSHOPPER_TRACING"
	EnvRateLimit   = "GRASSHOPPER_RATE_LIMIT"
	EnvDebug       = "GRASSHOPPER_DEBUG"
	EnvLogLevel    = "GRASSHOPPER_LOG_LEVEL"
)

// EnvVar documents one environment setting.
type EnvVar struct {
	Name        string `json:"name"`
	Default     string `json:"default,omitempty"`
	Description string `json:"description"`
}

// EnvVars lists the settings Load reads from the environment, in the order
// they are applied.
func EnvVars() []EnvVar {
	return []EnvVar{
		{Name: EnvHost, Default: bridge.DefaultHost, Description: "Host the Grasshopper bridge component listens on"},
		{Name: EnvPort, Default: strconv.Itoa(bridge.DefaultPort), Description: "TCP port of the Grasshopper bridge component"},
		{Name: EnvTimeout, Default: bridge.DefaultTimeout.String(), Description: "Round-trip timeout, as a duration or seconds"},
		{Name: EnvMetricsAddr, Description: "Serve Prometheus metrics on this address"},
		{Name: EnvTracing, Default: "false", Description: "Export OpenTelemetry spans to stderr"},
		{Name: EnvRateLimit, Default: strconv.Itoa(DefaultCallsPerMinute), Description: "Tool calls allowed per minute; 0 disables the limit"},
		{Name: EnvDebug, Description: "Debug logging with source locations"},
		{Name: EnvLogLevel, Default: "info", Description: "trace, debug, info, warn or error (LOG_LEVEL is the fallback)"},
		{Name: "LOG_FORMAT", Default: "json", Description: "json or text"},
	}
}
