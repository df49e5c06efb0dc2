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

package server

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/log"
)

// Health statuses reported by health_check.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// HealthToolResult represents the health check result
type HealthToolResult struct {
	Status               string      `json:"status"`
	GrasshopperConnected bool        `json:"grasshopper_connected"`
	Timestamp            string      `json:"timestamp"`
	ServerInfo           *ServerInfo `json:"server_info,omitempty"`
	Error                string      `json:"error,omitempty"`
}

// ServerInfo is where the bridge expects Grasshopper to listen.
type ServerInfo struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// healthFault is returned when the check itself fails.
type healthFault struct {
	Status    string `json:"status"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// handleHealthCheck implements the health_check tool. It never fails: an
// unreachable Grasshopper yields status "unhealthy".
func (s *Server) handleHealthCheck(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return jsonResponse(healthFault{
			Status:    StatusUnhealthy,
			Error:     MsgRateLimited,
			Timestamp: timestamp(),
		}, false), nil
	}

	var result any
	call := &log.ToolCall{Tool: "health_check", RequestID: uuid.NewString()}
	s.middleware.Handle(call, func() (bool, string) {
		env := s.run(ctx, call.Tool, nil, func(ctx context.Context, _ map[string]any) bridge.Envelope {
			health := s.checkHealth(ctx)
			result = health
			if health.Status != StatusHealthy {
				return bridge.Failure(errors.New(health.Error))
			}
			return bridge.Ok(nil)
		})
		if result == nil {
			result = healthFault{Status: StatusUnhealthy, Error: env.Error, Timestamp: timestamp()}
		}
		return env.Success, env.Error
	})

	return jsonResponse(result, false), nil
}

// checkHealth pings Grasshopper.
func (s *Server) checkHealth(ctx context.Context) HealthToolResult {
	ping := s.caller.Call(ctx, "ping", nil)

	result := HealthToolResult{
		Status:               StatusHealthy,
		GrasshopperConnected: ping.Success,
		Timestamp:            timestamp(),
		ServerInfo:           &ServerInfo{Host: s.host, Port: s.port},
	}
	if !ping.Success {
		result.Status = StatusUnhealthy
		result.Error = ping.Error
	}
	return result
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}
