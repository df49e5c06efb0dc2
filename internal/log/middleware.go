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

package log

import (
	"context"
	"log/slog"
	"time"
)

// ToolCall describes one MCP tool invocation for logging purposes.
type ToolCall struct {
	// Tool is the exposed operation name (e.g., "connect_components").
	Tool string

	// RequestID correlates the tool call with the bridge commands it issues.
	RequestID string

	// Arguments are the raw tool arguments.
	Arguments map[string]any
}

// ToolOutcome is the result of a tool invocation.
type ToolOutcome struct {
	Success    bool
	Error      string
	DurationMs int64
}

// LogToolCall logs an incoming tool call.
func LogToolCall(logger *slog.Logger, call *ToolCall) {
	attrs := []any{
		"event", "tool_call",
		ToolKey, call.Tool,
	}
	if call.RequestID != "" {
		attrs = append(attrs, RequestIDKey, call.RequestID)
	}
	if len(call.Arguments) > 0 {
		attrs = append(attrs, "arguments", call.Arguments)
	}
	logger.Info("tool call received", attrs...)
}

// LogToolOutcome logs how a tool call ended. Failures are logged at warn:
// they are reported to the caller, not process faults.
func LogToolOutcome(logger *slog.Logger, call *ToolCall, out *ToolOutcome) {
	attrs := []any{
		"event", "tool_result",
		ToolKey, call.Tool,
		"success", out.Success,
		DurationKey, out.DurationMs,
	}
	if call.RequestID != "" {
		attrs = append(attrs, RequestIDKey, call.RequestID)
	}

	level := slog.LevelInfo
	message := "tool call completed"
	if !out.Success {
		attrs = append(attrs, "error", out.Error)
		level = slog.LevelWarn
		message = "tool call failed"
	}

	logger.Log(context.Background(), level, message, attrs...)
}

// ToolMiddleware wraps tool handlers with request/outcome logging.
type ToolMiddleware struct {
	logger *slog.Logger
}

// NewToolMiddleware creates a new tool logging middleware.
func NewToolMiddleware(logger *slog.Logger) *ToolMiddleware {
	return &ToolMiddleware{logger: logger}
}

// Handle runs handler, logging the call before and the outcome after.
// handler reports success and, on failure, the error text it returned to
// the caller.
func (m *ToolMiddleware) Handle(call *ToolCall, handler func() (bool, string)) {
	start := time.Now()
	LogToolCall(m.logger, call)

	ok, errText := handler()

	LogToolOutcome(m.logger, call, &ToolOutcome{
		Success:    ok,
		Error:      errText,
		DurationMs: time.Since(start).Milliseconds(),
	})
}
