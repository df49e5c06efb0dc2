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
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/canvas"
	"github.com/tombee/grasshopper-mcp/internal/log"
	"github.com/tombee/grasshopper-mcp/internal/validate"
	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

// MsgRateLimited is returned when the tool call budget is exhausted.
const MsgRateLimited = "Rate limit exceeded. Please try again later."

// envelopeFunc implements one envelope-returning tool.
type envelopeFunc func(ctx context.Context, args map[string]any) bridge.Envelope

// tool adapts fn to an mcp-go handler: rate limiting, call logging, panic
// recovery and rendering of the envelope as JSON text.
func (s *Server) tool(name string, fn envelopeFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		if !s.rateLimiter.AllowCall() {
			return jsonResponse(bridge.Failure(bridgeerrors.New(MsgRateLimited)), true), nil
		}

		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}

		var env bridge.Envelope
		s.middleware.Handle(&log.ToolCall{Tool: name, RequestID: uuid.NewString(), Arguments: args}, func() (bool, string) {
			env = s.run(ctx, name, args, fn)
			return env.Success, env.Error
		})
		return jsonResponse(env, !env.Success), nil
	}
}

// run calls fn, converting a panic into an unexpected-error envelope.
func (s *Server) run(ctx context.Context, name string, args map[string]any, fn envelopeFunc) (env bridge.Envelope) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("tool handler panicked",
				slog.String(log.ToolKey, name),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			env = bridge.Failure(&bridgeerrors.UnexpectedError{Operation: name, Cause: panicError(r)})
		}
	}()
	return fn(ctx, args)
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}

// passthrough sends command with no parameters.
func (s *Server) passthrough(command string) envelopeFunc {
	return func(ctx context.Context, _ map[string]any) bridge.Envelope {
		return s.caller.Call(ctx, command, nil)
	}
}

func (s *Server) addComponent(ctx context.Context, args map[string]any) bridge.Envelope {
	componentType, err := validate.ComponentType(args["component_type"])
	if err != nil {
		return bridge.Failure(err)
	}
	x, y, err := validate.Coordinates(args["x"], args["y"])
	if err != nil {
		return bridge.Failure(err)
	}
	return s.caller.Call(ctx, "add_component", map[string]any{
		"type": componentType,
		"x":    x,
		"y":    y,
	})
}

// documentPath sends command with a validated path.
func (s *Server) documentPath(command string) envelopeFunc {
	return func(ctx context.Context, args map[string]any) bridge.Envelope {
		path, err := validate.Path(args["path"])
		if err != nil {
			return bridge.Failure(err)
		}
		return s.caller.Call(ctx, command, map[string]any{"path": path})
	}
}

// query sends command with a validated free-text query.
func (s *Server) query(command string) envelopeFunc {
	return func(ctx context.Context, args map[string]any) bridge.Envelope {
		q, err := validate.Query(args["query"])
		if err != nil {
			return bridge.Failure(err)
		}
		return s.caller.Call(ctx, command, map[string]any{"query": q})
	}
}

func (s *Server) createPattern(ctx context.Context, args map[string]any) bridge.Envelope {
	description, err := validate.Description(args["description"])
	if err != nil {
		return bridge.Failure(err)
	}
	return s.caller.Call(ctx, "create_pattern", map[string]any{"description": description})
}

func (s *Server) componentParameters(ctx context.Context, args map[string]any) bridge.Envelope {
	componentType, err := validate.ComponentType(args["component_type"])
	if err != nil {
		return bridge.Failure(err)
	}
	return s.caller.Call(ctx, "get_component_parameters", map[string]any{"componentType": componentType})
}

func (s *Server) connectComponents(ctx context.Context, args map[string]any) bridge.Envelope {
	sourceID, err := validate.ComponentID("source_id", args["source_id"])
	if err != nil {
		return bridge.Failure(err)
	}
	targetID, err := validate.ComponentID("target_id", args["target_id"])
	if err != nil {
		return bridge.Failure(err)
	}

	req := canvas.ConnectRequest{SourceID: sourceID, TargetID: targetID}
	if v, ok, err := validate.OptionalString(args, "source_param"); err != nil {
		return bridge.Failure(err)
	} else if ok {
		req.SourceParam = &v
	}
	if v, ok, err := validate.OptionalString(args, "target_param"); err != nil {
		return bridge.Failure(err)
	} else if ok {
		req.TargetParam = &v
	}
	if v, ok, err := validate.OptionalIndex(args, "source_param_index"); err != nil {
		return bridge.Failure(err)
	} else if ok {
		req.SourceParamIndex = &v
	}
	if v, ok, err := validate.OptionalIndex(args, "target_param_index"); err != nil {
		return bridge.Failure(err)
	} else if ok {
		req.TargetParamIndex = &v
	}

	return s.canvas.Connect(ctx, req)
}

func (s *Server) validateConnection(ctx context.Context, args map[string]any) bridge.Envelope {
	sourceID, err := validate.ComponentID("source_id", args["source_id"])
	if err != nil {
		return bridge.Failure(err)
	}
	targetID, err := validate.ComponentID("target_id", args["target_id"])
	if err != nil {
		return bridge.Failure(err)
	}

	params := map[string]any{"sourceId": sourceID, "targetId": targetID}
	for arg, key := range map[string]string{"source_param": "sourceParam", "target_param": "targetParam"} {
		v, ok, err := validate.OptionalString(args, arg)
		if err != nil {
			return bridge.Failure(err)
		}
		if ok {
			params[key] = v
		}
	}
	return s.caller.Call(ctx, "validate_connection", params)
}

func (s *Server) componentInfo(ctx context.Context, args map[string]any) bridge.Envelope {
	id, err := validate.ComponentID("component_id", args["component_id"])
	if err != nil {
		return bridge.Failure(err)
	}
	return s.canvas.ComponentInfo(ctx, id)
}

func (s *Server) allComponents(ctx context.Context, _ map[string]any) bridge.Envelope {
	return s.canvas.AllComponents(ctx)
}

func (s *Server) componentWarnings(ctx context.Context, args map[string]any) bridge.Envelope {
	params := map[string]any{}
	if raw, ok := args["component_id"]; ok && raw != nil {
		id, err := validate.ComponentID("component_id", raw)
		if err != nil {
			return bridge.Failure(err)
		}
		params["id"] = id
	}
	return s.caller.Call(ctx, "get_component_warnings", params)
}

// handleAnalyzeCanvasHealth returns the health report itself rather than
// an envelope; only an internal fault produces a failure envelope.
func (s *Server) handleAnalyzeCanvasHealth(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if !s.rateLimiter.AllowCall() {
		return jsonResponse(bridge.Failure(bridgeerrors.New(MsgRateLimited)), true), nil
	}

	var (
		report canvas.HealthReport
		failed bridge.Envelope
		ok     bool
	)
	call := &log.ToolCall{Tool: "analyze_canvas_health", RequestID: uuid.NewString()}
	s.middleware.Handle(call, func() (bool, string) {
		failed = s.run(ctx, call.Tool, nil, func(ctx context.Context, _ map[string]any) bridge.Envelope {
			report = s.canvas.AnalyzeHealth(ctx)
			ok = true
			return bridge.Ok(nil)
		})
		return ok, failed.Error
	})

	if !ok {
		return jsonResponse(failed, true), nil
	}
	return jsonResponse(report, false), nil
}
