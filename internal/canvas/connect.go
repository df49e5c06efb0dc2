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

package canvas

import (
	"context"
	"log/slog"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/validate"
)

// Canonical inputs of dual-input arithmetic components.
const (
	FirstInput  = "A"
	SecondInput = "B"
)

// ArithmeticTypes are the component types that receive automatic input
// selection. Other dual-input components are left to Grasshopper.
var ArithmeticTypes = []string{"Addition", "Subtraction", "Multiplication", "Division", "Math"}

// IsArithmetic reports whether componentType is in ArithmeticTypes.
func IsArithmetic(componentType string) bool {
	for _, t := range ArithmeticTypes {
		if t == componentType {
			return true
		}
	}
	return false
}

// ConnectRequest describes a directed link between two component ports.
// Each side is addressed by parameter name or index; a name wins over an
// index on the same side.
type ConnectRequest struct {
	SourceID string
	TargetID string

	SourceParam      *string
	TargetParam      *string
	SourceParamIndex *int
	TargetParamIndex *int
}

// hasTarget reports whether the caller chose a target input.
func (r ConnectRequest) hasTarget() bool {
	return r.TargetParam != nil || r.TargetParamIndex != nil
}

// Params builds the connect_components parameters. A side with neither
// name nor index is omitted so Grasshopper applies its default.
func (r ConnectRequest) Params() map[string]any {
	params := map[string]any{
		"sourceId": r.SourceID,
		"targetId": r.TargetID,
	}
	switch {
	case r.SourceParam != nil:
		params["sourceParam"] = *r.SourceParam
	case r.SourceParamIndex != nil:
		params["sourceParamIndex"] = *r.SourceParamIndex
	}
	switch {
	case r.TargetParam != nil:
		params["targetParam"] = *r.TargetParam
	case r.TargetParamIndex != nil:
		params["targetParamIndex"] = *r.TargetParamIndex
	}
	return params
}

// Connect links two components. When the target is an arithmetic component
// and no target input was chosen, the first free canonical input is picked:
// B if A is already wired, otherwise A. The target info and connection
// lookups both complete before the connect command is sent.
func (s *Service) Connect(ctx context.Context, req ConnectRequest) bridge.Envelope {
	if !req.hasTarget() {
		if input, ok := s.pickInput(ctx, req.TargetID); ok {
			req.TargetParam = &input
		}
	}
	return s.caller.Call(ctx, CmdConnectComponents, req.Params())
}

// pickInput chooses the canonical input for an arithmetic target.
func (s *Service) pickInput(ctx context.Context, targetID string) (string, bool) {
	info, ok := s.caller.Call(ctx, CmdGetComponentInfo, map[string]any{"id": targetID}).Map()
	if !ok {
		return "", false
	}
	componentType := stringField(info, "type")
	if !IsArithmetic(componentType) {
		return "", false
	}

	input := FirstInput
	if FirstInputOccupied(s.connections(ctx), targetID) {
		input = SecondInput
	}
	s.logger.Debug("selected arithmetic input",
		slog.String("target", targetID),
		slog.String("type", componentType),
		slog.String("input", input),
	)
	return input, true
}

// FirstInputOccupied reports whether any connection already feeds the
// first canonical input (name A or index 0) of targetID.
func FirstInputOccupied(connections []any, targetID string) bool {
	for _, c := range connections {
		conn, ok := c.(map[string]any)
		if !ok || idString(conn["targetId"]) != targetID {
			continue
		}
		if stringField(conn, "targetParam") == FirstInput {
			return true
		}
		if idx, ok := validate.Number(conn["targetParamIndex"]); ok && idx == 0 {
			return true
		}
	}
	return false
}
