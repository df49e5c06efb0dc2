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

// Package canvas layers Grasshopper-specific heuristics over raw bridge
// commands: input port selection for arithmetic components, knowledge-base
// enrichment of component queries, canvas health scoring and the live
// status snapshot.
//
// None of these operations mutate canvas state except Connect, which issues
// exactly one connect_components command after its lookups complete.
// Auxiliary lookups that fail degrade to unenriched results rather than
// failing the operation.
package canvas

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
	"github.com/tombee/grasshopper-mcp/internal/log"
)

// Remote command names.
const (
	CmdGetComponentInfo     = "get_component_info"
	CmdGetAllComponents     = "get_all_components"
	CmdGetConnections       = "get_connections"
	CmdGetComponentWarnings = "get_component_warnings"
	CmdGetDocumentInfo      = "get_document_info"
	CmdConnectComponents    = "connect_components"
)

// Component type names the heuristics recognize.
const (
	TypeNumberSlider = "Number Slider"
	TypeCircle       = "Circle"
)

// Service runs the heuristics against a remote host.
type Service struct {
	caller bridge.Caller
	kb     *knowledge.Base
	logger *slog.Logger
}

// NewService creates a Service. kb may be nil, which disables enrichment.
func NewService(caller bridge.Caller, kb *knowledge.Base, logger *slog.Logger) *Service {
	if logger == nil {
		logger = log.Discard()
	}
	return &Service{
		caller: caller,
		kb:     kb,
		logger: log.WithComponent(logger, "canvas"),
	}
}

// connections fetches the full connection list; a failed fetch is empty.
func (s *Service) connections(ctx context.Context) []any {
	env := s.caller.Call(ctx, CmdGetConnections, nil)
	conns, ok := env.List()
	if !ok {
		if !env.Success {
			s.logger.Debug("connection lookup failed", slog.String("error", env.Error))
		}
		return []any{}
	}
	return conns
}

// idString renders a decoded identifier for comparison.
func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case json.Number:
		return id.String()
	default:
		return ""
	}
}

// stringField returns m[key] when it is a string.
func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// setIfAbsent stores v under key unless the key is already present.
func setIfAbsent(m map[string]any, key string, v any) {
	if _, ok := m[key]; !ok {
		m[key] = v
	}
}
