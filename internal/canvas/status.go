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
	"fmt"

	"github.com/tombee/grasshopper-mcp/internal/knowledge"
)

// StatusConnected is the status line of a successful snapshot.
const StatusConnected = "Connected to Grasshopper"

// Position is a component's canvas location.
type Position struct {
	X any `json:"x"`
	Y any `json:"y"`
}

// ConnectionSummary is one connection seen from a component's side.
type ConnectionSummary struct {
	Type        string `json:"type"`
	To          string `json:"to,omitempty"`
	From        string `json:"from,omitempty"`
	SourceParam any    `json:"sourceParam"`
	TargetParam any    `json:"targetParam"`
}

// ComponentSummary is the condensed view of a component in the snapshot.
type ComponentSummary struct {
	ID          any                 `json:"id"`
	Type        any                 `json:"type"`
	Position    Position            `json:"position"`
	Settings    map[string]any      `json:"settings,omitempty"`
	Connections []ConnectionSummary `json:"connections,omitempty"`
}

// Snapshot is the grasshopper://status resource.
type Snapshot struct {
	Status          string                    `json:"status"`
	Document        any                       `json:"document"`
	Components      []ComponentSummary        `json:"components"`
	Connections     []any                     `json:"connections"`
	ComponentHints  map[string]knowledge.Hint `json:"component_hints,omitempty"`
	Recommendations []string                  `json:"recommendations,omitempty"`
	CanvasSummary   string                    `json:"canvas_summary,omitempty"`
}

// ErrorSnapshot is served when the snapshot cannot be built.
func ErrorSnapshot(err error) Snapshot {
	return Snapshot{
		Status:      fmt.Sprintf("Error: %v", err),
		Document:    map[string]any{},
		Components:  []ComponentSummary{},
		Connections: []any{},
	}
}

// Status gathers document info, enriched components and connections into
// one snapshot with static usage hints attached.
func (s *Service) Status(ctx context.Context) Snapshot {
	var document any = map[string]any{}
	if env := s.caller.Call(ctx, CmdGetDocumentInfo, nil); env.Success && env.Result != nil {
		document = env.Result
	}

	components, ok := s.AllComponents(ctx).List()
	if !ok {
		components = []any{}
	}
	conns := s.connections(ctx)

	summaries := make([]ComponentSummary, 0, len(components))
	for _, c := range components {
		if m, ok := c.(map[string]any); ok {
			summaries = append(summaries, Summarize(m))
		}
	}

	snap := Snapshot{
		Status:      StatusConnected,
		Document:    document,
		Components:  summaries,
		Connections: conns,
		CanvasSummary: fmt.Sprintf("Current canvas has %d components and %d connections",
			len(summaries), len(conns)),
	}
	if s.kb != nil {
		snap.ComponentHints = s.kb.Hints()
		snap.Recommendations = s.kb.Recommendations()
	}
	return snap
}

// Summarize condenses an enriched component.
func Summarize(component map[string]any) ComponentSummary {
	sum := ComponentSummary{
		ID:       orDefault(component["id"], ""),
		Type:     orDefault(component["type"], ""),
		Position: Position{X: orDefault(component["x"], 0), Y: orDefault(component["y"], 0)},
	}

	if current, ok := component["currentSettings"].(map[string]any); ok {
		sum.Settings = current
	} else if stringField(component, "type") == TypeNumberSlider {
		sum.Settings = SliderSettings(component)
	}

	id := idString(component["id"])
	conns, _ := component["connections"].([]any)
	for _, c := range conns {
		conn, ok := c.(map[string]any)
		if !ok {
			continue
		}
		cs := ConnectionSummary{
			SourceParam: orDefault(conn["sourceParam"], ""),
			TargetParam: orDefault(conn["targetParam"], ""),
		}
		if idString(conn["sourceId"]) == id {
			cs.Type = "output"
			cs.To = idString(conn["targetId"])
		} else {
			cs.Type = "input"
			cs.From = idString(conn["sourceId"])
		}
		sum.Connections = append(sum.Connections, cs)
	}
	return sum
}

func orDefault(v, def any) any {
	if v == nil {
		return def
	}
	return v
}
