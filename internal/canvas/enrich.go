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
)

// Slider defaults applied when Grasshopper omits a field.
var sliderDefaults = []struct {
	key   string
	field string
	value any
}{
	{"min", "min", 0},
	{"max", "max", 10},
	{"value", "value", 5},
	{"rounding", "rounding", 0.1},
	{"type", "sliderType", "float"},
}

// SliderSettings normalizes raw slider fields into a currentSettings block.
// The raw "type" field names the component, so the numeric type is read
// from "sliderType".
func SliderSettings(raw map[string]any) map[string]any {
	settings := make(map[string]any, len(sliderDefaults))
	for _, d := range sliderDefaults {
		if v, ok := raw[d.field]; ok && v != nil {
			settings[d.key] = v
		} else {
			settings[d.key] = d.value
		}
	}
	return settings
}

// RelatedConnections returns the connections where id is source or target.
func RelatedConnections(connections []any, id string) []any {
	var related []any
	for _, c := range connections {
		conn, ok := c.(map[string]any)
		if !ok {
			continue
		}
		if idString(conn["sourceId"]) == id || idString(conn["targetId"]) == id {
			related = append(related, conn)
		}
	}
	return related
}

// Merge adds knowledge-base metadata for component's type without
// replacing fields already present. Merging twice yields the same result
// as merging once. It reports whether an entry was found.
func (s *Service) Merge(component map[string]any) bool {
	if s.kb == nil {
		return false
	}
	entry, ok := s.kb.Lookup(stringField(component, "type"))
	if !ok {
		return false
	}
	for k, v := range entry.Details() {
		setIfAbsent(component, k, v)
	}
	return true
}

// ComponentInfo fetches one component and enriches it with catalog
// metadata, normalized slider settings and the connections it takes part in.
func (s *Service) ComponentInfo(ctx context.Context, id string) bridge.Envelope {
	env := s.caller.Call(ctx, CmdGetComponentInfo, map[string]any{"id": id})
	component, ok := env.Map()
	if !ok {
		return env
	}
	componentType := stringField(component, "type")
	if componentType == "" {
		return env
	}

	s.Merge(component)
	if componentType == TypeNumberSlider {
		setIfAbsent(component, "currentSettings", SliderSettings(component))
	}
	if related := RelatedConnections(s.connections(ctx), id); len(related) > 0 {
		setIfAbsent(component, "connections", related)
	}
	return env
}

// AllComponents lists every component with the same enrichment as
// ComponentInfo. The connection list is fetched once and shared; each
// slider costs one extra info fetch to resolve its settings.
func (s *Service) AllComponents(ctx context.Context) bridge.Envelope {
	env := s.caller.Call(ctx, CmdGetAllComponents, nil)
	components, ok := env.List()
	if !ok {
		return env
	}

	conns := s.connections(ctx)
	for _, c := range components {
		component, ok := c.(map[string]any)
		if !ok {
			continue
		}
		id := idString(component["id"])
		componentType := stringField(component, "type")
		if id == "" || componentType == "" {
			continue
		}

		s.Merge(component)
		if related := RelatedConnections(conns, id); len(related) > 0 {
			setIfAbsent(component, "connections", related)
		}
		if componentType == TypeNumberSlider {
			if settings, ok := s.sliderSettings(ctx, id); ok {
				setIfAbsent(component, "currentSettings", settings)
			}
		}
	}

	s.logger.Debug("components enriched", slog.Int("count", len(components)))
	return env
}

// sliderSettings resolves a slider's settings from a fresh info fetch.
func (s *Service) sliderSettings(ctx context.Context, id string) (map[string]any, bool) {
	info, ok := s.caller.Call(ctx, CmdGetComponentInfo, map[string]any{"id": id}).Map()
	if !ok {
		return nil, false
	}
	if current, ok := info["currentSettings"].(map[string]any); ok {
		return current, true
	}
	return SliderSettings(info), true
}
