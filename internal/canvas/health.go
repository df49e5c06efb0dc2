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
	"log/slog"
	"strings"
)

// Health score penalties per finding.
const (
	errorPenalty   = 10
	warningPenalty = 5
	remarkPenalty  = 1
)

// PlaneTypes produce a plane suitable for a Circle's Plane input.
var PlaneTypes = []string{"XY Plane", "XZ Plane", "YZ Plane", "Construct Plane", "Plane Normal", "Plane 3Pt"}

// Summary counts what the analysis saw.
type Summary struct {
	TotalComponents  int `json:"total_components"`
	TotalConnections int `json:"total_connections"`
	TotalWarnings    int `json:"total_warnings"`
	HealthScore      int `json:"health_score"`
	Errors           int `json:"errors"`
	Warnings         int `json:"warnings"`
	Remarks          int `json:"remarks"`
}

// Suggestion is one triggered rule.
type Suggestion struct {
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Suggestion  string   `json:"suggestion"`
	Components  []string `json:"components,omitempty"`
}

// HealthReport is the result of analyze_canvas_health.
type HealthReport struct {
	Summary           Summary      `json:"summary"`
	Warnings          []any        `json:"warnings"`
	Issues            []any        `json:"issues"`
	Suggestions       []Suggestion `json:"suggestions"`
	Status            string       `json:"status"`
	StatusDescription string       `json:"status_description"`
}

// Score computes max(0, 100 - 10*errors - 5*warnings - remarks).
func Score(errors, warnings, remarks int) int {
	score := 100 - errorPenalty*errors - warningPenalty*warnings - remarkPenalty*remarks
	if score < 0 {
		return 0
	}
	return score
}

// Band maps a score to its status and description.
func Band(score int) (string, string) {
	switch {
	case score >= 90:
		return "Excellent", "Canvas is in excellent condition with minimal issues"
	case score >= 75:
		return "Good", "Canvas is in good condition with some minor issues"
	case score >= 50:
		return "Fair", "Canvas has several issues that should be addressed"
	default:
		return "Poor", "Canvas has significant issues that need immediate attention"
	}
}

// Analyze scores a canvas from its warnings, components and connections.
// It is pure: identical input yields an identical report, suggestions
// included.
func Analyze(warnings, components, connections []any) HealthReport {
	if warnings == nil {
		warnings = []any{}
	}

	var errs, warns, remarks int
	for _, w := range warnings {
		switch strings.ToLower(warningField(w, "level")) {
		case "error":
			errs++
		case "warning":
			warns++
		case "remark":
			remarks++
		}
	}

	score := Score(errs, warns, remarks)
	status, description := Band(score)

	return HealthReport{
		Summary: Summary{
			TotalComponents:  len(components),
			TotalConnections: len(connections),
			TotalWarnings:    len(warnings),
			HealthScore:      score,
			Errors:           errs,
			Warnings:         warns,
			Remarks:          remarks,
		},
		Warnings:          warnings,
		Issues:            []any{},
		Suggestions:       suggest(warnings, components, connections),
		Status:            status,
		StatusDescription: description,
	}
}

// suggest evaluates every rule in a fixed order.
func suggest(warnings, components, connections []any) []Suggestion {
	suggestions := []Suggestion{}
	add := func(s *Suggestion) {
		if s != nil {
			suggestions = append(suggestions, *s)
		}
	}

	add(warningRule(warnings, func(w map[string]any) bool {
		return stringField(w, "source") == "floating_parameter"
	}, "Floating Parameters", "Found %d floating parameters",
		"Connect these parameters to appropriate sources or set default values"))

	add(warningRule(warnings, func(w map[string]any) bool {
		return stringField(w, "source") == "data_collection"
	}, "Data Collection Issues", "Found %d parameters with data collection problems",
		"Check the source components and ensure they are properly connected and have valid data"))

	add(warningRule(warnings, componentState("hidden"), "Hidden Components", "Found %d hidden components",
		"Consider showing these components if they are needed for the definition"))

	add(warningRule(warnings, componentState("locked"), "Locked Components", "Found %d locked components",
		"Unlock these components if you need to modify them"))

	if len(components) == 0 {
		add(&Suggestion{
			Category:    "Empty Canvas",
			Description: "No components found on canvas",
			Suggestion:  "Add components to start building your definition",
		})
	}

	if len(connections) == 0 && len(components) > 1 {
		add(&Suggestion{
			Category:    "Unconnected Components",
			Description: fmt.Sprintf("Found %d components but no connections", len(components)),
			Suggestion:  "Connect components to create a functional definition",
		})
	}

	types := componentTypes(components)
	if types.has(TypeNumberSlider) {
		if arithmetic, ok := types.first(IsArithmetic); ok {
			add(&Suggestion{
				Category:    "Math Operations",
				Description: fmt.Sprintf("Found Number Slider and %s components", arithmetic),
				Suggestion:  fmt.Sprintf("Ensure Number Sliders are connected to %s inputs A and B in the correct order", arithmetic),
			})
		}
	}

	if types.has(TypeCircle) && !types.hasAny(PlaneTypes) {
		add(&Suggestion{
			Category:    "Plane Inputs",
			Description: "Found Circle component but no XY Plane",
			Suggestion:  "Add XY Plane component to provide plane input for Circle",
		})
	}

	return suggestions
}

func warningRule(warnings []any, match func(map[string]any) bool, category, description, suggestion string) *Suggestion {
	var names []string
	for _, w := range warnings {
		m, ok := w.(map[string]any)
		if !ok || !match(m) {
			continue
		}
		name := "Unknown"
		if component, ok := m["component"].(map[string]any); ok {
			if n := stringField(component, "name"); n != "" {
				name = n
			}
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil
	}
	return &Suggestion{
		Category:    category,
		Description: fmt.Sprintf(description, len(names)),
		Suggestion:  suggestion,
		Components:  names,
	}
}

func componentState(word string) func(map[string]any) bool {
	return func(w map[string]any) bool {
		return stringField(w, "source") == "component_state" &&
			strings.Contains(strings.ToLower(stringField(w, "text")), word)
	}
}

func warningField(w any, key string) string {
	m, ok := w.(map[string]any)
	if !ok {
		return ""
	}
	return stringField(m, key)
}

// typeList keeps component types in canvas order.
type typeList []string

func componentTypes(components []any) typeList {
	types := make(typeList, 0, len(components))
	for _, c := range components {
		if m, ok := c.(map[string]any); ok {
			types = append(types, stringField(m, "type"))
		}
	}
	return types
}

func (l typeList) has(t string) bool {
	for _, x := range l {
		if x == t {
			return true
		}
	}
	return false
}

func (l typeList) hasAny(ts []string) bool {
	for _, t := range ts {
		if l.has(t) {
			return true
		}
	}
	return false
}

func (l typeList) first(match func(string) bool) (string, bool) {
	for _, x := range l {
		if match(x) {
			return x, true
		}
	}
	return "", false
}

// AnalyzeHealth fetches warnings, enriched components and connections and
// scores them. Failed fetches count as empty.
func (s *Service) AnalyzeHealth(ctx context.Context) HealthReport {
	warnings := s.warnings(ctx)

	components, ok := s.AllComponents(ctx).List()
	if !ok {
		components = []any{}
	}
	conns := s.connections(ctx)

	report := Analyze(warnings, components, conns)
	s.logger.Info("canvas health analysis completed",
		slog.Int("health_score", report.Summary.HealthScore),
		slog.String("status", report.Status),
	)
	return report
}

// warnings accepts either {"warnings":[...]} or a bare list.
func (s *Service) warnings(ctx context.Context) []any {
	env := s.caller.Call(ctx, CmdGetComponentWarnings, map[string]any{})
	if list, ok := env.List(); ok {
		return list
	}
	if m, ok := env.Map(); ok {
		if list, ok := m["warnings"].([]any); ok {
			return list
		}
	}
	return []any{}
}
