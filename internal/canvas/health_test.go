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
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		errors, warnings, remarks int
		want                      int
	}{
		{0, 0, 0, 100},
		{2, 1, 0, 75},
		{1, 1, 1, 84},
		{0, 0, 3, 97},
		{11, 0, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Score(tt.errors, tt.warnings, tt.remarks))
	}
}

func TestBand(t *testing.T) {
	tests := []struct {
		score int
		want  string
	}{
		{100, "Excellent"},
		{90, "Excellent"},
		{89, "Good"},
		{75, "Good"},
		{74, "Fair"},
		{50, "Fair"},
		{49, "Poor"},
		{0, "Poor"},
	}
	for _, tt := range tests {
		status, description := Band(tt.score)
		assert.Equal(t, tt.want, status, "score %d", tt.score)
		assert.NotEmpty(t, description)
	}
}

func TestAnalyze_EmptyCanvas(t *testing.T) {
	report := Analyze(nil, []any{}, []any{})

	assert.Equal(t, 100, report.Summary.HealthScore)
	assert.Equal(t, "Excellent", report.Status)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "Empty Canvas", report.Suggestions[0].Category)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"summary": {"total_components":0,"total_connections":0,"total_warnings":0,
		            "health_score":100,"errors":0,"warnings":0,"remarks":0},
		"warnings": [],
		"issues": [],
		"suggestions": [{"category":"Empty Canvas","description":"No components found on canvas",
		                 "suggestion":"Add components to start building your definition"}],
		"status": "Excellent",
		"status_description": "Canvas is in excellent condition with minimal issues"
	}`, string(data))
}

func TestAnalyze_SeverityCounting(t *testing.T) {
	warnings := decode(t, `[
		{"level":"Error","text":"Solution exception"},
		{"level":"ERROR","text":"Null input"},
		{"level":"warning","text":"1 input is empty"},
		{"level":"info","text":"ignored"},
		{"text":"no level"}
	]`).([]any)
	components := decode(t, `[{"id":"a","type":"Panel"}]`).([]any)

	report := Analyze(warnings, components, []any{})

	assert.Equal(t, 2, report.Summary.Errors)
	assert.Equal(t, 1, report.Summary.Warnings)
	assert.Equal(t, 0, report.Summary.Remarks)
	assert.Equal(t, 5, report.Summary.TotalWarnings)
	assert.Equal(t, 75, report.Summary.HealthScore)
	assert.Equal(t, "Good", report.Status)
}

func TestAnalyze_SuggestionRules(t *testing.T) {
	warnings := decode(t, `[
		{"level":"warning","source":"floating_parameter","component":{"name":"Radius"}},
		{"level":"warning","source":"floating_parameter"},
		{"level":"warning","source":"data_collection","component":{"name":"Curve"}},
		{"level":"remark","source":"component_state","text":"Component is Hidden","component":{"name":"Pt"}},
		{"level":"remark","source":"component_state","text":"component is locked","component":{"name":"Ln"}}
	]`).([]any)
	components := decode(t, `[
		{"id":"s","type":"Number Slider"},
		{"id":"m","type":"Multiplication"},
		{"id":"c","type":"Circle"}
	]`).([]any)

	report := Analyze(warnings, components, []any{})

	var categories []string
	for _, s := range report.Suggestions {
		categories = append(categories, s.Category)
	}
	assert.Equal(t, []string{
		"Floating Parameters",
		"Data Collection Issues",
		"Hidden Components",
		"Locked Components",
		"Unconnected Components",
		"Math Operations",
		"Plane Inputs",
	}, categories)

	floating := report.Suggestions[0]
	assert.Equal(t, "Found 2 floating parameters", floating.Description)
	assert.Equal(t, []string{"Radius", "Unknown"}, floating.Components)

	math := report.Suggestions[5]
	assert.Equal(t, "Found Number Slider and Multiplication components", math.Description)

	again := Analyze(warnings, components, []any{})
	assert.Equal(t, report, again, "analysis must be deterministic")
}

func TestAnalyze_CircleWithPlaneProducer(t *testing.T) {
	for _, plane := range PlaneTypes {
		components := []any{
			map[string]any{"type": "Circle"},
			map[string]any{"type": plane},
		}
		report := Analyze(nil, components, []any{map[string]any{}})
		for _, s := range report.Suggestions {
			assert.NotEqual(t, "Plane Inputs", s.Category, plane)
		}
	}
}

func TestAnalyze_SingleComponentNotUnconnected(t *testing.T) {
	report := Analyze(nil, []any{map[string]any{"type": "Panel"}}, nil)
	assert.Empty(t, report.Suggestions)
}

func TestAnalyzeHealth_FetchesAndScores(t *testing.T) {
	caller := newFakeCaller()
	caller.reply(t, CmdGetComponentWarnings, `{"warnings":[{"level":"error"},{"level":"error"},{"level":"warning"}]}`)
	caller.reply(t, CmdGetAllComponents, `[{"id":"a","type":"Panel"},{"id":"b","type":"Panel"}]`)
	caller.reply(t, CmdGetConnections, `[{"sourceId":"a","targetId":"b"}]`)

	report := newTestService(caller).AnalyzeHealth(context.Background())

	assert.Equal(t, 75, report.Summary.HealthScore)
	assert.Equal(t, "Good", report.Status)
	assert.Equal(t, 2, report.Summary.TotalComponents)
	assert.Equal(t, 1, report.Summary.TotalConnections)

	params, _ := caller.last(CmdGetComponentWarnings)
	assert.Empty(t, params)
}

func TestAnalyzeHealth_BareWarningList(t *testing.T) {
	caller := newFakeCaller()
	caller.reply(t, CmdGetComponentWarnings, `[{"level":"remark"}]`)
	caller.reply(t, CmdGetAllComponents, `[]`)
	caller.reply(t, CmdGetConnections, `[]`)

	report := newTestService(caller).AnalyzeHealth(context.Background())
	assert.Equal(t, 99, report.Summary.HealthScore)
}

func TestAnalyzeHealth_UnreachableHostIsEmptyCanvas(t *testing.T) {
	caller := newFakeCaller()
	for _, cmd := range []string{CmdGetComponentWarnings, CmdGetAllComponents, CmdGetConnections} {
		caller.fail(cmd, "Grasshopper not running or not accessible")
	}

	report := newTestService(caller).AnalyzeHealth(context.Background())
	assert.Equal(t, 100, report.Summary.HealthScore)
	require.Len(t, report.Suggestions, 1)
	assert.Equal(t, "Empty Canvas", report.Suggestions[0].Category)
}
