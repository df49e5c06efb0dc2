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

package library

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestList(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(shared.ResetFlagsForTest)
	shared.ResetFlagsForTest()

	out, err := execute(t)
	require.NoError(t, err)
	for _, category := range knowledge.MustLoad().CategoryNames() {
		assert.Contains(t, out, category)
	}
	assert.Contains(t, out, "Number Slider")
	assert.Contains(t, out, "Guide")
	assert.Contains(t, out, "Ellipse", "guide-only entries are listed separately")
}

func TestShow(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Cleanup(shared.ResetFlagsForTest)
	shared.ResetFlagsForTest()

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"exact", "Number Slider", []string{"Number Slider", "Category: Params", "Not to be confused with: MD Slider"}},
		{"case insensitive", "number slider", []string{"Number Slider"}},
		{"guide only", "Ellipse", []string{"Ellipse"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := execute(t, tt.query)
			require.NoError(t, err)
			for _, w := range tt.want {
				assert.Contains(t, out, w)
			}
		})
	}
}

func TestShow_Unknown(t *testing.T) {
	t.Cleanup(shared.ResetFlagsForTest)
	shared.ResetFlagsForTest()

	_, err := execute(t, "Flux Capacitor")
	require.Error(t, err)
	assert.Equal(t, shared.ExitUsage, shared.ExitCodeFor(err))
}

func TestShow_JSON(t *testing.T) {
	t.Cleanup(shared.ResetFlagsForTest)
	shared.ResetFlagsForTest()
	shared.SetJSONForTest(true)

	out, err := execute(t, "Number Slider")
	require.NoError(t, err)

	var got struct {
		Command   string          `json:"command"`
		Component knowledge.Entry `json:"component"`
		Details   map[string]any  `json:"details"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, "library", got.Command)
	assert.Equal(t, "Number Slider", got.Component.Name)
	assert.Contains(t, got.Details, knowledge.KeyAvailableSettings)
}
