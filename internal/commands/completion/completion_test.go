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

package completion

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteComponentNames(t *testing.T) {
	completions, directive := CompleteComponentNames(nil, nil, "")

	require.NotEmpty(t, completions)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)

	var names []string
	for _, comp := range completions {
		parts := strings.Split(comp, "\t")
		require.Len(t, parts, 2, "completion %q should be name<TAB>category", comp)
		assert.NotEmpty(t, parts[0])
		assert.NotEmpty(t, parts[1])
		names = append(names, parts[0])
	}
	assert.Contains(t, names, "Number Slider")
}

func TestCompleteComponentNames_OnlyFirstArg(t *testing.T) {
	completions, directive := CompleteComponentNames(nil, []string{"Circle"}, "")
	assert.Empty(t, completions)
	assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
}

func TestCompleteLogLevels(t *testing.T) {
	completions, _ := CompleteLogLevels(nil, nil, "")
	require.Len(t, completions, 5)
	assert.True(t, strings.HasPrefix(completions[0], "trace\t"))
}

func TestSafeCompletionWrapper(t *testing.T) {
	tests := []struct {
		name string
		fn   func() ([]string, cobra.ShellCompDirective)
	}{
		{
			name: "panic",
			fn:   func() ([]string, cobra.ShellCompDirective) { panic("boom") },
		},
		{
			name: "nil results",
			fn:   func() ([]string, cobra.ShellCompDirective) { return nil, cobra.ShellCompDirectiveDefault },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, directive := SafeCompletionWrapper(tt.fn)
			assert.NotNil(t, results)
			assert.Empty(t, results)
			assert.Equal(t, cobra.ShellCompDirectiveNoFileComp, directive)
		})
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{shell: "bash", want: "grasshopper-mcp"},
		{shell: "zsh", want: "#compdef grasshopper-mcp"},
		{shell: "fish", want: "grasshopper-mcp"},
		{shell: "powershell", want: "grasshopper-mcp"},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			root := &cobra.Command{Use: "grasshopper-mcp"}
			root.AddCommand(NewCommand())

			var out bytes.Buffer
			root.SetOut(&out)
			root.SetArgs([]string{"completion", tt.shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), tt.want)
		})
	}
}

func TestCompletionCommand_RejectsUnknownShell(t *testing.T) {
	root := &cobra.Command{Use: "grasshopper-mcp"}
	root.AddCommand(NewCommand())
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"completion", "tcsh"})

	assert.Error(t, root.Execute())
}
