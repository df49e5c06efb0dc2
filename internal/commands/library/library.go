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

// Package library implements the library command, which browses the
// embedded component knowledge base.
package library

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/commands/completion"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
)

// NewCommand creates the library command
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "library [component]",
		Annotations: map[string]string{
			"group": "knowledge",
		},
		Short: "Browse the component knowledge base",
		Long: `Without arguments, list the known components by category. With a
component name, show what the server merges into that component's live data:
settings, input and output details, usage examples and common issues.

Names are matched exactly first, then case-insensitively.`,
		Example: `  grasshopper-mcp library
  grasshopper-mcp library "Number Slider"
  grasshopper-mcp library circle --json`,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: completion.CompleteComponentNames,
		RunE: func(cmd *cobra.Command, args []string) error {
			kb, err := knowledge.Load()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				return list(cmd.OutOrStdout(), kb)
			}
			return show(cmd.OutOrStdout(), kb, args[0])
		},
	}

	return cmd
}

func list(out io.Writer, kb *knowledge.Base) error {
	if shared.GetJSON() {
		return shared.EmitJSON(out, struct {
			shared.JSONResponse
			Library knowledge.Library `json:"library"`
		}{shared.NewJSONResponse("library", true), kb.Library()})
	}

	for _, category := range kb.Library().Categories {
		fmt.Fprintln(out, shared.RenderHeader(category.Name))
		for _, entry := range category.Components {
			fmt.Fprintf(out, "  %s %s\n", shared.SymbolInfo, entry.Name)
		}
		fmt.Fprintln(out)
	}

	if guideOnly := guideOnlyNames(kb); len(guideOnly) > 0 {
		fmt.Fprintln(out, shared.RenderHeader("Guide"))
		for _, name := range guideOnly {
			fmt.Fprintf(out, "  %s %s\n", shared.SymbolInfo, name)
		}
	}
	return nil
}

// guideOnlyNames returns guide entries not present in any library category.
func guideOnlyNames(kb *knowledge.Base) []string {
	inLibrary := make(map[string]bool)
	for _, category := range kb.Library().Categories {
		for _, entry := range category.Components {
			inLibrary[strings.ToLower(entry.Name)] = true
		}
	}

	var names []string
	for _, entry := range kb.Guide().Components {
		if !inLibrary[strings.ToLower(entry.Name)] {
			names = append(names, entry.Name)
		}
	}
	return names
}

func show(out io.Writer, kb *knowledge.Base, name string) error {
	entry, ok := resolve(kb, name)
	if !ok {
		return shared.NewUsageError(fmt.Sprintf("component %q is not in the knowledge base", name), nil)
	}

	if shared.GetJSON() {
		return shared.EmitJSON(out, struct {
			shared.JSONResponse
			Component knowledge.Entry `json:"component"`
			Details   map[string]any  `json:"details"`
		}{shared.NewJSONResponse("library", true), entry, entry.Details()})
	}

	title := entry.Name
	if entry.FullName != "" && entry.FullName != entry.Name {
		title += " (" + entry.FullName + ")"
	}
	fmt.Fprintln(out, shared.RenderHeader(title))
	if entry.Category != "" {
		fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("Category:"), entry.Category)
	}
	if entry.Description != "" {
		fmt.Fprintf(out, "  %s\n", entry.Description)
	}

	writePorts(out, "Inputs", entry.Inputs)
	writePorts(out, "Outputs", entry.Outputs)
	writeList(out, "Usage examples", entry.UsageExamples)
	writeList(out, "Common issues", entry.CommonIssues)

	if hint, ok := kb.Hints()[entry.Name]; ok && hint.NotToBeConfusedWith != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, shared.RenderWarn("Not to be confused with: "+hint.NotToBeConfusedWith))
	}
	return nil
}

// resolve tries an exact lookup first, then a case-insensitive match on
// component names.
func resolve(kb *knowledge.Base, name string) (knowledge.Entry, bool) {
	name = strings.TrimSpace(name)
	if entry, ok := kb.Lookup(name); ok {
		return entry, true
	}
	for _, candidate := range kb.Names() {
		if strings.EqualFold(candidate, name) {
			return kb.Lookup(candidate)
		}
	}
	return knowledge.Entry{}, false
}

func writePorts(out io.Writer, title string, ports []knowledge.Port) {
	if len(ports) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, shared.RenderLabel(title+":"))
	for _, p := range ports {
		line := fmt.Sprintf("  %s %s", shared.SymbolInfo, p.Name)
		if p.Type != "" {
			line += " [" + p.Type + "]"
		}
		if p.Description != "" {
			line += " " + p.Description
		}
		fmt.Fprintln(out, line)
	}
}

func writeList(out io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, shared.RenderLabel(title+":"))
	for _, item := range items {
		fmt.Fprintf(out, "  %s %s\n", shared.SymbolInfo, item)
	}
}
