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

// Package version implements the version command.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
)

// VersionInfo contains version metadata
type VersionInfo struct {
	Version    string `json:"version"`
	Commit     string `json:"commit"`
	BuildDate  string `json:"build_date"`
	GoVersion  string `json:"go_version"`
	MCPVersion string `json:"mcp_go_version,omitempty"`
	Components int    `json:"knowledge_components"`
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "version",
		Annotations: map[string]string{
			"group": "diagnostics",
		},
		Short: "Show version information",
		Long:  `Display version, commit hash, build date and the size of the embedded component knowledge base.`,
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}

	return cmd
}

func runVersion(cmd *cobra.Command, args []string) error {
	v, c, b := shared.GetVersion()

	info := VersionInfo{
		Version:    v,
		Commit:     c,
		BuildDate:  b,
		GoVersion:  runtime.Version(),
		MCPVersion: moduleVersion("github.com/mark3labs/mcp-go"),
	}
	if kb, err := knowledge.Load(); err == nil {
		info.Components = len(kb.Names())
	}

	if shared.GetJSON() {
		return shared.EmitJSON(cmd.OutOrStdout(), info)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "grasshopper-mcp version %s\n", info.Version)
	fmt.Fprintf(out, "  commit:     %s\n", info.Commit)
	fmt.Fprintf(out, "  build date: %s\n", info.BuildDate)
	fmt.Fprintf(out, "  go:         %s\n", info.GoVersion)
	if info.MCPVersion != "" {
		fmt.Fprintf(out, "  mcp-go:     %s\n", info.MCPVersion)
	}
	fmt.Fprintf(out, "  knowledge:  %d components\n", info.Components)

	return nil
}

// moduleVersion reports the linked version of a dependency, if known.
func moduleVersion(path string) string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, dep := range bi.Deps {
		if dep.Path == path {
			return dep.Version
		}
	}
	return ""
}
