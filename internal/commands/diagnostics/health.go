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

package diagnostics

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/canvas"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
)

// HealthResult is the --json output of the health command.
type HealthResult struct {
	shared.JSONResponse
	Address string              `json:"address"`
	Report  canvas.HealthReport `json:"report"`
}

// NewHealthCommand creates the health command
func NewHealthCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use: "health",
		Annotations: map[string]string{
			"group": "diagnostics",
		},
		Short: "Analyze the health of the open Grasshopper canvas",
		Long: `Score the open Grasshopper definition from its runtime messages and
report common problems with suggested fixes.

The score starts at 100 and loses 10 points per error, 5 per warning and 1 per
remark. Grasshopper must be reachable; run 'grasshopper-mcp ping' first if in
doubt.`,
		Example: `  grasshopper-mcp health
  grasshopper-mcp health --json | jq '.report.summary.health_score'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			return runHealth(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	return cmd
}

func runHealth(ctx context.Context, out io.Writer, cfg *config.Config) error {
	logger := shared.CommandLogger(cfg)
	client := shared.NewClient(cfg, logger)

	// The analysis treats missing data as an empty canvas, so confirm the
	// host is there first.
	if ping := Ping(ctx, client, cfg.Address()); !ping.Healthy {
		return ping.env.Err
	}

	kb, err := knowledge.Load()
	if err != nil {
		return err
	}
	report := canvas.NewService(client, kb, logger).AnalyzeHealth(ctx)

	if shared.GetJSON() {
		return shared.EmitJSON(out, HealthResult{
			JSONResponse: shared.NewJSONResponse("health", true),
			Address:      cfg.Address(),
			Report:       report,
		})
	}

	writeHealthText(out, report)
	return nil
}

func writeHealthText(out io.Writer, report canvas.HealthReport) {
	s := report.Summary
	fmt.Fprintln(out, shared.RenderHeader("Canvas health"))
	fmt.Fprintf(out, "  %s %s (%s)\n", shared.RenderLabel("Score:      "), shared.RenderScore(s.HealthScore), report.Status)
	fmt.Fprintf(out, "  %s %s\n", shared.RenderLabel("Assessment: "), report.StatusDescription)
	fmt.Fprintf(out, "  %s %d components, %d connections\n", shared.RenderLabel("Canvas:     "), s.TotalComponents, s.TotalConnections)
	fmt.Fprintf(out, "  %s %d errors, %d warnings, %d remarks\n", shared.RenderLabel("Messages:   "), s.Errors, s.Warnings, s.Remarks)

	if len(report.Suggestions) == 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, shared.RenderOK("No issues found"))
		return
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, shared.RenderHeader("Suggestions"))
	for _, sg := range report.Suggestions {
		fmt.Fprintln(out, "  "+shared.RenderWarn(fmt.Sprintf("[%s] %s", sg.Category, sg.Description)))
		fmt.Fprintf(out, "      %s\n", sg.Suggestion)
		if len(sg.Components) > 0 {
			fmt.Fprintf(out, "      %s %s\n", shared.RenderLabel("components:"), strings.Join(sg.Components, ", "))
		}
	}
}
