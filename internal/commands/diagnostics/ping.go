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

// Package diagnostics implements the ping and health commands.
package diagnostics

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
)

// PingResult contains the ping result
type PingResult struct {
	shared.JSONResponse
	Address   string `json:"address"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Response  any    `json:"response,omitempty"`
	Error     string `json:"error,omitempty"`

	env bridge.Envelope
}

// NewPingCommand creates the ping command
func NewPingCommand() *cobra.Command {
	var timeout time.Duration

	cmd := &cobra.Command{
		Use: "ping",
		Annotations: map[string]string{
			"group": "diagnostics",
		},
		Short: "Check that Grasshopper is reachable",
		Long: `Send a single ping command to the Grasshopper bridge component and
report whether it answered.

Exit codes:
  0 - Grasshopper answered
  2 - Grasshopper is not running or did not answer in time
  1 - Grasshopper answered with a failure`,
		Example: `  grasshopper-mcp ping
  GRASSHOPPER_PORT=9090 grasshopper-mcp ping --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("timeout") {
				cfg.Timeout = timeout
				if err := cfg.Validate(); err != nil {
					return shared.NewConfigError(err)
				}
			}
			return runPing(cmd.Context(), cmd.OutOrStdout(), cfg)
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", bridge.DefaultTimeout, "Round-trip timeout")

	return cmd
}

func runPing(ctx context.Context, out io.Writer, cfg *config.Config) error {
	client := shared.NewClient(cfg, shared.CommandLogger(cfg))
	result := Ping(ctx, client, cfg.Address())

	if shared.GetJSON() {
		if err := shared.EmitJSON(out, result); err != nil {
			return err
		}
	} else if !shared.GetQuiet() || !result.Healthy {
		writePingText(out, result)
	}

	if !result.Healthy {
		return &shared.ExitError{
			Code:     shared.ExitCodeFor(result.env.Err),
			Message:  result.Error,
			Cause:    result.env.Err,
			Reported: true,
		}
	}
	return nil
}

// Ping performs one ping round trip.
func Ping(ctx context.Context, caller bridge.Caller, addr string) PingResult {
	start := time.Now()
	env := caller.Call(ctx, "ping", nil)

	return PingResult{
		JSONResponse: shared.NewJSONResponse("ping", env.Success),
		Address:      addr,
		Healthy:      env.Success,
		LatencyMS:    time.Since(start).Milliseconds(),
		Response:     env.Result,
		Error:        env.Error,
		env:          env,
	}
}

func writePingText(out io.Writer, result PingResult) {
	if result.Healthy {
		fmt.Fprintln(out, shared.RenderOK(fmt.Sprintf("Grasshopper is reachable at %s (%dms)", result.Address, result.LatencyMS)))
		return
	}
	fmt.Fprintln(out, shared.RenderError(fmt.Sprintf("Grasshopper at %s: %s", result.Address, result.Error)))
}
