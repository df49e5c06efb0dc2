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

// Package call implements the call command, a raw command passthrough to
// Grasshopper.
package call

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
	"github.com/tombee/grasshopper-mcp/internal/jq"
)

type options struct {
	params string
	filter string
}

// NewCommand creates the call command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use: "call <command>",
		Annotations: map[string]string{
			"group": "debugging",
		},
		Short: "Send a raw command to Grasshopper",
		Long: `Send one command to the Grasshopper bridge component and print the
response envelope. No validation or enrichment is applied; this is the raw
wire protocol.

--jq filters the result of a successful response.`,
		Example: `  grasshopper-mcp call get_document_info
  grasshopper-mcp call add_component --params '{"type":"Circle","x":10,"y":20}'
  grasshopper-mcp call get_all_components --jq 'map(.type)'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			return run(cmd.Context(), cmd.OutOrStdout(), cfg, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.params, "params", "p", "", "Command parameters as a JSON object")
	cmd.Flags().StringVar(&opts.filter, "jq", "", "jq expression applied to the result")

	return cmd
}

func run(ctx context.Context, out io.Writer, cfg *config.Config, command string, opts options) error {
	command = strings.TrimSpace(command)
	if command == "" {
		return shared.NewUsageError("command type must not be empty", nil)
	}

	params, err := ParseParams(opts.params)
	if err != nil {
		return err
	}

	executor := jq.NewExecutor(0, 0)
	if err := executor.Validate(opts.filter); err != nil {
		return shared.NewUsageError("invalid --jq expression", err)
	}

	client := shared.NewClient(cfg, shared.CommandLogger(cfg))
	env := client.Call(ctx, command, params)

	if env.Success && opts.filter != "" {
		filtered, err := executor.Execute(ctx, opts.filter, env.Result)
		if err != nil {
			return fmt.Errorf("jq: %w", err)
		}
		env = bridge.Ok(filtered)
	}

	if err := shared.EmitJSON(out, env); err != nil {
		return err
	}

	if !env.Success {
		return &shared.ExitError{
			Code:     shared.ExitCodeFor(env.Err),
			Message:  env.Error,
			Cause:    env.Err,
			Reported: true,
		}
	}
	return nil
}

// ParseParams decodes a JSON object. An empty string yields nil, which is
// sent as {}.
func ParseParams(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseNumber()

	var params map[string]any
	if err := dec.Decode(&params); err != nil {
		return nil, shared.NewUsageError("--params must be a JSON object", err)
	}
	if dec.More() {
		return nil, shared.NewUsageError("--params must be a single JSON object", nil)
	}
	if params == nil {
		return nil, shared.NewUsageError("--params must be a JSON object", nil)
	}
	return params, nil
}
