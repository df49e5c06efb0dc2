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

package cli

import (
	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/commands/call"
	"github.com/tombee/grasshopper-mcp/internal/commands/completion"
	"github.com/tombee/grasshopper-mcp/internal/commands/diagnostics"
	"github.com/tombee/grasshopper-mcp/internal/commands/library"
	"github.com/tombee/grasshopper-mcp/internal/commands/serve"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	versioncmd "github.com/tombee/grasshopper-mcp/internal/commands/version"
)

// SetVersion sets the version information (called from main)
func SetVersion(v, c, b string) {
	shared.SetVersion(v, c, b)
}

// NewRootCommand creates the root Cobra command with global flags only.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grasshopper-mcp",
		Short: "Grasshopper MCP bridge",
		Long: `grasshopper-mcp exposes a running Grasshopper session to AI assistants
over the Model Context Protocol. Tool calls are relayed as JSON commands to the
Grasshopper bridge component over TCP.

Run 'grasshopper-mcp ping' to check that Grasshopper is reachable.
Run 'grasshopper-mcp serve' (or no command) to start the MCP server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	verbose, quiet, json, config := shared.RegisterFlagPointers()

	cmd.PersistentFlags().BoolVarP(verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVarP(quiet, "quiet", "q", false, "Suppress non-error output")
	cmd.PersistentFlags().BoolVar(json, "json", false, "Output in JSON format")
	cmd.PersistentFlags().StringVar(config, "config", "", "Path to config file (default: ~/.config/grasshopper-mcp/config.yaml)")

	return cmd
}

// NewApp creates the root command with every subcommand registered.
func NewApp() *cobra.Command {
	rootCmd := NewRootCommand()

	rootCmd.AddCommand(serve.NewCommand())

	rootCmd.AddCommand(diagnostics.NewPingCommand())
	rootCmd.AddCommand(diagnostics.NewHealthCommand())

	rootCmd.AddCommand(call.NewCommand())
	rootCmd.AddCommand(library.NewCommand())
	rootCmd.AddCommand(completion.NewCommand())
	rootCmd.AddCommand(versioncmd.NewVersionCommand())

	rootCmd.SetHelpCommand(NewHelpCommand(rootCmd))
	rootCmd.InitDefaultHelpCmd()

	return rootCmd
}

// DefaultArgs runs serve when no arguments are given.
func DefaultArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"serve"}
	}
	return args
}

// GetVersion returns version information
func GetVersion() (string, string, string) {
	return shared.GetVersion()
}

// HandleExitError prints err and exits with its code
func HandleExitError(err error) {
	shared.HandleExitError(err)
}
