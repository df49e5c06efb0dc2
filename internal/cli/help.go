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
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
)

// groupOrder is the order command groups are listed in. Commands without a
// group annotation fall into "other".
var groupOrder = []string{"server", "diagnostics", "knowledge", "debugging", "other"}

var groupTitles = map[string]string{
	"server":      "Server",
	"diagnostics": "Diagnostics",
	"knowledge":   "Component knowledge",
	"debugging":   "Debugging",
	"other":       "Other",
}

// CommandMetadata describes one command.
type CommandMetadata struct {
	Name        string         `json:"name"`
	Short       string         `json:"short"`
	Long        string         `json:"long,omitempty"`
	Usage       string         `json:"usage"`
	Group       string         `json:"group"`
	Flags       []FlagMetadata `json:"flags,omitempty"`
	Examples    string         `json:"examples,omitempty"`
	Subcommands []string       `json:"subcommands,omitempty"`
	Aliases     []string       `json:"aliases,omitempty"`
}

// FlagMetadata describes one flag.
type FlagMetadata struct {
	Name      string `json:"name"`
	Shorthand string `json:"shorthand,omitempty"`
	Usage     string `json:"usage"`
	Default   string `json:"default,omitempty"`
	Required  bool   `json:"required"`
}

// CommandGroup lists the commands sharing a group annotation.
type CommandGroup struct {
	Name     string            `json:"name"`
	Title    string            `json:"title"`
	Commands []CommandMetadata `json:"commands"`
}

// ExitCode documents one process exit status.
type ExitCode struct {
	Code    int    `json:"code"`
	Meaning string `json:"meaning"`
}

// HelpResponse is the --json output of help. Detail is set when help is
// asked about one command, Groups otherwise.
type HelpResponse struct {
	shared.JSONResponse
	Detail      *CommandMetadata `json:"detail,omitempty"`
	Groups      []CommandGroup   `json:"groups,omitempty"`
	GlobalFlags []FlagMetadata   `json:"global_flags"`
	Environment []config.EnvVar  `json:"environment"`
	ExitCodes   []ExitCode       `json:"exit_codes"`
}

// ExitCodes lists the exit statuses of every command.
func ExitCodes() []ExitCode {
	return []ExitCode{
		{Code: shared.ExitSuccess, Meaning: "success"},
		{Code: shared.ExitFailure, Meaning: "Grasshopper answered with a failure"},
		{Code: shared.ExitUnreachable, Meaning: "Grasshopper is not running or did not answer in time"},
		{Code: shared.ExitInvalidConfig, Meaning: "invalid configuration"},
		{Code: shared.ExitUsage, Meaning: "invalid usage"},
	}
}

// NewHelpCommand creates the help command
func NewHelpCommand(rootCmd *cobra.Command) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "help [command]",
		Short: "Help about any command",
		Long: `Show commands grouped by purpose, the environment settings that
configure the connection to Grasshopper, and the exit codes.

Run 'grasshopper-mcp help <command>' for one command.
Use --json for machine-readable output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			useJSON := shared.GetJSON() || jsonOutput
			out := cmd.OutOrStdout()

			if len(args) == 0 {
				if useJSON {
					return shared.EmitJSON(out, overview(rootCmd))
				}
				writeOverview(out, rootCmd)
				return nil
			}

			target, _, err := rootCmd.Find(args)
			if err != nil || target == rootCmd {
				return shared.NewUsageError(fmt.Sprintf("command %q not found", strings.Join(args, " ")), nil)
			}

			if useJSON {
				resp := newHelpResponse("help " + target.Name())
				detail := describeCommand(target)
				resp.Detail = &detail
				resp.GlobalFlags = describeFlags(rootCmd.PersistentFlags())
				return shared.EmitJSON(out, resp)
			}
			return target.Help()
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func newHelpResponse(command string) HelpResponse {
	return HelpResponse{
		JSONResponse: shared.NewJSONResponse(command, true),
		Environment:  config.EnvVars(),
		ExitCodes:    ExitCodes(),
	}
}

// overview builds the full help document for rootCmd.
func overview(rootCmd *cobra.Command) HelpResponse {
	resp := newHelpResponse("help")
	resp.Groups = groupCommands(rootCmd)
	resp.GlobalFlags = describeFlags(rootCmd.PersistentFlags())
	return resp
}

// groupCommands buckets visible subcommands by their group annotation.
// Groups keep groupOrder; unknown groups follow in first-seen order.
func groupCommands(rootCmd *cobra.Command) []CommandGroup {
	byName := map[string]*CommandGroup{}
	order := append([]string(nil), groupOrder...)

	for _, c := range rootCmd.Commands() {
		if c.Hidden || (!c.IsAvailableCommand() && c.Name() != "help") {
			continue
		}
		meta := describeCommand(c)
		g, ok := byName[meta.Group]
		if !ok {
			title := groupTitles[meta.Group]
			if title == "" {
				title = meta.Group
				order = append(order, meta.Group)
			}
			g = &CommandGroup{Name: meta.Group, Title: title}
			byName[meta.Group] = g
		}
		g.Commands = append(g.Commands, meta)
	}

	var groups []CommandGroup
	for _, name := range order {
		if g, ok := byName[name]; ok {
			groups = append(groups, *g)
		}
	}
	return groups
}

func describeCommand(cmd *cobra.Command) CommandMetadata {
	group := cmd.Annotations["group"]
	if group == "" {
		group = "other"
	}

	meta := CommandMetadata{
		Name:     cmd.Name(),
		Short:    cmd.Short,
		Long:     cmd.Long,
		Usage:    cmd.UseLine(),
		Group:    group,
		Flags:    describeFlags(cmd.LocalNonPersistentFlags()),
		Examples: cmd.Example,
		Aliases:  cmd.Aliases,
	}
	for _, sub := range cmd.Commands() {
		if !sub.Hidden {
			meta.Subcommands = append(meta.Subcommands, sub.Name())
		}
	}
	return meta
}

func describeFlags(fs *pflag.FlagSet) []FlagMetadata {
	flags := []FlagMetadata{}
	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		_, required := f.Annotations[cobra.BashCompOneRequiredFlag]
		flags = append(flags, FlagMetadata{
			Name:      f.Name,
			Shorthand: f.Shorthand,
			Usage:     f.Usage,
			Default:   f.DefValue,
			Required:  required,
		})
	})
	return flags
}

// writeOverview prints the grouped command list, environment and exit codes.
func writeOverview(out io.Writer, rootCmd *cobra.Command) {
	resp := overview(rootCmd)

	fmt.Fprintln(out, rootCmd.Long)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Usage:\n  %s [command]\n", rootCmd.Name())

	for _, g := range resp.Groups {
		fmt.Fprintln(out)
		fmt.Fprintln(out, shared.RenderHeader(g.Title))
		for _, c := range g.Commands {
			fmt.Fprintf(out, "  %-12s %s\n", c.Name, c.Short)
		}
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, shared.RenderHeader("Environment"))
	for _, v := range resp.Environment {
		line := fmt.Sprintf("  %-26s %s", v.Name, v.Description)
		if v.Default != "" {
			line += " (default " + v.Default + ")"
		}
		fmt.Fprintln(out, line)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, shared.RenderHeader("Global flags"))
	for _, f := range resp.GlobalFlags {
		name := "--" + f.Name
		if f.Shorthand != "" {
			name = "-" + f.Shorthand + ", " + name
		}
		fmt.Fprintf(out, "  %-16s %s\n", name, f.Usage)
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, shared.RenderHeader("Exit codes"))
	for _, e := range resp.ExitCodes {
		fmt.Fprintf(out, "  %-3d %s\n", e.Code, e.Meaning)
	}
}
