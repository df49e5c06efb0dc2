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
	"bytes"
	"encoding/json"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
)

func newHelpTestRoot() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "test",
		Short: "Test command",
		Long:  "Test root",
	}
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")

	serveCmd := &cobra.Command{
		Use:         "serve",
		Short:       "Serve",
		Annotations: map[string]string{"group": "server"},
		Run:         func(*cobra.Command, []string) {},
	}
	callCmd := &cobra.Command{
		Use:         "call <command>",
		Short:       "Raw call",
		Example:     "  test call ping",
		Annotations: map[string]string{"group": "debugging"},
		Run:         func(*cobra.Command, []string) {},
	}
	callCmd.Flags().String("jq", "", "jq filter")
	callCmd.Flags().String("params", "", "Parameters")
	_ = callCmd.MarkFlagRequired("params")

	pingCmd := &cobra.Command{
		Use:         "ping",
		Short:       "Ping",
		Annotations: map[string]string{"group": "diagnostics"},
		Run:         func(*cobra.Command, []string) {},
	}
	plainCmd := &cobra.Command{Use: "plain", Short: "No group", Run: func(*cobra.Command, []string) {}}
	hidden := &cobra.Command{Use: "secret", Hidden: true, Run: func(*cobra.Command, []string) {}}

	// Registered out of display order on purpose.
	rootCmd.AddCommand(plainCmd, callCmd, pingCmd, serveCmd, hidden)
	rootCmd.SetHelpCommand(NewHelpCommand(rootCmd))
	return rootCmd
}

func executeHelp(t *testing.T, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	shared.ResetFlagsForTest()
	t.Cleanup(shared.ResetFlagsForTest)

	rootCmd := newHelpTestRoot()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(new(bytes.Buffer))
	rootCmd.SetArgs(append([]string{"help"}, args...))
	return buf, rootCmd.Execute()
}

func decodeHelp(t *testing.T, buf *bytes.Buffer) HelpResponse {
	t.Helper()
	var resp HelpResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp), "output: %s", buf.String())
	return resp
}

func TestHelpJSON_GroupsCommands(t *testing.T) {
	buf, err := executeHelp(t, "--json")
	require.NoError(t, err)
	resp := decodeHelp(t, buf)

	assert.Equal(t, shared.JSONVersion, resp.Version)
	assert.Equal(t, "help", resp.Command)
	assert.True(t, resp.Success)
	assert.Nil(t, resp.Detail)

	var groups []string
	members := map[string][]string{}
	for _, g := range resp.Groups {
		groups = append(groups, g.Name)
		for _, c := range g.Commands {
			members[g.Name] = append(members[g.Name], c.Name)
		}
	}
	assert.Equal(t, []string{"server", "diagnostics", "debugging", "other"}, groups)
	assert.Equal(t, []string{"serve"}, members["server"])
	assert.Equal(t, []string{"ping"}, members["diagnostics"])
	assert.Equal(t, []string{"call"}, members["debugging"])
	assert.Contains(t, members["other"], "plain")
	assert.Contains(t, members["other"], "help")
	for _, names := range members {
		assert.NotContains(t, names, "secret")
	}

	require.Len(t, resp.GlobalFlags, 1)
	assert.Equal(t, "verbose", resp.GlobalFlags[0].Name)
	assert.Equal(t, "v", resp.GlobalFlags[0].Shorthand)
}

func TestHelpJSON_ListsEnvironmentAndExitCodes(t *testing.T) {
	buf, err := executeHelp(t, "--json")
	require.NoError(t, err)
	resp := decodeHelp(t, buf)

	env := map[string]config.EnvVar{}
	for _, v := range resp.Environment {
		env[v.Name] = v
	}
	require.Contains(t, env, config.EnvPort)
	assert.Equal(t, "8080", env[config.EnvPort].Default)
	assert.Contains(t, env, config.EnvHost)
	assert.Contains(t, env, config.EnvTimeout)
	assert.Len(t, resp.Environment, len(config.EnvVars()))

	codes := map[int]string{}
	for _, e := range resp.ExitCodes {
		codes[e.Code] = e.Meaning
	}
	assert.Len(t, codes, 5)
	assert.Contains(t, codes[shared.ExitUnreachable], "not running")
}

func TestHelpJSON_SingleCommand(t *testing.T) {
	buf, err := executeHelp(t, "call", "--json")
	require.NoError(t, err)
	resp := decodeHelp(t, buf)

	assert.Equal(t, "help call", resp.Command)
	assert.Empty(t, resp.Groups)
	require.NotNil(t, resp.Detail)
	assert.Equal(t, "call", resp.Detail.Name)
	assert.Equal(t, "debugging", resp.Detail.Group)
	assert.NotEmpty(t, resp.Detail.Examples)
	assert.NotEmpty(t, resp.Environment)

	flags := map[string]FlagMetadata{}
	for _, f := range resp.Detail.Flags {
		flags[f.Name] = f
	}
	require.Contains(t, flags, "jq")
	require.Contains(t, flags, "params")
	assert.False(t, flags["jq"].Required)
	assert.True(t, flags["params"].Required)
	assert.NotContains(t, flags, "verbose", "global flags are listed separately")
}

func TestHelpJSON_UngroupedCommand(t *testing.T) {
	buf, err := executeHelp(t, "plain", "--json")
	require.NoError(t, err)
	resp := decodeHelp(t, buf)

	require.NotNil(t, resp.Detail)
	assert.Equal(t, "other", resp.Detail.Group)
}

func TestHelp_UnknownCommand(t *testing.T) {
	_, err := executeHelp(t, "nope", "--json")
	require.Error(t, err)
	assert.Equal(t, `command "nope" not found`, err.Error())
	assert.Equal(t, shared.ExitUsage, shared.ExitCodeFor(err))
}

func TestHelp_GlobalJSONFlag(t *testing.T) {
	shared.ResetFlagsForTest()
	shared.SetJSONForTest(true)
	t.Cleanup(shared.ResetFlagsForTest)

	rootCmd := newHelpTestRoot()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"help"})

	require.NoError(t, rootCmd.Execute())
	assert.NotEmpty(t, decodeHelp(t, buf).Groups)
}

func TestHelpText_Overview(t *testing.T) {
	buf, err := executeHelp(t)
	require.NoError(t, err)
	out := buf.String()

	for _, want := range []string{"Server", "Diagnostics", "Debugging", "Environment", config.EnvPort, "default 8080", "Exit codes", "-v, --verbose"} {
		assert.Contains(t, out, want)
	}
	assert.NotContains(t, out, "secret")
	assert.Less(t, bytes.Index(buf.Bytes(), []byte("serve")), bytes.Index(buf.Bytes(), []byte("call")))
}

func TestHelp_AppGroupsEveryCommand(t *testing.T) {
	shared.ResetFlagsForTest()
	t.Cleanup(shared.ResetFlagsForTest)

	resp := overview(NewApp())
	for _, g := range resp.Groups {
		for _, c := range g.Commands {
			if c.Name == "help" {
				continue
			}
			assert.NotEqual(t, "other", g.Name, "%s has no group annotation", c.Name)
		}
	}
}
