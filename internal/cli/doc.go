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

/*
Package cli assembles the grasshopper-mcp command tree.

# Command Tree

	grasshopper-mcp
	├── serve      Run the MCP server on stdio (default)
	├── ping       Check that Grasshopper is reachable
	├── health     Analyze the open canvas
	├── call       Send a raw command to Grasshopper
	├── library    Browse the component knowledge base
	├── completion Generate shell completion scripts
	├── version    Show version
	└── help       Commands by group, environment settings and exit codes (--json)

MCP clients usually launch the binary without arguments, so an empty
argument list runs serve.

# Global Flags

	--verbose, -v    Debug logging
	--quiet, -q      Suppress non-error output
	--json           Output in JSON format
	--config         Path to config file

# Exit Codes

  - 0: success
  - 1: Grasshopper answered with a failure
  - 2: Grasshopper is unreachable or timed out
  - 3: invalid configuration
  - 64: invalid usage
*/
package cli
