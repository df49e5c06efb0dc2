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

package call

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tombee/grasshopper-mcp/internal/bridge/bridgetest"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
)

func configFor(port int) *config.Config {
	cfg := config.Default()
	cfg.Host = "127.0.0.1"
	cfg.Port = port
	cfg.Timeout = 2 * time.Second
	return cfg
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    map[string]any
		wantErr bool
	}{
		{"empty", "", nil, false},
		{"blank", "  ", nil, false},
		{"object", `{"type":"Circle","x":10}`, map[string]any{"type": "Circle", "x": json.Number("10")}, false},
		{"array", `[1,2]`, nil, true},
		{"null", `null`, nil, true},
		{"trailing", `{} {}`, nil, true},
		{"malformed", `{"type":`, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseParams(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, shared.ExitUsage, shared.ExitCodeFor(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRun(t *testing.T) {
	host := bridgetest.NewHost(t)
	host.Reply("get_all_components", bridgetest.OK([]any{
		map[string]any{"id": "a", "type": "Circle"},
		map[string]any{"id": "b", "type": "XY Plane"},
	}))
	host.Reply("add_component", bridgetest.OK(map[string]any{"id": "c"}))
	cfg := configFor(host.Port())

	t.Run("passthrough", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), &out, cfg, "add_component", options{params: `{"type":"Circle","x":1.5,"y":2}`}))
		assert.JSONEq(t, `{"success":true,"result":{"id":"c"}}`, out.String())

		cmd, ok := host.Last("add_component")
		require.True(t, ok)
		assert.Equal(t, "Circle", cmd.Parameters["type"])
		assert.EqualValues(t, 1.5, cmd.Parameters["x"])
	})

	t.Run("jq filter", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, run(context.Background(), &out, cfg, "get_all_components", options{filter: "map(.type)"}))
		assert.JSONEq(t, `{"success":true,"result":["Circle","XY Plane"]}`, out.String())
	})

	t.Run("remote failure", func(t *testing.T) {
		var out bytes.Buffer
		err := run(context.Background(), &out, cfg, "no_such_command", options{})
		require.Error(t, err)
		assert.Equal(t, shared.ExitFailure, shared.ExitCodeFor(err))
		assert.JSONEq(t, `{"success":false,"error":"Unknown command type: no_such_command"}`, out.String())
	})

	t.Run("bad jq is rejected before sending", func(t *testing.T) {
		before := len(host.Commands())
		err := run(context.Background(), &bytes.Buffer{}, cfg, "get_all_components", options{filter: ".["})
		require.Error(t, err)
		assert.Equal(t, shared.ExitUsage, shared.ExitCodeFor(err))
		assert.Len(t, host.Commands(), before)
	})

	t.Run("empty command", func(t *testing.T) {
		err := run(context.Background(), &bytes.Buffer{}, cfg, " ", options{})
		assert.Equal(t, shared.ExitUsage, shared.ExitCodeFor(err))
	})
}
