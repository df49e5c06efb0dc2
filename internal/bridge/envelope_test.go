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

package bridge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

func TestCommand_Encode(t *testing.T) {
	cmd := NewCommand("add_component", map[string]any{"type": "Circle", "x": 10.0, "y": 20.0})
	data, err := cmd.Encode()
	require.NoError(t, err)

	assert.Equal(t, byte('\n'), data[len(data)-1], "frame must end with a newline")
	assert.Equal(t, 1, countByte(data, '\n'), "frame must be a single line")
	assert.JSONEq(t, `{"type":"add_component","parameters":{"type":"Circle","x":10,"y":20}}`, string(data))
}

func TestCommand_EncodeNilParameters(t *testing.T) {
	data, err := NewCommand("clear_document", nil).Encode()
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"clear_document","parameters":{}}`, string(data))
}

func TestCommand_EncodeKeepsAngleBrackets(t *testing.T) {
	data, err := NewCommand("x", map[string]any{"expr": "a<b"}).Encode()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"a<b"`)
}

func TestDecodeEnvelope(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		success  bool
		kind     bridgeerrors.Kind
		errorMsg string
	}{
		{
			name:    "success with object",
			input:   `{"success":true,"result":{"id":"abc"}}`,
			success: true,
		},
		{
			name:    "success with BOM and trailing newline",
			input:   "\ufeff{\"success\":true,\"result\":[]}\n",
			success: true,
		},
		{
			name:     "remote failure",
			input:    `{"success":false,"error":"Component not found"}`,
			kind:     bridgeerrors.KindRemote,
			errorMsg: "Component not found",
		},
		{
			name:     "remote failure without message",
			input:    `{"success":false}`,
			kind:     bridgeerrors.KindRemote,
			errorMsg: bridgeerrors.MsgUnknown,
		},
		{
			name:     "empty",
			input:    "",
			kind:     bridgeerrors.KindProtocol,
			errorMsg: bridgeerrors.MsgBadResponse,
		},
		{
			name:     "not json",
			input:    "hello",
			kind:     bridgeerrors.KindProtocol,
			errorMsg: bridgeerrors.MsgBadResponse,
		},
		{
			name:     "array",
			input:    `[1,2]`,
			kind:     bridgeerrors.KindProtocol,
			errorMsg: bridgeerrors.MsgBadResponse,
		},
		{
			name:     "missing success",
			input:    `{"result":1}`,
			kind:     bridgeerrors.KindProtocol,
			errorMsg: bridgeerrors.MsgBadResponse,
		},
		{
			name:     "trailing data",
			input:    `{"success":true}{"success":true}`,
			kind:     bridgeerrors.KindProtocol,
			errorMsg: bridgeerrors.MsgBadResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := DecodeEnvelope("test", []byte(tt.input))
			assert.Equal(t, tt.success, env.Success)
			if tt.success {
				assert.Empty(t, env.Error)
				return
			}
			assert.Equal(t, tt.kind, env.Kind())
			assert.Equal(t, tt.errorMsg, env.Error)
		})
	}
}

func TestDecodeEnvelope_PreservesNumbers(t *testing.T) {
	env := DecodeEnvelope("get_component_info", []byte(`{"success":true,"result":{"id":12345678901234567890}}`))
	m, ok := env.Map()
	require.True(t, ok)
	assert.Equal(t, json.Number("12345678901234567890"), m["id"])
}

func TestEnvelope_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(Ok(map[string]any{"a": 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"result":{"a":1}}`, string(data))

	data, err = json.Marshal(Ok(nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"result":null}`, string(data))

	data, err = json.Marshal(Failure(&bridgeerrors.ConnectionError{Addr: "localhost:8080"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Grasshopper not running or not accessible"}`, string(data))

	data, err = json.Marshal(Envelope{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":false,"error":"Unknown error"}`, string(data))
}

func TestEnvelope_Accessors(t *testing.T) {
	_, ok := Ok([]any{1}).Map()
	assert.False(t, ok)

	l, ok := Ok([]any{1}).List()
	assert.True(t, ok)
	assert.Len(t, l, 1)

	_, ok = Failure(nil).List()
	assert.False(t, ok)
	assert.Equal(t, bridgeerrors.KindRemote, Failure(nil).Kind())
	assert.Equal(t, bridgeerrors.Kind(""), Ok(nil).Kind())
}

func countByte(data []byte, b byte) int {
	n := 0
	for _, c := range data {
		if c == b {
			n++
		}
	}
	return n
}
