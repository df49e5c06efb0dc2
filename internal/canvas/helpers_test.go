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

package canvas

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

type recordedCall struct {
	command string
	params  map[string]any
}

// fakeCaller answers commands from a script and records every call.
type fakeCaller struct {
	mu        sync.Mutex
	responses map[string]func(params map[string]any) bridge.Envelope
	calls     []recordedCall
}

func newFakeCaller() *fakeCaller {
	return &fakeCaller{responses: make(map[string]func(map[string]any) bridge.Envelope)}
}

func (f *fakeCaller) Call(_ context.Context, command string, params map[string]any) bridge.Envelope {
	f.mu.Lock()
	f.calls = append(f.calls, recordedCall{command: command, params: params})
	fn, ok := f.responses[command]
	f.mu.Unlock()

	if !ok {
		return bridge.Failure(&bridgeerrors.RemoteError{Command: command, Message: "Unknown command type: " + command})
	}
	return fn(params)
}

// reply answers command with a success envelope decoded from JSON.
func (f *fakeCaller) reply(t *testing.T, command, resultJSON string) {
	t.Helper()
	f.responses[command] = func(map[string]any) bridge.Envelope {
		return bridge.Ok(decode(t, resultJSON))
	}
}

func (f *fakeCaller) fail(command, message string) {
	f.responses[command] = func(map[string]any) bridge.Envelope {
		return bridge.Failure(&bridgeerrors.RemoteError{Command: command, Message: message})
	}
}

func (f *fakeCaller) commands() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.command
	}
	return out
}

func (f *fakeCaller) last(command string) (map[string]any, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].command == command {
			return f.calls[i].params, true
		}
	}
	return nil, false
}

func (f *fakeCaller) count(command string) int {
	n := 0
	for _, c := range f.commands() {
		if c == command {
			n++
		}
	}
	return n
}

// decode mirrors the bridge decoder: fresh values, numbers as json.Number.
func decode(t *testing.T, s string) any {
	t.Helper()
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func newTestService(caller bridge.Caller) *Service {
	return NewService(caller, knowledge.MustLoad(), nil)
}
