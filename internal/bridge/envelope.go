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
	"bytes"
	"encoding/json"
	"fmt"

	"golang.org/x/text/encoding/unicode"

	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

// Command is the request object sent to the remote host.
type Command struct {
	Type       string         `json:"type"`
	Parameters map[string]any `json:"parameters"`
}

// NewCommand builds a command. A nil parameter map is sent as {}.
func NewCommand(commandType string, params map[string]any) Command {
	if params == nil {
		params = map[string]any{}
	}
	return Command{Type: commandType, Parameters: params}
}

// Encode serializes the command as UTF-8 JSON followed by a single newline.
func (c Command) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoder.Encode terminates the value with '\n', which is the frame delimiter.
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Envelope is the uniform result of every bridge call and tool operation.
// Exactly one of Result (on success) or Error (on failure) is meaningful.
type Envelope struct {
	Success bool
	Result  any
	Error   string

	// Err is the typed cause of a failure. It is never serialized.
	Err error
}

// Ok returns a success envelope carrying result.
func Ok(result any) Envelope {
	return Envelope{Success: true, Result: result}
}

// Failure returns a failure envelope for err. The Error string is the
// user-facing message of err and is never empty.
func Failure(err error) Envelope {
	if err == nil {
		err = &bridgeerrors.RemoteError{}
	}
	return Envelope{Error: bridgeerrors.Message(err), Err: err}
}

// Kind classifies a failure envelope. Success envelopes report "".
func (e Envelope) Kind() bridgeerrors.Kind {
	if e.Success {
		return ""
	}
	return bridgeerrors.KindOf(e.Err)
}

// Map returns the result as a JSON object.
func (e Envelope) Map() (map[string]any, bool) {
	if !e.Success {
		return nil, false
	}
	m, ok := e.Result.(map[string]any)
	return m, ok
}

// List returns the result as a JSON array.
func (e Envelope) List() ([]any, bool) {
	if !e.Success {
		return nil, false
	}
	l, ok := e.Result.([]any)
	return l, ok
}

// MarshalJSON emits {"success":true,"result":...} or {"success":false,"error":"..."}.
func (e Envelope) MarshalJSON() ([]byte, error) {
	if e.Success {
		return json.Marshal(struct {
			Success bool `json:"success"`
			Result  any  `json:"result"`
		}{true, e.Result})
	}
	msg := e.Error
	if msg == "" {
		msg = bridgeerrors.Message(e.Err)
	}
	if msg == "" {
		msg = bridgeerrors.MsgUnknown
	}
	return json.Marshal(struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}{false, msg})
}

// DecodeEnvelope parses one response frame for the given command type.
// A leading byte-order mark and surrounding whitespace are ignored. Numbers
// are kept as json.Number so identifiers survive unchanged.
func DecodeEnvelope(command string, data []byte) Envelope {
	data, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return Failure(&bridgeerrors.ProtocolError{Message: "response is not UTF-8", Cause: err})
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Failure(&bridgeerrors.ProtocolError{Message: "empty response"})
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return Failure(&bridgeerrors.ProtocolError{Message: "response is not JSON", Cause: err})
	}
	if dec.More() {
		return Failure(&bridgeerrors.ProtocolError{Message: "trailing data after response"})
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return Failure(&bridgeerrors.ProtocolError{Message: fmt.Sprintf("response is %T, not an object", raw)})
	}
	success, ok := obj["success"].(bool)
	if !ok {
		return Failure(&bridgeerrors.ProtocolError{Message: "response has no boolean success field"})
	}

	if success {
		return Ok(obj["result"])
	}
	return Failure(&bridgeerrors.RemoteError{Command: command, Message: remoteMessage(obj["error"])})
}

func remoteMessage(v any) string {
	switch msg := v.(type) {
	case nil:
		return ""
	case string:
		return msg
	default:
		b, err := json.Marshal(msg)
		if err != nil {
			return fmt.Sprint(msg)
		}
		return string(b)
	}
}
