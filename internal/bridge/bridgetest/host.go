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

// Package bridgetest provides a scriptable stand-in for the Grasshopper host.
package bridgetest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
)

// Response describes how the host answers one command.
type Response struct {
	// Body is marshaled as JSON and terminated with a newline.
	Body any

	// Raw is written verbatim instead of Body when non-nil.
	Raw []byte

	// NoNewline omits the trailing newline and closes the connection.
	NoNewline bool

	// Silent never answers; the connection stays open until Close.
	Silent bool
}

// OK is a success envelope carrying result.
func OK(result any) Response {
	return Response{Body: map[string]any{"success": true, "result": result}}
}

// Fail is a failure envelope carrying message.
func Fail(message string) Response {
	return Response{Body: map[string]any{"success": false, "error": message}}
}

// HandlerFunc produces the response for a received command.
type HandlerFunc func(cmd bridge.Command) Response

// Host is a TCP listener on 127.0.0.1 that records every command it
// receives and answers from per-command handlers. Unknown commands get a
// failure envelope, as the real plugin does.
type Host struct {
	ln       net.Listener
	mu       sync.Mutex
	handlers map[string]HandlerFunc
	received []bridge.Command
	conns    []net.Conn
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewHost starts a host and registers Close with t.Cleanup.
func NewHost(t testing.TB) *Host {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("bridgetest: listen: %v", err)
	}

	h := &Host{
		ln:       ln,
		handlers: make(map[string]HandlerFunc),
		done:     make(chan struct{}),
	}
	h.wg.Add(1)
	go h.serve()
	t.Cleanup(h.Close)
	return h
}

// Port returns the listening port.
func (h *Host) Port() int {
	return h.ln.Addr().(*net.TCPAddr).Port
}

// Options returns client options pointing at this host.
func (h *Host) Options(timeout time.Duration) bridge.Options {
	return bridge.Options{Host: "127.0.0.1", Port: h.Port(), Timeout: timeout}
}

// Handle registers fn for commandType, replacing any previous handler.
func (h *Host) Handle(commandType string, fn HandlerFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handlers[commandType] = fn
}

// Reply registers a fixed response for commandType.
func (h *Host) Reply(commandType string, resp Response) {
	h.Handle(commandType, func(bridge.Command) Response { return resp })
}

// Commands returns the commands received so far, in arrival order.
func (h *Host) Commands() []bridge.Command {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]bridge.Command, len(h.received))
	copy(out, h.received)
	return out
}

// CommandTypes returns the type of every received command, in order.
func (h *Host) CommandTypes() []string {
	cmds := h.Commands()
	types := make([]string, len(cmds))
	for i, c := range cmds {
		types[i] = c.Type
	}
	return types
}

// Last returns the most recent command of the given type.
func (h *Host) Last(commandType string) (bridge.Command, bool) {
	cmds := h.Commands()
	for i := len(cmds) - 1; i >= 0; i-- {
		if cmds[i].Type == commandType {
			return cmds[i], true
		}
	}
	return bridge.Command{}, false
}

// Close stops the listener and drops open connections.
func (h *Host) Close() {
	select {
	case <-h.done:
		return
	default:
		close(h.done)
	}
	_ = h.ln.Close()

	h.mu.Lock()
	for _, c := range h.conns {
		_ = c.Close()
	}
	h.mu.Unlock()

	h.wg.Wait()
}

func (h *Host) serve() {
	defer h.wg.Done()
	for {
		conn, err := h.ln.Accept()
		if err != nil {
			return
		}
		h.mu.Lock()
		h.conns = append(h.conns, conn)
		h.mu.Unlock()

		h.wg.Add(1)
		go h.handleConn(conn)
	}
}

func (h *Host) handleConn(conn net.Conn) {
	defer h.wg.Done()

	line, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil {
		_ = conn.Close()
		return
	}

	var cmd bridge.Command
	if err := json.Unmarshal(line, &cmd); err != nil {
		_ = conn.Close()
		return
	}

	h.mu.Lock()
	h.received = append(h.received, cmd)
	fn, ok := h.handlers[cmd.Type]
	h.mu.Unlock()

	resp := Fail(fmt.Sprintf("Unknown command type: %s", cmd.Type))
	if ok {
		resp = fn(cmd)
	}

	if resp.Silent {
		// Hold the connection until the host shuts down.
		<-h.done
		_ = conn.Close()
		return
	}
	defer conn.Close()

	out := resp.Raw
	if out == nil {
		out, err = json.Marshal(resp.Body)
		if err != nil {
			return
		}
	}
	if !resp.NoNewline {
		out = append(out, '\n')
	}
	_, _ = conn.Write(out)
}
