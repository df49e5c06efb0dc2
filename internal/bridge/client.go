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
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/tombee/grasshopper-mcp/internal/log"
	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

const (
	// DefaultHost is the address the Grasshopper plugin listens on.
	DefaultHost = "localhost"
	// DefaultPort is used when GRASSHOPPER_PORT is not set.
	DefaultPort = 8080
	// DefaultTimeout bounds one full round trip.
	DefaultTimeout = 30 * time.Second

	tracerName = "github.com/tombee/grasshopper-mcp/internal/bridge"
)

// Caller issues commands to the remote host. The enrichment layer and the
// tool surface depend on this interface rather than on *Client.
type Caller interface {
	Call(ctx context.Context, command string, params map[string]any) Envelope
}

// Options configures a Client.
type Options struct {
	// Host is the remote host name (default: localhost)
	Host string

	// Port is the remote TCP port (default: 8080)
	Port int

	// Timeout bounds connect, write and read together (default: 30s)
	Timeout time.Duration

	// Logger receives one line per attempt and one per outcome
	Logger *slog.Logger
}

// Client performs one-shot command round trips. It holds no connection
// between calls and is safe for concurrent use.
type Client struct {
	addr    string
	timeout time.Duration
	logger  *slog.Logger
	dialer  net.Dialer
}

// NewClient creates a client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	if opts.Host == "" {
		opts.Host = DefaultHost
	}
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Discard()
	}

	return &Client{
		addr:    net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
		timeout: opts.Timeout,
		logger:  log.WithComponent(opts.Logger, "bridge"),
	}
}

// Addr returns the host:port the client dials.
func (c *Client) Addr() string {
	return c.addr
}

// Timeout returns the round-trip bound.
func (c *Client) Timeout() time.Duration {
	return c.timeout
}

// Call sends one command and returns the decoded envelope. It never panics
// on transport faults and never returns a Go error; see the package docs
// for the failure taxonomy.
func (c *Client) Call(ctx context.Context, command string, params map[string]any) Envelope {
	cmd := NewCommand(command, params)
	logger := log.WithCommand(c.logger, command, uuid.NewString())
	logger.Info("sending command to Grasshopper", slog.Any("parameters", cmd.Parameters))

	ctx, span := otel.Tracer(tracerName).Start(ctx, "bridge "+command,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("bridge.command", command),
			attribute.String("server.address", c.addr),
		),
	)
	defer span.End()

	start := time.Now()
	env := c.roundTrip(ctx, cmd, logger)
	elapsed := time.Since(start)

	observe(command, env, elapsed)

	if env.Success {
		logger.Info("command executed successfully", slog.Int64(log.DurationKey, elapsed.Milliseconds()))
		span.SetStatus(codes.Ok, "")
	} else {
		logger.Warn("command failed",
			slog.String("error", env.Error),
			slog.String("kind", string(env.Kind())),
			slog.Int64(log.DurationKey, elapsed.Milliseconds()),
		)
		if env.Err != nil {
			span.RecordError(env.Err)
		}
		span.SetStatus(codes.Error, env.Error)
	}
	span.SetAttributes(attribute.Bool("bridge.success", env.Success))

	return env
}

func (c *Client) roundTrip(ctx context.Context, cmd Command, logger *slog.Logger) Envelope {
	payload, err := cmd.Encode()
	if err != nil {
		return Failure(&bridgeerrors.UnexpectedError{Operation: cmd.Type, Cause: err})
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.dialer.DialContext(ctx, "tcp", c.addr)
	if err != nil {
		return Failure(c.classify(ctx, cmd.Type, err))
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	// Unblock a pending read if the caller's context ends first.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetDeadline(time.Now())
	})
	defer stop()

	if _, err := conn.Write(payload); err != nil {
		return Failure(c.classify(ctx, cmd.Type, err))
	}
	log.Trace(logger, "command sent", slog.String("payload", string(payload)))

	data, err := bufio.NewReader(conn).ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return Failure(c.classify(ctx, cmd.Type, err))
	}
	log.Trace(logger, "response received", slog.String("payload", string(data)))

	return DecodeEnvelope(cmd.Type, data)
}

// classify maps a dial/read/write error to the bridge taxonomy.
func (c *Client) classify(ctx context.Context, command string, err error) error {
	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return &bridgeerrors.ConnectionError{Addr: c.addr, Cause: err}
	case errors.Is(ctx.Err(), context.Canceled):
		return &bridgeerrors.IOError{Cause: context.Canceled}
	case isTimeout(err) || errors.Is(ctx.Err(), context.DeadlineExceeded):
		return &bridgeerrors.TimeoutError{Operation: command, Duration: c.timeout, Cause: err}
	default:
		return &bridgeerrors.IOError{Cause: err}
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, os.ErrDeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
