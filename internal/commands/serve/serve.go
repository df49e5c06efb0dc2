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

// Package serve implements the serve command, the MCP server on stdio.
package serve

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tombee/grasshopper-mcp/internal/commands/completion"
	"github.com/tombee/grasshopper-mcp/internal/commands/shared"
	"github.com/tombee/grasshopper-mcp/internal/config"
	"github.com/tombee/grasshopper-mcp/internal/log"
	"github.com/tombee/grasshopper-mcp/internal/mcp/server"
	"github.com/tombee/grasshopper-mcp/internal/tracing"
)

// ServerName is announced to MCP clients.
const ServerName = "Grasshopper Bridge"

const shutdownTimeout = 5 * time.Second

type options struct {
	logLevel    string
	metricsAddr string
	trace       bool
}

// NewCommand creates the serve command
func NewCommand() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the Grasshopper MCP server on stdio",
		Long: `Start the Grasshopper MCP (Model Context Protocol) server.

The server speaks MCP on stdin/stdout and relays every tool call to the
Grasshopper bridge component over TCP (GRASSHOPPER_PORT, default 8080).
Logs go to stderr.

Configuration example for an MCP client:
  {
    "mcpServers": {
      "grasshopper": {
        "command": "grasshopper-mcp",
        "args": ["serve"],
        "env": {"GRASSHOPPER_PORT": "8080"}
      }
    }
  }

Running grasshopper-mcp without a command is the same as running serve.`,
		Annotations: map[string]string{
			"group": "server",
		},
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := shared.LoadConfig()
			if err != nil {
				return err
			}
			if err := opts.apply(cmd, cfg); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&opts.logLevel, "log-level", "info", "Logging verbosity (trace, debug, info, warn, error)")
	cmd.Flags().StringVar(&opts.metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address (e.g. 127.0.0.1:9464)")
	cmd.Flags().BoolVar(&opts.trace, "trace", false, "Export OpenTelemetry spans to stderr")

	_ = cmd.RegisterFlagCompletionFunc("log-level", completion.CompleteLogLevels)

	return cmd
}

// apply overlays explicitly set flags onto cfg and revalidates it.
func (o options) apply(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = o.logLevel
	} else if shared.GetVerbose() {
		cfg.Log.Level = "debug"
	}
	if flags.Changed("metrics-addr") {
		cfg.Metrics.Addr = o.metricsAddr
	}
	if flags.Changed("trace") {
		cfg.Tracing.Enabled = o.trace
	}

	if err := cfg.Validate(); err != nil {
		return shared.NewConfigError(err)
	}
	return nil
}

func run(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := log.New(cfg.Logging())
	version, _, _ := shared.GetVersion()

	if shared.IsTerminal(os.Stdin) {
		logger.Warn("stdin is a terminal; serve expects to be launched by an MCP client")
	}

	if cfg.Tracing.Enabled {
		provider, err := tracing.Setup(tracing.Config{
			ServiceName:    "grasshopper-mcp",
			ServiceVersion: version,
		})
		if err != nil {
			return fmt.Errorf("failed to set up tracing: %w", err)
		}
		defer shutdown(logger, "tracing", provider.Shutdown)
	}

	if cfg.Metrics.Addr != "" {
		metrics, err := StartMetrics(cfg.Metrics.Addr, logger)
		if err != nil {
			return err
		}
		defer shutdown(logger, "metrics", metrics.Shutdown)
	}

	srv, err := server.NewServer(server.ServerConfig{
		Name:           ServerName,
		Version:        version,
		Caller:         shared.NewClient(cfg, logger),
		Logger:         logger,
		CallsPerMinute: cfg.RateLimit.CallsPerMinute,
		Host:           cfg.Host,
		Port:           cfg.Port,
	})
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	return srv.Run(ctx)
}

func shutdown(logger *slog.Logger, what string, fn func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		logger.Warn("shutdown failed", slog.String("subsystem", what), log.Error(err))
	}
}
