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

// Package server exposes the Grasshopper bridge as MCP tools and resources.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/grasshopper-mcp/internal/bridge"
	"github.com/tombee/grasshopper-mcp/internal/canvas"
	"github.com/tombee/grasshopper-mcp/internal/knowledge"
	"github.com/tombee/grasshopper-mcp/internal/log"
)

// Server wraps the MCP server and provides Grasshopper tools
type Server struct {
	mcpServer   *server.MCPServer
	name        string
	version     string
	caller      bridge.Caller
	canvas      *canvas.Service
	kb          *knowledge.Base
	rateLimiter *RateLimiter
	middleware  *log.ToolMiddleware
	logger      *slog.Logger
	host        string
	port        int
}

// ServerConfig configures the MCP server
type ServerConfig struct {
	// Name is the server name (default: "Grasshopper Bridge")
	Name string

	// Version is the build version
	Version string

	// Caller sends commands to Grasshopper (required)
	Caller bridge.Caller

	// Knowledge is the component catalog (default: the embedded catalog)
	Knowledge *knowledge.Base

	// Logger receives tool and bridge logs; it must not write to stdout
	Logger *slog.Logger

	// CallsPerMinute caps tool calls; 0 disables the limit
	CallsPerMinute int

	// Host and Port are reported by health_check
	Host string
	Port int
}

// NewServer creates a new MCP server instance
func NewServer(config ServerConfig) (*Server, error) {
	if config.Caller == nil {
		return nil, errors.New("server: Caller is required")
	}
	if config.Name == "" {
		config.Name = "Grasshopper Bridge"
	}
	if config.Version == "" {
		config.Version = "dev"
	}
	if config.Logger == nil {
		config.Logger = log.Discard()
	}
	if config.Knowledge == nil {
		kb, err := knowledge.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load knowledge base: %w", err)
		}
		config.Knowledge = kb
	}

	mcpServer := server.NewMCPServer(config.Name, config.Version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithRecovery(),
	)

	logger := log.WithComponent(config.Logger, "mcp")
	s := &Server{
		mcpServer:   mcpServer,
		name:        config.Name,
		version:     config.Version,
		caller:      config.Caller,
		canvas:      canvas.NewService(config.Caller, config.Knowledge, config.Logger),
		kb:          config.Knowledge,
		rateLimiter: NewRateLimiter(config.CallsPerMinute),
		middleware:  log.NewToolMiddleware(logger),
		logger:      logger,
		host:        config.Host,
		port:        config.Port,
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// Run serves MCP over stdio until ctx is done or stdin closes.
func (s *Server) Run(ctx context.Context) error {
	s.logger.Info("Starting Grasshopper MCP bridge",
		slog.String("version", s.version),
		slog.String("grasshopper", fmt.Sprintf("%s:%d", s.host, s.port)),
	)

	stdio := server.NewStdioServer(s.mcpServer)
	if err := stdio.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP server error: %w", err)
	}

	s.logger.Info("Grasshopper MCP bridge stopped")
	return nil
}

// jsonResponse renders v as indented JSON text content.
func jsonResponse(v any, isError bool) *mcp.CallToolResult {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to encode result: %v", err))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(string(data)),
		},
		IsError: isError,
	}
}
