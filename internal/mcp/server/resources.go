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

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"runtime/debug"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tombee/grasshopper-mcp/internal/canvas"
)

// Resource URIs.
const (
	URIStatus           = "grasshopper://status"
	URIComponentGuide   = "grasshopper://component_guide"
	URIComponentLibrary = "grasshopper://component_library"
)

const mimeJSON = "application/json"

// registerResources registers the live status and the static catalog.
func (s *Server) registerResources() {
	s.mcpServer.AddResource(
		mcp.NewResource(URIStatus, "Grasshopper status",
			mcp.WithResourceDescription("Document info, enriched components, connections and usage hints"),
			mcp.WithMIMEType(mimeJSON),
		),
		s.jsonResource(URIStatus, s.readStatus),
	)

	s.mcpServer.AddResource(
		mcp.NewResource(URIComponentGuide, "Component guide",
			mcp.WithResourceDescription("Guide for creating and connecting Grasshopper components"),
			mcp.WithMIMEType(mimeJSON),
		),
		s.jsonResource(URIComponentGuide, func(context.Context) any { return s.kb.Guide() }),
	)

	s.mcpServer.AddResource(
		mcp.NewResource(URIComponentLibrary, "Component library",
			mcp.WithResourceDescription("Grasshopper components by category with data type compatibility"),
			mcp.WithMIMEType(mimeJSON),
		),
		s.jsonResource(URIComponentLibrary, func(context.Context) any { return s.kb.Library() }),
	)
}

// jsonResource serves the JSON encoding of read's result.
func (s *Server) jsonResource(uri string, read func(context.Context) any) server.ResourceHandlerFunc {
	return func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		data, err := json.MarshalIndent(read(ctx), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", uri, err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      uri,
				MIMEType: mimeJSON,
				Text:     string(data),
			},
		}, nil
	}
}

// readStatus builds the status snapshot. A fault yields an error snapshot
// instead of a failed read.
func (s *Server) readStatus(ctx context.Context) (snap any) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("status resource panicked",
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())),
			)
			snap = canvas.ErrorSnapshot(panicError(r))
		}
	}()

	s.logger.Info("Getting Grasshopper status")
	return s.canvas.Status(ctx)
}
