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
	"github.com/mark3labs/mcp-go/mcp"
)

var noArguments = mcp.ToolInputSchema{
	Type:       "object",
	Properties: map[string]interface{}{},
}

func componentIDProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

// registerTools registers all Grasshopper tools with the MCP server
func (s *Server) registerTools() {
	// Tool: add_component
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "add_component",
		Description: "Add a component to the Grasshopper canvas at the given canvas coordinates.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"component_type": map[string]interface{}{
					"type":        "string",
					"description": "Component type (e.g., 'Number Slider', 'Circle', 'Addition', 'Panel')",
				},
				"x": map[string]interface{}{
					"type":        "number",
					"description": "X coordinate on the canvas (-10000 to 10000)",
				},
				"y": map[string]interface{}{
					"type":        "number",
					"description": "Y coordinate on the canvas (-10000 to 10000)",
				},
			},
			Required: []string{"component_type", "x", "y"},
		},
	}, s.tool("add_component", s.addComponent))

	// Tool: clear_document
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "clear_document",
		Description: "Clear the Grasshopper document.",
		InputSchema: noArguments,
	}, s.tool("clear_document", s.passthrough("clear_document")))

	// Tool: save_document
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "save_document",
		Description: "Save the Grasshopper document to a path.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Save path (at most 500 characters)",
				},
			},
			Required: []string{"path"},
		},
	}, s.tool("save_document", s.documentPath("save_document")))

	// Tool: load_document
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "load_document",
		Description: "Load a Grasshopper document from a path.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Document path (at most 500 characters)",
				},
			},
			Required: []string{"path"},
		},
	}, s.tool("load_document", s.documentPath("load_document")))

	// Tool: get_document_info
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_document_info",
		Description: "Get information about the Grasshopper document.",
		InputSchema: noArguments,
	}, s.tool("get_document_info", s.passthrough("get_document_info")))

	// Tool: health_check
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "health_check",
		Description: "Check the bridge and its connection to Grasshopper. Returns a status object rather than failing.",
		InputSchema: noArguments,
	}, s.handleHealthCheck)

	// Tool: connect_components
	s.mcpServer.AddTool(mcp.Tool{
		Name: "connect_components",
		Description: "Connect an output of one component to an input of another. Parameters are addressed by name or index; " +
			"a name wins over an index. When the target is Addition, Subtraction, Multiplication, Division or Math and no " +
			"target parameter is given, input A is used, or B if A is already connected.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_id": componentIDProperty("ID of the source component (output)"),
				"target_id": componentIDProperty("ID of the target component (input)"),
				"source_param": map[string]interface{}{
					"type":        "string",
					"description": "Name of the source parameter (optional)",
				},
				"target_param": map[string]interface{}{
					"type":        "string",
					"description": "Name of the target parameter (optional)",
				},
				"source_param_index": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the source parameter (optional, used if source_param is not provided)",
				},
				"target_param_index": map[string]interface{}{
					"type":        "integer",
					"description": "Index of the target parameter (optional, used if target_param is not provided)",
				},
			},
			Required: []string{"source_id", "target_id"},
		},
	}, s.tool("connect_components", s.connectComponents))

	// Tool: create_pattern
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "create_pattern",
		Description: "Create a pattern of components from a high-level description.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"description": map[string]interface{}{
					"type":        "string",
					"description": "What to create (e.g., '3D voronoi cube')",
				},
			},
			Required: []string{"description"},
		},
	}, s.tool("create_pattern", s.createPattern))

	// Tool: get_available_patterns
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_available_patterns",
		Description: "List available patterns matching a query.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Query to search for patterns",
				},
			},
			Required: []string{"query"},
		},
	}, s.tool("get_available_patterns", s.query("get_available_patterns")))

	// Tool: get_component_info
	s.mcpServer.AddTool(mcp.Tool{
		Name: "get_component_info",
		Description: "Get detailed information about a component, including inputs, outputs, current values, " +
			"library metadata and its connections.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"component_id": componentIDProperty("ID of the component"),
			},
			Required: []string{"component_id"},
		},
	}, s.tool("get_component_info", s.componentInfo))

	// Tool: get_all_components
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_all_components",
		Description: "List all components in the document with IDs, types, positions, library metadata and connections.",
		InputSchema: noArguments,
	}, s.tool("get_all_components", s.allComponents))

	// Tool: get_connections
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_connections",
		Description: "List all connections between components in the document.",
		InputSchema: noArguments,
	}, s.tool("get_connections", s.passthrough("get_connections")))

	// Tool: search_components
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "search_components",
		Description: "Search for component types by name or category.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
			},
			Required: []string{"query"},
		},
	}, s.tool("search_components", s.query("search_components")))

	// Tool: get_component_parameters
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_component_parameters",
		Description: "List the input and output parameters of a component type.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"component_type": map[string]interface{}{
					"type":        "string",
					"description": "Component type to describe",
				},
			},
			Required: []string{"component_type"},
		},
	}, s.tool("get_component_parameters", s.componentParameters))

	// Tool: validate_connection
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "validate_connection",
		Description: "Check whether a connection between two components is possible without making it.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"source_id": componentIDProperty("ID of the source component (output)"),
				"target_id": componentIDProperty("ID of the target component (input)"),
				"source_param": map[string]interface{}{
					"type":        "string",
					"description": "Name of the source parameter (optional)",
				},
				"target_param": map[string]interface{}{
					"type":        "string",
					"description": "Name of the target parameter (optional)",
				},
			},
			Required: []string{"source_id", "target_id"},
		},
	}, s.tool("validate_connection", s.validateConnection))

	// Tool: get_component_warnings
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "get_component_warnings",
		Description: "Get warnings and errors for one component, or for all components when no ID is given.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"component_id": componentIDProperty("ID of a specific component (optional)"),
			},
		},
	}, s.tool("get_component_warnings", s.componentWarnings))

	// Tool: analyze_canvas_health
	s.mcpServer.AddTool(mcp.Tool{
		Name:        "analyze_canvas_health",
		Description: "Score the canvas from its warnings, components and connections, and suggest fixes.",
		InputSchema: noArguments,
	}, s.handleAnalyzeCanvasHealth)
}
