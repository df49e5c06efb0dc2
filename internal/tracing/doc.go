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

/*
Package tracing installs the OpenTelemetry tracer provider.

The bridge client starts one client span per Grasshopper command through the
global provider. Until Setup is called that provider is a no-op, so tracing
costs nothing when disabled.

	provider, err := tracing.Setup(tracing.Config{
	    ServiceName:    "grasshopper-mcp",
	    ServiceVersion: version,
	})
	if err != nil {
	    return err
	}
	defer provider.Shutdown(context.Background())

Spans are written as JSON to stderr. Stdout carries the MCP stdio transport
and must never receive span output.
*/
package tracing
