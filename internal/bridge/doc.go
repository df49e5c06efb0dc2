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
Package bridge talks to the Grasshopper host process over TCP.

# Wire Protocol

Every call opens a fresh connection, writes one command and reads one
response:

	-> {"type":"add_component","parameters":{"type":"Circle","x":10,"y":20}}\n
	<- {"success":true,"result":{"id":"a1b2"}}\n

The response may be prefixed with a UTF-8 byte-order mark. A peer that closes
the connection before sending a newline is treated as having finished the
message; whatever bytes arrived are decoded.

# Failures

Client.Call never returns a Go error. Every failure is folded into an
Envelope with Success=false, a user-facing Error string and a typed cause
from pkg/errors:

  - connection refused: ConnectionError ("Grasshopper not running or not accessible")
  - deadline exceeded:  TimeoutError ("Connection timeout - Grasshopper may be unresponsive")
  - undecodable bytes:  ProtocolError ("Invalid response from Grasshopper")
  - other I/O faults:   IOError ("Error communicating with Grasshopper: ...")
  - success=false:      RemoteError (the host's own message)

A single timeout covers dialing, writing and reading. There are no retries.

# Observability

Each call is logged with a fresh request ID, counted and timed in the
grasshopper_bridge_* Prometheus metrics, and wrapped in an OpenTelemetry
client span. None of these can change the returned envelope.
*/
package bridge
