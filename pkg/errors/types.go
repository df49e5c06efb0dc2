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

// Package errors defines the error taxonomy shared by the bridge, the
// enrichment layer and the tool surface.
package errors

import (
	"fmt"
	"time"
)

// Kind identifies an error category.
type Kind string

const (
	KindValidation Kind = "validation"
	KindConnection Kind = "connection"
	KindTimeout    Kind = "timeout"
	KindProtocol   Kind = "protocol"
	KindRemote     Kind = "remote"
	KindConfig     Kind = "config"
	KindUnexpected Kind = "unexpected"
)

// User-facing messages for transport failures.
const (
	MsgNotRunning  = "Grasshopper not running or not accessible"
	MsgTimeout     = "Connection timeout - Grasshopper may be unresponsive"
	MsgBadResponse = "Invalid response from Grasshopper"
	MsgUnknown     = "Unknown error"
)

// ValidationError represents caller input that failed a pre-flight check.
// It is always raised before any network traffic.
type ValidationError struct {
	// Field identifies which argument failed validation
	Field string

	// Message is the human-readable error description
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

func (e *ValidationError) ErrorType() string   { return string(KindValidation) }
func (e *ValidationError) UserMessage() string { return e.Message }

// ConnectionError means the remote host refused or could not be reached.
type ConnectionError struct {
	// Addr is the host:port that was dialed
	Addr string

	// Cause is the underlying dial error
	Cause error
}

// Error implements the error interface.
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s: %v", e.Addr, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConnectionError) Unwrap() error { return e.Cause }

func (e *ConnectionError) ErrorType() string   { return string(KindConnection) }
func (e *ConnectionError) UserMessage() string { return MsgNotRunning }

// TimeoutError represents a round trip that exceeded its bound.
type TimeoutError struct {
	// Operation describes what timed out (e.g., the command type)
	Operation string

	// Duration is the configured bound
	Duration time.Duration

	// Cause is the underlying error (if any)
	Cause error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("%s operation timed out after %v", e.Operation, e.Duration)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *TimeoutError) Unwrap() error { return e.Cause }

func (e *TimeoutError) ErrorType() string   { return string(KindTimeout) }
func (e *TimeoutError) UserMessage() string { return MsgTimeout }

// ProtocolError means the response bytes were not a valid envelope.
type ProtocolError struct {
	// Message explains what was wrong with the response
	Message string

	// Cause is the decode error, if any
	Cause error
}

// Error implements the error interface.
func (e *ProtocolError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("protocol error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("protocol error: %s", e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ProtocolError) Unwrap() error { return e.Cause }

func (e *ProtocolError) ErrorType() string   { return string(KindProtocol) }
func (e *ProtocolError) UserMessage() string { return MsgBadResponse }

// RemoteError is a well-formed failure envelope returned by the remote host.
type RemoteError struct {
	// Command is the command type that failed
	Command string

	// Message is the error string reported by the remote host
	Message string
}

// Error implements the error interface.
func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s failed: %s", e.Command, e.UserMessage())
}

func (e *RemoteError) ErrorType() string { return string(KindRemote) }

func (e *RemoteError) UserMessage() string {
	if e.Message == "" {
		return MsgUnknown
	}
	return e.Message
}

// IOError covers any transport fault that is neither a refusal nor a timeout.
type IOError struct {
	Cause error
}

// Error implements the error interface.
func (e *IOError) Error() string {
	return fmt.Sprintf("i/o error: %v", e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *IOError) Unwrap() error { return e.Cause }

func (e *IOError) ErrorType() string { return string(KindConnection) }

func (e *IOError) UserMessage() string {
	return fmt.Sprintf("Error communicating with Grasshopper: %v", e.Cause)
}

// UnexpectedError wraps an internal fault caught at the tool boundary.
type UnexpectedError struct {
	// Operation is the tool or resource that faulted
	Operation string

	// Cause is the recovered error
	Cause error
}

// Error implements the error interface.
func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected error in %s: %v", e.Operation, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *UnexpectedError) Unwrap() error { return e.Cause }

func (e *UnexpectedError) ErrorType() string { return string(KindUnexpected) }

func (e *UnexpectedError) UserMessage() string {
	return fmt.Sprintf("Unexpected error: %v", e.Cause)
}

// ConfigError represents configuration problems.
type ConfigError struct {
	// Key is the configuration key that has the problem (e.g., "port")
	Key string

	// Reason explains what's wrong with the configuration
	Reason string

	// Cause is the underlying error (e.g., file read error, parse error)
	Cause error
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config error at %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config error: %s", e.Reason)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ConfigError) Unwrap() error { return e.Cause }

func (e *ConfigError) ErrorType() string   { return string(KindConfig) }
func (e *ConfigError) UserMessage() string { return e.Error() }
