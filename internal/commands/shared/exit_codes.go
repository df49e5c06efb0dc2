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

package shared

import (
	"errors"
	"fmt"
	"io"
	"os"

	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

// Exit codes
const (
	ExitSuccess       = 0
	ExitFailure       = 1 // command ran but Grasshopper reported a failure
	ExitUnreachable   = 2 // Grasshopper could not be reached or did not answer
	ExitInvalidConfig = 3
	ExitUsage         = 64 // EX_USAGE from sysexits.h
)

// ExitError is an error that carries an exit code
type ExitError struct {
	Code    int
	Message string
	Cause   error

	// Reported means the command already printed the failure.
	Reported bool
}

func (e *ExitError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Cause
}

// NewFailureError reports a failure envelope from Grasshopper.
func NewFailureError(msg string) *ExitError {
	return &ExitError{Code: ExitFailure, Message: msg}
}

// NewConfigError reports an unusable configuration.
func NewConfigError(cause error) *ExitError {
	return &ExitError{Code: ExitInvalidConfig, Message: "invalid configuration", Cause: cause}
}

// NewUsageError reports bad command-line input.
func NewUsageError(msg string, cause error) *ExitError {
	return &ExitError{Code: ExitUsage, Message: msg, Cause: cause}
}

// ExitCodeFor maps an error to an exit code.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch bridgeerrors.KindOf(err) {
	case bridgeerrors.KindConnection, bridgeerrors.KindTimeout:
		return ExitUnreachable
	case bridgeerrors.KindConfig:
		return ExitInvalidConfig
	case bridgeerrors.KindValidation:
		return ExitUsage
	}
	return ExitFailure
}

// HandleExitError prints err to stderr and exits with its code.
func HandleExitError(err error) {
	if err == nil {
		return
	}
	PrintError(os.Stderr, err)
	os.Exit(ExitCodeFor(err))
}

// PrintError writes err and, for transport failures, a hint. Errors the
// command already reported are skipped.
func PrintError(w io.Writer, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Reported {
		return
	}

	fmt.Fprintln(w, "Error:", err.Error())

	if ExitCodeFor(err) == ExitUnreachable {
		fmt.Fprintln(w, "\nSuggestion: start Rhino, open Grasshopper and make sure the bridge component is listening on the configured port (GRASSHOPPER_PORT).")
	}
}
