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

package errors

import (
	"errors"
	"fmt"
)

// Classified is implemented by every error type in this package.
type Classified interface {
	error

	// ErrorType returns the Kind as a string.
	ErrorType() string

	// UserMessage returns the text placed in a failure envelope.
	UserMessage() string
}

// KindOf returns the category of the first classified error in err's chain.
// Unclassified errors are reported as KindUnexpected.
func KindOf(err error) Kind {
	var c Classified
	if errors.As(err, &c) {
		return Kind(c.ErrorType())
	}
	return KindUnexpected
}

// Message returns the user-facing message for err. Unclassified errors
// fall back to their Error() text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var c Classified
	if errors.As(err, &c) {
		if msg := c.UserMessage(); msg != "" {
			return msg
		}
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return MsgUnknown
}

// Validation is shorthand for a ValidationError.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// Wrap creates a new error that wraps the given error with additional context.
// If err is nil, returns nil.
//
// Usage:
//
//	if err := cfg.loadFromFile(path); err != nil {
//	    return errors.Wrap(err, "loading config")
//	}
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf is Wrap with a formatted message.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's tree matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's tree that matches target type.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// New creates a new error with the given message.
func New(message string) error {
	return errors.New(message)
}
