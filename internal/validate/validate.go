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

// Package validate holds the pre-flight checks applied to tool arguments.
// Every check runs before any traffic to Grasshopper and returns a
// *errors.ValidationError whose message is shown to the caller verbatim.
//
// Arguments arrive as decoded JSON, so each check accepts any and rejects
// values of the wrong dynamic type as well as out-of-range ones. Semantic
// checks (does this component type exist?) are left to Grasshopper.
package validate

import (
	"encoding/json"
	"math"
	"strings"
	"unicode/utf8"

	bridgeerrors "github.com/tombee/grasshopper-mcp/pkg/errors"
)

const (
	// MinCoordinate and MaxCoordinate bound canvas placement, inclusive.
	MinCoordinate = -10000
	MaxCoordinate = 10000

	// MaxPathLength is the longest document path accepted, in characters.
	MaxPathLength = 500
)

// ComponentType checks that v is a string with non-whitespace content.
func ComponentType(v any) (string, error) {
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", bridgeerrors.Validation("component_type", "Component type must be a non-empty string.")
	}
	return s, nil
}

// Coordinates checks that x and y are numbers inside the canvas bounds.
func Coordinates(x, y any) (float64, float64, error) {
	fx, okx := Number(x)
	fy, oky := Number(y)
	if !okx || !oky {
		return 0, 0, bridgeerrors.Validation("coordinates", "Coordinates must be numeric values")
	}
	if !inRange(fx) || !inRange(fy) {
		return 0, 0, bridgeerrors.Validation("coordinates", "Coordinates must be between -10000 and 10000")
	}
	return fx, fy, nil
}

func inRange(f float64) bool {
	// NaN fails both comparisons.
	return f >= MinCoordinate && f <= MaxCoordinate
}

// Path checks a document path for save and load.
func Path(v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", bridgeerrors.Validation("path", "Path must be a non-empty string")
	}
	if strings.TrimSpace(s) == "" {
		return "", bridgeerrors.Validation("path", "Path cannot be empty")
	}
	if utf8.RuneCountInString(s) > MaxPathLength {
		return "", bridgeerrors.Validation("path", "Path is too long")
	}
	return s, nil
}

// ComponentID checks an opaque component identifier. Its structure is
// owned by Grasshopper; only emptiness is rejected.
func ComponentID(field string, v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", bridgeerrors.Validation(field, "Component ID must be a non-empty string")
	}
	return s, nil
}

// Query checks a free-text search query.
func Query(v any) (string, error) {
	return text("query", "Query", v)
}

// Description checks a free-text pattern description.
func Description(v any) (string, error) {
	return text("description", "Description", v)
}

func text(field, label string, v any) (string, error) {
	s, ok := v.(string)
	if !ok || s == "" {
		return "", bridgeerrors.Validation(field, label+" must be a non-empty string")
	}
	return s, nil
}

// OptionalString returns the string at key. Absent and null values report
// false; any other non-string value is a validation error.
func OptionalString(args map[string]any, key string) (string, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", false, bridgeerrors.Validation(key, key+" must be a string")
	}
	return s, true, nil
}

// OptionalIndex returns the parameter index at key. Absent and null values
// report false; the value must be a non-negative whole number.
func OptionalIndex(args map[string]any, key string) (int, bool, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, ok := Number(v)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false, bridgeerrors.Validation(key, key+" must be a non-negative integer")
	}
	return int(f), true, nil
}

// Number converts a decoded JSON number to float64. Strings and booleans
// are not numbers.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}
