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

package knowledge

import (
	"bytes"
	"encoding/json"
)

// Keys under which entry metadata is merged into live component data.
const (
	KeyAvailableSettings = "availableSettings"
	KeyInputDetails      = "inputDetails"
	KeyOutputDetails     = "outputDetails"
	KeyUsageExamples     = "usageExamples"
	KeyCommonIssues      = "commonIssues"
)

// Details returns the entry's metadata as plain JSON values (maps, slices,
// strings, json.Number) so it can be merged into decoded responses. Each
// call returns fresh values; callers may modify them.
func (e Entry) Details() map[string]any {
	out := make(map[string]any)
	if e.Settings != nil {
		out[KeyAvailableSettings] = plain(e.Settings)
	}
	if e.Inputs != nil {
		out[KeyInputDetails] = plain(e.Inputs)
	}
	if e.Outputs != nil {
		out[KeyOutputDetails] = plain(e.Outputs)
	}
	if e.UsageExamples != nil {
		out[KeyUsageExamples] = plain(e.UsageExamples)
	}
	if e.CommonIssues != nil {
		out[KeyCommonIssues] = plain(e.CommonIssues)
	}
	return out
}

// plain converts typed catalog data to the generic shape produced by the
// bridge decoder.
func plain(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil
	}
	return out
}
