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

// Port is one input or output of a component.
type Port struct {
	Name        string `yaml:"name" json:"name"`
	Type        string `yaml:"type" json:"type"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
	Optional    bool   `yaml:"optional,omitempty" json:"optional,omitempty"`
}

// Setting documents a configurable property such as a slider's range.
type Setting struct {
	Description string `yaml:"description" json:"description"`
	Default     any    `yaml:"default" json:"default"`
}

// SimilarComponent names a component that is easily confused with another.
type SimilarComponent struct {
	Name             string `yaml:"name" json:"name"`
	Description      string `yaml:"description" json:"description"`
	HowToDistinguish string `yaml:"how_to_distinguish" json:"how_to_distinguish"`
}

// Disambiguation steers callers away from look-alike components.
type Disambiguation struct {
	SimilarComponents []SimilarComponent `yaml:"similar_components,omitempty" json:"similar_components,omitempty"`
	CorrectUsage      string             `yaml:"correct_usage,omitempty" json:"correct_usage,omitempty"`
}

// Entry is the static definition of one component type.
type Entry struct {
	Name           string             `yaml:"name" json:"name"`
	FullName       string             `yaml:"fullName,omitempty" json:"fullName,omitempty"`
	Category       string             `yaml:"category,omitempty" json:"category,omitempty"`
	Description    string             `yaml:"description" json:"description"`
	Inputs         []Port             `yaml:"inputs" json:"inputs"`
	Outputs        []Port             `yaml:"outputs" json:"outputs"`
	Settings       map[string]Setting `yaml:"settings,omitempty" json:"settings,omitempty"`
	Operations     []string           `yaml:"operations,omitempty" json:"operations,omitempty"`
	UsageExamples  []string           `yaml:"usage_examples,omitempty" json:"usage_examples,omitempty"`
	CommonIssues   []string           `yaml:"common_issues,omitempty" json:"common_issues,omitempty"`
	Disambiguation *Disambiguation    `yaml:"disambiguation,omitempty" json:"disambiguation,omitempty"`
}

// Matches reports whether name equals the entry's name or full name.
func (e Entry) Matches(name string) bool {
	return name != "" && (e.Name == name || e.FullName == name)
}

// Category groups library entries.
type Category struct {
	Name       string  `yaml:"name" json:"name"`
	Components []Entry `yaml:"components" json:"components"`
}

// DataType lists which parameter types a value can flow into.
type DataType struct {
	Name           string   `yaml:"name" json:"name"`
	Description    string   `yaml:"description" json:"description"`
	CompatibleWith []string `yaml:"compatibleWith" json:"compatibleWith"`
}

// Library is the categorized component catalog.
type Library struct {
	Categories []Category `yaml:"categories" json:"categories"`
	DataTypes  []DataType `yaml:"dataTypes" json:"dataTypes"`
}

// ConnectionRule describes a recommended wiring.
type ConnectionRule struct {
	From        string `yaml:"from" json:"from"`
	To          string `yaml:"to" json:"to"`
	Description string `yaml:"description" json:"description"`
}

// Guide is the usage guide served as a resource.
type Guide struct {
	Title           string           `yaml:"title" json:"title"`
	Description     string           `yaml:"description" json:"description"`
	Components      []Entry          `yaml:"components" json:"components"`
	ConnectionRules []ConnectionRule `yaml:"connectionRules" json:"connectionRules"`
	CommonIssues    []string         `yaml:"commonIssues" json:"commonIssues"`
	Tips            []string         `yaml:"tips" json:"tips"`
}

// Hint is a short usage note attached to the live status snapshot.
type Hint struct {
	Name                string   `yaml:"name" json:"-"`
	Description         string   `yaml:"description" json:"description"`
	CommonUsage         string   `yaml:"common_usage" json:"common_usage"`
	Parameters          []string `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	ConnectionTip       string   `yaml:"connection_tip,omitempty" json:"connection_tip,omitempty"`
	NotToBeConfusedWith string   `yaml:"not_to_be_confused_with,omitempty" json:"NOT_TO_BE_CONFUSED_WITH,omitempty"`
}

// Hints bundles per-component hints with general recommendations.
type Hints struct {
	Hints           []Hint   `yaml:"hints"`
	Recommendations []string `yaml:"recommendations"`
}
