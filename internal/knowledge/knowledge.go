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

// Package knowledge is the static catalog of Grasshopper component
// definitions used to enrich live canvas data and served as read-only
// resources.
//
// The catalog is compiled into the binary from YAML and parsed once by Load.
// A *Base is immutable after Load returns and safe for concurrent readers.
package knowledge

import (
	"bytes"
	"embed"
	"fmt"
	"io"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Base is the loaded knowledge base.
type Base struct {
	library Library
	guide   Guide
	hints   Hints
}

// Load parses the embedded catalog.
func Load() (*Base, error) {
	b := &Base{}
	files := []struct {
		name string
		dst  any
	}{
		{"data/library.yaml", &b.library},
		{"data/guide.yaml", &b.guide},
		{"data/hints.yaml", &b.hints},
	}
	for _, f := range files {
		if err := decodeFile(f.name, f.dst); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// MustLoad is Load for process start-up; the catalog is compiled in, so a
// failure is a build defect.
func MustLoad() *Base {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

func decodeFile(name string, dst any) error {
	data, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", name, err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(dst); err != nil && err != io.EOF {
		return fmt.Errorf("parsing %s: %w", name, err)
	}
	return nil
}

// Lookup finds the entry whose name or full name equals name. Library
// categories are searched first, then guide components, each in file
// order; the first match wins.
func (b *Base) Lookup(name string) (Entry, bool) {
	for _, cat := range b.library.Categories {
		for _, e := range cat.Components {
			if e.Matches(name) {
				if e.Category == "" {
					e.Category = cat.Name
				}
				return e, true
			}
		}
	}
	for _, e := range b.guide.Components {
		if e.Matches(name) {
			return e, true
		}
	}
	return Entry{}, false
}

// Library returns the component catalog.
func (b *Base) Library() Library {
	return b.library
}

// Guide returns the usage guide.
func (b *Base) Guide() Guide {
	return b.guide
}

// Recommendations returns general usage recommendations.
func (b *Base) Recommendations() []string {
	out := make([]string, len(b.hints.Recommendations))
	copy(out, b.hints.Recommendations)
	return out
}

// Hints returns usage hints keyed by component name.
func (b *Base) Hints() map[string]Hint {
	out := make(map[string]Hint, len(b.hints.Hints))
	for _, h := range b.hints.Hints {
		out[h.Name] = h
	}
	return out
}

// CategoryNames returns library category names in file order.
func (b *Base) CategoryNames() []string {
	names := make([]string, len(b.library.Categories))
	for i, c := range b.library.Categories {
		names[i] = c.Name
	}
	return names
}

// Names returns every distinct component name in the catalog, sorted.
func (b *Base) Names() []string {
	seen := make(map[string]struct{})
	for _, cat := range b.library.Categories {
		for _, e := range cat.Components {
			seen[e.Name] = struct{}{}
		}
	}
	for _, e := range b.guide.Components {
		seen[e.Name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
