/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package catalog loads the externally supplied per-source catalogs of a run: the signal ranges
// used for min-max scaling and the optional set of constant signals to exclude.
//
// Both documents are keyed by the textual source identifier and may be written as JSON or YAML.
package catalog

import (
	"fmt"
	"os"

	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/table"
)

// RangeFile is the on-disk shape of the range catalog.
type RangeFile struct {
	Mins map[string][]float64 `json:"mins"`
	Maxs map[string][]float64 `json:"maxs"`
}

// Bounds are the global minimum and maximum of every retained field of one source.
type Bounds struct {
	Mins []float64
	Maxs []float64
}

// Len returns the number of retained fields.
func (b Bounds) Len() int {
	return len(b.Mins)
}

// Ranges is an immutable range catalog.
type Ranges struct {
	entries map[table.SourceID]Bounds
}

// LoadRangeFile reads a range catalog from path.
func LoadRangeFile(path string) (*Ranges, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, featerr.Wrap(featerr.Catalog, err, fmt.Sprintf("failed to read range catalog %q", path))
	}
	return ParseRanges(data)
}

// ParseRanges decodes a range catalog document.
func ParseRanges(data []byte) (*Ranges, error) {
	var f RangeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, featerr.Wrap(featerr.Catalog, err, "failed to decode range catalog")
	}
	if f.Mins == nil || f.Maxs == nil {
		return nil, featerr.New(featerr.Catalog, "range catalog needs both \"mins\" and \"maxs\"")
	}
	return NewRanges(f), nil
}

// NewRanges builds a catalog from the decoded document. Sources present in only one of the two
// mappings are kept with an empty side, and rejected by Validate.
func NewRanges(f RangeFile) *Ranges {
	r := &Ranges{entries: make(map[table.SourceID]Bounds)}
	for id, mins := range f.Mins {
		r.entries[table.SourceID(id)] = Bounds{Mins: mins, Maxs: f.Maxs[id]}
	}
	for id, maxs := range f.Maxs {
		if _, ok := f.Mins[id]; !ok {
			r.entries[table.SourceID(id)] = Bounds{Maxs: maxs}
		}
	}
	return r
}

// Get returns the bounds of a source.
func (r *Ranges) Get(id table.SourceID) (Bounds, bool) {
	b, ok := r.entries[id]
	return b, ok
}

// Validate checks that every source of the catalog order has an entry with as many minimums as
// maximums. All problems are reported together.
func (r *Ranges) Validate(sources []table.SourceID) error {
	var errs error
	for _, id := range sources {
		b, ok := r.entries[id]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("no range entry for source %s", id))
			continue
		}
		if len(b.Mins) != len(b.Maxs) {
			errs = multierr.Append(errs, fmt.Errorf("source %s has %d minimums but %d maximums", id, len(b.Mins), len(b.Maxs)))
		}
	}
	if errs != nil {
		return featerr.Wrap(featerr.Catalog, errs, "range catalog does not cover the source catalog")
	}
	return nil
}

// FieldCounts returns the retained field count of each source, in the given order.
func (r *Ranges) FieldCounts(sources []table.SourceID) ([]int, error) {
	if err := r.Validate(sources); err != nil {
		return nil, err
	}
	counts := make([]int, len(sources))
	for i, id := range sources {
		counts[i] = r.entries[id].Len()
	}
	return counts, nil
}

// Aligned returns the bounds of every source in the given order, validated once so that
// lookups during scaling cannot fail.
func (r *Ranges) Aligned(sources []table.SourceID) ([]Bounds, error) {
	if err := r.Validate(sources); err != nil {
		return nil, err
	}
	out := make([]Bounds, len(sources))
	for i, id := range sources {
		out[i] = r.entries[id]
	}
	return out, nil
}
