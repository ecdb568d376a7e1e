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

// Package scaler applies min-max normalization to packed vectors.
package scaler

import (
	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/layout"
	"github.com/numaproj/canseq/pkg/table"
)

// Scaler holds the bounds of every vector position, resolved once from the range catalog.
type Scaler struct {
	sources []table.SourceID
	offsets *layout.Offsets
	mins    []float64
	maxs    []float64
}

// NewScaler flattens bounds, given in source catalog order, against the offset table.
// Every source must have exactly as many bounds as its slice holds.
func NewScaler(sources []table.SourceID, offsets *layout.Offsets, bounds []catalog.Bounds) (*Scaler, error) {
	if len(sources) != offsets.Len() || len(bounds) != offsets.Len() {
		return nil, featerr.Newf(featerr.Catalog, "%d sources, %d offsets and %d range entries do not line up", len(sources), offsets.Len(), len(bounds))
	}
	s := &Scaler{
		sources: append([]table.SourceID(nil), sources...),
		offsets: offsets,
		mins:    make([]float64, 0, offsets.Width()),
		maxs:    make([]float64, 0, offsets.Width()),
	}
	for i, b := range bounds {
		if len(b.Mins) != len(b.Maxs) {
			return nil, featerr.Newf(featerr.Catalog, "source %s has %d minimums but %d maximums", sources[i], len(b.Mins), len(b.Maxs))
		}
		if b.Len() != offsets.Count(i) {
			return nil, featerr.Newf(featerr.Catalog, "source %s has %d range entries but %d fields", sources[i], b.Len(), offsets.Count(i))
		}
		s.mins = append(s.mins, b.Mins...)
		s.maxs = append(s.maxs, b.Maxs...)
	}
	return s, nil
}

// Width returns the vector width the Scaler accepts.
func (s *Scaler) Width() int {
	return len(s.mins)
}

// Scale normalizes vec in place. A field whose range is degenerate scales to 1. A result
// outside [0, 1] is an invariant violation and is never clamped.
func (s *Scaler) Scale(vec []float64) error {
	if len(vec) != len(s.mins) {
		return featerr.Newf(featerr.Invariant, "vector has width %d, want %d", len(vec), len(s.mins))
	}
	for j, raw := range vec {
		lo, hi := s.mins[j], s.maxs[j]
		v := 1.0
		if hi != lo {
			v = (raw - lo) / (hi - lo)
		}
		if !(v >= 0 && v <= 1) {
			i, field := s.locate(j)
			return featerr.Newf(featerr.Invariant,
				"field %d of source %s scaled to %v: raw value %v outside range [%v, %v]", field, s.sources[i], v, raw, lo, hi)
		}
		vec[j] = v
	}
	return nil
}

// locate maps a vector position to its source and 1-based field within the slice.
func (s *Scaler) locate(j int) (int, int) {
	for i := 0; i < s.offsets.Len(); i++ {
		start, end := s.offsets.Slice(i)
		if j < end {
			return i, j - start + 1
		}
	}
	return s.offsets.Len() - 1, 0
}
