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

// Package layout maps every source to its contiguous slice of the flat feature vector.
package layout

import (
	"math"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/table"
)

// Offsets is the cumulative offset table. offsets[i] is the exclusive end of source i's slice
// and the last entry is the width of the vector. It is never mutated after construction.
type Offsets struct {
	ends []int
}

// FromCounts builds the table from per-source field counts given in catalog order.
// A source with zero fields gets a zero-width slice.
func FromCounts(counts []int) (*Offsets, error) {
	ends := make([]int, len(counts))
	sum := 0
	for i, c := range counts {
		if c < 0 {
			return nil, featerr.Newf(featerr.Catalog, "negative field count %d at position %d", c, i)
		}
		sum += c
		ends[i] = sum
	}
	return &Offsets{ends: ends}, nil
}

// FromOffsets adopts a precomputed cumulative table for numSources sources.
func FromOffsets(ends []int, numSources int) (*Offsets, error) {
	if len(ends) != numSources {
		return nil, featerr.Newf(featerr.Catalog, "offset table has %d entries for %d sources", len(ends), numSources)
	}
	prev := 0
	for i, e := range ends {
		if e < prev {
			return nil, featerr.Newf(featerr.Catalog, "offset table decreases at position %d (%d after %d)", i, e, prev)
		}
		prev = e
	}
	return &Offsets{ends: append([]int(nil), ends...)}, nil
}

// CountsFromTable derives the retained field count of every source from the table: the signal
// columns that are not entirely missing for that source, minus the excluded ones.
func CountsFromTable(t *table.Table, sources []table.SourceID, excluded catalog.ConstantSet) []int {
	counts := make([]int, len(sources))
	for i, id := range sources {
		present := make([]bool, t.NumFields())
		for _, e := range t.Events(id) {
			for k, v := range e.Fields {
				if !math.IsNaN(v) {
					present[k] = true
				}
			}
		}
		for k, ok := range present {
			if ok && !excluded.Contains(id, k+1) {
				counts[i]++
			}
		}
	}
	return counts
}

// Len returns the number of sources.
func (o *Offsets) Len() int {
	return len(o.ends)
}

// Width returns the total vector width.
func (o *Offsets) Width() int {
	if len(o.ends) == 0 {
		return 0
	}
	return o.ends[len(o.ends)-1]
}

// Slice returns the [start, end) bounds of source i.
func (o *Offsets) Slice(i int) (int, int) {
	start := 0
	if i > 0 {
		start = o.ends[i-1]
	}
	return start, o.ends[i]
}

// Count returns the field count of source i.
func (o *Offsets) Count(i int) int {
	start, end := o.Slice(i)
	return end - start
}

// Offsets returns a copy of the cumulative table.
func (o *Offsets) Offsets() []int {
	return append([]int(nil), o.ends...)
}
