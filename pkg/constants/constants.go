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

// Package constants finds signals whose value never changes over the whole history of a source.
package constants

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/table"
)

// Detect returns the 1-based indices of the constant signals of a source. Signal columns that
// are missing for every event of the source are not signals of that source and are skipped;
// missing entries inside a signal are ignored.
func Detect(t *table.Table, id table.SourceID) []int {
	events := t.Events(id)
	indices := []int{}
	values := make([]float64, 0, len(events))
	for k := 0; k < t.NumFields(); k++ {
		values = values[:0]
		for _, e := range events {
			if v := e.Fields[k]; !math.IsNaN(v) {
				values = append(values, v)
			}
		}
		if len(values) == 0 {
			continue
		}
		if floats.Max(values) == floats.Min(values) {
			indices = append(indices, k+1)
		}
	}
	return indices
}

// Count returns how many signals of a source are constant, for reporting only.
func Count(t *table.Table, id table.SourceID) int {
	return len(Detect(t, id))
}

// DetectAll runs Detect for every given source.
func DetectAll(t *table.Table, sources []table.SourceID) catalog.ConstantSet {
	set := make(catalog.ConstantSet, len(sources))
	for _, id := range sources {
		set[id] = Detect(t, id)
	}
	return set
}

// CountAll sums Count over the given sources.
func CountAll(t *table.Table, sources []table.SourceID) int {
	n := 0
	for _, id := range sources {
		n += Count(t, id)
	}
	return n
}
