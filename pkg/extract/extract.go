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

// Package extract reconstructs the state of every source at the end of a window.
//
// For each source the latest observation inside the window is packed into the source's slice of
// the flat vector. A source without an observation repeats its last packed payload (zero-order
// hold). A source that has never been observed makes the window dirty.
package extract

import (
	"math"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/layout"
	"github.com/numaproj/canseq/pkg/table"
	"github.com/numaproj/canseq/pkg/window"
)

// Extractor produces raw vectors for consecutive windows. Windows must be advanced in
// increasing time order since the cache carries state from one window to the next.
type Extractor struct {
	table    *table.Table
	sources  []table.SourceID
	offsets  *layout.Offsets
	excluded catalog.ConstantSet
	cache    *Cache
	// scratch holds the payload being packed
	scratch []float64

	fresh  int
	filled int
	absent int
}

// NewExtractor returns an Extractor over t. sources is the source catalog in vector order and
// must line up with offsets; every one of them must have events in t. excluded may be nil when
// no signal is suppressed.
func NewExtractor(t *table.Table, sources []table.SourceID, offsets *layout.Offsets, excluded catalog.ConstantSet) (*Extractor, error) {
	if len(sources) != offsets.Len() {
		return nil, featerr.Newf(featerr.Catalog, "offset table has %d entries for %d sources", offsets.Len(), len(sources))
	}
	for _, id := range sources {
		if !t.HasSource(id) {
			return nil, featerr.Newf(featerr.Catalog, "source %s has no events", id)
		}
	}
	return &Extractor{
		table:    t,
		sources:  append([]table.SourceID(nil), sources...),
		offsets:  offsets,
		excluded: excluded,
		cache:    NewCache(),
		scratch:  make([]float64, 0, t.NumFields()),
	}, nil
}

// Advance builds the raw vector of window w. The returned flag is false when at least one source
// had neither an observation nor a cached payload; the vector must then be discarded. Sources
// that did have data update the cache in either case.
func (e *Extractor) Advance(w window.IntervalWindow) ([]float64, bool, error) {
	vec := make([]float64, e.offsets.Width())
	clean := true
	for i, id := range e.sources {
		start, stop := e.offsets.Slice(i)
		ev, ok := e.table.Latest(id, w)
		if !ok {
			cached, hit := e.cache.Get(id)
			if !hit {
				e.absent++
				clean = false
				continue
			}
			copy(vec[start:stop], cached)
			e.filled++
			continue
		}
		payload := e.pack(id, ev)
		if len(payload) != stop-start {
			return nil, false, featerr.Newf(featerr.Schema,
				"source %s at time %v packs %d fields but its slice holds %d", id, ev.Time, len(payload), stop-start)
		}
		copy(vec[start:stop], payload)
		e.cache.Put(id, payload)
		e.fresh++
	}
	return vec, clean, nil
}

// pack drops the missing and excluded fields of ev, keeping declared order.
func (e *Extractor) pack(id table.SourceID, ev table.Event) []float64 {
	out := e.scratch[:0]
	for k, v := range ev.Fields {
		if math.IsNaN(v) {
			continue
		}
		if e.excluded.Contains(id, k+1) {
			continue
		}
		out = append(out, v)
	}
	e.scratch = out
	return out
}

// Stats returns how many source slots were packed from a fresh observation, filled from the
// cache, or left empty, over every window advanced so far.
func (e *Extractor) Stats() (fresh, filled, absent int) {
	return e.fresh, e.filled, e.absent
}
