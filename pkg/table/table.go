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

// Package table holds the complete, immutable event log of a run.
//
// Events are indexed per source and ordered by time, so that the latest observation of a source
// inside a window can be found with a binary search instead of a scan over the whole log.
package table

import (
	"math"
	"sort"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/window"
)

// Event is one bus message. Fields holds the declared signal columns in order; a missing
// entry is NaN.
type Event struct {
	Time   float64
	Source SourceID
	Fields []float64
}

// series is the time-ordered history of one source.
type series struct {
	times  []float64
	events []Event
}

// Table is the loaded event log.
type Table struct {
	numFields int
	count     int
	sources   []SourceID
	bySource  map[SourceID]*series
	minTime   float64
	maxTime   float64
}

// New indexes events. Every event must carry exactly numFields entries and a finite time.
// Events sharing a source and a timestamp keep their input order.
func New(numFields int, events []Event) (*Table, error) {
	t := &Table{
		numFields: numFields,
		count:     len(events),
		bySource:  make(map[SourceID]*series),
		minTime:   math.Inf(1),
		maxTime:   math.Inf(-1),
	}
	for i, e := range events {
		if len(e.Fields) != numFields {
			return nil, featerr.Newf(featerr.Schema, "event %d of source %s has %d fields, want %d", i, e.Source, len(e.Fields), numFields)
		}
		if math.IsNaN(e.Time) || math.IsInf(e.Time, 0) {
			return nil, featerr.Newf(featerr.Schema, "event %d of source %s has no valid time", i, e.Source)
		}
		s, ok := t.bySource[e.Source]
		if !ok {
			s = &series{}
			t.bySource[e.Source] = s
			t.sources = append(t.sources, e.Source)
		}
		s.events = append(s.events, e)
		t.minTime = math.Min(t.minTime, e.Time)
		t.maxTime = math.Max(t.maxTime, e.Time)
	}
	for _, s := range t.bySource {
		sort.SliceStable(s.events, func(i, j int) bool {
			return s.events[i].Time < s.events[j].Time
		})
		s.times = make([]float64, len(s.events))
		for i, e := range s.events {
			s.times[i] = e.Time
		}
	}
	SortSources(t.sources)
	return t, nil
}

// NumFields returns the number of declared signal columns.
func (t *Table) NumFields() int {
	return t.numFields
}

// Len returns the number of events.
func (t *Table) Len() int {
	return t.count
}

// Sources returns the source catalog: every distinct source, sorted.
func (t *Table) Sources() []SourceID {
	out := make([]SourceID, len(t.sources))
	copy(out, t.sources)
	return out
}

// HasSource reports whether the source has at least one event.
func (t *Table) HasSource(id SourceID) bool {
	_, ok := t.bySource[id]
	return ok
}

// TimeRange returns the earliest and latest event time. It returns (+Inf, -Inf) for an empty table.
func (t *Table) TimeRange() (float64, float64) {
	return t.minTime, t.maxTime
}

// Events returns the events of a source ordered by time.
func (t *Table) Events(id SourceID) []Event {
	s, ok := t.bySource[id]
	if !ok {
		return nil
	}
	return s.events
}

// Latest returns the event of source id with the greatest time inside w. When several events
// share that time, the first one in input order is returned.
func (t *Table) Latest(id SourceID, w window.IntervalWindow) (Event, bool) {
	s, ok := t.bySource[id]
	if !ok {
		return Event{}, false
	}
	j := sort.Search(len(s.times), func(i int) bool {
		return s.times[i] > w.End
	}) - 1
	if j < 0 || !w.Contains(s.times[j]) {
		return Event{}, false
	}
	for j > 0 && s.times[j-1] == s.times[j] {
		j--
	}
	return s.events[j], true
}
