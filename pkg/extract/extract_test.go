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

package extract

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/layout"
	"github.com/numaproj/canseq/pkg/table"
	"github.com/numaproj/canseq/pkg/window"
)

var nan = math.NaN()

func newExtractor(t *testing.T, tb *table.Table, sources []table.SourceID, counts []int, excluded catalog.ConstantSet) *Extractor {
	t.Helper()
	o, err := layout.FromCounts(counts)
	require.NoError(t, err)
	e, err := NewExtractor(tb, sources, o, excluded)
	require.NoError(t, err)
	return e
}

// win is the unit window ending at end.
func win(end float64) window.IntervalWindow {
	return window.IntervalWindow{Start: end - 1, End: end}
}

func TestExtractor_CleanWindow(t *testing.T) {
	tb, err := table.New(1, []table.Event{
		{Time: 1, Source: "A", Fields: []float64{5}},
		{Time: 1, Source: "B", Fields: []float64{3}},
	})
	require.NoError(t, err)
	e := newExtractor(t, tb, []table.SourceID{"A", "B"}, []int{1, 1}, nil)

	vec, clean, err := e.Advance(win(1))
	require.NoError(t, err)
	assert.True(t, clean)
	assert.Equal(t, []float64{5, 3}, vec)

	// nothing new in (1, 2], both sources repeat their last payload
	vec, clean, err = e.Advance(win(2))
	require.NoError(t, err)
	assert.True(t, clean)
	assert.Equal(t, []float64{5, 3}, vec)

	fresh, filled, absent := e.Stats()
	assert.Equal(t, 2, fresh)
	assert.Equal(t, 2, filled)
	assert.Equal(t, 0, absent)
}

func TestExtractor_DirtyWindowStillUpdatesCache(t *testing.T) {
	tb, err := table.New(1, []table.Event{
		{Time: 1, Source: "A", Fields: []float64{5}},
		{Time: 2, Source: "C", Fields: []float64{9}},
	})
	require.NoError(t, err)
	e := newExtractor(t, tb, []table.SourceID{"A", "C"}, []int{1, 1}, nil)

	_, clean, err := e.Advance(win(1))
	require.NoError(t, err)
	assert.False(t, clean)
	cached, ok := e.cache.Get("A")
	require.True(t, ok)
	assert.Equal(t, []float64{5}, cached)
	_, ok = e.cache.Get("C")
	assert.False(t, ok)

	vec, clean, err := e.Advance(win(2))
	require.NoError(t, err)
	assert.True(t, clean)
	assert.Equal(t, []float64{5, 9}, vec)
}

func TestExtractor_LatestAndTieBreak(t *testing.T) {
	tb, err := table.New(2, []table.Event{
		{Time: 0.2, Source: "A", Fields: []float64{1, 1}},
		{Time: 0.9, Source: "A", Fields: []float64{2, 2}},
		{Time: 0.9, Source: "A", Fields: []float64{3, 3}},
		{Time: 0.5, Source: "A", Fields: []float64{4, 4}},
		// outside the window
		{Time: 1.5, Source: "A", Fields: []float64{5, 5}},
	})
	require.NoError(t, err)
	e := newExtractor(t, tb, []table.SourceID{"A"}, []int{2}, nil)
	vec, clean, err := e.Advance(win(1))
	require.NoError(t, err)
	assert.True(t, clean)
	assert.Equal(t, []float64{2, 2}, vec)
}

func TestExtractor_LowerBoundExclusive(t *testing.T) {
	tb, err := table.New(1, []table.Event{
		{Time: 1, Source: "A", Fields: []float64{7}},
	})
	require.NoError(t, err)
	e := newExtractor(t, tb, []table.SourceID{"A"}, []int{1}, nil)
	_, clean, err := e.Advance(win(2))
	require.NoError(t, err)
	assert.False(t, clean)
}

func TestExtractor_DropsMissingAndExcluded(t *testing.T) {
	tb, err := table.New(4, []table.Event{
		{Time: 1, Source: "A", Fields: []float64{1, 2, 3, nan}},
		{Time: 1, Source: "B", Fields: []float64{8, nan, nan, nan}},
	})
	require.NoError(t, err)
	excluded := catalog.ConstantSet{"A": {2}}
	e := newExtractor(t, tb, []table.SourceID{"A", "B"}, []int{2, 1}, excluded)
	vec, clean, err := e.Advance(win(1))
	require.NoError(t, err)
	assert.True(t, clean)
	assert.Equal(t, []float64{1, 3, 8}, vec)
}

func TestExtractor_ZeroWidthSource(t *testing.T) {
	tb, err := table.New(1, []table.Event{
		{Time: 1, Source: "A", Fields: []float64{1}},
		{Time: 1, Source: "B", Fields: []float64{nan}},
	})
	require.NoError(t, err)
	e := newExtractor(t, tb, []table.SourceID{"A", "B"}, []int{1, 0}, nil)
	vec, clean, err := e.Advance(win(1))
	require.NoError(t, err)
	assert.True(t, clean)
	assert.Equal(t, []float64{1}, vec)
}

func TestExtractor_PayloadWidthMismatch(t *testing.T) {
	tb, err := table.New(2, []table.Event{
		{Time: 1, Source: "A", Fields: []float64{1, 2}},
	})
	require.NoError(t, err)
	e := newExtractor(t, tb, []table.SourceID{"A"}, []int{3}, nil)
	_, _, err = e.Advance(win(1))
	require.Error(t, err)
	assert.Equal(t, featerr.Schema, featerr.KindOf(err))
	assert.Contains(t, err.Error(), "source A")
}

func TestNewExtractor_Errors(t *testing.T) {
	tb, err := table.New(1, nil)
	require.NoError(t, err)
	o, err := layout.FromCounts([]int{1})
	require.NoError(t, err)
	_, err = NewExtractor(tb, []table.SourceID{"A", "B"}, o, nil)
	assert.Equal(t, featerr.Catalog, featerr.KindOf(err))
	_, err = NewExtractor(tb, []table.SourceID{"A"}, o, nil)
	require.Error(t, err)
	assert.Equal(t, featerr.Catalog, featerr.KindOf(err))
	assert.Contains(t, err.Error(), "source A has no events")
}

func TestCache(t *testing.T) {
	c := NewCache()
	payload := []float64{1, 2}
	c.Put("A", payload)
	payload[0] = 100
	v, ok := c.Get("A")
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2}, v)

	c.Put("A", []float64{3})
	v, _ = c.Get("A")
	assert.Equal(t, []float64{3}, v)
	assert.Equal(t, 1, c.Len())
}
