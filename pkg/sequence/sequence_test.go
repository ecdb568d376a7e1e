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

package sequence

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/extract"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/layout"
	"github.com/numaproj/canseq/pkg/scaler"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/table"
	"github.com/numaproj/canseq/pkg/window/strategy/fixed"
)

func newDriver(t *testing.T, events []table.Event, rf catalog.RangeFile) (*Driver, *table.Table) {
	t.Helper()
	tb, err := table.New(1, events)
	require.NoError(t, err)
	sources := tb.Sources()
	ranges := catalog.NewRanges(rf)
	require.NoError(t, ranges.Validate(sources))
	counts, err := ranges.FieldCounts(sources)
	require.NoError(t, err)
	offsets, err := layout.FromCounts(counts)
	require.NoError(t, err)
	bounds, err := ranges.Aligned(sources)
	require.NoError(t, err)
	sc, err := scaler.NewScaler(sources, offsets, bounds)
	require.NoError(t, err)
	ex, err := extract.NewExtractor(tb, sources, offsets, nil)
	require.NoError(t, err)
	f, err := fixed.NewFixed(1)
	require.NoError(t, err)
	d, err := NewDriver(ex, sc, f, WithDataset("test"), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return d, tb
}

func twoSources() catalog.RangeFile {
	return catalog.RangeFile{
		Mins: map[string][]float64{"A": {0}, "B": {0}},
		Maxs: map[string][]float64{"A": {10}, "B": {0}},
	}
}

func TestDriver_HoldAndDrop(t *testing.T) {
	tests := []struct {
		name   string
		events []table.Event
		rf     catalog.RangeFile
		clean  int
		dirty  int
		want   [][]float64
	}{
		{
			name: "clean then held",
			events: []table.Event{
				{Time: 1, Source: "A", Fields: []float64{5}},
				{Time: 1, Source: "B", Fields: []float64{3}},
			},
			rf:    twoSources(),
			clean: 2,
			want:  [][]float64{{0.5, 1}, {0.5, 1}},
		},
		{
			name: "new source drops the first window",
			events: []table.Event{
				{Time: 1, Source: "A", Fields: []float64{5}},
				{Time: 1, Source: "B", Fields: []float64{3}},
				{Time: 2, Source: "C", Fields: []float64{4}},
			},
			rf: catalog.RangeFile{
				Mins: map[string][]float64{"A": {0}, "B": {0}, "C": {0}},
				Maxs: map[string][]float64{"A": {10}, "B": {0}, "C": {8}},
			},
			clean: 1,
			dirty: 1,
			want:  [][]float64{{0.5, 1, 0.5}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, _ := newDriver(t, tt.events, tt.rf)
			// the timeline opens at 0 so the window (0, 1] holds the events at t=1
			res, err := d.Run(context.Background(), 0, 1)
			require.NoError(t, err)
			assert.Equal(t, tt.clean, res.Clean)
			assert.Equal(t, tt.dirty, res.Dirty)
			assert.Equal(t, tt.want, res.Vectors)
		})
	}
}

func TestDriver_ForwardFill(t *testing.T) {
	d, tb := newDriver(t, []table.Event{
		{Time: 0, Source: "A", Fields: []float64{2}},
		{Time: 0.5, Source: "B", Fields: []float64{3}},
		{Time: 1, Source: "A", Fields: []float64{5}},
		{Time: 2.5, Source: "A", Fields: []float64{10}},
	}, twoSources())
	lo, hi := tb.TimeRange()
	res, err := d.Run(context.Background(), lo, hi)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Width)
	assert.Equal(t, 3, res.Clean)
	assert.Equal(t, 0, res.Dirty)
	assert.Equal(t, 3, res.ForwardFills)
	assert.Equal(t, [][]float64{
		{0.5, 1},
		{0.5, 1},
		{1, 1},
	}, res.Vectors)
}

func TestDriver_DropsWindowsWithUnseenSource(t *testing.T) {
	rf := twoSources()
	rf.Mins["C"] = []float64{0}
	rf.Maxs["C"] = []float64{2}
	d, tb := newDriver(t, []table.Event{
		{Time: 0, Source: "A", Fields: []float64{2}},
		{Time: 0.5, Source: "B", Fields: []float64{3}},
		{Time: 1, Source: "A", Fields: []float64{5}},
		{Time: 2.2, Source: "C", Fields: []float64{1}},
		{Time: 2.5, Source: "A", Fields: []float64{10}},
	}, rf)
	lo, hi := tb.TimeRange()
	res, err := d.Run(context.Background(), lo, hi)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Clean)
	assert.Equal(t, 2, res.Dirty)
	assert.Equal(t, [][]float64{{1, 1, 0.5}}, res.Vectors)
	for _, vec := range res.Vectors {
		assert.Len(t, vec, res.Width)
	}
}

func TestDriver_OutOfRange(t *testing.T) {
	d, tb := newDriver(t, []table.Event{
		{Time: 0, Source: "A", Fields: []float64{0}},
		{Time: 1, Source: "A", Fields: []float64{20}},
		{Time: 1, Source: "B", Fields: []float64{0}},
	}, twoSources())
	lo, hi := tb.TimeRange()
	_, err := d.Run(context.Background(), lo, hi)
	require.Error(t, err)
	assert.Equal(t, featerr.Invariant, featerr.KindOf(err))
	assert.Contains(t, err.Error(), "window #0 (0, 1]")
}

func TestDriver_Cancelled(t *testing.T) {
	d, tb := newDriver(t, []table.Event{
		{Time: 0, Source: "A", Fields: []float64{0}},
		{Time: 5, Source: "A", Fields: []float64{1}},
		{Time: 5, Source: "B", Fields: []float64{0}},
	}, twoSources())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	lo, hi := tb.TimeRange()
	_, err := d.Run(ctx, lo, hi)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDriver_EmptyTable(t *testing.T) {
	d, tb := newDriver(t, nil, catalog.RangeFile{Mins: map[string][]float64{}, Maxs: map[string][]float64{}})
	lo, hi := tb.TimeRange()
	res, err := d.Run(context.Background(), lo, hi)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Clean)
	assert.Empty(t, res.Vectors)
}

func TestCheckFinite(t *testing.T) {
	assert.NoError(t, CheckFinite([][]float64{{0, 1}, {0.5, 0.25}}))
	err := CheckFinite([][]float64{{0, 1}, {math.Inf(1), 0}})
	require.Error(t, err)
	assert.Equal(t, featerr.Invariant, featerr.KindOf(err))
	assert.Contains(t, err.Error(), "vector 1")
	assert.Error(t, CheckFinite([][]float64{{math.NaN()}}))
}

func TestSummarize(t *testing.T) {
	s, err := Summarize([][]float64{{0, 1}, {0.5, 0.5}})
	require.NoError(t, err)
	assert.InDelta(t, 0.5, s.Mean, 1e-12)
	assert.InDelta(t, 0.5, s.Median, 1e-12)
	assert.Equal(t, 0.0, s.Min)
	assert.Equal(t, 1.0, s.Max)
	assert.InDelta(t, 0.5, s.Saturated, 1e-12)

	s, err = Summarize(nil)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, s)
}
