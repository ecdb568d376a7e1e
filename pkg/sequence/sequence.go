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

// Package sequence drives the extraction of a whole timeline into a sequence of normalized
// feature vectors.
package sequence

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/extract"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/scaler"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/window"
	"github.com/numaproj/canseq/pkg/window/strategy/fixed"
)

// Result is the output of a run.
type Result struct {
	// Vectors holds one normalized vector per clean window, in window order.
	Vectors [][]float64
	Width   int
	Clean   int
	Dirty   int
	// ForwardFills counts the source slots filled from the last known value.
	ForwardFills int
}

// Driver walks the windows of a timeline in increasing order.
type Driver struct {
	extractor *extract.Extractor
	scaler    *scaler.Scaler
	windower  *fixed.Fixed
	opts      *options
}

// NewDriver returns a Driver. The extractor must be fresh since its cache is part of the run.
func NewDriver(ex *extract.Extractor, sc *scaler.Scaler, windower *fixed.Fixed, opts ...Option) (*Driver, error) {
	o := defaultOptions()
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return &Driver{
		extractor: ex,
		scaler:    sc,
		windower:  windower,
		opts:      o,
	}, nil
}

// Run extracts every window tiling [minTime, maxTime]. Dirty windows are skipped. The run stops
// with the context's error when ctx is cancelled between two windows.
func (d *Driver) Run(ctx context.Context, minTime, maxTime float64) (*Result, error) {
	log := d.opts.logger
	if log == nil {
		log = logging.FromContext(ctx)
	}
	span := d.windower.Span(minTime, maxTime)
	res := &Result{Width: d.scaler.Width()}
	metrics.VectorWidth.WithLabelValues(d.opts.dataset).Set(float64(res.Width))
	log.Infow("Start extracting windows", zap.Int("windows", span.Len()), zap.Float64("length", d.windower.Length), zap.Int("width", res.Width))

	_, filledBefore, _ := d.extractor.Stats()
	for i := 0; i < span.Len(); i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		w := span.At(i)
		vec, clean, err := d.extractor.Advance(w)
		if err != nil {
			return nil, fmtWindowErr(w, err)
		}
		if !clean {
			res.Dirty++
		} else {
			if err := d.scaler.Scale(vec); err != nil {
				return nil, fmtWindowErr(w, err)
			}
			res.Vectors = append(res.Vectors, vec)
			res.Clean++
		}
		if d.opts.progressEvery > 0 && (i+1)%d.opts.progressEvery == 0 {
			log.Infow("Extraction progress", zap.Int("done", i+1), zap.Int("total", span.Len()), zap.Int("clean", res.Clean))
		}
	}
	_, filledAfter, _ := d.extractor.Stats()
	res.ForwardFills = filledAfter - filledBefore

	metrics.WindowsCount.WithLabelValues(d.opts.dataset, metrics.ResultClean).Add(float64(res.Clean))
	metrics.WindowsCount.WithLabelValues(d.opts.dataset, metrics.ResultDirty).Add(float64(res.Dirty))
	metrics.ForwardFillCount.WithLabelValues(d.opts.dataset).Add(float64(res.ForwardFills))

	if err := CheckFinite(res.Vectors); err != nil {
		return nil, err
	}
	log.Infow("Finished extracting windows", zap.Int("clean", res.Clean), zap.Int("dirty", res.Dirty), zap.Int("forwardFills", res.ForwardFills))
	return res, nil
}

// CheckFinite fails on the first NaN or infinite value of the sequence.
func CheckFinite(vectors [][]float64) error {
	for i, vec := range vectors {
		for j, v := range vec {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return featerr.Newf(featerr.Invariant, "vector %d holds %v at position %d", i, v, j)
			}
		}
	}
	return nil
}

func fmtWindowErr(w window.IntervalWindow, err error) error {
	return fmt.Errorf("window %s: %w", w, err)
}
