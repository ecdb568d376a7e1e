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

// Package runner wires the loading, windowing, scaling and output of a run.
package runner

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/config"
	"github.com/numaproj/canseq/pkg/constants"
	"github.com/numaproj/canseq/pkg/extract"
	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/layout"
	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/scaler"
	"github.com/numaproj/canseq/pkg/sequence"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/sinks"
	"github.com/numaproj/canseq/pkg/table"
	"github.com/numaproj/canseq/pkg/window/strategy/fixed"
)

// Report sums up an extraction run.
type Report struct {
	// Width is the number of signals of every vector.
	Width int
	// Clean and Dirty count the kept and dropped windows.
	Clean int
	Dirty int
	// ConstantSignals counts the constant signals, excluded or not.
	ConstantSignals int
	// Excluded tells whether constant signals were left out of the vectors.
	Excluded bool
	// ConstantsFile is the derived constant signal file, when one was written.
	ConstantsFile string
	Summary       sequence.Summary
}

// ExtractProcessor runs a full extraction.
type ExtractProcessor struct {
	Config *config.RunConfig
	// NewSinker builds the output sink. It defaults to sinks.NewSinker.
	NewSinker func(ctx context.Context, spec sinks.Spec) (sinks.Sinker, error)
}

// Start runs the extraction. Nothing is written when an error is returned.
func (p *ExtractProcessor) Start(ctx context.Context) (*Report, error) {
	cfg := p.Config
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	log := logging.FromContext(ctx)

	in, err := loadInputs(ctx, cfg.InFile, cfg.RowFilter(), cfg.MinMaxFile, cfg.ConstantSignalFile)
	if err != nil {
		return nil, err
	}
	sources := in.table.Sources()
	if err := in.ranges.Validate(sources); err != nil {
		return nil, err
	}

	report := &Report{Excluded: cfg.ExcludeConstantSignals}
	var excluded catalog.ConstantSet
	switch {
	case cfg.ExcludeConstantSignals && in.constants != nil:
		if excluded, err = in.constants.Set(sources); err != nil {
			return nil, err
		}
		report.ConstantSignals = excluded.Total()
	case cfg.ExcludeConstantSignals:
		excluded = constants.DetectAll(in.table, sources)
		report.ConstantSignals = excluded.Total()
	default:
		report.ConstantSignals = constants.CountAll(in.table, sources)
	}
	metrics.ConstantSignals.WithLabelValues(cfg.Dataset).Set(float64(report.ConstantSignals))

	offsets, err := buildOffsets(in, sources)
	if err != nil {
		return nil, err
	}
	bounds, err := in.ranges.Aligned(sources)
	if err != nil {
		return nil, err
	}
	sc, err := scaler.NewScaler(sources, offsets, bounds)
	if err != nil {
		return nil, err
	}
	ex, err := extract.NewExtractor(in.table, sources, offsets, excluded)
	if err != nil {
		return nil, err
	}
	windower, err := fixed.NewFixed(cfg.TimeSteps)
	if err != nil {
		return nil, err
	}
	driver, err := sequence.NewDriver(ex, sc, windower, sequence.WithDataset(cfg.Dataset), sequence.WithLogger(log))
	if err != nil {
		return nil, err
	}
	minTime, maxTime := in.table.TimeRange()
	res, err := driver.Run(ctx, minTime, maxTime)
	if err != nil {
		return nil, err
	}
	report.Width, report.Clean, report.Dirty = res.Width, res.Clean, res.Dirty
	if report.Summary, err = sequence.Summarize(res.Vectors); err != nil {
		return nil, err
	}

	newSinker := p.NewSinker
	if newSinker == nil {
		newSinker = sinks.NewSinker
	}
	sink, err := newSinker(ctx, sinks.Spec{
		Type:         sinks.Type(cfg.Sink),
		OutFile:      cfg.OutFile,
		Width:        res.Width,
		KafkaBrokers: cfg.KafkaBrokers,
		KafkaTopic:   cfg.KafkaTopic,
		KafkaConfig:  cfg.KafkaConfig,
	})
	if err != nil {
		return nil, err
	}
	if err := sinks.WriteAll(ctx, sink, res.Vectors); err != nil {
		return nil, err
	}

	if cfg.ExcludeConstantSignals && cfg.ConstantsOut != "" {
		f := catalog.NewConstantFile(excluded, offsets.Offsets())
		if err := catalog.WriteConstantFile(cfg.ConstantsOut, f); err != nil {
			return nil, featerr.Wrap(featerr.Sink, err, "failed to write constant signal file")
		}
		report.ConstantsFile = cfg.ConstantsOut
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			log.Warnw("Failed to write metrics", zap.Error(err))
		}
	}
	log.Infow("Extraction done", zap.Int("signals", report.Width), zap.Int("vectors", report.Clean),
		zap.Int("dropped", report.Dirty), zap.Int("constantSignals", report.ConstantSignals),
		zap.Float64("mean", report.Summary.Mean), zap.Float64("saturated", report.Summary.Saturated))
	return report, nil
}

// buildOffsets lays out the vector. A supplied constant signal file brings its own offsets,
// which must agree with the range catalog.
func buildOffsets(in *inputs, sources []table.SourceID) (*layout.Offsets, error) {
	counts, err := in.ranges.FieldCounts(sources)
	if err != nil {
		return nil, err
	}
	if in.constants == nil {
		return layout.FromCounts(counts)
	}
	offsets, err := layout.FromOffsets(in.constants.Offsets, len(sources))
	if err != nil {
		return nil, err
	}
	for i, id := range sources {
		if offsets.Count(i) != counts[i] {
			return nil, featerr.Newf(featerr.Catalog, "constant signal file gives source %s %d fields but the range file has %d", id, offsets.Count(i), counts[i])
		}
	}
	return offsets, nil
}

// Lines returns the human readable result of the run.
func (r *Report) Lines() []string {
	lines := []string{fmt.Sprintf("number of signals: %d", r.Width)}
	if r.Excluded {
		lines = append(lines, fmt.Sprintf("number of constant signals excluded: %d", r.ConstantSignals))
	} else {
		lines = append(lines, fmt.Sprintf("number of constant signals: %d", r.ConstantSignals))
	}
	lines = append(lines, fmt.Sprintf("number of vectors: %d (%d windows dropped)", r.Clean, r.Dirty))
	if r.Clean > 0 && !math.IsNaN(r.Summary.Mean) {
		lines = append(lines, fmt.Sprintf("mean scaled value: %.4f", r.Summary.Mean))
	}
	if r.ConstantsFile != "" {
		lines = append(lines, fmt.Sprintf("constant signals written to %s", r.ConstantsFile))
	}
	return lines
}
