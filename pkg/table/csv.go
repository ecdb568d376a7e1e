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

package table

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/shared/logging"
)

const (
	ColumnTime  = "Time"
	ColumnID    = "ID"
	ColumnLabel = "Label"
)

var signalColumn = regexp.MustCompile(`^Signal_(\d+)_of_ID$`)

// RowFilter decides whether a parsed row becomes part of the table.
type RowFilter interface {
	Keep(time float64, id string, fields []float64) (bool, error)
}

type loadOptions struct {
	filter RowFilter
}

type LoadOption func(*loadOptions)

// WithFilter drops every row the filter rejects.
func WithFilter(f RowFilter) LoadOption {
	return func(o *loadOptions) {
		o.filter = f
	}
}

// LoadCSVFile opens path and reads it with ReadCSV.
func LoadCSVFile(ctx context.Context, path string, opts ...LoadOption) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input table %q: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(ctx, f, opts...)
}

// ReadCSV reads an event table with a header row. Time and ID columns are required, signal
// columns are named Signal_<k>_of_ID for k = 1..N, other columns (e.g. Label) are ignored.
// An empty signal cell is a missing value.
func ReadCSV(ctx context.Context, r io.Reader, opts ...LoadOption) (*Table, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	log := logging.FromContext(ctx)

	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, featerr.New(featerr.Schema, "input table is empty")
		}
		return nil, featerr.Wrap(featerr.Schema, err, "failed to read csv header")
	}
	layout, err := parseHeader(header)
	if err != nil {
		return nil, err
	}

	var (
		events   []Event
		filtered int
		line     = 1
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, featerr.Wrap(featerr.Schema, err, fmt.Sprintf("line %d", line))
		}
		if line%100000 == 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			default:
			}
		}
		e, err := layout.parse(record)
		if err != nil {
			return nil, featerr.Wrap(featerr.Schema, err, fmt.Sprintf("line %d", line))
		}
		if o.filter != nil {
			keep, err := o.filter.Keep(e.Time, string(e.Source), e.Fields)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			if !keep {
				filtered++
				continue
			}
		}
		events = append(events, e)
	}
	log.Infow("Input table loaded", zap.Int("rows", len(events)), zap.Int("filtered", filtered), zap.Int("signalColumns", layout.numFields))
	return New(layout.numFields, events)
}

type csvLayout struct {
	timeIdx   int
	idIdx     int
	numFields int
	// signalIdx[k] is the csv column of Signal_<k+1>_of_ID.
	signalIdx []int
}

func parseHeader(header []string) (*csvLayout, error) {
	l := &csvLayout{timeIdx: -1, idIdx: -1}
	signals := make(map[int]int)
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch h {
		case ColumnTime:
			l.timeIdx = i
		case ColumnID:
			l.idIdx = i
		default:
			m := signalColumn.FindStringSubmatch(h)
			if m == nil {
				continue
			}
			k, _ := strconv.Atoi(m[1])
			if _, dup := signals[k]; dup || k < 1 {
				return nil, featerr.Newf(featerr.Schema, "invalid or duplicate signal column %q", h)
			}
			signals[k] = i
		}
	}
	if l.timeIdx < 0 {
		return nil, featerr.Newf(featerr.Schema, "missing required csv header: %s", ColumnTime)
	}
	if l.idIdx < 0 {
		return nil, featerr.Newf(featerr.Schema, "missing required csv header: %s", ColumnID)
	}
	l.numFields = len(signals)
	l.signalIdx = make([]int, l.numFields)
	for k := 1; k <= l.numFields; k++ {
		idx, ok := signals[k]
		if !ok {
			return nil, featerr.Newf(featerr.Schema, "signal columns are not contiguous, Signal_%d_of_ID is missing", k)
		}
		l.signalIdx[k-1] = idx
	}
	return l, nil
}

func (l *csvLayout) parse(record []string) (Event, error) {
	get := func(idx int) string {
		if idx < len(record) {
			return strings.TrimSpace(record[idx])
		}
		return ""
	}
	id := get(l.idIdx)
	if id == "" {
		return Event{}, fmt.Errorf("%s is empty", ColumnID)
	}
	ts, err := strconv.ParseFloat(get(l.timeIdx), 64)
	if err != nil {
		return Event{}, fmt.Errorf("invalid %s value %q", ColumnTime, get(l.timeIdx))
	}
	fields := make([]float64, l.numFields)
	for k, idx := range l.signalIdx {
		v := get(idx)
		if v == "" {
			fields[k] = math.NaN()
			continue
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Event{}, fmt.Errorf("invalid Signal_%d_of_ID value %q", k+1, v)
		}
		fields[k] = f
	}
	return Event{Time: ts, Source: SourceID(id), Fields: fields}, nil
}
