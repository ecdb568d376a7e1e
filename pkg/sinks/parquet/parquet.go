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

// Package parquet writes feature vectors as rows of a Parquet file with a single
// list<float32> column. Every row of a file has the same length, recorded in the schema
// metadata under WidthKey.
package parquet

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/memory"
	"github.com/apache/arrow/go/v17/parquet"
	"github.com/apache/arrow/go/v17/parquet/compress"
	"github.com/apache/arrow/go/v17/parquet/pqarrow"
	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/shared/util"
)

const (
	// Extension is appended to the output path unless it is already there.
	Extension = ".parquet"
	// Column is the name of the vector column.
	Column = "S"
	// WidthKey is the schema metadata key holding the vector width.
	WidthKey = "canseq.width"
)

// ToParquet writes one row per vector. Every Write call becomes one row group.
type ToParquet struct {
	name      string
	path      string
	width     int
	schema    *arrow.Schema
	allocator memory.Allocator
	file      *util.AtomicFile
	buf       *bufio.Writer
	writer    *pqarrow.FileWriter
	rows      int
	failed    error
	logger    *zap.SugaredLogger
}

type Option func(*ToParquet) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToParquet) error {
		t.logger = log
		return nil
	}
}

// WithAllocator sets the arrow memory allocator used to build record batches
func WithAllocator(mem memory.Allocator) Option {
	return func(t *ToParquet) error {
		t.allocator = mem
		return nil
	}
}

// OutputPath returns path with the parquet extension.
func OutputPath(path string) string {
	if strings.HasSuffix(path, Extension) {
		return path
	}
	return path + Extension
}

// Schema returns the arrow schema of a file holding vectors of the given width.
func Schema(width int) *arrow.Schema {
	md := arrow.NewMetadata([]string{WidthKey}, []string{fmt.Sprint(width)})
	return arrow.NewSchema([]arrow.Field{
		{Name: Column, Type: arrow.ListOf(arrow.PrimitiveTypes.Float32)},
	}, &md)
}

// NewToParquet returns ToParquet type writing vectors of the given width to OutputPath(path).
func NewToParquet(path string, width int, opts ...Option) (*ToParquet, error) {
	t := &ToParquet{
		name:      "parquet",
		path:      OutputPath(path),
		width:     width,
		schema:    Schema(width),
		allocator: memory.DefaultAllocator,
	}
	for _, o := range opts {
		if err := o(t); err != nil {
			return nil, err
		}
	}
	if t.logger == nil {
		t.logger = logging.NewLogger()
	}
	f, err := util.CreateAtomic(t.path)
	if err != nil {
		return nil, featerr.Wrap(featerr.Sink, err, "failed to open parquet output")
	}
	props := parquet.NewWriterProperties(
		parquet.WithDictionaryDefault(false),
		parquet.WithCompression(compress.Codecs.Snappy),
		parquet.WithCreatedBy("canseq"),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(pqarrow.WithStoreSchema())
	// the parquet writer closes its sink, the buffer keeps the file open for the commit
	buf := bufio.NewWriterSize(f, 1<<20)
	w, err := pqarrow.NewFileWriter(t.schema, buf, props, arrowProps)
	if err != nil {
		f.Abort()
		return nil, featerr.Wrap(featerr.Sink, err, "failed to create parquet writer")
	}
	t.file, t.buf, t.writer = f, buf, w
	return t, nil
}

// GetName returns the name.
func (t *ToParquet) GetName() string {
	return t.name
}

// Path returns the file the rows end up in.
func (t *ToParquet) Path() string {
	return t.path
}

// Write appends vectors as one row group.
func (t *ToParquet) Write(ctx context.Context, vectors [][]float64) error {
	if t.failed != nil {
		return t.failed
	}
	if err := ctx.Err(); err != nil {
		t.failed = err
		return err
	}
	if len(vectors) == 0 {
		return nil
	}
	rec, err := t.record(vectors)
	if err != nil {
		metrics.SinkWriteErrors.WithLabelValues(t.name, "width").Inc()
		t.failed = err
		return err
	}
	defer rec.Release()
	if err := t.writer.Write(rec); err != nil {
		metrics.SinkWriteErrors.WithLabelValues(t.name, "io").Inc()
		t.failed = featerr.Wrap(featerr.Sink, err, "failed to write parquet row group")
		return t.failed
	}
	t.rows += len(vectors)
	metrics.SinkWriteCount.WithLabelValues(t.name).Add(float64(len(vectors)))
	return nil
}

func (t *ToParquet) record(vectors [][]float64) (arrow.Record, error) {
	b := array.NewListBuilder(t.allocator, arrow.PrimitiveTypes.Float32)
	defer b.Release()
	values := b.ValueBuilder().(*array.Float32Builder)
	b.Reserve(len(vectors))
	values.Reserve(len(vectors) * t.width)
	for i, vec := range vectors {
		if len(vec) != t.width {
			return nil, featerr.Newf(featerr.Sink, "vector %d has width %d, want %d", t.rows+i, len(vec), t.width)
		}
		b.Append(true)
		for _, v := range vec {
			values.Append(float32(v))
		}
	}
	col := b.NewArray()
	defer col.Release()
	return array.NewRecord(t.schema, []arrow.Array{col}, int64(len(vectors))), nil
}

// Close writes the footer and moves the file into place, or drops it after a failed write.
func (t *ToParquet) Close() error {
	if t.failed != nil {
		_ = t.writer.Close()
		t.file.Abort()
		return nil
	}
	if err := t.writer.Close(); err != nil {
		t.file.Abort()
		return featerr.Wrap(featerr.Sink, err, "failed to close parquet writer")
	}
	if err := t.buf.Flush(); err != nil {
		t.file.Abort()
		return featerr.Wrap(featerr.Sink, err, "failed to flush parquet output")
	}
	if err := t.file.Commit(); err != nil {
		return featerr.Wrap(featerr.Sink, err, "failed to commit parquet output")
	}
	t.logger.Infow("Parquet file written", zap.String("path", t.path), zap.Int("rows", t.rows), zap.String("column", fmt.Sprintf("%s %s", Column, t.schema.Field(0).Type)))
	return nil
}
