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

// Package tfrecord writes feature vectors as tf.train.Example records in a TFRecord file.
package tfrecord

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/shared/util"
)

// Extension is appended to the output path unless it is already there.
const Extension = ".tfrecords"

// ToTFRecord writes one record per vector. The file only appears at its path once the sink is
// closed without a prior write error.
type ToTFRecord struct {
	name   string
	path   string
	file   *util.AtomicFile
	buf    *bufio.Writer
	rw     *RecordWriter
	count  int
	failed error
	logger *zap.SugaredLogger
}

type Option func(*ToTFRecord) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToTFRecord) error {
		t.logger = log
		return nil
	}
}

// OutputPath returns path with the tfrecord extension.
func OutputPath(path string) string {
	if strings.HasSuffix(path, Extension) {
		return path
	}
	return path + Extension
}

// NewToTFRecord returns ToTFRecord type writing to OutputPath(path).
func NewToTFRecord(path string, opts ...Option) (*ToTFRecord, error) {
	t := &ToTFRecord{name: "tfrecord", path: OutputPath(path)}
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
		return nil, featerr.Wrap(featerr.Sink, err, "failed to open tfrecord output")
	}
	t.file = f
	t.buf = bufio.NewWriterSize(f, 1<<20)
	t.rw = NewRecordWriter(t.buf)
	return t, nil
}

// GetName returns the name.
func (t *ToTFRecord) GetName() string {
	return t.name
}

// Path returns the file the records end up in.
func (t *ToTFRecord) Path() string {
	return t.path
}

// Write appends one record per vector.
func (t *ToTFRecord) Write(ctx context.Context, vectors [][]float64) error {
	if t.failed != nil {
		return t.failed
	}
	for i, vec := range vectors {
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				t.failed = err
				return err
			}
		}
		n, err := t.rw.WriteRecord(EncodeExample(vec))
		if err != nil {
			metrics.SinkWriteErrors.WithLabelValues(t.name, "io").Inc()
			t.failed = featerr.Wrap(featerr.Sink, err, fmt.Sprintf("failed to write record %d", t.count))
			return t.failed
		}
		tfrecordBytesWritten.Add(float64(n))
		t.count++
	}
	metrics.SinkWriteCount.WithLabelValues(t.name).Add(float64(len(vectors)))
	return nil
}

// Close flushes the records and moves the file into place, or drops it after a failed write.
func (t *ToTFRecord) Close() error {
	if t.failed != nil {
		t.file.Abort()
		return nil
	}
	if err := t.buf.Flush(); err != nil {
		t.file.Abort()
		return featerr.Wrap(featerr.Sink, err, "failed to flush tfrecord output")
	}
	if err := t.file.Commit(); err != nil {
		return featerr.Wrap(featerr.Sink, err, "failed to commit tfrecord output")
	}
	t.logger.Infow("TFRecord file written", zap.String("path", t.path), zap.Int("records", t.count))
	return nil
}
