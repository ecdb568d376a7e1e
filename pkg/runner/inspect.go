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

package runner

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/numaproj/canseq/pkg/sinks/tfrecord"
)

// Inspection describes a TFRecord file of feature vectors.
type Inspection struct {
	Records int
	// Width is the width of the first record; every other record must match it.
	Width int
	// Head holds the first records, up to the requested count.
	Head [][]float32
}

// Inspect reads a TFRecord file written by the tfrecord sink, checking every checksum and
// that all vectors share one width.
func Inspect(path string, head int) (*Inspection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := tfrecord.NewRecordReader(bufio.NewReader(f))
	out := &Inspection{}
	for {
		rec, err := r.ReadRecord()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", out.Records, err)
		}
		vec, err := tfrecord.DecodeExample(rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", out.Records, err)
		}
		if out.Records == 0 {
			out.Width = len(vec)
		} else if len(vec) != out.Width {
			return nil, fmt.Errorf("record %d has width %d, want %d", out.Records, len(vec), out.Width)
		}
		if out.Records < head {
			out.Head = append(out.Head, vec)
		}
		out.Records++
	}
}
