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

package tfrecord

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
)

var castagnoli = crc32.MakeTable(crc32.Castagnoli)

func maskedCRC(b []byte) uint32 {
	c := crc32.Checksum(b, castagnoli)
	return ((c >> 15) | (c << 17)) + 0xa282ead8
}

// RecordWriter frames records in the TFRecord container format:
// uint64 length, uint32 masked crc of length, data, uint32 masked crc of data, little endian.
type RecordWriter struct {
	w   io.Writer
	hdr [12]byte
	ftr [4]byte
}

// NewRecordWriter returns a RecordWriter on w.
func NewRecordWriter(w io.Writer) *RecordWriter {
	return &RecordWriter{w: w}
}

// WriteRecord writes one framed record and returns the number of bytes written.
func (rw *RecordWriter) WriteRecord(data []byte) (int, error) {
	binary.LittleEndian.PutUint64(rw.hdr[:8], uint64(len(data)))
	binary.LittleEndian.PutUint32(rw.hdr[8:], maskedCRC(rw.hdr[:8]))
	binary.LittleEndian.PutUint32(rw.ftr[:], maskedCRC(data))
	total := 0
	for _, b := range [][]byte{rw.hdr[:], data, rw.ftr[:]} {
		n, err := rw.w.Write(b)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// RecordReader reads records framed by a RecordWriter and checks both checksums.
type RecordReader struct {
	r   io.Reader
	hdr [12]byte
	ftr [4]byte
}

// NewRecordReader returns a RecordReader on r.
func NewRecordReader(r io.Reader) *RecordReader {
	return &RecordReader{r: r}
}

// ReadRecord returns the next record, or io.EOF when the stream ends on a record boundary.
func (rr *RecordReader) ReadRecord() ([]byte, error) {
	if _, err := io.ReadFull(rr.r, rr.hdr[:]); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("truncated record header: %w", err)
	}
	if got, want := binary.LittleEndian.Uint32(rr.hdr[8:]), maskedCRC(rr.hdr[:8]); got != want {
		return nil, fmt.Errorf("corrupted record length, crc %#x want %#x", got, want)
	}
	n := binary.LittleEndian.Uint64(rr.hdr[:8])
	data := make([]byte, n)
	if _, err := io.ReadFull(rr.r, data); err != nil {
		return nil, fmt.Errorf("truncated record of %d bytes: %w", n, err)
	}
	if _, err := io.ReadFull(rr.r, rr.ftr[:]); err != nil {
		return nil, fmt.Errorf("truncated record footer: %w", err)
	}
	if got, want := binary.LittleEndian.Uint32(rr.ftr[:]), maskedCRC(data); got != want {
		return nil, fmt.Errorf("corrupted record data, crc %#x want %#x", got, want)
	}
	return data, nil
}
