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
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/numaproj/canseq/pkg/shared/logging"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestMaskedCRC(t *testing.T) {
	assert.Equal(t, uint32(0xc78ab0e5), maskedCRC([]byte("123456789")))
}

func TestEncodeExample(t *testing.T) {
	want := []byte{
		0x0a, 0x0f, // Example.features
		0x0a, 0x0d, // Features.feature map entry
		0x0a, 0x01, 'S', // key
		0x12, 0x08, // value Feature
		0x12, 0x06, // Feature.float_list
		0x0a, 0x04, 0x00, 0x00, 0x80, 0x3f, // FloatList.value packed
	}
	assert.Equal(t, want, EncodeExample([]float64{1}))

	got, err := DecodeExample(EncodeExample([]float64{0, 0.25, 1}))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0.25, 1}, got)

	empty, err := DecodeExample(EncodeExample(nil))
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDecodeExample_Errors(t *testing.T) {
	_, err := DecodeExample([]byte{0x0a, 0x05, 0x01})
	assert.Error(t, err)
	_, err = DecodeExample(nil)
	assert.Error(t, err)
}

func TestRecordFraming(t *testing.T) {
	var buf bytes.Buffer
	w := NewRecordWriter(&buf)
	n, err := w.WriteRecord([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 8+4+5+4, n)
	_, err = w.WriteRecord(nil)
	require.NoError(t, err)

	raw := append([]byte(nil), buf.Bytes()...)
	r := NewRecordReader(&buf)
	rec, err := r.ReadRecord()
	require.NoError(t, err)
	assert.Equal(t, "hello", string(rec))
	rec, err = r.ReadRecord()
	require.NoError(t, err)
	assert.Empty(t, rec)
	_, err = r.ReadRecord()
	assert.Equal(t, io.EOF, err)

	t.Run("corrupted data", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		bad[12] ^= 0xff
		_, err := NewRecordReader(bytes.NewReader(bad)).ReadRecord()
		assert.ErrorContains(t, err, "corrupted record data")
	})
	t.Run("corrupted length", func(t *testing.T) {
		bad := append([]byte(nil), raw...)
		bad[0] ^= 0x01
		_, err := NewRecordReader(bytes.NewReader(bad)).ReadRecord()
		assert.ErrorContains(t, err, "corrupted record length")
	})
	t.Run("truncated", func(t *testing.T) {
		_, err := NewRecordReader(bytes.NewReader(raw[:15])).ReadRecord()
		assert.ErrorContains(t, err, "truncated")
	})
}

func TestToTFRecord(t *testing.T) {
	out := filepath.Join(t.TempDir(), "seq")
	s, err := NewToTFRecord(out, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.Equal(t, "tfrecord", s.GetName())
	assert.Equal(t, out+Extension, s.Path())

	vectors := [][]float64{{0, 1}, {0.5, 0.5}, {1, 0}}
	require.NoError(t, s.Write(context.Background(), vectors[:2]))
	require.NoError(t, s.Write(context.Background(), vectors[2:]))
	_, err = os.Stat(s.Path())
	assert.True(t, os.IsNotExist(err), "file must not appear before close")
	require.NoError(t, s.Close())

	f, err := os.Open(s.Path())
	require.NoError(t, err)
	defer f.Close()
	r := NewRecordReader(f)
	var got [][]float32
	for {
		rec, err := r.ReadRecord()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		vec, err := DecodeExample(rec)
		require.NoError(t, err)
		got = append(got, vec)
	}
	assert.Equal(t, [][]float32{{0, 1}, {0.5, 0.5}, {1, 0}}, got)
}

func TestToTFRecord_CancelledWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	s, err := NewToTFRecord(filepath.Join(dir, "seq.tfrecords"), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "seq.tfrecords"), s.Path())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, s.Write(ctx, [][]float64{{1}}), context.Canceled)
	assert.Error(t, s.Write(context.Background(), [][]float64{{1}}))
	require.NoError(t, s.Close())
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
