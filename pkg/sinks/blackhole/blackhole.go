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

package blackhole

import (
	"context"

	"go.uber.org/atomic"
	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/shared/logging"
)

// Blackhole is a sink to emulate /dev/null
type Blackhole struct {
	name   string
	count  *atomic.Int64
	logger *zap.SugaredLogger
}

// NewBlackhole returns a new Blackhole sink.
func NewBlackhole(ctx context.Context) *Blackhole {
	return &Blackhole{
		name:   "blackhole",
		count:  atomic.NewInt64(0),
		logger: logging.FromContext(ctx),
	}
}

// GetName returns the name.
func (b *Blackhole) GetName() string {
	return b.name
}

// Write writes to the blackhole.
func (b *Blackhole) Write(_ context.Context, vectors [][]float64) error {
	metrics.SinkWriteCount.WithLabelValues(b.name).Add(float64(len(vectors)))
	b.count.Add(int64(len(vectors)))
	return nil
}

// Count returns the number of vectors discarded so far. It is safe to call while writing.
func (b *Blackhole) Count() int {
	return int(b.count.Load())
}

func (b *Blackhole) Close() error {
	b.logger.Infow("Blackhole discarded vectors", zap.Int64("count", b.count.Load()))
	return nil
}
