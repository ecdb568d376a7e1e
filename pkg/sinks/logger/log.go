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

package logger

import (
	"context"

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/shared/logging"
)

// ToLog prints the output to a log sinks.
type ToLog struct {
	name   string
	count  int
	logger *zap.SugaredLogger
}

type Option func(*ToLog) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToLog) error {
		t.logger = log
		return nil
	}
}

// NewToLog returns ToLog type.
func NewToLog(opts ...Option) (*ToLog, error) {
	toLog := &ToLog{name: "log"}
	for _, o := range opts {
		if err := o(toLog); err != nil {
			return nil, err
		}
	}
	if toLog.logger == nil {
		toLog.logger = logging.NewLogger()
	}
	toLog.logger = toLog.logger.Named("sink")
	return toLog, nil
}

// GetName returns the name.
func (t *ToLog) GetName() string {
	return t.name
}

// Write writes to the log.
func (t *ToLog) Write(ctx context.Context, vectors [][]float64) error {
	for _, vec := range vectors {
		if err := ctx.Err(); err != nil {
			return err
		}
		t.logger.Infow("Vector", zap.Int("index", t.count), zap.Float64s("values", vec))
		t.count++
		metrics.SinkWriteCount.WithLabelValues(t.name).Inc()
	}
	return nil
}

func (t *ToLog) Close() error {
	return nil
}
