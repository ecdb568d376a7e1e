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

// Package sinks persists the output sequence, one independent record per feature vector.
package sinks

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/sinks/blackhole"
	kafkasink "github.com/numaproj/canseq/pkg/sinks/kafka"
	logsink "github.com/numaproj/canseq/pkg/sinks/logger"
	parquetsink "github.com/numaproj/canseq/pkg/sinks/parquet"
	"github.com/numaproj/canseq/pkg/sinks/tfrecord"
)

// Sinker is the interface a sink implements. Write may be called several times and keeps
// vector order. Close makes the output durable; file sinks drop their output when a Write failed.
type Sinker interface {
	GetName() string
	Write(ctx context.Context, vectors [][]float64) error
	Close() error
}

// Type is a sink kind.
type Type string

const (
	TypeTFRecord  Type = "tfrecord"
	TypeParquet   Type = "parquet"
	TypeKafka     Type = "kafka"
	TypeLog       Type = "log"
	TypeBlackhole Type = "blackhole"
)

// Types lists every supported sink kind.
var Types = []Type{TypeTFRecord, TypeParquet, TypeKafka, TypeLog, TypeBlackhole}

// Valid reports whether t names a supported sink.
func (t Type) Valid() bool {
	for _, x := range Types {
		if t == x {
			return true
		}
	}
	return false
}

// Spec describes the sink of a run.
type Spec struct {
	Type Type
	// OutFile is the output path without extension, for file sinks
	OutFile string
	// Width is the vector width, needed by sinks with a fixed schema
	Width        int
	KafkaBrokers []string
	KafkaTopic   string
	KafkaConfig  string
}

// NewSinker builds the sink described by spec, with the logger of ctx.
func NewSinker(ctx context.Context, spec Spec) (Sinker, error) {
	log := logging.FromContext(ctx)
	switch spec.Type {
	case TypeTFRecord:
		return tfrecord.NewToTFRecord(spec.OutFile, tfrecord.WithLogger(log))
	case TypeParquet:
		return parquetsink.NewToParquet(spec.OutFile, spec.Width, parquetsink.WithLogger(log))
	case TypeKafka:
		return kafkasink.NewToKafka(spec.KafkaBrokers, spec.KafkaTopic, kafkasink.WithLogger(log), kafkasink.WithConfigFile(spec.KafkaConfig))
	case TypeLog:
		return logsink.NewToLog(logsink.WithLogger(log))
	case TypeBlackhole:
		return blackhole.NewBlackhole(ctx), nil
	}
	return nil, featerr.Newf(featerr.Sink, "unknown sink %q", spec.Type)
}

// WriteAll writes vectors to s and closes it.
func WriteAll(ctx context.Context, s Sinker, vectors [][]float64) error {
	log := logging.FromContext(ctx)
	log.Infow("Writing output sequence", zap.String("sink", s.GetName()), zap.Int("vectors", len(vectors)))
	if err := s.Write(ctx, vectors); err != nil {
		_ = s.Close()
		return fmt.Errorf("%s sink: %w", s.GetName(), err)
	}
	if err := s.Close(); err != nil {
		return fmt.Errorf("%s sink: %w", s.GetName(), err)
	}
	return nil
}
