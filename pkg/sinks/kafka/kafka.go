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

package kafka

import (
	"context"
	"errors"
	"fmt"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/shared/util"
	"github.com/numaproj/canseq/pkg/sinks/tfrecord"
)

const defaultBatchSize = 500

// ToKafka produces one message per vector to a kafka topic. The message value is the serialized
// tf.train.Example of the vector and the key is its zero-padded position in the sequence.
type ToKafka struct {
	name      string
	producer  sarama.SyncProducer
	brokers   []string
	topic     string
	config    string
	batchSize int
	sent      int
	log       *zap.SugaredLogger
}

type Option func(*ToKafka) error

func WithLogger(log *zap.SugaredLogger) Option {
	return func(t *ToKafka) error {
		t.log = log
		return nil
	}
}

// WithProducer uses an existing producer instead of connecting to the brokers
func WithProducer(p sarama.SyncProducer) Option {
	return func(t *ToKafka) error {
		t.producer = p
		return nil
	}
}

// WithConfigFile reads the sarama config from a yaml file
func WithConfigFile(path string) Option {
	return func(t *ToKafka) error {
		t.config = path
		return nil
	}
}

// WithBatchSize sets how many messages go into one SendMessages call
func WithBatchSize(n int) Option {
	return func(t *ToKafka) error {
		if n <= 0 {
			return fmt.Errorf("batch size must be positive, got %d", n)
		}
		t.batchSize = n
		return nil
	}
}

// NewToKafka returns ToKafka type.
func NewToKafka(brokers []string, topic string, opts ...Option) (*ToKafka, error) {
	toKafka := &ToKafka{
		name:      "kafka",
		brokers:   brokers,
		topic:     topic,
		batchSize: defaultBatchSize,
	}
	//apply options for kafka sink
	for _, o := range opts {
		if err := o(toKafka); err != nil {
			return nil, err
		}
	}
	if topic == "" {
		return nil, featerr.New(featerr.Sink, "kafka sink needs a topic")
	}

	//set default logger
	if toKafka.log == nil {
		toKafka.log = logging.NewLogger()
	}
	toKafka.log = toKafka.log.With("sinkType", "kafka").With("topic", topic)
	if toKafka.producer != nil {
		return toKafka, nil
	}
	if len(brokers) == 0 {
		return nil, featerr.New(featerr.Sink, "kafka sink needs at least one broker")
	}
	config, err := util.LoadProducerConfig(toKafka.config)
	if err != nil {
		return nil, featerr.Wrap(featerr.Sink, err, "invalid kafka config")
	}
	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, featerr.Wrap(featerr.Sink, err, "failed to create kafka producer")
	}
	toKafka.producer = producer
	return toKafka, nil
}

// GetName returns the name.
func (tk *ToKafka) GetName() string {
	return tk.name
}

// Write sends the vectors in order, batch by batch. It stops at the first failed batch.
func (tk *ToKafka) Write(ctx context.Context, vectors [][]float64) error {
	for start := 0; start < len(vectors); start += tk.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		end := start + tk.batchSize
		if end > len(vectors) {
			end = len(vectors)
		}
		msgs := make([]*sarama.ProducerMessage, 0, end-start)
		for _, vec := range vectors[start:end] {
			msgs = append(msgs, &sarama.ProducerMessage{
				Topic: tk.topic,
				Key:   sarama.StringEncoder(fmt.Sprintf("%012d", tk.sent+len(msgs))),
				Value: sarama.ByteEncoder(tfrecord.EncodeExample(vec)),
			})
		}
		if err := tk.producer.SendMessages(msgs); err != nil {
			failed, timeout := len(msgs), errors.Is(err, sarama.ErrRequestTimedOut)
			var perrs sarama.ProducerErrors
			if errors.As(err, &perrs) {
				failed, timeout = len(perrs), isTimeout(perrs)
			}
			if timeout {
				kafkaSinkWriteTimeouts.Inc()
			}
			metrics.SinkWriteErrors.WithLabelValues(tk.name, "produce").Add(float64(failed))
			tk.log.Errorw("SendMessages failed", zap.Error(err), zap.Int("batchStart", tk.sent), zap.Int("failed", failed))
			return featerr.Wrap(featerr.Sink, err, fmt.Sprintf("failed to produce %d of %d messages", failed, len(msgs)))
		}
		tk.sent += len(msgs)
		kafkaSinkBatches.Inc()
		metrics.SinkWriteCount.WithLabelValues(tk.name).Add(float64(len(msgs)))
	}
	return nil
}

func isTimeout(perrs sarama.ProducerErrors) bool {
	for _, pe := range perrs {
		if errors.Is(pe.Err, sarama.ErrRequestTimedOut) {
			return true
		}
	}
	return false
}

// Close closes the producer.
func (tk *ToKafka) Close() error {
	tk.log.Infow("Closing kafka producer...", zap.Int("sent", tk.sent))
	return tk.producer.Close()
}
