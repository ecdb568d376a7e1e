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
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// kafkaSinkBatches is used to indicate the number of batches produced to kafka
var kafkaSinkBatches = promauto.NewCounter(prometheus.CounterOpts{
	Subsystem: "kafka_sink",
	Name:      "batch_total",
	Help:      "Total number of batches produced by the kafka sink",
})

var kafkaSinkWriteTimeouts = promauto.NewCounter(prometheus.CounterOpts{
	Subsystem: "kafka_sink",
	Name:      "write_timeout_total",
	Help:      "Total number of batches failing with a request timeout",
})
