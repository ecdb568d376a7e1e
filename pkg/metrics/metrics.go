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

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	LabelVersion  = "version"
	LabelPlatform = "platform"
	LabelDataset  = "dataset"
	LabelResult   = "result"
	LabelSink     = "sink"
	LabelReason   = "reason"
)

const (
	ResultClean = "clean"
	ResultDirty = "dirty"
)

var (
	BuildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "build_info",
		Help: "A metric with a constant value '1', labeled by canseq binary version and platform",
	}, []string{LabelVersion, LabelPlatform})
)

// Sequence metrics
var (
	// WindowsCount is used to indicate the number of windows extracted, by clean or dirty result
	WindowsCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canseq",
		Name:      "windows_total",
		Help:      "Total number of windows extracted",
	}, []string{LabelDataset, LabelResult})

	// ForwardFillCount is used to indicate how many source slots were filled from the last known value
	ForwardFillCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canseq",
		Name:      "forward_fill_total",
		Help:      "Total number of source slots filled from the last known value",
	}, []string{LabelDataset})

	// VectorWidth is the width of the feature vectors of the run
	VectorWidth = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "canseq",
		Name:      "vector_width",
		Help:      "Width of the feature vectors",
	}, []string{LabelDataset})

	// ConstantSignals is the number of constant signals found in the input
	ConstantSignals = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "canseq",
		Name:      "constant_signals",
		Help:      "Number of signals whose value never changes",
	}, []string{LabelDataset})
)

// Sink metrics
var (
	// SinkWriteCount is used to indicate the number of vectors written by a sink
	SinkWriteCount = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canseq",
		Name:      "sink_write_total",
		Help:      "Total number of vectors written",
	}, []string{LabelSink})

	// SinkWriteErrors is used to indicate the number of errors while writing vectors
	SinkWriteErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "canseq",
		Name:      "sink_write_errors_total",
		Help:      "Total number of write errors",
	}, []string{LabelSink, LabelReason})
)
