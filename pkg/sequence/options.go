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

package sequence

import (
	"go.uber.org/zap"
)

type options struct {
	// dataset labels the metrics of the run
	dataset string
	// progressEvery is the number of windows between two progress logs, 0 disables them
	progressEvery int
	// logger is used to pass the logger variable
	logger *zap.SugaredLogger
}

type Option func(*options) error

func defaultOptions() *options {
	return &options{
		dataset:       "default",
		progressEvery: 100000,
	}
}

// WithDataset sets the dataset name used as metric label
func WithDataset(name string) Option {
	return func(o *options) error {
		o.dataset = name
		return nil
	}
}

// WithProgressEvery sets how many windows pass between two progress logs
func WithProgressEvery(n int) Option {
	return func(o *options) error {
		o.progressEvery = n
		return nil
	}
}

// WithLogger is used to return logger information
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) error {
		o.logger = l
		return nil
	}
}
