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

// Package config holds the settings of a run. Values are layered: defaults, then an optional
// YAML config file, then CANSEQ_ environment variables, then command line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"

	"github.com/numaproj/canseq/pkg/sinks"
)

// EnvPrefix is the prefix of the environment variables read by Load.
const EnvPrefix = "CANSEQ"

// Keys, also used as flag names.
const (
	KeyInFile                 = "infile"
	KeyOutFile                = "outfile"
	KeyTimeSteps              = "timesteps"
	KeyExcludeConstantSignals = "exclude-constant-signals"
	KeyConstantSignalFile     = "constant-signal-file"
	KeyMinMaxFile             = "min-max-file"
	KeyConstantsOut           = "constants-out"
	KeyDataset                = "dataset"
	KeyFilter                 = "filter"
	KeySink                   = "sink"
	KeyKafkaBrokers           = "kafka-brokers"
	KeyKafkaTopic             = "kafka-topic"
	KeyKafkaConfig            = "kafka-config"
	KeyMetricsFile            = "metrics-file"
)

var keys = []string{
	KeyInFile, KeyOutFile, KeyTimeSteps, KeyExcludeConstantSignals, KeyConstantSignalFile, KeyMinMaxFile,
	KeyConstantsOut, KeyDataset, KeyFilter, KeySink, KeyKafkaBrokers, KeyKafkaTopic, KeyKafkaConfig, KeyMetricsFile,
}

const (
	DefaultTimeSteps    = 0.01
	DefaultMinMaxFile   = "Data/ranges/min_max_merge.json"
	DefaultConstantsOut = "Data/constant_signals.json"
	DefaultOutFile      = "./"
)

// RunConfig is the configuration of an extraction run.
type RunConfig struct {
	InFile                 string   `mapstructure:"infile"`
	OutFile                string   `mapstructure:"outfile"`
	TimeSteps              float64  `mapstructure:"timesteps"`
	ExcludeConstantSignals bool     `mapstructure:"exclude-constant-signals"`
	ConstantSignalFile     string   `mapstructure:"constant-signal-file"`
	MinMaxFile             string   `mapstructure:"min-max-file"`
	ConstantsOut           string   `mapstructure:"constants-out"`
	Dataset                string   `mapstructure:"dataset"`
	Filter                 string   `mapstructure:"filter"`
	Sink                   string   `mapstructure:"sink"`
	KafkaBrokers           []string `mapstructure:"kafka-brokers"`
	KafkaTopic             string   `mapstructure:"kafka-topic"`
	KafkaConfig            string   `mapstructure:"kafka-config"`
	MetricsFile            string   `mapstructure:"metrics-file"`
}

// NewViper returns a viper instance with the defaults and the environment binding in place.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyOutFile, DefaultOutFile)
	v.SetDefault(KeyTimeSteps, DefaultTimeSteps)
	v.SetDefault(KeyMinMaxFile, DefaultMinMaxFile)
	v.SetDefault(KeyConstantsOut, DefaultConstantsOut)
	v.SetDefault(KeyDataset, DatasetRoad)
	v.SetDefault(KeySink, string(sinks.TypeTFRecord))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	// keys without a default are only unmarshalled from the environment when bound
	for _, k := range keys {
		_ = v.BindEnv(k)
	}
	return v
}

// Load reads configFile when set and unmarshals v into a RunConfig. It does not validate.
func Load(v *viper.Viper, configFile string) (*RunConfig, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to load configuration file. %w", err)
		}
	}
	c := &RunConfig{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed unmarshal configuration. %w", err)
	}
	return c, nil
}

// RowFilter returns the filter expression of the run: the explicit one, or the dataset default.
func (c *RunConfig) RowFilter() string {
	if c.Filter != "" {
		return c.Filter
	}
	if d, ok := Datasets[c.Dataset]; ok {
		return d.DefaultFilter
	}
	return ""
}

// Validate checks the settings needed by an extraction run and reports every problem found.
func (c *RunConfig) Validate() error {
	var err error
	if c.InFile == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", KeyInFile))
	}
	if !(c.TimeSteps > 0) {
		err = multierr.Append(err, fmt.Errorf("%s must be positive, got %v", KeyTimeSteps, c.TimeSteps))
	}
	if c.MinMaxFile == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required", KeyMinMaxFile))
	}
	if _, ok := Datasets[c.Dataset]; !ok {
		err = multierr.Append(err, fmt.Errorf("unknown %s %q, want one of %s", KeyDataset, c.Dataset, strings.Join(DatasetNames(), ", ")))
	}
	switch t := sinks.Type(c.Sink); {
	case !t.Valid():
		err = multierr.Append(err, fmt.Errorf("unknown %s %q", KeySink, c.Sink))
	case t == sinks.TypeKafka:
		if len(c.KafkaBrokers) == 0 {
			err = multierr.Append(err, fmt.Errorf("%s is required by the kafka sink", KeyKafkaBrokers))
		}
		if c.KafkaTopic == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required by the kafka sink", KeyKafkaTopic))
		}
	case t == sinks.TypeTFRecord || t == sinks.TypeParquet:
		if c.OutFile == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required by the %s sink", KeyOutFile, t))
		}
	}
	if c.ExcludeConstantSignals && c.ConstantSignalFile == "" && c.ConstantsOut == "" {
		err = multierr.Append(err, fmt.Errorf("%s is required when constant signals are derived", KeyConstantsOut))
	}
	return err
}
