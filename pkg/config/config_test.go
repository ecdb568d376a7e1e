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

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	c, err := Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeSteps, c.TimeSteps)
	assert.Equal(t, DefaultMinMaxFile, c.MinMaxFile)
	assert.Equal(t, DefaultConstantsOut, c.ConstantsOut)
	assert.Equal(t, DatasetRoad, c.Dataset)
	assert.Equal(t, "tfrecord", c.Sink)
	assert.Equal(t, `ID != "1649"`, c.RowFilter())
}

func TestLoad_Layering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canseq.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
infile: from-file.csv
timesteps: 0.5
dataset: syncan
kafka-brokers: ["a:9092", "b:9092"]
`), 0o644))
	t.Setenv("CANSEQ_TIMESTEPS", "0.25")
	t.Setenv("CANSEQ_MIN_MAX_FILE", "env.json")

	v := NewViper()
	v.Set(KeyInFile, "from-flag.csv")
	c, err := Load(v, path)
	require.NoError(t, err)
	assert.Equal(t, "from-flag.csv", c.InFile)
	assert.Equal(t, 0.25, c.TimeSteps)
	assert.Equal(t, "env.json", c.MinMaxFile)
	assert.Equal(t, DatasetSynCAN, c.Dataset)
	assert.Equal(t, []string{"a:9092", "b:9092"}, c.KafkaBrokers)
	assert.Equal(t, "", c.RowFilter())

	t.Setenv("CANSEQ_KAFKA_TOPIC", "vectors")
	c, err = Load(NewViper(), "")
	require.NoError(t, err)
	assert.Equal(t, "vectors", c.KafkaTopic)

	_, err = Load(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRunConfig_RowFilter(t *testing.T) {
	c := &RunConfig{Dataset: DatasetRoad, Filter: `ID == "208"`}
	assert.Equal(t, `ID == "208"`, c.RowFilter())
	c = &RunConfig{Dataset: "other"}
	assert.Equal(t, "", c.RowFilter())
}

func TestRunConfig_Validate(t *testing.T) {
	valid := func() *RunConfig {
		return &RunConfig{
			InFile:       "in.csv",
			OutFile:      "out",
			TimeSteps:    0.01,
			MinMaxFile:   "ranges.json",
			ConstantsOut: DefaultConstantsOut,
			Dataset:      DatasetRoad,
			Sink:         "tfrecord",
		}
	}
	assert.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		modify func(c *RunConfig)
		want   []string
	}{
		{name: "missing input and bad step", modify: func(c *RunConfig) { c.InFile = ""; c.TimeSteps = 0 }, want: []string{"infile is required", "timesteps must be positive"}},
		{name: "unknown dataset", modify: func(c *RunConfig) { c.Dataset = "x" }, want: []string{`unknown dataset "x", want one of road, syncan`}},
		{name: "unknown sink", modify: func(c *RunConfig) { c.Sink = "csv" }, want: []string{`unknown sink "csv"`}},
		{name: "kafka", modify: func(c *RunConfig) { c.Sink = "kafka" }, want: []string{"kafka-brokers is required", "kafka-topic is required"}},
		{name: "file sink without output", modify: func(c *RunConfig) { c.OutFile = "" }, want: []string{"outfile is required by the tfrecord sink"}},
		{name: "derived constants without output", modify: func(c *RunConfig) { c.ExcludeConstantSignals = true; c.ConstantsOut = "" }, want: []string{"constants-out is required"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.modify(c)
			err := c.Validate()
			require.Error(t, err)
			for _, w := range tt.want {
				assert.Contains(t, err.Error(), w)
			}
		})
	}

	c := valid()
	c.Sink = "log"
	c.OutFile = ""
	assert.NoError(t, c.Validate())
}

func TestDatasetNames(t *testing.T) {
	assert.Equal(t, []string{"road", "syncan"}, DatasetNames())
}
