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

package commands

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/numaproj/canseq/pkg/catalog"
)

const syncanCSV = `Label,Time,ID,Signal_1_of_ID,Signal_2_of_ID
0,0.00,id1,0.1,0.5
0,0.00,id2,0.2,
0,0.05,id1,0.3,0.5
0,0.10,id2,0.4,
0,0.20,id1,0.9,0.5
`

const syncanRanges = `{"mins": {"id1": [0, 0.5], "id2": [0]}, "maxs": {"id1": [1, 0.5], "id2": [1]}}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

// execute runs cmd with args. Flag values stick to a command, so every case gets a fresh one.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	b := bytes.NewBufferString("")
	cmd.SetOut(b)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	output, _ := io.ReadAll(b)
	return string(output), err
}

func Test_Commands(t *testing.T) {
	t.Run("root execute", func(t *testing.T) {
		rootCmd.SetArgs([]string{"help"})
		assert.NotPanics(t, Execute)
	})

	t.Run("test root", func(t *testing.T) {
		out, err := execute(rootCmd, "help")
		require.NoError(t, err)
		assert.Contains(t, out, "Available Commands")
		for _, c := range []string{"extract", "constants", "inspect", "version"} {
			assert.Contains(t, out, c)
		}
	})

	t.Run("version", func(t *testing.T) {
		out, err := execute(NewVersionCommand())
		require.NoError(t, err)
		assert.Contains(t, out, "Version: ")
	})

	t.Run("extract flags", func(t *testing.T) {
		cmd := NewExtractCommand()
		assert.True(t, cmd.HasLocalFlags())
		assert.Equal(t, "extract", cmd.Use)
		assert.Equal(t, "float64", cmd.Flag("timesteps").Value.Type())
		assert.Equal(t, "0.01", cmd.Flag("timesteps").DefValue)
		assert.Equal(t, "bool", cmd.Flag("exclude-constant-signals").Value.Type())
		assert.Equal(t, "stringSlice", cmd.Flag("kafka-brokers").Value.Type())
		assert.Equal(t, "Data/ranges/min_max_merge.json", cmd.Flag("min-max-file").DefValue)
	})
}

func Test_ExtractAndInspect(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "syncan.csv", syncanCSV)
	ranges := writeFile(t, dir, "ranges.json", syncanRanges)
	out := filepath.Join(dir, "out", "syncan")
	constantsOut := filepath.Join(dir, "Data", "constant_signals.json")

	// windows end at 0.1 and 0.2 (and 0.3 for the upper bound)
	stdout, err := execute(NewExtractCommand(),
		"--infile", in,
		"--outfile", out,
		"--timesteps", "0.1",
		"--min-max-file", ranges,
		"--dataset", "syncan",
		"--constants-out", constantsOut,
	)
	require.NoError(t, err)
	assert.Contains(t, stdout, "number of signals: 3")
	assert.Contains(t, stdout, "number of constant signals: 1")
	assert.Contains(t, stdout, "number of vectors: 3")

	stdout, err = execute(NewInspectCommand(), out+".tfrecords", "--head", "1")
	require.NoError(t, err)
	assert.Contains(t, stdout, "records: 3")
	assert.Contains(t, stdout, "width: 3")
	assert.Contains(t, stdout, "0: [0.3 1 0.4]")

	_, err = execute(NewInspectCommand(), filepath.Join(dir, "missing.tfrecords"))
	assert.Error(t, err)
	_, err = execute(NewInspectCommand())
	assert.Error(t, err)
}

func Test_ExtractErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := execute(NewExtractCommand(), "--infile", filepath.Join(dir, "missing.csv"), "--min-max-file", writeFile(t, dir, "r.json", syncanRanges), "--sink", "blackhole")
	assert.Error(t, err)

	_, err = execute(NewExtractCommand(), "--sink", "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}

func Test_Constants(t *testing.T) {
	dir := t.TempDir()
	in := writeFile(t, dir, "syncan.csv", syncanCSV)
	out := filepath.Join(dir, "Data", "constant_signals.json")
	stdout, err := execute(NewConstantsCommand(), "--infile", in, "--dataset", "syncan", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "number of constant signals: 1")

	f, err := catalog.LoadConstantFile(out)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, f.ConstantSignals["id1"])
	assert.Equal(t, []int{1, 2}, f.Offsets)

	_, err = execute(NewConstantsCommand(), "--dataset", "syncan")
	assert.Error(t, err)
	_, err = execute(NewConstantsCommand(), "--infile", in, "--dataset", "bogus")
	assert.Error(t, err)
}
