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
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/numaproj/canseq/pkg/config"
	"github.com/numaproj/canseq/pkg/runner"
	"github.com/numaproj/canseq/pkg/shared/logging"
)

func NewConstantsCommand() *cobra.Command {
	var (
		inFile     string
		minMaxFile string
		out        string
		dataset    string
		filter     string
	)

	command := &cobra.Command{
		Use:   "constants",
		Short: "Find constant signals and write a constant signal file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if inFile == "" {
				return fmt.Errorf("--%s is required", config.KeyInFile)
			}
			if _, ok := config.Datasets[dataset]; !ok {
				return fmt.Errorf("unknown dataset %q", dataset)
			}
			cfg := &config.RunConfig{Dataset: dataset, Filter: filter}
			log := logging.NewLogger().Named("constants")
			ctx, stop := withSignals(context.Background())
			defer stop()
			p := &runner.ConstantsProcessor{
				InFile:     inFile,
				Filter:     cfg.RowFilter(),
				MinMaxFile: minMaxFile,
				Out:        out,
			}
			f, err := p.Start(logging.WithLogger(ctx, log))
			if err != nil {
				return err
			}
			total := 0
			for _, indices := range f.ConstantSignals {
				total += len(indices)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "number of constant signals: %d\n", total)
			fmt.Fprintf(cmd.OutOrStdout(), "constant signals written to %s\n", out)
			return nil
		},
	}
	command.Flags().StringVar(&inFile, config.KeyInFile, "", "Path to the signal extracted CSV file")
	command.Flags().StringVar(&minMaxFile, config.KeyMinMaxFile, "", "Optional signal ranges giving the field counts of the offsets")
	command.Flags().StringVar(&out, "out", config.DefaultConstantsOut, "Where to write the constant signal file")
	command.Flags().StringVar(&dataset, config.KeyDataset, config.DatasetRoad, "Dataset preset, road or syncan")
	command.Flags().StringVar(&filter, config.KeyFilter, "", "Row filter expression, overrides the dataset default")
	return command
}
