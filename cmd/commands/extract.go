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
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/numaproj/canseq"
	"github.com/numaproj/canseq/pkg/config"
	"github.com/numaproj/canseq/pkg/metrics"
	"github.com/numaproj/canseq/pkg/runner"
	"github.com/numaproj/canseq/pkg/shared/logging"
)

func NewExtractCommand() *cobra.Command {
	var configFile string
	v := config.NewViper()

	command := &cobra.Command{
		Use:   "extract",
		Short: "Extract normalized feature vectors from an event log",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := v.BindPFlags(cmd.Flags()); err != nil {
				return fmt.Errorf("failed to bind flags, %w", err)
			}
			cfg, err := config.Load(v, configFile)
			if err != nil {
				return err
			}
			runID := uuid.NewString()
			version := canseq.GetVersion()
			log := logging.NewLogger().Named("extract").With("runId", runID)
			log.Infow("Starting extraction", zap.String("version", version.Version), zap.String("infile", cfg.InFile),
				zap.Float64("timesteps", cfg.TimeSteps), zap.String("dataset", cfg.Dataset), zap.String("sink", cfg.Sink))
			metrics.BuildInfo.WithLabelValues(version.Version, fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)).Set(1)

			ctx, stop := withSignals(cmd.Context())
			defer stop()
			ctx = logging.WithLogger(ctx, log)
			p := &runner.ExtractProcessor{Config: cfg}
			report, err := p.Start(ctx)
			if err != nil {
				log.Errorw("Extraction failed", zap.Error(err))
				return err
			}
			for _, line := range report.Lines() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
	command.Flags().StringVar(&configFile, "config", "", "Path to a YAML config file")
	command.Flags().String(config.KeyInFile, "", "Path to the signal extracted CSV file")
	command.Flags().String(config.KeyOutFile, config.DefaultOutFile, "Output path, the sink adds its extension")
	command.Flags().Float64(config.KeyTimeSteps, config.DefaultTimeSteps, "Window length, in the time unit of the input")
	command.Flags().Bool(config.KeyExcludeConstantSignals, false, "Leave constant signals out of the vectors")
	command.Flags().String(config.KeyConstantSignalFile, "", "Constant signal file, as written by the constants command")
	command.Flags().String(config.KeyMinMaxFile, config.DefaultMinMaxFile, "Signal ranges used for min-max scaling")
	command.Flags().String(config.KeyConstantsOut, config.DefaultConstantsOut, "Where to write derived constant signals")
	command.Flags().String(config.KeyDataset, config.DatasetRoad, "Dataset preset, road or syncan")
	command.Flags().String(config.KeyFilter, "", "Row filter expression, overrides the dataset default")
	command.Flags().String(config.KeySink, "tfrecord", "Output sink: tfrecord, parquet, kafka, log or blackhole")
	command.Flags().StringSlice(config.KeyKafkaBrokers, nil, "Kafka brokers of the kafka sink")
	command.Flags().String(config.KeyKafkaTopic, "", "Kafka topic of the kafka sink")
	command.Flags().String(config.KeyKafkaConfig, "", "Sarama YAML config of the kafka sink")
	command.Flags().String(config.KeyMetricsFile, "", "Write Prometheus metrics to this file when done")
	return command
}
