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

	"github.com/spf13/cobra"

	"github.com/numaproj/canseq/pkg/runner"
)

func NewInspectCommand() *cobra.Command {
	var head int

	command := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Check a TFRecord output file and print its first vectors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			got, err := runner.Inspect(args[0], head)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "records: %d\nwidth: %d\n", got.Records, got.Width)
			for i, vec := range got.Head {
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %v\n", i, vec)
			}
			return nil
		},
	}
	command.Flags().IntVar(&head, "head", 0, "Number of vectors to print")
	return command
}
