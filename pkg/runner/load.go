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

package runner

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/shared/expr"
	"github.com/numaproj/canseq/pkg/shared/logging"
	"github.com/numaproj/canseq/pkg/table"
)

// inputs are the files a run starts from.
type inputs struct {
	table     *table.Table
	ranges    *catalog.Ranges
	constants *catalog.ConstantFile
}

// loadTable reads the event log, dropping the rows rejected by the filter expression.
func loadTable(ctx context.Context, path, filter string) (*table.Table, error) {
	var opts []table.LoadOption
	if filter != "" {
		f, err := expr.CompileFilter(filter)
		if err != nil {
			return nil, err
		}
		logging.FromContext(ctx).Infow("Filtering input rows", zap.String("filter", f.String()))
		opts = append(opts, table.WithFilter(f))
	}
	return table.LoadCSVFile(ctx, path, opts...)
}

// loadInputs reads the event log and the catalogs concurrently. rangeFile and constantFile are
// skipped when empty.
func loadInputs(ctx context.Context, inFile, filter, rangeFile, constantFile string) (*inputs, error) {
	in := &inputs{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		t, err := loadTable(gctx, inFile, filter)
		if err != nil {
			return fmt.Errorf("failed to load %q, %w", inFile, err)
		}
		in.table = t
		return nil
	})
	if rangeFile != "" {
		g.Go(func() error {
			r, err := catalog.LoadRangeFile(rangeFile)
			if err != nil {
				return err
			}
			in.ranges = r
			return nil
		})
	}
	if constantFile != "" {
		g.Go(func() error {
			c, err := catalog.LoadConstantFile(constantFile)
			if err != nil {
				return err
			}
			in.constants = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return in, nil
}
