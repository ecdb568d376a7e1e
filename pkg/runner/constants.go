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

	"go.uber.org/zap"

	"github.com/numaproj/canseq/pkg/catalog"
	"github.com/numaproj/canseq/pkg/constants"
	"github.com/numaproj/canseq/pkg/layout"
	"github.com/numaproj/canseq/pkg/shared/logging"
)

// ConstantsProcessor scans an event log for constant signals and writes a constant signal file
// that a later extraction can reuse.
type ConstantsProcessor struct {
	InFile string
	Filter string
	// MinMaxFile, when set, provides the field counts of the offsets instead of the table.
	MinMaxFile string
	Out        string
}

// Start writes the constant signal file and returns it.
func (p *ConstantsProcessor) Start(ctx context.Context) (*catalog.ConstantFile, error) {
	log := logging.FromContext(ctx)
	in, err := loadInputs(ctx, p.InFile, p.Filter, p.MinMaxFile, "")
	if err != nil {
		return nil, err
	}
	sources := in.table.Sources()
	set := constants.DetectAll(in.table, sources)

	var counts []int
	if in.ranges != nil {
		if err := in.ranges.Validate(sources); err != nil {
			return nil, err
		}
		if counts, err = in.ranges.FieldCounts(sources); err != nil {
			return nil, err
		}
	} else {
		counts = layout.CountsFromTable(in.table, sources, set)
	}
	offsets, err := layout.FromCounts(counts)
	if err != nil {
		return nil, err
	}
	f := catalog.NewConstantFile(set, offsets.Offsets())
	if err := catalog.WriteConstantFile(p.Out, f); err != nil {
		return nil, err
	}
	log.Infow("Constant signals written", zap.String("path", p.Out), zap.Int("sources", len(sources)),
		zap.Int("constantSignals", set.Total()), zap.Int("signals", offsets.Width()))
	return f, nil
}
