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

package catalog

import (
	"fmt"
	"io"
	"os"
	"sort"

	json "github.com/goccy/go-json"
	"go.uber.org/multierr"
	"sigs.k8s.io/yaml"

	"github.com/numaproj/canseq/pkg/featerr"
	"github.com/numaproj/canseq/pkg/shared/util"
	"github.com/numaproj/canseq/pkg/table"
)

// ConstantFile is the on-disk shape of the constant signal catalog. The same document is
// written back by a run that derives the constant signals itself.
type ConstantFile struct {
	ConstantSignals map[string][]int `json:"constant_signals"`
	Offsets         []int            `json:"offsets"`
}

// ConstantSet holds, per source, the 1-based signal indices to exclude.
type ConstantSet map[table.SourceID][]int

// Contains reports whether signal k of source id is excluded.
func (s ConstantSet) Contains(id table.SourceID, k int) bool {
	for _, c := range s[id] {
		if c == k {
			return true
		}
	}
	return false
}

// Total returns the number of excluded signals over all sources.
func (s ConstantSet) Total() int {
	n := 0
	for _, v := range s {
		n += len(v)
	}
	return n
}

// LoadConstantFile reads a constant signal catalog from path.
func LoadConstantFile(path string) (*ConstantFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, featerr.Wrap(featerr.Catalog, err, fmt.Sprintf("failed to read constant signal catalog %q", path))
	}
	return ParseConstants(data)
}

// ParseConstants decodes a constant signal catalog document.
func ParseConstants(data []byte) (*ConstantFile, error) {
	var f ConstantFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, featerr.Wrap(featerr.Catalog, err, "failed to decode constant signal catalog")
	}
	if f.ConstantSignals == nil {
		return nil, featerr.New(featerr.Catalog, "constant signal catalog has no \"constant_signals\"")
	}
	if len(f.Offsets) == 0 {
		return nil, featerr.New(featerr.Catalog, "constant signal catalog has no \"offsets\"")
	}
	return &f, nil
}

// Set returns the exclusion set for the given sources. Every source needs an entry, possibly
// an empty list.
func (f *ConstantFile) Set(sources []table.SourceID) (ConstantSet, error) {
	var errs error
	set := make(ConstantSet, len(sources))
	for _, id := range sources {
		signals, ok := f.ConstantSignals[string(id)]
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("no constant signal entry for source %s", id))
			continue
		}
		for _, k := range signals {
			if k < 1 {
				errs = multierr.Append(errs, fmt.Errorf("source %s lists invalid signal index %d", id, k))
			}
		}
		set[id] = signals
	}
	if errs != nil {
		return nil, featerr.Wrap(featerr.Catalog, errs, "constant signal catalog does not cover the source catalog")
	}
	return set, nil
}

// NewConstantFile builds the document persisted after a run that derived its own constant set.
func NewConstantFile(set ConstantSet, offsets []int) *ConstantFile {
	f := &ConstantFile{
		ConstantSignals: make(map[string][]int, len(set)),
		Offsets:         append([]int(nil), offsets...),
	}
	for id, signals := range set {
		s := append([]int{}, signals...)
		sort.Ints(s)
		f.ConstantSignals[string(id)] = s
	}
	return f
}

// WriteConstantFile persists f to path atomically as JSON.
func WriteConstantFile(path string, f *ConstantFile) error {
	err := util.WriteFileAtomic(path, func(w io.Writer) error {
		enc := json.NewEncoder(w)
		return enc.Encode(f)
	})
	if err != nil {
		return fmt.Errorf("failed to write constant signal catalog %q: %w", path, err)
	}
	return nil
}
