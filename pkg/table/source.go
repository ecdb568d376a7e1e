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

package table

import (
	"sort"
	"strconv"
)

// SourceID identifies a bus message source. It is kept as text because catalogs key sources by
// their textual form, but integer identifiers order numerically.
type SourceID string

// Less is the catalog order: integer identifiers first in numeric order, then every other
// identifier in lexicographic order. Integers of equal value ("7", "007") fall back to the text.
func (s SourceID) Less(o SourceID) bool {
	a, errA := strconv.ParseInt(string(s), 10, 64)
	b, errB := strconv.ParseInt(string(o), 10, 64)
	switch {
	case errA == nil && errB == nil:
		if a != b {
			return a < b
		}
		return s < o
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return s < o
	}
}

func (s SourceID) String() string {
	return string(s)
}

// SortSources sorts ids in place into catalog order.
func SortSources(ids []SourceID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Less(ids[j])
	})
}
