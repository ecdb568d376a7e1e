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

package extract

import (
	"github.com/numaproj/canseq/pkg/table"
)

// Cache keeps the last packed, unscaled payload of every source. It is owned by a single
// Extractor and is not safe for concurrent use.
type Cache struct {
	entries map[table.SourceID][]float64
}

// NewCache returns an empty Cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[table.SourceID][]float64)}
}

// Get returns the cached payload of a source. The returned slice must not be modified.
func (c *Cache) Get(id table.SourceID) ([]float64, bool) {
	v, ok := c.entries[id]
	return v, ok
}

// Put replaces the cached payload of a source with a copy of payload.
func (c *Cache) Put(id table.SourceID, payload []float64) {
	buf := c.entries[id]
	if cap(buf) < len(payload) {
		buf = make([]float64, len(payload))
	}
	buf = buf[:len(payload)]
	copy(buf, payload)
	c.entries[id] = buf
}

// Len returns the number of sources seen so far.
func (c *Cache) Len() int {
	return len(c.entries)
}
