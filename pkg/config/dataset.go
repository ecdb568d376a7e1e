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
	"sort"
)

const (
	DatasetRoad   = "road"
	DatasetSynCAN = "syncan"
)

// Dataset describes the conventions of a known bus capture.
type Dataset struct {
	Name string
	// DefaultFilter is the row filter applied when none is configured.
	DefaultFilter string
}

// Datasets are the known presets. Source 1649 of the road captures carries irregular signals
// and is left out.
var Datasets = map[string]Dataset{
	DatasetRoad: {
		Name:          DatasetRoad,
		DefaultFilter: `ID != "1649"`,
	},
	DatasetSynCAN: {
		Name: DatasetSynCAN,
	},
}

// DatasetNames returns the preset names, sorted.
func DatasetNames() []string {
	names := make([]string, 0, len(Datasets))
	for n := range Datasets {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
