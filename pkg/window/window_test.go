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

package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntervalWindow_Contains(t *testing.T) {
	w := IntervalWindow{Index: 2, Start: 1, End: 2}
	assert.False(t, w.Contains(1))
	assert.True(t, w.Contains(1.5))
	assert.True(t, w.Contains(2))
	assert.False(t, w.Contains(2.0001))
	assert.Equal(t, "#2 (1, 2]", w.String())
}
