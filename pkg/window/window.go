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

import "fmt"

// IntervalWindow is the window (Start, End].
type IntervalWindow struct {
	// Index is the position of the window in its span, starting at 0.
	Index int
	Start float64
	End   float64
}

// Contains reports whether an event at time t falls into the window.
func (w IntervalWindow) Contains(t float64) bool {
	return t > w.Start && t <= w.End
}

func (w IntervalWindow) String() string {
	return fmt.Sprintf("#%d (%g, %g]", w.Index, w.Start, w.End)
}

// Span is an ordered, finite sequence of windows.
type Span interface {
	// Len returns the number of windows.
	Len() int
	// At returns window i, 0 <= i < Len().
	At(i int) IntervalWindow
}
