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

// Package fixed implements Fixed windows. Fixed windows (sometimes called tumbling windows) are
// defined by a static window length, e.g. 10ms windows. They are aligned, i.e. every window applies
// across all the data of every source for the corresponding period of time.
//
// A Fixed windower tiles a timeline [minTime, maxTime] with windows ending at
// minTime + Length, minTime + 2*Length, ... up to and including maxTime + Length.
package fixed

import (
	"fmt"
	"math"

	"github.com/numaproj/canseq/pkg/window"
)

// tolerance absorbs floating point error when deciding whether the last window end lands
// exactly on maxTime + Length.
const tolerance = 1e-9

// Fixed implements Fixed window.
type Fixed struct {
	// Length is the temporal length of the window, in the time unit of the event log.
	Length float64
}

// NewFixed returns a Fixed windower.
func NewFixed(length float64) (*Fixed, error) {
	if !(length > 0) || math.IsInf(length, 0) {
		return nil, fmt.Errorf("window length must be a positive finite number, got %v", length)
	}
	return &Fixed{Length: length}, nil
}

// Span returns the windows tiling [minTime, maxTime].
func (f *Fixed) Span(minTime, maxTime float64) window.Span {
	n := 0
	if maxTime >= minTime {
		n = int(math.Floor((maxTime-minTime)/f.Length+tolerance)) + 1
	}
	return &span{origin: minTime, length: f.Length, n: n}
}

type span struct {
	origin float64
	length float64
	n      int
}

var _ window.Span = (*span)(nil)

func (s *span) Len() int {
	return s.n
}

// At computes the end by multiplication rather than repeated addition so that long runs
// do not drift.
func (s *span) At(i int) window.IntervalWindow {
	end := s.origin + float64(i+1)*s.length
	return window.IntervalWindow{
		Index: i,
		Start: end - s.length,
		End:   end,
	}
}
