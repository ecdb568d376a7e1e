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

package sequence

import (
	"github.com/montanaflynn/stats"
)

// Summary describes the distribution of the normalized values of a run.
type Summary struct {
	Mean   float64
	StdDev float64
	Median float64
	Min    float64
	Max    float64
	// Saturated is the share of values sitting exactly on 0 or 1.
	Saturated float64
}

// Summarize computes the Summary of every value of vectors. An empty sequence yields a zero Summary.
func Summarize(vectors [][]float64) (Summary, error) {
	var data stats.Float64Data
	saturated := 0
	for _, vec := range vectors {
		for _, v := range vec {
			if v == 0 || v == 1 {
				saturated++
			}
		}
		data = append(data, vec...)
	}
	if len(data) == 0 {
		return Summary{}, nil
	}
	var s Summary
	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(data); err != nil {
		return Summary{}, err
	}
	if s.Min, err = stats.Min(data); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(data); err != nil {
		return Summary{}, err
	}
	s.Saturated = float64(saturated) / float64(len(data))
	return s, nil
}
