/*
Copyright © 2020 the LakeGas authors.
This file is part of LakeGas.

LakeGas is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

LakeGas is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with LakeGas.  If not, see <http://www.gnu.org/licenses/>.
*/

package lakegas

import (
	"sort"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/gonum/stat"
)

// normalCoverage is the half-width multiplier of a symmetric 95%
// normal-approximation interval.
const normalCoverage = 1.96

// Interval is a two-sided interval.
type Interval struct {
	Low, High float64
}

// Summary holds the uncertainty statistics of a simulated
// distribution.
type Summary struct {
	N    int
	Mean float64

	// SD is the unbiased sample standard deviation (denominator N−1)
	// of the simulated values.
	SD float64

	// Normal is the symmetric 1.96·SD interval centered on the true
	// value.
	Normal Interval

	// EmpiricalOffset is the 2.5th to 97.5th percentile interval of the
	// absolute error (simulated − true).
	EmpiricalOffset Interval

	// Empirical is EmpiricalOffset shifted back to the absolute scale
	// of the true value. Error distributions from ratio and
	// exponential formulas are not guaranteed symmetric, so this is
	// the interval used for classification rather than Normal.
	Empirical Interval
}

// HalfWidth is the 97.5th-percentile absolute error, the symmetric
// threshold magnitude consumed by the source/sink classifier.
func (s Summary) HalfWidth() float64 {
	return s.EmpiricalOffset.High
}

// AbsoluteError returns simulated − true per draw.
func AbsoluteError(trueValue float64, sims []float64) []float64 {
	errs := make([]float64, len(sims))
	for i, v := range sims {
		errs[i] = v - trueValue
	}
	return errs
}

// Summarize computes the uncertainty summary of a simulated
// distribution about its true value.
func Summarize(trueValue float64, sims []float64) Summary {
	if len(sims) == 0 {
		return Summary{}
	}

	var d stats.Stats
	d.UpdateArray(sims)
	sd := d.SampleStandardDeviation()

	errs := AbsoluteError(trueValue, sims)
	sort.Float64s(errs)
	lo := stat.Quantile(0.025, stat.Empirical, errs, nil)
	hi := stat.Quantile(0.975, stat.Empirical, errs, nil)

	return Summary{
		N:               len(sims),
		Mean:            d.Mean(),
		SD:              sd,
		Normal:          Interval{trueValue - normalCoverage*sd, trueValue + normalCoverage*sd},
		EmpiricalOffset: Interval{lo, hi},
		Empirical:       Interval{trueValue + lo, trueValue + hi},
	}
}
