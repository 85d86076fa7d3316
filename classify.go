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

import "math"

// Status is a water body's source/sink classification with respect to
// the analyte gas.
type Status string

const (
	// Source: the saturation ratio is above 1 by more than the
	// measurement error.
	Source Status = "source"

	// Sink: the saturation ratio is below 1 by more than the
	// measurement error.
	Sink Status = "sink"

	// Undetermined: the saturation ratio is statistically
	// indistinguishable from 1 given the measurement error.
	Undetermined Status = "undetermined"
)

// Observation is one empirical field record: a site visit with its
// measured saturation ratio. The upstream data-preparation step
// supplies already-typed values.
type Observation struct {
	SiteID          string
	Visit           int
	SiteType        string
	Lat, Lon        float64
	SaturationRatio float64
}

// ClassifiedObservation annotates an observation with its status under
// one scenario's error estimate. Unusable records carry a
// DataShapeError in Err and an empty Status.
type ClassifiedObservation struct {
	Observation
	Status Status
	Err    error
}

// classifyRatio applies the decision rule for one ratio r against the
// error half-width u. A ratio within u of 1 (inclusive) is
// undetermined.
func classifyRatio(r, u float64) Status {
	switch {
	case math.Abs(r-1) <= u:
		return Undetermined
	case r > 1:
		return Source
	default:
		return Sink
	}
}

// Classify annotates each observation with its source/sink status
// using the empirical-interval half-width u of a chosen simulation
// result as the decision threshold. Each call starts from the raw
// saturation ratios and returns a fresh slice, so classifications
// under different scenarios never leak into one another. Records with
// non-finite ratios are flagged and skipped rather than aborting the
// pass.
func Classify(obs []Observation, u float64) []ClassifiedObservation {
	out := make([]ClassifiedObservation, len(obs))
	for i, o := range obs {
		out[i] = ClassifiedObservation{Observation: o}
		if math.IsNaN(o.SaturationRatio) || math.IsInf(o.SaturationRatio, 0) {
			out[i].Err = &DataShapeError{
				SiteID: o.SiteID,
				Visit:  o.Visit,
				msg:    "saturation ratio is not finite",
			}
			continue
		}
		out[i].Status = classifyRatio(o.SaturationRatio, u)
	}
	return out
}
