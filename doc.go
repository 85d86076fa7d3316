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

// Package lakegas estimates measurement uncertainty in dissolved gas
// concentrations derived from lake survey field and laboratory
// measurements.
//
// The package propagates instrument-level measurement error through
// the closed-form physical chemistry of headspace equilibration
// (Henry's-law dissolved concentration, equilibrium concentration and
// saturation ratio) using Monte Carlo simulation. The resulting
// empirical error distributions quantify the uncertainty of each
// derived quantity and reclassify field observations as undetermined
// when their saturation ratio cannot be distinguished from 1 given the
// estimated error.
//
// The main entry points are Scenario.Run, which simulates a single
// instrument configuration, and Batch.Run, which enumerates and
// compares the configurations of interest for a survey.
package lakegas

// Version gives the version number.
const Version = "1.1.0"
