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
	"io"

	"github.com/BurntSushi/toml"
)

// Names of the measurable quantities that can be perturbed in a
// simulation.
const (
	VarPressure      = "barometricPressure"  // [kPa]
	VarTemperature   = "waterTemperature"    // [°C]
	VarWaterVolume   = "waterVolume"         // [mL]
	VarHeadspace     = "headspaceReading"    // [μmol/mol]
	VarReference     = "referenceReading"    // [μmol/mol]
	VarSampleRatio   = "sampleSignalRatio"   // [-]
	VarStandardRatio = "standardSignalRatio" // [-]
)

// Variables lists every perturbable variable name.
var Variables = []string{
	VarPressure,
	VarTemperature,
	VarWaterVolume,
	VarHeadspace,
	VarReference,
	VarSampleRatio,
	VarStandardRatio,
}

// Tier identifies an instrument precision tier within the error-model
// registry. The same variable may carry several tiers; a scenario
// selects one.
type Tier string

const (
	// GCStandard is the precision of the survey's field gas
	// chromatograph, from replicate standard injections.
	GCStandard Tier = "GC-standard"

	// GCLiterature is the best gas-chromatograph precision reported
	// in the literature, expressed as a coefficient of variation.
	GCLiterature Tier = "GC-literature-precision"

	// ThermometerStandard is the field thermometer's manufacturer
	// tolerance.
	ThermometerStandard Tier = "thermometer-standard"

	// ThermometerLabBath is the precision of a laboratory-bath
	// reference thermometer.
	ThermometerLabBath Tier = "thermometer-lab-bath"

	// Barometer is the single barometric-pressure tier, derived from
	// replicate readings across a panel of reference barometers.
	Barometer Tier = "barometer"

	// Volume is the single volumetric-measurement tier.
	Volume Tier = "volume"

	// MIMSStandard is the mass-spectrometer signal-ratio precision
	// with a standard-GC-calibrated reference.
	MIMSStandard Tier = "MIMS-standard-GC-calibration"

	// MIMSHighPrecision is the mass-spectrometer signal-ratio
	// precision with a high-precision-GC-calibrated reference.
	MIMSHighPrecision Tier = "MIMS-high-precision-GC-calibration"
)

// ErrorSpec associates a variable with the Gaussian sampling
// distribution of its measurement error: centered on the variable's
// true value for the active scenario, with a standard deviation from
// instrument calibration data.
type ErrorSpec struct {
	Variable string
	Tier     Tier
	Center   float64
	SD       float64
}

func (e ErrorSpec) check() error {
	if e.SD < 0 {
		return configErrorf("lakegas: %s (%s): negative standard deviation %g", e.Variable, e.Tier, e.SD)
	}
	return nil
}

// Calibration holds the empirical instrument-calibration data behind
// the error-model registry. It is configuration, decoded from a TOML
// file; DefaultCalibration mirrors the reference study.
type Calibration struct {
	GC struct {
		// ReplicateSD is the standard deviation of replicate
		// standard-gas injections [μmol/mol].
		ReplicateSD float64
		// LiteratureCV is the best reported precision as a
		// coefficient of variation.
		LiteratureCV float64
	}
	Thermometer struct {
		FieldSD   float64 // [°C]
		LabBathSD float64 // [°C]
	}
	Barometer struct {
		// ReplicateSDs holds each reference barometer's replicate
		// standard deviation [kPa]; the registry uses their mean.
		ReplicateSDs []float64
	}
	Volume struct {
		SD float64 // [mL]
	}
	MIMS struct {
		RatioCV              float64
		HighPrecisionRatioCV float64
	}
}

// DefaultCalibration returns the calibration data of the reference
// survey.
func DefaultCalibration() Calibration {
	var c Calibration
	c.GC.ReplicateSD = 0.0031
	c.GC.LiteratureCV = 0.001
	c.Thermometer.FieldSD = 0.1
	c.Thermometer.LabBathSD = 0.01
	c.Barometer.ReplicateSDs = []float64{0.046, 0.078, 0.035, 0.061}
	c.Volume.SD = 1.0
	c.MIMS.RatioCV = 0.01
	c.MIMS.HighPrecisionRatioCV = 0.003
	return c
}

// LoadCalibration decodes TOML calibration data.
func LoadCalibration(r io.Reader) (Calibration, error) {
	var c Calibration
	if _, err := toml.DecodeReader(r, &c); err != nil {
		return c, configErrorf("lakegas: decoding calibration data: %v", err)
	}
	return c, nil
}

// sigma is the dispersion of one (variable, tier) registry entry:
// either an absolute standard deviation or a coefficient of variation
// applied to the scenario's center value.
type sigma struct {
	sd, cv float64
}

type registryKey struct {
	variable string
	tier     Tier
}

// Registry maps (variable, tier) pairs to error dispersions. Centers
// are supplied per scenario at lookup time because the same tier is
// reused with different true values, for example a diluted headspace
// reading under a pure-gas scenario.
type Registry struct {
	sigmas map[registryKey]sigma
}

// NewRegistry builds a registry from calibration data.
func NewRegistry(c Calibration) (*Registry, error) {
	if len(c.Barometer.ReplicateSDs) == 0 {
		return nil, configErrorf("lakegas: calibration has no barometer replicate standard deviations")
	}
	var barometerSD float64
	for _, sd := range c.Barometer.ReplicateSDs {
		barometerSD += sd
	}
	barometerSD /= float64(len(c.Barometer.ReplicateSDs))

	r := &Registry{sigmas: make(map[registryKey]sigma)}
	add := func(variable string, tier Tier, s sigma) {
		r.sigmas[registryKey{variable, tier}] = s
	}
	add(VarHeadspace, GCStandard, sigma{sd: c.GC.ReplicateSD})
	add(VarHeadspace, GCLiterature, sigma{cv: c.GC.LiteratureCV})
	add(VarReference, GCStandard, sigma{sd: c.GC.ReplicateSD})
	add(VarReference, GCLiterature, sigma{cv: c.GC.LiteratureCV})
	add(VarTemperature, ThermometerStandard, sigma{sd: c.Thermometer.FieldSD})
	add(VarTemperature, ThermometerLabBath, sigma{sd: c.Thermometer.LabBathSD})
	add(VarPressure, Barometer, sigma{sd: barometerSD})
	add(VarWaterVolume, Volume, sigma{sd: c.Volume.SD})
	add(VarSampleRatio, MIMSStandard, sigma{cv: c.MIMS.RatioCV})
	add(VarSampleRatio, MIMSHighPrecision, sigma{cv: c.MIMS.HighPrecisionRatioCV})
	add(VarStandardRatio, MIMSStandard, sigma{cv: c.MIMS.RatioCV})
	add(VarStandardRatio, MIMSHighPrecision, sigma{cv: c.MIMS.HighPrecisionRatioCV})
	for k, s := range r.sigmas {
		if s.sd < 0 || s.cv < 0 {
			return nil, configErrorf("lakegas: calibration for %s (%s) has negative dispersion", k.variable, k.tier)
		}
	}
	return r, nil
}

// Spec returns the error specification for a variable under the given
// tier, centered on the scenario's true value for that variable.
// Coefficient-of-variation tiers scale with the magnitude of the
// center.
func (r *Registry) Spec(variable string, tier Tier, center float64) (ErrorSpec, error) {
	s, ok := r.sigmas[registryKey{variable, tier}]
	if !ok {
		return ErrorSpec{}, configErrorf("lakegas: no error model for variable %s under tier %s", variable, tier)
	}
	sd := s.sd
	if s.cv != 0 {
		sd = s.cv * center
		if sd < 0 {
			sd = -sd
		}
	}
	spec := ErrorSpec{Variable: variable, Tier: tier, Center: center, SD: sd}
	return spec, spec.check()
}
