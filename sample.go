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

// PhysicalSample describes the true, unperturbed state of one
// measurement context: the water sample, the vessel it was
// equilibrated in, and the ambient conditions. Values are immutable
// per scenario; scenarios derive variants (different mixing ratio,
// pure-gas headspace) by copying.
type PhysicalSample struct {
	Pressure     float64 // barometric pressure [kPa]
	Temperature  float64 // water temperature [°C]
	VesselVolume float64 // total vessel volume [mL]

	// MixingRatio is the fraction of the vessel volume occupied by
	// headspace gas; the remainder is water. Must lie in (0, 1).
	MixingRatio float64

	// HeadspaceReading is the equilibrated headspace gas mole
	// fraction a gas chromatograph reports for this sample at
	// MixingRatio with an ambient-air headspace [μmol/mol].
	HeadspaceReading float64

	// SampleRatio and StandardRatio are the analyte:carrier
	// mass-spectrometer signal ratios of the water sample and of an
	// air-equilibrated standard.
	SampleRatio   float64
	StandardRatio float64

	Analyte Gas
	Carrier Gas
}

// DefaultSample returns the reference physical setup of the survey's
// field protocol.
func DefaultSample() PhysicalSample {
	p := PhysicalSample{
		Pressure:         99,
		Temperature:      23,
		VesselVolume:     140,
		MixingRatio:      0.25,
		HeadspaceReading: 0.307,
		StandardRatio:    1,
		Analyte:          N2O(),
		Carrier:          Argon(),
	}
	// The true MIMS sample ratio is fixed by the sample's saturation
	// ratio relative to the air-equilibrated standard.
	if s, err := p.TrueSaturationRatio(); err == nil {
		p.SampleRatio = p.StandardRatio * s
	}
	return p
}

// HeadspaceVolume is the gas-phase volume of the vessel [mL].
func (p PhysicalSample) HeadspaceVolume() float64 {
	return p.VesselVolume * p.MixingRatio
}

// WaterVolume is the liquid-phase volume of the vessel [mL].
func (p PhysicalSample) WaterVolume() float64 {
	return p.VesselVolume * (1 - p.MixingRatio)
}

// TrueDissolved is the sample's dissolved analyte concentration
// [mol/L] computed from the unperturbed inputs.
func (p PhysicalSample) TrueDissolved() (float64, error) {
	return DissolvedConcentration(p.Pressure, p.HeadspaceVolume(), p.HeadspaceReading,
		p.Analyte.AirMoleFraction, p.WaterVolume(), p.Temperature,
		p.Analyte.Henry, p.Analyte.ReactionConstant)
}

// TrueEquilibrium is the analyte concentration [mol/L] at equilibrium
// with the atmosphere under the sample's ambient conditions.
func (p PhysicalSample) TrueEquilibrium() (float64, error) {
	return EquilibriumConcentration(p.Pressure, p.Analyte.AirMoleFraction,
		p.Analyte.Henry, p.Temperature, p.Analyte.ReactionConstant)
}

// TrueSaturationRatio is the sample's saturation ratio computed from
// the unperturbed inputs.
func (p PhysicalSample) TrueSaturationRatio() (float64, error) {
	d, err := p.TrueDissolved()
	if err != nil {
		return 0, err
	}
	eq, err := p.TrueEquilibrium()
	if err != nil {
		return 0, err
	}
	return SaturationRatio(d, eq)
}
