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

// Physical constants
const (
	gasConstant   = 8.3144598 // universal gas constant [J/(K·mol)]
	zeroCelsius   = 273.15    // [K]
	referenceTemp = 298.15    // Henry's-law reference temperature [K]
)

// MolPerLToNmolPerL converts concentrations from mol/L to nmol/L,
// the customary scale for dissolved N2O.
const MolPerLToNmolPerL = 1.0e9

// Gas holds the Henry's-law parameters of a dissolved gas.
type Gas struct {
	Name string

	// Henry is the Henry's-law solubility constant at 298.15 K
	// [mol·m⁻³·Pa⁻¹].
	Henry float64

	// ReactionConstant is the temperature-dependence coefficient of
	// the Henry's-law constant [K].
	ReactionConstant float64

	// AirMoleFraction is the gas's mole fraction in ambient air
	// [μmol/mol].
	AirMoleFraction float64
}

// N2O returns the analyte gas of the survey: nitrous oxide.
func N2O() Gas {
	return Gas{Name: "N2O", Henry: 0.00024, ReactionConstant: 2700, AirMoleFraction: 0.310}
}

// Argon returns the inert carrier gas used as the MIMS reference.
func Argon() Gas {
	return Gas{Name: "Ar", Henry: 1.4e-5, ReactionConstant: 1500, AirMoleFraction: 9340}
}

// henry is the Henry's-law constant corrected from the reference
// temperature to the water temperature Tc [°C] (van 't Hoff).
func henry(H, Tc, reactionConstant float64) float64 {
	return H * math.Exp(reactionConstant*(1/(Tc+zeroCelsius)-1/referenceTemp))
}

// DissolvedConcentration calculates the dissolved gas concentration
// [mol/L] of a water sample from a headspace equilibration, using the
// mass balance between the gas dissolved in the equilibrated water and
// the gas transferred to the headspace.
//
// B is barometric pressure [kPa], Vg headspace volume [mL], Mh and Mr
// the equilibrated headspace and reference (initial headspace) gas
// mole fractions [μmol/mol], Vw water volume [mL], Tc water
// temperature [°C], H the Henry's-law constant [mol·m⁻³·Pa⁻¹] and
// reactionConstant its temperature-dependence coefficient [K].
//
// For N2O-scale use, multiply the result by MolPerLToNmolPerL.
func DissolvedConcentration(B, Vg, Mh, Mr, Vw, Tc, H, reactionConstant float64) (float64, error) {
	if Vw == 0 {
		return 0, domainErrorf("lakegas: dissolved concentration is undefined for zero water volume")
	}
	if Tc == -zeroCelsius {
		return 0, domainErrorf("lakegas: dissolved concentration is undefined at absolute zero")
	}
	headspace := Vg * (Mh - Mr) / (gasConstant * (Tc + zeroCelsius) * Vw)
	dissolved := henry(H, Tc, reactionConstant) * Mh
	return 1e-6 * B * (headspace + dissolved), nil
}

// EquilibriumConcentration calculates the dissolved gas concentration
// [mol/L] a water body would hold at equilibrium with the atmosphere.
// Ca is the gas's ambient-air mole fraction [μmol/mol]; the remaining
// arguments are as for DissolvedConcentration.
func EquilibriumConcentration(B, Ca, H, Tc, reactionConstant float64) (float64, error) {
	if Tc == -zeroCelsius {
		return 0, domainErrorf("lakegas: equilibrium concentration is undefined at absolute zero")
	}
	return 1e-6 * B * Ca * henry(H, Tc, reactionConstant), nil
}

// SaturationRatio is the ratio of an observed dissolved concentration
// to the equilibrium concentration. A ratio above 1 marks the water
// body as a net source of the gas to the atmosphere, below 1 a net
// sink. Both concentrations must be computed from the same barometric
// pressure and water temperature.
func SaturationRatio(dissolved, equilibrium float64) (float64, error) {
	if equilibrium == 0 {
		return 0, domainErrorf("lakegas: saturation ratio is undefined for zero equilibrium concentration")
	}
	return dissolved / equilibrium, nil
}

// MIMSConcentration calculates the dissolved analyte concentration
// [mol/L] from a membrane-inlet mass-spectrometer signal ratio.
// RxSample and RxStandard are the analyte:carrier signal ratios of the
// water sample and of the air-equilibrated standard. The three-factor
// form is kept unreduced so that measurement error can be applied
// independently to each factor's inputs.
func MIMSConcentration(RxSample, RxStandard, B, CaAnalyte, HAnalyte, Tc, reactionConstantAnalyte,
	CaCarrier, HCarrier, reactionConstantCarrier float64) (float64, error) {
	if RxStandard == 0 {
		return 0, domainErrorf("lakegas: MIMS concentration is undefined for zero standard signal ratio")
	}
	analyte, err := EquilibriumConcentration(B, CaAnalyte, HAnalyte, Tc, reactionConstantAnalyte)
	if err != nil {
		return 0, err
	}
	carrier, err := EquilibriumConcentration(B, CaCarrier, HCarrier, Tc, reactionConstantCarrier)
	if err != nil {
		return 0, err
	}
	if carrier == 0 {
		return 0, domainErrorf("lakegas: MIMS concentration is undefined for zero carrier equilibrium concentration")
	}
	return RxSample / RxStandard * (analyte / carrier) * carrier, nil
}

// SolveHeadspaceMoleFraction inverts DissolvedConcentration for the
// equilibrated headspace mole fraction Mh [μmol/mol] that reproduces
// the dissolved concentration C [mol/L] under the given conditions.
// It is used to derive scenario-specific headspace readings: diluting
// the headspace (raising the mixing ratio) or equilibrating against a
// pure inert gas (Mr = 0) changes the reading a gas chromatograph
// would report for the same water sample.
func SolveHeadspaceMoleFraction(C, B, Vg, Mr, Vw, Tc, H, reactionConstant float64) (float64, error) {
	if B == 0 {
		return 0, domainErrorf("lakegas: headspace mole fraction is undefined for zero barometric pressure")
	}
	if Vw == 0 {
		return 0, domainErrorf("lakegas: headspace mole fraction is undefined for zero water volume")
	}
	if Tc == -zeroCelsius {
		return 0, domainErrorf("lakegas: headspace mole fraction is undefined at absolute zero")
	}
	g := Vg / (gasConstant * (Tc + zeroCelsius) * Vw)
	denom := g + henry(H, Tc, reactionConstant)
	if denom == 0 {
		return 0, domainErrorf("lakegas: headspace mole fraction is undefined for these inputs")
	}
	return (C/(1e-6*B) + g*Mr) / denom, nil
}
