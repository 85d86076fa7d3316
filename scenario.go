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

import "fmt"

// DefaultMixingRatios are the headspace mixing ratios compared by the
// survey: three design levels plus the field-protocol value 0.25.
var DefaultMixingRatios = []float64{0.1, 0.25, 0.5, 0.9}

// Batch enumerates and runs the scenario cross-product of interest:
// headspace gas mode × gas-chromatograph tier × thermometer tier ×
// mixing ratio for the headspace-equilibration method, and
// mass-spectrometer tier × thermometer tier for the MIMS method.
type Batch struct {
	// Sample is the reference physical setup; every scenario is a
	// variant of it.
	Sample PhysicalSample

	Registry *Registry

	// Draws per scenario; DefaultDraws if zero.
	Draws int

	Seed             uint64
	IndependentDraws bool

	// MixingRatios to enumerate for headspace scenarios;
	// DefaultMixingRatios if nil.
	MixingRatios []float64

	// HeadspaceModes restricts the headspace-equilibration scenarios
	// to the named gas modes. Empty means both. MIMS scenarios are
	// selected through InstrumentTiers, not through this list.
	HeadspaceModes []HeadspaceMode

	// InstrumentTiers restricts which gas-analysis instrument tiers
	// are enumerated, across both the GC and MIMS methods. Empty
	// means all four.
	InstrumentTiers []Tier

	// ThermometerTiers restricts which thermometer tiers are
	// enumerated. Empty means both.
	ThermometerTiers []Tier

	// PerturbedVariables restricts which variables are sampled. Nil
	// means all observables of each scenario's formula.
	PerturbedVariables []string

	// Observations is the empirical dataset to classify under each
	// saturation-ratio scenario. May be nil.
	Observations []Observation
}

// BatchResult collects the outcome of a batch run. A failed scenario
// appears in Errors under its name and does not abort its siblings.
type BatchResult struct {
	Results    []*Result
	Classified map[string][]ClassifiedObservation
	Errors     map[string]error
}

func (b *Batch) draws() int {
	if b.Draws == 0 {
		return DefaultDraws
	}
	return b.Draws
}

func (b *Batch) mixingRatios() []float64 {
	if b.MixingRatios == nil {
		return DefaultMixingRatios
	}
	return b.MixingRatios
}

// headspaceModes returns the headspace gas modes to enumerate.
func (b *Batch) headspaceModes() ([]HeadspaceMode, error) {
	all := []HeadspaceMode{AmbientAir, PureGas}
	if len(b.HeadspaceModes) == 0 {
		return all, nil
	}
	for _, w := range b.HeadspaceModes {
		switch w {
		case AmbientAir, PureGas:
		default:
			return nil, configErrorf("lakegas: unknown headspace mode %q", w)
		}
	}
	var out []HeadspaceMode
	for _, m := range all {
		for _, w := range b.HeadspaceModes {
			if m == w {
				out = append(out, m)
				break
			}
		}
	}
	return out, nil
}

func tierIn(t Tier, ts []Tier) bool {
	for _, c := range ts {
		if c == t {
			return true
		}
	}
	return false
}

// restrictTiers keeps the members of all that appear in want, or all
// of them when want is empty.
func restrictTiers(all, want []Tier) []Tier {
	if len(want) == 0 {
		return all
	}
	var out []Tier
	for _, t := range all {
		if tierIn(t, want) {
			out = append(out, t)
		}
	}
	return out
}

// wanted reports whether a variable is in the batch's perturbation
// set.
func (b *Batch) wanted(variable string) bool {
	if len(b.PerturbedVariables) == 0 {
		return true
	}
	for _, v := range b.PerturbedVariables {
		if v == variable {
			return true
		}
	}
	return false
}

// filter drops the specs the batch does not perturb.
func (b *Batch) filter(specs []ErrorSpec) []ErrorSpec {
	var out []ErrorSpec
	for _, s := range specs {
		if b.wanted(s.Variable) {
			out = append(out, s)
		}
	}
	return out
}

func (b *Batch) scenario(name string, sample PhysicalSample, mode HeadspaceMode,
	target Target, specs []ErrorSpec) Scenario {
	return Scenario{
		Name:             name,
		Sample:           sample,
		Mode:             mode,
		Target:           target,
		Perturbed:        b.filter(specs),
		Draws:            b.draws(),
		Seed:             b.Seed,
		IndependentDraws: b.IndependentDraws,
	}
}

// Scenarios enumerates the batch's scenario cross-product. Headspace
// scenarios simulate the dissolved concentration, and additionally the
// saturation ratio under an ambient-air headspace; MIMS scenarios
// simulate the signal-ratio concentration and its saturation ratio.
// The headspace reading's true center is re-derived for every mixing
// ratio and headspace mode so that all scenarios describe the same
// water sample.
func (b *Batch) Scenarios() ([]Scenario, error) {
	if b.Registry == nil {
		return nil, configErrorf("lakegas: batch has no error-model registry")
	}
	dissolvedTrue, err := b.Sample.TrueDissolved()
	if err != nil {
		return nil, err
	}
	saturationTrue, err := b.Sample.TrueSaturationRatio()
	if err != nil {
		return nil, err
	}

	modes, err := b.headspaceModes()
	if err != nil {
		return nil, err
	}
	gcTiers := []Tier{GCStandard, GCLiterature}
	thermTiers := []Tier{ThermometerStandard, ThermometerLabBath}
	mimsTiers := []Tier{MIMSStandard, MIMSHighPrecision}
	for _, w := range b.InstrumentTiers {
		if !tierIn(w, gcTiers) && !tierIn(w, mimsTiers) {
			return nil, configErrorf("lakegas: unknown instrument tier %q", w)
		}
	}
	for _, w := range b.ThermometerTiers {
		if !tierIn(w, thermTiers) {
			return nil, configErrorf("lakegas: unknown thermometer tier %q", w)
		}
	}
	gcTiers = restrictTiers(gcTiers, b.InstrumentTiers)
	mimsTiers = restrictTiers(mimsTiers, b.InstrumentTiers)
	thermTiers = restrictTiers(thermTiers, b.ThermometerTiers)

	var scenarios []Scenario

	for _, mode := range modes {
		for _, gc := range gcTiers {
			for _, therm := range thermTiers {
				for _, rm := range b.mixingRatios() {
					sample := b.Sample
					sample.MixingRatio = rm

					refCenter := sample.Analyte.AirMoleFraction
					if mode == PureGas {
						refCenter = 0
					}
					// Inverting for the reading needs a mixing ratio in
					// (0,1); the scenario's own validation reports
					// values outside it.
					if rm > 0 && rm < 1 {
						mh, err := SolveHeadspaceMoleFraction(dissolvedTrue, sample.Pressure,
							sample.HeadspaceVolume(), refCenter, sample.WaterVolume(),
							sample.Temperature, sample.Analyte.Henry, sample.Analyte.ReactionConstant)
						if err != nil {
							return nil, err
						}
						sample.HeadspaceReading = mh
					}

					specs, err := b.headspaceSpecs(sample, mode, gc, therm, refCenter)
					if err != nil {
						return nil, err
					}

					targets := []Target{TargetDissolved}
					if mode == AmbientAir {
						targets = append(targets, TargetSaturationRatio)
					}
					for _, target := range targets {
						name := fmt.Sprintf("%s/%s/%s/mix=%g/%s", mode, gc, therm, rm, target)
						scenarios = append(scenarios, b.scenario(name, sample, mode, target, specs))
					}
				}
			}
		}
	}

	for _, mims := range mimsTiers {
		for _, therm := range thermTiers {
			sample := b.Sample
			sample.SampleRatio = sample.StandardRatio * saturationTrue

			specs, err := b.mimsSpecs(sample, mims, therm)
			if err != nil {
				return nil, err
			}

			for _, target := range []Target{TargetMIMS, TargetMIMSRatio} {
				name := fmt.Sprintf("MIMS/%s/%s/%s", mims, therm, target)
				scenarios = append(scenarios, b.scenario(name, sample, AmbientAir, target, specs))
			}
		}
	}
	return scenarios, nil
}

// headspaceSpecs assembles the "all observables" error set of a
// headspace-equilibration scenario. The reference reading is only an
// observable under an ambient-air headspace; a pure-gas headspace
// fixes it at zero.
func (b *Batch) headspaceSpecs(sample PhysicalSample, mode HeadspaceMode,
	gc, therm Tier, refCenter float64) ([]ErrorSpec, error) {
	var specs []ErrorSpec
	for _, lookup := range []struct {
		variable string
		tier     Tier
		center   float64
	}{
		{VarPressure, Barometer, sample.Pressure},
		{VarTemperature, therm, sample.Temperature},
		{VarWaterVolume, Volume, sample.WaterVolume()},
		{VarHeadspace, gc, sample.HeadspaceReading},
		{VarReference, gc, refCenter},
	} {
		if lookup.variable == VarReference && mode == PureGas {
			continue
		}
		spec, err := b.Registry.Spec(lookup.variable, lookup.tier, lookup.center)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// mimsSpecs assembles the "all observables" error set of a MIMS
// scenario.
func (b *Batch) mimsSpecs(sample PhysicalSample, mims, therm Tier) ([]ErrorSpec, error) {
	var specs []ErrorSpec
	for _, lookup := range []struct {
		variable string
		tier     Tier
		center   float64
	}{
		{VarPressure, Barometer, sample.Pressure},
		{VarTemperature, therm, sample.Temperature},
		{VarSampleRatio, mims, sample.SampleRatio},
		{VarStandardRatio, mims, sample.StandardRatio},
	} {
		spec, err := b.Registry.Spec(lookup.variable, lookup.tier, lookup.center)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Run executes every scenario in the batch, summarizing each and
// classifying the empirical dataset under each saturation-ratio
// scenario. Scenario failures are collected per scenario; the batch
// itself fails only if it cannot be enumerated.
func (b *Batch) Run() (*BatchResult, error) {
	scenarios, err := b.Scenarios()
	if err != nil {
		return nil, err
	}
	out := &BatchResult{
		Classified: make(map[string][]ClassifiedObservation),
		Errors:     make(map[string]error),
	}
	for _, s := range scenarios {
		r, err := s.Run()
		if err != nil {
			out.Errors[s.Name] = err
			continue
		}
		out.Results = append(out.Results, r)
		if len(b.Observations) > 0 &&
			(s.Target == TargetSaturationRatio || s.Target == TargetMIMSRatio) {
			out.Classified[s.Name] = Classify(b.Observations, r.Summary.HalfWidth())
		}
	}
	return out, nil
}
