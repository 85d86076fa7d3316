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
	"hash/fnv"
	"runtime"
	"sync"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultDraws is the default Monte Carlo draw count.
const DefaultDraws = 100000

// HeadspaceMode selects the gas used to create the equilibration
// headspace.
type HeadspaceMode string

const (
	// AmbientAir headspace: the reference gas reading is the ambient
	// air mole fraction and is subtracted from the equilibrated
	// reading.
	AmbientAir HeadspaceMode = "ambientAir"

	// PureGas headspace: the vessel is flushed with an inert gas, so
	// the reference reading is fixed at zero.
	PureGas HeadspaceMode = "pureGas"
)

// Target selects the derived quantity a scenario simulates.
type Target string

const (
	TargetDissolved       Target = "dissolved"
	TargetEquilibrium     Target = "equilibrium"
	TargetSaturationRatio Target = "saturationRatio"
	TargetMIMS            Target = "mimsConcentration"
	TargetMIMSRatio       Target = "mimsSaturationRatio"
)

// inputs is one element-wise tuple of formula inputs: the i-th draw of
// every perturbed variable together with the true values of every
// fixed variable.
type inputs struct {
	pressure      float64
	temperature   float64
	waterVolume   float64
	headspace     float64
	reference     float64
	sampleRatio   float64
	standardRatio float64
}

func (in *inputs) set(variable string, v float64) {
	switch variable {
	case VarPressure:
		in.pressure = v
	case VarTemperature:
		in.temperature = v
	case VarWaterVolume:
		in.waterVolume = v
	case VarHeadspace:
		in.headspace = v
	case VarReference:
		in.reference = v
	case VarSampleRatio:
		in.sampleRatio = v
	case VarStandardRatio:
		in.standardRatio = v
	}
}

func knownVariable(variable string) bool {
	for _, v := range Variables {
		if v == variable {
			return true
		}
	}
	return false
}

// Scenario is one immutable simulation configuration: a physical
// sample, a headspace mode, a target formula, and the set of perturbed
// variables with their error specifications. Variables without a spec
// are held at their true values.
type Scenario struct {
	Name   string
	Sample PhysicalSample
	Mode   HeadspaceMode
	Target Target

	// Perturbed lists the variables that are sampled rather than held
	// fixed. Each variable may appear at most once.
	Perturbed []ErrorSpec

	// Draws is the number of Monte Carlo realizations; it must be
	// positive. Batch substitutes DefaultDraws when its own draw
	// count is unset.
	Draws int

	// Seed feeds the deterministic per-variable random substreams.
	Seed uint64

	// IndependentDraws keys the random substreams by scenario name in
	// addition to variable name. When false (the default), scenarios
	// sharing a Seed reuse the same underlying draws for each
	// variable, giving paired comparisons between scenarios that
	// differ only in one variable's error tier.
	IndependentDraws bool
}

// Result is the outcome of running one scenario: the true value, the
// simulated distribution, and its uncertainty summary.
type Result struct {
	Scenario Scenario
	True     float64
	Sims     []float64
	Summary  Summary
}

func (s *Scenario) check() error {
	if s.Draws <= 0 {
		return configErrorf("lakegas: scenario %s: draw count %d is not positive", s.Name, s.Draws)
	}
	if r := s.Sample.MixingRatio; r <= 0 || r >= 1 {
		return configErrorf("lakegas: scenario %s: mixing ratio %g is outside (0,1)", s.Name, r)
	}
	switch s.Mode {
	case AmbientAir, PureGas:
	default:
		return configErrorf("lakegas: scenario %s: unknown headspace mode %q", s.Name, s.Mode)
	}
	seen := make(map[string]bool, len(s.Perturbed))
	for _, spec := range s.Perturbed {
		if !knownVariable(spec.Variable) {
			return configErrorf("lakegas: scenario %s: unknown variable %q", s.Name, spec.Variable)
		}
		if seen[spec.Variable] {
			return configErrorf("lakegas: scenario %s: variable %s is perturbed twice", s.Name, spec.Variable)
		}
		seen[spec.Variable] = true
		if err := spec.check(); err != nil {
			return err
		}
	}
	return nil
}

// trueInputs returns the unperturbed input tuple. Perturbed variables
// take their error-spec centers, which may be scenario-specific
// substitutes for the sample's defaults; fixed variables take the
// sample's true values.
func (s *Scenario) trueInputs() inputs {
	in := inputs{
		pressure:      s.Sample.Pressure,
		temperature:   s.Sample.Temperature,
		waterVolume:   s.Sample.WaterVolume(),
		headspace:     s.Sample.HeadspaceReading,
		reference:     s.Sample.Analyte.AirMoleFraction,
		sampleRatio:   s.Sample.SampleRatio,
		standardRatio: s.Sample.StandardRatio,
	}
	if s.Mode == PureGas {
		in.reference = 0
	}
	for _, spec := range s.Perturbed {
		in.set(spec.Variable, spec.Center)
	}
	return in
}

// airMoleFraction is the analyte's ambient-air mole fraction for one
// draw. Under an ambient-air headspace the reference reading is that
// measurement and carries its draw; under a pure-gas headspace the
// reference reading is zero and the unmeasured literature value
// applies.
func (s *Scenario) airMoleFraction(in inputs) float64 {
	if s.Mode == AmbientAir {
		return in.reference
	}
	return s.Sample.Analyte.AirMoleFraction
}

// value evaluates the scenario's target formula for one input tuple.
func (s *Scenario) value(in inputs) (float64, error) {
	a, c := s.Sample.Analyte, s.Sample.Carrier
	vg := s.Sample.HeadspaceVolume()
	switch s.Target {
	case TargetDissolved:
		return DissolvedConcentration(in.pressure, vg, in.headspace, in.reference,
			in.waterVolume, in.temperature, a.Henry, a.ReactionConstant)
	case TargetEquilibrium:
		return EquilibriumConcentration(in.pressure, s.airMoleFraction(in),
			a.Henry, in.temperature, a.ReactionConstant)
	case TargetSaturationRatio:
		d, err := DissolvedConcentration(in.pressure, vg, in.headspace, in.reference,
			in.waterVolume, in.temperature, a.Henry, a.ReactionConstant)
		if err != nil {
			return 0, err
		}
		eq, err := EquilibriumConcentration(in.pressure, s.airMoleFraction(in),
			a.Henry, in.temperature, a.ReactionConstant)
		if err != nil {
			return 0, err
		}
		return SaturationRatio(d, eq)
	case TargetMIMS:
		return MIMSConcentration(in.sampleRatio, in.standardRatio, in.pressure,
			a.AirMoleFraction, a.Henry, in.temperature, a.ReactionConstant,
			c.AirMoleFraction, c.Henry, c.ReactionConstant)
	case TargetMIMSRatio:
		m, err := MIMSConcentration(in.sampleRatio, in.standardRatio, in.pressure,
			a.AirMoleFraction, a.Henry, in.temperature, a.ReactionConstant,
			c.AirMoleFraction, c.Henry, c.ReactionConstant)
		if err != nil {
			return 0, err
		}
		eq, err := EquilibriumConcentration(in.pressure, a.AirMoleFraction,
			a.Henry, in.temperature, a.ReactionConstant)
		if err != nil {
			return 0, err
		}
		return SaturationRatio(m, eq)
	default:
		return 0, configErrorf("lakegas: scenario %s: unknown target %q", s.Name, s.Target)
	}
}

// variableSeed derives the deterministic seed of one variable's draw
// substream.
func (s *Scenario) variableSeed(variable string) uint64 {
	h := fnv.New64a()
	if s.IndependentDraws {
		h.Write([]byte(s.Name))
		h.Write([]byte{0})
	}
	h.Write([]byte(variable))
	return s.Seed ^ h.Sum64()
}

// Run executes the scenario: it draws an independent Gaussian vector
// for each perturbed variable, evaluates the target formula
// element-wise so that the i-th output pairs the i-th draw of every
// variable, and summarizes the resulting distribution. Sampled values
// are not clamped; the formulas' ordinary floating-point arithmetic
// applies to whatever is drawn.
func (s Scenario) Run() (*Result, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	truth, err := s.value(s.trueInputs())
	if err != nil {
		return nil, err
	}

	n := s.Draws
	draws := make(map[string][]float64, len(s.Perturbed))
	for _, spec := range s.Perturbed {
		dist := distuv.Normal{
			Mu:    spec.Center,
			Sigma: spec.SD,
			Src:   rand.NewSource(s.variableSeed(spec.Variable)),
		}
		v := make([]float64, n)
		for i := range v {
			v[i] = dist.Rand()
		}
		draws[spec.Variable] = v
	}

	sims := make([]float64, n)
	nprocs := runtime.GOMAXPROCS(0)
	errs := make([]error, nprocs)
	var wg sync.WaitGroup
	wg.Add(nprocs)
	for pp := 0; pp < nprocs; pp++ {
		go func(pp int) {
			defer wg.Done()
			base := s.trueInputs()
			for i := pp; i < n; i += nprocs {
				in := base
				for _, spec := range s.Perturbed {
					in.set(spec.Variable, draws[spec.Variable][i])
				}
				v, err := s.value(in)
				if err != nil {
					errs[pp] = err
					return
				}
				sims[i] = v
			}
		}(pp)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return &Result{
		Scenario: s,
		True:     truth,
		Sims:     sims,
		Summary:  Summarize(truth, sims),
	}, nil
}
