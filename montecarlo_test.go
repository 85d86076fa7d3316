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
	"math"
	"testing"
)

func testScenario(perturbed []ErrorSpec) Scenario {
	return Scenario{
		Name:      "test",
		Sample:    DefaultSample(),
		Mode:      AmbientAir,
		Target:    TargetDissolved,
		Perturbed: perturbed,
		Draws:     2000,
		Seed:      1,
	}
}

// A scenario that perturbs a single variable whose center equals its
// true value must be unbiased: the mean absolute error converges to
// zero within the Monte Carlo standard error.
func TestSimulationUnbiasedness(t *testing.T) {
	s := testScenario([]ErrorSpec{{
		Variable: VarPressure,
		Tier:     Barometer,
		Center:   99,
		SD:       0.055,
	}})
	s.Draws = DefaultDraws

	r, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	var mean float64
	for _, e := range AbsoluteError(r.True, r.Sims) {
		mean += e
	}
	mean /= float64(len(r.Sims))

	bound := 3 * r.Summary.SD / math.Sqrt(float64(s.Draws))
	if math.Abs(mean) > bound {
		t.Errorf("mean absolute error = %g, want within ±%g of 0", mean, bound)
	}
}

func TestNoPerturbation(t *testing.T) {
	s := testScenario(nil)
	r, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Sims) != s.Draws {
		t.Fatalf("got %d draws, want %d", len(r.Sims), s.Draws)
	}
	for i, v := range r.Sims {
		if v != r.True {
			t.Fatalf("draw %d = %g, want the true value %g", i, v, r.True)
		}
	}
	if r.Summary.SD != 0 {
		t.Errorf("sd = %g, want 0", r.Summary.SD)
	}
}

func TestRunDeterminism(t *testing.T) {
	spec := ErrorSpec{Variable: VarTemperature, Tier: ThermometerStandard, Center: 23, SD: 0.1}
	s := testScenario([]ErrorSpec{spec})

	r1, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	r2, err := s.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i := range r1.Sims {
		if r1.Sims[i] != r2.Sims[i] {
			t.Fatalf("draw %d differs between identical runs", i)
		}
	}
}

// Two scenarios with different names but the same seed share each
// variable's underlying draws, so comparisons between them are paired.
// Setting IndependentDraws breaks the pairing.
func TestPairedDraws(t *testing.T) {
	spec := ErrorSpec{Variable: VarPressure, Tier: Barometer, Center: 99, SD: 0.055}

	a := testScenario([]ErrorSpec{spec})
	a.Name = "standard thermometer"
	b := testScenario([]ErrorSpec{spec})
	b.Name = "lab-bath thermometer"

	ra, err := a.Run()
	if err != nil {
		t.Fatal(err)
	}
	rb, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	for i := range ra.Sims {
		if ra.Sims[i] != rb.Sims[i] {
			t.Fatalf("draw %d differs between paired scenarios", i)
		}
	}

	a.IndependentDraws = true
	b.IndependentDraws = true
	ra, err = a.Run()
	if err != nil {
		t.Fatal(err)
	}
	rb, err = b.Run()
	if err != nil {
		t.Fatal(err)
	}
	same := 0
	for i := range ra.Sims {
		if ra.Sims[i] == rb.Sims[i] {
			same++
		}
	}
	if same == len(ra.Sims) {
		t.Error("independent scenarios shared every draw")
	}
}

// Changing only a variable's standard deviation must reuse the same
// standard-normal draws scaled differently: the sign of each draw's
// deviation from center is preserved.
func TestPairedTierSwap(t *testing.T) {
	coarse := testScenario([]ErrorSpec{{Variable: VarTemperature, Tier: ThermometerStandard, Center: 23, SD: 0.1}})
	fine := testScenario([]ErrorSpec{{Variable: VarTemperature, Tier: ThermometerLabBath, Center: 23, SD: 0.01}})
	coarse.Target = TargetEquilibrium
	fine.Target = TargetEquilibrium

	rc, err := coarse.Run()
	if err != nil {
		t.Fatal(err)
	}
	rf, err := fine.Run()
	if err != nil {
		t.Fatal(err)
	}
	// Equilibrium concentration decreases with temperature, so the
	// per-draw deviations must agree in sign between the two tiers.
	for i := range rc.Sims {
		dc := rc.Sims[i] - rc.True
		df := rf.Sims[i] - rf.True
		if dc*df < 0 {
			t.Fatalf("draw %d deviates in opposite directions across tiers", i)
		}
	}
}

func TestScenarioValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Scenario)
	}{
		{"zero draws", func(s *Scenario) { s.Draws = 0 }},
		{"negative draws", func(s *Scenario) { s.Draws = -5 }},
		{"mixing ratio zero", func(s *Scenario) { s.Sample.MixingRatio = 0 }},
		{"mixing ratio one", func(s *Scenario) { s.Sample.MixingRatio = 1 }},
		{"mixing ratio above one", func(s *Scenario) { s.Sample.MixingRatio = 1.5 }},
		{"unknown mode", func(s *Scenario) { s.Mode = "helium" }},
		{"negative sd", func(s *Scenario) {
			s.Perturbed = []ErrorSpec{{Variable: VarPressure, Center: 99, SD: -1}}
		}},
		{"unknown variable", func(s *Scenario) {
			s.Perturbed = []ErrorSpec{{Variable: "humidity", Center: 0, SD: 1}}
		}},
		{"duplicate variable", func(s *Scenario) {
			s.Perturbed = []ErrorSpec{
				{Variable: VarPressure, Center: 99, SD: 0.05},
				{Variable: VarPressure, Center: 99, SD: 0.06},
			}
		}},
	}
	for _, tc := range cases {
		s := testScenario(nil)
		tc.mutate(&s)
		_, err := s.Run()
		if err == nil {
			t.Errorf("%s: expected an error", tc.name)
			continue
		}
		if _, ok := err.(*ConfigurationError); !ok {
			t.Errorf("%s: error is %T, want *ConfigurationError", tc.name, err)
		}
	}
}

// The engine must pair the i-th draw of every perturbed variable. With
// pressure perturbed and the target switched between dissolved and
// equilibrium concentration, the per-draw pressure deviations must
// line up: the ratio target built from both must then show less
// spread than either concentration alone, because shared pressure
// error cancels in the ratio.
func TestSharedPressureCancelsInRatio(t *testing.T) {
	spec := ErrorSpec{Variable: VarPressure, Tier: Barometer, Center: 99, SD: 0.5}

	conc := testScenario([]ErrorSpec{spec})
	conc.Draws = 20000
	ratio := conc
	ratio.Target = TargetSaturationRatio

	rc, err := conc.Run()
	if err != nil {
		t.Fatal(err)
	}
	rr, err := ratio.Run()
	if err != nil {
		t.Fatal(err)
	}
	relConc := rc.Summary.SD / rc.True
	relRatio := rr.Summary.SD / rr.True
	if relRatio > relConc/10 {
		t.Errorf("relative sd of ratio = %g, concentration = %g; pressure error should cancel in the ratio",
			relRatio, relConc)
	}
}
