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

package lakegasutil

import (
	"testing"

	"github.com/limnomodel/lakegas"
)

func TestBatchFromConfigDefaults(t *testing.T) {
	b, err := BatchFromConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if b.Draws != lakegas.DefaultDraws {
		t.Errorf("draws = %d, want %d", b.Draws, lakegas.DefaultDraws)
	}
	want := []float64{0.1, 0.25, 0.5, 0.9}
	if len(b.MixingRatios) != len(want) {
		t.Fatalf("mixing ratios = %v, want %v", b.MixingRatios, want)
	}
	for i := range want {
		if b.MixingRatios[i] != want[i] {
			t.Errorf("mixing ratios = %v, want %v", b.MixingRatios, want)
			break
		}
	}
	if len(b.Observations) != 0 {
		t.Errorf("got %d observations, want none by default", len(b.Observations))
	}
	if b.Registry == nil {
		t.Error("batch has no registry")
	}
}

func TestBatchFromConfigFiles(t *testing.T) {
	Cfg.Set("CalibrationFile", "testdata/calibration.toml")
	Cfg.Set("ObservationFile", "testdata/observations.csv")
	Cfg.Set("drawCount", 300)
	Cfg.Set("mixingRatios", []string{"0.25"})
	defer func() {
		Cfg.Set("CalibrationFile", "")
		Cfg.Set("ObservationFile", "")
		Cfg.Set("drawCount", lakegas.DefaultDraws)
		Cfg.Set("mixingRatios", []string{"0.1", "0.25", "0.5", "0.9"})
	}()

	b, err := BatchFromConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if b.Draws != 300 {
		t.Errorf("draws = %d, want 300", b.Draws)
	}
	if len(b.Observations) != 5 {
		t.Errorf("got %d observations, want 5", len(b.Observations))
	}
	if len(b.MixingRatios) != 1 || b.MixingRatios[0] != 0.25 {
		t.Errorf("mixing ratios = %v, want [0.25]", b.MixingRatios)
	}

	out, err := b.Run()
	if err != nil {
		t.Fatal(err)
	}
	if len(out.Errors) != 0 {
		t.Fatalf("scenario failures: %v", out.Errors)
	}
	if len(out.Classified) == 0 {
		t.Error("expected classifications for the loaded observations")
	}
	for _, obs := range out.Classified {
		var flagged int
		for _, o := range obs {
			if o.Err != nil {
				flagged++
			}
		}
		if flagged != 1 {
			t.Errorf("flagged %d records, want 1 (the blank ratio)", flagged)
		}
	}
}

func TestBatchFromConfigSelections(t *testing.T) {
	Cfg.Set("headspaceGasMode", []string{"ambientAir"})
	Cfg.Set("instrumentTier", []string{"GC-standard"})
	Cfg.Set("thermometerTier", []string{"thermometer-lab-bath"})
	defer func() {
		Cfg.Set("headspaceGasMode", []string{})
		Cfg.Set("instrumentTier", []string{})
		Cfg.Set("thermometerTier", []string{})
	}()

	b, err := BatchFromConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(b.HeadspaceModes) != 1 || b.HeadspaceModes[0] != lakegas.AmbientAir {
		t.Errorf("headspace modes = %v, want [ambientAir]", b.HeadspaceModes)
	}
	if len(b.InstrumentTiers) != 1 || b.InstrumentTiers[0] != lakegas.GCStandard {
		t.Errorf("instrument tiers = %v, want [GC-standard]", b.InstrumentTiers)
	}
	if len(b.ThermometerTiers) != 1 || b.ThermometerTiers[0] != lakegas.ThermometerLabBath {
		t.Errorf("thermometer tiers = %v, want [thermometer-lab-bath]", b.ThermometerTiers)
	}

	scenarios, err := b.Scenarios()
	if err != nil {
		t.Fatal(err)
	}
	// One ambient-air combination per default mixing ratio, two
	// targets each; no MIMS tier is selected.
	if want := 2 * len(b.MixingRatios); len(scenarios) != want {
		t.Errorf("got %d scenarios, want %d", len(scenarios), want)
	}
}

func TestOutputVariablesDefault(t *testing.T) {
	vars := outputVariables(Cfg)
	if vars["cv"] != "sd / trueValue" {
		t.Errorf("output variables = %v", vars)
	}
}

func TestMixingRatioParseError(t *testing.T) {
	Cfg.Set("mixingRatios", []string{"a quarter"})
	defer Cfg.Set("mixingRatios", []string{"0.1", "0.25", "0.5", "0.9"})
	if _, err := BatchFromConfig(Cfg); err == nil {
		t.Fatal("expected an error for an unparseable mixing ratio")
	}
}
