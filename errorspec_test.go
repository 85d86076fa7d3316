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
	"strings"
	"testing"
)

func TestLoadCalibration(t *testing.T) {
	const data = `
[GC]
ReplicateSD = 0.004
LiteratureCV = 0.002

[Thermometer]
FieldSD = 0.2
LabBathSD = 0.02

[Barometer]
ReplicateSDs = [0.05, 0.07]

[Volume]
SD = 1.5

[MIMS]
RatioCV = 0.012
HighPrecisionRatioCV = 0.004
`
	c, err := LoadCalibration(strings.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	if c.GC.ReplicateSD != 0.004 {
		t.Errorf("GC replicate sd = %g, want 0.004", c.GC.ReplicateSD)
	}
	if c.Thermometer.LabBathSD != 0.02 {
		t.Errorf("lab bath sd = %g, want 0.02", c.Thermometer.LabBathSD)
	}
	if len(c.Barometer.ReplicateSDs) != 2 {
		t.Errorf("barometer replicate sds = %v, want two entries", c.Barometer.ReplicateSDs)
	}
	if c.MIMS.HighPrecisionRatioCV != 0.004 {
		t.Errorf("MIMS high-precision CV = %g, want 0.004", c.MIMS.HighPrecisionRatioCV)
	}
}

func TestRegistryBarometerPanel(t *testing.T) {
	r, err := NewRegistry(DefaultCalibration())
	if err != nil {
		t.Fatal(err)
	}
	spec, err := r.Spec(VarPressure, Barometer, 99)
	if err != nil {
		t.Fatal(err)
	}
	want := (0.046 + 0.078 + 0.035 + 0.061) / 4
	if math.Abs(spec.SD-want) > 1e-12 {
		t.Errorf("barometer sd = %g, want the panel mean %g", spec.SD, want)
	}
	if spec.Center != 99 {
		t.Errorf("barometer center = %g, want 99", spec.Center)
	}
}

func TestRegistryTiers(t *testing.T) {
	r, err := NewRegistry(DefaultCalibration())
	if err != nil {
		t.Fatal(err)
	}
	cases := []struct {
		variable string
		tier     Tier
		center   float64
		wantSD   float64
	}{
		{VarHeadspace, GCStandard, 0.307, 0.0031},
		{VarHeadspace, GCLiterature, 0.307, 0.001 * 0.307},
		{VarReference, GCStandard, 0.310, 0.0031},
		{VarTemperature, ThermometerStandard, 23, 0.1},
		{VarTemperature, ThermometerLabBath, 23, 0.01},
		{VarWaterVolume, Volume, 105, 1},
		{VarSampleRatio, MIMSStandard, 0.985, 0.01 * 0.985},
		{VarStandardRatio, MIMSHighPrecision, 1, 0.003},
	}
	for _, tc := range cases {
		spec, err := r.Spec(tc.variable, tc.tier, tc.center)
		if err != nil {
			t.Errorf("%s (%s): %v", tc.variable, tc.tier, err)
			continue
		}
		if math.Abs(spec.SD-tc.wantSD) > 1e-12 {
			t.Errorf("%s (%s): sd = %g, want %g", tc.variable, tc.tier, spec.SD, tc.wantSD)
		}
	}
}

func TestRegistryUnknownPair(t *testing.T) {
	r, err := NewRegistry(DefaultCalibration())
	if err != nil {
		t.Fatal(err)
	}
	_, err = r.Spec(VarTemperature, GCStandard, 23)
	if err == nil {
		t.Fatal("expected an error for a temperature reading under a GC tier")
	}
	if _, ok := err.(*ConfigurationError); !ok {
		t.Errorf("error is %T, want *ConfigurationError", err)
	}
}

func TestRegistryRejectsNegativeSD(t *testing.T) {
	c := DefaultCalibration()
	c.Thermometer.FieldSD = -0.1
	if _, err := NewRegistry(c); err == nil {
		t.Fatal("expected an error for a negative calibration standard deviation")
	}
}

func TestRegistryCVNegativeCenter(t *testing.T) {
	r, err := NewRegistry(DefaultCalibration())
	if err != nil {
		t.Fatal(err)
	}
	// A coefficient of variation applied to a negative center must
	// still give a non-negative standard deviation.
	spec, err := r.Spec(VarSampleRatio, MIMSStandard, -0.5)
	if err != nil {
		t.Fatal(err)
	}
	if spec.SD < 0 {
		t.Errorf("sd = %g, want non-negative", spec.SD)
	}
}
