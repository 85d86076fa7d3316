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
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/limnomodel/lakegas"
	"github.com/lnashier/viper"
	"github.com/spf13/cast"
)

// BatchFromConfig builds the scenario batch described by the
// configuration.
func BatchFromConfig(cfg *viper.Viper) (*lakegas.Batch, error) {
	cal := lakegas.DefaultCalibration()
	if f := cfg.GetString("CalibrationFile"); f != "" {
		r, err := os.Open(os.ExpandEnv(f))
		if err != nil {
			return nil, fmt.Errorf("lakegas: opening calibration file: %v", err)
		}
		defer r.Close()
		cal, err = lakegas.LoadCalibration(r)
		if err != nil {
			return nil, err
		}
	}
	registry, err := lakegas.NewRegistry(cal)
	if err != nil {
		return nil, err
	}

	ratios, err := mixingRatios(cfg)
	if err != nil {
		return nil, err
	}

	var obs []lakegas.Observation
	if f := cfg.GetString("ObservationFile"); f != "" {
		obs, err = ReadObservations(os.ExpandEnv(f))
		if err != nil {
			return nil, err
		}
	}

	seed := cfg.GetInt64("seed")
	if seed < 0 {
		return nil, fmt.Errorf("lakegas: seed %d is negative", seed)
	}

	return &lakegas.Batch{
		Sample:             lakegas.DefaultSample(),
		Registry:           registry,
		Draws:              cfg.GetInt("drawCount"),
		Seed:               uint64(seed),
		IndependentDraws:   cfg.GetBool("independentDraws"),
		MixingRatios:       ratios,
		HeadspaceModes:     headspaceModes(cfg.GetStringSlice("headspaceGasMode")),
		InstrumentTiers:    tiers(cfg.GetStringSlice("instrumentTier")),
		ThermometerTiers:   tiers(cfg.GetStringSlice("thermometerTier")),
		PerturbedVariables: cfg.GetStringSlice("perturbedVariables"),
		Observations:       obs,
	}, nil
}

func headspaceModes(ss []string) []lakegas.HeadspaceMode {
	out := make([]lakegas.HeadspaceMode, len(ss))
	for i, s := range ss {
		out[i] = lakegas.HeadspaceMode(s)
	}
	return out
}

func tiers(ss []string) []lakegas.Tier {
	out := make([]lakegas.Tier, len(ss))
	for i, s := range ss {
		out[i] = lakegas.Tier(s)
	}
	return out
}

// mixingRatios parses the configured mixing-ratio list.
func mixingRatios(cfg *viper.Viper) ([]float64, error) {
	ss := cfg.GetStringSlice("mixingRatios")
	if len(ss) == 0 {
		return nil, nil
	}
	out := make([]float64, len(ss))
	for i, s := range ss {
		v, err := cast.ToFloat64E(s)
		if err != nil {
			return nil, fmt.Errorf("lakegas: parsing mixing ratio %q: %v", s, err)
		}
		out[i] = v
	}
	return out, nil
}

// outputVariables returns the derived output-column expressions,
// accounting for the fact that the option might be a json object if
// it was set from a command line argument.
func outputVariables(cfg *viper.Viper) map[string]string {
	i := cfg.Get("OutputVariables")
	switch i.(type) {
	case nil:
		return nil
	case map[string]string:
		return i.(map[string]string)
	case map[string]interface{}:
		return cast.ToStringMapString(i)
	case string:
		b := bytes.NewBuffer(([]byte)(i.(string)))
		d := json.NewDecoder(b)
		o := make(map[string]string)
		if err := d.Decode(&o); err != nil {
			panic(err)
		}
		return o
	default:
		panic(fmt.Errorf("invalid type for OutputVariables: %#v", i))
	}
}
