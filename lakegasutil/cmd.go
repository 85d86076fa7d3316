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

// Package lakegasutil provides the command-line interface and
// configuration wiring for the LakeGas uncertainty model.
package lakegasutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/limnomodel/lakegas"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var log = logrus.New()

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to LakeGas.
	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name: "config",
			usage: `
              config specifies the configuration file location.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "drawCount",
			usage: `
              drawCount is the number of Monte Carlo realizations per
              scenario. Smaller values run faster at the cost of
              precision in the resulting uncertainty estimates.`,
			shorthand:  "n",
			defaultVal: lakegas.DefaultDraws,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), scenariosCmd.Flags()},
		},
		{
			name: "seed",
			usage: `
              seed feeds the deterministic random substreams, so runs
              with the same seed are reproducible.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "independentDraws",
			usage: `
              independentDraws redraws every variable independently per
              scenario instead of sharing draws across scenarios for
              paired comparisons.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "mixingRatios",
			usage: `
              mixingRatios lists the headspace gas/water mixing ratios
              to enumerate, each in (0,1).`,
			defaultVal: []string{"0.1", "0.25", "0.5", "0.9"},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), scenariosCmd.Flags()},
		},
		{
			name: "headspaceGasMode",
			usage: `
              headspaceGasMode restricts the headspace-equilibration
              scenarios to the named gas modes, ambientAir or pureGas.
              An empty list enumerates both.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), scenariosCmd.Flags()},
		},
		{
			name: "instrumentTier",
			usage: `
              instrumentTier restricts the gas-analysis instrument
              tiers to enumerate: GC-standard, GC-literature-precision,
              MIMS-standard-GC-calibration or
              MIMS-high-precision-GC-calibration. An empty list
              enumerates all four.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), scenariosCmd.Flags()},
		},
		{
			name: "thermometerTier",
			usage: `
              thermometerTier restricts the thermometer tiers to
              enumerate: thermometer-standard or thermometer-lab-bath.
              An empty list enumerates both.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), scenariosCmd.Flags()},
		},
		{
			name: "perturbedVariables",
			usage: `
              perturbedVariables restricts which variables are sampled.
              An empty list perturbs all observables of each scenario.`,
			defaultVal: []string{},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "CalibrationFile",
			usage: `
              CalibrationFile is the path to a TOML file of instrument
              calibration data. If empty, the reference survey's
              calibration is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags(), scenariosCmd.Flags()},
		},
		{
			name: "ObservationFile",
			usage: `
              ObservationFile is the path to the empirical site-visit
              dataset (CSV or XLSX) to classify under each
              saturation-ratio scenario. If empty, no classification is
              performed.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "OutputFile",
			usage: `
              OutputFile is the path to which scenario uncertainty
              summaries are written as CSV.`,
			defaultVal: "lakegas_results.csv",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "ClassificationFile",
			usage: `
              ClassificationFile is the path to which per-scenario
              source/sink classifications are written as CSV. If empty,
              classifications are not written.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
		{
			name: "OutputVariables",
			usage: `
              OutputVariables specifies additional derived output
              columns as expressions of the summary fields trueValue,
              mean, sd, normalLow, normalHigh, empiricalLow,
              empiricalHigh and halfWidth.`,
			defaultVal: map[string]string{"cv": "sd / trueValue"},
			flagsets:   []*pflag.FlagSet{runCmd.PersistentFlags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables.
	Cfg.SetEnvPrefix("LAKEGAS")

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 { // We don't want to create the same flag twice.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, option.defaultVal.(string), option.usage)
				} else {
					set.StringP(option.name, option.shorthand, option.defaultVal.(string), option.usage)
				}
			case []string:
				if option.shorthand == "" {
					set.StringSlice(option.name, option.defaultVal.([]string), option.usage)
				} else {
					set.StringSliceP(option.name, option.shorthand, option.defaultVal.([]string), option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, option.defaultVal.(int), option.usage)
				} else {
					set.IntP(option.name, option.shorthand, option.defaultVal.(int), option.usage)
				}
			case map[string]string:
				b := bytes.NewBuffer(nil)
				e := json.NewEncoder(b)
				e.Encode(option.defaultVal)
				s := string(b.Bytes())
				if option.shorthand == "" {
					set.String(option.name, s, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, s, option.usage)
				}
			default:
				panic("invalid argument type")
			}
			Cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}
}

func init() {
	// Link the commands together.
	Root.AddCommand(versionCmd)
	Root.AddCommand(runCmd)
	Root.AddCommand(scenariosCmd)
}

// setConfig finds and reads in the configuration file, if there is
// one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(cfgpath)
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("lakegas: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "lakegas",
	Short: "A dissolved-gas measurement uncertainty model.",
	Long: `LakeGas propagates instrument measurement error through dissolved
nitrous oxide concentration calculations for lake survey data using
Monte Carlo simulation, and reclassifies sites whose source/sink
status is within the measurement error as undetermined.

Configuration can be changed by using a configuration file (and
providing the path to the file using the --config flag), by using
command-line arguments, or by setting environment variables in the
format 'LAKEGAS_var' where 'var' is the name of the variable to be
set.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(*cobra.Command, []string) error { return setConfig() },
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of LakeGas.",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Printf("LakeGas v%s\n", lakegas.Version)
	},
	DisableAutoGenTag: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scenario batch.",
	Long: `run simulates every instrument and headspace configuration of
interest, writes the per-scenario uncertainty summaries, and, if an
observation dataset is configured, classifies each site visit under
each saturation-ratio scenario.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Run(Cfg)
	},
	DisableAutoGenTag: true,
}

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenarios a run would simulate.",
	Long: `scenarios enumerates the scenario cross-product under the current
configuration without running any simulations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := BatchFromConfig(Cfg)
		if err != nil {
			return err
		}
		scenarios, err := b.Scenarios()
		if err != nil {
			return err
		}
		for _, s := range scenarios {
			cmd.Println(s.Name)
		}
		return nil
	},
	DisableAutoGenTag: true,
}

// Run builds the batch described by the configuration, runs it, and
// writes the outputs.
func Run(cfg *viper.Viper) error {
	b, err := BatchFromConfig(cfg)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"draws":        b.Draws,
		"observations": len(b.Observations),
	}).Info("starting scenario batch")

	out, err := b.Run()
	if err != nil {
		return err
	}
	for name, err := range out.Errors {
		log.WithFields(logrus.Fields{"scenario": name}).Error(err)
	}
	log.WithFields(logrus.Fields{
		"succeeded": len(out.Results),
		"failed":    len(out.Errors),
	}).Info("scenario batch finished")

	outputFile := cfg.GetString("OutputFile")
	w, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("lakegas: creating output file: %v", err)
	}
	defer w.Close()
	if err := WriteResults(w, out.Results, outputVariables(cfg)); err != nil {
		return err
	}
	log.WithFields(logrus.Fields{"file": outputFile}).Info("wrote uncertainty summaries")

	if f := cfg.GetString("ClassificationFile"); f != "" && len(out.Classified) > 0 {
		cw, err := os.Create(f)
		if err != nil {
			return fmt.Errorf("lakegas: creating classification file: %v", err)
		}
		defer cw.Close()
		if err := WriteClassifications(cw, out.Classified); err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": f}).Info("wrote classifications")
	}
	return nil
}
