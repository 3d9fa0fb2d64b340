/*
Copyright © 2024 the gasblend authors.
This file is part of gasblend.

gasblend is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gasblend is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gasblend.  If not, see <http://www.gnu.org/licenses/>.
*/

package gasutil

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/scubalib/gasblend"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Cfg holds configuration information.
var Cfg *viper.Viper

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	// Options are the configuration options available to gasblend.
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
			name: "verbose",
			usage: `
              verbose turns on debug logging, including each step of the
              topup solver.`,
			shorthand:  "v",
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "units",
			usage: `
              units is the unit system of every pressure, capacity, depth and
              temperature: "imperial" (psi, cuft, ft, °F) or "metric"
              (bar, L, m, °C).`,
			shorthand:  "u",
			defaultVal: "imperial",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "state",
			usage: `
              state is the equation of state used to relate pressure to
              gas amount: "vdw" for the Van der Waals real gas equation or
              "ideal" for the ideal gas law.`,
			defaultVal: "vdw",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name: "temperature",
			usage: `
              temperature is the gas temperature in °F or °C. If empty, the
              temperature at which cylinder capacities are rated is used.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "cylinder",
			usage: `
              cylinder is the name of a cylinder in the catalog file. If
              empty, the cylinder is described with internal-volume or
              capacity and service-pressure instead.`,
			shorthand:  "c",
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "catalog",
			usage: `
              catalog is the path to a TOML file of [[Cylinder]] tables
              that cylinder names are looked up in. It can contain
              environment variables.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "internal-volume",
			usage: `
              internal-volume is the physical volume of the cylinder in
              cuft or L.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "capacity",
			usage: `
              capacity is the rated capacity of the cylinder: the volume of
              air it holds at one atmosphere when filled to its service
              pressure. It is used when internal-volume is not set.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "service-pressure",
			usage: `
              service-pressure is the rated fill pressure of the cylinder.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags()},
		},
		{
			name: "mix",
			usage: `
              mix is the gas in the cylinder: "air", "oxygen", "helium",
              "nitrogen", a nitrox oxygen percentage such as "32" or a
              trimix such as "18/45".`,
			shorthand:  "m",
			defaultVal: "air",
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), pressureCmd.Flags(), topupCmd.Flags(), plotCmd.Flags(), modCmd.Flags()},
		},
		{
			name: "pressure",
			usage: `
              pressure is the current pressure in the cylinder. The
              capacity command uses the service pressure when it is zero.`,
			shorthand:  "p",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{capacityCmd.Flags(), topupCmd.Flags()},
		},
		{
			name: "amount",
			usage: `
              amount is a volume of gas at one atmosphere, in cuft or L.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{pressureCmd.Flags()},
		},
		{
			name: "topup-mix",
			usage: `
              topup-mix is the gas added to the cylinder, in the same
              format as mix.`,
			defaultVal: "air",
			flagsets:   []*pflag.FlagSet{topupCmd.Flags()},
		},
		{
			name: "final-pressure",
			usage: `
              final-pressure is the pressure to top the cylinder up to. If
              zero, the cylinder's service pressure is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{topupCmd.Flags()},
		},
		{
			name: "depth",
			usage: `
              depth is the planned depth in ft or m.`,
			shorthand:  "d",
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{modCmd.Flags(), bestCmd.Flags()},
		},
		{
			name: "max-end",
			usage: `
              max-end is the deepest acceptable equivalent narcotic depth.
              If zero, it is the planned depth, so no helium is added for
              narcosis.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{bestCmd.Flags()},
		},
		{
			name: "max-po2",
			usage: `
              max-po2 is the highest acceptable partial pressure of oxygen
              in atm.`,
			defaultVal: 1.4,
			flagsets:   []*pflag.FlagSet{modCmd.Flags(), bestCmd.Flags()},
		},
		{
			name: "narcotic-oxygen",
			usage: `
              narcotic-oxygen specifies whether oxygen is counted as
              narcotic when computing equivalent narcotic depths.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{modCmd.Flags(), bestCmd.Flags()},
		},
		{
			name: "plot-file",
			usage: `
              plot-file is where the fill curve image is written. The
              format is taken from the extension (png, svg, pdf...).`,
			shorthand:  "o",
			defaultVal: "fill.png",
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
		{
			name: "plot-max-pressure",
			usage: `
              plot-max-pressure is the highest pressure on the fill curve.
              If zero, the cylinder's service pressure is used.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{plotCmd.Flags()},
		},
	}

	Cfg = viper.New()

	// Set the prefix for configuration environment variables, so that
	// for example GASBLEND_SERVICE_PRESSURE sets service-pressure.
	Cfg.SetEnvPrefix("GASBLEND")
	Cfg.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	Cfg.AutomaticEnv()

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
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, option.defaultVal.(bool), option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, option.defaultVal.(bool), option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, option.defaultVal.(float64), option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, option.defaultVal.(float64), option.usage)
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
	Root.AddCommand(capacityCmd)
	Root.AddCommand(pressureCmd)
	Root.AddCommand(topupCmd)
	Root.AddCommand(mixCmd)
	mixCmd.AddCommand(modCmd)
	mixCmd.AddCommand(bestCmd)
	Root.AddCommand(plotCmd)
}

// setConfig finds and reads in the configuration file, if there is one.
func setConfig() error {
	if cfgpath := Cfg.GetString("config"); cfgpath != "" {
		Cfg.SetConfigFile(os.ExpandEnv(cfgpath))
		if err := Cfg.ReadInConfig(); err != nil {
			return fmt.Errorf("gasblend: problem reading configuration file: %v", err)
		}
	}
	return nil
}

// setLogging configures the standard logger, which library types log to
// unless they are given another one.
func setLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})
	if Cfg.GetBool("verbose") {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "gasblend",
	Short: "Breathing gas blending calculator.",
	Long: `gasblend computes how much gas a scuba cylinder holds and the result of
blending gases in it, using either the ideal gas law or the Van der Waals
real gas equation of state. Use the subcommands specified below to access
the functionality.

Refer to the subcommand documentation for configuration options and default settings.
Configuration can be changed by using a configuration file (and providing the
path to the file using the --config flag), by using command-line arguments,
or by setting environment variables in the format 'GASBLEND_VAR' where 'VAR' is the
name of the variable to be set, with dashes replaced by underscores.
Refer to https://github.com/spf13/viper for additional configuration information.`,
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	PersistentPreRunE: func(*cobra.Command, []string) error {
		if err := setConfig(); err != nil {
			return err
		}
		setLogging()
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  "version prints the version number of this version of gasblend.",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "gasblend v%s\n", gasblend.Version)
	},
	DisableAutoGenTag: true,
}

// capacityCmd reports how much gas a supply holds.
var capacityCmd = &cobra.Command{
	Use:   "capacity",
	Short: "Compute the amount of gas in a cylinder",
	Long: `capacity computes the rated capacity of a cylinder and the amount of
each gas it holds when filled with mix to pressure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := SupplyConfig(Cfg)
		if err != nil {
			return err
		}
		if g.Pressure == 0 {
			g.Pressure = g.Cylinder.ServicePressure
		}
		return Capacity(cmd.OutOrStdout(), g)
	},
	DisableAutoGenTag: true,
}

// pressureCmd reports the pressure at which a cylinder holds an amount.
var pressureCmd = &cobra.Command{
	Use:   "pressure",
	Short: "Compute the pressure for an amount of gas",
	Long: `pressure computes the pressure a cylinder must be filled to so that it
holds the given amount of mix.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := SupplyConfig(Cfg)
		if err != nil {
			return err
		}
		return Pressure(cmd.OutOrStdout(), g, Cfg.GetFloat64("amount"))
	},
	DisableAutoGenTag: true,
}

// topupCmd tops a supply up with another gas.
var topupCmd = &cobra.Command{
	Use:   "topup",
	Short: "Top a cylinder up with another gas",
	Long: `topup computes the mix that results from filling a cylinder holding mix at
pressure with topup-mix until it reaches final-pressure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := SupplyConfig(Cfg)
		if err != nil {
			return err
		}
		mix, err := ParseMix(Cfg.GetString("topup-mix"))
		if err != nil {
			return err
		}
		final := Cfg.GetFloat64("final-pressure")
		if final == 0 {
			final = g.Cylinder.ServicePressure
		}
		return Topup(cmd.OutOrStdout(), g, mix, final)
	},
	DisableAutoGenTag: true,
}

var mixCmd = &cobra.Command{
	Use:   "mix",
	Short: "Depth limits of breathing gases.",
	Long: `mix computes depth limits of breathing gases. Use the subcommands
specified below to choose a calculation.`,
	DisableAutoGenTag: true,
}

// modCmd reports the depth limits of a mix.
var modCmd = &cobra.Command{
	Use:   "mod",
	Short: "Compute the maximum operating depth of a mix",
	Long: `mod computes the maximum operating depth of mix for max-po2. If depth is
set, the equivalent narcotic depth and equivalent air depth at that depth
are also reported.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := unitsConfig(Cfg)
		if err != nil {
			return err
		}
		mix, err := ParseMix(Cfg.GetString("mix"))
		if err != nil {
			return err
		}
		return MOD(cmd.OutOrStdout(), mix, u, Cfg.GetFloat64("max-po2"),
			Cfg.GetFloat64("depth"), Cfg.GetBool("narcotic-oxygen"))
	},
	DisableAutoGenTag: true,
}

// bestCmd reports the best mix for a depth.
var bestCmd = &cobra.Command{
	Use:   "best",
	Short: "Compute the best mix for a depth",
	Long: `best computes the mix with the most oxygen and the least helium that keeps
the partial pressure of oxygen at depth below max-po2 and the equivalent
narcotic depth below max-end.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		u, err := unitsConfig(Cfg)
		if err != nil {
			return err
		}
		depth := Cfg.GetFloat64("depth")
		maxEND := Cfg.GetFloat64("max-end")
		if maxEND <= 0 {
			maxEND = depth
		}
		return Best(cmd.OutOrStdout(), depth, maxEND, u, Cfg.GetFloat64("max-po2"), Cfg.GetBool("narcotic-oxygen"))
	},
	DisableAutoGenTag: true,
}

// plotCmd draws a fill curve.
var plotCmd = &cobra.Command{
	Use:   "plot",
	Short: "Plot the fill curve of a cylinder",
	Long: `plot draws the amount of mix a cylinder holds against its pressure, both
for an ideal gas and for the Van der Waals equation of state, and saves
the image to plot-file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		g, err := SupplyConfig(Cfg)
		if err != nil {
			return err
		}
		maxP := Cfg.GetFloat64("plot-max-pressure")
		if maxP == 0 {
			maxP = g.Cylinder.ServicePressure
		}
		return PlotFillCurveFile(os.ExpandEnv(Cfg.GetString("plot-file")), g, maxP)
	},
	DisableAutoGenTag: true,
}
