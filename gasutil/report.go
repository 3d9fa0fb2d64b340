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
	"io"
	"text/tabwriter"

	"github.com/scubalib/gasblend"
	"github.com/sirupsen/logrus"
)

func pressureUnit(u gasblend.UnitSystem) string {
	if u == gasblend.Metric {
		return "bar"
	}
	return "psi"
}

func capacityUnit(u gasblend.UnitSystem) string {
	if u == gasblend.Metric {
		return "L"
	}
	return "cuft"
}

func depthUnit(u gasblend.UnitSystem) string {
	if u == gasblend.Metric {
		return "m"
	}
	return "ft"
}

// Capacity writes the rated capacity of g's cylinder and the amount of
// each gas in g to w.
func Capacity(w io.Writer, g *gasblend.GasSupply) error {
	c := g.Cylinder
	u := c.Units
	rated, err := c.VdwCapacity()
	if err != nil {
		return err
	}
	total, err := g.GasAmount()
	if err != nil {
		return err
	}
	cu := capacityUnit(u)
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "cylinder:\t%.4g %s at %g %s\n", c.InternalVolume, cu, c.ServicePressure, pressureUnit(u))
	fmt.Fprintf(tw, "rated capacity:\t%.2f %s (ideal gas %.2f %s)\n", rated, cu, c.IdealCapacity(), cu)
	fmt.Fprintf(tw, "contents:\t%v at %g %s (%s)\n", g.Mix, g.Pressure, pressureUnit(u), g.State)
	fmt.Fprintf(tw, "total:\t%.2f %s\n", total, cu)
	fmt.Fprintf(tw, "O2:\t%.2f %s\n", total*g.Mix.FO2(), cu)
	fmt.Fprintf(tw, "N2:\t%.2f %s\n", total*g.Mix.FN2(), cu)
	fmt.Fprintf(tw, "He:\t%.2f %s\n", total*g.Mix.FHe(), cu)
	return tw.Flush()
}

// Pressure writes to w the pressure at which g's cylinder holds amount
// of g's mix.
func Pressure(w io.Writer, g *gasblend.GasSupply, amount float64) error {
	if amount < 0 {
		return fmt.Errorf("gasblend: amount=%g but should be >=0", amount)
	}
	g.DrainToGasAmount(amount)
	u := g.Cylinder.Units
	if g.Pressure > g.Cylinder.ServicePressure {
		logrus.WithFields(logrus.Fields{
			"pressure":        g.Pressure,
			"servicePressure": g.Cylinder.ServicePressure,
		}).Warn("gasblend: amount exceeds the cylinder's rated capacity")
	}
	_, err := fmt.Fprintf(w, "%.2f %s of %v: %.1f %s\n", amount, capacityUnit(u), g.Mix, g.Pressure, pressureUnit(u))
	return err
}

// Topup tops g up with mix to finalPressure and writes the resulting mix
// and the amount of gas added to w.
func Topup(w io.Writer, g *gasblend.GasSupply, mix gasblend.Mix, finalPressure float64) error {
	before, err := g.GasAmount()
	if err != nil {
		return err
	}
	start := g.Clone()
	if _, err := g.Topup(mix, finalPressure); err != nil {
		return err
	}
	after, err := g.GasAmount()
	if err != nil {
		return err
	}
	u := g.Cylinder.Units
	pu, cu := pressureUnit(u), capacityUnit(u)
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "start:\t%v at %g %s\n", start.Mix, start.Pressure, pu)
	fmt.Fprintf(tw, "added:\t%.2f %s of %v\n", after-before, cu, mix)
	fmt.Fprintf(tw, "result:\t%v at %g %s (O2 %.1f%%, He %.1f%%)\n", g.Mix, g.Pressure, pu, g.Mix.O2(), g.Mix.He())
	return tw.Flush()
}

// MOD writes the maximum operating depth of mix to w and, if depth is
// positive, the partial pressure of oxygen and narcotic depths there.
func MOD(w io.Writer, mix gasblend.Mix, u gasblend.UnitSystem, maxPO2, depth float64, oxygenIsNarcotic bool) error {
	du := depthUnit(u)
	tw := tabwriter.NewWriter(w, 0, 8, 1, ' ', 0)
	fmt.Fprintf(tw, "MOD of %v at pO2 %g:\t%g %s\n", mix, maxPO2, mix.MOD(u, maxPO2), du)
	if depth > 0 {
		fmt.Fprintf(tw, "pO2 at %g %s:\t%.2f atm\n", depth, du, mix.PO2AtDepth(depth, 1, u))
		fmt.Fprintf(tw, "END at %g %s:\t%g %s\n", depth, du, mix.END(depth, u, oxygenIsNarcotic), du)
		fmt.Fprintf(tw, "EAD at %g %s:\t%g %s\n", depth, du, mix.EAD(depth, u), du)
	}
	return tw.Flush()
}

// Best writes to w the best mix for depth.
func Best(w io.Writer, depth, maxEND float64, u gasblend.UnitSystem, maxPO2 float64, oxygenIsNarcotic bool) error {
	m, err := gasblend.BestMix(depth, maxEND, u, maxPO2, oxygenIsNarcotic)
	if err != nil {
		return err
	}
	du := depthUnit(u)
	_, err = fmt.Fprintf(w, "best mix for %g %s (END %g %s, pO2 %g): %v\n", depth, du, maxEND, du, maxPO2, m)
	return err
}
