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

	"github.com/scubalib/gasblend"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// fillCurvePoints is the number of pressures sampled along a fill curve.
const fillCurvePoints = 50

// FillCurve returns the amount of g's mix its cylinder holds at n evenly
// spaced pressures from zero to maxPressure, using the ideal gas law and
// the Van der Waals equation of state.
func FillCurve(g *gasblend.GasSupply, maxPressure float64, n int) (ideal, vdw plotter.XYs, err error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("gasblend: fill curve needs at least 2 points, have %d", n)
	}
	if !(maxPressure > 0) {
		return nil, nil, fmt.Errorf("gasblend: fill curve maximum pressure=%g but should be >0", maxPressure)
	}
	c := g.Cylinder
	ideal = make(plotter.XYs, n)
	vdw = make(plotter.XYs, n)
	for i := range ideal {
		p := maxPressure * float64(i) / float64(n-1)
		ideal[i].X, vdw[i].X = p, p
		ideal[i].Y = c.IdealCapacityAtPressure(p)
		vdw[i].Y, err = c.VdwCapacityAtPressure(p, g.Mix, g.Temperature)
		if err != nil {
			return nil, nil, err
		}
	}
	return ideal, vdw, nil
}

// PlotFillCurve plots the fill curve of g up to maxPressure.
func PlotFillCurve(g *gasblend.GasSupply, maxPressure float64) (*plot.Plot, error) {
	ideal, vdw, err := FillCurve(g, maxPressure, fillCurvePoints)
	if err != nil {
		return nil, err
	}
	u := g.Cylinder.Units
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%v in %.4g %s cylinder", g.Mix, g.Cylinder.InternalVolume, capacityUnit(u))
	p.X.Label.Text = fmt.Sprintf("Pressure (%s)", pressureUnit(u))
	p.Y.Label.Text = fmt.Sprintf("Gas amount (%s)", capacityUnit(u))
	p.X.Min, p.Y.Min = 0, 0
	p.Legend.Top = true
	p.Legend.Left = true
	if err := plotutil.AddLines(p, "Ideal gas", ideal, "Van der Waals", vdw); err != nil {
		return nil, err
	}
	return p, nil
}

// PlotFillCurveFile saves the fill curve of g to filename. The image format
// is chosen by the file extension.
func PlotFillCurveFile(filename string, g *gasblend.GasSupply, maxPressure float64) error {
	p, err := PlotFillCurve(g, maxPressure)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filename); err != nil {
		return fmt.Errorf("gasblend: saving fill curve: %v", err)
	}
	return nil
}
