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

package gasblend

import (
	"errors"
	"fmt"
	"math"

	"github.com/ctessum/unit"
)

// ErrNoBestMix is returned when no mix satisfies both the oxygen and the
// narcosis limits at a depth.
var ErrNoBestMix = errors.New("no mix satisfies the limits")

// Partial pressure of narcotic gas in surface air, in atm, with and without
// counting oxygen as narcotic.
const (
	narcoticAir       = 1
	narcoticAirNoO2   = 0.79
	surfaceAtmosphere = 1
)

// ambientPressure returns the absolute pressure in atm at depth below a
// surface at surfacePressure atm.
func ambientPressure(depth, surfacePressure float64, u UnitSystem) float64 {
	return depth/u.DepthPerAtm() + surfacePressure
}

// PO2AtDepth returns the partial pressure of oxygen in atm when breathing
// the mix at depth (ft or m) below a surface at surfacePressure atm.
func (m Mix) PO2AtDepth(depth, surfacePressure float64, u UnitSystem) float64 {
	return ambientPressure(depth, surfacePressure, u) * m.fO2
}

// PN2AtDepth returns the partial pressure of nitrogen in atm.
func (m Mix) PN2AtDepth(depth, surfacePressure float64, u UnitSystem) float64 {
	return ambientPressure(depth, surfacePressure, u) * m.FN2()
}

// PHeAtDepth returns the partial pressure of helium in atm.
func (m Mix) PHeAtDepth(depth, surfacePressure float64, u UnitSystem) float64 {
	return ambientPressure(depth, surfacePressure, u) * m.fHe
}

// MOD returns the maximum operating depth of the mix: the deepest whole
// depth unit at which the partial pressure of oxygen stays at or below
// maxPO2 atm.
func (m Mix) MOD(u UnitSystem, maxPO2 float64) float64 {
	return math.Floor((maxPO2/m.fO2-1)*u.DepthPerAtm() + 0.01)
}

// Ceiling returns the shallowest whole depth unit at which the partial
// pressure of oxygen reaches minPO2 atm. It is zero or negative for mixes
// that are breathable at the surface.
func (m Mix) Ceiling(u UnitSystem, minPO2 float64) float64 {
	return math.Ceil((minPO2/m.fO2-1)*u.DepthPerAtm() - 0.01)
}

// END returns the equivalent narcotic depth of the mix at depth: the depth
// at which air would be as narcotic. If oxygenIsNarcotic, oxygen counts
// toward narcosis along with nitrogen.
func (m Mix) END(depth float64, u UnitSystem, oxygenIsNarcotic bool) float64 {
	pNarc := m.PN2AtDepth(depth, surfaceAtmosphere, u)
	pNarc0 := narcoticAirNoO2
	if oxygenIsNarcotic {
		pNarc += m.PO2AtDepth(depth, surfaceAtmosphere, u)
		pNarc0 = narcoticAir
	}
	return math.Max(math.Ceil((pNarc/pNarc0-1)*u.DepthPerAtm()), 0)
}

// EAD returns the equivalent air depth of the mix at depth, which is the
// END with only nitrogen considered narcotic.
func (m Mix) EAD(depth float64, u UnitSystem) float64 {
	return m.END(depth, u, false)
}

// BestMix returns the mix with the most oxygen and the least helium, in
// whole percentages, that can be breathed at depth without exceeding maxPO2
// atm of oxygen or an equivalent narcotic depth of maxEND.
func BestMix(depth, maxEND float64, u UnitSystem, maxPO2 float64, oxygenIsNarcotic bool) (Mix, error) {
	dpa := u.DepthPerAtm()
	pAbs := depth/dpa + 1
	fO2 := math.Min(1, math.Floor(maxPO2/pAbs*100+0.0001)/100)

	maxEND = math.Min(depth, maxEND)
	pNarc0 := narcoticAirNoO2
	if oxygenIsNarcotic {
		pNarc0 = narcoticAir
	}
	fNarc := math.Floor((maxEND/dpa+1)/pAbs*pNarc0*100+0.0001) / 100
	fHe := 1 - fNarc
	if !oxygenIsNarcotic {
		fHe -= fO2
	}
	fHe = math.Max(fHe, 0)
	if fO2+fHe > 1+1.e-9 {
		return Mix{}, fmt.Errorf("gasblend: best mix at %g with END %g and pO2 %g: %w", depth, maxEND, maxPO2, ErrNoBestMix)
	}
	return Mix{fO2: fO2, fHe: math.Min(fHe, 1-fO2)}, nil
}

// Standard atmosphere in the troposphere.
const (
	stdGravity    = 9.80665   // m/s²
	airMolarMass  = 0.0289644 // kg/mol
	gasConstantSI = 8.31446   // J/(mol·K)
	tempLapseRate = -0.0065   // K/m
)

var (
	kelvinPerMeter = unit.Dimensions{unit.TemperatureDim: 1, unit.LengthDim: -1}
	joulePerKelvin = unit.Dimensions{unit.MassDim: 1, unit.LengthDim: 2, unit.TimeDim: -2, unit.TemperatureDim: -1}
)

// PressureAtAltitude returns the atmospheric pressure in atm at altitude
// (ft or m) above sea level, using the barometric formula for a
// troposphere with a constant temperature lapse rate.
func PressureAtAltitude(altitude float64, u UnitSystem) float64 {
	lapse := unit.New(tempLapseRate, kelvinPerMeter)
	t0 := Metric.AbsTemp(Metric.AbsTempStd())
	t := unit.Add(t0, unit.Mul(lapse, u.Depth(altitude)))

	// Molar mass and gas constant are both per mole of air.
	exponent := unit.Div(
		unit.Mul(unit.New(stdGravity, unit.MeterPerSecond2), unit.New(airMolarMass, unit.Kilogram)),
		unit.Mul(unit.New(gasConstantSI, joulePerKelvin), lapse),
	)
	return math.Pow(unit.Div(t0, t).Value(), exponent.Value())
}
