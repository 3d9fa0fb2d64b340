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
	"fmt"
	"strings"

	"github.com/ctessum/unit"
	"github.com/ctessum/unit/badunit"
)

// UnitSystem selects the customary units that all pressures, capacities,
// depths and temperatures are expressed in.
//
//	Imperial: psi, ft³, ft, °R
//	Metric:   bar, L, m, K
type UnitSystem int

// Supported unit systems.
const (
	Imperial UnitSystem = iota
	Metric
)

// SI conversion factors.
const (
	pascalsPerPSI = 6894.757293168
	pascalsPerBar = 1.e5
	m3PerLiter    = 1.e-3
)

// per-system constants, indexed by UnitSystem.
var (
	// Gas constants in ft³·psi/(°R·mol) and L·bar/(K·mol).
	// The imperial value is 10.731 ft³·psi/(°R·lb-mol) divided by 453.59
	// to get rid of the lb-moles.
	gasConstant = [...]float64{2.3658e-2, 8.3145e-2}

	pressureAtm = [...]float64{14.7, 1.013}

	// Approx 70 °F, which is about the temperature cylinder
	// manufacturers use to specify rated capacity.
	absTempAmbient = [...]float64{530, 294}
	absTempStd     = [...]float64{518.67, 288.15}

	depthPerAtm    = [...]float64{33, 10}
	depthIncrement = [...]float64{10, 3}
)

// String returns the name of the unit system.
func (u UnitSystem) String() string {
	switch u {
	case Imperial:
		return "imperial"
	case Metric:
		return "metric"
	default:
		return fmt.Sprintf("UnitSystem(%d)", int(u))
	}
}

// ParseUnitSystem returns the unit system named by s ("imperial" or "metric").
func ParseUnitSystem(s string) (UnitSystem, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "imperial", "us":
		return Imperial, nil
	case "metric", "si":
		return Metric, nil
	}
	return Imperial, fmt.Errorf("gasblend: invalid unit system %q; valid options are imperial and metric", s)
}

func (u UnitSystem) valid() bool { return u == Imperial || u == Metric }

// GasConstant returns the universal gas constant in
// capacity·pressure/(temperature·mol).
func (u UnitSystem) GasConstant() float64 { return gasConstant[u] }

// PressureAtm returns the pressure of one standard atmosphere.
func (u UnitSystem) PressureAtm() float64 { return pressureAtm[u] }

// AbsTempAmbient returns the absolute temperature at which cylinder
// capacities are rated.
func (u UnitSystem) AbsTempAmbient() float64 { return absTempAmbient[u] }

// AbsTempStd returns the standard atmosphere absolute temperature at sea level.
func (u UnitSystem) AbsTempStd() float64 { return absTempStd[u] }

// DepthPerAtm returns the depth of seawater that exerts one atmosphere.
func (u UnitSystem) DepthPerAtm() float64 { return depthPerAtm[u] }

// DepthIncrement returns the customary depth step.
func (u UnitSystem) DepthIncrement() float64 { return depthIncrement[u] }

// Pressure converts p into an SI pressure.
func (u UnitSystem) Pressure(p float64) *unit.Unit {
	if u == Imperial {
		return unit.New(p*pascalsPerPSI, unit.Pascal)
	}
	return unit.New(p*pascalsPerBar, unit.Pascal)
}

// FromPressure returns SI pressure p in the receiver's pressure unit.
func (u UnitSystem) FromPressure(p *unit.Unit) (float64, error) {
	if err := p.Check(unit.Pascal); err != nil {
		return 0, fmt.Errorf("gasblend: pressure: %v", err)
	}
	if u == Imperial {
		return p.Value() / pascalsPerPSI, nil
	}
	return p.Value() / pascalsPerBar, nil
}

// Capacity converts a volume in capacity units (ft³ or L) into an SI volume.
func (u UnitSystem) Capacity(c float64) *unit.Unit {
	if u == Imperial {
		return badunit.Foot3(c)
	}
	return unit.New(c*m3PerLiter, unit.Meter3)
}

// FromCapacity returns SI volume c in the receiver's capacity unit.
func (u UnitSystem) FromCapacity(c *unit.Unit) (float64, error) {
	if err := c.Check(unit.Meter3); err != nil {
		return 0, fmt.Errorf("gasblend: capacity: %v", err)
	}
	return c.Value() / u.Capacity(1).Value(), nil
}

// Depth converts a depth in feet or meters into an SI length.
func (u UnitSystem) Depth(d float64) *unit.Unit {
	if u == Imperial {
		return badunit.Foot(d)
	}
	return unit.New(d, unit.Meter)
}

// FromDepth returns SI length d in the receiver's depth unit.
func (u UnitSystem) FromDepth(d *unit.Unit) (float64, error) {
	if err := d.Check(unit.Meter); err != nil {
		return 0, fmt.Errorf("gasblend: depth: %v", err)
	}
	return d.Value() / u.Depth(1).Value(), nil
}

// AbsTemp converts an absolute temperature in °R or K into kelvins.
func (u UnitSystem) AbsTemp(t float64) *unit.Unit {
	if u == Imperial {
		return unit.New(t*5./9., unit.Kelvin)
	}
	return unit.New(t, unit.Kelvin)
}

// FromAbsTemp returns the SI temperature t in the receiver's absolute
// temperature unit.
func (u UnitSystem) FromAbsTemp(t *unit.Unit) (float64, error) {
	if err := t.Check(unit.Kelvin); err != nil {
		return 0, fmt.Errorf("gasblend: temperature: %v", err)
	}
	return t.Value() / u.AbsTemp(1).Value(), nil
}

// RelTempToAbs converts a relative temperature (°F or °C) into the
// matching absolute temperature.
func (u UnitSystem) RelTempToAbs(t float64) float64 {
	if u == Imperial {
		v, _ := u.FromAbsTemp(badunit.Fahrenheit(t))
		return v
	}
	return t + 273.15
}

// ConvertPressure converts pressure p, expressed in unit system from,
// into the receiver's unit system.
func (u UnitSystem) ConvertPressure(p float64, from UnitSystem) float64 {
	v, _ := u.FromPressure(from.Pressure(p))
	return v
}

// ConvertCapacity converts capacity c, expressed in unit system from,
// into the receiver's unit system.
func (u UnitSystem) ConvertCapacity(c float64, from UnitSystem) float64 {
	v, _ := u.FromCapacity(from.Capacity(c))
	return v
}

// ConvertDepth converts depth d, expressed in unit system from,
// into the receiver's unit system.
func (u UnitSystem) ConvertDepth(d float64, from UnitSystem) float64 {
	v, _ := u.FromDepth(from.Depth(d))
	return v
}

// ConvertAbsTemp converts absolute temperature t, expressed in unit system
// from, into the receiver's unit system.
func (u UnitSystem) ConvertAbsTemp(t float64, from UnitSystem) float64 {
	v, _ := u.FromAbsTemp(from.AbsTemp(t))
	return v
}

// VdwA converts a Van der Waals attraction constant from the metric
// reference system [L²·bar/mol²] into the receiver's system.
func (u UnitSystem) VdwA(a float64) float64 {
	if u == Metric {
		return a
	}
	c := u.ConvertCapacity(1, Metric)
	return a * u.ConvertPressure(1, Metric) * c * c
}

// VdwB converts a Van der Waals volume constant from the metric
// reference system [L/mol] into the receiver's system.
func (u UnitSystem) VdwB(b float64) float64 {
	if u == Metric {
		return b
	}
	return b * u.ConvertCapacity(1, Metric)
}
