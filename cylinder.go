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
)

// ErrInvalidCylinder is returned for cylinders without a positive internal
// volume and service pressure.
var ErrInvalidCylinder = errors.New("invalid cylinder")

// Cylinder is a gas cylinder, or a manifolded set of cylinders. A Cylinder
// that has been handed to a GasSupply should be treated as read-only.
type Cylinder struct {
	// Units is the unit system that InternalVolume and ServicePressure
	// are expressed in.
	Units UnitSystem

	// InternalVolume is the total physical volume of the cylinder in
	// capacity units (ft³ or L).
	InternalVolume float64

	// ServicePressure is the rated fill pressure (psi or bar).
	ServicePressure float64
}

// NewCylinder returns a cylinder with the given internal volume and service
// pressure.
func NewCylinder(units UnitSystem, internalVolume, servicePressure float64) *Cylinder {
	return &Cylinder{Units: units, InternalVolume: internalVolume, ServicePressure: servicePressure}
}

// CylinderFromCapacity returns a cylinder whose internal volume is chosen so
// that it holds capacity (the nominal volume of air at one atmosphere) when
// filled to servicePressure, using equation of state s.
func CylinderFromCapacity(units UnitSystem, capacity, servicePressure float64, s State) (*Cylinder, error) {
	c := &Cylinder{Units: units, ServicePressure: servicePressure}
	if s == IdealGas {
		return c.WithIdealCapacity(capacity), nil
	}
	return c.WithVdwCapacity(capacity)
}

// Validate checks that the cylinder describes something physical.
func (c *Cylinder) Validate() error {
	if !c.Units.valid() {
		return fmt.Errorf("gasblend: %w: unknown unit system %d", ErrInvalidCylinder, int(c.Units))
	}
	if !(c.InternalVolume > 0) {
		return fmt.Errorf("gasblend: %w: internal volume=%g but should be >0", ErrInvalidCylinder, c.InternalVolume)
	}
	if !(c.ServicePressure > 0) {
		return fmt.Errorf("gasblend: %w: service pressure=%g but should be >0", ErrInvalidCylinder, c.ServicePressure)
	}
	return nil
}

// IdealCapacity returns the nominal volume of air the cylinder holds at its
// service pressure according to the ideal gas law.
func (c *Cylinder) IdealCapacity() float64 {
	return c.IdealCapacityAtPressure(c.ServicePressure)
}

// VdwCapacity returns the nominal volume of air the cylinder holds at its
// service pressure and ambient temperature according to the Van der Waals
// equation of state.
func (c *Cylinder) VdwCapacity() (float64, error) {
	return c.VdwCapacityAtPressure(c.ServicePressure, Air, c.Units.AbsTempAmbient())
}

// WithIdealCapacity returns a copy of c whose internal volume holds
// capacity at the service pressure according to the ideal gas law.
func (c *Cylinder) WithIdealCapacity(capacity float64) *Cylinder {
	o := *c
	o.InternalVolume = capacity * c.Units.PressureAtm() / c.ServicePressure
	return &o
}

// WithVdwCapacity returns a copy of c whose internal volume holds capacity
// of air at the service pressure and ambient temperature according to the
// Van der Waals equation of state.
func (c *Cylinder) WithVdwCapacity(capacity float64) (*Cylinder, error) {
	u := c.Units
	RT := u.AbsTempAmbient() * u.GasConstant()
	// Capacity is measured at one atmosphere, where the gas is close enough
	// to ideal to give the number of moles directly.
	n := u.PressureAtm() * capacity / RT
	a, b := Air.Coefficients()
	// V = n·v, so dV/dv = n.
	v, err := molarVolume(c.ServicePressure, u.VdwA(a), u.VdwB(b), RT, volumeTolerance/n)
	if err != nil {
		return nil, err
	}
	o := *c
	o.InternalVolume = v * n
	return &o, nil
}

// IdealCapacityAtPressure returns the nominal volume of gas the cylinder
// holds at the given pressure according to the ideal gas law.
func (c *Cylinder) IdealCapacityAtPressure(pressure float64) float64 {
	return c.InternalVolume * pressure / c.Units.PressureAtm()
}

// IdealPressureAtCapacity returns the pressure in the cylinder when it holds
// the given nominal volume of gas, according to the ideal gas law.
func (c *Cylinder) IdealPressureAtCapacity(capacity float64) float64 {
	return capacity * c.Units.PressureAtm() / c.InternalVolume
}

// VdwCapacityAtPressure returns the nominal volume of mix the cylinder holds
// at the given pressure and absolute temperature according to the Van der
// Waals equation of state.
func (c *Cylinder) VdwCapacityAtPressure(pressure float64, mix Mix, temperature float64) (float64, error) {
	// The trivial solution, which would otherwise divide by zero in the
	// ideal gas seed.
	if pressure == 0 {
		return 0, nil
	}
	u := c.Units
	RT := u.GasConstant() * temperature
	a, b := mix.Coefficients()
	tol := capacityUncertainty(pressure, c.InternalVolume, RT, u.PressureAtm())
	v, err := molarVolume(pressure, u.VdwA(a), u.VdwB(b), RT, tol)
	if err != nil {
		return 0, err
	}
	// With v known, the volume at one atmosphere follows from the ideal
	// gas law.
	return c.InternalVolume * RT / (u.PressureAtm() * v), nil
}

// VdwPressureAtCapacity returns the pressure in the cylinder when it holds
// the given nominal volume of mix at the given absolute temperature,
// according to the Van der Waals equation of state.
func (c *Cylinder) VdwPressureAtCapacity(capacity float64, mix Mix, temperature float64) float64 {
	u := c.Units
	RT := temperature * u.GasConstant()
	// n = Pa·C/RT, v = V/n
	v := c.InternalVolume * RT / (u.PressureAtm() * capacity)
	a, b := mix.Coefficients()
	return vdwPressure(v, u.VdwA(a), u.VdwB(b), RT)
}

// CapacityAtPressure returns the nominal volume of mix held at pressure and
// temperature using equation of state s.
func (c *Cylinder) CapacityAtPressure(pressure float64, mix Mix, temperature float64, s State) (float64, error) {
	if s == IdealGas {
		return c.IdealCapacityAtPressure(pressure), nil
	}
	return c.VdwCapacityAtPressure(pressure, mix, temperature)
}

// PressureAtCapacity returns the pressure when the cylinder holds capacity
// of mix at temperature using equation of state s.
func (c *Cylinder) PressureAtCapacity(capacity float64, mix Mix, temperature float64, s State) float64 {
	if s == IdealGas {
		return c.IdealPressureAtCapacity(capacity)
	}
	return c.VdwPressureAtCapacity(capacity, mix, temperature)
}
