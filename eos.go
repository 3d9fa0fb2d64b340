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
	"strings"
)

// ErrNoConvergence is returned when an iterative solver fails to reach
// its tolerance within its iteration limit.
var ErrNoConvergence = errors.New("solution did not converge")

// State is the equation of state used to relate pressure and gas amount.
type State int

// Equations of state.
const (
	// VanDerWaals uses the Van der Waals real-gas equation of state.
	VanDerWaals State = iota
	// IdealGas uses the ideal gas law.
	IdealGas
)

func (s State) String() string {
	switch s {
	case VanDerWaals:
		return "vdw"
	case IdealGas:
		return "ideal"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ParseState returns the equation of state named by s.
func ParseState(s string) (State, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vdw", "vanderwaals", "van der waals", "real":
		return VanDerWaals, nil
	case "ideal":
		return IdealGas, nil
	}
	return VanDerWaals, fmt.Errorf("gasblend: invalid equation of state %q; valid options are vdw and ideal", s)
}

const (
	// maxNewtonIterations bounds the cubic molar volume solver. It
	// converges quadratically from the ideal gas seed, so physical inputs
	// never get close.
	maxNewtonIterations = 100

	// capacityTolerance is the absolute accuracy, in capacity units, of
	// nominal volumes computed with the Van der Waals equation.
	capacityTolerance = 0.005

	// volumeTolerance is the absolute accuracy, in capacity units, of
	// internal volumes derived from a nominal capacity.
	volumeTolerance = 0.001
)

// molarVolume finds the root v of the Van der Waals equation written as
// a cubic in the molar volume:
//
//	P·v³ - (P·b + RT)·v² + a·v - a·b = 0
//
// using Newton-Raphson seeded with the ideal gas solution v = RT/P.
// Iteration stops once a step is smaller than tolerance.
func molarVolume(P, a, b, RT, tolerance float64) (float64, error) {
	PbRT := P*b + RT
	PbRT2, ab, P3 := 2*PbRT, a*b, 3*P
	v1 := RT / P
	for i := 0; i < maxNewtonIterations; i++ {
		v0 := v1
		f := P*v0*v0*v0 - PbRT*v0*v0 + a*v0 - ab
		fprime := P3*v0*v0 - PbRT2*v0 + a
		if fprime == 0 {
			return v0, fmt.Errorf("gasblend: molar volume at P=%g: zero derivative: %w", P, ErrNoConvergence)
		}
		v1 = v0 - f/fprime
		if math.Abs(v1-v0) < tolerance {
			return v1, nil
		}
	}
	return v1, fmt.Errorf("gasblend: molar volume at P=%g after %d iterations: %w", P, maxNewtonIterations, ErrNoConvergence)
}

// capacityUncertainty returns how closely the molar volume must be solved
// for the nominal volume of internalVolume at pressure P to be accurate to
// capacityTolerance.
//
// The nominal volume at one atmosphere is
//
//	Va = V·RT / (Pa·v)
//
// so first-order error propagation gives δVa = V·RT/(Pa·v²)·δv. Using the
// ideal gas estimate v = RT/P this becomes
//
//	δv < Pa·RT·δVa / (P²·V)
func capacityUncertainty(P, internalVolume, RT, pAtm float64) float64 {
	return pAtm * RT * capacityTolerance / (P * P * internalVolume)
}

// vdwPressure returns the pressure of a gas with molar volume v.
func vdwPressure(v, a, b, RT float64) float64 {
	return RT/(v-b) - a/(v*v)
}
