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

	"github.com/sirupsen/logrus"
)

// ErrTopupBelowCurrent is returned when a topup is asked to reach a
// pressure lower than the supply already holds.
var ErrTopupBelowCurrent = errors.New("final pressure is below the current pressure")

const (
	// maxSecantIterations bounds the topup solver.
	maxSecantIterations = 100

	// drainSlack is how far below the current amount a drain target may be
	// before the supply is considered to need draining at all.
	drainSlack = 0.0001

	// fractionTolerance is the accuracy of the resulting gas fractions of
	// a topup.
	fractionTolerance = 0.005
)

// GasSupply is a cylinder holding a mix at a given pressure and
// temperature. Operations that change the contents modify the receiver
// and return it so calls can be chained.
type GasSupply struct {
	// Cylinder holds the gas. It is shared between clones and is never
	// modified by supply operations.
	Cylinder *Cylinder

	Mix Mix

	// Pressure is in the cylinder's pressure units.
	Pressure float64

	// Temperature is the absolute temperature of the gas in the
	// cylinder's temperature units.
	Temperature float64

	// State is the equation of state used for every conversion between
	// pressure and gas amount.
	State State

	// Log receives solver progress. If nil, logrus.StandardLogger() is used.
	Log logrus.FieldLogger
}

// NewGasSupply returns a supply of mix in c at the given pressure and the
// ambient temperature of the cylinder's unit system.
func NewGasSupply(c *Cylinder, mix Mix, pressure float64, s State) *GasSupply {
	return NewGasSupplyAt(c, mix, pressure, s, c.Units.AbsTempAmbient())
}

// NewGasSupplyAt returns a supply of mix in c at the given pressure and
// absolute temperature.
func NewGasSupplyAt(c *Cylinder, mix Mix, pressure float64, s State, temperature float64) *GasSupply {
	return &GasSupply{
		Cylinder:    c,
		Mix:         mix,
		Pressure:    pressure,
		Temperature: temperature,
		State:       s,
	}
}

// Clone returns an independent copy of g that shares its cylinder.
func (g *GasSupply) Clone() *GasSupply {
	o := *g
	return &o
}

func (g *GasSupply) log() logrus.FieldLogger {
	if g.Log == nil {
		return logrus.StandardLogger()
	}
	return g.Log
}

// GasAmount returns the nominal volume of gas in the supply at one
// atmosphere, in capacity units.
func (g *GasSupply) GasAmount() (float64, error) {
	return g.Cylinder.CapacityAtPressure(g.Pressure, g.Mix, g.Temperature, g.State)
}

// O2Amount returns the nominal volume of oxygen in the supply.
func (g *GasSupply) O2Amount() (float64, error) {
	amt, err := g.GasAmount()
	return amt * g.Mix.FO2(), err
}

// N2Amount returns the nominal volume of nitrogen in the supply.
func (g *GasSupply) N2Amount() (float64, error) {
	amt, err := g.GasAmount()
	return amt * g.Mix.FN2(), err
}

// HeAmount returns the nominal volume of helium in the supply.
func (g *GasSupply) HeAmount() (float64, error) {
	amt, err := g.GasAmount()
	return amt * g.Mix.FHe(), err
}

// DrainToGasAmount sets the pressure so that the supply holds amt of gas.
func (g *GasSupply) DrainToGasAmount(amt float64) *GasSupply {
	g.Pressure = g.Cylinder.PressureAtCapacity(amt, g.Mix, g.Temperature, g.State)
	return g
}

// DrainToO2Amount lowers the pressure so that the supply holds amt of
// oxygen. It does nothing if there is already no more than amt.
func (g *GasSupply) DrainToO2Amount(amt float64) (*GasSupply, error) {
	return g.drainTo(amt, g.Mix.FO2(), g.O2Amount)
}

// DrainToN2Amount lowers the pressure so that the supply holds amt of
// nitrogen. It does nothing if there is already no more than amt.
func (g *GasSupply) DrainToN2Amount(amt float64) (*GasSupply, error) {
	return g.drainTo(amt, g.Mix.FN2(), g.N2Amount)
}

// DrainToHeAmount lowers the pressure so that the supply holds amt of
// helium. It does nothing if there is already no more than amt.
func (g *GasSupply) DrainToHeAmount(amt float64) (*GasSupply, error) {
	return g.drainTo(amt, g.Mix.FHe(), g.HeAmount)
}

func (g *GasSupply) drainTo(amt, fraction float64, current func() (float64, error)) (*GasSupply, error) {
	have, err := current()
	if err != nil {
		return g, err
	}
	// Most important when both amt and the current amount are zero.
	if amt-have >= -drainSlack {
		return g, nil
	}
	return g.DrainToGasAmount(amt / fraction), nil
}

// AddO2 adds amt of pure oxygen to the supply.
func (g *GasSupply) AddO2(amt float64) (*GasSupply, error) {
	return g.AddGas(Oxygen, amt)
}

// AddHe adds amt of pure helium to the supply.
func (g *GasSupply) AddHe(amt float64) (*GasSupply, error) {
	return g.AddGas(Helium, amt)
}

// AddGas adds amt (a nominal volume at one atmosphere) of mix to the
// supply, updating the mix and then the pressure. A negative amt removes
// gas of the incoming composition.
func (g *GasSupply) AddGas(mix Mix, amt float64) (*GasSupply, error) {
	current, err := g.GasAmount()
	if err != nil {
		return g, err
	}
	total := current + amt
	if total == 0 {
		g.Pressure = 0
		return g, nil
	}
	o2 := g.Mix.FO2()*current + mix.FO2()*amt
	he := g.Mix.FHe()*current + mix.FHe()*amt
	// Rounding can push the sum of two exact fractions a hair past one, so
	// the fractions are built directly rather than through NewMix.
	g.Mix = Mix{fO2: clampFraction(o2 / total), fHe: clampFraction(he / total)}
	g.Pressure = g.Cylinder.PressureAtCapacity(total, g.Mix, g.Temperature, g.State)
	return g, nil
}

func clampFraction(f float64) float64 {
	return math.Max(0, math.Min(1, f))
}

// Topup fills the supply with mix until it reaches finalPressure, and
// returns the supply with its resulting mix.
//
// With a real gas the pressure after adding a given amount depends on the
// resulting mix, so there is no closed form for the amount to add. It is
// found with the secant method, to within half a percent of each
// resulting gas fraction.
func (g *GasSupply) Topup(mix Mix, finalPressure float64) (*GasSupply, error) {
	if g.Mix.Equal(mix) {
		g.Pressure = finalPressure
		return g, nil
	}
	if finalPressure < g.Pressure {
		return g, fmt.Errorf("gasblend: topup to %g from %g: %w", finalPressure, g.Pressure, ErrTopupBelowCurrent)
	}
	if finalPressure == g.Pressure {
		// Nothing to add.
		return g, nil
	}
	c, T := g.Cylinder, g.Temperature

	// The resulting fractions change by Δ·(incoming − current)/total for
	// each unit of gas added, so an error of δ in the added amount moves
	// them by at most δ·max|Δf|/total.
	finalCapacity, err := c.VdwCapacityAtPressure(finalPressure, mix, T)
	if err != nil {
		return g, err
	}
	dF := math.Max(math.Abs(mix.FO2()-g.Mix.FO2()), math.Abs(mix.FHe()-g.Mix.FHe()))
	tolerance := fractionTolerance * finalCapacity / dF

	residual := func(amt float64) (float64, error) {
		test, err := g.Clone().AddGas(mix, amt)
		if err != nil {
			return 0, err
		}
		return test.Pressure - finalPressure, nil
	}

	// Both seeds assume the added gas behaves ideally. The first estimates
	// the final capacity from the incoming mix and the second from the
	// mix already in the cylinder.
	share := 1 - g.Pressure/finalPressure
	x1 := share * finalCapacity
	startCapacity, err := c.VdwCapacityAtPressure(finalPressure, g.Mix, T)
	if err != nil {
		return g, err
	}
	x0 := share * startCapacity

	f1, err := residual(x1)
	if err != nil {
		return g, err
	}
	f0, err := residual(x0)
	if err != nil {
		return g, err
	}
	log := g.log().WithFields(logrus.Fields{
		"mix":           mix.String(),
		"finalPressure": finalPressure,
		"tolerance":     tolerance,
	})
	for i := 1; ; i++ {
		if f1 == 0 {
			break
		}
		if i > maxSecantIterations {
			return g, fmt.Errorf("gasblend: topup with %v to %g after %d iterations: %w", mix, finalPressure, maxSecantIterations, ErrNoConvergence)
		}
		if f1 == f0 {
			return g, fmt.Errorf("gasblend: topup with %v to %g: flat residual at %g: %w", mix, finalPressure, x1, ErrNoConvergence)
		}
		step := (x1 - x0) / (f1 - f0) * f1
		x0, f0 = x1, f1
		x1 -= step
		if f1, err = residual(x1); err != nil {
			return g, err
		}
		log.WithFields(logrus.Fields{
			"iteration": i,
			"amount":    x1,
			"residual":  f1,
		}).Debug("topup secant step")
		if math.Abs(step) <= tolerance {
			break
		}
	}

	if _, err := g.AddGas(mix, x1); err != nil {
		return g, err
	}
	// The amount is only accurate to the tolerance, so the pressure the
	// solver lands on is slightly off. Report the one that was asked for.
	g.Pressure = finalPressure
	return g, nil
}
