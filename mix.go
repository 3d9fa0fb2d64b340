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
	"sync"

	"github.com/golang/groupcache/lru"
	"gonum.org/v1/gonum/floats"
)

// ErrInvalidMix is returned when a gas mix is created with negative
// fractions or fractions that add up to more than one.
var ErrInvalidMix = errors.New("invalid gas mix")

// mixTolerance is the absolute difference in fractions below which two
// mixes are considered the same gas.
const mixTolerance = 0.0005

// Van der Waals constants for each constituent gas in the metric reference
// system: a [L²·bar/mol²], b [L/mol].
const (
	AOxygen   = 1.382
	AHelium   = 0.0346
	ANitrogen = 1.370
	BOxygen   = 0.03186
	BHelium   = 0.02380
	BNitrogen = 0.03870
)

// Mix is a breathing gas made of oxygen, helium, and nitrogen. The nitrogen
// fraction is whatever is left over. A Mix is immutable; create a new one
// to change its contents.
type Mix struct {
	fO2, fHe float64
}

// Common gases.
var (
	Air      = Mix{fO2: 0.21}
	Oxygen   = Mix{fO2: 1}
	Helium   = Mix{fHe: 1}
	Nitrogen = Mix{}
)

// NewMix returns a mix holding fractions fO2 of oxygen and fHe of helium,
// both between 0 and 1.
func NewMix(fO2, fHe float64) (Mix, error) {
	if fO2 < 0 || fHe < 0 || math.IsNaN(fO2) || math.IsNaN(fHe) {
		return Mix{}, fmt.Errorf("gasblend: %w: fractions must not be negative (O2=%g, He=%g)", ErrInvalidMix, fO2, fHe)
	}
	if fO2+fHe > 1 {
		return Mix{}, fmt.Errorf("gasblend: %w: O2 and He fractions add up to %g, more than 1", ErrInvalidMix, fO2+fHe)
	}
	return Mix{fO2: fO2, fHe: fHe}, nil
}

// FO2 returns the fraction of oxygen, from 0 to 1.
func (m Mix) FO2() float64 { return m.fO2 }

// FHe returns the fraction of helium, from 0 to 1.
func (m Mix) FHe() float64 { return m.fHe }

// FN2 returns the fraction of nitrogen, from 0 to 1.
func (m Mix) FN2() float64 { return 1 - m.fO2 - m.fHe }

// O2 returns the percentage of oxygen, from 0 to 100.
func (m Mix) O2() float64 { return m.fO2 * 100 }

// He returns the percentage of helium, from 0 to 100.
func (m Mix) He() float64 { return m.fHe * 100 }

// Equal returns whether m and m2 have the same fractions to within 0.05%.
func (m Mix) Equal(m2 Mix) bool {
	return math.Abs(m.fO2-m2.fO2) < mixTolerance && math.Abs(m.fHe-m2.fHe) < mixTolerance
}

func (m Mix) String() string {
	o2, he := math.Round(m.O2()), math.Round(m.He())
	switch {
	case o2 == 100:
		return "Oxygen"
	case he == 100:
		return "Helium"
	case o2+he == 0:
		return "Nitrogen"
	case o2 == 21 && he == 0:
		return "Air"
	case he == 0:
		return fmt.Sprintf("%.0f%%", o2)
	}
	return fmt.Sprintf("%.0f/%.0f", o2, he)
}

// maxCachedMixes is the number of distinct mixes whose coefficients are
// remembered.
const maxCachedMixes = 256

var coefficientCache = struct {
	sync.Mutex
	*lru.Cache
}{Cache: lru.New(maxCachedMixes)}

type coefficients struct{ a, b float64 }

// Coefficients returns the Van der Waals constants a [L²·bar/mol²] and
// b [L/mol] of a theoretical homogeneous gas that behaves like the mix.
// a is combined with a geometric-mean quadratic mixing rule and b
// linearly. Results are cached for each distinct set of fractions.
func (m Mix) Coefficients() (a, b float64) {
	key := [2]float64{m.fO2, m.fHe}
	coefficientCache.Lock()
	defer coefficientCache.Unlock()
	if c, ok := coefficientCache.Get(key); ok {
		cc := c.(coefficients)
		return cc.a, cc.b
	}
	a, b = m.computeCoefficients()
	coefficientCache.Add(key, coefficients{a: a, b: b})
	return a, b
}

func (m Mix) computeCoefficients() (a, b float64) {
	x := []float64{m.fO2, m.FN2(), m.fHe}
	as := []float64{AOxygen, ANitrogen, AHelium}
	bs := []float64{BOxygen, BNitrogen, BHelium}
	for i := range x {
		for j := range x {
			aij := as[i]
			if i != j {
				aij = math.Sqrt(as[i] * as[j])
			}
			a += aij * x[i] * x[j]
		}
	}
	return a, floats.Dot(bs, x)
}
