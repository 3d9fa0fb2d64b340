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
	"math"
	"testing"

	"gonum.org/v1/gonum/floats/scalar"
	"pgregory.net/rapid"
)

func TestNewMix(t *testing.T) {
	var tests = []struct {
		fO2, fHe float64
		valid    bool
	}{
		{fO2: 0.21, fHe: 0, valid: true},
		{fO2: 0.18, fHe: 0.45, valid: true},
		{fO2: 1, fHe: 0, valid: true},
		{fO2: 0, fHe: 0, valid: true},
		{fO2: 1.2, fHe: 0},
		{fO2: -0.5, fHe: 0.2},
		{fO2: 0.51, fHe: 0.51},
		{fO2: math.NaN(), fHe: 0},
	}
	for _, test := range tests {
		m, err := NewMix(test.fO2, test.fHe)
		if !test.valid {
			if !errors.Is(err, ErrInvalidMix) {
				t.Errorf("NewMix(%g, %g): have error %v, want ErrInvalidMix", test.fO2, test.fHe, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("NewMix(%g, %g): %v", test.fO2, test.fHe, err)
			continue
		}
		if m.FO2() != test.fO2 || m.FHe() != test.fHe {
			t.Errorf("NewMix(%g, %g): have %g/%g", test.fO2, test.fHe, m.FO2(), m.FHe())
		}
	}
}

func TestMixFractionsSum(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fO2 := rapid.Float64Range(0, 1).Draw(t, "fO2")
		fHe := rapid.Float64Range(0, 1-fO2).Draw(t, "fHe")
		m, err := NewMix(fO2, fHe)
		if err != nil {
			// fO2 + (1 - fO2) can round past one.
			return
		}
		if sum := m.FO2() + m.FHe() + m.FN2(); math.Abs(sum-1) > 1.e-12 {
			t.Fatalf("fractions of %v add up to %g", m, sum)
		}
		if m.FN2() < -1.e-12 {
			t.Fatalf("negative nitrogen fraction %g", m.FN2())
		}
	})
}

func TestMixPercentages(t *testing.T) {
	m, _ := NewMix(0.18, 0.45)
	if !scalar.EqualWithinAbsOrRel(m.O2(), 18, 1.e-12, 1.e-12) {
		t.Errorf("O2: have %g, want 18", m.O2())
	}
	if !scalar.EqualWithinAbsOrRel(m.He(), 45, 1.e-12, 1.e-12) {
		t.Errorf("He: have %g, want 45", m.He())
	}
	if !scalar.EqualWithinAbsOrRel(m.FN2(), 0.37, 1.e-12, 1.e-12) {
		t.Errorf("N2: have %g, want 0.37", m.FN2())
	}
}

func TestMixEqual(t *testing.T) {
	m1, _ := NewMix(0.32, 0)
	m2, _ := NewMix(0.3204, 0.0004)
	m3, _ := NewMix(0.321, 0)
	if !m1.Equal(m2) {
		t.Errorf("%v and %v should be equal", m1, m2)
	}
	if m1.Equal(m3) {
		t.Errorf("%v and %v should differ", m1, m3)
	}
	if !Air.Equal(Mix{fO2: 0.21}) {
		t.Error("air should equal itself")
	}
}

func TestMixString(t *testing.T) {
	var tests = []struct {
		fO2, fHe float64
		out      string
	}{
		{fO2: 0.21, out: "Air"},
		{fO2: 1, out: "Oxygen"},
		{fHe: 1, out: "Helium"},
		{out: "Nitrogen"},
		{fO2: 0.32, out: "32%"},
		{fO2: 0.18, fHe: 0.45, out: "18/45"},
		{fO2: 0.2099999, out: "Air"},
	}
	for _, test := range tests {
		t.Run(test.out, func(t *testing.T) {
			m, err := NewMix(test.fO2, test.fHe)
			if err != nil {
				t.Fatal(err)
			}
			if s := m.String(); s != test.out {
				t.Errorf("have %q, want %q", s, test.out)
			}
		})
	}
}

func TestCoefficients(t *testing.T) {
	var tests = []struct {
		name string
		m    Mix
		a, b float64
	}{
		{name: "oxygen", m: Oxygen, a: AOxygen, b: BOxygen},
		{name: "helium", m: Helium, a: AHelium, b: BHelium},
		{name: "nitrogen", m: Nitrogen, a: ANitrogen, b: BNitrogen},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			a, b := test.m.Coefficients()
			if a != test.a || b != test.b {
				t.Errorf("have a=%g b=%g, want a=%g b=%g", a, b, test.a, test.b)
			}
		})
	}
	t.Run("air", func(t *testing.T) {
		a, b := Air.Coefficients()
		if !scalar.EqualWithinAbs(a, 1.3725157, 1.e-6) {
			t.Errorf("a: have %g, want 1.3725157", a)
		}
		if !scalar.EqualWithinAbs(b, 0.0372636, 1.e-6) {
			t.Errorf("b: have %g, want 0.0372636", b)
		}
	})
	t.Run("cached", func(t *testing.T) {
		m, _ := NewMix(0.18, 0.45)
		a1, b1 := m.Coefficients()
		a2, b2 := m.Coefficients()
		if a1 != a2 || b1 != b2 {
			t.Errorf("cached coefficients changed: %g,%g != %g,%g", a1, b1, a2, b2)
		}
		wantA, wantB := m.computeCoefficients()
		if a1 != wantA || b1 != wantB {
			t.Errorf("cached coefficients %g,%g differ from computed %g,%g", a1, b1, wantA, wantB)
		}
		// A nearby mix must not hit the same entry.
		n, _ := NewMix(0.1800001, 0.45)
		if a3, _ := n.Coefficients(); a3 == a1 {
			t.Errorf("%v and %v share coefficients", m, n)
		}
	})
}

func TestCoefficientsBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		fO2 := rapid.Float64Range(0, 1).Draw(t, "fO2")
		fHe := rapid.Float64Range(0, 1-fO2).Draw(t, "fHe")
		m, err := NewMix(fO2, fHe)
		if err != nil {
			return
		}
		a, b := m.Coefficients()
		if a < AHelium-1.e-9 || a > AOxygen+1.e-9 {
			t.Fatalf("a=%g for %v is outside the constituent range", a, m)
		}
		if b < BHelium-1.e-9 || b > BNitrogen+1.e-9 {
			t.Fatalf("b=%g for %v is outside the constituent range", b, m)
		}
	})
}
