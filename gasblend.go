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

// Package gasblend computes how much breathing gas a pressurized cylinder
// holds and what happens to its contents when gases are blended in it.
// Gas amounts are nominal volumes: the volume the gas would occupy at one
// atmosphere. They can be computed either with the ideal gas law or with
// the Van der Waals equation of state, which matters at the pressures
// scuba cylinders are filled to.
package gasblend

// Version gives the version number.
const Version = "1.0.0"
