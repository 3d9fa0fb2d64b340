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


// Command gasblend is a command-line interface for breathing gas blending
// calculations.
package main

import (
	"fmt"
	"os"

	"github.com/scubalib/gasblend/gasutil"
)

func main() {
	if err := gasutil.Root.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(-1)
	}
}
