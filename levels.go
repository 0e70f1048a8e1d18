// seehuhn.de/go/audiovis - audio visualisation rendering
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package audiovis

import (
	"math"

	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/orient"
)

// levelCells is the number of cells in a full column.
const levelCells = 10

// litCells returns how many cells of a level column are lit for sample s.
func litCells(s float64) int {
	return min(int(math.Floor(level(s)*levelCells)), levelCells)
}

// drawLevels draws, for each sample, a column of rounded cells starting
// at the baseline. The number of cells is proportional to the sample,
// rounded down.
func drawLevels(c canvas.Canvas, f orient.Frame, samples []float64, lk look) {
	if len(samples) == 0 {
		return
	}
	step := f.Length() / float64(len(samples))
	cell := f.Depth() / levelCells
	o := lk.offset
	t := lk.inset()

	du := step*(1-2*o) - t
	dv := cell*(1-2*o) - t
	for i, s := range samples {
		u := step*(float64(i)+o) + t/2
		for j := range litCells(s) {
			v := cell*(float64(j)+o) + t/2
			item(c, f, u, v, du, dv, lk, true)
		}
	}
}
