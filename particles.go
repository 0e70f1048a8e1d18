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
	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/orient"
)

// particleCells divides the depth of the frame: a particle occupies one
// cell and travels over the remaining ones.
const particleCells = 11

// drawParticles draws one rounded marker per sample. The distance of the
// marker from the baseline is proportional to the sample.
func drawParticles(c canvas.Canvas, f orient.Frame, samples []float64, lk look) {
	if len(samples) == 0 {
		return
	}
	step := f.Length() / float64(len(samples))
	cell := f.Depth() / particleCells
	o := lk.offset
	t := lk.inset()

	du := step*(1-2*o) - t
	dv := cell*(1-2*o) - t
	for i, s := range samples {
		u := step*(float64(i)+o) + t/2
		v := (particleCells-1)*cell*level(s) + cell*o + t/2
		item(c, f, u, v, du, dv, lk, true)
	}
}
