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

// drawSpine draws one rounded square per sample, centred on the middle
// line of the frame. The side length is proportional to the sample, and
// a full sample fills the sample's cell. Silent samples draw nothing.
func drawSpine(c canvas.Canvas, f orient.Frame, samples []float64, lk look) {
	if len(samples) == 0 {
		return
	}
	step := f.Length() / float64(len(samples))
	mid := f.Depth() / 2
	full := step*(1-2*lk.offset) - lk.inset()

	for i, s := range samples {
		s = level(s)
		if s == 0 {
			continue
		}
		size := full * s
		u := step*(float64(i)+0.5) - size/2
		item(c, f, u, mid-size/2, size, size, lk, true)
	}
}
