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
	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/orient"
)

// drawWave draws a smooth curve through all samples, spread evenly over
// the length of the frame.
//
// Between two neighbouring samples the curve is a cubic Bézier segment
// with both control points half way along, at the height of the nearer
// sample. The curve is therefore horizontal at every sample position.
// A filled wave is closed along the baseline. An outlined wave is
// squeezed by the line width so that the stroke stays inside the frame.
//
// A single sample gives a flat line. Nothing is drawn for an empty
// sample sequence or a frame without area.
func drawWave(c canvas.Canvas, f orient.Frame, samples []float64, lk look) {
	n := len(samples)
	length := f.Length()
	depth := f.Depth()
	if n == 0 || !(length > 0 && depth > 0) {
		return
	}
	if n == 1 {
		samples = []float64{samples[0], samples[0]}
		n = 2
	}

	t := lk.inset()
	height := func(s float64) float64 {
		return t/2 + (depth-t)*level(s)
	}

	step := length / float64(n-1)
	p := &path.Data{}
	p.MoveTo(f.Point(0, height(samples[0])))
	for i := range n - 1 {
		v0 := height(samples[i])
		v1 := height(samples[i+1])
		mid := step * (float64(i) + 0.5)
		p.CubeTo(
			f.Point(mid, v0),
			f.Point(mid, v1),
			f.Point(step*float64(i+1), v1))
	}
	if lk.fill {
		p.LineTo(f.Point(length, 0))
		p.LineTo(f.Point(0, 0))
		p.Close()
	}

	c.DrawPath(p, lk.style())
}
