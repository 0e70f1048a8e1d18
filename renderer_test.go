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
	"fmt"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
	"seehuhn.de/go/geom/vec"

	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/orient"
)

var (
	allModes      = []Mode{Wave, Levels, Particles, Bars, Spine}
	allDirections = []orient.Direction{orient.TopToBottom, orient.BottomToTop, orient.LeftToRight, orient.RightToLeft}
)

// comparePaths makes go-cmp compare paths by their commands and points,
// allowing for rounding errors.
var comparePaths = cmp.Comparer(func(a, b *path.Data) bool {
	if a == nil || b == nil {
		return a == b
	}
	if !slices.Equal(a.Cmds, b.Cmds) || len(a.Coords) != len(b.Coords) {
		return false
	}
	for i := range a.Coords {
		if a.Coords[i].Sub(b.Coords[i]).Length() > 1e-9 {
			return false
		}
	}
	return true
})

var approx = cmpopts.EquateApprox(0, 1e-9)

// record draws one frame and returns the recorded canvas calls.
func record(s Settings, samples []float64, width, height float64) *canvas.Recorder {
	rec := &canvas.Recorder{}
	r := &Renderer{Canvas: rec, Source: s}
	r.Draw(samples, width, height)
	return rec
}

func TestWaveEndpoints(t *testing.T) {
	samples := []float64{0.25, 0.5, 0.75}

	// Viewport 200×100, stroke width 4: magnitudes are mapped to
	// 2 + (depth-4)·s from the baseline.
	cases := []struct {
		dir        orient.Direction
		start, end vec.Vec2
	}{
		{orient.TopToBottom, vec.Vec2{X: 0, Y: 26}, vec.Vec2{X: 200, Y: 74}},
		{orient.BottomToTop, vec.Vec2{X: 0, Y: 74}, vec.Vec2{X: 200, Y: 26}},
		{orient.LeftToRight, vec.Vec2{X: 51, Y: 0}, vec.Vec2{X: 149, Y: 100}},
		{orient.RightToLeft, vec.Vec2{X: 149, Y: 0}, vec.Vec2{X: 51, Y: 100}},
	}
	for _, c := range cases {
		t.Run(c.dir.String(), func(t *testing.T) {
			s := Settings{Mode: Wave, Direction: c.dir, LinesThickness: 4}
			shapes := record(s, samples, 200, 100).Shapes()
			if len(shapes) != 1 || shapes[0].Kind != canvas.OpPath {
				t.Fatalf("got %d shapes, want one path", len(shapes))
			}
			p := shapes[0].Path
			if shapes[0].Style != (canvas.Style{Width: 4}) {
				t.Errorf("style = %+v", shapes[0].Style)
			}
			if p.Cmds[0] != path.CmdMoveTo || p.Cmds[len(p.Cmds)-1] != path.CmdCubeTo {
				t.Errorf("unexpected commands %v", p.Cmds)
			}
			first, last := p.Coords[0], p.Coords[len(p.Coords)-1]
			if first.Sub(c.start).Length() > 1e-9 {
				t.Errorf("start = %v, want %v", first, c.start)
			}
			if last.Sub(c.end).Length() > 1e-9 {
				t.Errorf("end = %v, want %v", last, c.end)
			}
		})
	}
}

func TestWaveFilled(t *testing.T) {
	s := Settings{Mode: Wave, Direction: orient.BottomToTop, Filling: true, LinesThickness: 7}
	shapes := record(s, []float64{0, 1}, 100, 50).Shapes()
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes", len(shapes))
	}

	want := (&path.Data{}).
		MoveTo(vec.Vec2{X: 0, Y: 50}).
		CubeTo(vec.Vec2{X: 50, Y: 50}, vec.Vec2{X: 50, Y: 0}, vec.Vec2{X: 100, Y: 0}).
		LineTo(vec.Vec2{X: 100, Y: 50}).
		LineTo(vec.Vec2{X: 0, Y: 50}).
		Close()
	if d := cmp.Diff(want, shapes[0].Path, comparePaths); d != "" {
		t.Errorf("path differs (-want +got):\n%s", d)
	}
	if shapes[0].Style != (canvas.Style{Fill: true}) {
		t.Errorf("style = %+v", shapes[0].Style)
	}
}

func TestWaveDegenerate(t *testing.T) {
	s := Settings{Mode: Wave, Direction: orient.TopToBottom, LinesThickness: 2}

	if shapes := record(s, nil, 100, 50).Shapes(); len(shapes) != 0 {
		t.Errorf("no samples: got %d shapes", len(shapes))
	}

	shapes := record(s, []float64{0.5}, 100, 50).Shapes()
	if len(shapes) != 1 {
		t.Fatalf("one sample: got %d shapes", len(shapes))
	}
	for _, q := range shapes[0].Path.Coords {
		if math.Abs(q.Y-25) > 1e-9 {
			t.Errorf("one sample: point %v is not on the flat line y=25", q)
		}
	}
	last := shapes[0].Path.Coords[len(shapes[0].Path.Coords)-1]
	if math.Abs(last.X-100) > 1e-9 {
		t.Errorf("one sample: line ends at %v", last)
	}
}

// reflect mirrors a recorded shape across the centre line of a
// width×height viewport.
func reflect(op canvas.Op, width, height float64, horizontal bool) canvas.Op {
	pt := func(q vec.Vec2) vec.Vec2 {
		if horizontal {
			return vec.Vec2{X: width - q.X, Y: q.Y}
		}
		return vec.Vec2{X: q.X, Y: height - q.Y}
	}
	if op.Path != nil {
		p := &path.Data{Cmds: slices.Clone(op.Path.Cmds)}
		for _, q := range op.Path.Coords {
			p.Coords = append(p.Coords, pt(q))
		}
		op.Path = p
		return op
	}
	a := pt(vec.Vec2{X: op.Rect.LLx, Y: op.Rect.LLy})
	b := pt(vec.Vec2{X: op.Rect.URx, Y: op.Rect.URy})
	op.Rect = rect.Rect{
		LLx: min(a.X, b.X), LLy: min(a.Y, b.Y),
		URx: max(a.X, b.X), URy: max(a.Y, b.Y),
	}
	return op
}

func TestFullMirrorReflects(t *testing.T) {
	const width, height = 300, 160
	samples := []float64{0.1, 0.9, 0.45, 0.3, 1, 0.62}

	for _, mode := range allModes {
		for _, dir := range allDirections {
			for _, fill := range []bool{true, false} {
				name := fmt.Sprintf("%s_%s_fill=%t", mode, dir, fill)
				t.Run(name, func(t *testing.T) {
					s := Settings{
						Mode:           mode,
						Direction:      dir,
						Mirror:         orient.Full,
						Filling:        fill,
						LinesThickness: 3,
						ItemsOffset:    0.1,
						ItemsRoundness: 0.7,
					}
					shapes := record(s, samples, width, height).Shapes()
					if len(shapes) == 0 || len(shapes)%2 != 0 {
						t.Fatalf("got %d shapes", len(shapes))
					}

					half := len(shapes) / 2
					var reflected []canvas.Op
					for _, op := range shapes[:half] {
						reflected = append(reflected, reflect(op, width, height, dir.IsHorizontal()))
					}
					if d := cmp.Diff(reflected, shapes[half:], comparePaths, approx); d != "" {
						t.Errorf("second half is not a reflection (-want +got):\n%s", d)
					}
				})
			}
		}
	}
}

func TestRouteSplitChannels(t *testing.T) {
	samples := []float64{0.2, 0.4, 0.6, 0.8}
	orig := slices.Clone(samples)

	got := route(samples, orient.SplitChannels)
	want := [][]float64{{0.2, 0.4}, {0.8, 0.6}}
	if d := cmp.Diff(want, got); d != "" {
		t.Errorf("route (-want +got):\n%s", d)
	}
	if !slices.Equal(samples, orig) {
		t.Errorf("samples modified: %v", samples)
	}

	odd := route([]float64{1, 2, 3}, orient.SplitChannels)
	if d := cmp.Diff([][]float64{{1}, {2}}, odd); d != "" {
		t.Errorf("odd length (-want +got):\n%s", d)
	}

	if n := len(route(samples, orient.Full)); n != 2 {
		t.Errorf("full mirror: %d parts", n)
	}
	if n := len(route(samples, orient.Off)); n != 1 {
		t.Errorf("no mirror: %d parts", n)
	}
}

func TestSplitChannelsDraw(t *testing.T) {
	s := Settings{Mode: Bars, Direction: orient.TopToBottom, Mirror: orient.SplitChannels, Filling: true}
	shapes := record(s, []float64{0.2, 0.4, 0.6, 0.8}, 100, 200).Shapes()

	// The first half of the samples grows down from the top edge, the
	// reversed second half grows up from the bottom edge.
	want := []canvas.Op{
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 0, LLy: 0, URx: 50, URy: 20}, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 50, LLy: 0, URx: 100, URy: 40}, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 0, LLy: 120, URx: 50, URy: 200}, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 50, LLy: 140, URx: 100, URy: 200}, Style: canvas.Style{Fill: true}},
	}
	if d := cmp.Diff(want, shapes, comparePaths, approx); d != "" {
		t.Errorf("shapes differ (-want +got):\n%s", d)
	}
}

func TestReverseOrderSplitChannels(t *testing.T) {
	s := Settings{
		Mode:         Bars,
		Direction:    orient.TopToBottom,
		Mirror:       orient.SplitChannels,
		Filling:      true,
		ReverseOrder: true,
	}
	// a loud left channel and a quiet right channel
	shapes := record(s, []float64{1, 0.9, 0.1, 0.2}, 100, 200).Shapes()

	// Both channels stay in their own half, only the order of the bars
	// within each half is reversed.
	want := []canvas.Op{
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 0, LLy: 0, URx: 50, URy: 90}, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 50, LLy: 0, URx: 100, URy: 100}, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 0, LLy: 190, URx: 50, URy: 200}, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRect, Rect: rect.Rect{LLx: 50, LLy: 180, URx: 100, URy: 200}, Style: canvas.Style{Fill: true}},
	}
	if d := cmp.Diff(want, shapes, comparePaths, approx); d != "" {
		t.Errorf("shapes differ (-want +got):\n%s", d)
	}
}

func TestBars(t *testing.T) {
	base := Settings{Mode: Bars, Direction: orient.TopToBottom, ItemsOffset: 0.1, LinesThickness: 4}

	t.Run("stroked", func(t *testing.T) {
		shapes := record(base, []float64{0, 1, 0.5}, 300, 100).Shapes()
		if len(shapes) != 2 {
			t.Fatalf("got %d shapes, want 2", len(shapes))
		}
		want := rect.Rect{LLx: 112, LLy: 2, URx: 188, URy: 98}
		if d := cmp.Diff(want, shapes[0].Rect, approx); d != "" {
			t.Errorf("full bar (-want +got):\n%s", d)
		}
	})

	t.Run("filled", func(t *testing.T) {
		s := base
		s.Filling = true
		shapes := record(s, []float64{0, 1, 0}, 300, 100).Shapes()
		if len(shapes) != 1 {
			t.Fatalf("got %d shapes, want 1", len(shapes))
		}
		want := rect.Rect{LLx: 110, LLy: 0, URx: 190, URy: 100}
		if d := cmp.Diff(want, shapes[0].Rect, approx); d != "" {
			t.Errorf("full bar (-want +got):\n%s", d)
		}
	})

	t.Run("silence", func(t *testing.T) {
		shapes := record(base, []float64{0, math.NaN(), -1}, 300, 100).Shapes()
		if len(shapes) != 0 {
			t.Errorf("got %d shapes for silent input", len(shapes))
		}
	})
}

func TestLevelsCells(t *testing.T) {
	cases := []struct {
		s    float64
		want int
	}{
		{0, 0},
		{0.05, 0},
		{0.35, 3},
		{0.99, 9},
		{1, 10},
		{1.7, 10},
		{-0.2, 0},
		{math.NaN(), 0},
	}
	for _, c := range cases {
		if got := litCells(c.s); got != c.want {
			t.Errorf("litCells(%g) = %d, want %d", c.s, got, c.want)
		}

		s := Settings{Mode: Levels, Direction: orient.LeftToRight, Filling: true}
		rec := record(s, []float64{c.s}, 200, 40)
		if got := rec.Count(canvas.OpRoundRect); got != c.want {
			t.Errorf("sample %g: %d cells drawn, want %d", c.s, got, c.want)
		}
	}
}

func TestLevelsGeometry(t *testing.T) {
	s := Settings{Mode: Levels, Direction: orient.BottomToTop, ItemsOffset: 0.25, ItemsRoundness: 1, Filling: true}
	shapes := record(s, []float64{0.2}, 40, 100).Shapes()
	if len(shapes) != 2 {
		t.Fatalf("got %d shapes", len(shapes))
	}

	// cells are 10 units deep, with 2.5 units gap on either side
	want := []canvas.Op{
		{Kind: canvas.OpRoundRect, Rect: rect.Rect{LLx: 10, LLy: 92.5, URx: 30, URy: 97.5}, RX: 10, RY: 2.5, Style: canvas.Style{Fill: true}},
		{Kind: canvas.OpRoundRect, Rect: rect.Rect{LLx: 10, LLy: 82.5, URx: 30, URy: 87.5}, RX: 10, RY: 2.5, Style: canvas.Style{Fill: true}},
	}
	if d := cmp.Diff(want, shapes, comparePaths, approx); d != "" {
		t.Errorf("shapes differ (-want +got):\n%s", d)
	}
}

// TestLinearity checks that the size of spine items and the position of
// particles are proportional to the sample value.
func TestLinearity(t *testing.T) {
	for _, dir := range allDirections {
		s := Settings{Direction: dir, ItemsOffset: 0.1, ItemsRoundness: 0.5, LinesThickness: 2}

		s.Mode = Spine
		size := func(x float64) float64 {
			shapes := record(s, []float64{x}, 120, 90).Shapes()
			if len(shapes) != 1 {
				t.Fatalf("%s: got %d shapes for %g", dir, len(shapes), x)
			}
			r := shapes[0].Rect
			if math.Abs((r.URx-r.LLx)-(r.URy-r.LLy)) > 1e-9 {
				t.Errorf("%s: spine item is not square: %v", dir, r)
			}
			return r.URx - r.LLx
		}
		for _, x := range []float64{1, 0.8, 0.3} {
			if a, b := size(x/2), size(x)/2; math.Abs(a-b) > 1e-9 {
				t.Errorf("%s: spine size(%g/2) = %g, size(%g)/2 = %g", dir, x, a, x, b)
			}
		}

		s.Mode = Particles
		frame := orient.Frame{Dir: dir, Box: rect.Rect{URx: 120, URy: 90}}
		pos := func(x float64) float64 {
			shapes := record(s, []float64{x}, 120, 90).Shapes()
			if len(shapes) != 1 {
				t.Fatalf("%s: got %d shapes for %g", dir, len(shapes), x)
			}
			r := shapes[0].Rect
			// distance of the item's near edge from the baseline
			corners := []vec.Vec2{{X: r.LLx, Y: r.LLy}, {X: r.URx, Y: r.URy}}
			d := math.Inf(1)
			for _, q := range corners {
				d = min(d, baseDistance(frame, q))
			}
			return d
		}
		p0 := pos(0)
		for _, x := range []float64{1, 0.6} {
			if a, b := pos(x/2)-p0, (pos(x)-p0)/2; math.Abs(a-b) > 1e-9 {
				t.Errorf("%s: particle offset(%g/2) = %g, offset(%g)/2 = %g", dir, x, a, x, b)
			}
		}
	}
}

// baseDistance returns the distance of q from the baseline of f.
func baseDistance(f orient.Frame, q vec.Vec2) float64 {
	switch f.Dir {
	case orient.TopToBottom:
		return q.Y - f.Box.LLy
	case orient.BottomToTop:
		return f.Box.URy - q.Y
	case orient.LeftToRight:
		return q.X - f.Box.LLx
	default:
		return f.Box.URx - q.X
	}
}

func TestSpineCentred(t *testing.T) {
	s := Settings{Mode: Spine, Direction: orient.TopToBottom, Filling: true, ItemsRoundness: 1}
	shapes := record(s, []float64{0, 0.5}, 200, 80).Shapes()
	if len(shapes) != 1 {
		t.Fatalf("got %d shapes", len(shapes))
	}
	want := canvas.Op{
		Kind:  canvas.OpRoundRect,
		Rect:  rect.Rect{LLx: 125, LLy: 15, URx: 175, URy: 65},
		RX:    25,
		RY:    25,
		Style: canvas.Style{Fill: true},
	}
	if d := cmp.Diff(want, shapes[0], comparePaths, approx); d != "" {
		t.Errorf("spine item (-want +got):\n%s", d)
	}
}

func TestIdempotent(t *testing.T) {
	samples := []float64{0.3, 0.1, 0.8, 0.55, 0.05, 1, 0.4}
	for _, mode := range allModes {
		for _, m := range []orient.Mirror{orient.Off, orient.Full, orient.SplitChannels} {
			s := Settings{
				Mode:           mode,
				Direction:      orient.RightToLeft,
				Mirror:         m,
				LinesThickness: 2.5,
				ItemsOffset:    0.15,
				ItemsRoundness: 0.3,
				AreaMargin:     4,
				ReverseOrder:   true,
			}
			a := record(s, samples, 320, 240)
			b := record(s, samples, 320, 240)
			if d := cmp.Diff(a.Ops, b.Ops, comparePaths); d != "" {
				t.Errorf("%s/%s: streams differ (-first +second):\n%s", mode, m, d)
			}
		}
	}
}

func TestFrameBracket(t *testing.T) {
	calls := 0
	src := SourceFunc(func() Settings {
		calls++
		return Settings{Mode: Levels, Direction: orient.TopToBottom, Filling: true}
	})

	for _, size := range [][2]float64{{100, 100}, {0, 100}, {0, 0}, {-5, 20}} {
		calls = 0
		rec := &canvas.Recorder{}
		r := &Renderer{Canvas: rec, Source: src}
		r.Draw([]float64{0.5, 0.7}, size[0], size[1])

		if calls != 1 {
			t.Errorf("%v: settings read %d times", size, calls)
		}
		if len(rec.Ops) < 2 || rec.Ops[0].Kind != canvas.OpClear || rec.Ops[len(rec.Ops)-1].Kind != canvas.OpFlush {
			t.Errorf("%v: frame not bracketed by Clear and Flush", size)
		}
		if rec.Count(canvas.OpClear) != 1 || rec.Count(canvas.OpFlush) != 1 {
			t.Errorf("%v: %d clears, %d flushes", size, rec.Count(canvas.OpClear), rec.Count(canvas.OpFlush))
		}
		if size[0] <= 0 && len(rec.Shapes()) != 0 {
			t.Errorf("%v: %d shapes for empty viewport", size, len(rec.Shapes()))
		}
	}
}

func TestNilCanvas(t *testing.T) {
	r := &Renderer{}
	r.Draw([]float64{1, 2, 3}, 100, 100)
	r.DrawSettings(DefaultSettings(), nil, 10, 10)
}

func TestDefaultSource(t *testing.T) {
	rec := &canvas.Recorder{}
	r := &Renderer{Canvas: rec}
	r.Draw([]float64{0.5, 0.5}, 100, 100)

	want := record(DefaultSettings(), []float64{0.5, 0.5}, 100, 100)
	if d := cmp.Diff(want.Ops, rec.Ops, comparePaths); d != "" {
		t.Errorf("streams differ (-want +got):\n%s", d)
	}
}

func TestReverseOrder(t *testing.T) {
	s := Settings{Mode: Bars, Direction: orient.BottomToTop, Filling: true, ItemsOffset: 0.2}
	samples := []float64{0.2, 0.8, 0.5}
	orig := slices.Clone(samples)

	s.ReverseOrder = true
	a := record(s, samples, 90, 60)
	s.ReverseOrder = false
	b := record(s, []float64{0.5, 0.8, 0.2}, 90, 60)

	if d := cmp.Diff(b.Ops, a.Ops, comparePaths); d != "" {
		t.Errorf("reversed stream differs (-want +got):\n%s", d)
	}
	if !slices.Equal(samples, orig) {
		t.Errorf("samples modified: %v", samples)
	}
}

func TestAreaMargin(t *testing.T) {
	for _, mode := range allModes {
		s := Settings{Mode: mode, Direction: orient.LeftToRight, Filling: true, AreaMargin: 10, ItemsRoundness: 0.5}
		for _, op := range record(s, []float64{1, 0.7, 1}, 200, 100).Shapes() {
			var pts []vec.Vec2
			if op.Path != nil {
				pts = op.Path.Coords
			} else {
				pts = []vec.Vec2{{X: op.Rect.LLx, Y: op.Rect.LLy}, {X: op.Rect.URx, Y: op.Rect.URy}}
			}
			for _, q := range pts {
				if q.X < 10-1e-9 || q.X > 190+1e-9 || q.Y < 10-1e-9 || q.Y > 90+1e-9 {
					t.Errorf("%s: point %v inside the margin", mode, q)
				}
			}
		}
	}
}

func TestItemsStayInsideFrame(t *testing.T) {
	const width, height = 150, 100
	samples := []float64{1, 1, 0.5, 1}
	for _, mode := range allModes {
		for _, dir := range allDirections {
			s := Settings{Mode: mode, Direction: dir, LinesThickness: 6, ItemsOffset: 0.05}
			for _, op := range record(s, samples, width, height).Shapes() {
				if op.Kind == canvas.OpPath {
					continue
				}
				r := op.Rect
				w := op.Style.Width / 2
				if r.LLx-w < -1e-9 || r.LLy-w < -1e-9 || r.URx+w > width+1e-9 || r.URy+w > height+1e-9 {
					t.Errorf("%s/%s: stroke of %v leaves the viewport", mode, dir, r)
				}
			}
		}
	}
}
