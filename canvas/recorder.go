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

package canvas

import (
	"fmt"
	"slices"

	"seehuhn.de/go/geom/path"
	"seehuhn.de/go/geom/rect"
)

// OpKind identifies the Canvas method which produced an [Op].
type OpKind int

const (
	OpClear OpKind = iota
	OpPath
	OpRect
	OpRoundRect
	OpFlush
)

var opNames = [...]string{
	OpClear:     "clear",
	OpPath:      "path",
	OpRect:      "rect",
	OpRoundRect: "round-rect",
	OpFlush:     "flush",
}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opNames) {
		return fmt.Sprintf("OpKind(%d)", int(k))
	}
	return opNames[k]
}

// Op is one recorded Canvas call. Only the fields used by Kind are set.
type Op struct {
	Kind   OpKind
	Path   *path.Data // OpPath
	Rect   rect.Rect  // OpRect, OpRoundRect
	RX, RY float64    // OpRoundRect
	Style  Style
}

// Outline returns the shape drawn by op as a path, or nil if op does not
// draw anything.
func (op Op) Outline() *path.Data {
	switch op.Kind {
	case OpPath:
		return op.Path
	case OpRect:
		return RectPath(op.Rect)
	case OpRoundRect:
		return RoundRectPath(op.Rect, op.RX, op.RY)
	default:
		return nil
	}
}

// Recorder is a Canvas which stores all calls.
type Recorder struct {
	Ops []Op
}

var _ Canvas = (*Recorder)(nil)

// Reset discards all recorded calls.
func (r *Recorder) Reset() {
	r.Ops = r.Ops[:0]
}

func (r *Recorder) Clear() {
	r.Ops = append(r.Ops, Op{Kind: OpClear})
}

// DrawPath records a copy of p.
func (r *Recorder) DrawPath(p *path.Data, s Style) {
	cp := &path.Data{
		Cmds:   slices.Clone(p.Cmds),
		Coords: slices.Clone(p.Coords),
	}
	r.Ops = append(r.Ops, Op{Kind: OpPath, Path: cp, Style: s})
}

func (r *Recorder) DrawRect(rr rect.Rect, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpRect, Rect: rr, Style: s})
}

func (r *Recorder) DrawRoundRect(rr rect.Rect, rx, ry float64, s Style) {
	r.Ops = append(r.Ops, Op{Kind: OpRoundRect, Rect: rr, RX: rx, RY: ry, Style: s})
}

func (r *Recorder) Flush() {
	r.Ops = append(r.Ops, Op{Kind: OpFlush})
}

// Shapes returns the recorded drawing calls, without Clear and Flush.
func (r *Recorder) Shapes() []Op {
	var res []Op
	for _, op := range r.Ops {
		if op.Kind != OpClear && op.Kind != OpFlush {
			res = append(res, op)
		}
	}
	return res
}

// Count returns how often a call of the given kind was recorded.
func (r *Recorder) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Replay issues the recorded calls to c, in order.
func (r *Recorder) Replay(c Canvas) {
	for _, op := range r.Ops {
		switch op.Kind {
		case OpClear:
			c.Clear()
		case OpPath:
			c.DrawPath(op.Path, op.Style)
		case OpRect:
			c.DrawRect(op.Rect, op.Style)
		case OpRoundRect:
			c.DrawRoundRect(op.Rect, op.RX, op.RY, op.Style)
		case OpFlush:
			c.Flush()
		}
	}
}
