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

// Command avdump writes the drawing calls of all built-in scenes as JSON.
//
// The output can be used to compare the renderer with other
// implementations, or to detect unintended changes in the drawing code.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"maps"
	"math"
	"os"
	"slices"

	"seehuhn.de/go/geom/path"

	"seehuhn.de/go/audiovis"
	"seehuhn.de/go/audiovis/canvas"
	"seehuhn.de/go/audiovis/scenes"
)

func main() {
	out := flag.String("o", "", "write output to `file` instead of stdout")
	flag.Parse()

	var err error
	if *out != "" {
		err = dumpFile(*out, scenes.All)
	} else {
		err = dump(os.Stdout, scenes.All)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "avdump:", err)
		os.Exit(1)
	}
}

// dumpFile writes the JSON output to the named file. Errors from closing
// the file are reported, since they may indicate lost data.
func dumpFile(name string, all map[string][]scenes.Scene) error {
	fd, err := os.Create(name)
	if err != nil {
		return err
	}
	err = dump(fd, all)
	if cerr := fd.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

type jsonScene struct {
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	Samples  []*float64   `json:"samples"`
	Settings jsonSettings `json:"settings"`
	Ops      []jsonOp     `json:"ops"`
}

type jsonSettings struct {
	Mode           string  `json:"mode"`
	Direction      string  `json:"direction"`
	Mirror         string  `json:"mirror"`
	Filling        bool    `json:"filling"`
	LinesThickness float64 `json:"lines_thickness"`
	ItemsOffset    float64 `json:"items_offset"`
	ItemsRoundness float64 `json:"items_roundness"`
	AreaMargin     float64 `json:"area_margin"`
	ReverseOrder   bool    `json:"reverse_order"`
}

type jsonOp struct {
	Op    string        `json:"op"`
	Path  []jsonSegment `json:"path,omitempty"`
	Rect  []float64     `json:"rect,omitempty"`
	RX    float64       `json:"rx,omitempty"`
	RY    float64       `json:"ry,omitempty"`
	Fill  bool          `json:"fill,omitempty"`
	Width float64       `json:"line_width,omitempty"`
}

type jsonSegment struct {
	Cmd string      `json:"cmd"`
	Pts [][]float64 `json:"pts,omitempty"`
}

// dump renders every scene into a recorder and writes the recorded
// calls, sorted by category and in catalogue order within a category.
func dump(w io.Writer, all map[string][]scenes.Scene) error {
	var out struct {
		Scenes []jsonScene `json:"scenes"`
	}

	rec := &canvas.Recorder{}
	r := &audiovis.Renderer{Canvas: rec}
	for _, category := range slices.Sorted(maps.Keys(all)) {
		for _, sc := range all[category] {
			rec.Reset()
			r.DrawSettings(sc.Settings, sc.Samples, float64(sc.Width), float64(sc.Height))
			out.Scenes = append(out.Scenes, toJSON(category, sc, rec.Ops))
		}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func toJSON(category string, sc scenes.Scene, ops []canvas.Op) jsonScene {
	s := sc.Settings
	js := jsonScene{
		Name:   category + "_" + sc.Name,
		Width:  sc.Width,
		Height: sc.Height,
		Settings: jsonSettings{
			Mode:           s.Mode.String(),
			Direction:      s.Direction.String(),
			Mirror:         s.Mirror.String(),
			Filling:        s.Filling,
			LinesThickness: s.LinesThickness,
			ItemsOffset:    s.ItemsOffset,
			ItemsRoundness: s.ItemsRoundness,
			AreaMargin:     s.AreaMargin,
			ReverseOrder:   s.ReverseOrder,
		},
		Samples: make([]*float64, len(sc.Samples)),
		Ops:     make([]jsonOp, 0, len(ops)),
	}

	// JSON has no NaN or infinities, these are written as null.
	for i, x := range sc.Samples {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			js.Samples[i] = &x
		}
	}

	for _, op := range ops {
		jop := jsonOp{Op: op.Kind.String()}
		switch op.Kind {
		case canvas.OpPath:
			jop.Path = pathToJSON(op.Path)
		case canvas.OpRect, canvas.OpRoundRect:
			jop.Rect = []float64{op.Rect.LLx, op.Rect.LLy, op.Rect.URx, op.Rect.URy}
			jop.RX, jop.RY = op.RX, op.RY
		}
		if op.Kind != canvas.OpClear && op.Kind != canvas.OpFlush {
			jop.Fill = op.Style.Fill
			if !op.Style.Fill {
				jop.Width = op.Style.Width
			}
		}
		js.Ops = append(js.Ops, jop)
	}
	return js
}

func pathToJSON(p *path.Data) []jsonSegment {
	var segs []jsonSegment
	i := 0
	for _, cmd := range p.Cmds {
		var seg jsonSegment
		n := 0
		switch cmd {
		case path.CmdMoveTo:
			seg.Cmd, n = "M", 1
		case path.CmdLineTo:
			seg.Cmd, n = "L", 1
		case path.CmdQuadTo:
			seg.Cmd, n = "Q", 2
		case path.CmdCubeTo:
			seg.Cmd, n = "C", 3
		case path.CmdClose:
			seg.Cmd = "Z"
		}
		for _, pt := range p.Coords[i : i+n] {
			seg.Pts = append(seg.Pts, []float64{pt.X, pt.Y})
		}
		i += n
		segs = append(segs, seg)
	}
	return segs
}
