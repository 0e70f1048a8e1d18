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

package main

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// frameSource produces the samples for consecutive frames. Next returns
// io.EOF after the last frame.
type frameSource interface {
	Next() ([]float64, error)
}

var errNotWAV = errors.New("not a valid WAV file")

// wavSource plays back a WAV file, one block of samples per frame, and
// turns every block into band levels.
type wavSource struct {
	file *os.File
	dec  *wav.Decoder

	channels int
	stereo   bool
	scale    float64 // maps PCM values to [-1, 1]

	buf  *audio.IntBuffer
	hist [][]float64 // most recent samples, per channel
	an   []*analyser // one per displayed channel

	levels []float64
}

// openWAV opens a WAV file for playback at the given frame rate. The
// number of levels per frame is 2·pairs. If stereo is set and the file
// has at least two channels, the first half of the levels shows the
// left channel and the second half the right channel. Otherwise all
// channels are mixed down.
func openWAV(name string, framerate, pairs int, stereo bool) (*wavSource, error) {
	fd, err := os.Open(name)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(fd)
	if !dec.IsValidFile() {
		fd.Close()
		return nil, fmt.Errorf("%s: %w", name, errNotWAV)
	}
	dec.ReadInfo()

	rate := int(dec.SampleRate)
	channels := int(dec.NumChans)
	depth := int(dec.BitDepth)
	if rate <= 0 || channels <= 0 || depth <= 0 {
		fd.Close()
		return nil, fmt.Errorf("%s: %w", name, errNotWAV)
	}
	stereo = stereo && channels >= 2

	shown, bands := 1, 2*pairs
	if stereo {
		shown, bands = 2, pairs
	}
	var an []*analyser
	for range shown {
		a, err := newAnalyser(rate, bands)
		if err != nil {
			fd.Close()
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		an = append(an, a)
	}

	hop := max(rate/framerate, 1)
	s := &wavSource{
		file:     fd,
		dec:      dec,
		channels: channels,
		stereo:   stereo,
		scale:    1 / math.Exp2(float64(depth-1)),
		buf: &audio.IntBuffer{
			Format: &audio.Format{NumChannels: channels, SampleRate: rate},
			Data:   make([]int, hop*channels),
		},
		hist:   make([][]float64, shown),
		an:     an,
		levels: make([]float64, 2*pairs),
	}
	return s, nil
}

// Next reads the samples for one frame and returns the band levels.
// The returned slice is overwritten by the following call.
func (s *wavSource) Next() ([]float64, error) {
	// PCMBuffer may return short reads, so keep reading until the
	// buffer is full or the data ends.
	n := 0
	for n < len(s.buf.Data) {
		part := &audio.IntBuffer{Format: s.buf.Format, Data: s.buf.Data[n:]}
		m, err := s.dec.PCMBuffer(part)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		if m == 0 {
			break
		}
		n += m
	}
	frames := n / s.channels
	if frames == 0 {
		return nil, io.EOF
	}

	data := s.buf.Data[:frames*s.channels]
	for c := range s.hist {
		for i := range frames {
			var x float64
			if s.stereo {
				x = float64(data[i*s.channels+c]) * s.scale
			} else {
				for k := range s.channels {
					x += float64(data[i*s.channels+k])
				}
				x *= s.scale / float64(s.channels)
			}
			s.hist[c] = append(s.hist[c], x)
		}
		if extra := len(s.hist[c]) - fftSize; extra > 0 {
			s.hist[c] = append(s.hist[c][:0], s.hist[c][extra:]...)
		}
	}

	bands := s.an[0].Bands()
	for c, a := range s.an {
		if err := a.Levels(s.levels[c*bands:(c+1)*bands], s.hist[c]); err != nil {
			return nil, err
		}
	}
	return s.levels, nil
}

func (s *wavSource) Close() error {
	return s.file.Close()
}

// fixedSource repeats the same samples for a given number of frames.
type fixedSource struct {
	samples []float64
	frames  int
}

func (s *fixedSource) Next() ([]float64, error) {
	if s.frames <= 0 {
		return nil, io.EOF
	}
	s.frames--
	return s.samples, nil
}

// synthSource generates a slowly moving artificial spectrum.
type synthSource struct {
	n      int
	frame  int
	frames int // zero means no limit
	out    []float64
}

func newSynthSource(n, frames int) *synthSource {
	return &synthSource{n: n, frames: frames, out: make([]float64, n)}
}

func (s *synthSource) Next() ([]float64, error) {
	if s.frames > 0 && s.frame >= s.frames {
		return nil, io.EOF
	}
	t := float64(s.frame) / 30
	for i := range s.out {
		x := (float64(i) + 0.5) / float64(s.n)
		v := 0.55 + 0.35*math.Sin(2*math.Pi*(t-x)) - 0.3*x
		s.out[i] = min(max(v, 0), 1)
	}
	s.frame++
	return s.out, nil
}
