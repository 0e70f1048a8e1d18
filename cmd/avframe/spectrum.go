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
	"math"
	"math/cmplx"

	algofft "github.com/cwbudde/algo-fft"
)

const (
	fftSize = 2048

	lowestFreq  = 50    // Hz
	highestFreq = 16000 // Hz

	// floorDB is the level shown as an empty bar.
	floorDB = -60

	// decay is applied to a band's level once per frame while the signal
	// is quieter than the displayed level.
	decay = 0.85
)

var errTooManyBands = errors.New("too many bands for the sample rate")

// analyser turns blocks of PCM samples into band levels in [0, 1].
type analyser struct {
	plan   *algofft.Plan[complex128]
	window []float64
	gain   float64

	in, out []complex128

	// edges[i] and edges[i+1] delimit the FFT bins of band i.
	edges []int

	// last holds the smoothed levels of the previous frame.
	last []float64
}

// newAnalyser prepares an analyser producing the given number of bands,
// logarithmically spaced between lowestFreq and highestFreq.
func newAnalyser(rate, bands int) (*analyser, error) {
	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, err
	}

	window := make([]float64, fftSize)
	sum := 0.0
	for i := range window {
		window[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/fftSize)
		sum += window[i]
	}

	nyquist := fftSize / 2
	hi := min(float64(highestFreq), float64(rate)/2)
	edges := make([]int, bands+1)
	for i := range edges {
		f := lowestFreq * math.Pow(hi/lowestFreq, float64(i)/float64(bands))
		k := int(math.Round(f * fftSize / float64(rate)))
		if i > 0 {
			k = max(k, edges[i-1]+1)
		}
		edges[i] = k
	}
	if edges[bands] > nyquist+1 {
		return nil, errTooManyBands
	}

	return &analyser{
		plan:   plan,
		window: window,
		gain:   sum / 2,
		in:     make([]complex128, fftSize),
		out:    make([]complex128, fftSize),
		edges:  edges,
		last:   make([]float64, bands),
	}, nil
}

// Bands returns the number of bands produced by Levels.
func (a *analyser) Bands() int {
	return len(a.last)
}

// Levels analyses the most recent fftSize samples in x, which must be
// normalised to [-1, 1], and stores one level per band in dst. Missing
// samples at the start of x count as silence.
func (a *analyser) Levels(dst, x []float64) error {
	if len(x) > fftSize {
		x = x[len(x)-fftSize:]
	}
	pad := fftSize - len(x)
	for i := range a.in {
		s := 0.0
		if i >= pad {
			s = x[i-pad]
		}
		a.in[i] = complex(s*a.window[i], 0)
	}
	if err := a.plan.Forward(a.out, a.in); err != nil {
		return err
	}

	for b := range a.last {
		peak := 0.0
		for k := a.edges[b]; k < a.edges[b+1]; k++ {
			peak = max(peak, cmplx.Abs(a.out[k]))
		}
		amp := peak / a.gain

		level := 0.0
		if amp > 0 {
			db := 20 * math.Log10(amp)
			level = min(max((db-floorDB)/-floorDB, 0), 1)
		}
		level = max(level, a.last[b]*decay)
		a.last[b] = level
		dst[b] = level
	}
	return nil
}
