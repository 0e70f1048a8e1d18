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

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/audiovis"
	"seehuhn.de/go/audiovis/orient"
)

var allKeys = []string{
	"AV_MODE", "AV_DIRECTION", "AV_MIRROR", "AV_FILLING",
	"AV_LINES_THICKNESS", "AV_ITEMS_OFFSET", "AV_ITEMS_ROUNDNESS",
	"AV_AREA_MARGIN", "AV_REVERSE_ORDER", "AV_FRAMERATE", "AV_BAR_PAIRS",
	"AV_STEREO", "AV_WIDTH", "AV_HEIGHT", "AV_LOG_LEVEL",
}

// clearEnv makes sure that no AV_ variables leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range allKeys {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
	assert.Equal(t, 12, c.Samples())
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("AV_MODE", "Levels")
	t.Setenv("AV_DIRECTION", "left-to-right")
	t.Setenv("AV_MIRROR", "split-channels")
	t.Setenv("AV_FILLING", "false")
	t.Setenv("AV_LINES_THICKNESS", "2.5")
	t.Setenv("AV_ITEMS_OFFSET", "0.2")
	t.Setenv("AV_ITEMS_ROUNDNESS", "1")
	t.Setenv("AV_AREA_MARGIN", "12")
	t.Setenv("AV_REVERSE_ORDER", "true")
	t.Setenv("AV_FRAMERATE", "30")
	t.Setenv("AV_BAR_PAIRS", "10")
	t.Setenv("AV_STEREO", "0")
	t.Setenv("AV_WIDTH", "1920")
	t.Setenv("AV_HEIGHT", " 1080 ")
	t.Setenv("AV_LOG_LEVEL", "debug")

	c, err := Load()
	require.NoError(t, err)

	want := Config{
		Settings: audiovis.Settings{
			Mode:           audiovis.Levels,
			Direction:      orient.LeftToRight,
			Mirror:         orient.SplitChannels,
			LinesThickness: 2.5,
			ItemsOffset:    0.2,
			ItemsRoundness: 1,
			AreaMargin:     12,
			ReverseOrder:   true,
		},
		Framerate: 30,
		BarPairs:  10,
		Width:     1920,
		Height:    1080,
		LogLevel:  slog.LevelDebug,
	}
	assert.Equal(t, want, c)
}

func TestLoadInvalid(t *testing.T) {
	clearEnv(t)
	t.Setenv("AV_MODE", "oscilloscope")
	t.Setenv("AV_FRAMERATE", "fast")
	t.Setenv("AV_ITEMS_OFFSET", "0.7")
	t.Setenv("AV_BAR_PAIRS", "0")
	t.Setenv("AV_STEREO", "maybe")
	t.Setenv("AV_LOG_LEVEL", "loud")
	t.Setenv("AV_LINES_THICKNESS", "NaN")
	t.Setenv("AV_WIDTH", "640")

	c, err := Load()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.ErrorIs(t, err, audiovis.ErrUnknownMode)

	for _, key := range []string{"AV_MODE", "AV_FRAMERATE", "AV_ITEMS_OFFSET", "AV_BAR_PAIRS", "AV_STEREO", "AV_LOG_LEVEL", "AV_LINES_THICKNESS"} {
		assert.Contains(t, err.Error(), key)
	}
	assert.NotContains(t, err.Error(), "AV_WIDTH")

	def := Default()
	assert.Equal(t, def.Settings.Mode, c.Settings.Mode)
	assert.Equal(t, def.Framerate, c.Framerate)
	assert.Equal(t, def.Settings.ItemsOffset, c.Settings.ItemsOffset)
	assert.Equal(t, def.Settings.LinesThickness, c.Settings.LinesThickness)
	assert.Equal(t, def.BarPairs, c.BarPairs)
	assert.Equal(t, def.Stereo, c.Stereo)
	assert.Equal(t, def.LogLevel, c.LogLevel)
	assert.Equal(t, 640, c.Width)
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t)
	os.Unsetenv("AV_MODE")
	os.Unsetenv("AV_FRAMERATE")

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	data := "AV_MODE=spine\n# comment\nAV_FRAMERATE=90\n"
	require.NoError(t, os.WriteFile(envFile, []byte(data), 0o644))

	require.NoError(t, LoadEnvFile(envFile))
	t.Cleanup(func() {
		os.Unsetenv("AV_MODE")
		os.Unsetenv("AV_FRAMERATE")
	})

	c, err := Load()
	require.NoError(t, err)
	assert.Equal(t, audiovis.Spine, c.Settings.Mode)
	assert.Equal(t, 90, c.Framerate)

	assert.NoError(t, LoadEnvFile(filepath.Join(dir, "missing.env")))
}

func TestRenderSettings(t *testing.T) {
	c := Default()
	c.Settings.Mirror = orient.SplitChannels

	c.Stereo = true
	assert.Equal(t, orient.SplitChannels, c.RenderSettings().Mirror)

	c.Stereo = false
	assert.Equal(t, orient.Full, c.RenderSettings().Mirror)
	assert.Equal(t, orient.SplitChannels, c.Settings.Mirror)

	c.Settings.Mirror = orient.Off
	assert.Equal(t, orient.Off, c.RenderSettings().Mirror)
}

func TestStoreZeroValue(t *testing.T) {
	var st Store
	assert.Equal(t, audiovis.DefaultSettings(), st.Snapshot())

	st.Update(func(s *audiovis.Settings) { s.Mode = audiovis.Bars })
	want := audiovis.DefaultSettings()
	want.Mode = audiovis.Bars
	assert.Equal(t, want, st.Snapshot())
}

func TestStoreSnapshotIsCopy(t *testing.T) {
	st := NewStore(audiovis.Settings{Mode: audiovis.Spine})
	s := st.Snapshot()
	s.Mode = audiovis.Wave
	assert.Equal(t, audiovis.Spine, st.Snapshot().Mode)

	var src audiovis.Source = st
	assert.Equal(t, audiovis.Spine, src.Snapshot().Mode)
}

func TestStoreConcurrentUpdate(t *testing.T) {
	st := NewStore(audiovis.Settings{})

	const writers, rounds = 8, 500
	var wg sync.WaitGroup
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				st.Update(func(s *audiovis.Settings) {
					s.AreaMargin++
					s.LinesThickness = s.AreaMargin
				})
			}
		}()
	}
	for range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range rounds {
				s := st.Snapshot()
				if s.LinesThickness != s.AreaMargin {
					t.Errorf("torn snapshot: %v != %v", s.LinesThickness, s.AreaMargin)
					return
				}
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, float64(writers*rounds), st.Snapshot().AreaMargin)
}

func TestInvalidValueWrapping(t *testing.T) {
	l := &loader{}
	l.fail("AV_X", "y", errors.New("bad"))
	err := errors.Join(l.errs...)
	assert.ErrorIs(t, err, ErrInvalidValue)
	assert.EqualError(t, err, `AV_X="y": invalid configuration value: bad`)
}
