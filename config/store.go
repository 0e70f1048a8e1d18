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
	"sync/atomic"

	"seehuhn.de/go/audiovis"
)

// Store holds the current settings. It can be read by the render loop
// while another goroutine changes the settings.
//
// Store implements [audiovis.Source]. The zero value holds
// [audiovis.DefaultSettings].
type Store struct {
	cur atomic.Pointer[audiovis.Settings]
}

// NewStore returns a store holding s.
func NewStore(s audiovis.Settings) *Store {
	st := &Store{}
	st.Set(s)
	return st
}

// Snapshot returns the current settings.
func (st *Store) Snapshot() audiovis.Settings {
	if p := st.cur.Load(); p != nil {
		return *p
	}
	return audiovis.DefaultSettings()
}

// Set replaces the current settings.
func (st *Store) Set(s audiovis.Settings) {
	st.cur.Store(&s)
}

// Update applies fn to a copy of the current settings and stores the
// result. Concurrent updates are not lost: fn is called again if another
// goroutine changed the settings in the meantime.
func (st *Store) Update(fn func(*audiovis.Settings)) {
	for {
		old := st.cur.Load()
		next := audiovis.DefaultSettings()
		if old != nil {
			next = *old
		}
		fn(&next)
		if st.cur.CompareAndSwap(old, &next) {
			return
		}
	}
}
