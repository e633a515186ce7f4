// Package chord tracks keys as they go down and up and reports when a chord
// is complete.
package chord

import "github.com/verte-zerg/typewriter/internal/keycode"

// State holds the keys currently down and every key pressed since the chord
// started. Held is always a subset of accumulated.
type State struct {
	held        keycode.Set
	accumulated keycode.Set
}

// KeyDown adds k to the chord. Pressing a key while nothing is held starts a
// new chord and drops the previous one.
func (s *State) KeyDown(k keycode.Code) {
	if k == keycode.No {
		return
	}
	if s.held.Empty() {
		s.accumulated = keycode.Set{}
	}
	s.held = s.held.With(k)
	s.accumulated = s.accumulated.With(k)
}

// KeyUp releases k. Releasing a key that is not held does nothing.
func (s *State) KeyUp(k keycode.Code) {
	s.held = s.held.Without(k)
}

// Reset clears the chord.
func (s *State) Reset() {
	s.held = keycode.Set{}
	s.accumulated = keycode.Set{}
}

func (s *State) Held() keycode.Set        { return s.held }
func (s *State) Accumulated() keycode.Set { return s.accumulated }

func (s *State) IsHeld(k keycode.Code) bool        { return s.held.Has(k) }
func (s *State) IsAccumulated(k keycode.Code) bool { return s.accumulated.Has(k) }

// Started reports whether any key is down.
func (s *State) Started() bool { return !s.held.Empty() }

// Completed reports whether a chord was pressed and fully released.
func (s *State) Completed() bool {
	return s.held.Empty() && !s.accumulated.Empty()
}
