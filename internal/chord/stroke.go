package chord

import "github.com/verte-zerg/typewriter/internal/keycode"

// Stroke remembers the last key of a sequential stroke and how many times in
// a row it was pressed.
type Stroke struct {
	Key    keycode.Code
	Repeat int
}

// Press records k.
func (s *Stroke) Press(k keycode.Code) {
	if k == s.Key && s.Repeat > 0 {
		s.Repeat++
		return
	}
	s.Key = k
	s.Repeat = 1
}

// Reset forgets the last key.
func (s *Stroke) Reset() {
	*s = Stroke{}
}
