package exercise

import (
	"errors"

	"github.com/verte-zerg/typewriter/internal/scheme"
)

// ErrOutOfRange is returned when a move would leave the exercise bounds.
var ErrOutOfRange = errors.New("exercise: position out of range")

// Progress is a position within a list of units. The position ranges over
// [0, len]; len means every unit is done.
type Progress struct {
	units    []Unit
	position int
}

func NewProgress(units []Unit) Progress {
	return Progress{units: units}
}

func (p *Progress) Units() []Unit { return p.units }
func (p *Progress) Len() int      { return len(p.units) }
func (p *Progress) Position() int { return p.position }
func (p *Progress) IsEmpty() bool { return len(p.units) == 0 }

func (p *Progress) IsComplete() bool {
	return len(p.units) > 0 && p.position == len(p.units)
}

// Advance moves one unit forward. Past the end it wraps to the start when
// wrap is set and fails otherwise.
func (p *Progress) Advance(wrap bool) error {
	return p.AdvanceTo(p.position+1, wrap)
}

// AdvanceTo moves forward to target. Landing on len always succeeds.
func (p *Progress) AdvanceTo(target int, wrap bool) error {
	n := len(p.units)
	switch {
	case target < p.position:
		return ErrOutOfRange
	case target <= n:
		p.position = target
	case wrap:
		p.position = 0
	default:
		return ErrOutOfRange
	}
	return nil
}

// Retreat moves one unit back. At the start it wraps to the last unit when
// wrap is set and there is one.
func (p *Progress) Retreat(wrap bool) error {
	switch {
	case p.position > 0:
		p.position--
	case wrap && len(p.units) > 0:
		p.position = len(p.units) - 1
	default:
		return ErrOutOfRange
	}
	return nil
}

// RetreatTo moves back to target. Moving forward is allowed only with wrap.
func (p *Progress) RetreatTo(target int, wrap bool) error {
	if target < 0 || target > len(p.units) {
		return ErrOutOfRange
	}
	if !wrap && target >= p.position {
		return ErrOutOfRange
	}
	p.position = target
	return nil
}

// CurrentUnit returns the unit at the position, or the last unit once the
// exercise is complete.
func (p *Progress) CurrentUnit() (Unit, bool) {
	if len(p.units) == 0 {
		return Unit{}, false
	}
	if p.position < 0 {
		panic("exercise: negative position")
	}
	return p.units[min(p.position, len(p.units)-1)], true
}

// IsMatch reports whether the live input types the current unit. The
// spelling is compared first, then the code.
func (p *Progress) IsMatch(def *scheme.Definition, liveCode, liveSpelling string) bool {
	u, ok := p.CurrentUnit()
	if !ok {
		return false
	}
	if u.Spelling != "" && liveSpelling != "" && u.Spelling == liveSpelling {
		return true
	}
	code, ok := u.ExpectedCode(def)
	return ok && liveCode != "" && code == liveCode
}
