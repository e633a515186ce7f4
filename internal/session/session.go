// Package session judges a learner's key events against an exercise.
package session

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/verte-zerg/typewriter/internal/chord"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/keycode"
	"github.com/verte-zerg/typewriter/internal/model"
	"github.com/verte-zerg/typewriter/internal/scheme"
)

// Outcome is what a key event did to the exercise.
type Outcome int

const (
	None Outcome = iota
	// Hit is a correct key inside an unfinished unit.
	Hit
	Miss
	// UnitDone means a unit was typed and progress moved on.
	UnitDone
	// Completed means the last unit was typed.
	Completed
)

func (o Outcome) String() string {
	switch o {
	case Hit:
		return "hit"
	case Miss:
		return "miss"
	case UnitDone:
		return "unit-done"
	case Completed:
		return "completed"
	}
	return "none"
}

// echoLimit bounds the free play echo buffer.
const echoLimit = 24

// Metrics counts strokes of the current exercise.
type Metrics struct {
	Correct   int
	Incorrect int
	StartedAt time.Time
	EndedAt   time.Time
}

// Duration is the time from the first key to completion, or to now.
func (m Metrics) Duration(now time.Time) time.Duration {
	if m.StartedAt.IsZero() {
		return 0
	}
	end := m.EndedAt
	if end.IsZero() {
		end = now
	}
	return end.Sub(m.StartedAt)
}

// Option configures a Session.
type Option func(*Session)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) { s.logger = logger }
}

// Session is one learner's practice state. It is not safe for concurrent
// use.
type Session struct {
	def        *scheme.Definition
	assignment exercise.Assignment
	progress   exercise.Progress
	caption    exercise.Caption
	chord      chord.State
	stroke     chord.Stroke
	typed      []string
	metrics    Metrics
	units      map[string]*model.UnitStats
	now        func() time.Time
	logger     *zap.Logger
}

// New starts a session in free play.
func New(def *scheme.Definition, opts ...Option) *Session {
	s := &Session{
		def:    def,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rebuild()
	return s
}

// Load replaces the exercise.
func (s *Session) Load(a exercise.Assignment) {
	s.assignment = a
	s.rebuild()
	s.logger.Debug("exercise loaded",
		zap.String("scheme", s.def.Slug),
		zap.String("title", a.Title),
		zap.Int("units", s.progress.Len()))
}

// SetScheme switches schemes and parses the current answer again.
func (s *Session) SetScheme(def *scheme.Definition) {
	s.def = def
	s.rebuild()
}

func (s *Session) rebuild() {
	format := s.assignment.Format
	if format == scheme.FormatDefault {
		format = s.def.Format
	}
	units := exercise.Parse(s.assignment.Answer, format, s.def)
	s.progress = exercise.NewProgress(units)
	s.caption = exercise.NewCaption(s.assignment, units, format)
	s.chord.Reset()
	s.stroke.Reset()
	s.typed = nil
	s.metrics = Metrics{}
	s.units = make(map[string]*model.UnitStats)
}

func (s *Session) freePlay() {
	s.logger.Debug("exercise finished, switching to free play")
	s.assignment = exercise.Assignment{}
	s.rebuild()
}

func (s *Session) clearInput() {
	s.chord.Reset()
	s.typed = nil
}

// KeyDown handles a key press.
func (s *Session) KeyDown(k keycode.Code) Outcome {
	if k == keycode.No {
		return None
	}
	if s.metrics.StartedAt.IsZero() && !s.progress.IsEmpty() {
		s.metrics.StartedAt = s.now()
	}
	if s.def.Discipline == scheme.Chord {
		if s.progress.IsComplete() && !s.chord.Started() {
			s.freePlay()
		}
		s.chord.KeyDown(k)
		return None
	}
	return s.sequentialDown(k)
}

// KeyUp handles a key release. In chord schemes releasing the last held key
// judges the chord.
func (s *Session) KeyUp(k keycode.Code) Outcome {
	wasHeld := s.chord.IsHeld(k)
	s.chord.KeyUp(k)
	if s.def.Discipline != scheme.Chord || !wasHeld || !s.chord.Completed() {
		return None
	}
	if s.progress.IsEmpty() || s.progress.IsComplete() {
		return None
	}
	unit := s.currentDisplay()
	if !s.progress.IsMatch(s.def, s.LiveCode(), s.LiveSpelling()) {
		s.miss(unit)
		return Miss
	}
	s.hit(unit)
	return s.advance()
}

// ReleaseAll releases every held key, for front ends that only see presses.
func (s *Session) ReleaseAll() Outcome {
	out := None
	for _, k := range s.chord.Held().Codes() {
		if o := s.KeyUp(k); o != None {
			out = o
		}
	}
	return out
}

func (s *Session) sequentialDown(k keycode.Code) Outcome {
	s.chord.KeyDown(k)
	s.stroke.Press(k)
	text := s.def.DecodeKey(k)
	if text == "" {
		return None
	}
	if s.progress.IsComplete() {
		s.freePlay()
	}
	if s.progress.IsEmpty() {
		s.echo(k, text)
		return None
	}

	unit := s.currentDisplay()
	u, _ := s.progress.CurrentUnit()
	candidate := strings.Join(s.typed, "") + text
	expected, ok := u.ExpectedCode(s.def)
	switch {
	case ok && candidate == expected:
		s.metrics.Correct++
	case ok && strings.HasPrefix(expected, candidate):
		s.metrics.Correct++
		s.typed = append(s.typed, text)
		return Hit
	case !ok && s.spells(u, candidate):
		s.metrics.Correct++
	case !ok && u.Spelling != "":
		// Without a derivable code any key may lead to the spelling.
		s.typed = append(s.typed, text)
		return Hit
	default:
		s.miss(unit)
		return Miss
	}
	s.unitStats(unit).Correct++
	s.typed = nil
	return s.advance()
}

func (s *Session) spells(u exercise.Unit, code string) bool {
	spelling, ok := s.def.CodeToSpelling(code)
	return ok && u.Spelling != "" && spelling == u.Spelling
}

func (s *Session) echo(k keycode.Code, text string) {
	if k == keycode.Space {
		s.typed = nil
		return
	}
	s.typed = append(s.typed, text)
	if len(s.typed) > echoLimit {
		s.typed = s.typed[len(s.typed)-echoLimit:]
	}
}

func (s *Session) advance() Outcome {
	if err := s.progress.Advance(false); err != nil {
		return None
	}
	if s.progress.IsComplete() {
		s.metrics.EndedAt = s.now()
		s.logger.Info("exercise completed",
			zap.String("scheme", s.def.Slug),
			zap.String("title", s.assignment.Title),
			zap.Int("correct", s.metrics.Correct),
			zap.Int("incorrect", s.metrics.Incorrect))
		return Completed
	}
	s.chord.Reset()
	return UnitDone
}

func (s *Session) hit(unit string) {
	s.metrics.Correct++
	s.unitStats(unit).Correct++
}

func (s *Session) miss(unit string) {
	s.metrics.Incorrect++
	s.unitStats(unit).Incorrect++
}

func (s *Session) unitStats(unit string) *model.UnitStats {
	st, ok := s.units[unit]
	if !ok {
		st = &model.UnitStats{Unit: unit}
		s.units[unit] = st
	}
	return st
}

func (s *Session) currentDisplay() string {
	u, _ := s.progress.CurrentUnit()
	return u.Display()
}

// Skip moves to the next unit, wrapping at the end.
func (s *Session) Skip() bool {
	if err := s.progress.Advance(true); err != nil {
		return false
	}
	s.clearInput()
	return true
}

// Back clears a finished but unmatched chord, then the last typed key, and
// otherwise steps back one unit.
func (s *Session) Back() bool {
	if s.def.Discipline == scheme.Chord && s.chord.Completed() && !s.progress.IsComplete() {
		s.chord.Reset()
		return true
	}
	if len(s.typed) > 0 {
		s.typed = s.typed[:len(s.typed)-1]
		return true
	}
	if err := s.progress.Retreat(false); err != nil {
		return false
	}
	s.clearInput()
	return true
}

// Restart returns to the first unit. It reports false when there was
// nothing to restart.
func (s *Session) Restart() bool {
	if s.progress.Position() == 0 && s.chord.Accumulated().Empty() && len(s.typed) == 0 {
		return false
	}
	if err := s.progress.RetreatTo(0, true); err != nil {
		return false
	}
	s.clearInput()
	s.stroke.Reset()
	s.metrics = Metrics{}
	return true
}

// Reset drops the chord in progress, as when the window loses focus.
func (s *Session) Reset() {
	s.chord.Reset()
}

func (s *Session) Scheme() *scheme.Definition         { return s.def }
func (s *Session) Assignment() exercise.Assignment    { return s.assignment }
func (s *Session) Units() []exercise.Unit             { return s.progress.Units() }
func (s *Session) Position() int                      { return s.progress.Position() }
func (s *Session) Len() int                           { return s.progress.Len() }
func (s *Session) Complete() bool                     { return s.progress.IsComplete() }
func (s *Session) FreePlay() bool                     { return s.progress.IsEmpty() }
func (s *Session) Stroke() chord.Stroke               { return s.stroke }
func (s *Session) CurrentUnit() (exercise.Unit, bool) { return s.progress.CurrentUnit() }
func (s *Session) Caption() (exercise.View, bool)     { return s.caption.At(s.progress.Position()) }
func (s *Session) Held() keycode.Set                  { return s.chord.Held() }
func (s *Session) IsHeld(k keycode.Code) bool         { return s.chord.IsHeld(k) }
func (s *Session) IsAccumulated(k keycode.Code) bool  { return s.chord.IsAccumulated(k) }
func (s *Session) IsExpected(k keycode.Code) bool     { return s.ExpectedKeys().Has(k) }
func (s *Session) Metrics() Metrics                   { return s.metrics }
func (s *Session) Elapsed() time.Duration             { return s.metrics.Duration(s.now()) }

// LiveCode is the code typed so far.
func (s *Session) LiveCode() string {
	if s.def.Discipline == scheme.Chord {
		return s.def.Decode(s.chord.Accumulated())
	}
	return strings.Join(s.typed, "")
}

// LiveSpelling is the spelling of LiveCode, or "" when it spells nothing.
func (s *Session) LiveSpelling() string {
	spelling, _ := s.def.CodeToSpelling(s.LiveCode())
	return spelling
}

// ExpectedCode is the code of the current unit.
func (s *Session) ExpectedCode() (string, bool) {
	if s.progress.IsComplete() {
		return "", false
	}
	u, ok := s.progress.CurrentUnit()
	if !ok {
		return "", false
	}
	return u.ExpectedCode(s.def)
}

// Matched reports whether the live input types the current unit.
func (s *Session) Matched() bool {
	return s.progress.IsMatch(s.def, s.LiveCode(), s.LiveSpelling())
}

// ExpectedKeys are the keys to press next: the whole chord in chord
// schemes, the next key in sequential ones.
func (s *Session) ExpectedKeys() keycode.Set {
	code, ok := s.ExpectedCode()
	if !ok {
		return keycode.Set{}
	}
	if s.def.Discipline == scheme.Chord {
		return s.def.Encode(code)
	}
	rest := strings.TrimPrefix(code, strings.Join(s.typed, ""))
	for _, m := range s.def.Keys {
		if m.Key != "" && strings.HasPrefix(rest, m.Key) {
			return keycode.NewSet(m.Code)
		}
	}
	return keycode.Set{}
}

// UnitStats lists per-unit counts, most missed first.
func (s *Session) UnitStats() []model.UnitStats {
	out := make([]model.UnitStats, 0, len(s.units))
	for _, st := range s.units {
		out = append(out, *st)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Incorrect != out[j].Incorrect {
			return out[i].Incorrect > out[j].Incorrect
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Summary reports the current exercise.
func (s *Session) Summary() model.SessionSummary {
	return model.SessionSummary{
		Scheme:     s.def.Slug,
		Title:      s.assignment.Title,
		Units:      s.progress.Len(),
		Done:       s.progress.Position(),
		Correct:    s.metrics.Correct,
		Incorrect:  s.metrics.Incorrect,
		StartedAt:  s.metrics.StartedAt,
		EndedAt:    s.metrics.EndedAt,
		DurationMs: s.Elapsed().Milliseconds(),
	}
}
