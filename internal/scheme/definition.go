// Package scheme describes input schemes: which key types which code text,
// and how code text converts to and from spellings.
package scheme

import (
	"regexp"
	"strings"

	"github.com/verte-zerg/typewriter/internal/algebra"
	"github.com/verte-zerg/typewriter/internal/keycode"
)

// Discipline is how keys combine into a code.
type Discipline int

const (
	// Sequential schemes type one key after another.
	Sequential Discipline = iota
	// Chord schemes press a set of keys together.
	Chord
)

func (d Discipline) String() string {
	if d == Chord {
		return "chord"
	}
	return "sequential"
}

// Format is how an answer text is split into units.
type Format int

const (
	// FormatDefault defers to the scheme's own format.
	FormatDefault Format = iota
	FormatPerKey
	FormatSequential
	FormatChord
)

var formatNames = map[Format]string{
	FormatDefault:    "default",
	FormatPerKey:     "per-key",
	FormatSequential: "sequential",
	FormatChord:      "chord",
}

func (f Format) String() string {
	return formatNames[f]
}

// ParseFormat accepts the names produced by Format.String. An empty name
// is FormatDefault.
func ParseFormat(s string) (Format, bool) {
	if s == "" {
		return FormatDefault, true
	}
	for f, name := range formatNames {
		if name == s {
			return f, true
		}
	}
	return FormatDefault, false
}

// KeyMapping binds the text a key types to its key code.
type KeyMapping struct {
	Key  string
	Code keycode.Code
}

// Transliteration holds the conversion pipelines of a scheme.
type Transliteration struct {
	CodeToDisplay  algebra.Pipeline
	CodeToKeys     algebra.Pipeline
	CodeToSpelling algebra.Pipeline
	SpellingToCode algebra.Pipeline
	// Validation accepts a spelling when any pattern matches. Empty means
	// every spelling is accepted.
	Validation []*regexp.Regexp
}

// Definition is an immutable input scheme.
type Definition struct {
	Slug       string
	Name       string
	Layout     string
	Discipline Discipline
	Format     Format
	Keys       []KeyMapping
	Rules      Transliteration
}

// Find returns the mapping whose text is key.
func (d *Definition) Find(key string) (KeyMapping, bool) {
	for _, m := range d.Keys {
		if m.Key == key {
			return m, true
		}
	}
	return KeyMapping{}, false
}

// Encode returns the keys needed to type code text. Each mapping whose text
// occurs in the text contributes its key.
func (d *Definition) Encode(text string) keycode.Set {
	if keys, ok := algebra.Apply(text, d.Rules.CodeToKeys); ok && len(d.Rules.CodeToKeys) > 0 {
		text = keys
	}
	var set keycode.Set
	if text == "" {
		return set
	}
	for _, m := range d.Keys {
		if strings.Contains(text, m.Key) {
			set = set.With(m.Code)
		}
	}
	return set
}

// Decode renders a key set as code text in mapping order.
func (d *Definition) Decode(set keycode.Set) string {
	if set.Empty() {
		return ""
	}
	var b strings.Builder
	for _, m := range d.Keys {
		if set.Has(m.Code) {
			b.WriteString(m.Key)
		}
	}
	return d.Display(b.String())
}

// DecodeKey renders a single key, or "" when the key is unmapped.
func (d *Definition) DecodeKey(code keycode.Code) string {
	if code == keycode.No {
		return ""
	}
	return d.Decode(keycode.NewSet(code))
}

// CodeToDisplay renders code for the screen. It reports false when the
// display pipeline vetoes the code.
func (d *Definition) CodeToDisplay(code string) (string, bool) {
	return algebra.Apply(code, d.Rules.CodeToDisplay)
}

// Display applies CodeToDisplay, falling back to the raw code.
func (d *Definition) Display(code string) string {
	if s, ok := d.CodeToDisplay(code); ok {
		return s
	}
	return code
}

func (d *Definition) CodeToSpelling(code string) (string, bool) {
	return algebra.Apply(code, d.Rules.CodeToSpelling)
}

// SpellingToCode validates spelling before converting it.
func (d *Definition) SpellingToCode(spelling string) (string, bool) {
	if !d.Validate(spelling) {
		return "", false
	}
	return algebra.Apply(spelling, d.Rules.SpellingToCode)
}

func (d *Definition) Validate(spelling string) bool {
	if len(d.Rules.Validation) == 0 {
		return true
	}
	for _, re := range d.Rules.Validation {
		if re.MatchString(spelling) {
			return true
		}
	}
	return false
}
