// Package exercise turns answer text into units and walks a learner through
// them.
package exercise

import "github.com/verte-zerg/typewriter/internal/scheme"

// Unit is one thing the learner must type. An empty field is absent; at
// least one of Code and Spelling is set.
type Unit struct {
	Code     string
	Spelling string
}

// Display prefers the spelling.
func (u Unit) Display() string {
	if u.Spelling != "" {
		return u.Spelling
	}
	return u.Code
}

// ExpectedCode returns the code that types u under def: the literal code, or
// the display form of the code derived from the spelling.
func (u Unit) ExpectedCode(def *scheme.Definition) (string, bool) {
	if u.Code != "" {
		return u.Code, true
	}
	code, ok := def.SpellingToCode(u.Spelling)
	if !ok {
		return "", false
	}
	return def.Display(code), true
}
