package algebra

import "strings"

// Pipeline is an ordered list of operations.
type Pipeline []Operation

// Step is one intermediate result recorded by Trace.
type Step struct {
	Op     Operation
	Output string
	Vetoed bool
}

// Apply runs input through p. It reports false when input is empty, when an
// Eliminate rule matches, or when the result is empty.
func Apply(input string, p Pipeline) (string, bool) {
	if input == "" {
		return "", false
	}
	s := input
	for _, op := range p {
		var ok bool
		if s, ok = op.apply(s); !ok {
			return "", false
		}
	}
	if s == "" {
		return "", false
	}
	return s, true
}

// Apply is a method form of the package Apply.
func (p Pipeline) Apply(input string) (string, bool) {
	return Apply(input, p)
}

// Trace applies p like Apply and returns every intermediate value. Tracing
// stops at the first veto.
func Trace(input string, p Pipeline) []Step {
	steps := make([]Step, 0, len(p))
	if input == "" {
		return steps
	}
	s := input
	for _, op := range p {
		out, ok := op.apply(s)
		if !ok {
			steps = append(steps, Step{Op: op, Output: s, Vetoed: true})
			return steps
		}
		s = out
		steps = append(steps, Step{Op: op, Output: s})
	}
	return steps
}

func (o Operation) apply(s string) (string, bool) {
	switch o.kind {
	case KindEliminate:
		return s, !o.pattern.MatchString(s)
	case KindTransliterate:
		return strings.Map(func(r rune) rune {
			if to, ok := o.table[r]; ok {
				return to
			}
			return r
		}, s), true
	default:
		return o.pattern.ReplaceAllString(s, o.replacement), true
	}
}
