// Package algebra implements spelling algebra: ordered regex rewrite
// pipelines that translate between key codes and spellings.
package algebra

import (
	"fmt"
	"regexp"
	"strings"
)

// Kind selects how an Operation rewrites its input.
type Kind int

const (
	KindTransform Kind = iota
	KindTransliterate
	KindEliminate
	KindDerive
	KindFuzzy
	KindAbbreviate
)

var kindNames = map[Kind]string{
	KindTransform:     "xform",
	KindTransliterate: "xlit",
	KindEliminate:     "erase",
	KindDerive:        "derive",
	KindFuzzy:         "fuzz",
	KindAbbreviate:    "abbrev",
}

var kindAliases = map[string]Kind{
	"xform":         KindTransform,
	"transform":     KindTransform,
	"xlit":          KindTransliterate,
	"transliterate": KindTransliterate,
	"erase":         KindEliminate,
	"eliminate":     KindEliminate,
	"derive":        KindDerive,
	"fuzz":          KindFuzzy,
	"fuzzy":         KindFuzzy,
	"abbrev":        KindAbbreviate,
	"abbreviate":    KindAbbreviate,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind accepts both the short rule names (xform, xlit, erase, derive,
// fuzz, abbrev) and their long forms.
func ParseKind(s string) (Kind, error) {
	k, ok := kindAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, fmt.Errorf("unknown operation kind %q", s)
	}
	return k, nil
}

// Operation is one immutable rule of a pipeline.
type Operation struct {
	kind        Kind
	pattern     *regexp.Regexp
	replacement string
	from, to    string
	table       map[rune]rune
}

func (o Operation) Kind() Kind { return o.kind }

func (o Operation) String() string {
	switch o.kind {
	case KindTransliterate:
		return fmt.Sprintf("%s/%s/%s/", o.kind, o.from, o.to)
	case KindEliminate:
		return fmt.Sprintf("%s/%s/", o.kind, o.pattern)
	default:
		return fmt.Sprintf("%s/%s/%s/", o.kind, o.pattern, o.replacement)
	}
}

func rewrite(kind Kind, pattern, replacement string) (Operation, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Operation{}, fmt.Errorf("%s pattern %q: %w", kind, pattern, err)
	}
	return Operation{kind: kind, pattern: re, replacement: replacement}, nil
}

// Transform replaces every match of pattern. The replacement may refer to
// capture groups as $1 or ${name}.
func Transform(pattern, replacement string) (Operation, error) {
	return rewrite(KindTransform, pattern, replacement)
}

// Derive behaves like Transform inside a linear pipeline.
func Derive(pattern, replacement string) (Operation, error) {
	return rewrite(KindDerive, pattern, replacement)
}

// Fuzzy behaves like Transform inside a linear pipeline.
func Fuzzy(pattern, replacement string) (Operation, error) {
	return rewrite(KindFuzzy, pattern, replacement)
}

// Abbreviate behaves like Transform inside a linear pipeline.
func Abbreviate(pattern, replacement string) (Operation, error) {
	return rewrite(KindAbbreviate, pattern, replacement)
}

// Eliminate vetoes the whole pipeline when pattern matches.
func Eliminate(pattern string) (Operation, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Operation{}, fmt.Errorf("%s pattern %q: %w", KindEliminate, pattern, err)
	}
	return Operation{kind: KindEliminate, pattern: re}, nil
}

// Transliterate maps the i-th rune of from to the i-th rune of to. Both must
// have the same number of runes. When a rune repeats in from, the last
// mapping wins.
func Transliterate(from, to string) (Operation, error) {
	fr, tr := []rune(from), []rune(to)
	if len(fr) != len(tr) {
		return Operation{}, fmt.Errorf("%s %q -> %q: %d runes vs %d", KindTransliterate, from, to, len(fr), len(tr))
	}
	table := make(map[rune]rune, len(fr))
	for i, r := range fr {
		table[r] = tr[i]
	}
	return Operation{kind: KindTransliterate, from: from, to: to, table: table}, nil
}

// Parse builds an operation from a kind name and its arguments, the form used
// by scheme files: [kind, pattern, replacement], [erase, pattern] or
// [xlit, from, to].
func Parse(kind string, args ...string) (Operation, error) {
	k, err := ParseKind(kind)
	if err != nil {
		return Operation{}, err
	}
	want := 2
	if k == KindEliminate {
		want = 1
	}
	if len(args) != want {
		return Operation{}, fmt.Errorf("%s takes %d arguments, got %d", k, want, len(args))
	}
	switch k {
	case KindEliminate:
		return Eliminate(args[0])
	case KindTransliterate:
		return Transliterate(args[0], args[1])
	default:
		return rewrite(k, args[0], args[1])
	}
}

// Must panics if err is non-nil. It is meant for static rule tables.
func Must(op Operation, err error) Operation {
	if err != nil {
		panic(err)
	}
	return op
}
