// Package keycode enumerates the physical keys the trainer understands.
package keycode

import (
	"strings"
	"unicode"
)

// Code identifies one physical key by its USB HID usage id.
type Code uint16

// No is the sentinel for keys the trainer ignores.
const No Code = 0x00

// Letter keys.
const (
	A Code = 0x04 + iota
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
)

// Digit row.
const (
	Kc1 Code = 0x1E + iota
	Kc2
	Kc3
	Kc4
	Kc5
	Kc6
	Kc7
	Kc8
	Kc9
	Kc0
)

// Control and punctuation keys.
const (
	Enter     Code = 0x28
	Escape    Code = 0x29
	Backspace Code = 0x2A
	Tab       Code = 0x2B
	Space     Code = 0x2C
	Minus     Code = 0x2D
	Equal     Code = 0x2E
	LBracket  Code = 0x2F
	RBracket  Code = 0x30
	Backslash Code = 0x31
	Semicolon Code = 0x33
	Quote     Code = 0x34
	Grave     Code = 0x35
	Comma     Code = 0x36
	Dot       Code = 0x37
	Slash     Code = 0x38
)

var names = map[Code]string{
	Enter:     "Enter",
	Escape:    "Escape",
	Backspace: "Backspace",
	Tab:       "Tab",
	Space:     "Space",
	Minus:     "Minus",
	Equal:     "Equal",
	LBracket:  "LBracket",
	RBracket:  "RBracket",
	Backslash: "Backslash",
	Semicolon: "Semicolon",
	Quote:     "Quote",
	Grave:     "Grave",
	Comma:     "Comma",
	Dot:       "Dot",
	Slash:     "Slash",
}

var byName = func() map[string]Code {
	m := make(map[string]Code, 64)
	for c := A; c <= Z; c++ {
		m[strings.ToLower(c.String())] = c
	}
	for c := Kc1; c <= Kc0; c++ {
		m[strings.ToLower(c.String())] = c
	}
	for c, name := range names {
		m[strings.ToLower(name)] = c
	}
	return m
}()

// base maps printable characters of a US layout to the key producing them.
var base = map[rune]Code{
	' ': Space, '-': Minus, '_': Minus, '=': Equal, '+': Equal,
	'[': LBracket, '{': LBracket, ']': RBracket, '}': RBracket,
	'\\': Backslash, '|': Backslash, ';': Semicolon, ':': Semicolon,
	'\'': Quote, '"': Quote, '`': Grave, '~': Grave,
	',': Comma, '<': Comma, '.': Dot, '>': Dot, '/': Slash, '?': Slash,
	'1': Kc1, '!': Kc1, '2': Kc2, '@': Kc2, '3': Kc3, '#': Kc3,
	'4': Kc4, '$': Kc4, '5': Kc5, '%': Kc5, '6': Kc6, '^': Kc6,
	'7': Kc7, '&': Kc7, '8': Kc8, '*': Kc8, '9': Kc9, '(': Kc9,
	'0': Kc0, ')': Kc0,
}

// String returns the key name used in scheme files.
func (c Code) String() string {
	switch {
	case c == No:
		return "No"
	case c >= A && c <= Z:
		return string(rune('A' + c - A))
	case c >= Kc1 && c <= Kc9:
		return "Kc" + string(rune('1'+c-Kc1))
	case c == Kc0:
		return "Kc0"
	}
	if name, ok := names[c]; ok {
		return name
	}
	return "Unknown"
}

// Parse resolves a key name such as "A", "Kc1" or "Space". Single digits are
// accepted for the digit row.
func Parse(name string) (Code, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) == 1 && name[0] >= '0' && name[0] <= '9' {
		name = "kc" + name
	}
	c, ok := byName[name]
	return c, ok
}

// FromRune normalizes a typed character to the key that produced it on a US
// layout. Unrecognized characters map to No.
func FromRune(r rune) Code {
	if r < unicode.MaxASCII && unicode.IsLetter(r) {
		return A + Code(unicode.ToUpper(r)-'A')
	}
	if c, ok := base[r]; ok {
		return c
	}
	return No
}
