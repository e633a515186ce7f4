package keycode

import "math/bits"

// Set is a set of key codes below 256. The zero value is empty and sets
// compare with ==.
type Set [4]uint64

// NewSet builds a set from codes.
func NewSet(codes ...Code) Set {
	var s Set
	for _, c := range codes {
		s = s.With(c)
	}
	return s
}

// With returns s plus c. No and codes outside the set range are ignored.
func (s Set) With(c Code) Set {
	if c == No || c > 0xFF {
		return s
	}
	s[c>>6] |= 1 << (c & 63)
	return s
}

// Without returns s minus c.
func (s Set) Without(c Code) Set {
	if c > 0xFF {
		return s
	}
	s[c>>6] &^= 1 << (c & 63)
	return s
}

// Has reports whether c is in s.
func (s Set) Has(c Code) bool {
	if c == No || c > 0xFF {
		return false
	}
	return s[c>>6]&(1<<(c&63)) != 0
}

func (s Set) Empty() bool {
	return s == Set{}
}

func (s Set) Len() int {
	n := 0
	for _, w := range s {
		n += bits.OnesCount64(w)
	}
	return n
}

// Codes lists the members in ascending order.
func (s Set) Codes() []Code {
	out := make([]Code, 0, s.Len())
	for i, w := range s {
		for w != 0 {
			b := bits.TrailingZeros64(w)
			out = append(out, Code(i*64+b))
			w &^= 1 << b
		}
	}
	return out
}
