package exercise

import (
	"sort"
	"strings"

	"github.com/verte-zerg/typewriter/internal/scheme"
)

// CaptionMode controls how caption text is cut into glyphs.
type CaptionMode int

const (
	// CaptionAuto uses the caption as words, or generates one from the
	// units when there is no caption.
	CaptionAuto CaptionMode = iota
	// CaptionWords splits on white space; every rune is a glyph.
	CaptionWords
	// CaptionLines makes one segment per line; the blanks between words
	// are glyphs too.
	CaptionLines
	// CaptionLineWords makes one segment per line where every word is a
	// single glyph.
	CaptionLineWords
)

var captionModeNames = map[string]CaptionMode{
	"":           CaptionAuto,
	"auto":       CaptionAuto,
	"words":      CaptionWords,
	"lines":      CaptionLines,
	"line-words": CaptionLineWords,
}

// ParseCaptionMode reads the names used in drill files.
func ParseCaptionMode(s string) (CaptionMode, bool) {
	m, ok := captionModeNames[s]
	return m, ok
}

// Segment is a run of glyphs covering units [Start, End).
type Segment struct {
	Start, End int
	Glyphs     []string
}

func (s Segment) Text() string {
	return strings.Join(s.Glyphs, "")
}

// View is a caption split around the current position.
type View struct {
	Previous string
	Done     string
	Current  string
	Pending  string
}

// Caption maps unit positions onto caption text.
type Caption struct {
	segments []Segment
}

// NewCaption builds a caption for units. Without caption text it is generated
// from the units: one glyph per unit for per-key answers, otherwise one
// word-sized glyph per unit.
func NewCaption(a Assignment, units []Unit, format scheme.Format) Caption {
	if a.Caption == "" {
		return autoCaption(units, format)
	}
	var parts []string
	switch a.CaptionMode {
	case CaptionLines:
		for _, line := range strings.Split(a.Caption, "\n") {
			parts = append(parts, strings.Join(strings.Fields(line), "[ ]"))
		}
	case CaptionLineWords:
		for _, line := range strings.Split(a.Caption, "\n") {
			var b strings.Builder
			for _, w := range strings.Fields(line) {
				b.WriteString("[" + w + " ]")
			}
			parts = append(parts, b.String())
		}
	default:
		parts = strings.Fields(a.Caption)
	}
	var c Caption
	for _, p := range parts {
		c.push(glyphs(p))
	}
	return c
}

func autoCaption(units []Unit, format scheme.Format) Caption {
	var c Caption
	if len(units) == 0 {
		return c
	}
	gs := make([]string, 0, len(units))
	for _, u := range units {
		if format == scheme.FormatPerKey {
			gs = append(gs, u.Display())
		} else {
			gs = append(gs, u.Display()+" ")
		}
	}
	c.push(gs)
	return c
}

func (c *Caption) push(gs []string) {
	if len(gs) == 0 {
		return
	}
	start := 0
	if n := len(c.segments); n > 0 {
		start = c.segments[n-1].End
	}
	c.segments = append(c.segments, Segment{Start: start, End: start + len(gs), Glyphs: gs})
}

// glyphs splits text into glyphs. A [group] is one glyph without its
// brackets.
func glyphs(text string) []string {
	var out []string
	rs := []rune(text)
	for i := 0; i < len(rs); i++ {
		if rs[i] != '[' {
			out = append(out, string(rs[i]))
			continue
		}
		j := i + 1
		for j < len(rs) && rs[j] != ']' {
			j++
		}
		out = append(out, string(rs[i+1:j]))
		i = j
	}
	return out
}

func (c Caption) Segments() []Segment { return c.segments }

// Len is the number of glyphs.
func (c Caption) Len() int {
	if len(c.segments) == 0 {
		return 0
	}
	return c.segments[len(c.segments)-1].End
}

// At splits the segment holding position. At the very end the last segment
// is shown fully done.
func (c Caption) At(position int) (View, bool) {
	i := sort.Search(len(c.segments), func(i int) bool { return c.segments[i].End > position })
	if i == len(c.segments) {
		if i == 0 || c.segments[i-1].End != position {
			return View{}, false
		}
		i--
	}
	seg := c.segments[i]
	var v View
	if i > 0 {
		v.Previous = c.segments[i-1].Text()
	}
	local := position - seg.Start
	if local < 0 {
		local = 0
	}
	v.Done = strings.Join(seg.Glyphs[:local], "")
	if local < len(seg.Glyphs) {
		v.Current = seg.Glyphs[local]
		v.Pending = strings.Join(seg.Glyphs[local+1:], "")
	}
	return v, true
}
