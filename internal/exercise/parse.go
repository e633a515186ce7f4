package exercise

import (
	"regexp"
	"strings"

	"github.com/verte-zerg/typewriter/internal/scheme"
)

// Assignment is an answer text with an optional caption.
type Assignment struct {
	Title       string
	Answer      string
	Caption     string
	CaptionMode CaptionMode
	// Format overrides the scheme's answer format when set.
	Format scheme.Format
}

// SplitAssignment splits text on the first "//" into answer and caption.
func SplitAssignment(text string) Assignment {
	answer, caption, _ := strings.Cut(text, "//")
	return Assignment{
		Answer:  strings.TrimSpace(answer),
		Caption: strings.TrimSpace(caption),
	}
}

// chordToken matches, in order of preference: an upper-case or bracketed
// code with an optional =spelling or =<spelling>, a bare word, or a <...>
// free-form spelling.
var chordToken = regexp.MustCompile(
	`(?:(\p{Lu}+)|\[([^\]]+)\])(?:=([\p{L}\p{N}_']+)|=<([^<>]*)>)?` +
		`|([\p{L}\p{N}_]+)` +
		`|<([^<>]*)>`)

// ParseChord parses the answer grammar of chord schemes. Characters outside
// any token are skipped.
func ParseChord(text string) []Unit {
	var units []Unit
	for _, m := range chordToken.FindAllStringSubmatch(text, -1) {
		var u Unit
		switch {
		case m[1] != "" || m[2] != "":
			u.Code = m[1] + m[2]
			u.Spelling = m[3] + m[4]
		case m[5] != "":
			u.Spelling = m[5]
		default:
			u.Spelling = m[6]
		}
		if u.Code == "" && u.Spelling == "" {
			continue
		}
		units = append(units, u)
	}
	return units
}

var bracketed = regexp.MustCompile(`^\[([^\]]+)\]$`)

// ParseSequential splits text on white space. A [bracketed] word is a
// literal code, anything else a spelling.
func ParseSequential(text string) []Unit {
	var units []Unit
	for _, word := range strings.Fields(text) {
		if m := bracketed.FindStringSubmatch(word); m != nil {
			units = append(units, Unit{Code: m[1]})
			continue
		}
		units = append(units, Unit{Spelling: word})
	}
	return units
}

// ParsePerKey makes one unit per character of every trimmed line. A
// character that some key types is a literal code.
func ParsePerKey(text string, def *scheme.Definition) []Unit {
	var units []Unit
	for _, line := range strings.Split(text, "\n") {
		for _, r := range strings.TrimSpace(line) {
			s := string(r)
			if _, ok := def.Find(s); ok {
				units = append(units, Unit{Code: s})
			} else {
				units = append(units, Unit{Spelling: s})
			}
		}
	}
	return units
}

// Parse dispatches on format, falling back to the scheme's own format.
func Parse(text string, format scheme.Format, def *scheme.Definition) []Unit {
	if format == scheme.FormatDefault {
		format = def.Format
	}
	switch format {
	case scheme.FormatPerKey:
		return ParsePerKey(text, def)
	case scheme.FormatChord:
		return ParseChord(text)
	default:
		return ParseSequential(text)
	}
}
