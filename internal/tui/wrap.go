package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typewriter/internal/exercise"
)

type styledGlyph struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledGlyphs styles the caption segment around the cursor. Each rune
// is a wrap candidate; blanks are preferred break points.
func buildStyledGlyphs(v exercise.View, current lipgloss.Style) []styledGlyph {
	out := make([]styledGlyph, 0, len(v.Done)+len(v.Current)+len(v.Pending))
	out = appendStyled(out, v.Done, doneStyle)
	out = appendStyled(out, v.Current, current)
	return appendStyled(out, v.Pending, pendingStyle)
}

func appendStyled(out []styledGlyph, text string, style lipgloss.Style) []styledGlyph {
	for _, r := range text {
		out = append(out, styledGlyph{
			s:       style.Render(string(r)),
			width:   runewidth.RuneWidth(r),
			isSpace: r == ' ',
		})
	}
	return out
}

func renderStyledGlyphs(glyphs []styledGlyph) string {
	var b strings.Builder
	for _, item := range glyphs {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledGlyphs(glyphs []styledGlyph, width int) string {
	if width <= 0 {
		return renderStyledGlyphs(glyphs)
	}
	var out strings.Builder
	line := make([]styledGlyph, 0, len(glyphs))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(glyphs); {
		item := glyphs[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledGlyphs(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledGlyph{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledGlyphs(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledGlyphs(line))
	return out.String()
}

func lineWidthOf(line []styledGlyph) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledGlyph) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
