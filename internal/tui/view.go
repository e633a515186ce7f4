package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/typewriter/internal/keycode"
	"github.com/verte-zerg/typewriter/internal/scheme"
	"github.com/verte-zerg/typewriter/internal/session"
	statsPkg "github.com/verte-zerg/typewriter/internal/stats"
)

var (
	doneStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	missStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	previousStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#5A5A5A"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))

	keyStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	blankKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3A3A3A"))
	expectedKeyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4FA3D1")).Bold(true)
	chordKeyStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	heldKeyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#1E1E1E")).Background(lipgloss.Color("#C89A3A"))
)

var keyboardRows = [][]keycode.Code{
	{keycode.Kc1, keycode.Kc2, keycode.Kc3, keycode.Kc4, keycode.Kc5, keycode.Kc6, keycode.Kc7, keycode.Kc8, keycode.Kc9, keycode.Kc0, keycode.Minus, keycode.Equal},
	{keycode.Q, keycode.W, keycode.E, keycode.R, keycode.T, keycode.Y, keycode.U, keycode.I, keycode.O, keycode.P, keycode.LBracket, keycode.RBracket},
	{keycode.A, keycode.S, keycode.D, keycode.F, keycode.G, keycode.H, keycode.J, keycode.K, keycode.L, keycode.Semicolon, keycode.Quote},
	{keycode.Z, keycode.X, keycode.C, keycode.V, keycode.B, keycode.N, keycode.M, keycode.Comma, keycode.Dot, keycode.Slash},
}

const spaceBarWidth = 24

// View implements tea.Model.
func (m *Model) View() string {
	if m.picking {
		return m.picker.View()
	}
	if m.showStats {
		return lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Unit stats"), m.table.View(),
			footerStyle.Render("esc to close"))
	}

	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 0
	}
	blocks := []string{m.renderHeader(), "", m.renderCaption(contentWidth), "", m.renderLive(), "", m.renderKeyboard()}
	content := lipgloss.JoinVertical(lipgloss.Center, blocks...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-2, lipgloss.Center, lipgloss.Center, content)
	footerLines := lipgloss.Place(m.width, 2, lipgloss.Center, lipgloss.Bottom, footer)
	return body + "\n" + footerLines
}

func (m *Model) renderHeader() string {
	def := m.session.Scheme()
	parts := []string{def.Name}
	if title := m.session.Assignment().Title; title != "" {
		parts = append(parts, title)
	}
	if !m.session.FreePlay() {
		parts = append(parts, fmt.Sprintf("%d/%d", m.session.Position(), m.session.Len()))
	}
	return titleStyle.Render(strings.Join(parts, " · "))
}

func (m *Model) renderCaption(width int) string {
	if m.session.FreePlay() {
		return pendingStyle.Render("free play · esc for drills")
	}
	view, ok := m.session.Caption()
	if !ok {
		return ""
	}
	current := currentStyle
	if m.lastOutcome == session.Miss {
		current = current.Foreground(missStyle.GetForeground())
	}
	glyphs := buildStyledGlyphs(view, current)
	lines := []string{}
	if view.Previous != "" {
		lines = append(lines, previousStyle.Render(view.Previous))
	}
	lines = append(lines, wrapStyledGlyphs(glyphs, width))
	return strings.Join(lines, "\n")
}

func (m *Model) renderLive() string {
	code := m.session.LiveCode()
	spelling := m.session.LiveSpelling()
	style := doneStyle
	switch {
	case m.session.Matched():
		style = chordKeyStyle
	case m.lastOutcome == session.Miss:
		style = missStyle
	}
	live := style.Render(orBlank(code))
	if spelling != "" && spelling != code {
		live += pendingStyle.Render(" → ") + style.Render(spelling)
	}
	if expected, ok := m.session.ExpectedCode(); ok && !m.session.Matched() {
		live += pendingStyle.Render("   want " + expected)
	}
	if r := m.session.Stroke().Repeat; r > 1 {
		live += pendingStyle.Render(fmt.Sprintf("   ×%d", r))
	}
	if m.notice != "" {
		live += "\n" + footerStyle.Render(m.notice)
	}
	return live
}

func orBlank(s string) string {
	if s == "" {
		return "·"
	}
	return s
}

func (m *Model) renderKeyboard() string {
	def := m.session.Scheme()
	rows := make([]string, 0, len(keyboardRows)+1)
	for i, row := range keyboardRows {
		cells := make([]string, 0, len(row))
		for _, k := range row {
			cells = append(cells, m.keyStyleFor(k, def).Render(keyCell(def.DecodeKey(k), 3)))
		}
		rows = append(rows, strings.Repeat(" ", i)+strings.Join(cells, " "))
	}
	space := m.keyStyleFor(keycode.Space, def).Render(keyCell(def.DecodeKey(keycode.Space), spaceBarWidth))
	rows = append(rows, space)
	return lipgloss.JoinVertical(lipgloss.Center, rows...)
}

func (m *Model) keyStyleFor(k keycode.Code, def *scheme.Definition) lipgloss.Style {
	switch {
	case m.session.IsHeld(k):
		return heldKeyStyle
	case m.session.IsAccumulated(k):
		return chordKeyStyle
	case m.session.IsExpected(k):
		return expectedKeyStyle
	case def.DecodeKey(k) == "":
		return blankKeyStyle
	}
	return keyStyle
}

// keyCell centres label in width terminal cells.
func keyCell(label string, width int) string {
	if label == "" {
		label = "·"
	}
	label = runewidth.Truncate(label, width, "")
	pad := width - runewidth.StringWidth(label)
	left := pad / 2
	return strings.Repeat(" ", left) + label + strings.Repeat(" ", pad-left)
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if n := m.session.Len(); n > 0 {
		segments = append(segments, fmt.Sprintf("Progress %d%%", m.session.Position()*100/n))
		met := m.session.Metrics()
		upm, _, acc := statsPkg.SessionMetrics(m.session.Position(), met.Correct, met.Incorrect, m.session.Elapsed().Milliseconds())
		if met.Correct+met.Incorrect > 0 {
			segments = append(segments, fmt.Sprintf("%.1f units/min · %.1f%%", upm, acc*100))
		}
	}
	if done := len(m.summaries); done > 0 {
		segments = append(segments, fmt.Sprintf("%d done", done))
	}
	status := footerStyle.Render(strings.Join(segments, "  "))
	return status + "\n" + m.help.View(m.keys)
}
