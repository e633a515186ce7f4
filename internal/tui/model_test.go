package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typewriter/internal/drill"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/generator"
	"github.com/verte-zerg/typewriter/internal/keycode"
	"github.com/verte-zerg/typewriter/internal/model"
	"github.com/verte-zerg/typewriter/internal/scheme"
)

func newTestModel(t *testing.T, slug string, initial *exercise.Assignment) *Model {
	t.Helper()
	schemes, err := scheme.LoadBundled()
	require.NoError(t, err)
	drills, err := drill.LoadBundled()
	require.NoError(t, err)
	def, ok := schemes.Get(slug)
	require.True(t, ok)
	m := NewModel(def, Options{
		Config:    model.Config{Scheme: slug, RandomWords: 5, WeakTop: 3, WeakFactor: 0.5},
		Schemes:   schemes,
		Drills:    drills,
		Generator: generator.NewWithSeed(1),
		Initial:   initial,
	})
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func typeRunes(m *Model, s string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
}

func sendKey(m *Model, k tea.KeyType) {
	m.Update(tea.KeyMsg{Type: k})
}

func TestChordPressesWaitForEnter(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", &exercise.Assignment{Answer: "zhong guo"})
	typeRunes(m, "xcuio")
	assert.True(t, m.session.IsHeld(keycode.X))
	assert.Equal(t, 0, m.session.Position())
	assert.Equal(t, "ZFURO", m.session.LiveCode())

	sendKey(m, tea.KeyEnter)
	assert.Equal(t, 1, m.session.Position())
	assert.True(t, m.session.Held().Empty())
}

func TestSequentialPressReleases(t *testing.T) {
	m := newTestModel(t, "alphabet", &exercise.Assignment{Title: "hi", Answer: "hi"})
	typeRunes(m, "h")
	assert.Equal(t, 1, m.session.Position())
	typeRunes(m, "i")
	assert.True(t, m.session.Complete())
	require.Len(t, m.Summaries(), 1)
	assert.Equal(t, "hi", m.Summaries()[0].Title)

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Len(t, m.Summaries(), 1, "a finished exercise is recorded once")
}

func TestSkipBackRestart(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", &exercise.Assignment{Answer: "zhong guo ren"})
	sendKey(m, tea.KeyTab)
	sendKey(m, tea.KeyTab)
	assert.Equal(t, 2, m.session.Position())
	sendKey(m, tea.KeyBackspace)
	assert.Equal(t, 1, m.session.Position())
	sendKey(m, tea.KeyEsc)
	assert.Equal(t, 0, m.session.Position())
	assert.False(t, m.picking)

	sendKey(m, tea.KeyEsc)
	assert.True(t, m.picking, "esc at the start opens the drill picker")
}

func TestPickerLoadsRandomDrill(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", nil)
	assert.True(t, m.session.FreePlay())
	sendKey(m, tea.KeyCtrlO)
	require.True(t, m.picking)
	assert.Contains(t, m.View(), "Drills")

	sendKey(m, tea.KeyEnter)
	assert.False(t, m.picking)
	assert.True(t, m.random)
	assert.Equal(t, 5, m.session.Len())
}

func TestPickerEscCloses(t *testing.T) {
	m := newTestModel(t, "alphabet", nil)
	sendKey(m, tea.KeyCtrlO)
	sendKey(m, tea.KeyEsc)
	assert.False(t, m.picking)
	assert.True(t, m.session.FreePlay())
}

func TestRandomDealsNextOnCompletion(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", nil)
	sendKey(m, tea.KeyCtrlR)
	require.Equal(t, 5, m.session.Len())
	for i := 0; i < 4; i++ {
		sendKey(m, tea.KeyTab)
	}
	require.Equal(t, 4, m.session.Position())
	code, ok := m.session.ExpectedCode()
	require.True(t, ok)
	for _, k := range m.session.Scheme().Encode(code).Codes() {
		m.session.KeyDown(k)
	}
	sendKey(m, tea.KeyEnter)
	assert.Len(t, m.Summaries(), 1)
	assert.Equal(t, 0, m.session.Position(), "a new random drill was dealt")
	assert.Equal(t, 5, m.session.Len())
}

func TestBlurDropsChord(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", &exercise.Assignment{Answer: "zhong"})
	typeRunes(m, "xc")
	m.Update(tea.BlurMsg{})
	assert.True(t, m.session.Held().Empty())
	assert.Equal(t, "", m.session.LiveCode())
}

func TestNextSchemeKeepsAnswer(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", &exercise.Assignment{Answer: "cong ming"})
	sendKey(m, tea.KeyCtrlN)
	assert.Equal(t, "double_pinyin_fly", m.session.Scheme().Slug)
	assert.Equal(t, 2, m.session.Len())
	assert.Contains(t, m.notice, "scheme")
}

func TestReloadMessages(t *testing.T) {
	m := newTestModel(t, "alphabet", nil)
	m.Update(SchemesReloadedMsg{Err: errors.New("bad toml")})
	assert.Contains(t, m.notice, "bad toml")

	cat, err := scheme.LoadBundled()
	require.NoError(t, err)
	m.Update(SchemesReloadedMsg{Catalog: cat})
	assert.Equal(t, "alphabet", m.session.Scheme().Slug)
	assert.Contains(t, m.notice, "reloaded")
}

func TestUnitStatsMergeAcrossDrills(t *testing.T) {
	m := newTestModel(t, "alphabet", &exercise.Assignment{Answer: "ab"})
	typeRunes(m, "xab")
	require.True(t, m.session.Complete())
	m.load(exercise.Assignment{Answer: "a"})
	typeRunes(m, "z")

	stats := m.UnitStats()
	require.NotEmpty(t, stats)
	assert.Equal(t, "a", stats[0].Unit)
	assert.Equal(t, 2, stats[0].Incorrect)
	assert.Equal(t, 1, stats[0].Correct)

	sendKey(m, tea.KeyCtrlT)
	assert.True(t, m.showStats)
	assert.Contains(t, m.View(), "Unit stats")
	sendKey(m, tea.KeyEsc)
	assert.False(t, m.showStats)
}

func TestViewRendersCaptionAndFooter(t *testing.T) {
	m := newTestModel(t, "combo_pinyin", &exercise.Assignment{Title: "poem", Answer: "zhong guo", Caption: "中國"})
	typeRunes(m, "xcuio")
	sendKey(m, tea.KeyEnter)
	out := m.View()
	for _, want := range []string{"宮保拼音", "poem", "1/2", "國", "Progress 50%"} {
		assert.True(t, strings.Contains(out, want), "missing %q", want)
	}
}

func TestKeyCell(t *testing.T) {
	assert.Equal(t, " S ", keyCell("S", 3))
	assert.Equal(t, "ㄅ ", keyCell("ㄅ", 3))
	assert.Equal(t, " · ", keyCell("", 3))
}
