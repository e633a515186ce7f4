// Package tui provides the Bubble Tea trainer interface.
package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/verte-zerg/typewriter/internal/drill"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/generator"
	"github.com/verte-zerg/typewriter/internal/keycode"
	"github.com/verte-zerg/typewriter/internal/model"
	"github.com/verte-zerg/typewriter/internal/scheme"
	"github.com/verte-zerg/typewriter/internal/session"
	statsPkg "github.com/verte-zerg/typewriter/internal/stats"
)

// SchemesReloadedMsg carries a reloaded scheme catalog from the watcher.
type SchemesReloadedMsg struct {
	Catalog *scheme.Catalog
	Err     error
}

// Options configures a Model.
type Options struct {
	Config    model.Config
	Schemes   *scheme.Catalog
	Drills    drill.Catalog
	Saved     []model.SavedDrill
	Generator *generator.Generator
	Logger    *zap.Logger
	// Initial is loaded at start when set.
	Initial *exercise.Assignment
	// Random starts with a random drill and deals a new one on completion.
	Random bool
}

// Model implements the Bubble Tea trainer UI.
type Model struct {
	config  model.Config
	schemes *scheme.Catalog
	drills  drill.Catalog
	saved   []model.SavedDrill
	gen     *generator.Generator
	logger  *zap.Logger
	session *session.Session

	keys keyMap
	help help.Model

	width  int
	height int

	random      bool
	lastOutcome session.Outcome
	notice      string

	picking bool
	picker  list.Model

	showStats bool
	table     table.Model

	history   map[string]*model.UnitStats
	summaries []model.SessionSummary
}

// NewModel constructs a trainer model for def.
func NewModel(def *scheme.Definition, opts Options) *Model {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	gen := opts.Generator
	if gen == nil {
		gen = generator.New()
	}
	m := &Model{
		config:  opts.Config,
		schemes: opts.Schemes,
		drills:  opts.Drills,
		saved:   opts.Saved,
		gen:     gen,
		logger:  logger,
		session: session.New(def, session.WithLogger(logger)),
		keys:    newKeyMap(),
		help:    help.New(),
		history: map[string]*model.UnitStats{},
	}
	switch {
	case opts.Random:
		m.loadRandom()
	case opts.Initial != nil:
		m.load(*opts.Initial)
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		if m.picking {
			m.picker.SetSize(msg.Width, msg.Height)
		}
		return m, nil
	case tea.BlurMsg:
		m.session.Reset()
		return m, nil
	case SchemesReloadedMsg:
		m.applyReload(msg)
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			m.record()
			return m, tea.Quit
		}
		if m.picking {
			return m.updatePicker(msg)
		}
		if m.showStats {
			if key.Matches(msg, m.keys.Stats) || msg.Type == tea.KeyEsc {
				m.showStats = false
			}
			return m, nil
		}
		m.handleKey(msg)
		return m, nil
	}
	if m.picking {
		var cmd tea.Cmd
		m.picker, cmd = m.picker.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) updatePicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.picker.FilterState() != list.Filtering {
		switch msg.Type {
		case tea.KeyEsc:
			m.picking = false
			return m, nil
		case tea.KeyEnter:
			if item, ok := m.picker.SelectedItem().(drillItem); ok {
				m.record()
				if item.random {
					m.loadRandom()
				} else {
					m.random = false
					m.load(item.assignment)
				}
			}
			m.picking = false
			return m, nil
		}
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) {
	m.notice = ""
	switch {
	case key.Matches(msg, m.keys.Release):
		m.observe(m.session.ReleaseAll())
	case key.Matches(msg, m.keys.Skip):
		m.session.Skip()
	case key.Matches(msg, m.keys.Back):
		m.session.Back()
	case key.Matches(msg, m.keys.Restart):
		if !m.session.Restart() {
			m.openPicker()
		}
	case key.Matches(msg, m.keys.Pick):
		m.openPicker()
	case key.Matches(msg, m.keys.Random):
		m.record()
		m.loadRandom()
	case key.Matches(msg, m.keys.Scheme):
		m.nextScheme()
	case key.Matches(msg, m.keys.Stats):
		m.openStats()
	case msg.Type == tea.KeySpace:
		m.press(keycode.Space)
	case msg.Type == tea.KeyRunes:
		for _, r := range msg.Runes {
			m.press(keycode.FromRune(r))
		}
	}
}

// press feeds a key press. Terminals report no releases, so sequential
// schemes get an immediate release and chord schemes wait for Enter.
func (m *Model) press(k keycode.Code) {
	if k == keycode.No {
		return
	}
	out := m.session.KeyDown(k)
	if m.session.Scheme().Discipline != scheme.Chord {
		if up := m.session.KeyUp(k); up != session.None {
			out = up
		}
	}
	m.observe(out)
}

func (m *Model) observe(out session.Outcome) {
	if out == session.None {
		return
	}
	m.lastOutcome = out
	if out != session.Completed {
		return
	}
	m.record()
	if m.random {
		m.loadRandom()
	}
}

// record keeps the statistics of the current exercise once.
func (m *Model) record() {
	sum := m.session.Summary()
	if sum.Units == 0 || (sum.Correct == 0 && sum.Incorrect == 0) {
		return
	}
	if n := len(m.summaries); n > 0 && m.summaries[n-1].StartedAt.Equal(sum.StartedAt) {
		return
	}
	units := m.session.Units()
	order := make([]string, len(units))
	for i, u := range units {
		order[i] = u.Display()
	}
	sum.Misses = statsPkg.MissCurve(order, m.session.UnitStats())
	m.summaries = append(m.summaries, sum)
	for _, u := range m.session.UnitStats() {
		h, ok := m.history[u.Unit]
		if !ok {
			h = &model.UnitStats{Unit: u.Unit}
			m.history[u.Unit] = h
		}
		h.Correct += u.Correct
		h.Incorrect += u.Incorrect
	}
}

func (m *Model) load(a exercise.Assignment) {
	m.lastOutcome = session.None
	m.session.Load(a)
}

func (m *Model) loadRandom() {
	def := m.session.Scheme()
	answers := make([]string, 0, len(m.drills.For(def.Slug))+len(m.saved))
	for _, d := range m.drills.For(def.Slug) {
		answers = append(answers, d.Answer)
	}
	for _, d := range m.saved {
		if d.Scheme == def.Slug {
			answers = append(answers, d.Answer)
		}
	}
	pool := generator.Pool(def, answers)
	if len(pool) == 0 {
		m.notice = "no drills to draw random units from"
		m.random = false
		return
	}
	count := m.config.RandomWords
	if count <= 0 {
		count = len(pool)
	}
	var tokens []string
	weakUnits := statsPkg.SelectWeakUnits(m.UnitStats(), m.config.WeakTop)
	if m.config.FocusWeak && len(weakUnits) > 0 {
		weak := generator.WeakTokens(def, pool, weakUnits)
		tokens = m.gen.GenerateWeighted(pool, count, weak, m.config.WeakFactor)
		m.logger.Debug("weighted random drill", zap.Strings("weak", weakUnits), zap.Int("weak_tokens", len(weak)))
	} else {
		tokens = m.gen.Generate(pool, count)
	}
	m.random = true
	m.load(exercise.Assignment{Title: "隨機練習", Answer: strings.Join(tokens, " ")})
}

func (m *Model) nextScheme() {
	if m.schemes == nil {
		return
	}
	all := m.schemes.All()
	if len(all) < 2 {
		return
	}
	cur := m.session.Scheme().Slug
	next := all[0]
	for i, def := range all {
		if def.Slug == cur {
			next = all[(i+1)%len(all)]
			break
		}
	}
	m.record()
	m.switchScheme(next)
}

// switchScheme keeps the answer text when the new scheme can parse it and
// otherwise starts the scheme's first drill.
func (m *Model) switchScheme(def *scheme.Definition) {
	m.session.SetScheme(def)
	m.notice = "scheme: " + def.Name
	if m.random {
		m.loadRandom()
		return
	}
	if !m.session.FreePlay() {
		return
	}
	if drills := m.drills.For(def.Slug); len(drills) > 0 {
		if a, err := drills[0].Assignment(); err == nil {
			m.load(a)
		}
	}
}

func (m *Model) applyReload(msg SchemesReloadedMsg) {
	if msg.Err != nil {
		m.notice = "scheme reload failed: " + msg.Err.Error()
		m.logger.Warn("scheme reload failed", zap.Error(msg.Err))
		return
	}
	m.schemes = msg.Catalog
	cur := m.session.Scheme().Slug
	def, ok := msg.Catalog.Get(cur)
	if !ok {
		def = msg.Catalog.Default()
	}
	m.session.SetScheme(def)
	m.notice = fmt.Sprintf("reloaded %d schemes", len(msg.Catalog.All()))
	m.logger.Info("schemes reloaded", zap.String("active", def.Slug))
}

func (m *Model) openStats() {
	units := m.UnitStats()
	rows := make([]table.Row, 0, len(units))
	for _, u := range units {
		total := u.Attempts()
		acc := 100.0
		if total > 0 {
			acc = float64(u.Correct) / float64(total) * 100
		}
		rows = append(rows, table.Row{u.Unit, fmt.Sprintf("%.1f%%", acc), fmt.Sprintf("%d", u.Correct), fmt.Sprintf("%d", u.Incorrect)})
	}
	height := len(rows) + 1
	if m.height > 4 && height > m.height-4 {
		height = m.height - 4
	}
	m.table = table.New(
		table.WithColumns([]table.Column{
			{Title: "Unit", Width: 16},
			{Title: "Accuracy", Width: 9},
			{Title: "Correct", Width: 8},
			{Title: "Incorrect", Width: 9},
		}),
		table.WithRows(rows),
		table.WithHeight(height),
	)
	m.showStats = true
}

// UnitStats merges the finished exercises with the current one, most
// missed first.
func (m *Model) UnitStats() []model.UnitStats {
	merged := map[string]model.UnitStats{}
	for unit, h := range m.history {
		merged[unit] = *h
	}
	recorded := len(m.summaries) > 0 && m.summaries[len(m.summaries)-1].StartedAt.Equal(m.session.Metrics().StartedAt)
	if !recorded {
		for _, u := range m.session.UnitStats() {
			cur := merged[u.Unit]
			cur.Unit = u.Unit
			cur.Correct += u.Correct
			cur.Incorrect += u.Incorrect
			merged[u.Unit] = cur
		}
	}
	out := make([]model.UnitStats, 0, len(merged))
	for _, u := range merged {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Incorrect != out[j].Incorrect {
			return out[i].Incorrect > out[j].Incorrect
		}
		return out[i].Unit < out[j].Unit
	})
	return out
}

// Summaries lists the exercises practised so far.
func (m *Model) Summaries() []model.SessionSummary {
	return m.summaries
}
