package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"

	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/model"
)

type drillItem struct {
	title      string
	desc       string
	assignment exercise.Assignment
	random     bool
}

func (i drillItem) Title() string       { return i.title }
func (i drillItem) Description() string { return i.desc }
func (i drillItem) FilterValue() string { return i.title }

// pickerItems lists the random drill, bundled drills, then saved ones.
func (m *Model) pickerItems() []list.Item {
	slug := m.session.Scheme().Slug
	items := []list.Item{drillItem{
		title:  "隨機練習",
		desc:   fmt.Sprintf("%d random units from the drills of %s", m.config.RandomWords, slug),
		random: true,
	}}
	for _, d := range m.drills.For(slug) {
		a, err := d.Assignment()
		if err != nil {
			continue
		}
		items = append(items, drillItem{title: d.Title, desc: preview(d.Answer), assignment: a})
	}
	for _, d := range m.saved {
		if d.Scheme != slug {
			continue
		}
		items = append(items, drillItem{title: d.Title, desc: "saved · " + preview(d.Answer), assignment: savedAssignment(d)})
	}
	return items
}

func savedAssignment(d model.SavedDrill) exercise.Assignment {
	mode, _ := exercise.ParseCaptionMode(d.CaptionMode)
	return exercise.Assignment{Title: d.Title, Answer: d.Answer, Caption: d.Caption, CaptionMode: mode}
}

func preview(text string) string {
	const limit = 48
	rs := []rune(text)
	for i, r := range rs {
		if r == '\n' {
			rs[i] = ' '
		}
	}
	if len(rs) > limit {
		return string(rs[:limit]) + "…"
	}
	return string(rs)
}

func (m *Model) openPicker() {
	delegate := list.NewDefaultDelegate()
	l := list.New(m.pickerItems(), delegate, m.width, m.height)
	l.Title = "Drills · " + m.session.Scheme().Name
	l.SetShowStatusBar(false)
	m.picker = l
	m.picking = true
}
