package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typewriter/internal/config"
	"github.com/verte-zerg/typewriter/internal/drill"
	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/keycode"
	"github.com/verte-zerg/typewriter/internal/scheme"
	"github.com/verte-zerg/typewriter/internal/session"
	"github.com/verte-zerg/typewriter/internal/store"
)

func bundledScheme(t *testing.T, slug string) *scheme.Definition {
	t.Helper()
	cat, err := scheme.LoadBundled()
	require.NoError(t, err)
	def, ok := cat.Get(slug)
	require.True(t, ok)
	return def
}

func TestParseEvents(t *testing.T) {
	events, err := parseEvents([]string{"+X", "-x", "+Space", "+1"})
	require.NoError(t, err)
	assert.Equal(t, []replayEvent{
		{code: keycode.X, down: true},
		{code: keycode.X, down: false},
		{code: keycode.Space, down: true},
		{code: keycode.Kc1, down: true},
	}, events)

	_, err = parseEvents([]string{"X"})
	assert.Error(t, err)
	_, err = parseEvents([]string{"+Hyper"})
	assert.Error(t, err)
}

func TestReplayChord(t *testing.T) {
	s := session.New(bundledScheme(t, "combo_pinyin"))
	s.Load(exercise.SplitAssignment("zhong"))
	events, err := parseEvents(strings.Fields("+X +C +U +I +O -O -I -U -C -X"))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, replay(&buf, s, events))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 11)
	assert.Contains(t, lines[4], "ZFURO")
	assert.True(t, strings.HasSuffix(lines[9], "completed"), lines[9])
	assert.Equal(t, "done 1/1, correct 1, incorrect 0", lines[10])
}

func TestApplyConfigRespectsFlags(t *testing.T) {
	cmd := &cobra.Command{Use: "x"}
	var scheme string
	var words int
	cmd.Flags().StringVar(&scheme, "scheme", "combo_pinyin", "")
	cmd.Flags().IntVar(&words, "random-words", 20, "")
	require.NoError(t, cmd.Flags().Parse([]string{"--scheme", "alphabet"}))

	fromFile := "zhuyin"
	count := 40
	applyStringConfig(cmd, "scheme", &scheme, &fromFile)
	applyIntConfig(cmd, "random-words", &words, &count)
	assert.Equal(t, "alphabet", scheme)
	assert.Equal(t, 40, words)

	applyIntConfig(cmd, "random-words", &words, nil)
	assert.Equal(t, 40, words)
}

func TestResolveInitial(t *testing.T) {
	def := bundledScheme(t, "combo_pinyin")
	drills, err := drill.LoadBundled()
	require.NoError(t, err)
	st, err := store.Open(t.TempDir() + "/typewriter.db")
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()

	a, err := resolveInitial(context.Background(), st, drills, def, "", "zhong guo // 中國")
	require.NoError(t, err)
	assert.Equal(t, "zhong guo", a.Answer)
	assert.Equal(t, "中國", a.Caption)

	a, err = resolveInitial(context.Background(), st, drills, def, "東風破早梅", "")
	require.NoError(t, err)
	assert.Equal(t, "東風破早梅", a.Title)

	a, err = resolveInitial(context.Background(), st, drills, def, "", "")
	require.NoError(t, err)
	assert.Nil(t, a)

	_, err = resolveInitial(context.Background(), st, drills, def, "missing", "")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDrillAddSavesText(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	data := t.TempDir()
	t.Setenv("XDG_DATA_HOME", data)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"drill", "add", "--scheme", "combo_pinyin", "--title", "greeting", "ni hao // 你好"})
	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "combo_pinyin\tgreeting")

	st, err := store.Open(config.DefaultDBPath())
	require.NoError(t, err)
	defer func() {
		_ = st.Close()
	}()
	saved, err := st.ListDrills(context.Background(), "combo_pinyin")
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "ni hao", saved[0].Answer)
	assert.Equal(t, "你好", saved[0].Caption)
	assert.Equal(t, "text", saved[0].Source)
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "a b", preview("a  b"))
	assert.Equal(t, "1 2 3 4 5 6 …", preview("1 2 3 4 5 6 7 8"))
}
