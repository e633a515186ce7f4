package exercise

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typewriter/internal/scheme"
)

func bundled(t *testing.T, slug string) *scheme.Definition {
	t.Helper()
	cat, err := scheme.LoadBundled()
	require.NoError(t, err)
	def, ok := cat.Get(slug)
	require.True(t, ok)
	return def
}

func TestParseChord(t *testing.T) {
	cases := []struct {
		in   string
		want []Unit
	}{
		{"", nil},
		{"zhong", []Unit{{Spelling: "zhong"}}},
		{"ZFURO=zhong", []Unit{{Code: "ZFURO", Spelling: "zhong"}}},
		{"ZFURO", []Unit{{Code: "ZFURO"}}},
		{"SHGUA=<shu ru fa> xian", []Unit{{Code: "SHGUA", Spelling: "shu ru fa"}, {Spelling: "xian"}}},
		{"AE=<'a> A=<␣>", []Unit{{Code: "AE", Spelling: "'a"}, {Code: "A", Spelling: "␣"}}},
		{"[ㄓㄨㄥ]=zhong", []Unit{{Code: "ㄓㄨㄥ", Spelling: "zhong"}}},
		{"<hello, world>", []Unit{{Spelling: "hello, world"}}},
		{"yang'wang", []Unit{{Spelling: "yang"}, {Spelling: "wang"}}},
		{"ZF=shu'ru", []Unit{{Code: "ZF", Spelling: "shu'ru"}}},
		{"nü ÜN", []Unit{{Spelling: "nü"}, {Code: "ÜN"}}},
		{"<> !! ,", nil},
	}
	for _, tc := range cases {
		got := ParseChord(tc.in)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("ParseChord(%q) mismatch (-want +got):\n%s", tc.in, diff)
		}
	}
}

func TestParseSequential(t *testing.T) {
	got := ParseSequential("cong  ming\n[DE] shu")
	want := []Unit{{Spelling: "cong"}, {Spelling: "ming"}, {Code: "DE"}, {Spelling: "shu"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, ParseSequential("   "))
}

func TestParsePerKey(t *testing.T) {
	def := bundled(t, "alphabet")
	got := ParsePerKey("  Hi x\n-a ", def)
	want := []Unit{
		{Code: "H"}, {Spelling: "i"}, {Spelling: " "}, {Spelling: "x"},
		{Code: "-"}, {Spelling: "a"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDispatch(t *testing.T) {
	combo := bundled(t, "combo_pinyin")
	assert.Equal(t, []Unit{{Code: "ZF"}}, Parse("ZF", scheme.FormatDefault, combo))
	assert.Equal(t, []Unit{{Spelling: "ZF"}}, Parse("ZF", scheme.FormatSequential, combo))
}

func TestSplitAssignment(t *testing.T) {
	a := SplitAssignment(" zhong guo // 中國 // extra ")
	assert.Equal(t, "zhong guo", a.Answer)
	assert.Equal(t, "中國 // extra", a.Caption)

	a = SplitAssignment("zhong guo\n")
	assert.Equal(t, "zhong guo", a.Answer)
	assert.Equal(t, "", a.Caption)
}

func threeUnits() Progress {
	return NewProgress([]Unit{{Spelling: "a"}, {Spelling: "b"}, {Spelling: "c"}})
}

func TestAdvanceCompletes(t *testing.T) {
	p := threeUnits()
	for i := 0; i < 3; i++ {
		assert.False(t, p.IsComplete())
		require.NoError(t, p.Advance(false))
	}
	assert.True(t, p.IsComplete())
	assert.Equal(t, 3, p.Position())

	u, ok := p.CurrentUnit()
	require.True(t, ok)
	assert.Equal(t, "c", u.Spelling, "clamped to the last unit")

	err := p.Advance(false)
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, 3, p.Position())

	require.NoError(t, p.Advance(true))
	assert.Equal(t, 0, p.Position())
}

func TestAdvanceTo(t *testing.T) {
	p := threeUnits()
	require.NoError(t, p.AdvanceTo(3, false))
	assert.True(t, p.IsComplete())

	p = threeUnits()
	require.NoError(t, p.AdvanceTo(2, false))
	assert.ErrorIs(t, p.AdvanceTo(1, true), ErrOutOfRange, "never moves backward")
	assert.ErrorIs(t, p.AdvanceTo(9, false), ErrOutOfRange)
	require.NoError(t, p.AdvanceTo(9, true))
	assert.Equal(t, 0, p.Position())
}

func TestRetreat(t *testing.T) {
	p := threeUnits()
	assert.ErrorIs(t, p.Retreat(false), ErrOutOfRange)
	assert.Equal(t, 0, p.Position())

	require.NoError(t, p.Retreat(true))
	assert.Equal(t, 2, p.Position())
	require.NoError(t, p.Retreat(false))
	assert.Equal(t, 1, p.Position())

	assert.ErrorIs(t, p.RetreatTo(2, false), ErrOutOfRange, "never moves forward without wrap")
	require.NoError(t, p.RetreatTo(2, true))
	require.NoError(t, p.RetreatTo(0, false))
	assert.ErrorIs(t, p.RetreatTo(-1, true), ErrOutOfRange)
	assert.ErrorIs(t, p.RetreatTo(4, true), ErrOutOfRange)

	empty := NewProgress(nil)
	assert.ErrorIs(t, empty.Retreat(true), ErrOutOfRange)
	assert.False(t, empty.IsComplete())
	_, ok := empty.CurrentUnit()
	assert.False(t, ok)
}

func TestPositionStaysInBounds(t *testing.T) {
	p := threeUnits()
	moves := []func() error{
		func() error { return p.Advance(false) },
		func() error { return p.Advance(true) },
		func() error { return p.Retreat(false) },
		func() error { return p.Retreat(true) },
		func() error { return p.AdvanceTo(5, false) },
		func() error { return p.RetreatTo(1, true) },
	}
	for i := 0; i < 200; i++ {
		_ = moves[(i*7+i/3)%len(moves)]()
		require.GreaterOrEqual(t, p.Position(), 0)
		require.LessOrEqual(t, p.Position(), p.Len())
	}
}

func TestIsMatch(t *testing.T) {
	def := bundled(t, "combo_pinyin")

	p := NewProgress(ParseChord("zhong"))
	assert.True(t, p.IsMatch(def, "ZFURO", "zhong"))
	assert.True(t, p.IsMatch(def, "ZFURO", ""), "matched through the derived code")
	assert.True(t, p.IsMatch(def, "", "zhong"))
	assert.False(t, p.IsMatch(def, "ZFUR", "zhou"))

	p = NewProgress(ParseChord("ZFURO=zhong"))
	assert.True(t, p.IsMatch(def, "XXX", "zhong"), "spelling alone")
	assert.True(t, p.IsMatch(def, "ZFURO", "other"), "code alone")
	assert.False(t, p.IsMatch(def, "", ""))

	empty := NewProgress(nil)
	assert.False(t, empty.IsMatch(def, "ZFURO", "zhong"))
}

func TestExpectedCode(t *testing.T) {
	def := bundled(t, "combo_pinyin")
	code, ok := Unit{Spelling: "zhong"}.ExpectedCode(def)
	require.True(t, ok)
	assert.Equal(t, "ZFURO", code)

	code, ok = Unit{Code: "SHGUA", Spelling: "shu ru fa"}.ExpectedCode(def)
	require.True(t, ok)
	assert.Equal(t, "SHGUA", code)

	_, ok = Unit{Spelling: "hello"}.ExpectedCode(def)
	assert.False(t, ok)

	assert.Equal(t, "zhong", Unit{Code: "ZFURO", Spelling: "zhong"}.Display())
	assert.Equal(t, "ZFURO", Unit{Code: "ZFURO"}.Display())
}
