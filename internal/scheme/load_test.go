package scheme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/typewriter/internal/keycode"
)

const steno = `
slug = "steno"
name = "Steno"
discipline = "chord"

keys = [["S", "A"], ["T", "S"], ["K", "D"]]

[transliteration]
code_to_display = [["xform", '^ST$', "st"]]
code_to_keys = [["xlit", "st", "ST"]]
code_to_spelling = [["erase", '^K$'], ["xlit", "STK", "stk"]]
validation = ['^[stk]+$']
`

func TestDecodeScheme(t *testing.T) {
	def, err := Decode(strings.NewReader(steno))
	require.NoError(t, err)
	assert.Equal(t, "steno", def.Slug)
	assert.Equal(t, Chord, def.Discipline)
	assert.Equal(t, FormatChord, def.Format, "format follows discipline")
	require.Len(t, def.Keys, 3)
	assert.Equal(t, KeyMapping{Key: "T", Code: keycode.S}, def.Keys[1])

	assert.Equal(t, "st", def.Decode(keycode.NewSet(keycode.S, keycode.A)), "display rule")
	assert.Equal(t, "K", def.Decode(keycode.NewSet(keycode.D)), "display falls back to raw code")
	assert.Equal(t, keycode.NewSet(keycode.A, keycode.S), def.Encode("st"), "code_to_keys preprocessing")
	display, ok := def.CodeToDisplay("ST")
	assert.True(t, ok)
	assert.Equal(t, "st", display)

	_, ok = def.CodeToSpelling("K")
	assert.False(t, ok)
	assert.True(t, def.Validate("sk"))
	assert.False(t, def.Validate("x"))
}

func TestDecodeSchemeErrors(t *testing.T) {
	cases := map[string]string{
		"missing slug":     `name = "x"` + "\ndiscipline = \"chord\"\nkeys = [[\"A\", \"A\"]]",
		"bad discipline":   "slug = \"x\"\nname = \"x\"\ndiscipline = \"typing\"\nkeys = [[\"A\", \"A\"]]",
		"no keys":          "slug = \"x\"\nname = \"x\"\ndiscipline = \"chord\"",
		"bad key pair":     "slug = \"x\"\nname = \"x\"\ndiscipline = \"chord\"\nkeys = [[\"A\"]]",
		"unknown key code": "slug = \"x\"\nname = \"x\"\ndiscipline = \"chord\"\nkeys = [[\"A\", \"Hyper\"]]",
		"bad rule kind": "slug = \"x\"\nname = \"x\"\ndiscipline = \"chord\"\nkeys = [[\"A\", \"A\"]]\n" +
			"[transliteration]\ncode_to_spelling = [[\"rewrite\", \"a\", \"b\"]]",
		"bad regex": "slug = \"x\"\nname = \"x\"\ndiscipline = \"chord\"\nkeys = [[\"A\", \"A\"]]\n" +
			"[transliteration]\nvalidation = [\"(\"]",
		"not toml": "slug = ",
	}
	for name, doc := range cases {
		_, err := Decode(strings.NewReader(doc))
		assert.Error(t, err, name)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "steno.toml")
	require.NoError(t, os.WriteFile(path, []byte(steno), 0o644))

	def, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Steno", def.Name)

	_, err = LoadFile(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err)
}
