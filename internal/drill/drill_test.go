package drill

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/scheme"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestBundledDrillsParse(t *testing.T) {
	cat, err := LoadBundled()
	require.NoError(t, err)
	schemes, err := scheme.LoadBundled()
	require.NoError(t, err)

	for _, slug := range cat.Slugs() {
		def, ok := schemes.Get(slug)
		require.True(t, ok, "drills for unknown scheme %s", slug)
		for _, d := range cat.For(slug) {
			a, err := d.Assignment()
			require.NoError(t, err)
			units := exercise.Parse(a.Answer, a.Format, def)
			require.NotEmpty(t, units, d.Title)
			for _, u := range units {
				_, ok := u.ExpectedCode(def)
				assert.True(t, ok, "%s/%s: no code for %q", slug, d.Title, u.Display())
			}
			if a.Caption != "" {
				c := exercise.NewCaption(a, units, def.Format)
				assert.Equal(t, len(units), c.Len(), "%s/%s caption length", slug, d.Title)
			}
		}
	}
}

func TestCatalogFind(t *testing.T) {
	cat, err := LoadBundled()
	require.NoError(t, err)
	d, ok := cat.Find("combo_pinyin", "音節練習")
	require.True(t, ok)
	a, err := d.Assignment()
	require.NoError(t, err)
	assert.Equal(t, exercise.CaptionLineWords, a.CaptionMode)
	_, ok = cat.Find("combo_pinyin", "nope")
	assert.False(t, ok)
}

func TestDecodeCatalogErrors(t *testing.T) {
	_, err := DecodeCatalog([]byte("alphabet:\n  - title: x\n"))
	assert.ErrorContains(t, err, "no answer")

	_, err = DecodeCatalog([]byte("alphabet:\n  - title: x\n    answer: a\n    caption_mode: columns\n"))
	assert.ErrorContains(t, err, "caption mode")

	_, err = DecodeCatalog([]byte("alphabet:\n  - title: x\n    answer: a\n    colour: red\n"))
	assert.Error(t, err)
}

func TestLoadFileText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poem.txt")
	require.NoError(t, os.WriteFile(path, []byte("dong feng\n\npo zao mei // 東風破早梅\n"), 0o644))
	drills, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, drills, 1)
	assert.Equal(t, "poem", drills[0].Title)
	assert.Equal(t, "dong feng\npo zao mei", drills[0].Answer)
	assert.Equal(t, "東風破早梅", drills[0].Caption)
}

func TestLoadFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mine.yaml")
	doc := "- title: one\n  answer: zhong\n- title: two\n  answer: ABC\n  format: per-key\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	drills, err := LoadFile(path)
	require.NoError(t, err)
	require.Len(t, drills, 2)
	a, err := drills[1].Assignment()
	require.NoError(t, err)
	assert.Equal(t, scheme.FormatPerKey, a.Format)
}

func TestDrillWithoutFormat(t *testing.T) {
	a, err := Drill{Title: "x", Answer: "zhong"}.Assignment()
	require.NoError(t, err)
	assert.Equal(t, scheme.FormatDefault, a.Format)

	cat, err := DecodeCatalog([]byte("combo_pinyin:\n  - title: x\n    answer: zhong guo\n"))
	require.NoError(t, err)
	require.Len(t, cat.For("combo_pinyin"), 1)
}

func TestLoadFileEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.txt")
	require.NoError(t, os.WriteFile(path, []byte("\n  \n"), 0o644))
	_, err := LoadFile(path)
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/drill.txt" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte("ZFURO=zhong guo // 中國\n"))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	a, err := f.Fetch(context.Background(), srv.URL+"/drill.txt")
	require.NoError(t, err)
	assert.Equal(t, "ZFURO=zhong guo", a.Answer)
	assert.Equal(t, "中國", a.Caption)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing.txt")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "404"))
	srv.CloseClientConnections()
	f.Client.CloseIdleConnections()
}

func TestFetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("zhong ", maxFetchSize/6+1)))
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	_, err := f.Fetch(context.Background(), srv.URL+"/big.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than")
	srv.CloseClientConnections()
	f.Client.CloseIdleConnections()
}

func TestFetchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewFetcher(time.Second).Fetch(ctx, "http://127.0.0.1:1/drill.txt")
	assert.Error(t, err)
}
