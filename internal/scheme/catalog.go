package scheme

import (
	"embed"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//go:embed schemes/*.toml
var bundled embed.FS

// bundledOrder fixes how bundled schemes are listed.
var bundledOrder = []string{"combo_pinyin", "double_pinyin_fly", "alphabet", "zhuyin", "combo_jyutping"}

// DefaultSlug names the scheme used when none is configured.
const DefaultSlug = "combo_pinyin"

// Catalog is an ordered, read-only set of schemes.
type Catalog struct {
	schemes []*Definition
	bySlug  map[string]*Definition
}

// LoadBundled loads only the schemes compiled into the binary.
func LoadBundled() (*Catalog, error) {
	return LoadCatalog("")
}

// LoadCatalog loads the bundled schemes and then every *.toml file in dir.
// A user file whose slug matches a bundled scheme replaces it. An empty or
// missing dir is not an error.
func LoadCatalog(dir string) (*Catalog, error) {
	c := &Catalog{bySlug: make(map[string]*Definition)}
	for _, slug := range bundledOrder {
		f, err := bundled.Open(path.Join("schemes", slug+".toml"))
		if err != nil {
			return nil, errors.Wrapf(err, "bundled scheme %s", slug)
		}
		def, err := Decode(f)
		_ = f.Close()
		if err != nil {
			return nil, errors.Wrapf(err, "bundled scheme %s", slug)
		}
		c.add(def)
	}
	if dir == "" {
		return c, nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return c, nil
		}
		return nil, errors.Wrap(err, "reading scheme dir")
	}
	var extra []*Definition
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".toml") {
			continue
		}
		def, err := LoadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		if _, ok := c.bySlug[def.Slug]; ok {
			c.add(def)
			continue
		}
		extra = append(extra, def)
	}
	sort.Slice(extra, func(i, j int) bool { return extra[i].Slug < extra[j].Slug })
	for _, def := range extra {
		c.add(def)
	}
	return c, nil
}

func (c *Catalog) add(def *Definition) {
	if _, ok := c.bySlug[def.Slug]; ok {
		for i, s := range c.schemes {
			if s.Slug == def.Slug {
				c.schemes[i] = def
			}
		}
	} else {
		c.schemes = append(c.schemes, def)
	}
	c.bySlug[def.Slug] = def
}

func (c *Catalog) Get(slug string) (*Definition, bool) {
	def, ok := c.bySlug[slug]
	return def, ok
}

// Default returns the default scheme, or the first one loaded.
func (c *Catalog) Default() *Definition {
	if def, ok := c.bySlug[DefaultSlug]; ok {
		return def
	}
	return c.schemes[0]
}

func (c *Catalog) All() []*Definition {
	out := make([]*Definition, len(c.schemes))
	copy(out, c.schemes)
	return out
}

func (c *Catalog) Slugs() []string {
	out := make([]string, 0, len(c.schemes))
	for _, def := range c.schemes {
		out = append(out, def.Slug)
	}
	return out
}
