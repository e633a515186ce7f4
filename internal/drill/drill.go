// Package drill provides bundled practice texts and loads custom ones from
// files and URLs.
package drill

import (
	"bytes"
	"embed"
	"sort"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/scheme"
)

//go:embed drills/bundled.yaml
var bundledFS embed.FS

// Drill is one practice text as stored in YAML.
type Drill struct {
	Title       string `yaml:"title"`
	Answer      string `yaml:"answer"`
	Caption     string `yaml:"caption,omitempty"`
	CaptionMode string `yaml:"caption_mode,omitempty"`
	Format      string `yaml:"format,omitempty"`
}

// Assignment converts d for a session.
func (d Drill) Assignment() (exercise.Assignment, error) {
	mode, ok := exercise.ParseCaptionMode(d.CaptionMode)
	if !ok {
		return exercise.Assignment{}, errors.Errorf("drill %q: unknown caption mode %q", d.Title, d.CaptionMode)
	}
	format, ok := scheme.ParseFormat(d.Format)
	if !ok {
		return exercise.Assignment{}, errors.Errorf("drill %q: unknown format %q", d.Title, d.Format)
	}
	return exercise.Assignment{
		Title:       d.Title,
		Answer:      d.Answer,
		Caption:     d.Caption,
		CaptionMode: mode,
		Format:      format,
	}, nil
}

// Catalog maps scheme slugs to drills.
type Catalog map[string][]Drill

// LoadBundled decodes the embedded drills.
func LoadBundled() (Catalog, error) {
	data, err := bundledFS.ReadFile("drills/bundled.yaml")
	if err != nil {
		return nil, errors.Wrap(err, "read bundled drills")
	}
	return DecodeCatalog(data)
}

// DecodeCatalog parses a YAML document keyed by scheme slug. Every drill
// must have an answer and a valid caption mode and format.
func DecodeCatalog(data []byte) (Catalog, error) {
	var cat Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cat); err != nil {
		return nil, errors.Wrap(err, "decode drills")
	}
	for slug, drills := range cat {
		if err := check(drills); err != nil {
			return nil, errors.Wrap(err, slug)
		}
	}
	return cat, nil
}

// DecodeList parses a YAML list of drills.
func DecodeList(data []byte) ([]Drill, error) {
	var drills []Drill
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&drills); err != nil {
		return nil, errors.Wrap(err, "decode drills")
	}
	if err := check(drills); err != nil {
		return nil, err
	}
	return drills, nil
}

func check(drills []Drill) error {
	for i, d := range drills {
		if d.Answer == "" {
			return errors.Errorf("drill %d (%q) has no answer", i, d.Title)
		}
		if _, err := d.Assignment(); err != nil {
			return err
		}
	}
	return nil
}

// For returns the drills of a scheme.
func (c Catalog) For(slug string) []Drill {
	return c[slug]
}

// Find looks a drill up by title within a scheme.
func (c Catalog) Find(slug, title string) (Drill, bool) {
	for _, d := range c[slug] {
		if d.Title == title {
			return d, true
		}
	}
	return Drill{}, false
}

// Slugs lists the schemes that have drills, sorted.
func (c Catalog) Slugs() []string {
	out := make([]string, 0, len(c))
	for slug := range c {
		out = append(out, slug)
	}
	sort.Strings(out)
	return out
}
