package scheme

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"

	"github.com/verte-zerg/typewriter/internal/algebra"
	"github.com/verte-zerg/typewriter/internal/keycode"
)

var validate = validator.New()

type fileScheme struct {
	Slug            string              `toml:"slug" validate:"required,max=64"`
	Name            string              `toml:"name" validate:"required"`
	Layout          string              `toml:"layout"`
	Discipline      string              `toml:"discipline" validate:"required,oneof=sequential chord"`
	Format          string              `toml:"format" validate:"omitempty,oneof=per-key sequential chord"`
	Keys            [][]string          `toml:"keys" validate:"required,min=1,dive,len=2,dive,required"`
	Transliteration fileTransliteration `toml:"transliteration"`
}

type fileTransliteration struct {
	CodeToDisplay  [][]string `toml:"code_to_display" validate:"dive,min=2,max=3"`
	CodeToKeys     [][]string `toml:"code_to_keys" validate:"dive,min=2,max=3"`
	CodeToSpelling [][]string `toml:"code_to_spelling" validate:"dive,min=2,max=3"`
	SpellingToCode [][]string `toml:"spelling_to_code" validate:"dive,min=2,max=3"`
	Validation     []string   `toml:"validation" validate:"dive,required"`
}

// LoadFile reads a scheme from a TOML file.
func LoadFile(path string) (*Definition, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening scheme")
	}
	defer func() {
		_ = f.Close()
	}()
	def, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "scheme %s", path)
	}
	return def, nil
}

// Decode parses and compiles a TOML scheme document.
func Decode(r io.Reader) (*Definition, error) {
	var fs fileScheme
	if _, err := toml.NewDecoder(r).Decode(&fs); err != nil {
		return nil, errors.Wrap(err, "decoding toml")
	}
	if err := validate.Struct(fs); err != nil {
		return nil, describeValidation(err)
	}
	return fs.compile()
}

func describeValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
	}
	return errors.Errorf("invalid scheme: %s", strings.Join(msgs, "; "))
}

func (fs fileScheme) compile() (*Definition, error) {
	def := &Definition{
		Slug:   fs.Slug,
		Name:   fs.Name,
		Layout: fs.Layout,
	}
	if fs.Discipline == "chord" {
		def.Discipline = Chord
		def.Format = FormatChord
	} else {
		def.Discipline = Sequential
		def.Format = FormatSequential
	}
	if fs.Format != "" {
		def.Format, _ = ParseFormat(fs.Format)
	}

	def.Keys = make([]KeyMapping, 0, len(fs.Keys))
	for _, pair := range fs.Keys {
		code, ok := keycode.Parse(pair[1])
		if !ok {
			return nil, errors.Errorf("key %q: unknown key code %q", pair[0], pair[1])
		}
		def.Keys = append(def.Keys, KeyMapping{Key: pair[0], Code: code})
	}

	tr := fs.Transliteration
	var err error
	if def.Rules.CodeToDisplay, err = compilePipeline(tr.CodeToDisplay); err != nil {
		return nil, errors.Wrap(err, "code_to_display")
	}
	if def.Rules.CodeToKeys, err = compilePipeline(tr.CodeToKeys); err != nil {
		return nil, errors.Wrap(err, "code_to_keys")
	}
	if def.Rules.CodeToSpelling, err = compilePipeline(tr.CodeToSpelling); err != nil {
		return nil, errors.Wrap(err, "code_to_spelling")
	}
	if def.Rules.SpellingToCode, err = compilePipeline(tr.SpellingToCode); err != nil {
		return nil, errors.Wrap(err, "spelling_to_code")
	}
	for i, pattern := range tr.Validation {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, errors.Wrapf(err, "validation[%d]", i)
		}
		def.Rules.Validation = append(def.Rules.Validation, re)
	}
	return def, nil
}

func compilePipeline(rows [][]string) (algebra.Pipeline, error) {
	if len(rows) == 0 {
		return nil, nil
	}
	p := make(algebra.Pipeline, 0, len(rows))
	for i, row := range rows {
		op, err := algebra.Parse(row[0], row[1:]...)
		if err != nil {
			return nil, errors.Wrapf(err, "rule %d", i)
		}
		p = append(p, op)
	}
	return p, nil
}
