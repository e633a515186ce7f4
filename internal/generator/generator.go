// Package generator builds random drills from a pool of units.
package generator

import (
	"math/rand"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/verte-zerg/typewriter/internal/exercise"
	"github.com/verte-zerg/typewriter/internal/scheme"
)

// Generator produces randomized answer text.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a deterministic Generator.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate selects tokens uniformly.
func (g *Generator) Generate(pool []string, count int) []string {
	if len(pool) == 0 || count <= 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		result = append(result, pool[g.rnd.Intn(len(pool))])
	}
	return result
}

// GenerateWeighted draws a share of factor of the tokens from the weak
// entries of pool and the rest uniformly from the whole pool.
func (g *Generator) GenerateWeighted(pool []string, count int, weak map[string]struct{}, factor float64) []string {
	var weakPool []string
	for _, tok := range pool {
		if _, ok := weak[tok]; ok {
			weakPool = append(weakPool, tok)
		}
	}
	if len(weakPool) == 0 || factor <= 0 {
		return g.Generate(pool, count)
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		if g.rnd.Float64() < factor {
			result = append(result, weakPool[g.rnd.Intn(len(weakPool))])
			continue
		}
		result = append(result, pool[g.rnd.Intn(len(pool))])
	}
	return result
}

var upperCode = regexp.MustCompile(`^\p{Lu}+$`)

// Token renders u so that the answer parser of format reads it back as the
// same unit.
func Token(u exercise.Unit, format scheme.Format) string {
	switch {
	case u.Code == "":
		return u.Spelling
	case format == scheme.FormatChord && u.Spelling != "":
		code := u.Code
		if !upperCode.MatchString(code) {
			code = "[" + code + "]"
		}
		return code + "=<" + u.Spelling + ">"
	case format == scheme.FormatChord && upperCode.MatchString(u.Code):
		return u.Code
	}
	return "[" + u.Code + "]"
}

// Pool collects the distinct tokens of answers that def can type, sorted.
// Per-key answers contribute whole words.
func Pool(def *scheme.Definition, answers []string) []string {
	seen := map[string]struct{}{}
	for _, answer := range answers {
		if def.Format == scheme.FormatPerKey {
			for _, word := range strings.Fields(answer) {
				if typeable(def, exercise.ParsePerKey(word, def)) {
					seen[word] = struct{}{}
				}
			}
			continue
		}
		for _, u := range exercise.Parse(answer, def.Format, def) {
			if !typeable(def, []exercise.Unit{u}) {
				continue
			}
			seen[Token(u, def.Format)] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for tok := range seen {
		out = append(out, tok)
	}
	sort.Strings(out)
	return out
}

func typeable(def *scheme.Definition, units []exercise.Unit) bool {
	if len(units) == 0 {
		return false
	}
	for _, u := range units {
		if _, ok := u.ExpectedCode(def); !ok {
			return false
		}
	}
	return true
}

// WeakTokens marks the pool tokens containing a weak unit. Units are
// matched by their display text.
func WeakTokens(def *scheme.Definition, pool, weakUnits []string) map[string]struct{} {
	weak := make(map[string]struct{}, len(weakUnits))
	for _, u := range weakUnits {
		weak[u] = struct{}{}
	}
	out := map[string]struct{}{}
	for _, tok := range pool {
		for _, u := range exercise.Parse(tok, def.Format, def) {
			if _, ok := weak[u.Display()]; ok {
				out[tok] = struct{}{}
				break
			}
		}
	}
	return out
}
