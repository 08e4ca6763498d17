// Package generator samples typing words from a corpus.
package generator

import (
	"math/rand"
	"time"
	"unicode"
)

// Options tweaks sampled words. The zero value yields corpus words unchanged.
type Options struct {
	CapsPct  float64
	PunctPct float64
	PunctSet []rune
}

// Generator draws words uniformly, with replacement, from a fixed corpus.
type Generator struct {
	rnd   *rand.Rand
	words []string
	opts  Options
}

// New returns a Generator seeded with the current time.
func New(words []string, opts Options) *Generator {
	return NewSeeded(words, opts, time.Now().UnixNano())
}

// NewSeeded returns a Generator with a fixed seed.
func NewSeeded(words []string, opts Options, seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed)), words: words, opts: opts}
}

// Generate returns count sampled words. An empty corpus yields nil.
func (g *Generator) Generate(count int) []string {
	if count <= 0 || len(g.words) == 0 {
		return nil
	}
	result := make([]string, 0, count)
	for i := 0; i < count; i++ {
		word := g.words[g.rnd.Intn(len(g.words))]
		word = applyCaps(g.rnd, word, g.opts.CapsPct)
		word = applyPunct(g.rnd, word, g.opts.PunctPct, g.opts.PunctSet)
		result = append(result, word)
	}
	return result
}

func applyCaps(rnd *rand.Rand, word string, capsPct float64) string {
	if capsPct <= 0 {
		return word
	}
	if rnd.Float64() > capsPct {
		return word
	}
	runes := []rune(word)
	if len(runes) == 0 {
		return word
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

func applyPunct(rnd *rand.Rand, word string, punctPct float64, punctSet []rune) string {
	if punctPct <= 0 || len(punctSet) == 0 {
		return word
	}
	if rnd.Float64() > punctPct {
		return word
	}
	return word + string(punctSet[rnd.Intn(len(punctSet))])
}
