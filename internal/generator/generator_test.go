package generator

import (
	"strings"
	"testing"
	"unicode"
)

func TestGenerateDrawsFromCorpus(t *testing.T) {
	corpus := []string{"alpha", "beta", "gamma"}
	allowed := map[string]bool{"alpha": true, "beta": true, "gamma": true}
	gen := NewSeeded(corpus, Options{}, 1)
	words := gen.Generate(200)
	if len(words) != 200 {
		t.Fatalf("expected 200 words, got %d", len(words))
	}
	seen := map[string]int{}
	for _, w := range words {
		if !allowed[w] {
			t.Fatalf("unexpected word %q", w)
		}
		seen[w]++
	}
	if len(seen) != len(corpus) {
		t.Fatalf("expected every corpus word to appear, got %v", seen)
	}
}

func TestGenerateEmpty(t *testing.T) {
	if got := NewSeeded(nil, Options{}, 1).Generate(10); got != nil {
		t.Fatalf("expected nil for empty corpus, got %v", got)
	}
	if got := NewSeeded([]string{"a"}, Options{}, 1).Generate(0); got != nil {
		t.Fatalf("expected nil for zero count, got %v", got)
	}
}

func TestGenerateDeterministicWithSeed(t *testing.T) {
	corpus := []string{"one", "two", "three", "four"}
	a := NewSeeded(corpus, Options{}, 42).Generate(50)
	b := NewSeeded(corpus, Options{}, 42).Generate(50)
	if strings.Join(a, " ") != strings.Join(b, " ") {
		t.Fatalf("expected identical output for identical seeds")
	}
}

func TestGenerateCapsAndPunct(t *testing.T) {
	gen := NewSeeded([]string{"word"}, Options{CapsPct: 1, PunctPct: 1, PunctSet: []rune(".")}, 7)
	for _, w := range gen.Generate(10) {
		if w != "Word." {
			t.Fatalf("expected Word., got %q", w)
		}
		if !unicode.IsUpper([]rune(w)[0]) {
			t.Fatalf("expected capitalized word")
		}
	}
}
