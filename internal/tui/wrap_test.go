package tui

import (
	"strings"
	"testing"

	"github.com/verte-zerg/minutetype/internal/engine"
)

func plainRunes(text string) []styledRune {
	out := make([]styledRune, 0, len(text))
	for _, r := range text {
		out = append(out, styledRune{s: string(r), width: 1, isSpace: r == ' '})
	}
	return out
}

func TestBuildStyledRunesCurrentWord(t *testing.T) {
	views := engine.Render(engine.Snapshot{Words: []string{"ab", "cd"}, Input: "a"})
	runes := buildStyledRunes(views)
	if len(runes) != 5 {
		t.Fatalf("expected 5 cells, got %d", len(runes))
	}
	if runes[0].s != correctStyle.Render("a") {
		t.Fatalf("expected correct style for typed rune")
	}
	if runes[1].s != cursorStyle.Render("b") {
		t.Fatalf("expected cursor style for next rune")
	}
	if !runes[2].isSpace {
		t.Fatalf("expected separator between words")
	}
	if runes[3].s != pendingStyle.Render("c") {
		t.Fatalf("expected pending style for upcoming word")
	}
}

func TestBuildStyledRunesMistype(t *testing.T) {
	views := engine.Render(engine.Snapshot{Words: []string{"ab"}, Input: "ax"})
	runes := buildStyledRunes(views)
	if runes[1].s != incorrectStyle.Render("b") {
		t.Fatalf("expected incorrect style for mistyped rune")
	}
}

func TestBuildStyledRunesCompletedWords(t *testing.T) {
	snap := engine.Snapshot{
		Words:     []string{"ok", "no", "now"},
		Index:     2,
		Incorrect: map[int]struct{}{1: {}},
	}
	runes := buildStyledRunes(engine.Render(snap))
	if runes[0].s != doneWordStyle.Render("o") {
		t.Fatalf("expected done style for correct completed word")
	}
	if runes[3].s != missedWordStyle.Render("n") {
		t.Fatalf("expected missed style for incorrect completed word")
	}
}

func TestWrapStyledRunesBreaksAtSpaces(t *testing.T) {
	out := wrapStyledRunes(plainRunes("one two three"), 8)
	lines := strings.Split(out, "\n")
	if len(lines) != 2 || lines[0] != "one two" || lines[1] != "three" {
		t.Fatalf("unexpected wrap: %q", out)
	}
}

func TestWrapStyledRunesLongWord(t *testing.T) {
	out := wrapStyledRunes(plainRunes("abcdefgh"), 3)
	if out != "abc\ndef\ngh" {
		t.Fatalf("unexpected hard wrap: %q", out)
	}
}

func TestWrapStyledRunesNoWidth(t *testing.T) {
	if out := wrapStyledRunes(plainRunes("a b"), 0); out != "a b" {
		t.Fatalf("expected unwrapped output, got %q", out)
	}
}
