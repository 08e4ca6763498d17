package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/minutetype/internal/engine"
)

type styledRune struct {
	s       string
	width   int
	isSpace bool
}

// buildStyledRunes flattens rendered words into styled cells separated by spaces.
func buildStyledRunes(views []engine.WordView) []styledRune {
	out := make([]styledRune, 0, len(views)*6)
	for i, view := range views {
		if i > 0 {
			out = append(out, styledRune{s: " ", width: 1, isSpace: true})
		}
		switch view.Status {
		case engine.Current:
			for _, ch := range view.Chars {
				out = append(out, styledRune{
					s:     charStyle(ch.State).Render(string(ch.Rune)),
					width: runewidth.RuneWidth(ch.Rune),
				})
			}
		default:
			style := wordStyle(view)
			for _, r := range view.Text {
				out = append(out, styledRune{
					s:     style.Render(string(r)),
					width: runewidth.RuneWidth(r),
				})
			}
		}
	}
	return out
}

func charStyle(state engine.CharState) lipgloss.Style {
	switch state {
	case engine.CharCorrect:
		return correctStyle
	case engine.CharIncorrect:
		return incorrectStyle
	case engine.CharCaret:
		return cursorStyle
	default:
		return currentWordStyle
	}
}

func wordStyle(view engine.WordView) lipgloss.Style {
	switch {
	case view.Status == engine.Completed && view.Incorrect:
		return missedWordStyle
	case view.Status == engine.Completed:
		return doneWordStyle
	default:
		return pendingStyle
	}
}

func renderStyledRunes(runes []styledRune) string {
	var b strings.Builder
	for _, item := range runes {
		b.WriteString(item.s)
	}
	return b.String()
}

func wrapStyledRunes(runes []styledRune, width int) string {
	if width <= 0 {
		return renderStyledRunes(runes)
	}
	var out strings.Builder
	line := make([]styledRune, 0, len(runes))
	lineWidth := 0
	lastSpaceIdx := -1

	for i := 0; i < len(runes); {
		item := runes[i]
		if lineWidth+item.width > width && len(line) > 0 {
			if lastSpaceIdx >= 0 {
				out.WriteString(renderStyledRunes(line[:lastSpaceIdx]))
				out.WriteRune('\n')
				line = append([]styledRune{}, line[lastSpaceIdx+1:]...)
				lineWidth = lineWidthOf(line)
				lastSpaceIdx = lastSpaceIndex(line)
			} else {
				out.WriteString(renderStyledRunes(line))
				out.WriteRune('\n')
				line = line[:0]
				lineWidth = 0
				lastSpaceIdx = -1
			}
			continue
		}
		line = append(line, item)
		lineWidth += item.width
		if item.isSpace {
			lastSpaceIdx = len(line) - 1
		}
		i++
	}
	out.WriteString(renderStyledRunes(line))
	return out.String()
}

func lineWidthOf(line []styledRune) int {
	total := 0
	for _, item := range line {
		total += item.width
	}
	return total
}

func lastSpaceIndex(line []styledRune) int {
	for i := len(line) - 1; i >= 0; i-- {
		if line[i].isSpace {
			return i
		}
	}
	return -1
}
