package historyui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/minutetype/internal/model"
)

type fakeSource struct {
	results []model.Result
	missed  []model.WordAggregate
	err     error
}

func (f *fakeSource) ListResults(context.Context, model.HistoryFilter) ([]model.Result, error) {
	return f.results, f.err
}

func (f *fakeSource) ListMissedWords(context.Context, []string, int) ([]model.WordAggregate, error) {
	return f.missed, nil
}

func sampleSource() *fakeSource {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	src := &fakeSource{missed: []model.WordAggregate{{Word: "their", Misses: 4}}}
	for i, wpm := range []int{31, 44, 52} {
		src.results = append(src.results, model.Result{
			ID:        string(rune('a' + i)),
			EndedAt:   base.Add(time.Duration(i) * time.Hour),
			WPM:       wpm,
			CPM:       wpm * 5,
			Accuracy:  90,
			Tier:      "Rabbit",
			TierIcon:  "🐇",
			StartedAt: base,
		})
	}
	return src
}

func sized(m *Model) *Model {
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func TestOverviewShowsSummary(t *testing.T) {
	m := sized(NewModel(sampleSource(), model.HistoryFilter{Window: 2}))
	out := m.View()
	assert.Contains(t, out, "Overview")
	assert.Contains(t, out, "Best WPM")
	assert.Contains(t, out, "52")
	assert.Contains(t, out, "WPM trend (window 2)")
	assert.Contains(t, out, "their")
}

func TestResultsTabListsNewestFirst(t *testing.T) {
	m := sized(NewModel(sampleSource(), model.HistoryFilter{}))
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, tabResults, m.activeTab)

	rows := m.results.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, "52", rows[0][1])
	assert.Equal(t, "31", rows[2][1])
	assert.Contains(t, m.View(), "Mistakes")
}

func TestWindowKeys(t *testing.T) {
	m := sized(NewModel(sampleSource(), model.HistoryFilter{}))
	assert.Equal(t, 1, m.Window())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	assert.Equal(t, 5, m.Window())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("=")})
	assert.Equal(t, 10, m.Window())
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("-")})
	assert.Equal(t, 1, m.Window())
	assert.Contains(t, m.View(), "window=1")
}

func TestQuitKeys(t *testing.T) {
	m := NewModel(sampleSource(), model.HistoryFilter{})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestEmptyHistory(t *testing.T) {
	m := sized(NewModel(&fakeSource{}, model.HistoryFilter{}))
	assert.Contains(t, m.View(), "No results found.")
}

func TestLoadError(t *testing.T) {
	m := sized(NewModel(&fakeSource{err: errors.New("db locked")}, model.HistoryFilter{}))
	out := m.View()
	assert.Contains(t, out, "Failed to load history.")
	assert.Contains(t, out, "db locked")
}

func TestWindowStepping(t *testing.T) {
	assert.Equal(t, 5, nextWindow(1))
	assert.Equal(t, 10, nextWindow(7))
	assert.Equal(t, 5, prevWindow(7))
	assert.Equal(t, 1, prevWindow(5))
}

func TestTruncateLine(t *testing.T) {
	assert.Equal(t, "abcdef", truncateLine("abcdef", 0))
	assert.Equal(t, "ab...", truncateLine("abcdefgh", 5))
	assert.Equal(t, "ab", truncateLine("abcdef", 2))
}
