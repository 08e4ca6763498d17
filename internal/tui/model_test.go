package tui

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/minutetype/internal/engine"
	"github.com/verte-zerg/minutetype/internal/generator"
	"github.com/verte-zerg/minutetype/internal/model"
)

type fakeRecorder struct {
	best     int
	bestErr  error
	saveErr  error
	saved    []model.Result
	mistakes [][]model.Mistake
}

func (f *fakeRecorder) InsertResult(_ context.Context, r model.Result, mistakes []model.Mistake) (string, error) {
	if f.saveErr != nil {
		return "", f.saveErr
	}
	f.saved = append(f.saved, r)
	f.mistakes = append(f.mistakes, mistakes)
	return "id", nil
}

func (f *fakeRecorder) BestWPM(context.Context, string) (int, error) {
	return f.best, f.bestErr
}

func newTestModel(t *testing.T, rec Recorder) *Model {
	t.Helper()
	gen := generator.NewSeeded([]string{"go"}, generator.Options{}, 1)
	m := NewModel(engine.New(gen, nil), rec, Options{Lang: "en", WordSource: "test", Save: true})
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	return m
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m *Model, msg tea.Msg) tea.Cmd {
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, text string) tea.Cmd {
	var first tea.Cmd
	for _, r := range text {
		var cmd tea.Cmd
		if r == ' ' {
			cmd = send(m, tea.KeyMsg{Type: tea.KeySpace})
		} else {
			cmd = send(m, keyRunes(string(r)))
		}
		if first == nil {
			first = cmd
		}
	}
	return first
}

func runToExpiry(t *testing.T, m *Model) {
	t.Helper()
	for i := 0; i < engine.DurationSeconds-1; i++ {
		require.NotNil(t, send(m, tickMsg{epoch: m.epoch}), "tick %d should re-arm", i)
	}
	require.Nil(t, send(m, tickMsg{epoch: m.epoch}))
}

func TestFirstKeystrokeStartsTicking(t *testing.T) {
	m := newTestModel(t, nil)
	cmd := send(m, keyRunes("g"))
	require.NotNil(t, cmd)
	assert.Equal(t, engine.Running, m.session.State())
	assert.Equal(t, "g", string(m.field))

	assert.Nil(t, send(m, keyRunes("o")))
}

func TestSpaceCompletesWordAndClearsField(t *testing.T) {
	m := newTestModel(t, nil)
	typeText(m, "go ")
	assert.Equal(t, 1, m.session.CorrectWords())
	assert.Empty(t, m.field)

	typeText(m, "og ")
	assert.Equal(t, 1, m.session.IncorrectWords())
	require.Len(t, m.mistakes, 1)
	assert.Equal(t, model.Mistake{Position: 1, Word: "go", Typed: "og"}, m.mistakes[0])
}

func TestBackspaceEditsField(t *testing.T) {
	m := newTestModel(t, nil)
	typeText(m, "gx")
	send(m, tea.KeyMsg{Type: tea.KeyBackspace})
	assert.Equal(t, "g", m.session.InputBuffer())
	typeText(m, "o ")
	assert.Equal(t, 1, m.session.CorrectWords())
}

func TestPastedRunesAreSeparateKeystrokes(t *testing.T) {
	m := newTestModel(t, nil)
	send(m, keyRunes("g"))
	send(m, keyRunes("o go"))
	assert.Equal(t, 1, m.session.CorrectWords())
	assert.Equal(t, "go", m.session.InputBuffer())
}

func TestTickLifecycleAndSave(t *testing.T) {
	rec := &fakeRecorder{best: 3}
	m := newTestModel(t, rec)
	typeText(m, "go go og ")
	runToExpiry(t, m)

	assert.Equal(t, engine.Finished, m.session.State())
	require.Len(t, rec.saved, 1)
	saved := rec.saved[0]
	assert.Equal(t, 2, saved.WPM)
	assert.Equal(t, 1, saved.IncorrectWords)
	assert.Equal(t, "en", saved.Lang)
	assert.Equal(t, "test", saved.WordSource)
	assert.Len(t, rec.mistakes[0], 1)
	assert.False(t, m.newBest)

	assert.Nil(t, send(m, tickMsg{epoch: m.epoch}))
	assert.Len(t, rec.saved, 1)
}

func TestFinishedIgnoresTypingUntilEnter(t *testing.T) {
	m := newTestModel(t, nil)
	typeText(m, "go ")
	runToExpiry(t, m)

	typeText(m, "go ")
	assert.Equal(t, 1, m.session.CorrectWords())
	assert.Contains(t, m.View(), "Test Results")

	send(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, engine.Idle, m.session.State())
	assert.Zero(t, m.session.CorrectWords())
	assert.False(t, m.newBest)
	assert.Empty(t, m.mistakes)
}

func TestResetOrphansRunningTicks(t *testing.T) {
	m := newTestModel(t, nil)
	typeText(m, "go ")
	stale := m.epoch
	send(m, tickMsg{epoch: stale})
	assert.Equal(t, engine.DurationSeconds-1, m.session.TimeRemaining())

	send(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, engine.Idle, m.session.State())
	assert.Nil(t, send(m, tickMsg{epoch: stale}))
	assert.Equal(t, engine.DurationSeconds, m.session.TimeRemaining())

	require.NotNil(t, send(m, keyRunes("g")))
	assert.Nil(t, send(m, tickMsg{epoch: stale}))
	assert.Equal(t, engine.DurationSeconds, m.session.TimeRemaining())
	assert.NotNil(t, send(m, tickMsg{epoch: m.epoch}))
	assert.Equal(t, engine.DurationSeconds-1, m.session.TimeRemaining())
}

func TestNewBestAndSaveFailure(t *testing.T) {
	rec := &fakeRecorder{saveErr: errors.New("disk full")}
	m := newTestModel(t, rec)
	typeText(m, "go ")
	runToExpiry(t, m)
	assert.True(t, m.newBest)
	assert.Equal(t, 1, m.best)
	assert.Equal(t, "result not saved", m.saveErr)
	assert.Contains(t, m.renderFooter(), "result not saved")
}

func TestSaveDisabled(t *testing.T) {
	rec := &fakeRecorder{}
	m := newTestModel(t, rec)
	m.opts.Save = false
	typeText(m, "go ")
	runToExpiry(t, m)
	assert.Empty(t, rec.saved)
}

func TestViewShowsTimerAndCards(t *testing.T) {
	m := newTestModel(t, nil)
	send(m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	assert.Contains(t, out, "Start typing")
	assert.Contains(t, out, "60s")
	assert.Contains(t, out, "WPM")
	assert.Contains(t, out, "tab reset")
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel(t, nil)
	cmd := send(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
