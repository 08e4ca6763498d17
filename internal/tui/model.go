// Package tui provides the Bubble Tea typing test.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/minutetype/internal/engine"
	"github.com/verte-zerg/minutetype/internal/model"
)

// Recorder persists finished results.
type Recorder interface {
	InsertResult(ctx context.Context, r model.Result, mistakes []model.Mistake) (string, error)
	BestWPM(ctx context.Context, lang string) (int, error)
}

// Options describes where words come from and whether results are kept.
type Options struct {
	Lang       string
	WordSource string
	Save       bool
}

type tickMsg struct {
	epoch int
}

const lowTimeSeconds = 10

// Model implements the Bubble Tea typing UI.
type Model struct {
	session  *engine.Session
	recorder Recorder
	opts     Options
	now      func() time.Time

	// field mirrors the text box: the raw value handed to the session on every keystroke.
	field []rune

	// epoch tags tick messages; bumping it on reset orphans the previous chain.
	epoch int

	startedAt time.Time
	mistakes  []model.Mistake

	best    int
	newBest bool
	saveErr string

	countdown progress.Model

	width  int
	height int
}

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	cursorStyle      = currentWordStyle.Underline(true)
	doneWordStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3B82F6"))
	missedWordStyle  = incorrectStyle.Strikethrough(true)
	footerStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	hintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	cardStyle        = lipgloss.NewStyle().
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

const (
	timerColor    = "#10B981"
	timerLowColor = "#EF4444"
)

// NewModel constructs a typing TUI model around an idle session.
func NewModel(session *engine.Session, recorder Recorder, opts Options) *Model {
	m := &Model{
		session:   session,
		recorder:  recorder,
		opts:      opts,
		now:       time.Now,
		countdown: progress.New(progress.WithSolidFill(timerColor), progress.WithoutPercentage(), progress.WithWidth(30)),
	}
	m.loadBest()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		return m, m.handleTick(msg)
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyTab:
			m.reset()
			return m, nil
		case tea.KeyEnter:
			if m.session.State() == engine.Finished {
				m.reset()
			}
			return m, nil
		}
		if m.session.State() == engine.Finished {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyBackspace, tea.KeyDelete:
			return m, m.handleBackspace()
		case tea.KeyCtrlU:
			return m, m.setField(nil)
		case tea.KeySpace:
			return m, m.handleRunes([]rune{' '})
		case tea.KeyRunes:
			return m, m.handleRunes(msg.Runes)
		default:
			return m, nil
		}
	default:
		return m, nil
	}
}

func (m *Model) handleBackspace() tea.Cmd {
	if len(m.field) == 0 {
		return nil
	}
	return m.setField(m.field[:len(m.field)-1])
}

// handleRunes delivers one input change per rune, like a text box does per keystroke.
func (m *Model) handleRunes(runes []rune) tea.Cmd {
	var cmds []tea.Cmd
	for _, r := range runes {
		next := make([]rune, len(m.field), len(m.field)+1)
		copy(next, m.field)
		cmds = append(cmds, m.setField(append(next, r)))
	}
	return tea.Batch(cmds...)
}

func (m *Model) setField(value []rune) tea.Cmd {
	index := m.session.WordIndex()
	res := m.session.Input(string(value))
	m.field = []rune(m.session.InputBuffer())
	if res.Completed && !res.Correct {
		m.mistakes = append(m.mistakes, model.Mistake{Position: index, Word: res.Word, Typed: res.Typed})
	}
	if res.Started {
		m.startedAt = m.now()
		slog.Debug("test started", "epoch", m.epoch)
		return tick(m.epoch)
	}
	return nil
}

// handleTick advances the countdown and re-arms the tick only while the same session is running.
func (m *Model) handleTick(msg tickMsg) tea.Cmd {
	if msg.epoch != m.epoch || !m.session.Active() {
		return nil
	}
	if m.session.Tick() {
		m.finish()
		return nil
	}
	return tick(m.epoch)
}

func tick(epoch int) tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return tickMsg{epoch: epoch}
	})
}

func (m *Model) reset() {
	m.session.Reset()
	m.epoch++
	m.field = nil
	m.mistakes = nil
	m.startedAt = time.Time{}
	m.newBest = false
	m.saveErr = ""
}

func (m *Model) loadBest() {
	if m.recorder == nil {
		return
	}
	best, err := m.recorder.BestWPM(context.Background(), m.opts.Lang)
	if err != nil {
		slog.Error("failed to load best wpm", "err", err)
		return
	}
	m.best = best
}

func (m *Model) finish() {
	res, ok := m.session.Result()
	if !ok {
		return
	}
	if res.WPM > m.best {
		m.newBest = true
		m.best = res.WPM
	}
	slog.Info("test finished", "wpm", res.WPM, "cpm", res.CPM, "correct", res.CorrectWords, "mistakes", res.IncorrectWords, "tier", res.Tier.Name)
	if m.recorder == nil || !m.opts.Save {
		return
	}
	record := model.NewResult("", m.startedAt, m.now(), m.opts.Lang, m.opts.WordSource, res)
	id, err := m.recorder.InsertResult(context.Background(), record, m.mistakes)
	if err != nil {
		slog.Error("failed to save result", "err", err)
		m.saveErr = "result not saved"
		return
	}
	slog.Debug("result saved", "id", id)
}

// View implements tea.Model.
func (m *Model) View() string {
	var sections []string
	if m.session.State() == engine.Finished {
		sections = append(sections, m.renderResults())
	} else {
		sections = append(sections, m.renderTimer(), "", m.renderWords(), "", m.renderCards())
	}
	content := lipgloss.JoinVertical(lipgloss.Center, sections...)
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderTimer() string {
	remaining := m.session.TimeRemaining()
	m.countdown.FullColor = timerColor
	if remaining <= lowTimeSeconds {
		m.countdown.FullColor = timerLowColor
	}
	bar := m.countdown.ViewAs(float64(remaining) / engine.DurationSeconds)
	return fmt.Sprintf("%s %2ds", bar, remaining)
}

func (m *Model) renderWords() string {
	styled := buildStyledRunes(engine.Render(m.session.Snapshot()))
	width := 0
	if m.width > 0 {
		width = int(float64(m.width) * 0.70)
		if width < 1 {
			width = 1
		}
	}
	words := wrapStyledRunes(styled, width)
	if m.session.State() == engine.Idle {
		return lipgloss.JoinVertical(lipgloss.Center, hintStyle.Render("Start typing"), "", words)
	}
	return words
}

func (m *Model) renderCards() string {
	metrics := m.session.Metrics()
	return lipgloss.JoinHorizontal(lipgloss.Top,
		metricCard("Correct Words", fmt.Sprintf("%d", m.session.CorrectWords())),
		metricCard("Mistakes", fmt.Sprintf("%d", m.session.IncorrectWords())),
		metricCard("CPM", fmt.Sprintf("%d", metrics.CPM)),
		metricCard("WPM", fmt.Sprintf("%d", metrics.WPM)),
		metricCard("Accuracy", fmt.Sprintf("%d%%", metrics.Accuracy)),
	)
}

func metricCard(label, value string) string {
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Center, cardTitleStyle.Render(label), cardValueStyle.Render(value)))
}

func (m *Model) renderFooter() string {
	segments := []string{}
	if m.best > 0 {
		segments = append(segments, fmt.Sprintf("Best %d WPM", m.best))
	}
	if m.saveErr != "" {
		segments = append(segments, m.saveErr)
	}
	if m.session.State() == engine.Finished {
		segments = append(segments, "enter/tab try again", "ctrl+c quit")
	} else {
		segments = append(segments, "tab reset", "ctrl+c quit")
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}
