// Package engine implements the timed typing session: word queue, input scoring and the countdown.
package engine

import (
	"strings"
	"unicode/utf8"
)

const (
	// DurationSeconds is the fixed length of a session.
	DurationSeconds = 60
	// InitialWords is the size of a freshly generated word queue.
	InitialWords = 200
	// TopUpWords is appended whenever the cursor nears the end of the queue.
	TopUpWords = 50
	// TopUpLookahead is how close the cursor may get to the tail before a top-up.
	TopUpLookahead = 20
)

// WordSource supplies randomly sampled words.
type WordSource interface {
	Generate(count int) []string
}

// State is the lifecycle phase of a session.
type State int

const (
	// Idle waits for the first keystroke.
	Idle State = iota
	// Running counts down and scores input.
	Running
	// Finished has exhausted its time; only Reset leaves it.
	Finished
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Running:
		return "running"
	case Finished:
		return "finished"
	default:
		return "unknown"
	}
}

// InputResult describes what a single input change did to the session.
type InputResult struct {
	Started   bool
	Completed bool
	Correct   bool
	Word      string
	Typed     string
	Grew      bool
	Ignored   bool
}

// Session is the mutable state of one attempt.
type Session struct {
	src   WordSource
	tiers []Tier

	timeRemaining int
	active        bool

	words      []string
	index      int
	input      string
	correct    int
	incorrect  int
	wrong      map[int]struct{}
	typedChars int

	result *Result
}

// New returns an idle session with a freshly generated word queue.
func New(src WordSource, tiers []Tier) *Session {
	if len(tiers) == 0 {
		tiers = DefaultTiers()
	}
	s := &Session{src: src, tiers: tiers}
	s.Reset()
	return s
}

// Reset discards all progress and regenerates the word queue.
func (s *Session) Reset() {
	s.timeRemaining = DurationSeconds
	s.active = false
	s.words = s.src.Generate(InitialWords)
	s.index = 0
	s.input = ""
	s.correct = 0
	s.incorrect = 0
	s.wrong = map[int]struct{}{}
	s.typedChars = 0
	s.result = nil
}

// State reports the current lifecycle phase.
func (s *Session) State() State {
	switch {
	case s.active:
		return Running
	case s.timeRemaining == 0:
		return Finished
	default:
		return Idle
	}
}

// Active reports whether the countdown is running.
func (s *Session) Active() bool { return s.active }

// TimeRemaining returns whole seconds left.
func (s *Session) TimeRemaining() int { return s.timeRemaining }

// Elapsed returns whole seconds since the session started.
func (s *Session) Elapsed() int { return DurationSeconds - s.timeRemaining }

// InputBuffer returns the in-progress text of the current word.
func (s *Session) InputBuffer() string { return s.input }

// WordIndex returns the cursor into the word queue.
func (s *Session) WordIndex() int { return s.index }

// QueueLen returns the number of generated words.
func (s *Session) QueueLen() int { return len(s.words) }

// Word returns the queued word at i, or "" when out of range.
func (s *Session) Word(i int) string {
	if i < 0 || i >= len(s.words) {
		return ""
	}
	return s.words[i]
}

// CorrectWords returns the number of words typed exactly.
func (s *Session) CorrectWords() int { return s.correct }

// IncorrectWords returns the number of mistyped words.
func (s *Session) IncorrectWords() int { return s.incorrect }

// TypedChars returns committed characters including separators.
func (s *Session) TypedChars() int { return s.typedChars }

// Incorrect reports whether the completed word at i was mistyped.
func (s *Session) Incorrect(i int) bool {
	_, ok := s.wrong[i]
	return ok
}

// Input applies the full current value of the text box.
func (s *Session) Input(raw string) InputResult {
	var res InputResult
	if !s.active {
		if s.timeRemaining != DurationSeconds || utf8.RuneCountInString(raw) != 1 {
			res.Ignored = true
			return res
		}
		s.active = true
		res.Started = true
	}

	if !strings.HasSuffix(raw, " ") {
		s.input = raw
		return res
	}

	typed := strings.TrimSpace(raw)
	target := s.words[s.index]
	res.Completed = true
	res.Word = target
	res.Typed = typed
	if typed == target {
		s.correct++
		res.Correct = true
	} else {
		s.incorrect++
		s.wrong[s.index] = struct{}{}
	}
	s.index++
	s.input = ""
	s.typedChars += utf8.RuneCountInString(typed) + 1

	if s.index > len(s.words)-TopUpLookahead {
		s.words = append(s.words, s.src.Generate(TopUpWords)...)
		res.Grew = true
	}
	return res
}

// Tick advances the countdown by one second. It returns true on the tick that ends the session.
func (s *Session) Tick() bool {
	if !s.active || s.timeRemaining <= 0 {
		return false
	}
	s.timeRemaining--
	if s.timeRemaining > 0 {
		return false
	}
	s.active = false
	m := s.Metrics()
	s.result = &Result{
		WPM:            s.correct,
		CPM:            m.CPM,
		CorrectWords:   s.correct,
		IncorrectWords: s.incorrect,
		TypedChars:     s.typedChars,
		Accuracy:       m.Accuracy,
		Tier:           ResolveTier(s.tiers, s.correct),
	}
	return true
}

// Result returns the final summary once the session has finished.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}

// Tiers returns the performance tiers used to rate results.
func (s *Session) Tiers() []Tier {
	out := make([]Tier, len(s.tiers))
	copy(out, s.tiers)
	return out
}
