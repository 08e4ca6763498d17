package engine

const (
	windowBefore = 2
	windowAfter  = 5
)

// WordStatus places a word relative to the cursor.
type WordStatus int

const (
	Completed WordStatus = iota
	Current
	Upcoming
)

// CharState flags one character of the current word.
type CharState int

const (
	CharPending CharState = iota
	CharCaret
	CharCorrect
	CharIncorrect
)

// CharView is one rendered character of the current word.
type CharView struct {
	Rune  rune
	State CharState
}

// WordView is one rendered word.
type WordView struct {
	Index     int
	Text      string
	Status    WordStatus
	Incorrect bool
	Chars     []CharView
}

// Snapshot is the renderer's read-only view of a session.
// Words holds the visible window, starting at queue position Offset.
type Snapshot struct {
	Offset    int
	Words     []string
	Index     int
	Input     string
	Incorrect map[int]struct{}
}

// Snapshot copies the window of state the renderer needs.
func (s *Session) Snapshot() Snapshot {
	start, end := window(s.index, len(s.words))
	words := make([]string, end-start)
	copy(words, s.words[start:end])
	wrong := map[int]struct{}{}
	for i := start; i < s.index; i++ {
		if _, ok := s.wrong[i]; ok {
			wrong[i] = struct{}{}
		}
	}
	return Snapshot{Offset: start, Words: words, Index: s.index, Input: s.input, Incorrect: wrong}
}

// Render produces highlight state for every word in the snapshot.
func Render(snap Snapshot) []WordView {
	out := make([]WordView, 0, len(snap.Words))
	typed := []rune(snap.Input)
	for j, word := range snap.Words {
		i := snap.Offset + j
		view := WordView{Index: i, Text: word}
		switch {
		case i < snap.Index:
			view.Status = Completed
			_, view.Incorrect = snap.Incorrect[i]
		case i == snap.Index:
			view.Status = Current
			view.Chars = renderChars([]rune(word), typed)
		default:
			view.Status = Upcoming
		}
		out = append(out, view)
	}
	return out
}

func renderChars(target, typed []rune) []CharView {
	chars := make([]CharView, len(target))
	for i, r := range target {
		state := CharPending
		switch {
		case i < len(typed) && typed[i] == r:
			state = CharCorrect
		case i < len(typed):
			state = CharIncorrect
		case i == len(typed):
			state = CharCaret
		}
		chars[i] = CharView{Rune: r, State: state}
	}
	return chars
}

func window(index, n int) (int, int) {
	start := index - windowBefore
	if start < 0 {
		start = 0
	}
	end := index + windowAfter
	if end > n {
		end = n
	}
	if start > end {
		start = end
	}
	return start, end
}
