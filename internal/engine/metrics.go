package engine

import "math"

// Metrics are the live speed figures derived from session counters.
type Metrics struct {
	WPM      int
	CPM      int
	Accuracy int
}

// Result summarises a finished session.
type Result struct {
	WPM            int
	CPM            int
	CorrectWords   int
	IncorrectWords int
	TypedChars     int
	Accuracy       int
	Tier           Tier
}

// Metrics computes speed and accuracy from the current counters.
func (s *Session) Metrics() Metrics {
	wpm, cpm := Speed(s.correct, s.typedChars, s.Elapsed())
	return Metrics{
		WPM:      wpm,
		CPM:      cpm,
		Accuracy: Accuracy(s.correct, s.incorrect),
	}
}

// Speed returns words and characters per minute after elapsedSeconds.
// Both are zero before the first second has elapsed.
func Speed(correctWords, typedChars, elapsedSeconds int) (wpm, cpm int) {
	minutes := float64(elapsedSeconds) / 60
	if minutes <= 0 {
		return 0, 0
	}
	cpm = int(math.Round(float64(typedChars) / minutes))
	wpm = int(math.Round(float64(correctWords) / minutes))
	return wpm, cpm
}

// Accuracy returns the percentage of completed words typed correctly, or 0 when none were completed.
func Accuracy(correct, incorrect int) int {
	total := correct + incorrect
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}
