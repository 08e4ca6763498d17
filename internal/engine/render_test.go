package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderWindowAtStart(t *testing.T) {
	s, _ := newTestSession()
	views := Render(s.Snapshot())
	require.Len(t, views, windowAfter)
	assert.Equal(t, Current, views[0].Status)
	assert.Equal(t, Upcoming, views[1].Status)
	assert.Equal(t, CharCaret, views[0].Chars[0].State)
}

func TestRenderCurrentWordChars(t *testing.T) {
	s, _ := newTestSession("the", "quick", "fox")
	s.Input("t")
	s.Input("tx")
	views := Render(s.Snapshot())
	chars := views[0].Chars
	require.Len(t, chars, 3)
	assert.Equal(t, CharCorrect, chars[0].State)
	assert.Equal(t, CharIncorrect, chars[1].State)
	assert.Equal(t, CharCaret, chars[2].State)
}

func TestRenderCompletedWords(t *testing.T) {
	s, _ := newTestSession("a", "b", "c", "d")
	typeWord(s, "a")
	typeWord(s, "x")
	typeWord(s, "c")
	views := Render(s.Snapshot())
	require.Equal(t, 1, views[0].Index)
	assert.Equal(t, Completed, views[0].Status)
	assert.True(t, views[0].Incorrect)
	assert.Equal(t, Completed, views[1].Status)
	assert.False(t, views[1].Incorrect)
	assert.Equal(t, Current, views[2].Status)
	assert.Equal(t, 3, views[2].Index)
	assert.Len(t, views, windowBefore+windowAfter)
}

func TestRenderIsPure(t *testing.T) {
	s, _ := newTestSession("hello")
	s.Input("h")
	snap := s.Snapshot()
	assert.Equal(t, Render(snap), Render(snap))
}

func TestRenderOverlongInputLeavesNoCaret(t *testing.T) {
	views := Render(Snapshot{Words: []string{"ab"}, Input: "abc"})
	require.Len(t, views[0].Chars, 2)
	assert.Equal(t, CharCorrect, views[0].Chars[1].State)
}
