package captions

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipfile/clipper/internal/highlight"
	"github.com/clipfile/clipper/internal/transcript"
)

func TestBuild_GroupsWordsAndExtendsFinalEvent(t *testing.T) {
	words := []transcript.Word{
		{Text: "hi", Start: 0.0, End: 0.5},
		{Text: "there", Start: 0.5, End: 1.0},
		{Text: "friend", Start: 1.0, End: 1.6},
	}
	win := highlight.Window{Start: 0, End: 2}

	events := Build(words, win, 2)

	require.Len(t, events, 2)
	assert.Equal(t, Event{Start: 0.0, End: 1.0, Text: "hi there"}, events[0])
	// The trailing partial group holds until the clip ends, not until the
	// word's own end at 1.6.
	assert.Equal(t, Event{Start: 1.0, End: 2.0, Text: "friend"}, events[1])
}

func TestBuild_DiscardsWordsOutsideWindow(t *testing.T) {
	words := []transcript.Word{
		{Text: "before", Start: 1.0, End: 2.0},
		{Text: "inside", Start: 11.0, End: 11.5},
		{Text: "also", Start: 12.0, End: 12.5},
		{Text: "after", Start: 40.0, End: 41.0},
	}
	win := highlight.Window{Start: 10, End: 30}

	events := Build(words, win, 2)

	require.Len(t, events, 1)
	assert.Equal(t, "inside also", events[0].Text)
	assert.InDelta(t, 1.0, events[0].Start, 1e-9)
	assert.InDelta(t, 2.5, events[0].End, 1e-9)
}

func TestBuild_ClipsSpansToWindow(t *testing.T) {
	words := []transcript.Word{
		{Text: "straddles", Start: 9.0, End: 11.0},
		{Text: "tail", Start: 29.5, End: 31.0},
	}
	win := highlight.Window{Start: 10, End: 30}

	events := Build(words, win, 2)

	require.Len(t, events, 1)
	assert.InDelta(t, 0.0, events[0].Start, 1e-9)
	assert.InDelta(t, 20.0, events[0].End, 1e-9)
}

func TestBuild_OffsetsOrderedAndInRange(t *testing.T) {
	var words []transcript.Word
	for i := 0; i < 50; i++ {
		s := float64(i) * 0.7
		words = append(words, transcript.Word{Text: "w", Start: s, End: s + 0.6})
	}
	win := highlight.Window{Start: 5, End: 28}

	events := Build(words, win, 3)
	require.NotEmpty(t, events)

	prev := 0.0
	for _, ev := range events {
		assert.LessOrEqual(t, ev.Start, ev.End)
		assert.GreaterOrEqual(t, ev.Start, 0.0)
		assert.LessOrEqual(t, ev.End, win.Duration())
		assert.GreaterOrEqual(t, ev.Start, prev)
		prev = ev.Start
	}
	assert.InDelta(t, win.Duration(), events[len(events)-1].End, 1e-9)
}

func TestBuild_Idempotent(t *testing.T) {
	words := []transcript.Word{
		{Text: "a", Start: 0, End: 1},
		{Text: "b", Start: 1, End: 2},
		{Text: "c", Start: 2, End: 3},
	}
	win := highlight.Window{Start: 0, End: 5}

	first := Build(words, win, 2)
	second := Build(words, win, 2)
	assert.Equal(t, first, second)
}

func TestBuild_NoOverlappingWordsYieldsNoEvents(t *testing.T) {
	words := []transcript.Word{{Text: "far", Start: 100, End: 101}}
	events := Build(words, highlight.Window{Start: 0, End: 20}, 2)
	assert.Empty(t, events)
}
