package highlight

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipfile/clipper/internal/transcript"
)

func wordsAt(start, step, wordDur float64, n int, text string) []transcript.Word {
	out := make([]transcript.Word, 0, n)
	for i := 0; i < n; i++ {
		s := start + float64(i)*step
		out = append(out, transcript.Word{Text: text, Start: s, End: s + wordDur})
	}
	return out
}

func TestSelect_WindowStaysInsideBounds(t *testing.T) {
	cfg := DefaultConfig()

	cases := []struct {
		name  string
		words []transcript.Word
		total float64
	}{
		{"no words", nil, 45},
		{"sparse", wordsAt(3, 7, 0.4, 12, "word"), 90},
		{"dense", wordsAt(0, 0.3, 0.25, 300, "word"), 120},
		{"exact minimum", wordsAt(1, 1, 0.5, 10, "word"), 20},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			win, err := Select(tc.words, tc.total, cfg)
			require.NoError(t, err)

			assert.GreaterOrEqual(t, win.Duration(), cfg.MinClip)
			assert.LessOrEqual(t, win.Duration(), cfg.MaxClip)
			assert.GreaterOrEqual(t, win.Start, 0.0)
			assert.LessOrEqual(t, win.End, tc.total)
		})
	}
}

func TestSelect_SourceTooShortFails(t *testing.T) {
	_, err := Select(wordsAt(0, 1, 0.5, 10, "word"), 15, DefaultConfig())
	require.ErrorIs(t, err, ErrSourceTooShort)
}

func TestSelect_NoWordsFallsBackToOpening(t *testing.T) {
	win, err := Select(nil, 60, DefaultConfig())
	require.NoError(t, err)
	assert.Equal(t, Window{Start: 0, End: 20}, win)
}

func TestSelect_PicksDensestCluster(t *testing.T) {
	// A thin cluster early, a dense one at 40..50s. The best window is the
	// shortest one fully covering the dense cluster, at its earliest start.
	words := append(
		wordsAt(5, 0.4, 0.3, 10, "word"),
		wordsAt(40, 1.0/3.0, 0.3, 30, "word")...,
	)

	win, err := Select(words, 60, DefaultConfig())
	require.NoError(t, err)
	assert.InDelta(t, 30, win.Start, 1e-6)
	assert.InDelta(t, 50, win.End, 1e-6)
}

func TestSelect_TieBreakPrefersShortestEarliest(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Weights.LaughterBonus = 0
	cfg.Weights.EmphasisBonus = 0

	// Two clusters with identical word counts and spans. With bonuses off
	// their best windows tie, so the earliest window of the shortest
	// duration must win.
	words := append(
		wordsAt(0.5, 0.5, 0.4, 20, "word"),
		wordsAt(40, 0.5, 0.4, 20, "haha!")...,
	)

	win, err := Select(words, 60, cfg)
	require.NoError(t, err)
	assert.InDelta(t, 20, win.Duration(), 1e-6)
	assert.InDelta(t, 0, win.Start, 1e-6)
}

func TestSelect_LexicalBonusesShiftTheWindow(t *testing.T) {
	// Same clusters as the tie-break test, but with default bonuses the
	// laughter-heavy cluster outscores the plain one.
	words := append(
		wordsAt(0.5, 0.5, 0.4, 20, "word"),
		wordsAt(40, 0.5, 0.4, 20, "haha!")...,
	)

	win, err := Select(words, 60, DefaultConfig())
	require.NoError(t, err)
	assert.LessOrEqual(t, win.Start, 40.0)
	assert.GreaterOrEqual(t, win.End, 49.0, "window should cover the boosted cluster")
}

func TestSelect_DeterministicAcrossRuns(t *testing.T) {
	words := wordsAt(2, 1.3, 0.6, 40, "word")
	first, err := Select(words, 80, DefaultConfig())
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		got, err := Select(words, 80, DefaultConfig())
		require.NoError(t, err)
		assert.Equal(t, first, got, fmt.Sprintf("run %d diverged", i))
	}
}
