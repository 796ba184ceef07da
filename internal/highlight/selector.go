package highlight

import (
	"errors"
	"math"
	"strings"

	"github.com/clipfile/clipper/internal/transcript"
)

// ErrSourceTooShort is returned when the media is shorter than the minimum
// clip length, so no valid window exists.
var ErrSourceTooShort = errors.New("source media is shorter than the minimum clip length")

// Window is a contiguous span of the source media, in seconds.
type Window struct {
	Start float64
	End   float64
}

func (w Window) Duration() float64 { return w.End - w.Start }

// Weights are the per-word scoring knobs. The lexical bonuses encode
// product judgment rather than an algorithmic requirement, so they live in
// config instead of constants; zero bonuses disable the heuristic.
type Weights struct {
	WordWeight      float64
	LaughterBonus   float64
	EmphasisBonus   float64
	LaughterMarkers []string
}

type Config struct {
	MinClip      float64
	MaxClip      float64
	DurationStep float64
	StartStep    float64
	Weights      Weights
}

func DefaultConfig() Config {
	return Config{
		MinClip:      20,
		MaxClip:      30,
		DurationStep: 2,
		StartStep:    1,
		Weights: Weights{
			WordWeight:      1.0,
			LaughterBonus:   0.5,
			EmphasisBonus:   0.25,
			LaughterMarkers: []string{"haha", "jaja", "[laughter]", "(laughs)"},
		},
	}
}

// floatSlack absorbs accumulation drift in the duration/start loops so the
// inclusive upper bounds stay inclusive.
const floatSlack = 1e-9

// Select returns the best-scoring window of bounded duration.
//
// Every duration from MinClip to MaxClip (stepped by DurationStep,
// inclusive) is slid across the timeline at StartStep increments. Each
// candidate is scored by the words overlapping it, normalized by
// max(duration, 1). The comparison is strictly greater, so among equal
// scores the shortest, earliest window wins; with no words (or only
// non-positive scores) the fallback is [0, MinClip].
//
// The triple loop is O(durations * starts * words). That is deliberate:
// sources are short-form videos, and the simple form keeps the tie-break
// ordering obvious. A sliding accumulation would need to preserve the
// exact iteration order to be a safe replacement.
func Select(words []transcript.Word, totalDuration float64, cfg Config) (Window, error) {
	cfg = cfg.normalized()

	if totalDuration < cfg.MinClip {
		return Window{}, ErrSourceTooShort
	}

	best := Window{Start: 0, End: cfg.MinClip}
	bestScore := -1.0

	for d := cfg.MinClip; d <= cfg.MaxClip+floatSlack; d += cfg.DurationStep {
		for t := 0.0; t+d <= totalDuration+floatSlack; t += cfg.StartStep {
			s := scoreWindow(words, t, t+d, cfg.Weights)
			if s > bestScore {
				bestScore = s
				best = Window{Start: t, End: t + d}
			}
		}
	}
	return best, nil
}

func scoreWindow(words []transcript.Word, start, end float64, w Weights) float64 {
	score := 0.0
	for _, word := range words {
		if !word.Overlaps(start, end) {
			continue
		}
		score += w.WordWeight
		lower := strings.ToLower(word.Text)
		for _, marker := range w.LaughterMarkers {
			if strings.Contains(lower, marker) {
				score += w.LaughterBonus
				break
			}
		}
		if strings.ContainsAny(word.Text, "!?") {
			score += w.EmphasisBonus
		}
	}
	// The floor of 1.0 is nominal, not real seconds: MinClip keeps windows
	// well above it, it only guards degenerate config.
	return score / math.Max(end-start, 1.0)
}

func (c Config) normalized() Config {
	if c.MinClip <= 0 {
		c.MinClip = 1
	}
	if c.MaxClip < c.MinClip {
		c.MaxClip = c.MinClip
	}
	if c.DurationStep <= 0 {
		c.DurationStep = 2
	}
	if c.StartStep <= 0 {
		c.StartStep = 1
	}
	return c
}
