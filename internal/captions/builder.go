package captions

import (
	"strings"

	"github.com/clipfile/clipper/internal/highlight"
	"github.com/clipfile/clipper/internal/transcript"
)

// Event is one on-screen caption line. Offsets are clip-local seconds,
// relative to the window start.
type Event struct {
	Start float64
	End   float64
	Text  string
}

// Build groups the words overlapping the window into caption events of up
// to groupSize words each. Word spans are clipped to the window before
// grouping. A trailing partial group is extended to the full window
// duration so the last caption persists through any trailing silence.
func Build(words []transcript.Word, win highlight.Window, groupSize int) []Event {
	if groupSize <= 0 {
		groupSize = 2
	}

	var (
		out      []Event
		buf      []string
		bufStart float64
	)

	for _, w := range words {
		if !w.Overlaps(win.Start, win.End) {
			continue
		}
		text := strings.TrimSpace(w.Text)
		if text == "" {
			continue
		}

		t0 := max(w.Start, win.Start) - win.Start
		t1 := min(w.End, win.End) - win.Start

		if len(buf) == 0 {
			bufStart = t0
		}
		buf = append(buf, text)

		if len(buf) >= groupSize {
			out = append(out, Event{Start: bufStart, End: t1, Text: strings.Join(buf, " ")})
			buf = nil
		}
	}

	if len(buf) > 0 {
		out = append(out, Event{Start: bufStart, End: win.Duration(), Text: strings.Join(buf, " ")})
	}
	return out
}
