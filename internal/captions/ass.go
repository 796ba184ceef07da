package captions

import (
	"fmt"
	"strings"
)

// Style describes the single ASS style burned into clips. Colours use the
// ASS &HAABBGGRR notation.
type Style struct {
	FontName      string
	FontSize      int
	PrimaryColour string
	OutlineColour string
	OutlineWidth  int
	Alignment     int
	PlayResX      int
	PlayResY      int
}

func DefaultStyle() Style {
	return Style{
		FontName:      "Poppins ExtraBold",
		FontSize:      110,
		PrimaryColour: "&H00FFFF00",
		OutlineColour: "&H00000000",
		OutlineWidth:  6,
		Alignment:     5,
		PlayResX:      1920,
		PlayResY:      1080,
	}
}

// RenderASS serializes caption events into an ASS subtitle document the
// renderer can burn in. Events are written in order with centisecond
// timestamps.
func RenderASS(events []Event, style Style) string {
	var b strings.Builder
	b.WriteString("[Script Info]\n")
	b.WriteString("ScriptType: v4.00+\n")
	fmt.Fprintf(&b, "PlayResX: %d\n", style.PlayResX)
	fmt.Fprintf(&b, "PlayResY: %d\n\n", style.PlayResY)

	b.WriteString("[V4+ Styles]\n")
	b.WriteString("Format: Name, Fontname, Fontsize, PrimaryColour, OutlineColour, Outline, Alignment\n")
	fmt.Fprintf(&b, "Style: Default,%s,%d,%s,%s,%d,%d\n\n",
		style.FontName,
		style.FontSize,
		style.PrimaryColour,
		style.OutlineColour,
		style.OutlineWidth,
		style.Alignment,
	)

	b.WriteString("[Events]\n")
	b.WriteString("Format: Start, End, Style, Text\n")
	for _, ev := range events {
		fmt.Fprintf(&b, "Dialogue: %s,%s,Default,%s\n",
			Timestamp(ev.Start),
			Timestamp(ev.End),
			sanitize(ev.Text),
		)
	}
	return b.String()
}

// Timestamp formats seconds as the ASS H:MM:SS.cc form.
func Timestamp(sec float64) string {
	if sec < 0 {
		sec = 0
	}
	cs := int(sec*100 + 0.5)
	h := cs / 360000
	cs -= h * 360000
	m := cs / 6000
	cs -= m * 6000
	s := cs / 100
	cs -= s * 100
	return fmt.Sprintf("%d:%02d:%02d.%02d", h, m, s, cs)
}

// sanitize strips ASS override syntax out of caption text so transcribed
// punctuation cannot inject style tags.
func sanitize(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "{", "(")
	s = strings.ReplaceAll(s, "}", ")")
	return strings.TrimSpace(s)
}
