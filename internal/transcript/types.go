package transcript

// Word is one timestamped unit from the transcription service. Start and
// End are seconds from the beginning of the source audio. A word sequence
// is ordered by Start but is not guaranteed gap-free or non-overlapping.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Transcript is the transcription service's full response payload.
type Transcript struct {
	Language string `json:"language"`
	Words    []Word `json:"words"`
}

// Overlaps reports whether the word's span touches [start, end]. A word
// only partially inside the range still counts.
func (w Word) Overlaps(start, end float64) bool {
	return w.End >= start && w.Start <= end
}
