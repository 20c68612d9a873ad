package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"strings"
)

// Word is a single word with timing, present when the engine produced
// word-level timestamps.
type Word struct {
	Text  string  `json:"word"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`

	// untimed marks a word decoded without start or end. WhisperX omits both
	// for tokens it cannot align, numerals mostly.
	untimed bool
}

// UnmarshalJSON keeps a missing start or end distinguishable from zero.
func (w *Word) UnmarshalJSON(data []byte) error {
	var raw struct {
		Text  string   `json:"word"`
		Start *float64 `json:"start"`
		End   *float64 `json:"end"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*w = Word{Text: raw.Text, untimed: raw.Start == nil || raw.End == nil}
	if raw.Start != nil {
		w.Start = *raw.Start
	}
	if raw.End != nil {
		w.End = *raw.End
	}
	return nil
}

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words,omitempty"`
}

// Transcript is the full transcription result for one media file.
type Transcript struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

// Parse decodes engine JSON output. Whisper, stable-ts, and WhisperX all emit
// a top-level "segments" array with start, end, and text fields.
func Parse(data []byte) (*Transcript, error) {
	var payload struct {
		Language *string   `json:"language"`
		Segments []Segment `json:"segments"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse transcript json: %w", err)
	}
	if payload.Segments == nil {
		return nil, errors.New("parse transcript json: missing segments array")
	}
	t := &Transcript{Segments: payload.Segments}
	if payload.Language != nil {
		t.Language = strings.TrimSpace(*payload.Language)
	}
	t.normalize()
	return t, nil
}

// Load reads and parses a transcript JSON file.
func Load(path string) (*Transcript, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Marshal encodes the transcript in the same JSON shape Parse accepts.
func (t *Transcript) Marshal() ([]byte, error) {
	return json.Marshal(t)
}

// Duration returns the end time of the last segment in seconds.
func (t *Transcript) Duration() float64 {
	var end float64
	for _, seg := range t.Segments {
		end = math.Max(end, seg.End)
	}
	return end
}

// WordCount returns the number of timed words across all segments.
func (t *Transcript) WordCount() int {
	count := 0
	for _, seg := range t.Segments {
		count += len(seg.Words)
	}
	return count
}

// normalize clamps negative or inverted timings and places untimed words
// between their timed neighbours. Engines occasionally emit words whose end
// precedes their start near silence boundaries.
func (t *Transcript) normalize() {
	for i := range t.Segments {
		seg := &t.Segments[i]
		seg.Start = math.Max(seg.Start, 0)
		seg.End = math.Max(seg.End, seg.Start)
		words := seg.Words[:0]
		for _, w := range seg.Words {
			if strings.TrimSpace(w.Text) == "" {
				continue
			}
			if !w.untimed {
				w.Start = math.Max(w.Start, 0)
				w.End = math.Max(w.End, w.Start)
			}
			words = append(words, w)
		}
		seg.Words = words
		fillUntimed(seg)
	}
}

// fillUntimed spreads each run of untimed words evenly over the span between
// the previous timed word's end (or the segment start) and the next timed
// word's start (or the segment end).
func fillUntimed(seg *Segment) {
	words := seg.Words
	for i := 0; i < len(words); {
		if !words[i].untimed {
			i++
			continue
		}
		j := i
		for j < len(words) && words[j].untimed {
			j++
		}
		lo := seg.Start
		if i > 0 {
			lo = words[i-1].End
		}
		hi := seg.End
		if j < len(words) {
			hi = words[j].Start
		}
		hi = math.Max(hi, lo)
		step := (hi - lo) / float64(j-i)
		for k := i; k < j; k++ {
			words[k].Start = lo + step*float64(k-i)
			words[k].End = lo + step*float64(k-i+1)
			words[k].untimed = false
		}
		i = j
	}
}
