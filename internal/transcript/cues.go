package transcript

import "strings"

// cue is one rendered caption block.
type cue struct {
	start float64
	end   float64
	text  string
}

// cueStyle holds the per-format markup: the tags wrapping the active word in
// word-level cues and the escaping applied to spoken text.
type cueStyle struct {
	open   string
	close  string
	escape func(string) string
}

var vttEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;")

var (
	srtStyle = cueStyle{open: `<font color="#00ff00">`, close: "</font>", escape: func(s string) string { return s }}
	vttStyle = cueStyle{open: "<u>", close: "</u>", escape: vttEscaper.Replace}
)

// ExportOptions controls cue shaping for SRT and VTT exports.
type ExportOptions struct {
	// WordHighlight emits one cue per word, repeating the segment text with the
	// active word wrapped in highlight tags. Segments without word timings fall
	// back to a single cue.
	WordHighlight bool
}

func (t *Transcript) cues(opts ExportOptions, style cueStyle) []cue {
	out := make([]cue, 0, len(t.Segments))
	for _, seg := range t.Segments {
		text := style.escape(cleanCueText(seg.Text))
		if text == "" {
			continue
		}
		if !opts.WordHighlight || len(seg.Words) == 0 {
			out = append(out, cue{start: seg.Start, end: seg.End, text: text})
			continue
		}
		out = append(out, wordCues(seg, style)...)
	}
	return out
}

func wordCues(seg Segment, style cueStyle) []cue {
	plain := make([]string, len(seg.Words))
	for i, w := range seg.Words {
		plain[i] = style.escape(cleanCueText(w.Text))
	}
	line := strings.Join(plain, " ")
	cues := make([]cue, 0, len(seg.Words)*2)
	for i, w := range seg.Words {
		if i > 0 && w.Start > seg.Words[i-1].End {
			cues = append(cues, cue{start: seg.Words[i-1].End, end: w.Start, text: line})
		}
		parts := make([]string, len(plain))
		copy(parts, plain)
		parts[i] = style.open + plain[i] + style.close
		cues = append(cues, cue{start: w.Start, end: w.End, text: strings.Join(parts, " ")})
	}
	return cues
}

// cleanCueText flattens the text to one line and neutralizes the timing
// arrow. A blank line or an arrow would end the cue early in SRT and VTT
// parsers.
func cleanCueText(text string) string {
	lines := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	kept := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			kept = append(kept, l)
		}
	}
	return strings.ReplaceAll(strings.Join(kept, " "), "-->", "->")
}
