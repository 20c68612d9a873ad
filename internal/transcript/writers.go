package transcript

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// WriteSRT renders numbered SubRip cues.
func (t *Transcript) WriteSRT(w io.Writer, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	for i, c := range t.cues(opts, srtStyle) {
		fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n", i+1, formatTimestamp(c.start, ','), formatTimestamp(c.end, ','), c.text)
	}
	return bw.Flush()
}

// WriteVTT renders a WebVTT document.
func (t *Transcript) WriteVTT(w io.Writer, opts ExportOptions) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("WEBVTT\n\n")
	for _, c := range t.cues(opts, vttStyle) {
		fmt.Fprintf(bw, "%s --> %s\n%s\n\n", formatTimestamp(c.start, '.'), formatTimestamp(c.end, '.'), c.text)
	}
	return bw.Flush()
}

// WriteTSV renders one row per segment: start and end in integer
// milliseconds, then the text with tabs flattened to spaces.
func (t *Transcript) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("start\tend\ttext\n")
	for _, seg := range t.Segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		text = strings.ReplaceAll(text, "\t", " ")
		text = strings.ReplaceAll(text, "\n", " ")
		fmt.Fprintf(bw, "%d\t%d\t%s\n", millis(seg.Start), millis(seg.End), text)
	}
	return bw.Flush()
}
