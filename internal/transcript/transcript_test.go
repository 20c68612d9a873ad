package transcript

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const whisperJSON = `{
  "text": " Hello world. Second line.",
  "language": "en",
  "segments": [
    {"id": 0, "start": 0.0, "end": 2.5, "text": " Hello world.",
     "words": [{"word": " Hello", "start": 0.0, "end": 0.8, "probability": 0.9},
               {"word": " world.", "start": 1.0, "end": 2.5, "probability": 0.8}]},
    {"id": 1, "start": 3661.0016, "end": 3662.25, "text": " Second\tline."}
  ]
}`

func mustParse(t *testing.T, data string) *Transcript {
	t.Helper()
	tr, err := Parse([]byte(data))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tr
}

func TestParseWhisperJSON(t *testing.T) {
	tr := mustParse(t, whisperJSON)
	if tr.Language != "en" {
		t.Fatalf("unexpected language: %q", tr.Language)
	}
	if len(tr.Segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(tr.Segments))
	}
	if tr.WordCount() != 2 {
		t.Fatalf("expected 2 words, got %d", tr.WordCount())
	}
	if tr.Segments[0].Text != " Hello world." || tr.Segments[1].Text != " Second\tline." {
		t.Fatalf("unexpected segment text: %+v", tr.Segments)
	}
	if tr.Duration() != 3662.25 {
		t.Fatalf("unexpected duration: %v", tr.Duration())
	}
}

func TestParseRejectsMissingSegments(t *testing.T) {
	for _, input := range []string{`{"text": "x"}`, `not json`} {
		if _, err := Parse([]byte(input)); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
	tr := mustParse(t, `{"segments": []}`)
	if len(tr.Segments) != 0 {
		t.Fatalf("expected empty transcript")
	}
}

func TestParseClampsInvertedTimings(t *testing.T) {
	tr := mustParse(t, `{"segments":[{"start":-1,"end":-2,"text":"x","words":[{"word":" ","start":0,"end":1},{"word":"x","start":0.5,"end":0.2}]}]}`)
	seg := tr.Segments[0]
	if seg.Start != 0 || seg.End != 0 {
		t.Fatalf("unexpected segment timing: %+v", seg)
	}
	if len(seg.Words) != 1 || seg.Words[0].End != 0.5 {
		t.Fatalf("unexpected words: %+v", seg.Words)
	}
}

func TestFormatTimestamp(t *testing.T) {
	tests := []struct {
		seconds float64
		sep     byte
		want    string
	}{
		{0, ',', "00:00:00,000"},
		{2.5, ',', "00:00:02,500"},
		{3661.0016, '.', "01:01:01.002"},
		{59.9999, ',', "00:01:00,000"},
		{-3, '.', "00:00:00.000"},
	}
	for _, tt := range tests {
		if got := formatTimestamp(tt.seconds, tt.sep); got != tt.want {
			t.Errorf("formatTimestamp(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestWriteSRT(t *testing.T) {
	tr := mustParse(t, whisperJSON)
	var buf bytes.Buffer
	if err := tr.WriteSRT(&buf, ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	want := "1\n00:00:00,000 --> 00:00:02,500\nHello world.\n\n" +
		"2\n01:01:01,002 --> 01:01:02,250\nSecond\tline.\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected SRT:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteVTT(t *testing.T) {
	tr := mustParse(t, `{"segments":[{"start":1,"end":2,"text":" a --> b "},{"start":2,"end":3,"text":"   "}]}`)
	var buf bytes.Buffer
	if err := tr.WriteVTT(&buf, ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	want := "WEBVTT\n\n00:00:01.000 --> 00:00:02.000\na -> b\n\n"
	if buf.String() != want {
		t.Fatalf("unexpected VTT:\n%q", buf.String())
	}
}

func TestWriteTSV(t *testing.T) {
	tr := mustParse(t, whisperJSON)
	var buf bytes.Buffer
	if err := tr.WriteTSV(&buf); err != nil {
		t.Fatal(err)
	}
	want := "start\tend\ttext\n0\t2500\tHello world.\n3661002\t3662250\tSecond line.\n"
	if buf.String() != want {
		t.Fatalf("unexpected TSV:\n%q", buf.String())
	}
}

func TestWordHighlightCues(t *testing.T) {
	tr := mustParse(t, whisperJSON)

	var vtt bytes.Buffer
	if err := tr.WriteVTT(&vtt, ExportOptions{WordHighlight: true}); err != nil {
		t.Fatal(err)
	}
	out := vtt.String()
	for _, want := range []string{
		"00:00:00.000 --> 00:00:00.800\n<u>Hello</u> world.\n",
		"00:00:00.800 --> 00:00:01.000\nHello world.\n",
		"00:00:01.000 --> 00:00:02.500\nHello <u>world.</u>\n",
		"01:01:01.002 --> 01:01:02.250\nSecond\tline.\n",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("VTT missing cue %q in:\n%s", want, out)
		}
	}

	var srt bytes.Buffer
	if err := tr.WriteSRT(&srt, ExportOptions{WordHighlight: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(srt.String(), "4\n01:01:01,002") {
		t.Fatalf("expected four numbered cues:\n%s", srt.String())
	}
	if !strings.Contains(srt.String(), `<font color="#00ff00">Hello</font> world.`) {
		t.Fatalf("expected SRT highlight tags:\n%s", srt.String())
	}
}

func TestSaveRoundTripsThroughFiles(t *testing.T) {
	tr := mustParse(t, whisperJSON)
	dir := t.TempDir()

	if err := tr.SaveSRT(filepath.Join(dir, "video.srt"), ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := tr.SaveVTT(filepath.Join(dir, "video.vtt"), ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	if err := tr.SaveTSV(filepath.Join(dir, "video.tsv")); err != nil {
		t.Fatal(err)
	}
	vtt, err := os.ReadFile(filepath.Join(dir, "video.vtt"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(vtt), "WEBVTT\n") {
		t.Fatalf("unexpected vtt header: %q", vtt)
	}

	data, err := tr.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	back, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if len(back.Segments) != len(tr.Segments) || back.Segments[1].Text != tr.Segments[1].Text || back.WordCount() != tr.WordCount() {
		t.Fatalf("marshal round trip lost data: %+v", back)
	}
}

func TestSaveFailsWhenTargetIsDirectory(t *testing.T) {
	tr := mustParse(t, whisperJSON)
	target := filepath.Join(t.TempDir(), "video.vtt")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := tr.SaveVTT(target, ExportOptions{}); err == nil {
		t.Fatal("expected error when target is a directory")
	}
}

const unalignedJSON = `{"segments":[{"start":10.0,"end":11.5,"text":" Call 911 now",
  "words":[{"word":" Call","start":10.0,"end":10.5,"score":0.9},
           {"word":" 911","score":0.1},
           {"word":" now","start":11.0,"end":11.5,"score":0.8}]}]}`

func TestParsePlacesUnalignedWordsBetweenNeighbours(t *testing.T) {
	tr := mustParse(t, unalignedJSON)
	words := tr.Segments[0].Words
	if len(words) != 3 {
		t.Fatalf("expected 3 words, got %+v", words)
	}
	if words[1].Start != 10.5 || words[1].End != 11.0 {
		t.Fatalf("expected 911 to span 10.5-11.0, got %+v", words[1])
	}
}

func TestParseSpreadsRunsOfUnalignedWords(t *testing.T) {
	tr := mustParse(t, `{"segments":[{"start":2,"end":4,"text":"1 2 3","words":[{"word":"1"},{"word":"2"},{"word":"3","start":3,"end":4}]}]}`)
	words := tr.Segments[0].Words
	if words[0].Start != 2 || words[0].End != 2.5 || words[1].Start != 2.5 || words[1].End != 3 {
		t.Fatalf("unexpected spread: %+v", words)
	}
}

func TestWordHighlightWithUnalignedWord(t *testing.T) {
	tr := mustParse(t, unalignedJSON)
	var buf bytes.Buffer
	if err := tr.WriteSRT(&buf, ExportOptions{WordHighlight: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "00:00:00,000") {
		t.Fatalf("unaligned word produced a zero timestamp:\n%s", out)
	}
	want := "1\n00:00:10,000 --> 00:00:10,500\n<font color=\"#00ff00\">Call</font> 911 now\n\n" +
		"2\n00:00:10,500 --> 00:00:11,000\nCall <font color=\"#00ff00\">911</font> now\n\n" +
		"3\n00:00:11,000 --> 00:00:11,500\nCall 911 <font color=\"#00ff00\">now</font>\n\n"
	if out != want {
		t.Fatalf("unexpected SRT:\n%q\nwant\n%q", out, want)
	}
}

func TestCueTextIsSingleLineAndEscapedForVTT(t *testing.T) {
	tr := mustParse(t, `{"segments":[{"start":0,"end":1,"text":"Tom & Jerry\n\n<3 cheese\r\n"}]}`)

	var vtt bytes.Buffer
	if err := tr.WriteVTT(&vtt, ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	if want := "WEBVTT\n\n00:00:00.000 --> 00:00:01.000\nTom &amp; Jerry &lt;3 cheese\n\n"; vtt.String() != want {
		t.Fatalf("unexpected VTT:\n%q\nwant\n%q", vtt.String(), want)
	}

	var srt bytes.Buffer
	if err := tr.WriteSRT(&srt, ExportOptions{}); err != nil {
		t.Fatal(err)
	}
	if want := "1\n00:00:00,000 --> 00:00:01,000\nTom & Jerry <3 cheese\n\n"; srt.String() != want {
		t.Fatalf("unexpected SRT:\n%q\nwant\n%q", srt.String(), want)
	}
}

func TestVTTWordHighlightEscapesWords(t *testing.T) {
	tr := mustParse(t, `{"segments":[{"start":0,"end":2,"text":"A&B","words":[{"word":"A&B","start":0,"end":1},{"word":"<x>","start":1,"end":2}]}]}`)
	var buf bytes.Buffer
	if err := tr.WriteVTT(&buf, ExportOptions{WordHighlight: true}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "<u>A&amp;B</u> &lt;x>") {
		t.Fatalf("expected escaped words around highlight tags:\n%s", buf.String())
	}
}
