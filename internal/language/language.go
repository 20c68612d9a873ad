package language

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Bibliographic ISO 639-2 codes that BCP 47 parsing does not accept.
var bibliographic = map[string]string{
	"fre": "fr",
	"ger": "de",
	"dut": "nl",
	"chi": "zh",
	"cze": "cs",
	"gre": "el",
	"per": "fa",
	"rum": "ro",
	"slo": "sk",
	"wel": "cy",
}

// English names Whisper accepts in place of codes.
var words = map[string]string{
	"english":    "en",
	"spanish":    "es",
	"french":     "fr",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
	"turkish":    "tr",
	"ukrainian":  "uk",
}

// autoValues select language detection instead of a fixed hint.
var autoValues = map[string]struct{}{
	"":     {},
	"auto": {},
	"und":  {},
}

// ToISO2 converts a language code, BCP 47 tag, or English name to the ISO
// 639-1 code passed to the transcription engine. Returns an empty string for
// unrecognized input. Languages without a two-letter code keep their
// three-letter base (e.g. "haw").
func ToISO2(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return ""
	}
	if mapped, ok := words[code]; ok {
		return mapped
	}
	if mapped, ok := bibliographic[code]; ok {
		return mapped
	}
	tag, err := language.Parse(code)
	if err != nil {
		return ""
	}
	base, confidence := tag.Base()
	if confidence == language.No {
		return ""
	}
	return base.String()
}

// Normalize validates a configured language hint. Auto-detect values map to
// an empty string.
func Normalize(value string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	if _, ok := autoValues[trimmed]; ok {
		return "", nil
	}
	code := ToISO2(trimmed)
	if code == "" {
		return "", fmt.Errorf("unrecognized language %q", value)
	}
	return code, nil
}

// DisplayName returns a human-readable English language name for any
// recognized code. Returns "Auto-detect" for empty input, or the uppercased
// input when unrecognized.
func DisplayName(code string) string {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return "Auto-detect"
	}
	iso := ToISO2(trimmed)
	if iso == "" {
		return strings.ToUpper(trimmed)
	}
	tag, err := language.Parse(iso)
	if err != nil {
		return strings.ToUpper(trimmed)
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(trimmed)
}
