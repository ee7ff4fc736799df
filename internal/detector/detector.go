// Package detector guesses the language of a passage so the splitter and the
// language guard can pick the right rules.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// SplitterLanguages are the languages with a dedicated splitter profile.
// Building a detector for a handful of languages is far cheaper than for all
// of them.
var SplitterLanguages = []lingua.Language{
	lingua.Thai,
	lingua.English,
	lingua.Chinese,
	lingua.Japanese,
	lingua.Hindi,
	lingua.Arabic,
	lingua.Persian,
	lingua.Urdu,
	lingua.Armenian,
}

// Detector is safe for concurrent use once built.
type Detector struct {
	detector lingua.LanguageDetector
}

// New builds a detector for the given languages, or for every language lingua
// knows when none are given.
func New(languages ...lingua.Language) *Detector {
	builder := lingua.NewLanguageDetectorBuilder()
	var b lingua.LanguageDetectorBuilder
	if len(languages) < 2 {
		b = builder.FromAllLanguages()
	} else {
		b = builder.FromLanguages(languages...)
	}
	return &Detector{detector: b.Build()}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectISO returns the lower-case ISO 639-1 code, e.g. "th".
func (d *Detector) DetectISO(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	return strings.ToLower(lang.IsoCode639_1().String()), true
}
