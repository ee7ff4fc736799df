// Package splitter is the rule-based sentence boundary detector used when the
// language service cannot segment a passage. It needs no network and never
// fails.
package splitter

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
)

// ReferenceLanguage is the profile used when nothing else is configured.
const ReferenceLanguage = "th"

// LatinTerminals is the terminal set for languages without a profile.
const LatinTerminals = ".!?"

// profiles maps an ISO 639-1 base language to its sentence-terminal marks.
var profiles = map[string]string{
	"th": LatinTerminals + "ฯ",
	"en": LatinTerminals,
	"zh": LatinTerminals + "。！？",
	"ja": LatinTerminals + "。！？",
	"hi": LatinTerminals + "।॥",
	"ar": LatinTerminals + "؟",
	"fa": LatinTerminals + "؟",
	"ur": LatinTerminals + "؟۔",
	"hy": LatinTerminals + "։",
	"my": LatinTerminals + "။",
}

// Terminals returns the terminal marks for lang. Region and script subtags
// are ignored ("th-TH" is "th"); unknown or unparsable codes get
// LatinTerminals.
func Terminals(lang string) string {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return LatinTerminals
	}
	base, _ := tag.Base()
	if t, ok := profiles[base.String()]; ok {
		return t
	}
	return LatinTerminals
}

// Splitter splits on whitespace that directly follows a terminal mark.
type Splitter struct {
	terminals map[rune]bool
}

// New builds a Splitter for an explicit terminal set. An empty set falls back
// to the reference profile.
func New(terminals string) *Splitter {
	if terminals == "" {
		terminals = profiles[ReferenceLanguage]
	}
	set := make(map[rune]bool, len(terminals))
	for _, r := range terminals {
		if !unicode.IsSpace(r) {
			set[r] = true
		}
	}
	return &Splitter{terminals: set}
}

// ForLanguage builds a Splitter from the built-in profile of lang.
func ForLanguage(lang string) *Splitter {
	return New(Terminals(lang))
}

// Split returns the trimmed, non-empty sentences of text in order. When no
// punctuation boundary is found the text is split on line breaks instead.
func (s *Splitter) Split(text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	sentences := s.splitOnTerminals(text)
	if len(sentences) == 1 {
		return splitLines(text)
	}
	return sentences
}

func (s *Splitter) splitOnTerminals(text string) []string {
	var out []string
	runes := []rune(text)
	start := 0

	for i := 1; i < len(runes); i++ {
		if !unicode.IsSpace(runes[i]) || !s.terminals[runes[i-1]] {
			continue
		}
		out = appendTrimmed(out, string(runes[start:i]))
		// Swallow the whole whitespace run.
		j := i
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j
	}
	if start < len(runes) {
		out = appendTrimmed(out, string(runes[start:]))
	}
	return out
}

func splitLines(text string) []string {
	lines := strings.FieldsFunc(text, isLineBreak)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		out = appendTrimmed(out, line)
	}
	return out
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}
