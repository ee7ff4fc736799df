// Package postprocess removes common LLM artifacts from model replies before
// the proofreading stages interpret them.
package postprocess

import (
	"regexp"
	"strings"
)

// Clean strips reasoning blocks, a surrounding code fence, a leading answer
// label ("Corrected sentence:", "ข้อความที่แก้ไขแล้ว:") and a matching pair of
// wrapping quotes, then trims the result.
func Clean(text string) string {
	return stripQuotes(stripArtifacts(text))
}

// CleanAgainst is Clean for a rewrite of original. A wrapping quote pair is
// kept when original is wrapped in the same pair.
func CleanAgainst(text, original string) string {
	text = stripArtifacts(text)
	if open, close, ok := wrappingQuotes(strings.TrimSpace(original)); ok {
		if o, c, ok := wrappingQuotes(text); ok && o == open && c == close {
			return text
		}
	}
	return stripQuotes(text)
}

func stripArtifacts(text string) string {
	text = StripReasoning(text)
	text = StripCodeFence(text)
	text = stripAnswerLabel(text)
	return strings.TrimSpace(text)
}

// RE2 has no backreferences, so each tag pair is spelled out.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<thinking>.*?</thinking>|<think>.*?</think>|<reasoning>.*?</reasoning>|<reflection>.*?</reflection>`,
)

// An opened tag without its closing tag means the model was cut off.
var truncatedReasoningRe = regexp.MustCompile(
	`(?is)(?:<thinking>|<think>|<reasoning>|<reflection>).*$`,
)

// StripReasoning removes <think>-style blocks, including a truncated one.
func StripReasoning(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = truncatedReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

// StripCodeFence removes a ```lang ... ``` wrapper around the whole reply.
func StripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	if idx := strings.Index(text, "\n"); idx >= 0 {
		text = text[idx+1:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	if idx := strings.LastIndex(text, "```"); idx >= 0 {
		text = text[:idx]
	}
	return strings.TrimSpace(text)
}

// Labels are anchored at the start and must end with a colon.
var answerLabels = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(?:here(?:'s| is)(?: the)? )?(?:corrected|fixed|revised) (?:sentence|text)\s*:`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course)[,.]? here(?:'s| is)(?: the)? (?:corrected |fixed )?(?:sentence|text)\s*:`),
	regexp.MustCompile(`^(?:ข้อความ|ประโยค)ที่แก้ไขแล้ว\s*:`),
}

func stripAnswerLabel(text string) string {
	for _, re := range answerLabels {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			text = strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

var quotePairs = map[rune]rune{
	'"': '"',
	'\'': '\'',
	'«': '»',
	'“': '”',
	'‘': '’',
}

// wrappingQuotes reports the quote pair text starts and ends with.
func wrappingQuotes(text string) (rune, rune, bool) {
	runes := []rune(text)
	n := len(runes)
	if n < 2 {
		return 0, 0, false
	}
	first, last := runes[0], runes[n-1]
	if close, ok := quotePairs[first]; ok && close == last {
		return first, last, true
	}
	return 0, 0, false
}

func stripQuotes(text string) string {
	if _, _, ok := wrappingQuotes(text); !ok {
		return strings.TrimSpace(text)
	}
	runes := []rune(text)
	return strings.TrimSpace(string(runes[1 : len(runes)-1]))
}

// JSONArray prepares a reply for strict JSON-array decoding: reasoning blocks
// and a code fence are removed. It never invents brackets, so prose without an
// array still fails to decode downstream.
func JSONArray(text string) string {
	return StripCodeFence(StripReasoning(text))
}
