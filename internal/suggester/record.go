package suggester

import (
	"regexp"
	"strings"
	"unicode"
)

// MaxCandidates is the most replacements kept per token.
const MaxCandidates = 3

// MaxRecords caps how many records one sentence may carry into the
// correction prompt.
const MaxRecords = 32

// Record is one flagged token with its ordered replacement candidates.
type Record struct {
	Token      string
	Candidates []string
}

// String encodes the record back into the `wrong,c1|c2|c3` format.
func (r Record) String() string {
	return r.Token + "," + strings.Join(r.Candidates, "|")
}

var (
	reBullet = regexp.MustCompile(`^(?:[-*•]|\d+[.)])\s+`)

	// Fragments of the correction prompt and of the placeholder syntax. None
	// of them belongs in a suggestion.
	reMarker = regexp.MustCompile("```|`|\\[PH\\d+\\]|ข้อความต้นฉบับ\\s*:|คำแนะนำการแก้ไข\\s*:|ข้อความที่แก้ไขแล้ว\\s*:")
)

// Parse decodes suggestion text tolerantly. Lines without a comma, with an
// empty token or with no candidate are skipped. Candidates are trimmed,
// de-duplicated and capped at MaxCandidates.
func Parse(raw string) []Record {
	var out []Record
	for _, line := range strings.Split(raw, "\n") {
		if r, ok := parseLine(line); ok {
			out = append(out, r)
		}
	}
	return out
}

func parseLine(line string) (Record, bool) {
	line = reBullet.ReplaceAllString(strings.TrimSpace(line), "")
	token, rest, ok := strings.Cut(line, ",")
	if !ok {
		return Record{}, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Record{}, false
	}

	var candidates []string
	seen := make(map[string]bool)
	for _, c := range strings.Split(rest, "|") {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		candidates = append(candidates, c)
		if len(candidates) == MaxCandidates {
			break
		}
	}
	if len(candidates) == 0 {
		return Record{}, false
	}
	return Record{Token: token, Candidates: candidates}, true
}

// Sanitize re-encodes only the well-formed records of raw whose token does
// not touch a protected term, after removing control characters and prompt
// markers. Text with no usable record becomes "".
func Sanitize(raw string, protected []string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		r, ok := parseLine(scrub(line))
		if !ok || touchesProtected(r.Token, protected) {
			continue
		}
		lines = append(lines, r.String())
		if len(lines) == MaxRecords {
			break
		}
	}
	return strings.Join(lines, "\n")
}

func scrub(line string) string {
	line = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, line)
	return reMarker.ReplaceAllString(line, "")
}

func touchesProtected(token string, protected []string) bool {
	for _, p := range protected {
		p = strings.TrimSpace(p)
		if p != "" && strings.Contains(token, p) {
			return true
		}
	}
	return false
}
