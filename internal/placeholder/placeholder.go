// Package placeholder shields protected terms during correction by replacing
// them with numbered markers ([PH0], [PH1], …) that the model is told to keep.
// After correction, Restore substitutes the terms back.
package placeholder

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// placeholder reference in corrected text
var rePlaceholder = regexp.MustCompile(`\[PH(\d+)\]`)

// Protect replaces every occurrence of a protected term with a numbered
// placeholder in the order they appear in text. Longer terms win over terms
// they contain. It returns the modified text and the captured originals so
// Restore can put them back.
func Protect(text string, terms []string) (string, []string) {
	re := termPattern(terms)
	if re == nil {
		return text, nil
	}

	var markers []string
	text = re.ReplaceAllStringFunc(text, func(match string) string {
		id := fmt.Sprintf("[PH%d]", len(markers))
		markers = append(markers, match)
		return id
	})
	return text, markers
}

func termPattern(terms []string) *regexp.Regexp {
	quoted := make([]string, 0, len(terms))
	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		quoted = append(quoted, t)
	}
	if len(quoted) == 0 {
		return nil
	}
	// Alternation is leftmost-first, so the longest term must come first.
	sort.SliceStable(quoted, func(i, j int) bool { return len(quoted[i]) > len(quoted[j]) })
	for i, t := range quoted {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(strings.Join(quoted, "|"))
}

// Restore substitutes [PHn] markers in text back with the originals captured
// by Protect. Unrecognised indices leave the placeholder as-is.
func Restore(text string, markers []string) string {
	if len(markers) == 0 {
		return text
	}
	return rePlaceholder.ReplaceAllStringFunc(text, func(match string) string {
		sub := rePlaceholder.FindStringSubmatch(match)
		idx, err := strconv.Atoi(sub[1])
		if err != nil || idx >= len(markers) {
			return match
		}
		return markers[idx]
	})
}

// InstructionHint is appended to the correction prompt so the model leaves
// the placeholders intact.
func InstructionHint() string {
	return "ห้ามแก้ไข ย้าย หรือลบเครื่องหมาย [PHn] ให้คงไว้ตามเดิมทุกตัว"
}

// Validate returns the indices of markers missing from the corrected text.
func Validate(text string, markers []string) []int {
	var missing []int
	for i := range markers {
		if !strings.Contains(text, fmt.Sprintf("[PH%d]", i)) {
			missing = append(missing, i)
		}
	}
	return missing
}
