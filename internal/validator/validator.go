// Package validator guards against corrections that come back in a different
// language than the sentence that was sent.
package validator

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// minValidationLength is the minimum rune count required to attempt language detection.
// Shorter texts produce unreliable results and are accepted without validation.
const minValidationLength = 20

// Detector reports the ISO 639-1 code of a text.
type Detector interface {
	DetectISO(text string) (string, bool)
}

// Validator compares the language of an original sentence with its correction.
// The underlying detector is expensive to build; reuse the instance.
type Validator struct {
	det Detector
}

func New(det Detector) *Validator {
	return &Validator{det: det}
}

// SameLanguage reports whether corrected is written in the language of
// original. Short texts and texts whose language cannot be determined pass.
// A mismatch returns an error naming both codes.
func (v *Validator) SameLanguage(original, corrected string) (bool, error) {
	corrected = strings.TrimSpace(corrected)
	if corrected == "" {
		return false, fmt.Errorf("correction is empty")
	}

	if utf8.RuneCountInString(corrected) < minValidationLength ||
		utf8.RuneCountInString(strings.TrimSpace(original)) < minValidationLength {
		return true, nil
	}

	want, ok := v.det.DetectISO(original)
	if !ok {
		return true, nil
	}
	got, ok := v.det.DetectISO(corrected)
	if !ok {
		return true, nil
	}

	if !strings.EqualFold(want, got) {
		return false, fmt.Errorf("expected %s but detected %s", want, got)
	}
	return true, nil
}
