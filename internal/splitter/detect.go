package splitter

// LanguageDetector reports the ISO 639-1 code of a text.
type LanguageDetector interface {
	DetectISO(text string) (string, bool)
}

// Detecting picks the terminal profile per call from the detected language of
// the passage. Undetectable passages use the fallback splitter.
type Detecting struct {
	det      LanguageDetector
	fallback *Splitter
}

func NewDetecting(det LanguageDetector, fallback *Splitter) *Detecting {
	if fallback == nil {
		fallback = ForLanguage(ReferenceLanguage)
	}
	return &Detecting{det: det, fallback: fallback}
}

func (d *Detecting) Split(text string) []string {
	if d.det != nil {
		if code, ok := d.det.DetectISO(text); ok {
			return ForLanguage(code).Split(text)
		}
	}
	return d.fallback.Split(text)
}
