package sanitizer

import "regexp"

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\+7\s?\(?\d{3}\)?\s?\d{3}[-.\s]?\d{2}[-.\s]?\d{2}`),
	regexp.MustCompile(`\+\d{1,3}[-.\s]?\(?\d{2,4}\)?[-.\s]?\d{3,4}[-.\s]?\d{3,4}`),
	regexp.MustCompile(`(?i)(phone|tel|телефон|тел\.?)\s*[:=]\s*["']?([+\d\s\-\(\)]{7,})["']?`),
}

type PhoneSanitizer struct{}

func (s *PhoneSanitizer) Sanitize(text string) string {
	for _, pattern := range phonePatterns {
		text = pattern.ReplaceAllString(text, `[FILTERED_PHONE]`)
	}
	return text
}
