package sanitizer

import "regexp"

var passwordPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(password|пароль)\s*[:=]\s*["']?([^"'\s&]{3,})["']?`),
	regexp.MustCompile(`(?i)(passwd|pwd|pass)\s*[:=]\s*["']?([^"'\s&]{3,})["']?`),
}

type PasswordSanitizer struct{}

func (s *PasswordSanitizer) Sanitize(text string) string {
	for _, pattern := range passwordPatterns {
		text = pattern.ReplaceAllString(text, `${1}=`+Filtered)
	}
	return text
}
