package sanitizer

import "regexp"

// Секреты TOTP: otpauth URI целиком, параметр secret и явные подписи.
var totpPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)otpauth://[^\s"']+`),
	regexp.MustCompile(`(?i)(secret|totp)\s*[:=]\s*["']?([A-Z2-7=]{16,})["']?`),
}

type TotpSanitizer struct{}

func (s *TotpSanitizer) Sanitize(text string) string {
	text = totpPatterns[0].ReplaceAllString(text, Filtered)
	return totpPatterns[1].ReplaceAllString(text, `${1}=`+Filtered)
}
