package sanitizer

import "regexp"

var addressPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(address[123]?|addr|адрес)\s*[:=]\s*["']?([^"'\n&]{5,})["']?`),
	regexp.MustCompile(`(?i)(postal[_-]?code|zip|postcode|индекс)\s*[:=]\s*["']?([\w -]{3,10})["']?`),
	regexp.MustCompile(`(?i)(улица|ул\.|проспект|пр-т|переулок|пер\.)\s+[А-Яа-яЁё\w\s]+(?:,\s*(?:д\.?|дом)\s*\d+)?`),
}

type AddressSanitizer struct{}

func (s *AddressSanitizer) Sanitize(text string) string {
	for _, pattern := range addressPatterns {
		text = pattern.ReplaceAllString(text, `[FILTERED_ADDRESS]`)
	}
	return text
}
