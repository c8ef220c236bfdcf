// Package sanitizer убирает секреты из того, что попадает в журнал:
// значения сценариев заполнения, адреса страниц и произвольный текст.
package sanitizer

import (
	"autoFill/internal/fillscript"
)

// Filtered заменяет скрытое значение.
const Filtered = "[FILTERED]"

type DataSanitizer struct {
	rules []SanitizerRule
}

type SanitizerRule interface {
	Sanitize(text string) string
}

func New() *DataSanitizer {
	return &DataSanitizer{
		rules: []SanitizerRule{
			&PasswordSanitizer{},
			&TotpSanitizer{},
			&CardSanitizer{},
			&EmailSanitizer{},
			&PhoneSanitizer{},
			&AddressSanitizer{},
		},
	}
}

// Sanitize прогоняет текст через все правила по порядку.
func (s *DataSanitizer) Sanitize(text string) string {
	if text == "" {
		return text
	}

	result := text
	for _, rule := range s.rules {
		result = rule.Sanitize(result)
	}

	return result
}

// SanitizeValue скрывает значение поля целиком, кроме значений переключателей.
func (s *DataSanitizer) SanitizeValue(value string) string {
	switch value {
	case "", "true", "false":
		return value
	}
	return Filtered
}

// Script возвращает копию сценария со скрытыми значениями fill_by_opid.
// Исходный сценарий не меняется.
func (s *DataSanitizer) Script(script *fillscript.Script) *fillscript.Script {
	if script == nil {
		return nil
	}
	cp := *script
	cp.Script = make([]fillscript.Action, len(script.Script))
	for i, a := range script.Script {
		if a.Op == fillscript.OpFill {
			a.Value = s.SanitizeValue(a.Value)
		}
		cp.Script[i] = a
	}
	cp.SavedURLs = make([]string, len(script.SavedURLs))
	for i, u := range script.SavedURLs {
		cp.SavedURLs[i] = s.Sanitize(u)
	}
	return &cp
}
