package keywords

import (
	"regexp"
	"strings"
)

// DirectiveKind - вид правила сопоставления значения атрибута.
type DirectiveKind int

const (
	// Plain - точное совпадение без учёта регистра.
	Plain DirectiveKind = iota
	// Attribute - правило ограничено одним атрибутом ("id=username").
	Attribute
	// Regex - регулярное выражение без учёта регистра ("regex=^user").
	Regex
	// CSV - одно из перечисленных значений ("csv=a,b,c").
	CSV
)

func (k DirectiveKind) String() string {
	switch k {
	case Plain:
		return "plain"
	case Attribute:
		return "attribute"
	case Regex:
		return "regex"
	case CSV:
		return "csv"
	default:
		return "unknown"
	}
}

// Directive - разобранное правило. Строковые префиксы разбираются один раз при загрузке.
type Directive struct {
	Kind DirectiveKind
	Raw  string

	// Attrs - атрибуты, к которым применяется Inner (только для Attribute).
	Attrs []string
	Inner *Directive

	Value   string
	Pattern *regexp.Regexp
	Values  []string

	// Err - ошибка компиляции регулярного выражения. Такое правило ничего не совпадает.
	Err error
}

// attributePrefixes сопоставляет префикс правила с атрибутами поля.
var attributePrefixes = []struct {
	prefix string
	attrs  []string
}{
	{"id", []string{"htmlID"}},
	{"name", []string{"htmlName"}},
	{"label", []string{"label-left", "label-right", "label-tag", "label-aria"}},
	{"placeholder", []string{"placeholder"}},
}

// ParseDirective разбирает строку правила. Значение приводится к нижнему регистру,
// кроме тела регулярного выражения.
func ParseDirective(raw string) Directive {
	trimmed := strings.TrimSpace(raw)

	if body, ok := cutPrefix(trimmed, "regex="); ok {
		re, err := regexp.Compile("(?i)" + body)
		if err != nil {
			return Directive{Kind: Regex, Raw: raw, Err: err}
		}
		return Directive{Kind: Regex, Raw: raw, Pattern: re}
	}

	if body, ok := cutPrefix(trimmed, "csv="); ok {
		var values []string
		for _, v := range strings.Split(body, ",") {
			values = append(values, strings.ToLower(strings.TrimSpace(v)))
		}
		return Directive{Kind: CSV, Raw: raw, Values: values}
	}

	for _, p := range attributePrefixes {
		if body, ok := cutPrefix(trimmed, p.prefix+"="); ok {
			inner := ParseDirective(body)
			return Directive{Kind: Attribute, Raw: raw, Attrs: p.attrs, Inner: &inner, Err: inner.Err}
		}
	}

	return Directive{Kind: Plain, Raw: raw, Value: strings.ToLower(trimmed)}
}

// ParseDirectives разбирает список правил с сохранением порядка.
func ParseDirectives(raw []string) []Directive {
	out := make([]Directive, 0, len(raw))
	for _, r := range raw {
		out = append(out, ParseDirective(r))
	}
	return out
}

// cutPrefix сравнивает префикс без учёта регистра.
func cutPrefix(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return "", false
	}
	return s[len(prefix):], true
}
