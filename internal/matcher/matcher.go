// Package matcher содержит примитивы сопоставления атрибутов поля со списками
// ключевых слов: точное, по атрибуту, регулярное выражение, CSV и нечёткое.
// Все функции чистые: побеждает первый подходящий атрибут в фиксированном порядке.
package matcher

import (
	"strings"

	"autoFill/internal/keywords"
	"autoFill/internal/pagedetails"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuzzyAttrs - порядок атрибутов для нечёткого сопоставления.
var FuzzyAttrs = []string{
	pagedetails.AttrHTMLID,
	pagedetails.AttrHTMLName,
	pagedetails.AttrLabelAria,
	pagedetails.AttrLabelTag,
	pagedetails.AttrLabelTop,
	pagedetails.AttrLabelLeft,
	pagedetails.AttrPlaceholder,
	pagedetails.AttrDataSetValues,
}

// PropertyAttrs - порядок атрибутов для FindMatchingIndex без префикса.
var PropertyAttrs = []string{
	pagedetails.AttrHTMLID,
	pagedetails.AttrHTMLName,
	pagedetails.AttrLabelLeft,
	pagedetails.AttrLabelRight,
	pagedetails.AttrLabelTag,
	pagedetails.AttrLabelAria,
	pagedetails.AttrPlaceholder,
}

// Matcher выполняет сопоставление по директивам и логирует битые регулярные выражения.
type Matcher struct {
	log *zap.Logger
}

func New(log *zap.Logger) *Matcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Matcher{log: log.Named("matcher")}
}

// Lower приводит строку к нижнему регистру с учётом Unicode.
func Lower(s string) string {
	return cases.Lower(language.Und).String(s)
}

func stripNewlines(s string) string {
	return strings.NewReplacer("\r\n", "", "\r", "", "\n", "").Replace(s)
}

// Exact - значение поля точно (без учёта регистра и пробелов по краям) совпадает с одним из вариантов.
func Exact(value string, options []string) bool {
	v := Lower(strings.TrimSpace(value))
	if v == "" {
		return false
	}
	for _, o := range options {
		if v == Lower(strings.TrimSpace(o)) {
			return true
		}
	}
	return false
}

// Fuzzy проверяет, содержит ли значение хотя бы один из вариантов.
func Fuzzy(options []string, value string) bool {
	if len(options) == 0 || value == "" {
		return false
	}
	v := Lower(strings.TrimSpace(stripNewlines(value)))
	if v == "" {
		return false
	}
	for _, o := range options {
		if o != "" && strings.Contains(v, o) {
			return true
		}
	}
	return false
}

// FieldIsFuzzyMatch применяет Fuzzy к атрибутам поля в порядке FuzzyAttrs.
// Пустые атрибуты пропускаются.
func FieldIsFuzzyMatch(f *pagedetails.Field, options []string) bool {
	return FieldIsFuzzyMatchAttrs(f, options, FuzzyAttrs)
}

func FieldIsFuzzyMatchAttrs(f *pagedetails.Field, options []string, attrs []string) bool {
	if f == nil {
		return false
	}
	for _, attr := range attrs {
		v := f.Attr(attr)
		if strings.TrimSpace(v) == "" {
			continue
		}
		if Fuzzy(options, v) {
			return true
		}
	}
	return false
}

// PropertyMatch сравнивает один атрибут поля с директивой.
func (m *Matcher) PropertyMatch(f *pagedetails.Field, attr string, d keywords.Directive) bool {
	raw := f.Attr(attr)
	if strings.TrimSpace(raw) == "" {
		return false
	}
	value := strings.TrimSpace(stripNewlines(raw))

	switch d.Kind {
	case keywords.Regex:
		if d.Pattern == nil {
			if d.Err != nil {
				m.log.Warn("Некорректное регулярное выражение в правиле",
					zap.String("rule", d.Raw), zap.Error(d.Err))
			}
			return false
		}
		return d.Pattern.MatchString(value)
	case keywords.CSV:
		lv := Lower(value)
		for _, v := range d.Values {
			if v == lv {
				return true
			}
		}
		return false
	case keywords.Attribute:
		if d.Inner == nil || !contains(d.Attrs, attr) {
			return false
		}
		return m.PropertyMatch(f, attr, *d.Inner)
	default:
		return Lower(value) == d.Value
	}
}

// FindMatchingIndex возвращает индекс первой директивы, совпавшей с полем, или -1.
// Директивы с префиксом атрибута проверяются только по своим атрибутам.
func (m *Matcher) FindMatchingIndex(f *pagedetails.Field, directives []keywords.Directive) int {
	if f == nil {
		return -1
	}
	for i, d := range directives {
		if d.Kind == keywords.Attribute {
			for _, attr := range d.Attrs {
				if m.PropertyMatch(f, attr, d) {
					return i
				}
			}
			continue
		}
		for _, attr := range PropertyAttrs {
			if m.PropertyMatch(f, attr, d) {
				return i
			}
		}
	}
	return -1
}

// IsFieldMatch сравнивает нормализованное значение (только латиница и цифры) с вариантами.
// Если containsOptions не nil, вхождение подстрокой разрешено только для них,
// остальные варианты должны совпасть полностью.
func IsFieldMatch(value string, options []string, containsOptions []string) bool {
	v := alnum(strings.ToLower(strings.TrimSpace(value)))
	if v == "" {
		return false
	}
	for _, option := range options {
		checkContains := containsOptions == nil || contains(containsOptions, option)
		o := strings.ReplaceAll(strings.ToLower(option), "-", "")
		if o == "" {
			continue
		}
		if v == o || (checkContains && strings.Contains(v, o)) {
			return true
		}
	}
	return false
}

// AttrValuesContain проверяет, содержит ли хотя бы одно значение подстроку needle
// после удаления пробелов и приведения к нижнему регистру.
func AttrValuesContain(values []string, needle string) bool {
	for _, v := range values {
		if v == "" {
			continue
		}
		if strings.Contains(Lower(strings.ReplaceAll(v, " ", "")), needle) {
			return true
		}
	}
	return false
}

func alnum(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') {
			b.WriteByte(c)
		}
	}
	return b.String()
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
