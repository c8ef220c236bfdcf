package qualify

import (
	"strings"
	"unicode"

	"autoFill/internal/pagedetails"
)

// keywordAttrs - атрибуты, из которых собираются ключевые слова поля.
var keywordAttrs = []string{
	pagedetails.AttrHTMLID,
	pagedetails.AttrHTMLName,
	pagedetails.AttrHTMLClass,
	pagedetails.AttrType,
	pagedetails.AttrTitle,
	pagedetails.AttrPlaceholder,
	pagedetails.AttrAutoCompleteType,
	pagedetails.AttrDataSetValues,
	pagedetails.AttrLabelData,
	pagedetails.AttrLabelAria,
	pagedetails.AttrLabelLeft,
	pagedetails.AttrLabelRight,
	pagedetails.AttrLabelTag,
	pagedetails.AttrLabelTop,
}

// disqualifyAttrs - атрибуты для проверки по запрещённым токенам.
// label-left/right/top сюда не входят: в них попадает соседний текст ("Forgot password?").
var disqualifyAttrs = []string{
	pagedetails.AttrHTMLID,
	pagedetails.AttrHTMLName,
	pagedetails.AttrPlaceholder,
	pagedetails.AttrLabelTag,
	pagedetails.AttrLabelAria,
}

type fieldKeywords struct {
	set    map[string]struct{}
	joined string
}

// collectKeywords собирает слова из атрибутов: значение целиком, без дефисов
// с разбиением по небуквенным символам, и то же самое со схлопнутыми пробелами.
func collectKeywords(f *pagedetails.Field) fieldKeywords {
	set := map[string]struct{}{}
	var order []string
	add := func(w string) {
		if w == "" {
			return
		}
		if _, ok := set[w]; ok {
			return
		}
		set[w] = struct{}{}
		order = append(order, w)
	}

	for _, attr := range keywordAttrs {
		v := f.Attr(attr)
		if v == "" {
			continue
		}
		lower := strings.ToLower(v)
		add(lower)

		dehyphen := strings.ReplaceAll(lower, "-", "")
		for _, w := range splitWords(dehyphen) {
			add(w)
		}
		for _, w := range splitWords(strings.Join(strings.Fields(dehyphen), "")) {
			add(w)
		}
	}

	return fieldKeywords{set: set, joined: strings.Join(order, ",")}
}

func splitWords(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// keywordsFound ищет ключевые слова в данных поля. При fuzzy достаточно вхождения
// подстрокой в объединённую строку, иначе нужно точное совпадение слова.
func keywordsFound(f *pagedetails.Field, keywords []string, fuzzy bool) bool {
	kw := collectKeywords(f)
	for _, k := range keywords {
		k = strings.ReplaceAll(k, "-", "")
		if k == "" {
			continue
		}
		if fuzzy {
			if strings.Contains(kw.joined, k) {
				return true
			}
			continue
		}
		if _, ok := kw.set[k]; ok {
			return true
		}
	}
	return false
}

// cleanValue - нижний регистр без пробелов, подчёркиваний и дефисов.
func cleanValue(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '_' || r == '-' {
			return -1
		}
		return r
	}, strings.ToLower(v))
}

// autocompleteHas проверяет токены атрибута autocomplete ("section-x shipping email").
func autocompleteHas(f *pagedetails.Field, values ...string) bool {
	if f.AutoCompleteType == "" {
		return false
	}
	for _, part := range strings.Fields(strings.ToLower(f.AutoCompleteType)) {
		for _, v := range values {
			if v != "" && part == v {
				return true
			}
		}
	}
	return false
}
