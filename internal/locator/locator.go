// Package locator находит на странице поля пароля и связанные с ними поля
// логина и TOTP. Связь определяется по форме и порядку полей в DOM.
package locator

import (
	"strings"

	"autoFill/internal/keywords"
	"autoFill/internal/matcher"
	"autoFill/internal/pagedetails"
	"autoFill/internal/qualify"
)

// PasswordOptions - фильтры при сборе полей пароля.
type PasswordOptions struct {
	CanBeHidden     bool
	CanBeReadonly   bool
	MustBeEmpty     bool
	FillNewPassword bool
}

// SearchOptions - фильтры одного прохода поиска логина или TOTP.
type SearchOptions struct {
	CanBeHidden   bool
	CanBeReadonly bool
	// WithoutForm снимает требование общей формы и порядка относительно пароля.
	WithoutForm bool
}

// Group - пароли одной формы (или всех полей без формы).
// Primary используется для поиска логина, Alternates заполняются все.
type Group struct {
	Primary    *pagedetails.Field
	Alternates []*pagedetails.Field
}

type Locator struct {
	eval    *qualify.Evaluator
	kw      *keywords.Set
	matcher *matcher.Matcher
}

func New(eval *qualify.Evaluator, m *matcher.Matcher) *Locator {
	if eval == nil {
		eval = qualify.New(nil)
	}
	if m == nil {
		m = matcher.New(nil)
	}
	return &Locator{eval: eval, kw: eval.Keywords(), matcher: m}
}

// PasswordFields возвращает все поля пароля в порядке DOM.
func (l *Locator) PasswordFields(page *pagedetails.Snapshot, opts PasswordOptions) []*pagedetails.Field {
	if page == nil {
		return nil
	}
	var out []*pagedetails.Field
	for _, f := range page.Fields {
		if f == nil || !l.eval.IsPasswordField(f) {
			continue
		}
		if f.Readonly && !opts.CanBeReadonly {
			continue
		}
		if !f.Viewable && !opts.CanBeHidden {
			continue
		}
		if opts.MustBeEmpty && !f.ValueEmpty() {
			continue
		}
		if !opts.FillNewPassword && hasAutocomplete(f, l.kw.Autocomplete.NewPassword) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// FindPasswordFields - сначала только видимые и редактируемые поля, затем,
// если разрешено, скрытые и readonly.
func (l *Locator) FindPasswordFields(page *pagedetails.Snapshot, opts PasswordOptions, onlyVisible bool) []*pagedetails.Field {
	strict := opts
	strict.CanBeHidden, strict.CanBeReadonly = false, false
	fields := l.PasswordFields(page, strict)
	if len(fields) == 0 && !onlyVisible {
		relaxed := opts
		relaxed.CanBeHidden, relaxed.CanBeReadonly = true, true
		fields = l.PasswordFields(page, relaxed)
	}
	return fields
}

// Groups раскладывает пароли по формам в порядке первого появления.
func (l *Locator) Groups(page *pagedetails.Snapshot, opts PasswordOptions, onlyVisible bool) []Group {
	return GroupByForm(l.FindPasswordFields(page, opts, onlyVisible))
}

// GroupByForm - одна группа на форму; поля без формы образуют одну общую группу.
func GroupByForm(passwords []*pagedetails.Field) []Group {
	var groups []Group
	index := map[*pagedetails.Form]int{}
	for _, p := range passwords {
		i, ok := index[p.Form]
		if !ok {
			index[p.Form] = len(groups)
			groups = append(groups, Group{Primary: p, Alternates: []*pagedetails.Field{p}})
			continue
		}
		groups[i].Alternates = append(groups[i].Alternates, p)
	}
	return groups
}

// Username ищет логин для пароля за один проход.
// Выбирается первое поле с совпадением по ключевым словам, иначе ближайшее перед паролем.
func (l *Locator) Username(page *pagedetails.Snapshot, pw *pagedetails.Field, opts SearchOptions) *pagedetails.Field {
	if page == nil || pw == nil {
		return nil
	}
	var found *pagedetails.Field
	for _, f := range page.Fields {
		if f == nil || f == pw {
			continue
		}
		if !opts.WithoutForm && f.ElementNumber >= pw.ElementNumber {
			break
		}
		if !l.candidate(f, pw, opts) || !isUsernameType(f) {
			continue
		}
		found = f
		if l.matchesRole(f, l.kw.UsernameDirectives, l.kw.Autocomplete.Username, l.kw.Autocomplete.Email) {
			break
		}
	}
	return found
}

// FindUsername - строгий проход, затем ослабленный, если разрешены скрытые поля.
func (l *Locator) FindUsername(page *pagedetails.Snapshot, pw *pagedetails.Field, allowHidden bool) *pagedetails.Field {
	if u := l.Username(page, pw, SearchOptions{}); u != nil {
		return u
	}
	if !allowHidden {
		return nil
	}
	return l.Username(page, pw, SearchOptions{CanBeHidden: true, CanBeReadonly: true})
}

// Totp ищет поле одноразового кода для пароля за один проход.
// Кандидат должен хотя бы нечётко совпадать со словами TOTP или иметь autocomplete=one-time-code.
func (l *Locator) Totp(page *pagedetails.Snapshot, pw *pagedetails.Field, opts SearchOptions) *pagedetails.Field {
	if page == nil || pw == nil {
		return nil
	}
	all := l.kw.AllTotp()
	var found *pagedetails.Field
	for _, f := range page.Fields {
		if f == nil || f == pw {
			continue
		}
		if !opts.WithoutForm && f.ElementNumber >= pw.ElementNumber {
			break
		}
		if !l.candidate(f, pw, opts) || !isTotpType(f) {
			continue
		}
		byAutocomplete := hasAutocomplete(f, l.kw.Autocomplete.Totp)
		if !byAutocomplete && !matcher.FieldIsFuzzyMatch(f, all) {
			continue
		}
		found = f
		if l.matchesRole(f, l.kw.TotpDirectives, l.kw.Autocomplete.Totp) {
			break
		}
	}
	return found
}

// FindTotp - строгий проход, затем ослабленный.
func (l *Locator) FindTotp(page *pagedetails.Snapshot, pw *pagedetails.Field, allowHidden bool) *pagedetails.Field {
	if t := l.Totp(page, pw, SearchOptions{}); t != nil {
		return t
	}
	if !allowHidden {
		return nil
	}
	return l.Totp(page, pw, SearchOptions{CanBeHidden: true, CanBeReadonly: true})
}

// UsernameOnly - запасной вариант для страниц без пароля: видимые текстовые поля,
// нечётко совпадающие со словами логина.
func (l *Locator) UsernameOnly(page *pagedetails.Snapshot) []*pagedetails.Field {
	if page == nil {
		return nil
	}
	var out []*pagedetails.Field
	for _, f := range page.Fields {
		if f == nil || !f.Viewable || f.Disabled || !isUsernameType(f) {
			continue
		}
		if l.eval.IsExcludedType(f) {
			continue
		}
		if matcher.FieldIsFuzzyMatch(f, l.kw.Login.Username) {
			out = append(out, f)
		}
	}
	return out
}

// TotpOnly - поля одноразового кода на странице без пароля.
func (l *Locator) TotpOnly(page *pagedetails.Snapshot) []*pagedetails.Field {
	if page == nil {
		return nil
	}
	var out []*pagedetails.Field
	for _, f := range page.Fields {
		if f == nil || !f.Viewable || f.Disabled || !isTotpType(f) {
			continue
		}
		if l.eval.IsExcludedType(f) {
			continue
		}
		if hasAutocomplete(f, l.kw.Autocomplete.Totp) || matcher.FieldIsFuzzyMatch(f, l.kw.Login.Totp) {
			out = append(out, f)
		}
	}
	return out
}

func (l *Locator) candidate(f, pw *pagedetails.Field, opts SearchOptions) bool {
	if f.Disabled || l.eval.IsExcludedType(f) {
		return false
	}
	if !f.Viewable && !opts.CanBeHidden {
		return false
	}
	if f.Readonly && !opts.CanBeReadonly {
		return false
	}
	return opts.WithoutForm || f.SameForm(pw)
}

// matchesRole: правила с префиксом атрибута, затем без префикса, затем autocomplete.
func (l *Locator) matchesRole(f *pagedetails.Field, directives []keywords.Directive, autocomplete ...string) bool {
	var qualified, plain []keywords.Directive
	for _, d := range directives {
		if d.Kind == keywords.Attribute {
			qualified = append(qualified, d)
		} else {
			plain = append(plain, d)
		}
	}
	if l.matcher.FindMatchingIndex(f, qualified) >= 0 {
		return true
	}
	if l.matcher.FindMatchingIndex(f, plain) >= 0 {
		return true
	}
	return hasAutocomplete(f, autocomplete...)
}

func isUsernameType(f *pagedetails.Field) bool {
	switch f.Type {
	case "text", "email", "tel":
		return true
	}
	return false
}

func isTotpType(f *pagedetails.Field) bool {
	switch f.Type {
	case "text", "number", "tel":
		return true
	}
	return false
}

func hasAutocomplete(f *pagedetails.Field, values ...string) bool {
	for _, part := range strings.Fields(strings.ToLower(f.AutoCompleteType)) {
		for _, v := range values {
			if v != "" && part == v {
				return true
			}
		}
	}
	return false
}
