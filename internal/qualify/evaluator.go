// Package qualify решает, может ли отдельное поле играть роль логина, пароля,
// TOTP, поля карты или личных данных. Все предикаты без состояния и
// возвращают false при неоднозначных или отсутствующих данных.
package qualify

import (
	"regexp"
	"strings"

	"autoFill/internal/keywords"
	"autoFill/internal/pagedetails"
)

var camelBoundary = regexp.MustCompile(`([a-z])([A-Z])`)

// Evaluator проверяет поля по таблицам ключевых слов, переданным при создании.
type Evaluator struct {
	kw *keywords.Set
}

func New(kw *keywords.Set) *Evaluator {
	if kw == nil {
		kw = keywords.Default()
	}
	return &Evaluator{kw: kw}
}

func (e *Evaluator) Keywords() *keywords.Set {
	return e.kw
}

// ForCustomFieldsOnly - span-поля участвуют только в заполнении пользовательских полей.
func (e *Evaluator) ForCustomFieldsOnly(f *pagedetails.Field) bool {
	return f != nil && f.IsSpan()
}

// IsSearchField ищет слова поиска в type, name, id и placeholder,
// предварительно разделяя camelCase.
func (e *Evaluator) IsSearchField(f *pagedetails.Field) bool {
	if f == nil {
		return false
	}
	for _, v := range []string{f.Type, f.HTMLName, f.HTMLID, f.Placeholder} {
		if v == "" {
			continue
		}
		separated := strings.ToLower(camelBoundary.ReplaceAllString(v, "$1 $2"))
		words := strings.FieldsFunc(separated, func(r rune) bool {
			return r < 'a' || r > 'z'
		})
		for _, w := range words {
			if e.kw.IsSearchKeyword(w) {
				return true
			}
		}
	}
	return false
}

// IsExcludedType - тип из полного списка исключений (radio, checkbox, hidden...) или поле поиска.
// Span-поля никогда не исключаются.
func (e *Evaluator) IsExcludedType(f *pagedetails.Field) bool {
	if f == nil {
		return true
	}
	if f.IsSpan() {
		return false
	}
	if e.kw.IsExcludedType(f.Type) {
		return true
	}
	return e.IsSearchField(f)
}

// IsExcludedLoginType - то же для логина, где checkbox и radio не исключаются типом.
func (e *Evaluator) IsExcludedLoginType(f *pagedetails.Field) bool {
	if f == nil {
		return true
	}
	if f.IsSpan() {
		return false
	}
	if e.kw.IsExcludedLoginType(f.Type) {
		return true
	}
	return e.IsSearchField(f)
}

// HasDisqualifyingValue проверяет атрибуты по списку запрещённых токенов (captcha, forgot...).
func (e *Evaluator) HasDisqualifyingValue(f *pagedetails.Field, tokens ...[]string) bool {
	if f == nil {
		return true
	}
	var values []string
	for _, attr := range disqualifyAttrs {
		if v := cleanValue(f.Attr(attr)); v != "" {
			values = append(values, v)
		}
	}
	if len(values) == 0 {
		return false
	}
	joined := strings.Join(values, " ")

	if len(tokens) == 0 {
		tokens = [][]string{e.kw.Login.FieldIgnore}
	}
	for _, list := range tokens {
		for _, t := range list {
			if t = cleanValue(t); t != "" && strings.Contains(joined, t) {
				return true
			}
		}
	}
	return false
}

// IsLikePasswordField - текстовое поле, в id, name или placeholder которого есть "password".
func (e *Evaluator) IsLikePasswordField(f *pagedetails.Field) bool {
	if f == nil || f.Type != "text" {
		return false
	}
	for _, v := range []string{f.HTMLID, f.HTMLName, f.Placeholder} {
		if e.valueIsLikePassword(v) {
			return true
		}
	}
	return false
}

func (e *Evaluator) valueIsLikePassword(v string) bool {
	if v == "" {
		return false
	}
	cleaned := cleanValue(v)
	if !strings.Contains(cleaned, "password") {
		return false
	}
	for _, ex := range e.kw.Login.PasswordExclude {
		if strings.Contains(cleaned, cleanValue(ex)) {
			return false
		}
	}
	return true
}

// IsPasswordField - поле типа password или похожее на него текстовое поле.
func (e *Evaluator) IsPasswordField(f *pagedetails.Field) bool {
	if f == nil {
		return false
	}
	isPasswordType := f.Type == "password"
	if !isPasswordType && e.IsExcludedLoginType(f) {
		return false
	}
	if e.HasDisqualifyingValue(f) {
		return false
	}
	return isPasswordType || e.IsLikePasswordField(f)
}

// IsCurrentPasswordField - пароль для входа. autocomplete=new-password и слова
// регистрации/смены пароля исключают поле.
func (e *Evaluator) IsCurrentPasswordField(f *pagedetails.Field) bool {
	if f == nil {
		return false
	}
	if autocompleteHas(f, e.kw.Autocomplete.CurrentPassword) {
		return e.IsPasswordField(f)
	}
	if autocompleteHas(f, e.kw.Autocomplete.NewPassword) ||
		keywordsFound(f, e.kw.Login.AccountCreation, true) {
		return false
	}
	return e.IsPasswordField(f)
}

// IsNewPasswordField - поле нового пароля (регистрация, смена пароля).
func (e *Evaluator) IsNewPasswordField(f *pagedetails.Field) bool {
	if f == nil || autocompleteHas(f, e.kw.Autocomplete.CurrentPassword) {
		return false
	}
	if !e.IsPasswordField(f) {
		return false
	}
	return autocompleteHas(f, e.kw.Autocomplete.NewPassword) ||
		keywordsFound(f, e.kw.Login.AccountCreation, true)
}

// IsUpdatePasswordField - пароль на форме смены пароля.
func (e *Evaluator) IsUpdatePasswordField(f *pagedetails.Field) bool {
	return e.IsPasswordField(f) && keywordsFound(f, e.kw.Login.UpdatePassword, true)
}

// IsUsernameField - текстовое поле с признаками логина или email.
func (e *Evaluator) IsUsernameField(f *pagedetails.Field) bool {
	if f == nil {
		return false
	}
	fieldType := f.Type
	if f.IsSpan() {
		fieldType = "text"
	}
	if fieldType == "" || !e.kw.IsUsernameType(fieldType) {
		return false
	}
	if e.IsExcludedType(f) ||
		e.HasDisqualifyingValue(f, e.kw.Login.FieldIgnore, e.kw.Login.UsernameExclude) {
		return false
	}
	if autocompleteHas(f, e.kw.Autocomplete.Username, e.kw.Autocomplete.Email) {
		return true
	}
	return keywordsFound(f, e.kw.Login.Username, true)
}

// IsEmailField - поле email по типу, autocomplete или ключевым словам.
func (e *Evaluator) IsEmailField(f *pagedetails.Field) bool {
	if f == nil || e.IsExcludedType(f) || e.HasDisqualifyingValue(f) {
		return false
	}
	if f.Type == "email" || autocompleteHas(f, e.kw.Autocomplete.Email) {
		return true
	}
	return keywordsFound(f, e.kw.Login.Email, true)
}

// IsTotpField - поле одноразового кода.
func (e *Evaluator) IsTotpField(f *pagedetails.Field) bool {
	if f == nil || e.IsExcludedType(f) {
		return false
	}
	if autocompleteHas(f, e.kw.Autocomplete.Totp) {
		return true
	}
	if e.HasDisqualifyingValue(f) {
		return false
	}
	return keywordsFound(f, e.kw.Login.Totp, true)
}

// IsFieldForCreditCardForm - поле платёжной карты. Ключевые слова сравниваются целыми словами:
// короткие ключи вроде "cc" иначе совпадают с чем угодно.
func (e *Evaluator) IsFieldForCreditCardForm(f *pagedetails.Field) bool {
	if f == nil || e.IsExcludedType(f) || e.HasDisqualifyingValue(f) {
		return false
	}
	for _, part := range strings.Fields(strings.ToLower(f.AutoCompleteType)) {
		if strings.HasPrefix(part, "cc-") {
			return true
		}
	}
	return keywordsFound(f, e.kw.CreditCardKeywords(), false)
}

// IsFieldForIdentityForm - поле личных данных (имя, адрес, телефон...).
func (e *Evaluator) IsFieldForIdentityForm(f *pagedetails.Field) bool {
	if f == nil || e.IsExcludedType(f) || e.HasDisqualifyingValue(f) {
		return false
	}
	if autocompleteHas(f, e.kw.Identity.Autocomplete...) {
		return true
	}
	if e.IsPasswordField(f) || e.IsTotpField(f) {
		return false
	}
	return keywordsFound(f, e.kw.IdentityKeywords(), false)
}
