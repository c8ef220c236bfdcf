package qualify

import (
	"autoFill/internal/pagedetails"
)

// IsFieldForLoginForm - поле формы входа: TOTP, пароль входа или логин при одном пароле.
func (e *Evaluator) IsFieldForLoginForm(f *pagedetails.Field, page *pagedetails.Snapshot) bool {
	if f == nil || page == nil {
		return false
	}
	if e.IsTotpField(f) {
		return true
	}
	if e.IsCurrentPasswordField(f) {
		return e.IsPasswordFieldForLoginForm(f, page)
	}
	if e.IsUsernameField(f) {
		return e.IsUsernameFieldForLoginForm(f, page)
	}
	return false
}

// IsPasswordFieldForLoginForm требует единственный пароль в форме поля, а для поля
// без формы - единственный видимый пароль на странице и не больше одного логина без формы.
func (e *Evaluator) IsPasswordFieldForLoginForm(f *pagedetails.Field, page *pagedetails.Snapshot) bool {
	if f == nil || page == nil {
		return false
	}
	// new-password и слова регистрации отсекаются внутри IsCurrentPasswordField.
	if !e.IsCurrentPasswordField(f) {
		return false
	}
	if autocompleteHas(f, e.kw.Autocomplete.CurrentPassword) {
		return true
	}

	passwords := e.filter(page, e.IsCurrentPasswordField)

	if f.Formless() {
		viewable := 0
		for _, p := range passwords {
			if p.Viewable {
				viewable++
			}
		}
		if viewable > 1 {
			return false
		}
		if viewable == 0 && !f.Viewable {
			return false
		}

		formlessUsernames := 0
		for _, u := range e.filter(page, e.IsUsernameField) {
			if u.Formless() && u.Viewable {
				formlessUsernames++
			}
		}
		return formlessUsernames <= 1
	}

	inForm := 0
	for _, p := range passwords {
		if p.SameForm(f) && (p.Viewable || p == f) {
			inForm++
		}
	}
	return inForm == 1
}

// IsUsernameFieldForLoginForm - логин, связанный ровно с одним паролем (по форме или
// по соседству для полей без формы), либо явно помеченный autocomplete.
func (e *Evaluator) IsUsernameFieldForLoginForm(f *pagedetails.Field, page *pagedetails.Snapshot) bool {
	if f == nil || page == nil || !e.IsUsernameField(f) {
		return false
	}

	if !f.Disabled && autocompleteHas(f, e.kw.Autocomplete.Username, e.kw.Autocomplete.Email) {
		return len(e.filter(page, e.IsNewPasswordField)) == 0
	}

	if keywordsFound(f, e.kw.Login.AccountCreation, true) {
		return false
	}

	passwords := e.filter(page, e.IsCurrentPasswordField)

	if f.Formless() {
		var formless []*pagedetails.Field
		for _, p := range passwords {
			if p.Formless() {
				formless = append(formless, p)
			}
		}
		switch len(formless) {
		case 0:
			// Многошаговый вход: пароль появится на следующем шаге.
			return keywordsFound(f, e.kw.Login.Username, false)
		case 1:
			return f.ElementNumber < formless[0].ElementNumber
		default:
			return false
		}
	}

	inForm := 0
	for _, p := range passwords {
		if p.SameForm(f) {
			inForm++
		}
	}
	switch inForm {
	case 0:
		return keywordsFound(f, e.kw.Login.Username, false)
	case 1:
		return true
	default:
		return false
	}
}

// IsFieldForAccountCreationForm - поле формы регистрации.
func (e *Evaluator) IsFieldForAccountCreationForm(f *pagedetails.Field, page *pagedetails.Snapshot) bool {
	if f == nil || page == nil {
		return false
	}
	if e.IsNewPasswordField(f) {
		return true
	}
	if !e.IsUsernameField(f) && !e.IsEmailField(f) {
		return false
	}
	if keywordsFound(f, e.kw.Login.AccountCreation, true) {
		return true
	}
	for _, p := range e.filter(page, e.IsNewPasswordField) {
		if p.SameForm(f) {
			return true
		}
	}
	return false
}

func (e *Evaluator) filter(page *pagedetails.Snapshot, pred func(*pagedetails.Field) bool) []*pagedetails.Field {
	var out []*pagedetails.Field
	for _, f := range page.Fields {
		if f != nil && pred(f) {
			out = append(out, f)
		}
	}
	return out
}
