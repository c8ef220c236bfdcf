package qualify

import "autoFill/internal/pagedetails"

// Roles - результат всех проверок для одного поля.
type Roles struct {
	OPID            string `json:"opid"`
	Excluded        bool   `json:"excluded"`
	Search          bool   `json:"search"`
	Username        bool   `json:"username"`
	Email           bool   `json:"email"`
	Password        bool   `json:"password"`
	CurrentPassword bool   `json:"currentPassword"`
	NewPassword     bool   `json:"newPassword"`
	Totp            bool   `json:"totp"`
	LoginForm       bool   `json:"loginForm"`
	AccountCreation bool   `json:"accountCreation"`
	CreditCard      bool   `json:"creditCard"`
	Identity        bool   `json:"identity"`
}

// Classify прогоняет поле через все предикаты.
func (e *Evaluator) Classify(f *pagedetails.Field, page *pagedetails.Snapshot) Roles {
	return Roles{
		OPID:            f.OPID,
		Excluded:        e.IsExcludedType(f),
		Search:          e.IsSearchField(f),
		Username:        e.IsUsernameField(f),
		Email:           e.IsEmailField(f),
		Password:        e.IsPasswordField(f),
		CurrentPassword: e.IsCurrentPasswordField(f),
		NewPassword:     e.IsNewPasswordField(f),
		Totp:            e.IsTotpField(f),
		LoginForm:       e.IsFieldForLoginForm(f, page),
		AccountCreation: e.IsFieldForAccountCreationForm(f, page),
		CreditCard:      e.IsFieldForCreditCardForm(f),
		Identity:        e.IsFieldForIdentityForm(f),
	}
}

// ClassifyPage классифицирует все поля снимка в порядке DOM.
func (e *Evaluator) ClassifyPage(page *pagedetails.Snapshot) []Roles {
	out := make([]Roles, 0, len(page.Fields))
	for _, f := range page.Fields {
		if f != nil {
			out = append(out, e.Classify(f, page))
		}
	}
	return out
}
