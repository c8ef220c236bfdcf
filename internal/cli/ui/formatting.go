package ui

import (
	"fmt"
	"strings"

	"autoFill/internal/qualify"
)

// FormatRoles перечисляет роли поля через запятую, "-" если ролей нет.
func FormatRoles(r qualify.Roles) string {
	var roles []string
	add := func(ok bool, name string) {
		if ok {
			roles = append(roles, name)
		}
	}
	add(r.Excluded, "excluded")
	add(r.Search, "search")
	add(r.Username, "username")
	add(r.Email, "email")
	add(r.Password, "password")
	add(r.CurrentPassword, "current-password")
	add(r.NewPassword, "new-password")
	add(r.Totp, "totp")
	add(r.LoginForm, "login-form")
	add(r.AccountCreation, "account-creation")
	add(r.CreditCard, "card")
	add(r.Identity, "identity")
	if len(roles) == 0 {
		return "-"
	}
	return strings.Join(roles, ", ")
}

// ClearScreen очищает терминал
func ClearScreen() {
	fmt.Print("\033[H\033[2J")
}
