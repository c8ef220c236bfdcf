// Package cipher - расшифрованное представление записи хранилища, которое
// нужно автозаполнению: логин, карта, личные данные и пользовательские поля.
package cipher

import (
	"strings"
	"time"
)

// Type - тип записи.
type Type int

const (
	TypeLogin Type = iota + 1
	TypeSecureNote
	TypeCard
	TypeIdentity
)

func (t Type) String() string {
	switch t {
	case TypeLogin:
		return "login"
	case TypeSecureNote:
		return "secure_note"
	case TypeCard:
		return "card"
	case TypeIdentity:
		return "identity"
	default:
		return "unknown"
	}
}

// RepromptType - требуется ли повторный ввод мастер-пароля перед заполнением.
type RepromptType int

const (
	RepromptNone RepromptType = iota
	RepromptPassword
)

// Cipher - запись хранилища. Заполнено ровно одно из Login, Card, Identity (по Type).
type Cipher struct {
	ID                  string        `json:"id"`
	Type                Type          `json:"type"`
	Name                string        `json:"name"`
	Reprompt            RepromptType  `json:"reprompt"`
	OrganizationUseTotp bool          `json:"organizationUseTotp"`
	Login               *Login        `json:"login,omitempty"`
	Card                *Card         `json:"card,omitempty"`
	Identity            *Identity     `json:"identity,omitempty"`
	Fields              []CustomField `json:"fields,omitempty"`
	LastUsed            time.Time     `json:"lastUsed,omitempty"`
	LastLaunched        time.Time     `json:"lastLaunched,omitempty"`
}

// Login - учётные данные для входа.
type Login struct {
	Username string     `json:"username"`
	Password string     `json:"password"`
	Totp     string     `json:"totp,omitempty"`
	URIs     []LoginURI `json:"uris,omitempty"`
}

// HasTotp сообщает, что у записи есть секрет TOTP.
func (c *Cipher) HasTotp() bool {
	return c != nil && c.Login != nil && strings.TrimSpace(c.Login.Totp) != ""
}

// Card - платёжная карта. ExpMonth хранится без ведущего нуля ("5"), ExpYear - 2 или 4 цифры.
type Card struct {
	CardholderName string `json:"cardholderName"`
	Brand          string `json:"brand"`
	Number         string `json:"number"`
	ExpMonth       string `json:"expMonth"`
	ExpYear        string `json:"expYear"`
	Code           string `json:"code"`
}

// Identity - личные данные.
type Identity struct {
	Title      string `json:"title"`
	FirstName  string `json:"firstName"`
	MiddleName string `json:"middleName"`
	LastName   string `json:"lastName"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	Address3   string `json:"address3"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Company    string `json:"company"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	SSN        string `json:"ssn"`
	Username   string `json:"username"`
	Passport   string `json:"passportNumber"`
	License    string `json:"licenseNumber"`
}

// FullName - "first middle last" без пустых частей. Без имени и отчества - только фамилия.
func (i *Identity) FullName() string {
	if i == nil {
		return ""
	}
	if strings.TrimSpace(i.FirstName) == "" && strings.TrimSpace(i.MiddleName) == "" {
		return strings.TrimSpace(i.LastName)
	}
	return joinNonEmpty(" ", i.FirstName, i.MiddleName, i.LastName)
}

// FullAddress - "address1, address2, address3" без пустых частей.
func (i *Identity) FullAddress() string {
	if i == nil {
		return ""
	}
	return joinNonEmpty(", ", i.Address1, i.Address2, i.Address3)
}

func joinNonEmpty(sep string, parts ...string) string {
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
