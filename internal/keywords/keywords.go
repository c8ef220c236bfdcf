// Package keywords хранит встроенные таблицы ключевых слов, по которым
// классифицируются поля. Таблицы загружаются один раз и дальше только читаются.
package keywords

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed keywords.yaml
var embedded []byte

// ExpiryTemplate - обозначения месяца и года в одной локали (mm / yy / yyyy).
type ExpiryTemplate struct {
	Month     string `yaml:"month"`
	YearShort string `yaml:"year_short"`
	YearLong  string `yaml:"year_long"`
}

type Login struct {
	Username        []string `yaml:"username"`
	Email           []string `yaml:"email"`
	Totp            []string `yaml:"totp"`
	AmbiguousTotp   []string `yaml:"ambiguous_totp"`
	Search          []string `yaml:"search"`
	FieldIgnore     []string `yaml:"field_ignore"`
	PasswordExclude []string `yaml:"password_exclude"`
	UsernameExclude []string `yaml:"username_exclude"`
	AccountCreation []string `yaml:"account_creation"`
	UpdatePassword  []string `yaml:"update_password"`
}

type Types struct {
	ExcludedLogin []string `yaml:"excluded_login"`
	Excluded      []string `yaml:"excluded"`
	Username      []string `yaml:"username"`
}

type Autocomplete struct {
	CurrentPassword string   `yaml:"current_password"`
	NewPassword     string   `yaml:"new_password"`
	Username        string   `yaml:"username"`
	Email           string   `yaml:"email"`
	Totp            string   `yaml:"totp"`
	Disabled        []string `yaml:"disabled"`
}

type Card struct {
	Attributes         []string         `yaml:"attributes"`
	AttributesExtended []string         `yaml:"attributes_extended"`
	Holder             []string         `yaml:"holder"`
	HolderValues       []string         `yaml:"holder_values"`
	Number             []string         `yaml:"number"`
	NumberValues       []string         `yaml:"number_values"`
	Expiry             []string         `yaml:"expiry"`
	ExpiryValues       []string         `yaml:"expiry_values"`
	Month              []string         `yaml:"month"`
	Year               []string         `yaml:"year"`
	CVV                []string         `yaml:"cvv"`
	Brand              []string         `yaml:"brand"`
	ExpiryTemplates    []ExpiryTemplate `yaml:"expiry_templates"`
	ExpirySeparators   []string         `yaml:"expiry_separators"`
}

type Identity struct {
	Attributes     []string `yaml:"attributes"`
	FullName       []string `yaml:"full_name"`
	FullNameValues []string `yaml:"full_name_values"`
	Title          []string `yaml:"title"`
	FirstName      []string `yaml:"first_name"`
	MiddleName     []string `yaml:"middle_name"`
	LastName       []string `yaml:"last_name"`
	Email          []string `yaml:"email"`
	Address        []string `yaml:"address"`
	AddressValues  []string `yaml:"address_values"`
	Address1       []string `yaml:"address1"`
	Address2       []string `yaml:"address2"`
	Address3       []string `yaml:"address3"`
	PostalCode     []string `yaml:"postal_code"`
	City           []string `yaml:"city"`
	State          []string `yaml:"state"`
	Country        []string `yaml:"country"`
	Phone          []string `yaml:"phone"`
	Username       []string `yaml:"username"`
	Company        []string `yaml:"company"`
	Autocomplete   []string `yaml:"autocomplete"`
}

type ISO struct {
	Countries map[string]string `yaml:"countries"`
	States    map[string]string `yaml:"states"`
	Provinces map[string]string `yaml:"provinces"`
}

// Set - полный набор таблиц. После Load не изменяется; компоненты получают его при создании.
type Set struct {
	Login        Login        `yaml:"login"`
	Types        Types        `yaml:"types"`
	Autocomplete Autocomplete `yaml:"autocomplete"`
	Truthy       []string     `yaml:"truthy"`
	Card         Card         `yaml:"card"`
	Identity     Identity     `yaml:"identity"`
	ISO          ISO          `yaml:"iso"`

	// UsernameDirectives - список username, разобранный в директивы для FindMatchingIndex.
	UsernameDirectives []Directive `yaml:"-"`
	// TotpDirectives - totp и ambiguous_totp вместе.
	TotpDirectives []Directive `yaml:"-"`

	excludedLogin map[string]struct{}
	excluded      map[string]struct{}
	usernameTypes map[string]struct{}
	search        map[string]struct{}
	truthy        map[string]struct{}
}

var (
	defaultOnce sync.Once
	defaultSet  *Set
)

// Default возвращает встроенный набор. Ошибка разбора встроенного YAML - дефект сборки.
func Default() *Set {
	defaultOnce.Do(func() {
		s, err := Load(embedded)
		if err != nil {
			panic(fmt.Sprintf("keywords: встроенные таблицы повреждены: %v", err))
		}
		defaultSet = s
	})
	return defaultSet
}

// Load разбирает YAML с таблицами. Все значения приводятся к нижнему регистру,
// кроме таблиц ISO, где к нижнему регистру приводятся только ключи.
func Load(data []byte) (*Set, error) {
	s := &Set{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("ошибка разбора таблиц ключевых слов: %w", err)
	}
	s.normalize()
	if len(s.Types.Excluded) == 0 || len(s.Login.Username) == 0 {
		return nil, fmt.Errorf("таблицы ключевых слов неполные")
	}
	return s, nil
}

func (s *Set) normalize() {
	lists := []*[]string{
		&s.Login.Username, &s.Login.Email, &s.Login.Totp, &s.Login.AmbiguousTotp,
		&s.Login.Search, &s.Login.FieldIgnore, &s.Login.PasswordExclude,
		&s.Login.UsernameExclude, &s.Login.AccountCreation, &s.Login.UpdatePassword,
		&s.Types.ExcludedLogin, &s.Types.Excluded, &s.Types.Username,
		&s.Autocomplete.Disabled, &s.Truthy,
		&s.Card.Holder, &s.Card.HolderValues, &s.Card.Number, &s.Card.NumberValues,
		&s.Card.Expiry, &s.Card.ExpiryValues, &s.Card.Month, &s.Card.Year,
		&s.Card.CVV, &s.Card.Brand,
		&s.Identity.FullName, &s.Identity.FullNameValues, &s.Identity.Title,
		&s.Identity.FirstName, &s.Identity.MiddleName, &s.Identity.LastName,
		&s.Identity.Email, &s.Identity.Address, &s.Identity.AddressValues,
		&s.Identity.Address1, &s.Identity.Address2, &s.Identity.Address3,
		&s.Identity.PostalCode, &s.Identity.City, &s.Identity.State,
		&s.Identity.Country, &s.Identity.Phone, &s.Identity.Username,
		&s.Identity.Company, &s.Identity.Autocomplete,
	}
	for _, l := range lists {
		for i, v := range *l {
			(*l)[i] = strings.ToLower(strings.TrimSpace(v))
		}
	}

	s.ISO.Countries = lowerKeys(s.ISO.Countries)
	s.ISO.States = lowerKeys(s.ISO.States)
	s.ISO.Provinces = lowerKeys(s.ISO.Provinces)

	s.excludedLogin = toSet(s.Types.ExcludedLogin)
	s.excluded = toSet(s.Types.Excluded)
	s.usernameTypes = toSet(s.Types.Username)
	s.search = toSet(s.Login.Search)
	s.truthy = toSet(s.Truthy)

	s.UsernameDirectives = ParseDirectives(s.Login.Username)
	totp := make([]string, 0, len(s.Login.Totp)+len(s.Login.AmbiguousTotp))
	totp = append(totp, s.Login.Totp...)
	totp = append(totp, s.Login.AmbiguousTotp...)
	s.TotpDirectives = ParseDirectives(totp)
}

// AllTotp - полный список TOTP ключей, включая неоднозначные.
func (s *Set) AllTotp() []string {
	out := make([]string, 0, len(s.Login.Totp)+len(s.Login.AmbiguousTotp))
	out = append(out, s.Login.Totp...)
	return append(out, s.Login.AmbiguousTotp...)
}

func (s *Set) IsExcludedLoginType(t string) bool {
	_, ok := s.excludedLogin[t]
	return ok
}

func (s *Set) IsExcludedType(t string) bool {
	_, ok := s.excluded[t]
	return ok
}

func (s *Set) IsUsernameType(t string) bool {
	_, ok := s.usernameTypes[t]
	return ok
}

func (s *Set) IsSearchKeyword(w string) bool {
	_, ok := s.search[w]
	return ok
}

// IsTruthy проверяет строковое значение по набору истинных токенов (true, y, 1, yes, ✓).
func (s *Set) IsTruthy(v string) bool {
	_, ok := s.truthy[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// CreditCardKeywords - объединение всех карточных списков без повторов.
func (s *Set) CreditCardKeywords() []string {
	return unique(s.Card.Holder, s.Card.Number, s.Card.Expiry, s.Card.Month,
		s.Card.Year, s.Card.CVV, s.Card.Brand)
}

// IdentityKeywords - объединение всех списков для личных данных без повторов.
func (s *Set) IdentityKeywords() []string {
	id := s.Identity
	return unique(id.FullName, id.Title, id.FirstName, id.MiddleName, id.LastName,
		id.Address, id.Address1, id.Address2, id.Address3, id.PostalCode,
		id.City, id.State, id.Country, id.Phone, id.Company)
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, v := range list {
		m[v] = struct{}{}
	}
	return m
}

func lowerKeys(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}

func unique(lists ...[]string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, l := range lists {
		for _, v := range l {
			if _, ok := seen[v]; ok {
				continue
			}
			seen[v] = struct{}{}
			out = append(out, v)
		}
	}
	return out
}
