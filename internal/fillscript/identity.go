package fillscript

import (
	"strings"

	"autoFill/internal/cipher"
	"autoFill/internal/keywords"
	"autoFill/internal/matcher"
	"autoFill/internal/pagedetails"
)

type identityFields struct {
	name, title, firstName, middleName, lastName, email *pagedetails.Field
	address, address1, address2, address3               *pagedetails.Field
	postalCode, city, state, country, phone             *pagedetails.Field
	username, company                                   *pagedetails.Field
}

// match назначает поле первой свободной роли, которой соответствует значение атрибута.
// Общий адрес проверяется после строк адреса и частей адреса: "address2" и
// "address-level2" содержат "addr".
func (ff *identityFields) match(f *pagedetails.Field, v string, kw keywords.Identity) bool {
	roles := []struct {
		slot     **pagedetails.Field
		options  []string
		contains []string
	}{
		{&ff.name, kw.FullName, kw.FullNameValues},
		{&ff.firstName, kw.FirstName, nil},
		{&ff.middleName, kw.MiddleName, nil},
		{&ff.lastName, kw.LastName, nil},
		{&ff.title, kw.Title, nil},
		{&ff.email, kw.Email, nil},
		{&ff.address1, kw.Address1, nil},
		{&ff.address2, kw.Address2, nil},
		{&ff.address3, kw.Address3, nil},
		{&ff.postalCode, kw.PostalCode, nil},
		{&ff.city, kw.City, nil},
		{&ff.state, kw.State, nil},
		{&ff.country, kw.Country, nil},
		{&ff.address, kw.Address, kw.AddressValues},
		{&ff.phone, kw.Phone, nil},
		{&ff.username, kw.Username, nil},
		{&ff.company, kw.Company, nil},
	}
	for _, r := range roles {
		if *r.slot == nil && matcher.IsFieldMatch(v, r.options, r.contains) {
			*r.slot = f
			return true
		}
	}
	return false
}

func (g *Generator) identity(s *Script, page *pagedetails.Snapshot, c *cipher.Cipher, filled *filledSet) *Script {
	if c.Identity == nil {
		return nil
	}
	id := c.Identity
	k := g.kw.Identity
	var ff identityFields
	for _, f := range page.Fields {
		if f == nil || g.eval.ForCustomFieldsOnly(f) || g.eval.IsExcludedType(f) || !f.Viewable {
			continue
		}
		for _, attr := range k.Attributes {
			v := page.Attr(f, attr)
			if v == "" {
				continue
			}
			if ff.match(f, v, k) {
				break
			}
		}
	}

	g.fillValue(s, ff.title, id.Title, filled)
	g.fillValue(s, ff.firstName, id.FirstName, filled)
	g.fillValue(s, ff.middleName, id.MiddleName, filled)
	g.fillValue(s, ff.lastName, id.LastName, filled)
	g.fillValue(s, ff.address1, id.Address1, filled)
	g.fillValue(s, ff.address2, id.Address2, filled)
	g.fillValue(s, ff.address3, id.Address3, filled)
	g.fillValue(s, ff.city, id.City, filled)
	g.fillValue(s, ff.postalCode, id.PostalCode, filled)
	g.fillValue(s, ff.company, id.Company, filled)
	g.fillValue(s, ff.email, id.Email, filled)
	g.fillValue(s, ff.phone, id.Phone, filled)
	g.fillValue(s, ff.username, id.Username, filled)

	if !g.fillValue(s, ff.state, g.isoState(id.State), filled) {
		g.fillValue(s, ff.state, id.State, filled)
	}
	if !g.fillValue(s, ff.country, g.isoCountry(id.Country), filled) {
		g.fillValue(s, ff.country, id.Country, filled)
	}

	if ff.name != nil && (hasValue(id.FirstName) || hasValue(id.LastName)) {
		g.fillValue(s, ff.name, id.FullName(), filled)
	}
	if ff.address != nil && hasValue(id.Address1) {
		// Если на странице есть отдельные поля для второй и третьей строки, общее поле получает первую.
		address := id.FullAddress()
		if ff.address2 != nil || ff.address3 != nil {
			address = strings.TrimSpace(id.Address1)
		}
		g.fillValue(s, ff.address, address, filled)
	}
	return s
}

// isoState переводит полное название штата или провинции в двухбуквенный код.
func (g *Generator) isoState(state string) string {
	state = strings.TrimSpace(state)
	if len(state) <= 2 {
		return state
	}
	key := strings.ToLower(state)
	if code, ok := g.kw.ISO.States[key]; ok {
		return code
	}
	if code, ok := g.kw.ISO.Provinces[key]; ok {
		return code
	}
	return state
}

func (g *Generator) isoCountry(country string) string {
	country = strings.TrimSpace(country)
	if len(country) <= 2 {
		return country
	}
	if code, ok := g.kw.ISO.Countries[strings.ToLower(country)]; ok {
		return code
	}
	return country
}
