package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLoadsEmbeddedTables(t *testing.T) {
	s := Default()
	require.NotNil(t, s)
	assert.Same(t, s, Default())

	assert.Contains(t, s.Login.Username, "username")
	assert.Contains(t, s.Login.Totp, "totp")
	assert.Equal(t, "one-time-code", s.Autocomplete.Totp)
	assert.NotEmpty(t, s.Card.Attributes)
	assert.NotEmpty(t, s.Identity.Attributes)
	assert.NotEmpty(t, s.ISO.Countries)
	assert.Len(t, s.UsernameDirectives, len(s.Login.Username))
	assert.Len(t, s.TotpDirectives, len(s.Login.Totp)+len(s.Login.AmbiguousTotp))
}

func TestTypeSets(t *testing.T) {
	s := Default()
	assert.True(t, s.IsExcludedType("checkbox"))
	assert.True(t, s.IsExcludedType("submit"))
	assert.False(t, s.IsExcludedType("password"))
	assert.True(t, s.IsExcludedLoginType("hidden"))
	assert.False(t, s.IsExcludedLoginType("checkbox"))
	assert.True(t, s.IsUsernameType("email"))
	assert.False(t, s.IsUsernameType("password"))
	assert.True(t, s.IsSearchKeyword("search"))
}

func TestIsTruthy(t *testing.T) {
	s := Default()
	for _, v := range []string{"true", "Y", " 1 ", "yes", "✓"} {
		assert.True(t, s.IsTruthy(v), v)
	}
	for _, v := range []string{"", "false", "no", "0", "on"} {
		assert.False(t, s.IsTruthy(v), v)
	}
}

func TestAllTotpIncludesAmbiguous(t *testing.T) {
	s := Default()
	all := s.AllTotp()
	assert.Contains(t, all, "totp")
	assert.Contains(t, all, "code")
	assert.Len(t, all, len(s.Login.Totp)+len(s.Login.AmbiguousTotp))
}

func TestUnionKeywordsAreUnique(t *testing.T) {
	s := Default()
	for _, list := range [][]string{s.CreditCardKeywords(), s.IdentityKeywords()} {
		seen := map[string]bool{}
		for _, v := range list {
			assert.False(t, seen[v], "повтор %q", v)
			seen[v] = true
		}
		assert.NotEmpty(t, list)
	}
}

func TestLoadNormalizes(t *testing.T) {
	s, err := Load([]byte(`
login:
  username: [" UserName "]
types:
  excluded: [Hidden]
truthy: ["YES"]
iso:
  countries:
    United States: US
`))
	require.NoError(t, err)
	assert.Equal(t, []string{"username"}, s.Login.Username)
	assert.True(t, s.IsExcludedType("hidden"))
	assert.True(t, s.IsTruthy("yes"))
	assert.Equal(t, "US", s.ISO.Countries["united states"])
}

func TestLoadRejectsIncompleteTables(t *testing.T) {
	_, err := Load([]byte(`login: {}`))
	assert.Error(t, err)

	_, err = Load([]byte(`login: [`))
	assert.Error(t, err)
}

func TestParseDirective(t *testing.T) {
	d := ParseDirective(" UserName ")
	assert.Equal(t, Plain, d.Kind)
	assert.Equal(t, "username", d.Value)

	d = ParseDirective("regex=^User")
	assert.Equal(t, Regex, d.Kind)
	require.NotNil(t, d.Pattern)
	assert.True(t, d.Pattern.MatchString("username"))

	d = ParseDirective("regex=([")
	assert.Equal(t, Regex, d.Kind)
	assert.Error(t, d.Err)
	assert.Nil(t, d.Pattern)

	d = ParseDirective("csv=A, b ,c")
	assert.Equal(t, CSV, d.Kind)
	assert.Equal(t, []string{"a", "b", "c"}, d.Values)

	d = ParseDirective("ID=login")
	assert.Equal(t, Attribute, d.Kind)
	assert.Equal(t, []string{"htmlID"}, d.Attrs)
	require.NotNil(t, d.Inner)
	assert.Equal(t, Plain, d.Inner.Kind)
	assert.Equal(t, "login", d.Inner.Value)

	d = ParseDirective("label=regex=^e-?mail")
	assert.Equal(t, Attribute, d.Kind)
	assert.Contains(t, d.Attrs, "label-tag")
	require.NotNil(t, d.Inner)
	assert.Equal(t, Regex, d.Inner.Kind)

	d = ParseDirective("name=regex=([")
	assert.Error(t, d.Err)
}

func TestDirectiveKindString(t *testing.T) {
	assert.Equal(t, "plain", Plain.String())
	assert.Equal(t, "csv", CSV.String())
	assert.Equal(t, "unknown", DirectiveKind(99).String())
}
