package cipher

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFullName(t *testing.T) {
	assert.Equal(t, "John Q Public", (&Identity{FirstName: "John", MiddleName: "Q", LastName: "Public"}).FullName())
	assert.Equal(t, "John Public", (&Identity{FirstName: " John ", LastName: "Public"}).FullName())
	assert.Equal(t, "Public", (&Identity{LastName: "Public"}).FullName())
	assert.Equal(t, "", (*Identity)(nil).FullName())
}

func TestFullAddress(t *testing.T) {
	id := &Identity{Address1: "1 Main St", Address3: "Suite 5"}
	assert.Equal(t, "1 Main St, Suite 5", id.FullAddress())
}

func TestLinkedFieldValue(t *testing.T) {
	login := &Cipher{Type: TypeLogin, Login: &Login{Username: "u", Password: "p"}}
	v, ok := login.LinkedFieldValue(LinkedLoginPassword)
	assert.True(t, ok)
	assert.Equal(t, "p", v)

	_, ok = login.LinkedFieldValue(LinkedCardNumber)
	assert.False(t, ok)

	card := &Cipher{Type: TypeCard, Card: &Card{Number: "4111", ExpMonth: "7"}}
	v, ok = card.LinkedFieldValue(LinkedCardExpMonth)
	assert.True(t, ok)
	assert.Equal(t, "7", v)

	identity := &Cipher{Type: TypeIdentity, Identity: &Identity{FirstName: "Ann", LastName: "Lee"}}
	v, ok = identity.LinkedFieldValue(LinkedIdentityFullName)
	assert.True(t, ok)
	assert.Equal(t, "Ann Lee", v)

	_, ok = (&Cipher{Type: TypeCard}).LinkedFieldValue(LinkedCardNumber)
	assert.False(t, ok)
}

func TestHasTotp(t *testing.T) {
	assert.True(t, (&Cipher{Type: TypeLogin, Login: &Login{Totp: "JBSWY3DPEHPK3PXP"}}).HasTotp())
	assert.False(t, (&Cipher{Type: TypeLogin, Login: &Login{}}).HasTotp())
	assert.False(t, (&Cipher{Type: TypeCard}).HasTotp())
}

func TestDecodeVault(t *testing.T) {
	list, err := DecodeVault(strings.NewReader(`[
		{"id": "a", "type": 1, "name": "Example", "login": {"username": "u", "password": "p", "uris": [{"uri": "https://example.com", "match": 1}]}},
		null,
		{"id": "b", "type": 3, "name": "Visa", "card": {"number": "4111111111111111"}}
	]`))
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, TypeLogin, list[0].Type)
	require.NotNil(t, list[0].Login.URIs[0].Match)
	assert.Equal(t, MatchHost, *list[0].Login.URIs[0].Match)
	assert.Equal(t, TypeCard, list[1].Type)

	_, err = DecodeVault(strings.NewReader(`[{"id": "a"}, {"id": "a"}]`))
	assert.Error(t, err)

	_, err = DecodeVault(strings.NewReader(`[{"name": "no id"}]`))
	assert.Error(t, err)
}
