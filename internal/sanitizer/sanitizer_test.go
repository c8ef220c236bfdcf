package sanitizer

import (
	"testing"

	"autoFill/internal/fillscript"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	s := New()

	cases := []struct {
		name, in, want string
	}{
		{"password", "login password=hunter22 ok", "login password=[FILTERED] ok"},
		{"otpauth", "key otpauth://totp/x?secret=ABC done", "key [FILTERED] done"},
		{"totp secret", "secret: JBSWY3DPEHPK3PXP", "secret=[FILTERED]"},
		{"card", "card 4111 1111 1111 1111", "card [FILTERED]"},
		{"cvv", "cvv=123", "[FILTERED]"},
		{"email", "mail jane@example.com", "mail [FILTERED_EMAIL]"},
		{"phone", "call +7 (912) 345-67-89", "call [FILTERED_PHONE]"},
		{"address", "address: 1 Main Street", "[FILTERED_ADDRESS]"},
		{"plain", "nothing secret here", "nothing secret here"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Sanitize(tc.in))
		})
	}
}

func TestSanitizeValue(t *testing.T) {
	s := New()

	assert.Equal(t, "", s.SanitizeValue(""))
	assert.Equal(t, "true", s.SanitizeValue("true"))
	assert.Equal(t, "false", s.SanitizeValue("false"))
	assert.Equal(t, Filtered, s.SanitizeValue("hunter2"))
}

func TestScriptCopy(t *testing.T) {
	s := New()
	orig := &fillscript.Script{
		Script: []fillscript.Action{
			fillscript.Click("__0"),
			fillscript.Fill("__0", "hunter2"),
			fillscript.Fill("__1", "true"),
			fillscript.Delay(50),
		},
		SavedURLs: []string{"https://example.com/?password=abc123", "https://example.com"},
		ItemType:  "login",
	}

	got := s.Script(orig)
	require.NotNil(t, got)

	assert.Equal(t, []fillscript.Action{
		fillscript.Click("__0"),
		fillscript.Fill("__0", Filtered),
		fillscript.Fill("__1", "true"),
		fillscript.Delay(50),
	}, got.Script)
	assert.Equal(t, []string{"https://example.com/?password=[FILTERED]", "https://example.com"}, got.SavedURLs)
	assert.Equal(t, "login", got.ItemType)

	assert.Equal(t, "hunter2", orig.Script[1].Value, "исходный сценарий не меняется")
	assert.Equal(t, "https://example.com/?password=abc123", orig.SavedURLs[0])

	assert.Nil(t, s.Script(nil))
}
