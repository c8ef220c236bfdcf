package matcher

import (
	"testing"

	"autoFill/internal/keywords"
	"autoFill/internal/pagedetails"

	"github.com/stretchr/testify/assert"
)

func TestExact(t *testing.T) {
	assert.True(t, Exact(" Email ", []string{"email"}))
	assert.True(t, Exact("ПОЧТА", []string{"почта"}))
	assert.False(t, Exact("email address", []string{"email"}))
	assert.False(t, Exact("", []string{""}))
}

func TestFuzzy(t *testing.T) {
	assert.True(t, Fuzzy([]string{"user"}, "Your\nUsername"))
	assert.True(t, Fuzzy([]string{"", "mail"}, "E-Mail"))
	assert.False(t, Fuzzy([]string{"user"}, "password"))
	assert.False(t, Fuzzy(nil, "user"))
	assert.False(t, Fuzzy([]string{"user"}, "  "))
}

func TestFieldIsFuzzyMatchSkipsEmptyAttrs(t *testing.T) {
	f := &pagedetails.Field{Placeholder: "Enter your email"}
	assert.True(t, FieldIsFuzzyMatch(f, []string{"email"}))
	assert.False(t, FieldIsFuzzyMatch(f, []string{"phone"}))
	assert.False(t, FieldIsFuzzyMatch(nil, []string{"email"}))

	// label-right в нечёткое сопоставление не входит.
	assert.False(t, FieldIsFuzzyMatch(&pagedetails.Field{LabelRight: "email"}, []string{"email"}))
}

func TestPropertyMatch(t *testing.T) {
	m := New(nil)
	f := &pagedetails.Field{HTMLID: "B", HTMLName: "Login", Placeholder: "user-name"}

	assert.True(t, m.PropertyMatch(f, pagedetails.AttrHTMLName, keywords.ParseDirective("login")))
	assert.False(t, m.PropertyMatch(f, pagedetails.AttrHTMLName, keywords.ParseDirective("log")))
	assert.True(t, m.PropertyMatch(f, pagedetails.AttrHTMLID, keywords.ParseDirective("csv=a,b")))
	assert.True(t, m.PropertyMatch(f, pagedetails.AttrPlaceholder, keywords.ParseDirective("regex=^user")))
	assert.False(t, m.PropertyMatch(f, pagedetails.AttrPlaceholder, keywords.ParseDirective("regex=([")))
	assert.False(t, m.PropertyMatch(f, pagedetails.AttrTitle, keywords.ParseDirective("login")))

	byID := keywords.ParseDirective("id=b")
	assert.True(t, m.PropertyMatch(f, pagedetails.AttrHTMLID, byID))
	assert.False(t, m.PropertyMatch(f, pagedetails.AttrHTMLName, byID))
}

func TestFindMatchingIndex(t *testing.T) {
	m := New(nil)
	directives := keywords.ParseDirectives([]string{"id=foo", "email"})

	assert.Equal(t, 1, m.FindMatchingIndex(&pagedetails.Field{HTMLName: "foo", LabelTag: "Email"}, directives))
	assert.Equal(t, 0, m.FindMatchingIndex(&pagedetails.Field{HTMLID: "foo"}, directives))
	assert.Equal(t, -1, m.FindMatchingIndex(&pagedetails.Field{HTMLID: "bar"}, directives))
	assert.Equal(t, -1, m.FindMatchingIndex(nil, directives))
}

func TestIsFieldMatch(t *testing.T) {
	assert.True(t, IsFieldMatch("cc-number", []string{"ccnumber"}, nil))
	assert.True(t, IsFieldMatch("billing_cc_number_field", []string{"cc-number"}, nil))
	assert.False(t, IsFieldMatch("billing_cc_number_field", []string{"ccnumber"}, []string{"other"}))
	assert.True(t, IsFieldMatch("ccnumber", []string{"ccnumber"}, []string{"other"}))
	assert.False(t, IsFieldMatch("", []string{"ccnumber"}, nil))
}

func TestAttrValuesContain(t *testing.T) {
	assert.True(t, AttrValuesContain([]string{"", "MM / YY"}, "mm/yy"))
	assert.False(t, AttrValuesContain([]string{"month"}, "mm/yy"))
}

func TestLower(t *testing.T) {
	assert.Equal(t, "äbc", Lower("ÄBC"))
}
