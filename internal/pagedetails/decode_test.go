package pagedetails

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `{
  "title": "Sign in",
  "url": "https://example.com/login",
  "documentUrl": "https://example.com/login",
  "collectedTimestamp": 1700000000000,
  "forms": {
    "__form__0": {"opid": "__form__0", "htmlAction": "/session", "htmlMethod": "post"}
  },
  "fields": [
    {"opid": "__0", "elementNumber": 0, "type": "TEXT", "tagName": "INPUT", "htmlName": "username",
     "viewable": true, "form": "__form__0", "value": "", "label-tag": "Email"},
    {"opid": "__1", "elementNumber": 1, "type": "password", "htmlName": "password",
     "viewable": true, "form": "__form__0", "maxLength": 5000},
    {"opid": "__2", "elementNumber": 2, "type": "select-one", "htmlName": "month", "form": "__form__9",
     "selectInfo": {"options": [["January", "1"], [null, "2"], ["March"]]}},
    {"opid": "__3", "elementNumber": 3, "type": "text", "data-stripe": "number"}
  ]
}`

func TestDecode(t *testing.T) {
	s, err := Decode(strings.NewReader(sample))
	require.NoError(t, err)

	assert.Equal(t, "Sign in", s.Title)
	assert.Equal(t, time.UnixMilli(1700000000000), s.CollectedAt)
	require.Len(t, s.Fields, 4)
	assert.True(t, s.HasForms())

	user := s.FieldByOPID("__0")
	require.NotNil(t, user)
	assert.Equal(t, "text", user.Type)
	assert.Equal(t, "input", user.TagName)
	assert.Equal(t, "Email", user.LabelTag)
	assert.True(t, user.HasValue)
	assert.True(t, user.ValueEmpty())
	require.NotNil(t, user.Form)
	assert.Equal(t, "/session", user.Form.Action)

	pass := s.FieldByOPID("__1")
	assert.False(t, pass.HasValue)
	assert.Equal(t, MaxLengthCap, pass.MaxLength)
	assert.True(t, pass.SameForm(user))

	month := s.FieldByOPID("__2")
	assert.True(t, month.Formless(), "ссылка на неизвестную форму")
	assert.True(t, month.IsSelect())
	assert.Equal(t, []SelectOption{
		{Text: "January", Value: "1"},
		{Text: "", Value: "2"},
		{Text: "March", Value: ""},
	}, month.SelectInfo)

	card := s.FieldByOPID("__3")
	assert.Equal(t, "", card.Attr(AttrDataStripe))
	assert.Equal(t, "number", s.Attr(card, AttrDataStripe))
	assert.Equal(t, "number", s.ExtraAttr("__3", AttrDataStripe))

	assert.False(t, s.HasOPID("__missing"))
}

func TestDecodeElementNumberDefaultsToPosition(t *testing.T) {
	page, err := DecodeBytes([]byte(`{"fields": [
		{"opid": "a", "type": "text"},
		{"opid": "b", "type": "password", "elementNumber": 7},
		{"opid": "c", "type": "text"}
	]}`))
	require.NoError(t, err)

	require.Len(t, page.Fields, 3)
	assert.Equal(t, 0, page.Fields[0].ElementNumber)
	assert.Equal(t, 7, page.Fields[1].ElementNumber)
	assert.Equal(t, 2, page.Fields[2].ElementNumber)
}

func TestDecodeBytesErrors(t *testing.T) {
	_, err := DecodeBytes([]byte(`{"fields": [{"opid": "__0"}, {"opid": "__0"}]}`))
	assert.ErrorContains(t, err, "__0")

	_, err = DecodeBytes([]byte(`{"fields": [{"type": "text"}]}`))
	assert.Error(t, err)

	_, err = DecodeBytes([]byte(`not json`))
	assert.Error(t, err)
}

func TestIngestForms(t *testing.T) {
	s := &Snapshot{
		Forms: map[string]*Form{"a": {}, "b": nil},
		Fields: []*Field{
			{OPID: "x", FormID: "a"},
			nil,
			{OPID: "y", FormID: "b"},
		},
	}
	s.Ingest()

	assert.Equal(t, "a", s.Forms["a"].OPID)
	assert.NotContains(t, s.Forms, "b")
	assert.False(t, s.FieldByOPID("x").Formless())
	assert.True(t, s.FieldByOPID("y").Formless())
}

func TestFieldHelpers(t *testing.T) {
	span := &Field{TagName: "span"}
	assert.True(t, span.IsSpan())
	assert.False(t, (&Field{TagName: "input"}).IsSpan())

	assert.True(t, (&Field{Value: "  "}).ValueEmpty())
	assert.False(t, (&Field{Value: "x"}).ValueEmpty())

	assert.Equal(t, "name", (&Field{HTMLName: "name"}).Attr(AttrHTMLName))
	assert.Equal(t, "", (&Field{HTMLName: "name"}).Attr("unknown"))
}
