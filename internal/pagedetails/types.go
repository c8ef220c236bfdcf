// Package pagedetails описывает снимок страницы (формы и поля), который
// собирает контент-скрипт. Снимок неизменяем после Ingest.
package pagedetails

import (
	"strings"
	"time"
)

// MaxLengthCap - верхняя граница maxLength, как её отдаёт сборщик.
const MaxLengthCap = 999

// Form - метаданные формы страницы.
type Form struct {
	OPID   string `json:"opid"`
	Action string `json:"htmlAction"`
	Method string `json:"htmlMethod"`
	Name   string `json:"htmlName"`
	HTMLID string `json:"htmlID"`
}

// SelectOption - пара (отображаемый текст, значение) элемента <select>.
type SelectOption struct {
	Text  string
	Value string
}

// Field - поле ввода в порядке обхода DOM.
type Field struct {
	OPID          string
	ElementNumber int
	Viewable      bool
	Disabled      bool
	Readonly      bool
	Checked       bool

	Type    string
	TagName string

	HTMLID           string
	HTMLName         string
	HTMLClass        string
	Placeholder      string
	Title            string
	Rel              string
	AutoCompleteType string
	DataSetValues    string

	LabelLeft  string
	LabelRight string
	LabelTop   string
	LabelTag   string
	LabelAria  string
	LabelData  string

	Value     string
	HasValue  bool
	FormID    string
	MaxLength int

	SelectInfo []SelectOption

	// Form - владеющая форма, nil для полей без формы. Заполняется в Ingest.
	Form *Form
}

// Formless сообщает, что поле не принадлежит ни одной форме снимка.
func (f *Field) Formless() bool {
	return f.Form == nil
}

// SameForm сравнивает принадлежность двух полей: обе без формы или одна и та же форма.
func (f *Field) SameForm(other *Field) bool {
	return f.Form == other.Form
}

// IsSpan - пользовательские поля-отображения (span) заполняются без click/focus.
func (f *Field) IsSpan() bool {
	return f.TagName == "span"
}

// IsSelect сообщает, что у поля есть варианты выбора.
func (f *Field) IsSelect() bool {
	return len(f.SelectInfo) > 0
}

// ValueEmpty - пустое или состоящее из пробелов значение.
func (f *Field) ValueEmpty() bool {
	return strings.TrimSpace(f.Value) == ""
}

// Snapshot - полный снимок страницы или фрейма.
type Snapshot struct {
	URL         string
	DocumentURL string
	Title       string
	CollectedAt time.Time

	Forms  map[string]*Form
	Fields []*Field

	// Extra хранит динамические атрибуты (data-stripe, data-recurly...) по opid поля.
	Extra map[string]map[string]string

	byOPID map[string]*Field
}

// Ingest связывает поля с формами и строит индекс по opid.
// Поле со ссылкой на неизвестную форму считается полем без формы.
func (s *Snapshot) Ingest() *Snapshot {
	if s.Forms == nil {
		s.Forms = map[string]*Form{}
	}
	for id, form := range s.Forms {
		if form == nil {
			delete(s.Forms, id)
			continue
		}
		if form.OPID == "" {
			form.OPID = id
		}
	}
	s.byOPID = make(map[string]*Field, len(s.Fields))
	for _, f := range s.Fields {
		if f == nil {
			continue
		}
		f.Form = nil
		if f.FormID != "" {
			if form, ok := s.Forms[f.FormID]; ok {
				f.Form = form
			}
		}
		if f.MaxLength > MaxLengthCap {
			f.MaxLength = MaxLengthCap
		}
		s.byOPID[f.OPID] = f
	}
	return s
}

// FieldByOPID возвращает поле снимка или nil.
func (s *Snapshot) FieldByOPID(opid string) *Field {
	if s.byOPID == nil {
		s.Ingest()
	}
	return s.byOPID[opid]
}

// HasOPID проверяет, что opid присутствует в снимке.
func (s *Snapshot) HasOPID(opid string) bool {
	return s.FieldByOPID(opid) != nil
}

// HasForms сообщает, есть ли на странице хотя бы одна форма.
func (s *Snapshot) HasForms() bool {
	return len(s.Forms) > 0
}

// ExtraAttr возвращает динамический атрибут поля.
func (s *Snapshot) ExtraAttr(opid, name string) string {
	if s.Extra == nil {
		return ""
	}
	return s.Extra[opid][name]
}
