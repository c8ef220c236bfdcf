package pagedetails

// Имена атрибутов поля в формате сборщика.
const (
	AttrHTMLID           = "htmlID"
	AttrHTMLName         = "htmlName"
	AttrHTMLClass        = "htmlClass"
	AttrPlaceholder      = "placeholder"
	AttrTitle            = "title"
	AttrType             = "type"
	AttrAutoCompleteType = "autoCompleteType"
	AttrDataSetValues    = "dataSetValues"
	AttrLabelLeft        = "label-left"
	AttrLabelRight       = "label-right"
	AttrLabelTop         = "label-top"
	AttrLabelTag         = "label-tag"
	AttrLabelAria        = "label-aria"
	AttrLabelData        = "label-data"
	AttrDataStripe       = "data-stripe"
	AttrDataRecurly      = "data-recurly"
)

// Attr возвращает именованный атрибут поля. Неизвестное имя - пустая строка.
func (f *Field) Attr(name string) string {
	switch name {
	case AttrHTMLID:
		return f.HTMLID
	case AttrHTMLName:
		return f.HTMLName
	case AttrHTMLClass:
		return f.HTMLClass
	case AttrPlaceholder:
		return f.Placeholder
	case AttrTitle:
		return f.Title
	case AttrType:
		return f.Type
	case AttrAutoCompleteType:
		return f.AutoCompleteType
	case AttrDataSetValues:
		return f.DataSetValues
	case AttrLabelLeft:
		return f.LabelLeft
	case AttrLabelRight:
		return f.LabelRight
	case AttrLabelTop:
		return f.LabelTop
	case AttrLabelTag:
		return f.LabelTag
	case AttrLabelAria:
		return f.LabelAria
	case AttrLabelData:
		return f.LabelData
	}
	return ""
}

// Attr ищет атрибут сначала среди фиксированных полей, затем в Extra.
func (s *Snapshot) Attr(f *Field, name string) string {
	if v := f.Attr(name); v != "" {
		return v
	}
	return s.ExtraAttr(f.OPID, name)
}
