package pagedetails

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"
)

// wireField повторяет JSON, который отдаёт сборщик страницы.
type wireField struct {
	OPID             string  `json:"opid"`
	ElementNumber    *int    `json:"elementNumber"`
	MaxLength        int     `json:"maxLength"`
	Viewable         bool    `json:"viewable"`
	Disabled         bool    `json:"disabled"`
	Readonly         bool    `json:"readonly"`
	Checked          bool    `json:"checked"`
	Type             string  `json:"type"`
	TagName          string  `json:"tagName"`
	HTMLID           string  `json:"htmlID"`
	HTMLName         string  `json:"htmlName"`
	HTMLClass        string  `json:"htmlClass"`
	Placeholder      string  `json:"placeholder"`
	Title            string  `json:"title"`
	Rel              string  `json:"rel"`
	AutoCompleteType string  `json:"autoCompleteType"`
	DataSetValues    string  `json:"dataSetValues"`
	LabelLeft        string  `json:"label-left"`
	LabelRight       string  `json:"label-right"`
	LabelTop         string  `json:"label-top"`
	LabelTag         string  `json:"label-tag"`
	LabelAria        string  `json:"label-aria"`
	LabelData        string  `json:"label-data"`
	Value            *string `json:"value"`
	Form             string  `json:"form"`
	DataStripe       string  `json:"data-stripe"`
	DataRecurly      string  `json:"data-recurly"`
	SelectInfo       *struct {
		Options [][]*string `json:"options"`
	} `json:"selectInfo"`
}

type wireSnapshot struct {
	Title              string           `json:"title"`
	URL                string           `json:"url"`
	DocumentURL        string           `json:"documentUrl"`
	CollectedTimestamp int64            `json:"collectedTimestamp"`
	Forms              map[string]*Form `json:"forms"`
	Fields             []wireField      `json:"fields"`
}

// Decode читает снимок в JSON формате сборщика и связывает поля с формами.
func Decode(r io.Reader) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.NewDecoder(r).Decode(&w); err != nil {
		return nil, fmt.Errorf("ошибка разбора снимка страницы: %w", err)
	}
	return fromWire(&w)
}

// DecodeBytes - вариант Decode для готового буфера.
func DecodeBytes(data []byte) (*Snapshot, error) {
	var w wireSnapshot
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("ошибка разбора снимка страницы: %w", err)
	}
	return fromWire(&w)
}

func fromWire(w *wireSnapshot) (*Snapshot, error) {
	s := &Snapshot{
		URL:         w.URL,
		DocumentURL: w.DocumentURL,
		Title:       w.Title,
		Forms:       w.Forms,
		Fields:      make([]*Field, 0, len(w.Fields)),
	}
	if w.CollectedTimestamp > 0 {
		s.CollectedAt = time.UnixMilli(w.CollectedTimestamp)
	}

	seen := make(map[string]struct{}, len(w.Fields))
	for i := range w.Fields {
		wf := &w.Fields[i]
		if wf.OPID == "" {
			return nil, fmt.Errorf("поле #%d без opid", i)
		}
		if _, dup := seen[wf.OPID]; dup {
			return nil, fmt.Errorf("повторяющийся opid %q", wf.OPID)
		}
		seen[wf.OPID] = struct{}{}

		f := &Field{
			OPID:             wf.OPID,
			ElementNumber:    i,
			Viewable:         wf.Viewable,
			Disabled:         wf.Disabled,
			Readonly:         wf.Readonly,
			Checked:          wf.Checked,
			Type:             strings.ToLower(wf.Type),
			TagName:          strings.ToLower(wf.TagName),
			HTMLID:           wf.HTMLID,
			HTMLName:         wf.HTMLName,
			HTMLClass:        wf.HTMLClass,
			Placeholder:      wf.Placeholder,
			Title:            wf.Title,
			Rel:              wf.Rel,
			AutoCompleteType: wf.AutoCompleteType,
			DataSetValues:    wf.DataSetValues,
			LabelLeft:        wf.LabelLeft,
			LabelRight:       wf.LabelRight,
			LabelTop:         wf.LabelTop,
			LabelTag:         wf.LabelTag,
			LabelAria:        wf.LabelAria,
			LabelData:        wf.LabelData,
			FormID:           wf.Form,
			MaxLength:        wf.MaxLength,
		}
		// без elementNumber порядок задаёт позиция в списке
		if wf.ElementNumber != nil {
			f.ElementNumber = *wf.ElementNumber
		}
		if wf.Value != nil {
			f.Value = *wf.Value
			f.HasValue = true
		}
		if wf.SelectInfo != nil {
			for _, opt := range wf.SelectInfo.Options {
				f.SelectInfo = append(f.SelectInfo, toOption(opt))
			}
		}
		if wf.DataStripe != "" || wf.DataRecurly != "" {
			if s.Extra == nil {
				s.Extra = map[string]map[string]string{}
			}
			extra := map[string]string{}
			if wf.DataStripe != "" {
				extra[AttrDataStripe] = wf.DataStripe
			}
			if wf.DataRecurly != "" {
				extra[AttrDataRecurly] = wf.DataRecurly
			}
			s.Extra[f.OPID] = extra
		}
		s.Fields = append(s.Fields, f)
	}

	return s.Ingest(), nil
}

func toOption(raw []*string) SelectOption {
	var opt SelectOption
	if len(raw) > 0 && raw[0] != nil {
		opt.Text = *raw[0]
	}
	if len(raw) > 1 && raw[1] != nil {
		opt.Value = *raw[1]
	}
	return opt
}
