package fillscript

import (
	"strconv"
	"strings"

	"autoFill/internal/cipher"
	"autoFill/internal/matcher"
	"autoFill/internal/pagedetails"
)

type cardFields struct {
	holder, number, exp, expMonth, expYear, code, brand *pagedetails.Field
}

func (g *Generator) card(s *Script, page *pagedetails.Snapshot, c *cipher.Cipher, filled *filledSet) *Script {
	if c.Card == nil {
		return nil
	}
	card := c.Card
	kw := g.kw.Card
	var ff cardFields

	for _, f := range page.Fields {
		if f == nil || g.eval.ForCustomFieldsOnly(f) || g.eval.IsExcludedType(f) || !f.Viewable {
			continue
		}
		for _, attr := range kw.Attributes {
			v := page.Attr(f, attr)
			if v == "" {
				continue
			}
			if ff.holder == nil && matcher.IsFieldMatch(v, kw.Holder, kw.HolderValues) {
				ff.holder = f
				break
			}
			if ff.number == nil && matcher.IsFieldMatch(v, kw.Number, kw.NumberValues) {
				ff.number = f
				break
			}
			if ff.exp == nil && matcher.IsFieldMatch(v, kw.Expiry, kw.ExpiryValues) {
				ff.exp = f
				break
			}
			if ff.expMonth == nil && matcher.IsFieldMatch(v, kw.Month, nil) {
				ff.expMonth = f
				break
			}
			if ff.expYear == nil && matcher.IsFieldMatch(v, kw.Year, nil) {
				ff.expYear = f
				break
			}
			if ff.code == nil && matcher.IsFieldMatch(v, kw.CVV, nil) {
				ff.code = f
				break
			}
			if ff.brand == nil && matcher.IsFieldMatch(v, kw.Brand, nil) {
				ff.brand = f
				break
			}
		}
	}

	g.fillValue(s, ff.holder, card.CardholderName, filled)
	g.fillValue(s, ff.number, card.Number, filled)
	g.fillValue(s, ff.code, card.Code, filled)
	g.fillValue(s, ff.brand, card.Brand, filled)

	if ff.expMonth != nil && hasValue(card.ExpMonth) && !filled.has(ff.expMonth.OPID) {
		filled.add(ff.expMonth)
		g.fillByOPID(s, ff.expMonth, g.expMonthValue(page, ff.expMonth, card.ExpMonth))
	}
	if ff.expYear != nil && hasValue(card.ExpYear) && !filled.has(ff.expYear.OPID) {
		filled.add(ff.expYear)
		g.fillByOPID(s, ff.expYear, g.expYearValue(page, ff.expYear, card.ExpYear))
	}
	if ff.exp != nil && hasValue(card.ExpMonth) && hasValue(card.ExpYear) {
		g.fillValue(s, ff.exp, g.expDateValue(page, ff.exp, card.ExpMonth, card.ExpYear), filled)
	}
	return s
}

// expMonthValue: для списка из 12 или 13 вариантов месяц берётся по индексу
// (13-й вариант - пустой заголовок в начале или в конце), иначе ищется точное
// совпадение текста или значения. Для текстового поля на два символа добавляется ноль.
func (g *Generator) expMonthValue(page *pagedetails.Snapshot, f *pagedetails.Field, month string) string {
	month = strings.TrimSpace(month)
	if f.IsSelect() {
		opts := f.SelectInfo
		n, err := strconv.Atoi(month)
		if err == nil {
			index := -1
			switch len(opts) {
			case 12:
				index = n - 1
			case 13:
				if opts[0].Text != "" && opts[12].Text == "" {
					index = n - 1
				} else {
					index = n
				}
			}
			if index >= 0 && index < len(opts) && opts[index].Value != "" {
				return opts[index].Value
			}
		}
		for _, o := range opts {
			if sameMonth(o.Value, month) || sameMonth(o.Text, month) {
				if o.Value != "" {
					return o.Value
				}
				return o.Text
			}
		}
		return month
	}
	if len(month) == 1 && (g.attrsContain(page, f, "mm") || f.MaxLength == 2) {
		return "0" + month
	}
	return month
}

func sameMonth(candidate, month string) bool {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" {
		return false
	}
	if candidate == month {
		return true
	}
	a, errA := strconv.Atoi(candidate)
	b, errB := strconv.Atoi(month)
	return errA == nil && errB == nil && a == b
}

// expYearValue: для списка ищется полный год в тексте или значении, двухзначное значение
// для четырёхзначного года и составное значение "x:year", которое сохраняется как есть.
// Для текстового поля год расширяется до yyyy или сокращается до yy по подсказке поля.
func (g *Generator) expYearValue(page *pagedetails.Snapshot, f *pagedetails.Field, year string) string {
	year = strings.TrimSpace(year)
	if f.IsSelect() {
		for _, o := range f.SelectInfo {
			if o.Text == year || o.Value == year {
				return o.Value
			}
			if len(o.Value) == 2 && len(year) == 4 && o.Value == year[2:] {
				return o.Value
			}
			if i := strings.Index(o.Value, ":"); i > -1 && len(o.Value) > i+1 {
				if tail := strings.TrimSpace(o.Value[i+1:]); tail != "" && tail == year {
					return o.Value
				}
			}
		}
		return year
	}
	switch {
	case g.attrsContain(page, f, "yyyy") || f.MaxLength == 4:
		if len(year) == 2 {
			return "20" + year
		}
	case g.attrsContain(page, f, "yy") || f.MaxLength == 2:
		if len(year) == 4 {
			return year[2:]
		}
	}
	return year
}

// expDateValue собирает месяц и год в одно значение по шаблону из атрибутов поля.
// Без распознанного шаблона - yyyy-mm.
func (g *Generator) expDateValue(page *pagedetails.Snapshot, f *pagedetails.Field, month, year string) string {
	month = strings.TrimSpace(month)
	if len(month) == 1 {
		month = "0" + month
	}
	fullYear := strings.TrimSpace(year)
	partYear := ""
	switch len(fullYear) {
	case 2:
		partYear = fullYear
		fullYear = "20" + fullYear
	case 4:
		partYear = fullYear[2:]
	}

	for _, t := range g.kw.Card.ExpiryTemplates {
		for _, sep := range g.kw.Card.ExpirySeparators {
			switch {
			case g.attrsContain(page, f, t.Month+sep+t.YearLong):
				return month + sep + fullYear
			case partYear != "" && g.attrsContain(page, f, t.Month+sep+t.YearShort):
				return month + sep + partYear
			case g.attrsContain(page, f, t.YearLong+sep+t.Month):
				return fullYear + sep + month
			case partYear != "" && g.attrsContain(page, f, t.YearShort+sep+t.Month):
				return partYear + sep + month
			}
		}
	}
	return fullYear + "-" + month
}

// attrsContain проверяет вхождение подстроки в расширенный список карточных атрибутов поля.
func (g *Generator) attrsContain(page *pagedetails.Snapshot, f *pagedetails.Field, needle string) bool {
	values := make([]string, 0, len(g.kw.Card.AttributesExtended))
	for _, attr := range g.kw.Card.AttributesExtended {
		values = append(values, page.Attr(f, attr))
	}
	return matcher.AttrValuesContain(values, needle)
}

// fillValue заполняет поле значением записи. Для select значение должно совпасть
// с текстом или значением варианта, и подставляется значение варианта.
func (g *Generator) fillValue(s *Script, f *pagedetails.Field, value string, filled *filledSet) bool {
	if f == nil || !hasValue(value) || filled.has(f.OPID) {
		return false
	}
	if f.Type == "select-one" && f.IsSelect() {
		matched := false
		for _, o := range f.SelectInfo {
			if strings.EqualFold(o.Text, value) || strings.EqualFold(o.Value, value) {
				if o.Value != "" {
					value = o.Value
				}
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}
	filled.add(f)
	g.fillByOPID(s, f, value)
	return true
}
