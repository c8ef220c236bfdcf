package fillscript

import (
	"strings"

	"autoFill/internal/cipher"
	"autoFill/internal/keywords"
	"autoFill/internal/locator"
	"autoFill/internal/matcher"
	"autoFill/internal/pagedetails"
	"autoFill/internal/qualify"

	"go.uber.org/zap"
)

// DefaultDelay - пауза между действиями по умолчанию, мс.
const DefaultDelay = 20

// TotpSource выдаёт текущий код по секрету записи.
type TotpSource interface {
	Code(secret string) (string, error)
}

// Options - параметры одной генерации.
type Options struct {
	Cipher          *cipher.Cipher
	TabURL          string
	DefaultURIMatch cipher.MatchStrategy
	// EquivalentDomains - домены, эквивалентные домену адреса снимка (фрейма).
	EquivalentDomains map[string]struct{}

	OnlyEmptyFields      bool
	OnlyVisibleFields    bool
	FillNewPassword      bool
	SkipUsernameOnlyFill bool
	AllowTotpAutofill    bool
	AutoSubmitLogin      bool
}

// Config - зависимости генератора. Нулевые значения заменяются встроенными.
type Config struct {
	Keywords *keywords.Set
	Totp     TotpSource
	Logger   *zap.Logger
	Delay    int
}

// Generator строит сценарии. Не хранит состояния между вызовами.
type Generator struct {
	kw      *keywords.Set
	eval    *qualify.Evaluator
	matcher *matcher.Matcher
	locator *locator.Locator
	totp    TotpSource
	log     *zap.Logger
	delay   int
}

func New(cfg Config) *Generator {
	if cfg.Keywords == nil {
		cfg.Keywords = keywords.Default()
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	eval := qualify.New(cfg.Keywords)
	m := matcher.New(cfg.Logger)
	return &Generator{
		kw:      cfg.Keywords,
		eval:    eval,
		matcher: m,
		locator: locator.New(eval, m),
		totp:    cfg.Totp,
		log:     cfg.Logger.Named("fillscript"),
		delay:   cfg.Delay,
	}
}

// Evaluator - предикаты, которыми пользуется генератор.
func (g *Generator) Evaluator() *qualify.Evaluator {
	return g.eval
}

// Generate строит сценарий для записи. nil - записи нет, тип не поддерживается
// или у записи нет данных своего типа.
func (g *Generator) Generate(page *pagedetails.Snapshot, opts Options) *Script {
	if page == nil || opts.Cipher == nil {
		return nil
	}
	c := opts.Cipher

	s := &Script{
		ItemType:   c.Type.String(),
		Properties: Properties{DelayBetweenOperations: g.delay},
	}
	filled := newFilledSet()
	g.fillCustomFields(s, page, c, filled)

	switch c.Type {
	case cipher.TypeLogin:
		return g.login(s, page, opts, filled)
	case cipher.TypeCard:
		return g.card(s, page, c, filled)
	case cipher.TypeIdentity:
		return g.identity(s, page, c, filled)
	default:
		return nil
	}
}

// fillCustomFields сопоставляет имена пользовательских полей записи с полями страницы.
func (g *Generator) fillCustomFields(s *Script, page *pagedetails.Snapshot, c *cipher.Cipher, filled *filledSet) {
	if len(c.Fields) == 0 {
		return
	}
	names := make([]string, 0, len(c.Fields))
	for _, cf := range c.Fields {
		names = append(names, cf.Name)
	}
	directives := keywords.ParseDirectives(names)

	for _, f := range page.Fields {
		if f == nil || filled.has(f.OPID) {
			continue
		}
		if !f.Viewable && !f.IsSpan() {
			continue
		}
		if g.eval.IsSearchField(f) {
			continue
		}
		i := g.matcher.FindMatchingIndex(f, directives)
		if i < 0 {
			continue
		}
		cf := c.Fields[i]
		var value string
		switch cf.Type {
		case cipher.FieldLinked:
			v, ok := c.LinkedFieldValue(cf.LinkedID)
			if !ok {
				g.log.Debug("Связанное поле без значения",
					zap.String("field", cf.Name), zap.Int("linked_id", int(cf.LinkedID)))
				continue
			}
			value = v
		case cipher.FieldBoolean:
			value = "false"
			if cf.Value != nil {
				value = *cf.Value
			}
		default:
			if cf.Value != nil {
				value = *cf.Value
			}
		}
		filled.add(f)
		g.fillByOPID(s, f, value)
	}
}

// fillByOPID добавляет действия заполнения одного поля.
// span получает только fill, checkbox меняется кликом при расхождении состояния,
// radio кликается только при истинном значении.
func (g *Generator) fillByOPID(s *Script, f *pagedetails.Field, value string) {
	switch f.Type {
	case "checkbox":
		if g.kw.IsTruthy(value) != f.Checked {
			s.add(Click(f.OPID))
		}
		return
	case "radio":
		if g.kw.IsTruthy(value) {
			s.add(Click(f.OPID))
		}
		return
	}
	if !f.IsSpan() {
		s.add(Click(f.OPID), Focus(f.OPID))
	}
	s.add(Fill(f.OPID, value))
}

// setFocus ставит фокус в конце сценария: последний видимый пароль, иначе
// последнее видимое заполненное поле. Если видимых нет - то же среди всех заполненных.
func setFocus(s *Script, filled *filledSet) {
	if len(filled.order) == 0 {
		return
	}
	pick := func(onlyViewable bool) *pagedetails.Field {
		var last, lastPassword *pagedetails.Field
		for _, f := range filled.order {
			if onlyViewable && !f.Viewable {
				continue
			}
			last = f
			if f.Type == "password" {
				lastPassword = f
			}
		}
		if lastPassword != nil {
			return lastPassword
		}
		return last
	}
	target := pick(true)
	if target == nil {
		target = pick(false)
	}
	if target != nil {
		s.add(Focus(target.OPID))
	}
}

// filledSet - заполненные поля в порядке заполнения. Гарантирует, что opid заполняется один раз.
type filledSet struct {
	order []*pagedetails.Field
	set   map[string]struct{}
}

func newFilledSet() *filledSet {
	return &filledSet{set: map[string]struct{}{}}
}

func (f *filledSet) has(opid string) bool {
	_, ok := f.set[opid]
	return ok
}

func (f *filledSet) add(field *pagedetails.Field) {
	if f.has(field.OPID) {
		return
	}
	f.set[field.OPID] = struct{}{}
	f.order = append(f.order, field)
}

func hasValue(v string) bool {
	return strings.TrimSpace(v) != ""
}
