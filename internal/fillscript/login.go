package fillscript

import (
	"autoFill/internal/locator"
	"autoFill/internal/pagedetails"

	"go.uber.org/zap"
)

func (g *Generator) login(s *Script, page *pagedetails.Snapshot, opts Options, filled *filledSet) *Script {
	c := opts.Cipher
	if c.Login == nil {
		return nil
	}
	login := c.Login

	s.SavedURLs = login.SavedURLs()
	s.UntrustedIframe = g.inUntrustedIframe(page.URL, opts)

	passwordFields := g.locator.FindPasswordFields(page, locator.PasswordOptions{
		MustBeEmpty:     opts.OnlyEmptyFields,
		FillNewPassword: opts.FillNewPassword,
	}, opts.OnlyVisibleFields)

	var usernames, passwords, totps []*pagedetails.Field
	allowHidden := !opts.OnlyVisibleFields

	groups := locator.GroupByForm(passwordFields)
	inForms := groups[:0:0]
	for _, grp := range groups {
		if grp.Primary.Form != nil {
			inForms = append(inForms, grp)
		}
	}
	// Пароли без формы используются, только если ни в одной форме пароля нет.
	if len(inForms) == 0 && len(groups) > 0 {
		inForms = groups
	}

	for _, grp := range inForms {
		passwords = append(passwords, grp.Alternates...)
		if u := g.locator.FindUsername(page, grp.Primary, allowHidden); u != nil {
			usernames = append(usernames, u)
		}
		if opts.AllowTotpAutofill {
			if t := g.locator.FindTotp(page, grp.Primary, allowHidden); t != nil {
				totps = append(totps, t)
			}
		}
	}

	if len(passwordFields) == 0 {
		if !opts.SkipUsernameOnlyFill {
			usernames = append(usernames, g.locator.UsernameOnly(page)...)
		}
		if opts.AllowTotpAutofill {
			totps = append(totps, g.locator.TotpOnly(page)...)
		}
	}

	targets := newTargetSet()
	for _, u := range usernames {
		if filled.has(u.OPID) {
			continue
		}
		filled.add(u)
		g.fillByOPID(s, u, login.Username)
		targets.add(u)
	}
	for _, p := range passwords {
		if filled.has(p.OPID) {
			continue
		}
		filled.add(p)
		g.fillByOPID(s, p, login.Password)
		targets.add(p)
	}
	if len(totps) > 0 && c.HasTotp() {
		code := g.totpCode(login.Totp)
		if code != "" {
			for _, t := range totps {
				if filled.has(t.OPID) {
					continue
				}
				filled.add(t)
				g.fillByOPID(s, t, code)
			}
		}
	}

	if opts.AutoSubmitLogin && len(targets.order) > 0 {
		s.Autosubmit = targets.order
	}

	setFocus(s, filled)
	return s
}

func (g *Generator) totpCode(secret string) string {
	if g.totp == nil {
		return ""
	}
	code, err := g.totp.Code(secret)
	if err != nil {
		g.log.Warn("Не удалось получить код TOTP", zap.Error(err))
		return ""
	}
	return code
}

// inUntrustedIframe: адрес фрейма совпадает с адресом вкладки или подходит
// под сохранённые адреса записи - фрейм доверенный.
func (g *Generator) inUntrustedIframe(pageURL string, opts Options) bool {
	if pageURL == opts.TabURL {
		return false
	}
	return !opts.Cipher.Login.MatchesURI(pageURL, opts.EquivalentDomains, opts.DefaultURIMatch)
}

// targetSet - формы для автоотправки в порядке первого появления.
type targetSet struct {
	order []string
	seen  map[string]struct{}
}

func newTargetSet() *targetSet {
	return &targetSet{seen: map[string]struct{}{}}
}

func (t *targetSet) add(f *pagedetails.Field) {
	id := FormlessTarget
	if f.Form != nil {
		id = f.Form.OPID
		if id == "" {
			id = f.FormID
		}
	}
	if _, ok := t.seen[id]; ok {
		return
	}
	t.seen[id] = struct{}{}
	t.order = append(t.order, id)
}
