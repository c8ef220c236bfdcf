package autofill

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"autoFill/internal/cipher"
	"autoFill/internal/fillscript"
	"autoFill/internal/pagedetails"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"
)

var now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeCiphers struct {
	launched, lastUsed, next, card, identity *cipher.Cipher
	err                                      error
}

func (f *fakeCiphers) LastLaunchedForURL(context.Context, string) (*cipher.Cipher, error) {
	return f.launched, f.err
}
func (f *fakeCiphers) LastUsedForURL(context.Context, string) (*cipher.Cipher, error) {
	return f.lastUsed, f.err
}
func (f *fakeCiphers) NextForURL(context.Context, string) (*cipher.Cipher, error) {
	return f.next, f.err
}
func (f *fakeCiphers) NextCardCipher(context.Context) (*cipher.Cipher, error) {
	return f.card, f.err
}
func (f *fakeCiphers) NextIdentityCipher(context.Context) (*cipher.Cipher, error) {
	return f.identity, f.err
}

type fakeUsage struct {
	used     []string
	advanced []string
}

func (f *fakeUsage) UpdateLastUsed(_ context.Context, id string) error {
	f.used = append(f.used, id)
	return nil
}
func (f *fakeUsage) AdvanceIndex(_ context.Context, url string) error {
	f.advanced = append(f.advanced, url)
	return nil
}

type sent struct {
	frame   int
	script  *fillscript.Script
	pageURL string
}

type fakeDispatcher struct {
	mu     sync.Mutex
	sent   []sent
	failOn map[int]error
}

func (f *fakeDispatcher) SendFillScript(_ context.Context, _ Tab, frameID int, script *fillscript.Script, pageURL string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failOn[frameID]; err != nil {
		return err
	}
	f.sent = append(f.sent, sent{frame: frameID, script: script, pageURL: pageURL})
	return nil
}

type fakeReprompt struct{ opened []RepromptRequest }

func (f *fakeReprompt) OpenReprompt(_ context.Context, req RepromptRequest) error {
	f.opened = append(f.opened, req)
	return nil
}

type fakeEvents struct{ ids []string }

func (f *fakeEvents) Collect(_ context.Context, _ EventType, id string) error {
	f.ids = append(f.ids, id)
	return nil
}

type fakeTotp string

func (f fakeTotp) Code(string) (string, error) { return string(f), nil }

type env struct {
	svc        *Service
	ciphers    *fakeCiphers
	usage      *fakeUsage
	dispatcher *fakeDispatcher
	reprompt   *fakeReprompt
	events     *fakeEvents
}

func newEnv(t *testing.T, mutate func(*Deps)) *env {
	t.Helper()
	e := &env{
		ciphers:    &fakeCiphers{},
		usage:      &fakeUsage{},
		dispatcher: &fakeDispatcher{failOn: map[int]error{}},
		reprompt:   &fakeReprompt{},
		events:     &fakeEvents{},
	}
	deps := Deps{
		Ciphers:    e.ciphers,
		Usage:      e.usage,
		Dispatcher: e.dispatcher,
		Reprompt:   e.reprompt,
		Events:     e.events,
		Totp:       fakeTotp("123456"),
		Settings:   StaticSettings{CopyTotp: true},
	}
	if mutate != nil {
		mutate(&deps)
	}
	e.svc = New(deps, Options{
		RepromptDebounce: time.Hour,
		Delay:            77,
		Now:              func() time.Time { return now },
	}, nil)
	return e
}

var tab = &Tab{ID: 1, URL: "https://example.com/login"}

func loginPage(url string) *pagedetails.Snapshot {
	s := &pagedetails.Snapshot{
		URL:   url,
		Forms: map[string]*pagedetails.Form{"f": {OPID: "f"}},
		Fields: []*pagedetails.Field{
			{OPID: "__0", ElementNumber: 0, Type: "text", HTMLName: "username", FormID: "f", Viewable: true},
			{OPID: "__1", ElementNumber: 1, Type: "password", HTMLName: "password", FormID: "f", Viewable: true},
		},
	}
	return s.Ingest()
}

func frame(id int, details *pagedetails.Snapshot) PageDetails {
	return PageDetails{FrameID: id, Tab: *tab, Details: details}
}

func login(id string) *cipher.Cipher {
	return &cipher.Cipher{
		ID:   id,
		Type: cipher.TypeLogin,
		Name: id,
		Login: &cipher.Login{
			Username: "user-" + id,
			Password: "pw",
			URIs:     []cipher.LoginURI{{URI: "https://example.com"}},
		},
	}
}

func TestDoAutoFillNothingToAutofill(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	pages := []PageDetails{frame(0, loginPage(tab.URL))}

	_, err := e.svc.DoAutoFill(ctx, Request{Cipher: login("a"), Pages: pages})
	assert.ErrorIs(t, err, ErrNothingToAutofill)
	_, err = e.svc.DoAutoFill(ctx, Request{Tab: tab, Pages: pages})
	assert.ErrorIs(t, err, ErrNothingToAutofill)
	_, err = e.svc.DoAutoFill(ctx, Request{Tab: tab, Cipher: login("a")})
	assert.ErrorIs(t, err, ErrNothingToAutofill)
}

func TestDoAutoFillDispatchesMatchingFrames(t *testing.T) {
	e := newEnv(t, nil)
	other := frame(1, loginPage(tab.URL))
	other.Tab = Tab{ID: 2, URL: tab.URL}

	code, err := e.svc.DoAutoFill(context.Background(), Request{
		Tab:    tab,
		Cipher: login("a"),
		Pages:  []PageDetails{frame(0, loginPage(tab.URL)), other},
	})
	require.NoError(t, err)
	assert.Empty(t, code)

	require.Len(t, e.dispatcher.sent, 1)
	assert.Equal(t, 0, e.dispatcher.sent[0].frame)
	assert.Equal(t, tab.URL, e.dispatcher.sent[0].pageURL)
	assert.Equal(t, 77, e.dispatcher.sent[0].script.Properties.DelayBetweenOperations)
	assert.Equal(t, []string{"a"}, e.usage.used)
	assert.Equal(t, []string{"a"}, e.events.ids)
}

func TestDoAutoFillSkipLastUsed(t *testing.T) {
	e := newEnv(t, nil)

	_, err := e.svc.DoAutoFill(context.Background(), Request{
		Tab: tab, Cipher: login("a"), Pages: []PageDetails{frame(0, loginPage(tab.URL))}, SkipLastUsed: true,
	})
	require.NoError(t, err)
	assert.Empty(t, e.usage.used)
}

func TestDoAutoFillNoActions(t *testing.T) {
	e := newEnv(t, nil)
	empty := (&pagedetails.Snapshot{URL: tab.URL}).Ingest()

	_, err := e.svc.DoAutoFill(context.Background(), Request{
		Tab: tab, Cipher: login("a"), Pages: []PageDetails{frame(0, empty)}, SkipUsernameOnlyFill: true,
	})
	assert.ErrorIs(t, err, ErrDidNotAutofill)
	assert.Empty(t, e.events.ids)
}

func TestDoAutoFillBlocksUntrustedIframe(t *testing.T) {
	e := newEnv(t, nil)
	pages := []PageDetails{frame(3, loginPage("https://evil.test/frame"))}

	_, err := e.svc.DoAutoFill(context.Background(), Request{Tab: tab, Cipher: login("a"), Pages: pages})
	assert.ErrorIs(t, err, ErrDidNotAutofill)
	assert.Empty(t, e.dispatcher.sent)

	_, err = e.svc.DoAutoFill(context.Background(), Request{
		Tab: tab, Cipher: login("a"), Pages: pages, AllowUntrustedIframe: true,
	})
	require.NoError(t, err)
	require.Len(t, e.dispatcher.sent, 1)
	assert.Equal(t, 3, e.dispatcher.sent[0].frame)
}

func TestDoAutoFillEquivalentDomainsFollowFrameURL(t *testing.T) {
	groups := cipher.EquivalentDomains{{"bank.example", "bankcorp.example"}}
	e := newEnv(t, func(d *Deps) {
		d.Settings = StaticSettings{Equivalents: groups}
	})
	bankTab := &Tab{ID: 1, URL: "https://bank.example/login"}
	c := login("a")
	c.Login.URIs = []cipher.LoginURI{{URI: "https://bank.example"}}
	in := func(id int, url string) PageDetails {
		return PageDetails{FrameID: id, Tab: *bankTab, Details: loginPage(url)}
	}

	_, err := e.svc.DoAutoFill(context.Background(), Request{
		Tab: bankTab, Cipher: c, Pages: []PageDetails{in(1, "https://evil.example/frame")},
	})
	assert.ErrorIs(t, err, ErrDidNotAutofill)
	assert.Empty(t, e.dispatcher.sent)

	_, err = e.svc.DoAutoFill(context.Background(), Request{
		Tab: bankTab, Cipher: c, Pages: []PageDetails{in(2, "https://login.bankcorp.example/frame")},
	})
	require.NoError(t, err)
	require.Len(t, e.dispatcher.sent, 1)
	assert.Equal(t, 2, e.dispatcher.sent[0].frame)
}

func TestDoAutoFillAggregatesDispatchErrors(t *testing.T) {
	e := newEnv(t, nil)
	e.dispatcher.failOn[0] = errors.New("frame gone")
	e.dispatcher.failOn[2] = errors.New("navigated")

	_, err := e.svc.DoAutoFill(context.Background(), Request{
		Tab:    tab,
		Cipher: login("a"),
		Pages:  []PageDetails{frame(0, loginPage(tab.URL)), frame(1, loginPage(tab.URL)), frame(2, loginPage(tab.URL))},
	})
	require.Error(t, err)

	errs := multierr.Errors(err)
	require.Len(t, errs, 2)
	var fe *FillError
	require.ErrorAs(t, errs[1], &fe)
	assert.Equal(t, ErrorKindDispatch, fe.Kind)
	assert.Equal(t, 2, fe.Frame)
	assert.Contains(t, err.Error(), "dispatch (frame 0): frame gone")

	require.Len(t, e.dispatcher.sent, 1, "остальные фреймы всё равно заполняются")
	assert.Equal(t, 1, e.dispatcher.sent[0].frame)
	assert.Empty(t, e.events.ids)
}

func totpLogin() *cipher.Cipher {
	c := login("t")
	c.Login.Totp = "JBSWY3DPEHPK3PXP"
	return c
}

func TestDoAutoFillReturnsTotpForPremium(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.Premium = StaticPremium(true) })

	code, err := e.svc.DoAutoFill(context.Background(), Request{
		Tab: tab, Cipher: totpLogin(), Pages: []PageDetails{frame(0, loginPage(tab.URL)), frame(1, loginPage(tab.URL))},
	})
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestDoAutoFillTotpRequiresPremiumOrOrganization(t *testing.T) {
	e := newEnv(t, nil)
	c := totpLogin()

	code, err := e.svc.DoAutoFill(context.Background(), Request{Tab: tab, Cipher: c, Pages: []PageDetails{frame(0, loginPage(tab.URL))}})
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Equal(t, "JBSWY3DPEHPK3PXP", c.Login.Totp, "исходная запись не меняется")

	c.OrganizationUseTotp = true
	code, err = e.svc.DoAutoFill(context.Background(), Request{Tab: tab, Cipher: c, Pages: []PageDetails{frame(0, loginPage(tab.URL))}})
	require.NoError(t, err)
	assert.Equal(t, "123456", code)
}

func TestDoAutoFillTotpNotCopiedWhenDisabled(t *testing.T) {
	e := newEnv(t, func(d *Deps) {
		d.Premium = StaticPremium(true)
		d.Settings = StaticSettings{CopyTotp: false}
	})

	code, err := e.svc.DoAutoFill(context.Background(), Request{Tab: tab, Cipher: totpLogin(), Pages: []PageDetails{frame(0, loginPage(tab.URL))}})
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestDoAutoFillFrameFailureDropsCode(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.Premium = StaticPremium(true) })
	e.dispatcher.failOn[0] = errors.New("frame gone")
	e.ciphers.next = totpLogin()
	pages := []PageDetails{frame(0, loginPage(tab.URL)), frame(1, loginPage(tab.URL))}

	code, err := e.svc.DoAutoFill(context.Background(), Request{Tab: tab, Cipher: totpLogin(), Pages: pages})
	require.Error(t, err)
	assert.Empty(t, code)
	require.Len(t, e.dispatcher.sent, 1)

	code, err = e.svc.DoAutoFillOnTab(context.Background(), pages, tab, true, false)
	require.Error(t, err)
	assert.Empty(t, code)
	assert.Empty(t, e.usage.advanced, "перебор не сдвигается после сбоя")
}

func TestOnTabPageLoadPrefersRecentlyLaunched(t *testing.T) {
	e := newEnv(t, nil)
	launched := login("launched")
	launched.LastLaunched = now.Add(-10 * time.Second)
	e.ciphers.launched = launched
	e.ciphers.lastUsed = login("used")

	_, err := e.svc.DoAutoFillOnTab(context.Background(), []PageDetails{frame(0, loginPage(tab.URL))}, tab, false, false)
	require.NoError(t, err)

	require.Len(t, e.dispatcher.sent, 1)
	assert.Contains(t, e.dispatcher.sent[0].script.Script, fillscript.Fill("__0", "user-launched"))
	assert.Empty(t, e.usage.used, "при загрузке страницы дата использования не меняется")
	assert.Empty(t, e.usage.advanced)
}

func TestOnTabPageLoadFallsBackToLastUsed(t *testing.T) {
	e := newEnv(t, nil)
	launched := login("launched")
	launched.LastLaunched = now.Add(-time.Minute)
	e.ciphers.launched = launched
	e.ciphers.lastUsed = login("used")

	_, err := e.svc.DoAutoFillOnTab(context.Background(), []PageDetails{frame(0, loginPage(tab.URL))}, tab, false, false)
	require.NoError(t, err)

	require.Len(t, e.dispatcher.sent, 1)
	assert.Contains(t, e.dispatcher.sent[0].script.Script, fillscript.Fill("__0", "user-used"))
}

func TestOnTabNoCipher(t *testing.T) {
	e := newEnv(t, nil)

	code, err := e.svc.DoAutoFillOnTab(context.Background(), []PageDetails{frame(0, loginPage(tab.URL))}, tab, false, false)
	require.NoError(t, err)
	assert.Empty(t, code)
	assert.Empty(t, e.dispatcher.sent)

	_, err = e.svc.DoAutoFillOnTab(context.Background(), nil, nil, true, false)
	assert.ErrorIs(t, err, ErrNothingToAutofill)
}

func TestOnTabFromCommandAdvancesRotation(t *testing.T) {
	e := newEnv(t, nil)
	e.ciphers.next = login("next")

	_, err := e.svc.DoAutoFillOnTab(context.Background(), []PageDetails{frame(0, loginPage(tab.URL))}, tab, true, true)
	require.NoError(t, err)

	assert.Equal(t, []string{"next"}, e.usage.used)
	assert.Equal(t, []string{tab.URL}, e.usage.advanced)
	require.Len(t, e.dispatcher.sent, 1)
	assert.Equal(t, []string{"f"}, e.dispatcher.sent[0].script.Autosubmit)
}

func TestOnTabLookupError(t *testing.T) {
	e := newEnv(t, nil)
	e.ciphers.err = errors.New("db down")

	_, err := e.svc.DoAutoFillOnTab(context.Background(), nil, tab, false, false)
	var fe *FillError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, ErrorKindLookup, fe.Kind)
	assert.Equal(t, "lookup: db down", err.Error())
}

func repromptLogin() *cipher.Cipher {
	c := login("locked")
	c.Reprompt = cipher.RepromptPassword
	return c
}

func TestOnTabRepromptSkipsPageLoad(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.Verifier = StaticVerifier(true) })
	e.ciphers.lastUsed = repromptLogin()

	_, err := e.svc.DoAutoFillOnTab(context.Background(), []PageDetails{frame(0, loginPage(tab.URL))}, tab, false, false)
	require.NoError(t, err)
	assert.Empty(t, e.dispatcher.sent)
	assert.Empty(t, e.reprompt.opened)
}

func TestOnTabRepromptFromCommand(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.Verifier = StaticVerifier(true) })
	e.ciphers.next = repromptLogin()
	pages := []PageDetails{frame(0, loginPage(tab.URL))}

	for i := 0; i < 3; i++ {
		_, err := e.svc.DoAutoFillOnTab(context.Background(), pages, tab, true, false)
		require.NoError(t, err)
	}

	assert.Empty(t, e.dispatcher.sent)
	require.Len(t, e.reprompt.opened, 1, "повторные запросы подавляются")
	assert.Equal(t, "locked", e.reprompt.opened[0].CipherID)
	assert.Equal(t, tab.ID, e.reprompt.opened[0].TabID)
	assert.Equal(t, "autofill", e.reprompt.opened[0].Action)
	assert.Len(t, e.usage.advanced, 3)
}

func TestRepromptNotRequiredWithoutMasterPassword(t *testing.T) {
	e := newEnv(t, func(d *Deps) { d.Verifier = StaticVerifier(false) })

	required, err := e.svc.IsPasswordRepromptRequired(context.Background(), repromptLogin(), tab)
	require.NoError(t, err)
	assert.False(t, required)

	e = newEnv(t, nil)
	required, err = e.svc.IsPasswordRepromptRequired(context.Background(), repromptLogin(), tab)
	require.NoError(t, err)
	assert.False(t, required, "без проверяющего повторный ввод не требуется")
}

func TestRepromptDebounceReleases(t *testing.T) {
	rp := &fakeReprompt{}
	svc := New(Deps{Verifier: StaticVerifier(true), Reprompt: rp}, Options{RepromptDebounce: 10 * time.Millisecond}, nil)

	_, err := svc.IsPasswordRepromptRequired(context.Background(), repromptLogin(), tab)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		svc.mu.Lock()
		defer svc.mu.Unlock()
		return !svc.repromptOpening
	}, time.Second, 5*time.Millisecond)

	_, err = svc.IsPasswordRepromptRequired(context.Background(), repromptLogin(), tab)
	require.NoError(t, err)
	assert.Len(t, rp.opened, 2)
}

func cardPage() *pagedetails.Snapshot {
	s := &pagedetails.Snapshot{
		URL: tab.URL,
		Fields: []*pagedetails.Field{
			{OPID: "__0", Type: "text", HTMLName: "cardnumber", Viewable: true},
		},
	}
	return s.Ingest()
}

func TestActiveTabCard(t *testing.T) {
	e := newEnv(t, nil)
	e.ciphers.card = &cipher.Cipher{ID: "card", Type: cipher.TypeCard, Card: &cipher.Card{Number: "4111"}}

	_, err := e.svc.DoAutoFillActiveTab(context.Background(), []PageDetails{frame(0, cardPage())}, tab, true, cipher.TypeCard)
	require.NoError(t, err)

	require.Len(t, e.dispatcher.sent, 1)
	assert.Equal(t, "card", e.dispatcher.sent[0].script.ItemType)
	assert.Equal(t, []string{"card"}, e.usage.used)
	assert.Empty(t, e.usage.advanced, "перебор карт сдвигает источник записей")
}

func TestActiveTabIdentityAndUnknownKinds(t *testing.T) {
	e := newEnv(t, nil)

	code, err := e.svc.DoAutoFillActiveTab(context.Background(), nil, tab, true, cipher.TypeIdentity)
	require.NoError(t, err)
	assert.Empty(t, code)

	code, err = e.svc.DoAutoFillActiveTab(context.Background(), nil, tab, true, cipher.TypeSecureNote)
	require.NoError(t, err)
	assert.Empty(t, code)
}

func TestActiveTabLoginDelegates(t *testing.T) {
	e := newEnv(t, nil)
	e.ciphers.next = login("next")

	_, err := e.svc.DoAutoFillActiveTab(context.Background(), []PageDetails{frame(0, loginPage(tab.URL))}, tab, true, cipher.TypeLogin)
	require.NoError(t, err)
	assert.Equal(t, []string{tab.URL}, e.usage.advanced)
}

func TestFillErrorFormat(t *testing.T) {
	err := wrap(ErrorKindUsage, -1, fmt.Errorf("boom"))
	assert.Equal(t, "usage: boom", err.Error())
	assert.Nil(t, wrap(ErrorKindUsage, 0, nil))
}
