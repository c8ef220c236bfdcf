// Package autofill выбирает запись для вкладки, строит сценарии для всех
// фреймов и передаёт их на исполнение.
package autofill

import (
	"context"
	"fmt"
	"sync"
	"time"

	"autoFill/internal/cipher"
	"autoFill/internal/fillscript"

	"github.com/bep/debounce"
	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const (
	DefaultLastLaunchedWindow = 30 * time.Second
	DefaultRepromptDebounce   = 100 * time.Millisecond
)

// Deps - внешние участники. Verifier, Reprompt, Events и Premium необязательны.
type Deps struct {
	Generator  *fillscript.Generator
	Ciphers    CipherSource
	Usage      UsageStore
	Dispatcher Dispatcher
	Verifier   UserVerifier
	Reprompt   RepromptOpener
	Totp       TotpSource
	Premium    PremiumChecker
	Settings   Settings
	Events     EventCollector
}

// Options - параметры сервиса.
type Options struct {
	LastLaunchedWindow time.Duration
	RepromptDebounce   time.Duration
	Delay              int
	Now                func() time.Time
}

type Service struct {
	deps   Deps
	log    *zap.Logger
	window time.Duration
	delay  int
	now    func() time.Time

	// Единственное общее состояние: окно повторного ввода уже открывается.
	mu              sync.Mutex
	repromptOpening bool
	repromptRelease func(func())
}

func New(deps Deps, opts Options, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if deps.Generator == nil {
		deps.Generator = fillscript.New(fillscript.Config{Logger: log, Totp: deps.Totp})
	}
	if deps.Settings == nil {
		deps.Settings = StaticSettings{}
	}
	if opts.LastLaunchedWindow <= 0 {
		opts.LastLaunchedWindow = DefaultLastLaunchedWindow
	}
	if opts.RepromptDebounce <= 0 {
		opts.RepromptDebounce = DefaultRepromptDebounce
	}
	if opts.Delay <= 0 {
		opts.Delay = fillscript.DefaultDelay
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		deps:            deps,
		log:             log.Named("autofill"),
		window:          opts.LastLaunchedWindow,
		delay:           opts.Delay,
		now:             opts.Now,
		repromptRelease: debounce.New(opts.RepromptDebounce),
	}
}

// DoAutoFill строит и отправляет сценарии во все фреймы текущей вкладки.
// Возвращает код TOTP, если его можно скопировать автоматически, иначе пустую строку.
func (s *Service) DoAutoFill(ctx context.Context, req Request) (string, error) {
	if req.Tab == nil || req.Cipher == nil || len(req.Pages) == 0 {
		return "", ErrNothingToAutofill
	}
	tab := *req.Tab
	c := req.Cipher

	premium, err := s.canAccessPremium(ctx)
	if err != nil {
		return "", err
	}
	if !premium && !c.OrganizationUseTotp && c.HasTotp() {
		c = withoutTotp(c)
	}
	defaultMatch, err := s.deps.Settings.DefaultURIMatch(ctx)
	if err != nil {
		return "", fmt.Errorf("ошибка чтения стратегии сравнения URI: %w", err)
	}
	var (
		errs        error
		didAutofill bool
		code        string
	)
	for _, pd := range req.Pages {
		if pd.Tab.ID != tab.ID || pd.Tab.URL != tab.URL || pd.Details == nil {
			continue
		}
		// эквивалентность считается от адреса фрейма, а не вкладки
		equivalent, err := s.deps.Settings.EquivalentDomains(ctx, pd.Details.URL)
		if err != nil {
			return "", fmt.Errorf("ошибка чтения эквивалентных доменов: %w", err)
		}

		script := s.deps.Generator.Generate(pd.Details, fillscript.Options{
			Cipher:               c,
			TabURL:               tab.URL,
			DefaultURIMatch:      defaultMatch,
			EquivalentDomains:    equivalent,
			OnlyEmptyFields:      req.OnlyEmptyFields,
			OnlyVisibleFields:    req.OnlyVisibleFields,
			FillNewPassword:      req.FillNewPassword,
			SkipUsernameOnlyFill: req.SkipUsernameOnlyFill,
			AllowTotpAutofill:    req.AllowTotpAutofill,
			AutoSubmitLogin:      req.AutoSubmitLogin,
		})
		if !script.HasActions() {
			continue
		}
		if script.UntrustedIframe && !req.AllowUntrustedIframe {
			s.log.Info("Заполнение заблокировано: недоверенный фрейм",
				zap.Int("frame", pd.FrameID), zap.String("page_url", pd.Details.URL))
			continue
		}
		script.Properties.DelayBetweenOperations = s.delay

		if err := s.deps.Dispatcher.SendFillScript(ctx, tab, pd.FrameID, script, pd.Details.URL); err != nil {
			errs = multierr.Append(errs, wrap(ErrorKindDispatch, pd.FrameID, err))
			continue
		}
		didAutofill = true

		if !req.SkipLastUsed && s.deps.Usage != nil {
			if err := s.deps.Usage.UpdateLastUsed(ctx, c.ID); err != nil {
				errs = multierr.Append(errs, wrap(ErrorKindUsage, pd.FrameID, err))
			}
		}

		if code != "" || c.Type != cipher.TypeLogin || !c.HasTotp() || (!premium && !c.OrganizationUseTotp) {
			continue
		}
		code, err = s.totpForClipboard(ctx, c)
		if err != nil {
			errs = multierr.Append(errs, wrap(ErrorKindTotp, pd.FrameID, err))
		}
	}

	if errs != nil {
		return "", errs
	}
	if !didAutofill {
		return "", ErrDidNotAutofill
	}

	if s.deps.Events != nil {
		if err := s.deps.Events.Collect(ctx, EventCipherClientAutofilled, c.ID); err != nil {
			s.log.Warn("Не удалось записать событие", zap.String("cipher_id", c.ID), zap.Error(err))
		}
	}
	s.log.Debug("Заполнение выполнено", zap.String("cipher_id", c.ID), zap.Int("tab", tab.ID))
	return code, nil
}

// DoAutoFillOnTab выбирает запись логина для вкладки. При загрузке страницы берётся
// недавно открытая запись (в пределах окна), иначе последняя использованная.
// По команде берётся следующая запись в переборе.
func (s *Service) DoAutoFillOnTab(ctx context.Context, pages []PageDetails, tab *Tab, fromCommand, autoSubmit bool) (string, error) {
	if tab == nil {
		return "", ErrNothingToAutofill
	}
	var (
		c   *cipher.Cipher
		err error
	)
	if fromCommand {
		c, err = s.deps.Ciphers.NextForURL(ctx, tab.URL)
	} else {
		c, err = s.pageLoadCipher(ctx, tab.URL)
	}
	if err != nil {
		return "", wrap(ErrorKindLookup, -1, err)
	}
	if c == nil || (c.Reprompt == cipher.RepromptPassword && !fromCommand) {
		return "", nil
	}

	required, err := s.IsPasswordRepromptRequired(ctx, c, tab)
	if err != nil {
		return "", err
	}
	if required {
		if fromCommand {
			return "", s.advance(ctx, tab.URL)
		}
		return "", nil
	}

	code, err := s.DoAutoFill(ctx, Request{
		Tab:                  tab,
		Cipher:               c,
		Pages:                pages,
		SkipLastUsed:         !fromCommand,
		SkipUsernameOnlyFill: !fromCommand,
		OnlyEmptyFields:      !fromCommand,
		OnlyVisibleFields:    !fromCommand,
		FillNewPassword:      fromCommand,
		AllowUntrustedIframe: fromCommand,
		AllowTotpAutofill:    fromCommand,
		AutoSubmitLogin:      autoSubmit,
	})
	if err != nil {
		return "", err
	}
	if fromCommand {
		if err := s.advance(ctx, tab.URL); err != nil {
			return code, err
		}
	}
	return code, nil
}

// DoAutoFillActiveTab - заполнение по команде для выбранного типа записи.
// Карты и личные данные перебираются по кругу независимо от адреса.
func (s *Service) DoAutoFillActiveTab(ctx context.Context, pages []PageDetails, tab *Tab, fromCommand bool, kind cipher.Type) (string, error) {
	if tab == nil {
		return "", ErrNothingToAutofill
	}
	if kind == 0 || kind == cipher.TypeLogin {
		return s.DoAutoFillOnTab(ctx, pages, tab, fromCommand, false)
	}

	var (
		c   *cipher.Cipher
		err error
	)
	switch kind {
	case cipher.TypeCard:
		c, err = s.deps.Ciphers.NextCardCipher(ctx)
	case cipher.TypeIdentity:
		c, err = s.deps.Ciphers.NextIdentityCipher(ctx)
	default:
		return "", nil
	}
	if err != nil {
		return "", wrap(ErrorKindLookup, -1, err)
	}
	if c == nil {
		return "", nil
	}

	required, err := s.IsPasswordRepromptRequired(ctx, c, tab)
	if err != nil || required {
		return "", err
	}

	return s.DoAutoFill(ctx, Request{
		Tab:                  tab,
		Cipher:               c,
		Pages:                pages,
		SkipLastUsed:         !fromCommand,
		SkipUsernameOnlyFill: !fromCommand,
		OnlyEmptyFields:      !fromCommand,
		OnlyVisibleFields:    !fromCommand,
		AllowUntrustedIframe: fromCommand,
	})
}

// IsPasswordRepromptRequired открывает окно повторного ввода, если запись этого
// требует и у пользователя есть мастер-пароль. Повторные запросы в пределах
// окна подавления окно не открывают, но ответ остаётся true.
func (s *Service) IsPasswordRepromptRequired(ctx context.Context, c *cipher.Cipher, tab *Tab) (bool, error) {
	if c == nil || c.Reprompt != cipher.RepromptPassword || s.deps.Verifier == nil {
		return false, nil
	}
	has, err := s.deps.Verifier.HasMasterPassword(ctx)
	if err != nil {
		return false, wrap(ErrorKindReprompt, -1, err)
	}
	if !has {
		return false, nil
	}

	if !s.isDebouncingReprompt() && s.deps.Reprompt != nil {
		req := RepromptRequest{ID: uuid.New(), CipherID: c.ID, Action: "autofill"}
		if tab != nil {
			req.TabID = tab.ID
		}
		if err := s.deps.Reprompt.OpenReprompt(ctx, req); err != nil {
			return true, wrap(ErrorKindReprompt, -1, err)
		}
		s.log.Debug("Открыто окно повторного ввода",
			zap.String("request_id", req.ID.String()), zap.String("cipher_id", c.ID))
	}
	return true, nil
}

func (s *Service) isDebouncingReprompt() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.repromptOpening {
		return true
	}
	s.repromptOpening = true
	s.repromptRelease(func() {
		s.mu.Lock()
		s.repromptOpening = false
		s.mu.Unlock()
	})
	return false
}

func (s *Service) pageLoadCipher(ctx context.Context, url string) (*cipher.Cipher, error) {
	launched, err := s.deps.Ciphers.LastLaunchedForURL(ctx, url)
	if err != nil {
		return nil, err
	}
	if launched != nil && !launched.LastLaunched.IsZero() && s.now().Sub(launched.LastLaunched) < s.window {
		return launched, nil
	}
	return s.deps.Ciphers.LastUsedForURL(ctx, url)
}

func (s *Service) advance(ctx context.Context, url string) error {
	if s.deps.Usage == nil {
		return nil
	}
	return wrap(ErrorKindUsage, -1, s.deps.Usage.AdvanceIndex(ctx, url))
}

func (s *Service) canAccessPremium(ctx context.Context) (bool, error) {
	if s.deps.Premium == nil {
		return false, nil
	}
	ok, err := s.deps.Premium.CanAccessPremium(ctx)
	if err != nil {
		return false, fmt.Errorf("ошибка проверки премиум-доступа: %w", err)
	}
	return ok, nil
}

func (s *Service) totpForClipboard(ctx context.Context, c *cipher.Cipher) (string, error) {
	auto, err := s.deps.Settings.AutoCopyTotp(ctx)
	if err != nil || !auto || s.deps.Totp == nil {
		return "", err
	}
	return s.deps.Totp.Code(c.Login.Totp)
}

// withoutTotp - копия записи без секрета TOTP. Исходная запись не меняется.
func withoutTotp(c *cipher.Cipher) *cipher.Cipher {
	cp := *c
	login := *c.Login
	login.Totp = ""
	cp.Login = &login
	return &cp
}
