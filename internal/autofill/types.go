package autofill

import (
	"context"

	"autoFill/internal/cipher"
	"autoFill/internal/fillscript"
	"autoFill/internal/pagedetails"

	"github.com/google/uuid"
)

// Tab - вкладка, в которой выполняется заполнение.
type Tab struct {
	ID  int
	URL string
}

// PageDetails - снимок одного фрейма вкладки.
type PageDetails struct {
	FrameID int
	Tab     Tab
	Details *pagedetails.Snapshot
}

// Request - параметры одного заполнения.
type Request struct {
	Tab    *Tab
	Cipher *cipher.Cipher
	Pages  []PageDetails

	SkipLastUsed         bool
	SkipUsernameOnlyFill bool
	OnlyEmptyFields      bool
	OnlyVisibleFields    bool
	FillNewPassword      bool
	AllowUntrustedIframe bool
	AllowTotpAutofill    bool
	AutoSubmitLogin      bool
}

// EventType - событие аудита.
type EventType int

const (
	EventCipherClientAutofilled EventType = 1114
)

// RepromptRequest - запрос на открытие окна повторного ввода мастер-пароля.
type RepromptRequest struct {
	ID       uuid.UUID
	CipherID string
	TabID    int
	Action   string
}

// CipherSource выбирает записи для адреса вкладки.
type CipherSource interface {
	LastLaunchedForURL(ctx context.Context, url string) (*cipher.Cipher, error)
	LastUsedForURL(ctx context.Context, url string) (*cipher.Cipher, error)
	NextForURL(ctx context.Context, url string) (*cipher.Cipher, error)
	NextCardCipher(ctx context.Context) (*cipher.Cipher, error)
	NextIdentityCipher(ctx context.Context) (*cipher.Cipher, error)
}

// UsageStore хранит дату последнего использования и индекс перебора по адресу.
type UsageStore interface {
	UpdateLastUsed(ctx context.Context, cipherID string) error
	AdvanceIndex(ctx context.Context, url string) error
}

// Dispatcher передаёт сценарий во фрейм вкладки.
type Dispatcher interface {
	SendFillScript(ctx context.Context, tab Tab, frameID int, script *fillscript.Script, pageURL string) error
}

type UserVerifier interface {
	HasMasterPassword(ctx context.Context) (bool, error)
}

type RepromptOpener interface {
	OpenReprompt(ctx context.Context, req RepromptRequest) error
}

type TotpSource interface {
	Code(secret string) (string, error)
}

type PremiumChecker interface {
	CanAccessPremium(ctx context.Context) (bool, error)
}

type Settings interface {
	AutoCopyTotp(ctx context.Context) (bool, error)
	DefaultURIMatch(ctx context.Context) (cipher.MatchStrategy, error)
	EquivalentDomains(ctx context.Context, url string) (map[string]struct{}, error)
}

type EventCollector interface {
	Collect(ctx context.Context, event EventType, cipherID string) error
}

// StaticSettings - настройки из конфигурации процесса.
type StaticSettings struct {
	CopyTotp    bool
	URIMatch    cipher.MatchStrategy
	Equivalents cipher.EquivalentDomains
}

func (s StaticSettings) AutoCopyTotp(context.Context) (bool, error) {
	return s.CopyTotp, nil
}

func (s StaticSettings) DefaultURIMatch(context.Context) (cipher.MatchStrategy, error) {
	return s.URIMatch, nil
}

func (s StaticSettings) EquivalentDomains(_ context.Context, url string) (map[string]struct{}, error) {
	return s.Equivalents.For(url), nil
}

// StaticPremium - фиксированный ответ о доступе к премиум-функциям.
type StaticPremium bool

func (p StaticPremium) CanAccessPremium(context.Context) (bool, error) {
	return bool(p), nil
}

// StaticVerifier - фиксированный ответ о наличии мастер-пароля.
type StaticVerifier bool

func (v StaticVerifier) HasMasterPassword(context.Context) (bool, error) {
	return bool(v), nil
}
