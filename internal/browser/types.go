package browser

import (
	"context"
	"sync"
	"time"

	"autoFill/internal/autofill"
	"autoFill/internal/fillscript"
	"autoFill/internal/logger"

	"github.com/playwright-community/playwright-go"
)

// Browser - вкладка, из которой собираются снимки и в которой исполняются сценарии.
type Browser interface {
	Launch(ctx context.Context) error
	Navigate(ctx context.Context, url string) error
	Tab() autofill.Tab
	CollectPageDetails(ctx context.Context) ([]autofill.PageDetails, error)
	SendFillScript(ctx context.Context, tab autofill.Tab, frameID int, script *fillscript.Script, pageURL string) error
	Close() error
}

type PlaywrightBrowser struct {
	mu      sync.RWMutex
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	page    playwright.Page
	cfg     Config
	log     *logger.Zap
}

type Config struct {
	Headless     bool
	UserDataDir  string
	BrowsersPath string
	Display      string
	Timeout      time.Duration
	// NavigateTimeout ограничивает Goto, ActionTimeout - одно действие сценария.
	NavigateTimeout time.Duration
	ActionTimeout   time.Duration
}

var _ Browser = (*PlaywrightBrowser)(nil)
