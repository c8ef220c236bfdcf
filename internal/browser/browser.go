package browser

import (
	"context"
	"fmt"
	"os"
	"time"

	"autoFill/internal/autofill"
	"autoFill/internal/logger"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

// tabID - у браузера одна рабочая вкладка.
const tabID = 1

func New(cfg Config, log *logger.Zap) *PlaywrightBrowser {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.NavigateTimeout == 0 {
		cfg.NavigateTimeout = 60 * time.Second
	}
	if cfg.ActionTimeout == 0 {
		cfg.ActionTimeout = 5 * time.Second
	}
	if log == nil {
		log = logger.Nop()
	}

	return &PlaywrightBrowser{
		cfg: cfg,
		log: log,
	}
}

// getPage безопасно возвращает текущую страницу с read lock
func (b *PlaywrightBrowser) getPage() playwright.Page {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.page
}

func (b *PlaywrightBrowser) setPage(page playwright.Page) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.page = page
}

// launchArgs - аргументы запуска и окружение для заданного DISPLAY.
func (b *PlaywrightBrowser) launchArgs() ([]string, map[string]string) {
	var env map[string]string
	if b.cfg.Display != "" {
		env = map[string]string{"DISPLAY": b.cfg.Display}
	}
	return []string{"--no-sandbox"}, env
}

// open запускает Firefox с постоянным профилем (UserDataDir) или без него
// и возвращает рабочую вкладку.
func (b *PlaywrightBrowser) open(pw *playwright.Playwright) (playwright.Page, error) {
	args, env := b.launchArgs()

	if b.cfg.UserDataDir == "" {
		br, err := pw.Firefox.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(b.cfg.Headless),
			Args:     args,
			Env:      env,
		})
		if err != nil {
			return nil, err
		}
		b.mu.Lock()
		b.browser = br
		b.mu.Unlock()
		return br.NewPage()
	}

	bc, err := pw.Firefox.LaunchPersistentContext(b.cfg.UserDataDir, playwright.BrowserTypeLaunchPersistentContextOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		Args:     args,
		Env:      env,
	})
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	b.context = bc
	b.mu.Unlock()

	// профиль может открыться с уже существующей вкладкой
	if pages := bc.Pages(); len(pages) > 0 {
		return pages[0], nil
	}
	return bc.NewPage()
}

// Launch запускает Firefox. С UserDataDir используется постоянный профиль.
func (b *PlaywrightBrowser) Launch(ctx context.Context) error {
	if b.cfg.BrowsersPath != "" {
		if err := os.Setenv("PLAYWRIGHT_BROWSERS_PATH", b.cfg.BrowsersPath); err != nil {
			return err
		}
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("ошибка запуска playwright: %w", err)
	}
	b.pw = pw

	page, err := b.open(pw)
	if err != nil {
		return fmt.Errorf("ошибка запуска браузера: %w", err)
	}
	page.SetDefaultTimeout(float64(b.cfg.Timeout.Milliseconds()))
	b.setPage(page)

	b.log.Info("Браузер запущен", zap.Bool("headless", b.cfg.Headless), zap.Bool("persistent", b.cfg.UserDataDir != ""))
	return nil
}

func (b *PlaywrightBrowser) Navigate(ctx context.Context, url string) error {
	page := b.getPage()
	if page == nil {
		return fmt.Errorf("браузер не запущен")
	}

	navCtx, cancel := context.WithTimeout(ctx, b.cfg.NavigateTimeout)
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		_, err := page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateNetworkidle,
			Timeout:   playwright.Float(float64(b.cfg.NavigateTimeout.Milliseconds())),
		})
		errChan <- err
	}()

	select {
	case <-navCtx.Done():
		return fmt.Errorf("navigate timeout after %v", b.cfg.NavigateTimeout)
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	b.log.Debug("Страница открыта", zap.String("url", page.URL()))
	return nil
}

// Tab описывает рабочую вкладку с её текущим адресом.
func (b *PlaywrightBrowser) Tab() autofill.Tab {
	tab := autofill.Tab{ID: tabID}
	if page := b.getPage(); page != nil {
		tab.URL = page.URL()
	}
	return tab
}

func (b *PlaywrightBrowser) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.context != nil {
		if err := b.context.Close(); err != nil {
			return err
		}
	}
	if b.browser != nil {
		if err := b.browser.Close(); err != nil {
			return err
		}
	}
	if b.pw != nil {
		return b.pw.Stop()
	}
	return nil
}
