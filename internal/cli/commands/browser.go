package commands

import (
	"context"
	"fmt"
	"strings"

	"autoFill/internal/browser"
	"autoFill/internal/cli/ui"
)

// BrowserHandler обрабатывает команды браузера
type BrowserHandler struct {
	browser  browser.Browser
	launched bool
}

func NewBrowserHandler(br browser.Browser) *BrowserHandler {
	return &BrowserHandler{browser: br}
}

// Open запускает браузер при первом вызове и открывает URL.
func (h *BrowserHandler) Open(ctx context.Context, url string) {
	if h.browser == nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " Браузер не инициализирован" + ui.ColorReset)
		return
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		url = "https://" + url
	}

	if !h.launched {
		fmt.Println(ui.ColorCyan + ui.IconGlobe + " Запуск браузера..." + ui.ColorReset)
		if err := h.browser.Launch(ctx); err != nil {
			fmt.Printf(ui.ColorRed+ui.IconCross+" Ошибка запуска:"+ui.ColorReset+" %v\n", err)
			return
		}
		h.launched = true
	}

	fmt.Printf(ui.ColorCyan+"Открытие %s..."+ui.ColorReset+"\n", url)
	if err := h.browser.Navigate(ctx, url); err != nil {
		fmt.Printf(ui.ColorRed+ui.IconCross+" Ошибка навигации:"+ui.ColorReset+" %v\n", err)
		return
	}
	fmt.Println(ui.ColorGreen + ui.IconCheckmark + " Страница открыта" + ui.ColorReset)
}

func (h *BrowserHandler) Close() {
	if h.browser == nil || !h.launched {
		return
	}
	if err := h.browser.Close(); err != nil {
		fmt.Printf(ui.ColorRed+ui.IconCross+" Ошибка закрытия браузера:"+ui.ColorReset+" %v\n", err)
		return
	}
	h.launched = false
	fmt.Println(ui.ColorGray + "Браузер закрыт" + ui.ColorReset)
}
