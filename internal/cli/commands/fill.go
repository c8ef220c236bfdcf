package commands

import (
	"context"
	"errors"
	"fmt"

	"autoFill/internal/autofill"
	"autoFill/internal/browser"
	"autoFill/internal/cipher"
	"autoFill/internal/cli/ui"
)

// FillHandler собирает снимок открытой страницы и запускает заполнение.
type FillHandler struct {
	browser browser.Browser
	service *autofill.Service
}

func NewFillHandler(br browser.Browser, svc *autofill.Service) *FillHandler {
	return &FillHandler{browser: br, service: svc}
}

// Fill - заполнение логином. fromCommand включает перебор записей для адреса.
func (h *FillHandler) Fill(ctx context.Context, fromCommand bool) {
	pages, tab, ok := h.collect(ctx)
	if !ok {
		return
	}
	code, err := h.service.DoAutoFillOnTab(ctx, pages, &tab, fromCommand, false)
	h.report(code, err)
}

// FillActive - заполнение картой или анкетой.
func (h *FillHandler) FillActive(ctx context.Context, kind cipher.Type) {
	pages, tab, ok := h.collect(ctx)
	if !ok {
		return
	}
	code, err := h.service.DoAutoFillActiveTab(ctx, pages, &tab, true, kind)
	h.report(code, err)
}

func (h *FillHandler) collect(ctx context.Context) ([]autofill.PageDetails, autofill.Tab, bool) {
	if h.browser == nil || h.service == nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " Заполнение не настроено" + ui.ColorReset)
		return nil, autofill.Tab{}, false
	}
	pages, err := h.browser.CollectPageDetails(ctx)
	if err != nil {
		fmt.Printf(ui.ColorRed+ui.IconCross+" Ошибка сбора страницы:"+ui.ColorReset+" %v\n", err)
		return nil, autofill.Tab{}, false
	}
	return pages, h.browser.Tab(), true
}

func (h *FillHandler) report(code string, err error) {
	switch {
	case errors.Is(err, autofill.ErrDidNotAutofill):
		fmt.Println(ui.ColorYellow + "Подходящих полей не найдено" + ui.ColorReset)
	case errors.Is(err, autofill.ErrNothingToAutofill):
		fmt.Println(ui.ColorYellow + "Нет записи или страницы для заполнения" + ui.ColorReset)
	case err != nil:
		fmt.Printf(ui.ColorRed+ui.IconCross+" Ошибка заполнения:"+ui.ColorReset+" %v\n", err)
	default:
		fmt.Println(ui.ColorGreen + ui.IconCheckmark + " Страница заполнена" + ui.ColorReset)
		if code != "" {
			fmt.Printf(ui.ColorCyan+"Код TOTP: %s"+ui.ColorReset+"\n", code)
		}
	}
}
