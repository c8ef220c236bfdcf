package commands

import (
	"context"
	"fmt"

	"autoFill/internal/browser"
	"autoFill/internal/cli/ui"
	"autoFill/internal/qualify"
)

// ClassifyHandler печатает роли каждого поля открытой страницы.
type ClassifyHandler struct {
	browser browser.Browser
	eval    *qualify.Evaluator
}

func NewClassifyHandler(br browser.Browser, eval *qualify.Evaluator) *ClassifyHandler {
	return &ClassifyHandler{browser: br, eval: eval}
}

func (h *ClassifyHandler) Classify(ctx context.Context) {
	if h.browser == nil || h.eval == nil {
		fmt.Println(ui.ColorRed + ui.IconCross + " Браузер не инициализирован" + ui.ColorReset)
		return
	}
	pages, err := h.browser.CollectPageDetails(ctx)
	if err != nil {
		fmt.Printf(ui.ColorRed+ui.IconCross+" Ошибка сбора страницы:"+ui.ColorReset+" %v\n", err)
		return
	}
	for _, p := range pages {
		fmt.Printf(ui.ColorBold+"Фрейм %d"+ui.ColorReset+" %s\n", p.FrameID, p.Details.URL)
		for _, roles := range h.eval.ClassifyPage(p.Details) {
			f := p.Details.FieldByOPID(roles.OPID)
			fmt.Printf("  %-8s %-10s %-24s %s\n", roles.OPID, f.Type, f.HTMLName, ui.FormatRoles(roles))
		}
	}
}
