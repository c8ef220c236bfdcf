package browser

import (
	"context"
	"fmt"
	"time"

	"autoFill/internal/autofill"
	"autoFill/internal/fillscript"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"
)

const setTextJS = `(el, value) => {
	el.textContent = value;
	el.dispatchEvent(new Event('input', { bubbles: true }));
}`

const submitFormJS = `(form) => {
	if (typeof form.requestSubmit === 'function') {
		form.requestSubmit();
	} else {
		form.submit();
	}
}`

// SendFillScript исполняет сценарий во фрейме frameID. Фрейм, сменивший адрес
// после сбора снимка, не заполняется.
func (b *PlaywrightBrowser) SendFillScript(ctx context.Context, tab autofill.Tab, frameID int, script *fillscript.Script, pageURL string) error {
	page := b.getPage()
	if page == nil {
		return fmt.Errorf("браузер не запущен")
	}
	if tab.ID != tabID {
		return fmt.Errorf("неизвестная вкладка %d", tab.ID)
	}

	frames := page.Frames()
	if frameID < 0 || frameID >= len(frames) {
		return fmt.Errorf("фрейм %d не найден", frameID)
	}
	frame := frames[frameID]
	if pageURL != "" && frame.URL() != pageURL {
		return fmt.Errorf("фрейм %d сменил адрес: %s", frameID, frame.URL())
	}

	pause := time.Duration(script.Properties.DelayBetweenOperations) * time.Millisecond
	var last string
	for i, action := range script.Script {
		if i > 0 {
			if err := sleep(ctx, pause); err != nil {
				return err
			}
		}
		if err := b.apply(ctx, frame, action); err != nil {
			return fmt.Errorf("действие %d (%s %s): %w", i, action.Op, action.OPID, err)
		}
		if action.Op == fillscript.OpFill {
			last = action.OPID
		}
	}

	if err := b.autosubmit(frame, script.Autosubmit, last); err != nil {
		return err
	}

	b.log.Debug("Сценарий исполнен",
		zap.Int("frame", frameID),
		zap.Int("actions", len(script.Script)),
		zap.Int("autosubmit", len(script.Autosubmit)),
	)
	return nil
}

func (b *PlaywrightBrowser) apply(ctx context.Context, frame playwright.Frame, a fillscript.Action) error {
	timeout := playwright.Float(float64(b.cfg.ActionTimeout.Milliseconds()))

	switch a.Op {
	case fillscript.OpDelay:
		return sleep(ctx, time.Duration(a.Delay)*time.Millisecond)
	case fillscript.OpClick:
		return b.field(frame, a.OPID).Click(playwright.LocatorClickOptions{Timeout: timeout})
	case fillscript.OpFocus:
		return b.field(frame, a.OPID).Focus(playwright.LocatorFocusOptions{Timeout: timeout})
	case fillscript.OpFill:
		return b.fill(frame, a.OPID, a.Value, timeout)
	}
	return fmt.Errorf("неизвестное действие %d", a.Op)
}

func (b *PlaywrightBrowser) fill(frame playwright.Frame, opid, value string, timeout *float64) error {
	loc := b.field(frame, opid)
	tag, err := loc.Evaluate(`el => el.tagName.toLowerCase() + ':' + (el.type || '')`, nil)
	if err != nil {
		return err
	}

	switch tag {
	case "span:":
		_, err = loc.Evaluate(setTextJS, value)
		return err
	case "select:select-one", "select:select-multiple":
		_, err = loc.SelectOption(playwright.SelectOptionValues{Values: &[]string{value}},
			playwright.LocatorSelectOptionOptions{Timeout: timeout})
		return err
	case "input:checkbox", "input:radio":
		// Состояние переключателей меняет click_on_opid.
		return nil
	}
	return loc.Fill(value, playwright.LocatorFillOptions{Timeout: timeout})
}

// autosubmit отправляет формы из сценария. Для полей без формы нажимается Enter
// в последнем заполненном поле.
func (b *PlaywrightBrowser) autosubmit(frame playwright.Frame, targets []string, lastFilled string) error {
	for _, target := range targets {
		if target == fillscript.FormlessTarget {
			if lastFilled == "" {
				continue
			}
			if err := b.field(frame, lastFilled).Press("Enter"); err != nil {
				return fmt.Errorf("ошибка отправки полей без формы: %w", err)
			}
			continue
		}
		form := frame.Locator(fmt.Sprintf(`[data-opid-form=%q]`, target))
		if _, err := form.Evaluate(submitFormJS, nil); err != nil {
			return fmt.Errorf("ошибка отправки формы %s: %w", target, err)
		}
	}
	return nil
}

func (b *PlaywrightBrowser) field(frame playwright.Frame, opid string) playwright.Locator {
	return frame.Locator(fmt.Sprintf(`[%s=%q]`, opidAttr, opid))
}
