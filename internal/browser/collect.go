package browser

import (
	"context"
	"fmt"

	"autoFill/internal/autofill"
	"autoFill/internal/pagedetails"

	"go.uber.org/zap"
)

// opidAttr - атрибут, которым сборщик помечает поля. По нему исполнитель находит элемент.
const opidAttr = "data-opid"

// collectorJS обходит документ фрейма, присваивает полям opid и возвращает
// снимок страницы строкой JSON.
const collectorJS = `() => {
	const cap = 999;
	const text = (s) => (s || '').replace(/\s+/g, ' ').trim();
	const attr = (el, name) => el.getAttribute(name) || '';

	const forms = {};
	Array.from(document.querySelectorAll('form')).forEach((form, i) => {
		let opid = form.getAttribute('data-opid-form');
		if (!opid) {
			opid = '__form__' + i;
			form.setAttribute('data-opid-form', opid);
		}
		forms[opid] = {
			opid: opid,
			htmlAction: attr(form, 'action'),
			htmlMethod: attr(form, 'method'),
			htmlName: attr(form, 'name'),
			htmlID: attr(form, 'id'),
		};
	});

	const isViewable = (el) => {
		const rect = el.getBoundingClientRect();
		const style = window.getComputedStyle(el);
		return style.display !== 'none' &&
			style.visibility !== 'hidden' &&
			style.opacity !== '0' &&
			rect.width > 0 &&
			rect.height > 0;
	};

	const labelTag = (el) => {
		const labels = [];
		if (el.labels) {
			Array.from(el.labels).forEach(l => labels.push(text(l.textContent)));
		}
		if (!labels.length && el.id) {
			document.querySelectorAll('label[for="' + CSS.escape(el.id) + '"]')
				.forEach(l => labels.push(text(l.textContent)));
		}
		return labels.join(' ');
	};

	const siblingText = (el, prev) => {
		let node = prev ? el.previousSibling : el.nextSibling;
		while (node) {
			const t = text(node.textContent);
			if (t) return t.substring(0, 100);
			node = prev ? node.previousSibling : node.nextSibling;
		}
		return '';
	};

	const labelTop = (el) => {
		const cell = el.closest('td');
		if (!cell || !cell.parentElement) return '';
		const row = cell.parentElement.previousElementSibling;
		if (!row) return '';
		const above = row.cells[cell.cellIndex];
		return above ? text(above.textContent) : '';
	};

	const dataSet = (el) => Object.keys(el.dataset || {})
		.filter(k => k !== 'opid')
		.map(k => k + ': ' + el.dataset[k])
		.join(', ');

	const valueOf = (el, type) => {
		if (el.tagName.toLowerCase() === 'span') return text(el.textContent);
		if (type === 'checkbox' || type === 'radio') return el.checked ? el.value || 'on' : '';
		return el.value || '';
	};

	const elements = document.querySelectorAll('input, select, textarea, span[data-bwautofill]');
	const fields = Array.from(elements).map((el, i) => {
		let opid = el.getAttribute('` + opidAttr + `');
		if (!opid) {
			opid = '__' + i;
			el.setAttribute('` + opidAttr + `', opid);
		}
		const tag = el.tagName.toLowerCase();
		const type = tag === 'input' ? (el.type || 'text').toLowerCase() : (tag === 'select' ? 'select-one' : tag);
		const form = el.form ? el.form.getAttribute('data-opid-form') : null;
		let maxLength = typeof el.maxLength === 'number' && el.maxLength > 0 ? el.maxLength : cap;
		if (maxLength > cap) maxLength = cap;

		const field = {
			opid: opid,
			elementNumber: i,
			maxLength: maxLength,
			viewable: isViewable(el),
			disabled: !!el.disabled,
			readonly: !!el.readOnly,
			checked: !!el.checked,
			type: type,
			tagName: tag,
			htmlID: attr(el, 'id'),
			htmlName: attr(el, 'name'),
			htmlClass: attr(el, 'class'),
			placeholder: attr(el, 'placeholder'),
			title: attr(el, 'title'),
			rel: attr(el, 'rel'),
			autoCompleteType: attr(el, 'autocomplete') || attr(el, 'x-autocompletetype'),
			dataSetValues: dataSet(el),
			'label-tag': labelTag(el),
			'label-aria': attr(el, 'aria-label'),
			'label-data': attr(el, 'data-label'),
			'label-left': siblingText(el, true),
			'label-right': siblingText(el, false),
			'label-top': labelTop(el),
			'data-stripe': attr(el, 'data-stripe'),
			'data-recurly': attr(el, 'data-recurly'),
			value: valueOf(el, type),
			form: form,
		};
		if (tag === 'select') {
			field.selectInfo = {
				options: Array.from(el.options).map(o => [text(o.text) || null, o.value || null]),
			};
		}
		return field;
	});

	return JSON.stringify({
		title: document.title,
		url: window.location.href,
		documentUrl: document.location.href,
		collectedTimestamp: Date.now(),
		forms: forms,
		fields: fields,
	});
}`

// CollectPageDetails собирает снимки всех фреймов рабочей вкладки.
// Номер фрейма - его индекс в page.Frames(), главный фрейм имеет номер 0.
func (b *PlaywrightBrowser) CollectPageDetails(ctx context.Context) ([]autofill.PageDetails, error) {
	page := b.getPage()
	if page == nil {
		return nil, fmt.Errorf("браузер не запущен")
	}

	if err := b.WaitForLoadState(ctx, "domcontentloaded"); err != nil {
		return nil, fmt.Errorf("ошибка ожидания загрузки страницы: %w", err)
	}

	tab := b.Tab()
	var out []autofill.PageDetails
	for i, frame := range page.Frames() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		raw, err := frame.Evaluate(collectorJS)
		if err != nil {
			// Фреймы с другого источника или уже закрытые пропускаются.
			b.log.Debug("Фрейм не собран", zap.Int("frame", i), zap.String("url", frame.URL()), zap.Error(err))
			continue
		}
		data, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("сборщик фрейма %d вернул %T вместо строки", i, raw)
		}
		details, err := pagedetails.DecodeBytes([]byte(data))
		if err != nil {
			return nil, fmt.Errorf("фрейм %d: %w", i, err)
		}
		out = append(out, autofill.PageDetails{FrameID: i, Tab: tab, Details: details})
	}

	b.log.Debug("Снимок вкладки собран", zap.String("url", tab.URL), zap.Int("frames", len(out)))
	return out, nil
}
