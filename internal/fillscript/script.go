// Package fillscript строит сценарий заполнения: упорядоченный список
// простых действий (click, focus, fill, delay) над полями по их opid.
package fillscript

import (
	"encoding/json"
	"fmt"
)

// Op - вид действия сценария.
type Op int

const (
	OpClick Op = iota + 1
	OpFocus
	OpFill
	OpDelay
)

// String возвращает имя действия в формате исполнителя.
func (o Op) String() string {
	switch o {
	case OpClick:
		return "click_on_opid"
	case OpFocus:
		return "focus_by_opid"
	case OpFill:
		return "fill_by_opid"
	case OpDelay:
		return "delay"
	default:
		return "unknown"
	}
}

func parseOp(s string) (Op, error) {
	switch s {
	case "click_on_opid":
		return OpClick, nil
	case "focus_by_opid":
		return OpFocus, nil
	case "fill_by_opid":
		return OpFill, nil
	case "delay":
		return OpDelay, nil
	}
	return 0, fmt.Errorf("неизвестное действие сценария: %q", s)
}

// FormlessTarget - значение autosubmit для полей без формы.
const FormlessTarget = "formless"

// Action - одно действие. Delay используется только для OpDelay.
type Action struct {
	Op    Op
	OPID  string
	Value string
	Delay int
}

func Click(opid string) Action { return Action{Op: OpClick, OPID: opid} }
func Focus(opid string) Action { return Action{Op: OpFocus, OPID: opid} }
func Fill(opid, value string) Action {
	return Action{Op: OpFill, OPID: opid, Value: value}
}
func Delay(ms int) Action { return Action{Op: OpDelay, Delay: ms} }

// MarshalJSON кодирует действие кортежем: ["fill_by_opid", opid, value], ["delay", ms].
func (a Action) MarshalJSON() ([]byte, error) {
	switch a.Op {
	case OpClick, OpFocus:
		return json.Marshal([]any{a.Op.String(), a.OPID})
	case OpFill:
		return json.Marshal([]any{a.Op.String(), a.OPID, a.Value})
	case OpDelay:
		return json.Marshal([]any{a.Op.String(), a.Delay})
	}
	return nil, fmt.Errorf("неизвестное действие сценария: %d", a.Op)
}

func (a *Action) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("действие должно быть массивом: %w", err)
	}
	if len(raw) < 2 {
		return fmt.Errorf("действие короче двух элементов")
	}
	var name string
	if err := json.Unmarshal(raw[0], &name); err != nil {
		return fmt.Errorf("имя действия: %w", err)
	}
	op, err := parseOp(name)
	if err != nil {
		return err
	}
	out := Action{Op: op}
	switch op {
	case OpDelay:
		if err := json.Unmarshal(raw[1], &out.Delay); err != nil {
			return fmt.Errorf("задержка: %w", err)
		}
	default:
		if err := json.Unmarshal(raw[1], &out.OPID); err != nil {
			return fmt.Errorf("opid: %w", err)
		}
		if op == OpFill {
			if len(raw) < 3 {
				return fmt.Errorf("fill_by_opid без значения")
			}
			if err := json.Unmarshal(raw[2], &out.Value); err != nil {
				return fmt.Errorf("значение: %w", err)
			}
		}
	}
	*a = out
	return nil
}

// Properties - подсказки исполнителю.
type Properties struct {
	DelayBetweenOperations int `json:"delay_between_operations,omitempty"`
}

// Script - результат генерации для одного снимка страницы.
type Script struct {
	Script          []Action   `json:"script"`
	Autosubmit      []string   `json:"autosubmit"`
	SavedURLs       []string   `json:"savedUrls"`
	UntrustedIframe bool       `json:"untrustedIframe"`
	ItemType        string     `json:"itemType"`
	Properties      Properties `json:"properties"`
}

func (s *Script) add(a ...Action) {
	s.Script = append(s.Script, a...)
}

// HasActions сообщает, есть ли в сценарии хотя бы одно действие.
func (s *Script) HasActions() bool {
	return s != nil && len(s.Script) > 0
}

// FilledOPIDs - opid полей, получивших fill, в порядке сценария.
func (s *Script) FilledOPIDs() []string {
	if s == nil {
		return nil
	}
	var out []string
	for _, a := range s.Script {
		if a.Op == OpFill {
			out = append(out, a.OPID)
		}
	}
	return out
}
