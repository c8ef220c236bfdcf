package autofill

import (
	"errors"
	"fmt"
)

var (
	// ErrNothingToAutofill - нет вкладки, записи или снимков страницы.
	ErrNothingToAutofill = errors.New("nothing to autofill")
	// ErrDidNotAutofill - генерация прошла, но ни один фрейм не получил действий.
	ErrDidNotAutofill = errors.New("did not autofill")
)

type ErrorKind int

const (
	ErrorKindDispatch ErrorKind = iota
	ErrorKindUsage
	ErrorKindTotp
	ErrorKindReprompt
	ErrorKindLookup
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindDispatch:
		return "dispatch"
	case ErrorKindUsage:
		return "usage"
	case ErrorKindTotp:
		return "totp"
	case ErrorKindReprompt:
		return "reprompt"
	case ErrorKindLookup:
		return "lookup"
	default:
		return "unknown"
	}
}

// FillError - сбой внешнего вызова при заполнении. Frame = -1, если фрейм не при чём.
type FillError struct {
	Kind  ErrorKind
	Frame int
	Err   error
}

func (e *FillError) Error() string {
	if e.Frame >= 0 {
		return fmt.Sprintf("%s (frame %d): %v", e.Kind, e.Frame, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *FillError) Unwrap() error {
	return e.Err
}

func wrap(kind ErrorKind, frame int, err error) error {
	if err == nil {
		return nil
	}
	return &FillError{Kind: kind, Frame: frame, Err: err}
}
