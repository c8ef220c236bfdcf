// Package totp вычисляет текущий одноразовый код по секрету записи.
package totp

import (
	"fmt"
	"strings"
	"time"

	"github.com/pquerna/otp"
	"github.com/pquerna/otp/totp"
)

// Generator выдаёт коды. Секрет - base32 строка или otpauth:// URI.
type Generator struct {
	now func() time.Time
}

func New() *Generator {
	return &Generator{now: time.Now}
}

// NewAt - генератор с фиксированными часами.
func NewAt(now func() time.Time) *Generator {
	return &Generator{now: now}
}

// Code возвращает код на текущий момент.
func (g *Generator) Code(secret string) (string, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", fmt.Errorf("пустой секрет TOTP")
	}

	opts := totp.ValidateOpts{
		Period:    30,
		Digits:    otp.DigitsSix,
		Algorithm: otp.AlgorithmSHA1,
	}

	if strings.HasPrefix(strings.ToLower(secret), "otpauth://") {
		key, err := otp.NewKeyFromURL(secret)
		if err != nil {
			return "", fmt.Errorf("некорректный otpauth URI: %w", err)
		}
		secret = key.Secret()
		if p := key.Period(); p > 0 {
			opts.Period = uint(p)
		}
		if d := key.Digits(); d > 0 {
			opts.Digits = d
		}
		opts.Algorithm = key.Algorithm()
	} else {
		secret = strings.ToUpper(strings.ReplaceAll(secret, " ", ""))
	}

	code, err := totp.GenerateCodeCustom(secret, g.now(), opts)
	if err != nil {
		return "", fmt.Errorf("ошибка генерации кода TOTP: %w", err)
	}
	return code, nil
}
