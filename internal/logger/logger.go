// Package logger оборачивает zap и настраивает вывод в зависимости от окружения.
package logger

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Zap встраивает *zap.Logger, чтобы компоненты могли вызывать Info/Warn/Error напрямую.
type Zap struct {
	*zap.Logger
}

// Options задаёт файл для prod окружения. Пустой File отключает запись в файл.
type Options struct {
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New создаёт логгер: dev - цветной консольный вывод, prod - JSON в stdout и в ротируемый файл.
func New(env, level string, opts ...Options) (*Zap, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("некорректный уровень логирования %q: %w", level, err)
	}

	if env != "prod" {
		cfg := zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(lvl)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		l, err := cfg.Build()
		if err != nil {
			return nil, err
		}
		return &Zap{Logger: l}, nil
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoder := zapcore.NewJSONEncoder(encCfg)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), lvl),
	}

	if len(opts) > 0 && opts[0].File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts[0].File,
			MaxSize:    opts[0].MaxSizeMB,
			MaxBackups: opts[0].MaxBackups,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(rotator), lvl))
	}

	return &Zap{Logger: zap.New(zapcore.NewTee(cores...), zap.AddCaller())}, nil
}

// Nop возвращает логгер, который ничего не пишет. Используется в тестах.
func Nop() *Zap {
	return &Zap{Logger: zap.NewNop()}
}
