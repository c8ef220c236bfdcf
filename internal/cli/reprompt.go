package cli

import (
	"context"
	"fmt"

	"autoFill/internal/autofill"
	"autoFill/internal/cli/ui"
	"autoFill/internal/logger"

	"go.uber.org/zap"
)

// Reprompt сообщает в консоль, что запись защищена повторным вводом мастер-пароля.
type Reprompt struct{}

func (Reprompt) OpenReprompt(_ context.Context, req autofill.RepromptRequest) error {
	fmt.Printf(ui.ColorYellow+"Запись %s требует мастер-пароль (запрос %s)"+ui.ColorReset+"\n", req.CipherID, req.ID)
	return nil
}

// Events пишет события аудита в журнал.
type Events struct {
	Log *logger.Zap
}

func (e Events) Collect(_ context.Context, event autofill.EventType, cipherID string) error {
	e.Log.Info("Событие", zap.Int("type", int(event)), zap.String("cipher", cipherID))
	return nil
}
