// Package cli - интерактивная консоль: открыть страницу, заполнить её
// записью из хранилища, посмотреть классификацию полей.
package cli

import (
	"bufio"
	"context"
	"errors"
	"io"
	"os"
	"strings"

	"autoFill/internal/autofill"
	"autoFill/internal/browser"
	"autoFill/internal/cipher"
	"autoFill/internal/cli/commands"
	"autoFill/internal/cli/ui"
	"autoFill/internal/logger"
	"autoFill/internal/qualify"

	"github.com/chzyer/readline"
)

type CLI struct {
	log             *logger.Zap
	rl              *readline.Instance
	browserHandler  *commands.BrowserHandler
	fillHandler     *commands.FillHandler
	classifyHandler *commands.ClassifyHandler
}

func New(log *logger.Zap, br browser.Browser, svc *autofill.Service, eval *qualify.Evaluator) *CLI {
	c := &CLI{
		log:             log,
		browserHandler:  commands.NewBrowserHandler(br),
		fillHandler:     commands.NewFillHandler(br, svc),
		classifyHandler: commands.NewClassifyHandler(br, eval),
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "> ",
		HistoryFile:     ".autofill-history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Warn("Не удалось инициализировать readline, будет использован fallback режим")
	} else {
		c.rl = rl
	}

	return c
}

func (c *CLI) readLine(reader *bufio.Reader) (string, error) {
	if c.rl != nil {
		return c.rl.Readline()
	}
	print(ui.ColorCyan + "> " + ui.ColorReset)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Run читает команды до exit, EOF или отмены ctx. Браузер закрывается на выходе.
func (c *CLI) Run(ctx context.Context) {
	ui.PrintWelcome()
	defer c.browserHandler.Close()
	if c.rl != nil {
		defer c.rl.Close()
	}

	reader := bufio.NewReader(os.Stdin)
	for {
		select {
		case <-ctx.Done():
			println("\n" + ui.ColorCyan + "Получен сигнал завершения..." + ui.ColorReset)
			return
		default:
		}

		line, err := c.readLine(reader)
		if errors.Is(err, readline.ErrInterrupt) {
			if len(line) == 0 {
				return
			}
			continue
		} else if errors.Is(err, io.EOF) {
			return
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !c.handleCommand(ctx, line) {
			return
		}
	}
}

// handleCommand возвращает false, когда консоль нужно закрыть.
func (c *CLI) handleCommand(ctx context.Context, line string) bool {
	switch {
	case line == "exit":
		println(ui.ColorCyan + "До свидания!" + ui.ColorReset)
		return false

	case line == "clear":
		ui.ClearScreen()

	case strings.HasPrefix(line, "open "):
		c.browserHandler.Open(ctx, strings.TrimSpace(strings.TrimPrefix(line, "open ")))

	case line == "fill":
		c.fillHandler.Fill(ctx, false)

	case line == "next":
		c.fillHandler.Fill(ctx, true)

	case line == "card":
		c.fillHandler.FillActive(ctx, cipher.TypeCard)

	case line == "identity":
		c.fillHandler.FillActive(ctx, cipher.TypeIdentity)

	case line == "classify":
		c.classifyHandler.Classify(ctx)

	default:
		ui.PrintHelp()
	}
	return true
}
