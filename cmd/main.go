package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"autoFill/internal/autofill"
	"autoFill/internal/browser"
	"autoFill/internal/cipher"
	"autoFill/internal/cli"
	"autoFill/internal/config"
	"autoFill/internal/database"
	"autoFill/internal/fillscript"
	"autoFill/internal/keywords"
	"autoFill/internal/logger"
	"autoFill/internal/migrations"
	"autoFill/internal/pagedetails"
	"autoFill/internal/sanitizer"
	"autoFill/internal/server"
	"autoFill/internal/totp"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type app struct {
	cfg *config.Cfg
	log *logger.Zap
	gen *fillscript.Generator
}

func main() {
	a := &app{}

	root := &cobra.Command{
		Use:           "autofill",
		Short:         "Генерация сценариев автозаполнения форм",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.log != nil {
				_ = a.log.Sync()
			}
		},
	}
	root.PersistentFlags().String("keywords", "", "YAML с таблицами ключевых слов вместо встроенных")

	root.AddCommand(a.scriptCmd(), a.classifyCmd(), a.serveCmd(), a.consoleCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Logger.Env, cfg.Logger.Level, logger.Options{
		File:       cfg.Logger.File,
		MaxSizeMB:  cfg.Logger.MaxSizeMB,
		MaxBackups: cfg.Logger.MaxBackups,
	})
	if err != nil {
		return err
	}
	a.log = log

	kw := keywords.Default()
	if path, _ := cmd.Flags().GetString("keywords"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("ошибка чтения ключевых слов: %w", err)
		}
		if kw, err = keywords.Load(data); err != nil {
			return err
		}
	}

	a.gen = fillscript.New(fillscript.Config{
		Keywords: kw,
		Totp:     totp.New(),
		Logger:   log.Logger,
		Delay:    cfg.Autofill.DelayBetweenOperation,
	})
	return nil
}

func (a *app) scriptCmd() *cobra.Command {
	var (
		pagePath, cipherPath, tabURL string
		redact, fromCommand          bool
	)
	cmd := &cobra.Command{
		Use:   "script",
		Short: "Построить сценарий для снимка страницы и записи",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := readPage(pagePath)
			if err != nil {
				return err
			}
			c, err := readCipher(cipherPath)
			if err != nil {
				return err
			}
			if tabURL == "" {
				tabURL = page.URL
			}

			script := a.gen.Generate(page, fillscript.Options{
				Cipher:               c,
				TabURL:               tabURL,
				DefaultURIMatch:      cipher.ParseMatchStrategy(a.cfg.Autofill.DefaultURIMatch),
				EquivalentDomains:    cipher.EquivalentDomains(a.cfg.Autofill.EquivalentDomains).For(page.URL),
				OnlyEmptyFields:      !fromCommand,
				OnlyVisibleFields:    !fromCommand,
				SkipUsernameOnlyFill: !fromCommand,
				FillNewPassword:      fromCommand,
				AllowTotpAutofill:    fromCommand,
			})
			if script == nil {
				return fmt.Errorf("тип записи %s не поддерживает автозаполнение", c.Type)
			}
			if redact {
				script = sanitizer.New().Script(script)
			}
			return printJSON(cmd, script)
		},
	}
	cmd.Flags().StringVar(&pagePath, "page", "", "JSON снимка страницы")
	cmd.Flags().StringVar(&cipherPath, "cipher", "", "JSON записи")
	cmd.Flags().StringVar(&tabURL, "tab-url", "", "адрес вкладки (по умолчанию адрес снимка)")
	cmd.Flags().BoolVar(&redact, "redact", false, "скрыть значения в выводе")
	cmd.Flags().BoolVar(&fromCommand, "command", false, "режим ручного заполнения")
	_ = cmd.MarkFlagRequired("page")
	_ = cmd.MarkFlagRequired("cipher")
	return cmd
}

func (a *app) classifyCmd() *cobra.Command {
	var pagePath string
	cmd := &cobra.Command{
		Use:   "classify",
		Short: "Показать роли полей снимка страницы",
		RunE: func(cmd *cobra.Command, _ []string) error {
			page, err := readPage(pagePath)
			if err != nil {
				return err
			}
			return printJSON(cmd, a.gen.Evaluator().ClassifyPage(page))
		},
	}
	cmd.Flags().StringVar(&pagePath, "page", "", "JSON снимка страницы")
	_ = cmd.MarkFlagRequired("page")
	return cmd
}

func (a *app) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "HTTP API генератора",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close(a.log)

			srv := server.New(a.cfg, a.log, a.gen, database.NewUsageRepository(db.DB))
			return srv.Run(ctx)
		},
	}
}

func (a *app) consoleCmd() *cobra.Command {
	var vaultPath string
	cmd := &cobra.Command{
		Use:   "console",
		Short: "Интерактивное заполнение страниц в браузере",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			ciphers, err := cipher.LoadVault(vaultPath)
			if err != nil {
				return err
			}
			db, err := a.openDB()
			if err != nil {
				return err
			}
			defer db.Close(a.log)

			repo := database.NewUsageRepository(db.DB)
			settings := autofill.StaticSettings{
				CopyTotp:    a.cfg.Autofill.AutoCopyTotp,
				URIMatch:    cipher.ParseMatchStrategy(a.cfg.Autofill.DefaultURIMatch),
				Equivalents: a.cfg.Autofill.EquivalentDomains,
			}

			br := browser.New(browser.Config{
				Headless:     a.cfg.Browser.Headless,
				UserDataDir:  a.cfg.Browser.UserDataDir,
				BrowsersPath: a.cfg.Browser.BrowsersPath,
				Display:      a.cfg.Browser.Display,
			}, a.log)

			svc := autofill.New(autofill.Deps{
				Generator:  a.gen,
				Ciphers:    database.NewVaultSource(ciphers, repo, settings.Equivalents, settings.URIMatch),
				Usage:      repo,
				Dispatcher: br,
				Verifier:   autofill.StaticVerifier(true),
				Reprompt:   cli.Reprompt{},
				Totp:       totp.New(),
				Premium:    autofill.StaticPremium(a.cfg.Autofill.Premium),
				Settings:   settings,
				Events:     cli.Events{Log: a.log},
			}, autofill.Options{
				LastLaunchedWindow: a.cfg.Autofill.LastLaunchedWindow,
				RepromptDebounce:   a.cfg.Autofill.RepromptDebounce,
				Delay:              a.cfg.Autofill.DelayBetweenOperation,
			}, a.log.Logger)

			a.log.Info("Хранилище загружено", zap.Int("ciphers", len(ciphers)))
			cli.New(a.log, br, svc, a.gen.Evaluator()).Run(ctx)
			return nil
		},
	}
	cmd.Flags().StringVar(&vaultPath, "vault", "vault.json", "JSON со списком записей")
	return cmd
}

func (a *app) openDB() (*database.DB, error) {
	if err := migrations.Run(a.cfg, a.log); err != nil {
		return nil, fmt.Errorf("ошибка миграций: %w", err)
	}
	db, err := database.New(a.cfg, a.log)
	if err != nil {
		return nil, fmt.Errorf("ошибка подключения к БД: %w", err)
	}
	return db, nil
}

func readPage(path string) (*pagedetails.Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия снимка: %w", err)
	}
	defer f.Close()
	return pagedetails.Decode(f)
}

func readCipher(path string) (*cipher.Cipher, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ошибка открытия записи: %w", err)
	}
	var c cipher.Cipher
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("ошибка разбора записи: %w", err)
	}
	return &c, nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
