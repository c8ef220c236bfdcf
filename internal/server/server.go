// Package server отдаёт генератор сценариев и классификатор полей по HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"autoFill/internal/cipher"
	"autoFill/internal/config"
	"autoFill/internal/database"
	"autoFill/internal/fillscript"
	"autoFill/internal/logger"
	"autoFill/internal/pagedetails"
	"autoFill/internal/sanitizer"
)

type Server struct {
	cfg   *config.Cfg
	log   *logger.Zap
	gen   *fillscript.Generator
	usage *database.UsageRepository
	san   *sanitizer.DataSanitizer
}

func New(cfg *config.Cfg, log *logger.Zap, gen *fillscript.Generator, usage *database.UsageRepository) *Server {
	return &Server{
		cfg:   cfg,
		log:   log,
		gen:   gen,
		usage: usage,
		san:   sanitizer.New(),
	}
}

// FillScriptRequest - тело POST /api/fill-script.
type FillScriptRequest struct {
	PageDetails json.RawMessage `json:"pageDetails" binding:"required"`
	Cipher      *cipher.Cipher  `json:"cipher" binding:"required"`
	TabURL      string          `json:"tabUrl"`
	Options     struct {
		OnlyEmptyFields      bool `json:"onlyEmptyFields"`
		OnlyVisibleFields    bool `json:"onlyVisibleFields"`
		FillNewPassword      bool `json:"fillNewPassword"`
		SkipUsernameOnlyFill bool `json:"skipUsernameOnlyFill"`
		AllowTotpAutofill    bool `json:"allowTotpAutofill"`
		AutoSubmitLogin      bool `json:"autoSubmitLogin"`
	} `json:"options"`
}

// ClassifyRequest - тело POST /api/classify.
type ClassifyRequest struct {
	PageDetails json.RawMessage `json:"pageDetails" binding:"required"`
}

// Router собирает маршруты. Вынесен из Run для тестов через httptest.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Info("HTTP",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("elapsed", time.Since(start)),
		)
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/fill-script", s.fillScript)
	api.POST("/classify", s.classify)
	api.POST("/ciphers/:id/launched", s.launched)

	return r
}

func (s *Server) fillScript(c *gin.Context) {
	var req FillScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := pagedetails.DecodeBytes(req.PageDetails)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tabURL := req.TabURL
	if tabURL == "" {
		tabURL = page.URL
	}
	script := s.gen.Generate(page, fillscript.Options{
		Cipher:               req.Cipher,
		TabURL:               tabURL,
		DefaultURIMatch:      cipher.ParseMatchStrategy(s.cfg.Autofill.DefaultURIMatch),
		EquivalentDomains:    cipher.EquivalentDomains(s.cfg.Autofill.EquivalentDomains).For(page.URL),
		OnlyEmptyFields:      req.Options.OnlyEmptyFields,
		OnlyVisibleFields:    req.Options.OnlyVisibleFields,
		FillNewPassword:      req.Options.FillNewPassword,
		SkipUsernameOnlyFill: req.Options.SkipUsernameOnlyFill,
		AllowTotpAutofill:    req.Options.AllowTotpAutofill,
		AutoSubmitLogin:      req.Options.AutoSubmitLogin,
	})
	if script == nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "тип записи не поддерживает автозаполнение"})
		return
	}
	if s.cfg.Autofill.DelayBetweenOperation > 0 {
		script.Properties.DelayBetweenOperations = s.cfg.Autofill.DelayBetweenOperation
	}

	s.log.Debug("Сценарий построен",
		zap.String("cipher", req.Cipher.ID),
		zap.String("url", s.san.Sanitize(tabURL)),
		zap.Any("script", s.san.Script(script)),
	)
	c.JSON(http.StatusOK, script)
}

func (s *Server) classify(c *gin.Context) {
	var req ClassifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	page, err := pagedetails.DecodeBytes(req.PageDetails)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"fields": s.gen.Evaluator().ClassifyPage(page)})
}

// launched отмечает открытие сайта записи: следующая загрузка страницы в
// пределах окна LastLaunchedWindow выберет именно её.
func (s *Server) launched(c *gin.Context) {
	if s.usage == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "учёт использования не настроен"})
		return
	}
	id := c.Param("id")
	if err := s.usage.UpdateLastLaunched(c.Request.Context(), id); err != nil {
		s.log.Error("Ошибка записи last_launched", zap.String("cipher", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "db error"})
		return
	}
	c.Status(http.StatusNoContent)
}

// Run слушает адрес из конфигурации до отмены ctx.
func (s *Server) Run(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%s", s.cfg.Server.Host, s.cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Сервер запущен", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("Остановка сервера")
		return srv.Shutdown(shutdownCtx)
	}
}
