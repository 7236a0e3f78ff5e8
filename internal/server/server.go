// Package server exposes the orchestrator over HTTP. The transport layer is
// deliberately thin: authentication gates live here, everything after that is
// the orchestrator's job.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"

	"alexa-skill-backend/internal/alexa"
	"alexa-skill-backend/internal/common/config"
	apperrors "alexa-skill-backend/internal/common/errors"
	"alexa-skill-backend/internal/common/logger"
	"alexa-skill-backend/internal/common/observability"
	"alexa-skill-backend/internal/orchestrator"
)

const (
	headerSignature    = "Signature-256"
	headerCertChainURL = "SignatureCertChainUrl"
)

// Server wraps the Fiber app and the webhook pipeline.
type Server struct {
	app    *fiber.App
	cfg    config.Config
	orch   *orchestrator.Orchestrator
	verif  alexa.Verifier
	obs    *observability.Observability
	logger logger.Logger
}

func New(cfg config.Config, orch *orchestrator.Orchestrator, verif alexa.Verifier, obs *observability.Observability, log logger.Logger) *Server {
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Millisecond,
	})
	app.Use(recover.New())

	s := &Server{
		app:    app,
		cfg:    cfg,
		orch:   orch,
		verif:  verif,
		obs:    obs,
		logger: log,
	}

	app.Post("/alexa", s.handleWebhook)
	app.Get("/health", s.handleHealth)
	app.Get("/metrics", adaptor(promhttp.Handler()))

	return s
}

// Listen blocks serving HTTP on the configured port.
func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

// Shutdown drains in-flight requests within the context deadline.
func (s *Server) Shutdown(timeout time.Duration) error {
	return s.app.ShutdownWithTimeout(timeout)
}

// App exposes the underlying Fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

func (s *Server) handleWebhook(c *fiber.Ctx) error {
	start := time.Now()
	body := c.Body()

	if s.cfg.Alexa.VerifySignatures {
		if err := s.verif.Verify(body, c.Get(headerSignature), c.Get(headerCertChainURL)); err != nil {
			s.logger.WithError(err).Warn("rejected unverifiable request", nil)
			s.recordStatus(c, start, "unauthorized")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
	}

	req, err := alexa.ParseRequest(body)
	if err != nil {
		s.logger.WithError(err).Warn("rejected malformed request body", nil)
		s.recordStatus(c, start, "malformed")
		return c.Status(fiber.StatusInternalServerError).JSON(s.orch.Apology())
	}

	if err := alexa.CheckApplicationID(req, s.cfg.Alexa.SkillID); err != nil {
		var stdErr *apperrors.StandardError
		details := ""
		if errors.As(err, &stdErr) {
			details = stdErr.Details
		}
		s.logger.Warn("rejected request for wrong skill id", map[string]interface{}{
			"details": details,
		})
		s.recordStatus(c, start, "unauthorized")
		return c.SendStatus(fiber.StatusUnauthorized)
	}

	envelope := s.orch.Handle(c.UserContext(), req)
	s.recordStatus(c, start, "ok")
	return c.JSON(envelope)
}

func adaptor(h http.Handler) fiber.Handler {
	fastHandler := fasthttpadaptor.NewFastHTTPHandler(h)
	return func(c *fiber.Ctx) error {
		fastHandler(c.Context())
		return nil
	}
}

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": s.cfg.App.Name,
		"version": s.cfg.App.Version,
	})
}

func (s *Server) recordStatus(c *fiber.Ctx, start time.Time, status string) {
	if s.obs == nil {
		return
	}
	ctx := c.UserContext()
	s.obs.RecordRequest(ctx, status)
	s.obs.RecordRequestDuration(ctx, time.Since(start), status)
}
