package api

import (
	"crypto/subtle"
	"strings"

	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/veridocai/veridoc/api/mcp"
	"github.com/veridocai/veridoc/pkg/answer"
	"github.com/veridocai/veridoc/pkg/ingest"
)

// Server is the HTTP server for the veridoc pipeline.
type Server struct {
	config   Config
	pipeline *ingest.Pipeline
	answerer *answer.Answerer
	logger   *zap.Logger
	app      *fiber.App
}

// NewServer creates a new API server. The pipeline and answerer are injected
// so they can be shared with other surfaces (CLI, MCP).
func NewServer(config Config, pipeline *ingest.Pipeline, answerer *answer.Answerer, logger *zap.Logger) *Server {
	fiberConfig := fiber.Config{
		DisableStartupMessage: true,
	}
	if config.MaxUploadBytes > 0 {
		fiberConfig.BodyLimit = config.MaxUploadBytes
	}

	app := fiber.New(fiberConfig)

	s := &Server{
		config:   config,
		pipeline: pipeline,
		answerer: answerer,
		logger:   logger,
		app:      app,
	}

	app.Get("/", s.handleLiveness)

	if config.AuthToken != "" {
		app.Use(s.requireBearerToken)
	}

	app.Post("/upload-whitepaper/", s.handleUploadWhitepaper)
	app.Post("/ask-question/", s.handleAskQuestion)

	return s
}

// MountMCP mounts an MCP server's streamable HTTP handler at /mcp.
func (s *Server) MountMCP(m *mcp.Server) {
	s.app.All("/mcp", adaptor.HTTPHandler(m.Handler()))
}

// App returns the underlying fiber app, primarily for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// requireBearerToken rejects requests that do not carry the configured
// bearer token. Constant-time comparison avoids leaking the token length
// position by timing.
func (s *Server) requireBearerToken(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.config.AuthToken)) != 1 {
		return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
			Status: "error",
			Error:  "missing or invalid bearer token",
		})
	}
	return c.Next()
}
