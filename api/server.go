// Package api exposes the tracker state and predictions over HTTP.
package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/kfenech/ferrywatch/api/routes"
	"github.com/kfenech/ferrywatch/infra/logger"
)

// Config defines settings for the HTTP API.
type Config struct {
	Addr string `json:"addr"`
	// AllowOrigins is the CORS allow-list, "*" by default.
	AllowOrigins string `json:"allow_origins"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.AllowOrigins == "" {
		c.AllowOrigins = "*"
	}
}

// Server wraps the fiber app with lifecycle management.
type Server struct {
	cfg Config
	app *fiber.App
	log logger.Logger
}

// NewServer builds the fiber app and mounts all routes.
func NewServer(cfg Config, deps routes.Deps) *Server {
	cfg.SetDefaults()
	log := logger.New("api")
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
	})
	app.Use(NewLogger(log))
	app.Use(cors(cfg.AllowOrigins))

	group := app.Group("/api")
	group.Get("/health", routes.Health)
	routes.VesselsRouter(group.Group("/vessels"), deps)
	routes.TerminalsRouter(group.Group("/terminals"), deps)
	routes.ScheduleRouter(group.Group("/schedule"), deps)
	routes.PushRouter(group.Group("/push"), deps)

	return &Server{cfg: cfg, app: app, log: log}
}

// App returns the underlying fiber app, used by tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Run serves until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		if err := s.app.ShutdownWithTimeout(5 * time.Second); err != nil {
			s.log.Errorf("api shutdown: %v", err)
		}
	}()
	s.log.Infof("api listening on %s", s.cfg.Addr)
	return s.app.Listen(s.cfg.Addr)
}

func cors(allowOrigins string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderAccessControlAllowOrigin, allowOrigins)
		c.Set(fiber.HeaderAccessControlAllowMethods, "GET,POST,DELETE,OPTIONS")
		c.Set(fiber.HeaderAccessControlAllowHeaders, "Content-Type")
		if c.Method() == fiber.MethodOptions {
			return c.SendStatus(fiber.StatusNoContent)
		}
		return c.Next()
	}
}
