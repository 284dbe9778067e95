package api

import (
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// captureLogger records formatted lines per level.
type captureLogger struct {
	infos []string
	warns []string
	errs  []string
}

func (l *captureLogger) Debugf(string, ...any)         {}
func (l *captureLogger) Debugw(string, map[string]any) {}

func (l *captureLogger) Infof(format string, args ...any) {
	l.infos = append(l.infos, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Warnf(format string, args ...any) {
	l.warns = append(l.warns, fmt.Sprintf(format, args...))
}

func (l *captureLogger) Errorf(format string, args ...any) {
	l.errs = append(l.errs, fmt.Sprintf(format, args...))
}

func TestRequestLogger(t *testing.T) {
	log := &captureLogger{}
	app := fiber.New()
	app.Use(NewLogger(log))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/bad", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusBadRequest) })

	if _, err := app.Test(httptest.NewRequest("GET", "/ok", nil)); err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := app.Test(httptest.NewRequest("GET", "/bad", nil)); err != nil {
		t.Fatalf("request: %v", err)
	}

	if len(log.infos) != 1 || !strings.Contains(log.infos[0], "GET /ok") {
		t.Errorf("info lines = %v, want one GET /ok entry", log.infos)
	}
	if len(log.warns) != 1 || !strings.Contains(log.warns[0], "GET /bad") {
		t.Errorf("warn lines = %v, want one GET /bad entry", log.warns)
	}
	if len(log.errs) != 0 {
		t.Errorf("unexpected error lines %v", log.errs)
	}
}
