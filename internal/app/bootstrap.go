package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/gofiber/fiber/v3"

	"teachassist/internal/config"
	"teachassist/internal/delivery/http/middleware"
	"teachassist/internal/delivery/http/routes"
)

type App struct {
	Fiber     *fiber.App
	Container *Container

	stopJobs context.CancelFunc
}

// Bootstrap builds the container, mounts the HTTP surface, and starts the
// websocket hub and reminder job. The returned cleanup stops the background
// work and closes infrastructure.
func Bootstrap(cfg config.Config, logger *log.Logger) (*App, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}

	c, err := NewContainer(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	f := fiber.New(fiber.Config{
		AppName:   cfg.App.AppName,
		BodyLimit: 12 * 1024 * 1024,
	})
	registerGlobalMiddleware(f, logger)
	routes.Register(f, c.Routes)

	jobCtx, stopJobs := context.WithCancel(context.Background())
	go c.Hub.Run()
	if cfg.Reminder.Enabled {
		go c.Reminder.Start(jobCtx)
	}

	app := &App{Fiber: f, Container: c, stopJobs: stopJobs}
	cleanup := func() error {
		stopJobs()
		return c.Close()
	}
	return app, cleanup, nil
}

func registerGlobalMiddleware(app *fiber.App, logger *log.Logger) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(logger).Middleware())
	app.Use(middleware.NewErrorMiddleware(logger).Middleware())
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
