package app

import (
	"fmt"
	"log"
	"strings"

	"competency-hub/internal/delivery/http/middleware"
	"competency-hub/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

func New(c *Container) *App {
	f := fiber.New(fiber.Config{})

	registerGlobalMiddleware(f)
	go c.Hub.Run()
	routes.NewRegistry(c.Config, c.DB, c.Notifier, c.Hub).Register(f)

	return &App{Fiber: f, Container: c}
}

func Bootstrap(c *Container) (*App, func() error, error) {
	app := New(c)
	return app, c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App) {
	if app == nil {
		return
	}

	errMw := middleware.NewErrorMiddleware()
	accessMw := middleware.NewAccessLogMiddleware(log.Default())
	app.Use(errMw.Middleware())
	app.Use(accessMw.Middleware())
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
