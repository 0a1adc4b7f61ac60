package routes

import (
	"competency-hub/internal/config"
	"competency-hub/internal/database"
	"competency-hub/internal/delivery/http/handler"
	"competency-hub/internal/notify"
	"competency-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

type Registry struct {
	cfg      config.Config
	db       database.DB
	notifier notify.Sink
	hub      *ws.Hub

	health *handler.HealthHandler
}

func NewRegistry(cfg config.Config, db database.DB, notifier notify.Sink, hub *ws.Hub) *Registry {
	return &Registry{
		cfg:      cfg,
		db:       db,
		notifier: notifier,
		hub:      hub,
		health:   handler.NewHealthHandler(),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.registerHealth(app)
	r.registerAPI(app)
}

func (r *Registry) registerHealth(app *fiber.App) {
	r.health.RegisterRoutes(app)
}

func (r *Registry) registerAPI(app *fiber.App) {
	api := app.Group("/api")
	RegisterV1(api.Group("/v1"), r.cfg, r.db, r.notifier, r.hub)
}
