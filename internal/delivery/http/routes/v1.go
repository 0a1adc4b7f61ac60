package routes

import (
	"competency-hub/internal/config"
	"competency-hub/internal/database"
	v1 "competency-hub/internal/delivery/http/routes/v1"
	"competency-hub/internal/notify"
	"competency-hub/internal/ws"

	"github.com/gofiber/fiber/v3"
)

func RegisterV1(r fiber.Router, cfg config.Config, db database.DB, notifier notify.Sink, hub *ws.Hub) {
	if r == nil {
		return
	}

	v1.Register(r, cfg, db, notifier, hub)
}
