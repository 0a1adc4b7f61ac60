package app

import (
	"context"
	"log"
	"time"

	"competency-hub/internal/config"
	"competency-hub/internal/database"
	dbpostgres "competency-hub/internal/database/postgres"
	infranotify "competency-hub/internal/infrastructure/notify"
	"competency-hub/internal/notify"
	"competency-hub/internal/ws"
)

// Container holds the process-wide collaborators shared by the HTTP
// server, the sweep scheduler and the batch binaries.
type Container struct {
	Config   config.Config
	DB       database.DB
	Hub      *ws.Hub
	Notifier *notify.Dispatcher

	redisSink *infranotify.RedisSink
}

func NewContainer(cfg config.Config) (*Container, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := dbpostgres.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	hub := ws.NewHub(log.Default())
	redisSink := infranotify.NewRedisSink(cfg.Redis, log.Default())
	dispatcher := notify.NewDispatcher(
		notify.NewLogSink(log.Default()),
		redisSink,
		ws.NewHubSink(hub),
	)

	return &Container{
		Config:    cfg,
		DB:        db,
		Hub:       hub,
		Notifier:  dispatcher,
		redisSink: redisSink,
	}, nil
}

func (c *Container) Close() error {
	if c == nil {
		return nil
	}
	if c.redisSink != nil {
		_ = c.redisSink.Close()
	}
	if c.DB == nil {
		return nil
	}
	return c.DB.Close()
}
