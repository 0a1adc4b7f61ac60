package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"competency-hub/internal/config"
	corenotify "competency-hub/internal/notify"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	queueKeyPrefix = "cdm:notifications:"
	queueTTL       = 30 * 24 * time.Hour
)

// RedisSink pushes notifications onto a per-user Redis list consumed by
// the host application's task inbox. When Redis is unreachable the sink
// degrades to a no-op and warns once; delivery is best effort by
// contract.
type RedisSink struct {
	client *redis.Client
	logger *log.Logger

	warnedUnavailable atomic.Bool
}

func NewRedisSink(cfg config.RedisConfig, logger *log.Logger) *RedisSink {
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "localhost"
	}
	port := strings.TrimSpace(cfg.Port)
	if port == "" {
		port = "6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", host, port),
		Password: strings.TrimSpace(cfg.Password),
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		if logger != nil {
			logger.Printf("[Notify] Redis unavailable, dropping to log-only delivery: %v", err)
		}
		_ = client.Close()
		return &RedisSink{client: nil, logger: logger}
	}

	return &RedisSink{client: client, logger: logger}
}

func (s *RedisSink) Notify(ctx context.Context, userID uuid.UUID, text string) {
	if s == nil || s.client == nil {
		return
	}

	msg := corenotify.Message{
		UserID: userID,
		Text:   text,
		SentAt: time.Now().UTC(),
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}

	key := queueKeyPrefix + userID.String()
	if err := s.client.RPush(ctx, key, payload).Err(); err != nil {
		s.warnUnavailableOnce(err)
		return
	}
	_ = s.client.Expire(ctx, key, queueTTL).Err()
}

func (s *RedisSink) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *RedisSink) warnUnavailableOnce(err error) {
	if s == nil || s.logger == nil {
		return
	}
	if s.warnedUnavailable.CompareAndSwap(false, true) {
		s.logger.Printf("[Notify] Redis delivery failing, notifications degraded: %v", err)
	}
}
