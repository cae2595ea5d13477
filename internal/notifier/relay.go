package notifier

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	"project-planner-api/internal/metrics"
)

const publishTimeout = 2 * time.Second

// RedisRelay publishes sync events on a redis channel and re-broadcasts every event
// received on it to the local hub, so peers of every process are notified.
type RedisRelay struct {
	client  *redis.Client
	channel string
	hub     *Hub
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time

	// subscribed is true while this process receives the channel
	subscribed atomic.Bool
}

// NewRedisRelay creates a relay over an established client
func NewRedisRelay(client *redis.Client, channel string, hub *Hub, logger *zap.Logger, m *metrics.Metrics) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		hub:     hub,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

// NotifyChange publishes a sync event. The local hub is notified directly when publishing
// fails or when this process is not subscribed to the channel.
func (r *RedisRelay) NotifyChange(ctx context.Context) {
	ev := NewSyncEvent(r.now())
	payload, err := json.Marshal(ev)
	if err != nil {
		r.logger.Error("Failed to encode notification", zap.Error(err))
		return
	}

	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	start := time.Now()
	err = r.client.Publish(pubCtx, r.channel, payload).Err()
	r.metrics.RecordExternalCall("redis", "publish", time.Since(start), err)
	if err != nil {
		r.logger.Warn("Redis publish failed, notifying local subscribers only",
			zap.String("channel", r.channel),
			zap.Error(err),
		)
		r.hub.Broadcast(payload)
		r.metrics.RecordNotification(metrics.NotifyFallback)
		return
	}
	if !r.subscribed.Load() {
		// the publish reached other processes, but none of it comes back here
		r.hub.Broadcast(payload)
		r.metrics.RecordNotification(metrics.NotifyFallback)
		return
	}
	r.metrics.RecordNotification(metrics.NotifyRelay)
}

// Subscribed reports whether events published on the channel reach this process's hub
func (r *RedisRelay) Subscribed() bool {
	return r.subscribed.Load()
}

// Subscribe blocks until the channel subscription is confirmed, then relays
// messages to the hub in the background until ctx is cancelled
func (r *RedisRelay) Subscribe(ctx context.Context) error {
	pubsub := r.client.Subscribe(ctx, r.channel)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}

	r.logger.Info("Subscribed to sync channel", zap.String("channel", r.channel))
	r.subscribed.Store(true)

	go func() {
		defer pubsub.Close()
		defer r.subscribed.Store(false)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if !isSyncEvent(msg.Payload) {
					r.logger.Warn("Ignoring unexpected relay message", zap.String("channel", msg.Channel))
					continue
				}
				r.hub.Broadcast([]byte(msg.Payload))
			}
		}
	}()
	return nil
}

func isSyncEvent(payload string) bool {
	var ev Event
	if err := json.Unmarshal([]byte(payload), &ev); err != nil {
		return false
	}
	return ev.Type == EventTypeSync
}
