package notifications

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/rueidis"
	"go.uber.org/zap"
)

// RedisSink publishes events on a Redis channel so that every instance's
// RedisRelay can deliver them to its own sessions.
type RedisSink struct {
	client  rueidis.Client
	channel string
}

func NewRedisSink(client rueidis.Client, channel string) *RedisSink {
	return &RedisSink{
		client:  client,
		channel: channel,
	}
}

func (r *RedisSink) Deliver(ctx context.Context, event HireEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode hire event: %w", err)
	}

	cmd := r.client.B().Publish().Channel(r.channel).Message(string(payload)).Build()
	return r.client.Do(ctx, cmd).Error()
}

type RedisRelay struct {
	client  rueidis.Client
	channel string
	local   Sink
	log     *zap.Logger
}

func NewRedisRelay(client rueidis.Client, channel string, local Sink, log *zap.Logger) *RedisRelay {
	return &RedisRelay{
		client:  client,
		channel: channel,
		local:   local,
		log:     log.Named("redis_relay"),
	}
}

// Run subscribes to the channel and forwards messages to the local sink
// until ctx is cancelled.
func (r *RedisRelay) Run(ctx context.Context) error {
	r.log.Info("subscribing to notifications", zap.String("channel", r.channel))

	cmd := r.client.B().Subscribe().Channel(r.channel).Build()
	err := r.client.Receive(ctx, cmd, func(msg rueidis.PubSubMessage) {
		r.handle(ctx, msg.Message)
	})
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func (r *RedisRelay) handle(ctx context.Context, payload string) {
	var event HireEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		r.log.Warn("discarding malformed notification", zap.Error(err))
		return
	}

	if err := r.local.Deliver(ctx, event); err != nil {
		r.log.Warn("failed to relay notification", zap.String("bid_id", event.BidID), zap.Error(err))
	}
}
