package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Envelope is the wire form of a push travelling between instances.
type Envelope struct {
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// Broker routes pushes to hub sessions. With Redis configured the message
// takes a round trip through a pub/sub channel so every horizontally scaled
// instance's hub delivers it; without Redis delivery is process-local.
type Broker struct {
	hub     *Hub
	client  *redis.Client
	channel string
	logger  *zap.Logger
	cancel  context.CancelFunc
}

// NewBroker wires a hub to an optional Redis client. client may be nil.
func NewBroker(hub *Hub, client *redis.Client, channel string, logger *zap.Logger) *Broker {
	return &Broker{hub: hub, client: client, channel: channel, logger: logger}
}

// Start begins consuming the Redis channel. No-op without Redis.
func (b *Broker) Start(ctx context.Context) {
	if b.client == nil {
		return
	}
	ctx, b.cancel = context.WithCancel(ctx)
	sub := b.client.Subscribe(ctx, b.channel)

	go func() {
		defer sub.Close() //nolint:errcheck
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					b.logger.Warn("malformed push envelope", zap.Error(err))
					continue
				}
				b.hub.Publish(env.UserID, env.Payload)
			}
		}
	}()
}

// Stop tears down the Redis subscription.
func (b *Broker) Stop() {
	if b.cancel != nil {
		b.cancel()
	}
}

// Push delivers payload to the user's sessions. Via Redis when configured
// (the local hub receives it through its own subscription), directly
// otherwise. Failures are swallowed: push is best effort by contract.
func (b *Broker) Push(ctx context.Context, userID string, payload []byte) {
	if b.client == nil {
		b.hub.Publish(userID, payload)
		return
	}
	raw, err := json.Marshal(Envelope{UserID: userID, Payload: payload})
	if err != nil {
		return
	}
	if err := b.client.Publish(ctx, b.channel, raw).Err(); err != nil {
		b.logger.Warn("push publish failed, delivering locally", zap.Error(err))
		b.hub.Publish(userID, payload)
	}
}
