package realtime

import (
	"context"
	"encoding/json"

	"github.com/ogrusev/bookmart/internal/models"
	"go.uber.org/zap"
)

// Broadcaster pushes serialized events to all live handles of the targeted
// users. Delivery is best-effort: messages to offline users are dropped, a
// dead handle is evicted and never aborts delivery to the others.
type Broadcaster struct {
	registry *Registry
	logger   *zap.Logger
}

// NewBroadcaster creates new Broadcaster instance
func NewBroadcaster(registry *Registry, logger *zap.Logger) *Broadcaster {
	return &Broadcaster{
		registry: registry,
		logger:   logger,
	}
}

// SendToUser pushes the event to every live handle of one user
func (b *Broadcaster) SendToUser(ctx context.Context, userID uint64, event models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	b.sendPayload(ctx, userID, event.Type, payload)
}

// SendToUsers pushes the event to every live handle of each target user
func (b *Broadcaster) SendToUsers(ctx context.Context, userIDs []uint64, event models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	for _, userID := range userIDs {
		b.sendPayload(ctx, userID, event.Type, payload)
	}
}

// SendToAll pushes the event to every connected user
func (b *Broadcaster) SendToAll(ctx context.Context, event models.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("marshal event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	for userID := range b.registry.Snapshot() {
		b.sendPayload(ctx, userID, event.Type, payload)
	}
}

// sendPayload delivers the payload to a snapshot of the user's handles.
// A handle failing to accept the write is treated as disconnected: it is
// closed, evicted and the loop moves on.
func (b *Broadcaster) sendPayload(ctx context.Context, userID uint64, eventType string, payload []byte) {
	for _, h := range b.registry.HandlesFor(userID) {
		if err := h.Send(ctx, payload); err != nil {
			b.logger.Debug("evicting dead handle",
				zap.Uint64("user_id", userID),
				zap.String("type", eventType),
				zap.Error(err))
			b.registry.Unregister(userID, h)
			_ = h.Close()
		}
	}
}
