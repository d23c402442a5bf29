package session

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/p-n-ai/inkwell/internal/notify"
)

const publishTimeout = 2 * time.Second

// Broadcaster publishes snapshots as JSON on the hub topic named after the
// session id.
type Broadcaster struct {
	hub notify.Hub
}

// NewBroadcaster creates an Observer publishing to hub.
func NewBroadcaster(hub notify.Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) Observe(snap Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		slog.Error("marshal snapshot", "session_id", snap.ID, "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	if err := b.hub.Publish(ctx, snap.ID, payload); err != nil {
		slog.Warn("publish snapshot", "session_id", snap.ID, "status", string(snap.Status), "error", err)
	}
}
