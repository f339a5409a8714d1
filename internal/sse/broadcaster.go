package sse

import (
	"encoding/json"
	"log/slog"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
)

// Broadcaster publishes workflow events as JSON to a session's SSE channel.
// It satisfies the status workflow's Broadcaster interface: a push that fails
// is logged and dropped, never surfaced to the state mutation that caused it.
type Broadcaster struct {
	hubManager *HubManager
	logger     *slog.Logger
}

// NewBroadcaster creates a new Broadcaster
func NewBroadcaster(hubManager *HubManager, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		hubManager: hubManager,
		logger:     logger.With(slog.String("component", "sse-broadcaster")),
	}
}

// Broadcast delivers the payload to every client subscribed to the session's
// channel. No hub means no subscribers; nothing to do.
func (b *Broadcaster) Broadcast(code model.ShareCode, event model.EventType, payload any) {
	hub := b.hubManager.GetHub(code)
	if hub == nil {
		return
	}

	data, err := json.Marshal(payload)
	if err != nil {
		b.logger.Error("sse failed to encode event payload",
			slog.String("share_code", string(code)),
			slog.String("event", string(event)),
			slog.Any("error", err))
		return
	}

	hub.BroadcastEvent(string(event), string(data))
}
