package sse

import (
	"net/http"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
)

const (
	// Interval between keepalive comments on an otherwise idle stream
	pingPeriod = 30 * time.Second

	// Per-client buffer of pending event frames. A client that falls this
	// far behind gets dropped by the hub rather than blocking fan-out.
	sendBufferSize = 256
)

// Client is one device's subscription to a session's event stream
type Client struct {
	hub         *Hub
	deviceID    model.DeviceID
	send        chan []byte
	connectedAt time.Time
}

// NewClient creates a client for the given hub and device
func NewClient(hub *Hub, deviceID model.DeviceID) *Client {
	return &Client{
		hub:         hub,
		deviceID:    deviceID,
		send:        make(chan []byte, sendBufferSize),
		connectedAt: time.Now(),
	}
}

// ServeSSE registers a client on the hub and pumps its frames onto the HTTP
// response until the peer disconnects or the hub closes the channel.
func ServeSSE(w http.ResponseWriter, r *http.Request, hub *Hub, deviceID model.DeviceID) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-Accel-Buffering", "no") // nginx buffers SSE otherwise

	client := NewClient(hub, deviceID)
	hub.Register(client)
	defer hub.Unregister(client)

	// Opening event so the browser's EventSource sees the stream is live
	_, _ = w.Write([]byte("event: connected\ndata: {\"status\":\"connected\"}\n\n"))
	flusher.Flush()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.send:
			if !ok {
				return
			}
			if _, err := w.Write(message); err != nil {
				return
			}
			flusher.Flush()

		case <-ticker.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
