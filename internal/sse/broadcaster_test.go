package sse

import (
	"testing"
	"time"

	"github.com/bujinwang/BadmintonGroup-sub005/internal/model"
	"github.com/bujinwang/BadmintonGroup-sub005/internal/testutil"
)

func TestBroadcaster_DeliversEventToSubscribers(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(manager, testutil.NopLogger())

	hub := manager.GetOrCreateHub("ABC234")
	defer manager.RemoveHub("ABC234")

	client := NewClient(hub, "device-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	b.Broadcast("ABC234", model.EventStatusRequest, model.StatusRequestPayload{
		PlayerID:    "p1",
		PlayerName:  "Alice",
		RequestID:   "req-1",
		Action:      "rest",
		Origin:      "self",
		RequestedAt: time.Date(2026, 3, 14, 19, 0, 0, 0, time.UTC),
	})

	select {
	case msg := <-client.send:
		got := string(msg)
		expected := "event: status_request\n" +
			`data: {"playerId":"p1","playerName":"Alice","requestId":"req-1","action":"rest","origin":"self","requestedAt":"2026-03-14T19:00:00Z"}` +
			"\n\n"
		if got != expected {
			t.Errorf("client received %q, want %q", got, expected)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("client did not receive broadcast")
	}
}

func TestBroadcaster_NoHubIsNoOp(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(manager, testutil.NopLogger())

	// No hub registered for this code; must not panic or create one.
	b.Broadcast("NOHUB1", model.EventStatusExpired, model.StatusExpiredPayload{PlayerID: "p1"})

	if manager.GetHub("NOHUB1") != nil {
		t.Error("Broadcast created a hub for a session with no subscribers")
	}
}

func TestBroadcaster_ScopedToSession(t *testing.T) {
	manager := NewHubManager(testutil.NopLogger())
	b := NewBroadcaster(manager, testutil.NopLogger())

	hubA := manager.GetOrCreateHub("AAAAAA")
	hubB := manager.GetOrCreateHub("BBBBBB")
	defer manager.RemoveHub("AAAAAA")
	defer manager.RemoveHub("BBBBBB")

	clientA := NewClient(hubA, "device-a")
	clientB := NewClient(hubB, "device-b")
	hubA.Register(clientA)
	hubB.Register(clientB)
	time.Sleep(10 * time.Millisecond)

	b.Broadcast("AAAAAA", model.EventStatusDenied, model.StatusDeniedPayload{
		PlayerID:  "p1",
		RequestID: "req-1",
	})

	select {
	case <-clientA.send:
	case <-time.After(100 * time.Millisecond):
		t.Error("session A client did not receive its event")
	}

	select {
	case msg := <-clientB.send:
		t.Errorf("session B client received event for session A: %q", string(msg))
	case <-time.After(50 * time.Millisecond):
	}
}
