package ws

import (
	"encoding/json"
	"testing"

	"piquiz_backend/internal/domain"
)

func TestNotifyDriftFanOut(t *testing.T) {
	hub := NewHub()

	a := &Client{UserID: 1, Send: make(chan []byte, 4), hub: hub}
	b := &Client{UserID: 2, Send: make(chan []byte, 4), hub: hub}
	hub.Register(a)
	hub.Register(b)

	node := domain.Node{ID: 42, Name: "Old Mill", Rarity: domain.RarityEpic}
	hub.NotifyDrift(1, "pioneer", node, 1500)

	for _, c := range []*Client{a, b} {
		select {
		case payload := <-c.Send:
			var ev DriftEvent
			if err := json.Unmarshal(payload, &ev); err != nil {
				t.Fatalf("bad payload: %v", err)
			}
			if ev.Type != "drift" || ev.NodeID != 42 || ev.Cost != 1500 || ev.EventID == "" {
				t.Fatalf("unexpected event %+v", ev)
			}
		default:
			t.Fatalf("client %d received nothing", c.UserID)
		}
	}
}

func TestNotifyDriftSkipsSlowConsumer(t *testing.T) {
	hub := NewHub()

	// unbuffered and never read: broadcast must skip it, not block
	slow := &Client{UserID: 1, Send: make(chan []byte), hub: hub}
	hub.Register(slow)

	hub.NotifyDrift(2, "p", domain.Node{ID: 1, Rarity: domain.RarityCommon}, 75)

	hub.Unregister(slow)
	if hub.ClientCount() != 0 {
		t.Fatalf("client count = %d; want 0", hub.ClientCount())
	}
}
