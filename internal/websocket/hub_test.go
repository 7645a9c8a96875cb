package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/isdelr/postboard-be/internal/models"
)

func recv(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case msg, ok := <-ch:
		if !ok {
			t.Fatalf("send channel closed")
		}
		return msg
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for message")
	}
	return nil
}

func TestHubFanOut(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.Register <- a
	hub.Register <- b

	hub.Publish(Message{Action: "create", Post: &models.Post{ID: "p1", Title: "hello there"}})

	for _, client := range []*Client{a, b} {
		var msg Message
		if err := json.Unmarshal(recv(t, client.Send), &msg); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if msg.Action != "create" || msg.Post == nil || msg.Post.ID != "p1" {
			t.Fatalf("unexpected message: %+v", msg)
		}
	}
}

func TestHubUnregisterStopsDelivery(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	a := NewClient(hub, nil)
	b := NewClient(hub, nil)
	hub.Register <- a
	hub.Register <- b

	hub.Unregister <- a
	// The hub closes the channel of an unregistered client.
	if _, ok := <-a.Send; ok {
		t.Fatalf("expected closed channel for unregistered client")
	}

	hub.Publish(Message{Action: "delete", PostID: "p1"})

	var msg Message
	if err := json.Unmarshal(recv(t, b.Send), &msg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if msg.Action != "delete" || msg.PostID != "p1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
}

func TestDeleteMessageOmitsPost(t *testing.T) {
	payload, err := json.Marshal(Message{Action: "delete", PostID: "p1"})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var raw map[string]interface{}
	if err := json.Unmarshal(payload, &raw); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := raw["post"]; ok {
		t.Fatalf("delete events must not carry a post body: %s", payload)
	}
	if raw["postId"] != "p1" {
		t.Fatalf("postId missing: %s", payload)
	}
}
