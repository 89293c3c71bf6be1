package websocket

import (
	"log/slog"
	"os"
	"testing"
)

func testHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError})))
}

func TestNewMessage(t *testing.T) {
	msg := NewMessage("assigned_chore", "completed", 7)

	if msg.Type != "assigned_chore_completed" {
		t.Errorf("Type = %q, want %q", msg.Type, "assigned_chore_completed")
	}
	if msg.Entity != "assigned_chore" {
		t.Errorf("Entity = %q, want %q", msg.Entity, "assigned_chore")
	}
	if msg.ID != 7 {
		t.Errorf("ID = %d, want 7", msg.ID)
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := testHub()

	c := &Client{hub: hub, send: make(chan []byte, 1), audience: audience{role: "parent", userID: 1}}
	hub.Register(c)
	if got := hub.ClientCount(); got != 1 {
		t.Errorf("ClientCount = %d, want 1", got)
	}

	hub.Unregister(c)
	if got := hub.ClientCount(); got != 0 {
		t.Errorf("ClientCount = %d, want 0", got)
	}

	if _, open := <-c.send; open {
		t.Error("send channel should be closed after unregister")
	}
}

func TestHubUnregisterUnknownClient(t *testing.T) {
	hub := testHub()
	c := &Client{hub: hub, send: make(chan []byte, 1), audience: audience{role: "child", userID: 2}}

	// Must not panic or close the channel of a client that was never registered.
	hub.Unregister(c)

	select {
	case <-c.send:
		t.Error("send channel should still be open")
	default:
	}
}

func TestNotifyTargetsOneAccount(t *testing.T) {
	hub := testHub()

	parent := &Client{hub: hub, send: make(chan []byte, 1), audience: audience{role: "parent", userID: 1}}
	otherParent := &Client{hub: hub, send: make(chan []byte, 1), audience: audience{role: "parent", userID: 2}}
	child := &Client{hub: hub, send: make(chan []byte, 1), audience: audience{role: "child", userID: 1}}
	hub.Register(parent)
	hub.Register(otherParent)
	hub.Register(child)

	hub.NotifyParent(1, NewMessage("notification", "created", 3))

	select {
	case <-parent.send:
	default:
		t.Error("parent 1 should have received the message")
	}
	select {
	case <-otherParent.send:
		t.Error("parent 2 should not have received the message")
	default:
	}
	select {
	case <-child.send:
		t.Error("child 1 should not have received the message")
	default:
	}
}

func TestNotifyFullBufferDoesNotBlock(t *testing.T) {
	hub := testHub()

	c := &Client{hub: hub, send: make(chan []byte), audience: audience{role: "child", userID: 5}}
	hub.Register(c)

	done := make(chan struct{})
	go func() {
		hub.NotifyChild(5, NewMessage("reward", "delivered", 1))
		close(done)
	}()

	select {
	case <-done:
	case <-c.send:
		t.Fatal("unbuffered client should have been skipped")
	}
}
