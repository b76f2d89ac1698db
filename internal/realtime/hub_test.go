package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
	"testing"
	"time"
)

// mockClient creates a client with a send channel but no real connection.
func mockClient(hub *Hub) *client {
	return &client{
		hub:  hub,
		conn: nil,
		send: make(chan []byte, sendBufferSize),
	}
}

func TestRegisterUnregister(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)

	hub.register(c1)
	hub.register(c2)

	if got := hub.ClientCount(); got != 2 {
		t.Fatalf("expected 2 clients, got %d", got)
	}

	hub.unregister(c1)

	if got := hub.ClientCount(); got != 1 {
		t.Fatalf("expected 1 client after unregister, got %d", got)
	}

	hub.unregister(c2)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestDoubleUnregister(t *testing.T) {
	hub := NewHub(slog.Default())
	c := mockClient(hub)
	hub.register(c)
	hub.unregister(c)
	// Should not panic
	hub.unregister(c)

	if got := hub.ClientCount(); got != 0 {
		t.Fatalf("expected 0 clients, got %d", got)
	}
}

func TestBroadcast(t *testing.T) {
	hub := NewHub(slog.Default())

	c1 := mockClient(hub)
	c2 := mockClient(hub)
	hub.register(c1)
	hub.register(c2)

	ev := NewEvent("sequence", "created", 42, map[string]any{"child_id": float64(1)})
	hub.Broadcast(ev)

	for _, c := range []*client{c1, c2} {
		select {
		case data := <-c.send:
			var got Event
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if got.Type != "sequence_created" {
				t.Errorf("expected type sequence_created, got %s", got.Type)
			}
			if got.Entity != "sequence" {
				t.Errorf("expected entity sequence, got %s", got.Entity)
			}
			if got.ID != 42 {
				t.Errorf("expected id 42, got %d", got.ID)
			}
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for event")
		}
	}

	hub.unregister(c1)
	hub.unregister(c2)
}

func TestBroadcastEmptyHub(t *testing.T) {
	hub := NewHub(slog.Default())
	// Should not panic
	hub.Broadcast(NewEvent("sequence", "cancelled", 1, nil))
}

func TestBroadcastFullBuffer(t *testing.T) {
	hub := NewHub(slog.Default())

	c := mockClient(hub)
	hub.register(c)

	// Fill the send buffer
	for i := 0; i < sendBufferSize; i++ {
		hub.Broadcast(NewEvent("test", "fill", int64(i), nil))
	}

	// This should drop the event, not panic or block
	hub.Broadcast(NewEvent("test", "dropped", 999, nil))

	// Drain to verify buffer was full
	count := 0
	for {
		select {
		case <-c.send:
			count++
		default:
			goto done
		}
	}
done:
	if count != sendBufferSize {
		t.Errorf("expected %d events, got %d", sendBufferSize, count)
	}

	hub.unregister(c)
}

func TestNewEvent(t *testing.T) {
	ev := NewEvent("child", "updated", 5, nil)
	if ev.Type != "child_updated" {
		t.Errorf("expected type child_updated, got %s", ev.Type)
	}
	if ev.Entity != "child" {
		t.Errorf("expected entity child, got %s", ev.Entity)
	}
	if ev.Action != "updated" {
		t.Errorf("expected action updated, got %s", ev.Action)
	}
	if ev.ID != 5 {
		t.Errorf("expected id 5, got %d", ev.ID)
	}
}

func TestConcurrentAccess(t *testing.T) {
	hub := NewHub(slog.Default())
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c := mockClient(hub)
			hub.register(c)
			hub.Broadcast(NewEvent("test", "concurrent", 0, nil))
			for {
				select {
				case <-c.send:
				default:
					hub.unregister(c)
					return
				}
			}
		}()
	}

	wg.Wait()

	if got := hub.ClientCount(); got != 0 {
		t.Errorf("expected 0 clients after concurrent test, got %d", got)
	}
}
