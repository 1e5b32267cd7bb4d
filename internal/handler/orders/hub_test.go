package orders

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rauldpena/delicia/backend/internal/service/tools"
)

func dialHub(t *testing.T, hub *Hub) (*websocket.Conn, func()) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWS))

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		srv.Close()
		t.Fatalf("dial failed: %v", err)
	}

	// Registration happens in the handler goroutine after the handshake.
	deadline := time.Now().Add(2 * time.Second)
	for hub.clientCount() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("subscriber never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	return conn, func() {
		conn.Close()
		srv.Close()
	}
}

func TestHubBroadcastsOrder(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	hub.NotifyOrderConfirmed(&tools.Order{ID: "ORD-feed", SessionID: "s1", TotalAmount: 700})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event Event
	if err := conn.ReadJSON(&event); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if event.Type != "order_confirmed" || event.Order == nil || event.Order.ID != "ORD-feed" {
		t.Fatalf("unexpected event: %+v", event)
	}
}

func TestHubConcurrentBroadcasts(t *testing.T) {
	hub := NewHub()
	conn, cleanup := dialHub(t, hub)
	defer cleanup()

	const broadcasts = 100
	order := &tools.Order{ID: "ORD-feed", SessionID: "s1", TotalAmount: 700}

	var wg sync.WaitGroup
	wg.Add(broadcasts)
	for i := 0; i < broadcasts; i++ {
		go func() {
			defer wg.Done()
			hub.NotifyOrderConfirmed(order)
		}()
	}

	// Every frame must arrive intact; interleaved writes would corrupt the
	// stream and fail the decode.
	for i := 0; i < broadcasts; i++ {
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		var event Event
		if err := conn.ReadJSON(&event); err != nil {
			t.Fatalf("read event %d: %v", i, err)
		}
		if event.Type != "order_confirmed" || event.Order == nil || event.Order.ID != "ORD-feed" {
			t.Fatalf("unexpected event %d: %+v", i, event)
		}
	}
	wg.Wait()

	if hub.clientCount() != 1 {
		t.Fatalf("subscriber should survive the broadcast storm, count=%d", hub.clientCount())
	}
}
