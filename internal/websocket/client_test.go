// Marquee - Home Feed Aggregation for Jellyfin Clients
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/marquee

package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/marquee/internal/feed"
)

// setupWebSocketServer creates a test WebSocket server with a custom handler
func setupWebSocketServer(t *testing.T, handler func(t *testing.T, conn *websocket.Conn)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("Failed to upgrade connection: %v", err)
			return
		}
		defer conn.Close()
		handler(t, conn)
	}))
}

// dialWebSocket establishes a WebSocket connection to the test server
func dialWebSocket(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		t.Fatalf("Failed to dial websocket: %v", err)
	}
	return conn
}

// waitForChannel waits for a channel signal with timeout
func waitForChannel(t *testing.T, ch <-chan bool, timeout time.Duration, msg string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(timeout):
		t.Errorf("%s: timeout after %v", msg, timeout)
	}
}

func TestNewClient(t *testing.T) {
	hub := NewHub()

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	a := NewClient(hub, conn)
	b := NewClient(hub, conn)

	if a.hub != hub || a.conn != conn {
		t.Error("Client fields not set correctly")
	}
	if cap(a.send) != broadcastBuffer {
		t.Errorf("Expected send channel capacity %d, got %d", broadcastBuffer, cap(a.send))
	}
	if b.ID() <= a.ID() {
		t.Errorf("client ids not increasing: %d then %d", a.ID(), b.ID())
	}
}

func TestClient_Enqueue(t *testing.T) {
	client := createTestClient(NewHub())

	for i := 0; i < broadcastBuffer; i++ {
		if !client.Enqueue(Message{Type: "fill"}) {
			t.Fatalf("Enqueue failed at %d before queue was full", i)
		}
	}
	if client.Enqueue(Message{Type: "overflow"}) {
		t.Error("Enqueue on full queue should report false")
	}
}

func TestClient_WritePump_SendMessage(t *testing.T) {
	hub := NewHub()

	messageReceived := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			t.Errorf("Failed to read message: %v", err)
			return
		}
		if msg.Type != "test" {
			t.Errorf("Expected message type 'test', got '%s'", msg.Type)
		}
		messageReceived <- true
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	go client.writePump()

	client.send <- Message{Type: "test", Data: "test data"}

	waitForChannel(t, messageReceived, 1*time.Second, "Message not received")
}

func TestClient_ReadPump_PingPong(t *testing.T) {
	hub := setupHub(t)

	receivedPong := make(chan bool, 1)
	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		if err := conn.WriteJSON(Message{Type: MessageTypePing}); err != nil {
			t.Errorf("Failed to write ping: %v", err)
			return
		}

		var pongMsg Message
		if err := conn.ReadJSON(&pongMsg); err != nil {
			t.Errorf("Failed to read pong: %v", err)
			return
		}
		if pongMsg.Type == MessageTypePong {
			receivedPong <- true
		}
		time.Sleep(100 * time.Millisecond)
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()

	client := NewClient(hub, conn)
	go client.readPump()
	go client.writePump()

	waitForChannel(t, receivedPong, 1*time.Second, "Pong not received")
}

func TestClient_ReadPump_ConnectionClose(t *testing.T) {
	hub := NewHub()

	unregistered := make(chan bool, 1)
	go func() {
		select {
		case <-hub.Unregister:
			unregistered <- true
		case <-time.After(2 * time.Second):
		}
	}()

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		conn.Close()
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	client := NewClient(hub, conn)
	go client.readPump()

	waitForChannel(t, unregistered, 1*time.Second, "Client not unregistered after connection close")
}

func TestClient_WritePump_ChannelClose(t *testing.T) {
	hub := NewHub()

	server := setupWebSocketServer(t, func(t *testing.T, conn *websocket.Conn) {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	})
	defer server.Close()

	conn := dialWebSocket(t, server)
	client := NewClient(hub, conn)

	done := make(chan struct{})
	go func() {
		client.writePump()
		close(done)
	}()

	close(client.send)

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Error("writePump did not return after send channel closed")
	}
}

// The full path a browser sees: initial snapshot first, then live updates.
func TestClient_SnapshotThenUpdates(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = hub.RunWithContext(ctx) }()

	var serverClient *Client
	ready := make(chan bool, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		serverClient = NewClient(hub, conn)
		serverClient.Enqueue(SnapshotMessage(feed.Snapshot{Seq: 3}))
		hub.Register <- serverClient
		serverClient.Start()
		ready <- true
	}))
	defer server.Close()

	conn := dialWebSocket(t, server)
	defer conn.Close()
	waitForChannel(t, ready, time.Second, "server side client not started")

	var first Message
	if err := conn.ReadJSON(&first); err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if first.Type != MessageTypeFeedSnapshot {
		t.Fatalf("first message type = %q, want %q", first.Type, MessageTypeFeedSnapshot)
	}

	hub.BroadcastFeedUpdate(feed.Update{Field: feed.FieldWatching, Snapshot: feed.Snapshot{Seq: 4}})

	if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
		t.Fatalf("deadline: %v", err)
	}
	var second struct {
		Type string         `json:"type"`
		Data FeedUpdateData `json:"data"`
	}
	if err := conn.ReadJSON(&second); err != nil {
		t.Fatalf("read update: %v", err)
	}
	if second.Type != MessageTypeFeedUpdate {
		t.Errorf("second message type = %q, want %q", second.Type, MessageTypeFeedUpdate)
	}
	if second.Data.Field != feed.FieldWatching || second.Data.Seq != 4 {
		t.Errorf("update = (%q, %d), want (watching, 4)", second.Data.Field, second.Data.Seq)
	}
}

func BenchmarkClient_SendMessage(b *testing.B) {
	hub := NewHub()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := websocket.Upgrader{}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			b.Errorf("Failed to upgrade: %v", err)
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if resp != nil && resp.Body != nil {
		defer resp.Body.Close()
	}
	if err != nil {
		b.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	client := NewClient(hub, conn)
	go client.writePump()

	testMessage := Message{Type: "benchmark", Data: "test data"}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		select {
		case client.send <- testMessage:
		default:
		}
	}
}
