package wsfeed

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/coder/websocket"

	"github.com/mglvn/swappool/internal/logger"
)

func newTestFeed(t *testing.T) (*Feed, *httptest.Server) {
	t.Helper()
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	feed := New(DefaultConfig(), log)
	server := httptest.NewServer(feed.Handler())
	t.Cleanup(func() {
		feed.Close()
		server.Close()
	})
	return feed, server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	return conn
}

func waitForClients(t *testing.T, feed *Feed, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if feed.Clients() == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("clients = %d, want %d", feed.Clients(), want)
}

func TestFeedBroadcast(t *testing.T) {
	feed, server := newTestFeed(t)

	conn := dial(t, server)
	defer conn.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, feed, 1)

	if n := feed.Broadcast([]byte(`{"type":"swap"}`)); n != 1 {
		t.Fatalf("broadcast reached %d clients, want 1", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, data, err := conn.Read(ctx)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"type":"swap"}` {
		t.Fatalf("got %q", data)
	}
}

func TestFeedMultipleClients(t *testing.T) {
	feed, server := newTestFeed(t)

	c1 := dial(t, server)
	defer c1.Close(websocket.StatusNormalClosure, "")
	c2 := dial(t, server)
	defer c2.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, feed, 2)

	if n := feed.Broadcast([]byte("ping")); n != 2 {
		t.Fatalf("broadcast reached %d clients, want 2", n)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, conn := range []*websocket.Conn{c1, c2} {
		_, data, err := conn.Read(ctx)
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		if string(data) != "ping" {
			t.Fatalf("got %q", data)
		}
	}
}

func TestFeedClientDisconnect(t *testing.T) {
	feed, server := newTestFeed(t)

	var notified atomic.Int64
	feed.OnClientsChange(func(n int) {
		notified.Store(int64(n))
	})

	conn := dial(t, server)
	waitForClients(t, feed, 1)

	conn.Close(websocket.StatusNormalClosure, "")
	waitForClients(t, feed, 0)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if notified.Load() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("callback count = %d, want 0", notified.Load())
}

func TestFeedBroadcastAfterClose(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelError, "test", nil)
	feed := New(DefaultConfig(), log)
	if err := feed.Close(); err != nil {
		t.Fatal(err)
	}
	if n := feed.Broadcast([]byte("x")); n != 0 {
		t.Fatalf("broadcast after close reached %d clients", n)
	}
}
