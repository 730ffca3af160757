package sse

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestClient_NewClient(t *testing.T) {
	client := NewClient("call:CA123:watcher-1")

	if client.ID() != "call:CA123:watcher-1" {
		t.Errorf("expected ID 'call:CA123:watcher-1', got '%s'", client.ID())
	}

	if client.Events() == nil {
		t.Error("expected events channel to be set")
	}
}

func TestClient_Send_Success(t *testing.T) {
	client := NewClient("call:CA123:watcher-1")

	ok := client.Send([]byte("test event"))
	if !ok {
		t.Error("expected send to succeed")
	}

	select {
	case msg := <-client.Events():
		if string(msg) != "test event" {
			t.Errorf("expected 'test event', got '%s'", string(msg))
		}
	default:
		t.Error("expected event in channel")
	}
}

func TestClient_Send_ChannelFull(t *testing.T) {
	client := NewClient("call:CA123:watcher-1")

	// Fill the channel (size is 256)
	for i := 0; i < 256; i++ {
		client.Send([]byte("msg"))
	}

	// Next send should drop instead of blocking
	ok := client.Send([]byte("overflow"))
	if ok {
		t.Error("expected send to fail when channel is full")
	}
}

func TestClient_WithCallSID(t *testing.T) {
	client := NewClient("call:CA123:watcher-1", WithCallSID("CA123"))

	if client.CallSID() != "CA123" {
		t.Errorf("expected CallSID 'CA123', got '%s'", client.CallSID())
	}
	if client.GetMetadata("call_sid") != "CA123" {
		t.Errorf("expected metadata call_sid 'CA123', got '%s'", client.GetMetadata("call_sid"))
	}
}

func TestHub_RegisterUnregister(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("call:CA123:watcher-1")

	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 1 {
		t.Errorf("expected 1 client after register, got %d", hub.GetClientCount())
	}

	hub.Unregister(client)
	time.Sleep(10 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHub_BroadcastToPattern_CallIsolation(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	watcherA := NewClient("call:CA111:watcher-1")
	watcherB := NewClient("call:CA222:watcher-1")

	hub.Register(watcherA)
	hub.Register(watcherB)
	time.Sleep(10 * time.Millisecond)

	// Broadcast scoped to CA111's watchers only.
	hub.BroadcastToPattern("call:CA111:*", []byte("status for CA111"))
	time.Sleep(10 * time.Millisecond)

	select {
	case msg := <-watcherA.Events():
		if string(msg) != "status for CA111" {
			t.Errorf("expected 'status for CA111', got '%s'", string(msg))
		}
	default:
		t.Error("CA111 watcher should have received event")
	}

	select {
	case <-watcherB.Events():
		t.Error("CA222 watcher should NOT have received CA111 event")
	default:
		// Expected
	}
}

func TestHub_BroadcastToPattern_MultipleWatchers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	watcher1 := NewClient("call:CA111:watcher-1")
	watcher2 := NewClient("call:CA111:watcher-2")

	hub.Register(watcher1)
	hub.Register(watcher2)
	time.Sleep(10 * time.Millisecond)

	hub.BroadcastToPattern("call:CA111:*", []byte("transcription"))
	time.Sleep(10 * time.Millisecond)

	for _, w := range []*Client{watcher1, watcher2} {
		select {
		case msg := <-w.Events():
			if string(msg) != "transcription" {
				t.Errorf("%s: expected 'transcription', got '%s'", w.ID(), string(msg))
			}
		default:
			t.Errorf("%s should have received event", w.ID())
		}
	}
}

func TestHub_ConcurrentOperations(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	var wg sync.WaitGroup
	clients := make([]*Client, 10)

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			clients[idx] = NewClient("call:CA999:watcher-" + string(rune('a'+idx)))
			hub.Register(clients[idx])
		}(i)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 10 {
		t.Errorf("expected 10 clients, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			hub.BroadcastToPattern("call:CA999:*", []byte("concurrent event"))
		}()
	}
	wg.Wait()

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			hub.Unregister(clients[idx])
		}(i)
	}
	wg.Wait()
	time.Sleep(20 * time.Millisecond)

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHub_GetClient(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	client := NewClient("call:CA123:watcher-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	got := hub.GetClient("call:CA123:watcher-1")
	if got == nil {
		t.Fatal("expected to find registered client")
	}
	if got.ID() != "call:CA123:watcher-1" {
		t.Errorf("expected ID 'call:CA123:watcher-1', got '%s'", got.ID())
	}

	missing := hub.GetClient("call:nonexistent:x")
	if missing != nil {
		t.Error("expected nil for unregistered client")
	}
}

func TestHub_Stop(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := NewClient("call:CA123:watcher-1")
	hub.Register(client)
	time.Sleep(10 * time.Millisecond)

	hub.Stop()
	time.Sleep(10 * time.Millisecond)

	// Double stop should be safe
	hub.Stop()
}

func TestComponent_Lifecycle(t *testing.T) {
	comp := NewComponent("/api/call-events/:callSid")

	if comp.Name() != "event-hub" {
		t.Errorf("expected name 'event-hub', got %q", comp.Name())
	}

	ctx := context.Background()
	if err := comp.Start(ctx); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	health := comp.Health(ctx)
	if health.Name != "event-hub" {
		t.Errorf("expected health name 'event-hub', got %q", health.Name)
	}
	if health.Status != "healthy" {
		t.Errorf("expected status 'healthy', got %q", health.Status)
	}
	if !strings.Contains(health.Message, "0 clients") {
		t.Errorf("expected '0 clients' in message, got %q", health.Message)
	}

	if comp.Hub() == nil {
		t.Error("expected non-nil Hub")
	}

	if err := comp.Stop(ctx); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
}

func TestComponent_Describe(t *testing.T) {
	comp := NewComponent("/api/call-events/:callSid")

	desc := comp.Describe()
	if desc.Name != "SSE Hub" {
		t.Errorf("expected name 'SSE Hub', got %q", desc.Name)
	}
	if desc.Type != "events" {
		t.Errorf("expected type 'events', got %q", desc.Type)
	}
	if !strings.Contains(desc.Details, "/api/call-events") {
		t.Errorf("expected path in details, got %q", desc.Details)
	}
}

func TestServeSSE_Headers(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "call:CA123:watcher-1", WithCallSID("CA123"))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		// Context timeout is expected, we just want the connection established
		return
	}
	defer resp.Body.Close()

	if resp.Header.Get("Content-Type") != "text/event-stream" {
		t.Errorf("expected Content-Type 'text/event-stream', got %q", resp.Header.Get("Content-Type"))
	}
	if resp.Header.Get("Cache-Control") != "no-cache" {
		t.Errorf("expected Cache-Control 'no-cache', got %q", resp.Header.Get("Cache-Control"))
	}
}

func TestServeSSE_ConnectedEvent(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Stop()

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ServeSSE(hub, w, r, "call:CA123:watcher-1", WithCallSID("CA123"))
	})

	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	req, _ := http.NewRequestWithContext(ctx, "GET", server.URL, http.NoBody)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return // timeout is ok for SSE
	}
	defer resp.Body.Close()

	buf := make([]byte, 4096)
	n, _ := resp.Body.Read(buf)
	data := string(buf[:n])

	if !strings.Contains(data, "connected") {
		t.Errorf("expected connected event, got %q", data)
	}
	if !strings.Contains(data, "CA123") {
		t.Errorf("expected call SID in connected event, got %q", data)
	}
}
