package present

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestHandlePoolGenerations(t *testing.T) {
	p := newHandlePool()
	a := p.acquire()
	if a.IsZero() {
		t.Fatal("first handle is zero")
	}
	if !p.release(a) {
		t.Fatal("release of live handle failed")
	}
	if p.release(a) {
		t.Fatal("double release succeeded")
	}
	b := p.acquire()
	if b == a {
		t.Fatal("recycled slot reused the stale handle")
	}
	if b.index() != a.index() {
		t.Errorf("expected slot reuse, got %v then %v", a, b)
	}
	if p.alive(a) || !p.alive(b) {
		t.Error("liveness wrong after recycle")
	}
}

func TestSceneLifecycle(t *testing.T) {
	s := NewScene()
	h := s.Add("car-1", Model{Kind: "player", Mesh: "octane.obj", Scale: 2})
	if got, ok := s.FindByName("car-1"); !ok || got != h {
		t.Fatalf("FindByName = %v, %v", got, ok)
	}

	s.SetPosition(h, Vec3{X: -1, Y: 2, Z: 0})
	s.SetScale(h, 1.5)
	s.SetRotation(h, Euler{Y: 0.25})
	n, ok := s.Node(h)
	if !ok {
		t.Fatal("node missing")
	}
	if n.Position.X != -1 || n.Scale.X != 3 || n.Rotation.Y != 0.25 {
		t.Errorf("unexpected node %+v", n)
	}

	if !s.Remove(h) {
		t.Fatal("Remove failed")
	}
	if s.Remove(h) {
		t.Error("second Remove succeeded")
	}
	if _, ok := s.FindByName("car-1"); ok {
		t.Error("name still resolves after remove")
	}
	// Mutating a stale handle is a no-op.
	s.SetPosition(h, Vec3{X: 9})
	if s.Len() != 0 {
		t.Errorf("Len = %d", s.Len())
	}
}

func TestSceneSnapshotSorted(t *testing.T) {
	s := NewScene()
	s.Add("ball-2", Model{Kind: "ball"})
	s.Add("car-1", Model{Kind: "player"})
	snap := s.Snapshot()
	if len(snap) != 2 || snap[0].Name != "ball-2" || snap[1].Name != "car-1" {
		t.Errorf("Snapshot = %+v", snap)
	}
	if snap[0].Scale.X != 1 {
		t.Errorf("default scale = %v", snap[0].Scale)
	}
}

func TestHubSeekAndBroadcast(t *testing.T) {
	hub := NewHub(8, time.Second, zap.NewNop())
	srv := httptest.NewServer(hub.Handler(func() any { return map[string]int{"frame": 7} }))
	defer srv.Close()
	defer hub.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(Command{Op: OpSeek, Frame: 12}); err != nil {
		t.Fatalf("write: %v", err)
	}
	select {
	case cmd := <-hub.Commands():
		if cmd.Op != OpSeek || cmd.Frame != 12 {
			t.Errorf("cmd = %+v", cmd)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no command received")
	}

	deadline := time.Now().Add(2 * time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if err := hub.Broadcast(map[string]string{"type": "view"}); err != nil {
		t.Fatalf("Broadcast: %v", err)
	}
	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]string
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg["type"] != "view" {
		t.Errorf("msg = %v", msg)
	}

	resp, err := http.Get(srv.URL + "/status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	defer resp.Body.Close()
	var status map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status["frame"] != 7 {
		t.Errorf("status = %v", status)
	}
}
