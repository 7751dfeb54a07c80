package superski

import (
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("timed out")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTelemetryHubBroadcast(t *testing.T) {
	hub := NewTelemetryHub()
	srv := httptest.NewServer(hub.Router())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/telemetry"
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	waitFor(t, func() bool { return hub.Len() == 1 })

	hub.Broadcast(Telemetry{Tick: 7, Speed: 12.5, Mode: "skiing", Distance: float32(math.Inf(1))})

	ws.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := ws.ReadMessage()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got map[string]interface{}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	if got["tick"] != float64(7) || got["mode"] != "skiing" || got["distance"] != nil {
		t.Errorf("frame %s", data)
	}

	ws.Close()
	waitFor(t, func() bool { return hub.Len() == 0 })
}

func TestTelemetryHubHealth(t *testing.T) {
	hub := NewTelemetryHub()
	srv := httptest.NewServer(hub.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	var body map[string]int
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["clients"] != 0 {
		t.Errorf("clients %d", body["clients"])
	}

	resp, err = http.Post(srv.URL+"/health", "application/json", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST /health status %d", resp.StatusCode)
	}
}
