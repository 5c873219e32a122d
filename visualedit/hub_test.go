package visualedit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func connectHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(hub.Serve))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	return conn
}

func TestHub_BroadcastCustomizeMode(t *testing.T) {
	hub := NewHub(nil)
	conn := connectHub(t, hub)

	// Wait for the hub to register the client
	deadline := time.Now().Add(time.Second)
	for hub.ClientCount() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}

	hub.SetCustomizeMode(true)

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}

	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if env.Type != TypeSetCustomizeMode {
		t.Errorf("expected %s, got %s", TypeSetCustomizeMode, env.Type)
	}

	var enabled bool
	if err := json.Unmarshal(env.Payload, &enabled); err != nil || !enabled {
		t.Errorf("expected enabled payload, got %s", env.Payload)
	}
}

func TestHub_InspectionReachesCallback(t *testing.T) {
	hub := NewHub(nil)
	got := make(chan SelectedElement, 1)
	hub.OnInspect = func(sel SelectedElement) { got <- sel }
	conn := connectHub(t, hub)

	payload, _ := json.Marshal(SelectedElement{
		ID:      "zecrev-3",
		TagName: "H1",
		Styles:  ElementStyles{Color: "rgb(0, 0, 0)"},
	})
	msg, _ := json.Marshal(Envelope{Type: TypeInspectElement, Payload: payload})
	if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case sel := <-got:
		if sel.ID != "zecrev-3" || sel.TagName != "H1" {
			t.Errorf("unexpected selection: %+v", sel)
		}
	case <-time.After(time.Second):
		t.Fatal("inspection payload never reached the callback")
	}
}

func TestHub_IgnoresUnknownMessages(t *testing.T) {
	hub := NewHub(nil)
	called := make(chan struct{}, 1)
	hub.OnInspect = func(SelectedElement) { called <- struct{}{} }
	conn := connectHub(t, hub)

	if err := conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"SOMETHING_ELSE","payload":{}}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := conn.WriteMessage(websocket.TextMessage, []byte(`not json`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case <-called:
		t.Fatal("unknown messages must not trigger inspection")
	case <-time.After(100 * time.Millisecond):
	}
}
