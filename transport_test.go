package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// dummyCollector plays the collector's side of the websocket: it
// acknowledges the connection, records every scan message and answers
// it with a stored-successfully reply.
type dummyCollector struct {
	upgrader websocket.Upgrader
	incoming chan scanMsg
}

func newDummyCollector() *dummyCollector {
	return &dummyCollector{incoming: make(chan scanMsg, 10)}
}

func (d *dummyCollector) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := d.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer ws.Close()

	ack := serverMsg{Type: "connection", Status: "success", Message: "WebSocket connected successfully"}
	if err := ws.WriteJSON(ack); err != nil {
		return
	}

	for {
		var m scanMsg
		if err := ws.ReadJSON(&m); err != nil {
			return
		}
		d.incoming <- m

		reply := serverMsg{Type: "rfid_scan_success", Status: "success"}
		reply.Data.ScanID = "db-0001"
		if err := ws.WriteJSON(reply); err != nil {
			return
		}
	}
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

func waitFor(t *testing.T, cond func() bool, what string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestCollectorConnectAndSend(t *testing.T) {
	d := newDummyCollector()
	srv := httptest.NewServer(d)
	defer srv.Close()

	c := newWSCollector(wsURL(srv.URL), 50*time.Millisecond)
	defer c.Close()
	go c.run()

	waitFor(t, c.IsConnected, "collector connection")

	acksBefore := mtr.ScanAcks.Count()

	rec := newScanRecord(1, []byte{0xAA, 0xBB, 0xCC, 0xDD}, "250817S1", "1A01", 1755403200)
	if !c.Send(rec.wireMessage()) {
		t.Fatal("Send over live connection returned false")
	}

	select {
	case m := <-d.incoming:
		if m.Action != actionScan {
			t.Errorf("action => %q; want %q", m.Action, actionScan)
		}
		if m.Data.ID != "250817S1" || m.Data.TagUID != "AABBCCDD" ||
			m.Data.StationID != "1A01" || m.Data.TimeStamp != 1755403200 {
			t.Errorf("payload => %+v", m.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("collector never received the scan message")
	}

	// The stored-successfully reply is counted once processed.
	waitFor(t, func() bool { return mtr.ScanAcks.Count() > acksBefore }, "scan ack")
}

func TestSendWithoutConnection(t *testing.T) {
	c := newWSCollector("ws://127.0.0.1:1/rfid-ws", time.Hour)
	if c.IsConnected() {
		t.Error("fresh collector claims to be connected")
	}
	if c.Send(scanMsg{}) {
		t.Error("Send without a connection returned true")
	}
}

func TestReconnectAfterServerRestart(t *testing.T) {
	d := newDummyCollector()
	srv := httptest.NewServer(d)

	c := newWSCollector(wsURL(srv.URL), 20*time.Millisecond)
	defer c.Close()
	go c.run()

	waitFor(t, c.IsConnected, "initial connection")

	srv.CloseClientConnections()
	waitFor(t, func() bool { return c.IsConnected() }, "reconnection")
	srv.Close()
}
