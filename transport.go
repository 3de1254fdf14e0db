package main

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/juju/loggo"
)

var wsLogger = loggo.GetLogger("ws")

// transport is what the core needs from the collector link: a liveness
// flag and a best-effort send. False from Send means a transient
// failure, safe to retry.
type transport interface {
	IsConnected() bool
	Send(v any) bool
}

// wsCollector keeps one persistent websocket connection to the
// collector, redialing on a fixed interval after loss. Inbound server
// messages are handled on the read pump; only the documented kinds are
// acted upon, anything else is ignored.
type wsCollector struct {
	url       string
	reconnect time.Duration
	connected atomic.Bool

	mu   sync.Mutex // guards conn for concurrent writers
	conn *websocket.Conn

	quit chan struct{}
}

func newWSCollector(url string, reconnect time.Duration) *wsCollector {
	return &wsCollector{
		url:       url,
		reconnect: reconnect,
		quit:      make(chan struct{}),
	}
}

// run dials and re-dials the collector. Meant to be run in its own
// goroutine; it returns when Close is called.
func (c *wsCollector) run() {
	for {
		select {
		case <-c.quit:
			return
		default:
		}
		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err != nil {
			wsLogger.Warningf("collector dial %v failed: %v", c.url, err)
			select {
			case <-c.quit:
				return
			case <-time.After(c.reconnect):
			}
			continue
		}
		wsLogger.Infof("collector connected: %v", c.url)
		c.mu.Lock()
		c.conn = conn
		c.mu.Unlock()
		c.connected.Store(true)

		c.readPump(conn)

		c.connected.Store(false)
		c.mu.Lock()
		c.conn = nil
		c.mu.Unlock()
		conn.Close()
		wsLogger.Warningf("collector connection lost")
	}
}

// readPump reads server messages until the connection dies.
func (c *wsCollector) readPump(conn *websocket.Conn) {
	for {
		var m serverMsg
		if err := conn.ReadJSON(&m); err != nil {
			return
		}
		c.handleServerMsg(m)
	}
}

func (c *wsCollector) handleServerMsg(m serverMsg) {
	switch m.Type {
	case "connection":
		wsLogger.Infof("collector acknowledged connection: %v", m.Message)
	case "rfid_scan_success":
		mtr.ScanAcks.Inc(1)
		wsLogger.Infof("scan stored by collector, database id %v", m.Data.ScanID)
	case "error":
		wsLogger.Warningf("collector error: %v - %v", m.Error.Type, m.Error.Message)
	default:
		wsLogger.Debugf("ignoring server message of kind %q", m.Type)
	}
}

func (c *wsCollector) IsConnected() bool {
	return c.connected.Load()
}

// Send marshals v onto the socket. On write failure the connection is
// torn down so the run loop redials; the caller sees false and keeps
// the record.
func (c *wsCollector) Send(v any) bool {
	c.mu.Lock()
	conn := c.conn
	if conn == nil || !c.connected.Load() {
		c.mu.Unlock()
		return false
	}
	err := conn.WriteJSON(v)
	c.mu.Unlock()
	if err != nil {
		wsLogger.Warningf("send failed: %v", err)
		c.connected.Store(false)
		conn.Close()
		return false
	}
	return true
}

func (c *wsCollector) Close() {
	close(c.quit)
	c.mu.Lock()
	if c.conn != nil {
		c.conn.Close()
	}
	c.mu.Unlock()
}
