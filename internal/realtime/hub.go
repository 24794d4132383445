package realtime

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait = 5 * time.Second
	sendQueue = 16
)

// Event names pushed to map viewers.
const (
	EventMapSnapshot = "map.snapshot"
	EventMapUpdate   = "map.update"
)

var errViewerBehind = errors.New("viewer send queue full")

// Hub fans map updates out to every connected viewer. Sends never block the
// caller: each viewer has its own queue drained by a writer goroutine, and a
// viewer whose queue is full is dropped.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]*wsConn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[string]*wsConn)}
}

type wsConn struct {
	conn *websocket.Conn
	send chan any
	done chan struct{}
	once sync.Once
}

func newWSConn(conn *websocket.Conn) *wsConn {
	return &wsConn{
		conn: conn,
		send: make(chan any, sendQueue),
		done: make(chan struct{}),
	}
}

// enqueue hands msg to the writer without waiting on the network.
func (c *wsConn) enqueue(msg any) error {
	select {
	case <-c.done:
		return websocket.ErrCloseSent
	default:
	}
	select {
	case c.send <- msg:
		return nil
	default:
		return errViewerBehind
	}
}

func (c *wsConn) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// writeLoop is the only writer on the connection.
func (h *Hub) writeLoop(id string, c *wsConn) {
	for {
		select {
		case <-c.done:
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				log.Printf("ws: write to viewer %s failed: %v", id, err)
				h.drop(id, c)
				return
			}
		}
	}
}

// Register adds a viewer. A previous connection under the same id is closed.
func (h *Hub) Register(id string, conn *websocket.Conn) {
	c := newWSConn(conn)

	h.mu.Lock()
	if old, ok := h.conns[id]; ok {
		old.close()
	}
	h.conns[id] = c
	h.mu.Unlock()

	go h.writeLoop(id, c)
}

func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.conns[id]; ok {
		c.close()
		delete(h.conns, id)
	}
}

func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Notify queues a typed event payload for one viewer if connected.
func (h *Hub) Notify(id string, event string, payload any) error {
	h.mu.RLock()
	wc, ok := h.conns[id]
	h.mu.RUnlock()
	if !ok {
		log.Printf("ws: viewer %s not connected; drop event %s", id, event)
		return nil
	}

	if err := wc.enqueue(map[string]any{"event": event, "data": payload}); err != nil {
		log.Printf("ws: queue to viewer %s failed for event %s: %v", id, event, err)
		h.drop(id, wc)
		return err
	}
	return nil
}

// Broadcast queues the event for every viewer. Viewers that cannot keep up are dropped.
func (h *Hub) Broadcast(event string, payload any) {
	msg := map[string]any{"event": event, "data": payload}

	h.mu.RLock()
	targets := make(map[string]*wsConn, len(h.conns))
	for id, c := range h.conns {
		targets[id] = c
	}
	h.mu.RUnlock()

	for id, wc := range targets {
		if err := wc.enqueue(msg); err != nil {
			log.Printf("ws: queue to viewer %s failed for event %s: %v", id, event, err)
			h.drop(id, wc)
		}
	}
}

// drop removes wc only if it is still the connection registered under id.
func (h *Hub) drop(id string, wc *wsConn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if cur, ok := h.conns[id]; ok && cur == wc {
		delete(h.conns, id)
	}
	wc.close()
}
