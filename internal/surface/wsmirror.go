/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package surface

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSMirror streams frames to browser clients over a websocket so the
// kiosk display can be spectated remotely. It implements both Target
// and http.Handler.
type WSMirror struct {
	name string
	w, h int

	upgrader websocket.Upgrader
	lock     sync.Mutex
	clients  map[*wsClient]struct{}

	log *zap.Logger
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

func NewWSMirror(name string, w, h int, log *zap.Logger) *WSMirror {
	return &WSMirror{
		name: name,
		w:    w,
		h:    h,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		clients: make(map[*wsClient]struct{}),
		log:     log,
	}
}

func (m *WSMirror) Name() string {
	return m.name
}

func (m *WSMirror) Size() (int, int) {
	return m.w, m.h
}

// Show broadcasts the frame as JSON to every connected client. A
// client whose send buffer is full is dropped rather than stalling
// the render loop.
func (m *WSMirror) Show(frame Frame) {
	buf, err := json.Marshal(frame)
	if err != nil {
		m.log.Error("could not marshal frame", zap.Error(err))
		return
	}

	m.lock.Lock()
	defer m.lock.Unlock()

	for c := range m.clients {
		select {
		case c.send <- buf:
		default:
			delete(m.clients, c)
			close(c.send)
		}
	}
}

// ServeHTTP upgrades the request to a websocket and registers the
// client for frame broadcasts.
func (m *WSMirror) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := m.upgrader.Upgrade(w, r, nil)
	if err != nil {
		m.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{
		conn: conn,
		send: make(chan []byte, 16),
	}
	m.lock.Lock()
	m.clients[c] = struct{}{}
	m.lock.Unlock()

	m.log.Info("mirror client connected",
		zap.String("remote", conn.RemoteAddr().String()))

	go c.writePump()
	go m.readPump(c)
}

func (c *wsClient) writePump() {
	defer c.conn.Close()

	for buf := range c.send {
		err := c.conn.WriteMessage(websocket.TextMessage, buf)
		if err != nil {
			return
		}
	}
}

// readPump discards inbound messages and unregisters the client when
// its connection drops.
func (m *WSMirror) readPump(c *wsClient) {
	for {
		_, _, err := c.conn.ReadMessage()
		if err != nil {
			break
		}
	}

	m.lock.Lock()
	_, ok := m.clients[c]
	if ok {
		delete(m.clients, c)
		close(c.send)
	}
	m.lock.Unlock()

	c.conn.Close()
}

// ClientCount reports how many mirror clients are currently connected.
func (m *WSMirror) ClientCount() int {
	m.lock.Lock()
	defer m.lock.Unlock()

	return len(m.clients)
}
