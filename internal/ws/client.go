package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024
	sendBuffer     = 256
)

// Client is one open websocket subscription to a conversation.
type Client struct {
	hub    *Hub
	convID uint64
	conn   *websocket.Conn
	send   chan []byte
	once   sync.Once
}

func newClient(h *Hub, convID uint64, conn *websocket.Conn) *Client {
	return &Client{hub: h, convID: convID, conn: conn, send: make(chan []byte, sendBuffer)}
}

// readPump discards client payloads (the server only expects keepalive) and
// detects the dropped socket. Any read error triggers teardown.
func (c *Client) readPump() {
	defer c.Close()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()
	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Close is idempotent; it deregisters the client and closes the socket.
func (c *Client) Close() {
	c.once.Do(func() {
		c.hub.Leave(c.convID, c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}
