package ws

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Maximum message size allowed from peer
	maxMessageSize = 1024 * 1024 // 1MB
)

// Client represents a connected WebSocket subscriber. Writes are serialized
// so that concurrent broadcasts do not interleave frames.
type Client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func NewClient(conn *websocket.Conn) *Client {
	conn.SetReadLimit(maxMessageSize)
	return &Client{conn: conn}
}

// Send writes one text message to the peer
func (c *Client) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// Receive blocks until the next text message from the peer or a disconnect
func (c *Client) Receive() ([]byte, error) {
	_, message, err := c.conn.ReadMessage()
	return message, err
}

func (c *Client) Close() error {
	return c.conn.Close()
}
