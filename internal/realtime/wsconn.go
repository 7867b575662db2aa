package realtime

import (
	"context"
	"time"

	"github.com/coder/websocket"
)

// write timeout after which a handle is treated as already disconnected
const defaultWriteTimeout = 5 * time.Second

// wsHandle adapts a websocket connection to the Handle interface
type wsHandle struct {
	conn         *websocket.Conn
	writeTimeout time.Duration
}

// NewWSHandle wraps a websocket connection as a registry handle
func NewWSHandle(conn *websocket.Conn) Handle {
	return &wsHandle{
		conn:         conn,
		writeTimeout: defaultWriteTimeout,
	}
}

// Send writes the payload as a single text message under the write timeout
func (h *wsHandle) Send(ctx context.Context, payload []byte) error {
	ctx, cancel := context.WithTimeout(ctx, h.writeTimeout)
	defer cancel()

	return h.conn.Write(ctx, websocket.MessageText, payload)
}

// Close closes the connection with a normal closure status
func (h *wsHandle) Close() error {
	return h.conn.Close(websocket.StatusNormalClosure, "")
}
