package frontend

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nerrad567/gray-logic-core/internal/dispatch"
)

// wsSendBufferSize bounds the per-connection outbound queue; a client
// that falls behind drops frames rather than blocking the writer.
const wsSendBufferSize = 64

const (
	wsPingInterval = 30 * time.Second
	wsPongTimeout  = 60 * time.Second
	wsMaxFrameSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(_ *http.Request) bool { return true },
}

// wsClient is one connected command socket: every text frame it
// receives is a verb to submit to the shared Queue, and the response
// is written back as a single text frame (spec.md §6 "WebSocket text
// frame"). The read/write pump split and ping/pong keepalive mirror
// the teacher's connection-lifecycle discipline, stripped of the
// subscribe/broadcast protocol this command interface doesn't need.
type wsClient struct {
	conn  *websocket.Conn
	send  chan []byte
	queue *dispatch.Queue
}

// NewWebSocketHandler upgrades the connection and starts its pumps.
// When bearerSecret is non-empty, the connection must carry a valid
// `?token=` query parameter (spec.md §2 expansion); browsers cannot
// set an Authorization header on the upgrade request, so the teacher's
// ticket-query-parameter pattern (internal/api/websocket.go) is
// reused here instead of a header check.
func NewWebSocketHandler(q *dispatch.Queue, bearerSecret string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if bearerSecret != "" && !wsTokenOK(r, bearerSecret) {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		c := &wsClient{conn: conn, send: make(chan []byte, wsSendBufferSize), queue: q}
		go c.writePump()
		go c.readPump()
	}
}

func (c *wsClient) readPump() {
	defer func() {
		close(c.send)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(wsMaxFrameSize)
	c.conn.SetReadDeadline(time.Now().Add(wsPingInterval + wsPongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPingInterval + wsPongTimeout))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.conn.SetReadDeadline(time.Now().Add(wsPingInterval + wsPongTimeout))
		cmd := string(msg)
		c.queue.Submit(cmd, func(resp string) {
			c.trySend([]byte(resp))
		})
	}
}

func (c *wsClient) writePump() {
	ticker := time.NewTicker(wsPingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			c.conn.SetWriteDeadline(time.Now().Add(wsPongTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(wsPongTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// trySend drops the frame rather than blocking when the client's
// buffer is full or the connection already closed.
func (c *wsClient) trySend(data []byte) {
	defer func() { recover() }()
	select {
	case c.send <- data:
	default:
	}
}
