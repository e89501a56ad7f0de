// internal/messaging/client.go

package messaging

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024
)

// Client is one user's realtime connection.
type Client struct {
	id      string
	userID  int64
	conn    *websocket.Conn
	gateway *Gateway
	send    chan ServerEvent
	limiter *rate.Limiter

	// ctx is cancelled when the connection closes.
	ctx    context.Context
	cancel context.CancelFunc

	done      chan struct{}
	closeOnce sync.Once
}

func newClient(g *Gateway, conn *websocket.Conn, userID int64) *Client {
	ctx, cancel := context.WithCancel(context.Background())
	return &Client{
		id:      uuid.NewString(),
		userID:  userID,
		conn:    conn,
		gateway: g,
		send:    make(chan ServerEvent, g.cfg.SendBuffer),
		limiter: rate.NewLimiter(rate.Limit(g.cfg.EventsPerSecond), g.cfg.EventBurst),
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

func (c *Client) UserID() int64 { return c.userID }

func (c *Client) Start() {
	go c.writePump()
	go c.readPump()
}

// Send queues ev without blocking. A client whose buffer is full is closed.
func (c *Client) Send(ev ServerEvent) bool {
	select {
	case <-c.done:
		return false
	default:
	}

	select {
	case c.send <- ev:
		return true
	case <-c.done:
		return false
	default:
		logging.Warn().
			Int64("user_id", c.userID).
			Str("conn_id", c.id).
			Msg("Realtime send buffer full, closing connection")
		c.Close()
		return false
	}
}

// Close is safe to call more than once. The send channel is never closed.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		if c.conn != nil {
			c.conn.Close()
		}
	})
}

func (c *Client) readPump() {
	defer func() {
		c.gateway.hub.Unregister(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Warn().
					Err(err).
					Int64("user_id", c.userID).
					Str("conn_id", c.id).
					Msg("Realtime connection error")
			}
			return
		}
		c.gateway.Dispatch(c.ctx, c, data)
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
		case ev := <-c.send:
			data, err := EncodeServerEvent(ev)
			if err != nil {
				logging.Error().Err(err).Str("conn_id", c.id).Msg("Failed to encode event")
				continue
			}
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			return
		}
	}
}
