// internal/messaging/gateway.go

package messaging

import (
	"context"

	"github.com/gorilla/websocket"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
)

var (
	ErrSenderMismatch = errs.New(errs.ErrUnauthorized, "sender does not match authenticated user")
	ErrRateLimited    = errs.New(errs.ErrValidation, "too many events, slow down")
)

const internalErrorMessage = "internal error"

type GatewayConfig struct {
	EventsPerSecond float64
	EventBurst      int
	SendBuffer      int
}

func (c GatewayConfig) withDefaults() GatewayConfig {
	if c.EventsPerSecond <= 0 {
		c.EventsPerSecond = 5
	}
	if c.EventBurst < 1 {
		c.EventBurst = 10
	}
	if c.SendBuffer < 1 {
		c.SendBuffer = 256
	}
	return c
}

// Gateway routes events between connected users and the message service.
type Gateway struct {
	hub     *Hub
	service Service
	cfg     GatewayConfig
}

func NewGateway(hub *Hub, service Service, cfg GatewayConfig) *Gateway {
	return &Gateway{hub: hub, service: service, cfg: cfg.withDefaults()}
}

func (g *Gateway) Hub() *Hub { return g.hub }

// Serve registers an upgraded connection and starts its pumps.
func (g *Gateway) Serve(conn *websocket.Conn, userID int64) *Client {
	c := newClient(g, conn, userID)
	g.hub.Register(c)
	c.Start()
	return c
}

// Dispatch handles one inbound frame. Failures are reported to the
// client as error events and never close the connection.
func (g *Gateway) Dispatch(ctx context.Context, c *Client, data []byte) {
	if !c.limiter.Allow() {
		g.reportError(ctx, c, ErrRateLimited, reasonRateLimited)
		return
	}

	ev, err := ParseClientEvent(data)
	if err != nil {
		g.reportError(ctx, c, err, reasonInvalidEvent)
		return
	}

	switch e := ev.(type) {
	case SendMessageEvent:
		g.handleSend(ctx, c, e)
	case ReadMessagesEvent:
		g.handleRead(ctx, c, e)
	}
}

func (g *Gateway) handleSend(ctx context.Context, c *Client, e SendMessageEvent) {
	if e.SenderID != c.userID {
		g.reportError(ctx, c, ErrSenderMismatch, reasonDomain)
		return
	}

	msg, err := g.service.SendMessage(ctx, c.userID, e.ReceiverID, e.Content)
	if err != nil {
		g.reportError(ctx, c, err, reasonDomain)
		return
	}
	messagesSentTotal.WithLabelValues(transportRealtime).Inc()

	c.Send(MessageSentEvent{Message: msg})
	g.hub.SendToUser(msg.ReceiverID, NewMessageEvent{Message: msg})
}

func (g *Gateway) handleRead(ctx context.Context, c *Client, e ReadMessagesEvent) {
	if _, err := g.service.MarkRead(ctx, c.userID, e.SenderID); err != nil {
		g.reportError(ctx, c, err, reasonDomain)
		return
	}
	c.Send(MessagesReadEvent{SenderID: e.SenderID})
}

// Deliver pushes a message persisted elsewhere to its connected receiver.
func (g *Gateway) Deliver(msg *Message) bool {
	return g.hub.SendToUser(msg.ReceiverID, NewMessageEvent{Message: msg})
}

func (g *Gateway) reportError(ctx context.Context, c *Client, err error, reason string) {
	text := err.Error()
	if !errs.IsDomain(err) {
		reason = reasonInternal
		text = internalErrorMessage
		logging.Ctx(ctx).Error().
			Err(err).
			Int64("user_id", c.userID).
			Str("conn_id", c.id).
			Msg("Realtime event failed")
	}
	realtimeErrorsTotal.WithLabelValues(reason).Inc()
	c.Send(ErrorEvent{Message: text})
}
