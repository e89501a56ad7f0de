// internal/messaging/events.go

package messaging

import (
	"fmt"

	"github.com/goccy/go-json"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
)

type EventType string

const (
	EventSendMessage  EventType = "send_message"
	EventReadMessages EventType = "read_messages"
	EventMessageSent  EventType = "message_sent"
	EventNewMessage   EventType = "new_message"
	EventMessagesRead EventType = "messages_read"
	EventError        EventType = "error"
)

// ClientEvent is an event received from a connected client.
// Implemented by SendMessageEvent and ReadMessagesEvent.
type ClientEvent interface {
	clientEvent()
}

type SendMessageEvent struct {
	SenderID   int64
	ReceiverID int64
	Content    string
}

type ReadMessagesEvent struct {
	// SenderID is the user whose messages the reader has seen.
	SenderID int64
}

func (SendMessageEvent) clientEvent()  {}
func (ReadMessagesEvent) clientEvent() {}

// ServerEvent is an event pushed to a connected client.
type ServerEvent interface {
	Type() EventType
}

type MessageSentEvent struct{ Message *Message }
type NewMessageEvent struct{ Message *Message }
type MessagesReadEvent struct{ SenderID int64 }
type ErrorEvent struct{ Message string }

func (MessageSentEvent) Type() EventType  { return EventMessageSent }
func (NewMessageEvent) Type() EventType   { return EventNewMessage }
func (MessagesReadEvent) Type() EventType { return EventMessagesRead }
func (ErrorEvent) Type() EventType        { return EventError }

type clientEnvelope struct {
	Type       EventType `json:"type"`
	SenderID   int64     `json:"senderId"`
	ReceiverID int64     `json:"receiverId"`
	Content    string    `json:"content"`
}

// ParseClientEvent decodes and validates an inbound frame.
func ParseClientEvent(data []byte) (ClientEvent, error) {
	var env clientEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, errs.Invalid("malformed event")
	}

	switch env.Type {
	case EventSendMessage:
		if env.SenderID <= 0 || env.ReceiverID <= 0 {
			return nil, errs.Invalid("senderId and receiverId are required")
		}
		return SendMessageEvent{SenderID: env.SenderID, ReceiverID: env.ReceiverID, Content: env.Content}, nil
	case EventReadMessages:
		if env.SenderID <= 0 {
			return nil, errs.Invalid("senderId is required")
		}
		return ReadMessagesEvent{SenderID: env.SenderID}, nil
	case "":
		return nil, errs.Invalid("event type is required")
	default:
		return nil, errs.Invalid("unknown event type %q", env.Type)
	}
}

type messageEnvelope struct {
	Type    EventType `json:"type"`
	Message *Message  `json:"message"`
}

type readEnvelope struct {
	Type     EventType `json:"type"`
	SenderID int64     `json:"senderId"`
}

type errorEnvelope struct {
	Type    EventType `json:"type"`
	Message string    `json:"message"`
}

// EncodeServerEvent renders an outbound event as a JSON frame.
func EncodeServerEvent(ev ServerEvent) ([]byte, error) {
	switch e := ev.(type) {
	case MessageSentEvent:
		return json.Marshal(messageEnvelope{Type: e.Type(), Message: e.Message})
	case NewMessageEvent:
		return json.Marshal(messageEnvelope{Type: e.Type(), Message: e.Message})
	case MessagesReadEvent:
		return json.Marshal(readEnvelope{Type: e.Type(), SenderID: e.SenderID})
	case ErrorEvent:
		return json.Marshal(errorEnvelope{Type: e.Type(), Message: e.Message})
	default:
		return nil, fmt.Errorf("unsupported server event %T", ev)
	}
}
