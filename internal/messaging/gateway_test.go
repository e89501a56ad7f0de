package messaging

import (
	"context"
	"errors"
	"testing"
)

func nextEvent(t *testing.T, c *Client) ServerEvent {
	t.Helper()
	select {
	case ev := <-c.send:
		return ev
	default:
		t.Fatalf("user %d: no event queued", c.userID)
		return nil
	}
}

func expectNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case ev := <-c.send:
		t.Fatalf("user %d: unexpected event %#v", c.userID, ev)
	default:
	}
}

func expectError(t *testing.T, c *Client, want string) {
	t.Helper()
	ev, ok := nextEvent(t, c).(ErrorEvent)
	if !ok {
		t.Fatalf("want error event")
	}
	if want != "" && ev.Message != want {
		t.Fatalf("error = %q, want %q", ev.Message, want)
	}
	if isClosed(c) {
		t.Fatal("errors must not close the connection")
	}
}

type gatewayFixture struct {
	g     *Gateway
	repo  *memoryRepo
	alice *Client
	bob   *Client
}

func newGatewayFixture(cfg GatewayConfig) *gatewayFixture {
	pairs := newAcceptedPairs([2]int64{1, 2})
	repo := newMemoryRepo(pairs)
	g := newTestGateway(repo, pairs, cfg)
	f := &gatewayFixture{g: g, repo: repo, alice: testClient(g, 1), bob: testClient(g, 2)}
	return f
}

func TestDispatchSendDeliversToOnlineReceiver(t *testing.T) {
	f := newGatewayFixture(GatewayConfig{})
	f.g.Hub().Register(f.alice)
	f.g.Hub().Register(f.bob)

	f.g.Dispatch(context.Background(), f.alice, []byte(`{"type":"send_message","senderId":1,"receiverId":2,"content":"hey"}`))

	sent, ok := nextEvent(t, f.alice).(MessageSentEvent)
	if !ok || sent.Message.Content != "hey" || sent.Message.ID == 0 {
		t.Fatalf("sender should get confirmation, got %#v", sent)
	}
	delivered, ok := nextEvent(t, f.bob).(NewMessageEvent)
	if !ok || delivered.Message.ID != sent.Message.ID {
		t.Fatalf("receiver should get the message, got %#v", delivered)
	}
}

func TestDispatchSendToOfflineReceiver(t *testing.T) {
	f := newGatewayFixture(GatewayConfig{})
	f.g.Hub().Register(f.alice)

	f.g.Dispatch(context.Background(), f.alice, []byte(`{"type":"send_message","senderId":1,"receiverId":2,"content":"later"}`))

	if _, ok := nextEvent(t, f.alice).(MessageSentEvent); !ok {
		t.Fatal("sender should get confirmation")
	}
	expectNoEvent(t, f.bob)

	conv, err := f.g.service.GetConversation(context.Background(), 2, 1)
	if err != nil || len(conv) != 1 || conv[0].Content != "later" {
		t.Fatalf("message should be retrievable by pull, got %v %v", conv, err)
	}
}

func TestDispatchErrors(t *testing.T) {
	tests := []struct {
		name  string
		frame string
		want  string
	}{
		{"impersonation", `{"type":"send_message","senderId":2,"receiverId":1,"content":"hi"}`, ErrSenderMismatch.Error()},
		{"not matched", `{"type":"send_message","senderId":1,"receiverId":3,"content":"hi"}`, ErrNotMatched.Error()},
		{"empty content", `{"type":"send_message","senderId":1,"receiverId":2,"content":"  "}`, ErrEmptyMessage.Error()},
		{"malformed", `{{`, "malformed event"},
		{"unknown type", `{"type":"typing"}`, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGatewayFixture(GatewayConfig{})
			f.g.Hub().Register(f.alice)
			f.g.Hub().Register(f.bob)

			f.g.Dispatch(context.Background(), f.alice, []byte(tt.frame))

			expectError(t, f.alice, tt.want)
			expectNoEvent(t, f.bob)
			if len(f.repo.messages) != 0 {
				t.Fatal("nothing should be persisted")
			}
			if !f.g.Hub().IsUserOnline(1) {
				t.Fatal("sender should stay registered")
			}
		})
	}
}

func TestDispatchReadMessages(t *testing.T) {
	f := newGatewayFixture(GatewayConfig{})
	ctx := context.Background()
	f.g.service.SendMessage(ctx, 2, 1, "one")
	f.g.service.SendMessage(ctx, 2, 1, "two")

	f.g.Dispatch(ctx, f.alice, []byte(`{"type":"read_messages","senderId":2}`))

	ev, ok := nextEvent(t, f.alice).(MessagesReadEvent)
	if !ok || ev.SenderID != 2 {
		t.Fatalf("want messages_read for sender 2, got %#v", ev)
	}
	if n, _ := f.g.service.UnreadCount(ctx, 1); n != 0 {
		t.Fatalf("unread = %d, want 0", n)
	}
}

func TestDispatchRateLimited(t *testing.T) {
	f := newGatewayFixture(GatewayConfig{EventsPerSecond: 0.001, EventBurst: 1})
	frame := []byte(`{"type":"read_messages","senderId":2}`)

	f.g.Dispatch(context.Background(), f.alice, frame)
	if _, ok := nextEvent(t, f.alice).(MessagesReadEvent); !ok {
		t.Fatal("first event should pass")
	}

	f.g.Dispatch(context.Background(), f.alice, frame)
	expectError(t, f.alice, ErrRateLimited.Error())
}

func TestDispatchHidesInternalErrors(t *testing.T) {
	f := newGatewayFixture(GatewayConfig{})
	f.repo.failWith = errors.New("connection refused")

	f.g.Dispatch(context.Background(), f.alice, []byte(`{"type":"read_messages","senderId":2}`))

	expectError(t, f.alice, internalErrorMessage)
}

func TestDeliver(t *testing.T) {
	f := newGatewayFixture(GatewayConfig{})
	msg := &Message{ID: 1, SenderID: 1, ReceiverID: 2, Content: "rest"}

	if f.g.Deliver(msg) {
		t.Fatal("offline receiver should not get a push")
	}
	f.g.Hub().Register(f.bob)
	if !f.g.Deliver(msg) {
		t.Fatal("online receiver should get a push")
	}
	if ev, ok := nextEvent(t, f.bob).(NewMessageEvent); !ok || ev.Message != msg {
		t.Fatalf("got %#v", ev)
	}
}
