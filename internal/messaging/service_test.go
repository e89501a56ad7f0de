package messaging

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
	"github.com/gymmatch/gymmatch-backend/internal/matching"
)

func init() {
	logging.Init(logging.Config{Level: "disabled"})
}

// acceptedPairs stands in for the accepted rows of user_matches.
type acceptedPairs struct {
	mu    sync.Mutex
	pairs map[string]bool
}

func newAcceptedPairs(pairs ...[2]int64) *acceptedPairs {
	p := &acceptedPairs{pairs: make(map[string]bool)}
	for _, pair := range pairs {
		p.pairs[matching.PairKey(pair[0], pair[1])] = true
	}
	return p
}

func (p *acceptedPairs) IsAccepted(_ context.Context, a, b int64) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pairs[matching.PairKey(a, b)], nil
}

func (p *acceptedPairs) revoke(a, b int64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.pairs, matching.PairKey(a, b))
}

// memoryRepo mirrors the guarded insert of the postgres repository.
type memoryRepo struct {
	mu       sync.Mutex
	nextID   int64
	clock    time.Time
	messages []*Message
	accepted *acceptedPairs
	failWith error
}

func newMemoryRepo(accepted *acceptedPairs) *memoryRepo {
	return &memoryRepo{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		accepted: accepted,
	}
}

func (m *memoryRepo) GetMessages(_ context.Context, a, b int64) ([]*Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return nil, m.failWith
	}
	out := []*Message{}
	for _, msg := range m.messages {
		if (msg.SenderID == a && msg.ReceiverID == b) || (msg.SenderID == b && msg.ReceiverID == a) {
			cp := *msg
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryRepo) GetUnreadMessageCount(_ context.Context, userID int64) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	count := 0
	for _, msg := range m.messages {
		if msg.ReceiverID == userID && !msg.Read {
			count++
		}
	}
	return count, nil
}

func (m *memoryRepo) CreateMessage(ctx context.Context, msg *Message) error {
	if ok, _ := m.accepted.IsAccepted(ctx, msg.SenderID, msg.ReceiverID); !ok {
		return ErrNotMatched
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return m.failWith
	}
	m.nextID++
	m.clock = m.clock.Add(time.Second)
	msg.ID = m.nextID
	msg.CreatedAt = m.clock
	msg.Read = false
	cp := *msg
	m.messages = append(m.messages, &cp)
	return nil
}

func (m *memoryRepo) MarkMessagesAsRead(_ context.Context, receiverID, senderID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failWith != nil {
		return 0, m.failWith
	}
	var n int64
	for _, msg := range m.messages {
		if msg.ReceiverID == receiverID && msg.SenderID == senderID && !msg.Read {
			msg.Read = true
			n++
		}
	}
	return n, nil
}

func TestSendMessage(t *testing.T) {
	pairs := newAcceptedPairs([2]int64{1, 2})
	svc := NewService(newMemoryRepo(pairs), pairs, 10)
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 2, 1, "  hi there  ")
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ID == 0 || msg.Content != "hi there" || msg.Read || msg.SenderID != 2 || msg.ReceiverID != 1 {
		t.Fatalf("unexpected message %+v", msg)
	}

	// Limit counts runes, not bytes.
	if _, err := svc.SendMessage(ctx, 1, 2, strings.Repeat("é", 10)); err != nil {
		t.Fatalf("ten runes should fit: %v", err)
	}
}

func TestSendMessageErrors(t *testing.T) {
	pairs := newAcceptedPairs([2]int64{1, 2})
	svc := NewService(newMemoryRepo(pairs), pairs, 10)

	tests := []struct {
		name     string
		sender   int64
		receiver int64
		content  string
		kind     error
	}{
		{"self", 1, 1, "hello", errs.ErrValidation},
		{"empty", 1, 2, "", errs.ErrValidation},
		{"whitespace", 1, 2, " \n\t ", errs.ErrValidation},
		{"too long", 1, 2, strings.Repeat("a", 11), errs.ErrValidation},
		{"not matched", 1, 3, "hello", errs.ErrUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.SendMessage(context.Background(), tt.sender, tt.receiver, tt.content)
			if !errors.Is(err, tt.kind) {
				t.Fatalf("got %v, want kind %v", err, tt.kind)
			}
		})
	}
}

func TestSendMessageAfterMatchRevoked(t *testing.T) {
	pairs := newAcceptedPairs([2]int64{1, 2})
	repo := newMemoryRepo(pairs)
	svc := NewService(repo, pairs, 100)

	pairs.revoke(1, 2)
	if _, err := svc.SendMessage(context.Background(), 1, 2, "hello"); !errors.Is(err, ErrNotMatched) {
		t.Fatalf("got %v, want ErrNotMatched", err)
	}
	if len(repo.messages) != 0 {
		t.Fatalf("no message should be stored, got %d", len(repo.messages))
	}
}

func TestGetConversationMarksRead(t *testing.T) {
	pairs := newAcceptedPairs([2]int64{1, 2}, [2]int64{1, 3})
	svc := NewService(newMemoryRepo(pairs), pairs, 100)
	ctx := context.Background()

	for _, step := range []struct {
		from, to int64
		text     string
	}{
		{1, 2, "one"},
		{2, 1, "two"},
		{2, 1, "three"},
		{3, 1, "elsewhere"},
	} {
		if _, err := svc.SendMessage(ctx, step.from, step.to, step.text); err != nil {
			t.Fatal(err)
		}
	}

	if n, _ := svc.UnreadCount(ctx, 1); n != 3 {
		t.Fatalf("unread for user 1 = %d, want 3", n)
	}

	conv, err := svc.GetConversation(ctx, 1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(conv) != 3 {
		t.Fatalf("got %d messages, want 3", len(conv))
	}
	for i, want := range []string{"one", "two", "three"} {
		if conv[i].Content != want {
			t.Errorf("conv[%d] = %q, want %q", i, conv[i].Content, want)
		}
	}
	if !conv[1].Read || !conv[2].Read {
		t.Error("messages to the reader should be returned as read")
	}
	if conv[0].Read {
		t.Error("the reader's own message should stay unread")
	}

	if n, _ := svc.UnreadCount(ctx, 1); n != 1 {
		t.Fatalf("unread after reading = %d, want 1", n)
	}
	if n, _ := svc.UnreadCount(ctx, 2); n != 1 {
		t.Fatalf("unread for user 2 = %d, want 1", n)
	}
}

func TestMarkRead(t *testing.T) {
	pairs := newAcceptedPairs([2]int64{1, 2})
	svc := NewService(newMemoryRepo(pairs), pairs, 100)
	ctx := context.Background()

	svc.SendMessage(ctx, 2, 1, "a")
	svc.SendMessage(ctx, 2, 1, "b")

	n, err := svc.MarkRead(ctx, 1, 2)
	if err != nil || n != 2 {
		t.Fatalf("MarkRead = %d, %v; want 2", n, err)
	}
	if n, _ := svc.MarkRead(ctx, 1, 2); n != 0 {
		t.Fatalf("second MarkRead = %d, want 0", n)
	}
}
