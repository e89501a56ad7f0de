// internal/messaging/service.go

package messaging

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
)

var (
	ErrNotMatched    = errs.New(errs.ErrUnauthorized, "not matched with this user")
	ErrEmptyMessage  = errs.New(errs.ErrValidation, "message content is required")
	ErrMessageToSelf = errs.New(errs.ErrValidation, "cannot message yourself")
)

// MatchChecker is the authorization gate for sending.
type MatchChecker interface {
	IsAccepted(ctx context.Context, a, b int64) (bool, error)
}

type Service interface {
	SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*Message, error)
	// GetConversation also marks the other user's messages to userID as read.
	GetConversation(ctx context.Context, userID, otherUserID int64) ([]*Message, error)
	MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error)
	UnreadCount(ctx context.Context, userID int64) (int, error)
}

type service struct {
	repo             Repository
	matches          MatchChecker
	maxMessageLength int
}

func NewService(repo Repository, matches MatchChecker, maxMessageLength int) Service {
	return &service{repo: repo, matches: matches, maxMessageLength: maxMessageLength}
}

func (s *service) SendMessage(ctx context.Context, senderID, receiverID int64, content string) (*Message, error) {
	if senderID == receiverID {
		return nil, ErrMessageToSelf
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}
	if s.maxMessageLength > 0 && utf8.RuneCountInString(content) > s.maxMessageLength {
		return nil, errs.Invalid("message exceeds %d characters", s.maxMessageLength)
	}

	accepted, err := s.matches.IsAccepted(ctx, senderID, receiverID)
	if err != nil {
		return nil, err
	}
	if !accepted {
		return nil, ErrNotMatched
	}

	msg := &Message{SenderID: senderID, ReceiverID: receiverID, Content: content}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// GetConversation marks first so the returned page reflects the read state.
func (s *service) GetConversation(ctx context.Context, userID, otherUserID int64) ([]*Message, error) {
	if _, err := s.repo.MarkMessagesAsRead(ctx, userID, otherUserID); err != nil {
		return nil, err
	}
	return s.repo.GetMessages(ctx, userID, otherUserID)
}

func (s *service) MarkRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	return s.repo.MarkMessagesAsRead(ctx, receiverID, senderID)
}

func (s *service) UnreadCount(ctx context.Context, userID int64) (int, error) {
	return s.repo.GetUnreadMessageCount(ctx, userID)
}
