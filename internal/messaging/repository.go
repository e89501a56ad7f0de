// internal/messaging/repository.go

package messaging

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/gymmatch/gymmatch-backend/internal/matching"
)

type Repository interface {
	// GetMessages returns the pair's messages, oldest first.
	GetMessages(ctx context.Context, a, b int64) ([]*Message, error)
	GetUnreadMessageCount(ctx context.Context, userID int64) (int, error)
	// CreateMessage returns ErrNotMatched if the pair has no accepted match
	// at insert time.
	CreateMessage(ctx context.Context, msg *Message) error
	MarkMessagesAsRead(ctx context.Context, receiverID, senderID int64) (int64, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetMessages(ctx context.Context, a, b int64) ([]*Message, error) {
	query := `
		SELECT id, sender_id, receiver_id, content, is_read, created_at
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2) OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY created_at ASC, id ASC`

	messages := []*Message{}
	if err := r.db.SelectContext(ctx, &messages, query, a, b); err != nil {
		return nil, fmt.Errorf("failed to get messages: %w", err)
	}
	return messages, nil
}

func (r *postgresRepository) GetUnreadMessageCount(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM messages WHERE receiver_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// CreateMessage inserts only while an accepted match exists, so a match
// deleted after the service check cannot produce a message.
func (r *postgresRepository) CreateMessage(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content)
		SELECT $1, $2, $3
		WHERE EXISTS (
			SELECT 1 FROM user_matches WHERE pair_key = $4 AND status = $5
		)
		RETURNING id, is_read, created_at`

	err := r.db.QueryRowxContext(ctx, query,
		msg.SenderID, msg.ReceiverID, msg.Content,
		matching.PairKey(msg.SenderID, msg.ReceiverID), matching.StatusAccepted,
	).Scan(&msg.ID, &msg.Read, &msg.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotMatched
		}
		return fmt.Errorf("failed to create message: %w", err)
	}
	return nil
}

func (r *postgresRepository) MarkMessagesAsRead(ctx context.Context, receiverID, senderID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE messages SET is_read = TRUE WHERE receiver_id = $1 AND sender_id = $2 AND is_read = FALSE`,
		receiverID, senderID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages as read: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}
