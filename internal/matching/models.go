// internal/matching/models.go

package matching

import (
	"fmt"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// UserMatch is the single record connecting an unordered pair of users.
type UserMatch struct {
	ID         int64     `json:"id" db:"id"`
	SenderID   int64     `json:"sender_id" db:"sender_id"`
	ReceiverID int64     `json:"receiver_id" db:"receiver_id"`
	PairKey    string    `json:"-" db:"pair_key"`
	Status     Status    `json:"status" db:"status"`
	Score      *float64  `json:"score,omitempty" db:"score"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// Involves reports whether userID is the sender or receiver.
func (m *UserMatch) Involves(userID int64) bool {
	return m.SenderID == userID || m.ReceiverID == userID
}

// PairKey canonicalizes an unordered pair of user ids.
func PairKey(a, b int64) string {
	if a > b {
		a, b = b, a
	}
	return fmt.Sprintf("%d:%d", a, b)
}

type RequestMatchDTO struct {
	ReceiverID int64 `json:"receiver_id" validate:"required,gt=0"`
}

type RespondMatchDTO struct {
	Status Status `json:"status" validate:"required,oneof=accepted rejected"`
}
