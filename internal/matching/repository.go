// internal/matching/repository.go

package matching

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	GetUserMatches(ctx context.Context, userID int64, status *Status) ([]*UserMatch, error)
	GetUserMatch(ctx context.Context, id int64) (*UserMatch, error)
	// GetUserMatchByUsers is direction-agnostic.
	GetUserMatchByUsers(ctx context.Context, a, b int64) (*UserMatch, error)
	// CreateUserMatch returns ErrPairExists if the pair already has a record.
	CreateUserMatch(ctx context.Context, match *UserMatch) error
	UpdateUserMatchStatus(ctx context.Context, id int64, status Status) (*UserMatch, error)
	DeleteUserMatch(ctx context.Context, id int64) (bool, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const matchColumns = `id, sender_id, receiver_id, pair_key, status, score, created_at, updated_at`

func (r *postgresRepository) GetUserMatches(ctx context.Context, userID int64, status *Status) ([]*UserMatch, error) {
	query := `SELECT ` + matchColumns + ` FROM user_matches WHERE (sender_id = $1 OR receiver_id = $1)`
	args := []interface{}{userID}
	if status != nil {
		query += ` AND status = $2`
		args = append(args, *status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	matches := []*UserMatch{}
	if err := r.db.SelectContext(ctx, &matches, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list matches: %w", err)
	}
	return matches, nil
}

func (r *postgresRepository) GetUserMatch(ctx context.Context, id int64) (*UserMatch, error) {
	var m UserMatch
	if err := r.db.GetContext(ctx, &m, `SELECT `+matchColumns+` FROM user_matches WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) GetUserMatchByUsers(ctx context.Context, a, b int64) (*UserMatch, error) {
	var m UserMatch
	err := r.db.GetContext(ctx, &m, `SELECT `+matchColumns+` FROM user_matches WHERE pair_key = $1`, PairKey(a, b))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match by users: %w", err)
	}
	return &m, nil
}

// CreateUserMatch relies on the unique pair_key so concurrent creators
// across processes cannot both insert.
func (r *postgresRepository) CreateUserMatch(ctx context.Context, m *UserMatch) error {
	m.PairKey = PairKey(m.SenderID, m.ReceiverID)
	query := `
		INSERT INTO user_matches (sender_id, receiver_id, pair_key, status, score)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (pair_key) DO NOTHING
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query, m.SenderID, m.ReceiverID, m.PairKey, m.Status, m.Score).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPairExists
		}
		return fmt.Errorf("failed to create match: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateUserMatchStatus(ctx context.Context, id int64, status Status) (*UserMatch, error) {
	var m UserMatch
	err := r.db.GetContext(ctx, &m,
		`UPDATE user_matches SET status = $2, updated_at = NOW() WHERE id = $1 RETURNING `+matchColumns,
		id, status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to update match status: %w", err)
	}
	return &m, nil
}

func (r *postgresRepository) DeleteUserMatch(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM user_matches WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("failed to delete match: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
