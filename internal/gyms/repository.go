// internal/gyms/repository.go

package gyms

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Repository defines the gym catalogue and favourites store
type Repository interface {
	// Catalogue
	GetGym(ctx context.Context, id int64) (*Gym, error)
	GetAllGyms(ctx context.Context) ([]*Gym, error)
	CreateGym(ctx context.Context, gym *Gym) error
	UpdateGym(ctx context.Context, gym *Gym) error
	DeleteGym(ctx context.Context, id int64) error

	// Favourites
	GetSavedGym(ctx context.Context, userID, gymID int64) (*SavedGym, error)
	SaveGym(ctx context.Context, saved *SavedGym) error
	DeleteSavedGym(ctx context.Context, userID, gymID int64) (bool, error)
	GetSavedGymsByUser(ctx context.Context, userID int64) ([]*SavedGymView, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const gymColumns = `id, name, address, latitude, longitude, amenities, rating, created_at, updated_at`

func (r *postgresRepository) GetGym(ctx context.Context, id int64) (*Gym, error) {
	var gym Gym
	if err := r.db.GetContext(ctx, &gym, `SELECT `+gymColumns+` FROM gyms WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGymNotFound
		}
		return nil, fmt.Errorf("failed to get gym: %w", err)
	}
	gym.normalize()
	return &gym, nil
}

// GetAllGyms returns the catalogue in id order so ranking ties are stable.
func (r *postgresRepository) GetAllGyms(ctx context.Context) ([]*Gym, error) {
	gyms := []*Gym{}
	if err := r.db.SelectContext(ctx, &gyms, `SELECT `+gymColumns+` FROM gyms ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to list gyms: %w", err)
	}
	for _, g := range gyms {
		g.normalize()
	}
	return gyms, nil
}

func (r *postgresRepository) CreateGym(ctx context.Context, gym *Gym) error {
	gym.normalize()
	query := `
		INSERT INTO gyms (name, address, latitude, longitude, amenities, rating)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		gym.Name, gym.Address, gym.Latitude, gym.Longitude, gym.Amenities, gym.Rating,
	).Scan(&gym.ID, &gym.CreatedAt, &gym.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create gym: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateGym(ctx context.Context, gym *Gym) error {
	gym.normalize()
	query := `
		UPDATE gyms
		SET name = $2, address = $3, latitude = $4, longitude = $5,
			amenities = $6, rating = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		gym.ID, gym.Name, gym.Address, gym.Latitude, gym.Longitude, gym.Amenities, gym.Rating,
	).Scan(&gym.CreatedAt, &gym.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrGymNotFound
		}
		return fmt.Errorf("failed to update gym: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteGym(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM gyms WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete gym: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGymNotFound
	}
	return nil
}

func (r *postgresRepository) GetSavedGym(ctx context.Context, userID, gymID int64) (*SavedGym, error) {
	var saved SavedGym
	err := r.db.GetContext(ctx, &saved,
		`SELECT user_id, gym_id, match_score, saved_at FROM saved_gyms WHERE user_id = $1 AND gym_id = $2`,
		userID, gymID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSavedGymNotFound
		}
		return nil, fmt.Errorf("failed to get saved gym: %w", err)
	}
	return &saved, nil
}

// SaveGym upserts on (user_id, gym_id); a re-save refreshes the score snapshot.
func (r *postgresRepository) SaveGym(ctx context.Context, saved *SavedGym) error {
	query := `
		INSERT INTO saved_gyms (user_id, gym_id, match_score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, gym_id) DO UPDATE SET match_score = EXCLUDED.match_score
		RETURNING saved_at`

	if err := r.db.QueryRowxContext(ctx, query, saved.UserID, saved.GymID, saved.MatchScore).Scan(&saved.SavedAt); err != nil {
		return fmt.Errorf("failed to save gym: %w", err)
	}
	return nil
}

func (r *postgresRepository) DeleteSavedGym(ctx context.Context, userID, gymID int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM saved_gyms WHERE user_id = $1 AND gym_id = $2`, userID, gymID)
	if err != nil {
		return false, fmt.Errorf("failed to delete saved gym: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

type savedGymRow struct {
	SavedGym
	Gym
}

func (r *postgresRepository) GetSavedGymsByUser(ctx context.Context, userID int64) ([]*SavedGymView, error) {
	query := `
		SELECT s.user_id, s.gym_id, s.match_score, s.saved_at,
			g.id, g.name, g.address, g.latitude, g.longitude, g.amenities, g.rating, g.created_at, g.updated_at
		FROM saved_gyms s
		JOIN gyms g ON g.id = s.gym_id
		WHERE s.user_id = $1
		ORDER BY s.saved_at DESC`

	var rows []savedGymRow
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list saved gyms: %w", err)
	}

	views := make([]*SavedGymView, 0, len(rows))
	for i := range rows {
		gym := rows[i].Gym
		gym.normalize()
		views = append(views, &SavedGymView{SavedGym: rows[i].SavedGym, Gym: &gym})
	}
	return views, nil
}
