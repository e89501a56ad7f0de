// internal/users/repository.go

package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// Repository defines the user repository interface
type Repository interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	CreateUser(ctx context.Context, user *User) error
	UpdateUser(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error)
	SetBanned(ctx context.Context, id int64, banned bool) error
	GetAllUsers(ctx context.Context, params ListParams) ([]*User, error)
	DeleteUser(ctx context.Context, id int64) error
}

// postgresRepository implements Repository using PostgreSQL
type postgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

const userColumns = `id, username, email, display_name, fitness_goals, gym_preferences,
	role, is_banned, created_at, updated_at`

func (r *postgresRepository) GetUser(ctx context.Context, id int64) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	user.normalize()
	return &user, nil
}

func (r *postgresRepository) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	var user User
	err := r.db.GetContext(ctx, &user, `SELECT `+userColumns+` FROM users WHERE LOWER(username) = LOWER($1)`, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	user.normalize()
	return &user, nil
}

func (r *postgresRepository) CreateUser(ctx context.Context, user *User) error {
	user.normalize()
	query := `
		INSERT INTO users (username, email, display_name, fitness_goals, gym_preferences, role)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, is_banned, created_at, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		user.Username, user.Email, user.DisplayName,
		user.FitnessGoals, user.GymPreferences, user.Role,
	).Scan(&user.ID, &user.IsBanned, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// UpdateUser applies the non-nil fields of req
func (r *postgresRepository) UpdateUser(ctx context.Context, id int64, req *UpdateProfileRequest) (*User, error) {
	var (
		setClauses []string
		args       []interface{}
	)
	add := func(column string, value interface{}) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if req.DisplayName != nil {
		add("display_name", *req.DisplayName)
	}
	if req.FitnessGoals != nil {
		add("fitness_goals", pq.Array(req.FitnessGoals))
	}
	if req.GymPreferences != nil {
		add("gym_preferences", pq.Array(req.GymPreferences))
	}
	setClauses = append(setClauses, "updated_at = NOW()")
	args = append(args, id)

	query := fmt.Sprintf(`UPDATE users SET %s WHERE id = $%d RETURNING `+userColumns,
		strings.Join(setClauses, ", "), len(args))

	var user User
	if err := r.db.GetContext(ctx, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	user.normalize()
	return &user, nil
}

func (r *postgresRepository) SetBanned(ctx context.Context, id int64, banned bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1`, id, banned)
	if err != nil {
		return fmt.Errorf("failed to update ban state: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) GetAllUsers(ctx context.Context, params ListParams) ([]*User, error) {
	users := []*User{}
	err := r.db.SelectContext(ctx, &users,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1 OFFSET $2`,
		params.Limit, params.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	for _, u := range users {
		u.normalize()
	}
	return users, nil
}

func (r *postgresRepository) DeleteUser(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}
