// internal/users/models.go

package users

import (
	"time"

	"github.com/lib/pq"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is a member profile. FitnessGoals and GymPreferences keep the
// order and duplicates the user entered.
type User struct {
	ID             int64          `json:"id" db:"id"`
	Username       string         `json:"username" db:"username"`
	Email          string         `json:"email" db:"email"`
	DisplayName    string         `json:"display_name" db:"display_name"`
	FitnessGoals   pq.StringArray `json:"fitness_goals" db:"fitness_goals"`
	GymPreferences pq.StringArray `json:"gym_preferences" db:"gym_preferences"`
	Role           string         `json:"role" db:"role"`
	IsBanned       bool           `json:"is_banned" db:"is_banned"`
	CreatedAt      time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at" db:"updated_at"`
}

// PublicProfile is what other members see.
type PublicProfile struct {
	ID             int64    `json:"id"`
	Username       string   `json:"username"`
	DisplayName    string   `json:"display_name"`
	FitnessGoals   []string `json:"fitness_goals"`
	GymPreferences []string `json:"gym_preferences"`
}

func (u *User) Public() *PublicProfile {
	return &PublicProfile{
		ID:             u.ID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		FitnessGoals:   u.FitnessGoals,
		GymPreferences: u.GymPreferences,
	}
}

// normalize replaces nil lists so they always serialize as arrays.
func (u *User) normalize() {
	if u.FitnessGoals == nil {
		u.FitnessGoals = pq.StringArray{}
	}
	if u.GymPreferences == nil {
		u.GymPreferences = pq.StringArray{}
	}
}

// UpdateProfileRequest is a partial update. Nil fields are left unchanged;
// an empty list clears it.
type UpdateProfileRequest struct {
	DisplayName    *string  `json:"display_name" validate:"omitempty,max=100"`
	FitnessGoals   []string `json:"fitness_goals" validate:"omitempty,dive,max=64"`
	GymPreferences []string `json:"gym_preferences" validate:"omitempty,dive,max=64"`
}

// CreateUserRequest provisions a member record for an identity issued elsewhere.
type CreateUserRequest struct {
	Username       string   `json:"username" validate:"required,min=3,max=50"`
	Email          string   `json:"email" validate:"required,email"`
	DisplayName    string   `json:"display_name" validate:"max=100"`
	Role           string   `json:"role" validate:"omitempty,oneof=user admin"`
	FitnessGoals   []string `json:"fitness_goals" validate:"omitempty,dive,max=64"`
	GymPreferences []string `json:"gym_preferences" validate:"omitempty,dive,max=64"`
}

// ListParams pages through users.
type ListParams struct {
	Limit  int
	Offset int
}
