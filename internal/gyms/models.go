// internal/gyms/models.go

package gyms

import (
	"time"

	"github.com/lib/pq"

	"github.com/gymmatch/gymmatch-backend/internal/users"
)

// Gym is a catalogue entry. Rating, when present, is in [0, 5].
type Gym struct {
	ID        int64          `json:"id" db:"id"`
	Name      string         `json:"name" db:"name"`
	Address   string         `json:"address" db:"address"`
	Latitude  *float64       `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64       `json:"longitude,omitempty" db:"longitude"`
	Amenities pq.StringArray `json:"amenities" db:"amenities"`
	Rating    *float64       `json:"rating,omitempty" db:"rating"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`
}

func (g *Gym) normalize() {
	if g.Amenities == nil {
		g.Amenities = pq.StringArray{}
	}
}

// SavedGym is a user's favourite. MatchScore is the score at save time.
type SavedGym struct {
	UserID     int64     `json:"user_id" db:"user_id"`
	GymID      int64     `json:"gym_id" db:"gym_id"`
	MatchScore *int      `json:"match_score,omitempty" db:"match_score"`
	SavedAt    time.Time `json:"saved_at" db:"saved_at"`
}

// SavedGymView joins a favourite with its gym.
type SavedGymView struct {
	SavedGym
	Gym *Gym `json:"gym"`
}

// ScoredGym pairs a gym with its score for one user.
type ScoredGym struct {
	Gym   *Gym `json:"gym"`
	Score int  `json:"score"`
}

// Profile is the part of a user the scorer reads.
type Profile struct {
	FitnessGoals   []string
	GymPreferences []string
}

func ProfileOf(u *users.User) Profile {
	return Profile{FitnessGoals: u.FitnessGoals, GymPreferences: u.GymPreferences}
}

// GymRequest creates or replaces a catalogue entry.
type GymRequest struct {
	Name      string   `json:"name" validate:"required,max=200"`
	Address   string   `json:"address" validate:"max=500"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude" validate:"omitempty,longitude"`
	Amenities []string `json:"amenities" validate:"omitempty,dive,required,max=64"`
	Rating    *float64 `json:"rating" validate:"omitempty,gte=0,lte=5"`
}

// RecommendParams narrows a recommendation request. Coordinates are
// accepted for client compatibility but do not affect ranking.
type RecommendParams struct {
	Limit     int
	Latitude  *float64
	Longitude *float64
}
