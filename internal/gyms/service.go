// internal/gyms/service.go

package gyms

import (
	"context"
	"strings"

	"github.com/lib/pq"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
	"github.com/gymmatch/gymmatch-backend/internal/users"
)

var (
	ErrGymNotFound      = errs.New(errs.ErrNotFound, "gym not found")
	ErrSavedGymNotFound = errs.New(errs.ErrNotFound, "gym is not in favourites")
)

// ProfileReader loads the profile a recommendation is scored against.
type ProfileReader interface {
	GetProfile(ctx context.Context, userID int64) (*users.User, error)
}

type Service interface {
	Recommend(ctx context.Context, userID int64, params RecommendParams) ([]*ScoredGym, error)
	ListGyms(ctx context.Context, query string) ([]*Gym, error)
	GetGym(ctx context.Context, id int64) (*Gym, error)

	// Favourites
	SaveGym(ctx context.Context, userID, gymID int64) (*SavedGym, error)
	UnsaveGym(ctx context.Context, userID, gymID int64) error
	ListSavedGyms(ctx context.Context, userID int64) ([]*SavedGymView, error)

	// Admin
	CreateGym(ctx context.Context, req *GymRequest) (*Gym, error)
	UpdateGym(ctx context.Context, id int64, req *GymRequest) (*Gym, error)
	DeleteGym(ctx context.Context, id int64) error
}

type service struct {
	repo         Repository
	profiles     ProfileReader
	defaultLimit int
}

func NewService(repo Repository, profiles ProfileReader, defaultLimit int) Service {
	return &service{repo: repo, profiles: profiles, defaultLimit: defaultLimit}
}

// Recommend ranks the whole catalogue for the user. Scores are recomputed
// on every call.
func (s *service) Recommend(ctx context.Context, userID int64, params RecommendParams) ([]*ScoredGym, error) {
	user, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	gyms, err := s.repo.GetAllGyms(ctx)
	if err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 || limit > s.defaultLimit {
		limit = s.defaultLimit
	}

	ranked := Rank(ProfileOf(user), gyms)
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	RecordRecommendation()
	return ranked, nil
}

// ListGyms filters the catalogue by a case-insensitive name or address substring.
func (s *service) ListGyms(ctx context.Context, query string) ([]*Gym, error) {
	gyms, err := s.repo.GetAllGyms(ctx)
	if err != nil {
		return nil, err
	}

	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return gyms, nil
	}

	out := make([]*Gym, 0, len(gyms))
	for _, g := range gyms {
		if strings.Contains(strings.ToLower(g.Name), query) || strings.Contains(strings.ToLower(g.Address), query) {
			out = append(out, g)
		}
	}
	return out, nil
}

func (s *service) GetGym(ctx context.Context, id int64) (*Gym, error) {
	return s.repo.GetGym(ctx, id)
}

// SaveGym favourites a gym with a snapshot of its current score.
// Saving again refreshes the snapshot.
func (s *service) SaveGym(ctx context.Context, userID, gymID int64) (*SavedGym, error) {
	gym, err := s.repo.GetGym(ctx, gymID)
	if err != nil {
		return nil, err
	}
	user, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	score := Score(ProfileOf(user), gym)
	saved := &SavedGym{UserID: userID, GymID: gymID, MatchScore: &score}
	if err := s.repo.SaveGym(ctx, saved); err != nil {
		return nil, err
	}
	RecordSave("save")
	return saved, nil
}

func (s *service) UnsaveGym(ctx context.Context, userID, gymID int64) error {
	removed, err := s.repo.DeleteSavedGym(ctx, userID, gymID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrSavedGymNotFound
	}
	RecordSave("unsave")
	return nil
}

func (s *service) ListSavedGyms(ctx context.Context, userID int64) ([]*SavedGymView, error) {
	return s.repo.GetSavedGymsByUser(ctx, userID)
}

func (s *service) CreateGym(ctx context.Context, req *GymRequest) (*Gym, error) {
	gym, err := gymFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateGym(ctx, gym); err != nil {
		return nil, err
	}
	return gym, nil
}

func (s *service) UpdateGym(ctx context.Context, id int64, req *GymRequest) (*Gym, error) {
	gym, err := gymFromRequest(req)
	if err != nil {
		return nil, err
	}
	gym.ID = id
	if err := s.repo.UpdateGym(ctx, gym); err != nil {
		return nil, err
	}
	return gym, nil
}

func (s *service) DeleteGym(ctx context.Context, id int64) error {
	return s.repo.DeleteGym(ctx, id)
}

func gymFromRequest(req *GymRequest) (*Gym, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}
	if (req.Latitude == nil) != (req.Longitude == nil) {
		return nil, errs.Invalid("latitude and longitude must be provided together")
	}

	amenities := make(pq.StringArray, 0, len(req.Amenities))
	for _, a := range req.Amenities {
		if a = strings.TrimSpace(a); a != "" {
			amenities = append(amenities, a)
		}
	}

	return &Gym{
		Name:      strings.TrimSpace(req.Name),
		Address:   strings.TrimSpace(req.Address),
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Amenities: amenities,
		Rating:    req.Rating,
	}, nil
}
