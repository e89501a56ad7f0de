// internal/users/service.go

package users

import (
	"context"
	"errors"
	"strings"

	"github.com/lib/pq"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/common/utils"
)

var (
	ErrUserNotFound       = errs.New(errs.ErrNotFound, "user not found")
	ErrUserExists         = errs.New(errs.ErrValidation, "username or email already in use")
	ErrCannotModerateSelf = errs.New(errs.ErrValidation, "admins cannot ban or delete their own account")
	ErrBlankEntry         = errs.New(errs.ErrValidation, "goals and preferences must not contain blank entries")
)

const (
	defaultListLimit = 50
	maxListLimit     = 200
)

// Limits bound the size of a profile's free-text lists.
type Limits struct {
	MaxFitnessGoals   int
	MaxGymPreferences int
}

type Service interface {
	GetProfile(ctx context.Context, userID int64) (*User, error)
	GetPublicProfile(ctx context.Context, userID int64) (*PublicProfile, error)
	UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*User, error)

	// Admin
	CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error)
	ListUsers(ctx context.Context, params ListParams) ([]*User, error)
	SetBanned(ctx context.Context, actorID, targetID int64, banned bool) (*User, error)
	DeleteUser(ctx context.Context, actorID, targetID int64) error

	// IsActive backs the auth middleware's status check.
	IsActive(ctx context.Context, userID int64) (bool, error)
}

type service struct {
	repo   Repository
	limits Limits
}

func NewService(repo Repository, limits Limits) Service {
	return &service{repo: repo, limits: limits}
}

func (s *service) GetProfile(ctx context.Context, userID int64) (*User, error) {
	return s.repo.GetUser(ctx, userID)
}

// GetPublicProfile hides banned members.
func (s *service) GetPublicProfile(ctx context.Context, userID int64) (*PublicProfile, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.IsBanned {
		return nil, ErrUserNotFound
	}
	return user.Public(), nil
}

func (s *service) UpdateProfile(ctx context.Context, userID int64, req *UpdateProfileRequest) (*User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	var err error
	if req.FitnessGoals, err = cleanList(req.FitnessGoals, s.limits.MaxFitnessGoals, "fitness_goals"); err != nil {
		return nil, err
	}
	if req.GymPreferences, err = cleanList(req.GymPreferences, s.limits.MaxGymPreferences, "gym_preferences"); err != nil {
		return nil, err
	}
	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		req.DisplayName = &name
	}

	return s.repo.UpdateUser(ctx, userID, req)
}

func (s *service) CreateUser(ctx context.Context, req *CreateUserRequest) (*User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	goals, err := cleanList(req.FitnessGoals, s.limits.MaxFitnessGoals, "fitness_goals")
	if err != nil {
		return nil, err
	}
	prefs, err := cleanList(req.GymPreferences, s.limits.MaxGymPreferences, "gym_preferences")
	if err != nil {
		return nil, err
	}

	role := req.Role
	if role == "" {
		role = RoleUser
	}

	user := &User{
		Username:       strings.TrimSpace(req.Username),
		Email:          strings.ToLower(strings.TrimSpace(req.Email)),
		DisplayName:    strings.TrimSpace(req.DisplayName),
		FitnessGoals:   pq.StringArray(goals),
		GymPreferences: pq.StringArray(prefs),
		Role:           role,
	}
	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ListUsers(ctx context.Context, params ListParams) ([]*User, error) {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}
	return s.repo.GetAllUsers(ctx, params)
}

func (s *service) SetBanned(ctx context.Context, actorID, targetID int64, banned bool) (*User, error) {
	if actorID == targetID {
		return nil, ErrCannotModerateSelf
	}
	if err := s.repo.SetBanned(ctx, targetID, banned); err != nil {
		return nil, err
	}
	return s.repo.GetUser(ctx, targetID)
}

func (s *service) DeleteUser(ctx context.Context, actorID, targetID int64) error {
	if actorID == targetID {
		return ErrCannotModerateSelf
	}
	return s.repo.DeleteUser(ctx, targetID)
}

func (s *service) IsActive(ctx context.Context, userID int64) (bool, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if errors.Is(err, ErrUserNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !user.IsBanned, nil
}

// cleanList trims entries and enforces the size limit. A nil list stays nil
// so partial updates can tell "absent" from "cleared".
func cleanList(list []string, limit int, field string) ([]string, error) {
	if list == nil {
		return nil, nil
	}
	if limit > 0 && len(list) > limit {
		return nil, errs.Invalid("%s must have at most %d entries", field, limit)
	}
	out := make([]string, 0, len(list))
	for _, entry := range list {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			return nil, ErrBlankEntry
		}
		out = append(out, entry)
	}
	return out, nil
}
