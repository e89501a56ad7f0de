// internal/matching/service.go

package matching

import (
	"context"
	"errors"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/logging"
	"github.com/gymmatch/gymmatch-backend/internal/users"
)

var (
	ErrMatchNotFound    = errs.New(errs.ErrNotFound, "match not found")
	ErrReceiverNotFound = errs.New(errs.ErrNotFound, "user not found")
	ErrCannotMatchSelf  = errs.New(errs.ErrValidation, "cannot send a match request to yourself")
	ErrInvalidStatus    = errs.New(errs.ErrValidation, "status must be accepted or rejected")
	ErrAlreadyResolved  = errs.New(errs.ErrValidation, "match has already been resolved")
	ErrNotReceiver      = errs.New(errs.ErrUnauthorized, "only the receiver can respond to this match")
	ErrNotParticipant   = errs.New(errs.ErrUnauthorized, "not a participant in this match")

	// ErrPairExists is returned by repositories when the pair key is taken.
	ErrPairExists = errors.New("match already exists for this pair")

	errCreateConflict = errors.New("match creation kept conflicting")
)

// UserReader looks up the receiver of a request.
type UserReader interface {
	GetUser(ctx context.Context, id int64) (*users.User, error)
}

type Service interface {
	RequestMatch(ctx context.Context, senderID, receiverID int64) (*UserMatch, error)
	RespondToMatch(ctx context.Context, matchID, actorID int64, status Status) (*UserMatch, error)
	ListMatches(ctx context.Context, userID int64, status *Status) ([]*UserMatch, error)
	DeleteMatch(ctx context.Context, matchID, actorID int64) (bool, error)
	GetMatchBetween(ctx context.Context, a, b int64) (*UserMatch, error)
	IsAccepted(ctx context.Context, a, b int64) (bool, error)
}

type service struct {
	repo   Repository
	users  UserReader
	locker PairLocker
}

func NewService(repo Repository, users UserReader, locker PairLocker) Service {
	if locker == nil {
		locker = NewLocalLocker()
	}
	return &service{repo: repo, users: users, locker: locker}
}

// RequestMatch creates a pending request, accepts a reciprocal pending
// request, or returns the pair's existing record unchanged.
func (s *service) RequestMatch(ctx context.Context, senderID, receiverID int64) (*UserMatch, error) {
	if senderID == receiverID {
		return nil, ErrCannotMatchSelf
	}

	receiver, err := s.users.GetUser(ctx, receiverID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, ErrReceiverNotFound
		}
		return nil, err
	}
	if receiver.IsBanned {
		return nil, ErrReceiverNotFound
	}

	unlock, err := s.locker.Lock(ctx, PairKey(senderID, receiverID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// A second pass only happens when another process inserted the pair
	// between our lookup and insert.
	for attempt := 0; attempt < 2; attempt++ {
		existing, err := s.repo.GetUserMatchByUsers(ctx, senderID, receiverID)
		switch {
		case err == nil:
			return s.resolveExisting(ctx, existing, senderID)
		case !errors.Is(err, ErrMatchNotFound):
			return nil, err
		}

		m := &UserMatch{SenderID: senderID, ReceiverID: receiverID, Status: StatusPending}
		err = s.repo.CreateUserMatch(ctx, m)
		if errors.Is(err, ErrPairExists) {
			continue
		}
		if err != nil {
			return nil, err
		}

		recordRequest(outcomeCreated)
		logging.Ctx(ctx).Info().
			Int64("match_id", m.ID).
			Int64("sender_id", senderID).
			Int64("receiver_id", receiverID).
			Msg("match requested")
		return m, nil
	}
	return nil, errCreateConflict
}

func (s *service) resolveExisting(ctx context.Context, existing *UserMatch, requesterID int64) (*UserMatch, error) {
	if existing.Status != StatusPending || existing.SenderID == requesterID {
		recordRequest(outcomeExisting)
		return existing, nil
	}

	accepted, err := s.repo.UpdateUserMatchStatus(ctx, existing.ID, StatusAccepted)
	if err != nil {
		return nil, err
	}
	recordRequest(outcomeReciprocated)
	logging.Ctx(ctx).Info().Int64("match_id", accepted.ID).Msg("match accepted by reciprocal request")
	return accepted, nil
}

// RespondToMatch lets the receiver accept or reject a pending match.
// Repeating the current decision is a no-op; changing a decision is refused.
func (s *service) RespondToMatch(ctx context.Context, matchID, actorID int64, status Status) (*UserMatch, error) {
	if status != StatusAccepted && status != StatusRejected {
		return nil, ErrInvalidStatus
	}

	m, err := s.repo.GetUserMatch(ctx, matchID)
	if err != nil {
		return nil, err
	}
	if m.ReceiverID != actorID {
		return nil, ErrNotReceiver
	}

	unlock, err := s.locker.Lock(ctx, PairKey(m.SenderID, m.ReceiverID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	// Re-read under the lock; a reciprocal request may have just accepted it.
	if m, err = s.repo.GetUserMatch(ctx, matchID); err != nil {
		return nil, err
	}
	if m.Status == status {
		return m, nil
	}
	if m.Status != StatusPending {
		return nil, ErrAlreadyResolved
	}

	updated, err := s.repo.UpdateUserMatchStatus(ctx, matchID, status)
	if err != nil {
		return nil, err
	}
	recordResponse(status)
	return updated, nil
}

func (s *service) ListMatches(ctx context.Context, userID int64, status *Status) ([]*UserMatch, error) {
	if status != nil && !status.Valid() {
		return nil, errs.Invalid("unknown status %q", *status)
	}
	return s.repo.GetUserMatches(ctx, userID, status)
}

func (s *service) DeleteMatch(ctx context.Context, matchID, actorID int64) (bool, error) {
	m, err := s.repo.GetUserMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	if !m.Involves(actorID) {
		return false, ErrNotParticipant
	}

	removed, err := s.repo.DeleteUserMatch(ctx, matchID)
	if err != nil {
		return false, err
	}
	if removed {
		matchesDeletedTotal.Inc()
	}
	return removed, nil
}

func (s *service) GetMatchBetween(ctx context.Context, a, b int64) (*UserMatch, error) {
	return s.repo.GetUserMatchByUsers(ctx, a, b)
}

// IsAccepted reports whether a and b have an accepted match.
func (s *service) IsAccepted(ctx context.Context, a, b int64) (bool, error) {
	m, err := s.repo.GetUserMatchByUsers(ctx, a, b)
	if errors.Is(err, ErrMatchNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return m.Status == StatusAccepted, nil
}
