package gyms

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/gymmatch/gymmatch-backend/internal/common/errs"
	"github.com/gymmatch/gymmatch-backend/internal/users"
)

type memoryRepo struct {
	mu     sync.Mutex
	nextID int64
	gyms   map[int64]*Gym
	saved  map[[2]int64]*SavedGym
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{gyms: make(map[int64]*Gym), saved: make(map[[2]int64]*SavedGym)}
}

func (m *memoryRepo) GetGym(_ context.Context, id int64) (*Gym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	g, ok := m.gyms[id]
	if !ok {
		return nil, ErrGymNotFound
	}
	cp := *g
	return &cp, nil
}

func (m *memoryRepo) GetAllGyms(_ context.Context) ([]*Gym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*Gym, 0, len(m.gyms))
	for _, g := range m.gyms {
		cp := *g
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRepo) CreateGym(_ context.Context, gym *Gym) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	gym.ID = m.nextID
	gym.CreatedAt = time.Now()
	gym.UpdatedAt = gym.CreatedAt
	cp := *gym
	m.gyms[gym.ID] = &cp
	return nil
}

func (m *memoryRepo) UpdateGym(_ context.Context, gym *Gym) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gyms[gym.ID]; !ok {
		return ErrGymNotFound
	}
	cp := *gym
	m.gyms[gym.ID] = &cp
	return nil
}

func (m *memoryRepo) DeleteGym(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.gyms[id]; !ok {
		return ErrGymNotFound
	}
	delete(m.gyms, id)
	return nil
}

func (m *memoryRepo) GetSavedGym(_ context.Context, userID, gymID int64) (*SavedGym, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.saved[[2]int64{userID, gymID}]
	if !ok {
		return nil, ErrSavedGymNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memoryRepo) SaveGym(_ context.Context, saved *SavedGym) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{saved.UserID, saved.GymID}
	if existing, ok := m.saved[key]; ok {
		existing.MatchScore = saved.MatchScore
		saved.SavedAt = existing.SavedAt
		return nil
	}
	saved.SavedAt = time.Now()
	cp := *saved
	m.saved[key] = &cp
	return nil
}

func (m *memoryRepo) DeleteSavedGym(_ context.Context, userID, gymID int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]int64{userID, gymID}
	if _, ok := m.saved[key]; !ok {
		return false, nil
	}
	delete(m.saved, key)
	return true, nil
}

func (m *memoryRepo) GetSavedGymsByUser(_ context.Context, userID int64) ([]*SavedGymView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*SavedGymView{}
	for key, s := range m.saved {
		if key[0] != userID {
			continue
		}
		g := *m.gyms[key[1]]
		out = append(out, &SavedGymView{SavedGym: *s, Gym: &g})
	}
	return out, nil
}

type profileStub map[int64]*users.User

func (p profileStub) GetProfile(_ context.Context, userID int64) (*users.User, error) {
	u, ok := p[userID]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return u, nil
}

func setup(t *testing.T) (Service, *memoryRepo, profileStub) {
	t.Helper()
	repo := newMemoryRepo()
	profiles := profileStub{
		1: {ID: 1, FitnessGoals: pq.StringArray{"Build Muscle"}},
		2: {ID: 2},
	}
	return NewService(repo, profiles, 2), repo, profiles
}

func mustCreateGym(t *testing.T, svc Service, name string, amenities ...string) *Gym {
	t.Helper()
	g, err := svc.CreateGym(context.Background(), &GymRequest{Name: name, Address: name + " street", Amenities: amenities})
	if err != nil {
		t.Fatalf("CreateGym(%s) error = %v", name, err)
	}
	return g
}

func TestRecommend(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	mustCreateGym(t, svc, "Spa", "Sauna")
	iron := mustCreateGym(t, svc, "Iron", "Free Weights", "Weight Training")
	mustCreateGym(t, svc, "Lift", "Free Weights")

	got, err := svc.Recommend(ctx, 1, RecommendParams{})
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("limit not applied: got %d results", len(got))
	}
	if got[0].Gym.ID != iron.ID || got[0].Score != 96 || got[1].Score != 93 {
		t.Errorf("unexpected ranking: %+v %+v", got[0], got[1])
	}

	// Coordinates are ignored.
	lat, lng := 51.5, -0.12
	withCoords, err := svc.Recommend(ctx, 1, RecommendParams{Limit: 5, Latitude: &lat, Longitude: &lng})
	if err != nil || len(withCoords) != 2 {
		t.Errorf("Recommend with coords = %d, %v", len(withCoords), err)
	}

	if _, err := svc.Recommend(ctx, 99, RecommendParams{}); !errors.Is(err, errs.ErrNotFound) {
		t.Errorf("unknown user error = %v", err)
	}
}

func TestListGymsSearch(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()
	mustCreateGym(t, svc, "Downtown Barbell")
	mustCreateGym(t, svc, "Riverside Yoga")

	tests := []struct {
		query string
		want  int
	}{
		{"", 2},
		{"barbell", 1},
		{"RIVERSIDE", 1},
		{"street", 2},
		{"nothing", 0},
	}
	for _, tt := range tests {
		got, err := svc.ListGyms(ctx, tt.query)
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != tt.want {
			t.Errorf("ListGyms(%q) = %d gyms, want %d", tt.query, len(got), tt.want)
		}
	}
}

func TestSaveGymIdempotent(t *testing.T) {
	svc, repo, profiles := setup(t)
	ctx := context.Background()
	gym := mustCreateGym(t, svc, "Lift", "Free Weights")

	first, err := svc.SaveGym(ctx, 1, gym.ID)
	if err != nil {
		t.Fatalf("SaveGym() error = %v", err)
	}
	if first.MatchScore == nil || *first.MatchScore != 93 {
		t.Errorf("snapshot score = %v, want 93", first.MatchScore)
	}

	// Profile change then re-save refreshes the snapshot without duplicating.
	profiles[1] = &users.User{ID: 1}
	second, err := svc.SaveGym(ctx, 1, gym.ID)
	if err != nil {
		t.Fatal(err)
	}
	if *second.MatchScore != 70 {
		t.Errorf("refreshed snapshot = %d, want 70", *second.MatchScore)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved rows = %d, want 1", len(repo.saved))
	}

	list, err := svc.ListSavedGyms(ctx, 1)
	if err != nil || len(list) != 1 || list[0].Gym.Name != "Lift" {
		t.Errorf("ListSavedGyms() = %+v, %v", list, err)
	}

	if err := svc.UnsaveGym(ctx, 1, gym.ID); err != nil {
		t.Fatal(err)
	}
	if err := svc.UnsaveGym(ctx, 1, gym.ID); !errors.Is(err, ErrSavedGymNotFound) {
		t.Errorf("second unsave error = %v", err)
	}

	if _, err := svc.SaveGym(ctx, 1, 999); !errors.Is(err, ErrGymNotFound) {
		t.Errorf("unknown gym error = %v", err)
	}
}

func TestGymAdminValidation(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	badRating := 5.5
	lat := 10.0
	tests := []struct {
		name string
		req  *GymRequest
	}{
		{"missing name", &GymRequest{}},
		{"rating above five", &GymRequest{Name: "x", Rating: &badRating}},
		{"latitude without longitude", &GymRequest{Name: "x", Latitude: &lat}},
		{"blank amenity", &GymRequest{Name: "x", Amenities: []string{""}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateGym(ctx, tt.req); !errors.Is(err, errs.ErrValidation) {
				t.Errorf("error = %v, want validation error", err)
			}
		})
	}

	rating := 4.5
	gym := mustCreateGym(t, svc, "Old")
	updated, err := svc.UpdateGym(ctx, gym.ID, &GymRequest{Name: "New", Rating: &rating, Amenities: []string{" Sauna "}})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Name != "New" || *updated.Rating != 4.5 || updated.Amenities[0] != "Sauna" {
		t.Errorf("UpdateGym() = %+v", updated)
	}
	if _, err := svc.UpdateGym(ctx, 999, &GymRequest{Name: "x"}); !errors.Is(err, ErrGymNotFound) {
		t.Errorf("update unknown gym error = %v", err)
	}
	if err := svc.DeleteGym(ctx, gym.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.GetGym(ctx, gym.ID); !errors.Is(err, ErrGymNotFound) {
		t.Errorf("deleted gym still found: %v", err)
	}
}
