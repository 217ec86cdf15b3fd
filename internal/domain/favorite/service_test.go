package favorite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wlstjr1123/carebridge/internal/platform/location"
	"github.com/wlstjr1123/carebridge/internal/platform/session"
	"github.com/rs/zerolog"
)

type mockRepo struct {
	favorites map[uuid.UUID]*Favorite
	entries   []*Entry
}

func newMockRepo() *mockRepo {
	return &mockRepo{favorites: make(map[uuid.UUID]*Favorite)}
}

func (m *mockRepo) Find(_ context.Context, userID, facilityID uuid.UUID) (*Favorite, error) {
	for _, f := range m.favorites {
		if f.UserID == userID && f.FacilityID == facilityID {
			return f, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) Create(_ context.Context, f *Favorite) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	f.CreatedAt = time.Now()
	m.favorites[f.ID] = f
	return nil
}

func (m *mockRepo) Delete(_ context.Context, userID, favID uuid.UUID) error {
	if f, ok := m.favorites[favID]; ok && f.UserID == userID {
		delete(m.favorites, favID)
	}
	return nil
}

func (m *mockRepo) UpdateMemo(_ context.Context, userID, favID uuid.UUID, memo string) error {
	if f, ok := m.favorites[favID]; ok && f.UserID == userID {
		f.Memo = memo
	}
	return nil
}

func (m *mockRepo) ListEntries(_ context.Context, _ uuid.UUID) ([]*Entry, error) {
	return m.entries, nil
}

func (m *mockRepo) FacilityIDs(_ context.Context, userID uuid.UUID) (map[uuid.UUID]bool, error) {
	ids := make(map[uuid.UUID]bool)
	for _, f := range m.favorites {
		if f.UserID == userID {
			ids[f.FacilityID] = true
		}
	}
	return ids, nil
}

func TestToggleCreatesThenRemoves(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	userID := uuid.New()
	facilityID := uuid.New()

	on, err := svc.Toggle(ctx, userID, facilityID)
	if err != nil {
		t.Fatalf("toggle on: %v", err)
	}
	if !on {
		t.Fatal("first toggle should bookmark")
	}
	if len(repo.favorites) != 1 {
		t.Fatalf("stored %d favorites, want 1", len(repo.favorites))
	}

	off, err := svc.Toggle(ctx, userID, facilityID)
	if err != nil {
		t.Fatalf("toggle off: %v", err)
	}
	if off {
		t.Fatal("second toggle should remove the bookmark")
	}
	if len(repo.favorites) != 0 {
		t.Fatalf("stored %d favorites, want 0", len(repo.favorites))
	}
}

func TestToggleIsPerUser(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, nil)
	ctx := context.Background()

	facilityID := uuid.New()
	alice := uuid.New()
	bob := uuid.New()

	if _, err := svc.Toggle(ctx, alice, facilityID); err != nil {
		t.Fatal(err)
	}
	on, err := svc.Toggle(ctx, bob, facilityID)
	if err != nil {
		t.Fatal(err)
	}
	if !on {
		t.Fatal("another user's bookmark must not satisfy the toggle")
	}
	if len(repo.favorites) != 2 {
		t.Fatalf("stored %d favorites, want 2", len(repo.favorites))
	}
}

func fp(v float64) *float64 { return &v }

func TestListFillsDistancesFromCachedFix(t *testing.T) {
	repo := newMockRepo()
	repo.entries = []*Entry{
		{FacilityName: "서울의료원", Lat: fp(37.5665), Lng: fp(126.9780)},
		{FacilityName: "좌표없음병원"},
	}

	store := session.NewMemoryStore()
	loc := location.NewCache(store, nil, zerolog.Nop())
	ctx := context.Background()
	loc.SaveFix(ctx, "s1", &location.Fix{Lat: 37.5665, Lng: 126.9780, CapturedAt: time.Now()})

	svc := NewService(repo, loc)
	entries, err := svc.List(ctx, uuid.New(), "s1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	if entries[0].DistanceKm == nil {
		t.Fatal("entry with coordinates should get a distance")
	}
	if *entries[0].DistanceKm > 0.001 {
		t.Errorf("same-point distance = %v, want ~0", *entries[0].DistanceKm)
	}
	if entries[1].DistanceKm != nil {
		t.Error("entry without coordinates should keep a nil distance")
	}
}

func TestListWithoutFixLeavesDistancesNil(t *testing.T) {
	repo := newMockRepo()
	repo.entries = []*Entry{
		{FacilityName: "서울의료원", Lat: fp(37.5665), Lng: fp(126.9780)},
	}

	store := session.NewMemoryStore()
	loc := location.NewCache(store, nil, zerolog.Nop())

	svc := NewService(repo, loc)
	entries, err := svc.List(context.Background(), uuid.New(), "cold")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if entries[0].DistanceKm != nil {
		t.Error("no cached fix should mean no distance")
	}
}
