package facility

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/wlstjr1123/carebridge/internal/domain/congestion"
)

type mockRepo struct {
	facilities map[uuid.UUID]*Facility
	statuses   map[uuid.UUID]*Status
	regions    map[string][]string

	regionDictCalls int
	failRegionDict  bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		facilities: make(map[uuid.UUID]*Facility),
		statuses:   make(map[uuid.UUID]*Status),
		regions:    make(map[string][]string),
	}
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Facility, error) {
	f, ok := m.facilities[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return f, nil
}

func (m *mockRepo) GetByHPID(_ context.Context, hpid string) (*Facility, error) {
	for _, f := range m.facilities {
		if f.HPID == hpid {
			return f, nil
		}
	}
	return nil, errors.New("not found")
}

func (m *mockRepo) Upsert(_ context.Context, f *Facility) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	m.facilities[f.ID] = f
	return nil
}

func (m *mockRepo) ListWithLatestStatus(_ context.Context, filter RegionFilter) ([]*WithStatus, error) {
	var out []*WithStatus
	for id, f := range m.facilities {
		if filter.Sido != "" && NormalizeSido(f.Sido) != NormalizeSido(filter.Sido) {
			continue
		}
		if filter.Sigungu != "" && f.Sigungu != filter.Sigungu {
			continue
		}
		out = append(out, &WithStatus{Facility: *f, Status: m.statuses[id]})
	}
	return out, nil
}

func (m *mockRepo) UpsertStatus(_ context.Context, s *Status) error {
	m.statuses[s.FacilityID] = s
	return nil
}

func (m *mockRepo) LatestStatus(_ context.Context, facilityID uuid.UUID) (*Status, error) {
	s, ok := m.statuses[facilityID]
	if !ok {
		return nil, errors.New("no status")
	}
	return s, nil
}

func (m *mockRepo) SidoList(_ context.Context) ([]string, error) {
	var out []string
	for sido := range m.regions {
		out = append(out, sido)
	}
	return out, nil
}

func (m *mockRepo) SigunguList(_ context.Context, sido string) ([]string, error) {
	return m.regions[NormalizeSido(sido)], nil
}

func (m *mockRepo) RegionDict(_ context.Context) (map[string][]string, error) {
	m.regionDictCalls++
	if m.failRegionDict {
		return nil, errors.New("db down")
	}
	return m.regions, nil
}

func TestGetDetailWithStatus(t *testing.T) {
	repo := newMockRepo()
	id := uuid.New()
	repo.facilities[id] = &Facility{ID: id, HPID: "A1100001", Name: "한빛의료원", Sido: "서울특별시"}
	repo.statuses[id] = &Status{
		FacilityID:        id,
		ERGeneralAvailable: intp(0),
		ERGeneralTotal:     intp(10),
		HasCT:              boolp(true),
		BirthAvailable:     intp(1),
		ReportedAt:         time.Date(2026, 8, 28, 14, 30, 0, 0, time.UTC),
	}

	svc := NewService(repo, nil)
	d, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if d.Facility.Name != "한빛의료원" {
		t.Errorf("facility name = %q", d.Facility.Name)
	}
	if len(d.Beds) != 6 {
		t.Fatalf("got %d bed categories, want 6", len(d.Beds))
	}

	ui, ok := d.StatusUI[congestion.CategoryERGeneral]
	if !ok {
		t.Fatal("missing er_general status ui")
	}
	if ui.Label != "혼잡" || ui.ColorClass != congestion.ColorRed {
		t.Errorf("full er should render red 혼잡, got %q %q", ui.Label, ui.ColorClass)
	}
	if ui.BgStroke != "#E53935" {
		t.Errorf("saturated category should paint the red track, got %q", ui.BgStroke)
	}

	wantEquip := map[string]bool{"ct": true, "delivery": true}
	if len(d.Equipment) != 2 {
		t.Fatalf("equipment = %v", d.Equipment)
	}
	for _, e := range d.Equipment {
		if !wantEquip[e] {
			t.Errorf("unexpected equipment %q", e)
		}
	}
	if d.ReportedAt == nil {
		t.Error("reported_at should be set")
	}
}

func TestGetDetailWithoutStatus(t *testing.T) {
	repo := newMockRepo()
	id := uuid.New()
	repo.facilities[id] = &Facility{ID: id, Name: "무정보병원"}

	svc := NewService(repo, nil)
	d, err := svc.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if len(d.Beds) != 6 {
		t.Fatalf("got %d bed categories, want 6", len(d.Beds))
	}
	for _, b := range d.Beds {
		ui := d.StatusUI[b.Category]
		if ui.Label != "-" {
			t.Errorf("%s without counts should read -, got %q", b.Category, ui.Label)
		}
	}
	if d.ReportedAt != nil {
		t.Error("reported_at should be nil without a snapshot")
	}
}

func TestRegionsFallsBackToRepo(t *testing.T) {
	repo := newMockRepo()
	repo.regions["서울특별시"] = []string{"강남구", "종로구"}

	svc := NewService(repo, nil)
	dict, err := svc.Regions(context.Background())
	if err != nil {
		t.Fatalf("Regions: %v", err)
	}
	if len(dict["서울특별시"]) != 2 {
		t.Fatalf("dict = %v", dict)
	}
	if repo.regionDictCalls != 1 {
		t.Errorf("repo calls = %d, want 1", repo.regionDictCalls)
	}
}

func TestSigunguNormalizesAlias(t *testing.T) {
	repo := newMockRepo()
	repo.regions["전라남도"] = []string{"목포시", "여수시"}

	svc := NewService(repo, nil)
	list, err := svc.Sigungu(context.Background(), "전남")
	if err != nil {
		t.Fatalf("Sigungu: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("list = %v", list)
	}
}
