package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/vertextoedge/photo-catalog/internal/domain"
	"github.com/vertextoedge/photo-catalog/internal/domain/event"
)

// mockRepository is an in-memory CatalogRepository whose Save can be made to fail
type mockRepository struct {
	mu        sync.Mutex
	saved     []domain.Photo
	loaded    []domain.Photo
	loadErr   error
	saveErr   error
	saveCalls int
}

func (m *mockRepository) Load() ([]domain.Photo, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return slices.Clone(m.loaded), nil
}

func (m *mockRepository) Save(photos []domain.Photo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = slices.Clone(photos)
	return nil
}

func (m *mockRepository) Location() string {
	return "mock://photos"
}

// mockExporter records the photos handed to ReplaceAll
type mockExporter struct {
	got []domain.Photo
	err error
}

func (m *mockExporter) ReplaceAll(photos []domain.Photo) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.got = slices.Clone(photos)
	return len(photos), nil
}

func (m *mockExporter) Location() string { return "mock.db" }
func (m *mockExporter) Close() error     { return nil }

var baseDate = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func photo(id int, rating int, size float64, taken time.Time) domain.Photo {
	return domain.Photo{
		ID:         id,
		FileName:   "photo.jpg",
		DateTaken:  taken,
		FileSizeMB: size,
		Rating:     rating,
	}
}

func newTestStore(t *testing.T, repo *mockRepository, cfg *Config) *Store {
	t.Helper()
	s, err := New(cfg, repo, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

func addAll(t *testing.T, s *Store, photos ...domain.Photo) {
	t.Helper()
	for i := range photos {
		out, err := s.Add(&photos[i])
		if err != nil || !out.OK() {
			t.Fatalf("Add(%d) = (%+v, %v), want success", photos[i].ID, out, err)
		}
	}
}

func ids(photos []domain.Photo) []int {
	result := make([]int, len(photos))
	for i, p := range photos {
		result[i] = p.ID
	}
	return result
}

func TestNew_NilRepository(t *testing.T) {
	if _, err := New(nil, nil, nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("New(nil repo) error = %v, want ErrInvalidArgument", err)
	}
}

func TestOpen_EmptyPath(t *testing.T) {
	if _, err := Open("", nil, nil, nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("Open(\"\") error = %v, want ErrInvalidArgument", err)
	}
}

func TestStore_NextAvailableID(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)

	if got := s.NextAvailableID(); got != 1 {
		t.Fatalf("NextAvailableID() on empty catalog = %d, want 1", got)
	}

	addAll(t, s, photo(4, 3, 1, baseDate), photo(2, 3, 1, baseDate))
	if got := s.NextAvailableID(); got != 5 {
		t.Fatalf("NextAvailableID() = %d, want 5", got)
	}

	prev := s.NextAvailableID()
	for range 3 {
		addAll(t, s, photo(prev, 3, 1, baseDate))
		next := s.NextAvailableID()
		if next != prev+1 {
			t.Fatalf("NextAvailableID() = %d, want %d", next, prev+1)
		}
		prev = next
	}
}

func TestStore_Add(t *testing.T) {
	repo := &mockRepository{}
	s := newTestStore(t, repo, nil)

	p := photo(1, 4, 2, baseDate)
	out, err := s.Add(&p)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if !out.OK() {
		t.Fatalf("Add() outcome = %+v, want OK", out)
	}

	all := s.All()
	if len(all) != 1 || !all[0].Equal(p) {
		t.Errorf("All() = %+v, want [%+v]", all, p)
	}
	if len(repo.saved) != 1 {
		t.Errorf("saved %d photos, want 1", len(repo.saved))
	}
}

func TestStore_Add_Nil(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)

	_, err := s.Add(nil)
	if !errors.Is(err, domain.ErrInvalidArgument) || !errors.Is(err, domain.ErrNilPhoto) {
		t.Errorf("Add(nil) error = %v, want ErrInvalidArgument and ErrNilPhoto", err)
	}
}

func TestStore_Add_Duplicate(t *testing.T) {
	repo := &mockRepository{}
	s := newTestStore(t, repo, nil)
	addAll(t, s, photo(1, 4, 2, baseDate), photo(2, 3, 1, baseDate))
	before := s.All()
	calls := repo.saveCalls

	dup := photo(2, 5, 9, baseDate)
	out, err := s.Add(&dup)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if out.Status != domain.OutcomeDuplicateKey || !errors.Is(out.Err, domain.ErrDuplicateKey) {
		t.Errorf("Add() outcome = %+v, want duplicate key", out)
	}
	if after := s.All(); !slices.EqualFunc(before, after, domain.Photo.Equal) {
		t.Errorf("All() changed after duplicate add: %+v", after)
	}
	if repo.saveCalls != calls {
		t.Error("duplicate add must not save")
	}
}

func TestStore_Add_SaveFailureRollsBack(t *testing.T) {
	repo := &mockRepository{}
	s := newTestStore(t, repo, nil)
	addAll(t, s, photo(1, 4, 2, baseDate))

	repo.saveErr = domain.NewPersistenceError("write", domain.PersistenceIO, "photos.yaml", errors.New("disk full"))
	p := photo(2, 3, 1, baseDate)
	out, err := s.Add(&p)
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if out.Status != domain.OutcomePersistenceFailure || !errors.Is(out.Err, domain.ErrPersistence) {
		t.Errorf("Add() outcome = %+v, want persistence failure", out)
	}
	if got := ids(s.All()); !slices.Equal(got, []int{1}) {
		t.Errorf("All() ids = %v, want [1]", got)
	}
	if _, ok := s.Get(2); ok {
		t.Error("rolled back photo is still retrievable")
	}
}

func TestStore_Delete(t *testing.T) {
	tests := []struct {
		name       string
		id         int
		wantStatus domain.OutcomeStatus
		wantIDs    []int
	}{
		{name: "first", id: 1, wantStatus: domain.OutcomeOK, wantIDs: []int{2, 3, 4}},
		{name: "middle", id: 3, wantStatus: domain.OutcomeOK, wantIDs: []int{1, 2, 4}},
		{name: "last", id: 4, wantStatus: domain.OutcomeOK, wantIDs: []int{1, 2, 3}},
		{name: "absent", id: 99, wantStatus: domain.OutcomeNotFound, wantIDs: []int{1, 2, 3, 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockRepository{}
			s := newTestStore(t, repo, nil)
			addAll(t, s,
				photo(1, 1, 1, baseDate), photo(2, 2, 1, baseDate),
				photo(3, 3, 1, baseDate), photo(4, 4, 1, baseDate))

			out := s.Delete(tt.id)
			if out.Status != tt.wantStatus {
				t.Errorf("Delete() status = %v, want %v", out.Status, tt.wantStatus)
			}
			if got := ids(s.All()); !slices.Equal(got, tt.wantIDs) {
				t.Errorf("All() ids = %v, want %v", got, tt.wantIDs)
			}
			if tt.wantStatus == domain.OutcomeOK && !slices.Equal(ids(repo.saved), tt.wantIDs) {
				t.Errorf("saved ids = %v, want %v", ids(repo.saved), tt.wantIDs)
			}
		})
	}
}

func TestStore_Delete_SaveFailure(t *testing.T) {
	tests := []struct {
		name     string
		rollback bool
		wantIDs  []int
	}{
		{name: "default keeps the removal", rollback: false, wantIDs: []int{1, 3}},
		{name: "rollback restores position", rollback: true, wantIDs: []int{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			stats := event.NewStatsHandler()
			events := event.NewInMemoryDispatcher(nil)
			events.Subscribe(stats)

			repo := &mockRepository{}
			s, err := New(&Config{RollbackFailedDelete: tt.rollback}, repo, events, zap.New(core))
			if err != nil {
				t.Fatal(err)
			}
			addAll(t, s, photo(1, 1, 1, baseDate), photo(2, 2, 1, baseDate), photo(3, 3, 1, baseDate))

			repo.saveErr = errors.New("read-only filesystem")
			out := s.Delete(2)
			if out.Status != domain.OutcomePersistenceFailure || !errors.Is(out.Err, domain.ErrPersistence) {
				t.Errorf("Delete() outcome = %+v, want persistence failure", out)
			}
			if got := ids(s.All()); !slices.Equal(got, tt.wantIDs) {
				t.Errorf("All() ids = %v, want %v", got, tt.wantIDs)
			}

			if logs.FilterMessage("failed to save catalog").Len() != 1 {
				t.Error("save failure was not logged")
			}
			diverged := logs.FilterMessage("photo removed in memory but not on disk").Len()
			if tt.rollback && diverged != 0 || !tt.rollback && diverged != 1 {
				t.Errorf("divergence warnings = %d, rollback = %v", diverged, tt.rollback)
			}

			st := stats.GetStats()
			wantRolledBack := int64(0)
			if tt.rollback {
				wantRolledBack = 1
			}
			if st["save_failures"] != 1 || st["rolled_back"] != wantRolledBack {
				t.Errorf("stats = %v", st)
			}
		})
	}
}

func TestStore_All_ReturnsCopy(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)
	addAll(t, s, photo(1, 3, 1, baseDate))

	all := s.All()
	all[0].Rating = 5
	_ = append(all, photo(9, 1, 1, baseDate))

	if got, _ := s.Get(1); got.Rating != 3 {
		t.Errorf("store changed through All() result: rating = %d", got.Rating)
	}
	if s.Count() != 1 {
		t.Errorf("Count() = %d, want 1", s.Count())
	}
}

func TestStore_ByMinRating(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)
	addAll(t, s,
		photo(1, 5, 1, baseDate), photo(2, 2, 1, baseDate),
		photo(3, 4, 1, baseDate), photo(4, 3, 1, baseDate))

	got := s.ByMinRating(3)
	ratings := make([]int, len(got))
	for i, p := range got {
		ratings[i] = p.Rating
	}
	if !slices.Equal(ratings, []int{5, 4, 3}) {
		t.Errorf("ByMinRating(3) ratings = %v, want [5 4 3]", ratings)
	}

	if got := s.ByMinRating(6); len(got) != 0 {
		t.Errorf("ByMinRating(6) = %v, want empty", got)
	}
}

func TestStore_ByMinRating_StableForTies(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)
	addAll(t, s, photo(1, 4, 1, baseDate), photo(2, 5, 1, baseDate), photo(3, 4, 1, baseDate))

	if got := ids(s.ByMinRating(1)); !slices.Equal(got, []int{2, 1, 3}) {
		t.Errorf("ByMinRating(1) ids = %v, want [2 1 3]", got)
	}
}

func TestStore_TakenAfter(t *testing.T) {
	d := baseDate
	s := newTestStore(t, &mockRepository{}, nil)
	addAll(t, s,
		photo(1, 3, 1, d.AddDate(0, 0, -1)),
		photo(2, 3, 1, d.AddDate(0, 0, 2)),
		photo(3, 3, 1, d.AddDate(0, 0, 1)),
		photo(4, 3, 1, d))

	if got := ids(s.TakenAfter(d)); !slices.Equal(got, []int{3, 2}) {
		t.Errorf("TakenAfter(D) ids = %v, want [3 2]", got)
	}
}

func TestStore_Largest(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)

	if _, ok := s.Largest(); ok {
		t.Fatal("Largest() on empty catalog ok = true")
	}

	addAll(t, s,
		photo(1, 3, 3.0, baseDate), photo(2, 3, 7.5, baseDate),
		photo(3, 3, 7.5, baseDate), photo(4, 3, 1.0, baseDate))

	got, ok := s.Largest()
	if !ok || got.ID != 2 {
		t.Errorf("Largest() = (%d, %v), want (2, true)", got.ID, ok)
	}
}

func TestStore_Largest_AllZero(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)
	addAll(t, s, photo(5, 3, 0, baseDate), photo(6, 3, 0, baseDate))

	if got, ok := s.Largest(); !ok || got.ID != 5 {
		t.Errorf("Largest() = (%d, %v), want (5, true)", got.ID, ok)
	}
}

func TestStore_Load(t *testing.T) {
	tests := []struct {
		name      string
		repo      *mockRepository
		wantState domain.LoadState
		wantCount int
		wantWarn  bool
	}{
		{
			name:      "missing snapshot",
			repo:      &mockRepository{loadErr: domain.ErrSnapshotMissing},
			wantState: domain.LoadFresh,
		},
		{
			name:      "empty snapshot",
			repo:      &mockRepository{loaded: []domain.Photo{}},
			wantState: domain.LoadEmpty,
		},
		{
			name:      "restored",
			repo:      &mockRepository{loaded: []domain.Photo{photo(1, 3, 1, baseDate), photo(2, 3, 1, baseDate)}},
			wantState: domain.LoadRestored,
			wantCount: 2,
		},
		{
			name:      "corrupt snapshot",
			repo:      &mockRepository{loadErr: domain.NewCorruptStateError("photos.yaml", "parse failed", errors.New("bad"))},
			wantState: domain.LoadDegraded,
			wantWarn:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core, logs := observer.New(zapcore.WarnLevel)
			s, err := New(nil, tt.repo, nil, zap.New(core))
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			report := s.LoadReport()
			if report.State != tt.wantState {
				t.Errorf("State = %v, want %v", report.State, tt.wantState)
			}
			if s.Count() != tt.wantCount || report.Count != tt.wantCount {
				t.Errorf("Count() = %d, report.Count = %d, want %d", s.Count(), report.Count, tt.wantCount)
			}
			if report.HasWarning() != tt.wantWarn {
				t.Errorf("HasWarning() = %v, want %v", report.HasWarning(), tt.wantWarn)
			}
			if tt.wantWarn && logs.Len() == 0 {
				t.Error("degraded load was not logged")
			}
		})
	}
}

func TestStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.yaml")

	s, err := Open(path, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.LoadReport().State != domain.LoadFresh {
		t.Errorf("first open state = %v, want fresh", s.LoadReport().State)
	}

	cest := time.FixedZone("CEST", 2*60*60)
	for i, rating := range []int{5, 2, 4} {
		p, err := domain.NewPhoto(s.NextAvailableID(), "img.jpg", "golden\thour\nat the pier", baseDate.AddDate(0, 0, -i).In(cest), float64(i)+0.25, rating)
		if err != nil {
			t.Fatal(err)
		}
		addAll(t, s, p)
	}
	if out := s.Delete(2); !out.OK() {
		t.Fatalf("Delete() outcome = %+v", out)
	}
	want := s.All()

	reopened, err := Open(path, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if reopened.LoadReport().State != domain.LoadRestored {
		t.Errorf("reopen state = %v, want restored", reopened.LoadReport().State)
	}
	if got := reopened.All(); !slices.EqualFunc(got, want, domain.Photo.Equal) {
		t.Errorf("All() after reopen = %+v, want %+v", got, want)
	}
}

func TestStore_Add_UnsavableRecordRollsBack(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *domain.Photo)
	}{
		{name: "zero id", mutate: func(p *domain.Photo) { p.ID = 0 }},
		{name: "negative id", mutate: func(p *domain.Photo) { p.ID = -4 }},
		{name: "zero date", mutate: func(p *domain.Photo) { p.DateTaken = time.Time{} }},
		{name: "date with seconds", mutate: func(p *domain.Photo) { p.DateTaken = baseDate.Add(30 * time.Second) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "photos.yaml")
			s, err := Open(path, nil, nil, zap.NewNop())
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			addAll(t, s, photo(1, 4, 2, baseDate))
			want := s.All()

			bad := photo(2, 3, 1, baseDate)
			tt.mutate(&bad)
			out, err := s.Add(&bad)
			if err != nil {
				t.Fatalf("Add() error = %v", err)
			}
			if out.Status != domain.OutcomePersistenceFailure {
				t.Fatalf("Add() status = %v, want persistence_failure", out.Status)
			}
			if kind, _ := domain.PersistenceKindOf(out.Err); kind != domain.PersistenceSerialization {
				t.Errorf("Add() kind = %q, want %q", kind, domain.PersistenceSerialization)
			}
			if got := s.All(); !slices.EqualFunc(got, want, domain.Photo.Equal) {
				t.Errorf("All() after failed add = %+v, want %+v", got, want)
			}

			reopened, err := Open(path, nil, nil, zap.NewNop())
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			if state := reopened.LoadReport().State; state != domain.LoadRestored {
				t.Fatalf("reopen state = %v, want restored (warning %q)", state, reopened.LoadReport().Warning)
			}
			if got := reopened.All(); !slices.EqualFunc(got, want, domain.Photo.Equal) {
				t.Errorf("All() after reopen = %+v, want %+v", got, want)
			}
		})
	}
}

func TestStore_OpenCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photos.yaml")
	if err := os.WriteFile(path, []byte("photos: [1, 2\n"), 0644); err != nil {
		t.Fatal(err)
	}

	s, err := Open(path, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if s.Count() != 0 {
		t.Errorf("Count() = %d, want 0", s.Count())
	}
	if report := s.LoadReport(); report.State != domain.LoadDegraded || !report.HasWarning() {
		t.Errorf("LoadReport() = %+v, want degraded with warning", report)
	}

	// The catalog stays usable and the next save replaces the corrupt file
	p := photo(1, 3, 1, baseDate)
	if out, err := s.Add(&p); err != nil || !out.OK() {
		t.Fatalf("Add() = (%+v, %v)", out, err)
	}
	reopened, err := Open(path, nil, nil, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if reopened.Count() != 1 {
		t.Errorf("Count() after reopen = %d, want 1", reopened.Count())
	}
}

// storeReader reads the store from inside Handle
type storeReader struct {
	store  *Store
	counts []int
}

func (h *storeReader) Handle(event.DomainEvent) error {
	h.counts = append(h.counts, h.store.Count())
	return nil
}

func (h *storeReader) HandledEvents() []string {
	return []string{event.AllEvents}
}

func TestStore_HandlersMayReadStore(t *testing.T) {
	repo := &mockRepository{}
	events := event.NewInMemoryDispatcher(nil)
	s, err := New(&Config{RollbackFailedDelete: true}, repo, events, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	reader := &storeReader{store: s}
	events.Subscribe(reader)

	done := make(chan struct{})
	go func() {
		defer close(done)
		p := photo(1, 3, 1, baseDate)
		s.Add(&p)
		s.Delete(1)
		repo.saveErr = errors.New("disk full")
		p = photo(2, 3, 1, baseDate)
		s.Add(&p)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("store mutation blocked while a handler read the store")
	}

	// added, deleted, failed add rolled back
	if want := []int{1, 0, 0}; !slices.Equal(reader.counts, want) {
		t.Errorf("counts seen by handler = %v, want %v", reader.counts, want)
	}
}

func TestStore_ExportTo(t *testing.T) {
	stats := event.NewStatsHandler()
	events := event.NewInMemoryDispatcher(nil)
	events.Subscribe(stats)

	s, err := New(nil, &mockRepository{}, events, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	addAll(t, s, photo(2, 3, 1, baseDate), photo(1, 3, 1, baseDate))

	exp := &mockExporter{}
	n, err := s.ExportTo(exp)
	if err != nil {
		t.Fatalf("ExportTo() error = %v", err)
	}
	if n != 2 || !slices.Equal(ids(exp.got), []int{2, 1}) {
		t.Errorf("ExportTo() = %d, exported ids %v", n, ids(exp.got))
	}
	if stats.GetStats()["exports"] != 1 {
		t.Error("export event was not dispatched")
	}

	if _, err := s.ExportTo(&mockExporter{err: errors.New("locked")}); err == nil {
		t.Error("ExportTo() error = nil for failing exporter")
	}
	if _, err := s.ExportTo(nil); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("ExportTo(nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := newTestStore(t, &mockRepository{}, nil)

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(2)
		go func(id int) {
			defer wg.Done()
			p := photo(id, 3, float64(id), baseDate)
			out, err := s.Add(&p)
			if err != nil || !out.OK() {
				t.Errorf("Add(%d) = (%+v, %v), want success", id, out, err)
			}
		}(i)
		go func() {
			defer wg.Done()
			s.ByMinRating(1)
			s.Largest()
			s.NextAvailableID()
		}()
	}
	wg.Wait()

	if s.Count() != 20 {
		t.Errorf("Count() = %d, want 20", s.Count())
	}
}
