package booking

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/models"
)

// --- Fake repository ---
//
// In-memory slot store with real transaction semantics: InTx serializes
// writers and rolls the data back when fn fails, so all-or-nothing behavior
// is actually exercised.

type fakeRepo struct {
	mu       sync.Mutex
	projects map[uint]models.Project
	slots    map[uint]models.TimeSlot
	audits   []models.AuditLog
	nextSlot uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		projects: map[uint]models.Project{},
		slots:    map[uint]models.TimeSlot{},
		nextSlot: 1,
	}
}

func (f *fakeRepo) addProject(id, userID uint, status domain.ProjectStatus) {
	f.projects[id] = models.Project{ID: id, UserID: userID, Name: "p", Status: string(status)}
}

func (f *fakeRepo) addSlot(at time.Time, isOpen bool) uint {
	id := f.nextSlot
	f.nextSlot++
	f.slots[id] = models.TimeSlot{
		ID:            id,
		SlotTime:      at,
		IsOpen:        isOpen,
		BookingStatus: string(domain.SlotAvailable),
	}
	return id
}

func (f *fakeRepo) snapshot() (map[uint]models.Project, map[uint]models.TimeSlot, int) {
	ps := make(map[uint]models.Project, len(f.projects))
	for k, v := range f.projects {
		ps[k] = v
	}
	ss := make(map[uint]models.TimeSlot, len(f.slots))
	for k, v := range f.slots {
		ss[k] = v
	}
	return ps, ss, len(f.audits)
}

func (f *fakeRepo) InTx(ctx context.Context, fn func(domain.Store) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	ps, ss, na := f.snapshot()
	if err := fn((*fakeStore)(f)); err != nil {
		f.projects, f.slots = ps, ss
		f.audits = f.audits[:na]
		return err
	}
	return nil
}

func (f *fakeRepo) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return (*fakeStore)(f).GetProject(ctx, id)
}

func (f *fakeRepo) ListAvailable(ctx context.Context, start, end time.Time) ([]models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.TimeSlot
	for _, s := range f.slots {
		if s.IsOpen && s.BookingStatus == string(domain.SlotAvailable) &&
			!s.SlotTime.Before(start) && !s.SlotTime.After(end) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func (f *fakeRepo) ListAll(ctx context.Context, start, end time.Time) ([]models.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []models.TimeSlot
	for _, s := range f.slots {
		if !s.SlotTime.Before(start) && !s.SlotTime.After(end) {
			out = append(out, s)
		}
	}
	sortSlots(out)
	return out, nil
}

func sortSlots(slots []models.TimeSlot) {
	sort.Slice(slots, func(i, j int) bool {
		return slots[i].SlotTime.Before(slots[j].SlotTime)
	})
}

type fakeStore fakeRepo

func (s *fakeStore) GetProject(ctx context.Context, id uint) (*models.Project, error) {
	p, ok := s.projects[id]
	if !ok {
		return nil, httperr.ErrBusiness("project_not_found")
	}
	cp := p
	return &cp, nil
}

func (s *fakeStore) UpdateProject(ctx context.Context, p *models.Project) error {
	s.projects[p.ID] = *p
	return nil
}

func (s *fakeStore) GetSlotForUpdate(ctx context.Context, id uint) (*models.TimeSlot, error) {
	slot, ok := s.slots[id]
	if !ok {
		return nil, httperr.ErrBusiness("slot_not_found")
	}
	cp := slot
	return &cp, nil
}

func (s *fakeStore) GetSlotsForUpdate(ctx context.Context, ids []uint) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, id := range ids {
		if slot, ok := s.slots[id]; ok {
			out = append(out, slot)
		}
	}
	return out, nil
}

func (s *fakeStore) ListProjectSlotsForUpdate(ctx context.Context, projectID uint) ([]models.TimeSlot, error) {
	var out []models.TimeSlot
	for _, slot := range s.slots {
		if slot.ProjectID != nil && *slot.ProjectID == projectID &&
			slot.BookingStatus != string(domain.SlotAvailable) {
			out = append(out, slot)
		}
	}
	sortSlots(out)
	return out, nil
}

func (s *fakeStore) SaveSlot(ctx context.Context, slot *models.TimeSlot) error {
	s.slots[slot.ID] = *slot
	return nil
}

func (s *fakeStore) CreateSlots(ctx context.Context, slots []models.TimeSlot) (int64, error) {
	existing := make(map[time.Time]bool, len(s.slots))
	for _, slot := range s.slots {
		existing[slot.SlotTime] = true
	}

	var created int64
	for _, slot := range slots {
		if existing[slot.SlotTime] {
			continue
		}
		slot.ID = s.nextSlot
		s.nextSlot++
		s.slots[slot.ID] = slot
		created++
	}
	return created, nil
}

func (s *fakeStore) SetSlotsOpen(ctx context.Context, ids []uint, isOpen bool) (int64, error) {
	var updated int64
	for _, id := range ids {
		slot, ok := s.slots[id]
		if !ok || slot.BookingStatus != string(domain.SlotAvailable) {
			continue
		}
		if slot.IsOpen != isOpen {
			slot.IsOpen = isOpen
			s.slots[id] = slot
			updated++
		} else {
			updated++
		}
	}
	return updated, nil
}

func (s *fakeStore) AppendAudit(ctx context.Context, entry *models.AuditLog) error {
	s.audits = append(s.audits, *entry)
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil)
var _ domain.Store = (*fakeStore)(nil)

// --- Helpers ---

var seoulBase = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

// checkSlotInvariant: project_id != nil exatamente quando o slot não está available.
func checkSlotInvariant(t *testing.T, repo *fakeRepo) {
	t.Helper()
	for _, slot := range repo.slots {
		if slot.BookingStatus == string(domain.SlotAvailable) {
			assert.Nil(t, slot.ProjectID, "available slot %d must not hold a project", slot.ID)
		} else {
			assert.NotNil(t, slot.ProjectID, "claimed slot %d must hold a project", slot.ID)
		}
	}
}

func confirmedFor(repo *fakeRepo, projectID uint) []uint {
	var ids []uint
	for _, slot := range repo.slots {
		if slot.BookingStatus == string(domain.SlotConfirmed) &&
			slot.ProjectID != nil && *slot.ProjectID == projectID {
			ids = append(ids, slot.ID)
		}
	}
	return ids
}

// --- RequestSlots ---

func TestRequestSlots_Success(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)
	s2 := repo.addSlot(seoulBase.Add(time.Hour), true)

	uc := NewRequestSlots(repo, nil, nil)

	err := uc.Execute(context.Background(), RequestSlotsInput{
		ProjectID: 1,
		SlotIDs:   []uint{s1, s2},
		UserID:    10,
	})
	assert.NoError(t, err)

	all, _ := repo.ListAll(context.Background(), seoulBase.Add(-time.Hour), seoulBase.Add(2*time.Hour))
	assert.Len(t, all, 2)
	for _, slot := range all {
		assert.Equal(t, string(domain.SlotRequested), slot.BookingStatus)
		assert.Equal(t, uint(1), *slot.ProjectID)
	}

	assert.Equal(t, string(domain.ScheduleSubmitted), repo.projects[1].Status)
	// um audit por slot + um pelo status do projeto
	assert.Len(t, repo.audits, 3)
	checkSlotInvariant(t, repo)
}

func TestRequestSlots_AllOrNothing(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	repo.addProject(2, 20, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)
	s2 := repo.addSlot(seoulBase.Add(time.Hour), true)

	uc := NewRequestSlots(repo, nil, nil)

	// projeto 2 chega primeiro e leva s2
	err := uc.Execute(context.Background(), RequestSlotsInput{ProjectID: 2, SlotIDs: []uint{s2}, UserID: 20})
	assert.NoError(t, err)

	err = uc.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1, s2}, UserID: 10})
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))

	// nada do lote perdedor foi aplicado
	assert.Equal(t, string(domain.SlotAvailable), repo.slots[s1].BookingStatus)
	assert.Nil(t, repo.slots[s1].ProjectID)
	assert.Equal(t, uint(2), *repo.slots[s2].ProjectID)
	assert.Equal(t, string(domain.ScriptSubmitted), repo.projects[1].Status)
	checkSlotInvariant(t, repo)
}

func TestRequestSlots_ClosedSlotRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, false)

	uc := NewRequestSlots(repo, nil, nil)

	err := uc.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10})
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
}

func TestRequestSlots_NotOwner(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	uc := NewRequestSlots(repo, nil, nil)

	err := uc.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 99})
	assert.True(t, httperr.IsBusiness(err, "not_project_owner"))
	assert.Equal(t, string(domain.SlotAvailable), repo.slots[s1].BookingStatus)
}

func TestRequestSlots_EmptyInput(t *testing.T) {
	uc := NewRequestSlots(newFakeRepo(), nil, nil)

	err := uc.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, UserID: 10})
	assert.True(t, httperr.IsBusiness(err, "empty_slot_ids"))
}

func TestRequestSlots_UnknownSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)

	uc := NewRequestSlots(repo, nil, nil)

	err := uc.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{777}, UserID: 10})
	assert.True(t, httperr.IsBusiness(err, "slot_not_found"))
}

func TestRequestSlots_ConcurrentSingleWinner(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	repo.addProject(2, 20, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	uc := NewRequestSlots(repo, nil, nil)

	results := make(chan error, 2)
	var wg sync.WaitGroup
	for _, in := range []RequestSlotsInput{
		{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10},
		{ProjectID: 2, SlotIDs: []uint{s1}, UserID: 20},
	} {
		wg.Add(1)
		go func(in RequestSlotsInput) {
			defer wg.Done()
			results <- uc.Execute(context.Background(), in)
		}(in)
	}
	wg.Wait()
	close(results)

	var okCount, conflictCount int
	for err := range results {
		if err == nil {
			okCount++
		} else if httperr.IsBusiness(err, "slot_unavailable") {
			conflictCount++
		}
	}

	assert.Equal(t, 1, okCount)
	assert.Equal(t, 1, conflictCount)
	assert.Equal(t, string(domain.SlotRequested), repo.slots[s1].BookingStatus)
	assert.NotNil(t, repo.slots[s1].ProjectID)
	checkSlotInvariant(t, repo)
}

// --- ConfirmSlot ---

func TestConfirmSlot_FromRequested(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	requestUC := NewRequestSlots(repo, nil, nil)
	confirmUC := NewConfirmSlot(repo, nil, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))
	assert.NoError(t, confirmUC.Execute(context.Background(), 1, s1, "77"))

	assert.Equal(t, string(domain.SlotConfirmed), repo.slots[s1].BookingStatus)
	assert.Equal(t, string(domain.ScheduleFixed), repo.projects[1].Status)
	assert.NotNil(t, repo.projects[1].ShootDate)
	assert.Equal(t, "2025-06-01", repo.projects[1].ShootDate.Format("2006-01-02"))
	checkSlotInvariant(t, repo)
}

func TestConfirmSlot_ManualAssignmentFromAvailable(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	confirmUC := NewConfirmSlot(repo, nil, nil)

	assert.NoError(t, confirmUC.Execute(context.Background(), 1, s1, "77"))
	assert.Equal(t, string(domain.SlotConfirmed), repo.slots[s1].BookingStatus)
	assert.Equal(t, uint(1), *repo.slots[s1].ProjectID)
}

func TestConfirmSlot_ReconfirmReleasesPreviousSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)
	s2 := repo.addSlot(seoulBase.Add(time.Hour), true)

	requestUC := NewRequestSlots(repo, nil, nil)
	confirmUC := NewConfirmSlot(repo, nil, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))
	assert.NoError(t, confirmUC.Execute(context.Background(), 1, s1, "77"))
	assert.NoError(t, confirmUC.Execute(context.Background(), 1, s2, "77"))

	assert.Equal(t, string(domain.SlotAvailable), repo.slots[s1].BookingStatus)
	assert.Nil(t, repo.slots[s1].ProjectID)
	assert.Equal(t, string(domain.SlotConfirmed), repo.slots[s2].BookingStatus)

	// no máximo um slot confirmado por projeto
	assert.Equal(t, []uint{s2}, confirmedFor(repo, 1))
	checkSlotInvariant(t, repo)
}

func TestConfirmSlot_ConfirmedForOtherProjectRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	repo.addProject(2, 20, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	confirmUC := NewConfirmSlot(repo, nil, nil)

	assert.NoError(t, confirmUC.Execute(context.Background(), 1, s1, "77"))

	err := confirmUC.Execute(context.Background(), 2, s1, "77")
	assert.True(t, httperr.IsBusiness(err, "slot_already_confirmed"))
	assert.Equal(t, uint(1), *repo.slots[s1].ProjectID)
}

func TestConfirmSlot_RequestedByOtherProjectRejected(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	repo.addProject(2, 20, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	requestUC := NewRequestSlots(repo, nil, nil)
	confirmUC := NewConfirmSlot(repo, nil, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))

	err := confirmUC.Execute(context.Background(), 2, s1, "77")
	assert.True(t, httperr.IsBusiness(err, "slot_held_by_other_project"))
}

// --- DenySlot ---

func TestDenySlot_RevertsRequested(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	requestUC := NewRequestSlots(repo, nil, nil)
	denyUC := NewDenySlot(repo, nil, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))

	projectStatus := repo.projects[1].Status
	assert.NoError(t, denyUC.Execute(context.Background(), 1, s1, "77"))

	assert.Equal(t, string(domain.SlotAvailable), repo.slots[s1].BookingStatus)
	assert.Nil(t, repo.slots[s1].ProjectID)
	// deny não mexe no status do projeto
	assert.Equal(t, projectStatus, repo.projects[1].Status)
	checkSlotInvariant(t, repo)
}

func TestDenySlot_IdempotentOnAvailable(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	denyUC := NewDenySlot(repo, nil, nil)

	assert.NoError(t, denyUC.Execute(context.Background(), 1, s1, "77"))
	assert.Equal(t, string(domain.SlotAvailable), repo.slots[s1].BookingStatus)
	assert.Empty(t, repo.audits)
}

func TestDenySlot_ProjectMismatch(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	repo.addProject(2, 20, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)

	requestUC := NewRequestSlots(repo, nil, nil)
	denyUC := NewDenySlot(repo, nil, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))

	err := denyUC.Execute(context.Background(), 2, s1, "77")
	assert.True(t, httperr.IsBusiness(err, "slot_project_mismatch"))
	assert.Equal(t, string(domain.SlotRequested), repo.slots[s1].BookingStatus)
}

// --- GenerateSlots ---

func TestGenerateSlots_NineHourRange(t *testing.T) {
	repo := newFakeRepo()
	uc := NewGenerateSlots(repo, nil, time.UTC, 9, 18, 30)

	created, err := uc.Execute(context.Background(), "2025-07-01", "77")
	assert.NoError(t, err)
	assert.Equal(t, int64(9), created)

	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	slots, _ := repo.ListAvailable(context.Background(), start, start.Add(24*time.Hour))
	assert.Len(t, slots, 9)

	assert.Equal(t, 9, slots[0].SlotTime.Hour())
	assert.Equal(t, 17, slots[len(slots)-1].SlotTime.Hour())
	for _, slot := range slots {
		assert.True(t, slot.IsOpen)
		assert.Equal(t, string(domain.SlotAvailable), slot.BookingStatus)
	}
}

func TestGenerateSlots_RerunIsIdempotent(t *testing.T) {
	repo := newFakeRepo()
	uc := NewGenerateSlots(repo, nil, time.UTC, 9, 18, 30)

	created, err := uc.Execute(context.Background(), "2025-07-01", "77")
	assert.NoError(t, err)
	assert.Equal(t, int64(9), created)

	created, err = uc.Execute(context.Background(), "2025-07-01", "77")
	assert.NoError(t, err)
	assert.Equal(t, int64(0), created)
}

func TestGenerateSlots_InvalidDate(t *testing.T) {
	uc := NewGenerateSlots(newFakeRepo(), nil, time.UTC, 9, 18, 30)

	_, err := uc.Execute(context.Background(), "07/01/2025", "77")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))

	_, err = uc.Execute(context.Background(), "2025-13-40", "77")
	assert.True(t, httperr.IsBusiness(err, "invalid_date"))
}

func TestGenerateSlots_DailyTargetsDaysAhead(t *testing.T) {
	repo := newFakeRepo()
	uc := NewGenerateSlots(repo, nil, time.UTC, 9, 18, 30)

	date, created, err := uc.ExecuteDaily(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, int64(9), created)

	want := time.Now().UTC().AddDate(0, 0, 30).Format("2006-01-02")
	assert.Equal(t, want, date)

	// o gatilho agendado audita como system
	assert.Equal(t, "system", repo.audits[len(repo.audits)-1].ActorID)
}

// --- UpdateAvailability ---

func TestUpdateAvailability_SkipsClaimedSlots(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase, true)
	s2 := repo.addSlot(seoulBase.Add(time.Hour), true)

	requestUC := NewRequestSlots(repo, nil, nil)
	toggleUC := NewUpdateAvailability(repo, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))

	updated, err := toggleUC.Execute(context.Background(), []uint{s1, s2}, false, "77")
	assert.NoError(t, err)
	assert.Equal(t, int64(1), updated)

	// slot reivindicado fica intacto
	assert.Equal(t, string(domain.SlotRequested), repo.slots[s1].BookingStatus)
	assert.True(t, repo.slots[s1].IsOpen)
	assert.False(t, repo.slots[s2].IsOpen)
}

func TestUpdateAvailability_EmptyInput(t *testing.T) {
	uc := NewUpdateAvailability(newFakeRepo(), nil)

	_, err := uc.Execute(context.Background(), nil, false, "77")
	assert.True(t, httperr.IsBusiness(err, "empty_slot_ids"))
}

// --- ListSlots ---

func TestListSlots_AvailableFiltersAndOrders(t *testing.T) {
	repo := newFakeRepo()
	repo.addProject(1, 10, domain.ScriptSubmitted)
	s1 := repo.addSlot(seoulBase.Add(2*time.Hour), true)
	s2 := repo.addSlot(seoulBase, true)
	s3 := repo.addSlot(seoulBase.Add(time.Hour), false)

	requestUC := NewRequestSlots(repo, nil, nil)
	listUC := NewListSlots(repo, nil)

	assert.NoError(t, requestUC.Execute(context.Background(), RequestSlotsInput{ProjectID: 1, SlotIDs: []uint{s1}, UserID: 10}))

	avail, err := listUC.Available(context.Background(), seoulBase.Add(-time.Hour), seoulBase.Add(3*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, avail, 1)
	assert.Equal(t, s2, avail[0].ID)

	all, err := listUC.All(context.Background(), seoulBase.Add(-time.Hour), seoulBase.Add(3*time.Hour))
	assert.NoError(t, err)
	assert.Len(t, all, 3)
	assert.Equal(t, s2, all[0].ID)
	assert.Equal(t, s3, all[1].ID)
	assert.Equal(t, s1, all[2].ID)
}
