package booking

import (
	"context"
	"time"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	"github.com/studioflow/shoot-scheduler/internal/cache"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/metrics"
	"github.com/studioflow/shoot-scheduler/internal/models"
	"github.com/studioflow/shoot-scheduler/internal/validators"
)

type GenerateSlots struct {
	repo  domain.Repository
	cache *cache.SlotCache

	loc       *time.Location
	startHour int
	endHour   int
	daysAhead int
}

func NewGenerateSlots(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	loc *time.Location,
	startHour int,
	endHour int,
	daysAhead int,
) *GenerateSlots {
	return &GenerateSlots{
		repo:      repo,
		cache:     slotCache,
		loc:       loc,
		startHour: startHour,
		endHour:   endHour,
		daysAhead: daysAhead,
	}
}

// Execute cria os slots horários do dia em [startHour, endHour).
// slot_time é único: rodar de novo para o mesmo dia só cria o que falta.
func (uc *GenerateSlots) Execute(
	ctx context.Context,
	dateStr string,
	actorID string,
) (int64, error) {

	if !validators.IsDate(dateStr) {
		return 0, httperr.ErrBusiness("invalid_date")
	}

	day, err := validators.ParseDateIn(dateStr, uc.loc)
	if err != nil {
		return 0, httperr.ErrBusiness("invalid_date")
	}

	slots := make([]models.TimeSlot, 0, uc.endHour-uc.startHour)
	for hour := uc.startHour; hour < uc.endHour; hour++ {
		slots = append(slots, models.TimeSlot{
			SlotTime:      day.Add(time.Duration(hour) * time.Hour),
			IsOpen:        true,
			BookingStatus: string(domain.SlotAvailable),
		})
	}

	var created int64

	err = uc.repo.InTx(ctx, func(store domain.Store) error {

		created, err = store.CreateSlots(ctx, slots)
		if err != nil {
			return err
		}

		entry := audit.Entry(actorID, "time_slots", nil, "INSERT", map[string]any{
			"date":    dateStr,
			"created": created,
		})
		return store.AppendAudit(ctx, entry)
	})

	if err != nil {
		return 0, err
	}

	metrics.SlotsGenerated.Add(float64(created))
	uc.cache.Invalidate(ctx)

	return created, nil
}

// ExecuteDaily é o caminho do gatilho agendado: gera os slots de hoje + N dias.
func (uc *GenerateSlots) ExecuteDaily(
	ctx context.Context,
) (string, int64, error) {

	target := time.Now().In(uc.loc).AddDate(0, 0, uc.daysAhead)
	dateStr := target.Format("2006-01-02")

	created, err := uc.Execute(ctx, dateStr, audit.SystemActor)
	return dateStr, created, err
}
