package booking

import (
	"context"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	"github.com/studioflow/shoot-scheduler/internal/cache"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/events"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/metrics"
)

type DenySlot struct {
	repo   domain.Repository
	cache  *cache.SlotCache
	events *events.Publisher
}

func NewDenySlot(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	publisher *events.Publisher,
) *DenySlot {
	return &DenySlot{
		repo:   repo,
		cache:  slotCache,
		events: publisher,
	}
}

// Execute reverte o slot para available. O status do projeto não é tocado:
// essa decisão fica com o chamador administrativo. Negar um slot que já está
// available é no-op (idempotente).
func (uc *DenySlot) Execute(
	ctx context.Context,
	projectID uint,
	slotID uint,
	actorID string,
) error {

	released := false

	err := uc.repo.InTx(ctx, func(store domain.Store) error {

		slot, err := store.GetSlotForUpdate(ctx, slotID)
		if err != nil {
			return httperr.ErrBusiness("slot_not_found")
		}

		if !domain.Claimed(slot) {
			return nil
		}

		if slot.ProjectID == nil || *slot.ProjectID != projectID {
			return httperr.ErrBusiness("slot_project_mismatch")
		}

		old := slot.BookingStatus
		domain.Release(slot)

		if err := store.SaveSlot(ctx, slot); err != nil {
			return err
		}

		released = true

		entry := audit.Entry(actorID, "time_slots", &slot.ID, "UPDATE", map[string]any{
			"booking_status": audit.FieldChange{Old: old, New: string(domain.SlotAvailable)},
			"project_id":     audit.FieldChange{Old: projectID, New: nil},
		})
		return store.AppendAudit(ctx, entry)
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_project_mismatch") {
			metrics.BookingConflicts.Inc()
		}
		return err
	}

	if released {
		metrics.SlotsDenied.Inc()
		uc.cache.Invalidate(ctx)
		uc.events.Publish(events.SlotDenied, map[string]any{
			"project_id": projectID,
			"slot_id":    slotID,
		})
	}

	return nil
}
