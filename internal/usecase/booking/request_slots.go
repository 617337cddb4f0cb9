package booking

import (
	"context"
	"strconv"

	"github.com/google/uuid"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	"github.com/studioflow/shoot-scheduler/internal/cache"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/events"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/metrics"
)

// ======================================================
// INPUT
// ======================================================

type RequestSlotsInput struct {
	ProjectID uint
	SlotIDs   []uint

	// Authenticated caller; must own the project.
	UserID uint
}

// ======================================================
// USE CASE
// ======================================================

type RequestSlots struct {
	repo   domain.Repository
	cache  *cache.SlotCache
	events *events.Publisher
}

func NewRequestSlots(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	publisher *events.Publisher,
) *RequestSlots {
	return &RequestSlots{
		repo:   repo,
		cache:  slotCache,
		events: publisher,
	}
}

// ======================================================
// EXECUTE
// ======================================================

// Execute reivindica todos os slots em uma única transação: ou o centro
// recebe o lote inteiro, ou nada muda. Se um concorrente ganhou um dos
// slots, a operação inteira falha com slot_unavailable.
func (uc *RequestSlots) Execute(
	ctx context.Context,
	in RequestSlotsInput,
) error {

	ids := dedupeIDs(in.SlotIDs)
	if len(ids) == 0 {
		return httperr.ErrBusiness("empty_slot_ids")
	}

	actor := strconv.FormatUint(uint64(in.UserID), 10)
	batchID := uuid.NewString()

	err := uc.repo.InTx(ctx, func(store domain.Store) error {

		p, err := store.GetProject(ctx, in.ProjectID)
		if err != nil {
			return httperr.ErrBusiness("project_not_found")
		}

		if p.UserID != in.UserID {
			return httperr.ErrBusiness("not_project_owner")
		}

		slots, err := store.GetSlotsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(slots) != len(ids) {
			return httperr.ErrBusiness("slot_not_found")
		}

		for i := range slots {
			slot := &slots[i]

			if err := domain.Request(slot, in.ProjectID); err != nil {
				return err
			}

			if err := store.SaveSlot(ctx, slot); err != nil {
				return err
			}

			entry := audit.Entry(actor, "time_slots", &slot.ID, "UPDATE", map[string]any{
				"batch_id":       batchID,
				"booking_status": audit.FieldChange{Old: string(domain.SlotAvailable), New: string(domain.SlotRequested)},
				"project_id":     audit.FieldChange{Old: nil, New: in.ProjectID},
			})
			if err := store.AppendAudit(ctx, entry); err != nil {
				return err
			}
		}

		if next, changed := domain.AdvanceOnRequest(domain.ProjectStatus(p.Status)); changed {
			old := p.Status
			p.Status = string(next)

			if err := store.UpdateProject(ctx, p); err != nil {
				return err
			}

			entry := audit.Entry(actor, "projects", &p.ID, "UPDATE", map[string]any{
				"batch_id": batchID,
				"status":   audit.FieldChange{Old: old, New: p.Status},
			})
			if err := store.AppendAudit(ctx, entry); err != nil {
				return err
			}
		}

		return nil
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_unavailable") {
			metrics.BookingConflicts.Inc()
		}
		return err
	}

	metrics.SlotsRequested.Add(float64(len(ids)))
	uc.cache.Invalidate(ctx)
	uc.events.Publish(events.SlotsRequested, map[string]any{
		"project_id": in.ProjectID,
		"slot_ids":   ids,
	})

	return nil
}

func dedupeIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
