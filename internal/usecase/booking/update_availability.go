package booking

import (
	"context"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	"github.com/studioflow/shoot-scheduler/internal/cache"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
)

type UpdateAvailability struct {
	repo  domain.Repository
	cache *cache.SlotCache
}

func NewUpdateAvailability(
	repo domain.Repository,
	slotCache *cache.SlotCache,
) *UpdateAvailability {
	return &UpdateAvailability{
		repo:  repo,
		cache: slotCache,
	}
}

// Execute abre/fecha slots em lote. Slots requested/confirmed são ignorados
// em silêncio (o booking_status deles nunca muda por aqui); o retorno diz
// quantos foram de fato alterados.
func (uc *UpdateAvailability) Execute(
	ctx context.Context,
	slotIDs []uint,
	isOpen bool,
	actorID string,
) (int64, error) {

	ids := dedupeIDs(slotIDs)
	if len(ids) == 0 {
		return 0, httperr.ErrBusiness("empty_slot_ids")
	}

	var updated int64

	err := uc.repo.InTx(ctx, func(store domain.Store) error {

		var err error
		updated, err = store.SetSlotsOpen(ctx, ids, isOpen)
		if err != nil {
			return err
		}

		if updated == 0 {
			return nil
		}

		entry := audit.Entry(actorID, "time_slots", nil, "UPDATE", map[string]any{
			"slot_ids": ids,
			"is_open":  audit.FieldChange{Old: !isOpen, New: isOpen},
			"updated":  updated,
		})
		return store.AppendAudit(ctx, entry)
	})

	if err != nil {
		return 0, err
	}

	if updated > 0 {
		uc.cache.Invalidate(ctx)
	}

	return updated, nil
}
