package booking

import (
	"context"
	"time"

	"github.com/studioflow/shoot-scheduler/internal/cache"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/models"
)

type ListSlots struct {
	repo  domain.Repository
	cache *cache.SlotCache
}

func NewListSlots(
	repo domain.Repository,
	slotCache *cache.SlotCache,
) *ListSlots {
	return &ListSlots{
		repo:  repo,
		cache: slotCache,
	}
}

// Available devolve slots abertos e não reivindicados na janela, em ordem
// crescente de slot_time, com cache read-through.
func (uc *ListSlots) Available(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.TimeSlot, error) {

	keyStart := start.Format(time.RFC3339)
	keyEnd := end.Format(time.RFC3339)

	if slots, ok := uc.cache.GetAvailable(ctx, keyStart, keyEnd); ok {
		return slots, nil
	}

	slots, err := uc.repo.ListAvailable(ctx, start, end)
	if err != nil {
		return nil, err
	}

	uc.cache.SetAvailable(ctx, keyStart, keyEnd, slots)
	return slots, nil
}

// All devolve todos os slots da janela, qualquer status. Visão de admin,
// sem cache.
func (uc *ListSlots) All(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.TimeSlot, error) {
	return uc.repo.ListAll(ctx, start, end)
}
