package booking

import (
	"context"
	"time"

	"github.com/studioflow/shoot-scheduler/internal/audit"
	"github.com/studioflow/shoot-scheduler/internal/cache"
	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/events"
	"github.com/studioflow/shoot-scheduler/internal/httperr"
	"github.com/studioflow/shoot-scheduler/internal/metrics"
)

type ConfirmSlot struct {
	repo   domain.Repository
	cache  *cache.SlotCache
	events *events.Publisher
}

func NewConfirmSlot(
	repo domain.Repository,
	slotCache *cache.SlotCache,
	publisher *events.Publisher,
) *ConfirmSlot {
	return &ConfirmSlot{
		repo:   repo,
		cache:  slotCache,
		events: publisher,
	}
}

// Execute confirma o slot para o projeto. Qualquer outro slot que o projeto
// segure (requested ou confirmed) volta para available na mesma transação:
// um projeto mantém no máximo um slot ativo.
//
// Confirmar um slot confirmado para OUTRO projeto é sempre rejeitado, mesmo
// sendo ação de admin.
func (uc *ConfirmSlot) Execute(
	ctx context.Context,
	projectID uint,
	slotID uint,
	actorID string,
) error {

	err := uc.repo.InTx(ctx, func(store domain.Store) error {

		p, err := store.GetProject(ctx, projectID)
		if err != nil {
			return httperr.ErrBusiness("project_not_found")
		}

		target, err := store.GetSlotForUpdate(ctx, slotID)
		if err != nil {
			return httperr.ErrBusiness("slot_not_found")
		}

		if err := domain.CanConfirm(
			domain.SlotStatus(target.BookingStatus),
			target.ProjectID,
			projectID,
		); err != nil {
			return err
		}

		held, err := store.ListProjectSlotsForUpdate(ctx, projectID)
		if err != nil {
			return err
		}

		for i := range held {
			slot := &held[i]
			if slot.ID == target.ID {
				continue
			}

			old := slot.BookingStatus
			domain.Release(slot)

			if err := store.SaveSlot(ctx, slot); err != nil {
				return err
			}

			entry := audit.Entry(actorID, "time_slots", &slot.ID, "UPDATE", map[string]any{
				"booking_status": audit.FieldChange{Old: old, New: string(domain.SlotAvailable)},
				"project_id":     audit.FieldChange{Old: projectID, New: nil},
			})
			if err := store.AppendAudit(ctx, entry); err != nil {
				return err
			}
		}

		oldStatus := target.BookingStatus
		var oldHolder any
		if target.ProjectID != nil {
			oldHolder = *target.ProjectID
		}
		if err := domain.Confirm(target, projectID); err != nil {
			return err
		}
		if err := store.SaveSlot(ctx, target); err != nil {
			return err
		}

		entry := audit.Entry(actorID, "time_slots", &target.ID, "UPDATE", map[string]any{
			"booking_status": audit.FieldChange{Old: oldStatus, New: string(domain.SlotConfirmed)},
			"project_id":     audit.FieldChange{Old: oldHolder, New: projectID},
		})
		if err := store.AppendAudit(ctx, entry); err != nil {
			return err
		}

		oldProjectStatus := p.Status
		p.Status = string(domain.ScheduleFixed)

		shootDate := time.Date(
			target.SlotTime.Year(), target.SlotTime.Month(), target.SlotTime.Day(),
			0, 0, 0, 0,
			target.SlotTime.Location(),
		)
		p.ShootDate = &shootDate

		if err := store.UpdateProject(ctx, p); err != nil {
			return err
		}

		entry = audit.Entry(actorID, "projects", &p.ID, "UPDATE", map[string]any{
			"status":    audit.FieldChange{Old: oldProjectStatus, New: p.Status},
			"shootdate": audit.FieldChange{Old: nil, New: shootDate.Format("2006-01-02")},
		})
		return store.AppendAudit(ctx, entry)
	})

	if err != nil {
		if httperr.IsBusiness(err, "slot_already_confirmed") ||
			httperr.IsBusiness(err, "slot_held_by_other_project") {
			metrics.BookingConflicts.Inc()
		}
		return err
	}

	metrics.SlotsConfirmed.Inc()
	uc.cache.Invalidate(ctx)
	uc.events.Publish(events.SlotConfirmed, map[string]any{
		"project_id": projectID,
		"slot_id":    slotID,
	})

	return nil
}
