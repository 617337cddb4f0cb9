package booking

import (
	"github.com/studioflow/shoot-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func Request(slot *models.TimeSlot, projectID uint) error {
	if err := CanRequest(SlotStatus(slot.BookingStatus), slot.IsOpen); err != nil {
		return err
	}

	slot.BookingStatus = string(SlotRequested)
	slot.ProjectID = &projectID
	return nil
}

func Confirm(slot *models.TimeSlot, projectID uint) error {
	if err := CanConfirm(SlotStatus(slot.BookingStatus), slot.ProjectID, projectID); err != nil {
		return err
	}

	slot.BookingStatus = string(SlotConfirmed)
	slot.ProjectID = &projectID
	return nil
}

// Release reverte um slot para available, de qualquer estado reivindicado.
// is_open não é tocado: abertura administrativa é independente da reserva.
func Release(slot *models.TimeSlot) {
	slot.BookingStatus = string(SlotAvailable)
	slot.ProjectID = nil
}

// Claimed reports whether the slot currently belongs to some project.
func Claimed(slot *models.TimeSlot) bool {
	return SlotStatus(slot.BookingStatus) != SlotAvailable
}
