package booking

import (
	"context"
	"time"

	"github.com/studioflow/shoot-scheduler/internal/models"
)

// Store is the transaction-scoped view of the slot store. Every method runs
// inside the transaction opened by Repository.InTx; the *ForUpdate reads take
// row locks so that check-then-write sequences are race-free.
type Store interface {
	// -------- Project --------
	GetProject(
		ctx context.Context,
		id uint,
	) (*models.Project, error)

	UpdateProject(
		ctx context.Context,
		p *models.Project,
	) error

	// -------- Slot (locked reads) --------
	GetSlotForUpdate(
		ctx context.Context,
		id uint,
	) (*models.TimeSlot, error)

	GetSlotsForUpdate(
		ctx context.Context,
		ids []uint,
	) ([]models.TimeSlot, error)

	ListProjectSlotsForUpdate(
		ctx context.Context,
		projectID uint,
	) ([]models.TimeSlot, error)

	// -------- Slot (writes) --------
	SaveSlot(
		ctx context.Context,
		slot *models.TimeSlot,
	) error

	// CreateSlots inserts the batch, silently skipping rows whose slot_time
	// already exists. Returns the number actually created.
	CreateSlots(
		ctx context.Context,
		slots []models.TimeSlot,
	) (int64, error)

	// SetSlotsOpen toggles is_open only on slots that are not claimed.
	// Returns the number of rows updated.
	SetSlotsOpen(
		ctx context.Context,
		ids []uint,
		isOpen bool,
	) (int64, error)

	// -------- Audit --------
	AppendAudit(
		ctx context.Context,
		entry *models.AuditLog,
	) error
}

// Repository is the slot store contract used by the use cases.
type Repository interface {
	// InTx runs fn atomically: either every mutation fn performs commits,
	// or none of them do.
	InTx(ctx context.Context, fn func(Store) error) error

	// -------- Reads (outside any transaction) --------
	GetProject(ctx context.Context, id uint) (*models.Project, error)

	ListAvailable(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.TimeSlot, error)

	ListAll(
		ctx context.Context,
		start time.Time,
		end time.Time,
	) ([]models.TimeSlot, error)
}
