package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/studioflow/shoot-scheduler/internal/domain/booking"
	"github.com/studioflow/shoot-scheduler/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Transaction boundary
// --------------------------------------------------

func (r *BookingGormRepository) InTx(
	ctx context.Context,
	fn func(domain.Store) error,
) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx})
	})
}

// --------------------------------------------------
// Reads (no transaction)
// --------------------------------------------------

func (r *BookingGormRepository) GetProject(
	ctx context.Context,
	id uint,
) (*models.Project, error) {

	var p models.Project
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *BookingGormRepository) ListAvailable(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where(
			"slot_time >= ? AND slot_time <= ? AND is_open = ? AND booking_status = ?",
			start, end, true, string(domain.SlotAvailable),
		).
		Order("slot_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

func (r *BookingGormRepository) ListAll(
	ctx context.Context,
	start time.Time,
	end time.Time,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := r.db.WithContext(ctx).
		Where("slot_time >= ? AND slot_time <= ?", start, end).
		Order("slot_time ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}

	return slots, nil
}

// --------------------------------------------------
// Transaction-scoped store
// --------------------------------------------------

type gormStore struct {
	db *gorm.DB
}

func (s *gormStore) GetProject(
	ctx context.Context,
	id uint,
) (*models.Project, error) {

	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *gormStore) UpdateProject(
	ctx context.Context,
	p *models.Project,
) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *gormStore) GetSlotForUpdate(
	ctx context.Context,
	id uint,
) (*models.TimeSlot, error) {

	var slot models.TimeSlot
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&slot, id).Error; err != nil {
		return nil, err
	}
	return &slot, nil
}

func (s *gormStore) GetSlotsForUpdate(
	ctx context.Context,
	ids []uint,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id IN ?", ids).
		Order("id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *gormStore) ListProjectSlotsForUpdate(
	ctx context.Context,
	projectID uint,
) ([]models.TimeSlot, error) {

	var slots []models.TimeSlot
	if err := s.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"project_id = ? AND booking_status IN ?",
			projectID,
			[]string{string(domain.SlotRequested), string(domain.SlotConfirmed)},
		).
		Order("id ASC").
		Find(&slots).Error; err != nil {
		return nil, err
	}
	return slots, nil
}

func (s *gormStore) SaveSlot(
	ctx context.Context,
	slot *models.TimeSlot,
) error {
	return s.db.WithContext(ctx).Save(slot).Error
}

func (s *gormStore) CreateSlots(
	ctx context.Context,
	slots []models.TimeSlot,
) (int64, error) {

	if len(slots) == 0 {
		return 0, nil
	}

	// slot_time carrega unique index: re-gerar um dia já gerado é idempotente.
	res := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot_time"}},
			DoNothing: true,
		}).
		Create(&slots)

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *gormStore) SetSlotsOpen(
	ctx context.Context,
	ids []uint,
	isOpen bool,
) (int64, error) {

	// Slots reivindicados ficam de fora: fechar um slot reservado não faz
	// sentido sem antes negar a reserva.
	res := s.db.WithContext(ctx).
		Model(&models.TimeSlot{}).
		Where(
			"id IN ? AND booking_status = ?",
			ids, string(domain.SlotAvailable),
		).
		Update("is_open", isOpen)

	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (s *gormStore) AppendAudit(
	ctx context.Context,
	entry *models.AuditLog,
) error {
	return s.db.WithContext(ctx).Create(entry).Error
}

// Compile-time checks
var (
	_ domain.Repository = (*BookingGormRepository)(nil)
	_ domain.Store      = (*gormStore)(nil)
)
