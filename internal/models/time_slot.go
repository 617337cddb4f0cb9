package models

import "time"

type TimeSlot struct {
	ID uint `gorm:"primaryKey" json:"id"`

	SlotTime time.Time `gorm:"uniqueIndex;not null" json:"slot_time"`

	IsOpen        bool   `gorm:"not null;default:true" json:"is_open"`
	BookingStatus string `gorm:"size:20;not null;default:'available';index" json:"booking_status"`

	ProjectID *uint    `gorm:"index" json:"project_id"`
	Project   *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"project,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
