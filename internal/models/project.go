package models

import "time"

type Project struct {
	ID uint `gorm:"primaryKey" json:"id"`

	UserID uint `gorm:"index;not null" json:"user_id"`
	User   User `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"user"`

	Name   string `gorm:"size:100;not null" json:"name"`
	Status string `gorm:"size:30;not null;default:'project_open'" json:"status"`

	// Cached copy of the confirmed slot's date, kept for listing screens.
	ShootDate *time.Time `gorm:"type:date" json:"shootdate"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
