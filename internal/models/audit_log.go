package models

import "time"

// AuditLog rows are append-only: written once, never updated or deleted.
type AuditLog struct {
	ID uint `gorm:"primaryKey" json:"id"`

	ActorID string `gorm:"size:50;not null;index" json:"actor_id"`

	TargetTable string `gorm:"size:50;index" json:"target_table"`
	TargetID    *uint  `json:"target_id"`

	ActionType string `gorm:"size:50;not null;index" json:"action_type"`
	Changes    string `gorm:"type:text" json:"changes"`

	CreatedAt time.Time `json:"created_at"`
}
