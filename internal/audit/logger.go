package audit

import (
	"encoding/json"

	"gorm.io/gorm"

	"github.com/studioflow/shoot-scheduler/internal/models"
)

// SystemActor identifies mutations performed by the scheduled trigger
// rather than a user.
const SystemActor = "system"

// FieldChange records an old/new pair for one field of the target row.
type FieldChange struct {
	Old any `json:"old"`
	New any `json:"new"`
}

type Logger struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Logger {
	return &Logger{db: db}
}

// Entry builds an AuditLog row without persisting it. Booking use cases
// persist entries through the store so the write shares the transaction
// of the state change it describes.
func Entry(
	actorID string,
	targetTable string,
	targetID *uint,
	actionType string,
	changes any,
) *models.AuditLog {

	var payload string
	if changes != nil {
		if b, err := json.Marshal(changes); err == nil {
			payload = string(b)
		}
	}

	return &models.AuditLog{
		ActorID:     actorID,
		TargetTable: targetTable,
		TargetID:    targetID,
		ActionType:  actionType,
		Changes:     payload,
	}
}

// Log persists an entry immediately, outside any caller transaction.
func (l *Logger) Log(
	actorID string,
	targetTable string,
	targetID *uint,
	actionType string,
	changes any,
) error {
	return l.db.Create(Entry(actorID, targetTable, targetID, actionType, changes)).Error
}
