package testutils

import (
	"time"

	"noteria/backend/models"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MockEventRows creates mock SQL rows for outbox queries
func MockEventRows(events []models.Event) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{
		"id", "event", "version", "entity", "entity_id", "actor_id",
		"timestamp", "data", "status", "dispatched", "dispatched_at",
	})

	for _, event := range events {
		if event.ID == uuid.Nil {
			event.ID = uuid.New()
		}
		if event.Timestamp.IsZero() {
			event.Timestamp = time.Now()
		}
		if event.Data == nil {
			event.Data = datatypes.JSON(`{}`)
		}
		if event.Status == "" {
			event.Status = models.EventStatusPending
		}
		if event.Version == 0 {
			event.Version = 1
		}

		var dispatchedAt interface{}
		if event.DispatchedAt != nil {
			dispatchedAt = *event.DispatchedAt
		}

		rows.AddRow(
			event.ID.String(),
			event.Event,
			event.Version,
			event.Entity,
			event.EntityID.String(),
			event.ActorID.String(),
			event.Timestamp,
			[]byte(event.Data),
			event.Status,
			event.Dispatched,
			dispatchedAt,
		)
	}

	return rows
}
