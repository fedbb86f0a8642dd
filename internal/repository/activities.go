package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type activityRepository struct {
	db *store.DB
}

// NewActivityRepository creates a SQLite-backed activity-event repository.
func NewActivityRepository(db *store.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) Create(ctx context.Context, event *models.ActivityEvent) (*models.ActivityEvent, error) {
	const op = "repository.ActivityRepository.Create"

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.CreatedAt = time.Now()

	var metadata sql.NullString
	if len(event.Metadata) > 0 {
		b, err := json.Marshal(event.Metadata)
		if err != nil {
			return nil, apperr.Repository(op, err)
		}
		metadata = sql.NullString{String: string(b), Valid: true}
	}

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO activity_events (id, user_id, type, timestamp, metadata, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, string(event.Type), encodeTime(event.Timestamp),
		metadata, encodeTime(event.CreatedAt),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	return event, nil
}

func (r *activityRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityEvent, error) {
	const op = "repository.ActivityRepository.GetByUserIDAndDateRange"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, user_id, type, timestamp, metadata, created_at
		FROM activity_events
		WHERE user_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		userID, encodeTime(start), encodeTime(end),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var events []models.ActivityEvent
	for rows.Next() {
		var e models.ActivityEvent
		var eventType, timestamp, createdAt string
		var metadata sql.NullString

		if err := rows.Scan(&e.ID, &e.UserID, &eventType, &timestamp, &metadata, &createdAt); err != nil {
			return nil, apperr.Repository(op, err)
		}

		e.Type = models.ActivityType(eventType)
		if e.Timestamp, err = decodeTime(timestamp); err != nil {
			return nil, apperr.Repository(op, err)
		}
		if e.CreatedAt, err = decodeTime(createdAt); err != nil {
			return nil, apperr.Repository(op, err)
		}
		if metadata.Valid {
			if err := json.Unmarshal([]byte(metadata.String), &e.Metadata); err != nil {
				return nil, apperr.Repository(op, err)
			}
		}

		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return events, nil
}
