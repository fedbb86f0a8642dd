package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type checkinRepository struct {
	db *store.DB
}

// NewCheckinRepository creates a SQLite-backed check-in repository.
func NewCheckinRepository(db *store.DB) CheckinRepository {
	return &checkinRepository{db: db}
}

func (r *checkinRepository) Create(ctx context.Context, checkin *models.CheckIn) (*models.CheckIn, error) {
	const op = "repository.CheckinRepository.Create"

	if !checkin.Emotion.IsValid() {
		return nil, apperr.Validationf(op, "unknown emotion type %q", checkin.Emotion)
	}
	if checkin.Intensity < 1 || checkin.Intensity > 10 {
		return nil, apperr.Validationf(op, "intensity %d out of range [1,10]", checkin.Intensity)
	}

	if checkin.ID == "" {
		checkin.ID = uuid.New().String()
	}
	checkin.CreatedAt = time.Now()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO checkins
			(id, user_id, emotion, intensity, context, timestamp,
			 journal_session_id, tool_usage_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		checkin.ID, checkin.UserID, string(checkin.Emotion), checkin.Intensity,
		string(checkin.Context), encodeTime(checkin.Timestamp),
		nullString(checkin.JournalSessionID), nullString(checkin.ToolUsageID),
		encodeTime(checkin.CreatedAt),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	return checkin, nil
}

func (r *checkinRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.CheckIn, error) {
	const op = "repository.CheckinRepository.GetByUserIDAndDateRange"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, user_id, emotion, intensity, context, timestamp,
		       journal_session_id, tool_usage_id, created_at
		FROM checkins
		WHERE user_id = ? AND timestamp >= ? AND timestamp <= ?
		ORDER BY timestamp ASC`,
		userID, encodeTime(start), encodeTime(end),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var checkins []models.CheckIn
	for rows.Next() {
		c, err := scanCheckin(rows)
		if err != nil {
			return nil, apperr.Repository(op, err)
		}
		checkins = append(checkins, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return checkins, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCheckin(row rowScanner) (*models.CheckIn, error) {
	var c models.CheckIn
	var emotion, checkinContext, timestamp, createdAt string
	var journalID, usageID sql.NullString

	if err := row.Scan(&c.ID, &c.UserID, &emotion, &c.Intensity, &checkinContext,
		&timestamp, &journalID, &usageID, &createdAt); err != nil {
		return nil, err
	}

	c.Emotion = models.EmotionType(emotion)
	c.Context = models.CheckinContext(checkinContext)
	c.JournalSessionID = fromNullString(journalID)
	c.ToolUsageID = fromNullString(usageID)

	var err error
	if c.Timestamp, err = decodeTime(timestamp); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}

	return &c, nil
}
