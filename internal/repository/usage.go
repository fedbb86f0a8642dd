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

type toolUsageRepository struct {
	db *store.DB
}

// NewToolUsageRepository creates a SQLite-backed tool-usage repository.
func NewToolUsageRepository(db *store.DB) ToolUsageRepository {
	return &toolUsageRepository{db: db}
}

func (r *toolUsageRepository) Create(ctx context.Context, record *models.ToolUsageRecord) (*models.ToolUsageRecord, error) {
	const op = "repository.ToolUsageRepository.Create"

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO tool_usage
			(id, user_id, tool_id, duration_seconds, status,
			 pre_checkin_id, post_checkin_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.UserID, record.ToolID, record.DurationSeconds,
		string(record.Status), nullString(record.PreCheckinID),
		nullString(record.PostCheckinID), encodeTime(record.CreatedAt),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	return record, nil
}

// GetByUserID returns a user's usage records oldest first, with linked
// pre/post check-ins expanded via a self-join on the checkins table.
func (r *toolUsageRepository) GetByUserID(ctx context.Context, userID string) ([]models.ToolUsageRecord, error) {
	const op = "repository.ToolUsageRepository.GetByUserID"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT u.id, u.user_id, u.tool_id, u.duration_seconds, u.status,
		       u.pre_checkin_id, u.post_checkin_id, u.created_at,
		       pre.id, pre.user_id, pre.emotion, pre.intensity, pre.context,
		       pre.timestamp, pre.journal_session_id, pre.tool_usage_id, pre.created_at,
		       post.id, post.user_id, post.emotion, post.intensity, post.context,
		       post.timestamp, post.journal_session_id, post.tool_usage_id, post.created_at
		FROM tool_usage u
		LEFT JOIN checkins pre ON pre.id = u.pre_checkin_id
		LEFT JOIN checkins post ON post.id = u.post_checkin_id
		WHERE u.user_id = ?
		ORDER BY u.created_at ASC, u.id ASC`,
		userID,
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var records []models.ToolUsageRecord
	for rows.Next() {
		rec, err := scanUsageWithCheckins(rows)
		if err != nil {
			return nil, apperr.Repository(op, err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return records, nil
}

// nullableCheckinColumns mirrors the checkins schema with every column
// nullable, for LEFT JOIN scanning.
type nullableCheckinColumns struct {
	id, userID, emotion, context, timestamp, createdAt sql.NullString
	intensity                                          sql.NullInt64
	journalID, usageID                                 sql.NullString
}

func (c *nullableCheckinColumns) toCheckin() (*models.CheckIn, error) {
	if !c.id.Valid {
		return nil, nil
	}
	checkin := &models.CheckIn{
		ID:               c.id.String,
		UserID:           c.userID.String,
		Emotion:          models.EmotionType(c.emotion.String),
		Intensity:        int(c.intensity.Int64),
		Context:          models.CheckinContext(c.context.String),
		JournalSessionID: fromNullString(c.journalID),
		ToolUsageID:      fromNullString(c.usageID),
	}
	var err error
	if checkin.Timestamp, err = decodeTime(c.timestamp.String); err != nil {
		return nil, err
	}
	if checkin.CreatedAt, err = decodeTime(c.createdAt.String); err != nil {
		return nil, err
	}
	return checkin, nil
}

func scanUsageWithCheckins(row rowScanner) (*models.ToolUsageRecord, error) {
	var rec models.ToolUsageRecord
	var status, createdAt string
	var preID, postID sql.NullString
	var pre, post nullableCheckinColumns

	if err := row.Scan(
		&rec.ID, &rec.UserID, &rec.ToolID, &rec.DurationSeconds, &status,
		&preID, &postID, &createdAt,
		&pre.id, &pre.userID, &pre.emotion, &pre.intensity, &pre.context,
		&pre.timestamp, &pre.journalID, &pre.usageID, &pre.createdAt,
		&post.id, &post.userID, &post.emotion, &post.intensity, &post.context,
		&post.timestamp, &post.journalID, &post.usageID, &post.createdAt,
	); err != nil {
		return nil, err
	}

	rec.Status = models.CompletionStatus(status)
	rec.PreCheckinID = fromNullString(preID)
	rec.PostCheckinID = fromNullString(postID)

	var err error
	if rec.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if rec.PreCheckin, err = pre.toCheckin(); err != nil {
		return nil, err
	}
	if rec.PostCheckin, err = post.toCheckin(); err != nil {
		return nil, err
	}

	return &rec, nil
}
