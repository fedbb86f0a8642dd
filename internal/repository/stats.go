package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type usageStatsRepository struct {
	db *store.DB
}

// NewUsageStatsRepository creates a SQLite-backed usage-statistics repository.
func NewUsageStatsRepository(db *store.DB) UsageStatsRepository {
	return &usageStatsRepository{db: db}
}

// Upsert writes a user's rollup, replacing the previous one. Each user has
// at most one row.
func (r *usageStatsRepository) Upsert(ctx context.Context, stats *models.UsageStatistics) error {
	const op = "repository.UsageStatsRepository.Upsert"

	if stats.ID == "" {
		stats.ID = uuid.New().String()
	}

	var category sql.NullString
	if stats.MostUsedCategory != nil {
		category = sql.NullString{String: string(*stats.MostUsedCategory), Valid: true}
	}

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO usage_statistics
			(id, user_id, window_start, window_end, total_sessions,
			 completed_sessions, completion_rate, total_duration_seconds,
			 most_used_category, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			window_start           = excluded.window_start,
			window_end             = excluded.window_end,
			total_sessions         = excluded.total_sessions,
			completed_sessions     = excluded.completed_sessions,
			completion_rate        = excluded.completion_rate,
			total_duration_seconds = excluded.total_duration_seconds,
			most_used_category     = excluded.most_used_category,
			computed_at            = excluded.computed_at`,
		stats.ID, stats.UserID, encodeTime(stats.WindowStart), encodeTime(stats.WindowEnd),
		stats.TotalSessions, stats.CompletedSessions, stats.CompletionRate,
		stats.TotalDurationSeconds, category, encodeTime(stats.ComputedAt),
	)
	if err != nil {
		return apperr.Repository(op, err)
	}

	return nil
}

func (r *usageStatsRepository) GetByUserID(ctx context.Context, userID string) (*models.UsageStatistics, error) {
	const op = "repository.UsageStatsRepository.GetByUserID"

	row := r.db.Conn().QueryRowContext(ctx, `
		SELECT id, user_id, window_start, window_end, total_sessions,
		       completed_sessions, completion_rate, total_duration_seconds,
		       most_used_category, computed_at
		FROM usage_statistics WHERE user_id = ?`, userID)

	var stats models.UsageStatistics
	var windowStart, windowEnd, computedAt string
	var category sql.NullString

	err := row.Scan(&stats.ID, &stats.UserID, &windowStart, &windowEnd,
		&stats.TotalSessions, &stats.CompletedSessions, &stats.CompletionRate,
		&stats.TotalDurationSeconds, &category, &computedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(op, "usage statistics not found")
	}
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	if category.Valid {
		c := models.ToolCategory(category.String)
		stats.MostUsedCategory = &c
	}
	if stats.WindowStart, err = decodeTime(windowStart); err != nil {
		return nil, apperr.Repository(op, err)
	}
	if stats.WindowEnd, err = decodeTime(windowEnd); err != nil {
		return nil, apperr.Repository(op, err)
	}
	if stats.ComputedAt, err = decodeTime(computedAt); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return &stats, nil
}
