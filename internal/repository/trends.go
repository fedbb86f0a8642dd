package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type trendRepository struct {
	db *store.DB
}

// NewTrendRepository creates a SQLite-backed trend repository.
func NewTrendRepository(db *store.DB) TrendRepository {
	return &trendRepository{db: db}
}

// Upsert writes a trend keyed on (user, emotion, period_type, period_value),
// replacing any previous record for the same bucket.
func (r *trendRepository) Upsert(ctx context.Context, trend *models.Trend) error {
	const op = "repository.TrendRepository.Upsert"

	if trend.ID == "" {
		trend.ID = uuid.New().String()
	}

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO trends
			(id, user_id, emotion, period_type, period_value, occurrence_count,
			 average_intensity, min_intensity, max_intensity, direction, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id, emotion, period_type, period_value) DO UPDATE SET
			occurrence_count  = excluded.occurrence_count,
			average_intensity = excluded.average_intensity,
			min_intensity     = excluded.min_intensity,
			max_intensity     = excluded.max_intensity,
			direction         = excluded.direction,
			computed_at       = excluded.computed_at`,
		trend.ID, trend.UserID, string(trend.Emotion), string(trend.PeriodType),
		trend.PeriodValue, trend.OccurrenceCount, trend.AverageIntensity,
		trend.MinIntensity, trend.MaxIntensity, string(trend.Direction),
		encodeTime(trend.ComputedAt),
	)
	if err != nil {
		return apperr.Repository(op, err)
	}

	return nil
}

func (r *trendRepository) GetByUserID(ctx context.Context, userID string) ([]models.Trend, error) {
	const op = "repository.TrendRepository.GetByUserID"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, user_id, emotion, period_type, period_value, occurrence_count,
		       average_intensity, min_intensity, max_intensity, direction, computed_at
		FROM trends
		WHERE user_id = ?
		ORDER BY period_type ASC, period_value ASC, emotion ASC`,
		userID,
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var trends []models.Trend
	for rows.Next() {
		var t models.Trend
		var emotion, periodType, direction, computedAt string

		if err := rows.Scan(&t.ID, &t.UserID, &emotion, &periodType, &t.PeriodValue,
			&t.OccurrenceCount, &t.AverageIntensity, &t.MinIntensity, &t.MaxIntensity,
			&direction, &computedAt); err != nil {
			return nil, apperr.Repository(op, err)
		}

		t.Emotion = models.EmotionType(emotion)
		t.PeriodType = models.PeriodType(periodType)
		t.Direction = models.TrendDirection(direction)
		if t.ComputedAt, err = decodeTime(computedAt); err != nil {
			return nil, apperr.Repository(op, err)
		}

		trends = append(trends, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return trends, nil
}
