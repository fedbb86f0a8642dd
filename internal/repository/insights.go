package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type insightRepository struct {
	db *store.DB
}

// NewInsightRepository creates a SQLite-backed insight repository.
func NewInsightRepository(db *store.DB) InsightRepository {
	return &insightRepository{db: db}
}

// ReplaceForUser swaps a user's insight set in one transaction, so readers
// never observe a partially written run.
func (r *insightRepository) ReplaceForUser(ctx context.Context, userID string, insights []models.Insight) error {
	const op = "repository.InsightRepository.ReplaceForUser"

	tx, err := r.db.Conn().BeginTx(ctx, nil)
	if err != nil {
		return apperr.Repository(op, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM insights WHERE user_id = ?", userID); err != nil {
		return apperr.Repository(op, err)
	}

	for i := range insights {
		if err := insertInsight(ctx, tx, &insights[i]); err != nil {
			return apperr.Repository(op, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Repository(op, err)
	}
	return nil
}

func insertInsight(ctx context.Context, tx *sql.Tx, insight *models.Insight) error {
	if insight.ID == "" {
		insight.ID = uuid.New().String()
	}

	emotions, err := encodeEmotions(insight.RelatedEmotions)
	if err != nil {
		return err
	}
	actions, err := encodeStrings(insight.RecommendedActions)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO insights
			(id, user_id, type, description, related_emotions,
			 confidence, recommended_actions, generated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		insight.ID, insight.UserID, string(insight.Type), insight.Description,
		emotions, insight.Confidence, actions, encodeTime(insight.GeneratedAt),
	)
	return err
}

func (r *insightRepository) GetByUserID(ctx context.Context, userID string) ([]models.Insight, error) {
	const op = "repository.InsightRepository.GetByUserID"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, user_id, type, description, related_emotions,
		       confidence, recommended_actions, generated_at
		FROM insights
		WHERE user_id = ?
		ORDER BY confidence DESC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var insights []models.Insight
	for rows.Next() {
		var ins models.Insight
		var insightType, generatedAt string
		var emotions, actions sql.NullString

		if err := rows.Scan(&ins.ID, &ins.UserID, &insightType, &ins.Description,
			&emotions, &ins.Confidence, &actions, &generatedAt); err != nil {
			return nil, apperr.Repository(op, err)
		}

		ins.Type = models.InsightType(insightType)
		if ins.RelatedEmotions, err = decodeEmotions(emotions.String); err != nil {
			return nil, apperr.Repository(op, err)
		}
		if ins.RecommendedActions, err = decodeStrings(actions.String); err != nil {
			return nil, apperr.Repository(op, err)
		}
		if ins.GeneratedAt, err = decodeTime(generatedAt); err != nil {
			return nil, apperr.Repository(op, err)
		}

		insights = append(insights, ins)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return insights, nil
}
