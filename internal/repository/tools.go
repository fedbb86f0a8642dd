package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type toolRepository struct {
	db *store.DB
}

// NewToolRepository creates a SQLite-backed tool catalog repository.
func NewToolRepository(db *store.DB) ToolRepository {
	return &toolRepository{db: db}
}

func (r *toolRepository) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	const op = "repository.ToolRepository.Create"

	if tool.ID == "" {
		tool.ID = uuid.New().String()
	}
	now := time.Now()
	tool.CreatedAt = now
	tool.UpdatedAt = now

	targets, err := encodeEmotions(tool.TargetEmotions)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	_, err = r.db.Conn().ExecContext(ctx, `
		INSERT INTO tools
			(id, name, category, target_emotions, difficulty,
			 estimated_duration, is_premium, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tool.ID, tool.Name, string(tool.Category), targets, string(tool.Difficulty),
		tool.EstimatedDuration, tool.IsPremium, tool.IsActive,
		encodeTime(tool.CreatedAt), encodeTime(tool.UpdatedAt),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	return tool, nil
}

func (r *toolRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	const op = "repository.ToolRepository.GetByID"

	row := r.db.Conn().QueryRowContext(ctx, `
		SELECT id, name, category, target_emotions, difficulty,
		       estimated_duration, is_premium, is_active, created_at, updated_at
		FROM tools WHERE id = ?`, id)

	tool, err := scanTool(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(op, "tool not found")
	}
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	return tool, nil
}

// GetActive returns active tools ordered by creation time then id, so the
// recommendation engine's tie-breaking is deterministic.
func (r *toolRepository) GetActive(ctx context.Context) ([]models.Tool, error) {
	const op = "repository.ToolRepository.GetActive"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id, name, category, target_emotions, difficulty,
		       estimated_duration, is_premium, is_active, created_at, updated_at
		FROM tools
		WHERE is_active = 1
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var tools []models.Tool
	for rows.Next() {
		tool, err := scanTool(rows)
		if err != nil {
			return nil, apperr.Repository(op, err)
		}
		tools = append(tools, *tool)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return tools, nil
}

func (r *toolRepository) SetFavorite(ctx context.Context, userID, toolID string, favorite bool) error {
	const op = "repository.ToolRepository.SetFavorite"

	var err error
	if favorite {
		_, err = r.db.Conn().ExecContext(ctx, `
			INSERT OR IGNORE INTO tool_favorites (user_id, tool_id) VALUES (?, ?)`,
			userID, toolID)
	} else {
		_, err = r.db.Conn().ExecContext(ctx, `
			DELETE FROM tool_favorites WHERE user_id = ? AND tool_id = ?`,
			userID, toolID)
	}
	if err != nil {
		return apperr.Repository(op, err)
	}
	return nil
}

func (r *toolRepository) GetFavoriteToolIDs(ctx context.Context, userID string) (map[string]bool, error) {
	const op = "repository.ToolRepository.GetFavoriteToolIDs"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT tool_id FROM tool_favorites WHERE user_id = ?`, userID)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	favorites := make(map[string]bool)
	for rows.Next() {
		var toolID string
		if err := rows.Scan(&toolID); err != nil {
			return nil, apperr.Repository(op, err)
		}
		favorites[toolID] = true
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return favorites, nil
}

func scanTool(row rowScanner) (*models.Tool, error) {
	var t models.Tool
	var category, targets, difficulty, createdAt, updatedAt string

	if err := row.Scan(&t.ID, &t.Name, &category, &targets, &difficulty,
		&t.EstimatedDuration, &t.IsPremium, &t.IsActive, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	t.Category = models.ToolCategory(category)
	t.Difficulty = models.Difficulty(difficulty)

	var err error
	if t.TargetEmotions, err = decodeEmotions(targets); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = decodeTime(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = decodeTime(updatedAt); err != nil {
		return nil, err
	}

	return &t, nil
}
