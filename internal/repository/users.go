package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/store"
)

type userRepository struct {
	db *store.DB
}

// NewUserRepository creates a SQLite-backed user repository.
func NewUserRepository(db *store.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	const op = "repository.UserRepository.Create"

	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	user.CreatedAt = time.Now()

	_, err := r.db.Conn().ExecContext(ctx, `
		INSERT INTO users (id, email, is_active, created_at)
		VALUES (?, ?, ?, ?)`,
		user.ID, user.Email, user.IsActive, encodeTime(user.CreatedAt),
	)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}

	return user, nil
}

// GetActiveUserIDs returns active user ids in creation order, so batch runs
// process users in a stable sequence.
func (r *userRepository) GetActiveUserIDs(ctx context.Context) ([]string, error) {
	const op = "repository.UserRepository.GetActiveUserIDs"

	rows, err := r.db.Conn().QueryContext(ctx, `
		SELECT id FROM users WHERE is_active = 1 ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, apperr.Repository(op, err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, apperr.Repository(op, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Repository(op, err)
	}

	return ids, nil
}
