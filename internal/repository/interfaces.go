package repository

import (
	"context"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

// CheckinRepository defines data access for emotional check-ins.
type CheckinRepository interface {
	Create(ctx context.Context, checkin *models.CheckIn) (*models.CheckIn, error)
	GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.CheckIn, error)
}

// ActivityRepository defines data access for user-activity events.
type ActivityRepository interface {
	Create(ctx context.Context, event *models.ActivityEvent) (*models.ActivityEvent, error)
	GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityEvent, error)
}

// ToolRepository defines data access for the tool catalog and favorites.
type ToolRepository interface {
	Create(ctx context.Context, tool *models.Tool) (*models.Tool, error)
	GetByID(ctx context.Context, id string) (*models.Tool, error)
	// GetActive returns active tools in stable catalog order.
	GetActive(ctx context.Context) ([]models.Tool, error)
	SetFavorite(ctx context.Context, userID, toolID string, favorite bool) error
	GetFavoriteToolIDs(ctx context.Context, userID string) (map[string]bool, error)
}

// ToolUsageRepository defines data access for tool-usage sessions.
type ToolUsageRepository interface {
	Create(ctx context.Context, record *models.ToolUsageRecord) (*models.ToolUsageRecord, error)
	// GetByUserID returns all usage records for a user with pre/post
	// check-ins expanded when linked.
	GetByUserID(ctx context.Context, userID string) ([]models.ToolUsageRecord, error)
}

// TrendRepository defines persistence for derived trends. Trends are keyed
// on (user, emotion, period_type, period_value) and replaced per run.
type TrendRepository interface {
	Upsert(ctx context.Context, trend *models.Trend) error
	GetByUserID(ctx context.Context, userID string) ([]models.Trend, error)
}

// InsightRepository defines persistence for generated insights.
type InsightRepository interface {
	// ReplaceForUser atomically deletes a user's insights and writes the
	// new set; partial writes are never visible.
	ReplaceForUser(ctx context.Context, userID string, insights []models.Insight) error
	GetByUserID(ctx context.Context, userID string) ([]models.Insight, error)
}

// UsageStatsRepository defines persistence for per-user usage rollups.
type UsageStatsRepository interface {
	Upsert(ctx context.Context, stats *models.UsageStatistics) error
	GetByUserID(ctx context.Context, userID string) (*models.UsageStatistics, error)
}

// UserRepository defines the user reads the batch orchestrator needs.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetActiveUserIDs(ctx context.Context) ([]string, error)
}
