package service

import (
	"context"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

// TrendAnalyzer classifies per-emotion intensity trends over a window and
// materializes Trend records for one period bucket.
type TrendAnalyzer interface {
	AnalyzeTrends(ctx context.Context, userID string, period models.PeriodType, start, end time.Time) ([]models.Trend, error)
}

// InsightGenerator runs the pattern detectors over a user's window, filters
// findings by confidence, and persists the surviving insights.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, userID string, start, end time.Time) ([]models.Insight, error)
}

// RecommendationEngine scores and ranks tool candidates for a user's
// current emotional state.
type RecommendationEngine interface {
	GetRecommendations(ctx context.Context, userID string, emotion models.EmotionType, intensity int, opts RecommendationOptions) ([]models.RecommendationResult, error)
}

// Orchestrator coordinates per-user and batch analysis runs.
type Orchestrator interface {
	AnalyzeUser(ctx context.Context, userID string) error
	RunScheduledAnalytics(ctx context.Context) (*models.BatchSummary, error)
}
