package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/repository"
)

const (
	// MinInsightCheckins gates insight generation entirely.
	MinInsightCheckins = 10

	// InsightConfidenceThreshold filters detected findings before they
	// are materialized as persisted insights.
	InsightConfidenceThreshold = 0.7
)

type insightGenerator struct {
	checkinRepo  repository.CheckinRepository
	activityRepo repository.ActivityRepository
	insightRepo  repository.InsightRepository
	detector     *PatternDetector
}

// NewInsightGenerator creates the insight generation service.
func NewInsightGenerator(
	checkinRepo repository.CheckinRepository,
	activityRepo repository.ActivityRepository,
	insightRepo repository.InsightRepository,
) InsightGenerator {
	return &insightGenerator{
		checkinRepo:  checkinRepo,
		activityRepo: activityRepo,
		insightRepo:  insightRepo,
		detector:     NewPatternDetector(),
	}
}

// GenerateInsights runs pattern detection over the window, keeps findings
// with confidence at or above the threshold, and persists the resulting
// insight set atomically. Fewer than MinInsightCheckins check-ins yields
// an empty result without touching storage.
func (s *insightGenerator) GenerateInsights(ctx context.Context, userID string, start, end time.Time) ([]models.Insight, error) {
	checkins, err := s.checkinRepo.GetByUserIDAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get check-ins: %w", err)
	}
	if len(checkins) < MinInsightCheckins {
		return nil, nil
	}

	activities, err := s.activityRepo.GetByUserIDAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}

	report := s.detector.Detect(userID, checkins, activities, start, end)
	insights := MaterializeInsights(report, time.Now())

	// All-or-nothing: a persistence fault leaves the previous insight set
	// intact and propagates to the caller.
	if err := s.insightRepo.ReplaceForUser(ctx, userID, insights); err != nil {
		return nil, fmt.Errorf("failed to store insights: %w", err)
	}

	return insights, nil
}

// MaterializeInsights converts confident findings from a pattern report
// into Insight records. Correlations on negative emotions become triggers;
// positive ones stay correlations.
func MaterializeInsights(report *models.PatternReport, now time.Time) []models.Insight {
	insights := make([]models.Insight, 0)

	for _, p := range report.Patterns {
		if p.Confidence < InsightConfidenceThreshold {
			continue
		}
		insight := models.Insight{
			ID:          uuid.New().String(),
			UserID:      report.UserID,
			Type:        models.InsightTypePattern,
			Description: p.Description,
			Confidence:  p.Confidence,
			GeneratedAt: now,
		}
		if p.Emotion != "" {
			insight.RelatedEmotions = []models.EmotionType{p.Emotion}
		}
		insights = append(insights, insight)
	}

	for _, c := range report.Correlations {
		if c.Strength < InsightConfidenceThreshold {
			continue
		}
		insightType := models.InsightTypeCorrelation
		if c.Emotion.Valence() == models.ValenceNegative {
			insightType = models.InsightTypeTrigger
		}
		insights = append(insights, models.Insight{
			ID:                 uuid.New().String(),
			UserID:             report.UserID,
			Type:               insightType,
			Description:        c.Description,
			RelatedEmotions:    []models.EmotionType{c.Emotion},
			Confidence:         c.Strength,
			RecommendedActions: c.RecommendedActions,
			GeneratedAt:        now,
		})
	}

	return insights
}
