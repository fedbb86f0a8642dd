package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

func TestGenerateInsightsTooFewCheckins(t *testing.T) {
	checkinRepo := &mockCheckinRepository{}
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < MinInsightCheckins-1; i++ {
		checkinRepo.checkins = append(checkinRepo.checkins, checkinAt(base.AddDate(0, 0, i), models.EmotionAnxiety, 8))
	}
	insightRepo := newMockInsightRepository()

	gen := NewInsightGenerator(checkinRepo, &mockActivityRepository{}, insightRepo)
	insights, err := gen.GenerateInsights(context.Background(), "user-1", base, base.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(insights) != 0 {
		t.Errorf("Expected no insights below minimum, got %d", len(insights))
	}
	if insightRepo.replaceCalls != 0 {
		t.Errorf("Expected storage untouched, got %d replace calls", insightRepo.replaceCalls)
	}
}

func TestGenerateInsightsPersistsConfidentFindings(t *testing.T) {
	checkinRepo := &mockCheckinRepository{}
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	// Ten morning anxiety check-ins: a fully concentrated bucket pattern.
	for i := 0; i < 10; i++ {
		checkinRepo.checkins = append(checkinRepo.checkins, checkinAt(base.AddDate(0, 0, i).Add(8*time.Hour), models.EmotionAnxiety, 8))
	}
	insightRepo := newMockInsightRepository()

	gen := NewInsightGenerator(checkinRepo, &mockActivityRepository{}, insightRepo)
	insights, err := gen.GenerateInsights(context.Background(), "user-1", base, base.AddDate(0, 0, 30))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(insights) == 0 {
		t.Fatal("Expected insights from a concentrated pattern")
	}
	for _, ins := range insights {
		if ins.Confidence < InsightConfidenceThreshold {
			t.Errorf("Expected all confidences >= %.2f, got %.2f", InsightConfidenceThreshold, ins.Confidence)
		}
		if ins.UserID != "user-1" {
			t.Errorf("Expected user-1, got %s", ins.UserID)
		}
	}
	if insightRepo.replaceCalls != 1 {
		t.Errorf("Expected 1 replace call, got %d", insightRepo.replaceCalls)
	}
	if stored := insightRepo.byUser["user-1"]; len(stored) != len(insights) {
		t.Errorf("Expected %d stored insights, got %d", len(insights), len(stored))
	}
}

func TestGenerateInsightsPersistenceFailure(t *testing.T) {
	checkinRepo := &mockCheckinRepository{}
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	for i := 0; i < MinInsightCheckins; i++ {
		checkinRepo.checkins = append(checkinRepo.checkins, checkinAt(base.AddDate(0, 0, i), models.EmotionCalm, 5))
	}
	insightRepo := newMockInsightRepository()
	insightRepo.err = errors.New("disk full")

	gen := NewInsightGenerator(checkinRepo, &mockActivityRepository{}, insightRepo)
	_, err := gen.GenerateInsights(context.Background(), "user-1", base, base.AddDate(0, 0, 30))
	if err == nil {
		t.Fatal("Expected persistence error to propagate")
	}
	if !errors.Is(err, insightRepo.err) {
		t.Errorf("Expected wrapped cause, got %v", err)
	}
}

func TestMaterializeInsightsFiltersByConfidence(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	report := &models.PatternReport{
		UserID: "user-1",
		Patterns: []models.DetectedPattern{
			{
				Type:        models.PatternTimeOfDay,
				Emotion:     models.EmotionAnxiety,
				Description: "anxious mornings",
				Confidence:  0.9,
			},
			{
				Type:        models.PatternDayOfWeek,
				Emotion:     models.EmotionSadness,
				Description: "weak signal",
				Confidence:  0.5,
			},
		},
		Correlations: []models.ActivityCorrelation{
			{
				Emotion:            models.EmotionAnxiety,
				Activity:           models.ActivityVoiceJournal,
				Strength:           0.8,
				Description:        "anxiety around journaling",
				RecommendedActions: []string{"ground first"},
			},
			{
				Emotion:     models.EmotionJoy,
				Activity:    models.ActivityAppOpen,
				Strength:    0.75,
				Description: "joy around opening the app",
			},
		},
	}

	insights := MaterializeInsights(report, now)
	if len(insights) != 3 {
		t.Fatalf("Expected 3 insights, got %d", len(insights))
	}

	if insights[0].Type != models.InsightTypePattern {
		t.Errorf("Expected pattern insight first, got %s", insights[0].Type)
	}
	if len(insights[0].RelatedEmotions) != 1 || insights[0].RelatedEmotions[0] != models.EmotionAnxiety {
		t.Errorf("Expected related emotion anxiety, got %v", insights[0].RelatedEmotions)
	}

	// Negative-valence correlation becomes a trigger.
	if insights[1].Type != models.InsightTypeTrigger {
		t.Errorf("Expected trigger for a negative emotion, got %s", insights[1].Type)
	}
	if len(insights[1].RecommendedActions) != 1 {
		t.Errorf("Expected actions carried over, got %v", insights[1].RecommendedActions)
	}

	// Positive-valence correlation stays a correlation.
	if insights[2].Type != models.InsightTypeCorrelation {
		t.Errorf("Expected correlation for a positive emotion, got %s", insights[2].Type)
	}

	for _, ins := range insights {
		if ins.ID == "" {
			t.Error("Expected generated insight IDs")
		}
		if !ins.GeneratedAt.Equal(now) {
			t.Errorf("Expected generated_at %v, got %v", now, ins.GeneratedAt)
		}
	}
}
