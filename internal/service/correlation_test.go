package service

import (
	"math"
	"testing"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

func activityAt(at time.Time, kind models.ActivityType) models.ActivityEvent {
	return models.ActivityEvent{
		UserID:    "user-1",
		Type:      kind,
		Timestamp: at,
	}
}

// Four anxiety check-ins each paired with a voice journal and four joy
// check-ins each paired with an app open, pairs spaced a day apart so
// alignment never crosses pairs. Each pairing then occurs twice its
// independence expectation: lift 2.0, strength 0.5.
func liftFixture() ([]models.CheckIn, []models.ActivityEvent) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var checkins []models.CheckIn
	var activities []models.ActivityEvent
	for i := 0; i < 4; i++ {
		at := base.AddDate(0, 0, i)
		checkins = append(checkins, checkinAt(at, models.EmotionAnxiety, 7))
		activities = append(activities, activityAt(at.Add(time.Hour), models.ActivityVoiceJournal))
	}
	for i := 0; i < 4; i++ {
		at := base.AddDate(0, 0, 10+i)
		checkins = append(checkins, checkinAt(at, models.EmotionJoy, 6))
		activities = append(activities, activityAt(at.Add(time.Hour), models.ActivityAppOpen))
	}
	return checkins, activities
}

func TestDetectActivityCorrelations(t *testing.T) {
	checkins, activities := liftFixture()

	correlations := detectActivityCorrelations(checkins, activities)
	if len(correlations) != 2 {
		t.Fatalf("Expected 2 correlations, got %d", len(correlations))
	}

	// Results follow the fixed emotion order: joy before anxiety.
	joy := correlations[0]
	if joy.Emotion != models.EmotionJoy || joy.Activity != models.ActivityAppOpen {
		t.Errorf("Expected joy/app_open first, got %s/%s", joy.Emotion, joy.Activity)
	}
	if math.Abs(joy.Lift-2.0) > 1e-9 {
		t.Errorf("Expected lift 2.0, got %.4f", joy.Lift)
	}
	if math.Abs(joy.Strength-0.5) > 1e-9 {
		t.Errorf("Expected strength 0.5, got %.4f", joy.Strength)
	}
	// Positive emotion at action-band strength: one reinforcement action.
	if len(joy.RecommendedActions) != 1 {
		t.Errorf("Expected 1 action for a positive correlation, got %d", len(joy.RecommendedActions))
	}

	anxiety := correlations[1]
	if anxiety.Emotion != models.EmotionAnxiety || anxiety.Activity != models.ActivityVoiceJournal {
		t.Errorf("Expected anxiety/voice_journal, got %s/%s", anxiety.Emotion, anxiety.Activity)
	}
	if anxiety.SampleSize != 4 {
		t.Errorf("Expected 4 aligned pairs, got %d", anxiety.SampleSize)
	}
	// Negative emotion at action-band strength: preventive actions.
	if len(anxiety.RecommendedActions) != 2 {
		t.Errorf("Expected 2 actions for a negative correlation, got %d", len(anxiety.RecommendedActions))
	}
}

func TestDetectActivityCorrelationsTooFewPairs(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var checkins []models.CheckIn
	var activities []models.ActivityEvent
	for i := 0; i < 3; i++ {
		at := base.AddDate(0, 0, i)
		checkins = append(checkins, checkinAt(at, models.EmotionAnxiety, 7))
		activities = append(activities, activityAt(at.Add(time.Hour), models.ActivityVoiceJournal))
	}

	if got := detectActivityCorrelations(checkins, activities); got != nil {
		t.Errorf("Expected nil below the minimum pair count, got %v", got)
	}
}

func TestDetectActivityCorrelationsOutsideWindow(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var checkins []models.CheckIn
	var activities []models.ActivityEvent
	for i := 0; i < 8; i++ {
		at := base.AddDate(0, 0, i)
		checkins = append(checkins, checkinAt(at, models.EmotionAnxiety, 7))
		// Seven hours away: just outside the alignment window.
		activities = append(activities, activityAt(at.Add(7*time.Hour), models.ActivityVoiceJournal))
	}

	if got := detectActivityCorrelations(checkins, activities); got != nil {
		t.Errorf("Expected nil when nothing aligns, got %v", got)
	}
}
