package service

import (
	"math"
	"testing"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

func checkinAt(at time.Time, emotion models.EmotionType, intensity int) models.CheckIn {
	return models.CheckIn{
		UserID:    "user-1",
		Emotion:   emotion,
		Intensity: intensity,
		Timestamp: at,
	}
}

func TestTimeOfDayBucket(t *testing.T) {
	tests := []struct {
		hour int
		want string
	}{
		{5, "morning"},
		{11, "morning"},
		{12, "afternoon"},
		{16, "afternoon"},
		{17, "evening"},
		{21, "evening"},
		{22, "night"},
		{23, "night"},
		{0, "night"},
		{4, "night"},
	}

	for _, tt := range tests {
		if got := timeOfDayBucket(tt.hour); got != tt.want {
			t.Errorf("Expected hour %d in %s, got %s", tt.hour, tt.want, got)
		}
	}
}

func TestDetectBucketPatternMorningAnxiety(t *testing.T) {
	base := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	var checkins []models.CheckIn
	// Six morning anxiety check-ins across six days.
	for i := 0; i < 6; i++ {
		checkins = append(checkins, checkinAt(base.AddDate(0, 0, i).Add(8*time.Hour), models.EmotionAnxiety, 7))
	}
	// Mixed afternoons and evenings that never dominate.
	checkins = append(checkins,
		checkinAt(base.Add(14*time.Hour), models.EmotionJoy, 5),
		checkinAt(base.AddDate(0, 0, 1).Add(14*time.Hour), models.EmotionSadness, 4),
		checkinAt(base.Add(19*time.Hour), models.EmotionCalm, 5),
		checkinAt(base.AddDate(0, 0, 1).Add(19*time.Hour), models.EmotionAnger, 6),
	)

	pattern := detectBucketPattern(checkins, models.PatternTimeOfDay)
	if pattern == nil {
		t.Fatal("Expected a time-of-day pattern, got none")
	}
	if pattern.Emotion != models.EmotionAnxiety {
		t.Errorf("Expected anxiety, got %s", pattern.Emotion)
	}
	if pattern.Bucket != "morning" {
		t.Errorf("Expected morning bucket, got %s", pattern.Bucket)
	}
	if pattern.Confidence < bucketMinConfidence {
		t.Errorf("Expected confidence >= %.2f, got %.2f", bucketMinConfidence, pattern.Confidence)
	}
	if pattern.SampleSize != 6 {
		t.Errorf("Expected sample size 6, got %d", pattern.SampleSize)
	}
}

func TestDetectBucketPatternBelowThresholds(t *testing.T) {
	base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	// Two anxiety mornings: 100% concentration but below the raw count gate.
	checkins := []models.CheckIn{
		checkinAt(base, models.EmotionAnxiety, 7),
		checkinAt(base.AddDate(0, 0, 1), models.EmotionAnxiety, 7),
		checkinAt(base.Add(6*time.Hour), models.EmotionJoy, 5),
		checkinAt(base.AddDate(0, 0, 1).Add(6*time.Hour), models.EmotionCalm, 5),
	}

	if p := detectBucketPattern(checkins, models.PatternTimeOfDay); p != nil {
		t.Errorf("Expected no pattern below count gate, got %+v", p)
	}
}

func TestDetectEmotionCycle(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// joy, calm alternating every 24 hours.
	var checkins []models.CheckIn
	emotions := []models.EmotionType{
		models.EmotionJoy, models.EmotionCalm,
		models.EmotionJoy, models.EmotionCalm,
		models.EmotionJoy, models.EmotionCalm,
		models.EmotionJoy, models.EmotionCalm,
	}
	for i, e := range emotions {
		checkins = append(checkins, checkinAt(base.Add(time.Duration(i)*24*time.Hour), e, 5))
	}

	pattern := detectEmotionCycle(checkins)
	if pattern == nil {
		t.Fatal("Expected an emotion cycle, got none")
	}
	if pattern.Type != models.PatternEmotionCycle {
		t.Errorf("Expected emotion_cycle type, got %s", pattern.Type)
	}
	// The window-4 subsequence joy>calm>joy>calm repeats at 3 of 5 slots
	// (0.6), beating the window-2 repeat at 4 of 7 slots (~0.571).
	wantConfidence := 3.0 / 5.0
	if math.Abs(pattern.Confidence-wantConfidence) > 1e-9 {
		t.Errorf("Expected confidence %.4f, got %.4f", wantConfidence, pattern.Confidence)
	}
	if pattern.SampleSize != 3 {
		t.Errorf("Expected 3 occurrences, got %d", pattern.SampleSize)
	}
	gap, ok := pattern.Metadata["avg_gap_hours"].(float64)
	if !ok || math.Abs(gap-48) > 1e-9 {
		t.Errorf("Expected average gap 48h, got %v", pattern.Metadata["avg_gap_hours"])
	}
}

func TestDetectEmotionCycleNoRepeats(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	emotions := []models.EmotionType{
		models.EmotionJoy, models.EmotionCalm, models.EmotionAnxiety,
		models.EmotionSadness, models.EmotionAnger, models.EmotionFear,
		models.EmotionGratitude,
	}
	var checkins []models.CheckIn
	for i, e := range emotions {
		checkins = append(checkins, checkinAt(base.Add(time.Duration(i)*24*time.Hour), e, 5))
	}

	if p := detectEmotionCycle(checkins); p != nil {
		t.Errorf("Expected no cycle in a non-repeating sequence, got %+v", p)
	}
}

func TestDetectIntensityPatternRegression(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var checkins []models.CheckIn
	for i := 0; i < 10; i++ {
		checkins = append(checkins, checkinAt(base.AddDate(0, 0, i), models.EmotionAnxiety, i+1))
	}

	pattern := detectIntensityPattern(checkins)
	if pattern == nil {
		t.Fatal("Expected an intensity pattern, got none")
	}
	if pattern.Type != models.PatternIntensity {
		t.Errorf("Expected intensity type, got %s", pattern.Type)
	}
	// Perfect correlation: confidence is |r| = 1.
	if math.Abs(pattern.Confidence-1.0) > 1e-9 {
		t.Errorf("Expected confidence 1.0, got %.4f", pattern.Confidence)
	}
	slope, ok := pattern.Metadata["slope"].(float64)
	if !ok || slope <= 0 {
		t.Errorf("Expected positive slope, got %v", pattern.Metadata["slope"])
	}
}

func TestDetectIntensityPatternMeanFallback(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	// Alternating intensities carry no time correlation, but the mean is
	// extreme, so the fallback detector fires.
	var checkins []models.CheckIn
	for i := 0; i < 8; i++ {
		intensity := 9
		if i%2 == 1 {
			intensity = 8
		}
		checkins = append(checkins, checkinAt(base.AddDate(0, 0, i), models.EmotionOverwhelm, intensity))
	}

	pattern := detectIntensityPattern(checkins)
	if pattern == nil {
		t.Fatal("Expected a mean-intensity pattern, got none")
	}
	if pattern.Emotion != models.EmotionOverwhelm {
		t.Errorf("Expected overwhelm, got %s", pattern.Emotion)
	}
	if level := pattern.Metadata["level"]; level != "high" {
		t.Errorf("Expected high level, got %v", level)
	}
	if math.Abs(pattern.Confidence-1.0) > 1e-9 {
		t.Errorf("Expected confidence 1.0 (all samples), got %.4f", pattern.Confidence)
	}
}

func TestDetectSkipsSmallWindows(t *testing.T) {
	base := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	var checkins []models.CheckIn
	for i := 0; i < MinPatternPoints-1; i++ {
		checkins = append(checkins, checkinAt(base.AddDate(0, 0, i), models.EmotionAnxiety, 8))
	}

	report := NewPatternDetector().Detect("user-1", checkins, nil, base, base.AddDate(0, 0, 30))
	if len(report.Patterns) != 0 {
		t.Errorf("Expected no patterns below the minimum, got %d", len(report.Patterns))
	}
	if len(report.Correlations) != 0 {
		t.Errorf("Expected no correlations without activities, got %d", len(report.Correlations))
	}
	if report.CheckinCount != MinPatternPoints-1 {
		t.Errorf("Expected check-in count %d, got %d", MinPatternPoints-1, report.CheckinCount)
	}
}
