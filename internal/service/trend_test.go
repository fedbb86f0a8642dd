package service

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
)

func day(n int) time.Time {
	return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func points(intensities ...int) []intensityPoint {
	pts := make([]intensityPoint, len(intensities))
	for i, v := range intensities {
		pts[i] = intensityPoint{At: day(i), Intensity: v}
	}
	return pts
}

func TestClassifyTrend(t *testing.T) {
	tests := []struct {
		name   string
		points []intensityPoint
		want   models.TrendDirection
	}{
		{
			name:   "increasing intensity",
			points: points(2, 4, 6, 8, 10),
			want:   models.TrendIncreasing,
		},
		{
			name:   "decreasing intensity",
			points: points(10, 8, 6, 4, 2),
			want:   models.TrendDecreasing,
		},
		{
			name:   "constant intensity",
			points: points(5, 5, 5, 5, 5),
			want:   models.TrendStable,
		},
		{
			name:   "high variance without direction",
			points: points(2, 9, 2, 9, 2, 9),
			want:   models.TrendFluctuating,
		},
		{
			name:   "too few points",
			points: points(2, 4, 6, 8),
			want:   models.TrendUndefined,
		},
		{
			name:   "no points",
			points: nil,
			want:   models.TrendUndefined,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyTrend(tt.points); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestClassifyTrendIdenticalTimestamps(t *testing.T) {
	at := day(0)
	pts := make([]intensityPoint, 5)
	for i := range pts {
		pts[i] = intensityPoint{At: at, Intensity: i + 3}
	}

	if got := classifyTrend(pts); got != models.TrendUndefined {
		t.Errorf("Expected undefined for zero time variance, got %s", got)
	}
}

func TestBuildTrends(t *testing.T) {
	var checkins []models.CheckIn
	for i, intensity := range []int{3, 4, 5, 6, 7, 8} {
		checkins = append(checkins, models.CheckIn{
			UserID:    "user-1",
			Emotion:   models.EmotionAnxiety,
			Intensity: intensity,
			Timestamp: day(i),
		})
	}
	// Too few samples for a defined trend.
	checkins = append(checkins, models.CheckIn{
		UserID:    "user-1",
		Emotion:   models.EmotionJoy,
		Intensity: 7,
		Timestamp: day(2),
	})

	computedAt := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	trends := BuildTrends("user-1", models.PeriodMonth, checkins, computedAt)

	if len(trends) != 1 {
		t.Fatalf("Expected 1 trend, got %d", len(trends))
	}

	trend := trends[0]
	if trend.Emotion != models.EmotionAnxiety {
		t.Errorf("Expected emotion anxiety, got %s", trend.Emotion)
	}
	if trend.Direction != models.TrendIncreasing {
		t.Errorf("Expected increasing direction, got %s", trend.Direction)
	}
	if trend.OccurrenceCount != 6 {
		t.Errorf("Expected occurrence count 6, got %d", trend.OccurrenceCount)
	}
	if math.Abs(trend.AverageIntensity-5.5) > 1e-9 {
		t.Errorf("Expected average intensity 5.5, got %f", trend.AverageIntensity)
	}
	if trend.MinIntensity != 3 || trend.MaxIntensity != 8 {
		t.Errorf("Expected min/max 3/8, got %d/%d", trend.MinIntensity, trend.MaxIntensity)
	}
	if trend.PeriodValue != "2026-03" {
		t.Errorf("Expected period value 2026-03, got %s", trend.PeriodValue)
	}
}

func TestBuildTrendsUnorderedInput(t *testing.T) {
	// Same series as increasing, delivered out of order.
	intensities := []int{10, 2, 6, 8, 4}
	days := []int{4, 0, 2, 3, 1}
	var checkins []models.CheckIn
	for i := range intensities {
		checkins = append(checkins, models.CheckIn{
			UserID:    "user-1",
			Emotion:   models.EmotionCalm,
			Intensity: intensities[i],
			Timestamp: day(days[i]),
		})
	}

	trends := BuildTrends("user-1", models.PeriodWeek, checkins, day(4))
	if len(trends) != 1 {
		t.Fatalf("Expected 1 trend, got %d", len(trends))
	}
	if trends[0].Direction != models.TrendIncreasing {
		t.Errorf("Expected increasing after chronological sort, got %s", trends[0].Direction)
	}
}

func TestFormatPeriodValue(t *testing.T) {
	at := time.Date(2026, 1, 7, 10, 0, 0, 0, time.UTC)

	if got := formatPeriodValue(models.PeriodDay, at); got != "2026-01-07" {
		t.Errorf("Expected 2026-01-07, got %s", got)
	}
	if got := formatPeriodValue(models.PeriodWeek, at); got != "2026-W02" {
		t.Errorf("Expected 2026-W02, got %s", got)
	}
	if got := formatPeriodValue(models.PeriodMonth, at); got != "2026-01" {
		t.Errorf("Expected 2026-01, got %s", got)
	}
}

func TestAnalyzeTrendsInvalidPeriod(t *testing.T) {
	analyzer := NewTrendAnalyzer(&mockCheckinRepository{})

	_, err := analyzer.AnalyzeTrends(context.Background(), "user-1", models.PeriodType("hour"), day(0), day(30))
	if err == nil {
		t.Fatal("Expected error for invalid period type")
	}
	if !apperr.IsValidation(err) {
		t.Errorf("Expected validation error, got %v", err)
	}
}

func TestAnalyzeTrendsEmptyWindow(t *testing.T) {
	analyzer := NewTrendAnalyzer(&mockCheckinRepository{})

	trends, err := analyzer.AnalyzeTrends(context.Background(), "user-1", models.PeriodMonth, day(0), day(30))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(trends) != 0 {
		t.Errorf("Expected no trends for empty window, got %d", len(trends))
	}
}
