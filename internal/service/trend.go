package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/repository"
)

const (
	// MinTrendPoints is the minimum sample count for a defined trend.
	MinTrendPoints = 5

	// weakFitR2 is the r² below which the regression fit is ignored and
	// the series is classified by variance instead.
	weakFitR2 = 0.3

	// trendSlopeThreshold separates increasing/decreasing from stable
	// (intensity points per day).
	trendSlopeThreshold = 0.1

	// fluctuationVariance is the intensity variance above which a weakly
	// correlated series counts as fluctuating.
	fluctuationVariance = 2.0
)

// intensityPoint is one (timestamp, intensity) sample of a single emotion.
type intensityPoint struct {
	At        time.Time
	Intensity int
}

// classifyTrend classifies an ordered intensity series. It returns
// TrendUndefined when fewer than MinTrendPoints samples exist or the
// samples do not span at least two distinct timestamps.
func classifyTrend(points []intensityPoint) models.TrendDirection {
	if len(points) < MinTrendPoints {
		return models.TrendUndefined
	}

	first := points[0].At
	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	for i, p := range points {
		xs[i] = p.At.Sub(first).Hours() / 24
		ys[i] = float64(p.Intensity)
	}

	fit, ok := linearRegression(xs, ys)
	if !ok {
		return models.TrendUndefined
	}

	if fit.R2 < weakFitR2 {
		if variance(ys) > fluctuationVariance {
			return models.TrendFluctuating
		}
		return models.TrendStable
	}

	switch {
	case fit.Slope > trendSlopeThreshold:
		return models.TrendIncreasing
	case fit.Slope < -trendSlopeThreshold:
		return models.TrendDecreasing
	default:
		return models.TrendStable
	}
}

// formatPeriodValue renders the bucket label a trend record belongs to.
func formatPeriodValue(period models.PeriodType, at time.Time) string {
	switch period {
	case models.PeriodDay:
		return at.Format("2006-01-02")
	case models.PeriodWeek:
		year, week := at.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week)
	case models.PeriodMonth:
		return at.Format("2006-01")
	default:
		return ""
	}
}

type trendAnalyzer struct {
	checkinRepo repository.CheckinRepository
}

// NewTrendAnalyzer creates the trend analysis service.
func NewTrendAnalyzer(checkinRepo repository.CheckinRepository) TrendAnalyzer {
	return &trendAnalyzer{checkinRepo: checkinRepo}
}

// AnalyzeTrends computes one Trend per emotion that has enough data in the
// window. Emotions with an undefined trend emit no record.
func (s *trendAnalyzer) AnalyzeTrends(ctx context.Context, userID string, period models.PeriodType, start, end time.Time) ([]models.Trend, error) {
	const op = "service.AnalyzeTrends"

	if !period.IsValid() {
		return nil, apperr.Validationf(op, "unsupported period type %q", period)
	}

	checkins, err := s.checkinRepo.GetByUserIDAndDateRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to get check-ins: %w", err)
	}

	return BuildTrends(userID, period, checkins, end), nil
}

// BuildTrends is the pure core of trend analysis: it groups check-ins by
// emotion and classifies each series. computedAt stamps the records and
// anchors the period bucket label.
func BuildTrends(userID string, period models.PeriodType, checkins []models.CheckIn, computedAt time.Time) []models.Trend {
	byEmotion := make(map[models.EmotionType][]intensityPoint)
	for _, c := range checkins {
		byEmotion[c.Emotion] = append(byEmotion[c.Emotion], intensityPoint{At: c.Timestamp, Intensity: c.Intensity})
	}

	periodValue := formatPeriodValue(period, computedAt)

	trends := make([]models.Trend, 0, len(byEmotion))
	for _, emotion := range models.AllEmotions {
		points, ok := byEmotion[emotion]
		if !ok {
			continue
		}
		sort.Slice(points, func(i, j int) bool { return points[i].At.Before(points[j].At) })

		direction := classifyTrend(points)
		if direction == models.TrendUndefined {
			continue
		}

		sum := 0
		minI := points[0].Intensity
		maxI := points[0].Intensity
		for _, p := range points {
			sum += p.Intensity
			if p.Intensity < minI {
				minI = p.Intensity
			}
			if p.Intensity > maxI {
				maxI = p.Intensity
			}
		}

		trends = append(trends, models.Trend{
			UserID:           userID,
			Emotion:          emotion,
			PeriodType:       period,
			PeriodValue:      periodValue,
			OccurrenceCount:  len(points),
			AverageIntensity: float64(sum) / float64(len(points)),
			MinIntensity:     minI,
			MaxIntensity:     maxI,
			Direction:        direction,
			ComputedAt:       computedAt,
		})
	}

	return trends
}
