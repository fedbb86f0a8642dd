package service

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

const (
	// MinPatternPoints is the minimum check-in count before any pattern
	// detection runs.
	MinPatternPoints = 7

	// Bucket patterns require this share of the bucket's check-ins and
	// at least bucketMinCount raw samples.
	bucketMinConfidence = 0.6
	bucketMinCount      = 3

	// Emotion cycles are searched at these subsequence lengths.
	cycleMinLen = 2
	cycleMaxLen = 5

	// Intensity regression significance gates.
	intensityPValueMax = 0.05
	intensityMinAbsR   = 0.3

	// Per-emotion mean intensity flags.
	highIntensityMean   = 7.5
	lowIntensityMean    = 3.5
	intensityMinSamples = 3
)

// PatternDetector finds behavioral and emotional patterns in a user's
// check-ins. All methods are pure functions over in-memory collections.
type PatternDetector struct{}

// NewPatternDetector creates a pattern detector.
func NewPatternDetector() *PatternDetector {
	return &PatternDetector{}
}

// Detect runs every sub-detector over the window's check-ins and activity
// events. It returns an empty report (not an error) when the data volume
// is below the minimum thresholds.
func (d *PatternDetector) Detect(userID string, checkins []models.CheckIn, activities []models.ActivityEvent, start, end time.Time) *models.PatternReport {
	report := &models.PatternReport{
		UserID:       userID,
		WindowStart:  start,
		WindowEnd:    end,
		CheckinCount: len(checkins),
	}

	ordered := make([]models.CheckIn, len(checkins))
	copy(ordered, checkins)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].Timestamp.Before(ordered[j].Timestamp) })

	if len(ordered) >= MinPatternPoints {
		if p := detectBucketPattern(ordered, models.PatternTimeOfDay); p != nil {
			report.Patterns = append(report.Patterns, *p)
		}
		if p := detectBucketPattern(ordered, models.PatternDayOfWeek); p != nil {
			report.Patterns = append(report.Patterns, *p)
		}
		if p := detectEmotionCycle(ordered); p != nil {
			report.Patterns = append(report.Patterns, *p)
		}
		if p := detectIntensityPattern(ordered); p != nil {
			report.Patterns = append(report.Patterns, *p)
		}
	}

	report.Correlations = detectActivityCorrelations(ordered, activities)

	return report
}

// timeOfDayBucket maps an hour to its fixed bucket label. The night bucket
// wraps midnight (22:00-04:59).
func timeOfDayBucket(hour int) string {
	switch {
	case hour >= 5 && hour <= 11:
		return "morning"
	case hour >= 12 && hour <= 16:
		return "afternoon"
	case hour >= 17 && hour <= 21:
		return "evening"
	default:
		return "night"
	}
}

var timeOfDayBuckets = []string{"morning", "afternoon", "evening", "night"}

var dayOfWeekBuckets = []string{
	"Sunday", "Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday",
}

// detectBucketPattern finds the bucket whose dominant emotion is most
// concentrated. One pattern at most is reported per bucket kind: the
// qualifying bucket with the highest confidence.
func detectBucketPattern(checkins []models.CheckIn, kind models.PatternType) *models.DetectedPattern {
	var bucketOf func(t time.Time) string
	var buckets []string
	switch kind {
	case models.PatternTimeOfDay:
		bucketOf = func(t time.Time) string { return timeOfDayBucket(t.Hour()) }
		buckets = timeOfDayBuckets
	case models.PatternDayOfWeek:
		bucketOf = func(t time.Time) string { return t.Weekday().String() }
		buckets = dayOfWeekBuckets
	default:
		return nil
	}

	// bucket -> emotion -> count
	counts := make(map[string]map[models.EmotionType]int)
	totals := make(map[string]int)
	for _, c := range checkins {
		b := bucketOf(c.Timestamp)
		if counts[b] == nil {
			counts[b] = make(map[models.EmotionType]int)
		}
		counts[b][c.Emotion]++
		totals[b]++
	}

	var best *models.DetectedPattern
	for _, b := range buckets {
		total := totals[b]
		if total == 0 {
			continue
		}

		modeEmotion, modeCount := bucketMode(counts[b])
		confidence := float64(modeCount) / float64(total)
		if confidence < bucketMinConfidence || modeCount < bucketMinCount {
			continue
		}

		if best == nil || confidence > best.Confidence {
			best = &models.DetectedPattern{
				Type:        kind,
				Emotion:     modeEmotion,
				Bucket:      b,
				Confidence:  confidence,
				SampleSize:  total,
				Description: describeBucketPattern(kind, b, modeEmotion, confidence),
				Metadata: map[string]any{
					"bucket":       b,
					"mode_count":   modeCount,
					"bucket_total": total,
				},
			}
		}
	}

	return best
}

// bucketMode returns the most frequent emotion in a bucket. Ties resolve
// by the fixed AllEmotions order so results are deterministic.
func bucketMode(counts map[models.EmotionType]int) (models.EmotionType, int) {
	var mode models.EmotionType
	max := 0
	for _, e := range models.AllEmotions {
		if c := counts[e]; c > max {
			mode = e
			max = c
		}
	}
	return mode, max
}

func describeBucketPattern(kind models.PatternType, bucket string, emotion models.EmotionType, confidence float64) string {
	if kind == models.PatternTimeOfDay {
		return fmt.Sprintf("You most often feel %s in the %s (%.0f%% of %s check-ins)",
			emotion, bucket, confidence*100, bucket)
	}
	return fmt.Sprintf("You most often feel %s on %ss (%.0f%% of %s check-ins)",
		emotion, bucket, confidence*100, bucket)
}

// detectEmotionCycle slides windows of length 2..5 over the chronological
// emotion sequence looking for exact repeats. The single highest-confidence
// cycle is reported; identical subsequences are deduplicated by key.
func detectEmotionCycle(checkins []models.CheckIn) *models.DetectedPattern {
	n := len(checkins)
	emotions := make([]models.EmotionType, n)
	for i, c := range checkins {
		emotions[i] = c.Emotion
	}

	var best *models.DetectedPattern
	for window := cycleMinLen; window <= cycleMaxLen; window++ {
		slots := n - window + 1
		if slots < 2 {
			break
		}

		// subsequence key -> start indices of each occurrence
		occurrences := make(map[string][]int)
		order := make([]string, 0)
		for i := 0; i < slots; i++ {
			key := cycleKey(emotions[i : i+window])
			if _, seen := occurrences[key]; !seen {
				order = append(order, key)
			}
			occurrences[key] = append(occurrences[key], i)
		}

		for _, key := range order {
			starts := occurrences[key]
			if len(starts) < 2 {
				continue
			}
			confidence := float64(len(starts)) / float64(slots)
			if best != nil && confidence <= best.Confidence {
				continue
			}

			gap := averageGap(checkins, starts)
			seq := strings.Split(key, ">")
			best = &models.DetectedPattern{
				Type:        models.PatternEmotionCycle,
				Emotion:     models.EmotionType(seq[0]),
				Confidence:  confidence,
				SampleSize:  len(starts),
				Description: describeCycle(seq, len(starts), gap),
				Metadata: map[string]any{
					"sequence":      seq,
					"window":        window,
					"occurrences":   len(starts),
					"avg_gap_hours": gap.Hours(),
				},
			}
		}
	}

	return best
}

func cycleKey(seq []models.EmotionType) string {
	parts := make([]string, len(seq))
	for i, e := range seq {
		parts[i] = string(e)
	}
	return strings.Join(parts, ">")
}

// averageGap is the mean time between the starts of consecutive repeats.
func averageGap(checkins []models.CheckIn, starts []int) time.Duration {
	if len(starts) < 2 {
		return 0
	}
	var total time.Duration
	for i := 1; i < len(starts); i++ {
		total += checkins[starts[i]].Timestamp.Sub(checkins[starts[i-1]].Timestamp)
	}
	return total / time.Duration(len(starts)-1)
}

func describeCycle(seq []string, occurrences int, gap time.Duration) string {
	cycle := strings.Join(seq, " → ")
	if gap >= 24*time.Hour {
		return fmt.Sprintf("Your emotions cycle through %s, repeating %d times about every %.1f days",
			cycle, occurrences, gap.Hours()/24)
	}
	return fmt.Sprintf("Your emotions cycle through %s, repeating %d times about every %.1f hours",
		cycle, occurrences, gap.Hours())
}

// detectIntensityPattern first tries a regression of intensity on elapsed
// days; when the fit is significant it reports a global rising/falling
// intensity pattern. Otherwise it falls back to flagging the emotion with
// the most samples whose mean intensity is extreme.
func detectIntensityPattern(checkins []models.CheckIn) *models.DetectedPattern {
	first := checkins[0].Timestamp
	xs := make([]float64, len(checkins))
	ys := make([]float64, len(checkins))
	for i, c := range checkins {
		xs[i] = c.Timestamp.Sub(first).Hours() / 24
		ys[i] = float64(c.Intensity)
	}

	if fit, ok := linearRegression(xs, ys); ok {
		p := twoSidedPValue(fit.R, fit.N)
		if p < intensityPValueMax && math.Abs(fit.R) >= intensityMinAbsR {
			direction := "rising"
			if fit.Slope < 0 {
				direction = "falling"
			}
			return &models.DetectedPattern{
				Type:       models.PatternIntensity,
				Confidence: math.Abs(fit.R),
				SampleSize: fit.N,
				Description: fmt.Sprintf("Your overall emotional intensity is %s over time (%.2f points/day)",
					direction, fit.Slope),
				Metadata: map[string]any{
					"slope":   fit.Slope,
					"r":       fit.R,
					"p_value": p,
				},
			}
		}
	}

	return detectExtremeMeanIntensity(checkins)
}

// detectExtremeMeanIntensity flags per-emotion means at or beyond the
// high/low thresholds, reporting the emotion with the most samples.
func detectExtremeMeanIntensity(checkins []models.CheckIn) *models.DetectedPattern {
	sums := make(map[models.EmotionType]int)
	counts := make(map[models.EmotionType]int)
	for _, c := range checkins {
		sums[c.Emotion] += c.Intensity
		counts[c.Emotion]++
	}

	var best *models.DetectedPattern
	bestCount := 0
	for _, emotion := range models.AllEmotions {
		count := counts[emotion]
		if count < intensityMinSamples {
			continue
		}
		m := float64(sums[emotion]) / float64(count)

		var level string
		switch {
		case m >= highIntensityMean:
			level = "high"
		case m <= lowIntensityMean:
			level = "low"
		default:
			continue
		}

		if count <= bestCount {
			continue
		}
		bestCount = count
		best = &models.DetectedPattern{
			Type:       models.PatternIntensity,
			Emotion:    emotion,
			Confidence: float64(count) / float64(len(checkins)),
			SampleSize: count,
			Description: fmt.Sprintf("Your %s runs at consistently %s intensity (average %.1f of 10)",
				emotion, level, m),
			Metadata: map[string]any{
				"mean_intensity": m,
				"level":          level,
			},
		}
	}

	return best
}
