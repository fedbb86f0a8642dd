package service

import (
	"fmt"
	"math"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

const (
	// MinCorrelationPoints is the minimum number of aligned
	// (check-in, activity) pairs before lift analysis runs.
	MinCorrelationPoints = 7

	// alignmentWindow pairs a check-in with activity events this far
	// before or after it.
	alignmentWindow = 6 * time.Hour

	// liftThreshold marks a pair as significantly associated.
	liftThreshold = 1.5

	// Strength bands: associations below reportStrengthMin are dropped;
	// those at or above actionStrengthMin also carry coping actions.
	reportStrengthMin = 0.3
	actionStrengthMin = 0.5
)

type emotionActivityKey struct {
	emotion  models.EmotionType
	activity models.ActivityType
}

// detectActivityCorrelations aligns check-ins with activity events in a
// ±6 hour window, then scores each (emotion, activity) pair by lift over
// the co-occurrence expected under independence. Per emotion only the
// strongest qualifying association is kept.
func detectActivityCorrelations(checkins []models.CheckIn, activities []models.ActivityEvent) []models.ActivityCorrelation {
	pairCounts := make(map[emotionActivityKey]int)
	emotionCounts := make(map[models.EmotionType]int)
	activityCounts := make(map[models.ActivityType]int)
	total := 0

	for _, c := range checkins {
		for _, a := range activities {
			gap := a.Timestamp.Sub(c.Timestamp)
			if gap < -alignmentWindow || gap > alignmentWindow {
				continue
			}
			pairCounts[emotionActivityKey{c.Emotion, a.Type}]++
			emotionCounts[c.Emotion]++
			activityCounts[a.Type]++
			total++
		}
	}

	if total < MinCorrelationPoints {
		return nil
	}

	results := make([]models.ActivityCorrelation, 0)
	for _, emotion := range models.AllEmotions {
		if emotionCounts[emotion] == 0 {
			continue
		}

		var best *models.ActivityCorrelation
		for _, activity := range models.AllActivityTypes {
			observed := pairCounts[emotionActivityKey{emotion, activity}]
			if observed == 0 {
				continue
			}

			expected := float64(emotionCounts[emotion]) * float64(activityCounts[activity]) / float64(total)
			if expected == 0 {
				continue
			}
			lift := float64(observed) / expected
			if lift <= liftThreshold {
				continue
			}

			strength := math.Min(1.0, (lift-1)/2)
			if strength < reportStrengthMin {
				continue
			}

			if best == nil || strength > best.Strength {
				best = &models.ActivityCorrelation{
					Emotion:     emotion,
					Activity:    activity,
					Lift:        lift,
					Strength:    strength,
					SampleSize:  observed,
					Description: describeCorrelation(emotion, activity, lift),
				}
			}
		}

		if best != nil {
			if best.Strength >= actionStrengthMin {
				best.RecommendedActions = copingActions(best.Emotion, best.Activity)
			}
			results = append(results, *best)
		}
	}

	return results
}

func describeCorrelation(emotion models.EmotionType, activity models.ActivityType, lift float64) string {
	return fmt.Sprintf("%s shows up around %s %.1fx more often than chance would predict",
		emotion, activityLabel(activity), lift)
}

// copingActions produces directional suggestions: preventive steps before
// the associated activity for negative emotions, reinforcement for
// positive ones.
func copingActions(emotion models.EmotionType, activity models.ActivityType) []string {
	label := activityLabel(activity)
	if emotion.Valence() == models.ValenceNegative {
		return []string{
			fmt.Sprintf("Try a short grounding exercise before %s", label),
			fmt.Sprintf("Plan a buffer around %s when you expect %s", label, emotion),
		}
	}
	return []string{
		fmt.Sprintf("Keep making room for %s — it tends to come with %s", label, emotion),
	}
}

func activityLabel(activity models.ActivityType) string {
	switch activity {
	case models.ActivityAppOpen:
		return "opening the app"
	case models.ActivityVoiceJournal:
		return "voice journaling"
	case models.ActivityCheckIn:
		return "checking in"
	case models.ActivityToolUsage:
		return "using a tool"
	default:
		return string(activity)
	}
}
