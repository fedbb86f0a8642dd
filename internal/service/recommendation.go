package service

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/attune-health/attune/backend/internal/apperr"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/repository"
)

// DefaultRecommendationLimit caps the ranked list when no limit is given.
const DefaultRecommendationLimit = 5

// RecommendationWeights combines the four component scores into the final
// relevance score. Passed explicitly so tests and callers never depend on
// mutable package state.
type RecommendationWeights struct {
	Targeting       float64
	Effectiveness   float64
	Personalization float64
	Diversity       float64
}

// DefaultRecommendationWeights returns the production weighting.
func DefaultRecommendationWeights() RecommendationWeights {
	return RecommendationWeights{
		Targeting:       0.4,
		Effectiveness:   0.3,
		Personalization: 0.2,
		Diversity:       0.1,
	}
}

// RecommendationOptions tunes a single recommendation request.
type RecommendationOptions struct {
	Limit          int
	IncludePremium bool
}

type recommendationEngine struct {
	toolRepo  repository.ToolRepository
	usageRepo repository.ToolUsageRepository
	weights   RecommendationWeights
}

// NewRecommendationEngine creates the recommendation service.
func NewRecommendationEngine(
	toolRepo repository.ToolRepository,
	usageRepo repository.ToolUsageRepository,
	weights RecommendationWeights,
) RecommendationEngine {
	return &recommendationEngine{
		toolRepo:  toolRepo,
		usageRepo: usageRepo,
		weights:   weights,
	}
}

// GetRecommendations scores every eligible catalog tool against the user's
// current emotional state and history, returning the top candidates in
// descending relevance order. Ties keep catalog order (stable sort), so
// identical inputs always produce identical output.
func (s *recommendationEngine) GetRecommendations(ctx context.Context, userID string, emotion models.EmotionType, intensity int, opts RecommendationOptions) ([]models.RecommendationResult, error) {
	const op = "service.GetRecommendations"

	if !emotion.IsValid() {
		return nil, apperr.Validationf(op, "unknown emotion type %q", emotion)
	}
	if intensity < 1 || intensity > 10 {
		return nil, apperr.Validationf(op, "intensity %d out of range [1,10]", intensity)
	}
	limit := opts.Limit
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	tools, err := s.toolRepo.GetActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get tools: %w", err)
	}

	usage, err := s.usageRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get usage history: %w", err)
	}

	favorites, err := s.toolRepo.GetFavoriteToolIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get favorites: %w", err)
	}

	history := buildUsageHistory(tools, usage, favorites)

	results := make([]models.RecommendationResult, 0, len(tools))
	for i := range tools {
		tool := &tools[i]
		if tool.IsPremium && !opts.IncludePremium {
			continue
		}
		results = append(results, scoreTool(tool, emotion, intensity, history, s.weights))
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})
	if len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// usageHistory is the per-user view the scorers need, pre-aggregated from
// raw usage records.
type usageHistory struct {
	usageByTool    map[string][]models.ToolUsageRecord
	categoryCounts map[models.ToolCategory]int
	favorites      map[string]bool
}

func buildUsageHistory(tools []models.Tool, usage []models.ToolUsageRecord, favorites map[string]bool) usageHistory {
	categoryByTool := make(map[string]models.ToolCategory, len(tools))
	for _, t := range tools {
		categoryByTool[t.ID] = t.Category
	}

	h := usageHistory{
		usageByTool:    make(map[string][]models.ToolUsageRecord),
		categoryCounts: make(map[models.ToolCategory]int),
		favorites:      favorites,
	}
	if h.favorites == nil {
		h.favorites = map[string]bool{}
	}
	for _, u := range usage {
		h.usageByTool[u.ToolID] = append(h.usageByTool[u.ToolID], u)
		if cat, ok := categoryByTool[u.ToolID]; ok {
			h.categoryCounts[cat]++
		}
	}
	return h
}

// scoreTool computes all four component scores and the weighted final
// relevance. Each component is clamped to [0,1] before weighting.
func scoreTool(tool *models.Tool, emotion models.EmotionType, intensity int, history usageHistory, weights RecommendationWeights) models.RecommendationResult {
	usages := history.usageByTool[tool.ID]

	targeting := targetingScore(tool, emotion, intensity)
	effectiveness := effectivenessScore(usages)
	personalization := personalizationScore(tool, usages, history)
	diversity := diversityScore(len(usages))

	relevance := weights.Targeting*targeting +
		weights.Effectiveness*effectiveness +
		weights.Personalization*personalization +
		weights.Diversity*diversity

	return models.RecommendationResult{
		ToolID:               tool.ID,
		RelevanceScore:       relevance,
		TargetingScore:       targeting,
		EffectivenessScore:   effectiveness,
		PersonalizationScore: personalization,
		DiversityScore:       diversity,
		IsFavorite:           history.favorites[tool.ID],
		Tool:                 tool,
	}
}

// targetingScore starts from whether the tool targets the current emotion
// and adjusts for difficulty/intensity compatibility.
func targetingScore(tool *models.Tool, emotion models.EmotionType, intensity int) float64 {
	base := 0.3
	if tool.Targets(emotion) {
		base = 1.0
	}
	return clamp01(base * difficultyMultiplier(tool.Difficulty, intensity))
}

// difficultyMultiplier encodes the fixed difficulty × intensity
// compatibility table: calm states suit beginner tools, high-intensity
// states suit advanced ones.
func difficultyMultiplier(difficulty models.Difficulty, intensity int) float64 {
	switch {
	case intensity <= 3:
		switch difficulty {
		case models.DifficultyBeginner:
			return 1.0
		case models.DifficultyIntermediate:
			return 0.8
		default:
			return 0.6
		}
	case intensity <= 7:
		switch difficulty {
		case models.DifficultyIntermediate:
			return 1.0
		default:
			return 0.8
		}
	default:
		switch difficulty {
		case models.DifficultyAdvanced:
			return 1.0
		case models.DifficultyIntermediate:
			return 0.9
		default:
			return 0.7
		}
	}
}

// effectivenessScore averages per-usage outcomes over sessions that have
// both a pre and a post check-in. A negative→positive valence flip scores
// 1.0, the reverse 0.0; otherwise the intensity change normalizes into
// [0,1]. Tools without usable history default to 0.5.
func effectivenessScore(usages []models.ToolUsageRecord) float64 {
	var sum float64
	count := 0
	for _, u := range usages {
		if u.PreCheckin == nil || u.PostCheckin == nil {
			continue
		}
		sum += usageOutcome(u.PreCheckin, u.PostCheckin)
		count++
	}
	if count == 0 {
		return 0.5
	}
	return clamp01(sum / float64(count))
}

func usageOutcome(pre, post *models.CheckIn) float64 {
	preVal := pre.Emotion.Valence()
	postVal := post.Emotion.Valence()
	switch {
	case preVal == models.ValenceNegative && postVal == models.ValencePositive:
		return 1.0
	case preVal == models.ValencePositive && postVal == models.ValenceNegative:
		return 0.0
	default:
		change := float64(post.Intensity - pre.Intensity)
		return clamp01((change + 9) / 18)
	}
}

// personalizationScore weights favorite status, usage volume, completion
// rate, and familiarity with the tool's category.
func personalizationScore(tool *models.Tool, usages []models.ToolUsageRecord, history usageHistory) float64 {
	favorite := 0.0
	if history.favorites[tool.ID] {
		favorite = 1.0
	}

	usageCount := math.Min(float64(len(usages))/10, 1.0)

	completionRate := 0.0
	if len(usages) > 0 {
		completed := 0
		for _, u := range usages {
			if u.Status == models.StatusCompleted {
				completed++
			}
		}
		completionRate = float64(completed) / float64(len(usages))
	}

	categoryUsage := math.Min(float64(history.categoryCounts[tool.Category])/20, 1.0)

	return clamp01(0.4*favorite + 0.2*usageCount + 0.2*completionRate + 0.2*categoryUsage)
}

// diversityScore decays with prior usage of the same tool so the list
// doesn't collapse onto one habit; unused tools score 1.0 and the decay
// floors at 0.1.
func diversityScore(usageCount int) float64 {
	return math.Max(0.1, 1.0-0.1*float64(usageCount))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
