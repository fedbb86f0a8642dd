package models

import "fmt"

// EmotionType is the closed set of emotions a check-in can report.
type EmotionType string

const (
	EmotionJoy         EmotionType = "joy"
	EmotionCalm        EmotionType = "calm"
	EmotionContentment EmotionType = "contentment"
	EmotionGratitude   EmotionType = "gratitude"
	EmotionExcitement  EmotionType = "excitement"
	EmotionAnxiety     EmotionType = "anxiety"
	EmotionSadness     EmotionType = "sadness"
	EmotionAnger       EmotionType = "anger"
	EmotionFear        EmotionType = "fear"
	EmotionOverwhelm   EmotionType = "overwhelm"
)

// AllEmotions lists every EmotionType. Order is stable and used by
// deterministic iteration in the analytics code.
var AllEmotions = []EmotionType{
	EmotionJoy, EmotionCalm, EmotionContentment, EmotionGratitude, EmotionExcitement,
	EmotionAnxiety, EmotionSadness, EmotionAnger, EmotionFear, EmotionOverwhelm,
}

// Valence classifies an emotion as positive or negative affect.
type Valence string

const (
	ValencePositive Valence = "positive"
	ValenceNegative Valence = "negative"
)

// emotionValence must cover every EmotionType; ValidateCatalogs enforces this.
var emotionValence = map[EmotionType]Valence{
	EmotionJoy:         ValencePositive,
	EmotionCalm:        ValencePositive,
	EmotionContentment: ValencePositive,
	EmotionGratitude:   ValencePositive,
	EmotionExcitement:  ValencePositive,
	EmotionAnxiety:     ValenceNegative,
	EmotionSadness:     ValenceNegative,
	EmotionAnger:       ValenceNegative,
	EmotionFear:        ValenceNegative,
	EmotionOverwhelm:   ValenceNegative,
}

// ValenceOf returns the affect classification for an emotion.
func (e EmotionType) Valence() Valence {
	return emotionValence[e]
}

// IsValid reports whether e is a known emotion.
func (e EmotionType) IsValid() bool {
	_, ok := emotionValence[e]
	return ok
}

// CheckinContext describes the situation in which a check-in was recorded.
type CheckinContext string

const (
	ContextPreActivity  CheckinContext = "pre_activity"
	ContextPostActivity CheckinContext = "post_activity"
	ContextStandalone   CheckinContext = "standalone"
	ContextToolUsage    CheckinContext = "tool_usage"
	ContextDaily        CheckinContext = "daily"
)

// ActivityType is the closed set of user-activity events.
type ActivityType string

const (
	ActivityAppOpen      ActivityType = "app_open"
	ActivityVoiceJournal ActivityType = "voice_journal"
	ActivityCheckIn      ActivityType = "check_in"
	ActivityToolUsage    ActivityType = "tool_usage"
)

// AllActivityTypes lists every ActivityType in stable order.
var AllActivityTypes = []ActivityType{
	ActivityAppOpen, ActivityVoiceJournal, ActivityCheckIn, ActivityToolUsage,
}

// ToolCategory groups self-regulation tools.
type ToolCategory string

const (
	CategoryBreathing  ToolCategory = "breathing"
	CategoryMeditation ToolCategory = "meditation"
	CategoryJournaling ToolCategory = "journaling"
	CategoryMovement   ToolCategory = "movement"
	CategoryGrounding  ToolCategory = "grounding"
)

// AllToolCategories lists every ToolCategory in stable order.
var AllToolCategories = []ToolCategory{
	CategoryBreathing, CategoryMeditation, CategoryJournaling,
	CategoryMovement, CategoryGrounding,
}

// toolCategoryEmotions maps each category to the emotions its tools target
// by default when a tool declares no explicit target set. Must cover every
// ToolCategory; ValidateCatalogs enforces this.
var toolCategoryEmotions = map[ToolCategory][]EmotionType{
	CategoryBreathing:  {EmotionAnxiety, EmotionFear, EmotionOverwhelm},
	CategoryMeditation: {EmotionAnxiety, EmotionSadness, EmotionOverwhelm},
	CategoryJournaling: {EmotionSadness, EmotionAnger, EmotionGratitude},
	CategoryMovement:   {EmotionAnger, EmotionSadness, EmotionExcitement},
	CategoryGrounding:  {EmotionAnxiety, EmotionFear, EmotionAnger},
}

// DefaultTargetEmotions returns the default target set for a category.
func (c ToolCategory) DefaultTargetEmotions() []EmotionType {
	return toolCategoryEmotions[c]
}

// Difficulty rates how demanding a tool is for the user.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
)

// CompletionStatus records how a tool-usage session ended.
type CompletionStatus string

const (
	StatusCompleted CompletionStatus = "completed"
	StatusPartial   CompletionStatus = "partial"
	StatusAbandoned CompletionStatus = "abandoned"
)

// TrendDirection classifies how an emotion's intensity moves over time.
type TrendDirection string

const (
	TrendIncreasing  TrendDirection = "increasing"
	TrendDecreasing  TrendDirection = "decreasing"
	TrendStable      TrendDirection = "stable"
	TrendFluctuating TrendDirection = "fluctuating"

	// TrendUndefined marks series with too few points to classify.
	// It is never persisted.
	TrendUndefined TrendDirection = "undefined"
)

// PeriodType is the granularity a trend record covers.
type PeriodType string

const (
	PeriodDay   PeriodType = "day"
	PeriodWeek  PeriodType = "week"
	PeriodMonth PeriodType = "month"
)

// IsValid reports whether p is a supported period type.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth:
		return true
	}
	return false
}

// InsightType categorizes persisted insights.
type InsightType string

const (
	InsightTypePattern        InsightType = "pattern"
	InsightTypeTrigger        InsightType = "trigger"
	InsightTypeImprovement    InsightType = "improvement"
	InsightTypeCorrelation    InsightType = "correlation"
	InsightTypeRecommendation InsightType = "recommendation"
)

// PatternType identifies which detector produced a pattern.
type PatternType string

const (
	PatternTimeOfDay    PatternType = "time_of_day"
	PatternDayOfWeek    PatternType = "day_of_week"
	PatternEmotionCycle PatternType = "emotion_cycle"
	PatternIntensity    PatternType = "intensity"
)

// ValidateCatalogs checks the static lookup tables for completeness. It is
// called once at startup so a missing enum entry fails fast instead of
// surfacing as a zero-value mid-analysis.
func ValidateCatalogs() error {
	for _, e := range AllEmotions {
		if _, ok := emotionValence[e]; !ok {
			return fmt.Errorf("emotion %q has no valence entry", e)
		}
	}
	if len(emotionValence) != len(AllEmotions) {
		return fmt.Errorf("valence map has %d entries, want %d", len(emotionValence), len(AllEmotions))
	}
	for _, c := range AllToolCategories {
		targets, ok := toolCategoryEmotions[c]
		if !ok || len(targets) == 0 {
			return fmt.Errorf("tool category %q has no default target emotions", c)
		}
		for _, e := range targets {
			if !e.IsValid() {
				return fmt.Errorf("tool category %q targets unknown emotion %q", c, e)
			}
		}
	}
	if len(toolCategoryEmotions) != len(AllToolCategories) {
		return fmt.Errorf("category map has %d entries, want %d", len(toolCategoryEmotions), len(AllToolCategories))
	}
	return nil
}
