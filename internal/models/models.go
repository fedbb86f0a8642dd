package models

import "time"

// User represents an account in the system. Only the fields the analytics
// engine needs are modeled here.
type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

// CheckIn is a user-reported emotional state sample. Check-ins are
// immutable once created.
type CheckIn struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Emotion   EmotionType    `json:"emotion"`
	Intensity int            `json:"intensity"` // 1..10
	Context   CheckinContext `json:"context"`
	Timestamp time.Time      `json:"timestamp"`
	// Optional links to the session or tool usage that produced this sample.
	JournalSessionID *string   `json:"journal_session_id,omitempty"`
	ToolUsageID      *string   `json:"tool_usage_id,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// ActivityEvent is an immutable record of user activity in the app.
type ActivityEvent struct {
	ID        string         `json:"id"`
	UserID    string         `json:"user_id"`
	Type      ActivityType   `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Tool is a self-regulation exercise in the catalog.
type Tool struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	Category          ToolCategory  `json:"category"`
	TargetEmotions    []EmotionType `json:"target_emotions"`
	Difficulty        Difficulty    `json:"difficulty"`
	EstimatedDuration int           `json:"estimated_duration"` // minutes
	IsPremium         bool          `json:"is_premium"`
	IsActive          bool          `json:"is_active"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// Targets reports whether the tool targets the given emotion, falling back
// to its category's default target set when no explicit set is declared.
func (t *Tool) Targets(emotion EmotionType) bool {
	targets := t.TargetEmotions
	if len(targets) == 0 {
		targets = t.Category.DefaultTargetEmotions()
	}
	for _, e := range targets {
		if e == emotion {
			return true
		}
	}
	return false
}

// ToolUsageRecord captures one session with a tool.
type ToolUsageRecord struct {
	ID              string           `json:"id"`
	UserID          string           `json:"user_id"`
	ToolID          string           `json:"tool_id"`
	DurationSeconds int              `json:"duration_seconds"`
	Status          CompletionStatus `json:"status"`
	PreCheckinID    *string          `json:"pre_checkin_id,omitempty"`
	PostCheckinID   *string          `json:"post_checkin_id,omitempty"`
	CreatedAt       time.Time        `json:"created_at"`
	// Expanded relations (populated on fetch)
	PreCheckin  *CheckIn `json:"pre_checkin,omitempty"`
	PostCheckin *CheckIn `json:"post_checkin,omitempty"`
}

// Trend is a derived per-emotion summary for one period. Trends are
// recomputed and replaced on every analysis run, never merged.
type Trend struct {
	ID               string         `json:"id"`
	UserID           string         `json:"user_id"`
	Emotion          EmotionType    `json:"emotion"`
	PeriodType       PeriodType     `json:"period_type"`
	PeriodValue      string         `json:"period_value"`
	OccurrenceCount  int            `json:"occurrence_count"`
	AverageIntensity float64        `json:"average_intensity"`
	MinIntensity     int            `json:"min_intensity"`
	MaxIntensity     int            `json:"max_intensity"`
	Direction        TrendDirection `json:"direction"`
	ComputedAt       time.Time      `json:"computed_at"`
}

// Insight is a persisted, user-facing finding. Insights are only created
// when their confidence clears the generator's threshold.
type Insight struct {
	ID                 string        `json:"id"`
	UserID             string        `json:"user_id"`
	Type               InsightType   `json:"type"`
	Description        string        `json:"description"`
	RelatedEmotions    []EmotionType `json:"related_emotions"`
	Confidence         float64       `json:"confidence"` // 0..1
	RecommendedActions []string      `json:"recommended_actions,omitempty"`
	GeneratedAt        time.Time     `json:"generated_at"`
}

// UsageStatistics is a per-user rollup of tool usage over the analysis
// window, refreshed on every batch run.
type UsageStatistics struct {
	ID                   string        `json:"id"`
	UserID               string        `json:"user_id"`
	WindowStart          time.Time     `json:"window_start"`
	WindowEnd            time.Time     `json:"window_end"`
	TotalSessions        int           `json:"total_sessions"`
	CompletedSessions    int           `json:"completed_sessions"`
	CompletionRate       float64       `json:"completion_rate"`
	TotalDurationSeconds int           `json:"total_duration_seconds"`
	MostUsedCategory     *ToolCategory `json:"most_used_category,omitempty"`
	ComputedAt           time.Time     `json:"computed_at"`
}

// RecommendationResult is one ranked tool candidate. Results are ephemeral:
// computed per request and never persisted.
type RecommendationResult struct {
	ToolID               string  `json:"tool_id"`
	RelevanceScore       float64 `json:"relevance_score"`
	TargetingScore       float64 `json:"targeting_score"`
	EffectivenessScore   float64 `json:"effectiveness_score"`
	PersonalizationScore float64 `json:"personalization_score"`
	DiversityScore       float64 `json:"diversity_score"`
	IsFavorite           bool    `json:"is_favorite"`
	// Expanded relation (populated by the engine)
	Tool *Tool `json:"tool,omitempty"`
}

// BatchSummary reports the outcome of one scheduled analytics run.
type BatchSummary struct {
	TotalUsers             int `json:"total_users"`
	TrendAnalysisCount     int `json:"trend_analysis_count"`
	InsightGenerationCount int `json:"insight_generation_count"`
	UsageStatisticsCount   int `json:"usage_statistics_count"`
	Errors                 int `json:"errors"`
}
