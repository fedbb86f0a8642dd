package models

import "time"

// DetectedPattern is an intermediate, unpersisted finding from the pattern
// detector. Patterns that clear the insight confidence threshold are
// materialized into Insight records by the generator.
type DetectedPattern struct {
	Type        PatternType    `json:"type"`
	Emotion     EmotionType    `json:"emotion"`
	Bucket      string         `json:"bucket,omitempty"` // "morning", "Monday", ...
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"` // 0..1
	SampleSize  int            `json:"sample_size"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// ActivityCorrelation is an intermediate finding linking an emotion to an
// activity type via lift over the independence expectation.
type ActivityCorrelation struct {
	Emotion            EmotionType  `json:"emotion"`
	Activity           ActivityType `json:"activity"`
	Lift               float64      `json:"lift"`
	Strength           float64      `json:"strength"` // 0..1
	SampleSize         int          `json:"sample_size"`
	Description        string       `json:"description"`
	RecommendedActions []string     `json:"recommended_actions,omitempty"`
}

// PatternReport bundles everything one detector pass found for a user.
type PatternReport struct {
	UserID       string                `json:"user_id"`
	WindowStart  time.Time             `json:"window_start"`
	WindowEnd    time.Time             `json:"window_end"`
	CheckinCount int                   `json:"checkin_count"`
	Patterns     []DetectedPattern     `json:"patterns"`
	Correlations []ActivityCorrelation `json:"correlations"`
}
