// Package repository provides data access behind narrow interfaces. The
// analytics engine consumes the interfaces only; this package also ships
// the SQLite implementation used by the CLI and tests.
package repository

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

const timeLayout = time.RFC3339Nano

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func decodeTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func encodeEmotions(emotions []models.EmotionType) (string, error) {
	if len(emotions) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(emotions)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeEmotions(s string) ([]models.EmotionType, error) {
	if s == "" {
		return nil, nil
	}
	var emotions []models.EmotionType
	if err := json.Unmarshal([]byte(s), &emotions); err != nil {
		return nil, err
	}
	if len(emotions) == 0 {
		return nil, nil
	}
	return emotions, nil
}

func encodeStrings(values []string) (string, error) {
	if len(values) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStrings(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var values []string
	if err := json.Unmarshal([]byte(s), &values); err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, nil
	}
	return values, nil
}

// nullString converts an optional field for binding.
func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
