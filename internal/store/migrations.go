package store

import "fmt"

const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means a fresh database.
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates all initial tables and indexes.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			email      TEXT NOT NULL,
			is_active  BOOLEAN NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS checkins (
			id                 TEXT PRIMARY KEY,
			user_id            TEXT NOT NULL,
			emotion            TEXT NOT NULL,
			intensity          INTEGER NOT NULL CHECK (intensity BETWEEN 1 AND 10),
			context            TEXT NOT NULL,
			timestamp          TEXT NOT NULL,
			journal_session_id TEXT,
			tool_usage_id      TEXT,
			created_at         TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_checkins_user_time
			ON checkins(user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS activity_events (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			type       TEXT NOT NULL,
			timestamp  TEXT NOT NULL,
			metadata   TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_events_user_time
			ON activity_events(user_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS tools (
			id                 TEXT PRIMARY KEY,
			name               TEXT NOT NULL,
			category           TEXT NOT NULL,
			target_emotions    TEXT NOT NULL,
			difficulty         TEXT NOT NULL,
			estimated_duration INTEGER NOT NULL,
			is_premium         BOOLEAN NOT NULL DEFAULT 0,
			is_active          BOOLEAN NOT NULL DEFAULT 1,
			created_at         TEXT NOT NULL,
			updated_at         TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS tool_favorites (
			user_id TEXT NOT NULL,
			tool_id TEXT NOT NULL REFERENCES tools(id),
			PRIMARY KEY (user_id, tool_id)
		)`,

		`CREATE TABLE IF NOT EXISTS tool_usage (
			id               TEXT PRIMARY KEY,
			user_id          TEXT NOT NULL,
			tool_id          TEXT NOT NULL REFERENCES tools(id),
			duration_seconds INTEGER NOT NULL DEFAULT 0,
			status           TEXT NOT NULL,
			pre_checkin_id   TEXT REFERENCES checkins(id),
			post_checkin_id  TEXT REFERENCES checkins(id),
			created_at       TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tool_usage_user
			ON tool_usage(user_id)`,

		`CREATE TABLE IF NOT EXISTS trends (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL,
			emotion           TEXT NOT NULL,
			period_type       TEXT NOT NULL,
			period_value      TEXT NOT NULL,
			occurrence_count  INTEGER NOT NULL,
			average_intensity REAL NOT NULL,
			min_intensity     INTEGER NOT NULL,
			max_intensity     INTEGER NOT NULL,
			direction         TEXT NOT NULL,
			computed_at       TEXT NOT NULL,
			UNIQUE (user_id, emotion, period_type, period_value)
		)`,

		`CREATE TABLE IF NOT EXISTS insights (
			id                  TEXT PRIMARY KEY,
			user_id             TEXT NOT NULL,
			type                TEXT NOT NULL,
			description         TEXT NOT NULL,
			related_emotions    TEXT,
			confidence          REAL NOT NULL CHECK (confidence BETWEEN 0 AND 1),
			recommended_actions TEXT,
			generated_at        TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_insights_user
			ON insights(user_id)`,

		`CREATE TABLE IF NOT EXISTS usage_statistics (
			id                     TEXT PRIMARY KEY,
			user_id                TEXT NOT NULL UNIQUE,
			window_start           TEXT NOT NULL,
			window_end             TEXT NOT NULL,
			total_sessions         INTEGER NOT NULL,
			completed_sessions     INTEGER NOT NULL,
			completion_rate        REAL NOT NULL,
			total_duration_seconds INTEGER NOT NULL,
			most_used_category     TEXT,
			computed_at            TEXT NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return err
		}
	}

	if _, err := db.conn.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := db.conn.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return nil
}
