package service

import (
	"context"
	"time"

	"github.com/attune-health/attune/backend/internal/models"
)

// mockCheckinRepository is a mock implementation of CheckinRepository for testing
type mockCheckinRepository struct {
	checkins []models.CheckIn
	err      error
}

func (m *mockCheckinRepository) Create(ctx context.Context, checkin *models.CheckIn) (*models.CheckIn, error) {
	m.checkins = append(m.checkins, *checkin)
	return checkin, nil
}

func (m *mockCheckinRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.CheckIn, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.CheckIn
	for _, c := range m.checkins {
		if c.UserID == userID {
			result = append(result, c)
		}
	}
	return result, nil
}

// mockActivityRepository is a mock implementation of ActivityRepository for testing
type mockActivityRepository struct {
	events []models.ActivityEvent
	err    error
}

func (m *mockActivityRepository) Create(ctx context.Context, event *models.ActivityEvent) (*models.ActivityEvent, error) {
	m.events = append(m.events, *event)
	return event, nil
}

func (m *mockActivityRepository) GetByUserIDAndDateRange(ctx context.Context, userID string, start, end time.Time) ([]models.ActivityEvent, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.ActivityEvent
	for _, e := range m.events {
		if e.UserID == userID {
			result = append(result, e)
		}
	}
	return result, nil
}

// mockInsightRepository is a mock implementation of InsightRepository for testing
type mockInsightRepository struct {
	byUser       map[string][]models.Insight
	replaceCalls int
	err          error
}

func newMockInsightRepository() *mockInsightRepository {
	return &mockInsightRepository{byUser: make(map[string][]models.Insight)}
}

func (m *mockInsightRepository) ReplaceForUser(ctx context.Context, userID string, insights []models.Insight) error {
	m.replaceCalls++
	if m.err != nil {
		return m.err
	}
	m.byUser[userID] = insights
	return nil
}

func (m *mockInsightRepository) GetByUserID(ctx context.Context, userID string) ([]models.Insight, error) {
	return m.byUser[userID], nil
}

// mockToolRepository is a mock implementation of ToolRepository for testing
type mockToolRepository struct {
	tools     []models.Tool
	favorites map[string]bool
	err       error
}

func (m *mockToolRepository) Create(ctx context.Context, tool *models.Tool) (*models.Tool, error) {
	m.tools = append(m.tools, *tool)
	return tool, nil
}

func (m *mockToolRepository) GetByID(ctx context.Context, id string) (*models.Tool, error) {
	for i := range m.tools {
		if m.tools[i].ID == id {
			return &m.tools[i], nil
		}
	}
	return nil, nil
}

func (m *mockToolRepository) GetActive(ctx context.Context) ([]models.Tool, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.Tool
	for _, t := range m.tools {
		if t.IsActive {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockToolRepository) SetFavorite(ctx context.Context, userID, toolID string, favorite bool) error {
	if m.favorites == nil {
		m.favorites = make(map[string]bool)
	}
	if favorite {
		m.favorites[toolID] = true
	} else {
		delete(m.favorites, toolID)
	}
	return nil
}

func (m *mockToolRepository) GetFavoriteToolIDs(ctx context.Context, userID string) (map[string]bool, error) {
	return m.favorites, nil
}

// mockToolUsageRepository is a mock implementation of ToolUsageRepository for testing
type mockToolUsageRepository struct {
	records []models.ToolUsageRecord
	err     error
}

func (m *mockToolUsageRepository) Create(ctx context.Context, record *models.ToolUsageRecord) (*models.ToolUsageRecord, error) {
	m.records = append(m.records, *record)
	return record, nil
}

func (m *mockToolUsageRepository) GetByUserID(ctx context.Context, userID string) ([]models.ToolUsageRecord, error) {
	if m.err != nil {
		return nil, m.err
	}
	var result []models.ToolUsageRecord
	for _, r := range m.records {
		if r.UserID == userID {
			result = append(result, r)
		}
	}
	return result, nil
}

// mockTrendRepository is a mock implementation of TrendRepository for testing
type mockTrendRepository struct {
	trends      []models.Trend
	upsertCalls int
	err         error
}

func (m *mockTrendRepository) Upsert(ctx context.Context, trend *models.Trend) error {
	m.upsertCalls++
	if m.err != nil {
		return m.err
	}
	m.trends = append(m.trends, *trend)
	return nil
}

func (m *mockTrendRepository) GetByUserID(ctx context.Context, userID string) ([]models.Trend, error) {
	return m.trends, nil
}

// mockUsageStatsRepository is a mock implementation of UsageStatsRepository for testing
type mockUsageStatsRepository struct {
	byUser map[string]*models.UsageStatistics
	err    error
}

func newMockUsageStatsRepository() *mockUsageStatsRepository {
	return &mockUsageStatsRepository{byUser: make(map[string]*models.UsageStatistics)}
}

func (m *mockUsageStatsRepository) Upsert(ctx context.Context, stats *models.UsageStatistics) error {
	if m.err != nil {
		return m.err
	}
	m.byUser[stats.UserID] = stats
	return nil
}

func (m *mockUsageStatsRepository) GetByUserID(ctx context.Context, userID string) (*models.UsageStatistics, error) {
	return m.byUser[userID], nil
}

// mockUserRepository is a mock implementation of UserRepository for testing
type mockUserRepository struct {
	userIDs []string
	err     error
}

func (m *mockUserRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	m.userIDs = append(m.userIDs, user.ID)
	return user, nil
}

func (m *mockUserRepository) GetActiveUserIDs(ctx context.Context) ([]string, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.userIDs, nil
}
