package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/attune-health/attune/backend/internal/logger"
	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/repository"
)

// DefaultAnalysisWindowDays is the lookback window for a run when the
// caller does not override it.
const DefaultAnalysisWindowDays = 30

type orchestrator struct {
	userRepo  repository.UserRepository
	toolRepo  repository.ToolRepository
	usageRepo repository.ToolUsageRepository
	trendRepo repository.TrendRepository
	statsRepo repository.UsageStatsRepository

	trends     TrendAnalyzer
	insights   InsightGenerator
	windowDays int
	log        logger.Logger
}

// NewOrchestrator creates the analytics orchestrator.
func NewOrchestrator(
	userRepo repository.UserRepository,
	toolRepo repository.ToolRepository,
	usageRepo repository.ToolUsageRepository,
	trendRepo repository.TrendRepository,
	statsRepo repository.UsageStatsRepository,
	trends TrendAnalyzer,
	insights InsightGenerator,
	windowDays int,
	log logger.Logger,
) Orchestrator {
	if windowDays <= 0 {
		windowDays = DefaultAnalysisWindowDays
	}
	if log == nil {
		log = logger.Default()
	}
	return &orchestrator{
		userRepo:   userRepo,
		toolRepo:   toolRepo,
		usageRepo:  usageRepo,
		trendRepo:  trendRepo,
		statsRepo:  statsRepo,
		trends:     trends,
		insights:   insights,
		windowDays: windowDays,
		log:        log,
	}
}

// userRunResult tallies what a single user's run produced.
type userRunResult struct {
	trendsSaved   int
	insightsSaved int
	statsSaved    bool
}

// AnalyzeUser runs the full pipeline for one user: fetch, analyze trends
// and patterns, filter and persist insights, refresh usage statistics.
// Faults propagate unchanged; there are no retries.
func (s *orchestrator) AnalyzeUser(ctx context.Context, userID string) error {
	_, err := s.analyzeUser(ctx, userID)
	return err
}

func (s *orchestrator) analyzeUser(ctx context.Context, userID string) (userRunResult, error) {
	var result userRunResult

	end := time.Now()
	start := end.AddDate(0, 0, -s.windowDays)

	trends, err := s.trends.AnalyzeTrends(ctx, userID, models.PeriodMonth, start, end)
	if err != nil {
		return result, fmt.Errorf("trend analysis: %w", err)
	}
	for i := range trends {
		if err := s.trendRepo.Upsert(ctx, &trends[i]); err != nil {
			return result, fmt.Errorf("trend persistence: %w", err)
		}
	}
	result.trendsSaved = len(trends)

	insights, err := s.insights.GenerateInsights(ctx, userID, start, end)
	if err != nil {
		return result, fmt.Errorf("insight generation: %w", err)
	}
	result.insightsSaved = len(insights)

	stats, err := s.buildUsageStatistics(ctx, userID, start, end)
	if err != nil {
		return result, fmt.Errorf("usage statistics: %w", err)
	}
	if err := s.statsRepo.Upsert(ctx, stats); err != nil {
		return result, fmt.Errorf("usage statistics persistence: %w", err)
	}
	result.statsSaved = true

	return result, nil
}

// RunScheduledAnalytics iterates all active users sequentially. Each user's
// run is isolated: a failure is logged and tallied without aborting the
// remaining users.
func (s *orchestrator) RunScheduledAnalytics(ctx context.Context) (*models.BatchSummary, error) {
	ctx = logger.WithRunID(ctx, uuid.New().String())
	log := s.log.WithContext(ctx)

	userIDs, err := s.userRepo.GetActiveUserIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active users: %w", err)
	}

	summary := &models.BatchSummary{TotalUsers: len(userIDs)}
	started := time.Now()
	log.Info("scheduled analytics started", logger.Int("total_users", len(userIDs)))

	for _, userID := range userIDs {
		userCtx := logger.WithUserID(ctx, userID)
		result, err := s.analyzeUser(userCtx, userID)
		if err != nil {
			summary.Errors++
			s.log.WithContext(userCtx).Error("user analysis failed", logger.Err(err))
			continue
		}
		if result.trendsSaved > 0 {
			summary.TrendAnalysisCount++
		}
		if result.insightsSaved > 0 {
			summary.InsightGenerationCount++
		}
		if result.statsSaved {
			summary.UsageStatisticsCount++
		}
	}

	log.Info("scheduled analytics finished",
		logger.Int("trend_users", summary.TrendAnalysisCount),
		logger.Int("insight_users", summary.InsightGenerationCount),
		logger.Int("stats_users", summary.UsageStatisticsCount),
		logger.Int("errors", summary.Errors),
		logger.Duration("elapsed", time.Since(started)),
	)

	return summary, nil
}

// buildUsageStatistics rolls up the user's tool usage inside the window.
func (s *orchestrator) buildUsageStatistics(ctx context.Context, userID string, start, end time.Time) (*models.UsageStatistics, error) {
	records, err := s.usageRepo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tools, err := s.toolRepo.GetActive(ctx)
	if err != nil {
		return nil, err
	}
	categoryByTool := make(map[string]models.ToolCategory, len(tools))
	for _, t := range tools {
		categoryByTool[t.ID] = t.Category
	}

	stats := &models.UsageStatistics{
		UserID:      userID,
		WindowStart: start,
		WindowEnd:   end,
		ComputedAt:  time.Now(),
	}

	categoryCounts := make(map[models.ToolCategory]int)
	for _, r := range records {
		if r.CreatedAt.Before(start) || r.CreatedAt.After(end) {
			continue
		}
		stats.TotalSessions++
		stats.TotalDurationSeconds += r.DurationSeconds
		if r.Status == models.StatusCompleted {
			stats.CompletedSessions++
		}
		if cat, ok := categoryByTool[r.ToolID]; ok {
			categoryCounts[cat]++
		}
	}

	if stats.TotalSessions > 0 {
		stats.CompletionRate = float64(stats.CompletedSessions) / float64(stats.TotalSessions)
	}

	// Deterministic winner on ties via the fixed category order.
	bestCount := 0
	for _, cat := range models.AllToolCategories {
		if categoryCounts[cat] > bestCount {
			bestCount = categoryCounts[cat]
			c := cat
			stats.MostUsedCategory = &c
		}
	}

	return stats, nil
}
