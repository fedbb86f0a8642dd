package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attune-health/attune/backend/internal/output"
	"github.com/attune-health/attune/backend/internal/repository"
	"github.com/attune-health/attune/backend/internal/service"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Run the analytics pipeline",
	Long: `Run trend analysis, pattern detection, and usage statistics for all
active users, or for a single user with --user.`,
	RunE: runAnalyze,
}

var analyzeUserID string

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeUserID, "user", "u", "", "Analyze a single user instead of all active users")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	checkinRepo := repository.NewCheckinRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	toolRepo := repository.NewToolRepository(db)
	usageRepo := repository.NewToolUsageRepository(db)
	trendRepo := repository.NewTrendRepository(db)
	insightRepo := repository.NewInsightRepository(db)
	statsRepo := repository.NewUsageStatsRepository(db)
	userRepo := repository.NewUserRepository(db)

	orchestrator := service.NewOrchestrator(
		userRepo,
		toolRepo,
		usageRepo,
		trendRepo,
		statsRepo,
		service.NewTrendAnalyzer(checkinRepo),
		service.NewInsightGenerator(checkinRepo, activityRepo, insightRepo),
		cfg.Analytics.WindowDays,
		nil,
	)

	ctx := context.Background()

	if analyzeUserID != "" {
		if err := orchestrator.AnalyzeUser(ctx, analyzeUserID); err != nil {
			return fmt.Errorf("analysis failed for user %s: %w", analyzeUserID, err)
		}
		fmt.Printf("Analysis complete for user %s\n", analyzeUserID)
		return nil
	}

	summary, err := orchestrator.RunScheduledAnalytics(ctx)
	if err != nil {
		return fmt.Errorf("scheduled analytics failed: %w", err)
	}

	table := output.NewTable("METRIC", "COUNT")
	table.AddRow("Users processed", fmt.Sprintf("%d", summary.TotalUsers))
	table.AddRow("Users with trends", fmt.Sprintf("%d", summary.TrendAnalysisCount))
	table.AddRow("Users with insights", fmt.Sprintf("%d", summary.InsightGenerationCount))
	table.AddRow("Users with usage stats", fmt.Sprintf("%d", summary.UsageStatisticsCount))
	table.AddRow("Errors", fmt.Sprintf("%d", summary.Errors))
	fmt.Print(table.Render())

	if summary.Errors > 0 {
		fmt.Println(output.StyleNegative.Render(
			fmt.Sprintf("%d user(s) failed; see logs for details", summary.Errors)))
	}

	return nil
}
