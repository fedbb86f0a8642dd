package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/attune-health/attune/backend/internal/models"
	"github.com/attune-health/attune/backend/internal/output"
	"github.com/attune-health/attune/backend/internal/repository"
	"github.com/attune-health/attune/backend/internal/service"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend <user-id> <emotion> <intensity>",
	Short: "Recommend regulation tools",
	Long: `Score the tool catalog against a user's current emotional state and
print the top candidates.`,
	Args: cobra.ExactArgs(3),
	RunE: runRecommend,
}

var (
	recommendLimit int
	includePremium bool
)

func init() {
	recommendCmd.Flags().IntVarP(&recommendLimit, "limit", "n", 0, "Maximum number of recommendations (default 5)")
	recommendCmd.Flags().BoolVar(&includePremium, "premium", false, "Include premium tools")
}

func runRecommend(cmd *cobra.Command, args []string) error {
	cfg, db, err := setup()
	if err != nil {
		return err
	}
	defer db.Close()

	userID := args[0]
	emotion := models.EmotionType(args[1])
	intensity, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("intensity must be a number, got %q", args[2])
	}

	limit := recommendLimit
	if limit <= 0 {
		limit = cfg.Analytics.RecommendationLimit
	}

	engine := service.NewRecommendationEngine(
		repository.NewToolRepository(db),
		repository.NewToolUsageRepository(db),
		service.DefaultRecommendationWeights(),
	)

	results, err := engine.GetRecommendations(context.Background(), userID, emotion, intensity,
		service.RecommendationOptions{Limit: limit, IncludePremium: includePremium})
	if err != nil {
		return err
	}

	if len(results) == 0 {
		fmt.Println("No tools to recommend.")
		return nil
	}

	table := output.NewTable("#", "TOOL", "CATEGORY", "DIFFICULTY", "SCORE", "FAV")
	for i, r := range results {
		fav := ""
		if r.IsFavorite {
			fav = "*"
		}
		table.AddRow(
			strconv.Itoa(i+1),
			r.Tool.Name,
			string(r.Tool.Category),
			string(r.Tool.Difficulty),
			fmt.Sprintf("%.3f", r.RelevanceScore),
			fav,
		)
	}
	fmt.Print(table.Render())

	return nil
}
