package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/ai"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/ai/gemini"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/logger"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/ranking"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/scoring"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/secrets"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var prompt = promptui.Select{
	Label: "Proceed?",
	Items: []string{PromptYes, PromptNo},
}

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score unscored occupations in batches and recompute the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation before scoring")
}

// score is the main command for the cli.
func score(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	occupations, err := onet.LoadCatalog(config.Input)
	if err != nil {
		logger.Fatal("loading the catalog", zap.Error(err), zap.String("path", config.Input))
	}

	logger.Info("catalog loaded", zap.Int("occupations", occupations.Len()))

	rubric, err := os.ReadFile(config.Rubric)
	if err != nil {
		logger.Fatal("loading the scoring rubric", zap.Error(err), zap.String("path", config.Rubric))
	}

	scorer, err := newScorer(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building the scorer", zap.Error(err))
	}

	store := onet.NewResultsFile(config.Output)
	runner := scoring.NewRunner(scorer, store, ranking.NewRanker(config.weights()), config.scoring(), logger)

	plan, err := runner.Plan(occupations)
	if err != nil {
		logger.Fatal("planning the run", zap.Error(err))
	}

	logger.Info("scoring plan",
		zap.Int("to_score", plan.Remaining.Len()),
		zap.Int("already_scored", plan.AlreadyScored),
		zap.Int("batches", len(plan.Batches)),
	)

	if plan.Remaining.Len() > 0 && cmd.Flag("auto-approve").Value.String() == "false" {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if action == PromptNo {
			logger.Info("exiting", zap.String("reason", "got no from prompt"))
			return
		}
	}

	summary, err := runner.Run(ctx, plan, string(rubric))
	if err != nil {
		logger.Fatal("scoring run failed", zap.Error(err))
	}

	logger.Info("scoring run complete",
		zap.Int("scored", summary.Scored),
		zap.Int("failed_batches", summary.FailedBatches),
		zap.Int("ranked", summary.Ranked),
	)
}

func newScorer(ctx context.Context, cfg *AIConfig, baseLogger *zap.Logger) (ai.Scorer, error) {
	if cfg == nil || cfg.Gemini == nil {
		return nil, errors.New("ai.gemini configuration is required")
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Hint:  "set GEMINI_API_KEY, ai.gemini.api-key or ai.gemini.api-key-file",
	})
	if err != nil {
		return nil, err
	}

	genLogger := logger.WithAIFields(baseLogger, "gemini", cfg.Gemini.Model).With(
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
	)

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.MaxRetries, genLogger)
	if err != nil {
		return nil, err
	}

	scorerLogger := logger.WithAIFields(baseLogger, "gemini", generator.Model())

	return gemini.NewScorer(generator, cfg.Gemini.MaxLogLength, scorerLogger), nil
}
