package cmd

import (
	"log"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/logger"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/ranking"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Recompute the final ranking over all scored occupations",
	Run: func(_ *cobra.Command, _ []string) {
		runRank()
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)
}

func runRank() {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the "+app, zap.String("version", version))

	if config == nil {
		logger.Fatal("config is required")
	}

	store := onet.NewResultsFile(config.Output)
	if _, err := scoring.Rerank(store, ranking.NewRanker(config.weights()), logger); err != nil {
		logger.Fatal("ranking failed", zap.Error(err))
	}
}
