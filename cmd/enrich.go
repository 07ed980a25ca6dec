package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/enrich"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/logger"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Scrape wage, growth and openings data onto the occupation catalog",
	Run: func(_ *cobra.Command, _ []string) {
		runEnrich()
	},
}

func init() {
	rootCmd.AddCommand(enrichCmd)
}

func runEnrich() {
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

	if config.Enrich == nil || config.Enrich.CacheFile == "" {
		logger.Fatal("enrich.cache-file is required")
	}

	cache, err := enrich.LoadCache(config.Enrich.CacheFile)
	if err != nil {
		logger.Fatal("loading the enrichment cache", zap.Error(err))
	}

	client := onet.NewClient(logger)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	if config.Enrich.Timeout > 0 {
		client.HTTPClient.Timeout = config.Enrich.Timeout
	}

	enricher := enrich.NewEnricher(client, cache, config.Enrich.Delay, logger)
	if err := enricher.Run(ctx, occupations); err != nil {
		logger.Fatal("enrichment failed", zap.Error(err))
	}

	if err := occupations.WriteCatalog(config.Input); err != nil {
		logger.Fatal("writing the catalog", zap.Error(err), zap.String("path", config.Input))
	}

	logger.Info("catalog enriched", zap.String("path", config.Input))
}
