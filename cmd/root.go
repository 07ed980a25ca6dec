package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/ranking"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/scoring"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "onet-ranker"
)

type Config struct {
	Input     string         `mapstructure:"input"`
	Output    string         `mapstructure:"output"`
	Rubric    string         `mapstructure:"rubric"`
	UserAgent string         `mapstructure:"user-agent"`
	Enrich    *EnrichConfig  `mapstructure:"enrich"`
	Scoring   *ScoringConfig `mapstructure:"scoring"`
	Ranking   *RankingConfig `mapstructure:"ranking"`
	AI        *AIConfig      `mapstructure:"ai"`
}

type EnrichConfig struct {
	CacheFile string        `mapstructure:"cache-file"`
	Delay     time.Duration `mapstructure:"delay"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

type ScoringConfig struct {
	BatchSize  int           `mapstructure:"batch-size"`
	BatchDelay time.Duration `mapstructure:"batch-delay"`
	Cooldown   time.Duration `mapstructure:"cooldown"`
}

type RankingConfig struct {
	Weights *WeightsConfig `mapstructure:"weights"`
}

type WeightsConfig struct {
	Resilience float64 `mapstructure:"resilience"`
	Growth     float64 `mapstructure:"growth"`
	Openings   float64 `mapstructure:"openings"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "onet-ranker enriches, scores and ranks O*NET occupations by their resilience to AI automation",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key", "GEMINI_API_KEY"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is onet-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults()
}

func setDefaults() {
	viper.SetDefault("input", "data/input/All_Occupations_ONET.csv")
	viper.SetDefault("output", "data/output/ai_resilience_scores.csv")
	viper.SetDefault("rubric", "docs/scoring-framework.md")
	viper.SetDefault("enrich.cache-file", "data/intermediate/onet_enrichment_cache.json")
	viper.SetDefault("enrich.delay", "1s")
	viper.SetDefault("enrich.timeout", "30s")
	viper.SetDefault("scoring.batch-size", 10)
	viper.SetDefault("scoring.batch-delay", "2s")
	viper.SetDefault("scoring.cooldown", "30s")
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ranking.weights.resilience", 0.50)
	viper.SetDefault("ranking.weights.growth", 0.30)
	viper.SetDefault("ranking.weights.openings", 0.20)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The defaults cover a full run, so a missing config file is fine unless
	// one was named explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}

func (c *Config) scoring() scoring.Config {
	if c == nil || c.Scoring == nil {
		return scoring.Config{}
	}

	return scoring.Config{
		BatchSize:  c.Scoring.BatchSize,
		BatchDelay: c.Scoring.BatchDelay,
		Cooldown:   c.Scoring.Cooldown,
	}
}

func (c *Config) weights() ranking.Weights {
	if c == nil || c.Ranking == nil || c.Ranking.Weights == nil {
		return ranking.DefaultWeights()
	}

	return ranking.Weights{
		Resilience: c.Ranking.Weights.Resilience,
		Growth:     c.Ranking.Weights.Growth,
		Openings:   c.Ranking.Weights.Openings,
	}
}
