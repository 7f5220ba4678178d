package cmd

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/server"
)

const (
	app       = "resume-analyzer"
	envPrefix = "RESUME_ANALYZER"
)

type Config struct {
	Lexicon  *LexiconConfig  `mapstructure:"lexicon"`
	NLP      *NLPConfig      `mapstructure:"nlp"`
	Analysis *AnalysisConfig `mapstructure:"analysis"`
	Feedback *FeedbackConfig `mapstructure:"feedback"`
	Server   *ServerConfig   `mapstructure:"server"`
	Batch    *BatchConfig    `mapstructure:"batch"`
	AI       *AIConfig       `mapstructure:"ai"`
}

type LexiconConfig struct {
	File string `mapstructure:"file"`
}

type NLPConfig struct {
	ModelDir         string   `mapstructure:"model-dir"`
	EntityLabels     []string `mapstructure:"entity-labels"`
	ProperNounChunks bool     `mapstructure:"proper-noun-chunks"`
}

type AnalysisConfig struct {
	MinWords         int `mapstructure:"min-words" validate:"gte=1"`
	FuzzyMinLength   int `mapstructure:"fuzzy-min-length" validate:"gte=0"`
	FuzzyMaxDistance int `mapstructure:"fuzzy-max-distance" validate:"gte=0,lte=3"`
	MaxMissingSkills int `mapstructure:"max-missing-skills" validate:"gte=1,lte=10"`
}

type FeedbackConfig struct {
	DisabledRules []string `mapstructure:"disabled-rules"`
}

type ServerConfig struct {
	Address         string        `mapstructure:"address" validate:"required"`
	MaxUploadBytes  int64         `mapstructure:"max-upload-bytes" validate:"gt=0"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown-timeout"`
}

type BatchConfig struct {
	Workers int `mapstructure:"workers" validate:"gte=0"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider" validate:"omitempty,oneof=gemini"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "resume-analyzer extracts skills and accomplishments from a resume, scores it and suggests improvements",
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

	setDefaults()
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is resume-analyzer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logs on stderr (stdout format is set per command)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	opts := analyzer.DefaultOptions()

	viper.SetDefault("lexicon.file", "")
	viper.SetDefault("nlp.model-dir", "")
	viper.SetDefault("nlp.entity-labels", opts.EntityLabels)
	viper.SetDefault("nlp.proper-noun-chunks", opts.ProperNounChunks)
	viper.SetDefault("analysis.min-words", opts.MinWords)
	viper.SetDefault("analysis.fuzzy-min-length", opts.FuzzyMinLength)
	viper.SetDefault("analysis.fuzzy-max-distance", opts.FuzzyMaxDistance)
	viper.SetDefault("analysis.max-missing-skills", opts.MaxMissingSkills)
	viper.SetDefault("feedback.disabled-rules", []string{})
	viper.SetDefault("server.address", server.DefaultAddress)
	viper.SetDefault("server.max-upload-bytes", server.DefaultMaxUploadBytes)
	viper.SetDefault("server.read-timeout", server.DefaultReadTimeout)
	viper.SetDefault("server.write-timeout", server.DefaultWriteTimeout)
	viper.SetDefault("server.shutdown-timeout", server.DefaultShutdownTimeout)
	viper.SetDefault("batch.workers", 0)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.gemini.api-key-file", "")
	viper.SetDefault("ai.gemini.model", "")
	viper.SetDefault("ai.gemini.max-log-length", 0)
}

func initConfig() {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
	}

	// The config file is optional unless it was given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		return nil, errors.New("empty configuration")
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setup builds the logger and reads the configuration. Failures are fatal.
func setup() (*zap.Logger, *Config) {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	return logger, config
}

func (c *Config) analyzerOptions() analyzer.Options {
	opts := analyzer.DefaultOptions()

	if c.Lexicon != nil {
		opts.LexiconFile = c.Lexicon.File
	}
	if c.NLP != nil {
		opts.ModelDir = c.NLP.ModelDir
		opts.EntityLabels = c.NLP.EntityLabels
		opts.ProperNounChunks = c.NLP.ProperNounChunks
	}
	if c.Analysis != nil {
		opts.MinWords = c.Analysis.MinWords
		opts.FuzzyMinLength = c.Analysis.FuzzyMinLength
		opts.FuzzyMaxDistance = c.Analysis.FuzzyMaxDistance
		opts.MaxMissingSkills = c.Analysis.MaxMissingSkills
	}
	if c.Feedback != nil {
		opts.DisabledRules = c.Feedback.DisabledRules
	}

	return opts
}

// newEngine loads the analysis context or stops the process.
func newEngine(config *Config, logger *zap.Logger) *analyzer.Context {
	engine, err := analyzer.NewContext(config.analyzerOptions(), logger.Named("analyzer"))
	if err != nil {
		logger.Fatal("loading the analysis context", zap.Error(err))
	}
	return engine
}
