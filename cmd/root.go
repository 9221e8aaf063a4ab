package cmd

import (
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/hh-screener/internal/ai"
	"github.com/spigell/hh-screener/internal/ai/gemini"
	"github.com/spigell/hh-screener/internal/ai/ollama"
	"github.com/spigell/hh-screener/internal/conversation"
	"github.com/spigell/hh-screener/internal/prompts"
)

const (
	app = "hh-screener"

	defaultRetentionDays = 90
)

type Config struct {
	Company      string              `mapstructure:"company"`
	AI           *AIConfig           `mapstructure:"ai"`
	Data         *DataConfig         `mapstructure:"data"`
	Conversation *ConversationConfig `mapstructure:"conversation"`
}

type AIConfig struct {
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
	Ollama   *OllamaConfig `mapstructure:"ollama"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	Model      string `mapstructure:"model"`
	MaxRetries int    `mapstructure:"max-retries"`
}

type OllamaConfig struct {
	BaseURL string        `mapstructure:"base-url"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type DataConfig struct {
	Dir           string `mapstructure:"dir"`
	AuditLog      string `mapstructure:"audit-log"`
	Salt          string `mapstructure:"salt"`
	SaltFile      string `mapstructure:"salt-file"`
	RetentionDays int    `mapstructure:"retention-days"`
	HashLocation  bool   `mapstructure:"hash-location"`
}

type ConversationConfig struct {
	HistoryWindow int `mapstructure:"history-window"`
	MaxQuestions  int `mapstructure:"max-questions"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "hh-screener runs initial candidate screening interviews in the terminal",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envBindings := map[string]string{
		"ai.provider":            "LLM_PROVIDER",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"ai.gemini.model":        "GEMINI_MODEL",
		"ai.ollama.base-url":     "OLLAMA_BASE_URL",
		"ai.ollama.model":        "OLLAMA_MODEL",
		"data.dir":               "DATA_DIR",
		"data.salt-file":         "DATA_SALT_FILE",
		"data.retention-days":    "DATA_RETENTION_DAYS",
	}
	for key, env := range envBindings {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("company", "TalentScout")
	viper.SetDefault("ai.provider", ai.ProviderGemini)
	viper.SetDefault("ai.gemini.model", gemini.DefaultModel)
	viper.SetDefault("ai.gemini.max-retries", 3)
	viper.SetDefault("ai.ollama.base-url", ollama.DefaultBaseURL)
	viper.SetDefault("ai.ollama.model", ollama.DefaultModel)
	viper.SetDefault("ai.ollama.timeout", ollama.DefaultTimeout)
	viper.SetDefault("data.dir", "data/candidates")
	viper.SetDefault("data.audit-log", "data/audit.log")
	viper.SetDefault("data.retention-days", defaultRetentionDays)
	viper.SetDefault("data.hash-location", true)
	viper.SetDefault("conversation.history-window", conversation.DefaultWindow)
	viper.SetDefault("conversation.max-questions", prompts.DefaultQuestionCount)

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is hh-screener.yaml in current directory)")
	rootCmd.PersistentFlags().String("env-file", ".env", "optional dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("env-file", rootCmd.PersistentFlags().Lookup("env-file"))
	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Variables already present in the environment win over the dotenv file.
	if envFile := viper.GetString("env-file"); envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Fatalf("loading %s: %v", envFile, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was requested explicitly.
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
		return nil, fmt.Errorf("decoding config: %w", err)
	}

	if config.AI == nil {
		config.AI = &AIConfig{}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}
	if config.AI.Ollama == nil {
		config.AI.Ollama = &OllamaConfig{}
	}
	if config.Data == nil {
		config.Data = &DataConfig{}
	}
	if config.Conversation == nil {
		config.Conversation = &ConversationConfig{}
	}

	return config, nil
}
