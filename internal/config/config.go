package config

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "RECOMMENDER_CONFIG"
	databaseDSNEnv  = "DATABASE_DSN"
	openAIAPIKeyEnv = "OPENAI_API_KEY"
	openAIModelEnv  = "OPENAI_MODEL"
	dataDirEnv      = "RECOMMENDER_DATA_DIR"
)

// Config holds high-level settings required across the application.
type Config struct {
	Data     DataConfig     `yaml:"data"`
	OpenAI   OpenAIConfig   `yaml:"openai"`
	Rules    RulesConfig    `yaml:"rules"`
	Selector SelectorConfig `yaml:"selector"`
	Database DatabaseConfig `yaml:"database"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// DataConfig locates the CSV inputs (products, messages, history).
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// OpenAIConfig defines how to contact the inference service.
type OpenAIConfig struct {
	Model             string  `yaml:"model"`
	APIKey            string  `yaml:"apiKey"`
	TimeoutSeconds    int     `yaml:"timeoutSeconds"`
	MaxRetries        int     `yaml:"maxRetries"`
	RequestsPerMinute float64 `yaml:"requestsPerMinute"`
}

// RulesConfig carries the hard eligibility thresholds for candidate filtering.
type RulesConfig struct {
	MinRating float64 `yaml:"minRating"`
}

// SelectorConfig bounds what is handed to the ranking call.
type SelectorConfig struct {
	MaxCandidates      int `yaml:"maxCandidates"`
	MaxRecommendations int `yaml:"maxRecommendations"`
}

// DatabaseConfig describes the optional Postgres run repository.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// LoggingConfig controls console log verbosity.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load reads YAML configuration (if present) and applies environment overrides.
func Load() Config {
	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(databaseDSNEnv); v != "" {
		c.Database.DSN = v
	}

	if v := os.Getenv(openAIAPIKeyEnv); v != "" {
		c.OpenAI.APIKey = v
	}

	if v := os.Getenv(openAIModelEnv); v != "" {
		c.OpenAI.Model = v
	}

	if v := os.Getenv(dataDirEnv); v != "" {
		c.Data.Dir = v
	}
}

func mergeConfig(base, override Config) Config {
	if override.Data.Dir != "" {
		base.Data.Dir = override.Data.Dir
	}

	if override.OpenAI.Model != "" {
		base.OpenAI.Model = override.OpenAI.Model
	}
	if override.OpenAI.APIKey != "" {
		base.OpenAI.APIKey = override.OpenAI.APIKey
	}
	if override.OpenAI.TimeoutSeconds > 0 {
		base.OpenAI.TimeoutSeconds = override.OpenAI.TimeoutSeconds
	}
	if override.OpenAI.MaxRetries > 0 {
		base.OpenAI.MaxRetries = override.OpenAI.MaxRetries
	}
	if override.OpenAI.RequestsPerMinute > 0 {
		base.OpenAI.RequestsPerMinute = override.OpenAI.RequestsPerMinute
	}

	if override.Rules.MinRating > 0 {
		base.Rules.MinRating = override.Rules.MinRating
	}

	if override.Selector.MaxCandidates > 0 {
		base.Selector.MaxCandidates = override.Selector.MaxCandidates
	}
	if override.Selector.MaxRecommendations > 0 {
		base.Selector.MaxRecommendations = override.Selector.MaxRecommendations
	}

	if override.Database.DSN != "" {
		base.Database.DSN = override.Database.DSN
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}

func defaultConfig() Config {
	return Config{
		Data: DataConfig{Dir: "data"},
		OpenAI: OpenAIConfig{
			Model:             "gpt-4o-mini",
			TimeoutSeconds:    20,
			MaxRetries:        3,
			RequestsPerMinute: 7.5,
		},
		Rules:    RulesConfig{MinRating: 3.5},
		Selector: SelectorConfig{MaxCandidates: 20, MaxRecommendations: 3},
		Database: DatabaseConfig{DSN: ""},
		Logging:  LoggingConfig{Level: "info"},
	}
}
