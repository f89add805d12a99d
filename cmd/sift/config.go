// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
	"github.com/zalando/go-keyring"
	"go.uber.org/zap"

	"github.com/teradata-labs/sift/pkg/backend"
	siftconfig "github.com/teradata-labs/sift/pkg/config"
	"github.com/teradata-labs/sift/pkg/llm"
	"github.com/teradata-labs/sift/pkg/llm/factory"
)

const (
	// ServiceName for keyring storage
	ServiceName = "sift"
	// DefaultConfigFileName is the name of the config file
	DefaultConfigFileName = "sift"
)

// Config holds all configuration for the sift CLI.
// Priority: CLI flags > config file > env vars > defaults
type Config struct {
	// DataDir is the sift data directory. Set during config initialization;
	// use the SIFT_DATA_DIR environment variable to override.
	DataDir string `mapstructure:"-"`

	// Database configuration
	Database DatabaseConfig `mapstructure:"database"`

	// LLM provider configuration
	LLM LLMConfig `mapstructure:"llm"`

	// Agent configuration
	Agent AgentConfig `mapstructure:"agent"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// DatabaseConfig holds data-source configuration.
type DatabaseConfig struct {
	// Driver is the database/sql driver name (sqlite3, postgres, mysql)
	Driver string `mapstructure:"driver"`

	// Locations are candidate data sources, tried in order until one opens
	Locations []string `mapstructure:"locations"`

	// Capabilities are statements run on each fresh connection before use
	Capabilities []string `mapstructure:"capabilities"`

	// MaxRows caps materialized rows per query (0 = backend default)
	MaxRows int `mapstructure:"max_rows"`
}

// LLMConfig holds LLM provider configuration.
type LLMConfig struct {
	// Provider is the LLM provider (openai, anthropic)
	Provider string `mapstructure:"provider"`

	// APIKey for the provider (or use keyring/env)
	APIKey string `mapstructure:"api_key"`

	// Model overrides the provider default
	Model string `mapstructure:"model"`

	// Endpoint overrides the provider default
	Endpoint string `mapstructure:"endpoint"`

	// TimeoutSeconds is the per-request HTTP timeout
	TimeoutSeconds int `mapstructure:"timeout_seconds"`

	// MaxTokens per request
	MaxTokens int `mapstructure:"max_tokens"`

	// Temperature for generation
	Temperature float64 `mapstructure:"temperature"`

	// Retry configuration for transport failures
	Retry RetryConfig `mapstructure:"retry"`
}

// RetryConfig holds LLM transport retry configuration.
type RetryConfig struct {
	Enabled             bool    `mapstructure:"enabled"`
	MaxRetries          int     `mapstructure:"max_retries"`
	InitialDelaySeconds int     `mapstructure:"initial_delay_seconds"`
	MaxDelaySeconds     int     `mapstructure:"max_delay_seconds"`
	Multiplier          float64 `mapstructure:"multiplier"`
}

// AgentConfig holds question-answering configuration.
type AgentConfig struct {
	// MaxAttempts bounds the generate/correct cycle per question
	MaxAttempts int `mapstructure:"max_attempts"`

	// RowLimit is the row limit the generator is asked to respect
	RowLimit int `mapstructure:"row_limit"`

	// Relationships is a YAML file with schema relationship notes
	Relationships string `mapstructure:"relationships"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the log level (debug, info, warn, error)
	Level string `mapstructure:"level"`

	// Format is the log format (text, json)
	Format string `mapstructure:"format"`
}

// LoadConfig loads configuration from file, environment and flags.
func LoadConfig(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config search paths (in order of priority)
		viper.AddConfigPath(siftconfig.GetDataDir())
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/sift/")
		viper.SetConfigName(DefaultConfigFileName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
		// Config file not found; using defaults + env vars + flags
	}

	viper.SetEnvPrefix("SIFT")
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.DataDir = siftconfig.GetDataDir()

	// Non-fatal: keyring might not be available, the key can still come
	// from CLI or env.
	_ = loadSecretsFromKeyring(&config)

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.locations", []string{siftconfig.DefaultDatabasePath()})
	viper.SetDefault("database.max_rows", 0)

	viper.SetDefault("llm.provider", "openai")
	viper.SetDefault("llm.timeout_seconds", 120)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.retry.enabled", true)
	viper.SetDefault("llm.retry.max_retries", 3)
	viper.SetDefault("llm.retry.initial_delay_seconds", 1)
	viper.SetDefault("llm.retry.max_delay_seconds", 30)
	viper.SetDefault("llm.retry.multiplier", 2.0)

	viper.SetDefault("agent.max_attempts", 3)
	viper.SetDefault("agent.row_limit", 100)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
}

// loadSecretsFromKeyring fills the API key from the OS keyring when it was
// not provided via flag, config file or environment.
func loadSecretsFromKeyring(config *Config) error {
	if config.LLM.APIKey != "" {
		return nil
	}
	key, err := keyring.Get(ServiceName, config.LLM.Provider+"_api_key")
	if err != nil {
		return err
	}
	config.LLM.APIKey = key
	return nil
}

// buildManager constructs the connection manager from config.
func buildManager(cfg *Config, logger *zap.Logger) (*backend.Manager, error) {
	candidates := make([]backend.Candidate, 0, len(cfg.Database.Locations))
	for _, loc := range cfg.Database.Locations {
		candidates = append(candidates, backend.Candidate{
			Driver: cfg.Database.Driver,
			DSN:    loc,
		})
	}
	return backend.NewManager(backend.ManagerConfig{
		Candidates:   candidates,
		Capabilities: cfg.Database.Capabilities,
		Logger:       logger,
	})
}

// buildProvider constructs the LLM provider from config.
func buildProvider(cfg *Config) (llm.Provider, error) {
	return factory.NewProvider(factory.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		Endpoint:    cfg.LLM.Endpoint,
		Timeout:     time.Duration(cfg.LLM.TimeoutSeconds) * time.Second,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
}

// retryConfig converts config retry settings to the llm package's form.
func retryConfig(cfg *Config) llm.RetryConfig {
	return llm.RetryConfig{
		Enabled:      cfg.LLM.Retry.Enabled,
		MaxRetries:   cfg.LLM.Retry.MaxRetries,
		InitialDelay: time.Duration(cfg.LLM.Retry.InitialDelaySeconds) * time.Second,
		MaxDelay:     time.Duration(cfg.LLM.Retry.MaxDelaySeconds) * time.Second,
		Multiplier:   cfg.LLM.Retry.Multiplier,
	}
}
