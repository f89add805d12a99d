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
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/teradata-labs/sift/internal/version"
	siftconfig "github.com/teradata-labs/sift/pkg/config"
)

var (
	cfgFile string
	config  *Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:     "sift",
	Short:   "Sift - Natural-language questions over SQL databases",
	Long:    `Sift answers natural-language questions against analytical SQL databases. It generates read-only SQL with an LLM, validates it through a layered safety gate, executes it against the first reachable data source, and self-corrects on failures.`,
	Version: version.Get(),
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $SIFT_DATA_DIR/sift.yaml)")

	// Database flags
	defaultDBPath := siftconfig.DefaultDatabasePath()
	rootCmd.PersistentFlags().StringSlice("db", []string{defaultDBPath}, "candidate data-source locations, tried in order")
	rootCmd.PersistentFlags().String("driver", "sqlite3", "database driver (sqlite3, postgres, mysql)")
	rootCmd.PersistentFlags().StringSlice("capability", nil, "statement run on each fresh connection before use")
	rootCmd.PersistentFlags().Int("max-rows", 0, "hard cap on materialized rows per query (0=default, negative=unlimited)")

	// LLM flags
	rootCmd.PersistentFlags().String("llm-provider", "openai", "LLM provider (openai, anthropic)")
	rootCmd.PersistentFlags().String("api-key", "", "LLM API key (or use keyring/env)")
	rootCmd.PersistentFlags().String("model", "", "LLM model (provider default if empty)")
	rootCmd.PersistentFlags().String("endpoint", "", "LLM API endpoint (provider default if empty)")
	rootCmd.PersistentFlags().Float64("temperature", 0.2, "LLM temperature")
	rootCmd.PersistentFlags().Int("max-tokens", 4096, "Maximum tokens per request")

	// Agent flags
	rootCmd.PersistentFlags().Int("max-attempts", 3, "maximum SQL generation attempts per question")
	rootCmd.PersistentFlags().Int("row-limit", 100, "row limit the generator is asked to respect")
	rootCmd.PersistentFlags().String("relationships", "", "YAML file with schema relationship notes for the prompt")

	// Logging flags
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "text", "Log format (text, json)")

	// Bind flags to viper
	_ = viper.BindPFlag("database.locations", rootCmd.PersistentFlags().Lookup("db"))
	_ = viper.BindPFlag("database.driver", rootCmd.PersistentFlags().Lookup("driver"))
	_ = viper.BindPFlag("database.capabilities", rootCmd.PersistentFlags().Lookup("capability"))
	_ = viper.BindPFlag("database.max_rows", rootCmd.PersistentFlags().Lookup("max-rows"))

	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.api_key", rootCmd.PersistentFlags().Lookup("api-key"))
	_ = viper.BindPFlag("llm.model", rootCmd.PersistentFlags().Lookup("model"))
	_ = viper.BindPFlag("llm.endpoint", rootCmd.PersistentFlags().Lookup("endpoint"))
	_ = viper.BindPFlag("llm.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("llm.max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))

	_ = viper.BindPFlag("agent.max_attempts", rootCmd.PersistentFlags().Lookup("max-attempts"))
	_ = viper.BindPFlag("agent.row_limit", rootCmd.PersistentFlags().Lookup("row-limit"))
	_ = viper.BindPFlag("agent.relationships", rootCmd.PersistentFlags().Lookup("relationships"))

	_ = viper.BindPFlag("logging.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	var err error
	config, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
}
