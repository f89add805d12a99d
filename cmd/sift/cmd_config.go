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
	"path/filepath"

	"github.com/spf13/cobra"
	siftconfig "github.com/teradata-labs/sift/pkg/config"
	"github.com/zalando/go-keyring"
	"golang.org/x/term"
)

// secretKeys are the key names accepted by the keyring commands.
var secretKeys = []string{"openai_api_key", "anthropic_api_key"}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage sift configuration",
	Long:  `Manage configuration files and secrets for sift.`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate example configuration file",
	Long:  `Generate an example sift.yaml configuration file in the data directory.`,
	Run:   runConfigInit,
}

var configSetKeyCmd = &cobra.Command{
	Use:   "set-key [key-name]",
	Short: "Save API key to system keyring",
	Long: `Save an API key to the system keyring securely.

The key will be stored in your system's secure credential storage
(Keychain on macOS, Credential Manager on Windows, Secret Service on Linux).`,
	Args: cobra.ExactArgs(1),
	Run:  runConfigSetKey,
}

var configDeleteKeyCmd = &cobra.Command{
	Use:   "delete-key [key-name]",
	Short: "Delete API key from system keyring",
	Args:  cobra.ExactArgs(1),
	Run:   runConfigDeleteKey,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the current configuration (merged from all sources).`,
	Run:   runConfigShow,
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configSetKeyCmd)
	configCmd.AddCommand(configDeleteKeyCmd)
	configCmd.AddCommand(configShowCmd)
}

const exampleConfig = `# sift configuration
database:
  driver: sqlite3
  locations:
    - ~/.sift/sift.db
  # capabilities:
  #   - PRAGMA foreign_keys = ON

llm:
  provider: openai
  # model: gpt-4.1
  temperature: 0.2
  max_tokens: 4096

agent:
  max_attempts: 3
  row_limit: 100
  # relationships: ~/.sift/relationships.yaml

logging:
  level: info
  format: text
`

func runConfigInit(cmd *cobra.Command, args []string) {
	dir, err := siftconfig.EnsureDataDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating data directory: %v\n", err)
		os.Exit(1)
	}
	path := filepath.Join(dir, DefaultConfigFileName+".yaml")
	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(os.Stderr, "Config file already exists: %s\n", path)
		os.Exit(1)
	}
	if err := os.WriteFile(path, []byte(exampleConfig), 0o600); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing config file: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created %s\n", path)
}

func runConfigSetKey(cmd *cobra.Command, args []string) {
	keyName := args[0]
	if !validSecretKey(keyName) {
		fmt.Fprintf(os.Stderr, "Invalid key name: %s\n", keyName)
		fmt.Fprintf(os.Stderr, "Available keys:\n")
		for _, k := range secretKeys {
			fmt.Fprintf(os.Stderr, "  - %s\n", k)
		}
		os.Exit(1)
	}

	// Read secret from stdin (without echo)
	fmt.Printf("Enter %s (input hidden): ", keyName)
	secretBytes, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}

	secret := string(secretBytes)
	if secret == "" {
		fmt.Fprintf(os.Stderr, "Secret cannot be empty\n")
		os.Exit(1)
	}

	if err := keyring.Set(ServiceName, keyName, secret); err != nil {
		fmt.Fprintf(os.Stderr, "Error saving to keyring: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Saved %s to system keyring\n", keyName)
}

func runConfigDeleteKey(cmd *cobra.Command, args []string) {
	keyName := args[0]
	if err := keyring.Delete(ServiceName, keyName); err != nil {
		fmt.Fprintf(os.Stderr, "Error deleting from keyring: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Deleted %s from system keyring\n", keyName)
}

func runConfigShow(cmd *cobra.Command, args []string) {
	cfg := config
	fmt.Printf("Data directory: %s\n\n", cfg.DataDir)
	apiKey := "(not set)"
	if cfg.LLM.APIKey != "" {
		apiKey = "(set)"
	}
	fmt.Printf("database.driver:       %s\n", cfg.Database.Driver)
	fmt.Printf("database.locations:    %v\n", cfg.Database.Locations)
	fmt.Printf("database.capabilities: %v\n", cfg.Database.Capabilities)
	fmt.Printf("database.max_rows:     %d\n", cfg.Database.MaxRows)
	fmt.Printf("llm.provider:          %s\n", cfg.LLM.Provider)
	fmt.Printf("llm.model:             %s\n", cfg.LLM.Model)
	fmt.Printf("llm.api_key:           %s\n", apiKey)
	fmt.Printf("agent.max_attempts:    %d\n", cfg.Agent.MaxAttempts)
	fmt.Printf("agent.row_limit:       %d\n", cfg.Agent.RowLimit)
	fmt.Printf("logging.level:         %s\n", cfg.Logging.Level)
	fmt.Printf("logging.format:        %s\n", cfg.Logging.Format)
}

func validSecretKey(name string) bool {
	for _, k := range secretKeys {
		if k == name {
			return true
		}
	}
	return false
}
