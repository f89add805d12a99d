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
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sift.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := writeConfigFile(t, "")
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.Locations)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 4096, cfg.LLM.MaxTokens)
	assert.Equal(t, 3, cfg.Agent.MaxAttempts)
	assert.Equal(t, 100, cfg.Agent.RowLimit)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.True(t, cfg.LLM.Retry.Enabled)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxRetries)
}

func TestLoadConfigFromFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	path := writeConfigFile(t, `
database:
  driver: postgres
  locations:
    - "host=db1 dbname=olist"
    - "host=db2 dbname=olist"
  capabilities:
    - "SET statement_timeout = 30000"
  max_rows: 500

llm:
  provider: anthropic
  model: claude-3-haiku
  timeout_seconds: 45

agent:
  max_attempts: 5
  row_limit: 20

logging:
  level: debug
  format: json
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, []string{"host=db1 dbname=olist", "host=db2 dbname=olist"}, cfg.Database.Locations)
	assert.Equal(t, []string{"SET statement_timeout = 30000"}, cfg.Database.Capabilities)
	assert.Equal(t, 500, cfg.Database.MaxRows)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, "claude-3-haiku", cfg.LLM.Model)
	assert.Equal(t, 45, cfg.LLM.TimeoutSeconds)
	assert.Equal(t, 5, cfg.Agent.MaxAttempts)
	assert.Equal(t, 20, cfg.Agent.RowLimit)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestBuildManagerFromConfig(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver:    "sqlite3",
			Locations: []string{"/tmp/a.db", "/tmp/b.db"},
		},
	}

	m, err := buildManager(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, m)
}

func TestRetryConfigConversion(t *testing.T) {
	cfg := &Config{
		LLM: LLMConfig{
			Retry: RetryConfig{
				Enabled:             true,
				MaxRetries:          4,
				InitialDelaySeconds: 2,
				MaxDelaySeconds:     60,
				Multiplier:          3.0,
			},
		},
	}

	rc := retryConfig(cfg)
	assert.True(t, rc.Enabled)
	assert.Equal(t, 4, rc.MaxRetries)
	assert.Equal(t, 2*time.Second, rc.InitialDelay)
	assert.Equal(t, 60*time.Second, rc.MaxDelay)
	assert.Equal(t, 3.0, rc.Multiplier)
}
