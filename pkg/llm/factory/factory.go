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
// Package factory creates llm.Provider instances from configuration.
package factory

import (
	"fmt"
	"time"

	"github.com/teradata-labs/sift/pkg/llm"
	"github.com/teradata-labs/sift/pkg/llm/anthropic"
	"github.com/teradata-labs/sift/pkg/llm/openai"
)

// Config selects and configures a provider.
type Config struct {
	// Provider is "openai" or "anthropic".
	Provider string

	APIKey      string
	Model       string
	Endpoint    string
	Timeout     time.Duration
	MaxTokens   int
	Temperature float64
}

// NewProvider creates a provider from config.
func NewProvider(cfg Config) (llm.Provider, error) {
	switch cfg.Provider {
	case "openai", "":
		return openai.NewClient(openai.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Endpoint:    cfg.Endpoint,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}), nil

	case "anthropic":
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			Endpoint:    cfg.Endpoint,
			Timeout:     cfg.Timeout,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s (supported: openai, anthropic)", cfg.Provider)
	}
}
