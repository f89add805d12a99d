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
package llm

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// RetryConfig controls transport-level retry for provider calls. This is
// distinct from the agent's semantic correction loop: it retries the same
// request on transient API failures.
type RetryConfig struct {
	Enabled      bool
	MaxRetries   int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DefaultRetryConfig returns sensible defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		Enabled:      true,
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2.0,
	}
}

// CompleteWithRetry wraps a provider call with exponential backoff retry
// logic. Context cancellation aborts immediately, both between attempts and
// while sleeping.
func CompleteWithRetry(ctx context.Context, p Provider, messages []Message, cfg RetryConfig) (*Response, error) {
	if !cfg.Enabled || cfg.MaxRetries == 0 {
		return p.Complete(ctx, messages)
	}

	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		response, err := p.Complete(ctx, messages)
		if err == nil {
			if attempt > 0 {
				zap.L().Info("llm retry succeeded",
					zap.String("provider", p.Name()),
					zap.Int("attempt", attempt+1),
				)
			}
			return response, nil
		}

		lastErr = err

		// Don't retry on context cancellation or deadline exceeded
		if ctx.Err() != nil {
			return nil, fmt.Errorf("llm call failed (attempt %d/%d): %w (context cancelled)",
				attempt+1, cfg.MaxRetries+1, err)
		}

		if attempt >= cfg.MaxRetries {
			break
		}

		zap.L().Warn("llm call failed, retrying",
			zap.String("provider", p.Name()),
			zap.Int("attempt", attempt+1),
			zap.Int("max_retries", cfg.MaxRetries),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("llm call failed (attempt %d/%d): %w (context cancelled during retry)",
				attempt+1, cfg.MaxRetries+1, ctx.Err())
		case <-time.After(delay):
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	zap.L().Error("llm retries exhausted",
		zap.String("provider", p.Name()),
		zap.Int("max_retries", cfg.MaxRetries),
		zap.Error(lastErr),
	)

	return nil, fmt.Errorf("llm call failed after %d attempts: %w",
		cfg.MaxRetries+1, lastErr)
}
