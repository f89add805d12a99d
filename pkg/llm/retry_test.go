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
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyProvider fails a fixed number of times before succeeding.
type flakyProvider struct {
	failures int
	calls    int
}

func (p *flakyProvider) Name() string  { return "flaky" }
func (p *flakyProvider) Model() string { return "test" }

func (p *flakyProvider) Complete(ctx context.Context, messages []Message) (*Response, error) {
	p.calls++
	if p.calls <= p.failures {
		return nil, errors.New("transient failure")
	}
	return &Response{Content: "ok"}, nil
}

func fastRetry(maxRetries int) RetryConfig {
	return RetryConfig{
		Enabled:      true,
		MaxRetries:   maxRetries,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestCompleteWithRetrySucceedsAfterFailures(t *testing.T) {
	p := &flakyProvider{failures: 2}

	resp, err := CompleteWithRetry(context.Background(), p, []Message{{Role: "user", Content: "q"}}, fastRetry(3))
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.Content)
	assert.Equal(t, 3, p.calls)
}

func TestCompleteWithRetryExhausts(t *testing.T) {
	p := &flakyProvider{failures: 10}

	_, err := CompleteWithRetry(context.Background(), p, []Message{{Role: "user", Content: "q"}}, fastRetry(2))
	require.Error(t, err)
	assert.Equal(t, 3, p.calls) // initial attempt plus two retries
}

func TestCompleteWithRetryDisabled(t *testing.T) {
	p := &flakyProvider{failures: 1}

	_, err := CompleteWithRetry(context.Background(), p, []Message{{Role: "user", Content: "q"}}, RetryConfig{Enabled: false})
	require.Error(t, err)
	assert.Equal(t, 1, p.calls)
}

func TestCompleteWithRetryCancellation(t *testing.T) {
	p := &flakyProvider{failures: 10}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := fastRetry(5)
	cfg.InitialDelay = time.Second

	_, err := CompleteWithRetry(ctx, p, []Message{{Role: "user", Content: "q"}}, cfg)
	require.Error(t, err)
	assert.LessOrEqual(t, p.calls, 1)
}

func TestDefaultRetryConfig(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.True(t, cfg.Enabled)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, time.Second, cfg.InitialDelay)
}
