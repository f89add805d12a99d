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
package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/teradata-labs/sift/pkg/backend"
	"github.com/teradata-labs/sift/pkg/llm"
)

// Generator produces candidate SQL from a user question. Output carries no
// safety guarantees and must pass the gate before execution.
type Generator interface {
	GenerateSQL(ctx context.Context, question string, sc *SchemaContext) (string, error)
}

// Corrector produces a corrected candidate from a failed one and the error
// or rejection reason that felled it.
type Corrector interface {
	CorrectSQL(ctx context.Context, failedSQL, cause string) (string, error)
}

// Analyzer turns a successful execution into a natural-language summary.
type Analyzer interface {
	AnalyzeResult(ctx context.Context, question, sqlText string, result *backend.QueryResult) (string, error)
}

// CollaboratorsConfig configures the LLM-backed collaborators.
type CollaboratorsConfig struct {
	// Provider is the text-completion provider. Required.
	Provider llm.Provider

	// Retry wraps transport failures; zero value disables retry.
	Retry llm.RetryConfig

	// RowLimit is the row-limit instruction embedded in prompts. Default: 100.
	RowLimit int
}

// Collaborators implements Generator, Corrector and Analyzer on top of one
// text-completion provider.
type Collaborators struct {
	provider llm.Provider
	retry    llm.RetryConfig
	rowLimit int
}

// NewCollaborators creates the LLM-backed collaborator set.
func NewCollaborators(cfg CollaboratorsConfig) (*Collaborators, error) {
	if cfg.Provider == nil {
		return nil, fmt.Errorf("Provider is required")
	}
	if cfg.RowLimit == 0 {
		cfg.RowLimit = 100
	}
	return &Collaborators{
		provider: cfg.Provider,
		retry:    cfg.Retry,
		rowLimit: cfg.RowLimit,
	}, nil
}

// GenerateSQL asks the provider to translate the question into SQL.
func (c *Collaborators) GenerateSQL(ctx context.Context, question string, sc *SchemaContext) (string, error) {
	resp, err := c.complete(ctx, generateSQLPrompt(sc, question))
	if err != nil {
		return "", fmt.Errorf("sql generation failed: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// CorrectSQL asks the provider to repair a failed query.
func (c *Collaborators) CorrectSQL(ctx context.Context, failedSQL, cause string) (string, error) {
	resp, err := c.complete(ctx, fixSQLPrompt(failedSQL, cause, c.rowLimit))
	if err != nil {
		return "", fmt.Errorf("sql correction failed: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

// AnalyzeResult asks the provider to summarize a successful execution.
func (c *Collaborators) AnalyzeResult(ctx context.Context, question, sqlText string, result *backend.QueryResult) (string, error) {
	resp, err := c.complete(ctx, analyzeResultPrompt(question, sqlText, formatResult(result)))
	if err != nil {
		return "", fmt.Errorf("result analysis failed: %w", err)
	}
	return strings.TrimSpace(resp.Content), nil
}

func (c *Collaborators) complete(ctx context.Context, prompt string) (*llm.Response, error) {
	messages := []llm.Message{{Role: "user", Content: prompt}}
	return llm.CompleteWithRetry(ctx, c.provider, messages, c.retry)
}

var (
	_ Generator = (*Collaborators)(nil)
	_ Corrector = (*Collaborators)(nil)
	_ Analyzer  = (*Collaborators)(nil)
)
