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
// Package agent coordinates the generate, validate, execute, correct and
// analyze cycle for one user question against a connected data source.
package agent

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/teradata-labs/sift/pkg/backend"
	"github.com/teradata-labs/sift/pkg/gate"
)

// DefaultMaxAttempts bounds the generate/correct cycle per question.
const DefaultMaxAttempts = 3

// Attempt records one candidate's trip through the cycle.
type Attempt struct {
	// Index is the zero-based attempt index.
	Index int

	// SQL is the candidate text as produced by the generator or corrector.
	SQL string

	// Verdict is the gate's decision for this candidate.
	Verdict gate.Verdict

	// Executed is true when the candidate reached the database.
	Executed bool

	// ExecError holds the engine's error message when execution failed.
	ExecError string

	// RowCount is the materialized row count on success.
	RowCount int
}

// Cause is the error text this attempt feeds into the correction step.
func (a Attempt) Cause() string {
	if !a.Verdict.Accepted {
		return a.Verdict.Cause()
	}
	return a.ExecError
}

// Answer is a successful outcome: the executed SQL, its materialized result
// and the analysis collaborator's summary.
type Answer struct {
	Question     string
	SQL          string
	Result       *backend.QueryResult
	Summary      string
	AttemptIndex int
	Attempts     []Attempt
}

// ExhaustedError is returned when the maximum attempt count produced no
// successful execution. It is an expected, user-visible outcome, not a
// crash; Explanation renders it for the caller.
type ExhaustedError struct {
	MaxAttempts int
	LastCause   string
	Attempts    []Attempt
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no successful execution after %d attempts: %s", e.MaxAttempts, e.LastCause)
}

// Explanation renders the full attempt history for the user.
func (e *ExhaustedError) Explanation() string {
	var b strings.Builder
	fmt.Fprintf(&b, "I could not answer the question: all %d attempts to produce a working query failed.\n", e.MaxAttempts)
	fmt.Fprintf(&b, "Last error: %s\n\nAttempts:\n", e.LastCause)
	for _, a := range e.Attempts {
		fmt.Fprintf(&b, "  %d. %s\n     -> %s\n", a.Index+1, a.SQL, a.Cause())
	}
	return b.String()
}

// orchestrator states, logged as the cycle progresses.
const (
	stateGenerating = "generating"
	stateValidating = "validating"
	stateExecuting  = "executing"
	stateCorrecting = "correcting"
	stateSucceeded  = "succeeded"
	stateExhausted  = "exhausted"
)

// Config holds the orchestrator's collaborators and policy.
type Config struct {
	Gate      *gate.Validator
	Backend   backend.ExecutionBackend
	Generator Generator
	Corrector Corrector
	Analyzer  Analyzer

	// Schema is the session's static generation context.
	Schema *SchemaContext

	// MaxAttempts bounds the cycle. Default: 3.
	MaxAttempts int

	Logger *zap.Logger
}

// Orchestrator runs the bounded state machine for one question at a time:
// Generating -> Validating -> Executing -> {Succeeded | Correcting -> Validating | Exhausted}.
// A rejected verdict feeds its reason into correction without touching the
// database; an execution failure feeds the engine's error the same way.
// Attempts are strictly sequential; each correction needs the previous
// attempt's text and cause.
type Orchestrator struct {
	gate        *gate.Validator
	backend     backend.ExecutionBackend
	generator   Generator
	corrector   Corrector
	analyzer    Analyzer
	schema      *SchemaContext
	maxAttempts int
	logger      *zap.Logger
}

// NewOrchestrator creates an orchestrator.
func NewOrchestrator(cfg Config) (*Orchestrator, error) {
	if cfg.Gate == nil {
		return nil, fmt.Errorf("Gate is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("Backend is required")
	}
	if cfg.Generator == nil || cfg.Corrector == nil || cfg.Analyzer == nil {
		return nil, fmt.Errorf("Generator, Corrector and Analyzer are required")
	}
	if cfg.Schema == nil {
		return nil, fmt.Errorf("Schema is required")
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Orchestrator{
		gate:        cfg.Gate,
		backend:     cfg.Backend,
		generator:   cfg.Generator,
		corrector:   cfg.Corrector,
		analyzer:    cfg.Analyzer,
		schema:      cfg.Schema,
		maxAttempts: cfg.MaxAttempts,
		logger:      cfg.Logger,
	}, nil
}

// Ask runs the full cycle for one question. It returns an Answer on
// success, *ExhaustedError when the attempt budget runs out, or a plain
// error when a collaborator call itself fails or the context is cancelled.
func (o *Orchestrator) Ask(ctx context.Context, question string) (*Answer, error) {
	o.logger.Debug("state transition", zap.String("state", stateGenerating))
	sqlText, err := o.generator.GenerateSQL(ctx, question, o.schema)
	if err != nil {
		return nil, fmt.Errorf("generation failed: %w", err)
	}

	var attempts []Attempt
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		o.logger.Debug("state transition",
			zap.String("state", stateValidating),
			zap.Int("attempt", attempt))
		verdict := o.gate.Validate(sqlText)
		rec := Attempt{Index: attempt, SQL: sqlText, Verdict: verdict}

		if verdict.Accepted {
			o.logger.Debug("state transition",
				zap.String("state", stateExecuting),
				zap.Int("attempt", attempt))

			result, execErr := o.backend.ExecuteQuery(ctx, verdict.SQL)
			rec.Executed = true

			if execErr == nil {
				rec.RowCount = result.RowCount
				attempts = append(attempts, rec)

				o.logger.Info("query succeeded",
					zap.String("state", stateSucceeded),
					zap.Int("attempt", attempt),
					zap.Int("rows", result.RowCount))

				summary, aerr := o.analyzer.AnalyzeResult(ctx, question, verdict.SQL, result)
				if aerr != nil {
					return nil, fmt.Errorf("analysis failed: %w", aerr)
				}
				return &Answer{
					Question:     question,
					SQL:          verdict.SQL,
					Result:       result,
					Summary:      summary,
					AttemptIndex: attempt,
					Attempts:     attempts,
				}, nil
			}

			if ctx.Err() != nil {
				return nil, execErr
			}
			rec.ExecError = execErr.Error()
			o.logger.Warn("execution failed",
				zap.Int("attempt", attempt),
				zap.String("error", rec.ExecError))
		} else {
			o.logger.Warn("validation rejected candidate",
				zap.Int("attempt", attempt),
				zap.String("reason", string(verdict.Reason)),
				zap.String("pattern", verdict.Pattern))
		}

		attempts = append(attempts, rec)

		// A rejected verdict consumes an attempt the same as an execution
		// failure; the budget bounds total candidates, not database trips.
		if attempt+1 >= o.maxAttempts {
			o.logger.Warn("attempts exhausted",
				zap.String("state", stateExhausted),
				zap.Int("max_attempts", o.maxAttempts))
			return nil, &ExhaustedError{
				MaxAttempts: o.maxAttempts,
				LastCause:   rec.Cause(),
				Attempts:    attempts,
			}
		}

		o.logger.Debug("state transition",
			zap.String("state", stateCorrecting),
			zap.Int("attempt", attempt))
		corrected, cerr := o.corrector.CorrectSQL(ctx, sqlText, rec.Cause())
		if cerr != nil {
			return nil, fmt.Errorf("correction failed: %w", cerr)
		}
		sqlText = corrected
	}
}
