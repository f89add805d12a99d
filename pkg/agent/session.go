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

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/teradata-labs/sift/pkg/backend"
	"github.com/teradata-labs/sift/pkg/gate"
	"github.com/teradata-labs/sift/pkg/llm"
)

// SessionConfig wires a session together.
type SessionConfig struct {
	// Manager hands out the session's database handle. Required.
	Manager *backend.Manager

	// Provider backs the generation, correction and analysis collaborators.
	// Required.
	Provider llm.Provider

	// Retry wraps provider transport failures.
	Retry llm.RetryConfig

	// MaxAttempts bounds the correction cycle. Default: 3.
	MaxAttempts int

	// MaxRows caps materialized rows per query. 0 uses the backend default.
	MaxRows int

	// RowLimit is the row-limit instruction given to the generator.
	// Default: 100.
	RowLimit int

	// Relationships is the rendered relationship-notes prompt block.
	Relationships string

	Logger *zap.Logger
}

// Session serves one worker's questions. It owns the worker ID, acquires
// the worker's connection handle lazily, snapshots the schema context on
// first use, and runs the orchestrator for each question. A session's
// questions run strictly sequentially; concurrent requests get their own
// sessions.
type Session struct {
	cfg      SessionConfig
	workerID string

	orch *Orchestrator
}

// NewSession creates a session with a fresh worker ID.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.Manager == nil {
		return nil, fmt.Errorf("Manager is required")
	}
	if cfg.Provider == nil {
		return nil, fmt.Errorf("Provider is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Session{
		cfg:      cfg,
		workerID: uuid.NewString(),
	}, nil
}

// WorkerID returns the session's worker identity.
func (s *Session) WorkerID() string {
	return s.workerID
}

// Ask answers one question. The first call connects the worker's handle and
// fetches the schema context; later calls reuse both.
func (s *Session) Ask(ctx context.Context, question string) (*Answer, error) {
	if s.orch == nil {
		if err := s.init(ctx); err != nil {
			return nil, err
		}
	}
	return s.orch.Ask(ctx, question)
}

// init acquires the handle, builds the execution backend and snapshots the
// schema context.
func (s *Session) init(ctx context.Context) error {
	handle, err := s.cfg.Manager.Get(ctx, s.workerID)
	if err != nil {
		return err
	}

	exec, err := backend.NewSQLBackend(backend.SQLConfig{
		DB:      handle.DB(),
		Driver:  handle.Driver(),
		MaxRows: s.cfg.MaxRows,
		Logger:  s.cfg.Logger,
	})
	if err != nil {
		return err
	}

	rowLimit := s.cfg.RowLimit
	if rowLimit == 0 {
		rowLimit = 100
	}
	schema, err := LoadSchemaContext(ctx, exec, s.cfg.Relationships, rowLimit)
	if err != nil {
		return err
	}
	s.cfg.Logger.Info("schema context loaded",
		zap.String("worker", s.workerID),
		zap.String("location", handle.Location()),
		zap.Int("tables", len(schema.Tables)),
		zap.Int("columns", len(schema.Columns)))

	collab, err := NewCollaborators(CollaboratorsConfig{
		Provider: s.cfg.Provider,
		Retry:    s.cfg.Retry,
		RowLimit: rowLimit,
	})
	if err != nil {
		return err
	}

	orch, err := NewOrchestrator(Config{
		Gate:        gate.NewValidator(s.cfg.Logger),
		Backend:     exec,
		Generator:   collab,
		Corrector:   collab,
		Analyzer:    collab,
		Schema:      schema,
		MaxAttempts: s.cfg.MaxAttempts,
		Logger:      s.cfg.Logger,
	})
	if err != nil {
		return err
	}

	s.orch = orch
	return nil
}

// Close releases the worker's handle.
func (s *Session) Close() error {
	return s.cfg.Manager.Release(s.workerID)
}
