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
package backend

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Candidate is one data-source location the manager may connect to.
type Candidate struct {
	// Driver is the database/sql driver name ("sqlite3", "postgres", "mysql").
	Driver string

	// DSN is the driver-specific data source name or file path.
	DSN string
}

// Location renders the candidate for logs and error messages.
func (c Candidate) Location() string {
	return c.Driver + ":" + c.DSN
}

// Handle is one worker's open connection to exactly one resolved candidate.
// A handle is owned exclusively by the worker it was created for and must
// not be shared across workers.
type Handle struct {
	worker    string
	candidate Candidate
	db        *sql.DB
}

// DB returns the underlying connection pool.
func (h *Handle) DB() *sql.DB { return h.db }

// Driver returns the driver name the handle was opened with.
func (h *Handle) Driver() string { return h.candidate.Driver }

// Location returns the resolved candidate location.
func (h *Handle) Location() string { return h.candidate.Location() }

// Close closes the underlying connection.
func (h *Handle) Close() error { return h.db.Close() }

// AttemptedLocation records one failed candidate open.
type AttemptedLocation struct {
	Location string
	Err      error
}

// NoDataSourceError is returned when every configured candidate failed to
// open. It is fatal for the calling worker's request; retrying the same
// unreachable locations has no expected benefit.
type NoDataSourceError struct {
	Attempts []AttemptedLocation
}

func (e *NoDataSourceError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Location, a.Err)
	}
	return "no available data source, attempted: " + strings.Join(parts, "; ")
}

// ManagerConfig holds configuration for the connection manager.
type ManagerConfig struct {
	// Candidates is the ordered, non-empty list of data-source locations.
	Candidates []Candidate

	// Capabilities are statements run on a freshly opened connection before
	// its handle is returned (e.g. SQLite PRAGMAs enabling foreign keys or
	// query-time settings). Capability activation, not data mutation; a
	// failing capability statement fails that candidate.
	Capabilities []string

	// Logger for manager operations.
	Logger *zap.Logger
}

// Manager owns per-worker database handles. On a worker's first Get it walks
// the candidate list in order and caches the first success for that worker;
// subsequent Gets return the cached handle without re-attempting anything.
//
// Handles themselves are never shared between workers. The mutex guards only
// the manager's own bookkeeping map.
type Manager struct {
	cfg ManagerConfig

	mu      sync.Mutex
	handles map[string]*Handle
}

// NewManager creates a connection manager.
func NewManager(cfg ManagerConfig) (*Manager, error) {
	if len(cfg.Candidates) == 0 {
		return nil, fmt.Errorf("at least one candidate data source is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Manager{
		cfg:     cfg,
		handles: make(map[string]*Handle),
	}, nil
}

// Get returns the worker's cached handle, opening one on first use. When no
// candidate can be opened it returns *NoDataSourceError carrying every
// attempted location and its failure reason.
func (m *Manager) Get(ctx context.Context, workerID string) (*Handle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h, ok := m.handles[workerID]; ok {
		return h, nil
	}

	var attempts []AttemptedLocation
	for _, cand := range m.cfg.Candidates {
		db, err := m.open(ctx, cand)
		if err != nil {
			m.cfg.Logger.Warn("failed to connect to candidate",
				zap.String("location", cand.Location()),
				zap.Error(err))
			attempts = append(attempts, AttemptedLocation{Location: cand.Location(), Err: err})
			continue
		}

		m.cfg.Logger.Info("database connected",
			zap.String("worker", workerID),
			zap.String("location", cand.Location()))

		h := &Handle{worker: workerID, candidate: cand, db: db}
		m.handles[workerID] = h
		return h, nil
	}

	return nil, &NoDataSourceError{Attempts: attempts}
}

// open attempts one candidate: open, ping, activate capabilities.
func (m *Manager) open(ctx context.Context, cand Candidate) (*sql.DB, error) {
	db, err := sql.Open(cand.Driver, cand.DSN)
	if err != nil {
		return nil, fmt.Errorf("open failed: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping failed: %w", err)
	}

	for _, stmt := range m.cfg.Capabilities {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("capability activation %q failed: %w", stmt, err)
		}
	}
	if len(m.cfg.Capabilities) > 0 {
		m.cfg.Logger.Info("capabilities activated",
			zap.String("location", cand.Location()),
			zap.Int("count", len(m.cfg.Capabilities)))
	}

	return db, nil
}

// Release closes and evicts the worker's handle, if any.
func (m *Manager) Release(workerID string) error {
	m.mu.Lock()
	h, ok := m.handles[workerID]
	delete(m.handles, workerID)
	m.mu.Unlock()

	if !ok {
		return nil
	}
	return h.Close()
}

// Close releases every cached handle.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var firstErr error
	for worker, h := range m.handles {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(m.handles, worker)
	}
	return firstErr
}
