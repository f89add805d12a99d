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
	"time"

	"go.uber.org/zap"
)

// DefaultMaxRows caps how many rows ExecuteQuery will materialize. The
// row-limit instruction given to the generator is a prompt-level contract
// only; this cap is the enforced one.
const DefaultMaxRows = 10000

// SQLConfig holds configuration for a SQL execution backend.
type SQLConfig struct {
	// DB is the open connection the backend executes against. Required.
	DB *sql.DB

	// Driver is the database/sql driver name; selects the introspection
	// dialect. Required.
	Driver string

	// MaxRows caps materialized rows per query. 0 uses DefaultMaxRows;
	// negative disables the cap.
	MaxRows int

	// Logger for backend operations.
	Logger *zap.Logger
}

// SQLBackend executes validated statements against a database/sql connection
// and materializes the full result set in memory. It performs no safety
// classification of its own: callers hand it text that already passed the
// gate.
type SQLBackend struct {
	db      *sql.DB
	driver  string
	maxRows int
	logger  *zap.Logger
}

// NewSQLBackend creates a SQL execution backend.
func NewSQLBackend(cfg SQLConfig) (*SQLBackend, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("DB is required")
	}
	if cfg.Driver == "" {
		return nil, fmt.Errorf("Driver is required")
	}
	if cfg.MaxRows == 0 {
		cfg.MaxRows = DefaultMaxRows
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &SQLBackend{
		db:      cfg.DB,
		driver:  cfg.Driver,
		maxRows: cfg.MaxRows,
		logger:  cfg.Logger,
	}, nil
}

// Name returns the backend name.
func (b *SQLBackend) Name() string {
	return b.driver
}

// ExecuteQuery runs one statement and materializes its rows. Any execution
// failure is returned with the engine's message intact so the orchestrator
// can feed it to the correction step. The result cursor is fully consumed
// and closed on every path, keeping the connection safe for reuse.
func (b *SQLBackend) ExecuteQuery(ctx context.Context, query string) (*QueryResult, error) {
	start := time.Now()
	b.logger.Debug("executing query", zap.String("query", query))

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer func() { _ = rows.Close() }()

	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	columnTypes, err := rows.ColumnTypes()
	if err != nil {
		return nil, err
	}

	cols := make([]Column, len(columns))
	for i, col := range columns {
		nullable, _ := columnTypes[i].Nullable()
		cols[i] = Column{
			Name:     col,
			Type:     columnTypes[i].DatabaseTypeName(),
			Nullable: nullable,
		}
	}

	var resultRows []map[string]interface{}
	truncated := false
	for rows.Next() {
		if b.maxRows > 0 && len(resultRows) >= b.maxRows {
			truncated = true
			break
		}

		values := make([]interface{}, len(columns))
		valuePtrs := make([]interface{}, len(columns))
		for i := range columns {
			valuePtrs[i] = &values[i]
		}
		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, err
		}

		row := make(map[string]interface{})
		for i, col := range columns {
			val := values[i]
			// Convert []byte to string for text columns
			if bs, ok := val.([]byte); ok {
				row[col] = string(bs)
			} else {
				row[col] = val
			}
		}
		resultRows = append(resultRows, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	if truncated {
		b.logger.Warn("result set truncated at row cap",
			zap.Int("max_rows", b.maxRows))
	}

	return &QueryResult{
		Rows:      resultRows,
		Columns:   cols,
		RowCount:  len(resultRows),
		Truncated: truncated,
		Stats: ExecutionStats{
			DurationMs: time.Since(start).Milliseconds(),
		},
	}, nil
}

// Ping checks backend connectivity.
func (b *SQLBackend) Ping(ctx context.Context) error {
	return b.db.PingContext(ctx)
}

// Close is a no-op: the connection is owned by the Manager's handle, not
// the backend.
func (b *SQLBackend) Close() error {
	return nil
}

// Ensure SQLBackend implements ExecutionBackend
var _ ExecutionBackend = (*SQLBackend)(nil)
