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
// Package backend provides the database side of the agent: a failover-aware
// connection manager handing out per-worker handles, and a SQL execution
// engine that materializes query results.
package backend

import "context"

// ExecutionBackend is the contract the orchestrator executes validated
// statements against. The concrete implementation is SQLBackend; tests
// substitute stubs.
type ExecutionBackend interface {
	// Name returns the backend identifier (e.g. "sqlite3", "postgres").
	Name() string

	// ExecuteQuery runs one validated statement and materializes the full
	// result set. Execution failures are returned as errors with the engine's
	// message intact; the connection stays reusable afterwards.
	ExecuteQuery(ctx context.Context, query string) (*QueryResult, error)

	// ListResources lists the tables visible to the connection.
	ListResources(ctx context.Context) ([]Resource, error)

	// GetSchema retrieves column information for one table.
	GetSchema(ctx context.Context, resource string) (*Schema, error)

	// Ping checks backend connectivity.
	Ping(ctx context.Context) error

	// Close releases backend resources.
	Close() error
}

// QueryResult represents a materialized result set.
type QueryResult struct {
	// Rows holds the tabular data, one map per row keyed by column name.
	Rows []map[string]interface{}

	// Columns describes the result columns in select order.
	Columns []Column

	// RowCount is the number of materialized rows.
	RowCount int

	// Truncated is set when the row cap cut off the result set.
	Truncated bool

	// Stats tracks execution metrics.
	Stats ExecutionStats
}

// Column represents a column in tabular results.
type Column struct {
	Name     string
	Type     string
	Nullable bool
}

// ExecutionStats tracks execution metrics.
type ExecutionStats struct {
	// Duration in milliseconds
	DurationMs int64
}

// Resource represents a table available in the backend.
type Resource struct {
	Name string
	Type string
}

// Schema represents the schema of one table.
type Schema struct {
	Name   string
	Type   string
	Fields []Field
}

// Field represents a column in a schema.
type Field struct {
	Name       string
	Type       string
	Nullable   bool
	PrimaryKey bool
}
