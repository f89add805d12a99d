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
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/teradata-labs/sift/pkg/backend"
	"github.com/teradata-labs/sift/pkg/gate"
)

// scriptedCollaborators returns a fixed generation result and walks a list
// of corrections in order. Analysis calls are counted.
type scriptedCollaborators struct {
	generated   string
	corrections []string

	generateCalls int
	correctCalls  int
	analyzeCalls  int
	lastCause     string
}

func (s *scriptedCollaborators) GenerateSQL(ctx context.Context, question string, sc *SchemaContext) (string, error) {
	s.generateCalls++
	return s.generated, nil
}

func (s *scriptedCollaborators) CorrectSQL(ctx context.Context, failedSQL, cause string) (string, error) {
	s.lastCause = cause
	if s.correctCalls >= len(s.corrections) {
		return "", fmt.Errorf("no scripted correction %d", s.correctCalls)
	}
	out := s.corrections[s.correctCalls]
	s.correctCalls++
	return out, nil
}

func (s *scriptedCollaborators) AnalyzeResult(ctx context.Context, question, sqlText string, result *backend.QueryResult) (string, error) {
	s.analyzeCalls++
	return fmt.Sprintf("summary of %d rows", result.RowCount), nil
}

// scriptedBackend returns scripted outcomes per ExecuteQuery call.
type scriptedBackend struct {
	outcomes []func() (*backend.QueryResult, error)
	calls    int
	queries  []string
}

func (b *scriptedBackend) Name() string { return "scripted" }

func (b *scriptedBackend) ExecuteQuery(ctx context.Context, query string) (*backend.QueryResult, error) {
	b.queries = append(b.queries, query)
	if b.calls >= len(b.outcomes) {
		return nil, fmt.Errorf("unexpected ExecuteQuery call %d", b.calls)
	}
	out := b.outcomes[b.calls]
	b.calls++
	return out()
}

func (b *scriptedBackend) ListResources(ctx context.Context) ([]backend.Resource, error) {
	return []backend.Resource{{Name: "orders", Type: "table"}}, nil
}

func (b *scriptedBackend) GetSchema(ctx context.Context, resource string) (*backend.Schema, error) {
	return &backend.Schema{
		Name: resource,
		Type: "table",
		Fields: []backend.Field{
			{Name: "id", Type: "INTEGER", PrimaryKey: true},
			{Name: "total", Type: "REAL", Nullable: true},
		},
	}, nil
}

func (b *scriptedBackend) Ping(ctx context.Context) error { return nil }
func (b *scriptedBackend) Close() error                   { return nil }

func rowsOutcome(n int) func() (*backend.QueryResult, error) {
	return func() (*backend.QueryResult, error) {
		rows := make([]map[string]interface{}, n)
		for i := range rows {
			rows[i] = map[string]interface{}{"n": int64(i)}
		}
		return &backend.QueryResult{
			Rows:     rows,
			Columns:  []backend.Column{{Name: "n", Type: "INTEGER"}},
			RowCount: n,
		}, nil
	}
}

func failOutcome(msg string) func() (*backend.QueryResult, error) {
	return func() (*backend.QueryResult, error) {
		return nil, errors.New(msg)
	}
}

func testSchema() *SchemaContext {
	return &SchemaContext{
		Tables:   []string{"orders"},
		Columns:  []ColumnType{{Table: "orders", Column: "total", Type: "REAL"}},
		Dialect:  "SQLite",
		RowLimit: 100,
	}
}

func newTestOrchestrator(t *testing.T, collab *scriptedCollaborators, db *scriptedBackend) *Orchestrator {
	t.Helper()
	o, err := NewOrchestrator(Config{
		Gate:      gate.NewValidator(nil),
		Backend:   db,
		Generator: collab,
		Corrector: collab,
		Analyzer:  collab,
		Schema:    testSchema(),
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestAskSucceedsFirstAttempt(t *testing.T) {
	collab := &scriptedCollaborators{generated: "SELECT count(*) FROM orders"}
	db := &scriptedBackend{outcomes: []func() (*backend.QueryResult, error){rowsOutcome(1)}}
	o := newTestOrchestrator(t, collab, db)

	answer, err := o.Ask(context.Background(), "how many orders?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.AttemptIndex != 0 {
		t.Errorf("AttemptIndex = %d, want 0", answer.AttemptIndex)
	}
	if answer.SQL != "SELECT count(*) FROM orders" {
		t.Errorf("SQL = %q", answer.SQL)
	}
	if collab.analyzeCalls != 1 {
		t.Errorf("analyzer called %d times, want 1", collab.analyzeCalls)
	}
	if collab.correctCalls != 0 {
		t.Errorf("corrector called %d times, want 0", collab.correctCalls)
	}
	if len(answer.Attempts) != 1 {
		t.Errorf("recorded %d attempts, want 1", len(answer.Attempts))
	}
}

// An always-unsafe generator exhausts the budget after exactly 3 attempts
// and the execution engine is never called.
func TestAskUnsafeGeneratorExhausts(t *testing.T) {
	collab := &scriptedCollaborators{
		generated: "DROP TABLE orders",
		corrections: []string{
			"DELETE FROM orders",
			"TRUNCATE orders",
		},
	}
	db := &scriptedBackend{}
	o := newTestOrchestrator(t, collab, db)

	_, err := o.Ask(context.Background(), "destroy everything")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error type %T, want *ExhaustedError", err)
	}

	if len(exhausted.Attempts) != 3 {
		t.Errorf("recorded %d attempts, want 3", len(exhausted.Attempts))
	}
	if db.calls != 0 {
		t.Errorf("execution engine called %d times, want 0", db.calls)
	}
	if collab.correctCalls != 2 {
		t.Errorf("corrector called %d times, want 2", collab.correctCalls)
	}
	for i, att := range exhausted.Attempts {
		if att.Executed {
			t.Errorf("attempt %d marked executed", i)
		}
		if att.Verdict.Accepted {
			t.Errorf("attempt %d unexpectedly accepted", i)
		}
	}
	if !strings.Contains(exhausted.Explanation(), "3") {
		t.Errorf("explanation does not name the attempt count: %q", exhausted.Explanation())
	}
}

// A safe query that fails execution twice then succeeds reaches Succeeded
// at attempt index 2 with exactly one analysis call.
func TestAskFailTwiceThenSucceed(t *testing.T) {
	collab := &scriptedCollaborators{
		generated: "SELECT bad FROM orders",
		corrections: []string{
			"SELECT worse FROM orders",
			"SELECT count(*) FROM orders",
		},
	}
	db := &scriptedBackend{outcomes: []func() (*backend.QueryResult, error){
		failOutcome("no such column: bad"),
		failOutcome("no such column: worse"),
		rowsOutcome(2),
	}}
	o := newTestOrchestrator(t, collab, db)

	answer, err := o.Ask(context.Background(), "how many orders?")
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if answer.AttemptIndex != 2 {
		t.Errorf("AttemptIndex = %d, want 2", answer.AttemptIndex)
	}
	if collab.analyzeCalls != 1 {
		t.Errorf("analyzer called %d times, want 1", collab.analyzeCalls)
	}
	if db.calls != 3 {
		t.Errorf("execution engine called %d times, want 3", db.calls)
	}
	if len(answer.Attempts) != 3 {
		t.Fatalf("recorded %d attempts, want 3", len(answer.Attempts))
	}
	if answer.Attempts[0].ExecError == "" || answer.Attempts[1].ExecError == "" {
		t.Error("failed attempts are missing their execution errors")
	}
	if answer.Attempts[2].RowCount != 2 {
		t.Errorf("final attempt RowCount = %d, want 2", answer.Attempts[2].RowCount)
	}
}

// The correction step receives the rejection cause for rejected candidates
// and the engine error for failed executions.
func TestAskCorrectionSeesCause(t *testing.T) {
	collab := &scriptedCollaborators{
		generated:   "DROP TABLE orders",
		corrections: []string{"SELECT count(*) FROM orders"},
	}
	db := &scriptedBackend{outcomes: []func() (*backend.QueryResult, error){rowsOutcome(1)}}
	o := newTestOrchestrator(t, collab, db)

	if _, err := o.Ask(context.Background(), "q"); err != nil {
		t.Fatalf("Ask: %v", err)
	}
	if !strings.Contains(collab.lastCause, "DROP") {
		t.Errorf("correction cause %q does not name the forbidden keyword", collab.lastCause)
	}
}

// A rejected verdict consumes an attempt without a database trip, so a mix
// of one rejection and two execution failures also exhausts at 3.
func TestAskMixedRejectionsAndFailuresExhaust(t *testing.T) {
	collab := &scriptedCollaborators{
		generated: "DELETE FROM orders",
		corrections: []string{
			"SELECT bad FROM orders",
			"SELECT worse FROM orders",
		},
	}
	db := &scriptedBackend{outcomes: []func() (*backend.QueryResult, error){
		failOutcome("no such column: bad"),
		failOutcome("no such column: worse"),
	}}
	o := newTestOrchestrator(t, collab, db)

	_, err := o.Ask(context.Background(), "q")
	var exhausted *ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("error type %T, want *ExhaustedError", err)
	}
	if db.calls != 2 {
		t.Errorf("execution engine called %d times, want 2", db.calls)
	}
	if exhausted.LastCause == "" {
		t.Error("exhausted error has empty last cause")
	}
}

func TestAskNormalizedSQLReachesBackend(t *testing.T) {
	collab := &scriptedCollaborators{generated: "```sql\nSELECT count(*) FROM orders;\n```"}
	db := &scriptedBackend{outcomes: []func() (*backend.QueryResult, error){rowsOutcome(1)}}
	o := newTestOrchestrator(t, collab, db)

	answer, err := o.Ask(context.Background(), "q")
	if err != nil {
		t.Fatal(err)
	}
	want := "SELECT count(*) FROM orders"
	if len(db.queries) != 1 || db.queries[0] != want {
		t.Errorf("backend received %v, want [%q]", db.queries, want)
	}
	if answer.SQL != want {
		t.Errorf("answer SQL = %q, want %q", answer.SQL, want)
	}
}

func TestAskCancelledContext(t *testing.T) {
	collab := &scriptedCollaborators{generated: "SELECT count(*) FROM orders"}
	db := &scriptedBackend{}
	o := newTestOrchestrator(t, collab, db)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := o.Ask(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if db.calls != 0 {
		t.Error("execution engine called after cancellation")
	}
}

func TestNewOrchestratorValidation(t *testing.T) {
	collab := &scriptedCollaborators{}
	db := &scriptedBackend{}

	_, err := NewOrchestrator(Config{
		Backend:   db,
		Generator: collab,
		Corrector: collab,
		Analyzer:  collab,
		Schema:    testSchema(),
	})
	if err == nil {
		t.Error("expected error for missing gate")
	}

	_, err = NewOrchestrator(Config{
		Gate:      gate.NewValidator(nil),
		Backend:   db,
		Generator: collab,
		Corrector: collab,
		Analyzer:  collab,
	})
	if err == nil {
		t.Error("expected error for missing schema")
	}
}
