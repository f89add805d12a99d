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
	"strings"
	"testing"

	"github.com/teradata-labs/sift/pkg/backend"
)

func TestGenerateSQLPrompt(t *testing.T) {
	sc := &SchemaContext{
		Tables: []string{"orders", "customers"},
		Columns: []ColumnType{
			{Table: "orders", Column: "id", Type: "INTEGER"},
			{Table: "customers", Column: "state", Type: "TEXT"},
		},
		Relationships: "orders.customer_id -> customers.id",
		Dialect:       "SQLite",
		RowLimit:      100,
	}

	prompt := generateSQLPrompt(sc, "orders per state?")

	for _, want := range []string{
		"SQLite",
		"orders, customers",
		"- orders.id: INTEGER",
		"- customers.state: TEXT",
		"orders.customer_id -> customers.id",
		"Limit results to 100 rows",
		"orders per state?",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFixSQLPrompt(t *testing.T) {
	prompt := fixSQLPrompt("SELECT bad FROM t", "no such column: bad", 50)

	for _, want := range []string{
		"SELECT bad FROM t",
		"no such column: bad",
		"Limit results to 50 rows",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestFormatResult(t *testing.T) {
	result := &backend.QueryResult{
		Rows: []map[string]interface{}{
			{"state": "SP", "n": int64(3)},
			{"state": "RJ", "n": int64(1)},
		},
		Columns:  []backend.Column{{Name: "state"}, {Name: "n"}},
		RowCount: 2,
	}

	got := formatResult(result)
	want := "state | n\nSP | 3\nRJ | 1\n(2 rows)"
	if got != want {
		t.Errorf("formatResult = %q, want %q", got, want)
	}
}

func TestFormatResultTruncated(t *testing.T) {
	result := &backend.QueryResult{
		Rows:      []map[string]interface{}{{"n": int64(1)}},
		Columns:   []backend.Column{{Name: "n"}},
		RowCount:  1,
		Truncated: true,
	}

	if got := formatResult(result); !strings.HasSuffix(got, "(1 rows, truncated)") {
		t.Errorf("formatResult = %q, want truncated marker", got)
	}
}

func TestFormatResultEmpty(t *testing.T) {
	if got := formatResult(nil); got != "(no result)" {
		t.Errorf("formatResult(nil) = %q", got)
	}
	if got := formatResult(&backend.QueryResult{}); got != "(no result)" {
		t.Errorf("formatResult(empty) = %q", got)
	}
}
