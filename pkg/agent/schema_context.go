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
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/teradata-labs/sift/pkg/backend"
)

// ColumnType is one (table, column, type) triple from introspection.
type ColumnType struct {
	Table  string
	Column string
	Type   string
}

// SchemaContext is the static generation context for one session: the
// connected data source's tables and columns, operator-authored relationship
// notes, the dialect tag and the row-limit instruction. Fetched once per
// session and treated as static for its lifetime.
type SchemaContext struct {
	Tables        []string
	Columns       []ColumnType
	Relationships string
	Dialect       string
	RowLimit      int
}

// LoadSchemaContext introspects the backend and snapshots the schema context.
func LoadSchemaContext(ctx context.Context, b backend.ExecutionBackend, relationships string, rowLimit int) (*SchemaContext, error) {
	resources, err := b.ListResources(ctx)
	if err != nil {
		return nil, fmt.Errorf("schema introspection failed: %w", err)
	}

	sc := &SchemaContext{
		Relationships: relationships,
		Dialect:       dialectName(b.Name()),
		RowLimit:      rowLimit,
	}

	for _, res := range resources {
		sc.Tables = append(sc.Tables, res.Name)

		schema, err := b.GetSchema(ctx, res.Name)
		if err != nil {
			return nil, fmt.Errorf("schema introspection failed for %s: %w", res.Name, err)
		}
		for _, f := range schema.Fields {
			sc.Columns = append(sc.Columns, ColumnType{
				Table:  res.Name,
				Column: f.Name,
				Type:   f.Type,
			})
		}
	}

	return sc, nil
}

// dialectName maps a driver name to the dialect tag handed to the generator.
func dialectName(driver string) string {
	switch driver {
	case "sqlite3":
		return "SQLite"
	case "postgres":
		return "PostgreSQL"
	case "mysql":
		return "MySQL"
	default:
		return driver
	}
}

// relationshipNotes is the on-disk shape of the relationship notes file.
type relationshipNotes struct {
	Relationships []string `yaml:"relationships"`
	Notes         []string `yaml:"notes"`
}

// LoadRelationshipNotes reads operator-authored schema relationship notes
// from a YAML file and renders them as a prompt block. An empty path yields
// an empty block.
func LoadRelationshipNotes(path string) (string, error) {
	if path == "" {
		return "", nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read relationship notes: %w", err)
	}

	var notes relationshipNotes
	if err := yaml.Unmarshal(data, &notes); err != nil {
		return "", fmt.Errorf("failed to parse relationship notes: %w", err)
	}

	var b strings.Builder
	if len(notes.Relationships) > 0 {
		b.WriteString("## Database Schema Relationships\n")
		for _, r := range notes.Relationships {
			fmt.Fprintf(&b, "- %s\n", r)
		}
	}
	if len(notes.Notes) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString("## Important Domain Notes\n")
		for _, n := range notes.Notes {
			fmt.Fprintf(&b, "- %s\n", n)
		}
	}
	return b.String(), nil
}
