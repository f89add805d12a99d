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
	"fmt"
	"strings"
)

// ListResources lists the user tables visible to the connection, ordered by
// name. System tables are excluded.
func (b *SQLBackend) ListResources(ctx context.Context) ([]Resource, error) {
	var query string
	switch b.driver {
	case "sqlite3":
		query = `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`
	case "postgres":
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = 'public' AND table_type = 'BASE TABLE' ORDER BY table_name`
	case "mysql":
		query = `SELECT table_name FROM information_schema.tables WHERE table_schema = DATABASE() AND table_type = 'BASE TABLE' ORDER BY table_name`
	default:
		return nil, fmt.Errorf("unsupported driver for introspection: %s", b.driver)
	}

	rows, err := b.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var resources []Resource
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		resources = append(resources, Resource{Name: name, Type: "table"})
	}
	return resources, rows.Err()
}

// GetSchema retrieves column information for one table.
func (b *SQLBackend) GetSchema(ctx context.Context, resource string) (*Schema, error) {
	switch b.driver {
	case "sqlite3":
		return b.sqliteSchema(ctx, resource)
	case "postgres", "mysql":
		return b.informationSchema(ctx, resource)
	default:
		return nil, fmt.Errorf("unsupported driver for introspection: %s", b.driver)
	}
}

func (b *SQLBackend) sqliteSchema(ctx context.Context, table string) (*Schema, error) {
	// PRAGMA table_info does not take placeholders; quote the identifier.
	quoted := `"` + strings.ReplaceAll(table, `"`, `""`) + `"`
	rows, err := b.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoted))
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	schema := &Schema{Name: table, Type: "table"}
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    interface{}
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		schema.Fields = append(schema.Fields, Field{
			Name:       name,
			Type:       typ,
			Nullable:   notNull == 0,
			PrimaryKey: pk > 0,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(schema.Fields) == 0 {
		return nil, fmt.Errorf("table not found: %s", table)
	}
	return schema, nil
}

func (b *SQLBackend) informationSchema(ctx context.Context, table string) (*Schema, error) {
	var query string
	switch b.driver {
	case "postgres":
		query = `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = 'public' AND table_name = $1 ORDER BY ordinal_position`
	case "mysql":
		query = `SELECT column_name, data_type, is_nullable FROM information_schema.columns WHERE table_schema = DATABASE() AND table_name = ? ORDER BY ordinal_position`
	}

	rows, err := b.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema for %s: %w", table, err)
	}
	defer func() { _ = rows.Close() }()

	schema := &Schema{Name: table, Type: "table"}
	for rows.Next() {
		var name, typ, nullable string
		if err := rows.Scan(&name, &typ, &nullable); err != nil {
			return nil, err
		}
		schema.Fields = append(schema.Fields, Field{
			Name:     name,
			Type:     typ,
			Nullable: strings.EqualFold(nullable, "YES"),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(schema.Fields) == 0 {
		return nil, fmt.Errorf("table not found: %s", table)
	}
	return schema, nil
}
