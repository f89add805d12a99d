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

// Package ingest bootstraps an analytical database from CSV files. Each
// file becomes one table with replace semantics: an existing table of the
// same name is dropped before the load. Column types are inferred from a
// sample of the data.
package ingest

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// DefaultBatchSize is the number of rows per insert transaction.
const DefaultBatchSize = 1000

// sampleRows is how many records feed column type inference.
const sampleRows = 1000

// Config configures a Loader.
type Config struct {
	// DB is the target database. Required.
	DB *sql.DB

	// BatchSize is the number of rows per insert transaction.
	// Default: DefaultBatchSize.
	BatchSize int

	Logger *zap.Logger
}

// Loader loads CSV files into database tables.
type Loader struct {
	db        *sql.DB
	batchSize int
	logger    *zap.Logger
}

// NewLoader creates a loader.
func NewLoader(cfg Config) (*Loader, error) {
	if cfg.DB == nil {
		return nil, fmt.Errorf("DB is required")
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Loader{
		db:        cfg.DB,
		batchSize: cfg.BatchSize,
		logger:    cfg.Logger,
	}, nil
}

// LoadCSV loads one CSV file into the named table, replacing any existing
// table. The first record is the header. Returns the number of rows loaded.
func (l *Loader) LoadCSV(ctx context.Context, table, path string) (int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.ReuseRecord = false

	header, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("failed to read header from %s: %w", path, err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = sanitizeColumn(name)
	}

	// Buffer a sample for type inference, then stream the rest.
	sample := make([][]string, 0, sampleRows)
	for len(sample) < sampleRows {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("failed to read %s: %w", path, err)
		}
		sample = append(sample, record)
	}
	types := inferTypes(len(columns), sample)

	if err := l.createTable(ctx, table, columns, types); err != nil {
		return 0, err
	}

	l.logger.Info("loading table",
		zap.String("table", table),
		zap.String("path", path),
		zap.Int("columns", len(columns)))

	insertSQL := buildInsert(table, columns)
	var total int64

	batch := make([][]string, 0, l.batchSize)
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := l.insertBatch(ctx, insertSQL, len(columns), batch)
		total += n
		batch = batch[:0]
		return err
	}

	for _, record := range sample {
		batch = append(batch, record)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return total, fmt.Errorf("failed to read %s: %w", path, err)
		}
		batch = append(batch, record)
		if len(batch) >= l.batchSize {
			if err := flush(); err != nil {
				return total, err
			}
		}
	}
	if err := flush(); err != nil {
		return total, err
	}

	l.logger.Info("table loaded",
		zap.String("table", table),
		zap.Int64("rows", total))
	return total, nil
}

// CreateIndexes executes index statements. A failed statement is logged and
// skipped so one bad index does not abort the bootstrap.
func (l *Loader) CreateIndexes(ctx context.Context, statements []string) {
	for _, stmt := range statements {
		if _, err := l.db.ExecContext(ctx, stmt); err != nil {
			l.logger.Warn("failed to create index",
				zap.String("statement", stmt),
				zap.Error(err))
			continue
		}
		l.logger.Debug("created index", zap.String("statement", stmt))
	}
}

// TableCount is one table's row count in a load summary.
type TableCount struct {
	Table string
	Rows  int64
}

// Summary returns row counts for the given tables.
func (l *Loader) Summary(ctx context.Context, tables []string) ([]TableCount, error) {
	counts := make([]TableCount, 0, len(tables))
	for _, table := range tables {
		var n int64
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(table))
		if err := l.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts = append(counts, TableCount{Table: table, Rows: n})
	}
	return counts, nil
}

func (l *Loader) createTable(ctx context.Context, table string, columns, types []string) error {
	drop := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteIdent(table))
	if _, err := l.db.ExecContext(ctx, drop); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table, err)
	}

	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = fmt.Sprintf("%s %s", quoteIdent(col), types[i])
	}
	create := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table), strings.Join(defs, ", "))
	if _, err := l.db.ExecContext(ctx, create); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table, err)
	}
	return nil
}

func (l *Loader) insertBatch(ctx context.Context, insertSQL string, width int, batch [][]string) (int64, error) {
	tx, err := l.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, insertSQL)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}

	var n int64
	args := make([]interface{}, width)
	for _, record := range batch {
		for i := range args {
			if i < len(record) && record[i] != "" {
				args[i] = record[i]
			} else {
				args[i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			stmt.Close()
			tx.Rollback()
			return n, fmt.Errorf("failed to insert row: %w", err)
		}
		n++
	}
	stmt.Close()
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return n, nil
}

func buildInsert(table string, columns []string) string {
	quoted := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(col)
		marks[i] = "?"
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(table), strings.Join(quoted, ", "), strings.Join(marks, ", "))
}

// inferTypes picks INTEGER, REAL or TEXT per column from the sample. A
// column with no non-empty values stays TEXT.
func inferTypes(width int, sample [][]string) []string {
	types := make([]string, width)
	for col := 0; col < width; col++ {
		isInt, isReal, seen := true, true, false
		for _, record := range sample {
			if col >= len(record) || record[col] == "" {
				continue
			}
			seen = true
			v := record[col]
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isReal = false
				break
			}
		}
		switch {
		case seen && isInt:
			types[col] = "INTEGER"
		case seen && isReal:
			types[col] = "REAL"
		default:
			types[col] = "TEXT"
		}
	}
	return types
}

// sanitizeColumn makes a CSV header usable as a column name.
func sanitizeColumn(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimPrefix(name, "\ufeff")
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == ' ', r == '-', r == '.':
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "column"
	}
	return b.String()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
