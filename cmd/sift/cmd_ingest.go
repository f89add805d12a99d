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
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teradata-labs/sift/internal/log"
	_ "github.com/teradata-labs/sift/internal/sqlitedriver"
	siftconfig "github.com/teradata-labs/sift/pkg/config"
	"github.com/teradata-labs/sift/pkg/ingest"
)

var (
	ingestTarget  string
	ingestTable   string
	ingestIndexes []string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <csv-file-or-dir>...",
	Short: "Load CSV files into a SQLite database",
	Long: `Ingest creates one table per CSV file, replacing existing tables of the
same name. Column types are inferred from the data. A directory argument
loads every .csv file it contains.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&ingestTarget, "out", "", "target database file (default: $SIFT_DATA_DIR/sift.db)")
	ingestCmd.Flags().StringVar(&ingestTable, "table", "", "table name (single-file ingest only; default: file name)")
	ingestCmd.Flags().StringArrayVar(&ingestIndexes, "index", nil, "CREATE INDEX statement to run after loading (repeatable)")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	logger, err := log.Configure(config.Logging.Level, config.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	files, err := collectCSVFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no CSV files found in %s", strings.Join(args, ", "))
	}
	if ingestTable != "" && len(files) > 1 {
		return fmt.Errorf("--table requires a single CSV file, got %d", len(files))
	}

	target := ingestTarget
	if target == "" {
		if _, err := siftconfig.EnsureDataDir(); err != nil {
			return err
		}
		target = siftconfig.DefaultDatabasePath()
	}

	db, err := sql.Open("sqlite3", target)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", target, err)
	}
	defer db.Close() //nolint:errcheck

	loader, err := ingest.NewLoader(ingest.Config{DB: db, Logger: logger})
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	tables := make([]string, 0, len(files))
	for _, file := range files {
		table := ingestTable
		if table == "" {
			table = tableNameFor(file)
		}
		rows, err := loader.LoadCSV(ctx, table, file)
		if err != nil {
			return fmt.Errorf("failed to load %s: %w", file, err)
		}
		fmt.Printf("Loaded %s into %s (%d rows)\n", filepath.Base(file), table, rows)
		tables = append(tables, table)
	}

	if len(ingestIndexes) > 0 {
		loader.CreateIndexes(ctx, ingestIndexes)
	}

	counts, err := loader.Summary(ctx, tables)
	if err != nil {
		return err
	}
	fmt.Printf("\nDatabase: %s\n", target)
	for _, tc := range counts {
		fmt.Printf("  %s: %d rows\n", tc.Table, tc.Rows)
	}
	return nil
}

// collectCSVFiles expands directory arguments into their .csv files.
func collectCSVFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
				continue
			}
			files = append(files, filepath.Join(arg, entry.Name()))
		}
	}
	return files, nil
}

// tableNameFor derives a table name from a CSV file name.
func tableNameFor(path string) string {
	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name = strings.ToLower(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.Trim(b.String(), "_")
	if out == "" {
		return "data"
	}
	return out
}
