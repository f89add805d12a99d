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
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/teradata-labs/sift/internal/log"
	"github.com/teradata-labs/sift/pkg/backend"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [table]",
	Short: "Show tables and columns of the configured database",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchema,
}

func init() {
	rootCmd.AddCommand(schemaCmd)
}

func runSchema(cmd *cobra.Command, args []string) error {
	logger, err := log.Configure(config.Logging.Level, config.Logging.Format)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	manager, err := buildManager(config, logger)
	if err != nil {
		return err
	}
	defer manager.Close() //nolint:errcheck

	ctx := cmd.Context()
	handle, err := manager.Get(ctx, uuid.NewString())
	if err != nil {
		var noSource *backend.NoDataSourceError
		if errors.As(err, &noSource) {
			fmt.Fprintln(os.Stderr, "No data source is reachable:")
			for _, att := range noSource.Attempts {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", att.Location, att.Err)
			}
			os.Exit(1)
		}
		return err
	}

	exec, err := backend.NewSQLBackend(backend.SQLConfig{
		DB:     handle.DB(),
		Driver: handle.Driver(),
		Logger: logger,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Data source: %s\n\n", handle.Location())

	if len(args) == 1 {
		return printTableSchema(cmd, exec, args[0])
	}

	resources, err := exec.ListResources(ctx)
	if err != nil {
		return err
	}
	for _, res := range resources {
		if err := printTableSchema(cmd, exec, res.Name); err != nil {
			return err
		}
	}
	return nil
}

func printTableSchema(cmd *cobra.Command, exec *backend.SQLBackend, table string) error {
	schema, err := exec.GetSchema(cmd.Context(), table)
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", schema.Name)
	for _, field := range schema.Fields {
		line := fmt.Sprintf("  %s %s", field.Name, field.Type)
		if field.PrimaryKey {
			line += " PRIMARY KEY"
		}
		if !field.Nullable {
			line += " NOT NULL"
		}
		fmt.Println(line)
	}
	fmt.Println()
	return nil
}
