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
	"strings"

	"github.com/spf13/cobra"

	"github.com/teradata-labs/sift/internal/log"
	"github.com/teradata-labs/sift/pkg/agent"
	"github.com/teradata-labs/sift/pkg/backend"
)

var (
	askShowRows     bool
	askShowAttempts bool
)

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Answer a natural-language question against the database",
	Long: `Ask generates SQL for the question, validates it through the safety gate,
executes it against the first reachable data source, and summarizes the
result. Failed or rejected candidates are corrected and retried up to the
attempt budget.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askShowRows, "rows", false, "print the result rows, not just the summary")
	askCmd.Flags().BoolVar(&askShowAttempts, "attempts", false, "print every attempted query and its outcome")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(args[0])
	if question == "" {
		return fmt.Errorf("question must not be empty")
	}

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

	provider, err := buildProvider(config)
	if err != nil {
		return err
	}

	relationships := ""
	if config.Agent.Relationships != "" {
		relationships, err = agent.LoadRelationshipNotes(config.Agent.Relationships)
		if err != nil {
			return fmt.Errorf("failed to load relationship notes: %w", err)
		}
	}

	session, err := agent.NewSession(agent.SessionConfig{
		Manager:       manager,
		Provider:      provider,
		Retry:         retryConfig(config),
		MaxAttempts:   config.Agent.MaxAttempts,
		MaxRows:       config.Database.MaxRows,
		RowLimit:      config.Agent.RowLimit,
		Relationships: relationships,
		Logger:        logger,
	})
	if err != nil {
		return err
	}
	defer session.Close() //nolint:errcheck

	answer, err := session.Ask(cmd.Context(), question)
	if err != nil {
		var noSource *backend.NoDataSourceError
		if errors.As(err, &noSource) {
			fmt.Fprintln(os.Stderr, "No data source is reachable:")
			for _, att := range noSource.Attempts {
				fmt.Fprintf(os.Stderr, "  %s: %s\n", att.Location, att.Err)
			}
			os.Exit(1)
		}
		var exhausted *agent.ExhaustedError
		if errors.As(err, &exhausted) {
			fmt.Println(exhausted.Explanation())
			if askShowAttempts {
				printAttempts(exhausted.Attempts)
			}
			return nil
		}
		return err
	}

	fmt.Println(answer.Summary)
	fmt.Println()
	fmt.Printf("Query (attempt %d of %d):\n  %s\n", answer.AttemptIndex+1, config.Agent.MaxAttempts, answer.SQL)

	if askShowRows && answer.Result != nil {
		fmt.Println()
		printResult(answer.Result)
	}
	if askShowAttempts {
		printAttempts(answer.Attempts)
	}
	return nil
}

func printResult(result *backend.QueryResult) {
	names := make([]string, len(result.Columns))
	for i, col := range result.Columns {
		names[i] = col.Name
	}
	fmt.Println(strings.Join(names, " | "))

	for _, row := range result.Rows {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = fmt.Sprintf("%v", row[name])
		}
		fmt.Println(strings.Join(cells, " | "))
	}

	if result.Truncated {
		fmt.Printf("(%d rows, truncated)\n", result.RowCount)
	} else {
		fmt.Printf("(%d rows)\n", result.RowCount)
	}
}

func printAttempts(attempts []agent.Attempt) {
	fmt.Println()
	fmt.Println("Attempts:")
	for _, att := range attempts {
		fmt.Printf("  %d. %s\n", att.Index+1, att.SQL)
		switch {
		case att.Executed && att.ExecError == "":
			fmt.Printf("     ok, %d rows\n", att.RowCount)
		case att.Executed:
			fmt.Printf("     execution failed: %s\n", att.ExecError)
		default:
			fmt.Printf("     rejected: %s\n", att.Verdict.Cause())
		}
	}
}
