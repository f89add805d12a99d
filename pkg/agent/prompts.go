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
	"fmt"
	"strings"

	"github.com/teradata-labs/sift/pkg/backend"
)

// generateSQLPrompt builds the prompt for the generation collaborator.
func generateSQLPrompt(sc *SchemaContext, question string) string {
	return fmt.Sprintf(`You are an expert %[1]s SQL generator. Given a user question, generate the corresponding SQL query. Ensure the SQL is syntactically correct and optimized for %[1]s.

Your role is to transform the question into a SQL query that performs only aggregation and data summarization. Every query you generate must use aggregate functions (such as COUNT(), SUM(), AVG(), MIN(), MAX()) and appropriate GROUP BY clauses where necessary. Do not return raw row-level data; only summarization.

Add necessary JOINs to get all relevant information. Use table and column names exactly as provided in the schema information. Do not make up any table or column names. Do not include any explanations, only return the SQL query.

# Tables:
%[2]s

# Columns and Types:
%[3]s

# Relationships:
%[4]s

# Rules:
- Only generate SELECT statements; do not use INSERT, UPDATE, DELETE, or other DML operations.
- Ensure all table and column names are valid as per the schema provided.
- Limit results to %[5]d rows.
- Return only the SQL query without any additional text.

# User Question:
%[6]s`,
		sc.Dialect,
		strings.Join(sc.Tables, ", "),
		formatColumns(sc.Columns),
		sc.Relationships,
		sc.RowLimit,
		question)
}

// fixSQLPrompt builds the prompt for the correction collaborator.
func fixSQLPrompt(failedSQL, cause string, rowLimit int) string {
	return fmt.Sprintf(`The following SQL query resulted in an error when executed:

SQL Query:
%s

Error Message:
%s

Please analyze the error and provide a corrected SQL query. Ensure the new query adheres to the following rules:
- Fix the issues that caused the error.
- Avoid any DML operations.
- Ensure all table and column names are valid as per the database schema.
- Limit results to %d rows.
- Return only the corrected SQL query without any additional text.`,
		failedSQL, cause, rowLimit)
}

// analyzeResultPrompt builds the prompt for the analysis collaborator.
func analyzeResultPrompt(question, sqlText, result string) string {
	return fmt.Sprintf(`# User Question:
%s

# Executed SQL Query:
%s

# SQL Execution Result:
%s

# Responding Rules:
- Analyze the SQL execution result in the context of the original user question.
- Provide a concise summary of the findings from the result.
- Use bullet points for clarity.
- If the result is empty or does not address the user question, suggest specific changes to improve it.`,
		question, sqlText, result)
}

// formatColumns renders (table, column, type) triples one per line.
func formatColumns(columns []ColumnType) string {
	var b strings.Builder
	for _, c := range columns {
		fmt.Fprintf(&b, "- %s.%s: %s\n", c.Table, c.Column, c.Type)
	}
	return b.String()
}

// formatResult renders a materialized result set as a plain-text table for
// the analysis prompt.
func formatResult(r *backend.QueryResult) string {
	if r == nil || len(r.Columns) == 0 {
		return "(no result)"
	}

	names := make([]string, len(r.Columns))
	for i, c := range r.Columns {
		names[i] = c.Name
	}

	var b strings.Builder
	b.WriteString(strings.Join(names, " | "))
	b.WriteString("\n")

	for _, row := range r.Rows {
		cells := make([]string, len(names))
		for i, name := range names {
			cells[i] = fmt.Sprint(row[name])
		}
		b.WriteString(strings.Join(cells, " | "))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "(%d rows", r.RowCount)
	if r.Truncated {
		b.WriteString(", truncated")
	}
	b.WriteString(")")
	return b.String()
}
