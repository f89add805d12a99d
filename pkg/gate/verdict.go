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
package gate

import "fmt"

// Reason classifies why a candidate query was rejected.
type Reason string

const (
	// ReasonEmptyQuery means the candidate was empty or only whitespace/fence markup.
	ReasonEmptyQuery Reason = "EMPTY_QUERY"

	// ReasonMultipleStatements means more than one statement terminator was found,
	// or a terminator appeared before the end of the text.
	ReasonMultipleStatements Reason = "MULTIPLE_STATEMENTS"

	// ReasonForbiddenOperation means the structural scan found a write, definition,
	// or statement-execution keyword at the statement root or nested inside it.
	ReasonForbiddenOperation Reason = "FORBIDDEN_OPERATION"

	// ReasonUnsafePattern means the fallback pattern scan matched a forbidden
	// keyword or a comment introducer that the structural scan did not catch.
	ReasonUnsafePattern Reason = "UNSAFE_PATTERN"
)

// Verdict is the outcome of validating one candidate query.
// An accepted verdict carries the normalized SQL text; a rejected verdict
// carries the reason and, when known, the keyword or pattern that triggered it.
type Verdict struct {
	Accepted bool

	// SQL is the normalized candidate text (fences and the trailing statement
	// terminator stripped). Set on accept.
	SQL string

	// Reason is set on reject.
	Reason Reason

	// Pattern is the offending keyword or pattern, when one was identified.
	Pattern string
}

// Accept returns an accepted verdict carrying the normalized SQL.
func Accept(sql string) Verdict {
	return Verdict{Accepted: true, SQL: sql}
}

// Reject returns a rejected verdict.
func Reject(reason Reason, pattern string) Verdict {
	return Verdict{Reason: reason, Pattern: pattern}
}

// Cause renders a rejection as the error text fed back to the correction
// collaborator. Returns "" for accepted verdicts.
func (v Verdict) Cause() string {
	if v.Accepted {
		return ""
	}
	switch v.Reason {
	case ReasonEmptyQuery:
		return "validation rejected the query: empty query"
	case ReasonMultipleStatements:
		return "validation rejected the query: multiple SQL statements detected, only a single SELECT statement is allowed"
	case ReasonForbiddenOperation:
		return fmt.Sprintf("validation rejected the query: forbidden SQL operation %s detected", v.Pattern)
	case ReasonUnsafePattern:
		return fmt.Sprintf("validation rejected the query: unsafe SQL pattern %q detected", v.Pattern)
	default:
		return fmt.Sprintf("validation rejected the query: %s", v.Reason)
	}
}
