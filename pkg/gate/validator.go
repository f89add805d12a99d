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
// Package gate is the SQL safety gateway that stands between model-generated
// SQL text and a live database connection. It decides whether a candidate
// query is safe to execute: exactly one statement, read-only, no statement
// smuggling through terminators or comments.
//
// Validation is layered as defense in depth. A structural keyword scan is
// precise but can fail on malformed input; a regular-expression fallback is
// crude but always runs. Either layer can independently reject, and both
// share a single forbidden-operation vocabulary so neither can silently
// permit what the other forbids.
package gate

import (
	"regexp"
	"strings"

	"go.uber.org/zap"
)

// ForbiddenOperations is the canonical set of SQL keywords that must never
// reach the database: write and definition operations plus statement
// execution. Both validation layers are built from this single list.
var ForbiddenOperations = []string{
	"INSERT", "UPDATE", "DELETE", "ALTER", "DROP", "CREATE", "REPLACE",
	"TRUNCATE", "GRANT", "REVOKE", "MERGE", "COMMIT", "EXEC", "EXECUTE",
}

var (
	forbiddenSet = func() map[string]struct{} {
		m := make(map[string]struct{}, len(ForbiddenOperations))
		for _, op := range ForbiddenOperations {
			m[op] = struct{}{}
		}
		return m
	}()

	forbiddenRe = regexp.MustCompile(`(?i)\b(` + strings.Join(ForbiddenOperations, "|") + `)\b`)

	lineCommentRe  = regexp.MustCompile(`--`)
	blockCommentRe = regexp.MustCompile(`/\*`)

	openFenceRe  = regexp.MustCompile("(?i)```sql\\s*|```\\s*")
	trailingTerm = regexp.MustCompile(`;\s*$`)
)

// Validator classifies candidate SQL text. It is pure: no I/O, no shared
// state, side effects limited to logging.
type Validator struct {
	logger *zap.Logger
}

// NewValidator creates a validator. A nil logger defaults to a no-op logger.
func NewValidator(logger *zap.Logger) *Validator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Validator{logger: logger}
}

// Validate runs the layered safety classification over one candidate query
// and returns the verdict. Accepted verdicts carry the normalized text, so
// re-validating an accepted verdict's SQL accepts again.
func (v *Validator) Validate(sql string) Verdict {
	normalized := Normalize(sql)

	if normalized == "" {
		return Reject(ReasonEmptyQuery, "")
	}

	// Exactly one statement per call. Any terminator left after stripping the
	// single trailing one means terminator-separated statement smuggling.
	if strings.Contains(normalized, ";") {
		return Reject(ReasonMultipleStatements, ";")
	}

	// Structural layer: root operation plus every nested keyword token.
	words, err := scanWords(normalized)
	if err != nil {
		// Malformed input must degrade to the pattern scan, never fail open.
		v.logger.Warn("structural scan failed, deferring to pattern scan",
			zap.Error(err))
	} else {
		for _, w := range words {
			if _, forbidden := forbiddenSet[w]; forbidden {
				v.logger.Debug("forbidden operation detected",
					zap.String("keyword", w))
				return Reject(ReasonForbiddenOperation, w)
			}
		}
	}

	// Fallback pattern layer runs regardless of the structural outcome.
	if m := forbiddenRe.FindString(normalized); m != "" {
		return Reject(ReasonUnsafePattern, strings.ToUpper(m))
	}
	if lineCommentRe.MatchString(normalized) {
		return Reject(ReasonUnsafePattern, "--")
	}
	if blockCommentRe.MatchString(normalized) {
		return Reject(ReasonUnsafePattern, "/*")
	}

	v.logger.Debug("query validation passed")
	return Accept(normalized)
}

// Normalize strips code-fence markup and a single trailing statement
// terminator from a candidate query. Cosmetic only; no safety decision.
func Normalize(sql string) string {
	s := strings.TrimSpace(sql)
	s = openFenceRe.ReplaceAllString(s, "")
	s = strings.TrimSpace(s)
	s = trailingTerm.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}
