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

import (
	"fmt"
	"strings"
	"unicode"
)

// scanWords tokenizes SQL text into its bare word tokens (keywords and
// unquoted identifiers), upper-cased, in source order. String literals,
// quoted identifiers, numbers, comments and operators are skipped, so a
// forbidden keyword hiding inside a literal does not produce a token while
// one nested in a parenthesized sub-expression does.
//
// The scanner is deliberately small and returns an error on malformed input
// (unterminated literal or block comment) instead of guessing; the caller
// falls back to the pattern scan in that case.
func scanWords(sql string) ([]string, error) {
	var words []string
	runes := []rune(sql)
	n := len(runes)

	for i := 0; i < n; {
		r := runes[i]

		switch {
		case unicode.IsSpace(r):
			i++

		case r == '\'' || r == '"' || r == '`':
			// String literal or quoted identifier. Doubled quotes escape.
			quote := r
			j := i + 1
			for j < n {
				if runes[j] == quote {
					if j+1 < n && runes[j+1] == quote {
						j += 2
						continue
					}
					break
				}
				j++
			}
			if j >= n {
				return words, fmt.Errorf("unterminated quoted token starting at offset %d", i)
			}
			i = j + 1

		case r == '-' && i+1 < n && runes[i+1] == '-':
			// Line comment runs to end of line.
			for i < n && runes[i] != '\n' {
				i++
			}

		case r == '/' && i+1 < n && runes[i+1] == '*':
			j := i + 2
			for j+1 < n && !(runes[j] == '*' && runes[j+1] == '/') {
				j++
			}
			if j+1 >= n {
				return words, fmt.Errorf("unterminated block comment starting at offset %d", i)
			}
			i = j + 2

		case isWordStart(r):
			j := i
			for j < n && isWordPart(runes[j]) {
				j++
			}
			words = append(words, strings.ToUpper(string(runes[i:j])))
			i = j

		default:
			// Operators, digits, parentheses, terminators.
			i++
		}
	}

	return words, nil
}

func isWordStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isWordPart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
