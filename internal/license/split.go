// Package license splits SPDX-style license expressions into atomic
// identifiers and resolves custom identifiers to display names.
package license

import "strings"

const (
	orOperator  = " OR "
	andOperator = " AND "
)

var parens = strings.NewReplacer("(", "", ")", "")

// Split returns the atomic identifiers of a license expression in the order
// they appear.
//
// The split is textual: parentheses are dropped and the expression is cut on
// the exact, case-sensitive tokens " OR " and " AND ". Operator precedence is
// not modelled since only the set of identifiers matters for export. "WITH"
// clauses stay attached to their license.
func Split(expression string) []string {
	stripped := parens.Replace(expression)

	var ids []string
	for _, alternative := range strings.Split(stripped, orOperator) {
		for _, term := range strings.Split(alternative, andOperator) {
			if id := strings.TrimSpace(term); id != "" {
				ids = append(ids, id)
			}
		}
	}
	return ids
}
