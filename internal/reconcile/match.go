package reconcile

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// foldKey returns the comparison key for a name: NFC normalization
// followed by Unicode case folding. Two names with the same key are
// the same name for lookup purposes.
//
// A fresh Caser per call - a cases.Caser is stateful and must not be
// shared between goroutines.
func foldKey(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}

// EqualFold reports whether two names match under the lookup policy:
// case-insensitive exact match.
func EqualFold(a, b string) bool {
	return foldKey(a) == foldKey(b)
}

// ContainsFold reports whether name contains term, case-insensitively.
// Used by the local search filter.
func ContainsFold(name, term string) bool {
	return strings.Contains(foldKey(name), foldKey(term))
}
