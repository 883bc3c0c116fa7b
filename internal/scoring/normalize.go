// Package scoring implements the verification scoring engine: it fuses raw
// OCR text and face-encoding comparisons into a single 0-100 safety score
// with a per-sub-score breakdown. Everything in this package is pure and
// deterministic; all I/O happens in upstream collaborators.
package scoring

import "strings"

// Normalize prepares raw OCR output for keyword matching: it lower-cases the
// text, collapses whitespace runs (including newlines and tabs) to single
// spaces and trims the ends. Empty input yields empty output.
func Normalize(raw string) string {
	return strings.Join(strings.Fields(strings.ToLower(raw)), " ")
}
