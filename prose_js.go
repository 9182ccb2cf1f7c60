//go:build wasip1 || js

package timex

// splitSentences only splits on full-width stops where prose is not
// available.
func splitSentences(text string) []string {
	return splitFullStops(text)
}
