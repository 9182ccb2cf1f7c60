package types

import (
	"encoding/json"
	"time"
)

const ISOFormat = "2006-01-02T15:04:05Z"

// Result is a resolved Instant, or an Interval when Span is set.
type Result struct {
	Start time.Time
	End   time.Time
	Span  bool
}

func Instant(t time.Time) Result {
	return Result{Start: t, End: t}
}

func Interval(start, end time.Time) Result {
	return Result{Start: start, End: end, Span: true}
}

// Strings formats the result as one or two ISO-8601 UTC timestamps.
func (r Result) Strings() []string {
	if !r.Span {
		return []string{r.Start.UTC().Format(ISOFormat)}
	}
	return []string{
		r.Start.UTC().Format(ISOFormat),
		r.End.UTC().Format(ISOFormat),
	}
}

func (r Result) String() string {
	s := r.Strings()
	if len(s) == 1 {
		return s[0]
	}
	return s[0] + "/" + s[1]
}

func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Strings())
}

// ResultStrings converts a result list to the nested string form used by
// the acceptance records.
func ResultStrings(results []Result) [][]string {
	out := make([][]string, 0, len(results))
	for _, r := range results {
		out = append(out, r.Strings())
	}
	return out
}
