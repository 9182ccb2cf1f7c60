package timex

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/wbrown/timex/types"
)

// Layouts accepted for a base time, tried in order. A time without a zone
// is read as UTC.
var baseLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseBase parses an ISO-8601 base time.
func ParseBase(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range baseLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("cannot parse base time %q", value)
}

// Extraction is the serialized form of one Extract call.
type Extraction struct {
	Results [][]string    `json:"results"`
	Tags    []types.Token `json:"tags"`
}

func NewExtraction(results []types.Result, tokens []types.Token) Extraction {
	return Extraction{Results: types.ResultStrings(results), Tags: tokens}
}

func (e Extraction) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// SameResults reports whether results formats exactly as want.
func SameResults(results []types.Result, want [][]string) bool {
	got := types.ResultStrings(results)
	if len(got) != len(want) {
		return false
	}
	for idx := range got {
		if len(got[idx]) != len(want[idx]) {
			return false
		}
		for j := range got[idx] {
			if got[idx][j] != want[idx][j] {
				return false
			}
		}
	}
	return true
}

var fullStops = "。！？；"

// splitFullStops splits text after each full-width sentence terminator.
func splitFullStops(text string) []string {
	sentences := make([]string, 0, 1)
	start := 0
	for idx, r := range text {
		if strings.ContainsRune(fullStops, r) {
			end := idx + len(string(r))
			if s := strings.TrimSpace(text[start:end]); s != "" {
				sentences = append(sentences, s)
			}
			start = end
		}
	}
	if s := strings.TrimSpace(text[start:]); s != "" || len(sentences) == 0 {
		sentences = append(sentences, s)
	}
	return sentences
}
