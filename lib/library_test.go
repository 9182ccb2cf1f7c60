//go:build cgo

package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type extraction struct {
	Results [][]string `json:"results"`
	Tags    []struct {
		Kind  string            `json:"kind"`
		Attrs map[string]string `json:"attrs"`
	} `json:"tags"`
	Error string `json:"error"`
}

func decodeExtraction(t testing.TB, out string) extraction {
	var e extraction
	require.NoError(t, json.Unmarshal([]byte(out), &e), out)
	return e
}

func TestExtract(t *testing.T) {
	e := decodeExtraction(t,
		testExtract("en", "tomorrow at 9 AM", "2025-01-21T08:00:00Z"))
	assert.Empty(t, e.Error)
	assert.Equal(t, [][]string{{"2025-01-22T09:00:00Z"}}, e.Results)
	require.NotEmpty(t, e.Tags)

	e = decodeExtraction(t,
		testExtract("zh", "下周一", "2025-01-21T08:00:00Z"))
	assert.Equal(t,
		[][]string{{"2025-01-27T00:00:00Z", "2025-01-27T23:59:59Z"}},
		e.Results)
	require.Len(t, e.Tags, 1)
	assert.Equal(t, "weekday", e.Tags[0].Kind)
}

func TestExtractNothing(t *testing.T) {
	e := decodeExtraction(t, testExtract("en", "hello", ""))
	assert.Empty(t, e.Error)
	assert.NotNil(t, e.Results)
	assert.Empty(t, e.Results)
}

func TestExtractErrors(t *testing.T) {
	e := decodeExtraction(t, testExtract("fr", "demain", ""))
	assert.NotEmpty(t, e.Error)

	e = decodeExtraction(t, testExtract("en", "tomorrow", "soon"))
	assert.NotEmpty(t, e.Error)
}

func TestExtractBuffer(t *testing.T) {
	e := decodeExtraction(t, testExtractBuffer("en", []byte("in 2 hours"),
		"2025-01-21T08:00:00Z"))
	assert.Equal(t, [][]string{{"2025-01-21T10:00:00Z"}}, e.Results)
}

func BenchmarkExtract(b *testing.B) {
	testExtract("en", "warm up", "")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		testExtract("en", "from 9:30 to 11:00 on Thursday",
			"2025-01-21T08:00:00Z")
	}
}
