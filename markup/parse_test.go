package markup

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/timex/types"
)

func TestParse(t *testing.T) {
	tokens := Parse(`relative { unit: "day" offset: "1" } " " "at" " " ` +
		`utc { hour: "9" meridiem: "am" }`)
	require.Len(t, tokens, 5)
	assert.Equal(t, types.KindRelative, tokens[0].Kind)
	rel, ok := tokens[0].Relative()
	require.True(t, ok)
	assert.Equal(t, types.Relative{Unit: "day", Offset: 1}, rel)
	assert.Equal(t, " ", tokens[1].Text())
	assert.Equal(t, "at", tokens[2].Text())
	d, ok := tokens[4].Date()
	require.True(t, ok)
	h, _, _ := d.Clock()
	assert.Equal(t, 9, h)
}

func TestParseMergesLiterals(t *testing.T) {
	tokens := Parse(`"我" "们" "从" utc { hour: "9" } "到" " " "\n" "x"`)
	texts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		texts = append(texts, tok.String())
	}
	assert.Equal(t, []string{`"我们从"`, `utc { hour: "9" }`, `"到"`,
		`" "`, `"\n"`, `"x"`}, texts)
}

func TestParseLongestPrefix(t *testing.T) {
	tests := []struct {
		name   string
		markup string
		want   int
	}{
		{"unterminated segment", `"a" utc { hour: "9" `, 1},
		{"unknown kind", `"a" bogus { x: "1" } "b"`, 1},
		{"missing colon", `utc { hour "9" } "b"`, 0},
		{"unterminated string", `"a" "b`, 1},
		{"bare word", `"a" b`, 1},
		{"empty", ``, 0},
		{"whitespace", "  \t", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokens := Parse(tt.markup)
			assert.Len(t, tokens, tt.want)
			assert.NotNil(t, tokens)
		})
	}
}

func TestParseInvalidAttributes(t *testing.T) {
	tokens := Parse(`utc { month: "13" } weekday { day: "2" }`)
	require.Len(t, tokens, 2)
	assert.Nil(t, tokens[0].Value)
	assert.Error(t, tokens[0].Err)
	assert.NoError(t, tokens[1].Err)
}

func TestFormatRoundTrip(t *testing.T) {
	markup := `weekday { modifier: "next" day: "0" } " " "and" " " ` +
		`delta { hours: "2" sign: "+" }`
	assert.Equal(t, markup, Format(Parse(markup)))
}
