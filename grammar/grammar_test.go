package grammar

import (
	"strconv"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

var grammars = map[string]*Grammar{}

func loadGrammar(t *testing.T, lang string) *Grammar {
	if g, ok := grammars[lang]; ok {
		return g
	}
	lex, err := resources.ResolveLexicon(lang, "")
	require.NoError(t, err)
	g, err := New(lex)
	require.NoError(t, err)
	grammars[lang] = g
	return g
}

func lexTable(t *testing.T, lang, name string) resources.Table {
	lex, err := resources.ResolveLexicon(lang, "")
	require.NoError(t, err)
	table, err := lex.Table(name)
	require.NoError(t, err)
	return table
}

// unitize splits already canonical text into letter runs, digit runs,
// spaces and single characters. Han characters are always split.
func unitize(s string) []types.Unit {
	var units []types.Unit
	runes := []rune(s)
	for i := 0; i < len(runes); {
		j := i + 1
		switch r := runes[i]; {
		case unicode.IsDigit(r):
			for j < len(runes) && unicode.IsDigit(runes[j]) {
				j++
			}
		case unicode.IsLetter(r) && !unicode.Is(unicode.Han, r):
			for j < len(runes) && unicode.IsLetter(runes[j]) &&
				!unicode.Is(unicode.Han, runes[j]) {
				j++
			}
		}
		text := string(runes[i:j])
		if len(text) > 4 && unicode.IsDigit(runes[i]) {
			units = append(units,
				types.Unit{Text: types.Placeholder, Digits: text})
		} else {
			units = append(units, types.Unit{Text: text})
		}
		i = j
	}
	return units
}

func TestEnglishTag(t *testing.T) {
	g := loadGrammar(t, "en")
	tests := []struct {
		text string
		want string
	}{
		{"tomorrow at 9 am",
			`relative { unit: "day" offset: "1" } " " utc { hour: "9" meridiem: "am" }`},
		{"next monday", `weekday { modifier: "next" day: "0" }`},
		{"in 2 hours", `delta { hours: "2" sign: "+" }`},
		{"3 days ago", `delta { days: "3" sign: "-" }`},
		{"2025-01-21", `utc { year: "2025" month: "1" day: "21" }`},
		{"20250121", `utc { year: "2025" month: "1" day: "21" }`},
		{"january 21st, 2025", `utc { month: "1" day: "21" year: "2025" }`},
		{"thanksgiving", `holiday { name: "thanksgiving" }`},
		{"the end of the month", `composite { boundary: "end" unit: "month" }`},
		{"q3 2025", `quarter { quarter: "3" year: "2025" }`},
		{"the 1990s", `century { decade: "1990" }`},
		{"every other week", `recurring { interval: "2" unit: "week" }`},
		{"an hour and a half",
			`delta { minutes: "90" }`},
		{"two thirds", `fraction { numerator: "2" denominator: "3" }`},
		{"9-11am",
			`range { start_hour: "9" end_hour: "11" end_meridiem: "am" }`},
		{"wait a minute", `whitelist { phrase: "wait a minute" }`},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Tag(unitize(tt.text)))
		})
	}
}

func TestEnglishCompositeNthWeekday(t *testing.T) {
	g := loadGrammar(t, "en")
	segments := g.Decode(unitize("the last friday of november"))
	require.Len(t, segments, 1)
	assert.Equal(t, types.KindComposite, segments[0].Kind)
	tok := types.NewToken(segments[0].Kind, segments[0].Fields)
	require.NoError(t, tok.Err)
	c, ok := tok.Composite()
	require.True(t, ok)
	assert.Equal(t, -1, c.Ordinal)
	assert.Equal(t, 4, c.Weekday)
	assert.Equal(t, 11, c.Month)
}

func TestEnglishCompositePart(t *testing.T) {
	g := loadGrammar(t, "en")
	tests := []struct {
		text     string
		ordinal  int
		part     string
		unit     string
		month    int
		modifier string
	}{
		{"last day of the month", -1, "day", "month", types.Unset, "this"},
		{"the last day of february", -1, "day", "month", 2, ""},
		{"last week of march", -1, "week", "month", 3, ""},
		{"first day of next month", 1, "day", "month", types.Unset, "next"},
		{"the second week of the year", 2, "week", "year", types.Unset,
			"this"},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			segments := g.Decode(unitize(tt.text))
			require.Len(t, segments, 1)
			tok := types.NewToken(segments[0].Kind, segments[0].Fields)
			require.NoError(t, tok.Err)
			c, ok := tok.Composite()
			require.True(t, ok)
			assert.Equal(t, tt.ordinal, c.Ordinal)
			assert.Equal(t, tt.part, c.Part)
			assert.Equal(t, tt.unit, c.Unit)
			assert.Equal(t, tt.month, c.Month)
			assert.Equal(t, tt.modifier, c.Modifier)
		})
	}
}

func TestEnglishClockArithmeticTag(t *testing.T) {
	g := loadGrammar(t, "en")
	tests := []struct {
		text string
		want string
	}{
		{"ten past nine",
			`delta { minutes: "10" } " " "past" " " utc { hour: "9" }`},
		{"at ten past nine",
			`"at" " " delta { minutes: "10" } " " "past" " " utc { hour: "9" }`},
		{"twenty five to twelve",
			`delta { minutes: "25" } " " "to" " " utc { hour: "12" }`},
		{"quarter to 5",
			`fraction { numerator: "1" denominator: "4" } " " "to" " " utc { hour: "5" bare: "true" }`},
		{"twenty past six pm",
			`delta { minutes: "20" } " " "past" " " utc { hour: "6" meridiem: "pm" }`},
		{"half past nine",
			`fraction { numerator: "1" denominator: "2" } " " "past" " " utc { hour: "9" }`},
		// a range, not ten minutes to eleven
		{"from ten to eleven", ""},
		{"nine to five", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Tag(unitize(tt.text)))
		})
	}
}

func TestLookaround(t *testing.T) {
	units := unitize("ten past nine")
	ends := func(ms []Match) []int {
		out := make([]int, 0, len(ms))
		for _, m := range ms {
			out = append(out, m.End)
		}
		return out
	}
	ten, nine := Lit("ten"), Lit("nine")
	assert.Equal(t, []int{1}, ends(Ahead(ten, Lit("past"))(units, 0)))
	assert.Empty(t, Ahead(ten, Lit("to"))(units, 0))
	assert.Empty(t, Unless(ten, Lit("past"))(units, 0))
	assert.Equal(t, []int{5}, ends(After(nine, Phrase(ten, Lit("past")))(units, 4)))
	assert.Empty(t, After(nine, Lit("ten"))(units, 4))
	assert.Empty(t, NotAfter(nine, Lit("past"))(units, 4))
	assert.Equal(t, []int{1}, ends(NotAfter(ten, Lit("from"))(units, 0)))
}

func TestEnglishFromToStaysSeparate(t *testing.T) {
	g := loadGrammar(t, "en")
	segments := g.Decode(unitize("from 9:30 to 11:00 on thursday"))
	kinds := make([]types.Kind, 0, len(segments))
	for _, seg := range segments {
		if seg.Kind != types.KindLiteral {
			kinds = append(kinds, seg.Kind)
		}
	}
	assert.Equal(t, []types.Kind{types.KindDate, types.KindDate,
		types.KindWeekday}, kinds)
}

func TestEnglishBareHour(t *testing.T) {
	g := loadGrammar(t, "en")
	segments := g.Decode(unitize("9"))
	require.Len(t, segments, 1)
	assert.Equal(t, "bare", segments[0].Rule)
	assert.Equal(t, `"meet" " " utc { hour: "9" }`,
		g.Tag(unitize("meet at 9")))
}

func TestTagWithoutTokensIsEmpty(t *testing.T) {
	g := loadGrammar(t, "en")
	assert.Equal(t, "", g.Tag(unitize("hello world")))
	assert.Equal(t, "", g.Tag(nil))
}

func TestEnglishSpelledNumbers(t *testing.T) {
	e := &english{numbers: lexTable(t, "en", "numbers")}
	values := func(s string) []string {
		var out []string
		for _, m := range e.spelled(unitize(s), 0) {
			out = append(out, m.Value)
		}
		return out
	}
	assert.Contains(t, values("twenty one"), "21")
	assert.Contains(t, values("twenty one"), "20")
	assert.Equal(t, []string{"7"}, values("seven"))
}

func TestChineseTag(t *testing.T) {
	g := loadGrammar(t, "zh")
	tests := []struct {
		text string
		want string
	}{
		{"明天上午9点",
			`relative { unit: "day" offset: "1" } period { name: "forenoon" start: "8" end: "12" } utc { hour: "9" }`},
		{"下周一", `weekday { modifier: "next" day: "0" }`},
		{"3天后", `delta { days: "3" sign: "+" }`},
		{"国庆节", `holiday { name: "national_day" }`},
		{"二〇二五年三月五日", `utc { year: "2025" month: "3" day: "5" }`},
		{"十点半", `utc { hour: "10" minute: "30" }`},
		{"下下周三", `weekday { modifier: "next_next" day: "2" }`},
		{"月底", `composite { unit: "month" boundary: "end" }`},
		{"过去三天", `composite { modifier: "past" count: "3" unit: "day" }`},
		{"周末", `composite { unit: "weekend" }`},
		{"第三季度", `quarter { quarter: "3" }`},
		{"一个半小时", `delta { minutes: "90" }`},
		{"两刻钟", `delta { minutes: "30" }`},
		{"三分之一", `fraction { denominator: "3" numerator: "1" }`},
		{"每周一", `recurring { weekday: "0" unit: "weekday" }`},
		{"21世纪90年代", `century { century: "21" decade: "90" }`},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, g.Tag(unitize(tt.text)))
		})
	}
}

func TestChineseNumerals(t *testing.T) {
	c := &chinese{numerals: lexTable(t, "zh", "numbers")}
	tests := map[string]int{
		"五":    5,
		"十":    10,
		"十一":   11,
		"二十五":  25,
		"一百零八": 108,
		"两千零二十五": 2025,
		"二〇二五": 2025,
	}
	for text, want := range tests {
		matches := c.numeral(unitize(text), 0)
		require.NotEmpty(t, matches, text)
		assert.Equal(t, len([]rune(text)), matches[0].End, text)
		assert.Equal(t, strconv.Itoa(want), matches[0].Value, text)
	}
	_, ok := c.parseNumeral(unitize("十十"))
	assert.False(t, ok)
}

func TestFromToChineseStaysSeparate(t *testing.T) {
	g := loadGrammar(t, "zh")
	assert.Equal(t,
		`"从" utc { hour: "9" } "到" utc { hour: "11" }`,
		g.Tag(unitize("从9点到11点")))
}

func TestDurationFields(t *testing.T) {
	fields, ok := durationFields(1.5, "hour", 1)
	require.True(t, ok)
	assert.Equal(t, types.Fields{{Key: "minutes", Value: "90"}}, fields)
	fields, ok = durationFields(2, "week", 2)
	require.True(t, ok)
	assert.Equal(t, types.Fields{{Key: "weeks", Value: "4"}}, fields)
	_, ok = durationFields(1, "weekend", 1)
	assert.False(t, ok)
}

func TestMissingTableIsAnError(t *testing.T) {
	lex, err := resources.ResolveLexicon("en", "")
	require.NoError(t, err)
	delete(lex.Tables, "weekdays")
	_, err = New(lex)
	assert.Error(t, err)
	lex.Lang = "fr"
	_, err = New(lex)
	assert.Error(t, err)
}
