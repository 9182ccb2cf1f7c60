package resolve

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wbrown/timex/markup"
	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

// A Tuesday.
var base = time.Date(2025, time.January, 21, 8, 0, 0, 0, time.UTC)

func newResolver(t *testing.T, lang string, policy Policy) *Resolver {
	lex, err := resources.ResolveLexicon(lang, "")
	require.NoError(t, err)
	return New(lex, policy)
}

func resolveMarkup(r *Resolver, s string) [][]string {
	return types.ResultStrings(r.Resolve(markup.Parse(s), base))
}

func TestCalendar(t *testing.T) {
	assert.Equal(t, 29, daysIn(2024, time.February))
	assert.Equal(t, 28, daysIn(2025, time.February))
	assert.Equal(t, 28, daysIn(1900, time.February))
	assert.Equal(t, 29, daysIn(2000, time.February))

	jan31 := date(2025, time.January, 31, time.UTC)
	assert.Equal(t, date(2025, time.February, 28, time.UTC), addMonths(jan31, 1))
	assert.Equal(t, date(2024, time.February, 29, time.UTC),
		addMonths(date(2024, time.January, 31, time.UTC), 1))
	assert.Equal(t, date(2026, time.February, 28, time.UTC),
		addMonths(date(2025, time.November, 30, time.UTC), 3))
	assert.Equal(t, date(2024, time.December, 31, time.UTC),
		addMonths(jan31, -1))

	m, d := easter(2025)
	assert.Equal(t, time.April, m)
	assert.Equal(t, 20, d)
	assert.Equal(t, date(2024, time.May, 5, time.UTC),
		orthodoxEaster(2024, time.UTC))
	assert.Equal(t, date(2025, time.April, 20, time.UTC),
		orthodoxEaster(2025, time.UTC))

	thanksgiving, ok := nthWeekday(2025, time.November, 3, 4, time.UTC)
	require.True(t, ok)
	assert.Equal(t, date(2025, time.November, 27, time.UTC), thanksgiving)
	_, ok = nthWeekday(2025, time.February, 0, 5, time.UTC)
	assert.False(t, ok)

	assert.Equal(t, date(2000, time.January, 1, time.UTC),
		startOfCentury(date(2025, time.June, 1, time.UTC)))
	assert.Equal(t, date(2025, time.January, 20, time.UTC), startOfWeek(base))
}

func TestHolidayDates(t *testing.T) {
	r := newResolver(t, "en", Policy{})
	tests := []struct {
		name string
		year int
		want time.Time
	}{
		{"thanksgiving", 2025, date(2025, time.November, 27, time.UTC)},
		{"memorial_day", 2025, date(2025, time.May, 26, time.UTC)},
		{"easter", 2025, date(2025, time.April, 20, time.UTC)},
		{"good_friday", 2025, date(2025, time.April, 18, time.UTC)},
		{"orthodox_easter", 2024, date(2024, time.May, 5, time.UTC)},
		{"christmas", 2025, date(2025, time.December, 25, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := r.holidayDate(tt.name, tt.year, time.UTC, 0)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
	_, ok := r.holidayDate("no_such_day", 2025, time.UTC, 0)
	assert.False(t, ok)
}

func TestResolveEnglish(t *testing.T) {
	r := newResolver(t, "en", Policy{})
	tests := []struct {
		name   string
		markup string
		want   [][]string
	}{
		{"tomorrow at 9 am",
			`relative { unit: "day" offset: "1" } " " utc { hour: "9" meridiem: "am" }`,
			[][]string{{"2025-01-22T09:00:00Z"}}},
		{"from 9:30 to 11:00 on thursday",
			`"from" " " utc { hour: "9" minute: "30" } " " "to" " " utc { hour: "11" minute: "0" } " " "on" " " weekday { day: "3" }`,
			[][]string{{"2025-01-23T09:30:00Z", "2025-01-23T11:00:00Z"}}},
		{"tomorrow 9 am to 5 pm",
			`relative { unit: "day" offset: "1" } " " utc { hour: "9" meridiem: "am" } " " "to" " " utc { hour: "5" meridiem: "pm" }`,
			[][]string{{"2025-01-22T09:00:00Z", "2025-01-22T17:00:00Z"}}},
		{"monday to friday",
			`weekday { day: "0" } " " "to" " " weekday { day: "4" }`,
			[][]string{{"2025-01-27T00:00:00Z", "2025-01-31T23:59:59Z"}}},
		{"march 3 to 5",
			`utc { month: "3" day: "3" } " " "to" " " utc { day: "5" }`,
			[][]string{{"2025-03-03T00:00:00Z", "2025-03-05T23:59:59Z"}}},
		{"january 5 at 9 am",
			`utc { month: "1" day: "5" } " " "at" " " utc { hour: "9" meridiem: "am" }`,
			[][]string{{"2025-01-05T09:00:00Z"}}},
		{"end of the month",
			`composite { boundary: "end" unit: "month" }`,
			[][]string{{"2025-01-21T00:00:00Z", "2025-01-31T23:59:59Z"}}},
		{"the past three days",
			`composite { modifier: "past" count: "3" unit: "day" }`,
			[][]string{{"2025-01-18T08:00:00Z", "2025-01-21T08:00:00Z"}}},
		{"next week",
			`composite { modifier: "next" unit: "week" }`,
			[][]string{{"2025-01-27T00:00:00Z", "2025-02-02T23:59:59Z"}}},
		{"the weekend",
			`composite { unit: "weekend" }`,
			[][]string{{"2025-01-25T00:00:00Z", "2025-01-26T23:59:59Z"}}},
		{"the last friday of november",
			`composite { ordinal: "-1" weekday: "4" month: "11" unit: "month" }`,
			[][]string{{"2025-11-28T00:00:00Z", "2025-11-28T23:59:59Z"}}},
		{"in 2 hours", `delta { hours: "2" sign: "+" }`,
			[][]string{{"2025-01-21T10:00:00Z"}}},
		{"10 to 5",
			`utc { hour: "10" bare: "true" } " " "to" " " utc { hour: "5" bare: "true" }`,
			[][]string{{"2025-01-21T04:50:00Z"}}},
		{"a quarter past 9",
			`fraction { numerator: "1" denominator: "4" } " " "past" " " utc { hour: "9" bare: "true" }`,
			[][]string{{"2025-01-21T09:15:00Z"}}},
		{"ten past nine",
			`delta { minutes: "10" } " " "past" " " utc { hour: "9" }`,
			[][]string{{"2025-01-21T09:10:00Z"}}},
		{"twenty past six pm",
			`delta { minutes: "20" } " " "past" " " utc { hour: "6" meridiem: "pm" }`,
			[][]string{{"2025-01-21T18:20:00Z"}}},
		{"half past 3 tomorrow",
			`fraction { numerator: "1" denominator: "2" } " " "past" " " utc { hour: "3" bare: "true" } " " relative { unit: "day" offset: "1" }`,
			[][]string{{"2025-01-22T03:30:00Z"}}},
		{"friday quarter to 5",
			`weekday { day: "4" } " " fraction { numerator: "1" denominator: "4" } " " "to" " " utc { hour: "5" bare: "true" }`,
			[][]string{{"2025-01-24T04:45:00Z"}}},
		{"tomorrow from 2pm to 4pm",
			`relative { unit: "day" offset: "1" } " " "from" " " utc { hour: "2" meridiem: "pm" } " " "to" " " utc { hour: "4" meridiem: "pm" }`,
			[][]string{{"2025-01-22T14:00:00Z", "2025-01-22T16:00:00Z"}}},
		{"thursday from 9:30 to 11:00",
			`weekday { day: "3" } " " "from" " " utc { hour: "9" minute: "30" } " " "to" " " utc { hour: "11" minute: "0" }`,
			[][]string{{"2025-01-23T09:30:00Z", "2025-01-23T11:00:00Z"}}},
		{"last day of the month",
			`composite { ordinal: "-1" part: "day" unit: "month" modifier: "this" }`,
			[][]string{{"2025-01-31T00:00:00Z", "2025-01-31T23:59:59Z"}}},
		{"the second to last week of february 2024",
			`composite { ordinal: "-2" part: "week" month: "2" year: "2024" unit: "month" }`,
			[][]string{{"2024-02-16T00:00:00Z", "2024-02-22T23:59:59Z"}}},
		{"before christmas",
			`"before" " " holiday { name: "christmas" }`,
			[][]string{{"2025-01-21T08:00:00Z", "2025-12-25T00:00:00Z"}}},
		{"after christmas",
			`"after" " " holiday { name: "christmas" }`,
			[][]string{{"2025-12-26T00:00:00Z", "2025-12-26T23:59:59Z"}}},
		{"before 5 pm",
			`"before" " " utc { hour: "5" meridiem: "pm" }`,
			[][]string{{"2025-01-21T00:00:00Z", "2025-01-21T17:00:00Z"}}},
		{"before yesterday",
			`"before" " " relative { unit: "day" offset: "-1" }`,
			[][]string{{"2025-01-20T00:00:00Z", "2025-01-20T23:59:59Z"}}},
		{"after the last second of the day",
			`"after" " " utc { hour: "23" minute: "59" second: "59" }`,
			[][]string{{"2025-01-21T23:59:59Z"}}},
		{"since monday",
			`"since" " " weekday { day: "0" }`,
			[][]string{{"2025-01-20T00:00:00Z", "2025-01-21T08:00:00Z"}}},
		{"since last monday",
			`"since" " " weekday { modifier: "last" day: "0" }`,
			[][]string{{"2025-01-13T00:00:00Z", "2025-01-21T08:00:00Z"}}},
		{"until 5 pm",
			`"until" " " utc { hour: "5" meridiem: "pm" }`,
			[][]string{{"2025-01-21T08:00:00Z", "2025-01-21T17:00:00Z"}}},
		{"christmas", `holiday { name: "christmas" }`,
			[][]string{{"2025-12-25T00:00:00Z", "2025-12-25T23:59:59Z"}}},
		{"christmas 2026",
			`holiday { name: "christmas" } " " utc { year: "2026" }`,
			[][]string{{"2026-12-25T00:00:00Z", "2026-12-25T23:59:59Z"}}},
		{"3 days after christmas",
			`delta { days: "3" } " " "after" " " holiday { name: "christmas" }`,
			[][]string{{"2025-12-28T00:00:00Z", "2025-12-28T23:59:59Z"}}},
		{"from feb 3 for 3 days",
			`"from" " " utc { month: "2" day: "3" } " " "for" " " delta { days: "3" }`,
			[][]string{{"2025-02-03T00:00:00Z", "2025-02-05T23:59:59Z"}}},
		{"9-11am", `range { start_hour: "9" end_hour: "11" end_meridiem: "am" }`,
			[][]string{{"2025-01-21T09:00:00Z", "2025-01-21T11:00:00Z"}}},
		{"tomorrow 9-11am",
			`relative { unit: "day" offset: "1" } " " range { start_hour: "9" end_hour: "11" end_meridiem: "am" }`,
			[][]string{{"2025-01-22T09:00:00Z", "2025-01-22T11:00:00Z"}}},
		{"the 1990s", `century { decade: "1990" }`,
			[][]string{{"1990-01-01T00:00:00Z", "1999-12-31T23:59:59Z"}}},
		{"the 90s", `century { decade: "90" }`,
			[][]string{{"1990-01-01T00:00:00Z", "1999-12-31T23:59:59Z"}}},
		{"q3 2025", `quarter { quarter: "3" year: "2025" }`,
			[][]string{{"2025-07-01T00:00:00Z", "2025-09-30T23:59:59Z"}}},
		{"every monday at 9 am",
			`recurring { unit: "weekday" weekday: "0" } " " "at" " " utc { hour: "9" meridiem: "am" }`,
			[][]string{{"2025-01-27T09:00:00Z"}}},
		{"9 in the morning",
			`utc { hour: "9" bare: "true" } " " "in" " " "the" " " period { name: "morning" start: "6" end: "12" }`,
			[][]string{{"2025-01-21T09:00:00Z"}}},
		{"a lone number", `utc { hour: "9" bare: "true" }`, [][]string{}},
		{"no tokens", `"hello world"`, [][]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveMarkup(r, tt.markup))
		})
	}
}

func TestRangeIsConsumedWhole(t *testing.T) {
	r := newResolver(t, "en", Policy{})
	tokens := markup.Parse(`"from" " " utc { hour: "9" minute: "30" } " " "to" " " utc { hour: "11" minute: "0" } " " "on" " " weekday { day: "3" }`)
	res, consumed := r.step(tokens, 0, base)
	assert.Equal(t, len(tokens), consumed)
	assert.Len(t, res, 1)
}

func TestWeekdayModifiers(t *testing.T) {
	tests := []struct {
		weekday types.Weekday
		want    time.Time
	}{
		{types.Weekday{Day: 0, Modifier: "this"}, date(2025, 1, 20, time.UTC)},
		{types.Weekday{Day: 0, Modifier: "next"}, date(2025, 1, 27, time.UTC)},
		{types.Weekday{Day: 0}, date(2025, 1, 27, time.UTC)},
		{types.Weekday{Day: 1}, date(2025, 1, 21, time.UTC)},
		{types.Weekday{Day: 1, Modifier: "coming"}, date(2025, 1, 28, time.UTC)},
		{types.Weekday{Day: 4, Modifier: "this"}, date(2025, 1, 24, time.UTC)},
		{types.Weekday{Day: 4, Modifier: "next"}, date(2025, 1, 31, time.UTC)},
		{types.Weekday{Day: 4, Modifier: "last"}, date(2025, 1, 17, time.UTC)},
		{types.Weekday{Day: 2, Modifier: "next_next"}, date(2025, 2, 5, time.UTC)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, weekdayDate(tt.weekday, base), tt.weekday)
	}
}

func TestDeltaUnitsAgree(t *testing.T) {
	r := newResolver(t, "en", Policy{})
	assert.Equal(t,
		resolveMarkup(r, `delta { hours: "2" minutes: "30" sign: "+" }`),
		resolveMarkup(r, `delta { minutes: "150" sign: "+" }`))
	assert.Equal(t, [][]string{{"2024-12-21T08:00:00Z"}},
		resolveMarkup(r, `delta { months: "1" sign: "-" }`))
}

func TestBareHoursPolicy(t *testing.T) {
	r := newResolver(t, "en", Policy{BareHours: true})
	assert.Equal(t, [][]string{{"2025-01-21T09:00:00Z"}},
		resolveMarkup(r, `utc { hour: "9" bare: "true" }`))
	r = newResolver(t, "en", Policy{InferPM: true})
	assert.Equal(t, [][]string{{"2025-01-21T15:00:00Z"}},
		resolveMarkup(r, `utc { hour: "3" }`))
}

func TestResolveChinese(t *testing.T) {
	r := newResolver(t, "zh", Policy{})
	tests := []struct {
		name   string
		markup string
		want   [][]string
	}{
		{"明天上午9点",
			`relative { unit: "day" offset: "1" } period { name: "forenoon" start: "8" end: "12" } utc { hour: "9" }`,
			[][]string{{"2025-01-22T09:00:00Z"}}},
		{"晚上8点",
			`period { name: "evening" start: "18" end: "24" } utc { hour: "8" }`,
			[][]string{{"2025-01-21T20:00:00Z"}}},
		{"从9点到11点",
			`"从" utc { hour: "9" } "到" utc { hour: "11" }`,
			[][]string{{"2025-01-21T09:00:00Z", "2025-01-21T11:00:00Z"}}},
		{"明年年底",
			`relative { unit: "year" offset: "1" } composite { unit: "year" boundary: "end" }`,
			[][]string{{"2026-09-01T00:00:00Z", "2026-12-31T23:59:59Z"}}},
		{"下周五",
			`composite { modifier: "next" unit: "week" } weekday { day: "4" }`,
			[][]string{{"2025-01-31T00:00:00Z", "2025-01-31T23:59:59Z"}}},
		{"下个月5号",
			`composite { modifier: "next" unit: "month" } utc { day: "5" }`,
			[][]string{{"2025-02-05T00:00:00Z", "2025-02-05T23:59:59Z"}}},
		{"21世纪 90年代",
			`century { century: "21" } century { decade: "90" }`,
			[][]string{{"2090-01-01T00:00:00Z", "2099-12-31T23:59:59Z"}}},
		{"明年第一季度",
			`relative { unit: "year" offset: "1" } quarter { quarter: "1" }`,
			[][]string{{"2026-01-01T00:00:00Z", "2026-03-31T23:59:59Z"}}},
		{"每天早上8点",
			`recurring { unit: "day" } period { name: "morning" start: "6" end: "12" } utc { hour: "8" }`,
			[][]string{{"2025-01-21T08:00:00Z"}}},
		{"3天前", `delta { days: "3" sign: "-" }`,
			[][]string{{"2025-01-18T08:00:00Z"}}},
		{"十点差五分",
			`utc { hour: "10" } "差" delta { minutes: "5" }`,
			[][]string{{"2025-01-21T09:55:00Z"}}},
		{"明天十点差一刻",
			`relative { unit: "day" offset: "1" } utc { hour: "10" } "差" delta { minutes: "15" }`,
			[][]string{{"2025-01-22T09:45:00Z"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, resolveMarkup(r, tt.markup))
		})
	}
}

func TestEachYieldsAsItResolves(t *testing.T) {
	r := newResolver(t, "en", Policy{})
	tokens := markup.Parse(`holiday { name: "christmas" } " " "and" " " relative { unit: "day" offset: "1" }`)
	var got []types.Result
	func() {
		defer func() { _ = recover() }()
		r.Each(tokens, base, func(res types.Result) {
			got = append(got, res)
			panic("stop")
		})
	}()
	assert.Equal(t, [][]string{{"2025-12-25T00:00:00Z",
		"2025-12-25T23:59:59Z"}}, types.ResultStrings(got))
	assert.Len(t, r.Resolve(tokens, base), 2)
}

func TestPartOf(t *testing.T) {
	feb := date(2025, time.February, 1, time.UTC)
	mar := date(2025, time.March, 1, time.UTC)
	tests := []struct {
		part string
		n    int
		want []string
	}{
		{"day", 1, []string{"2025-02-01T00:00:00Z", "2025-02-01T23:59:59Z"}},
		{"day", -1, []string{"2025-02-28T00:00:00Z", "2025-02-28T23:59:59Z"}},
		{"week", 4, []string{"2025-02-22T00:00:00Z", "2025-02-28T23:59:59Z"}},
		{"week", -1, []string{"2025-02-22T00:00:00Z", "2025-02-28T23:59:59Z"}},
		{"week", 5, nil},
	}
	for _, tt := range tests {
		res, ok := partOf(tt.part, tt.n, feb, mar)
		if tt.want == nil {
			assert.False(t, ok, "%s %d", tt.part, tt.n)
			continue
		}
		require.True(t, ok, "%s %d", tt.part, tt.n)
		assert.Equal(t, tt.want, res.Strings())
	}
}

func TestResolveDoesNotMutateTokens(t *testing.T) {
	r := newResolver(t, "en", Policy{})
	tokens := markup.Parse(`utc { month: "3" day: "3" } " " "to" " " utc { day: "5" }`)
	before := markup.Format(tokens)
	r.Resolve(tokens, base)
	assert.Equal(t, before, markup.Format(tokens))
}
