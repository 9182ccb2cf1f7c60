package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDate(t *testing.T) {
	value, err := Decode(KindDate, Fields{
		{"hour", "9"}, {"minute", "30"}, {"meridiem", "pm"},
	})
	require.NoError(t, err)
	d := value.(Date)
	assert.Equal(t, Unset, d.Year)
	assert.True(t, d.HasTime())
	assert.False(t, d.HasDate())
	h, m, s := d.Clock()
	assert.Equal(t, []int{21, 30, 0}, []int{h, m, s})
}

func TestDecodeTwoDigitYear(t *testing.T) {
	value, err := Decode(KindDate, Fields{{"year", "25"}, {"month", "1"}})
	require.NoError(t, err)
	assert.Equal(t, 2025, value.(Date).Year)
	value, err = Decode(KindDate, Fields{{"year", "99"}})
	require.NoError(t, err)
	assert.Equal(t, 1999, value.(Date).Year)
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name   string
		kind   Kind
		fields Fields
	}{
		{"month out of range", KindDate, Fields{{"month", "13"}}},
		{"not a number", KindDate, Fields{{"day", "\"21\""}}},
		{"meridiem on 24h clock", KindDate,
			Fields{{"hour", "15"}, {"meridiem", "pm"}}},
		{"empty date", KindDate, Fields{}},
		{"weekday without day", KindWeekday, Fields{{"modifier", "next"}}},
		{"unknown modifier", KindWeekday,
			Fields{{"day", "1"}, {"modifier", "soon"}}},
		{"empty delta", KindDelta, Fields{{"sign", "+"}}},
		{"zero denominator", KindFraction,
			Fields{{"numerator", "1"}, {"denominator", "0"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, err := Decode(tt.kind, tt.fields)
			assert.Error(t, err)
			assert.Nil(t, value)
		})
	}
}

func TestDecodeDeltaSumsRepeatedKeys(t *testing.T) {
	value, err := Decode(KindDelta, Fields{
		{"hours", "2"}, {"minutes", "30"}, {"minutes", "15"}, {"sign", "-"},
	})
	require.NoError(t, err)
	d := value.(Delta)
	assert.Equal(t, 2, d.Hours)
	assert.Equal(t, 45, d.Minutes)
	assert.Equal(t, -1, d.Sign)
	minutes, ok := d.ClockMinutes()
	assert.True(t, ok)
	assert.Equal(t, 165, minutes)
}

func TestDecodeRelativeOffsets(t *testing.T) {
	value, err := Decode(KindRelative, Fields{{"unit", "day"},
		{"offset", "-1"}})
	require.NoError(t, err)
	assert.Equal(t, -1, value.(Relative).Offset)
	value, err = Decode(KindRelative, Fields{{"unit", "now"}})
	require.NoError(t, err)
	assert.Equal(t, 0, value.(Relative).Offset)
}

func TestDecodeCompositeOrdinal(t *testing.T) {
	value, err := Decode(KindComposite, Fields{
		{"ordinal", "-1"}, {"weekday", "4"}, {"modifier", "next"},
		{"unit", "month"},
	})
	require.NoError(t, err)
	c := value.(Composite)
	assert.Equal(t, -1, c.Ordinal)
	assert.Equal(t, 4, c.Weekday)
	assert.Equal(t, 1, c.Count)
	assert.Equal(t, Unset, c.Month)
}

func TestDecodeCompositePart(t *testing.T) {
	value, err := Decode(KindComposite, Fields{
		{"ordinal", "-1"}, {"part", "day"}, {"month", "2"}, {"unit", "month"},
	})
	require.NoError(t, err)
	c := value.(Composite)
	assert.Equal(t, "day", c.Part)
	assert.Equal(t, -1, c.Ordinal)
	assert.Equal(t, 2, c.Month)

	_, err = Decode(KindComposite, Fields{{"part", "week"}, {"unit", "month"}})
	assert.ErrorContains(t, err, "part without ordinal")
	_, err = Decode(KindComposite, Fields{
		{"ordinal", "1"}, {"part", "hour"}, {"unit", "day"},
	})
	assert.Error(t, err)
}

func TestDecodeRangeSharedMeridiem(t *testing.T) {
	value, err := Decode(KindRange, Fields{
		{"start_hour", "9"}, {"end_hour", "11"}, {"meridiem", "am"},
	})
	require.NoError(t, err)
	rng := value.(Range)
	assert.Equal(t, "", rng.Start.Meridiem)
	assert.Equal(t, "am", rng.End.Meridiem)
}

func TestDateMerge(t *testing.T) {
	day := EmptyDate()
	day.Month, day.Day = 1, 5
	clock := EmptyDate()
	clock.Hour, clock.Meridiem, clock.Bare = 3, "pm", true
	assert.True(t, day.Disjoint(clock))
	merged := day.Merge(clock)
	assert.Equal(t, 1, merged.Month)
	assert.Equal(t, 3, merged.Hour)
	assert.Equal(t, "pm", merged.Meridiem)
	assert.True(t, merged.Bare)
	assert.False(t, merged.Disjoint(clock))
}

func TestTokenString(t *testing.T) {
	tok := NewToken(KindWeekday, Fields{{"day", "0"}, {"modifier", "next"}})
	require.NoError(t, tok.Err)
	assert.Equal(t, `weekday { day: "0" modifier: "next" }`, tok.String())
	lit := NewLiteral("from")
	assert.True(t, lit.IsLiteral())
	assert.Equal(t, `"from"`, lit.String())
	assert.Equal(t, "from", lit.Text())
}

func TestResultJSON(t *testing.T) {
	start := time.Date(2025, 1, 27, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 1, 27, 23, 59, 59, 0, time.UTC)
	out, err := json.Marshal([]Result{Interval(start, end), Instant(start)})
	require.NoError(t, err)
	assert.Equal(t,
		`[["2025-01-27T00:00:00Z","2025-01-27T23:59:59Z"],["2025-01-27T00:00:00Z"]]`,
		string(out))
}

func TestResultUTC(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	r := Instant(time.Date(2025, 1, 22, 9, 0, 0, 0, loc))
	assert.Equal(t, []string{"2025-01-22T01:00:00Z"}, r.Strings())
}

func TestUnitClasses(t *testing.T) {
	assert.True(t, Unit{Text: "2025"}.IsDigits())
	assert.True(t, Unit{Text: "monday"}.IsLetters())
	assert.False(t, Unit{Text: "周"}.IsLetters())
	assert.True(t, Unit{Text: Placeholder, Digits: "20250121"}.IsPlaceholder())
	assert.Equal(t, "on <20250121>",
		Key([]Unit{{Text: "on"}, {Text: " "},
			{Text: Placeholder, Digits: "20250121"}}))
}
