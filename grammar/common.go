package grammar

import (
	"strconv"

	"github.com/wbrown/timex/types"
)

var year4 = InRange(Digits(4, 4), 1000, 2999)

func twoDigits(lo, hi int) Pattern {
	return InRange(Digits(2, 2), lo, hi)
}

// digitalClock matches 9:30 and 9:30:15.
func (b *builder) digitalClock() Pattern {
	return Seq(
		Cap("hour", Num(0, 24)),
		b.lit(":"),
		Cap("minute", twoDigits(0, 59)),
		Opt(Seq(b.lit(":"), Cap("second", twoDigits(0, 59)))),
	)
}

// isoDate matches 2025-01-21, 2025/1/21 and 2025.01.21, optionally followed
// by a clock time.
func (b *builder) isoDate() Pattern {
	sep := b.lit("-", "/", ".")
	date := Seq(
		Cap("year", year4), sep,
		Cap("month", InRange(Digits(1, 2), 1, 12)), sep,
		Cap("day", InRange(Digits(1, 2), 1, 31)),
	)
	clock := b.digitalClock()
	return Alt(
		Seq(date, b.lit("t"), clock, Opt(b.lit("z"))),
		Phrase(date, clock),
		date,
	)
}

// compactDate recovers yyyymmdd, yyyymmddhhmm and yyyymmddhhmmss from a
// placeholder unit.
func compactDate() Pattern {
	split := func(m Match) (Match, bool) {
		v := m.Value
		parts := []struct {
			key    string
			from   int
			to     int
			lo, hi int
		}{
			{"year", 0, 4, 1900, 2100},
			{"month", 4, 6, 1, 12},
			{"day", 6, 8, 1, 31},
			{"hour", 8, 10, 0, 23},
			{"minute", 10, 12, 0, 59},
			{"second", 12, 14, 0, 59},
		}
		fields := make(types.Fields, 0, len(parts))
		for _, p := range parts {
			if p.to > len(v) {
				break
			}
			n, err := strconv.Atoi(v[p.from:p.to])
			if err != nil || n < p.lo || n > p.hi {
				return m, false
			}
			fields = append(fields, types.Field{Key: p.key,
				Value: strconv.Itoa(n)})
		}
		m.Fields = fields
		return m, true
	}
	return Map(Alt(Long(8), Long(12), Long(14)), split)
}

// digitFraction matches n/d with n < d <= 10.
func (b *builder) digitFraction() Pattern {
	return Map(Seq(
		Cap("numerator", Num(1, 9)),
		b.lit("/"),
		Cap("denominator", Num(2, 10)),
	), func(m Match) (Match, bool) {
		n, _ := m.Fields.Get("numerator")
		d, _ := m.Fields.Get("denominator")
		num, _ := strconv.Atoi(n)
		den, _ := strconv.Atoi(d)
		return m, num < den
	})
}

// fraction sets a constant fraction on p.
func fraction(p Pattern, numerator, denominator string) Pattern {
	return Seq(p, Set("numerator", numerator),
		Set("denominator", denominator))
}

// durationFields converts an amount of a unit into delta fields. factor
// scales the amount, as for `fortnight` or `刻`.
func durationFields(amount float64, unit string, factor float64) (
	types.Fields, bool) {
	total := amount * factor
	whole := func(key string, v float64) (types.Fields, bool) {
		if v != float64(int(v)) || v <= 0 {
			return nil, false
		}
		return types.Fields{{Key: key, Value: strconv.Itoa(int(v))}}, true
	}
	switch unit {
	case "second":
		return whole("seconds", total)
	case "minute":
		if total != float64(int(total)) {
			return whole("seconds", total*60)
		}
		return whole("minutes", total)
	case "hour":
		if total != float64(int(total)) {
			return whole("minutes", total*60)
		}
		return whole("hours", total)
	case "day":
		if total != float64(int(total)) {
			return whole("hours", total*24)
		}
		return whole("days", total)
	case "week":
		if total != float64(int(total)) {
			return whole("days", total*7)
		}
		return whole("weeks", total)
	case "month":
		if total != float64(int(total)) {
			return whole("days", total*30)
		}
		return whole("months", total)
	case "quarter":
		return whole("months", total*3)
	case "year":
		if total != float64(int(total)) {
			return whole("months", total*12)
		}
		return whole("years", total)
	case "decade":
		return whole("years", total*10)
	case "century":
		return whole("years", total*100)
	}
	return nil, false
}

// duration combines an amount pattern and a unit pattern into delta fields.
// The amount pattern leaves its number in the value of field "\x00n", the
// unit pattern its unit in "\x00u" and an optional factor in "\x00f". half
// adds half a unit.
func duration(p Pattern, half bool) Pattern {
	return Map(p, func(m Match) (Match, bool) {
		amount := 1.0
		unit := ""
		factor := 1.0
		rest := make(types.Fields, 0, len(m.Fields))
		for _, f := range m.Fields {
			switch f.Key {
			case "\x00n":
				n, err := strconv.ParseFloat(f.Value, 64)
				if err != nil {
					return m, false
				}
				amount = n
			case "\x00u":
				unit = f.Value
			case "\x00f":
				n, err := strconv.ParseFloat(f.Value, 64)
				if err != nil {
					return m, false
				}
				factor = n
			default:
				rest = append(rest, f)
			}
		}
		if half {
			amount += 0.5
		}
		fields, ok := durationFields(amount, unit, factor)
		if !ok {
			return m, false
		}
		m.Fields = append(rest, fields...)
		return m, true
	})
}
