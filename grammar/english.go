package grammar

import (
	"strconv"

	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

// english holds the lexicon tables the English rules draw on.
type english struct {
	b           *builder
	numbers     resources.Table
	ordinals    resources.Table
	months      resources.Table
	weekdays    resources.Table
	units       resources.Table
	modifiers   resources.Table
	quantifiers resources.Table
	// pastTo is the connective of `ten past nine` and `quarter to five`.
	pastTo Pattern
}

// spelled matches spelled numbers, composing tens and ones as in
// `twenty one`.
func (e *english) spelled(units []types.Unit, pos int) []Match {
	var matches []Match
	for _, s := range e.numbers.Surfaces() {
		end, ok := matchText(units, pos, s)
		if !ok || end == pos {
			continue
		}
		v, _ := strconv.Atoi(e.numbers[s][0])
		matches = append(matches, Match{End: end, Value: strconv.Itoa(v)})
		if v < 20 || v%10 != 0 || end >= len(units) || !units[end].IsSpace() {
			continue
		}
		for _, o := range e.numbers.Surfaces() {
			ones, _ := strconv.Atoi(e.numbers[o][0])
			if ones < 1 || ones > 9 {
				continue
			}
			if oEnd, ok := matchText(units, end+1, o); ok {
				matches = append(matches,
					Match{End: oEnd, Value: strconv.Itoa(v + ones)})
			}
		}
	}
	return matches
}

// spelledOrdinal matches `third` and `twenty third`.
func (e *english) spelledOrdinal(units []types.Unit, pos int) []Match {
	var matches []Match
	for _, s := range e.ordinals.Surfaces() {
		if end, ok := matchText(units, pos, s); ok {
			matches = append(matches, Match{End: end, Value: e.ordinals[s][0]})
		}
	}
	for _, s := range e.numbers.Surfaces() {
		tens, _ := strconv.Atoi(e.numbers[s][0])
		if tens < 20 || tens%10 != 0 {
			continue
		}
		end, ok := matchText(units, pos, s)
		if !ok || end >= len(units) || !units[end].IsSpace() {
			continue
		}
		for _, o := range e.ordinals.Surfaces() {
			ones, _ := strconv.Atoi(e.ordinals[o][0])
			if ones < 1 || ones > 9 {
				continue
			}
			if oEnd, ok := matchText(units, end+1, o); ok {
				matches = append(matches,
					Match{End: oEnd, Value: strconv.Itoa(tens + ones)})
			}
		}
	}
	return matches
}

func (e *english) number(lo, hi int) Pattern {
	return Alt(Num(lo, hi), InRange(Func(e.spelled), lo, hi))
}

func (e *english) ordinal(lo, hi int) Pattern {
	suffix := e.b.lit("st", "nd", "rd", "th")
	return InRange(Alt(Keep(Num(lo, hi), suffix), Func(e.spelledOrdinal)),
		lo, hi)
}

// amount is a number of units: `3`, `three`, `a few`.
func (e *english) amount() Pattern {
	return Alt(e.number(1, 1000),
		InRange(e.b.lexValue(e.quantifiers, 0), 1, 1000))
}

// fiveMinutes keeps multiples of five up to half an hour.
func fiveMinutes(m Match) (Match, bool) {
	n, err := strconv.Atoi(m.Value)
	return m, err == nil && n > 0 && n <= 30 && n%5 == 0
}

// clockMinutes matches the minutes of `ten past` and `twenty five to`.
// After `from` or `between` the number starts a range instead.
func (e *english) clockMinutes() Pattern {
	return NotAfter(Map(Alt(Func(e.spelled), Num(25, 30)), fiveMinutes),
		e.b.lit("from", "between"))
}

func buildEnglish(b *builder) {
	e := &english{
		b:           b,
		numbers:     b.table("numbers"),
		ordinals:    b.table("ordinals"),
		months:      b.table("months"),
		weekdays:    b.table("weekdays"),
		units:       b.table("units"),
		modifiers:   b.table("modifiers"),
		quantifiers: b.optTable("quantifiers"),
	}
	e.pastTo = b.lit("past", "after", "to", "till", "before")
	for _, s := range e.numbers.Surfaces() {
		b.lit(s)
	}
	for _, s := range e.ordinals.Surfaces() {
		b.lit(s)
	}
	the := Opt(b.lit("the"))
	modifier := Cap("modifier", b.lexValue(e.modifiers, 0))
	month := Cap("month", b.lexValue(e.months, 0))
	year := Cap("year", year4)
	yearTail := Phrase(Opt(b.lit(",")), year)
	weekday := b.lexValue(e.weekdays, 0)

	b.rule("whitelist", types.KindWhitelist, WeightWhitelist,
		Cap("phrase", b.lit(b.lex.Whitelist...)))

	b.rule("fraction", types.KindFraction, WeightWhitelist,
		b.digitFraction(),
		fraction(Phrase(Opt(b.lit("a", "one")), b.lit("half")), "1", "2"),
		fraction(Phrase(b.lit("a", "one"), b.lit("quarter")), "1", "4"),
		fraction(Ahead(b.lit("quarter"), e.pastTo), "1", "4"),
		fraction(b.lit("three quarters"), "3", "4"),
		fraction(b.lit("a third", "one third"), "1", "3"),
		fraction(b.lit("two thirds"), "2", "3"),
	)

	e.dates(month, year, yearTail)
	e.times()
	e.ranges(month, yearTail)

	b.rule("relative", types.KindRelative, WeightRelative,
		Phrase(the, b.lexFields(b.table("relative"),
			"unit", "offset", "period")))

	day := Cap("day", weekday)
	b.rule("weekday", types.KindWeekday, WeightNamed,
		Phrase(day, b.lit("after next"), Set("modifier", "after_next")),
		Phrase(day, b.lit("before last"), Set("modifier", "before_last")),
		Phrase(Opt(modifier), day),
	)

	b.rule("holiday", types.KindHoliday, WeightNamed,
		Phrase(Opt(modifier),
			Cap("name", b.lexValue(b.table("holidays"), 0)),
			Opt(yearTail)))

	b.rule("period", types.KindPeriod, WeightNamed,
		Phrase(the, b.lexFields(b.table("periods"), "name", "start", "end")))

	e.composites(modifier, month, year, yearTail)
	e.quarters(modifier, year)
	e.centuries()
	e.deltas()
	e.recurring()
}

func (e *english) dates(month, year, yearTail Pattern) {
	b := e.b
	day := Cap("day", Alt(e.ordinal(1, 31), Num(1, 31)))
	slashYear := Cap("year", Alt(year4, Digits(2, 2)))
	b.rule("date", types.KindDate, WeightAbsolute,
		b.isoDate(),
		compactDate(),
		Seq(Cap("month", Num(1, 12)), b.lit("/"), Cap("day", Num(1, 31)),
			Opt(Seq(b.lit("/"), slashYear))),
		Phrase(month, day, Opt(yearTail)),
		Phrase(Opt(b.lit("the")), day, Opt(b.lit("of")), month,
			Opt(yearTail)),
		Phrase(month, yearTail),
		month,
		Phrase(b.lit("the"), Cap("day", e.ordinal(1, 31))),
		Cap("day", Keep(Num(1, 31), b.lit("st", "nd", "rd", "th"))),
		Phrase(b.lit("in", "year"), year),
		Cap("year", InRange(Digits(4, 4), 1900, 2100)),
	)
}

func (e *english) meridiem(key string) Pattern {
	b := e.b
	return Cap(key, Alt(Const("am", b.lit("am")), Const("pm", b.lit("pm"))))
}

func (e *english) times() {
	b := e.b
	meridiem := e.meridiem("meridiem")
	spelledHour := Cap("hour", InRange(Func(e.spelled), 1, 12))
	clock := Alt(
		Phrase(b.digitalClock(), Opt(meridiem)),
		Phrase(Cap("hour", e.number(1, 12)), meridiem),
		Phrase(Cap("hour", e.number(1, 12)), b.lit("oclock"), Opt(meridiem)),
		Phrase(spelledHour, Cap("minute", InRange(Func(e.spelled), 10, 59)),
			Opt(meridiem)),
		Phrase(spelledHour, b.lit("oh", "o"),
			Cap("minute", InRange(Func(e.spelled), 1, 9)), Opt(meridiem)),
		Seq(b.lit("noon"), Set("hour", "12"), Set("minute", "0")),
		Seq(b.lit("midnight"), Set("hour", "0"), Set("minute", "0")),
	)
	// the hour of `ten past nine`, tagged only after its minutes
	target := After(Phrase(spelledHour, Opt(meridiem)),
		Phrase(Alt(e.clockMinutes(), b.lit("quarter", "half")),
			Opt(b.lit("minutes", "minute")), e.pastTo))
	// in `at ten past nine` ten is the minutes
	hour := Cap("hour", e.number(0, 23))
	atHour := Alt(
		Map(hour, func(m Match) (Match, bool) {
			_, ok := fiveMinutes(m)
			return m, !ok
		}),
		Unless(Map(hour, fiveMinutes), e.pastTo),
	)
	b.rule("time", types.KindDate, WeightAbsolute,
		Phrase(b.lit("at", "@", "around", "about"), Alt(clock, atHour)),
		clock,
		target,
	)
	b.rule("bare", types.KindDate, WeightRelative,
		Seq(Cap("hour", Num(0, 24)), Set("bare", "true")))
	b.rule("clock minutes", types.KindDelta, WeightDelta,
		Ahead(Cap("minutes", e.clockMinutes()), e.pastTo))
}

func (e *english) ranges(month, yearTail Pattern) {
	b := e.b
	point := func(prefix string) Pattern {
		return Phrase(
			Alt(Seq(Cap(prefix+"hour", Num(0, 24)), b.lit(":"),
				Cap(prefix+"minute", twoDigits(0, 59))),
				Cap(prefix+"hour", Num(1, 12))),
			Opt(e.meridiem(prefix+"meridiem")))
	}
	day := func(key string) Pattern {
		return Cap(key, Alt(e.ordinal(1, 31), Num(1, 31)))
	}
	dash := b.lit("-", "~")
	b.rule("range", types.KindRange, WeightAbsolute,
		Phrase(point("start_"), dash, point("end_")),
		Phrase(b.lit("between"), point("start_"), b.lit("and"), point("end_")),
		Phrase(month, day("start_day"), b.lit("-", "~", "to", "through"),
			day("end_day"), Opt(yearTail)),
		Phrase(day("start_day"), b.lit("-", "~", "to"), day("end_day"),
			Opt(b.lit("of")), month, Opt(yearTail)),
	)
}

func (e *english) composites(modifier, month, year, yearTail Pattern) {
	b := e.b
	the := Opt(b.lit("the"))
	unit := Cap("unit", b.lexValue(e.units, 0))
	count := Cap("count", Alt(e.number(2, 1000),
		InRange(b.lexValue(e.quantifiers, 0), 2, 1000)))
	boundary := Cap("boundary", b.lexValue(b.optTable("boundaries"), 0))
	nth := Cap("ordinal", Alt(
		e.ordinal(1, 5),
		Const("-1", b.lit("last")),
		Const("-2", b.lit("second to last", "second last")),
	))
	weekday := Cap("weekday", b.lexValue(e.weekdays, 0))
	monthUnit := Seq(b.lit("month"), Set("unit", "month"))
	yearUnit := Seq(b.lit("year"), Set("unit", "year"))
	ofMonth := Alt(
		Phrase(month, Opt(yearTail), Set("unit", "month")),
		Phrase(the, modifier, monthUnit),
		Phrase(b.lit("the"), monthUnit, Set("modifier", "this")),
	)
	part := Cap("part", b.lit("day", "week"))

	b.rule("composite", types.KindComposite, WeightCalendar,
		Phrase(the, unit, b.lit("after next"), Set("modifier", "after_next")),
		Phrase(the, unit, b.lit("before last"),
			Set("modifier", "before_last")),
		Phrase(the, modifier, count, unit),
		Phrase(the, modifier, unit),
		Phrase(the, boundary, Opt(b.lit("of")), the, Opt(modifier), unit),
		Phrase(the, boundary, Opt(b.lit("of")), month, Opt(yearTail),
			Set("unit", "month")),
		Phrase(the, boundary, Opt(b.lit("of")), year, Set("unit", "year")),
		Phrase(the, nth, weekday, b.lit("of", "in"), ofMonth),
		Phrase(the, nth, part, b.lit("of", "in"), Alt(
			ofMonth,
			Phrase(year, Set("unit", "year")),
			Phrase(the, modifier, yearUnit),
			Phrase(b.lit("the"), yearUnit, Set("modifier", "this")),
		)),
		Phrase(b.lit("the"), Cap("unit", b.lit("weekend")),
			Set("modifier", "this")),
	)
}

func (e *english) quarters(modifier, year Pattern) {
	b := e.b
	the := Opt(b.lit("the"))
	yearTail := Phrase(Opt(b.lit(",", "of", "in")), year)
	b.rule("quarter", types.KindQuarter, WeightCalendar,
		Phrase(Seq(b.lit("q"), Cap("quarter", Num(1, 4))), Opt(yearTail)),
		Phrase(the, Cap("quarter", e.ordinal(1, 4)), b.lit("quarter"),
			Opt(yearTail)),
		Phrase(the, modifier, b.lit("quarter")),
	)
}

func (e *english) centuries() {
	b := e.b
	the := Opt(b.lit("the"))
	decadeOf := func(p Pattern) Pattern {
		return InRange(Map(p, func(m Match) (Match, bool) {
			n, err := strconv.Atoi(m.Value)
			return m, err == nil && n%10 == 0
		}), 0, 2990)
	}
	s := b.lit("s")
	named := make([]Pattern, 0, 8)
	for word, v := range map[string]string{
		"twenties": "20", "thirties": "30", "forties": "40",
		"fifties": "50", "sixties": "60", "seventies": "70",
		"eighties": "80", "nineties": "90",
	} {
		named = append(named, Const(v, b.lit(word)))
	}
	b.rule("century", types.KindCentury, WeightCalendar,
		Phrase(the, Cap("century", e.ordinal(1, 30)), b.lit("century")),
		Phrase(the, Cap("decade", Alt(
			Keep(decadeOf(Digits(4, 4)), s),
			Keep(decadeOf(Digits(2, 2)), s),
			Alt(named...),
		))),
	)
}

func (e *english) deltas() {
	b := e.b
	unit := b.lexFields(e.units, "\x00u", "\x00f")
	an := b.lit("a", "an")
	one := Alt(
		duration(Phrase(Cap("\x00n", e.amount()), unit,
			b.lit("and a half")), true),
		duration(Phrase(Cap("\x00n", e.amount()), b.lit("and a half"),
			unit), true),
		duration(Phrase(Cap("\x00n", e.amount()), unit), false),
		duration(Phrase(b.lit("half"), an, Set("\x00n", "0"), unit), true),
	)
	sep := Opt(b.lit("and", ","))
	amounts := Phrase(one, Opt(Phrase(sep, one)), Opt(Phrase(sep, one)))
	b.rule("delta", types.KindDelta, WeightDelta,
		Phrase(b.lit("in", "within", "after"), amounts, Set("sign", "+")),
		Phrase(amounts, b.lit("ago", "back", "earlier", "before now"),
			Set("sign", "-")),
		Phrase(amounts, b.lit("later", "hence", "from now", "afterwards"),
			Set("sign", "+")),
		amounts,
	)
}

func (e *english) recurring() {
	b := e.b
	every := b.lit("every", "each")
	interval := Cap("interval", Alt(e.number(2, 1000),
		Const("2", b.lit("other"))))
	weekday := Cap("weekday", b.lexValue(e.weekdays, 0))
	plurals := make([]Pattern, 0, 7)
	for _, s := range e.weekdays.Surfaces() {
		if len(s) > 5 {
			plurals = append(plurals, Const(e.weekdays[s][0], b.lit(s+"s")))
		}
	}
	b.rule("recurring", types.KindRecurring, WeightRecurring,
		Phrase(every, Opt(interval), Cap("unit", b.lexValue(e.units, 0))),
		Phrase(every, weekday, Set("unit", "weekday")),
		Cap("unit", Alt(
			Const("day", b.lit("daily", "nightly")),
			Const("week", b.lit("weekly")),
			Const("month", b.lit("monthly")),
			Const("year", b.lit("yearly", "annually")),
			Const("hour", b.lit("hourly")),
		)),
		Phrase(Opt(b.lit("on")), Cap("weekday", Alt(plurals...)),
			Set("unit", "weekday")),
	)
}
