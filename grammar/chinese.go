package grammar

import (
	"strconv"

	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

type chinese struct {
	b           *builder
	numerals    resources.Table
	weekdays    resources.Table
	units       resources.Table
	modifiers   resources.Table
	quantifiers resources.Table
}

// numeral matches Chinese numerals: positional forms such as 二十五 and
// 两千零二十五, and digit strings of four or more digits such as 二〇二五.
// Every valid prefix is a match, longest first.
func (c *chinese) numeral(units []types.Unit, pos int) []Match {
	end := pos
	for end < len(units) {
		if _, ok := c.numerals[units[end].Text]; !ok {
			break
		}
		end++
	}
	matches := make([]Match, 0, end-pos)
	for stop := end; stop > pos; stop-- {
		if v, ok := c.parseNumeral(units[pos:stop]); ok {
			matches = append(matches,
				Match{End: stop, Value: strconv.Itoa(v)})
		}
	}
	return matches
}

func (c *chinese) isMultiplier(text string) bool {
	cols := c.numerals[text]
	return len(cols) > 1 && cols[1] == "multiplier"
}

func (c *chinese) parseNumeral(units []types.Unit) (int, bool) {
	positional := false
	for _, u := range units {
		if c.isMultiplier(u.Text) {
			positional = true
		}
	}
	if !positional {
		if len(units) == 1 {
			v, err := strconv.Atoi(c.numerals[units[0].Text][0])
			return v, err == nil
		}
		if len(units) < 4 {
			return 0, false
		}
		v := 0
		for _, u := range units {
			d, _ := strconv.Atoi(c.numerals[u.Text][0])
			v = v*10 + d
		}
		return v, true
	}
	total, digit, lastMul := 0, -1, 100000
	for _, u := range units {
		n, _ := strconv.Atoi(c.numerals[u.Text][0])
		if !c.isMultiplier(u.Text) {
			if digit >= 0 && n != 0 {
				return 0, false
			}
			if n == 0 {
				continue
			}
			digit = n
			continue
		}
		if n >= lastMul {
			return 0, false
		}
		if digit < 0 {
			digit = 1
		}
		total += digit * n
		digit, lastMul = -1, n
	}
	if digit > 0 {
		total += digit
	}
	return total, true
}

func (c *chinese) number(lo, hi int) Pattern {
	return Alt(Num(lo, hi), InRange(Func(c.numeral), lo, hi))
}

func buildChinese(b *builder) {
	c := &chinese{
		b:           b,
		numerals:    b.table("numbers"),
		weekdays:    b.table("weekdays"),
		units:       b.table("units"),
		modifiers:   b.table("modifiers"),
		quantifiers: b.optTable("quantifiers"),
	}
	for _, s := range c.numerals.Surfaces() {
		b.lit(s)
	}
	modifier := Cap("modifier", b.lexValue(c.modifiers, 0))
	yearPart := Seq(Cap("year", Alt(year4,
		InRange(Func(c.numeral), 1000, 2999))), b.lit("年"))
	monthPart := Seq(Cap("month", c.number(1, 12)), b.lit("月"))
	dayPart := Seq(Cap("day", c.number(1, 31)), b.lit("日", "号"))
	weekPrefix := b.lit("星期", "礼拜", "周")
	weekday := b.lexValue(c.weekdays, 0)

	b.rule("whitelist", types.KindWhitelist, WeightWhitelist,
		Cap("phrase", b.lit(b.lex.Whitelist...)))

	b.rule("fraction", types.KindFraction, WeightWhitelist,
		b.digitFraction(),
		Map(Phrase(Cap("denominator", c.number(2, 10)), b.lit("分之"),
			Cap("numerator", c.number(1, 9))), func(m Match) (Match, bool) {
			n, _ := m.Fields.Get("numerator")
			d, _ := m.Fields.Get("denominator")
			num, _ := strconv.Atoi(n)
			den, _ := strconv.Atoi(d)
			return m, num < den
		}),
		fraction(b.lit("一半"), "1", "2"),
	)

	b.rule("date", types.KindDate, WeightAbsolute,
		b.isoDate(),
		compactDate(),
		Phrase(Opt(yearPart), monthPart, dayPart),
		Phrase(yearPart, monthPart),
		yearPart,
		monthPart,
		dayPart,
	)
	c.times()

	b.rule("range", types.KindRange, WeightAbsolute,
		Phrase(monthPart, Cap("start_day", c.number(1, 31)),
			Opt(b.lit("日", "号")), b.lit("-", "~", "到", "至"),
			Cap("end_day", c.number(1, 31)), b.lit("日", "号")),
		Phrase(Cap("start_hour", c.number(0, 24)), b.lit("-", "~", "到", "至"),
			Cap("end_hour", c.number(0, 24)), b.lit("点", "时")),
	)

	b.rule("relative", types.KindRelative, WeightRelative,
		b.lexFields(b.table("relative"), "unit", "offset", "period"))

	b.rule("weekday", types.KindWeekday, WeightNamed,
		Phrase(Opt(modifier), weekPrefix, Cap("day", weekday)))

	b.rule("holiday", types.KindHoliday, WeightNamed,
		Phrase(Opt(yearPart), Opt(modifier),
			Cap("name", b.lexValue(b.table("holidays"), 0))))

	b.rule("period", types.KindPeriod, WeightNamed,
		b.lexFields(b.table("periods"), "name", "start", "end"))

	c.composites(modifier, yearPart, monthPart, weekPrefix, weekday)
	c.quarters(modifier, yearPart)
	c.centuries()
	c.deltas()
	c.recurring(weekPrefix, weekday)
}

func (c *chinese) times() {
	b := c.b
	hourPart := Seq(Cap("hour", c.number(0, 24)), b.lit("点钟", "点", "时"))
	minutePart := Alt(
		Seq(Opt(b.lit("零")), Cap("minute", c.number(1, 59)),
			Opt(b.lit("分"))),
		Seq(b.lit("半"), Set("minute", "30")),
		Seq(b.lit("一刻", "1刻"), Set("minute", "15")),
		Seq(b.lit("三刻", "3刻"), Set("minute", "45")),
		Seq(b.lit("整"), Set("minute", "0")),
	)
	meridiem := Cap("meridiem", Alt(Const("am", b.lit("am")),
		Const("pm", b.lit("pm"))))
	b.rule("time", types.KindDate, WeightAbsolute,
		Phrase(b.digitalClock(), Opt(meridiem)),
		Phrase(hourPart, minutePart),
		hourPart,
	)
	b.rule("bare", types.KindDate, WeightRelative,
		Seq(Cap("hour", Num(0, 24)), Set("bare", "true")))
}

func (c *chinese) composites(modifier, yearPart, monthPart, weekPrefix,
	weekday Pattern) {
	b := c.b
	unit := Cap("unit", Map(b.lexValue(c.units, 0),
		func(m Match) (Match, bool) {
			return m, m.Value != "quarter" && m.Value != "second"
		}))
	weekend := Cap("unit", Const("weekend", b.lit("周末")))
	count := Cap("count", Alt(c.number(1, 1000),
		InRange(b.lexValue(c.quantifiers, 0), 1, 1000)))
	boundary := Cap("boundary", b.lexValue(b.optTable("boundaries"), 0))
	ordinal := Alt(
		Seq(b.lit("第"), Cap("ordinal", c.number(1, 5)), Opt(b.lit("个"))),
		Seq(b.lit("最后一个", "最后1个"), Set("ordinal", "-1")),
	)
	month := Alt(
		Seq(monthPart, Set("unit", "month")),
		Seq(modifier, b.lit("个月", "月"), Set("unit", "month")),
	)
	b.rule("composite", types.KindComposite, WeightCalendar,
		Phrase(Opt(modifier), weekend),
		Phrase(modifier, count, unit),
		Phrase(count, unit, b.lit("内", "以内", "之内"),
			Set("modifier", "coming")),
		Phrase(Opt(modifier), unit, boundary),
		Phrase(monthPart, boundary, Set("unit", "month")),
		Phrase(yearPart, boundary, Set("unit", "year")),
		Phrase(modifier, unit),
		Phrase(Opt(Seq(month, Opt(b.lit("的")))), ordinal, weekPrefix,
			Cap("weekday", weekday), Set("unit", "month")),
	)
}

func (c *chinese) quarters(modifier, yearPart Pattern) {
	b := c.b
	b.rule("quarter", types.KindQuarter, WeightCalendar,
		Phrase(Opt(yearPart), Opt(b.lit("第")), Cap("quarter", c.number(1, 4)),
			b.lit("季度")),
		Phrase(Opt(yearPart), Seq(b.lit("q"), Cap("quarter", Num(1, 4)))),
		Phrase(modifier, b.lit("季度", "个季度")),
	)
}

func (c *chinese) centuries() {
	b := c.b
	century := Seq(Opt(b.lit("公元")), Cap("century", c.number(1, 30)),
		b.lit("世纪"))
	decade := Seq(Cap("decade", Map(Alt(Digits(2, 2), Digits(4, 4),
		InRange(Func(c.numeral), 10, 90)), func(m Match) (Match, bool) {
		n, err := strconv.Atoi(m.Value)
		return m, err == nil && n%10 == 0
	})), b.lit("年代"))
	b.rule("century", types.KindCentury, WeightCalendar,
		Phrase(century, Opt(b.lit("的")), decade),
		century,
		decade,
	)
}

func (c *chinese) deltas() {
	b := c.b
	unit := b.lexFields(c.units, "\x00u", "\x00f")
	amount := Cap("\x00n", Alt(c.number(1, 1000),
		InRange(b.lexValue(c.quantifiers, 0), 1, 1000)))
	one := Alt(
		duration(Phrase(amount, b.lit("个半"), unit), true),
		duration(Phrase(amount, unit, b.lit("半")), true),
		duration(Phrase(amount, unit), false),
		duration(Seq(b.lit("半个", "半"), Set("\x00n", "0"), unit), true),
	)
	amounts := Phrase(one, Opt(Phrase(Opt(b.lit("零", "又")), one)))
	b.rule("delta", types.KindDelta, WeightDelta,
		Phrase(Opt(b.lit("再过", "过")), amounts,
			b.lit("后", "以后", "之后", "过后"), Set("sign", "+")),
		Phrase(amounts, b.lit("前", "以前", "之前"), Set("sign", "-")),
		Phrase(b.lit("再过", "过"), amounts, Set("sign", "+")),
		amounts,
	)
}

func (c *chinese) recurring(weekPrefix, weekday Pattern) {
	b := c.b
	unit := Cap("unit", b.lexValue(c.units, 0))
	b.rule("recurring", types.KindRecurring, WeightRecurring,
		Phrase(b.lit("每"), weekPrefix, Cap("weekday", weekday),
			Set("unit", "weekday")),
		Phrase(b.lit("每隔", "每"), Cap("interval", c.number(1, 1000)), unit),
		Phrase(b.lit("每"), Opt(b.lit("个")), unit),
	)
}
