package resolve

import (
	"time"

	"github.com/wbrown/timex/types"
)

// Tier T4 holds the loosest merges: clock arithmetic, times qualified by a
// day period, connectives left over from the other tiers, and recurring
// expressions with a time of day.
func (r *Resolver) registerClock() {
	r.register(4, "clock arithmetic", (*cursor).clockArithmetic,
		types.KindFraction, types.KindDelta, types.KindDate,
		types.KindRelative, types.KindWeekday, types.KindHoliday)
	r.register(4, "time in period", (*cursor).timeInPeriod, types.KindDate)
	r.register(4, "residual", (*cursor).residual, types.KindLiteral)
	r.register(4, "recurring time", (*cursor).recurringAt,
		types.KindRecurring)
}

// clockMinutes reads the minutes of `a quarter`, `20 minutes` or a bare
// `10` in front of `past` or `to`.
func clockMinutes(tok types.Token) (int, bool) {
	switch v := tok.Value.(type) {
	case types.Fraction:
		if v.Denominator == 0 || 60*v.Numerator%v.Denominator != 0 {
			return 0, false
		}
		return 60 * v.Numerator / v.Denominator, true
	case types.Delta:
		if v.Sign != 0 {
			return 0, false
		}
		m, ok := v.ClockMinutes()
		return m, ok && m > 0 && m < 60
	case types.Date:
		if !v.Bare || v.Minute != unset || v.Hour <= 0 || v.Hour > 30 ||
			v.Hour%5 != 0 {
			return 0, false
		}
		return v.Hour, true
	}
	return 0, false
}

// clockArithmetic resolves `a quarter past 9`, `10 to 5`, `20 minutes
// after 3 pm` and `十点差五分`. A day given before or after the expression
// places it, as in `half past 3 tomorrow`; otherwise it falls on the base
// day.
func (c *cursor) clockArithmetic() ([]types.Result, bool) {
	var e endpoint
	if tok, idx, ok := c.peek(); ok && dayOnly(tok) {
		e.anchor, e.hasAnchor = tok, true
		c.pos = idx + 1
	}
	minutes, cls, target, ok := c.minutesAndTarget()
	if !ok {
		return nil, false
	}
	if target.Minute > 0 || target.Second > 0 {
		return nil, false
	}
	e.clock, e.hasClock = target, true
	mark := c.pos
	if tail, ok := c.endpoint(true); ok && !tail.hasClock &&
		!(e.hasAnchor && tail.hasAnchor) {
		if tail.hasAnchor {
			e.anchor, e.hasAnchor = tail.anchor, true
		}
		e.period, e.hasPeriod = tail.period, tail.hasPeriod
	} else {
		c.pos = mark
	}
	day, ok := c.day(e)
	if !ok {
		return nil, false
	}
	var period *types.Period
	if e.hasPeriod {
		period = &e.period
	}
	t, ok := c.r.at(day, e.clock, period)
	if !ok {
		return nil, false
	}
	if cls == "to" || cls == "until" || cls == "before" {
		minutes = -minutes
	}
	return one(types.Instant(t.Add(time.Duration(minutes)*time.Minute)), true)
}

// minutesAndTarget reads `<minutes> past|to <hour>`. Chinese also puts the
// hour first: `十点差五分`.
func (c *cursor) minutesAndTarget() (int, string, types.Date, bool) {
	tok, ok := c.take()
	if !ok {
		return 0, "", types.Date{}, false
	}
	if minutes, ok := clockMinutes(tok); ok {
		cls, ok := c.word("past", "after", "to", "until", "before")
		if !ok {
			return 0, "", types.Date{}, false
		}
		target, ok := c.next(isClock)
		if !ok {
			return 0, "", types.Date{}, false
		}
		d, _ := target.Date()
		return minutes, cls, d, true
	}
	if c.r.lang != "zh" || !isClock(tok) {
		return 0, "", types.Date{}, false
	}
	cls, ok := c.word("to")
	if !ok {
		return 0, "", types.Date{}, false
	}
	mtok, ok := c.next(func(t types.Token) bool {
		_, ok := t.Delta()
		return ok
	})
	if !ok {
		return 0, "", types.Date{}, false
	}
	minutes, ok := clockMinutes(mtok)
	if !ok {
		return 0, "", types.Date{}, false
	}
	d, _ := tok.Date()
	return minutes, cls, d, true
}

// timeInPeriod resolves `9 in the morning` and `8 at night`, optionally
// followed by the day they fall on.
func (c *cursor) timeInPeriod() ([]types.Result, bool) {
	tok, _ := c.take()
	if !isClock(tok) {
		return nil, false
	}
	d, _ := tok.Date()
	c.word("in")
	ptok, ok := c.next(func(t types.Token) bool {
		return t.Kind == types.KindPeriod
	})
	if !ok {
		return nil, false
	}
	p, _ := ptok.Period()
	e := endpoint{clock: d, hasClock: true, period: p, hasPeriod: true}
	if anchor, ok := c.next(func(t types.Token) bool {
		return anchorOf(t, true)
	}); ok {
		e.anchor, e.hasAnchor = anchor, true
	}
	return one(c.resolve(e))
}

// residual resolves a connective the range rules left over: `since monday`,
// `until 5 pm`, `after lunch time`.
func (c *cursor) residual() ([]types.Result, bool) {
	head, _ := c.take()
	cls := c.r.class(head)
	switch cls {
	case "from", "since", "until", "by", "after", "before":
	default:
		return nil, false
	}
	e, ok := c.endpoint(true)
	if !ok {
		return nil, false
	}
	var res types.Result
	if cls == "since" {
		res, ok = c.recent(e)
	} else {
		res, ok = c.resolve(e)
	}
	if !ok {
		return nil, false
	}
	var from, to time.Time
	switch cls {
	case "since":
		from, to = res.Start, c.base
	case "until", "by":
		from, to = c.base, res.End
	case "after":
		from = res.End
		if res.Span {
			// the day after a span that ends on its last second
			from = from.Add(time.Second)
		}
		to = endOfDay(from)
	case "before":
		from, to = startOfDay(res.Start), res.Start
		if res.Span {
			from = c.base
		}
	default:
		return one(res, true)
	}
	if !from.Before(to) {
		return nil, false
	}
	return one(types.Interval(from, to), true)
}

// recent resolves an endpoint to its latest occurrence at or before the
// base. Only a weekday or holiday named without a modifier or year moves
// back, by a week or a year.
func (c *cursor) recent(e endpoint) (types.Result, bool) {
	res, ok := c.resolve(e)
	if !ok || !res.Start.After(c.base) || !e.hasAnchor {
		return res, ok
	}
	earlier := *c
	switch v := e.anchor.Value.(type) {
	case types.Weekday:
		if v.Modifier != "" {
			return res, true
		}
		earlier.base = addDays(c.base, -7)
	case types.Holiday:
		if v.Modifier != "" || v.Year != unset {
			return res, true
		}
		earlier.base = c.base.AddDate(-1, 0, 0)
	default:
		return res, true
	}
	return earlier.resolve(e)
}

// recurringAt resolves the first occurrence of `every monday at 9 am` or
// `每天早上8点` at or after the base time.
func (c *cursor) recurringAt() ([]types.Result, bool) {
	tok, _ := c.take()
	rec, ok := tok.Recurring()
	if !ok {
		return nil, false
	}
	e, ok := c.endpoint(false)
	if !ok || e.hasAnchor || !e.hasClock {
		return nil, false
	}
	var period *types.Period
	if e.hasPeriod {
		period = &e.period
	}
	step := 0
	day := startOfDay(c.base)
	switch rec.Unit {
	case "weekday":
		if rec.Weekday == unset {
			return nil, false
		}
		day = weekdayDate(types.Weekday{Day: rec.Weekday}, c.base)
		step = 7
	case "day":
		step = 1
	default:
		return nil, false
	}
	t, ok := c.r.at(day, e.clock, period)
	if !ok {
		return nil, false
	}
	if t.Before(c.base) {
		t = addDays(t, step)
	}
	return one(types.Instant(t), true)
}
