package resolve

import (
	"github.com/wbrown/timex/types"
)

// Tiers T0 to T2 merge date fragments and attach years, weeks and months
// to the tokens they qualify.
func (r *Resolver) registerMerges() {
	r.register(0, "dates", (*cursor).mergeDates,
		types.KindDate, types.KindWeekday)

	r.register(1, "anchored", (*cursor).anchored, types.KindRelative,
		types.KindWeekday, types.KindDate, types.KindPeriod)
	r.register(1, "year date", (*cursor).yearDate, types.KindRelative,
		types.KindComposite, types.KindDate)

	r.register(2, "holiday year", (*cursor).holidayYear,
		types.KindHoliday, types.KindDate, types.KindRelative,
		types.KindComposite)
	r.register(2, "holiday anchored", (*cursor).holidayAnchored,
		types.KindHoliday, types.KindPeriod, types.KindDate)
	r.register(2, "week weekday", (*cursor).weekWeekday,
		types.KindComposite, types.KindWeekday)
	r.register(2, "month day", (*cursor).monthDay,
		types.KindComposite, types.KindDate)
	r.register(2, "quarter year", (*cursor).quarterYear, types.KindQuarter,
		types.KindDate, types.KindRelative, types.KindComposite)
	r.register(2, "year boundary", (*cursor).yearBoundary,
		types.KindRelative, types.KindComposite)
	r.register(2, "century decade", (*cursor).centuryDecade,
		types.KindCentury)
}

func one(res types.Result, ok bool) ([]types.Result, bool) {
	if !ok {
		return nil, false
	}
	return []types.Result{res}, true
}

// either takes the next two tokens and applies fn to them in both orders.
func (c *cursor) either(
	fn func(a, b types.Token) (types.Result, bool)) ([]types.Result, bool) {
	a, ok := c.take()
	if !ok || a.Value == nil {
		return nil, false
	}
	b, ok := c.take()
	if !ok || b.Value == nil {
		return nil, false
	}
	if res, ok := fn(a, b); ok {
		return one(res, true)
	}
	return one(fn(b, a))
}

// mergeDates merges up to three date fragments that set disjoint fields,
// such as `january 5` and `at 9 am`. A weekday among them is dropped when
// the fragments name a date.
func (c *cursor) mergeDates() ([]types.Result, bool) {
	merged := types.EmptyDate()
	dates, weekdays := 0, 0
	for dates < 3 {
		tok, idx, ok := c.peek()
		if !ok || tok.Value == nil {
			break
		}
		if w, ok := tok.Weekday(); ok {
			if weekdays > 0 || w.Modifier != "" {
				break
			}
			weekdays++
			c.pos = idx + 1
			continue
		}
		d, ok := tok.Date()
		if !ok || (dates > 0 && !merged.Disjoint(d)) {
			break
		}
		if d.Bare && !c.r.policy.BareHours {
			break
		}
		merged = merged.Merge(d)
		dates++
		c.pos = idx + 1
	}
	if weekdays > 0 && !merged.HasDate() {
		return nil, false
	}
	if dates < 2 && weekdays == 0 || dates == 0 {
		return nil, false
	}
	return one(c.r.resolveDate(merged, c.base))
}

// anchored resolves a day with a period and/or clock time, in any order:
// `tomorrow at 9 am`, `9 pm tomorrow`, `明天上午9点`, `上午9点`.
func (c *cursor) anchored() ([]types.Result, bool) {
	e, ok := c.endpoint(false)
	if !ok || e.roles < 2 || (!e.hasClock && !e.hasPeriod) {
		return nil, false
	}
	if e.hasClock && e.clock.Bare && !e.hasPeriod && !c.r.policy.BareHours {
		return nil, false
	}
	return one(c.resolve(e))
}

// yearOffset reports how many years a `next year` or `去年` token moves.
func yearOffset(tok types.Token) (int, bool) {
	if rel, ok := tok.Relative(); ok && rel.Unit == "year" {
		return rel.Offset, true
	}
	return unitOffset(tok, "year")
}

// unitOffset reports the offset of a plain `next week` style composite.
func unitOffset(tok types.Token, unit string) (int, bool) {
	comp, ok := tok.Composite()
	if !ok || comp.Unit != unit || comp.Count != 1 || comp.Boundary != "" ||
		comp.Ordinal != 0 || comp.Month != unset || comp.Year != unset ||
		comp.Modifier == "past" || comp.Modifier == "coming" {
		return 0, false
	}
	return modifierOffset(comp.Modifier), true
}

// yearOnly returns the year of a token that names only a year.
func yearOnly(tok types.Token) (int, bool) {
	d, ok := tok.Date()
	if !ok || d.Year == unset || d.Month != unset || d.Day != unset ||
		d.HasTime() {
		return 0, false
	}
	return d.Year, true
}

func (c *cursor) yearDate() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		off, ok := yearOffset(a)
		d, isDate := b.Date()
		if !ok || !isDate || d.Year != unset || d.Month == unset {
			return types.Result{}, false
		}
		d.Year = c.base.Year() + off
		return c.r.resolveDate(d, c.base)
	})
}

// holidayYear attaches an explicit or relative year to a holiday:
// `christmas 2026`, `明年春节`.
func (c *cursor) holidayYear() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		h, ok := a.Holiday()
		if !ok || h.Year != unset {
			return types.Result{}, false
		}
		year, ok := yearOnly(b)
		if !ok {
			off, isOffset := yearOffset(b)
			if !isOffset {
				return types.Result{}, false
			}
			year = c.base.Year() + off
		}
		h.Year = year
		return c.r.resolveHoliday(h, c.base)
	})
}

// holidayAnchored places a period or clock time on a holiday.
func (c *cursor) holidayAnchored() ([]types.Result, bool) {
	e, ok := c.endpoint(true)
	if !ok || e.roles < 2 || e.anchor.Kind != types.KindHoliday {
		return nil, false
	}
	return one(c.resolve(e))
}

// weekWeekday resolves `next week friday` and `friday next week`.
func (c *cursor) weekWeekday() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		off, ok := unitOffset(a, "week")
		w, isWeekday := b.Weekday()
		if !ok || !isWeekday || w.Modifier != "" {
			return types.Result{}, false
		}
		return dayInterval(addDays(startOfWeek(c.base), 7*off+w.Day)), true
	})
}

// monthDay resolves `next month on the 5th` and `下个月5号`.
func (c *cursor) monthDay() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		off, ok := unitOffset(a, "month")
		d, isDate := b.Date()
		if !ok || !isDate || d.Day == unset || d.Month != unset ||
			d.Year != unset {
			return types.Result{}, false
		}
		month := addMonths(startOfMonth(c.base), off)
		d.Year, d.Month = month.Year(), int(month.Month())
		return c.r.resolveDate(d, c.base)
	})
}

// quarterYear attaches a year to a quarter: `q1 next year`, `明年第一季度`.
func (c *cursor) quarterYear() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		q, ok := a.Quarter()
		if !ok || q.Quarter == unset || q.Year != unset {
			return types.Result{}, false
		}
		year, ok := yearOnly(b)
		if !ok {
			off, isOffset := yearOffset(b)
			if !isOffset {
				return types.Result{}, false
			}
			year = c.base.Year() + off
		}
		return resolveQuarter(q, c.base, year)
	})
}

// yearBoundary resolves `明年年底` and `end of march next year`.
func (c *cursor) yearBoundary() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		off, ok := yearOffset(a)
		comp, isComp := b.Composite()
		if !ok || !isComp || comp.Boundary == "" || comp.Year != unset ||
			comp.Modifier != "" ||
			(comp.Unit != "year" && comp.Month == unset) {
			return types.Result{}, false
		}
		comp.Year = c.base.Year() + off
		return c.r.resolveComposite(comp, c.base)
	})
}

// centuryDecade merges `21世纪` and `90年代`.
func (c *cursor) centuryDecade() ([]types.Result, bool) {
	a, _ := c.take()
	b, ok := c.take()
	ca, ok1 := a.Century()
	cb, ok2 := b.Century()
	if !ok || !ok1 || !ok2 || ca.Decade != unset || cb.Century != unset ||
		!cb.Short {
		return nil, false
	}
	ca.Decade, ca.Short = cb.Decade, true
	return one(resolveCentury(ca, c.base))
}
