package resolve

import (
	"github.com/wbrown/timex/types"
)

// Tier T3 builds intervals out of two endpoints, or an endpoint and a
// duration.
func (r *Resolver) registerRanges() {
	r.register(3, "range", (*cursor).between, types.KindLiteral,
		types.KindDate, types.KindRelative, types.KindWeekday,
		types.KindHoliday, types.KindPeriod)
	r.register(3, "anchored range", (*cursor).anchoredRange,
		types.KindRange, types.KindRelative, types.KindWeekday,
		types.KindDate, types.KindHoliday)
	r.register(3, "shifted", (*cursor).shifted, types.KindDelta)
}

// between reads `[from|between] A (to|until|and) B` and `from A for D`. A
// day in front of `from` or `between` places endpoints that name no day:
// `tomorrow from 2pm to 4pm`.
func (c *cursor) between() ([]types.Result, bool) {
	var lead types.Token
	hasLead := false
	intro, _ := c.word("from", "between")
	if tok, idx, ok := c.peek(); ok && intro == "" && dayOnly(tok) {
		mark := c.pos
		c.pos = idx + 1
		if intro, ok = c.word("from", "between"); ok {
			lead, hasLead = tok, true
		} else {
			c.pos = mark
		}
	}
	start, ok := c.endpoint(true)
	if !ok {
		return nil, false
	}
	if hasLead {
		if start.hasAnchor {
			return nil, false
		}
		start.anchor, start.hasAnchor = lead, true
	}
	if _, ok := c.word("for"); ok {
		return one(c.lasting(start))
	}
	joiners := []string{"to", "until"}
	if intro == "between" {
		joiners = append(joiners, "and")
	}
	if _, ok := c.word(joiners...); !ok {
		return nil, false
	}
	end, ok := c.endpoint(true)
	if !ok {
		return nil, false
	}
	if hasLead && end.hasAnchor {
		return nil, false
	}
	// `10 to 5` is a clock time, not a range.
	if intro == "" && start.roles == 1 && end.roles == 1 &&
		start.hasClock && start.clock.Bare && end.hasClock && end.clock.Bare {
		return nil, false
	}
	return one(c.span(start, end, hasLead))
}

// span resolves the interval between two endpoints. An endpoint missing an
// anchor or day period takes it from the other one, as does a clock time
// missing its meridiem. When the end falls before the start it is moved to
// the following day, or the following week for a weekday. shared marks a
// start anchor that was given for both endpoints.
func (c *cursor) span(start, end endpoint, shared bool) (types.Result, bool) {
	sameDay := shared || !start.hasAnchor || !end.hasAnchor
	switch {
	case start.hasAnchor && !end.hasAnchor:
		end.anchor, end.hasAnchor = start.anchor, true
	case end.hasAnchor && !start.hasAnchor:
		start.anchor, start.hasAnchor = end.anchor, true
	case start.hasAnchor && end.hasAnchor:
		fillDates(&start, &end)
	}
	if start.hasClock && end.hasClock {
		if !start.hasPeriod && end.hasPeriod {
			start.period, start.hasPeriod = end.period, true
		}
		if !end.hasPeriod && start.hasPeriod {
			end.period, end.hasPeriod = start.period, true
		}
		inheritMeridiem(&start.clock, &end.clock)
	}
	s, ok := c.resolve(start)
	if !ok {
		return types.Result{}, false
	}
	e, ok := c.resolve(end)
	if !ok {
		return types.Result{}, false
	}
	from, to := s.Start, e.End
	if to.Before(from) {
		switch {
		case sameDay && start.hasClock && end.hasClock:
			to = addDays(to, 1)
		case end.anchor.Kind == types.KindWeekday:
			to = addDays(to, 7)
		default:
			return types.Result{}, false
		}
	}
	return types.Interval(from, to), true
}

// fillDates gives a day-only end anchor the month and year of the start,
// as in `march 3 to 5`.
func fillDates(start, end *endpoint) {
	sd, ok1 := start.anchor.Date()
	ed, ok2 := end.anchor.Date()
	if !ok1 || !ok2 {
		return
	}
	if ed.Year == unset {
		ed.Year = sd.Year
	}
	if ed.Month == unset && ed.Day != unset {
		ed.Month = sd.Month
	}
	if sd.Year == unset {
		sd.Year = ed.Year
	}
	start.anchor = types.Token{Kind: types.KindDate, Value: sd}
	end.anchor = types.Token{Kind: types.KindDate, Value: ed}
}

// inheritMeridiem shares an explicit am or pm between the two clock times
// of a range when that keeps the start before the end.
func inheritMeridiem(start, end *types.Date) {
	if start.Meridiem == "" && end.Meridiem != "" && start.Hour <= 12 {
		cand := *start
		cand.Meridiem = end.Meridiem
		ch, cm, _ := cand.Clock()
		eh, em, _ := end.Clock()
		if ch*60+cm <= eh*60+em {
			*start = cand
		}
	}
	if end.Meridiem == "" && start.Meridiem != "" && end.Hour <= 12 {
		cand := *end
		cand.Meridiem = start.Meridiem
		ch, cm, _ := cand.Clock()
		sh, sm, _ := start.Clock()
		if ch*60+cm >= sh*60+sm {
			*end = cand
		}
	}
}

// lasting resolves `from A for D`. A count of whole days ends at the close
// of the last day counted.
func (c *cursor) lasting(start endpoint) (types.Result, bool) {
	tok, ok := c.next(func(t types.Token) bool {
		_, ok := t.Delta()
		return ok
	})
	if !ok {
		return types.Result{}, false
	}
	d, _ := tok.Delta()
	if d.IsZero() {
		return types.Result{}, false
	}
	res, ok := c.resolve(start)
	if !ok {
		return types.Result{}, false
	}
	if d.IsDayCount() {
		days := d.Days + 7*d.Weeks
		return types.Interval(res.Start,
			endOfDay(addDays(startOfDay(res.Start), days-1))), true
	}
	return types.Interval(res.Start, shift(res.Start, d, 1)), true
}

// shifted resolves `D from A`, `D after A` and `D before A`.
func (c *cursor) shifted() ([]types.Result, bool) {
	tok, _ := c.take()
	d, ok := tok.Delta()
	if !ok || d.IsZero() || d.Sign != 0 {
		return nil, false
	}
	cls, ok := c.word("from", "after", "before")
	if !ok {
		return nil, false
	}
	e, ok := c.endpoint(true)
	if !ok {
		return nil, false
	}
	res, ok := c.resolve(e)
	if !ok {
		return nil, false
	}
	sign := 1
	if cls == "before" {
		sign = -1
	}
	if !res.Span {
		return one(types.Instant(shift(res.Start, d, sign)), true)
	}
	return one(types.Interval(shift(res.Start, d, sign),
		shift(res.End, d, sign)), true)
}

// anchoredRange places a clock range on a day: `tomorrow 9-11am`,
// `9-11am on friday`.
func (c *cursor) anchoredRange() ([]types.Result, bool) {
	return c.either(func(a, b types.Token) (types.Result, bool) {
		rng, ok := b.Range()
		if !ok || !anchorOf(a, true) {
			return types.Result{}, false
		}
		day, ok := c.day(endpoint{anchor: a, hasAnchor: true})
		if !ok {
			return types.Result{}, false
		}
		return c.r.resolveRange(rng, c.base, day, true)
	})
}
