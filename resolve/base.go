package resolve

import (
	"strconv"
	"strings"
	"time"

	"github.com/wbrown/timex/types"
)

const unset = types.Unset

func dayInterval(day time.Time) types.Result {
	return types.Interval(startOfDay(day), endOfDay(day))
}

// span is the interval [start, next) closed at the last second.
func span(start, next time.Time) types.Result {
	return types.Interval(start, lastSecond(next))
}

func periodOn(day time.Time, p types.Period) types.Result {
	start := day.Add(time.Duration(p.Start) * time.Hour)
	end := day.Add(time.Duration(p.End) * time.Hour)
	return span(start, end)
}

// modifierOffset is the number of periods a modifier moves from the
// current one.
func modifierOffset(modifier string) int {
	switch modifier {
	case "next", "coming":
		return 1
	case "last", "past":
		return -1
	case "after_next", "next_next":
		return 2
	case "before_last", "last_last":
		return -2
	}
	return 0
}

// adjustHour moves an hour without meridiem into a day period: 9 in the
// evening is 21.
func adjustHour(h int, p types.Period) int {
	switch {
	case h >= p.Start && h < p.End:
		return h
	case h+12 <= p.End:
		return h + 12
	}
	return h
}

// at places a clock time on day. Hour 24 is midnight of the next day.
func (r *Resolver) at(day time.Time, d types.Date,
	period *types.Period) (time.Time, bool) {
	if !d.HasTime() {
		return time.Time{}, false
	}
	h, m, s := d.Clock()
	if d.Meridiem == "" {
		switch {
		case period != nil:
			h = adjustHour(h, *period)
		case r.policy.InferPM && h >= 1 && h <= 6:
			h += 12
		}
	}
	if h == 24 {
		if m > 0 || s > 0 {
			return time.Time{}, false
		}
		return addDays(day, 1), true
	}
	if h > 23 {
		return time.Time{}, false
	}
	y, mo, dd := day.Date()
	return time.Date(y, mo, dd, h, m, s, 0, day.Location()), true
}

// resolveToken resolves a single token on its own.
func (r *Resolver) resolveToken(tok types.Token,
	base time.Time) (types.Result, bool) {
	switch v := tok.Value.(type) {
	case types.Date:
		return r.resolveDate(v, base)
	case types.Relative:
		return r.resolveRelative(v, base)
	case types.Weekday:
		return dayInterval(weekdayDate(v, base)), true
	case types.Holiday:
		return r.resolveHoliday(v, base)
	case types.Period:
		return periodOn(startOfDay(base), v), true
	case types.Composite:
		return r.resolveComposite(v, base)
	case types.Range:
		return r.resolveRange(v, base, startOfDay(base), false)
	case types.Delta:
		if v.Sign == 0 {
			return types.Result{}, false
		}
		return types.Instant(shift(base, v, v.Sign)), true
	case types.Century:
		return resolveCentury(v, base)
	case types.Quarter:
		return resolveQuarter(v, base, base.Year())
	case types.Recurring:
		return r.resolveRecurring(v, base)
	}
	return types.Result{}, false
}

// resolveDate resolves any subset of date and time fields to the tightest
// instant or interval, filling unset fields from base.
func (r *Resolver) resolveDate(d types.Date,
	base time.Time) (types.Result, bool) {
	if d.Bare && !d.HasDate() && !r.policy.BareHours {
		return types.Result{}, false
	}
	loc := base.Location()
	year := base.Year()
	if d.Year != unset {
		year = d.Year
	}
	switch {
	case d.Month == unset && d.Day == unset && d.Year != unset:
		start := date(year, time.January, 1, loc)
		return span(start, start.AddDate(1, 0, 0)), true
	case d.Month != unset && d.Day == unset:
		start := date(year, time.Month(d.Month), 1, loc)
		return span(start, addMonths(start, 1)), true
	}
	month := base.Month()
	if d.Month != unset {
		month = time.Month(d.Month)
	}
	day := base.Day()
	if d.Day != unset {
		day = d.Day
	}
	if day > daysIn(year, month) {
		return types.Result{}, false
	}
	start := date(year, month, day, loc)
	if !d.HasTime() {
		return dayInterval(start), true
	}
	t, ok := r.at(start, d, nil)
	if !ok {
		return types.Result{}, false
	}
	return types.Instant(t), true
}

func (r *Resolver) resolveRelative(rel types.Relative,
	base time.Time) (types.Result, bool) {
	switch rel.Unit {
	case "now":
		return types.Instant(base), true
	case "day":
		day := addDays(startOfDay(base), rel.Offset)
		if p, ok := r.periods[rel.Period]; ok {
			return periodOn(day, p), true
		}
		return dayInterval(day), true
	}
	start, next, ok := unitSpan(rel.Unit, base, rel.Offset)
	if !ok {
		return types.Result{}, false
	}
	return span(start, next), true
}

// weekdayDate resolves a weekday against a Monday-start week. `this` may be
// today; `next` and `last` always move a whole week from `this`, and a
// weekday without modifier is the first one on or after today.
func weekdayDate(w types.Weekday, base time.Time) time.Time {
	today := startOfDay(base)
	this := addDays(startOfWeek(base), w.Day)
	ahead := (w.Day - weekday(base) + 7) % 7
	switch w.Modifier {
	case "this":
		return this
	case "next":
		return addDays(this, 7)
	case "last", "past":
		return addDays(this, -7)
	case "next_next":
		return addDays(this, 14)
	case "last_last":
		return addDays(this, -14)
	case "coming":
		if ahead == 0 {
			ahead = 7
		}
		return addDays(today, ahead)
	case "after_next":
		// two weeks after the next occurrence
		if ahead == 0 {
			ahead = 7
		}
		return addDays(today, ahead+14)
	case "before_last":
		behind := (weekday(base) - w.Day + 7) % 7
		if behind == 0 {
			behind = 7
		}
		return addDays(today, -behind-14)
	}
	return addDays(today, ahead)
}

// holidayDate computes a holiday's date in a year.
func (r *Resolver) holidayDate(name string, year int, loc *time.Location,
	depth int) (time.Time, bool) {
	def, ok := r.holidays[name]
	if !ok || depth > 4 {
		return time.Time{}, false
	}
	switch def.Rule {
	case "fixed":
		if def.Day > daysIn(year, time.Month(def.Month)) {
			return time.Time{}, false
		}
		return date(year, time.Month(def.Month), def.Day, loc), true
	case "nth_weekday":
		return nthWeekday(year, time.Month(def.Month), def.Weekday, def.N, loc)
	case "easter":
		m, d := easter(year)
		return addDays(date(year, m, d, loc), def.Offset), true
	case "orthodox_easter":
		return addDays(orthodoxEaster(year, loc), def.Offset), true
	case "relative":
		t, ok := r.holidayDate(def.Base, year, loc, depth+1)
		if !ok {
			return time.Time{}, false
		}
		return addDays(t, def.Offset), true
	case "table":
		md, ok := def.Dates[strconv.Itoa(year)]
		if !ok {
			return time.Time{}, false
		}
		parts := strings.SplitN(md, "-", 2)
		if len(parts) != 2 {
			return time.Time{}, false
		}
		m, err1 := strconv.Atoi(parts[0])
		d, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return time.Time{}, false
		}
		return date(year, time.Month(m), d, loc), true
	}
	return time.Time{}, false
}

// resolveHoliday picks the holiday's year: an explicit one, one moved by a
// modifier, or else the next occurrence on or after today.
func (r *Resolver) resolveHoliday(h types.Holiday,
	base time.Time) (types.Result, bool) {
	loc := base.Location()
	if h.Year != unset {
		t, ok := r.holidayDate(h.Name, h.Year, loc, 0)
		return dayInterval(t), ok
	}
	if h.Modifier != "" {
		t, ok := r.holidayDate(h.Name, base.Year()+modifierOffset(h.Modifier),
			loc, 0)
		return dayInterval(t), ok
	}
	today := startOfDay(base)
	if t, ok := r.holidayDate(h.Name, base.Year(), loc, 0); ok &&
		!t.Before(today) {
		return dayInterval(t), true
	}
	t, ok := r.holidayDate(h.Name, base.Year()+1, loc, 0)
	return dayInterval(t), ok
}

// unitSpan returns the calendar period of unit that lies offset periods
// from the one containing base.
func unitSpan(unit string, base time.Time, offset int) (time.Time,
	time.Time, bool) {
	var start time.Time
	var next func(time.Time, int) time.Time
	switch unit {
	case "second":
		start = base.Truncate(time.Second)
		next = func(t time.Time, n int) time.Time {
			return t.Add(time.Duration(n) * time.Second)
		}
	case "minute":
		start = base.Truncate(time.Minute)
		next = func(t time.Time, n int) time.Time {
			return t.Add(time.Duration(n) * time.Minute)
		}
	case "hour":
		y, m, d := base.Date()
		start = time.Date(y, m, d, base.Hour(), 0, 0, 0, base.Location())
		next = func(t time.Time, n int) time.Time {
			return t.Add(time.Duration(n) * time.Hour)
		}
	case "day":
		start = startOfDay(base)
		next = addDays
	case "week":
		start = startOfWeek(base)
		next = func(t time.Time, n int) time.Time { return addDays(t, 7*n) }
	case "month":
		start = startOfMonth(base)
		next = addMonths
	case "quarter":
		start = startOfQuarter(base)
		next = func(t time.Time, n int) time.Time { return addMonths(t, 3*n) }
	case "year":
		start = startOfYear(base)
		next = func(t time.Time, n int) time.Time { return t.AddDate(n, 0, 0) }
	case "decade":
		start = startOfDecade(base)
		next = func(t time.Time, n int) time.Time {
			return t.AddDate(10*n, 0, 0)
		}
	case "century":
		start = startOfCentury(base)
		next = func(t time.Time, n int) time.Time {
			return t.AddDate(100*n, 0, 0)
		}
	default:
		return time.Time{}, time.Time{}, false
	}
	start = next(start, offset)
	return start, next(start, 1), true
}

// shiftUnits moves t by n units.
func shiftUnits(t time.Time, unit string, n int) (time.Time, bool) {
	switch unit {
	case "second":
		return t.Add(time.Duration(n) * time.Second), true
	case "minute":
		return t.Add(time.Duration(n) * time.Minute), true
	case "hour":
		return t.Add(time.Duration(n) * time.Hour), true
	case "day":
		return addDays(t, n), true
	case "week":
		return addDays(t, 7*n), true
	case "month":
		return addMonths(t, n), true
	case "quarter":
		return addMonths(t, 3*n), true
	case "year":
		return addMonths(t, 12*n), true
	case "decade":
		return addMonths(t, 120*n), true
	case "century":
		return addMonths(t, 1200*n), true
	}
	return time.Time{}, false
}

// thirds splits [start, next) at two cut points and picks the part a
// boundary names.
func thirds(boundary string, start, cut1, cut2,
	next time.Time) types.Result {
	switch boundary {
	case "begin":
		return span(start, cut1)
	case "middle":
		return span(cut1, cut2)
	}
	return span(cut2, next)
}

// boundaryOf narrows a calendar period to its beginning, middle or end.
func boundaryOf(unit, boundary string, start,
	next time.Time) types.Result {
	switch unit {
	case "month":
		return thirds(boundary, start, addDays(start, 10), addDays(start, 20),
			next)
	case "year":
		return thirds(boundary, start, addMonths(start, 4), addMonths(start, 8),
			next)
	case "quarter":
		return thirds(boundary, start, addMonths(start, 1), addMonths(start, 2),
			next)
	case "week":
		return thirds(boundary, start, addDays(start, 2), addDays(start, 4),
			next)
	case "day":
		return thirds(boundary, start, start.Add(8*time.Hour),
			start.Add(16*time.Hour), next)
	}
	third := next.Sub(start) / 3
	return thirds(boundary, start, start.Add(third), start.Add(2*third), next)
}

func (r *Resolver) resolveComposite(c types.Composite,
	base time.Time) (types.Result, bool) {
	loc := base.Location()
	offset := modifierOffset(c.Modifier)
	if c.Ordinal != 0 && c.Weekday != unset {
		month := addMonths(startOfMonth(base), offset)
		if c.Month != unset {
			year := base.Year()
			if c.Year != unset {
				year = c.Year
			}
			month = date(year, time.Month(c.Month), 1, loc)
		}
		t, ok := nthWeekday(month.Year(), month.Month(), c.Weekday,
			c.Ordinal, loc)
		return dayInterval(t), ok
	}
	if c.Unit == "weekend" {
		sat := addDays(startOfWeek(base), 7*offset+5)
		return span(sat, addDays(sat, 2)), true
	}
	if c.Modifier == "past" || c.Modifier == "coming" || c.Count > 1 {
		sign := 1
		if offset < 0 {
			sign = -1
		}
		edge, ok := shiftUnits(base, c.Unit, sign*c.Count)
		if !ok {
			return types.Result{}, false
		}
		if sign < 0 {
			return types.Interval(edge, base), true
		}
		return types.Interval(base, edge), true
	}
	var start, next time.Time
	switch {
	case c.Month != unset:
		year := base.Year()
		if c.Year != unset {
			year = c.Year
		}
		start = date(year, time.Month(c.Month), 1, loc)
		next = addMonths(start, 1)
	case c.Year != unset && c.Unit == "year":
		start = date(c.Year, time.January, 1, loc)
		next = start.AddDate(1, 0, 0)
	default:
		var ok bool
		start, next, ok = unitSpan(c.Unit, base, offset)
		if !ok {
			return types.Result{}, false
		}
	}
	if c.Part != "" {
		return partOf(c.Part, c.Ordinal, start, next)
	}
	if c.Boundary != "" {
		return boundaryOf(c.Unit, c.Boundary, start, next), true
	}
	return span(start, next), true
}

// partOf picks the nth day or week of [start, next), counting from the end
// when n is negative. Weeks are seven-day blocks laid from that edge.
func partOf(part string, n int, start, next time.Time) (types.Result,
	bool) {
	size := 1
	if part == "week" {
		size = 7
	}
	from := addDays(start, size*(n-1))
	if n < 0 {
		from = addDays(next, size*n)
	}
	to := addDays(from, size)
	if from.Before(start) || to.After(next) {
		return types.Result{}, false
	}
	return span(from, to), true
}

// resolveRange resolves a range token on day. Clock ranges become
// instants on that day, day ranges whole days of the base month. When
// anchored is set, a range of days is not allowed.
func (r *Resolver) resolveRange(rng types.Range, base, day time.Time,
	anchored bool) (types.Result, bool) {
	if rng.Start.HasTime() && rng.End.HasTime() {
		start, end := rng.Start, rng.End
		if start.Meridiem == "" && end.Meridiem != "" {
			inherited := start
			inherited.Meridiem = end.Meridiem
			eh, _, _ := end.Clock()
			if ih, _, _ := inherited.Clock(); ih <= eh {
				start = inherited
			}
		}
		s, ok1 := r.at(day, start, nil)
		e, ok2 := r.at(day, end, nil)
		if !ok1 || !ok2 {
			return types.Result{}, false
		}
		if e.Before(s) {
			e = addDays(e, 1)
		}
		return types.Interval(s, e), true
	}
	if anchored || !rng.Start.HasDate() || !rng.End.HasDate() {
		return types.Result{}, false
	}
	s, ok1 := r.resolveDate(rng.Start, base)
	e, ok2 := r.resolveDate(rng.End, base)
	if !ok1 || !ok2 || e.End.Before(s.Start) {
		return types.Result{}, false
	}
	return types.Interval(s.Start, e.End), true
}

// shift moves t by a duration in the given direction: calendar years and
// months first, clamping the day, then days, then clock units.
func shift(t time.Time, d types.Delta, sign int) time.Time {
	t = addMonths(t, sign*(d.Years*12+d.Months))
	t = addDays(t, sign*(d.Weeks*7+d.Days))
	clock := time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Seconds)*time.Second
	return t.Add(time.Duration(sign) * clock)
}

// resolveCentury reads a two-digit decade as the latest one not after the
// base year: in 2025 `90s` is the 1990s and `20s` the 2020s.
func resolveCentury(c types.Century, base time.Time) (types.Result, bool) {
	loc := base.Location()
	if c.Decade == unset {
		start := date((c.Century-1)*100, time.January, 1, loc)
		return span(start, start.AddDate(100, 0, 0)), true
	}
	year := c.Decade
	switch {
	case c.Short && c.Century != unset:
		year = (c.Century-1)*100 + c.Decade
	case c.Short:
		year = floorDiv(base.Year(), 100)*100 + c.Decade
		if year > base.Year() {
			year -= 100
		}
	}
	start := date(year, time.January, 1, loc)
	return span(start, start.AddDate(10, 0, 0)), true
}

// resolveQuarter resolves a quarter of year, or the quarter a modifier
// moves to from the current one.
func resolveQuarter(q types.Quarter, base time.Time,
	year int) (types.Result, bool) {
	if q.Year != unset {
		year = q.Year
	}
	if q.Quarter == unset {
		start, next, _ := unitSpan("quarter", base, modifierOffset(q.Modifier))
		return span(start, next), true
	}
	start := date(year, time.Month((q.Quarter-1)*3+1), 1, base.Location())
	return span(start, addMonths(start, 3)), true
}

// resolveRecurring gives the first occurrence of a recurring expression.
func (r *Resolver) resolveRecurring(rec types.Recurring,
	base time.Time) (types.Result, bool) {
	switch rec.Unit {
	case "weekday":
		if rec.Weekday == unset {
			return types.Result{}, false
		}
		return dayInterval(weekdayDate(types.Weekday{Day: rec.Weekday},
			base)), true
	case "second", "minute", "hour":
		t, _ := shiftUnits(base, rec.Unit, rec.Interval)
		return types.Instant(t), true
	}
	start, next, ok := unitSpan(rec.Unit, base, 0)
	if !ok {
		return types.Result{}, false
	}
	return span(start, next), true
}
