package resolve

import "time"

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

func daysIn(year int, month time.Month) int {
	switch month {
	case time.February:
		if isLeap(year) {
			return 29
		}
		return 28
	case time.April, time.June, time.September, time.November:
		return 30
	}
	return 31
}

func date(year int, month time.Month, day int, loc *time.Location) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return date(y, m, d, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 0, t.Location())
}

// lastSecond is the final second before the start of the next span.
func lastSecond(next time.Time) time.Time {
	return next.Add(-time.Second)
}

// addDays moves by calendar days, keeping the wall clock across DST
// changes.
func addDays(t time.Time, n int) time.Time {
	return t.AddDate(0, 0, n)
}

// addMonths moves by calendar months, clamping the day to the end of the
// target month: Jan 31 + 1 month is Feb 28 (or 29).
func addMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	y += total / 12
	total %= 12
	if total < 0 {
		total += 12
		y--
	}
	month := time.Month(total + 1)
	if last := daysIn(y, month); d > last {
		d = last
	}
	hh, mm, ss := t.Clock()
	return time.Date(y, month, d, hh, mm, ss, t.Nanosecond(), t.Location())
}

// weekday numbers days from 0 for Monday to 6 for Sunday.
func weekday(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

func startOfWeek(t time.Time) time.Time {
	return addDays(startOfDay(t), -weekday(t))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return date(y, m, 1, t.Location())
}

func startOfQuarter(t time.Time) time.Time {
	y, m, _ := t.Date()
	return date(y, time.Month((int(m)-1)/3*3+1), 1, t.Location())
}

func startOfYear(t time.Time) time.Time {
	return date(t.Year(), time.January, 1, t.Location())
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func startOfDecade(t time.Time) time.Time {
	return date(floorDiv(t.Year(), 10)*10, time.January, 1, t.Location())
}

// startOfCentury uses the 2000..2099 convention for the 21st century.
func startOfCentury(t time.Time) time.Time {
	return date(floorDiv(t.Year(), 100)*100, time.January, 1, t.Location())
}

// nthWeekday finds the nth wd (0 = Monday) of a month. A negative n counts
// back from the end of the month, so -1 is the last one.
func nthWeekday(year int, month time.Month, wd, n int,
	loc *time.Location) (time.Time, bool) {
	if n == 0 {
		return time.Time{}, false
	}
	if n > 0 {
		first := date(year, month, 1, loc)
		day := 1 + (wd-weekday(first)+7)%7 + (n-1)*7
		if day > daysIn(year, month) {
			return time.Time{}, false
		}
		return date(year, month, day, loc), true
	}
	last := date(year, month, daysIn(year, month), loc)
	day := last.Day() - (weekday(last)-wd+7)%7 + (n+1)*7
	if day < 1 {
		return time.Time{}, false
	}
	return date(year, month, day, loc), true
}

// easter computes Gregorian Easter Sunday with the anonymous Gregorian
// algorithm.
func easter(year int) (time.Month, int) {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return time.Month(month), day
}

// orthodoxEaster computes Julian Easter with Meeus' algorithm and converts
// it to the Gregorian calendar.
func orthodoxEaster(year int, loc *time.Location) time.Time {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	month := (d + e + 114) / 31
	day := (d+e+114)%31 + 1
	julian := date(year, time.Month(month), day, loc)
	return addDays(julian, year/100-year/400-2)
}
