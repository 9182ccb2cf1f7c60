package types

import (
	"strconv"

	"github.com/pkg/errors"
)

// Unset marks an absent numeric attribute.
const Unset = -1

// Date is an absolute date and/or clock time. Any subset of the fields may
// be set.
type Date struct {
	Year     int
	Month    int
	Day      int
	Hour     int
	Minute   int
	Second   int
	Meridiem string
	// Bare is set for a lone number that may or may not be a clock hour.
	Bare bool
}

func EmptyDate() Date {
	return Date{Unset, Unset, Unset, Unset, Unset, Unset, "", false}
}

func (d Date) HasDate() bool {
	return d.Year != Unset || d.Month != Unset || d.Day != Unset
}

func (d Date) HasTime() bool {
	return d.Hour != Unset
}

// Disjoint reports whether the two dates set no field in common.
func (d Date) Disjoint(o Date) bool {
	pairs := [][2]int{
		{d.Year, o.Year}, {d.Month, o.Month}, {d.Day, o.Day},
		{d.Hour, o.Hour}, {d.Minute, o.Minute}, {d.Second, o.Second},
	}
	for _, p := range pairs {
		if p[0] != Unset && p[1] != Unset {
			return false
		}
	}
	return true
}

// Merge fills the fields unset in d from o.
func (d Date) Merge(o Date) Date {
	pick := func(a, b int) int {
		if a != Unset {
			return a
		}
		return b
	}
	merged := Date{
		Year:   pick(d.Year, o.Year),
		Month:  pick(d.Month, o.Month),
		Day:    pick(d.Day, o.Day),
		Hour:   pick(d.Hour, o.Hour),
		Minute: pick(d.Minute, o.Minute),
		Second: pick(d.Second, o.Second),
	}
	merged.Meridiem = d.Meridiem
	if merged.Meridiem == "" {
		merged.Meridiem = o.Meridiem
	}
	merged.Bare = merged.Hour != Unset &&
		(d.Bare || d.Hour == Unset) && (o.Bare || o.Hour == Unset)
	return merged
}

// Clock returns the 24-hour clock time, applying the meridiem.
func (d Date) Clock() (hour, minute, second int) {
	hour, minute, second = d.Hour, d.Minute, d.Second
	if hour == Unset {
		return 0, 0, 0
	}
	if minute == Unset {
		minute = 0
	}
	if second == Unset {
		second = 0
	}
	switch d.Meridiem {
	case "am":
		if hour == 12 {
			hour = 0
		}
	case "pm":
		if hour < 12 {
			hour += 12
		}
	}
	return hour, minute, second
}

// Relative is a day (or year) named relative to the base time: today,
// tomorrow, tonight, 去年.
type Relative struct {
	Unit   string
	Offset int
	Period string
}

type Weekday struct {
	// Day is 0 for Monday through 6 for Sunday.
	Day      int
	Modifier string
}

type Holiday struct {
	Name     string
	Year     int
	Modifier string
}

// Period is a named part of the day, spanning [Start, End) hours.
type Period struct {
	Name  string
	Start int
	End   int
}

// Composite is a modifier applied to a calendar unit: next week, the past
// three days, the end of the month, the first monday of march.
type Composite struct {
	Modifier string
	Unit     string
	Count    int
	Boundary string
	// Ordinal is 0 when absent, negative when counting from the end.
	Ordinal  int
	// Part is the day or week an ordinal picks out of the unit.
	Part     string
	Weekday  int
	Month    int
	Year     int
}

type Range struct {
	Start Date
	End   Date
}

// Delta is a signed duration. Sign is -1 for the past, +1 for the future and
// 0 for an unanchored duration.
type Delta struct {
	Years   int
	Months  int
	Weeks   int
	Days    int
	Hours   int
	Minutes int
	Seconds int
	Sign    int
}

// IsDayCount reports whether the duration counts whole days only.
func (d Delta) IsDayCount() bool {
	return (d.Days != 0 || d.Weeks != 0) && d.Years == 0 && d.Months == 0 &&
		d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

func (d Delta) IsZero() bool {
	return d.Years == 0 && d.Months == 0 && d.Weeks == 0 && d.Days == 0 &&
		d.Hours == 0 && d.Minutes == 0 && d.Seconds == 0
}

// ClockMinutes returns the duration in minutes when it only holds hours and
// minutes.
func (d Delta) ClockMinutes() (int, bool) {
	if d.Years != 0 || d.Months != 0 || d.Weeks != 0 || d.Days != 0 ||
		d.Seconds != 0 {
		return 0, false
	}
	return d.Hours*60 + d.Minutes, true
}

type Fraction struct {
	Numerator   int
	Denominator int
}

// Century is a century or decade. Decade holds the first year of the decade,
// or its last two digits when Short is set.
type Century struct {
	Century int
	Decade  int
	Short   bool
}

type Quarter struct {
	Quarter  int
	Year     int
	Modifier string
}

type Recurring struct {
	Unit     string
	Interval int
	Weekday  int
}

type Whitelist struct {
	Phrase string
}

// attrReader decodes typed attributes, keeping the first error.
type attrReader struct {
	fields Fields
	err    error
}

func (r *attrReader) int(key string, lo, hi int) int {
	v, ok := r.fields.Get(key)
	if !ok {
		return Unset
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		if r.err == nil {
			r.err = errors.Wrapf(err, "attribute %s", key)
		}
		return Unset
	}
	if n < lo || n > hi {
		if r.err == nil {
			r.err = errors.Errorf("attribute %s=%d out of range [%d, %d]",
				key, n, lo, hi)
		}
		return Unset
	}
	return n
}

// intOr is int with a default for an absent key, for attributes where
// Unset is itself a valid value.
func (r *attrReader) intOr(key string, lo, hi, def int) int {
	if !r.fields.Has(key) {
		return def
	}
	return r.int(key, lo, hi)
}

// sum adds up every occurrence of key.
func (r *attrReader) sum(key string) int {
	total := 0
	for _, f := range r.fields {
		if f.Key != key {
			continue
		}
		n, err := strconv.Atoi(f.Value)
		if err != nil {
			if r.err == nil {
				r.err = errors.Wrapf(err, "attribute %s", key)
			}
			continue
		}
		total += n
	}
	return total
}

func (r *attrReader) str(key string, allowed ...string) string {
	v, ok := r.fields.Get(key)
	if !ok || len(allowed) == 0 {
		return v
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	if r.err == nil {
		r.err = errors.Errorf("attribute %s=%q not allowed", key, v)
	}
	return ""
}

func (r *attrReader) require(key string) {
	if !r.fields.Has(key) && r.err == nil {
		r.err = errors.Errorf("missing attribute %s", key)
	}
}

var modifiers = []string{"", "this", "next", "last", "after_next",
	"before_last", "next_next", "last_last", "past", "coming"}

func (r *attrReader) date(prefix string) Date {
	d := Date{
		Year:     r.int(prefix+"year", 0, 9999),
		Month:    r.int(prefix+"month", 1, 12),
		Day:      r.int(prefix+"day", 1, 31),
		Hour:     r.int(prefix+"hour", 0, 24),
		Minute:   r.int(prefix+"minute", 0, 59),
		Second:   r.int(prefix+"second", 0, 59),
		Meridiem: r.str(prefix+"meridiem", "am", "pm"),
		Bare:     r.str(prefix+"bare") == "true",
	}
	if v, ok := r.fields.Get(prefix + "year"); ok && len(v) == 2 &&
		d.Year != Unset {
		if d.Year < 70 {
			d.Year += 2000
		} else {
			d.Year += 1900
		}
	}
	if d.Meridiem != "" && d.Hour > 12 && r.err == nil {
		r.err = errors.Errorf("hour %d with meridiem %s", d.Hour, d.Meridiem)
	}
	if d.Hour == 24 {
		if d.Minute > 0 && r.err == nil {
			r.err = errors.Errorf("time 24:%02d", d.Minute)
		}
	}
	if d.Minute != Unset && d.Hour == Unset && r.err == nil {
		r.err = errors.New("minute without hour")
	}
	if !d.HasDate() && !d.HasTime() && r.err == nil {
		r.err = errors.New("empty date")
	}
	return d
}

// Decode validates raw markup attributes and converts them into the typed
// struct for kind. Invalid attributes yield a nil value and an error.
func Decode(kind Kind, fields Fields) (interface{}, error) {
	r := &attrReader{fields: fields}
	var value interface{}
	switch kind {
	case KindLiteral:
		return nil, nil
	case KindDate:
		value = r.date("")
	case KindRelative:
		r.require("unit")
		value = Relative{
			Unit:   r.str("unit", "now", "day", "week", "month", "year"),
			Offset: r.intOr("offset", -100, 100, 0),
			Period: r.str("period"),
		}
	case KindWeekday:
		r.require("day")
		value = Weekday{
			Day:      r.int("day", 0, 6),
			Modifier: r.str("modifier", modifiers...),
		}
	case KindHoliday:
		r.require("name")
		value = Holiday{
			Name:     r.str("name"),
			Year:     r.int("year", 0, 9999),
			Modifier: r.str("modifier", modifiers...),
		}
	case KindPeriod:
		r.require("name")
		r.require("start")
		r.require("end")
		value = Period{
			Name:  r.str("name"),
			Start: r.int("start", 0, 24),
			End:   r.int("end", 0, 24),
		}
	case KindComposite:
		c := Composite{
			Modifier: r.str("modifier", modifiers...),
			Unit: r.str("unit", "", "minute", "hour", "day", "week", "weekend",
				"month", "quarter", "year", "decade", "century"),
			Count:    r.intOr("count", 1, 1000, 1),
			Boundary: r.str("boundary", "", "begin", "middle", "end"),
			Ordinal:  r.intOr("ordinal", -5, 5, 0),
			Part:     r.str("part", "", "day", "week"),
			Weekday:  r.int("weekday", 0, 6),
			Month:    r.int("month", 1, 12),
			Year:     r.int("year", 0, 9999),
		}
		if c.Unit == "" && c.Weekday == Unset && r.err == nil {
			r.err = errors.New("composite without unit")
		}
		if c.Part != "" && c.Ordinal == 0 && r.err == nil {
			r.err = errors.New("composite part without ordinal")
		}
		value = c
	case KindRange:
		rng := Range{Start: r.date("start_"), End: r.date("end_")}
		shared := r.str("meridiem", "am", "pm")
		if rng.End.Meridiem == "" {
			rng.End.Meridiem = shared
		}
		for _, key := range []string{"year", "month"} {
			v := r.int(key, 0, 9999)
			if v == Unset {
				continue
			}
			if key == "year" {
				rng.Start.Year, rng.End.Year = v, v
			} else {
				rng.Start.Month, rng.End.Month = v, v
			}
		}
		value = rng
	case KindDelta:
		d := Delta{
			Years:   r.sum("years"),
			Months:  r.sum("months"),
			Weeks:   r.sum("weeks"),
			Days:    r.sum("days"),
			Hours:   r.sum("hours"),
			Minutes: r.sum("minutes"),
			Seconds: r.sum("seconds"),
		}
		switch r.str("sign", "", "+", "-") {
		case "+":
			d.Sign = 1
		case "-":
			d.Sign = -1
		}
		if d.IsZero() && r.err == nil {
			r.err = errors.New("empty delta")
		}
		value = d
	case KindFraction:
		r.require("numerator")
		r.require("denominator")
		value = Fraction{
			Numerator:   r.int("numerator", 0, 1000),
			Denominator: r.int("denominator", 1, 1000),
		}
	case KindCentury:
		c := Century{
			Century: r.int("century", 1, 100),
			Decade:  r.int("decade", 0, 9990),
		}
		if v, ok := fields.Get("decade"); ok && len(v) <= 2 {
			c.Short = true
		}
		if c.Century == Unset && c.Decade == Unset && r.err == nil {
			r.err = errors.New("century without value")
		}
		value = c
	case KindQuarter:
		value = Quarter{
			Quarter:  r.int("quarter", 1, 4),
			Year:     r.int("year", 0, 9999),
			Modifier: r.str("modifier", modifiers...),
		}
	case KindRecurring:
		r.require("unit")
		rec := Recurring{
			Unit: r.str("unit", "second", "minute", "hour", "day", "week",
				"weekday", "month", "year"),
			Interval: r.intOr("interval", 1, 1000, 1),
			Weekday:  r.int("weekday", 0, 6),
		}
		value = rec
	case KindWhitelist:
		value = Whitelist{Phrase: r.str("phrase")}
	default:
		return nil, errors.Errorf("unknown kind %d", kind)
	}
	if r.err != nil {
		return nil, errors.Wrapf(r.err, "decoding %s", kind)
	}
	return value, nil
}
