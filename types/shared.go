package types

import (
	"strings"
	"unicode"
)

// Unit is one atomic lexical unit produced by the normalizer. Digit runs
// longer than the configured threshold are replaced by a placeholder Text,
// and the original digits are kept in Digits.
type Unit struct {
	Text   string
	Digits string
}

const Placeholder = "<num>"

// SentenceBreak separates sentences in a unit stream. It is never glue.
const SentenceBreak = "\n"

func (u Unit) IsSpace() bool {
	return u.Text == " "
}

func (u Unit) IsPlaceholder() bool {
	return u.Text == Placeholder
}

func (u Unit) IsDigits() bool {
	if u.Text == "" {
		return false
	}
	for _, r := range u.Text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// IsLetters returns true when the unit is made of letters, excluding Han
// characters, which are matched one rune at a time.
func (u Unit) IsLetters() bool {
	if u.Text == "" {
		return false
	}
	for _, r := range u.Text {
		if !unicode.IsLetter(r) || unicode.Is(unicode.Han, r) {
			return false
		}
	}
	return true
}

// Key renders the unit stream as a string that uniquely identifies it,
// including any digits hidden behind placeholders.
func Key(units []Unit) string {
	var sb strings.Builder
	for _, u := range units {
		if u.Digits != "" {
			sb.WriteString("<" + u.Digits + ">")
		} else {
			sb.WriteString(u.Text)
		}
	}
	return sb.String()
}

// Kind is the closed set of token kinds. The names are the ones used in
// tagger markup.
type Kind uint8

const (
	KindLiteral Kind = iota
	KindDate
	KindRelative
	KindWeekday
	KindHoliday
	KindPeriod
	KindComposite
	KindRange
	KindDelta
	KindFraction
	KindCentury
	KindQuarter
	KindRecurring
	KindWhitelist
)

var kindNames = [...]string{
	KindLiteral:   "literal",
	KindDate:      "utc",
	KindRelative:  "relative",
	KindWeekday:   "weekday",
	KindHoliday:   "holiday",
	KindPeriod:    "period",
	KindComposite: "composite",
	KindRange:     "range",
	KindDelta:     "delta",
	KindFraction:  "fraction",
	KindCentury:   "century",
	KindQuarter:   "quarter",
	KindRecurring: "recurring",
	KindWhitelist: "whitelist",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindByName maps a markup kind name back to its Kind.
func KindByName(name string) (Kind, bool) {
	for idx, n := range kindNames {
		if n == name {
			return Kind(idx), true
		}
	}
	return KindLiteral, false
}

type Field struct {
	Key   string
	Value string
}

// Fields keeps markup attributes in their original order. Keys may repeat.
type Fields []Field

func (fields Fields) Get(key string) (string, bool) {
	for _, f := range fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return "", false
}

func (fields Fields) Has(key string) bool {
	_, ok := fields.Get(key)
	return ok
}
