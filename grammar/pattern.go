package grammar

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/wbrown/timex/types"
)

// Match is one way a pattern can match the units starting at a position.
// Value is the text or number a leaf produced, for Cap to record.
type Match struct {
	End    int
	Value  string
	Fields types.Fields
}

// Pattern enumerates every match of a structural pattern at pos, in order
// of preference.
type Pattern func(units []types.Unit, pos int) []Match

func join(a, b Match) Match {
	fields := make(types.Fields, 0, len(a.Fields)+len(b.Fields))
	fields = append(fields, a.Fields...)
	fields = append(fields, b.Fields...)
	return Match{End: b.End, Value: a.Value + b.Value, Fields: fields}
}

func isLetter(r rune) bool {
	return unicode.IsLetter(r) && !unicode.Is(unicode.Han, r)
}

// matchText matches text against the concatenation of consecutive units.
// Unit boundaries must line up with the ends of text, and a text starting
// or ending in a letter must not continue a word split into characters.
func matchText(units []types.Unit, pos int, text string) (int, bool) {
	if text == "" {
		return pos, true
	}
	rest := text
	end := pos
	for rest != "" {
		if end >= len(units) || units[end].IsPlaceholder() {
			return 0, false
		}
		unit := units[end].Text
		if !strings.HasPrefix(rest, unit) {
			return 0, false
		}
		rest = rest[len(unit):]
		end++
	}
	first, _ := firstRune(text)
	last, _ := lastRune(text)
	if isLetter(first) && pos > 0 && units[pos-1].IsLetters() {
		return 0, false
	}
	if isLetter(last) && end < len(units) && units[end].IsLetters() {
		return 0, false
	}
	return end, true
}

func firstRune(s string) (rune, bool) {
	for _, r := range s {
		return r, true
	}
	return 0, false
}

func lastRune(s string) (rune, bool) {
	runes := []rune(s)
	if len(runes) == 0 {
		return 0, false
	}
	return runes[len(runes)-1], true
}

// Lit matches any of the given texts. The match value is the text matched.
func Lit(alts ...string) Pattern {
	return func(units []types.Unit, pos int) []Match {
		var matches []Match
		for _, alt := range alts {
			if end, ok := matchText(units, pos, alt); ok && end > pos {
				matches = append(matches, Match{End: end, Value: alt})
			}
		}
		return matches
	}
}

// Space matches a single space unit.
func Space(units []types.Unit, pos int) []Match {
	if pos < len(units) && units[pos].IsSpace() {
		return []Match{{End: pos + 1}}
	}
	return nil
}

// Digits matches one digit unit of minLen to maxLen digits.
func Digits(minLen, maxLen int) Pattern {
	return func(units []types.Unit, pos int) []Match {
		if pos >= len(units) || !units[pos].IsDigits() {
			return nil
		}
		n := len(units[pos].Text)
		if n < minLen || n > maxLen {
			return nil
		}
		return []Match{{End: pos + 1, Value: units[pos].Text}}
	}
}

// Long matches a placeholder unit hiding exactly n digits, recovering them.
func Long(n int) Pattern {
	return func(units []types.Unit, pos int) []Match {
		if pos >= len(units) || !units[pos].IsPlaceholder() ||
			len(units[pos].Digits) != n {
			return nil
		}
		return []Match{{End: pos + 1, Value: units[pos].Digits}}
	}
}

// Num matches a digit unit whose value lies in [lo, hi]. The value is
// rendered without leading zeros.
func Num(lo, hi int) Pattern {
	maxLen := len(strconv.Itoa(hi))
	if maxLen < 2 {
		maxLen = 2
	}
	return InRange(Digits(1, maxLen), lo, hi)
}

// InRange keeps the matches of p whose numeric value lies in [lo, hi].
func InRange(p Pattern, lo, hi int) Pattern {
	return Map(p, func(m Match) (Match, bool) {
		n, err := strconv.Atoi(m.Value)
		if err != nil || n < lo || n > hi {
			return m, false
		}
		m.Value = strconv.Itoa(n)
		return m, true
	})
}

// Seq matches the patterns one after another with nothing in between.
func Seq(ps ...Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		states := []Match{{End: pos}}
		for _, p := range ps {
			next := make([]Match, 0, len(states))
			for _, st := range states {
				for _, m := range p(units, st.End) {
					next = append(next, join(st, m))
				}
			}
			if len(next) == 0 {
				return nil
			}
			states = next
		}
		return states
	}
}

// Phrase is Seq allowing a single space between elements. A space is only
// consumed when the element after it matches something, so a phrase never
// starts or ends on a space.
func Phrase(ps ...Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		states := []Match{{End: pos}}
		for _, p := range ps {
			next := make([]Match, 0, len(states))
			for _, st := range states {
				for _, m := range p(units, st.End) {
					next = append(next, join(st, m))
				}
				if st.End > pos && st.End < len(units) &&
					units[st.End].IsSpace() {
					for _, m := range p(units, st.End+1) {
						if m.End > st.End+1 {
							next = append(next, join(st, m))
						}
					}
				}
			}
			if len(next) == 0 {
				return nil
			}
			states = next
		}
		return states
	}
}

// Alt matches any of the patterns, keeping their order.
func Alt(ps ...Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		var matches []Match
		for _, p := range ps {
			matches = append(matches, p(units, pos)...)
		}
		return matches
	}
}

// Opt matches p, or nothing.
func Opt(p Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		return append(p(units, pos), Match{End: pos})
	}
}

// Cap records the value of each match of p under key.
func Cap(key string, p Pattern) Pattern {
	return Map(p, func(m Match) (Match, bool) {
		fields := make(types.Fields, 0, len(m.Fields)+1)
		fields = append(fields, m.Fields...)
		m.Fields = append(fields, types.Field{Key: key, Value: m.Value})
		return m, true
	})
}

// Set is a zero-width pattern adding a constant field.
func Set(key, value string) Pattern {
	return func(units []types.Unit, pos int) []Match {
		return []Match{{End: pos, Fields: types.Fields{{Key: key, Value: value}}}}
	}
}

// Const replaces the value of every match of p.
func Const(value string, p Pattern) Pattern {
	return Map(p, func(m Match) (Match, bool) {
		m.Value = value
		return m, true
	})
}

// Keep matches p followed directly by rest, keeping only p's value.
func Keep(p Pattern, rest ...Pattern) Pattern {
	return Map(Seq(append([]Pattern{Cap("\x00keep", p)}, rest...)...),
		func(m Match) (Match, bool) {
			fields := make(types.Fields, 0, len(m.Fields))
			for _, f := range m.Fields {
				if f.Key == "\x00keep" {
					m.Value = f.Value
					continue
				}
				fields = append(fields, f)
			}
			m.Fields = fields
			return m, true
		})
}

// Map transforms or filters the matches of p.
func Map(p Pattern, fn func(Match) (Match, bool)) Pattern {
	return func(units []types.Unit, pos int) []Match {
		matches := p(units, pos)
		out := matches[:0:0]
		for _, m := range matches {
			if mapped, ok := fn(m); ok {
				out = append(out, mapped)
			}
		}
		return out
	}
}

// Func wraps a hand-written leaf.
func Func(fn func(units []types.Unit, pos int) []Match) Pattern {
	return fn
}

// reach bounds how many units preceded looks back.
const reach = 12

// follows reports whether next matches at pos, or after one space.
func follows(units []types.Unit, pos int, next Pattern) bool {
	if len(next(units, pos)) > 0 {
		return true
	}
	return pos < len(units) && units[pos].IsSpace() &&
		len(next(units, pos+1)) > 0
}

// Ahead keeps the matches of p that next follows. next is not consumed.
func Ahead(p, next Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		matches := p(units, pos)
		out := matches[:0:0]
		for _, m := range matches {
			if follows(units, m.End, next) {
				out = append(out, m)
			}
		}
		return out
	}
}

// Unless keeps the matches of p that next does not follow.
func Unless(p, next Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		matches := p(units, pos)
		out := matches[:0:0]
		for _, m := range matches {
			if !follows(units, m.End, next) {
				out = append(out, m)
			}
		}
		return out
	}
}

// preceded reports whether a match of prev ends right before pos, or one
// space before it.
func preceded(units []types.Unit, pos int, prev Pattern) bool {
	end := pos
	if end > 0 && units[end-1].IsSpace() {
		end--
	}
	for start := end - 1; start >= 0 && start >= pos-reach; start-- {
		for _, m := range prev(units, start) {
			if m.End == end {
				return true
			}
		}
	}
	return false
}

// After matches p only where prev precedes it.
func After(p, prev Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		if !preceded(units, pos, prev) {
			return nil
		}
		return p(units, pos)
	}
}

// NotAfter matches p only where prev does not precede it.
func NotAfter(p, prev Pattern) Pattern {
	return func(units []types.Unit, pos int) []Match {
		if preceded(units, pos, prev) {
			return nil
		}
		return p(units, pos)
	}
}
