package grammar

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

// Category weights, scaled by 100 so that path costs add up exactly. Lower
// weights win when matches compete for the same units.
const (
	WeightWhitelist = 100 // fixed phrases and fractions
	WeightAbsolute  = 101 // explicit ranges and absolute dates
	WeightDelta     = 102
	WeightRecurring = 103
	WeightNamed     = 104 // weekdays, holidays, periods
	WeightCalendar  = 105 // quarters, composites, centuries
	WeightRelative  = 106 // relative days and bare numbers
	WeightLiteral   = 10000
)

// Rule is one competing pattern of a category grammar.
type Rule struct {
	Name    string
	Kind    types.Kind
	Weight  int
	Pattern Pattern
}

// Grammar is the immutable rule set of one language.
type Grammar struct {
	Lang  string
	Rules []Rule
	words []string
}

// Words returns every word the rules match literally, for the normalizer
// vocabulary.
func (g *Grammar) Words() []string {
	return g.words
}

// Segment is one piece of a decoding: a token match, or a literal unit.
type Segment struct {
	Start  int
	End    int
	Kind   types.Kind
	Rule   string
	Fields types.Fields
}

type backPointer struct {
	from   int
	rule   int
	fields types.Fields
}

// Decode finds the lowest-weight full covering of units by rule matches and
// single-unit literals. Among equal-weight coverings the first one found
// wins, scanning positions left to right and rules in order.
func (g *Grammar) Decode(units []types.Unit) []Segment {
	n := len(units)
	if n == 0 {
		return nil
	}
	best := make([]int, n+1)
	back := make([]backPointer, n+1)
	for idx := range best {
		best[idx] = math.MaxInt
	}
	best[0] = 0
	for pos := 0; pos < n; pos++ {
		if best[pos] == math.MaxInt {
			continue
		}
		for ruleIdx, rule := range g.Rules {
			for _, m := range rule.Pattern(units, pos) {
				if m.End <= pos {
					continue
				}
				if cost := best[pos] + rule.Weight; cost < best[m.End] {
					best[m.End] = cost
					back[m.End] = backPointer{pos, ruleIdx, m.Fields}
				}
			}
		}
		if cost := best[pos] + WeightLiteral; cost < best[pos+1] {
			best[pos+1] = cost
			back[pos+1] = backPointer{pos, -1, nil}
		}
	}

	segments := make([]Segment, 0)
	for end := n; end > 0; {
		bp := back[end]
		seg := Segment{Start: bp.from, End: end, Kind: types.KindLiteral}
		if bp.rule >= 0 {
			rule := g.Rules[bp.rule]
			seg.Kind = rule.Kind
			seg.Rule = rule.Name
			seg.Fields = bp.fields
		}
		segments = append(segments, seg)
		end = bp.from
	}
	for i, j := 0, len(segments)-1; i < j; i, j = i+1, j-1 {
		segments[i], segments[j] = segments[j], segments[i]
	}
	return segments
}

// Tag decodes units and renders the result as markup: token segments as
// `kind { key: "value" }` and literal units as quoted strings. A decoding
// with no token segment yields the empty string.
func (g *Grammar) Tag(units []types.Unit) string {
	segments := g.Decode(units)
	tagged := false
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg.Kind == types.KindLiteral {
			unit := units[seg.Start]
			text := unit.Text
			if unit.Digits != "" {
				text = unit.Digits
			}
			parts = append(parts, strconv.Quote(text))
			continue
		}
		tagged = true
		parts = append(parts, types.FormatSegment(seg.Kind, seg.Fields))
	}
	if !tagged {
		return ""
	}
	return strings.Join(parts, " ")
}

// builder assembles rules and records every literal word they use. The
// first missing lexicon table is kept in err.
type builder struct {
	lex   *resources.Lexicon
	rules []Rule
	words map[string]bool
	err   error
}

func newBuilder(lex *resources.Lexicon) *builder {
	return &builder{lex: lex, words: make(map[string]bool)}
}

// lit is Lit that also records its words.
func (b *builder) lit(alts ...string) Pattern {
	for _, alt := range alts {
		for _, w := range strings.Fields(alt) {
			b.words[w] = true
		}
	}
	return Lit(alts...)
}

func (b *builder) rule(name string, kind types.Kind, weight int,
	ps ...Pattern) {
	p := ps[0]
	if len(ps) > 1 {
		p = Alt(ps...)
	}
	b.rules = append(b.rules, Rule{name, kind, weight, p})
}

func (b *builder) grammar() *Grammar {
	words := make([]string, 0, len(b.words))
	for w := range b.words {
		words = append(words, w)
	}
	sort.Strings(words)
	return &Grammar{Lang: b.lex.Lang, Rules: b.rules, words: words}
}
