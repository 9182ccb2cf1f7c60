// Package resolve turns a stream of tagged tokens into concrete instants and
// intervals relative to a base time.
//
// Resolution walks the tokens left to right. At each position the merge
// rules of tiers T0 to T4 are tried in order; the first rule that matches
// consumes its tokens. When nothing matches, the token is resolved on its
// own. Tiers run from the most specific, longest patterns to the least
// specific ones, so that "from 9:30 to 11:00 on thursday" is consumed whole
// before "11:00" or "on thursday" could match alone.
package resolve

import (
	"strconv"
	"strings"
	"time"

	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

// Policy holds the disambiguation heuristics that have no single right
// answer.
type Policy struct {
	// BareHours lets a lone number such as `9` resolve as a clock hour.
	BareHours bool
	// InferPM reads hours 1 to 6 without a meridiem or day period as
	// afternoon hours.
	InferPM bool
}

const tierCount = 5

// rule is one merge rule. It reads tokens through the cursor and reports
// whether it matched; the cursor position afterwards marks what it
// consumed.
type rule struct {
	name string
	fn   func(c *cursor) ([]types.Result, bool)
}

// Resolver is immutable after New and safe for concurrent use.
type Resolver struct {
	lang        string
	policy      Policy
	holidays    map[string]resources.HolidayDef
	periods     map[string]types.Period
	glue        map[string]bool
	connectives map[string]string
	tiers       [tierCount]map[types.Kind][]rule
}

// New builds a resolver from the glue words, connectives, day periods and
// holiday calendar of a lexicon.
func New(lex *resources.Lexicon, policy Policy) *Resolver {
	r := &Resolver{
		lang:        lex.Lang,
		policy:      policy,
		holidays:    lex.Holidays,
		periods:     make(map[string]types.Period),
		glue:        make(map[string]bool),
		connectives: make(map[string]string),
	}
	for _, g := range lex.Glue {
		r.glue[g] = true
	}
	for surface, cols := range lex.Tables["connectives"] {
		if len(cols) > 0 {
			r.connectives[surface] = cols[0]
		}
	}
	for _, cols := range lex.Tables["periods"] {
		if len(cols) < 3 {
			continue
		}
		start, err1 := strconv.Atoi(cols[1])
		end, err2 := strconv.Atoi(cols[2])
		if err1 != nil || err2 != nil {
			continue
		}
		if _, seen := r.periods[cols[0]]; !seen {
			r.periods[cols[0]] = types.Period{Name: cols[0], Start: start,
				End: end}
		}
	}
	for idx := range r.tiers {
		r.tiers[idx] = make(map[types.Kind][]rule)
	}
	r.registerMerges()
	r.registerRanges()
	r.registerClock()
	return r
}

// register adds a rule to a tier for each kind of token it can start at.
func (r *Resolver) register(tier int, name string,
	fn func(c *cursor) ([]types.Result, bool), heads ...types.Kind) {
	for _, kind := range heads {
		r.tiers[tier][kind] = append(r.tiers[tier][kind], rule{name, fn})
	}
}

// Resolve resolves a token stream against base. It never mutates tokens.
func (r *Resolver) Resolve(tokens []types.Token,
	base time.Time) []types.Result {
	results := make([]types.Result, 0)
	r.Each(tokens, base, func(res types.Result) {
		results = append(results, res)
	})
	return results
}

// Each is Resolve handing each result to yield as soon as it is found.
func (r *Resolver) Each(tokens []types.Token, base time.Time,
	yield func(types.Result)) {
	for pos := 0; pos < len(tokens); {
		res, consumed := r.step(tokens, pos, base)
		for _, result := range res {
			yield(result)
		}
		pos += consumed
	}
}

// step resolves the tokens starting at pos and reports how many it
// consumed.
func (r *Resolver) step(tokens []types.Token, pos int,
	base time.Time) ([]types.Result, int) {
	head := tokens[pos]
	if r.isGlue(head) {
		return nil, 1
	}
	c := &cursor{r: r, tokens: tokens, base: base}
	for tier := range r.tiers {
		for _, rl := range r.tiers[tier][head.Kind] {
			c.pos = pos
			res, ok := rl.fn(c)
			if !ok || c.pos <= pos {
				continue
			}
			// A merge directly followed by `to` belongs to a range.
			if tier <= 2 && c.rangeFollows() {
				continue
			}
			return res, c.pos - pos
		}
	}
	if head.IsLiteral() || head.Value == nil {
		return nil, 1
	}
	if res, ok := r.resolveToken(head, base); ok {
		return []types.Result{res}, 1
	}
	return nil, 1
}

func (r *Resolver) isGlue(tok types.Token) bool {
	if !tok.IsLiteral() {
		return false
	}
	text := tok.Text()
	if text == types.SentenceBreak {
		return false
	}
	return strings.TrimSpace(text) == "" || r.glue[strings.TrimSpace(text)]
}

// class returns the connective class of a literal, such as `from` or `to`.
// Chinese literals absorb neighbouring characters, so for them the longest
// connective suffix counts.
func (r *Resolver) class(tok types.Token) string {
	if !tok.IsLiteral() {
		return ""
	}
	text := strings.TrimSpace(tok.Text())
	if cls, ok := r.connectives[text]; ok {
		return cls
	}
	if r.lang != "zh" {
		return ""
	}
	runes := []rune(text)
	for start := 1; start < len(runes); start++ {
		if cls, ok := r.connectives[string(runes[start:])]; ok {
			return cls
		}
	}
	return ""
}

// cursor walks the tokens of one rule attempt, skipping glue.
type cursor struct {
	r      *Resolver
	tokens []types.Token
	pos    int
	base   time.Time
}

// peek returns the next significant token and its index.
func (c *cursor) peek() (types.Token, int, bool) {
	for idx := c.pos; idx < len(c.tokens); idx++ {
		if !c.r.isGlue(c.tokens[idx]) {
			return c.tokens[idx], idx, true
		}
	}
	return types.Token{}, 0, false
}

func (c *cursor) take() (types.Token, bool) {
	tok, idx, ok := c.peek()
	if ok {
		c.pos = idx + 1
	}
	return tok, ok
}

// word consumes the next token when it is a connective of one of the
// classes, returning the class.
func (c *cursor) word(classes ...string) (string, bool) {
	tok, idx, ok := c.peek()
	if !ok {
		return "", false
	}
	cls := c.r.class(tok)
	for _, want := range classes {
		if cls != "" && cls == want {
			c.pos = idx + 1
			return cls, true
		}
	}
	return "", false
}

// next consumes the next token when accept takes it.
func (c *cursor) next(accept func(types.Token) bool) (types.Token, bool) {
	tok, idx, ok := c.peek()
	if !ok || tok.Value == nil || !accept(tok) {
		return types.Token{}, false
	}
	c.pos = idx + 1
	return tok, true
}

func (c *cursor) rangeFollows() bool {
	tok, _, ok := c.peek()
	if !ok {
		return false
	}
	cls := c.r.class(tok)
	return cls == "to" || cls == "until"
}

// endpoint is a point in time described by up to three tokens: an anchor
// day, a clock time and a day period, in any order.
type endpoint struct {
	anchor    types.Token
	hasAnchor bool
	clock     types.Date
	hasClock  bool
	period    types.Period
	hasPeriod bool
	roles     int
}

// anchorOf reports whether tok names a day an endpoint can anchor on.
func anchorOf(tok types.Token, holidays bool) bool {
	switch tok.Kind {
	case types.KindRelative:
		rel, _ := tok.Relative()
		return rel.Unit == "day" || rel.Unit == "now"
	case types.KindWeekday:
		return true
	case types.KindHoliday:
		return holidays
	case types.KindDate:
		d, _ := tok.Date()
		return d.HasDate()
	}
	return false
}

// dayOnly reports whether tok names a day without a time of day.
func dayOnly(tok types.Token) bool {
	if d, ok := tok.Date(); ok && d.HasTime() {
		return false
	}
	return anchorOf(tok, true)
}

// endpoint reads an endpoint at the cursor. Holiday anchors are accepted
// when holidays is set.
func (c *cursor) endpoint(holidays bool) (endpoint, bool) {
	var e endpoint
	for e.roles < 3 {
		tok, idx, ok := c.peek()
		if !ok || tok.Value == nil {
			break
		}
		switch {
		case !e.hasAnchor && anchorOf(tok, holidays):
			e.hasAnchor = true
			e.anchor = tok
			if d, ok := tok.Date(); ok && d.HasTime() {
				if e.hasClock {
					return e, e.roles > 0
				}
				day := d
				day.Hour, day.Minute, day.Second = types.Unset, types.Unset,
					types.Unset
				day.Meridiem, day.Bare = "", false
				e.anchor = types.Token{Kind: types.KindDate, Value: day}
				e.clock, e.hasClock = timeOf(d), true
			}
			if rel, ok := tok.Relative(); ok && rel.Period != "" &&
				!e.hasPeriod {
				if p, ok := c.r.periods[rel.Period]; ok {
					e.period, e.hasPeriod = p, true
				}
			}
		case !e.hasClock && isClock(tok):
			d, _ := tok.Date()
			e.clock, e.hasClock = d, true
		case !e.hasPeriod && tok.Kind == types.KindPeriod:
			e.period, _ = tok.Period()
			e.hasPeriod = true
		default:
			return e, e.roles > 0
		}
		e.roles++
		c.pos = idx + 1
	}
	return e, e.roles > 0
}

func isClock(tok types.Token) bool {
	d, ok := tok.Date()
	return ok && d.HasTime() && !d.HasDate()
}

func timeOf(d types.Date) types.Date {
	t := types.EmptyDate()
	t.Hour, t.Minute, t.Second = d.Hour, d.Minute, d.Second
	t.Meridiem, t.Bare = d.Meridiem, d.Bare
	return t
}

// day returns the start of the endpoint's anchor day.
func (c *cursor) day(e endpoint) (time.Time, bool) {
	if !e.hasAnchor {
		return startOfDay(c.base), true
	}
	res, ok := c.r.resolveToken(e.anchor, c.base)
	if !ok {
		return time.Time{}, false
	}
	return startOfDay(res.Start), true
}

// resolve turns an endpoint into a result: an instant when it has a clock
// time, the day period when it has one, and the anchor's own span
// otherwise.
func (c *cursor) resolve(e endpoint) (types.Result, bool) {
	if rel, ok := e.anchor.Relative(); ok && e.hasAnchor && rel.Unit == "now" {
		return types.Instant(c.base), true
	}
	if !e.hasClock && !e.hasPeriod {
		if !e.hasAnchor {
			return types.Result{}, false
		}
		return c.r.resolveToken(e.anchor, c.base)
	}
	day, ok := c.day(e)
	if !ok {
		return types.Result{}, false
	}
	if !e.hasClock {
		return periodOn(day, e.period), true
	}
	var period *types.Period
	if e.hasPeriod {
		period = &e.period
	}
	t, ok := c.r.at(day, e.clock, period)
	if !ok {
		return types.Result{}, false
	}
	return types.Instant(t), true
}
