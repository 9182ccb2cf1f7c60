// Package markup reads and writes the tagger's markup, a flat sequence of
// `kind { key: "value" ... }` segments and quoted literal units.
package markup

import (
	"strconv"
	"strings"

	"github.com/wbrown/timex/types"
)

type parser struct {
	src string
	pos int
}

// Parse reads markup into tokens, decoding the attributes of each one.
// Malformed markup yields the tokens of its longest well-formed prefix.
// Adjacent literals merge unless either is whitespace.
func Parse(s string) []types.Token {
	p := &parser{src: s}
	tokens := make([]types.Token, 0)
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			break
		}
		tok, ok := p.segment()
		if !ok {
			break
		}
		tokens = appendToken(tokens, tok)
	}
	return tokens
}

func appendToken(tokens []types.Token, tok types.Token) []types.Token {
	if n := len(tokens); n > 0 && tok.IsLiteral() && tokens[n-1].IsLiteral() {
		prev := tokens[n-1].Text()
		text := tok.Text()
		if strings.TrimSpace(prev) != "" && strings.TrimSpace(text) != "" {
			tokens[n-1] = types.NewLiteral(prev + text)
			return tokens
		}
	}
	return append(tokens, tok)
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) quoted() (string, bool) {
	prefix, err := strconv.QuotedPrefix(p.src[p.pos:])
	if err != nil || !strings.HasPrefix(prefix, `"`) {
		return "", false
	}
	text, err := strconv.Unquote(prefix)
	if err != nil {
		return "", false
	}
	p.pos += len(prefix)
	return text, true
}

func (p *parser) ident() string {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c != '_' && (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			break
		}
		p.pos++
	}
	return p.src[start:p.pos]
}

func (p *parser) expect(c byte) bool {
	p.skipSpace()
	if p.pos < len(p.src) && p.src[p.pos] == c {
		p.pos++
		return true
	}
	return false
}

func (p *parser) segment() (types.Token, bool) {
	if p.src[p.pos] == '"' {
		text, ok := p.quoted()
		if !ok {
			return types.Token{}, false
		}
		return types.NewLiteral(text), true
	}
	kind, ok := types.KindByName(p.ident())
	if !ok || kind == types.KindLiteral || !p.expect('{') {
		return types.Token{}, false
	}
	fields := make(types.Fields, 0, 4)
	for {
		if p.expect('}') {
			return types.NewToken(kind, fields), true
		}
		p.skipSpace()
		key := p.ident()
		if key == "" || !p.expect(':') {
			return types.Token{}, false
		}
		p.skipSpace()
		value, ok := p.quoted()
		if !ok {
			return types.Token{}, false
		}
		fields = append(fields, types.Field{Key: key, Value: value})
	}
}

// Format renders tokens back into markup.
func Format(tokens []types.Token) string {
	parts := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		parts = append(parts, tok.String())
	}
	return strings.Join(parts, " ")
}
