package types

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Token is one typed, attributed unit of tagger output. Fields holds the raw
// markup attributes in order and Value the decoded attributes, one of the
// per-kind structs in attrs.go. Value is nil for literals and for tokens
// whose attributes failed validation, in which case Err says why.
type Token struct {
	Kind   Kind
	Fields Fields
	Value  interface{}
	Err    error
}

// NewLiteral builds a glue token for unmatched text.
func NewLiteral(text string) Token {
	return Token{Kind: KindLiteral, Fields: Fields{{"value", text}}}
}

// NewToken builds a token and decodes its attributes.
func NewToken(kind Kind, fields Fields) Token {
	if kind == KindLiteral {
		text, _ := fields.Get("value")
		return NewLiteral(text)
	}
	value, err := Decode(kind, fields)
	return Token{Kind: kind, Fields: fields, Value: value, Err: err}
}

func (t Token) IsLiteral() bool {
	return t.Kind == KindLiteral
}

// Text returns the surface text of a literal token.
func (t Token) Text() string {
	if t.Kind != KindLiteral {
		return ""
	}
	text, _ := t.Fields.Get("value")
	return text
}

// Attr returns a raw attribute value.
func (t Token) Attr(key string) string {
	v, _ := t.Fields.Get(key)
	return v
}

func (t Token) Date() (Date, bool) {
	d, ok := t.Value.(Date)
	return d, ok
}

func (t Token) Relative() (Relative, bool) {
	r, ok := t.Value.(Relative)
	return r, ok
}

func (t Token) Weekday() (Weekday, bool) {
	w, ok := t.Value.(Weekday)
	return w, ok
}

func (t Token) Holiday() (Holiday, bool) {
	h, ok := t.Value.(Holiday)
	return h, ok
}

func (t Token) Period() (Period, bool) {
	p, ok := t.Value.(Period)
	return p, ok
}

func (t Token) Composite() (Composite, bool) {
	c, ok := t.Value.(Composite)
	return c, ok
}

func (t Token) Range() (Range, bool) {
	r, ok := t.Value.(Range)
	return r, ok
}

func (t Token) Delta() (Delta, bool) {
	d, ok := t.Value.(Delta)
	return d, ok
}

func (t Token) Fraction() (Fraction, bool) {
	f, ok := t.Value.(Fraction)
	return f, ok
}

func (t Token) Century() (Century, bool) {
	c, ok := t.Value.(Century)
	return c, ok
}

func (t Token) Quarter() (Quarter, bool) {
	q, ok := t.Value.(Quarter)
	return q, ok
}

func (t Token) Recurring() (Recurring, bool) {
	r, ok := t.Value.(Recurring)
	return r, ok
}

// String renders the token back into markup form.
func (t Token) String() string {
	if t.Kind == KindLiteral {
		return strconv.Quote(t.Text())
	}
	return FormatSegment(t.Kind, t.Fields)
}

// FormatSegment renders one `kind { key: "value" ... }` markup segment.
func FormatSegment(kind Kind, fields Fields) string {
	var sb strings.Builder
	sb.WriteString(kind.String())
	sb.WriteString(" {")
	for _, f := range fields {
		sb.WriteString(" ")
		sb.WriteString(f.Key)
		sb.WriteString(": ")
		sb.WriteString(strconv.Quote(f.Value))
	}
	sb.WriteString(" }")
	return sb.String()
}

type tokenJSON struct {
	Kind  string            `json:"kind"`
	Attrs map[string]string `json:"attrs"`
}

func (t Token) MarshalJSON() ([]byte, error) {
	attrs := make(map[string]string, len(t.Fields))
	for _, f := range t.Fields {
		if _, seen := attrs[f.Key]; !seen {
			attrs[f.Key] = f.Value
		}
	}
	return json.Marshal(tokenJSON{Kind: t.Kind.String(), Attrs: attrs})
}
