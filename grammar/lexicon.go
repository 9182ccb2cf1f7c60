package grammar

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
)

// table fetches a lexicon table, recording an error when it is missing. A
// missing table yields a pattern that never matches.
func (b *builder) table(name string) resources.Table {
	table, err := b.lex.Table(name)
	if err != nil {
		if b.err == nil {
			b.err = err
		}
		return resources.Table{}
	}
	return table
}

// optTable fetches a lexicon table that may be absent.
func (b *builder) optTable(name string) resources.Table {
	if table, ok := b.lex.Tables[name]; ok {
		return table
	}
	return resources.Table{}
}

// lexValue matches any surface form of table, longest first, with the
// value of column col.
func (b *builder) lexValue(table resources.Table, col int) Pattern {
	surfaces := table.Surfaces()
	for _, s := range surfaces {
		b.lit(s)
	}
	return func(units []types.Unit, pos int) []Match {
		var matches []Match
		for _, s := range surfaces {
			end, ok := matchText(units, pos, s)
			if !ok || end == pos {
				continue
			}
			cols := table[s]
			if col >= len(cols) {
				continue
			}
			matches = append(matches, Match{End: end, Value: cols[col]})
		}
		return matches
	}
}

// lexFields matches any surface form of table and records its value
// columns under keys. Empty or absent columns are skipped.
func (b *builder) lexFields(table resources.Table, keys ...string) Pattern {
	surfaces := table.Surfaces()
	for _, s := range surfaces {
		b.lit(s)
	}
	return func(units []types.Unit, pos int) []Match {
		var matches []Match
		for _, s := range surfaces {
			end, ok := matchText(units, pos, s)
			if !ok || end == pos {
				continue
			}
			cols := table[s]
			fields := make(types.Fields, 0, len(keys))
			for idx, key := range keys {
				if idx < len(cols) && strings.TrimSpace(cols[idx]) != "" {
					fields = append(fields,
						types.Field{Key: key, Value: strings.TrimSpace(cols[idx])})
				}
			}
			matches = append(matches,
				Match{End: end, Value: cols[0], Fields: fields})
		}
		return matches
	}
}

// New builds the grammar of a lexicon's language.
func New(lex *resources.Lexicon) (*Grammar, error) {
	b := newBuilder(lex)
	switch lex.Lang {
	case "en":
		buildEnglish(b)
	case "zh":
		buildChinese(b)
	default:
		return nil, errors.Errorf("no grammar for language %q", lex.Lang)
	}
	if b.err != nil {
		return nil, errors.Wrapf(b.err, "building %s grammar", lex.Lang)
	}
	return b.grammar(), nil
}
