// Package timex extracts temporal expressions from English and Chinese text
// and resolves them to ISO-8601 instants and intervals.
//
// Extraction runs in four stages: the Normalizer splits text into atomic
// units, the grammar tags the units and renders markup, the markup is parsed
// back into typed tokens, and the resolver merges the tokens against a base
// time.
package timex

import (
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"github.com/pkg/errors"
	"github.com/wbrown/timex/grammar"
	"github.com/wbrown/timex/markup"
	"github.com/wbrown/timex/resolve"
	"github.com/wbrown/timex/resources"
	"github.com/wbrown/timex/types"
	"golang.org/x/sync/singleflight"
)

const DefaultLruSize = 4096

// Options configures NewExtractor. The zero value builds from the embedded
// data without a persisted cache.
type Options struct {
	// CacheDir enables the persisted lexicon cache.
	CacheDir string
	// Overwrite rebuilds the cache even when it exists.
	Overwrite bool
	// DataDir overrides the embedded grammar data.
	DataDir string
	// LruSize is the number of sentences whose markup is memoized.
	LruSize int
	Logger  *slog.Logger
	Policy  resolve.Policy
	// Sentences splits text into sentences before tagging, so that no merge
	// crosses a sentence boundary.
	Sentences bool
}

// Stats reports the markup cache counters and how many extractions failed
// internally and were recovered.
type Stats struct {
	LruHits   uint64
	LruMisses uint64
	LruLen    int
	LruSize   int
	Recovered uint64
}

// Extractor is safe for concurrent use.
type Extractor struct {
	Lang       string
	Normalizer *Normalizer
	Grammar    *grammar.Grammar
	Resolver   *resolve.Resolver
	Cache      *lru.ARCCache
	LruSize    int
	logger     *slog.Logger
	sentences  bool
	lruHits    atomic.Uint64
	lruMisses  atomic.Uint64
	recovered  atomic.Uint64
}

// NewEnglishExtractor returns an English extractor built from the embedded
// data, or nil if the data is malformed.
func NewEnglishExtractor() *Extractor {
	extractor, _ := NewExtractor("en", nil)
	return extractor
}

// NewChineseExtractor returns a Chinese extractor built from the embedded
// data, or nil if the data is malformed.
func NewChineseExtractor() *Extractor {
	extractor, _ := NewExtractor("zh", nil)
	return extractor
}

// NewExtractor
// Returns an Extractor for lang, `en` or `zh`. Construction is the only
// place where malformed grammar or vocabulary data surfaces as an error.
func NewExtractor(lang string, opts *Options) (*Extractor, error) {
	if opts == nil {
		opts = &Options{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	lex, err := resources.LoadLexicon(resources.LoadOptions{
		Lang:      lang,
		DataDir:   opts.DataDir,
		CacheDir:  opts.CacheDir,
		Overwrite: opts.Overwrite,
		Logger:    logger,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "cannot load %s lexicon", lang)
	}
	g, err := grammar.New(lex)
	if err != nil {
		return nil, err
	}
	lruSize := opts.LruSize
	if lruSize <= 0 {
		lruSize = lex.Config.LruSize
	}
	if lruSize <= 0 {
		lruSize = DefaultLruSize
	}
	cache, err := lru.NewARC(lruSize)
	if err != nil {
		return nil, errors.Wrap(err, "cannot create markup cache")
	}
	words := append(lex.Words(), g.Words()...)
	extractor := &Extractor{
		Lang: lex.Lang,
		Normalizer: NewNormalizer(words, lex.Config.DigitThreshold,
			lex.Config.HanUnits),
		Grammar:   g,
		Resolver:  resolve.New(lex, opts.Policy),
		Cache:     cache,
		LruSize:   lruSize,
		logger:    logger.With("lang", lex.Lang),
		sentences: opts.Sentences,
	}
	extractor.logger.Debug("built extractor", "words", len(words),
		"lru_size", lruSize)
	return extractor, nil
}

var (
	defaults     sync.Map
	defaultGroup singleflight.Group
)

// Default returns the process-wide extractor of a language, building it
// once on first use.
func Default(lang string) (*Extractor, error) {
	lang = resources.NormalizeLang(lang)
	if extractor, ok := defaults.Load(lang); ok {
		return extractor.(*Extractor), nil
	}
	v, err, _ := defaultGroup.Do(lang, func() (interface{}, error) {
		if extractor, ok := defaults.Load(lang); ok {
			return extractor, nil
		}
		extractor, err := NewExtractor(lang, nil)
		if err != nil {
			return nil, err
		}
		defaults.Store(lang, extractor)
		return extractor, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Extractor), nil
}

// Extract finds the temporal expressions of text and resolves them against
// base. It returns the results and the tokens they were resolved from. It
// never panics: an internal failure is logged and counted, and the results
// found so far are returned.
func (extractor *Extractor) Extract(text string,
	base time.Time) (results []types.Result, tokens []types.Token) {
	results = make([]types.Result, 0)
	tokens = make([]types.Token, 0)
	defer func() {
		if r := recover(); r != nil {
			extractor.recovered.Add(1)
			extractor.logger.Error("recovered extraction failure",
				"text", text, "error", r)
		}
	}()
	tokens = extractor.Tag(text)
	extractor.Resolver.Each(tokens, base, func(res types.Result) {
		results = append(results, res)
	})
	return results, tokens
}

// Tag runs the tagger and the token parser only.
func (extractor *Extractor) Tag(text string) []types.Token {
	tokens := make([]types.Token, 0)
	for _, m := range extractor.markups(text) {
		if len(tokens) > 0 {
			tokens = append(tokens, types.NewLiteral(types.SentenceBreak))
		}
		tokens = append(tokens, markup.Parse(m)...)
	}
	return tokens
}

// Markup returns the tagger markup of text, for diagnostics.
func (extractor *Extractor) Markup(text string) string {
	sep := " " + strconv.Quote(types.SentenceBreak) + " "
	return strings.Join(extractor.markups(text), sep)
}

// Units returns the normalized units of text.
func (extractor *Extractor) Units(text string) []types.Unit {
	return extractor.Normalizer.Units(text)
}

func (extractor *Extractor) Stats() Stats {
	return Stats{
		LruHits:   extractor.lruHits.Load(),
		LruMisses: extractor.lruMisses.Load(),
		LruLen:    extractor.Cache.Len(),
		LruSize:   extractor.LruSize,
		Recovered: extractor.recovered.Load(),
	}
}

// markups tags each sentence of text, skipping sentences without tokens.
func (extractor *Extractor) markups(text string) []string {
	sentences := []string{text}
	if extractor.sentences {
		sentences = splitSentences(text)
	}
	out := make([]string, 0, len(sentences))
	for _, sentence := range sentences {
		if m := extractor.tagUnits(extractor.Units(sentence)); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// tagUnits memoizes the markup of a unit sequence.
func (extractor *Extractor) tagUnits(units []types.Unit) string {
	if len(units) == 0 {
		return ""
	}
	key := types.Key(units)
	if lookup, ok := extractor.Cache.Get(key); ok {
		extractor.lruHits.Add(1)
		return lookup.(string)
	}
	extractor.lruMisses.Add(1)
	m := extractor.Grammar.Tag(units)
	extractor.Cache.Add(key, m)
	return m
}
