package timex

import (
	"strings"
	"unicode"

	"github.com/wbrown/timex/types"
	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Rewrites applied to canonicalized text before it is split into units.
var defaultRewrites = map[string]string{
	"\u2019": "'",
	"\u2018": "'",
	"\u201c": "\"",
	"\u201d": "\"",
	"\u2013": "-",
	"\u2014": "-",
	"\u301c": "~",
	"\u3002": ".",
	"\u3001": ",",
	"a.m.":    "am",
	"p.m.":    "pm",
	"a.m":     "am",
	"p.m":     "pm",
	"o'clock": "oclock",
	"o clock": "oclock",
	"what's":  "what is",
	"it's":    "it is",
	"that's":  "that is",
	"let's":   "let us",
	"won't":   "will not",
	"can't":   "can not",
	"n't":     " not",
	"'ll":     " will",
	"'re":     " are",
	"'ve":     " have",
	"'d":      " would",
	"i'm":     "i am",
	"'til":    "until",
	"'till":   "until",
}

// Punctuation that survives normalization as its own unit.
const keptPunct = ":./-,~@"

// Normalizer canonicalizes text and splits it into atomic units over a
// closed vocabulary.
type Normalizer struct {
	vocab          *RuneNode
	rewrites       *RuneNode
	digitThreshold int
	hanUnits       bool
}

func NewNormalizer(words []string, digitThreshold int,
	hanUnits bool) *Normalizer {
	vocab := NewRuneTree()
	for _, w := range words {
		vocab.Insert(w)
	}
	rewrites := NewRuneTree()
	rewrites.InsertReplacements(defaultRewrites)
	if digitThreshold <= 0 {
		digitThreshold = 4
	}
	return &Normalizer{
		vocab:          vocab,
		rewrites:       rewrites,
		digitThreshold: digitThreshold,
		hanUnits:       hanUnits,
	}
}

// Canonicalize folds compatibility and full-width forms, lower-cases, and
// expands contractions. Apostrophes left over afterwards are dropped, so
// `new year's day` becomes `new years day`.
func (n *Normalizer) Canonicalize(text string) string {
	text = width.Fold.String(norm.NFKC.String(text))
	text = strings.ToLower(text)
	text = n.rewrites.Rewrite(text)
	return strings.ReplaceAll(text, "'", "")
}

type runeClass uint8

const (
	classSpace runeClass = iota
	classDigit
	classLetter
	classHan
	classPunct
)

func classify(r rune) runeClass {
	switch {
	case r >= '0' && r <= '9':
		return classDigit
	case unicode.Is(unicode.Han, r) || r == '〇':
		return classHan
	case unicode.IsLetter(r):
		return classLetter
	case strings.ContainsRune(keptPunct, r):
		return classPunct
	}
	return classSpace
}

// Units canonicalizes text and splits it into units. Whitespace collapses
// to single space units, and is trimmed at both ends.
func (n *Normalizer) Units(text string) []types.Unit {
	return n.split(n.Canonicalize(text))
}

func (n *Normalizer) split(text string) []types.Unit {
	runes := []rune(text)
	classes := make([]runeClass, len(runes))
	for idx, r := range runes {
		classes[idx] = classify(r)
	}
	// A hyphen joining two words is a space: `mid-autumn`, `twenty-one`.
	for idx := 1; idx < len(runes)-1; idx++ {
		if runes[idx] == '-' && classes[idx-1] == classLetter &&
			classes[idx+1] == classLetter {
			classes[idx] = classSpace
		}
	}

	units := make([]types.Unit, 0, len(runes))
	for idx := 0; idx < len(runes); {
		class := classes[idx]
		end := idx + 1
		if class != classPunct {
			for end < len(runes) && classes[end] == class {
				end++
			}
		}
		run := string(runes[idx:end])
		switch class {
		case classSpace:
			if len(units) > 0 {
				units = append(units, types.Unit{Text: " "})
			}
		case classDigit:
			if end-idx > n.digitThreshold {
				units = append(units,
					types.Unit{Text: types.Placeholder, Digits: run})
			} else {
				units = append(units, types.Unit{Text: run})
			}
		case classHan:
			if !n.hanUnits && n.vocab.Contains(run) {
				units = append(units, types.Unit{Text: run})
			} else {
				units = appendRunes(units, runes[idx:end])
			}
		case classLetter:
			if n.vocab.Contains(run) {
				units = append(units, types.Unit{Text: run})
			} else {
				units = appendRunes(units, runes[idx:end])
			}
		default:
			units = append(units, types.Unit{Text: run})
		}
		idx = end
	}
	if len(units) > 0 && units[len(units)-1].IsSpace() {
		units = units[:len(units)-1]
	}
	return units
}

func appendRunes(units []types.Unit, runes []rune) []types.Unit {
	for _, r := range runes {
		units = append(units, types.Unit{Text: string(r)})
	}
	return units
}
