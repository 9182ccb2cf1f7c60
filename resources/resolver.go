package resources

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

type ResourceFlag uint8

// Enumeration of resource flags that indicate what the resolver should do
// with the resource.
const (
	RESOURCE_REQUIRED ResourceFlag = 1 << iota
	RESOURCE_OPTIONAL
	RESOURCE_SHARED
)

type ResourceEntryDefs map[string]ResourceFlag

// Resources maps a resource name to its raw bytes.
type Resources map[string][]byte

// GetResourceEntries
// Returns the resource files that make up a language, and whether each is
// required, optional, or shared between languages.
func GetResourceEntries() ResourceEntryDefs {
	return ResourceEntryDefs{
		"config.json":     RESOURCE_REQUIRED,
		"numbers.tsv":     RESOURCE_REQUIRED,
		"weekdays.tsv":    RESOURCE_REQUIRED,
		"units.tsv":       RESOURCE_REQUIRED,
		"relative.tsv":    RESOURCE_REQUIRED,
		"periods.tsv":     RESOURCE_REQUIRED,
		"modifiers.tsv":   RESOURCE_REQUIRED,
		"holidays.tsv":    RESOURCE_REQUIRED,
		"connectives.tsv": RESOURCE_REQUIRED,
		"glue.txt":        RESOURCE_REQUIRED,
		"ordinals.tsv":    RESOURCE_OPTIONAL,
		"months.tsv":      RESOURCE_OPTIONAL,
		"quantifiers.tsv": RESOURCE_OPTIONAL,
		"boundaries.tsv":  RESOURCE_OPTIONAL,
		"whitelist.txt":   RESOURCE_OPTIONAL,
		"vocab.txt":       RESOURCE_OPTIONAL,
		"holidays.json":   RESOURCE_REQUIRED | RESOURCE_SHARED,
	}
}

// NormalizeLang maps language aliases onto the data directory names.
func NormalizeLang(lang string) string {
	switch strings.ToLower(lang) {
	case "en", "eng", "english":
		return "en"
	case "zh", "cn", "chinese", "zh-cn", "zh_cn":
		return "zh"
	}
	return strings.ToLower(lang)
}

// ResolveResources
// Reads every resource of a language, from dataDir when it is set and from
// the embedded data otherwise. A missing required resource is an error.
func ResolveResources(lang string, dataDir string) (Resources, error) {
	lang = NormalizeLang(lang)
	if dataDir == "" {
		if _, err := EmbeddedDirExists(lang); err != nil {
			return nil, errors.Errorf("unsupported language %q", lang)
		}
	}
	found := make(Resources)
	for name, flag := range GetResourceEntries() {
		rsrcPath := path.Join(lang, name)
		if flag&RESOURCE_SHARED != 0 {
			rsrcPath = name
		}
		var data []byte
		if dataDir != "" {
			fileBytes, err := os.ReadFile(path.Join(dataDir, rsrcPath))
			if err != nil && !os.IsNotExist(err) {
				return nil, errors.Wrapf(err, "reading %s", rsrcPath)
			}
			data = fileBytes
		} else {
			data = GetEmbeddedResource(rsrcPath)
		}
		if data == nil {
			if flag&RESOURCE_REQUIRED != 0 {
				return nil, errors.Errorf(
					"cannot retrieve required `%s` for `%s`", name, lang)
			}
			continue
		}
		found[name] = data
	}
	return found, nil
}

// LangConfig holds the per-language knobs from `config.json`.
type LangConfig struct {
	DigitThreshold int `json:"digit_threshold"`
	LruSize        int `json:"lru_size"`
	// HanUnits splits Han text into one unit per rune.
	HanUnits bool `json:"han_units"`
}

// Table maps a surface form to its value columns.
type Table map[string][]string

// Value returns the first value column for a surface form.
func (t Table) Value(surface string) (string, bool) {
	cols, ok := t[surface]
	if !ok || len(cols) == 0 {
		return "", false
	}
	return cols[0], true
}

// Surfaces returns the surface forms, longest first, so that alternations
// built from them prefer longer matches.
func (t Table) Surfaces() []string {
	surfaces := make([]string, 0, len(t))
	for s := range t {
		surfaces = append(surfaces, s)
	}
	sort.Slice(surfaces, func(i, j int) bool {
		li, lj := len([]rune(surfaces[i])), len([]rune(surfaces[j]))
		if li != lj {
			return li > lj
		}
		return surfaces[i] < surfaces[j]
	})
	return surfaces
}

// HolidayDef describes how to compute a holiday's date for a year.
//
//	fixed            Month/Day
//	nth_weekday      the Nth Weekday (0 = Monday) of Month; N < 0 counts back
//	                 from the end of the month
//	easter           Offset days from Gregorian Easter
//	orthodox_easter  Offset days from Orthodox Easter
//	relative         Offset days from the holiday named Base
//	table            per-year "MM-DD" Dates, for lunar holidays
type HolidayDef struct {
	Rule    string            `json:"rule"`
	Month   int               `json:"month,omitempty"`
	Day     int               `json:"day,omitempty"`
	Weekday int               `json:"weekday,omitempty"`
	N       int               `json:"n,omitempty"`
	Offset  int               `json:"offset,omitempty"`
	Base    string            `json:"base,omitempty"`
	Dates   map[string]string `json:"dates,omitempty"`
}

// Lexicon is the immutable vocabulary and grammar data of one language.
type Lexicon struct {
	Lang      string                `json:"lang"`
	Config    LangConfig            `json:"config"`
	Tables    map[string]Table      `json:"tables"`
	Vocab     []string              `json:"vocab"`
	Glue      []string              `json:"glue"`
	Whitelist []string              `json:"whitelist"`
	Holidays  map[string]HolidayDef `json:"holidays"`
}

// Table returns a named table, or an error naming the missing table.
func (lex *Lexicon) Table(name string) (Table, error) {
	table, ok := lex.Tables[name]
	if !ok || len(table) == 0 {
		return nil, errors.Errorf("%s lexicon has no `%s` table",
			lex.Lang, name)
	}
	return table, nil
}

// parseTable reads `surface<TAB>value...` lines. Blank lines and lines
// starting with `#` are skipped.
func parseTable(name string, data []byte) (Table, error) {
	table := make(Table)
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.Split(line, "\t")
		if len(cols) < 2 || cols[0] == "" {
			return nil, errors.Errorf("%s:%d: expected surface<TAB>value",
				name, lineNo)
		}
		surface := strings.ToLower(strings.TrimSpace(cols[0]))
		if _, dup := table[surface]; dup {
			return nil, errors.Errorf("%s:%d: duplicate entry %q",
				name, lineNo, surface)
		}
		table[surface] = cols[1:]
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, name)
	}
	return table, nil
}

func parseList(data []byte) []string {
	list := make([]string, 0)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		list = append(list, strings.ToLower(line))
	}
	return list
}

// ResolveLexicon
// Builds the lexicon of a language from its resources. Malformed data is a
// construction error.
func ResolveLexicon(lang string, dataDir string) (*Lexicon, error) {
	rsrcs, err := ResolveResources(lang, dataDir)
	if err != nil {
		return nil, err
	}
	lex := &Lexicon{
		Lang:   NormalizeLang(lang),
		Tables: make(map[string]Table),
	}
	if err := json.Unmarshal(rsrcs["config.json"], &lex.Config); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling `config.json`")
	}
	if lex.Config.DigitThreshold <= 0 {
		lex.Config.DigitThreshold = 4
	}
	if err := json.Unmarshal(rsrcs["holidays.json"],
		&lex.Holidays); err != nil {
		return nil, errors.Wrap(err, "error unmarshalling `holidays.json`")
	}
	for name, data := range rsrcs {
		switch path.Ext(name) {
		case ".tsv":
			table, tableErr := parseTable(name, data)
			if tableErr != nil {
				return nil, tableErr
			}
			lex.Tables[strings.TrimSuffix(name, ".tsv")] = table
		}
	}
	lex.Glue = parseList(rsrcs["glue.txt"])
	lex.Whitelist = parseList(rsrcs["whitelist.txt"])
	lex.Vocab = parseList(rsrcs["vocab.txt"])
	if err := lex.validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// validate checks that every holiday surface names a defined holiday.
func (lex *Lexicon) validate() error {
	for surface, cols := range lex.Tables["holidays"] {
		if _, ok := lex.Holidays[cols[0]]; !ok {
			return errors.Errorf("holiday %q maps to undefined `%s`",
				surface, cols[0])
		}
	}
	for name, def := range lex.Holidays {
		switch def.Rule {
		case "fixed", "nth_weekday", "easter", "orthodox_easter", "table":
		case "relative":
			if _, ok := lex.Holidays[def.Base]; !ok || def.Base == name {
				return errors.Errorf("holiday `%s` is relative to unknown `%s`",
					name, def.Base)
			}
		default:
			return errors.Errorf("holiday `%s` has unknown rule %q",
				name, def.Rule)
		}
	}
	return nil
}

// Words returns every surface form in the lexicon, split on spaces, for
// building the normalizer vocabulary.
func (lex *Lexicon) Words() []string {
	seen := make(map[string]bool)
	words := make([]string, 0)
	add := func(phrase string) {
		for _, w := range strings.Fields(phrase) {
			if !seen[w] {
				seen[w] = true
				words = append(words, w)
			}
		}
	}
	for _, table := range lex.Tables {
		for surface := range table {
			add(surface)
		}
	}
	for _, list := range [][]string{lex.Vocab, lex.Glue, lex.Whitelist} {
		for _, phrase := range list {
			add(phrase)
		}
	}
	sort.Strings(words)
	return words
}
