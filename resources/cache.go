package resources

import (
	"encoding/json"
	"log/slog"
	"os"
	"path"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
)

const CacheFileName = "lexicon.json"

// LoadOptions configures LoadLexicon.
type LoadOptions struct {
	Lang string
	// DataDir overrides the embedded data when set.
	DataDir string
	// CacheDir enables the persisted lexicon cache.
	CacheDir string
	// Overwrite rebuilds the cache even when it exists.
	Overwrite bool
	Logger    *slog.Logger
}

// cacheLocks serializes construction per cache file.
var cacheLocks sync.Map

func lockFor(cachePath string) *sync.Mutex {
	mu, _ := cacheLocks.LoadOrStore(cachePath, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CachePath returns where the lexicon cache of a language lives.
func CachePath(cacheDir, lang string) string {
	return path.Join(cacheDir, NormalizeLang(lang), CacheFileName)
}

// LoadLexicon
// Returns the lexicon of a language. Without a cache directory the lexicon is
// built from its resources. With one, the persisted cache is loaded unless it
// is absent or Overwrite is set, in which case the lexicon is rebuilt and
// written back. Loading from the cache behaves exactly like building.
func LoadLexicon(opts LoadOptions) (*Lexicon, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.CacheDir == "" {
		return ResolveLexicon(opts.Lang, opts.DataDir)
	}
	cachePath := CachePath(opts.CacheDir, opts.Lang)
	mu := lockFor(cachePath)
	mu.Lock()
	defer mu.Unlock()

	if !opts.Overwrite {
		lex, err := readCache(cachePath)
		if err == nil {
			logger.Debug("loaded lexicon cache", "lang", lex.Lang,
				"path", cachePath)
			return lex, nil
		}
		if !os.IsNotExist(errors.Cause(err)) {
			logger.Warn("ignoring unreadable lexicon cache",
				"path", cachePath, "error", err)
		}
	}
	lex, err := ResolveLexicon(opts.Lang, opts.DataDir)
	if err != nil {
		return nil, err
	}
	size, err := writeCache(cachePath, lex)
	if err != nil {
		return nil, err
	}
	logger.Info("wrote lexicon cache", "lang", lex.Lang, "path", cachePath,
		"size", humanize.Bytes(uint64(size)))
	return lex, nil
}

func readCache(cachePath string) (*Lexicon, error) {
	file, err := os.Open(cachePath)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	defer file.Close()
	stat, err := file.Stat()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if stat.Size() == 0 {
		return nil, errors.Errorf("empty cache file %s", cachePath)
	}
	data, unmap, err := readMmap(file)
	if err != nil {
		return nil, errors.Wrap(err, "error trying to mmap cache")
	}
	defer unmap()
	var lex Lexicon
	if err := json.Unmarshal(data, &lex); err != nil {
		return nil, errors.Wrapf(err, "cannot unmarshal %s", cachePath)
	}
	if lex.Lang == "" || len(lex.Tables) == 0 {
		return nil, errors.Errorf("incomplete cache file %s", cachePath)
	}
	return &lex, nil
}

// writeCache writes through a temporary file so readers never observe a
// partial cache.
func writeCache(cachePath string, lex *Lexicon) (int, error) {
	if err := os.MkdirAll(path.Dir(cachePath), 0755); err != nil {
		return 0, errors.Wrap(err, "cannot create cache directory")
	}
	data, err := json.Marshal(lex)
	if err != nil {
		return 0, errors.Wrap(err, "cannot marshal lexicon")
	}
	tmp, err := os.CreateTemp(path.Dir(cachePath), CacheFileName+".*")
	if err != nil {
		return 0, errors.Wrap(err, "cannot create cache file")
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return 0, errors.Wrap(err, "cannot write cache file")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.Wrap(err, "cannot close cache file")
	}
	if err := os.Rename(tmp.Name(), cachePath); err != nil {
		os.Remove(tmp.Name())
		return 0, errors.Wrap(err, "cannot move cache file into place")
	}
	return len(data), nil
}
