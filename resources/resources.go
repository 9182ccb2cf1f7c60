package resources

import (
	"embed"
	"path"
)

//go:embed data/holidays.json
//go:embed data/en/*.json data/en/*.tsv data/en/*.txt
//go:embed data/zh/*.json data/zh/*.tsv data/zh/*.txt
var f embed.FS

// GetEmbeddedResource
// Returns the bytes of a resource embedded in the binary, or nil if it is
// not embedded.
func GetEmbeddedResource(name string) []byte {
	resourceBytes, err := f.ReadFile(path.Join("data", name))
	if err != nil {
		return nil
	}
	return resourceBytes
}

// EmbeddedDirExists
// Returns true if the given language directory is embedded in the binary,
// otherwise false and an error.
func EmbeddedDirExists(lang string) (bool, error) {
	if _, err := f.ReadDir(path.Join("data", lang)); err != nil {
		return false, err
	}
	return true, nil
}

// EmbeddedLanguages lists the language directories embedded in the binary.
func EmbeddedLanguages() []string {
	entries, err := f.ReadDir("data")
	if err != nil {
		return nil
	}
	langs := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			langs = append(langs, entry.Name())
		}
	}
	return langs
}
