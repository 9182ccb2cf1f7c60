//go:build !wasip1 && !js

package timex

import (
	"strings"

	"github.com/jdkato/prose/v2"
)

// splitSentences segments text into sentences. Text without a sentence
// terminator is returned whole.
func splitSentences(text string) []string {
	chunks := splitFullStops(text)
	sentences := make([]string, 0, len(chunks))
	for _, chunk := range chunks {
		if !strings.ContainsAny(chunk, ".!?") {
			sentences = append(sentences, chunk)
			continue
		}
		doc, err := prose.NewDocument(
			chunk,
			prose.WithTagging(false),
			prose.WithExtraction(false),
			prose.WithTokenization(false),
		)
		if err != nil {
			sentences = append(sentences, chunk)
			continue
		}
		found := doc.Sentences()
		if len(found) == 0 {
			sentences = append(sentences, chunk)
			continue
		}
		for _, sentence := range found {
			sentences = append(sentences, sentence.Text)
		}
	}
	return sentences
}
