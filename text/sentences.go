// Package text provides the language-level helpers the rest of the module
// leans on: locale-aware sentence segmentation, punctuation cleanup, and
// miners for the numbered/alphabetic lists LLMs are prompted to answer with.
package text

import (
	"github.com/clipperhouse/uax29/sentences"
)

// Sentences splits text into sentences using the Unicode UAX #29
// sentence-boundary rules. Each returned sentence keeps its trailing
// whitespace, so concatenating the slice reproduces the input exactly.
func Sentences(text string) []string {
	if text == "" {
		return nil
	}

	seg := sentences.NewSegmenter([]byte(text))

	var out []string
	for seg.Next() {
		out = append(out, string(seg.Bytes()))
	}
	return out
}
