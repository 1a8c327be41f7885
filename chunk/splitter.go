// Package chunk splits long text into sentence-bounded, size-limited chunks
// and fans the chunks out as concurrent embedding sub-requests.
package chunk

import (
	"github.com/aschepis/llmrelay/text"
)

// Chunk is a contiguous slice of source text bounded by sentence boundaries.
type Chunk struct {
	// Index is the chunk's ordinal in submission order.
	Index int
	Text  string
	// Bridge is the chunk's last accepted sentence, repeated as the seed
	// of the next chunk so embeddings retain context at chunk edges. It is
	// empty when the overlap was dropped at this boundary or when no chunk
	// follows.
	Bridge string
	// Oversized marks the edge case of a single sentence at or over the
	// size bound, emitted alone with no overlap on either side.
	Oversized bool
}

// Split chunks input into sentence-bounded pieces, each strictly under size
// except for Oversized chunks, with consecutive chunks sharing a one-sentence
// overlap. A non-positive size disables splitting.
//
// The overlap trades mild redundancy for boundary context. At a boundary
// where the bridge sentence cannot be combined with the following sentence
// without breaking the size bound, the bridge is dropped instead: the bound
// always wins over overlap continuity.
func Split(input string, size int) []Chunk {
	if input == "" {
		return nil
	}
	if size <= 0 || len(input) <= size {
		return []Chunk{{Index: 0, Text: input}}
	}

	sents := text.Sentences(input)

	var chunks []Chunk
	bridge := ""
	i := 0
	for i < len(sents) {
		cur := bridge
		accepted := 0
		for i < len(sents) && len(cur)+len(sents[i]) < size {
			cur += sents[i]
			bridge = sents[i]
			i++
			accepted++
		}

		if accepted == 0 {
			if bridge != "" {
				// The carried overlap alone blocks the next
				// sentence. Drop it rather than violate the
				// bound (or spin on it forever).
				bridge = ""
				if n := len(chunks); n > 0 {
					chunks[n-1].Bridge = ""
				}
				continue
			}
			// A single sentence at or over the bound: emit it
			// alone, sacrificing overlap at both edges.
			chunks = append(chunks, Chunk{Index: len(chunks), Text: sents[i], Oversized: true})
			i++
			continue
		}

		chunks = append(chunks, Chunk{Index: len(chunks), Text: cur, Bridge: bridge})
	}

	if n := len(chunks); n > 0 {
		// No chunk follows the last one; its bridge seeds nothing.
		chunks[n-1].Bridge = ""
	}
	return chunks
}
