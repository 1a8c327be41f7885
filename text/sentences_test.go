package text

import (
	"strings"
	"testing"
)

func TestSentences(t *testing.T) {
	input := "The quick brown fox jumps. A lazy dog sleeps. Birds fly south."
	sents := Sentences(input)

	if len(sents) != 3 {
		t.Fatalf("Expected 3 sentences, got %d: %q", len(sents), sents)
	}
	if !strings.HasPrefix(sents[0], "The quick") {
		t.Errorf("Expected the first sentence first, got %q", sents[0])
	}
	if sents[2] != "Birds fly south." {
		t.Errorf("Expected the last sentence intact, got %q", sents[2])
	}
}

func TestSentencesRoundTrip(t *testing.T) {
	// Trailing whitespace stays with its sentence, so concatenation
	// reproduces the input byte for byte.
	input := "First one here. Second one follows.\nThird stands alone."
	if got := strings.Join(Sentences(input), ""); got != input {
		t.Errorf("Expected concatenation to reproduce the input, got %q", got)
	}
}

func TestSentencesEmpty(t *testing.T) {
	if sents := Sentences(""); sents != nil {
		t.Errorf("Expected nil for empty input, got %q", sents)
	}
}

func TestSentencesSingle(t *testing.T) {
	sents := Sentences("no terminator at all")
	if len(sents) != 1 || sents[0] != "no terminator at all" {
		t.Errorf("Expected the whole input as one sentence, got %q", sents)
	}
}
