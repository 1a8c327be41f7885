package llm

import (
	"strings"
)

// Adapter maps a logical Request to a provider wire payload and a raw provider
// body back to a uniform Result or typed error. Implementations are pure:
// they never perform IO.
type Adapter interface {
	// Encode builds the JSON wire payload for the request. stream selects
	// the streaming variant of the payload where the family supports one.
	Encode(req *Request, stream bool) ([]byte, error)

	// Decode interprets a complete provider response body. A well-formed
	// provider error envelope returns a *Error of type ErrorTypeProvider;
	// any other decode failure returns ErrorTypeProtocol.
	Decode(body []byte) (*Result, error)
}

// StreamAdapter is implemented by families that support server-sent-event
// streaming.
type StreamAdapter interface {
	Adapter

	// Delta extracts the incremental text carried by one SSE event body.
	// ok is false when the event carries no delta; a malformed event is
	// treated the same way, never as a stream failure.
	Delta(event []byte) (text string, ok bool)
}

// LineBreak is the marker substituted for newlines in streamed deltas, since
// downstream consumers render raw text.
const LineBreak = "<br>"

// BreakLines replaces newline characters in a streamed delta with LineBreak.
func BreakLines(text string) string {
	return strings.ReplaceAll(text, "\n", LineBreak)
}

// DoneSentinel is the literal SSE payload that terminates a stream
// successfully with no further decode attempt.
const DoneSentinel = "[DONE]"
