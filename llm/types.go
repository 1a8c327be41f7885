package llm

import (
	"time"

	"github.com/google/uuid"
)

// Default request parameters. These are the starting values for Defaults and
// can be overridden per deployment via the config package.
const (
	DefaultSystemPrompt = "You are ChatGPT, a large language model by OpenAI"
	DefaultMaxTokens    = 4096
	DefaultTemperature  = 0.0
	DefaultRetries      = 3
	DefaultLifetime     = 5 * time.Minute
	// DefaultStreamLifetime bounds a streaming session, which should be
	// producing deltas continuously and so gets a much shorter leash.
	DefaultStreamLifetime = 60 * time.Second
)

// Defaults is the per-deployment request policy. Zero fields fall back to the
// package defaults when applied.
type Defaults struct {
	SystemPrompt   string
	Temperature    float64
	MaxTokens      int
	Retries        int
	Lifetime       time.Duration
	StreamLifetime time.Duration
}

// NewDefaults returns the stock request policy.
func NewDefaults() Defaults {
	return Defaults{
		SystemPrompt:   DefaultSystemPrompt,
		Temperature:    DefaultTemperature,
		MaxTokens:      DefaultMaxTokens,
		Retries:        DefaultRetries,
		Lifetime:       DefaultLifetime,
		StreamLifetime: DefaultStreamLifetime,
	}
}

// Request represents a single logical LLM request, independent of wire format.
//
// A Request is immutable until it is submitted to a dispatch unit; the unit
// exclusively owns it for the lifetime of the exchange and populates Result or
// Err before handing it back. Callers must check Err before reading Result.
type Request struct {
	// ID correlates log lines across retries of the same logical request.
	ID           string
	Text         string
	Model        string
	SystemPrompt string
	Temperature  float64
	MaxTokens    int

	// Options holds provider-specific overrides merged verbatim into the
	// wire payload by adapters that support them.
	Options map[string]any

	// Result slot. Exactly one of Result/Err is set on a terminal reply,
	// except that a decoded provider error envelope sets only Err.
	Result *Result
	Err    *Error
}

// NewRequest creates a Request with the stock defaults applied.
func NewRequest(text, model string) *Request {
	return &Request{
		ID:           uuid.NewString(),
		Text:         text,
		Model:        model,
		SystemPrompt: DefaultSystemPrompt,
		Temperature:  DefaultTemperature,
		MaxTokens:    DefaultMaxTokens,
	}
}

// NewRequestWithDefaults creates a Request using the supplied policy.
func NewRequestWithDefaults(text, model string, d Defaults) *Request {
	req := NewRequest(text, model)
	if d.SystemPrompt != "" {
		req.SystemPrompt = d.SystemPrompt
	}
	if d.MaxTokens > 0 {
		req.MaxTokens = d.MaxTokens
	}
	req.Temperature = d.Temperature
	return req
}

// Processed reports whether the request has completed an exchange, successful
// or not. Utterance and Vector are only meaningful once Processed returns true.
func (r *Request) Processed() bool {
	return r.Result != nil || r.Err != nil
}

// Utterance returns the decoded completion text. It returns an error when the
// request has not been processed yet or when the exchange failed.
func (r *Request) Utterance() (string, error) {
	if r.Err != nil {
		return "", r.Err
	}
	if r.Result == nil {
		return "", NewProtocolError("no response for utterance: "+r.Text, nil)
	}
	return r.Result.Utterance, nil
}

// Vector returns the decoded embedding vector, following the same rules as
// Utterance.
func (r *Request) Vector() ([]float64, error) {
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Result == nil {
		return nil, NewProtocolError("no response for embedding: "+r.Text, nil)
	}
	return r.Result.Vector, nil
}

// Complete records a successful exchange and clears any error from a prior
// attempt.
func (r *Request) Complete(res *Result) {
	r.Result = res
	r.Err = nil
}

// Fail records a failed exchange.
func (r *Request) Fail(err *Error) {
	r.Err = err
}

// Result is the uniform decoded outcome of a successful exchange. Exactly one
// of Utterance/Vector is populated depending on the protocol family.
type Result struct {
	Utterance string
	Vector    []float64
	// Usage is nil when the provider did not report token accounting,
	// never zero-valued.
	Usage *Usage
}

// Usage is the token-accounting triple reported by the provider.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
