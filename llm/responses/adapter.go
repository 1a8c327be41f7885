// Package responses implements the responses-API protocol family: the
// flat input payload and the typed output/content walk of the OpenAI
// /v1/responses endpoint.
package responses

import (
	"encoding/json"
	"strings"

	"dario.cat/mergo"

	"github.com/aschepis/llmrelay/llm"
)

// DefaultEndpoint is the official responses endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/responses"

// Adapter implements llm.StreamAdapter for the responses family.
type Adapter struct{}

var _ llm.StreamAdapter = Adapter{}

// NewWebSearchRequest builds a request preloaded with the low-cost web search
// tool, the most common reason to prefer this family over chat completions.
func NewWebSearchRequest(text, model string) *llm.Request {
	req := llm.NewRequest(text, strings.TrimSpace(model))
	req.Options = map[string]any{
		"tools": []map[string]any{
			{"type": "web_search", "search_context_size": "low"},
		},
	}
	return req
}

// Encode builds the responses wire payload. Responses are never stored
// server-side; option maps are merged over the standard fields.
func (Adapter) Encode(req *llm.Request, stream bool) ([]byte, error) {
	payload := map[string]any{
		"model":             req.Model,
		"input":             req.Text,
		"temperature":       req.Temperature,
		"max_output_tokens": req.MaxTokens,
		"store":             false,
	}
	if stream {
		payload["stream"] = true
	}
	if len(req.Options) > 0 {
		if err := mergo.Merge(&payload, req.Options, mergo.WithOverride); err != nil {
			return nil, llm.NewProtocolError("merging request options", err)
		}
	}
	return json.Marshal(payload)
}

type wireResponse struct {
	Output []wireOutput `json:"output"`
	Usage  *wireUsage   `json:"usage"`
	Error  *wireError   `json:"error"`
}

type wireOutput struct {
	Type    string        `json:"type"`
	Content []wireContent `json:"content"`
}

type wireContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type wireUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type wireError struct {
	Message string `json:"message"`
}

// Decode walks the output list for the first message item and its first
// output_text content block.
func (Adapter) Decode(body []byte) (*llm.Result, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, llm.NewProtocolError("malformed responses body", err)
	}
	if resp.Error != nil {
		return nil, llm.NewProviderError(resp.Error.Message)
	}
	if len(resp.Output) == 0 {
		return nil, llm.NewProtocolError("no output in response", nil)
	}

	var utterance string
	found := false
	for _, out := range resp.Output {
		if out.Type != "message" {
			continue
		}
		for _, content := range out.Content {
			if content.Type == "output_text" {
				utterance = content.Text
				found = true
				break
			}
		}
		if !found {
			return nil, llm.NewProtocolError("no utterance found in message output", nil)
		}
		break
	}
	if !found {
		return nil, llm.NewProtocolError("no message found in output", nil)
	}

	res := &llm.Result{Utterance: utterance}
	if resp.Usage != nil {
		res.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.InputTokens,
			CompletionTokens: resp.Usage.OutputTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return res, nil
}

type wireEvent struct {
	Delta *json.RawMessage `json:"delta"`
}

// Delta extracts the top-level delta field from a streaming event. The field
// is usually a string; anything else is forwarded in its JSON string form.
func (Adapter) Delta(event []byte) (string, bool) {
	var ev wireEvent
	if err := json.Unmarshal(event, &ev); err != nil || ev.Delta == nil {
		return "", false
	}
	var s string
	if err := json.Unmarshal(*ev.Delta, &s); err == nil {
		return s, true
	}
	return string(*ev.Delta), true
}
