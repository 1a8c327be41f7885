// Package chat implements the chat-completions protocol family: the
// two-message (system + user) payload and the choices/usage response envelope
// used by the OpenAI chat completions endpoint and its many clones.
package chat

import (
	"encoding/json"

	"dario.cat/mergo"

	"github.com/aschepis/llmrelay/llm"
)

// DefaultEndpoint is the official chat completions endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/chat/completions"

// Commonly used models.
const (
	ModelGPT35 = "gpt-3.5-turbo-0125"
	ModelGPT4  = "gpt-4"
	ModelGPT4o = "gpt-4o"
)

// Adapter implements llm.StreamAdapter for the chat-completions family.
type Adapter struct{}

var _ llm.StreamAdapter = Adapter{}

// Encode builds the chat-completions wire payload. Provider-specific options
// on the request are merged over the standard fields.
func (Adapter) Encode(req *llm.Request, stream bool) ([]byte, error) {
	payload := map[string]any{
		"model": req.Model,
		"messages": []map[string]string{
			{"role": "system", "content": req.SystemPrompt},
			{"role": "user", "content": req.Text},
		},
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
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

// Wire response shapes. Deliberately explicit: fields are only read after the
// error envelope has been checked.
type wireResponse struct {
	Choices []wireChoice `json:"choices"`
	Usage   *wireUsage   `json:"usage"`
	Error   *wireError   `json:"error"`
}

type wireChoice struct {
	Message struct {
		Content string `json:"content"`
	} `json:"message"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type wireError struct {
	Message string `json:"message"`
}

// Decode interprets a complete chat-completions response body.
func (Adapter) Decode(body []byte) (*llm.Result, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, llm.NewProtocolError("malformed chat completion body", err)
	}
	if resp.Error != nil {
		return nil, llm.NewProviderError(resp.Error.Message)
	}
	if len(resp.Choices) == 0 {
		return nil, llm.NewProtocolError("no choices in response", nil)
	}

	res := &llm.Result{Utterance: resp.Choices[0].Message.Content}
	if resp.Usage != nil {
		res.Usage = &llm.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		}
	}
	return res, nil
}

type wireChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
}

// Delta extracts choices[0].delta.content from a streaming event. Events
// without a content delta (role announcements, finish markers, malformed
// bodies) report ok=false.
func (Adapter) Delta(event []byte) (string, bool) {
	var chunk wireChunk
	if err := json.Unmarshal(event, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == nil {
		return "", false
	}
	return *chunk.Choices[0].Delta.Content, true
}
