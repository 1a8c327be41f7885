// Package completion implements the single-shot completion protocol family:
// a bare prompt payload with the utterance returned in a flat response field.
// Ollama's /api/generate and most self-hosted completion endpoints follow
// this shape.
package completion

import (
	"encoding/json"

	"dario.cat/mergo"

	"github.com/aschepis/llmrelay/llm"
)

// Commonly used local models.
const (
	ModelMistralNemo = "mistral-nemo"
	ModelPhi4        = "phi4"
)

// Adapter implements llm.StreamAdapter for the single-shot completion family.
type Adapter struct{}

var _ llm.StreamAdapter = Adapter{}

// Encode builds the completion wire payload. The stream flag is always
// written: endpoints of this family tend to default to streaming when it is
// omitted.
func (Adapter) Encode(req *llm.Request, stream bool) ([]byte, error) {
	payload := map[string]any{
		"model":       req.Model,
		"prompt":      req.Text,
		"temperature": req.Temperature,
		"max_tokens":  req.MaxTokens,
		"stream":      stream,
	}
	if len(req.Options) > 0 {
		if err := mergo.Merge(&payload, req.Options, mergo.WithOverride); err != nil {
			return nil, llm.NewProtocolError("merging request options", err)
		}
	}
	return json.Marshal(payload)
}

type wireResponse struct {
	Response *string `json:"response"`
	// Error is a bare string in this family, not an envelope.
	Error string `json:"error"`
}

// Decode interprets a complete single-shot completion body. This family
// reports no token accounting.
func (Adapter) Decode(body []byte) (*llm.Result, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, llm.NewProtocolError("malformed completion body", err)
	}
	if resp.Error != "" {
		return nil, llm.NewProviderError(resp.Error)
	}
	if resp.Response == nil {
		return nil, llm.NewProtocolError("no response field in completion body", nil)
	}
	return &llm.Result{Utterance: *resp.Response}, nil
}

type wireChunk struct {
	Choices []struct {
		Delta struct {
			Content *string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Response *string `json:"response"`
}

// Delta extracts the incremental text from a streaming event. Streaming
// endpoints of this family either mirror the completions choices/delta shape
// or repeat the flat response field per event; both are handled.
func (Adapter) Delta(event []byte) (string, bool) {
	var chunk wireChunk
	if err := json.Unmarshal(event, &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != nil {
		return *chunk.Choices[0].Delta.Content, true
	}
	if chunk.Response != nil {
		return *chunk.Response, true
	}
	return "", false
}
