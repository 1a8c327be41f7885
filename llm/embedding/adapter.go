// Package embedding implements the embedding protocol families: the OpenAI
// data/embedding envelope and the raw-rows shape served by Hugging Face
// inference endpoints.
package embedding

import (
	"encoding/json"

	"github.com/aschepis/llmrelay/llm"
)

// DefaultEndpoint is the official OpenAI embeddings endpoint.
const DefaultEndpoint = "https://api.openai.com/v1/embeddings"

// DefaultModel is a reasonable small embedding model.
const DefaultModel = "text-embedding-3-small"

// DimensionsOption is the request option key for overriding the vector size
// on models that support it.
const DimensionsOption = "dimensions"

// Adapter implements llm.Adapter for the OpenAI embedding envelope.
type Adapter struct{}

var _ llm.Adapter = Adapter{}

// Encode builds the embeddings wire payload. Embeddings never stream; the
// stream flag is ignored.
func (Adapter) Encode(req *llm.Request, _ bool) ([]byte, error) {
	payload := map[string]any{
		"model":           req.Model,
		"input":           req.Text,
		"encoding_format": "float",
	}
	if dims, ok := req.Options[DimensionsOption]; ok {
		payload[DimensionsOption] = dims
	}
	return json.Marshal(payload)
}

type wireResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage *struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Decode interprets a complete embeddings response body.
func (Adapter) Decode(body []byte) (*llm.Result, error) {
	var resp wireResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, llm.NewProtocolError("malformed embeddings body", err)
	}
	if resp.Error != nil {
		return nil, llm.NewProviderError(resp.Error.Message)
	}
	if len(resp.Data) == 0 {
		return nil, llm.NewProtocolError("no data in embeddings response", nil)
	}

	res := &llm.Result{Vector: resp.Data[0].Embedding}
	if resp.Usage != nil {
		res.Usage = &llm.Usage{
			PromptTokens: resp.Usage.PromptTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		}
	}
	return res, nil
}

// RawAdapter implements llm.Adapter for endpoints that take {"inputs": text}
// and answer with bare rows of floats, one row per input.
type RawAdapter struct{}

var _ llm.Adapter = RawAdapter{}

// Encode builds the inputs payload. Model selection lives in the endpoint URL
// for this family, so the request model is not sent.
func (RawAdapter) Encode(req *llm.Request, _ bool) ([]byte, error) {
	return json.Marshal(map[string]any{"inputs": req.Text})
}

// Decode takes the first row of the response as the vector.
func (RawAdapter) Decode(body []byte) (*llm.Result, error) {
	var rows [][]float64
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, llm.NewProtocolError("malformed embedding rows", err)
	}
	if len(rows) == 0 {
		return nil, llm.NewProtocolError("no rows in embedding response", nil)
	}
	return &llm.Result{Vector: rows[0]}, nil
}
