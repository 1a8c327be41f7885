package responses

import (
	"encoding/json"
	"testing"

	"github.com/aschepis/llmrelay/llm"
)

func TestEncode(t *testing.T) {
	req := llm.NewRequest("hello", "gpt-4o")
	req.MaxTokens = 128

	body, err := Adapter{}.Encode(req, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Expected valid JSON payload, got %v", err)
	}
	if payload["input"] != "hello" {
		t.Errorf("Expected input %q, got %v", "hello", payload["input"])
	}
	if payload["max_output_tokens"] != float64(128) {
		t.Errorf("Expected max_output_tokens 128, got %v", payload["max_output_tokens"])
	}
	if payload["store"] != false {
		t.Errorf("Expected store false, got %v", payload["store"])
	}
	if _, ok := payload["stream"]; ok {
		t.Error("Expected no stream field on a non-streaming payload")
	}
}

func TestNewWebSearchRequest(t *testing.T) {
	req := NewWebSearchRequest("latest news", " gpt-4o ")
	if req.Model != "gpt-4o" {
		t.Errorf("Expected a trimmed model, got %q", req.Model)
	}

	body, err := Adapter{}.Encode(req, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Expected valid JSON payload, got %v", err)
	}
	tools, ok := payload["tools"].([]any)
	if !ok || len(tools) != 1 {
		t.Fatalf("Expected one tool in the payload, got %v", payload["tools"])
	}
	tool := tools[0].(map[string]any)
	if tool["type"] != "web_search" {
		t.Errorf("Expected the web_search tool, got %v", tool)
	}
}

func TestDecode(t *testing.T) {
	body := `{
		"output": [
			{"type": "reasoning", "content": []},
			{"type": "message", "content": [{"type": "output_text", "text": "Hello there."}]}
		],
		"usage": {"input_tokens": 12, "output_tokens": 5, "total_tokens": 17}
	}`

	res, err := Adapter{}.Decode([]byte(body))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Utterance != "Hello there." {
		t.Errorf("Expected utterance %q, got %q", "Hello there.", res.Utterance)
	}
	if res.Usage == nil {
		t.Fatal("Expected usage to be decoded")
	}
	if res.Usage.PromptTokens != 12 || res.Usage.CompletionTokens != 5 || res.Usage.TotalTokens != 17 {
		t.Errorf("Expected usage 12/5/17, got %+v", res.Usage)
	}
}

func TestDecodeProviderError(t *testing.T) {
	_, err := Adapter{}.Decode([]byte(`{"error": {"message": "model not found"}}`))
	if !llm.IsProviderError(err) {
		t.Fatalf("Expected a provider error, got %v", err)
	}
}

func TestDecodeProtocolErrors(t *testing.T) {
	if _, err := (Adapter{}).Decode([]byte(`{"output": []}`)); !llm.IsProtocolError(err) {
		t.Errorf("Expected a protocol error for empty output, got %v", err)
	}

	noText := `{"output": [{"type": "message", "content": [{"type": "refusal", "text": "no"}]}]}`
	if _, err := (Adapter{}).Decode([]byte(noText)); !llm.IsProtocolError(err) {
		t.Errorf("Expected a protocol error for a message without output_text, got %v", err)
	}

	noMessage := `{"output": [{"type": "reasoning", "content": []}]}`
	if _, err := (Adapter{}).Decode([]byte(noMessage)); !llm.IsProtocolError(err) {
		t.Errorf("Expected a protocol error when no message item is present, got %v", err)
	}
}

func TestDelta(t *testing.T) {
	text, ok := Adapter{}.Delta([]byte(`{"type": "response.output_text.delta", "delta": "Hel"}`))
	if !ok || text != "Hel" {
		t.Errorf("Expected delta %q, got %q (ok=%v)", "Hel", text, ok)
	}

	// Non-string deltas are forwarded in their JSON form.
	text, ok = Adapter{}.Delta([]byte(`{"delta": {"part": 1}}`))
	if !ok || text != `{"part": 1}` {
		t.Errorf("Expected raw JSON delta, got %q (ok=%v)", text, ok)
	}

	if _, ok := (Adapter{}).Delta([]byte(`{"type": "response.completed"}`)); ok {
		t.Error("Expected no delta for a lifecycle event")
	}
	if _, ok := (Adapter{}).Delta([]byte(`not json`)); ok {
		t.Error("Expected no delta for a malformed event")
	}
}
