package chat

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/aschepis/llmrelay/llm"
)

func TestEncode(t *testing.T) {
	req := llm.NewRequest("hello", ModelGPT4o)
	req.MaxTokens = 128
	req.Temperature = 0.2

	body, err := Adapter{}.Encode(req, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Expected valid JSON payload, got %v", err)
	}
	if payload["model"] != ModelGPT4o {
		t.Errorf("Expected model %q, got %v", ModelGPT4o, payload["model"])
	}
	if payload["temperature"] != 0.2 {
		t.Errorf("Expected temperature 0.2, got %v", payload["temperature"])
	}
	if payload["max_tokens"] != float64(128) {
		t.Errorf("Expected max_tokens 128, got %v", payload["max_tokens"])
	}
	if _, ok := payload["stream"]; ok {
		t.Error("Expected no stream field on a non-streaming payload")
	}

	messages, ok := payload["messages"].([]any)
	if !ok || len(messages) != 2 {
		t.Fatalf("Expected two messages, got %v", payload["messages"])
	}
	system := messages[0].(map[string]any)
	if system["role"] != "system" || system["content"] != llm.DefaultSystemPrompt {
		t.Errorf("Expected a system message with the default prompt, got %v", system)
	}
	user := messages[1].(map[string]any)
	if user["role"] != "user" || user["content"] != "hello" {
		t.Errorf("Expected the user text as the second message, got %v", user)
	}
}

func TestEncodeStream(t *testing.T) {
	req := llm.NewRequest("hello", ModelGPT4o)
	body, err := Adapter{}.Encode(req, true)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Expected valid JSON payload, got %v", err)
	}
	if payload["stream"] != true {
		t.Errorf("Expected stream true, got %v", payload["stream"])
	}
}

func TestEncodeOptions(t *testing.T) {
	req := llm.NewRequest("hello", ModelGPT4o)
	req.Options = map[string]any{"top_p": 0.5}

	body, err := Adapter{}.Encode(req, false)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("Expected valid JSON payload, got %v", err)
	}
	if payload["top_p"] != 0.5 {
		t.Errorf("Expected top_p option merged into payload, got %v", payload["top_p"])
	}
}

func TestDecode(t *testing.T) {
	body := `{
		"choices": [{"message": {"content": "Hello there."}}],
		"usage": {"prompt_tokens": 10, "completion_tokens": 4, "total_tokens": 14}
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
	if res.Usage.PromptTokens != 10 || res.Usage.CompletionTokens != 4 || res.Usage.TotalTokens != 14 {
		t.Errorf("Expected usage 10/4/14, got %+v", res.Usage)
	}
}

func TestDecodeNoUsage(t *testing.T) {
	res, err := Adapter{}.Decode([]byte(`{"choices": [{"message": {"content": "hi"}}]}`))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if res.Usage != nil {
		t.Errorf("Expected nil usage when the provider reports none, got %+v", res.Usage)
	}
}

func TestDecodeProviderError(t *testing.T) {
	_, err := Adapter{}.Decode([]byte(`{"error": {"message": "invalid api key"}}`))
	if !llm.IsProviderError(err) {
		t.Fatalf("Expected a provider error, got %v", err)
	}
	var lerr *llm.Error
	if !errors.As(err, &lerr) || lerr.Message != "invalid api key" {
		t.Errorf("Expected the envelope message surfaced verbatim, got %v", err)
	}
}

func TestDecodeProtocolErrors(t *testing.T) {
	if _, err := (Adapter{}).Decode([]byte(`{"choices": []}`)); !llm.IsProtocolError(err) {
		t.Errorf("Expected a protocol error for empty choices, got %v", err)
	}
	if _, err := (Adapter{}).Decode([]byte(`not json`)); !llm.IsProtocolError(err) {
		t.Errorf("Expected a protocol error for a malformed body, got %v", err)
	}
}

func TestDelta(t *testing.T) {
	text, ok := Adapter{}.Delta([]byte(`{"choices":[{"delta":{"content":"Hel"}}]}`))
	if !ok || text != "Hel" {
		t.Errorf("Expected delta %q, got %q (ok=%v)", "Hel", text, ok)
	}

	// An explicit empty fragment still counts as a delta.
	text, ok = Adapter{}.Delta([]byte(`{"choices":[{"delta":{"content":""}}]}`))
	if !ok || text != "" {
		t.Errorf("Expected empty delta, got %q (ok=%v)", text, ok)
	}

	if _, ok := (Adapter{}).Delta([]byte(`{"choices":[{"delta":{"role":"assistant"}}]}`)); ok {
		t.Error("Expected no delta for a role announcement")
	}
	if _, ok := (Adapter{}).Delta([]byte(`{"choices":[]}`)); ok {
		t.Error("Expected no delta for empty choices")
	}
	if _, ok := (Adapter{}).Delta([]byte(`not json`)); ok {
		t.Error("Expected no delta for a malformed event")
	}
}
