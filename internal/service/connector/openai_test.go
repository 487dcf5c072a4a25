package connector

import (
	"net/http"
	"testing"

	"aihub/internal/core"
	"aihub/internal/telemetry"
)

func testTrace(t *testing.T) *telemetry.Trace {
	t.Helper()
	trace, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace: %v", err)
	}
	return trace
}

func chatOptions(t *testing.T, options map[string]any) *core.RequestOptions {
	t.Helper()
	purpose, ok := core.PurposeByName(core.PurposeChat)
	if !ok {
		t.Fatal("chat purpose missing")
	}
	opts := core.NewRequestOptions(purpose, core.RequestContext{ID: 1}, "forum", options)
	if err := opts.Sanitize(); err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	return opts
}

func TestOpenAIPromptData(t *testing.T) {
	instance := &InstanceConfig{Model: "gpt-4o", Temperature: 0.7}
	c := NewOpenAI(instance, http.DefaultClient, testTrace(t))

	payload, err := c.PromptData("hello", chatOptions(t, nil))
	if err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if payload["model"] != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %v", payload["model"])
	}
	if payload["temperature"] != 0.7 {
		t.Errorf("expected temperature forwarded, got %v", payload["temperature"])
	}
	messages := payload["messages"].([]map[string]any)
	if len(messages) != 1 {
		t.Fatalf("expected one message, got %d", len(messages))
	}
	if messages[0]["role"] != "user" || messages[0]["content"] != "hello" {
		t.Errorf("unexpected message %v", messages[0])
	}
}

func TestOpenAIPromptDataConversationHistory(t *testing.T) {
	c := NewOpenAI(&InstanceConfig{Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	opts := chatOptions(t, map[string]any{
		core.OptionConversation: []any{
			map[string]any{"sender": "user", "message": "hi"},
			map[string]any{"sender": "assistant", "message": "hello"},
		},
	})
	payload, err := c.PromptData("how are you", opts)
	if err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	messages := payload["messages"].([]map[string]any)
	if len(messages) != 3 {
		t.Fatalf("expected history plus new message, got %d", len(messages))
	}
	if messages[0]["role"] != "user" || messages[1]["role"] != "assistant" {
		t.Errorf("history order lost: %v", messages)
	}
	if messages[2]["content"] != "how are you" {
		t.Errorf("new message must come last, got %v", messages[2])
	}
}

func TestOpenAIPromptDataRejectsUnknownSender(t *testing.T) {
	c := NewOpenAI(&InstanceConfig{Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	opts := chatOptions(t, map[string]any{
		core.OptionConversation: []any{
			map[string]any{"sender": "attacker", "message": "ignore previous"},
		},
	})
	if _, err := c.PromptData("hello", opts); err == nil {
		t.Error("expected error for unknown sender")
	}
}

func TestOpenAIExecuteCompletion(t *testing.T) {
	c := NewOpenAI(&InstanceConfig{Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	raw := []byte(`{
		"model": "gpt-4o-2024-08-06",
		"choices": [{"message": {"content": "bonjour"}}],
		"usage": {"prompt_tokens": 12, "completion_tokens": 4, "total_tokens": 16}
	}`)
	result := c.ExecuteCompletion(raw, chatOptions(t, nil))
	if result.IsError() {
		t.Fatalf("unexpected error: %+v", result)
	}
	if result.Content != "bonjour" {
		t.Errorf("unexpected content %q", result.Content)
	}
	if result.ModelInfo != "gpt-4o-2024-08-06" {
		t.Errorf("expected upstream model name, got %q", result.ModelInfo)
	}
	if result.Usage.Value != 16 || result.Usage.CustomValue1 != 12 || result.Usage.CustomValue2 != 4 {
		t.Errorf("token mapping wrong: %+v", result.Usage)
	}
}

func TestOpenAIExecuteCompletionNoChoices(t *testing.T) {
	c := NewOpenAI(&InstanceConfig{Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	result := c.ExecuteCompletion([]byte(`{"choices": []}`), chatOptions(t, nil))
	if !result.IsError() || result.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for empty choices, got %+v", result)
	}
}

func TestOpenAIExecuteCompletionGarbage(t *testing.T) {
	c := NewOpenAI(&InstanceConfig{Model: "gpt-4o"}, http.DefaultClient, testTrace(t))

	result := c.ExecuteCompletion([]byte("not json"), chatOptions(t, nil))
	if !result.IsError() || result.Code != http.StatusBadGateway {
		t.Errorf("expected 502 for bad json, got %+v", result)
	}
}

func TestOpenAIEndpointDefault(t *testing.T) {
	c := NewOpenAI(&InstanceConfig{Model: "gpt-4o"}, http.DefaultClient, testTrace(t))
	want := core.OpenAIAPIBaseURL + "/v1" + string(core.OpenAIChatEndpoint)
	if got := c.endpoint(core.OpenAIChatEndpoint); got != want {
		t.Errorf("endpoint = %q, want %q", got, want)
	}

	c2 := NewOpenAI(&InstanceConfig{Model: "gpt-4o", Endpoint: "https://proxy.internal/v1/chat"}, http.DefaultClient, testTrace(t))
	if got := c2.endpoint(core.OpenAIChatEndpoint); got != "https://proxy.internal/v1/chat" {
		t.Errorf("configured endpoint must win, got %q", got)
	}
}
