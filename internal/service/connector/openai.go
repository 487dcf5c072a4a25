package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"aihub/internal/core"
	"aihub/internal/telemetry"
)

// OpenAI 是文字補全 connector，涵蓋 chat 系列 purpose
type OpenAI struct {
	base
}

func NewOpenAI(instance *InstanceConfig, client *http.Client, trace *telemetry.Trace) *OpenAI {
	return &OpenAI{base: base{instance: instance, client: client, trace: trace}}
}

func (c *OpenAI) Name() core.ConnectorName {
	return core.ConnectorOpenAI
}

func (c *OpenAI) ModelsByPurpose() map[core.Purpose][]string {
	models := c.instance.Models
	if len(models) == 0 {
		models = []string{c.instance.Model}
	}
	return map[core.Purpose][]string{
		core.PurposeChat:               models,
		core.PurposeSinglePrompt:       models,
		core.PurposeTranslate:          models,
		core.PurposeFeedback:           models,
		core.PurposeQuestionGeneration: models,
		core.PurposeITT:                models,
	}
}

func (c *OpenAI) Unit() core.Unit {
	return core.UnitToken
}

func (c *OpenAI) HasCustomValue1() bool { return true }
func (c *OpenAI) HasCustomValue2() bool { return true }

// PromptData 組 chat completions payload，conversation 歷史放在新訊息之前
func (c *OpenAI) PromptData(promptText string, opts *core.RequestOptions) (map[string]any, error) {
	messages := make([]map[string]any, 0, 4)
	for _, entry := range c.conversation(opts) {
		message, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("conversation entries must be objects")
		}
		role, _ := message["sender"].(string)
		content, _ := message["message"].(string)
		switch role {
		case "user", "assistant", "system":
		default:
			return nil, fmt.Errorf("conversation entry has unknown sender %q", role)
		}
		messages = append(messages, map[string]any{"role": role, "content": content})
	}
	messages = append(messages, map[string]any{"role": "user", "content": promptText})

	payload := map[string]any{
		"model":    c.instance.Model,
		"messages": messages,
	}
	if c.instance.Temperature > 0 {
		payload["temperature"] = c.instance.Temperature
	}
	return payload, nil
}

func (c *OpenAI) conversation(opts *core.RequestOptions) []any {
	if value, ok := opts.Option(core.OptionConversation); ok {
		if list, ok := value.([]any); ok {
			return list
		}
	}
	return nil
}

func (c *OpenAI) MakeRequest(ctx context.Context, payload map[string]any, opts *core.RequestOptions) *core.RequestResult {
	return c.postJSON(ctx, http.MethodPost, c.endpoint(core.OpenAIChatEndpoint), payload, bearerHeaders(c.instance.APIKey))
}

func (c *OpenAI) endpoint(path core.OpenAIEndpoint) string {
	if c.instance.Endpoint != "" {
		return c.instance.Endpoint
	}
	return core.OpenAIAPIBaseURL + "/v1" + string(path)
}

type chatCompletionResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     float64 `json:"prompt_tokens"`
		CompletionTokens float64 `json:"completion_tokens"`
		TotalTokens      float64 `json:"total_tokens"`
	} `json:"usage"`
}

// ExecuteCompletion 解析 chat completions 回應並映射 token 用量
func (c *OpenAI) ExecuteCompletion(raw []byte, opts *core.RequestOptions) *core.PromptResponse {
	var parsed chatCompletionResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return core.PromptResponseFromError(http.StatusBadGateway, "decode upstream response failed", err.Error())
	}
	if len(parsed.Choices) == 0 {
		return core.PromptResponseFromError(http.StatusBadGateway, "upstream response has no choices", string(raw))
	}
	model := parsed.Model
	if model == "" {
		model = c.instance.Model
	}
	usage := core.Usage{
		Value:        parsed.Usage.TotalTokens,
		CustomValue1: parsed.Usage.PromptTokens,
		CustomValue2: parsed.Usage.CompletionTokens,
	}
	return core.PromptResponseFromResult(model, usage, parsed.Choices[0].Message.Content)
}
