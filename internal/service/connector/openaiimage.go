package connector

import (
	"context"
	"encoding/json"
	"net/http"

	"aihub/internal/core"
	"aihub/internal/telemetry"
)

// OpenAIImage 是圖像生成 connector，每次請求計量一次
type OpenAIImage struct {
	base
}

func NewOpenAIImage(instance *InstanceConfig, client *http.Client, trace *telemetry.Trace) *OpenAIImage {
	return &OpenAIImage{base: base{instance: instance, client: client, trace: trace}}
}

func (c *OpenAIImage) Name() core.ConnectorName {
	return core.ConnectorOpenAIImage
}

func (c *OpenAIImage) ModelsByPurpose() map[core.Purpose][]string {
	models := c.instance.Models
	if len(models) == 0 {
		models = []string{c.instance.Model}
	}
	return map[core.Purpose][]string{
		core.PurposeImgGen: models,
	}
}

func (c *OpenAIImage) Unit() core.Unit {
	return core.UnitCount
}

func (c *OpenAIImage) HasCustomValue1() bool { return false }
func (c *OpenAIImage) HasCustomValue2() bool { return false }

func (c *OpenAIImage) PromptData(promptText string, opts *core.RequestOptions) (map[string]any, error) {
	return map[string]any{
		"model":           c.instance.Model,
		"prompt":          promptText,
		"n":               1,
		"size":            opts.StringOption(core.OptionImageSize, "1024x1024"),
		"response_format": "b64_json",
	}, nil
}

func (c *OpenAIImage) MakeRequest(ctx context.Context, payload map[string]any, opts *core.RequestOptions) *core.RequestResult {
	url := c.instance.Endpoint
	if url == "" {
		url = core.OpenAIAPIBaseURL + "/v1" + string(core.OpenAIImageGenerateEndpoint)
	}
	return c.postJSON(ctx, http.MethodPost, url, payload, bearerHeaders(c.instance.APIKey))
}

type imageGenerationResponse struct {
	Data []struct {
		B64JSON string `json:"b64_json"`
		URL     string `json:"url"`
	} `json:"data"`
}

func (c *OpenAIImage) ExecuteCompletion(raw []byte, opts *core.RequestOptions) *core.PromptResponse {
	var parsed imageGenerationResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return core.PromptResponseFromError(http.StatusBadGateway, "decode upstream response failed", err.Error())
	}
	if len(parsed.Data) == 0 {
		return core.PromptResponseFromError(http.StatusBadGateway, "upstream response has no images", string(raw))
	}
	content := parsed.Data[0].B64JSON
	if content == "" {
		content = parsed.Data[0].URL
	}
	return core.PromptResponseFromResult(c.instance.Model, core.Usage{Value: 1}, content)
}
