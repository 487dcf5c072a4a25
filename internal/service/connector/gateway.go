package connector

import (
	"context"
	"net/http"
	"strings"

	"aihub/internal/core"
	"aihub/internal/telemetry"
)

// Gateway 是包裝型 connector：依設定的模型標記決定內層走文字或圖像實作。
// 內層實例由對外實例的連線設定複製而來，永不落庫。
type Gateway struct {
	instance *InstanceConfig
	client   *http.Client
	trace    *telemetry.Trace
	inner    Connector
}

// NewGateway 建構永遠成功；內層實作延後到第一次 PromptData 才決定
func NewGateway(instance *InstanceConfig, client *http.Client, trace *telemetry.Trace) *Gateway {
	return &Gateway{instance: instance, client: client, trace: trace}
}

func (c *Gateway) Name() core.ConnectorName {
	return core.ConnectorGateway
}

func (c *Gateway) Instance() *InstanceConfig {
	return c.instance
}

// setupWrapped 依模型標記建立內層實例並複製連線設定
func (c *Gateway) setupWrapped() {
	if c.inner != nil {
		return
	}
	wrapped := &InstanceConfig{
		Name:      c.instance.Name + " (wrapped)",
		Connector: core.ConnectorOpenAI,
	}
	wrapped.Adopt(c.instance)
	if strings.Contains(c.instance.Model, core.GatewayImgGenMarker) {
		wrapped.Connector = core.ConnectorOpenAIImage
		wrapped.Model = stripMarkers(c.instance.Model)
		c.inner = NewOpenAIImage(wrapped, c.client, c.trace)
		return
	}
	wrapped.Model = stripMarkers(c.instance.Model)
	c.inner = NewOpenAI(wrapped, c.client, c.trace)
}

// wrapped 取內層實作；在 PromptData 之前取用屬程式錯誤，直接讓其炸出
func (c *Gateway) wrapped() Connector {
	if c.inner == nil {
		panic("gateway connector used before wrapped connector was set up")
	}
	return c.inner
}

func stripMarkers(model string) string {
	model = strings.ReplaceAll(model, core.GatewayImgGenMarker, "")
	model = strings.ReplaceAll(model, core.GatewayVisionMarker, "")
	return strings.TrimSpace(model)
}

func (c *Gateway) ModelsByPurpose() map[core.Purpose][]string {
	byPurpose := map[core.Purpose][]string{}
	for _, model := range c.instance.Models {
		plain := stripMarkers(model)
		switch {
		case strings.Contains(model, core.GatewayImgGenMarker):
			byPurpose[core.PurposeImgGen] = append(byPurpose[core.PurposeImgGen], plain)
		case strings.Contains(model, core.GatewayVisionMarker):
			byPurpose[core.PurposeITT] = append(byPurpose[core.PurposeITT], plain)
		default:
			for _, purpose := range []core.Purpose{
				core.PurposeChat, core.PurposeSinglePrompt, core.PurposeTranslate,
				core.PurposeFeedback, core.PurposeQuestionGeneration,
			} {
				byPurpose[purpose] = append(byPurpose[purpose], plain)
			}
		}
	}
	return byPurpose
}

func (c *Gateway) PromptData(promptText string, opts *core.RequestOptions) (map[string]any, error) {
	c.setupWrapped()
	return c.inner.PromptData(promptText, opts)
}

func (c *Gateway) MakeRequest(ctx context.Context, payload map[string]any, opts *core.RequestOptions) *core.RequestResult {
	return c.wrapped().MakeRequest(ctx, payload, opts)
}

func (c *Gateway) ExecuteCompletion(raw []byte, opts *core.RequestOptions) *core.PromptResponse {
	return c.wrapped().ExecuteCompletion(raw, opts)
}

func (c *Gateway) Unit() core.Unit {
	return c.wrapped().Unit()
}

func (c *Gateway) HasCustomValue1() bool {
	return c.wrapped().HasCustomValue1()
}

func (c *Gateway) HasCustomValue2() bool {
	return c.wrapped().HasCustomValue2()
}
