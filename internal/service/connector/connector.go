package connector

import (
	"context"

	"aihub/internal/core"
)

// Connector 是單一 AI 服務介接的抽象。
// 傳輸層失敗不以 error 回傳，一律收斂成帶錯誤碼的 RequestResult。
type Connector interface {
	Name() core.ConnectorName
	// ModelsByPurpose 列出各 purpose 可用的模型
	ModelsByPurpose() map[core.Purpose][]string
	Unit() core.Unit
	// PromptData 把提示文字與選項組成上游 payload
	PromptData(promptText string, opts *core.RequestOptions) (map[string]any, error)
	MakeRequest(ctx context.Context, payload map[string]any, opts *core.RequestOptions) *core.RequestResult
	// ExecuteCompletion 解析上游原始回應成統一結果
	ExecuteCompletion(raw []byte, opts *core.RequestOptions) *core.PromptResponse
	HasCustomValue1() bool
	HasCustomValue2() bool
	Instance() *InstanceConfig
}

// InstanceConfig 是管理端設定的工具實例。
// 包裝型 connector 建出的內層實例不落庫，ID 為空。
type InstanceConfig struct {
	ID           string
	Name         string
	Connector    core.ConnectorName
	Model        string
	Endpoint     string
	APIKey       string
	Temperature  float64
	Models       []string
	CustomFields map[string]string
	Enabled      bool
}

// Adopt 從來源實例複製連線設定，用於包裝型 connector 構造內層實例
func (c *InstanceConfig) Adopt(src *InstanceConfig) {
	c.Model = src.Model
	c.Endpoint = src.Endpoint
	c.APIKey = src.APIKey
	c.Temperature = src.Temperature
	c.Models = src.Models
	c.CustomFields = src.CustomFields
}

// CustomField 取自訂欄位，未設定回傳 fallback
func (c *InstanceConfig) CustomField(key, fallback string) string {
	if c.CustomFields != nil {
		if value, ok := c.CustomFields[key]; ok && value != "" {
			return value
		}
	}
	return fallback
}
