package model

import (
	"time"

	"aihub/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ToolInstance struct {
	ID           primitive.ObjectID  `json:"id" bson:"_id"`                                        // 實例唯一識別碼
	Name         string              `json:"name" bson:"name"`                                     // 顯示名稱
	Connector    core.ConnectorName  `json:"connector" bson:"connector"`                           // connector 實作名稱
	Purposes     []core.Purpose      `json:"purposes" bson:"purposes"`                             // 可服務的 purpose
	Roles        []core.Role         `json:"roles,omitempty" bson:"roles,omitempty"`               // 限定角色，空值表示不限
	Model        string              `json:"model" bson:"model"`                                   // 預設模型
	Models       []string            `json:"models,omitempty" bson:"models,omitempty"`             // 可用模型清單
	Endpoint     string              `json:"endpoint,omitempty" bson:"endpoint,omitempty"`         // 自訂端點
	APIKey       string              `json:"-" bson:"apiKey"`                                      // 上游金鑰，不回前端
	Temperature  float64             `json:"temperature,omitempty" bson:"temperature,omitempty"`   // 取樣溫度
	CustomFields map[string]string   `json:"customFields,omitempty" bson:"customFields,omitempty"` // connector 專屬設定
	Priority     int                 `json:"priority" bson:"priority"`                             // 數字小者優先
	Enabled      bool                `json:"enabled" bson:"enabled"`                               // 是否啟用
	CreatedAt    time.Time           `json:"createdAt" bson:"createdAt"`                           // 建立時間
	UpdatedAt    time.Time           `json:"updatedAt" bson:"updatedAt"`                           // 更新時間
}
