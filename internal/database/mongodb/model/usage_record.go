package model

import (
	"time"

	"aihub/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UsageRecord struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`                                        // 紀錄唯一識別碼
	UserID          string             `json:"userId" bson:"userId"`                                 // 發出請求的使用者
	Tenant          string             `json:"tenant,omitempty" bson:"tenant,omitempty"`             // 使用者所屬租戶
	Purpose         core.Purpose       `json:"purpose" bson:"purpose"`                               // 請求的 purpose
	Connector       core.ConnectorName `json:"connector" bson:"connector"`                           // 處理請求的 connector
	Model           string             `json:"model" bson:"model"`                                   // 實際使用的模型
	Prompt          string             `json:"prompt,omitempty" bson:"prompt,omitempty"`             // 提示文字
	Completion      string             `json:"completion,omitempty" bson:"completion,omitempty"`     // 完成內容
	Component       string             `json:"component" bson:"component"`                           // 呼叫端元件
	ContextID       int64              `json:"contextId" bson:"contextId"`                           // 請求情境
	CourseContextID int64              `json:"courseContextId,omitempty" bson:"courseContextId,omitempty"` // 最近的 course 祖先情境
	ItemID          string             `json:"itemId,omitempty" bson:"itemId,omitempty"`             // 呼叫端項目識別碼
	Value           float64            `json:"value" bson:"value"`                                   // 用量主值
	CustomValue1    float64            `json:"customValue1,omitempty" bson:"customValue1,omitempty"`
	CustomValue2    float64            `json:"customValue2,omitempty" bson:"customValue2,omitempty"`
	Duration        float64            `json:"duration" bson:"duration"` // 上游呼叫秒數
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
}
