package model

import (
	"time"

	"aihub/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`                                      // 內部唯一識別碼
	UserID      string             `json:"userId" bson:"userId"`                               // 外部平台的使用者 ID
	Tenant      string             `json:"tenant" bson:"tenant"`                               // 所屬租戶
	DisplayName string             `json:"displayName,omitempty" bson:"displayName,omitempty"` // 顯示名稱
	Role        core.Role          `json:"role" bson:"role"`                                   // 配額角色
	Scope       core.Scope         `json:"scope" bson:"scope"`                                 // 允許的使用範圍
	Locked      bool               `json:"locked" bson:"locked"`                               // 是否鎖定
	Confirmed   bool               `json:"confirmed" bson:"confirmed"`                         // 是否已確認使用條款
	FirstUsed   *time.Time         `json:"firstUsed,omitempty" bson:"firstUsed,omitempty"`     // 首次成功請求時間
	LastUsed    *time.Time         `json:"lastUsed,omitempty" bson:"lastUsed,omitempty"`       // 最近成功請求時間
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
