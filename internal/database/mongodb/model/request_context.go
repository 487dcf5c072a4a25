package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestContext 是外部平台 context 樹的投影，
// courseContextId 為 0 表示該 context 不在任何 course 之下。
type RequestContext struct {
	ID              primitive.ObjectID `json:"id" bson:"_id"`
	ContextID       int64              `json:"contextId" bson:"contextId"` // 外部 context id，唯一
	CourseContextID int64              `json:"courseContextId" bson:"courseContextId"`
	DeniedUserIDs   []string           `json:"deniedUserIds,omitempty" bson:"deniedUserIds,omitempty"` // 在此 context 被拔權的使用者
	CreatedAt       time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt       time.Time          `json:"updatedAt" bson:"updatedAt"`
}
