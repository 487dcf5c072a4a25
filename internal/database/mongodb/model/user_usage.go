package model

import (
	"time"

	"aihub/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserUsage 是使用者在單一 purpose 的視窗計數，(userId, purpose) 唯一
type UserUsage struct {
	ID          primitive.ObjectID `json:"id" bson:"_id"`
	UserID      string             `json:"userId" bson:"userId"`
	Purpose     core.Purpose       `json:"purpose" bson:"purpose"`
	Count       int64              `json:"count" bson:"count"`
	WindowStart time.Time          `json:"windowStart" bson:"windowStart"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}
