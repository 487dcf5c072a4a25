package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ContentArea 代表一個可索引的內容區域（例如一門課程的教材區）
type ContentArea struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	AreaID    string             `json:"areaId" bson:"areaId"` // 區域識別碼，唯一
	Name      string             `json:"name" bson:"name"`
	Enabled   bool               `json:"enabled" bson:"enabled"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ContentDocument 是內容區域內待索引的一份文件
type ContentDocument struct {
	ID         primitive.ObjectID `json:"id" bson:"_id"`
	AreaID     string             `json:"areaId" bson:"areaId"`
	Title      string             `json:"title" bson:"title"`
	Content    string             `json:"content" bson:"content"`
	ContextID  int64              `json:"contextId" bson:"contextId"`
	CourseID   int64              `json:"courseId" bson:"courseId"`
	OwnerID    string             `json:"ownerId" bson:"ownerId"`
	ModifiedAt time.Time          `json:"modifiedAt" bson:"modifiedAt"`
}
