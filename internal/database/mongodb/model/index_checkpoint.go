package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IndexCheckpoint 保存單一內容區域的索引進度
type IndexCheckpoint struct {
	ID                primitive.ObjectID `json:"id" bson:"_id"`
	AreaID            string             `json:"areaId" bson:"areaId"` // 內容區域識別碼，唯一
	LastIndexed       time.Time          `json:"lastIndexed" bson:"lastIndexed"`
	LastRunDurationMs int64              `json:"lastRunDurationMs" bson:"lastRunDurationMs"`
	UpdatedAt         time.Time          `json:"updatedAt" bson:"updatedAt"`
}
