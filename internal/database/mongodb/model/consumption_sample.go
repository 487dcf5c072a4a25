package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConsumptionSample 是上游帳務消耗量的一筆樣本；seq 由計數器配號，
// 同一時間點以 seq 決定先後。
type ConsumptionSample struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	Seq       int64              `json:"seq" bson:"seq"`
	Type      string             `json:"type" bson:"type"` // current 或 aggregate
	Value     float64            `json:"value" bson:"value"`
	Time      time.Time          `json:"time" bson:"time"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
}
