package model

import (
	"time"

	"aihub/internal/core"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Tenant struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	Name             string             `json:"name" bson:"name"`       // 租戶識別名稱，唯一
	Enabled          bool               `json:"enabled" bson:"enabled"` // 整租戶開關
	DisabledPurposes []core.Purpose     `json:"disabledPurposes,omitempty" bson:"disabledPurposes,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}
