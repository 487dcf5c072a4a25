package repository

import (
	"context"
	"errors"
	"time"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserUsageRepository struct {
	collection *mongo.Collection
}

func NewUserUsageRepository(mongoClient *client.MongoClient) *UserUsageRepository {
	repository := &UserUsageRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionUserUsage)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *UserUsageRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // (userId, purpose) 唯一，保證 $inc 路徑只打同一份文件
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "purpose", Value: 1}},
			Options: options.Index().SetName("idx_userId_purpose_unique").SetUnique(true),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Window 取使用者在指定 purpose 的視窗狀態，沒有資料回 nil
func (repository *UserUsageRepository) Window(
	contextValue context.Context,
	userID string,
	purpose core.Purpose,
) (_ *service.UsageWindow, returnedError error) {

	var usage model.UserUsage
	filter := bson.M{"userId": userID, "purpose": purpose}
	if returnedError = repository.collection.FindOne(contextValue, filter).Decode(&usage); returnedError != nil {
		if errors.Is(returnedError, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, returnedError
	}
	return &service.UsageWindow{Count: usage.Count, WindowStart: usage.WindowStart}, nil
}

// ResetWindow 開新視窗並歸零計數（upsert）
func (repository *UserUsageRepository) ResetWindow(
	contextValue context.Context,
	userID string,
	purpose core.Purpose,
	start time.Time,
) (returnedError error) {

	filter := bson.M{"userId": userID, "purpose": purpose}
	update := bson.M{"$set": bson.M{"count": int64(0), "windowStart": start.UTC()}}
	_, returnedError = repository.collection.UpdateOne(contextValue, filter, withUpdatedAt(update), options.Update().SetUpsert(true))
	return returnedError
}

// Increment 原子遞增視窗計數並回傳遞增後的值
func (repository *UserUsageRepository) Increment(
	contextValue context.Context,
	userID string,
	purpose core.Purpose,
) (_ int64, returnedError error) {

	filter := bson.M{"userId": userID, "purpose": purpose}
	update := bson.M{
		"$inc":         bson.M{"count": int64(1)},
		"$setOnInsert": bson.M{"windowStart": time.Now().UTC()},
	}
	findOptions := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var usage model.UserUsage
	if returnedError = repository.collection.FindOneAndUpdate(contextValue, filter, withUpdatedAt(update), findOptions).Decode(&usage); returnedError != nil {
		return 0, returnedError
	}
	return usage.Count, nil
}
