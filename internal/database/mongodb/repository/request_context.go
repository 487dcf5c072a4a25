package repository

import (
	"context"
	"errors"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestContextRepository struct {
	collection *mongo.Collection
}

func NewRequestContextRepository(mongoClient *client.MongoClient) *RequestContextRepository {
	repository := &RequestContextRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionContexts)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *RequestContextRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "contextId", Value: 1}},
			Options: options.Index().SetName("idx_contextId_unique").SetUnique(true),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Resolve 解析請求情境；0 視為系統情境，未知情境回 ErrContextNotFound
func (repository *RequestContextRepository) Resolve(
	contextValue context.Context,
	contextID int64,
) (_ *core.RequestContext, returnedError error) {

	if contextID == 0 || contextID == core.SystemContextID {
		return &core.RequestContext{ID: core.SystemContextID}, nil
	}

	var document model.RequestContext
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"contextId": contextID}).Decode(&document); returnedError != nil {
		if errors.Is(returnedError, mongo.ErrNoDocuments) {
			return nil, service.ErrContextNotFound
		}
		return nil, returnedError
	}
	return &core.RequestContext{ID: document.ContextID, CourseContextID: document.CourseContextID}, nil
}

// HasCapability 檢查使用者在情境內是否持有能力；
// 目前只有被列入拒用名單的使用者會失去能力
func (repository *RequestContextRepository) HasCapability(
	contextValue context.Context,
	userID string,
	capability core.Capability,
	contextID int64,
) (_ bool, returnedError error) {

	if contextID == 0 || contextID == core.SystemContextID {
		return true, nil
	}

	var document model.RequestContext
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"contextId": contextID}).Decode(&document); returnedError != nil {
		if errors.Is(returnedError, mongo.ErrNoDocuments) {
			return true, nil
		}
		return false, returnedError
	}
	for _, denied := range document.DeniedUserIDs {
		if denied == userID {
			return false, nil
		}
	}
	return true, nil
}
