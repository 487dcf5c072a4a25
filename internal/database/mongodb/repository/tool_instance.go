package repository

import (
	"context"
	"errors"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service/connector"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ToolInstanceRepository struct {
	collection *mongo.Collection
}

func NewToolInstanceRepository(mongoClient *client.MongoClient) *ToolInstanceRepository {
	repository := &ToolInstanceRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionToolInstances)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *ToolInstanceRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // 依 purpose 與啟用狀態挑選實例
			Keys:    bson.D{{Key: "purposes", Value: 1}, {Key: "enabled", Value: 1}, {Key: "priority", Value: 1}},
			Options: options.Index().SetName("idx_purposes_enabled_priority"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Resolve 挑選可服務指定 purpose 與角色的實例；
// 優先取啟用且 priority 最小者，停用狀態交由閘門判讀，沒有命中回 (nil, nil)
func (repository *ToolInstanceRepository) Resolve(
	contextValue context.Context,
	purpose core.Purpose,
	role core.Role,
) (_ *connector.InstanceConfig, returnedError error) {

	filter := bson.M{
		"purposes": purpose,
		"$or": []bson.M{
			{"roles": bson.M{"$exists": false}},
			{"roles": bson.M{"$size": 0}},
			{"roles": role},
		},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "enabled", Value: -1}, {Key: "priority", Value: 1}, {Key: "createdAt", Value: 1}})

	var instance model.ToolInstance
	if returnedError = repository.collection.FindOne(contextValue, filter, findOptions).Decode(&instance); returnedError != nil {
		if errors.Is(returnedError, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, returnedError
	}
	return toInstanceConfig(&instance), nil
}

func toInstanceConfig(instance *model.ToolInstance) *connector.InstanceConfig {
	return &connector.InstanceConfig{
		ID:           instance.ID.Hex(),
		Name:         instance.Name,
		Connector:    instance.Connector,
		Model:        instance.Model,
		Models:       instance.Models,
		Endpoint:     instance.Endpoint,
		APIKey:       instance.APIKey,
		Temperature:  instance.Temperature,
		CustomFields: instance.CustomFields,
		Enabled:      instance.Enabled,
	}
}
