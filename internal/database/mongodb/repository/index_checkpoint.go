package repository

import (
	"context"
	"errors"
	"time"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type IndexCheckpointRepository struct {
	collection *mongo.Collection
}

func NewIndexCheckpointRepository(mongoClient *client.MongoClient) *IndexCheckpointRepository {
	repository := &IndexCheckpointRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionIndexCheckpoints)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *IndexCheckpointRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "areaId", Value: 1}},
			Options: options.Index().SetName("idx_areaId_unique").SetUnique(true),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

func (repository *IndexCheckpointRepository) get(
	contextValue context.Context,
	areaID string,
) (*model.IndexCheckpoint, error) {

	var document model.IndexCheckpoint
	if err := repository.collection.FindOne(contextValue, bson.M{"areaId": areaID}).Decode(&document); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

// LastIndexed 取區域的索引進度，沒有資料回零值時間
func (repository *IndexCheckpointRepository) LastIndexed(
	contextValue context.Context,
	areaID string,
) (_ time.Time, returnedError error) {

	document, getError := repository.get(contextValue, areaID)
	if getError != nil {
		return time.Time{}, getError
	}
	if document == nil {
		return time.Time{}, nil
	}
	return document.LastIndexed, nil
}

// SetLastIndexed 更新區域索引進度（upsert）
func (repository *IndexCheckpointRepository) SetLastIndexed(
	contextValue context.Context,
	areaID string,
	indexedTo time.Time,
) (returnedError error) {

	filter := bson.M{"areaId": areaID}
	update := bson.M{
		"$set":         bson.M{"lastIndexed": indexedTo.UTC()},
		"$setOnInsert": bson.M{"areaId": areaID},
	}
	_, returnedError = repository.collection.UpdateOne(contextValue, filter, withUpdatedAt(update), options.Update().SetUpsert(true))
	return returnedError
}

// LastRunDuration 取區域上次索引的執行時間
func (repository *IndexCheckpointRepository) LastRunDuration(
	contextValue context.Context,
	areaID string,
) (_ time.Duration, returnedError error) {

	document, getError := repository.get(contextValue, areaID)
	if getError != nil {
		return 0, getError
	}
	if document == nil {
		return 0, nil
	}
	return time.Duration(document.LastRunDurationMs) * time.Millisecond, nil
}

// SetLastRunDuration 記錄區域本次索引的執行時間（upsert）
func (repository *IndexCheckpointRepository) SetLastRunDuration(
	contextValue context.Context,
	areaID string,
	duration time.Duration,
) (returnedError error) {

	filter := bson.M{"areaId": areaID}
	update := bson.M{
		"$set":         bson.M{"lastRunDurationMs": duration.Milliseconds()},
		"$setOnInsert": bson.M{"areaId": areaID},
	}
	_, returnedError = repository.collection.UpdateOne(contextValue, filter, withUpdatedAt(update), options.Update().SetUpsert(true))
	return returnedError
}
