package repository

import (
	"context"
	"time"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UsageRecordRepository struct {
	collection *mongo.Collection
}

func NewUsageRecordRepository(mongoClient *client.MongoClient) *UsageRecordRepository {
	repository := &UsageRecordRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionUsageRecords)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *UsageRecordRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // 重複項目識別碼檢查
			Keys:    bson.D{{Key: "component", Value: 1}, {Key: "contextId", Value: 1}, {Key: "itemId", Value: 1}},
			Options: options.Index().SetName("idx_component_context_item"),
		},
		{ // 統計查詢依建立時間
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_createdAt_desc"),
		},
		{ // 使用者用量查詢
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_userId_createdAt"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Insert 寫入一筆用量紀錄
func (repository *UsageRecordRepository) Insert(
	contextValue context.Context,
	record *service.UsageRecord,
) (returnedError error) {

	document := &model.UsageRecord{
		ID:              primitive.NewObjectID(),
		UserID:          record.UserID,
		Tenant:          record.Tenant,
		Purpose:         record.Purpose,
		Connector:       record.Connector,
		Model:           record.Model,
		Prompt:          record.Prompt,
		Completion:      record.Completion,
		Component:       record.Component,
		ContextID:       record.ContextID,
		CourseContextID: record.CourseContextID,
		ItemID:          record.ItemID,
		Value:           record.Value,
		CustomValue1:    record.CustomValue1,
		CustomValue2:    record.CustomValue2,
		Duration:        record.Duration,
		CreatedAt:       record.CreatedAt,
	}
	_, returnedError = repository.collection.InsertOne(contextValue, document)
	return returnedError
}

// Exists 檢查同 component/context 下的項目識別碼是否已被使用
func (repository *UsageRecordRepository) Exists(
	contextValue context.Context,
	component string,
	contextID int64,
	itemID string,
) (_ bool, returnedError error) {

	filter := bson.M{
		"component": component,
		"contextId": contextID,
		"itemId":    itemID,
	}
	count, countError := repository.collection.CountDocuments(contextValue, filter, options.Count().SetLimit(1))
	if countError != nil {
		return false, countError
	}
	return count > 0, nil
}

// StatsRows 彙總指定時間後的用量，依 purpose/connector/model 分組
func (repository *UsageRecordRepository) StatsRows(
	contextValue context.Context,
	since time.Time,
) (_ []service.StatsRow, returnedError error) {

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"createdAt": bson.M{"$gte": since}}}},
		{{Key: "$group", Value: bson.M{
			"_id": bson.M{
				"purpose":   "$purpose",
				"connector": "$connector",
				"model":     "$model",
			},
			"requests": bson.M{"$sum": 1},
			"value":    bson.M{"$sum": "$value"},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "requests", Value: -1}}}},
	}

	cursor, aggregateError := repository.collection.Aggregate(contextValue, pipeline)
	if aggregateError != nil {
		return nil, aggregateError
	}
	defer cursor.Close(contextValue)

	var rows []service.StatsRow
	for cursor.Next(contextValue) {
		var grouped struct {
			ID struct {
				Purpose   core.Purpose `bson:"purpose"`
				Connector string       `bson:"connector"`
				Model     string       `bson:"model"`
			} `bson:"_id"`
			Requests int64   `bson:"requests"`
			Value    float64 `bson:"value"`
		}
		if decodeError := cursor.Decode(&grouped); decodeError != nil {
			return nil, decodeError
		}
		rows = append(rows, service.StatsRow{
			Purpose:   grouped.ID.Purpose,
			Connector: grouped.ID.Connector,
			Model:     grouped.ID.Model,
			Requests:  grouped.Requests,
			Value:     grouped.Value,
		})
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}
	return rows, nil
}
