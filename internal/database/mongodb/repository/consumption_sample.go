package repository

import (
	"context"
	"errors"
	"time"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service/consumption"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ConsumptionSampleRepository struct {
	collection *mongo.Collection
	counters   *mongo.Collection
	mongoAgent *mongo.Client
}

func NewConsumptionSampleRepository(mongoClient *client.MongoClient) *ConsumptionSampleRepository {
	database := mongoClient.Client().Database(string(core.MongoDBAIHub))
	repository := &ConsumptionSampleRepository{
		collection: database.Collection(string(core.MongoCollectionConsumptionSamples)),
		counters:   database.Collection(string(core.MongoCollectionCounters)),
		mongoAgent: mongoClient.Client(),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *ConsumptionSampleRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // 時間序掃描
			Keys:    bson.D{{Key: "time", Value: 1}, {Key: "seq", Value: 1}},
			Options: options.Index().SetName("idx_time_seq"),
		},
		{ // 最新樣本查詢
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "seq", Value: -1}},
			Options: options.Index().SetName("idx_type_seq_desc"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// nextSeq 從計數器文件原子取號
func (repository *ConsumptionSampleRepository) nextSeq(contextValue context.Context) (int64, error) {
	filter := bson.M{"_id": string(core.MongoCollectionConsumptionSamples)}
	update := bson.M{"$inc": bson.M{"seq": int64(1)}}
	findOptions := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var counter struct {
		Seq int64 `bson:"seq"`
	}
	if err := repository.counters.FindOneAndUpdate(contextValue, filter, update, findOptions).Decode(&counter); err != nil {
		return 0, err
	}
	return counter.Seq, nil
}

// LatestCurrent 取最後寫入的 current 樣本，沒有資料回 nil
func (repository *ConsumptionSampleRepository) LatestCurrent(
	contextValue context.Context,
) (_ *consumption.Sample, returnedError error) {

	filter := bson.M{"type": string(consumption.SampleCurrent)}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "seq", Value: -1}})

	var document model.ConsumptionSample
	if returnedError = repository.collection.FindOne(contextValue, filter, findOptions).Decode(&document); returnedError != nil {
		if errors.Is(returnedError, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, returnedError
	}
	sample := toSample(&document)
	return &sample, nil
}

// Insert 寫入樣本並配流水號
func (repository *ConsumptionSampleRepository) Insert(
	contextValue context.Context,
	sample *consumption.Sample,
) (returnedError error) {

	seq, seqError := repository.nextSeq(contextValue)
	if seqError != nil {
		return seqError
	}
	sample.Seq = seq

	document := &model.ConsumptionSample{
		ID:        primitive.NewObjectID(),
		Seq:       seq,
		Type:      string(sample.Type),
		Value:     sample.Value,
		Time:      sample.Time.UTC(),
		CreatedAt: time.Now().UTC(),
	}
	_, returnedError = repository.collection.InsertOne(contextValue, document)
	return returnedError
}

// DeleteCurrentOlderThan 清掉過期 current 樣本，aggregate 不動
func (repository *ConsumptionSampleRepository) DeleteCurrentOlderThan(
	contextValue context.Context,
	cutoff time.Time,
) (_ int64, returnedError error) {

	filter := bson.M{
		"type": string(consumption.SampleCurrent),
		"time": bson.M{"$lt": cutoff.UTC()},
	}
	result, deleteError := repository.collection.DeleteMany(contextValue, filter)
	if deleteError != nil {
		return 0, deleteError
	}
	return result.DeletedCount, nil
}

// All 依 (時間, seq) 升冪回傳全部樣本
func (repository *ConsumptionSampleRepository) All(
	contextValue context.Context,
) (_ []consumption.Sample, returnedError error) {

	findOptions := options.Find().SetSort(bson.D{{Key: "time", Value: 1}, {Key: "seq", Value: 1}})
	cursor, findError := repository.collection.Find(contextValue, bson.M{}, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var samples []consumption.Sample
	for cursor.Next(contextValue) {
		var document model.ConsumptionSample
		if decodeError := cursor.Decode(&document); decodeError != nil {
			return nil, decodeError
		}
		samples = append(samples, toSample(&document))
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}
	return samples, nil
}

// ReplaceAll 在交易內整批汰換樣本
func (repository *ConsumptionSampleRepository) ReplaceAll(
	contextValue context.Context,
	samples []consumption.Sample,
) (returnedError error) {

	session, sessionError := repository.mongoAgent.StartSession()
	if sessionError != nil {
		return sessionError
	}
	defer session.EndSession(contextValue)

	_, returnedError = session.WithTransaction(contextValue, func(sessionContext mongo.SessionContext) (interface{}, error) {
		if _, err := repository.collection.DeleteMany(sessionContext, bson.M{}); err != nil {
			return nil, err
		}
		if len(samples) == 0 {
			return nil, nil
		}
		nowUTC := time.Now().UTC()
		documents := make([]interface{}, 0, len(samples))
		for index := range samples {
			seq, seqError := repository.nextSeq(sessionContext)
			if seqError != nil {
				return nil, seqError
			}
			samples[index].Seq = seq
			documents = append(documents, &model.ConsumptionSample{
				ID:        primitive.NewObjectID(),
				Seq:       seq,
				Type:      string(samples[index].Type),
				Value:     samples[index].Value,
				Time:      samples[index].Time.UTC(),
				CreatedAt: nowUTC,
			})
		}
		if _, err := repository.collection.InsertMany(sessionContext, documents); err != nil {
			return nil, err
		}
		return nil, nil
	})
	return returnedError
}

// AggregatesAfter 取指定時間後的 aggregate 樣本
func (repository *ConsumptionSampleRepository) AggregatesAfter(
	contextValue context.Context,
	after time.Time,
) (_ []consumption.Sample, returnedError error) {

	filter := bson.M{
		"type": string(consumption.SampleAggregate),
		"time": bson.M{"$gt": after.UTC()},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "time", Value: 1}, {Key: "seq", Value: 1}})
	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var samples []consumption.Sample
	for cursor.Next(contextValue) {
		var document model.ConsumptionSample
		if decodeError := cursor.Decode(&document); decodeError != nil {
			return nil, decodeError
		}
		samples = append(samples, toSample(&document))
	}
	if cursorError := cursor.Err(); cursorError != nil {
		return nil, cursorError
	}
	return samples, nil
}

// MaxCurrentAfter 取指定時間後最大的 current 值，沒有資料回 0
func (repository *ConsumptionSampleRepository) MaxCurrentAfter(
	contextValue context.Context,
	after time.Time,
) (_ float64, returnedError error) {

	filter := bson.M{
		"type": string(consumption.SampleCurrent),
		"time": bson.M{"$gt": after.UTC()},
	}
	findOptions := options.FindOne().SetSort(bson.D{{Key: "value", Value: -1}})

	var document model.ConsumptionSample
	if returnedError = repository.collection.FindOne(contextValue, filter, findOptions).Decode(&document); returnedError != nil {
		if errors.Is(returnedError, mongo.ErrNoDocuments) {
			return 0, nil
		}
		return 0, returnedError
	}
	return document.Value, nil
}

func toSample(document *model.ConsumptionSample) consumption.Sample {
	return consumption.Sample{
		Seq:   document.Seq,
		Type:  consumption.SampleType(document.Type),
		Value: document.Value,
		Time:  document.Time,
	}
}
