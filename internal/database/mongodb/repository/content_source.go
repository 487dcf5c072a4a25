package repository

import (
	"context"
	"time"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service/rag"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ContentSourceRepository 以 Mongo 的內容區域與文件集合提供索引來源
type ContentSourceRepository struct {
	areas     *mongo.Collection
	documents *mongo.Collection
}

func NewContentSourceRepository(mongoClient *client.MongoClient) *ContentSourceRepository {
	database := mongoClient.Client().Database(string(core.MongoDBAIHub))
	repository := &ContentSourceRepository{
		areas:     database.Collection(string(core.MongoCollectionContentAreas)),
		documents: database.Collection(string(core.MongoCollectionDocuments)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *ContentSourceRepository) ensureIndexes(contextValue context.Context) error {
	_, _ = repository.areas.Indexes().CreateMany(contextValue, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "areaId", Value: 1}},
			Options: options.Index().SetName("idx_areaId_unique").SetUnique(true),
		},
	})
	_, _ = repository.documents.Indexes().CreateMany(contextValue, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "areaId", Value: 1}, {Key: "modifiedAt", Value: 1}},
			Options: options.Index().SetName("idx_areaId_modifiedAt"),
		},
	})
	return nil
}

// EnabledAreas 回傳目前啟用的內容區域
func (repository *ContentSourceRepository) EnabledAreas(
	contextValue context.Context,
) (_ []rag.Area, returnedError error) {

	cursor, findError := repository.areas.Find(
		contextValue,
		bson.M{"enabled": true},
		options.Find().SetSort(bson.D{{Key: "areaId", Value: 1}}),
	)
	if findError != nil {
		return nil, findError
	}
	var documents []model.ContentArea
	if decodeError := cursor.All(contextValue, &documents); decodeError != nil {
		return nil, decodeError
	}

	areas := make([]rag.Area, 0, len(documents))
	for _, document := range documents {
		areas = append(areas, &contentArea{
			areaID:    document.AreaID,
			documents: repository.documents,
		})
	}
	return areas, nil
}

type contentArea struct {
	areaID    string
	documents *mongo.Collection
}

func (area *contentArea) ID() string {
	return area.areaID
}

// FetchChangedSince 依修改時間升冪回傳自 since 之後變動的文件
func (area *contentArea) FetchChangedSince(
	contextValue context.Context,
	since time.Time,
	limit int,
) (_ []rag.Document, returnedError error) {

	cursor, findError := area.documents.Find(
		contextValue,
		bson.M{
			"areaId":     area.areaID,
			"modifiedAt": bson.M{"$gt": since},
		},
		options.Find().
			SetSort(bson.D{{Key: "modifiedAt", Value: 1}}).
			SetLimit(int64(limit)),
	)
	if findError != nil {
		return nil, findError
	}
	var rows []model.ContentDocument
	if decodeError := cursor.All(contextValue, &rows); decodeError != nil {
		return nil, decodeError
	}

	result := make([]rag.Document, 0, len(rows))
	for _, row := range rows {
		result = append(result, rag.Document{
			ID:         row.ID.Hex(),
			Title:      row.Title,
			Content:    row.Content,
			ContextID:  row.ContextID,
			CourseID:   row.CourseID,
			OwnerID:    row.OwnerID,
			ModifiedAt: row.ModifiedAt,
		})
	}
	return result, nil
}
