package repository

import (
	"context"
	"errors"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type TenantRepository struct {
	collection *mongo.Collection
}

func NewTenantRepository(mongoClient *client.MongoClient) *TenantRepository {
	repository := &TenantRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionTenants)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *TenantRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetName("idx_name_unique").SetUnique(true),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

func (repository *TenantRepository) get(
	contextValue context.Context,
	tenant string,
) (*model.Tenant, error) {

	var document model.Tenant
	if err := repository.collection.FindOne(contextValue, bson.M{"name": tenant}).Decode(&document); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &document, nil
}

// IsEnabled 租戶是否允許使用；沒有設定文件時預設允許
func (repository *TenantRepository) IsEnabled(
	contextValue context.Context,
	tenant string,
) (_ bool, returnedError error) {

	document, getError := repository.get(contextValue, tenant)
	if getError != nil {
		return false, getError
	}
	if document == nil {
		return true, nil
	}
	return document.Enabled, nil
}

// IsPurposeEnabled purpose 是否對租戶開放；預設開放，僅擋入停用清單者
func (repository *TenantRepository) IsPurposeEnabled(
	contextValue context.Context,
	tenant string,
	purpose core.Purpose,
) (_ bool, returnedError error) {

	document, getError := repository.get(contextValue, tenant)
	if getError != nil {
		return false, getError
	}
	if document == nil {
		return true, nil
	}
	for _, disabled := range document.DisabledPurposes {
		if disabled == purpose {
			return false, nil
		}
	}
	return true, nil
}
