package repository

import (
	"context"
	"time"

	"aihub/internal/core"
	client "aihub/internal/database/client"
	"aihub/internal/database/mongodb/model"
	"aihub/internal/service"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type UserRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(mongoClient *client.MongoClient) *UserRepository {
	repository := &UserRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBAIHub)).Collection(string(core.MongoCollectionUsers)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *UserRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // 外部使用者 ID 唯一
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index().SetName("idx_userId_unique").SetUnique(true),
		},
		{ // 租戶查詢
			Keys:    bson.D{{Key: "tenant", Value: 1}},
			Options: options.Index().SetName("idx_tenant"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Get 讀取使用者狀態快照
func (repository *UserRepository) Get(
	contextValue context.Context,
	userID string,
) (_ *service.UserInfo, returnedError error) {

	var user model.User
	if returnedError = repository.collection.FindOne(contextValue, bson.M{"userId": userID}).Decode(&user); returnedError != nil {
		return nil, returnedError
	}
	return &service.UserInfo{
		ID:        user.UserID,
		Tenant:    user.Tenant,
		Role:      user.Role,
		Scope:     user.Scope,
		Locked:    user.Locked,
		Confirmed: user.Confirmed,
	}, nil
}

// EnsureExists 補建使用者紀錄；已存在時只更新最近使用時間。
// 新紀錄套預設：basic 角色、everywhere 範圍、未鎖定。
func (repository *UserRepository) EnsureExists(
	contextValue context.Context,
	info *service.UserInfo,
) (returnedError error) {

	nowUTC := time.Now().UTC()
	role := info.Role
	if role == "" {
		role = core.RoleBasic
	}
	scope := info.Scope
	if scope == "" {
		scope = core.ScopeEverywhere
	}

	filter := bson.M{"userId": info.ID}
	update := bson.M{
		"$set": bson.M{"lastUsed": nowUTC},
		"$setOnInsert": bson.M{
			"userId":    info.ID,
			"tenant":    info.Tenant,
			"role":      role,
			"scope":     scope,
			"locked":    info.Locked,
			"confirmed": info.Confirmed,
			"firstUsed": nowUTC,
			"createdAt": nowUTC,
		},
	}
	_, returnedError = repository.collection.UpdateOne(contextValue, filter, withUpdatedAt(update), options.Update().SetUpsert(true))
	return returnedError
}

// Confirm 記錄使用者已確認使用條款
func (repository *UserRepository) Confirm(
	contextValue context.Context,
	userID string,
) (returnedError error) {

	update := bson.M{"$set": bson.M{"confirmed": true}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"userId": userID}, withUpdatedAt(update))
	if updateError != nil {
		return updateError
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SetLocked 管理端鎖定或解鎖使用者
func (repository *UserRepository) SetLocked(
	contextValue context.Context,
	userID string,
	locked bool,
) (_ int64, returnedError error) {

	update := bson.M{"$set": bson.M{"locked": locked}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"userId": userID}, withUpdatedAt(update))
	if updateError != nil {
		return 0, updateError
	}
	return result.MatchedCount, nil
}

// SetRole 管理端調整使用者角色
func (repository *UserRepository) SetRole(
	contextValue context.Context,
	userID string,
	role core.Role,
) (_ int64, returnedError error) {

	update := bson.M{"$set": bson.M{"role": role}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"userId": userID}, withUpdatedAt(update))
	if updateError != nil {
		return 0, updateError
	}
	return result.MatchedCount, nil
}
