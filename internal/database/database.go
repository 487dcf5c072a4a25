package database

import (
	client "aihub/internal/database/client"
	fluentdRepo "aihub/internal/database/fluentd/repository"
	mongoRepo "aihub/internal/database/mongodb/repository"
	redisRepo "aihub/internal/database/redis/repository"

	"github.com/google/wire"
)

// ProviderSet 定義所有 DB Client 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)
