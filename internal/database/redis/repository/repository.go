package repository

import (
	"aihub/internal/service/connector"

	"github.com/google/wire"
)

// 統一管理所有 Redis repository
type RedisRepository struct {
	embeddingCacheRepo *EmbeddingCacheRepository
}

// 建立 Redis repository 物件
func NewRedisRepository(
	embeddingCacheRepo *EmbeddingCacheRepository,
) *RedisRepository {
	return &RedisRepository{
		embeddingCacheRepo: embeddingCacheRepo,
	}
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewEmbeddingCacheRepository,
	NewRedisRepository,
	wire.Bind(new(connector.EmbeddingCache), new(*EmbeddingCacheRepository)),
)
