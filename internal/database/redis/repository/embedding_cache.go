package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	client "aihub/internal/database/client"
	"aihub/internal/telemetry"

	"github.com/redis/go-redis/v9"
)

// 向量快取存活時間；模型不變時相同內容的向量不會變
const embeddingCacheTTL = 7 * 24 * time.Hour

type EmbeddingCacheRepository struct {
	trace  *telemetry.Trace
	client *redis.Client
}

func NewEmbeddingCacheRepository(trace *telemetry.Trace, client *client.RedisClient) *EmbeddingCacheRepository {
	return &EmbeddingCacheRepository{trace: trace, client: client.Client()}
}

// Get 讀取快取向量；miss 回 (nil, false, nil)
func (repository *EmbeddingCacheRepository) Get(
	contextValue context.Context,
	key string,
) (vector []float64, found bool, returnedError error) {

	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	raw, getError := repository.client.Get(contextValue, key).Bytes()
	if getError != nil {
		if errors.Is(getError, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, getError
	}

	if unmarshalError := json.Unmarshal(raw, &vector); unmarshalError != nil {
		// 壞資料當 miss 處理並順手清掉
		_ = repository.client.Del(contextValue, key).Err()
		return nil, false, nil
	}
	return vector, true, nil
}

// Set 寫入快取向量
func (repository *EmbeddingCacheRepository) Set(
	contextValue context.Context,
	key string,
	vector []float64,
) (returnedError error) {

	contextValue, _, endSpan := repository.trace.WithSpan(contextValue)
	defer func() {
		endSpan(returnedError)
	}()

	raw, marshalError := json.Marshal(vector)
	if marshalError != nil {
		return marshalError
	}
	return repository.client.Set(contextValue, key, raw, embeddingCacheTTL).Err()
}
