package connector

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"aihub/internal/core"
	"aihub/internal/telemetry"
	"aihub/utils/digest"
)

// EmbeddingCache 快取向量化結果，鍵為內容摘要
type EmbeddingCache interface {
	Get(ctx context.Context, key string) ([]float64, bool, error)
	Set(ctx context.Context, key string, vector []float64) error
}

// Embedder 呼叫 embeddings API，相同內容命中快取時不再出網
type Embedder struct {
	base
	cache EmbeddingCache
}

func NewEmbedder(instance *InstanceConfig, client *http.Client, trace *telemetry.Trace, cache EmbeddingCache) *Embedder {
	return &Embedder{base: base{instance: instance, client: client, trace: trace}, cache: cache}
}

type embeddingResponse struct {
	Data []struct {
		Embedding []float64 `json:"embedding"`
	} `json:"data"`
	Usage struct {
		TotalTokens float64 `json:"total_tokens"`
	} `json:"usage"`
}

// Embed 取文字向量；快取讀寫失敗不阻斷主流程
func (e *Embedder) Embed(ctx context.Context, text string) ([]float64, error) {
	key := digest.Content(string(core.RedisKeyEmbeddingCache), e.instance.Model, text)
	if e.cache != nil {
		if vector, ok, err := e.cache.Get(ctx, key); err == nil && ok {
			return vector, nil
		}
	}

	url := e.instance.Endpoint
	if url == "" {
		url = core.OpenAIAPIBaseURL + "/v1" + string(core.OpenAIEmbeddingEndpoint)
	}
	payload := map[string]any{
		"model": e.instance.Model,
		"input": text,
	}
	result := e.postJSON(ctx, http.MethodPost, url, payload, bearerHeaders(e.instance.APIKey))
	if result.Code != 200 {
		return nil, fmt.Errorf("embedding request failed (%d): %s", result.Code, result.ErrorMessage)
	}

	var parsed embeddingResponse
	if err := json.Unmarshal(result.Response, &parsed); err != nil {
		return nil, fmt.Errorf("decode embedding response failed: %w", err)
	}
	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("embedding response has no data")
	}

	vector := parsed.Data[0].Embedding
	if e.cache != nil {
		_ = e.cache.Set(ctx, key, vector)
	}
	return vector, nil
}
