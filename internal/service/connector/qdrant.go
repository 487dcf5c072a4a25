package connector

import (
	"context"
	"fmt"
	"net/http"

	"aihub/internal/core"
	"aihub/internal/telemetry"

	"github.com/google/uuid"
)

// Qdrant 以 Qdrant HTTP API 實作向量庫操作
type Qdrant struct {
	VDB
	embedder *Embedder
}

func NewQdrant(instance *InstanceConfig, client *http.Client, trace *telemetry.Trace, embedder *Embedder) *Qdrant {
	connector := &Qdrant{
		VDB:      VDB{base: base{instance: instance, client: client, trace: trace}},
		embedder: embedder,
	}
	connector.VDB.hooks = connector
	return connector
}

func (c *Qdrant) Name() core.ConnectorName {
	return core.ConnectorQdrant
}

func (c *Qdrant) SupportedActions() []core.VDBAction {
	return []core.VDBAction{
		core.VDBActionStore,
		core.VDBActionRetrieve,
		core.VDBActionDelete,
		core.VDBActionUpdate,
	}
}

func (c *Qdrant) collectionURL(suffix string) string {
	endpoint := c.instance.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:6333"
	}
	collection := c.instance.CustomField("collection", c.instance.Name)
	return endpoint + "/collections/" + collection + "/points" + suffix
}

func (c *Qdrant) headers() map[string]string {
	if c.instance.APIKey == "" {
		return nil
	}
	return map[string]string{"api-key": c.instance.APIKey}
}

func (c *Qdrant) DoRequest(ctx context.Context, action core.VDBAction, payload map[string]any) *core.RequestResult {
	switch action {
	case core.VDBActionRetrieve:
		return c.search(ctx, payload)
	case core.VDBActionStore:
		return c.store(ctx, payload)
	case core.VDBActionDelete:
		return c.delete(ctx, payload)
	case core.VDBActionUpdate:
		return c.update(ctx, payload)
	}
	return core.ResultFromError(http.StatusBadRequest, fmt.Sprintf("action %q is not supported", action), "")
}

func (c *Qdrant) search(ctx context.Context, payload map[string]any) *core.RequestResult {
	query, _ := payload["query"].(string)
	vector, err := c.embedder.Embed(ctx, query)
	if err != nil {
		return core.ResultFromError(http.StatusBadGateway, "embed query failed", err.Error())
	}
	body := map[string]any{
		"vector":       vector,
		"limit":        payload["topk"],
		"with_payload": true,
	}
	return c.postJSON(ctx, http.MethodPost, c.collectionURL("/search"), body, c.headers())
}

func (c *Qdrant) store(ctx context.Context, payload map[string]any) *core.RequestResult {
	document, _ := payload["document"].(map[string]any)
	content, _ := document["content"].(string)
	if content == "" {
		return core.ResultFromError(http.StatusBadRequest, "document has no content to index", "")
	}
	vector, err := c.embedder.Embed(ctx, content)
	if err != nil {
		return core.ResultFromError(http.StatusBadGateway, "embed document failed", err.Error())
	}

	// Qdrant 的 point id 只接受 UUID 或整數；用外部 id 衍生出固定 UUID，
	// 同一份文件重複 store 即為覆寫
	id, _ := document["id"].(string)
	if id == "" {
		id = content
	}
	pointID := uuid.NewSHA1(uuid.NameSpaceURL, []byte(id)).String()
	point := map[string]any{
		"id":      pointID,
		"vector":  vector,
		"payload": c.pointPayload(document, payload),
	}
	body := map[string]any{"points": []any{point}}
	return c.postJSON(ctx, http.MethodPut, c.collectionURL(""), body, c.headers())
}

func (c *Qdrant) pointPayload(document, payload map[string]any) map[string]any {
	merged := map[string]any{}
	for key, value := range document {
		merged[key] = value
	}
	if metadata, ok := payload["metadata"].(map[string]any); ok {
		for key, value := range metadata {
			merged[key] = value
		}
	}
	return merged
}

func (c *Qdrant) pointID(payload map[string]any) string {
	id, _ := payload["id"].(string)
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(id)).String()
}

func (c *Qdrant) delete(ctx context.Context, payload map[string]any) *core.RequestResult {
	body := map[string]any{"points": []any{c.pointID(payload)}}
	return c.postJSON(ctx, http.MethodPost, c.collectionURL("/delete"), body, c.headers())
}

func (c *Qdrant) update(ctx context.Context, payload map[string]any) *core.RequestResult {
	body := map[string]any{
		"points":  []any{c.pointID(payload)},
		"payload": payload["metadata"],
	}
	return c.postJSON(ctx, http.MethodPost, c.collectionURL("/payload"), body, c.headers())
}
