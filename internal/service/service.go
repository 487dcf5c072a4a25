package service

import (
	"net/http"

	"aihub/internal/service/connector"
	"aihub/internal/service/consumption"
	"aihub/internal/service/rag"
	"aihub/internal/telemetry"

	"github.com/google/wire"
)

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewHealthService,
	NewGate,
	NewLedger,
	NewMediatorFactory,
	NewStatsService,
	NewSystemDocumentIndex,
	ProvideRestrictionHooks,
	ProvideConnectorRegistry,
	consumption.NewAPIClient,
	consumption.NewTracker,
	rag.NewIndexer,
	wire.Bind(new(consumption.UsageAPI), new(*consumption.APIClient)),
	wire.Bind(new(rag.DocumentIndex), new(*SystemDocumentIndex)),
)

// ProvideRestrictionHooks 目前沒有部署額外的限制掛鉤
func ProvideRestrictionHooks() []RestrictionHook {
	return nil
}

// ProvideConnectorRegistry 以共用的 http client 與快取組出 connector 登錄表
func ProvideConnectorRegistry(
	client *http.Client,
	trace *telemetry.Trace,
	cache connector.EmbeddingCache,
) *connector.Registry {
	return connector.NewRegistry(connector.Deps{
		Client: client,
		Trace:  trace,
		Cache:  cache,
	})
}
