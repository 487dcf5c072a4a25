package connector

import (
	"fmt"
	"net/http"

	"aihub/internal/core"
	"aihub/internal/telemetry"
)

// Deps 是構造 connector 的共用依賴
type Deps struct {
	Client *http.Client
	Trace  *telemetry.Trace
	Cache  EmbeddingCache
}

// Factory 依實例設定構造 connector
type Factory func(instance *InstanceConfig, deps Deps) Connector

// Registry 以名稱查表構造 connector，啟動時註冊完成後只讀
type Registry struct {
	deps      Deps
	factories map[core.ConnectorName]Factory
}

func NewRegistry(deps Deps) *Registry {
	registry := &Registry{
		deps:      deps,
		factories: map[core.ConnectorName]Factory{},
	}
	registry.Register(core.ConnectorOpenAI, func(instance *InstanceConfig, deps Deps) Connector {
		return NewOpenAI(instance, deps.Client, deps.Trace)
	})
	registry.Register(core.ConnectorOpenAIImage, func(instance *InstanceConfig, deps Deps) Connector {
		return NewOpenAIImage(instance, deps.Client, deps.Trace)
	})
	registry.Register(core.ConnectorGateway, func(instance *InstanceConfig, deps Deps) Connector {
		return NewGateway(instance, deps.Client, deps.Trace)
	})
	registry.Register(core.ConnectorQdrant, func(instance *InstanceConfig, deps Deps) Connector {
		embedding := &InstanceConfig{
			Name:      instance.Name + " embedder",
			Connector: core.ConnectorOpenAI,
			Model:     instance.CustomField("embedding_model", "text-embedding-3-small"),
			APIKey:    instance.CustomField("embedding_api_key", instance.APIKey),
			Endpoint:  instance.CustomField("embedding_endpoint", ""),
		}
		embedder := NewEmbedder(embedding, deps.Client, deps.Trace, deps.Cache)
		return NewQdrant(instance, deps.Client, deps.Trace, embedder)
	})
	return registry
}

func (r *Registry) Register(name core.ConnectorName, factory Factory) {
	r.factories[name] = factory
}

// New 依實例設定構造 connector，未知名稱回錯誤
func (r *Registry) New(instance *InstanceConfig) (Connector, error) {
	factory, ok := r.factories[instance.Connector]
	if !ok {
		return nil, fmt.Errorf("unknown connector %q", instance.Connector)
	}
	return factory(instance, r.deps), nil
}

// Names 列出已註冊的 connector 名稱
func (r *Registry) Names() []core.ConnectorName {
	names := make([]core.ConnectorName, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	return names
}
