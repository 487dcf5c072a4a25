package repository

import (
	"context"
	"encoding/json"
	"time"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/database/client"
	"aihub/internal/database/fluentd/model"
)

// LogRepository 統一負責發送 Request/Response/Event Log 到 Fluentd
type LogRepository struct {
	fluentdClient *client.FluentdClient
	projectName   string
	version       string
}

func NewLogRepository(config *config.Configuration, client *client.FluentdClient) *LogRepository {
	version := "1.0.0"
	if config.App.Version != "" {
		version = config.App.Version
	}
	return &LogRepository{fluentdClient: client, projectName: config.App.Name, version: version}
}

func (repository *LogRepository) LogRequest(ctx context.Context, req model.RequestLog) error {
	if req.LoggedAt == "" {
		req.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if req.Version == "" {
		req.Version = repository.version
	}
	b, _ := json.Marshal(req)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	err := repository.fluentdClient.Post(ctx, string(core.FluentdRequest), fluentdMessage)
	return err
}

func (repository *LogRepository) LogResponse(ctx context.Context, resp model.ResponseLog) error {
	if resp.LoggedAt == "" {
		resp.LoggedAt = time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC")
	}
	if resp.Version == "" {
		resp.Version = repository.version
	}
	b, _ := json.Marshal(resp)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	err := repository.fluentdClient.Post(ctx, string(core.FluentdResponse), fluentdMessage)
	return err
}

// Emit 發送 mediation 事件，失敗只能吞掉，不回壓主流程
func (repository *LogRepository) Emit(ctx context.Context, name string, payload map[string]any) {
	event := model.AIEventLog{
		Event:       name,
		ProjectName: repository.projectName,
		Payload:     payload,
		Version:     repository.version,
		LoggedAt:    time.Now().UTC().Format("2006-01-02 15:04:05.999999 UTC"),
	}
	b, _ := json.Marshal(event)
	var fluentdMessage map[string]any
	_ = json.Unmarshal(b, &fluentdMessage)
	_ = repository.fluentdClient.Post(ctx, string(core.FluentdAIEvent), fluentdMessage)
}
