package core

// MongoDatabaseName defines the database instance names
type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBAIHub MongoDatabaseName = "aihub"
)

// MongoDB collections
const (
	MongoCollectionToolInstances      MongoCollection = "ai_tool_instances"
	MongoCollectionUsageRecords       MongoCollection = "ai_usage_records"
	MongoCollectionUserUsage          MongoCollection = "ai_user_usage"
	MongoCollectionConsumptionSamples MongoCollection = "ai_consumption_samples"
	MongoCollectionUsers              MongoCollection = "ai_users"
	MongoCollectionTenants            MongoCollection = "ai_tenants"
	MongoCollectionContexts           MongoCollection = "ai_contexts"
	MongoCollectionIndexCheckpoints   MongoCollection = "ai_index_checkpoints"
	MongoCollectionContentAreas       MongoCollection = "ai_content_areas"
	MongoCollectionDocuments          MongoCollection = "ai_documents"
	MongoCollectionCounters           MongoCollection = "ai_counters"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyEmbeddingCache RedisKey = "embedding_cache" // 以內容 digest 為鍵的 embedding 快取
	RedisKeyServerName     RedisKey = "aihub"
)

// ─── Fluentd ───────────────────────────────────────────────────────────────────

const (
	FluentdRequest  FluentdSubTag = "aihub_request_log"
	FluentdResponse FluentdSubTag = "aihub_response_log"
	FluentdAIEvent  FluentdSubTag = "aihub_event_log"
)

// 事件名稱（request mediation 的成敗通知）
const (
	EventRequestSucceeded = "ai_request_succeeded"
	EventRequestFailed    = "ai_request_failed"
)
