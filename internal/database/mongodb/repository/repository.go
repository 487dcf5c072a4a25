package repository

import (
	"aihub/internal/service"
	"aihub/internal/service/consumption"
	"aihub/internal/service/rag"

	"github.com/google/wire"
	"go.mongodb.org/mongo-driver/bson"
)

// 統一管理所有 MongoDB repository
type MongoDBRepository struct {
	userRepo              *UserRepository
	tenantRepo            *TenantRepository
	requestContextRepo    *RequestContextRepository
	toolInstanceRepo      *ToolInstanceRepository
	usageRecordRepo       *UsageRecordRepository
	userUsageRepo         *UserUsageRepository
	consumptionSampleRepo *ConsumptionSampleRepository
	indexCheckpointRepo   *IndexCheckpointRepository
	contentSourceRepo     *ContentSourceRepository
}

// 建立 MongoDB repository 物件
func NewMongoDBRepository(
	userRepo *UserRepository,
	tenantRepo *TenantRepository,
	requestContextRepo *RequestContextRepository,
	toolInstanceRepo *ToolInstanceRepository,
	usageRecordRepo *UsageRecordRepository,
	userUsageRepo *UserUsageRepository,
	consumptionSampleRepo *ConsumptionSampleRepository,
	indexCheckpointRepo *IndexCheckpointRepository,
	contentSourceRepo *ContentSourceRepository,
) *MongoDBRepository {
	return &MongoDBRepository{
		userRepo:              userRepo,
		tenantRepo:            tenantRepo,
		requestContextRepo:    requestContextRepo,
		toolInstanceRepo:      toolInstanceRepo,
		usageRecordRepo:       usageRecordRepo,
		userUsageRepo:         userUsageRepo,
		consumptionSampleRepo: consumptionSampleRepo,
		indexCheckpointRepo:   indexCheckpointRepo,
		contentSourceRepo:     contentSourceRepo,
	}
}

// Wire 依賴提供；repository 同時綁定到 service 層的介面
var ProviderSet = wire.NewSet(
	NewUserRepository,
	NewTenantRepository,
	NewRequestContextRepository,
	NewToolInstanceRepository,
	NewUsageRecordRepository,
	NewUserUsageRepository,
	NewConsumptionSampleRepository,
	NewIndexCheckpointRepository,
	NewContentSourceRepository,
	NewMongoDBRepository,
	wire.Bind(new(service.UserDirectory), new(*UserRepository)),
	wire.Bind(new(service.TenantDirectory), new(*TenantRepository)),
	wire.Bind(new(service.ContextResolver), new(*RequestContextRepository)),
	wire.Bind(new(service.CapabilityChecker), new(*RequestContextRepository)),
	wire.Bind(new(service.InstanceResolver), new(*ToolInstanceRepository)),
	wire.Bind(new(service.UsageRecordStore), new(*UsageRecordRepository)),
	wire.Bind(new(service.UserUsageStore), new(*UserUsageRepository)),
	wire.Bind(new(consumption.SampleStore), new(*ConsumptionSampleRepository)),
	wire.Bind(new(rag.CheckpointStore), new(*IndexCheckpointRepository)),
	wire.Bind(new(rag.ContentSource), new(*ContentSourceRepository)),
)

func withUpdatedAt(update bson.M) bson.M {
	// 確保 $currentDate 存在
	currentDate, ok := update["$currentDate"].(bson.M)
	if !ok || currentDate == nil {
		currentDate = bson.M{}
	}
	currentDate["updatedAt"] = true
	update["$currentDate"] = currentDate
	return update
}
