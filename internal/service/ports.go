package service

import (
	"context"
	"errors"
	"time"

	"aihub/internal/core"
	"aihub/internal/service/connector"
)

// ErrContextNotFound 請求情境不存在
var ErrContextNotFound = errors.New("context not found")

// UserInfo 閘門檢查所需的使用者狀態快照
type UserInfo struct {
	ID        string
	Tenant    string
	Role      core.Role
	Scope     core.Scope
	Locked    bool
	Confirmed bool
}

// UserDirectory 使用者目錄
type UserDirectory interface {
	Get(ctx context.Context, userID string) (*UserInfo, error)
	// EnsureExists 補建使用者紀錄，已存在時只更新最近使用時間
	EnsureExists(ctx context.Context, info *UserInfo) error
	// Confirm 記錄使用者已確認使用條款
	Confirm(ctx context.Context, userID string) error
}

// TenantDirectory 租戶狀態與各 purpose 的啟用設定
type TenantDirectory interface {
	IsEnabled(ctx context.Context, tenant string) (bool, error)
	IsPurposeEnabled(ctx context.Context, tenant string, purpose core.Purpose) (bool, error)
}

// CapabilityChecker 權限查核
type CapabilityChecker interface {
	HasCapability(ctx context.Context, userID string, capability core.Capability, contextID int64) (bool, error)
}

// ContextResolver 解析請求情境，0 視為系統情境
type ContextResolver interface {
	Resolve(ctx context.Context, contextID int64) (*core.RequestContext, error)
}

// InstanceResolver 依用途與角色挑選工具實例
type InstanceResolver interface {
	Resolve(ctx context.Context, purpose core.Purpose, role core.Role) (*connector.InstanceConfig, error)
}

// UsageWindow 使用者在當前視窗內的用量
type UsageWindow struct {
	Count       int64
	WindowStart time.Time
}

// UserUsageStore 視窗用量帳本
type UserUsageStore interface {
	Window(ctx context.Context, userID string, purpose core.Purpose) (*UsageWindow, error)
	ResetWindow(ctx context.Context, userID string, purpose core.Purpose, start time.Time) error
	// Increment 原子遞增，回傳遞增後的計數
	Increment(ctx context.Context, userID string, purpose core.Purpose) (int64, error)
}

// UsageRecord 單次成功請求的用量紀錄
type UsageRecord struct {
	UserID          string
	Tenant          string
	Purpose         core.Purpose
	Connector       core.ConnectorName
	Model           string
	Prompt          string
	Completion      string
	Component       string
	ContextID       int64
	CourseContextID int64
	ItemID          string
	Value           float64
	CustomValue1    float64
	CustomValue2    float64
	Duration        float64
	CreatedAt       time.Time
}

// StatsRow 管理端統計列
type StatsRow struct {
	Purpose   core.Purpose `json:"purpose"`
	Connector string       `json:"connector"`
	Model     string       `json:"model"`
	Requests  int64        `json:"requests"`
	Value     float64      `json:"value"`
}

// UsageRecordStore 用量紀錄儲存
type UsageRecordStore interface {
	Insert(ctx context.Context, record *UsageRecord) error
	// Exists 檢查同 component/context 下的項目識別碼是否已被使用
	Exists(ctx context.Context, component string, contextID int64, itemID string) (bool, error)
	StatsRows(ctx context.Context, since time.Time) ([]StatsRow, error)
}

// EventSink 事件紀錄，失敗不影響主流程
type EventSink interface {
	Emit(ctx context.Context, name string, payload map[string]any)
}

// RestrictionDecision 外掛限制點的裁決
type RestrictionDecision struct {
	Allowed   bool
	Code      int
	Message   string
	DebugInfo string
}

// RestrictionHook 部署方可注掛的額外限制點
type RestrictionHook interface {
	Evaluate(ctx context.Context, user *UserInfo, opts *core.RequestOptions) RestrictionDecision
}
