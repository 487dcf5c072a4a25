package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/service/connector"
	"aihub/internal/telemetry"
)

// GateInput 是一次請求進入閘門的全部輸入
type GateInput struct {
	UserID    string
	Purpose   core.PurposeDefinition
	ContextID int64
	Component string
	Options   map[string]any
}

// Admission 是通過閘門後的放行結果，後續派送直接取用
type Admission struct {
	User      *UserInfo
	Instance  *connector.InstanceConfig
	Connector connector.Connector
	Options   *core.RequestOptions
}

// Gate 依固定順序執行所有前置檢查，全程只讀不落任何狀態。
// 檢查順序即回應優先序：先擋的錯誤先回。
type Gate struct {
	conf         *config.Configuration
	contexts     ContextResolver
	users        UserDirectory
	tenants      TenantDirectory
	capabilities CapabilityChecker
	instances    InstanceResolver
	usage        UserUsageStore
	registry     *connector.Registry
	hooks        []RestrictionHook
	trace        *telemetry.Trace
	now          func() time.Time
}

func NewGate(
	conf *config.Configuration,
	contexts ContextResolver,
	users UserDirectory,
	tenants TenantDirectory,
	capabilities CapabilityChecker,
	instances InstanceResolver,
	usage UserUsageStore,
	registry *connector.Registry,
	hooks []RestrictionHook,
	trace *telemetry.Trace,
) *Gate {
	return &Gate{
		conf:         conf,
		contexts:     contexts,
		users:        users,
		tenants:      tenants,
		capabilities: capabilities,
		instances:    instances,
		usage:        usage,
		registry:     registry,
		hooks:        hooks,
		trace:        trace,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

func deny(code int, message string) *core.PromptResponse {
	return core.PromptResponseFromError(code, message, "")
}

// Admit 執行閘門檢查，拒絕時回傳帶錯誤碼的結果，放行時回傳 Admission
func (g *Gate) Admit(ctx context.Context, input GateInput) (*Admission, *core.PromptResponse) {
	ctx, _, end := g.trace.WithSpan(ctx, string(core.SpanPolicyGate))
	defer end(nil)

	// 1. 解析請求情境
	requestContext, err := g.contexts.Resolve(ctx, input.ContextID)
	if err != nil {
		if errors.Is(err, ErrContextNotFound) {
			return nil, deny(http.StatusBadRequest, "request context could not be resolved")
		}
		return nil, deny(http.StatusInternalServerError, "context lookup failed")
	}

	// 2. 權限查核
	allowed, err := g.capabilities.HasCapability(ctx, input.UserID, core.CapabilityUse, requestContext.ID)
	if err != nil {
		return nil, deny(http.StatusInternalServerError, "capability lookup failed")
	}
	if !allowed {
		return nil, deny(http.StatusForbidden, "you are not allowed to use this service")
	}

	// 3. 選項檢查，任一不合法即整包拒絕
	opts := core.NewRequestOptions(input.Purpose, *requestContext, input.Component, input.Options)
	if err := opts.Sanitize(); err != nil {
		return nil, deny(http.StatusBadRequest, err.Error())
	}

	user, err := g.users.Get(ctx, input.UserID)
	if err != nil {
		return nil, deny(http.StatusInternalServerError, "user lookup failed")
	}

	// 4. 租戶必須啟用
	tenantEnabled, err := g.tenants.IsEnabled(ctx, user.Tenant)
	if err != nil {
		return nil, deny(http.StatusInternalServerError, "tenant lookup failed")
	}
	if !tenantEnabled {
		return nil, deny(http.StatusForbidden, "your tenant is not allowed to use this service")
	}

	// 5. 鎖定的使用者
	if user.Locked {
		return nil, deny(http.StatusForbidden, "your account is locked")
	}

	// 6. 必須有設定好的工具實例
	instance, err := g.instances.Resolve(ctx, input.Purpose.Name, user.Role)
	if err != nil {
		return nil, deny(http.StatusInternalServerError, "instance lookup failed")
	}
	if instance == nil {
		return nil, deny(http.StatusForbidden, "no tool instance is configured for this purpose")
	}

	// 7. 有設定但停用的實例回報停用，與未設定區分
	if !instance.Enabled {
		return nil, deny(http.StatusForbidden, "the tool instance for this purpose is currently disabled")
	}

	// purpose 也可以在租戶層級整個關掉
	purposeEnabled, err := g.tenants.IsPurposeEnabled(ctx, user.Tenant, input.Purpose.Name)
	if err != nil {
		return nil, deny(http.StatusInternalServerError, "tenant purpose lookup failed")
	}
	if !purposeEnabled {
		return nil, deny(http.StatusForbidden, "this purpose is currently disabled")
	}

	// 8. 使用者須先確認使用條款
	if !user.Confirmed {
		return nil, deny(http.StatusForbidden, "you have not confirmed the terms of use")
	}

	// 9. coursesonly 範圍僅能在 course 情境下使用
	if user.Scope == core.ScopeCoursesOnly && requestContext.CourseContextID == 0 {
		return nil, deny(http.StatusForbidden, "you are only allowed to use this service inside courses")
	}

	// 10. 部署方限制點
	for _, hook := range g.hooks {
		decision := hook.Evaluate(ctx, user, opts)
		if !decision.Allowed {
			return nil, core.PromptResponseFromError(decision.Code, decision.Message, decision.DebugInfo)
		}
	}

	// 配額對 unlimited 角色不套用
	if user.Role != core.RoleUnlimited {
		limit := g.maxRequests(input.Purpose.Name, user.Role)

		// 11. 上限設 0 表示此 purpose 對該角色封鎖
		if limit == 0 {
			return nil, deny(http.StatusForbidden, "requests for this purpose are disabled for your role")
		}

		// 12. 視窗配額
		if limit > 0 {
			window, err := g.usage.Window(ctx, input.UserID, input.Purpose.Name)
			if err != nil {
				return nil, deny(http.StatusInternalServerError, "usage lookup failed")
			}
			if window != nil && g.windowActive(window) && window.Count >= limit {
				period := time.Duration(g.conf.AI.MaxRequestsPeriod) * time.Second
				return nil, deny(http.StatusTooManyRequests,
					fmt.Sprintf("you have reached the maximum number of requests, try again in %s", period))
			}
		}
	}

	connectorImpl, err := g.registry.New(instance)
	if err != nil {
		return nil, deny(http.StatusInternalServerError, "connector construction failed")
	}

	return &Admission{
		User:      user,
		Instance:  instance,
		Connector: connectorImpl,
		Options:   opts,
	}, nil
}

// maxRequests 查 purpose 與角色的視窗上限；未設定視為不限
func (g *Gate) maxRequests(purpose core.Purpose, role core.Role) int64 {
	byRole, ok := g.conf.AI.MaxRequests[string(purpose)]
	if !ok {
		return -1
	}
	limit, ok := byRole[string(role)]
	if !ok {
		return -1
	}
	return limit
}

// windowActive 判斷用量視窗是否尚未過期；過期的視窗計數視同歸零
func (g *Gate) windowActive(window *UsageWindow) bool {
	period := time.Duration(g.conf.AI.MaxRequestsPeriod) * time.Second
	if period <= 0 {
		return true
	}
	return g.now().Sub(window.WindowStart) < period
}
