package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"time"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/telemetry"

	"go.uber.org/zap"
)

// Mediator 對單一 purpose 執行完整 mediation 流程：
// 閘門 → 重複項目檢查 → 派送 → 結果正規化 → 記帳與事件。
type Mediator struct {
	purpose core.PurposeDefinition
	gate    *Gate
	ledger  *Ledger
	records UsageRecordStore
	users   UserDirectory
	events  EventSink
	conf    *config.Configuration
	logger  *zap.Logger
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	now     func() time.Time
}

// MediatorFactory 為每個 purpose 產出綁定好的 Mediator
type MediatorFactory struct {
	gate    *Gate
	ledger  *Ledger
	records UsageRecordStore
	users   UserDirectory
	events  EventSink
	conf    *config.Configuration
	logger  *zap.Logger
	trace   *telemetry.Trace
	metric  *telemetry.Metric
}

func NewMediatorFactory(
	gate *Gate,
	ledger *Ledger,
	records UsageRecordStore,
	users UserDirectory,
	events EventSink,
	conf *config.Configuration,
	logger *zap.Logger,
	trace *telemetry.Trace,
	metric *telemetry.Metric,
) *MediatorFactory {
	return &MediatorFactory{
		gate:    gate,
		ledger:  ledger,
		records: records,
		users:   users,
		events:  events,
		conf:    conf,
		logger:  logger,
		trace:   trace,
		metric:  metric,
	}
}

// ForPurpose 取得綁定指定 purpose 的 Mediator，名稱不存在時回報 false
func (f *MediatorFactory) ForPurpose(name core.Purpose) (*Mediator, bool) {
	definition, ok := core.PurposeByName(name)
	if !ok {
		return nil, false
	}
	return &Mediator{
		purpose: definition,
		gate:    f.gate,
		ledger:  f.ledger,
		records: f.records,
		users:   f.users,
		events:  f.events,
		conf:    f.conf,
		logger:  f.logger,
		trace:   f.trace,
		metric:  f.metric,
		now:     func() time.Time { return time.Now().UTC() },
	}, true
}

// PerformRequest 執行一次 mediation；任何 panic 都收斂成 500 結果
func (m *Mediator) PerformRequest(ctx context.Context, userID, promptText, component string, contextID int64, options map[string]any) (result *core.PromptResponse) {
	defer func() {
		if rec := recover(); rec != nil {
			m.logger.Error("mediation panicked",
				zap.String("purpose", string(m.purpose.Name)),
				zap.String("userId", userID),
				zap.Any("panic", rec),
			)
			result = core.PromptResponseFromError(http.StatusInternalServerError, "an internal error occurred while processing the request", fmt.Sprint(rec))
			m.emitFailure(ctx, userID, component, contextID, result)
		}
	}()
	return m.perform(ctx, userID, promptText, component, contextID, options)
}

func (m *Mediator) perform(ctx context.Context, userID, promptText, component string, contextID int64, options map[string]any) *core.PromptResponse {
	admission, denied := m.gate.Admit(ctx, GateInput{
		UserID:    userID,
		Purpose:   m.purpose,
		ContextID: contextID,
		Component: component,
		Options:   options,
	})
	if denied != nil {
		m.countFailure(denied)
		m.emitFailure(ctx, userID, component, contextID, denied)
		return denied
	}
	opts := admission.Options

	payload, err := admission.Connector.PromptData(promptText, opts)
	if err != nil {
		denied := core.PromptResponseFromError(http.StatusBadRequest, err.Error(), "")
		m.countFailure(denied)
		m.emitFailure(ctx, userID, component, contextID, denied)
		return denied
	}

	// 派送，計時只涵蓋上游呼叫
	dispatchCtx := ctx
	if timeout := time.Duration(m.conf.AI.RequestTimeout) * time.Second; timeout > 0 {
		var cancel context.CancelFunc
		dispatchCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	dispatchCtx, _, end := m.trace.WithSpan(dispatchCtx, string(core.SpanDispatch))
	started := m.now()
	requestResult := admission.Connector.MakeRequest(dispatchCtx, payload, opts)
	duration := roundDuration(m.now().Sub(started))
	end(nil)

	if m.metric.DispatchDuration != nil {
		m.metric.DispatchDuration.WithLabelValues(string(admission.Instance.Connector)).Observe(duration)
	}

	if requestResult.Code != 200 {
		failed := core.PromptResponseFromError(requestResult.Code, requestResult.ErrorMessage, requestResult.DebugInfo)
		m.countFailure(failed)
		m.emitFailure(ctx, userID, component, contextID, failed)
		return failed
	}

	completed := admission.Connector.ExecuteCompletion(requestResult.Response, opts)
	if completed.IsError() {
		m.countFailure(completed)
		m.emitFailure(ctx, userID, component, contextID, completed)
		return completed
	}

	// 呼叫端要求配發新識別碼時檢查重複：撞號的完成結果仍入帳稽核
	// （識別碼拿掉），但回覆 409，避免同號競態互相覆寫
	if opts.BoolOption(core.OptionForceNewItemID) {
		if itemID := opts.StringOption(core.OptionItemID, ""); itemID != "" {
			exists, err := m.records.Exists(ctx, component, opts.Context().ID, itemID)
			if err != nil {
				denied := core.PromptResponseFromError(http.StatusInternalServerError, "usage record lookup failed", err.Error())
				m.countFailure(denied)
				m.emitFailure(ctx, userID, component, contextID, denied)
				return denied
			}
			if exists {
				opts.DropOption(core.OptionItemID)
				m.settle(ctx, admission, completed, promptText, component, duration)
				conflict := core.PromptResponseFromError(http.StatusConflict,
					fmt.Sprintf("item id %q is already in use", itemID), "")
				m.countFailure(conflict)
				m.emitFailure(ctx, userID, component, contextID, conflict)
				return conflict
			}
		}
	}

	m.settle(ctx, admission, completed, promptText, component, duration)
	m.emitSuccess(ctx, userID, component, contextID, admission, completed, duration)

	if m.metric.MediationSuccessTotal != nil {
		m.metric.MediationSuccessTotal.
			WithLabelValues(string(m.purpose.Name), string(admission.Instance.Connector)).
			Inc()
	}

	return completed.WithContent(m.purpose.Format(completed.Content))
}

// settle 在請求成功後記錄用量；記帳失敗只進日誌，不推翻已成功的結果
func (m *Mediator) settle(ctx context.Context, admission *Admission, completed *core.PromptResponse, promptText, component string, duration float64) {
	opts := admission.Options
	record := &UsageRecord{
		UserID:          admission.User.ID,
		Tenant:          admission.User.Tenant,
		Purpose:         m.purpose.Name,
		Connector:       admission.Instance.Connector,
		Model:           completed.ModelInfo,
		Prompt:          promptText,
		Completion:      completed.Content,
		Component:       component,
		ContextID:       opts.Context().ID,
		CourseContextID: opts.Context().CourseContextID,
		ItemID:          opts.StringOption(core.OptionItemID, ""),
		Value:           completed.Usage.Value,
		Duration:        duration,
		CreatedAt:       m.now(),
	}
	if admission.Connector.HasCustomValue1() {
		record.CustomValue1 = completed.Usage.CustomValue1
	}
	if admission.Connector.HasCustomValue2() {
		record.CustomValue2 = completed.Usage.CustomValue2
	}
	if err := m.records.Insert(ctx, record); err != nil {
		m.logger.Error("insert usage record failed", zap.Error(err))
	}
	if err := m.users.EnsureExists(ctx, admission.User); err != nil {
		m.logger.Error("ensure user record failed", zap.Error(err))
	}
	if err := m.ledger.Record(ctx, admission.User.ID, m.purpose.Name); err != nil {
		m.logger.Error("record usage window failed", zap.Error(err))
	}
}

func (m *Mediator) emitSuccess(ctx context.Context, userID, component string, contextID int64, admission *Admission, completed *core.PromptResponse, duration float64) {
	m.events.Emit(ctx, core.EventRequestSucceeded, map[string]any{
		"userId":    userID,
		"purpose":   string(m.purpose.Name),
		"component": component,
		"contextId": contextID,
		"connector": string(admission.Instance.Connector),
		"model":     completed.ModelInfo,
		"value":     completed.Usage.Value,
		"duration":  duration,
	})
}

func (m *Mediator) emitFailure(ctx context.Context, userID, component string, contextID int64, failed *core.PromptResponse) {
	m.events.Emit(ctx, core.EventRequestFailed, map[string]any{
		"userId":    userID,
		"purpose":   string(m.purpose.Name),
		"component": component,
		"contextId": contextID,
		"code":      failed.Code,
		"message":   failed.ErrorMessage,
		"debugInfo": failed.DebugInfo,
	})
}

func (m *Mediator) countFailure(failed *core.PromptResponse) {
	if m.metric.MediationFailTotal != nil {
		m.metric.MediationFailTotal.
			WithLabelValues(string(m.purpose.Name), fmt.Sprintf("%d", failed.Code)).
			Inc()
	}
}

// roundDuration 把秒數修整到小數兩位
func roundDuration(elapsed time.Duration) float64 {
	return math.Round(elapsed.Seconds()*100) / 100
}
