package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"aihub/internal/core"
	"aihub/internal/service/connector"
	"aihub/internal/telemetry"

	"go.uber.org/zap"
)

const fakeConnectorName core.ConnectorName = "fake"

type fakeConnector struct {
	instance    *connector.InstanceConfig
	promptErr   error
	result      *core.RequestResult
	completion  *core.PromptResponse
	customs     bool
	panicOnCall bool
}

func (f *fakeConnector) Name() core.ConnectorName { return fakeConnectorName }
func (f *fakeConnector) ModelsByPurpose() map[core.Purpose][]string {
	return map[core.Purpose][]string{core.PurposeChat: {f.instance.Model}}
}
func (f *fakeConnector) Unit() core.Unit { return core.UnitToken }
func (f *fakeConnector) PromptData(promptText string, opts *core.RequestOptions) (map[string]any, error) {
	if f.promptErr != nil {
		return nil, f.promptErr
	}
	return map[string]any{"prompt": promptText}, nil
}
func (f *fakeConnector) MakeRequest(ctx context.Context, payload map[string]any, opts *core.RequestOptions) *core.RequestResult {
	if f.panicOnCall {
		panic("connector exploded")
	}
	return f.result
}
func (f *fakeConnector) ExecuteCompletion(raw []byte, opts *core.RequestOptions) *core.PromptResponse {
	return f.completion
}
func (f *fakeConnector) HasCustomValue1() bool               { return f.customs }
func (f *fakeConnector) HasCustomValue2() bool               { return f.customs }
func (f *fakeConnector) Instance() *connector.InstanceConfig { return f.instance }

type fakeRecords struct {
	inserted  []*UsageRecord
	exists    bool
	existsErr error
}

func (f *fakeRecords) Insert(ctx context.Context, record *UsageRecord) error {
	f.inserted = append(f.inserted, record)
	return nil
}

func (f *fakeRecords) Exists(ctx context.Context, component string, contextID int64, itemID string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeRecords) StatsRows(ctx context.Context, since time.Time) ([]StatsRow, error) {
	return nil, nil
}

type emittedEvent struct {
	name    string
	payload map[string]any
}

type fakeEvents struct {
	emitted []emittedEvent
}

func (f *fakeEvents) Emit(ctx context.Context, name string, payload map[string]any) {
	f.emitted = append(f.emitted, emittedEvent{name: name, payload: payload})
}

type mediatorFixture struct {
	*gateFixture
	mediator  *Mediator
	records   *fakeRecords
	events    *fakeEvents
	connector *fakeConnector
}

func newMediatorFixture(t *testing.T) *mediatorFixture {
	t.Helper()

	gateFx := newGateFixture(t)
	gateFx.instances.instance.Connector = fakeConnectorName

	fake := &fakeConnector{
		result:     core.ResultFromResponse([]byte(`{"ok":true}`)),
		completion: core.PromptResponseFromResult("gpt-4o", core.Usage{Value: 10, CustomValue1: 3, CustomValue2: 7}, "hello"),
		customs:    true,
	}

	trace, err := telemetry.NewTrace(nil)
	if err != nil {
		t.Fatalf("NewTrace: %v", err)
	}
	registry := connector.NewRegistry(connector.Deps{Trace: trace})
	registry.Register(fakeConnectorName, func(instance *connector.InstanceConfig, deps connector.Deps) connector.Connector {
		fake.instance = instance
		return fake
	})
	gateFx.gate.registry = registry

	records := &fakeRecords{}
	events := &fakeEvents{}
	factory := NewMediatorFactory(
		gateFx.gate,
		NewLedger(gateFx.usage, gateFx.conf),
		records,
		gateFx.users,
		events,
		gateFx.conf,
		zap.NewNop(),
		trace,
		&telemetry.Metric{},
	)
	mediator, ok := factory.ForPurpose(core.PurposeChat)
	if !ok {
		t.Fatal("chat purpose should exist")
	}

	return &mediatorFixture{
		gateFixture: gateFx,
		mediator:    mediator,
		records:     records,
		events:      events,
		connector:   fake,
	}
}

func (f *mediatorFixture) perform(options map[string]any) *core.PromptResponse {
	return f.mediator.PerformRequest(context.Background(), "u1", "hi there", "forum", 7, options)
}

func TestForPurposeUnknown(t *testing.T) {
	fixture := newMediatorFixture(t)
	factory := &MediatorFactory{
		gate:   fixture.gate,
		logger: zap.NewNop(),
	}
	if _, ok := factory.ForPurpose("definitely-not-a-purpose"); ok {
		t.Error("expected unknown purpose to report false")
	}
	_ = fixture
}

func TestPerformRequestSuccess(t *testing.T) {
	fixture := newMediatorFixture(t)

	result := fixture.perform(nil)
	if result.IsError() {
		t.Fatalf("expected success, got %d %q", result.Code, result.ErrorMessage)
	}
	if result.Content != "hello" {
		t.Errorf("expected content %q, got %q", "hello", result.Content)
	}

	if len(fixture.records.inserted) != 1 {
		t.Fatalf("expected exactly one usage record, got %d", len(fixture.records.inserted))
	}
	record := fixture.records.inserted[0]
	if record.UserID != "u1" || record.Purpose != core.PurposeChat || record.Component != "forum" {
		t.Errorf("unexpected record fields: %+v", record)
	}
	if record.Tenant != "school-a" {
		t.Errorf("record must carry the tenant, got %q", record.Tenant)
	}
	if record.Completion != "hello" {
		t.Errorf("record must carry the completion text, got %q", record.Completion)
	}
	if record.CourseContextID != 7 {
		t.Errorf("record must carry the course context, got %d", record.CourseContextID)
	}
	if record.Value != 10 || record.CustomValue1 != 3 || record.CustomValue2 != 7 {
		t.Errorf("unexpected usage values: %+v", record)
	}

	if fixture.usage.incrementCalls != 1 {
		t.Errorf("expected exactly one increment, got %d", fixture.usage.incrementCalls)
	}
	if fixture.users.ensureCalls != 1 {
		t.Errorf("expected user record ensure, got %d", fixture.users.ensureCalls)
	}

	if len(fixture.events.emitted) != 1 || fixture.events.emitted[0].name != core.EventRequestSucceeded {
		t.Errorf("expected one success event, got %+v", fixture.events.emitted)
	}
}

func TestPerformRequestCustomValuesGated(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.connector.customs = false

	if result := fixture.perform(nil); result.IsError() {
		t.Fatalf("unexpected failure: %+v", result)
	}
	record := fixture.records.inserted[0]
	if record.CustomValue1 != 0 || record.CustomValue2 != 0 {
		t.Errorf("custom values must not be recorded when unsupported: %+v", record)
	}
	if record.Value != 10 {
		t.Errorf("primary value must still be recorded, got %v", record.Value)
	}
}

func TestPerformRequestGateDenialHasNoSideEffects(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.caps.allowed = false

	result := fixture.perform(nil)
	if result.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", result.Code)
	}
	if len(fixture.records.inserted) != 0 || fixture.usage.incrementCalls != 0 {
		t.Error("denied request must not write usage")
	}
	if len(fixture.events.emitted) != 1 || fixture.events.emitted[0].name != core.EventRequestFailed {
		t.Errorf("expected one failure event, got %+v", fixture.events.emitted)
	}
}

// 要求配發新識別碼且撞到既有紀錄時回 409，但完成的請求仍須入帳：
// 稽核紀錄拿掉識別碼寫入，用量照算
func TestPerformRequestForceNewItemIDConflict(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.records.exists = true

	result := fixture.perform(map[string]any{
		core.OptionItemID:         "item-9",
		core.OptionForceNewItemID: true,
	})
	if result.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d %q", result.Code, result.ErrorMessage)
	}

	if len(fixture.records.inserted) != 1 {
		t.Fatalf("conflicting completion must still be recorded, got %d records", len(fixture.records.inserted))
	}
	if fixture.records.inserted[0].ItemID != "" {
		t.Errorf("conflicting record must drop the item id, got %q", fixture.records.inserted[0].ItemID)
	}
	if fixture.usage.incrementCalls != 1 {
		t.Errorf("conflicting completion must still count against the quota, got %d increments", fixture.usage.incrementCalls)
	}

	if len(fixture.events.emitted) != 1 || fixture.events.emitted[0].name != core.EventRequestFailed {
		t.Fatalf("expected failure event, got %+v", fixture.events.emitted)
	}
	if code, _ := fixture.events.emitted[0].payload["code"].(int); code != http.StatusConflict {
		t.Errorf("failure event should carry the conflict code, got %v", fixture.events.emitted[0].payload["code"])
	}
}

// 沒帶 forcenewitemid 時不做重複檢查，同號重送照常成功
func TestPerformRequestItemIDReuseWithoutForce(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.records.exists = true

	result := fixture.perform(map[string]any{core.OptionItemID: "item-9"})
	if result.IsError() {
		t.Fatalf("expected success without forcenewitemid, got %d %q", result.Code, result.ErrorMessage)
	}
	if len(fixture.records.inserted) != 1 {
		t.Fatalf("expected one record, got %d", len(fixture.records.inserted))
	}
	if fixture.records.inserted[0].ItemID != "item-9" {
		t.Errorf("record should keep the item id, got %q", fixture.records.inserted[0].ItemID)
	}
}

func TestPerformRequestForceNewItemIDFreshID(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.records.exists = false

	result := fixture.perform(map[string]any{
		core.OptionItemID:         "item-10",
		core.OptionForceNewItemID: true,
	})
	if result.IsError() {
		t.Fatalf("expected success for unused item id, got %d %q", result.Code, result.ErrorMessage)
	}
	if fixture.records.inserted[0].ItemID != "item-10" {
		t.Errorf("record should keep the fresh item id, got %q", fixture.records.inserted[0].ItemID)
	}
}

func TestPerformRequestItemLookupFailure(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.records.existsErr = errors.New("db down")

	result := fixture.perform(map[string]any{
		core.OptionItemID:         "item-9",
		core.OptionForceNewItemID: true,
	})
	if result.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 on lookup failure, got %d %q", result.Code, result.ErrorMessage)
	}
	if len(fixture.records.inserted) != 0 || fixture.usage.incrementCalls != 0 {
		t.Error("failed lookup must not write usage")
	}
}

func TestPerformRequestPromptDataFailure(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.connector.promptErr = errors.New("missing document option")

	result := fixture.perform(nil)
	if result.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", result.Code)
	}
	if len(fixture.records.inserted) != 0 || fixture.usage.incrementCalls != 0 {
		t.Error("failed request must not write usage")
	}
}

func TestPerformRequestUpstreamFailurePassthrough(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.connector.result = core.ResultFromError(http.StatusBadGateway, "upstream unavailable", "connect refused")

	result := fixture.perform(nil)
	if result.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 passthrough, got %d", result.Code)
	}
	if result.ErrorMessage != "upstream unavailable" {
		t.Errorf("unexpected message %q", result.ErrorMessage)
	}
	if len(fixture.records.inserted) != 0 || fixture.usage.incrementCalls != 0 {
		t.Error("failed request must not write usage")
	}
}

func TestPerformRequestPanicBecomesInternalError(t *testing.T) {
	fixture := newMediatorFixture(t)
	fixture.connector.panicOnCall = true

	result := fixture.perform(nil)
	if result == nil || result.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 from panic, got %+v", result)
	}

	var failures int
	for _, event := range fixture.events.emitted {
		if event.name == core.EventRequestFailed {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("expected one failure event after panic, got %d", failures)
	}
	if len(fixture.records.inserted) != 0 {
		t.Error("panicked request must not write usage")
	}
}

func TestPerformRequestDurationOnlyCoversDispatch(t *testing.T) {
	fixture := newMediatorFixture(t)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	calls := 0
	fixture.mediator.now = func() time.Time {
		calls++
		// 第二次取樣在派送結束：1.234 秒後
		if calls == 2 {
			return base.Add(1234 * time.Millisecond)
		}
		return base
	}

	if result := fixture.perform(nil); result.IsError() {
		t.Fatalf("unexpected failure: %+v", result)
	}
	record := fixture.records.inserted[0]
	if record.Duration != 1.23 {
		t.Errorf("expected duration rounded to 1.23, got %v", record.Duration)
	}
}

func TestRoundDuration(t *testing.T) {
	tests := []struct {
		elapsed time.Duration
		want    float64
	}{
		{0, 0},
		{5 * time.Millisecond, 0.01},
		{1234 * time.Millisecond, 1.23},
		{1235 * time.Millisecond, 1.24},
		{2 * time.Second, 2.0},
	}
	for _, tt := range tests {
		if got := roundDuration(tt.elapsed); got != tt.want {
			t.Errorf("roundDuration(%v) = %v, want %v", tt.elapsed, got, tt.want)
		}
	}
}
