package service

import (
	"context"
	"testing"
	"time"

	"aihub/internal/core"
	"aihub/internal/service/connector"
	"aihub/internal/service/rag"
	"aihub/internal/telemetry"

	"go.uber.org/zap"
)

type indexingFixture struct {
	*gateFixture
	index   *SystemDocumentIndex
	factory *MediatorFactory
	records *fakeRecords
	events  *fakeEvents
}

func newIndexingFixture(t *testing.T) *indexingFixture {
	t.Helper()

	gateFx := newGateFixture(t)
	gateFx.instances.instance.Connector = fakeConnectorName
	gateFx.users.user.ID = "system"

	fake := &fakeConnector{
		result:     core.ResultFromResponse([]byte(`{"ok":true}`)),
		completion: core.PromptResponseFromResult("qdrant", core.Usage{Value: 1}, "stored"),
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

	return &indexingFixture{
		gateFixture: gateFx,
		index:       NewSystemDocumentIndex(factory, gateFx.conf),
		factory:     factory,
		records:     records,
		events:      events,
	}
}

func testDocument() *rag.Document {
	return &rag.Document{
		ID:         "doc-1",
		Title:      "course syllabus",
		Content:    "week one covers vectors",
		ContextID:  7,
		CourseID:   3,
		OwnerID:    "u1",
		ModifiedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

// 背景索引與使用者請求走同一條 mediation 路徑：記帳、事件、配額缺一不可
func TestSystemIndexGoesThroughMediation(t *testing.T) {
	fixture := newIndexingFixture(t)

	if err := fixture.index.IndexDocument(context.Background(), testDocument()); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}

	if len(fixture.records.inserted) != 1 {
		t.Fatalf("expected one usage record, got %d", len(fixture.records.inserted))
	}
	record := fixture.records.inserted[0]
	if record.Purpose != core.PurposeRAG {
		t.Errorf("record purpose = %q, want %q", record.Purpose, core.PurposeRAG)
	}
	if record.Component != systemIndexComponent {
		t.Errorf("record component = %q, want %q", record.Component, systemIndexComponent)
	}
	if record.UserID != "system" {
		t.Errorf("record user = %q, want the system identity", record.UserID)
	}
	if fixture.usage.incrementCalls != 1 {
		t.Errorf("store dispatch must count against the quota, got %d increments", fixture.usage.incrementCalls)
	}
	if len(fixture.events.emitted) != 1 || fixture.events.emitted[0].name != core.EventRequestSucceeded {
		t.Errorf("expected one success event, got %+v", fixture.events.emitted)
	}
}

func TestSystemIndexConfiguredIdentity(t *testing.T) {
	fixture := newIndexingFixture(t)
	fixture.conf.AI.SystemUserID = "svc-indexer"
	fixture.users.user.ID = "svc-indexer"
	index := NewSystemDocumentIndex(fixture.factory, fixture.conf)

	if err := index.IndexDocument(context.Background(), testDocument()); err != nil {
		t.Fatalf("IndexDocument: %v", err)
	}
	if fixture.records.inserted[0].UserID != "svc-indexer" {
		t.Errorf("record user = %q, want svc-indexer", fixture.records.inserted[0].UserID)
	}
}

func TestSystemIndexGateDenialSurfacesError(t *testing.T) {
	fixture := newIndexingFixture(t)
	fixture.caps.allowed = false

	if err := fixture.index.IndexDocument(context.Background(), testDocument()); err == nil {
		t.Fatal("denied store dispatch must return an error")
	}
	if len(fixture.records.inserted) != 0 {
		t.Error("denied store dispatch must not write usage")
	}
}
