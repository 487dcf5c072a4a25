package connector

import (
	"context"
	"net/http"
	"testing"

	"aihub/internal/core"
)

// stubVDB 只支援部分操作，並記錄實際發出的請求
type stubVDBHooks struct {
	supported []core.VDBAction
	requests  []core.VDBAction
}

func (s *stubVDBHooks) SupportedActions() []core.VDBAction {
	return s.supported
}

func (s *stubVDBHooks) DoRequest(ctx context.Context, action core.VDBAction, payload map[string]any) *core.RequestResult {
	s.requests = append(s.requests, action)
	return core.ResultFromResponse([]byte(`{"hits":[]}`))
}

func newTestVDB(t *testing.T, supported ...core.VDBAction) (*VDB, *stubVDBHooks) {
	t.Helper()
	hooks := &stubVDBHooks{supported: supported}
	vdb := &VDB{
		base:  base{instance: &InstanceConfig{Name: "vec", Model: "qdrant"}, client: http.DefaultClient, trace: testTrace(t)},
		hooks: hooks,
	}
	return vdb, hooks
}

func ragOptions(t *testing.T, options map[string]any) *core.RequestOptions {
	t.Helper()
	purpose, ok := core.PurposeByName(core.PurposeRAG)
	if !ok {
		t.Fatal("rag purpose missing")
	}
	opts := core.NewRequestOptions(purpose, core.RequestContext{ID: 1}, "indexer", options)
	if err := opts.Sanitize(); err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	return opts
}

func TestVDBRetrieveDefaults(t *testing.T) {
	vdb, _ := newTestVDB(t, core.VDBActionRetrieve)

	payload, err := vdb.PromptData("find me things", ragOptions(t, nil))
	if err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if payload["query"] != "find me things" {
		t.Errorf("query missing: %v", payload)
	}
	if payload["topk"] != 5 {
		t.Errorf("default topk should be 5, got %v", payload["topk"])
	}
}

func TestVDBRetrieveCustomTopK(t *testing.T) {
	vdb, _ := newTestVDB(t, core.VDBActionRetrieve)

	payload, err := vdb.PromptData("q", ragOptions(t, map[string]any{core.OptionTopK: 12}))
	if err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if payload["topk"] != 12 {
		t.Errorf("topk = %v, want 12", payload["topk"])
	}
}

func TestVDBStoreRequiresDocument(t *testing.T) {
	vdb, _ := newTestVDB(t, core.VDBActionStore)

	opts := ragOptions(t, map[string]any{core.OptionAction: string(core.VDBActionStore)})
	if _, err := vdb.PromptData("", opts); err == nil {
		t.Error("store without document must fail")
	}

	opts = ragOptions(t, map[string]any{
		core.OptionAction:   string(core.VDBActionStore),
		core.OptionDocument: map[string]any{"title": "note", "content": "text"},
		core.OptionMetadata: map[string]any{"courseId": float64(3)},
	})
	payload, err := vdb.PromptData("", opts)
	if err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if payload["document"] == nil || payload["metadata"] == nil {
		t.Errorf("store payload incomplete: %v", payload)
	}
}

func TestVDBDeleteRequiresID(t *testing.T) {
	vdb, _ := newTestVDB(t, core.VDBActionDelete)

	opts := ragOptions(t, map[string]any{core.OptionAction: string(core.VDBActionDelete)})
	if _, err := vdb.PromptData("", opts); err == nil {
		t.Error("delete without id must fail")
	}

	opts = ragOptions(t, map[string]any{
		core.OptionAction:   string(core.VDBActionDelete),
		core.OptionRecordID: "doc-1",
	})
	payload, err := vdb.PromptData("", opts)
	if err != nil {
		t.Fatalf("PromptData: %v", err)
	}
	if payload["id"] != "doc-1" {
		t.Errorf("id missing from payload: %v", payload)
	}
}

// 不支援的操作在組 payload 時即拒絕，不會出網
func TestVDBUnsupportedActionRejectedBeforeNetwork(t *testing.T) {
	vdb, hooks := newTestVDB(t, core.VDBActionRetrieve)

	opts := ragOptions(t, map[string]any{core.OptionAction: string(core.VDBActionDelete)})
	if _, err := vdb.PromptData("", opts); err == nil {
		t.Error("unsupported action must be rejected")
	}
	if len(hooks.requests) != 0 {
		t.Errorf("no request must be issued, got %v", hooks.requests)
	}
}

func TestVDBMakeRequestGuardsAction(t *testing.T) {
	vdb, hooks := newTestVDB(t, core.VDBActionRetrieve)

	result := vdb.MakeRequest(context.Background(), map[string]any{core.OptionAction: "update"}, ragOptions(t, nil))
	if result.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unsupported action, got %d", result.Code)
	}
	if len(hooks.requests) != 0 {
		t.Errorf("no request must be issued, got %v", hooks.requests)
	}

	result = vdb.MakeRequest(context.Background(), map[string]any{core.OptionAction: "retrieve"}, ragOptions(t, nil))
	if result.Code != 200 || len(hooks.requests) != 1 {
		t.Errorf("supported action should dispatch, got code=%d requests=%v", result.Code, hooks.requests)
	}
}

func TestVDBExecuteCompletionCountsOnce(t *testing.T) {
	vdb, _ := newTestVDB(t, core.VDBActionRetrieve)

	result := vdb.ExecuteCompletion([]byte(`{"hits":[]}`), ragOptions(t, nil))
	if result.IsError() {
		t.Fatalf("unexpected error: %+v", result)
	}
	if result.Usage.Value != 1 {
		t.Errorf("vdb usage must count one request, got %v", result.Usage.Value)
	}
	if result.Content != `{"hits":[]}` {
		t.Errorf("content should carry raw response, got %q", result.Content)
	}
}
