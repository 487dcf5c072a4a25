package connector

import (
	"context"
	"fmt"
	"net/http"

	"aihub/internal/core"
)

// VDBHooks 是各向量庫後端要補上的部分
type VDBHooks interface {
	SupportedActions() []core.VDBAction
	DoRequest(ctx context.Context, action core.VDBAction, payload map[string]any) *core.RequestResult
}

// VDB 是向量庫 connector 的共同骨架，依 action 選項分派 payload 組裝與請求
type VDB struct {
	base
	hooks VDBHooks
}

func (c *VDB) Unit() core.Unit {
	return core.UnitCount
}

func (c *VDB) HasCustomValue1() bool { return false }
func (c *VDB) HasCustomValue2() bool { return false }

func (c *VDB) ModelsByPurpose() map[core.Purpose][]string {
	models := c.instance.Models
	if len(models) == 0 {
		models = []string{c.instance.Model}
	}
	return map[core.Purpose][]string{
		core.PurposeRAG: models,
	}
}

func (c *VDB) action(opts *core.RequestOptions) core.VDBAction {
	return core.VDBAction(opts.StringOption(core.OptionAction, string(core.VDBActionRetrieve)))
}

func (c *VDB) supports(action core.VDBAction) bool {
	for _, supported := range c.hooks.SupportedActions() {
		if supported == action {
			return true
		}
	}
	return false
}

// PromptData 依操作組 payload；不支援的操作在此即拒絕，不出網
func (c *VDB) PromptData(promptText string, opts *core.RequestOptions) (map[string]any, error) {
	action := c.action(opts)
	if !c.supports(action) {
		return nil, fmt.Errorf("action %q is not supported by this connector", action)
	}

	payload := map[string]any{core.OptionAction: string(action)}
	switch action {
	case core.VDBActionRetrieve:
		payload["query"] = promptText
		payload["topk"] = opts.IntOption(core.OptionTopK, 5)
	case core.VDBActionStore:
		document := opts.MapOption(core.OptionDocument)
		if document == nil {
			return nil, fmt.Errorf("store action requires a document option")
		}
		payload["document"] = document
		if metadata := opts.MapOption(core.OptionMetadata); metadata != nil {
			payload["metadata"] = metadata
		}
	case core.VDBActionDelete, core.VDBActionUpdate:
		id := opts.StringOption(core.OptionRecordID, "")
		if id == "" {
			return nil, fmt.Errorf("%s action requires an id option", action)
		}
		payload["id"] = id
		if action == core.VDBActionUpdate {
			if metadata := opts.MapOption(core.OptionMetadata); metadata != nil {
				payload["metadata"] = metadata
			}
		}
	}
	return payload, nil
}

func (c *VDB) MakeRequest(ctx context.Context, payload map[string]any, opts *core.RequestOptions) *core.RequestResult {
	action, _ := payload[core.OptionAction].(string)
	if !c.supports(core.VDBAction(action)) {
		return core.ResultFromError(http.StatusBadRequest, fmt.Sprintf("action %q is not supported", action), "")
	}
	return c.hooks.DoRequest(ctx, core.VDBAction(action), payload)
}

// ExecuteCompletion 向量庫回應即為最終內容，計量固定一次
func (c *VDB) ExecuteCompletion(raw []byte, opts *core.RequestOptions) *core.PromptResponse {
	return core.PromptResponseFromResult(c.instance.Model, core.Usage{Value: 1}, string(raw))
}
