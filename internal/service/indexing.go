package service

import (
	"context"
	"errors"
	"fmt"

	"aihub/config"
	"aihub/internal/core"
	"aihub/internal/service/rag"
)

const systemIndexComponent = "rag_indexer"

// SystemDocumentIndex 以系統身分把文件送進 rag purpose 的 mediation 流程，
// 與使用者請求走同一條閘門、記帳與事件路徑
type SystemDocumentIndex struct {
	mediator *Mediator
	userID   string
}

func NewSystemDocumentIndex(factory *MediatorFactory, conf *config.Configuration) *SystemDocumentIndex {
	mediator, _ := factory.ForPurpose(core.PurposeRAG)
	userID := conf.AI.SystemUserID
	if userID == "" {
		userID = "system"
	}
	return &SystemDocumentIndex{mediator: mediator, userID: userID}
}

func (d *SystemDocumentIndex) IndexDocument(ctx context.Context, document *rag.Document) error {
	if d.mediator == nil {
		return errors.New("rag purpose is not registered")
	}

	result := d.mediator.PerformRequest(ctx, d.userID, document.Content, systemIndexComponent, core.SystemContextID, map[string]any{
		core.OptionAction: string(core.VDBActionStore),
		core.OptionDocument: map[string]any{
			"id":      document.ID,
			"title":   document.Title,
			"content": document.Content,
		},
		core.OptionMetadata: map[string]any{
			"contextId":  document.ContextID,
			"courseId":   document.CourseID,
			"ownerId":    document.OwnerID,
			"modifiedAt": document.ModifiedAt.UTC(),
		},
	})
	if result.IsError() {
		return fmt.Errorf("store request failed (%d): %s", result.Code, result.ErrorMessage)
	}
	return nil
}
