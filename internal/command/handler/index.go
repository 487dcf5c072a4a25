package command

import (
	"context"
	"errors"
	"time"

	"aihub/internal/service/rag"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type IndexHandler struct {
	indexer *rag.Indexer
	logger  *zap.Logger
}

func NewIndexHandler(indexer *rag.Indexer, logger *zap.Logger) *IndexHandler {
	return &IndexHandler{
		indexer: indexer,
		logger:  logger,
	}
}

// Run 執行一輪索引；full 會重掃所有內容，不能與時間預算並用
func (handler *IndexHandler) Run(cmd *cobra.Command, full bool, timeLimitSeconds int64) error {
	timeLimit := time.Duration(timeLimitSeconds) * time.Second

	stats, err := handler.indexer.Index(context.Background(), full, timeLimit)
	if err != nil {
		if errors.Is(err, rag.ErrFullIndexWithTimeLimit) {
			cmd.PrintErrln("--full 不能與 --timelimit 並用")
			return err
		}
		handler.logger.Error("index run failed", zap.Error(err))
		return err
	}

	cmd.Printf("areas=%d documents=%d skipped=%d stopped=%v\n",
		stats.Areas, stats.Documents, stats.Skipped, stats.Stopped)
	return nil
}
