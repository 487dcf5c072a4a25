package command

import (
	"context"

	"aihub/internal/service/consumption"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type RepairConsumptionHandler struct {
	tracker *consumption.Tracker
	logger  *zap.Logger
}

func NewRepairConsumptionHandler(tracker *consumption.Tracker, logger *zap.Logger) *RepairConsumptionHandler {
	return &RepairConsumptionHandler{
		tracker: tracker,
		logger:  logger,
	}
}

// Run 重建消耗樣本的彙整紀錄；dryRun 只檢查不寫入
func (handler *RepairConsumptionHandler) Run(cmd *cobra.Command, dryRun bool) error {
	stats, err := handler.tracker.Repair(context.Background(), dryRun)
	if err != nil {
		handler.logger.Error("consumption repair failed", zap.Error(err))
		return err
	}

	if stats.DryRun {
		cmd.Println("dry-run：未寫入任何變更")
	}
	cmd.Printf("examined=%d existing=%d rebuilt=%d removed=%d inserted=%d changed=%v\n",
		stats.Examined, stats.ExistingAggregates, stats.RebuiltAggregates,
		stats.Removed, stats.Inserted, stats.Changed)
	return nil
}
