package handler

import (
	cErr "aihub/internal/pkg/error"
	"aihub/internal/pkg/response"
	"aihub/internal/service"
	"aihub/internal/service/consumption"
	"aihub/internal/telemetry"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	trace   *telemetry.Trace
	stats   *service.StatsService
	tracker *consumption.Tracker
	logger  *zap.Logger
}

func NewAdminHandler(
	trace *telemetry.Trace,
	stats *service.StatsService,
	tracker *consumption.Tracker,
	logger *zap.Logger,
) *AdminHandler {
	return &AdminHandler{
		trace:   trace,
		stats:   stats,
		tracker: tracker,
		logger:  logger,
	}
}

// sinceParam 解析 since 查詢參數，預設為 30 天前
func sinceParam(c *gin.Context) (time.Time, *cErr.Error) {
	raw := c.Query("since")
	if raw == "" {
		return time.Now().AddDate(0, 0, -30), nil
	}
	since, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, cErr.ValidateErr("since must be RFC3339")
	}
	return since, nil
}

// Stats 依 purpose 與 model 彙總用量
// @Summary 用量統計
// @Tags Admin
// @Produce json
// @Param since query string false "起始時間（RFC3339，預設 30 天前）"
// @Success 200 {object} response.Response{data=[]service.StatsRow}
// @Failure 400 {object} cErr.Error "Bad Request"
// @Failure 500 {object} cErr.Error "Internal Server Error"
// @Router /admin/stats [get]
func (handler *AdminHandler) Stats(c *gin.Context) {
	ctx, _, end := handler.trace.WithSpan(c)
	defer end(nil)

	since, cerr := sinceParam(c)
	if cerr != nil {
		end(cerr)
		response.AbortWithError(c, cerr)
		return
	}

	rows, err := handler.stats.Overview(ctx, since)
	if err != nil {
		handler.logger.Error("stats overview failed", zap.Error(err))
		end(err)
		response.AbortWithError(c, cErr.InternalServer("stats query failed"))
		return
	}

	response.Success(c, rows)
}

// Consumption 查詢期間內的外部 API 消耗總額
// @Summary 消耗總額
// @Tags Admin
// @Produce json
// @Param since query string false "起始時間（RFC3339，預設 30 天前）"
// @Success 200 {object} response.Response
// @Failure 400 {object} cErr.Error "Bad Request"
// @Failure 500 {object} cErr.Error "Internal Server Error"
// @Router /admin/consumption [get]
func (handler *AdminHandler) Consumption(c *gin.Context) {
	ctx, _, end := handler.trace.WithSpan(c)
	defer end(nil)

	since, cerr := sinceParam(c)
	if cerr != nil {
		end(cerr)
		response.AbortWithError(c, cerr)
		return
	}

	total, err := handler.tracker.TotalSince(ctx, since)
	if err != nil {
		handler.logger.Error("consumption total failed", zap.Error(err))
		end(err)
		response.AbortWithError(c, cErr.InternalServer("consumption query failed"))
		return
	}

	response.Success(c, gin.H{"since": since, "totalInCent": total})
}

// RepairConsumption 重建消耗紀錄中的彙整樣本
// @Summary 修復消耗紀錄
// @Tags Admin
// @Produce json
// @Param dryRun query bool false "僅檢查不寫入"
// @Success 200 {object} response.Response{data=consumption.RepairStats}
// @Failure 500 {object} cErr.Error "Internal Server Error"
// @Router /admin/consumption/repair [post]
func (handler *AdminHandler) RepairConsumption(c *gin.Context) {
	ctx, _, end := handler.trace.WithSpan(c)
	defer end(nil)

	dryRun := c.Query("dryRun") == "true"
	stats, err := handler.tracker.Repair(ctx, dryRun)
	if err != nil {
		handler.logger.Error("consumption repair failed", zap.Error(err))
		end(err)
		response.AbortWithError(c, cErr.InternalServer("consumption repair failed"))
		return
	}

	response.Success(c, stats)
}
