package handler

import (
	"aihub/internal/middleware"
	cErr "aihub/internal/pkg/error"
	"aihub/internal/pkg/response"
	"aihub/internal/service"
	"aihub/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type UserHandler struct {
	trace  *telemetry.Trace
	users  service.UserDirectory
	stats  *service.StatsService
	logger *zap.Logger
}

func NewUserHandler(
	trace *telemetry.Trace,
	users service.UserDirectory,
	stats *service.StatsService,
	logger *zap.Logger,
) *UserHandler {
	return &UserHandler{
		trace:  trace,
		users:  users,
		stats:  stats,
		logger: logger,
	}
}

// Confirm 記錄使用者已確認使用條款
// @Summary 確認使用條款
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} cErr.Error "Unauthorized"
// @Failure 500 {object} cErr.Error "Internal Server Error"
// @Router /ai/confirm [post]
func (handler *UserHandler) Confirm(c *gin.Context) {
	ctx, _, end := handler.trace.WithSpan(c)
	defer end(nil)

	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		err := cErr.Unauthorized("missing user identity")
		end(err)
		response.AbortWithError(c, err)
		return
	}

	if err := handler.users.Confirm(ctx, userID); err != nil {
		handler.logger.Error("confirm user failed", zap.String("userID", userID), zap.Error(err))
		end(err)
		response.AbortWithError(c, cErr.InternalServer("confirm failed"))
		return
	}

	response.Success(c, gin.H{"confirmed": true})
}

// Quota 查詢使用者各目的之配額狀態
// @Summary 查詢配額
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]service.QuotaInfo}
// @Failure 401 {object} cErr.Error "Unauthorized"
// @Failure 500 {object} cErr.Error "Internal Server Error"
// @Router /ai/quota [get]
func (handler *UserHandler) Quota(c *gin.Context) {
	ctx, _, end := handler.trace.WithSpan(c)
	defer end(nil)

	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		err := cErr.Unauthorized("missing user identity")
		end(err)
		response.AbortWithError(c, err)
		return
	}

	quota, err := handler.stats.UserQuota(ctx, userID)
	if err != nil {
		handler.logger.Error("query quota failed", zap.String("userID", userID), zap.Error(err))
		end(err)
		response.AbortWithError(c, cErr.InternalServer("query quota failed"))
		return
	}

	response.Success(c, quota)
}
