package handler

import (
	"aihub/internal/core"
	"aihub/internal/middleware"
	cErr "aihub/internal/pkg/error"
	"aihub/internal/pkg/request"
	"aihub/internal/pkg/response"
	"aihub/internal/service"
	"aihub/internal/telemetry"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

type AIHandler struct {
	trace     *telemetry.Trace
	mediators *service.MediatorFactory
	logger    *zap.Logger
}

func NewAIHandler(
	trace *telemetry.Trace,
	mediators *service.MediatorFactory,
	logger *zap.Logger,
) *AIHandler {
	return &AIHandler{
		trace:     trace,
		mediators: mediators,
		logger:    logger,
	}
}

// MediationPayload AI 請求內容
type MediationPayload struct {
	Prompt    string         `json:"prompt" binding:"required"`
	Component string         `json:"component"`
	ContextID int64          `json:"contextId"`
	Options   map[string]any `json:"options"`
}

func (payload MediationPayload) GetMessages() request.ValidatorMessages {
	return request.ValidatorMessages{
		"Prompt.required": "prompt is required",
	}
}

// Perform 處理 AI 請求
// @Summary 執行 AI 請求
// @Description 依 purpose 經過政策閘門後派送至對應的 AI 供應端
// @Tags AI
// @Accept json
// @Produce json
// @Param purpose path string true "請求目的（例如 chat、feedback、itemquestion）"
// @Param payload body MediationPayload true "AI 請求內容"
// @Security BearerAuth
// @Success 200 {object} response.Response{data=core.PromptResponse}
// @Failure 400 {object} cErr.Error "Bad Request"
// @Failure 403 {object} cErr.Error "Forbidden"
// @Failure 404 {object} cErr.Error "Not Found"
// @Failure 429 {object} cErr.Error "Too Many Requests"
// @Failure 500 {object} cErr.Error "Internal Server Error"
// @Router /ai/{purpose} [post]
func (handler *AIHandler) Perform(c *gin.Context) {
	ctx, span, end := handler.trace.WithSpan(c)
	defer end(nil)

	purpose := core.Purpose(c.Param("purpose"))
	span.SetAttributes(attribute.String("ai.purpose", string(purpose)))

	userID := c.GetString(middleware.ContextUserIDKey)
	if userID == "" {
		err := cErr.Unauthorized("missing user identity")
		end(err)
		response.AbortWithError(c, err)
		return
	}

	mediator, ok := handler.mediators.ForPurpose(purpose)
	if !ok {
		err := cErr.NotFound("unknown purpose: " + string(purpose))
		end(err)
		response.AbortWithError(c, err)
		return
	}

	var payload MediationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		end(err)
		response.AbortWithError(c, request.GetError(payload, err))
		return
	}

	result := mediator.PerformRequest(ctx, userID, payload.Prompt, payload.Component, payload.ContextID, payload.Options)
	if result.IsError() {
		err := cErr.MapHttpStatusToError(result.Code, result.ErrorMessage)
		end(err)
		response.AbortWithError(c, err)
		return
	}

	response.Success(c, result)
}

// Purposes 列出可用的請求目的
// @Summary 列出 purpose
// @Tags AI
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]core.Purpose}
// @Router /ai/purposes [get]
func (handler *AIHandler) Purposes(c *gin.Context) {
	response.Success(c, core.AllPurposes())
}
