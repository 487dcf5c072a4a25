package router

import (
	"aihub/internal/handler"
	"aihub/internal/middleware"

	"github.com/gin-gonic/gin"
)

type AIRouter struct {
	aiHandler      *handler.AIHandler
	userHandler    *handler.UserHandler
	userMiddleware *middleware.User
}

func NewAIRouter(
	aiHandler *handler.AIHandler,
	userHandler *handler.UserHandler,
	userMiddleware *middleware.User,
) *AIRouter {
	return &AIRouter{
		aiHandler:      aiHandler,
		userHandler:    userHandler,
		userMiddleware: userMiddleware,
	}
}

func (aiRouter *AIRouter) RegisterRoutes(engine *gin.Engine) {
	router := engine.Group("/ai")
	router.Use(aiRouter.userMiddleware.Handler())

	router.GET("/purposes", aiRouter.aiHandler.Purposes)
	router.GET("/quota", aiRouter.userHandler.Quota)
	router.POST("/confirm", aiRouter.userHandler.Confirm)
	router.POST("/:purpose", aiRouter.aiHandler.Perform)
}
