package router

import (
	"aihub/internal/handler"

	"github.com/gin-gonic/gin"
)

type AdminRouter struct {
	adminHandler *handler.AdminHandler
}

func NewAdminRouter(
	adminHandler *handler.AdminHandler,
) *AdminRouter {
	return &AdminRouter{
		adminHandler: adminHandler,
	}
}

func (adminRouter *AdminRouter) RegisterRoutes(engine *gin.Engine) {
	router := engine.Group("/admin")

	router.GET("/stats", adminRouter.adminHandler.Stats)
	router.GET("/consumption", adminRouter.adminHandler.Consumption)
	router.POST("/consumption/repair", adminRouter.adminHandler.RepairConsumption)
}
