package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/mati-gonz/control-obras-dasco-api/internal/handlers"
)

// RegisterRoutes registers the HTTP API under /api/v1.
func RegisterRoutes(router *gin.Engine, appHandlers *handlers.AppHandlers) {
	api := router.Group("/api/v1")
	{
		appHandlers.UserHandler.RegisterRoutes(api)
		appHandlers.WorkHandler.RegisterRoutes(api)
		appHandlers.SubgroupHandler.RegisterRoutes(api)
		appHandlers.PartHandler.RegisterRoutes(api)
		appHandlers.ExpenseHandler.RegisterRoutes(api)
	}
}
