package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API v1
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	// Открытые маршруты состояния
	api.GET("/system/health", h.healthCheck)
	api.GET("/system/status", h.getStatus)

	// Изменяющие и читающие данные маршруты требуют API-ключ
	protected := api.Group("", APIKeyAuthMiddleware(h.cfg, h.logger))
	{
		protected.POST("/fixes", h.reportFix)
		protected.GET("/locations/:id", h.getLocation)
		protected.POST("/incidents", h.createIncident)
		protected.GET("/incidents/:id", h.getIncident)
		protected.POST("/sync/inbox", h.scanInbox)
	}
}
